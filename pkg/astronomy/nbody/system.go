package nbody

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
)

// SnapshotSink receives system states during integration
type SnapshotSink interface {
	OnStart(totalSteps int, snapEvery int) error
	OnSnapshot(tYears float64, bodies []Body) error
	OnEnd(finalTYears float64) error
	Close() error
}

// JSONLSnapshotWriter writes one JSON object per snapshot line
type JSONLSnapshotWriter struct {
	c  io.Closer
	bw *bufio.Writer
}

type jsonlSnapshot struct {
	TimeYears float64 `json:"time_years"`
	Energy    float64 `json:"energy,omitempty"`
	Bodies    []Body  `json:"bodies"`
}

// NewJSONLSnapshotWriter creates (or truncates) path and writes snapshots to it
func NewJSONLSnapshotWriter(path string) (*JSONLSnapshotWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &JSONLSnapshotWriter{c: f, bw: bufio.NewWriter(f)}, nil
}

// NewJSONLSnapshotStream writes snapshots to w; Close does not close w
func NewJSONLSnapshotStream(w io.Writer) *JSONLSnapshotWriter {
	return &JSONLSnapshotWriter{bw: bufio.NewWriter(w)}
}

func (w *JSONLSnapshotWriter) OnStart(totalSteps int, snapEvery int) error { return nil }

func (w *JSONLSnapshotWriter) OnSnapshot(tYears float64, bodies []Body) error {
	sys := System{Bodies: bodies, G: NewSystem().G}
	rec := jsonlSnapshot{TimeYears: tYears, Energy: sys.TotalEnergy(), Bodies: bodies}
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if _, err := w.bw.Write(b); err != nil {
		return err
	}
	return w.bw.WriteByte('\n')
}

func (w *JSONLSnapshotWriter) OnEnd(finalTYears float64) error { return w.bw.Flush() }

func (w *JSONLSnapshotWriter) Close() error {
	if w.bw != nil {
		_ = w.bw.Flush()
	}
	if w.c != nil {
		return w.c.Close()
	}
	return nil
}
