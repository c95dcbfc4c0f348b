package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestLoggerWritesJSONFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerWithWriter(LoggingConfig{Level: "debug", Format: "json"}, &buf).
		NewComponentLogger("prediction").
		WithField("star", "Sirius")

	log.WithError(errors.New("boom")).Warn("fell back")

	var rec map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("bad log line %q: %v", buf.String(), err)
	}
	for k, want := range map[string]string{
		"component": "prediction",
		"star":      "Sirius",
		"error":     "boom",
		"level":     "warn",
		"message":   "fell back",
	} {
		if rec[k] != want {
			t.Errorf("%s = %v, want %q", k, rec[k], want)
		}
	}
}

func TestLoggerLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerWithWriter(LoggingConfig{Level: "warn"}, &buf)
	log.Info("hidden")
	log.Debugf("hidden %d", 1)
	if buf.Len() != 0 {
		t.Errorf("info leaked at warn level: %q", buf.String())
	}
	log.Errorf("shown %d", 2)
	if !strings.Contains(buf.String(), "shown 2") {
		t.Errorf("error not logged: %q", buf.String())
	}
}

func TestMetricsRecord(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	m.RecordPrediction("standard", "success", 10*time.Millisecond)
	m.RecordPrediction("standard", "success", 20*time.Millisecond)
	m.RecordPrediction("high_fidelity", "validation_error", 0)
	m.AddKeplerFallbacks(3)
	m.AddSamplesDropped(0)

	if got := testutil.ToFloat64(m.predictions.WithLabelValues("standard", "success")); got != 2 {
		t.Errorf("standard successes = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.keplerFallbacks); got != 3 {
		t.Errorf("kepler fallbacks = %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.samplesDropped); got != 0 {
		t.Errorf("samples dropped = %v, want 0", got)
	}

	path := filepath.Join(t.TempDir(), "orbittracker.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "orbittracker_predictions_total") {
		t.Errorf("textfile missing counter:\n%s", data)
	}
}

func TestDisabledMetricsAreNoops(t *testing.T) {
	for _, m := range []*Metrics{nil, NewMetrics(MetricsConfig{})} {
		m.RecordPrediction("standard", "success", time.Second)
		m.AddKeplerFallbacks(1)
		m.AddSamplesDropped(1)
		if err := m.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")); err != nil {
			t.Errorf("disabled WriteTextfile: %v", err)
		}
		if m.Registry() != nil {
			t.Error("disabled metrics expose a registry")
		}
	}
}

func TestMetricsHandlerServesRegistry(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true, Namespace: "orbittracker"})
	m.RecordPrediction("standard", "success", 10*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `orbittracker_predictions_total{mode="standard",outcome="success"} 1`) {
		t.Errorf("unexpected exposition:\n%s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	NewMetrics(MetricsConfig{}).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("disabled handler status = %d", rec.Code)
	}
}
