package prediction

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/oxygene76/orbittracker/internal/types"
	"github.com/oxygene76/orbittracker/pkg/telemetry"
)

func TestPredictRecordsSpans(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	o := Orchestrator{Tracer: telemetry.NewTracerFromProvider(tp, "test")}

	if _, err := o.Predict(context.Background(), sirius(), Options{TimeSteps: 5}); err != nil {
		t.Fatal(err)
	}

	spans := map[string]sdktrace.ReadOnlySpan{}
	for _, s := range rec.Ended() {
		spans[s.Name()] = s
	}
	for _, name := range []string{"prediction.predict", "prediction.propagate", "prediction.uncertainty"} {
		if _, ok := spans[name]; !ok {
			t.Errorf("missing span %s", name)
		}
	}
	root := spans["prediction.predict"]
	if root == nil {
		t.FailNow()
	}
	if root.Status().Code != codes.Ok {
		t.Errorf("root status = %v", root.Status())
	}
	if child := spans["prediction.propagate"]; child != nil && child.Parent().SpanID() != root.SpanContext().SpanID() {
		t.Error("propagate span is not a child of predict")
	}
}

func TestPredictSpanRecordsValidationError(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	o := Orchestrator{Tracer: telemetry.NewTracerFromProvider(tp, "test")}

	star := sirius()
	star.Parallax = types.Float(-1)
	if _, err := o.Predict(context.Background(), star, Options{}); err == nil {
		t.Fatal("expected validation error")
	}

	ended := rec.Ended()
	if len(ended) != 1 {
		t.Fatalf("got %d spans, want 1", len(ended))
	}
	if ended[0].Status().Code != codes.Error {
		t.Errorf("status = %v", ended[0].Status())
	}
}
