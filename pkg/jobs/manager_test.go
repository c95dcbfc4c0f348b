package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	errorsmod "cosmossdk.io/errors"

	"github.com/oxygene76/orbittracker/internal/types"
	"github.com/oxygene76/orbittracker/pkg/prediction"
)

// fakeRunner returns a canned result, fails for stars named "bad", panics
// for "panic" and blocks on release for "slow" until its context ends.
type fakeRunner struct {
	mu      sync.Mutex
	calls   int
	started chan string
}

func (f *fakeRunner) Predict(ctx context.Context, star types.StarRecord, opts prediction.Options) (*types.PredictionResult, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.started != nil {
		f.started <- star.Name
	}

	switch star.Name {
	case "bad":
		return nil, errorsmod.Wrap(types.ErrValidation, "parallax must be positive")
	case "panic":
		panic("boom")
	case "slow":
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return &types.PredictionResult{Star: star, TimeSteps: opts.TimeSteps}, nil
}

func star(name string) types.StarRecord {
	return types.StarRecord{Name: name}
}

func wait(t *testing.T, m *Manager, id string) Job {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	j, err := m.Wait(ctx, id)
	if err != nil {
		t.Fatalf("wait %s: %v", id, err)
	}
	return j
}

func TestManagerRunsJobs(t *testing.T) {
	m := NewManager(&fakeRunner{}, 10, 3, nil)
	defer m.Shutdown(time.Second)

	tests := []struct {
		name   string
		status Status
	}{
		{"Sirius", StatusCompleted},
		{"bad", StatusFailed},
		{"panic", StatusFailed},
		{"Vega", StatusCompleted},
	}

	ids := make([]string, len(tests))
	for i, tt := range tests {
		j, err := m.Submit(star(tt.name), prediction.Options{TimeSteps: 7})
		if err != nil {
			t.Fatal(err)
		}
		if j.Status != StatusQueued {
			t.Errorf("new job status = %s", j.Status)
		}
		ids[i] = j.ID
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := wait(t, m, ids[i])
			if j.Status != tt.status {
				t.Fatalf("status = %s, want %s (error %q)", j.Status, tt.status, j.Error)
			}
			if j.CompletedAt == nil || j.StartedAt == nil || j.Duration == "" {
				t.Errorf("timing not recorded: %+v", j)
			}
			if tt.status == StatusCompleted && (j.Result == nil || j.Result.TimeSteps != 7) {
				t.Errorf("result = %+v", j.Result)
			}
			if tt.status == StatusFailed && j.Error == "" {
				t.Error("failed job has no error")
			}
		})
	}

	stats := m.Statistics()
	if stats.TotalJobs != 4 || stats.CompletedJobs != 2 || stats.FailedJobs != 2 {
		t.Errorf("statistics = %+v", stats)
	}
	if got := m.List(StatusFailed); len(got) != 2 {
		t.Errorf("List(failed) returned %d jobs", len(got))
	}
	all := m.List("")
	for i, j := range all {
		if j.ID != ids[i] {
			t.Errorf("List order [%d] = %s, want %s", i, j.ID, ids[i])
		}
	}
}

func TestManagerCancel(t *testing.T) {
	r := &fakeRunner{started: make(chan string, 4)}
	m := NewManager(r, 10, 1, nil)
	defer m.Shutdown(time.Second)

	running, err := m.Submit(star("slow"), prediction.Options{})
	if err != nil {
		t.Fatal(err)
	}
	<-r.started

	queued, err := m.Submit(star("Sirius"), prediction.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if qs := m.QueueStatus(); qs.Queued != 1 || qs.ActiveWorkers != 1 {
		t.Errorf("queue status = %+v", qs)
	}

	if err := m.Cancel(queued.ID); err != nil {
		t.Fatal(err)
	}
	if j := wait(t, m, queued.ID); j.Status != StatusCancelled || j.StartedAt != nil {
		t.Errorf("queued job after cancel: %+v", j)
	}

	if err := m.Cancel(running.ID); err != nil {
		t.Fatal(err)
	}
	if j := wait(t, m, running.ID); j.Status != StatusCancelled {
		t.Errorf("running job after cancel: %s", j.Status)
	}

	if err := m.Cancel(running.ID); err == nil {
		t.Error("cancelling a finished job should fail")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.calls != 1 {
		t.Errorf("runner called %d times, want 1", r.calls)
	}
}

func TestManagerLimitsAndLookup(t *testing.T) {
	r := &fakeRunner{started: make(chan string, 4)}
	m := NewManager(r, 2, 1, nil)
	defer m.Shutdown(time.Second)

	a, _ := m.Submit(star("slow"), prediction.Options{})
	<-r.started
	if _, err := m.Submit(star("slow"), prediction.Options{}); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Submit(star("Sirius"), prediction.Options{}); err == nil {
		t.Error("expected the job limit to reject a third job")
	}

	if _, err := m.Get("predict-99"); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("Get unknown job: %v", err)
	}
	if err := m.Cancel("predict-99"); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("Cancel unknown job: %v", err)
	}

	if err := m.Cancel(a.ID); err != nil {
		t.Fatal(err)
	}
	wait(t, m, a.ID)
	if n := m.CleanupCompleted(0); n != 1 {
		t.Errorf("cleanup removed %d jobs, want 1", n)
	}
}

func TestManagerShutdown(t *testing.T) {
	r := &fakeRunner{started: make(chan string, 4)}
	m := NewManager(r, 10, 1, nil)

	running, _ := m.Submit(star("slow"), prediction.Options{})
	<-r.started
	queued, _ := m.Submit(star("Sirius"), prediction.Options{})

	if err := m.Shutdown(5 * time.Second); err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{running.ID, queued.ID} {
		if j, _ := m.Get(id); j.Status != StatusCancelled {
			t.Errorf("%s status after shutdown = %s", id, j.Status)
		}
	}
	if _, err := m.Submit(star("Vega"), prediction.Options{}); err == nil {
		t.Error("submit after shutdown should fail")
	}
}

func TestManagerWithOrchestrator(t *testing.T) {
	m := NewManager(&prediction.Orchestrator{}, 4, 2, nil)
	defer m.Shutdown(time.Second)

	sirius := types.StarRecord{
		Name:           "Sirius",
		RA:             types.Float(101.287),
		Dec:            types.Float(-16.716),
		Parallax:       types.Float(379.21),
		PMRA:           types.Float(-546.01),
		PMDec:          types.Float(-1223.07),
		RadialVelocity: types.Float(-5.5),
	}
	j, err := m.Submit(sirius, prediction.Options{TimeSteps: 10, SkipUncertainty: true})
	if err != nil {
		t.Fatal(err)
	}
	done := wait(t, m, j.ID)
	if done.Status != StatusCompleted {
		t.Fatalf("status = %s (%s)", done.Status, done.Error)
	}
	if len(done.Result.Predictions) != 11 {
		t.Errorf("got %d points, want 11", len(done.Result.Predictions))
	}
}
