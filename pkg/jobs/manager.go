// Package jobs runs prediction jobs on a fixed pool of workers.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	errorsmod "cosmossdk.io/errors"

	"github.com/oxygene76/orbittracker/internal/types"
	"github.com/oxygene76/orbittracker/pkg/prediction"
	"github.com/oxygene76/orbittracker/pkg/telemetry"
)

// Status represents the status of a prediction job
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether the job has finished
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// Runner performs one prediction; *prediction.Orchestrator satisfies it
type Runner interface {
	Predict(ctx context.Context, star types.StarRecord, opts prediction.Options) (*types.PredictionResult, error)
}

// Job is a snapshot of a prediction job
type Job struct {
	ID      string                  `json:"id"`
	Star    string                  `json:"star"`
	Options prediction.Options      `json:"options"`
	Status  Status                  `json:"status"`
	Result  *types.PredictionResult `json:"result,omitempty"`
	Error   string                  `json:"error,omitempty"`

	SubmittedAt time.Time  `json:"submitted_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Duration    string     `json:"duration,omitempty"`
}

type job struct {
	Job
	star   types.StarRecord
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// Manager queues prediction jobs and runs them on its workers
type Manager struct {
	runner  Runner
	log     *telemetry.Logger
	maxJobs int
	workers int

	mu      sync.RWMutex
	jobs    map[string]*job
	counter int64
	active  int
	running int
	closed  bool

	queue    chan *job
	shutdown chan struct{}
	wg       sync.WaitGroup
}

// NewManager starts workers goroutines that accept at most maxJobs queued
// or running jobs at a time.
func NewManager(runner Runner, maxJobs, workers int, log *telemetry.Logger) *Manager {
	if workers < 1 {
		workers = 1
	}
	if maxJobs < 1 {
		maxJobs = 1
	}
	if log == nil {
		log = telemetry.Nop()
	}
	m := &Manager{
		runner:   runner,
		log:      log.NewComponentLogger("jobs"),
		maxJobs:  maxJobs,
		workers:  workers,
		jobs:     make(map[string]*job),
		queue:    make(chan *job, maxJobs),
		shutdown: make(chan struct{}),
	}

	for i := 0; i < workers; i++ {
		m.wg.Add(1)
		go m.worker()
	}
	return m
}

func (m *Manager) worker() {
	defer m.wg.Done()

	for {
		select {
		case <-m.shutdown:
			return
		case j := <-m.queue:
			m.process(j)
		}
	}
}

// Submit queues a prediction for star
func (m *Manager) Submit(star types.StarRecord, opts prediction.Options) (Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return Job{}, fmt.Errorf("job manager is shut down")
	}
	if m.active >= m.maxJobs {
		return Job{}, fmt.Errorf("maximum concurrent jobs reached (%d)", m.maxJobs)
	}

	ctx, cancel := context.WithCancel(context.Background())
	j := &job{
		Job: Job{
			ID:          fmt.Sprintf("predict-%d", m.counter+1),
			Star:        star.Name,
			Options:     opts,
			Status:      StatusQueued,
			SubmittedAt: time.Now(),
		},
		star:   star,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	// jobs cancelled while queued still occupy a slot until a worker drains them
	select {
	case m.queue <- j:
	default:
		cancel()
		return Job{}, fmt.Errorf("job queue is full")
	}
	m.counter++
	m.jobs[j.ID] = j
	m.active++
	m.log.Debugf("queued %s for %s", j.ID, star.Name)
	return j.Job, nil
}

func (m *Manager) process(j *job) {
	m.mu.Lock()
	if j.Status != StatusQueued {
		m.mu.Unlock()
		return
	}
	now := time.Now()
	j.Status = StatusRunning
	j.StartedAt = &now
	m.running++
	m.mu.Unlock()

	result, err := m.run(j)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.running--
	switch {
	case err == nil:
		j.Result = result
		m.finish(j, StatusCompleted)
	case j.ctx.Err() != nil && errors.Is(err, context.Canceled):
		m.finish(j, StatusCancelled)
	default:
		j.Error = err.Error()
		m.finish(j, StatusFailed)
		m.log.WithError(err).Warnf("%s for %s failed", j.ID, j.Star)
	}
}

func (m *Manager) run(j *job) (result *types.PredictionResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return m.runner.Predict(j.ctx, j.star, j.Options)
}

// finish moves j to a terminal status; m.mu must be held
func (m *Manager) finish(j *job, status Status) {
	now := time.Now()
	j.Status = status
	j.CompletedAt = &now
	if j.StartedAt != nil {
		j.Duration = now.Sub(*j.StartedAt).String()
	}
	j.cancel()
	m.active--
	close(j.done)
}

// Get returns a snapshot of the job with id
func (m *Manager) Get(id string) (Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	j, ok := m.jobs[id]
	if !ok {
		return Job{}, errorsmod.Wrapf(types.ErrNotFound, "job %s", id)
	}
	return j.Job, nil
}

// Wait blocks until the job finishes or ctx is done
func (m *Manager) Wait(ctx context.Context, id string) (Job, error) {
	m.mu.RLock()
	j, ok := m.jobs[id]
	m.mu.RUnlock()
	if !ok {
		return Job{}, errorsmod.Wrapf(types.ErrNotFound, "job %s", id)
	}

	select {
	case <-j.done:
	case <-ctx.Done():
		return Job{}, ctx.Err()
	}
	return m.Get(id)
}

// List returns all jobs in submission order, filtered by status when set
func (m *Manager) List(status Status) []Job {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Job
	for _, j := range m.jobs {
		if status != "" && j.Status != status {
			continue
		}
		out = append(out, j.Job)
	}
	sort.Slice(out, func(a, b int) bool {
		if !out[a].SubmittedAt.Equal(out[b].SubmittedAt) {
			return out[a].SubmittedAt.Before(out[b].SubmittedAt)
		}
		return jobNumber(out[a].ID) < jobNumber(out[b].ID)
	})
	return out
}

func jobNumber(id string) int64 {
	var n int64
	fmt.Sscanf(id, "predict-%d", &n)
	return n
}

// Cancel stops a queued or running job
func (m *Manager) Cancel(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, ok := m.jobs[id]
	if !ok {
		return errorsmod.Wrapf(types.ErrNotFound, "job %s", id)
	}
	if j.Status.Terminal() {
		return fmt.Errorf("cannot cancel job in status: %s", j.Status)
	}

	if j.Status == StatusQueued {
		m.finish(j, StatusCancelled)
		return nil
	}
	// the worker records the cancellation when Predict returns
	j.cancel()
	return nil
}

// CleanupCompleted removes finished jobs submitted more than maxAge ago
func (m *Manager) CleanupCompleted(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for id, j := range m.jobs {
		if j.Status.Terminal() && j.SubmittedAt.Before(cutoff) {
			delete(m.jobs, id)
			removed++
		}
	}
	return removed
}

// QueueStatus represents the state of the job queue
type QueueStatus struct {
	Queued        int `json:"queued"`
	ActiveWorkers int `json:"active_workers"`
	MaxWorkers    int `json:"max_workers"`
}

// QueueStatus returns the current queue depth and worker use
func (m *Manager) QueueStatus() QueueStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return QueueStatus{
		Queued:        m.active - m.running,
		ActiveWorkers: m.running,
		MaxWorkers:    m.workers,
	}
}

// Statistics represents job manager statistics
type Statistics struct {
	TotalJobs     int `json:"total_jobs"`
	QueuedJobs    int `json:"queued_jobs"`
	RunningJobs   int `json:"running_jobs"`
	CompletedJobs int `json:"completed_jobs"`
	FailedJobs    int `json:"failed_jobs"`
	CancelledJobs int `json:"cancelled_jobs"`
}

// Statistics counts the tracked jobs by status
func (m *Manager) Statistics() Statistics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := Statistics{TotalJobs: len(m.jobs)}
	for _, j := range m.jobs {
		switch j.Status {
		case StatusQueued:
			stats.QueuedJobs++
		case StatusRunning:
			stats.RunningJobs++
		case StatusCompleted:
			stats.CompletedJobs++
		case StatusFailed:
			stats.FailedJobs++
		case StatusCancelled:
			stats.CancelledJobs++
		}
	}
	return stats
}

// Shutdown stops accepting jobs, cancels everything still queued or running
// and waits up to timeout for the workers to exit.
func (m *Manager) Shutdown(timeout time.Duration) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	for _, j := range m.jobs {
		switch j.Status {
		case StatusQueued:
			m.finish(j, StatusCancelled)
		case StatusRunning:
			j.cancel()
		}
	}
	m.mu.Unlock()
	close(m.shutdown)

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("shutdown timeout exceeded")
	}
}
