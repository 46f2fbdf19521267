// Package queue runs background jobs so HTTP handlers never wait on
// slow side effects. Order placement dispatches its confirmation email
// through here:
//
//	queue.Register("jobs.OrderConfirmationJob", func() queue.Job {
//	    return &jobs.OrderConfirmationJob{}
//	})
//	queue.Dispatch(jobs.OrderConfirmationJob{OrderID: order.ID})
//
// Jobs travel through the driver as JSON, so a job struct must carry
// everything Handle needs in exported fields.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/shashiranjanraj/vastra/pkg/logger"
	"github.com/shashiranjanraj/vastra/pkg/metrics"
)

// Job is a unit of background work.
type Job interface {
	Handle() error
}

// FailedJob records a job that exhausted its retries.
type FailedJob struct {
	Job      Job
	Err      error
	FailedAt time.Time
	Attempts int
}

// Driver moves serialized jobs between Dispatch and the workers.
type Driver interface {
	Push(payload []byte) error
	Pop(ctx context.Context) ([]byte, error)
}

// envelope wraps a job payload with the type name workers use to
// pick the right constructor on the other side.
type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Manager owns the driver, the job-type registry, and the failed list.
type Manager struct {
	mu       sync.RWMutex
	driver   Driver
	registry map[string]func() Job
	failed   []FailedJob
	maxRetry int
}

var defaultManager = &Manager{
	registry: map[string]func() Job{},
	maxRetry: 3,
	driver:   NewMemoryDriver(),
}

// SetDriver swaps the queue backend, e.g. for Redis in production.
func SetDriver(d Driver) {
	defaultManager.mu.Lock()
	defaultManager.driver = d
	defaultManager.mu.Unlock()
}

// SetMaxRetry sets how many attempts a job gets before it is parked
// in the failed list.
func SetMaxRetry(n int) { defaultManager.maxRetry = n }

// Register binds a type name to a constructor so workers can rebuild
// the job from its envelope. Call once at boot per job type.
func Register(name string, factory func() Job) {
	defaultManager.mu.Lock()
	defaultManager.registry[name] = factory
	defaultManager.mu.Unlock()
}

// jobName is the registry key for a job value, e.g. "*jobs.OrderConfirmationJob".
func jobName(job Job) string { return fmt.Sprintf("%T", job) }

// Dispatch serializes job and pushes it onto the queue.
func Dispatch(job Job) error {
	name := jobName(job)
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("queue: marshal %s: %w", name, err)
	}
	env, err := json.Marshal(envelope{Type: name, Payload: payload})
	if err != nil {
		return fmt.Errorf("queue: marshal envelope for %s: %w", name, err)
	}
	return defaultManager.currentDriver().Push(env)
}

// DispatchAfter dispatches job once delay has elapsed. The timer lives
// in this process; a restart before it fires loses the job.
func DispatchAfter(job Job, delay time.Duration) {
	time.AfterFunc(delay, func() {
		if err := Dispatch(job); err != nil {
			logger.Error("queue: delayed dispatch failed", "type", jobName(job), "error", err)
		}
	})
}

func (m *Manager) currentDriver() Driver {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.driver
}

// StartWorkers launches n workers that pull and run jobs until ctx is
// cancelled.
func StartWorkers(ctx context.Context, n int) {
	for i := 0; i < n; i++ {
		go defaultManager.work(ctx)
	}
	logger.Info("queue: workers started", "count", n)
}

func (m *Manager) work(ctx context.Context) {
	for ctx.Err() == nil {
		raw, err := m.currentDriver().Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}
		if raw == nil {
			continue
		}
		m.run(raw)
	}
}

// run decodes one envelope and executes the job with retries.
func (m *Manager) run(raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logger.Error("queue: bad envelope", "error", err)
		return
	}

	m.mu.RLock()
	factory, ok := m.registry[env.Type]
	m.mu.RUnlock()
	if !ok {
		logger.Warn("queue: unregistered job type", "type", env.Type)
		return
	}

	job := factory()
	if err := json.Unmarshal(env.Payload, job); err != nil {
		logger.Error("queue: unmarshal payload", "type", env.Type, "error", err)
		return
	}

	var lastErr error
	for attempt := 1; attempt <= m.maxRetry; attempt++ {
		if lastErr = job.Handle(); lastErr == nil {
			metrics.QueueJobsProcessed.WithLabelValues(env.Type, "ok").Inc()
			logger.Info("queue: job processed", "type", env.Type, "attempt", attempt)
			return
		}
		logger.Warn("queue: job failed",
			"type", env.Type, "attempt", attempt, "error", lastErr)
		if attempt < m.maxRetry {
			time.Sleep(backoff(attempt))
		}
	}

	m.persistFailed(job, env.Type, lastErr, m.maxRetry)
	metrics.QueueJobsProcessed.WithLabelValues(env.Type, "failed").Inc()
	logger.Error("queue: job exhausted retries", "type", env.Type, "error", lastErr)
}

// backoff grows linearly with the attempt number, capped at 10s.
func backoff(attempt int) time.Duration {
	d := time.Duration(attempt) * time.Second
	if d > 10*time.Second {
		d = 10 * time.Second
	}
	return d
}

// FailedJobs returns a copy of the in-memory failed list.
func FailedJobs() []FailedJob {
	defaultManager.mu.RLock()
	defer defaultManager.mu.RUnlock()
	out := make([]FailedJob, len(defaultManager.failed))
	copy(out, defaultManager.failed)
	return out
}
