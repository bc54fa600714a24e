// internal/app/system/tasks/runner.go
package tasks

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// ErrUnknownJob is returned by RunOnce for a name that was never registered.
var ErrUnknownJob = errors.New("unknown job")

// Job is a background task run once at start and then every Interval.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Runner executes registered jobs until stopped.
type Runner struct {
	logger  *zap.Logger
	jobs    []Job
	wg      sync.WaitGroup
	cancel  context.CancelFunc
	running atomic.Int32
	active  sync.Map // job name -> struct{} while executing
}

// New creates a new task runner.
func New(logger *zap.Logger) *Runner {
	return &Runner{logger: logger}
}

// Register adds a job. Jobs registered after Start are not run.
func (r *Runner) Register(job Job) {
	r.jobs = append(r.jobs, job)
}

// Names returns the registered job names in registration order.
func (r *Runner) Names() []string {
	names := make([]string, 0, len(r.jobs))
	for _, j := range r.jobs {
		names = append(names, j.Name)
	}
	return names
}

// Start launches one goroutine per registered job.
func (r *Runner) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	for _, job := range r.jobs {
		r.wg.Add(1)
		go r.loop(ctx, job)
	}

	r.logger.Info("background task runner started",
		zap.Strings("jobs", r.Names()))
}

// Stop cancels all jobs and waits for them until ctx is done.
// It returns ctx.Err() if jobs are still running at the deadline.
func (r *Runner) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("background task runner stopped")
		return nil
	case <-ctx.Done():
		var still []string
		r.active.Range(func(key, _ any) bool {
			still = append(still, key.(string))
			return true
		})
		r.logger.Warn("background task runner shutdown timed out",
			zap.Strings("jobs_still_running", still),
			zap.Int32("running_count", r.running.Load()))
		return ctx.Err()
	}
}

func (r *Runner) loop(ctx context.Context, job Job) {
	defer r.wg.Done()

	r.execute(ctx, job)

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Debug("job stopped", zap.String("job", job.Name))
			return
		case <-ticker.C:
			r.execute(ctx, job)
		}
	}
}

func (r *Runner) execute(ctx context.Context, job Job) {
	r.running.Add(1)
	r.active.Store(job.Name, struct{}{})
	defer func() {
		r.running.Add(-1)
		r.active.Delete(job.Name)
	}()

	start := time.Now()
	err := job.Run(ctx)
	switch {
	case err == nil:
		r.logger.Debug("job completed",
			zap.String("job", job.Name),
			zap.Duration("duration", time.Since(start)))
	case ctx.Err() != nil:
		// Cancelled by Stop; not a failure.
		r.logger.Debug("job cancelled during shutdown", zap.String("job", job.Name))
	default:
		r.logger.Error("job failed",
			zap.String("job", job.Name),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
	}
}

// RunOnce executes the named job immediately on the caller's goroutine.
func (r *Runner) RunOnce(ctx context.Context, name string) error {
	for _, job := range r.jobs {
		if job.Name == name {
			return job.Run(ctx)
		}
	}
	return ErrUnknownJob
}
