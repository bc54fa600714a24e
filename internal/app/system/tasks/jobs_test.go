package tasks_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AashishRichhariya/openleaf/internal/app/system/tasks"
	"go.uber.org/zap"
)

type countingSweeper struct{ calls int }

func (s *countingSweeper) Sweep() int {
	s.calls++
	return 2
}

type stubPinger struct{ err error }

func (p *stubPinger) Ping(context.Context) error { return p.err }

func TestPageCacheSweepJob(t *testing.T) {
	sweeper := &countingSweeper{}
	job := tasks.PageCacheSweepJob(sweeper, time.Minute, zap.NewNop())

	if job.Name != "pagecache-sweep" || job.Interval != time.Minute {
		t.Errorf("job = %q every %v", job.Name, job.Interval)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if sweeper.calls != 1 {
		t.Errorf("Sweep() calls = %d, want 1", sweeper.calls)
	}
}

func TestStoreWatchJob(t *testing.T) {
	pinger := &stubPinger{}
	job := tasks.StoreWatchJob(pinger, time.Minute, time.Second, zap.NewNop())

	if err := job.Run(context.Background()); err != nil {
		t.Errorf("Run() healthy error = %v", err)
	}

	down := errors.New("connection refused")
	pinger.err = down
	for i := 0; i < 2; i++ {
		if err := job.Run(context.Background()); !errors.Is(err, down) {
			t.Errorf("Run() error = %v, want %v", err, down)
		}
	}

	pinger.err = nil
	if err := job.Run(context.Background()); err != nil {
		t.Errorf("Run() recovered error = %v", err)
	}
}
