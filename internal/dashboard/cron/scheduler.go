package cronjob

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Warmer refreshes the dashboard cache.
type Warmer interface {
	WarmCache(ctx context.Context) (int, error)
}

type Scheduler struct {
	warmer   Warmer
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
}

// NewScheduler creates a scheduler running the warmer on schedule, a
// six-field cron expression with seconds.
func NewScheduler(warmer Warmer, schedule string) *Scheduler {
	return &Scheduler{
		warmer:   warmer,
		schedule: schedule,
		timeout:  time.Minute,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
	}
}

// Start registers the warm job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.run); err != nil {
		return fmt.Errorf("failed to create cron job: %w", err)
	}

	slog.Info("cron scheduler started", "job", "cache-warm", "schedule", s.schedule)
	s.cron.Start()
	return nil
}

// Stop stops scheduling and returns a context done once a running job ends.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := RunOnce(ctx, s.warmer); err != nil {
		slog.Error("cache warm failed", "error", err)
	}
}

// RunOnce warms the cache once and logs the outcome.
func RunOnce(ctx context.Context, warmer Warmer) error {
	start := time.Now()
	n, err := warmer.WarmCache(ctx)
	if err != nil {
		return err
	}
	slog.Info("cache warm completed", "projects", n, "took", time.Since(start))
	return nil
}
