package watch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/blogkit/internal/logfields"
)

// scheduler wraps gocron for the periodic update check.
type scheduler struct {
	s gocron.Scheduler
}

func newScheduler() (*scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	return &scheduler{s: s}, nil
}

func (s *scheduler) start() {
	slog.Debug("Starting scheduler")
	s.s.Start()
}

func (s *scheduler) stop() error {
	slog.Debug("Stopping scheduler")
	return s.s.Shutdown()
}

// scheduleUpdateCheck runs check every interval; overlapping runs are skipped.
func (s *scheduler) scheduleUpdateCheck(ctx context.Context, interval time.Duration, check func(context.Context) error) error {
	_, err := s.s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			slog.Info("Running scheduled update check")
			if err := check(ctx); err != nil {
				slog.Warn("Scheduled update check failed", logfields.Error(err))
			}
		}),
		gocron.WithName("update-check"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create update check job: %w", err)
	}
	return nil
}
