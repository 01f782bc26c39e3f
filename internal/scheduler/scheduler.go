package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/i474232898/snowdesk/internal/store"
)

// Refresher runs one refresh cycle.
type Refresher interface {
	Refresh(ctx context.Context) (*store.Snapshot, error)
}

// Scheduler periodically triggers refresh cycles.
type Scheduler struct {
	scheduler *gocron.Scheduler
	refresher Refresher
	interval  time.Duration
	cron      string
	logger    *zap.SugaredLogger
}

// New creates a new Scheduler. A non-empty cronExpr takes precedence over interval.
func New(refresher Refresher, interval time.Duration, cronExpr string, logger *zap.SugaredLogger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		refresher: refresher,
		interval:  interval,
		cron:      cronExpr,
		logger:    logger.With("component", "scheduler"),
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// The first run happens one period after Start; callers trigger the startup
// cycle themselves.
func (s *Scheduler) Start() error {
	var job *gocron.Scheduler
	if s.cron != "" {
		job = s.scheduler.Cron(s.cron)
		s.logger.Infow("scheduling refresh", "cron", s.cron)
	} else {
		interval := s.interval
		if interval <= 0 {
			interval = 30 * time.Minute
		}
		job = s.scheduler.Every(interval).WaitForSchedule()
		s.logger.Infow("scheduling refresh", "interval", interval)
	}

	if _, err := job.Do(s.run); err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) run() {
	s.logger.Debug("running scheduled refresh")

	snap, err := s.refresher.Refresh(context.Background())
	if err != nil {
		s.logger.Errorw("scheduled refresh failed", "error", err)
		return
	}
	s.logger.Infow("scheduled refresh completed", "resorts", snap.Count, "cycle_id", snap.CycleID)
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
