package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/daway0/pors/internal/config"
	"github.com/daway0/pors/internal/service/session"
)

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	sessions *session.Manager
	cfg      config.Config
	logger   *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.Config, sessions *session.Manager, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:     cron.New(),
		sessions: sessions,
		cfg:      cfg,
		logger:   logger,
	}
}

// Start starts the scheduler.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler")

	_, err := s.cron.AddFunc(s.cfg.Refresh.CronSchedule, s.refreshSessions)
	if err != nil {
		s.logger.Error("failed to schedule calendar refresh", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

// refreshSessions re-syncs the viewed month of every live session so stock
// counters and orders placed from other devices converge without a reload.
func (s *Scheduler) refreshSessions() {
	active := s.sessions.Active()
	if len(active) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	s.logger.Info("refreshing live sessions", zap.Int("count", len(active)))
	for _, sess := range active {
		if err := sess.Resync(ctx); errors.Is(err, session.ErrSessionNotOpen) {
			continue
		} else if err != nil {
			s.logger.Warn("session refresh failed",
				zap.String("user", sess.Username()),
				zap.Error(err))
		}
	}
}
