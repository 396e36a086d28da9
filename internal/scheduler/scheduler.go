package scheduler

import (
	"freightdesk/internal/service"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler owns the cron runner for background sweeps. Each entry is a
// short-lived invocation; overlap protection comes from the workflows'
// own dedup checks, not from the scheduler.
type Scheduler struct {
	cron *cron.Cron
	log  *zap.Logger
}

func New(log *zap.Logger) *Scheduler {
	return &Scheduler{cron: cron.New(), log: log}
}

// AddDelayScan registers the overdue sweep on the given cron schedule.
func (s *Scheduler) AddDelayScan(schedule string, scan *service.DelayScanService) error {
	if schedule == "" {
		s.log.Info("delay scan scheduler disabled")
		return nil
	}
	_, err := s.cron.AddFunc(schedule, func() {
		if _, err := scan.Run(); err != nil {
			s.log.Error("scheduled delay scan failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}
	s.log.Info("delay scan scheduled", zap.String("schedule", schedule))
	return nil
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop halts scheduling; running jobs finish on their own.
func (s *Scheduler) Stop() { s.cron.Stop() }
