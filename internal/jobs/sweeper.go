package jobs

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/avlebedev/finops-service/internal/service"
)

// Sweeper runs the scheduled overdue sweep
type Sweeper struct {
	svc      *service.Service
	log      *logrus.Logger
	schedule string
	cron     *cron.Cron
}

// NewSweeper initializes the sweeper with a cron schedule expression
func NewSweeper(svc *service.Service, log *logrus.Logger, schedule string) *Sweeper {
	return &Sweeper{svc: svc, log: log, schedule: schedule}
}

// Start registers and launches the cron job
func (s *Sweeper) Start() error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.schedule, s.run); err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", s.schedule, err)
	}
	s.cron.Start()
	s.log.Infof("Overdue sweep scheduled: %s", s.schedule)
	return nil
}

// Stop halts the cron scheduler and waits for a running sweep to finish
func (s *Sweeper) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

func (s *Sweeper) run() {
	if err := s.svc.SweepOverdue(); err != nil {
		s.log.Errorf("Overdue sweep failed: %v", err)
	}
}
