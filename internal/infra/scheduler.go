package infra

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"stocksim/internal/service"
)

// auditTimeout bounds one full audit pass
const auditTimeout = 5 * time.Minute

// Scheduler runs the ledger audit on a cron schedule
type Scheduler struct {
	cron     *cron.Cron
	audit    *service.AuditService
	schedule string
}

// NewScheduler creates a scheduler that audits the ledger on the given
// cron schedule (e.g. "@hourly")
func NewScheduler(audit *service.AuditService, schedule string) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		audit:    audit,
		schedule: schedule,
	}
}

// Start registers the audit job and starts the cron loop
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		if err := s.RunNow(); err != nil {
			log.Printf("ERROR: Scheduled ledger audit failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("[OK] Ledger audit scheduled (%s)", s.schedule)
	return nil
}

// RunNow runs one audit pass immediately
func (s *Scheduler) RunNow() error {
	ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
	defer cancel()

	_, err := s.audit.AuditAll(ctx)
	return err
}

// Stop stops the scheduler gracefully
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[OK] Scheduler stopped")
}
