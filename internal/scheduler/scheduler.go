package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// runTimeout bounds a single reminder run
const runTimeout = 5 * time.Minute

// ReminderJob sends the periodic payment reminders
type ReminderJob interface {
	SendReminders(ctx context.Context) (int, error)
}

// Scheduler runs the reminder job on a cron schedule
type Scheduler struct {
	cron *cron.Cron
	job  ReminderJob
	log  *logrus.Logger
}

// NewScheduler registers job under spec, a standard five-field cron expression
func NewScheduler(spec string, loc *time.Location, job ReminderJob, log *logrus.Logger) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	s := &Scheduler{
		cron: cron.New(cron.WithLocation(loc)),
		job:  job,
		log:  log,
	}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("invalid reminder schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	sent, err := s.job.SendReminders(ctx)
	if err != nil {
		s.log.Errorf("Reminder run failed after %d emails: %v", sent, err)
		return
	}
	s.log.Infof("Reminder run sent %d emails", sent)
}

// Start begins running the job in the background
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Infof("Reminder scheduler started, next run at %s", s.cron.Entries()[0].Next.Format(time.RFC3339))
}

// Stop halts the schedule and waits for a running job to finish or ctx to expire
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn("Reminder scheduler did not stop in time")
	}
}
