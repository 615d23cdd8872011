package scheduler

import (
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the periodic check job on a cron schedule. The schedule is
// user-editable at runtime, so it can be restarted with a new expression
// without touching the rest of the process.
type Scheduler struct {
	run func()

	mu   sync.Mutex
	cron *cron.Cron
	spec string
}

func New(run func()) *Scheduler {
	return &Scheduler{run: run}
}

// Validate checks a cron expression without starting anything.
func Validate(spec string) error {
	_, err := cron.ParseStandard(spec)
	return err
}

// Start begins running the job on the given schedule, replacing any
// previous schedule.
func (s *Scheduler) Start(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		s.cron.Stop()
	}

	c := cron.New()
	if _, err := c.AddFunc(spec, s.run); err != nil {
		return err
	}
	c.Start()

	s.cron = c
	s.spec = spec
	log.Printf("Scheduler started with schedule %q", spec)
	return nil
}

// Restart switches to a new schedule; a no-op when the expression is
// unchanged.
func (s *Scheduler) Restart(spec string) error {
	s.mu.Lock()
	current := s.spec
	s.mu.Unlock()
	if current == spec {
		return nil
	}
	return s.Start(spec)
}

// Stop halts scheduling. Safe to call when not started.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		s.cron.Stop()
		s.cron = nil
		s.spec = ""
		log.Println("Scheduler stopped")
	}
}

// Spec returns the active cron expression, empty when stopped.
func (s *Scheduler) Spec() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spec
}
