package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"domainwatch/internal/models"
	"domainwatch/internal/repository"
	"domainwatch/internal/whois"
)

// WhoisLookup is the normalizer boundary the checker depends on.
type WhoisLookup interface {
	Lookup(name string) *whois.Record
}

// CheckerService runs expiry checks over the tracked population: one
// sequential worker per run, a run-level lock so concurrent triggers cannot
// interleave WHOIS traffic, and a fixed delay between queries to respect
// upstream rate limits.
type CheckerService struct {
	domainRepo    *repository.DomainRepository
	notifications *NotificationService
	whois         WhoisLookup
	delay         time.Duration

	mu      sync.Mutex
	running atomic.Bool
}

func NewCheckerService(domainRepo *repository.DomainRepository, notifications *NotificationService, lookup WhoisLookup, delay time.Duration) *CheckerService {
	return &CheckerService{
		domainRepo:    domainRepo,
		notifications: notifications,
		whois:         lookup,
		delay:         delay,
	}
}

// DomainResult is the per-domain outcome within a run summary.
type DomainResult struct {
	Domain     string        `json:"domain"`
	Status     models.Status `json:"status"`
	ExpiryDate *time.Time    `json:"expiry_date,omitempty"`
	DaysLeft   *int          `json:"days_left,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// CheckSummary is the structured result of a run. It is returned even when
// individual domains failed; only run-level precondition failures surface
// as errors.
type CheckSummary struct {
	RunID        string         `json:"run_id"`
	StartedAt    time.Time      `json:"started_at"`
	FinishedAt   time.Time      `json:"finished_at"`
	CheckedCount int            `json:"checked"`
	Results      []DomainResult `json:"results"`
}

// Running reports whether a check run is currently in flight.
func (s *CheckerService) Running() bool {
	return s.running.Load()
}

// CheckAll checks every enabled domain once. Overlapping invocations are
// rejected with ErrCheckInProgress rather than queued. The enabled set is
// snapshotted at run start; domains added mid-run wait for the next run.
// Cancelling ctx stops the run at the next domain boundary; progress
// already persisted is retained and the partial summary is returned along
// with the context error.
func (s *CheckerService) CheckAll(ctx context.Context) (*CheckSummary, error) {
	if !s.mu.TryLock() {
		return nil, ErrCheckInProgress
	}
	defer s.mu.Unlock()
	s.running.Store(true)
	defer s.running.Store(false)

	domains, err := s.domainRepo.ListEnabled()
	if err != nil {
		return nil, fmt.Errorf("list enabled domains: %w", err)
	}

	summary := &CheckSummary{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
	log.Printf("Check run %s started: %d domain(s)", summary.RunID, len(domains))

	for i, domain := range domains {
		if i > 0 {
			// Inter-request delay between domains, not before the first
			// or after the last.
			if err := sleepContext(ctx, s.delay); err != nil {
				summary.FinishedAt = time.Now().UTC()
				return summary, err
			}
		}
		if err := ctx.Err(); err != nil {
			summary.FinishedAt = time.Now().UTC()
			return summary, err
		}

		result := s.checkDomain(domain, true)
		summary.Results = append(summary.Results, result)
		summary.CheckedCount++
	}

	summary.FinishedAt = time.Now().UTC()
	log.Printf("Check run %s finished: %d domain(s) in %s",
		summary.RunID, summary.CheckedCount, summary.FinishedAt.Sub(summary.StartedAt).Round(time.Millisecond))
	return summary, nil
}

// CheckDomain re-checks a single domain immediately and returns its updated
// record. Single-domain checks persist fresh WHOIS data but do not send
// notifications; only full runs notify.
func (s *CheckerService) CheckDomain(id int64) (*models.Domain, error) {
	domain, err := s.domainRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	s.checkDomain(domain, false)
	return s.domainRepo.GetByID(id)
}

// checkDomain runs the per-domain pipeline: lookup, classify, persist
// unconditionally, then notify. A lookup failure is recorded as the
// domain's status and never aborts the caller's loop.
func (s *CheckerService) checkDomain(domain *models.Domain, notify bool) DomainResult {
	rec := s.whois.Lookup(domain.Name)
	now := time.Now().UTC()

	var daysLeft *int
	var status models.Status
	if rec.Error != "" {
		status = models.StatusError
	} else {
		if rec.ExpiryDate != nil {
			days := models.DaysUntilExpiry(*rec.ExpiryDate, now)
			daysLeft = &days
		}
		status = models.StatusForDays(daysLeft)
	}

	// Persisted even on error so the error status and timestamp are
	// visible.
	err := s.domainRepo.UpdateWhoisFields(domain.ID, repository.WhoisFields{
		Registrar:    rec.Registrar,
		CreationDate: rec.CreationDate,
		ExpiryDate:   rec.ExpiryDate,
		LastChecked:  now,
		WhoisRaw:     rec.Raw,
		Status:       status,
	})
	if err != nil {
		log.Printf("Failed to persist check result for %s: %v", domain.Name, err)
	}

	if notify && rec.Error == "" && rec.ExpiryDate != nil && daysLeft != nil {
		domain.ExpiryDate = rec.ExpiryDate
		if err := s.notifications.Process(domain, *daysLeft); err != nil {
			log.Printf("Notification processing failed for %s: %v", domain.Name, err)
		}
	}

	return DomainResult{
		Domain:     domain.Name,
		Status:     status,
		ExpiryDate: rec.ExpiryDate,
		DaysLeft:   daysLeft,
		Error:      rec.Error,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
