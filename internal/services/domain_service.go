package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"domainwatch/internal/models"
	"domainwatch/internal/repository"
	"domainwatch/internal/validators"
)

type DomainService struct {
	domainRepo *repository.DomainRepository
}

func NewDomainService(domainRepo *repository.DomainRepository) *DomainService {
	return &DomainService{domainRepo: domainRepo}
}

// Create registers a new tracked domain. The name is normalized and the
// domain starts with status unknown until its first check.
func (s *DomainService) Create(name, notes string, enabled bool) (*models.Domain, error) {
	name = validators.NormalizeDomain(name)
	if err := validators.ValidateDomain(name); err != nil {
		return nil, err
	}

	if _, err := s.domainRepo.GetByName(name); err == nil {
		return nil, ErrDomainExists
	}

	domain := &models.Domain{
		Name:    name,
		Status:  models.StatusUnknown,
		Notes:   notes,
		Enabled: enabled,
	}
	if err := s.domainRepo.Create(domain); err != nil {
		return nil, fmt.Errorf("create domain: %w", err)
	}
	return domain, nil
}

func (s *DomainService) GetByID(id int64) (*models.Domain, error) {
	domain, err := s.domainRepo.GetByID(id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrDomainNotFound
	}
	return domain, err
}

func (s *DomainService) GetByName(name string) (*models.Domain, error) {
	domain, err := s.domainRepo.GetByName(validators.NormalizeDomain(name))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrDomainNotFound
	}
	return domain, err
}

func (s *DomainService) List() ([]*models.Domain, error) {
	return s.domainRepo.ListAll()
}

// Update changes the user-owned fields only. WHOIS-derived fields and
// status belong to the checker.
func (s *DomainService) Update(id int64, notes *string, enabled *bool) (*models.Domain, error) {
	domain, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if notes != nil {
		domain.Notes = *notes
	}
	if enabled != nil {
		domain.Enabled = *enabled
	}
	if err := s.domainRepo.UpdateMeta(domain.ID, domain.Notes, domain.Enabled); err != nil {
		return nil, fmt.Errorf("update domain: %w", err)
	}
	return s.GetByID(id)
}

// Delete removes a domain; its notification log goes with it via cascade.
func (s *DomainService) Delete(id int64) error {
	err := s.domainRepo.Delete(id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrDomainNotFound
	}
	return err
}

// Export produces the portable domain list. WHOIS-derived data is not
// exported; it is rebuilt by checks after import.
func (s *DomainService) Export() (*models.DomainExportFile, error) {
	domains, err := s.domainRepo.ListAll()
	if err != nil {
		return nil, err
	}

	file := &models.DomainExportFile{
		Version:    models.ExportFileVersion,
		ExportedAt: time.Now().UTC(),
		Domains:    make([]models.DomainExportEntry, 0, len(domains)),
	}
	for _, d := range domains {
		enabled := d.Enabled
		file.Domains = append(file.Domains, models.DomainExportEntry{
			Domain:  d.Name,
			Notes:   d.Notes,
			Enabled: &enabled,
		})
	}
	return file, nil
}

// ImportFile validates a full export file and imports its entries.
func (s *DomainService) ImportFile(file *models.DomainExportFile) (imported, skipped int, err error) {
	if file.Version != models.ExportFileVersion {
		return 0, 0, ErrImportBadVersion
	}
	return s.Import(file.Domains)
}

// Import adds the entries that are new; invalid names and existing domains
// are counted as skipped.
func (s *DomainService) Import(entries []models.DomainExportEntry) (imported, skipped int, err error) {
	for _, entry := range entries {
		enabled := true
		if entry.Enabled != nil {
			enabled = *entry.Enabled
		}
		_, err := s.Create(entry.Domain, entry.Notes, enabled)
		switch {
		case err == nil:
			imported++
		case errors.Is(err, ErrDomainExists) || errors.Is(err, validators.ErrInvalidDomain):
			skipped++
		default:
			return imported, skipped, err
		}
	}
	return imported, skipped, nil
}

// Stats summarizes the tracked population for the dashboard. ExpiringSoon
// lists the domains that need attention, soonest expiry first.
type Stats struct {
	Total        int                   `json:"total"`
	Enabled      int                   `json:"enabled"`
	ByStatus     map[models.Status]int `json:"by_status"`
	ExpiringSoon []*models.Domain      `json:"expiring_soon"`
}

func (s *DomainService) Stats() (*Stats, error) {
	domains, err := s.domainRepo.ListAll()
	if err != nil {
		return nil, err
	}
	counts, err := s.domainRepo.CountByStatus()
	if err != nil {
		return nil, err
	}

	stats := &Stats{Total: len(domains), ByStatus: counts, ExpiringSoon: []*models.Domain{}}
	for _, d := range domains {
		if d.Enabled {
			stats.Enabled++
		}
		if d.Status == models.StatusExpiringSoon || d.Status == models.StatusExpired {
			stats.ExpiringSoon = append(stats.ExpiringSoon, d)
		}
	}
	sort.Slice(stats.ExpiringSoon, func(i, j int) bool {
		a, b := stats.ExpiringSoon[i].ExpiryDate, stats.ExpiringSoon[j].ExpiryDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
	return stats, nil
}
