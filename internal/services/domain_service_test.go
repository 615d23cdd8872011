package services

import (
	"errors"
	"testing"
	"time"

	"domainwatch/internal/models"
	"domainwatch/internal/repository"
	"domainwatch/internal/validators"
)

func TestDomainService_Create(t *testing.T) {
	env := newTestEnv(t)
	svc := NewDomainService(env.domainRepo)

	domain, err := svc.Create("  Example.COM.  ", "prod site", true)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if domain.Name != "example.com" {
		t.Errorf("name = %q, want normalized example.com", domain.Name)
	}
	if domain.Status != models.StatusUnknown {
		t.Errorf("status = %q, want unknown", domain.Status)
	}

	// Duplicate, in any case form.
	if _, err := svc.Create("EXAMPLE.com", "", true); !errors.Is(err, ErrDomainExists) {
		t.Errorf("duplicate error = %v, want ErrDomainExists", err)
	}

	if _, err := svc.Create("not a domain", "", true); !errors.Is(err, validators.ErrInvalidDomain) {
		t.Errorf("invalid name error = %v, want ErrInvalidDomain", err)
	}
}

func TestDomainService_Update(t *testing.T) {
	env := newTestEnv(t)
	svc := NewDomainService(env.domainRepo)

	domain, err := svc.Create("example.com", "old notes", true)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	disabled := false
	updated, err := svc.Update(domain.ID, nil, &disabled)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Enabled {
		t.Error("domain should be disabled")
	}
	if updated.Notes != "old notes" {
		t.Errorf("nil notes must leave notes untouched, got %q", updated.Notes)
	}

	notes := "new notes"
	updated, err = svc.Update(domain.ID, &notes, nil)
	if err != nil {
		t.Fatalf("Update notes: %v", err)
	}
	if updated.Notes != "new notes" || updated.Enabled {
		t.Errorf("updated = %+v", updated)
	}

	if _, err := svc.Update(9999, &notes, nil); !errors.Is(err, ErrDomainNotFound) {
		t.Errorf("Update missing error = %v, want ErrDomainNotFound", err)
	}
}

func TestDomainService_ExportImportRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	svc := NewDomainService(env.domainRepo)

	if _, err := svc.Create("one.com", "first", true); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create("two.com", "", false); err != nil {
		t.Fatalf("Create: %v", err)
	}

	file, err := svc.Export()
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if file.Version != models.ExportFileVersion {
		t.Errorf("version = %d", file.Version)
	}
	if len(file.Domains) != 2 {
		t.Fatalf("exported %d domains, want 2", len(file.Domains))
	}

	// Import into a fresh database.
	env2 := newTestEnv(t)
	svc2 := NewDomainService(env2.domainRepo)

	imported, skipped, err := svc2.Import(file.Domains)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if imported != 2 || skipped != 0 {
		t.Errorf("imported=%d skipped=%d", imported, skipped)
	}

	two, err := svc2.GetByName("two.com")
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}
	if two.Enabled {
		t.Error("enabled flag not preserved through export/import")
	}

	// A wrong file version is rejected outright.
	if _, _, err := svc2.ImportFile(&models.DomainExportFile{Version: 99, Domains: file.Domains}); !errors.Is(err, ErrImportBadVersion) {
		t.Errorf("ImportFile version error = %v, want ErrImportBadVersion", err)
	}

	// Importing again skips everything; a bad entry is skipped too.
	entries := append(file.Domains, models.DomainExportEntry{Domain: "!!bad!!"})
	imported, skipped, err = svc2.Import(entries)
	if err != nil {
		t.Fatalf("re-Import: %v", err)
	}
	if imported != 0 || skipped != 3 {
		t.Errorf("re-import imported=%d skipped=%d, want 0/3", imported, skipped)
	}
}

func TestDomainService_Stats(t *testing.T) {
	env := newTestEnv(t)
	svc := NewDomainService(env.domainRepo)

	if _, err := svc.Create("a.com", "", true); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create("b.com", "", false); err != nil {
		t.Fatalf("Create: %v", err)
	}

	stats, err := svc.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Total != 2 || stats.Enabled != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.ByStatus[models.StatusUnknown] != 2 {
		t.Errorf("by_status = %v", stats.ByStatus)
	}
	if len(stats.ExpiringSoon) != 0 {
		t.Errorf("expiring_soon = %v, want empty", stats.ExpiringSoon)
	}
}

func TestDomainService_StatsExpiringSoon(t *testing.T) {
	env := newTestEnv(t)
	svc := NewDomainService(env.domainRepo)

	near := time.Now().UTC().AddDate(0, 0, 5)
	far := time.Now().UTC().AddDate(0, 0, 25)
	for _, d := range []struct {
		name   string
		expiry *time.Time
		status models.Status
	}{
		{"far.com", &far, models.StatusExpiringSoon},
		{"near.com", &near, models.StatusExpiringSoon},
		{"fine.com", nil, models.StatusActive},
	} {
		created, err := svc.Create(d.name, "", true)
		if err != nil {
			t.Fatalf("Create %s: %v", d.name, err)
		}
		err = env.domainRepo.UpdateWhoisFields(created.ID, repository.WhoisFields{
			ExpiryDate:  d.expiry,
			LastChecked: time.Now().UTC(),
			Status:      d.status,
		})
		if err != nil {
			t.Fatalf("UpdateWhoisFields %s: %v", d.name, err)
		}
	}

	stats, err := svc.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if len(stats.ExpiringSoon) != 2 {
		t.Fatalf("expiring_soon count = %d, want 2", len(stats.ExpiringSoon))
	}
	if stats.ExpiringSoon[0].Name != "near.com" {
		t.Errorf("soonest first: got %s", stats.ExpiringSoon[0].Name)
	}
}
