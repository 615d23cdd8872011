package repository

import (
	"errors"
	"testing"
	"time"

	"domainwatch/internal/models"
)

func TestDomainRepository_CreateAndGet(t *testing.T) {
	repo := NewDomainRepository(testDB(t))

	domain := &models.Domain{Name: "example.com", Notes: "prod", Enabled: true}
	if err := repo.Create(domain); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if domain.ID == 0 {
		t.Error("Create did not set ID")
	}
	if domain.Status != models.StatusUnknown {
		t.Errorf("new domain status = %q, want %q", domain.Status, models.StatusUnknown)
	}

	got, err := repo.GetByID(domain.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "example.com" || got.Notes != "prod" || !got.Enabled {
		t.Errorf("GetByID = %+v", got)
	}
	if got.ExpiryDate != nil || got.LastChecked != nil {
		t.Error("unchecked domain should have nil expiry and last_checked")
	}

	byName, err := repo.GetByName("example.com")
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}
	if byName.ID != domain.ID {
		t.Errorf("GetByName ID = %d, want %d", byName.ID, domain.ID)
	}

	if _, err := repo.GetByName("missing.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByName(missing) error = %v, want ErrNotFound", err)
	}
}

func TestDomainRepository_DuplicateName(t *testing.T) {
	repo := NewDomainRepository(testDB(t))

	if err := repo.Create(&models.Domain{Name: "example.com", Enabled: true}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(&models.Domain{Name: "example.com", Enabled: true}); err == nil {
		t.Error("duplicate name should violate the unique constraint")
	}
}

func TestDomainRepository_UpdateWhoisFields(t *testing.T) {
	repo := NewDomainRepository(testDB(t))

	domain := &models.Domain{Name: "example.com", Enabled: true}
	if err := repo.Create(domain); err != nil {
		t.Fatalf("Create: %v", err)
	}

	expiry := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	creation := time.Date(1995, 8, 14, 0, 0, 0, 0, time.UTC)
	checked := time.Now().UTC().Truncate(time.Second)

	err := repo.UpdateWhoisFields(domain.ID, WhoisFields{
		Registrar:    "Example Registrar",
		CreationDate: &creation,
		ExpiryDate:   &expiry,
		LastChecked:  checked,
		WhoisRaw:     "Domain Name: EXAMPLE.COM",
		Status:       models.StatusActive,
	})
	if err != nil {
		t.Fatalf("UpdateWhoisFields: %v", err)
	}

	got, err := repo.GetByID(domain.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Registrar != "Example Registrar" {
		t.Errorf("registrar = %q", got.Registrar)
	}
	if got.ExpiryDate == nil || !got.ExpiryDate.Equal(expiry) {
		t.Errorf("expiry = %v, want %v", got.ExpiryDate, expiry)
	}
	if got.CreationDate == nil || !got.CreationDate.Equal(creation) {
		t.Errorf("creation = %v, want %v", got.CreationDate, creation)
	}
	if got.LastChecked == nil {
		t.Error("last_checked not set")
	}
	if got.Status != models.StatusActive {
		t.Errorf("status = %q", got.Status)
	}

	// A failed check clears nothing by itself; the caller decides what to
	// write. Writing nil dates must null the columns.
	err = repo.UpdateWhoisFields(domain.ID, WhoisFields{
		LastChecked: time.Now().UTC(),
		Status:      models.StatusError,
	})
	if err != nil {
		t.Fatalf("UpdateWhoisFields (error state): %v", err)
	}
	got, _ = repo.GetByID(domain.ID)
	if got.ExpiryDate != nil {
		t.Error("expiry should be nulled when the update carries no date")
	}
	if got.Status != models.StatusError {
		t.Errorf("status = %q, want error", got.Status)
	}
}

func TestDomainRepository_ListEnabled(t *testing.T) {
	repo := NewDomainRepository(testDB(t))

	for _, d := range []*models.Domain{
		{Name: "b-enabled.com", Enabled: true},
		{Name: "a-enabled.com", Enabled: true},
		{Name: "disabled.com", Enabled: false},
	} {
		if err := repo.Create(d); err != nil {
			t.Fatalf("Create %s: %v", d.Name, err)
		}
	}

	enabled, err := repo.ListEnabled()
	if err != nil {
		t.Fatalf("ListEnabled: %v", err)
	}
	if len(enabled) != 2 {
		t.Fatalf("ListEnabled count = %d, want 2", len(enabled))
	}
	// Name-ordered
	if enabled[0].Name != "a-enabled.com" || enabled[1].Name != "b-enabled.com" {
		t.Errorf("ListEnabled order = %s, %s", enabled[0].Name, enabled[1].Name)
	}

	all, err := repo.ListAll()
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("ListAll count = %d, want 3", len(all))
	}
}

func TestDomainRepository_DeleteCascades(t *testing.T) {
	db := testDB(t)
	repo := NewDomainRepository(db)
	logRepo := NewNotificationLogRepository(db)

	domain := &models.Domain{Name: "example.com", Enabled: true}
	if err := repo.Create(domain); err != nil {
		t.Fatalf("Create: %v", err)
	}
	err := logRepo.Create(&models.NotificationLogEntry{
		DomainID:      domain.ID,
		Channel:       models.ChannelEmail,
		ThresholdDays: 30,
		Message:       "test",
		Success:       true,
	})
	if err != nil {
		t.Fatalf("log Create: %v", err)
	}

	if err := repo.Delete(domain.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	count, err := logRepo.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 0 {
		t.Errorf("log entries after cascade delete = %d, want 0", count)
	}

	if err := repo.Delete(domain.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete error = %v, want ErrNotFound", err)
	}
}

func TestDomainRepository_CountByStatus(t *testing.T) {
	repo := NewDomainRepository(testDB(t))

	for _, d := range []*models.Domain{
		{Name: "a.com", Status: models.StatusActive, Enabled: true},
		{Name: "b.com", Status: models.StatusActive, Enabled: true},
		{Name: "c.com", Status: models.StatusExpired, Enabled: true},
	} {
		if err := repo.Create(d); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	counts, err := repo.CountByStatus()
	if err != nil {
		t.Fatalf("CountByStatus: %v", err)
	}
	if counts[models.StatusActive] != 2 || counts[models.StatusExpired] != 1 {
		t.Errorf("counts = %v", counts)
	}
}
