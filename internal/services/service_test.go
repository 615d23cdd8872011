package services

import (
	"path/filepath"
	"testing"

	"domainwatch/internal/database"
	"domainwatch/internal/repository"
)

type testEnv struct {
	db            *database.DB
	domainRepo    *repository.DomainRepository
	logRepo       *repository.NotificationLogRepository
	settings      *SettingsService
	notifications *NotificationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(filepath.Join("..", "..", "migrations")); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	domainRepo := repository.NewDomainRepository(db)
	logRepo := repository.NewNotificationLogRepository(db)
	settings := NewSettingsService(repository.NewSettingsRepository(db))

	return &testEnv{
		db:            db,
		domainRepo:    domainRepo,
		logRepo:       logRepo,
		settings:      settings,
		notifications: NewNotificationService(settings, logRepo),
	}
}
