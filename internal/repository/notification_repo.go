package repository

import (
	"database/sql"
	"time"

	"domainwatch/internal/database"
	"domainwatch/internal/models"
)

type NotificationLogRepository struct {
	db *database.DB
}

func NewNotificationLogRepository(db *database.DB) *NotificationLogRepository {
	return &NotificationLogRepository{db: db}
}

// Create appends an immutable log entry. Entries are never updated or
// deleted; they only disappear via cascade when the domain is removed.
func (r *NotificationLogRepository) Create(entry *models.NotificationLogEntry) error {
	if entry.SentAt.IsZero() {
		entry.SentAt = time.Now().UTC()
	}
	result, err := r.db.Exec(`
		INSERT INTO notification_log (domain_id, channel, threshold_days, message, sent_at, success, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, entry.DomainID, entry.Channel, entry.ThresholdDays, entry.Message,
		entry.SentAt, entry.Success, nullIfEmpty(entry.Error))
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	entry.ID = id
	return nil
}

// HasSuccess reports whether a successful entry exists for the
// (domain, threshold) pair. This is the idempotency lookup: a positive
// answer means the pair must never fire again.
func (r *NotificationLogRepository) HasSuccess(domainID int64, thresholdDays int) (bool, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM notification_log
		WHERE domain_id = ? AND threshold_days = ? AND success = 1
	`, domainID, thresholdDays).Scan(&count)
	return count > 0, err
}

func (r *NotificationLogRepository) List(limit, offset int) ([]*models.NotificationLogEntry, error) {
	return r.list(`
		SELECT id, domain_id, channel, threshold_days, message, sent_at, success, error
		FROM notification_log
		ORDER BY sent_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
}

func (r *NotificationLogRepository) ListByDomain(domainID int64, limit, offset int) ([]*models.NotificationLogEntry, error) {
	return r.list(`
		SELECT id, domain_id, channel, threshold_days, message, sent_at, success, error
		FROM notification_log
		WHERE domain_id = ?
		ORDER BY sent_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, domainID, limit, offset)
}

func (r *NotificationLogRepository) list(query string, args ...any) ([]*models.NotificationLogEntry, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.NotificationLogEntry
	for rows.Next() {
		entry := &models.NotificationLogEntry{}
		var errMsg sql.NullString
		err := rows.Scan(
			&entry.ID, &entry.DomainID, &entry.Channel, &entry.ThresholdDays,
			&entry.Message, &entry.SentAt, &entry.Success, &errMsg,
		)
		if err != nil {
			return nil, err
		}
		entry.SentAt = entry.SentAt.UTC()
		entry.Error = errMsg.String
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *NotificationLogRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM notification_log`).Scan(&count)
	return count, err
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
