package repository

import (
	"database/sql"
	"errors"
	"time"

	"domainwatch/internal/database"
	"domainwatch/internal/models"
)

const domainColumns = `id, name, registrar, creation_date, expiry_date, last_checked, whois_raw, status, notes, enabled, created_at, updated_at`

type DomainRepository struct {
	db *database.DB
}

func NewDomainRepository(db *database.DB) *DomainRepository {
	return &DomainRepository{db: db}
}

func scanDomain(row interface{ Scan(...any) error }) (*models.Domain, error) {
	d := &models.Domain{}
	var registrar, whoisRaw sql.NullString
	var creation, expiry, lastChecked sql.NullTime
	err := row.Scan(
		&d.ID, &d.Name, &registrar, &creation, &expiry, &lastChecked,
		&whoisRaw, &d.Status, &d.Notes, &d.Enabled, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	d.Registrar = registrar.String
	d.WhoisRaw = whoisRaw.String
	if creation.Valid {
		t := creation.Time.UTC()
		d.CreationDate = &t
	}
	if expiry.Valid {
		t := expiry.Time.UTC()
		d.ExpiryDate = &t
	}
	if lastChecked.Valid {
		t := lastChecked.Time.UTC()
		d.LastChecked = &t
	}
	return d, nil
}

func (r *DomainRepository) GetByID(id int64) (*models.Domain, error) {
	row := r.db.QueryRow(`SELECT `+domainColumns+` FROM domains WHERE id = ?`, id)
	domain, err := scanDomain(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return domain, err
}

func (r *DomainRepository) GetByName(name string) (*models.Domain, error) {
	row := r.db.QueryRow(`SELECT `+domainColumns+` FROM domains WHERE name = ?`, name)
	domain, err := scanDomain(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return domain, err
}

func (r *DomainRepository) Create(domain *models.Domain) error {
	now := time.Now().UTC()
	domain.CreatedAt = now
	domain.UpdatedAt = now
	if domain.Status == "" {
		domain.Status = models.StatusUnknown
	}
	result, err := r.db.Exec(`
		INSERT INTO domains (name, status, notes, enabled, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, domain.Name, domain.Status, domain.Notes, domain.Enabled, domain.CreatedAt, domain.UpdatedAt)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	domain.ID = id
	return nil
}

// UpdateMeta updates the user-owned fields. WHOIS-derived fields and status
// are owned by the checker and go through UpdateWhoisFields only.
func (r *DomainRepository) UpdateMeta(id int64, notes string, enabled bool) error {
	_, err := r.db.Exec(`
		UPDATE domains SET notes = ?, enabled = ?, updated_at = ?
		WHERE id = ?
	`, notes, enabled, time.Now().UTC(), id)
	return err
}

// WhoisFields is the set of fields a check run writes back unconditionally,
// even when the lookup failed.
type WhoisFields struct {
	Registrar    string
	CreationDate *time.Time
	ExpiryDate   *time.Time
	LastChecked  time.Time
	WhoisRaw     string
	Status       models.Status
}

func (r *DomainRepository) UpdateWhoisFields(id int64, fields WhoisFields) error {
	_, err := r.db.Exec(`
		UPDATE domains
		SET registrar = ?, creation_date = ?, expiry_date = ?, last_checked = ?,
		    whois_raw = ?, status = ?, updated_at = ?
		WHERE id = ?
	`, fields.Registrar, fields.CreationDate, fields.ExpiryDate, fields.LastChecked,
		fields.WhoisRaw, fields.Status, time.Now().UTC(), id)
	return err
}

func (r *DomainRepository) Delete(id int64) error {
	result, err := r.db.Exec(`DELETE FROM domains WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *DomainRepository) ListAll() ([]*models.Domain, error) {
	return r.list(`SELECT ` + domainColumns + ` FROM domains ORDER BY name ASC`)
}

// ListEnabled returns the monitoring population snapshot for a check run.
func (r *DomainRepository) ListEnabled() ([]*models.Domain, error) {
	return r.list(`SELECT ` + domainColumns + ` FROM domains WHERE enabled = 1 ORDER BY name ASC`)
}

func (r *DomainRepository) list(query string, args ...any) ([]*models.Domain, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var domains []*models.Domain
	for rows.Next() {
		domain, err := scanDomain(rows)
		if err != nil {
			return nil, err
		}
		domains = append(domains, domain)
	}
	return domains, rows.Err()
}

func (r *DomainRepository) CountByStatus() (map[models.Status]int, error) {
	rows, err := r.db.Query(`SELECT status, COUNT(*) FROM domains GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.Status]int)
	for rows.Next() {
		var status models.Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}
