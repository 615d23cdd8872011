package models

import "time"

// Domain represents a tracked registrable name
type Domain struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Registrar    string     `json:"registrar,omitempty"`
	CreationDate *time.Time `json:"creation_date,omitempty"`
	ExpiryDate   *time.Time `json:"expiry_date,omitempty"`
	LastChecked  *time.Time `json:"last_checked,omitempty"`
	WhoisRaw     string     `json:"-"`
	Status       Status     `json:"status"`
	Notes        string     `json:"notes,omitempty"`
	Enabled      bool       `json:"enabled"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// DaysLeft returns the days until expiry relative to now, or nil when the
// expiry date is unknown.
func (d *Domain) DaysLeft(now time.Time) *int {
	if d.ExpiryDate == nil {
		return nil
	}
	days := DaysUntilExpiry(*d.ExpiryDate, now)
	return &days
}
