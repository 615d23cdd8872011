package models

import (
	"math"
	"time"
)

// Status is the health classification of a tracked domain. It is always
// derived from the most recent check result, never hand-edited.
type Status string

const (
	StatusActive       Status = "active"
	StatusExpiringSoon Status = "expiring_soon"
	StatusExpired      Status = "expired"
	StatusUnknown      Status = "unknown"
	StatusError        Status = "error"
)

// ExpiringSoonDays is the boundary below which an active domain is
// reported as expiring_soon.
const ExpiringSoonDays = 30

const millisPerDay = 24 * 60 * 60 * 1000

// DaysUntilExpiry returns the number of days between now and expiry,
// rounding up so that a domain expiring in 23 hours reports 1 day
// remaining rather than 0.
func DaysUntilExpiry(expiry, now time.Time) int {
	diff := expiry.Sub(now).Milliseconds()
	return int(math.Ceil(float64(diff) / float64(millisPerDay)))
}

// StatusForDays maps days-remaining to a health status. A nil value means
// the expiry date is unknown. StatusError is never returned here; it is set
// directly by the checker when the lookup itself failed.
func StatusForDays(days *int) Status {
	switch {
	case days == nil:
		return StatusUnknown
	case *days <= 0:
		return StatusExpired
	case *days <= ExpiringSoonDays:
		return StatusExpiringSoon
	default:
		return StatusActive
	}
}

// ValidStatus reports whether s is one of the known status values.
func ValidStatus(s Status) bool {
	switch s {
	case StatusActive, StatusExpiringSoon, StatusExpired, StatusUnknown, StatusError:
		return true
	}
	return false
}
