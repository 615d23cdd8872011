package models

import "time"

// Channel identifies a notification delivery channel
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelTelegram Channel = "telegram"
)

// NotificationLogEntry is an immutable audit record of a single send
// attempt. A successful entry for a (domain, threshold) pair suppresses any
// further notification at that threshold; failed entries may repeat.
type NotificationLogEntry struct {
	ID            int64     `json:"id"`
	DomainID      int64     `json:"domain_id"`
	Channel       Channel   `json:"channel"`
	ThresholdDays int       `json:"threshold_days"`
	Message       string    `json:"message"`
	SentAt        time.Time `json:"sent_at"`
	Success       bool      `json:"success"`
	Error         string    `json:"error,omitempty"`
}
