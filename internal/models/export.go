package models

import "time"

// DomainExportEntry is one domain in an export/import file. Only
// user-owned fields travel; WHOIS-derived data is rebuilt by checks.
type DomainExportEntry struct {
	Domain  string `json:"domain"`
	Notes   string `json:"notes,omitempty"`
	Enabled *bool  `json:"enabled,omitempty"`
}

type DomainExportFile struct {
	Version    int                 `json:"version"`
	ExportedAt time.Time           `json:"exportedAt"`
	Domains    []DomainExportEntry `json:"domains"`
}

const ExportFileVersion = 1
