package whois

import (
	"strings"
	"time"
)

// Candidate key lists, tried in order; registry-standard names come before
// legacy and registrar-specific synonyms. Keys are compared case-folded.
var (
	expiryKeys = []string{
		"registry expiry date",
		"expiry date",
		"registrar registration expiration date",
		"paid-till",
		"expiration date",
		"expire",
		"expires",
	}
	creationKeys = []string{
		"creation date",
		"created date",
		"created",
		"registered",
	}
	registrarKeys = []string{
		"registrar",
	}
	nameServerKeys = []string{
		"name server",
		"nserver",
		"nameservers",
	}
	statusKeys = []string{
		"domain status",
		"status",
	}
	referralKeys = []string{
		"registrar whois server",
		"whois server",
		"refer",
	}
)

// fields maps a case-folded key to every value seen for it, in response
// order.
type fields map[string][]string

// parseFields splits a raw WHOIS response into key/value fields. Comment
// lines and the trailing ICANN boilerplate are skipped. Keys repeat for
// multi-valued fields such as name servers.
func parseFields(raw string) fields {
	out := make(fields)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "%") || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ">>>") {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		out[key] = append(out[key], value)
	}
	return out
}

// firstValue returns the first non-empty value among the candidate keys;
// the first matching key wins.
func firstValue(f fields, keys []string) string {
	for _, key := range keys {
		if values := f[key]; len(values) > 0 {
			return values[0]
		}
	}
	return ""
}

// listValues collects every value of the first candidate key that has any,
// normalizing scalar and repeated representations into one deduplicated
// list.
func listValues(f fields, keys []string) []string {
	for _, key := range keys {
		values := f[key]
		if len(values) == 0 {
			continue
		}
		seen := make(map[string]bool, len(values))
		var out []string
		for _, v := range values {
			v = strings.ToLower(strings.TrimSpace(v))
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
		return out
	}
	return nil
}

// referralServer extracts the registrar WHOIS server named by a registry
// response, stripped of any scheme or port.
func referralServer(f fields) string {
	server := firstValue(f, referralKeys)
	server = strings.TrimPrefix(server, "http://")
	server = strings.TrimPrefix(server, "https://")
	server = strings.TrimPrefix(server, "whois://")
	server = strings.TrimSuffix(server, "/")
	if host, _, ok := strings.Cut(server, ":"); ok {
		server = host
	}
	if strings.ContainsAny(server, " \t") || !strings.Contains(server, ".") {
		return ""
	}
	return server
}

// WHOIS date formats vary per registry; registry-standard ISO forms first.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.999Z",
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05 MST",
	"2006-01-02",
	"2006.01.02",
	"2006/01/02",
	"02-Jan-2006 15:04:05 MST",
	"02-Jan-2006",
	"02.01.2006",
	"20060102",
	"Mon Jan 2 15:04:05 MST 2006",
	"January 2 2006",
}

// parseDate normalizes a WHOIS date string to a UTC instant. A string that
// fails every layout is treated as absent, not as a lookup error.
func parseDate(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	candidates := []string{value}
	// Registries sometimes append a qualifier after the date, e.g.
	// "2025-12-01T21:00:00Z (paid till)".
	if first, _, ok := strings.Cut(value, " "); ok {
		candidates = append(candidates, first)
	}

	for _, candidate := range candidates {
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, candidate); err == nil {
				utc := t.UTC()
				return &utc
			}
		}
	}
	return nil
}
