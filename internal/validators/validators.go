package validators

import (
	"errors"
	"regexp"
	"strings"
)

var ErrInvalidDomain = errors.New("invalid domain name")

// Domain validation: RFC 1123 compliant hostname with at least one dot
var domainRegex = regexp.MustCompile(`^([a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}$`)

// NormalizeDomain case-folds and trims a domain name, dropping a trailing
// dot. The result is the canonical form stored and queried everywhere.
func NormalizeDomain(domain string) string {
	domain = strings.TrimSpace(strings.ToLower(domain))
	return strings.TrimSuffix(domain, ".")
}

// ValidateDomain validates a normalized domain name
func ValidateDomain(domain string) error {
	if domain == "" {
		return ErrInvalidDomain
	}

	if len(domain) > 253 {
		return ErrInvalidDomain
	}

	if !domainRegex.MatchString(domain) {
		return ErrInvalidDomain
	}

	return nil
}
