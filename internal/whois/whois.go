package whois

import (
	"errors"
	"strings"
	"time"

	likexianwhois "github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"
)

// ServerPreference decides which response of a referral chain field
// extraction reads from when more than one server answered.
type ServerPreference int

const (
	// PreferMostSpecificServer reads the last response in the chain (the
	// registrar), which carries the authoritative expiry date for most
	// TLDs. This is the default policy.
	PreferMostSpecificServer ServerPreference = iota
	// PreferFirstServer reads the registry response, for registries whose
	// registrar servers return unusable data.
	PreferFirstServer
)

// Record is the normalized result of a WHOIS lookup. When Error is set all
// date fields are nil.
type Record struct {
	Domain       string     `json:"domain"`
	Registrar    string     `json:"registrar,omitempty"`
	CreationDate *time.Time `json:"creation_date,omitempty"`
	ExpiryDate   *time.Time `json:"expiry_date,omitempty"`
	NameServers  []string   `json:"name_servers,omitempty"`
	Statuses     []string   `json:"statuses,omitempty"`
	Raw          string     `json:"-"`
	Error        string     `json:"error,omitempty"`
}

// queryFunc performs a raw WHOIS query, optionally against a specific
// server. Swappable in tests.
type queryFunc func(domain string, servers ...string) (string, error)

// Client performs WHOIS lookups with a bounded timeout and normalizes the
// responses. It never touches storage and never returns a Go error past its
// boundary: failures come back as a Record with Error set.
type Client struct {
	query  queryFunc
	prefer ServerPreference
}

func New(timeout time.Duration) *Client {
	wc := likexianwhois.NewClient()
	wc.SetTimeout(timeout)
	return &Client{
		query:  wc.Whois,
		prefer: PreferMostSpecificServer,
	}
}

// Lookup queries the registry for name and follows one referral to the
// registrar server when the registry names one.
func (c *Client) Lookup(name string) *Record {
	base, err := c.query(name)
	if err != nil {
		return errorRecord(name, err.Error())
	}
	if strings.TrimSpace(base) == "" {
		return errorRecord(name, "empty WHOIS response")
	}

	responses := []string{base}
	if server := referralServer(parseFields(base)); server != "" {
		if raw, err := c.query(name, server); err == nil && strings.TrimSpace(raw) != "" {
			responses = append(responses, raw)
		}
	}

	return normalize(name, responses, c.prefer)
}

// normalize turns the raw responses of a referral chain into a Record,
// reading fields from the response selected by prefer.
func normalize(name string, responses []string, prefer ServerPreference) *Record {
	preferred := responses[0]
	if prefer == PreferMostSpecificServer {
		preferred = responses[len(responses)-1]
	}

	if _, err := whoisparser.Parse(preferred); errors.Is(err, whoisparser.ErrNotFoundDomain) {
		return errorRecord(name, "domain not found")
	}

	fields := parseFields(preferred)

	rec := &Record{
		Domain:       name,
		Registrar:    firstValue(fields, registrarKeys),
		CreationDate: parseDate(firstValue(fields, creationKeys)),
		ExpiryDate:   parseDate(firstValue(fields, expiryKeys)),
		NameServers:  listValues(fields, nameServerKeys),
		Statuses:     listValues(fields, statusKeys),
		Raw:          strings.Join(responses, "\n\n"),
	}

	// Some registrar responses omit their own name; the parser knows more
	// field synonyms than our priority list.
	if rec.Registrar == "" {
		if parsed, err := whoisparser.Parse(preferred); err == nil && parsed.Registrar != nil {
			rec.Registrar = parsed.Registrar.Name
		}
	}

	return rec
}

func errorRecord(name, msg string) *Record {
	return &Record{Domain: name, Error: msg}
}
