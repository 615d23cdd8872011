package notifier

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

type EmailConfig struct {
	Host       string
	Port       int
	User       string
	Pass       string
	From       string
	Recipients []string
}

type Email struct {
	cfg EmailConfig
}

func NewEmail(cfg EmailConfig) *Email {
	return &Email{cfg: cfg}
}

// Send delivers a multipart text+HTML message to every configured
// recipient. Missing configuration is reported as a failed result, not a
// crash.
func (e *Email) Send(msg Message) Result {
	if e.cfg.Host == "" {
		return failed("SMTP not configured")
	}
	if len(e.cfg.Recipients) == 0 {
		return failed("no email recipients configured")
	}

	port := e.cfg.Port
	if port == 0 {
		port = 587
	}
	from := e.cfg.From
	if from == "" {
		from = "Domain Watch <noreply@localhost>"
	}

	addr := fmt.Sprintf("%s:%d", e.cfg.Host, port)
	body := buildMIME(from, e.cfg.Recipients, msg)

	var auth smtp.Auth
	if e.cfg.User != "" {
		auth = smtp.PlainAuth("", e.cfg.User, e.cfg.Pass, e.cfg.Host)
	}

	log.Printf("Sending email notification to %d recipient(s): %s", len(e.cfg.Recipients), msg.Subject)
	if err := smtp.SendMail(addr, auth, envelopeFrom(from), e.cfg.Recipients, body); err != nil {
		return failed(err.Error())
	}
	return ok()
}

const mimeBoundary = "dw-alt-boundary"

func buildMIME(from string, recipients []string, msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(recipients, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")

	if msg.HTML == "" {
		b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		b.WriteString(msg.Text)
		b.WriteString("\r\n")
		return []byte(b.String())
	}

	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", mimeBoundary)
	fmt.Fprintf(&b, "--%s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n", mimeBoundary, msg.Text)
	fmt.Fprintf(&b, "--%s\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s\r\n", mimeBoundary, msg.HTML)
	fmt.Fprintf(&b, "--%s--\r\n", mimeBoundary)
	return []byte(b.String())
}

// envelopeFrom extracts the bare address from a "Name <addr>" header value.
func envelopeFrom(from string) string {
	if start := strings.LastIndex(from, "<"); start != -1 {
		if end := strings.LastIndex(from, ">"); end > start {
			return from[start+1 : end]
		}
	}
	return from
}
