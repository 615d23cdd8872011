package services

import (
	"fmt"
	"log"
	"time"

	"domainwatch/internal/models"
	"domainwatch/internal/notifier"
	"domainwatch/internal/repository"
)

type NotificationService struct {
	settings *SettingsService
	logRepo  *repository.NotificationLogRepository
}

func NewNotificationService(settings *SettingsService, logRepo *repository.NotificationLogRepository) *NotificationService {
	return &NotificationService{settings: settings, logRepo: logRepo}
}

// Decide selects the threshold a domain currently qualifies under: the
// smallest configured threshold t with daysLeft <= t, the tightest bound
// satisfied right now. It is re-derived from current state on every run,
// never cached, so it stays correct when the threshold set changes between
// runs. Returns ok=false when daysLeft exceeds every configured threshold.
func Decide(daysLeft int, thresholds []int) (int, bool) {
	found := false
	best := 0
	for _, t := range thresholds {
		if daysLeft <= t && (!found || t < best) {
			best = t
			found = true
		}
	}
	return best, found
}

// Process evaluates a domain against the configured thresholds and
// dispatches to every enabled channel, at most once per (domain, threshold)
// pair. A successful log entry for the pair, on any channel and from any
// previous run, suppresses the notification; failed attempts do not, so a
// later run retries them.
func (s *NotificationService) Process(domain *models.Domain, daysLeft int) error {
	thresholds := s.settings.Thresholds()

	threshold, ok := Decide(daysLeft, thresholds)
	if !ok {
		return nil
	}

	sent, err := s.logRepo.HasSuccess(domain.ID, threshold)
	if err != nil {
		return fmt.Errorf("notification history lookup: %w", err)
	}
	if sent {
		return nil
	}

	msg := renderMessage(domain, daysLeft)

	if email := s.settings.Email(); email.Enabled {
		result := notifier.NewEmail(email.EmailConfig).Send(msg)
		s.append(domain.ID, models.ChannelEmail, threshold, msg.Subject, result)
	}

	if telegram := s.settings.Telegram(); telegram.Enabled {
		result := notifier.NewTelegram(telegram.TelegramConfig).Send(msg)
		s.append(domain.ID, models.ChannelTelegram, threshold, msg.Telegram, result)
	}

	return nil
}

// append records the attempt outcome. This write is the only place
// idempotency state is created, so it happens synchronously with the send
// before the run moves on.
func (s *NotificationService) append(domainID int64, channel models.Channel, threshold int, message string, result notifier.Result) {
	entry := &models.NotificationLogEntry{
		DomainID:      domainID,
		Channel:       channel,
		ThresholdDays: threshold,
		Message:       message,
		SentAt:        time.Now().UTC(),
		Success:       result.Success,
		Error:         result.Error,
	}
	if err := s.logRepo.Create(entry); err != nil {
		log.Printf("Failed to append notification log for domain %d: %v", domainID, err)
	}
	if !result.Success {
		log.Printf("Notification via %s failed for domain %d at threshold %d: %s",
			channel, domainID, threshold, result.Error)
	}
}

// SendTest sends a test message through one channel using the current
// settings, without touching the notification log.
func (s *NotificationService) SendTest(channel models.Channel) notifier.Result {
	msg := notifier.Message{
		Subject:  "Domain Watch - Test Notification",
		Text:     "Test notification. The channel is configured correctly.",
		HTML:     "<h2>Test Notification</h2><p>The channel is configured correctly.</p>",
		Telegram: "<b>Domain Watch</b>\n\nTest notification. Telegram is configured correctly.",
	}

	switch channel {
	case models.ChannelEmail:
		return notifier.NewEmail(s.settings.Email().EmailConfig).Send(msg)
	case models.ChannelTelegram:
		return notifier.NewTelegram(s.settings.Telegram().TelegramConfig).Send(msg)
	default:
		return notifier.Result{Success: false, Error: ErrUnknownChannel.Error()}
	}
}

func renderMessage(domain *models.Domain, daysLeft int) notifier.Message {
	expiry := "unknown"
	if domain.ExpiryDate != nil {
		expiry = domain.ExpiryDate.Format("2006-01-02")
	}

	return notifier.Message{
		Subject: fmt.Sprintf("Domain Expiring: %s (%d days left)", domain.Name, daysLeft),
		Text: fmt.Sprintf("Domain: %s\nDays until expiry: %d\nExpiry date: %s",
			domain.Name, daysLeft, expiry),
		HTML:     renderHTML(domain.Name, daysLeft, expiry),
		Telegram: fmt.Sprintf("<b>%s</b>\nExpires in <b>%d days</b>\n(%s)", domain.Name, daysLeft, expiry),
	}
}

func renderHTML(name string, daysLeft int, expiry string) string {
	urgency := "#16a34a"
	switch {
	case daysLeft <= 7:
		urgency = "#dc2626"
	case daysLeft <= 30:
		urgency = "#d97706"
	}

	return fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 500px;">
<h2>Domain Expiration Alert</h2>
<table style="width: 100%%; border-collapse: collapse;">
<tr><td style="padding: 8px; font-weight: bold;">Domain</td><td style="padding: 8px;">%s</td></tr>
<tr><td style="padding: 8px; font-weight: bold;">Days Left</td><td style="padding: 8px;"><span style="color: %s; font-weight: bold;">%d days</span></td></tr>
<tr><td style="padding: 8px; font-weight: bold;">Expiry Date</td><td style="padding: 8px;">%s</td></tr>
</table>
<p style="color: #6b7280; font-size: 12px;">Sent by Domain Watch</p>
</div>`, name, urgency, daysLeft, expiry)
}
