package services

import (
	"encoding/json"
	"log"
	"sort"
	"strconv"

	"domainwatch/internal/notifier"
	"domainwatch/internal/repository"
)

// Setting keys. Values live in the settings table so they can be edited at
// runtime; defaults apply for anything unset.
const (
	SettingThresholds       = "notification_thresholds"
	SettingSMTPHost         = "smtp_host"
	SettingSMTPPort         = "smtp_port"
	SettingSMTPUser         = "smtp_user"
	SettingSMTPPass         = "smtp_pass"
	SettingSMTPFrom         = "smtp_from"
	SettingEmailRecipients  = "email_recipients"
	SettingEmailEnabled     = "email_enabled"
	SettingTelegramBotToken = "telegram_bot_token"
	SettingTelegramChatID   = "telegram_chat_id"
	SettingTelegramEnabled  = "telegram_enabled"
	SettingCronSchedule     = "check_cron_schedule"
)

var settingDefaults = map[string]string{
	SettingThresholds:       "[60,30,14,7,1]",
	SettingSMTPHost:         "",
	SettingSMTPPort:         "587",
	SettingSMTPUser:         "",
	SettingSMTPPass:         "",
	SettingSMTPFrom:         "Domain Watch <noreply@example.com>",
	SettingEmailRecipients:  "[]",
	SettingEmailEnabled:     "false",
	SettingTelegramBotToken: "",
	SettingTelegramChatID:   "",
	SettingTelegramEnabled:  "false",
	SettingCronSchedule:     "0 8 * * *",
}

// DefaultThresholds is the fallback threshold set when the stored value is
// missing or malformed.
var DefaultThresholds = []int{1, 7, 14, 30, 60}

type SettingsService struct {
	repo *repository.SettingsRepository
}

func NewSettingsService(repo *repository.SettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

func (s *SettingsService) Get(key string) string {
	value, err := s.repo.Get(key)
	if err != nil {
		return settingDefaults[key]
	}
	return value
}

// All returns every setting merged over defaults.
func (s *SettingsService) All() map[string]string {
	merged := make(map[string]string, len(settingDefaults))
	for key, value := range settingDefaults {
		merged[key] = value
	}
	stored, err := s.repo.GetAll()
	if err != nil {
		log.Printf("Failed to load settings: %v", err)
		return merged
	}
	for key, value := range stored {
		if _, known := settingDefaults[key]; known {
			merged[key] = value
		}
	}
	return merged
}

// Set stores a single known setting. Unknown keys are rejected.
func (s *SettingsService) Set(key, value string) error {
	if _, known := settingDefaults[key]; !known {
		return ErrUnknownSetting
	}
	return s.repo.Set(key, value)
}

// IsKnownSetting reports whether key is a recognized setting name.
func IsKnownSetting(key string) bool {
	_, known := settingDefaults[key]
	return known
}

// Thresholds returns the configured notification thresholds, sanitized:
// positive, deduplicated, ascending. A malformed stored value degrades to
// the defaults rather than failing the run.
func (s *SettingsService) Thresholds() []int {
	raw := s.Get(SettingThresholds)

	var parsed []int
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		log.Printf("Malformed %s %q, using defaults", SettingThresholds, raw)
		return append([]int(nil), DefaultThresholds...)
	}

	seen := make(map[int]bool, len(parsed))
	var thresholds []int
	for _, t := range parsed {
		if t > 0 && !seen[t] {
			seen[t] = true
			thresholds = append(thresholds, t)
		}
	}
	if len(thresholds) == 0 {
		return append([]int(nil), DefaultThresholds...)
	}
	sort.Ints(thresholds)
	return thresholds
}

// EmailSettings is the typed email channel configuration, parsed once per
// evaluation. Parse problems disable the channel instead of crashing.
type EmailSettings struct {
	Enabled bool
	notifier.EmailConfig
}

func (s *SettingsService) Email() EmailSettings {
	cfg := EmailSettings{
		Enabled: s.Get(SettingEmailEnabled) == "true",
	}
	cfg.Host = s.Get(SettingSMTPHost)
	cfg.User = s.Get(SettingSMTPUser)
	cfg.Pass = s.Get(SettingSMTPPass)
	cfg.From = s.Get(SettingSMTPFrom)
	if port, err := strconv.Atoi(s.Get(SettingSMTPPort)); err == nil {
		cfg.Port = port
	}
	if err := json.Unmarshal([]byte(s.Get(SettingEmailRecipients)), &cfg.Recipients); err != nil {
		log.Printf("Malformed %s, treating as empty", SettingEmailRecipients)
		cfg.Recipients = nil
	}
	return cfg
}

// TelegramSettings is the typed telegram channel configuration.
type TelegramSettings struct {
	Enabled bool
	notifier.TelegramConfig
}

func (s *SettingsService) Telegram() TelegramSettings {
	cfg := TelegramSettings{
		Enabled: s.Get(SettingTelegramEnabled) == "true",
	}
	cfg.BotToken = s.Get(SettingTelegramBotToken)
	cfg.ChatID = s.Get(SettingTelegramChatID)
	return cfg
}

func (s *SettingsService) CronSchedule() string {
	return s.Get(SettingCronSchedule)
}
