package notifier

import (
	"log"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type TelegramConfig struct {
	BotToken string
	ChatID   string
}

type Telegram struct {
	cfg TelegramConfig
}

func NewTelegram(cfg TelegramConfig) *Telegram {
	return &Telegram{cfg: cfg}
}

// Send delivers an HTML-formatted message to the configured chat.
func (t *Telegram) Send(msg Message) Result {
	if t.cfg.BotToken == "" || t.cfg.ChatID == "" {
		return failed("Telegram bot token or chat ID not configured")
	}

	chatID, err := strconv.ParseInt(t.cfg.ChatID, 10, 64)
	if err != nil {
		return failed("invalid Telegram chat ID: " + t.cfg.ChatID)
	}

	bot, err := tgbotapi.NewBotAPI(t.cfg.BotToken)
	if err != nil {
		return failed(err.Error())
	}

	text := msg.Telegram
	if text == "" {
		text = msg.Text
	}

	message := tgbotapi.NewMessage(chatID, text)
	message.ParseMode = tgbotapi.ModeHTML

	log.Printf("Sending Telegram notification to chat %d", chatID)
	if _, err := bot.Send(message); err != nil {
		return failed(err.Error())
	}
	return ok()
}
