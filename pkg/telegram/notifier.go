package telegram

import (
	"context"
	"fmt"

	"stocksense/config"
	"stocksense/pkg/logger"

	"golang.org/x/time/rate"
	"gopkg.in/telebot.v3"
)

// Notifier pushes operator alerts to a single Telegram chat.
type Notifier struct {
	bot           *telebot.Bot
	chat          *telebot.Chat
	globalLimiter *rate.Limiter
	log           *logger.Logger
}

// NewNotifier returns nil when no bot token is configured.
// apiURL overrides the Telegram API endpoint; empty means the public API.
func NewNotifier(cfg config.TelegramConfig, apiURL string, log *logger.Logger) (*Notifier, error) {
	if cfg.BotToken == "" || cfg.ChatID == 0 {
		return nil, nil
	}

	bot, err := telebot.NewBot(telebot.Settings{
		URL:     apiURL,
		Token:   cfg.BotToken,
		Offline: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	perSecond := cfg.MaxGlobalRequestPerSecond
	if perSecond <= 0 {
		perSecond = 1
	}

	return &Notifier{
		bot:           bot,
		chat:          &telebot.Chat{ID: cfg.ChatID},
		globalLimiter: rate.NewLimiter(rate.Limit(perSecond), perSecond),
		log:           log,
	}, nil
}

// SendAlert implements logger.AlertSender.
func (n *Notifier) SendAlert(ctx context.Context, message string) error {
	if err := n.globalLimiter.Wait(ctx); err != nil {
		return err
	}
	if _, err := n.bot.Send(n.chat, message, telebot.ModeMarkdown); err != nil {
		// logging at error here would loop back through the alert core
		n.log.Warn("Failed to send telegram alert", logger.ErrorField(err))
		return err
	}
	return nil
}
