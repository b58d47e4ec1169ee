package telegram

import (
	"SeedWithWarehouse/internal/config"
	"SeedWithWarehouse/pkg/logging"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/pkg/errors"
)

// Notifier pushes operator alerts.
type Notifier interface {
	SendMessage(text string) error
}

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	api    sender
	chatID int64
}

func NewBot(token string, chatID int64, debug bool) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errors.Wrap(err, "failed tgbotapi.NewBotAPI")
	}
	api.Debug = debug
	return &Bot{api: api, chatID: chatID}, nil
}

func (b *Bot) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(b.chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		return errors.Wrapf(err, "failed to send telegram message to chat %d", b.chatID)
	}
	return nil
}

// Nop drops every alert.
type Nop struct{}

func (Nop) SendMessage(string) error { return nil }

// NewNotifier returns a Bot when a token is configured and Nop otherwise.
// A bot that cannot start degrades to Nop with an error log.
func NewNotifier(cfg *config.Config) Notifier {
	logger := logging.GetLogger()
	if cfg.TELEGRAM.BotToken == "" {
		logger.Info("Telegram bot token is empty, alerts are disabled")
		return Nop{}
	}
	bot, err := NewBot(cfg.TELEGRAM.BotToken, cfg.TELEGRAM.ChatID, cfg.TELEGRAM.Debug == 1)
	if err != nil {
		logger.Errorf("failed to start telegram bot, alerts are disabled: %v", err)
		return Nop{}
	}
	return bot
}

// SendMessageWithLogError logs text as an error and forwards it to n.
func SendMessageWithLogError(n Notifier, text string) {
	logger := logging.GetLogger()
	logger.Error(text)
	if n == nil {
		return
	}
	if err := n.SendMessage(text); err != nil {
		logger.Errorf("failed telegram.SendMessage(), error: %v", err)
	}
}
