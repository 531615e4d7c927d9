package telegram

import (
	"context"
	"strconv"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/wonny/gammalert/pkg/config"
	"github.com/wonny/gammalert/pkg/logger"
)

// Sender delivers formatted messages to a Telegram chat
// ⭐ SSOT: Telegram 발송은 이 클라이언트에서만
//
// Send never propagates delivery errors: every failure is logged and
// reported as false. The pipeline treats delivery as non-fatal.
type Sender struct {
	botToken string
	chatID   string
	threadID string
	logger   *logger.Logger
	botOpts  []bot.Option
}

// NewSender creates a new Telegram sender. Extra bot options are for tests
// (e.g. pointing the bot at a stub server).
func NewSender(cfg config.TelegramConfig, log *logger.Logger, opts ...bot.Option) *Sender {
	return &Sender{
		botToken: cfg.BotToken,
		chatID:   cfg.ChatID,
		threadID: cfg.ThreadID,
		logger:   log,
		botOpts:  opts,
	}
}

// Send delivers one message with HTML parse mode. Returns true on success.
// Invalid chat/thread identifiers are rejected before any network call.
// The bot connection is scoped to the call; the process is short-lived.
func (s *Sender) Send(ctx context.Context, text string) bool {
	chatID, err := strconv.ParseInt(s.chatID, 10, 64)
	if err != nil {
		s.logger.WithField("chat_id", s.chatID).Error("Invalid chat ID format")
		return false
	}

	var threadID int
	if s.threadID != "" {
		threadID, err = strconv.Atoi(s.threadID)
		if err != nil {
			s.logger.WithField("thread_id", s.threadID).Error("Invalid thread ID format")
			return false
		}
	}

	opts := append([]bot.Option{bot.WithSkipGetMe()}, s.botOpts...)
	b, err := bot.New(s.botToken, opts...)
	if err != nil {
		s.logger.WithError(err).Error("Failed to create Telegram bot")
		return false
	}

	params := &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if threadID != 0 {
		params.MessageThreadID = threadID
	}

	if _, err := b.SendMessage(ctx, params); err != nil {
		s.logger.WithError(err).WithField("chat_id", chatID).Error("Telegram send failed")
		return false
	}

	s.logger.WithField("chat_id", chatID).Info("Sent message to Telegram")
	return true
}
