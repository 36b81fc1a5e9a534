// Package notify delivers schedule-change notifications to staff.
package notify

import (
	"fmt"

	"salondesk/internal/events"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// TelegramNotifier posts working-hours changes to a staff chat. Outbound
// only; the bot never reads updates.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *zerolog.Logger
}

// NewTelegramNotifier creates a notifier for the given bot token and
// chat.
func NewTelegramNotifier(token string, chatID int64, logger *zerolog.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID, logger: logger}, nil
}

// HandleEvent is an events.EventHandler for hours.* events.
func (n *TelegramNotifier) HandleEvent(event events.Event) error {
	msg := tgbotapi.NewMessage(n.chatID, FormatHoursChange(event))
	if _, err := n.bot.Send(msg); err != nil {
		n.logger.Error().Err(err).
			Int64("business_id", event.Payload.BusinessID).
			Msg("failed to send hours notification")
		return err
	}
	return nil
}

// FormatHoursChange renders the staff-facing notification text.
func FormatHoursChange(event events.Event) string {
	change := event.Payload

	verb := "updated"
	if event.Type == events.TypeHoursCreated {
		verb = "set"
	}

	if change.IsClosed {
		return fmt.Sprintf("Working hours %s: %s is now closed (business %d)",
			verb, change.Day, change.BusinessID)
	}
	return fmt.Sprintf("Working hours %s: %s %s–%s (business %d)",
		verb, change.Day, change.OpensAt, change.ClosesAt, change.BusinessID)
}
