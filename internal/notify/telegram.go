package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"time"

	"github.com/PaulSonOfLars/gotgbot/v2"
)

// botAPI is the subset of *gotgbot.Bot used by [TelegramSender].
type botAPI interface {
	SendMessage(chatID int64, text string, opts *gotgbot.SendMessageOpts) (*gotgbot.Message, error)
}

// TelegramSender sends message text to a single Telegram chat.
type TelegramSender struct {
	bot    botAPI
	chatID int64
}

// NewTelegramSender creates a [TelegramSender] for the bot token and chat.
//
// The token is not checked against the Telegram API at construction, so the
// tracker can start while Telegram is unreachable; a bad token surfaces as a
// send error in the logs.
func NewTelegramSender(token string, chatID int64) (*TelegramSender, error) {
	if token == "" {
		return nil, errors.New("telegram token cannot be empty")
	}
	if chatID == 0 {
		return nil, errors.New("telegram chat id cannot be zero")
	}

	bot, err := gotgbot.NewBot(token, &gotgbot.BotOpts{DisableTokenCheck: true})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return &TelegramSender{bot: bot, chatID: chatID}, nil
}

// Name implements [Sender].
func (t *TelegramSender) Name() string {
	return fmt.Sprintf("telegram:%d", t.chatID)
}

// Send implements [Sender]. The text is prefixed with the subject in bold.
//
// gotgbot takes a request timeout rather than a context, so the remaining
// time on ctx becomes the request timeout.
func (t *TelegramSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	opts := &gotgbot.SendMessageOpts{ParseMode: "HTML"}
	if deadline, ok := ctx.Deadline(); ok {
		opts.RequestOpts = &gotgbot.RequestOpts{Timeout: time.Until(deadline)}
	}

	text := fmt.Sprintf("<b>%s</b>\n%s", html.EscapeString(msg.Subject), html.EscapeString(msg.Text))
	if _, err := t.bot.SendMessage(t.chatID, text, opts); err != nil {
		return fmt.Errorf("telegram send failed: %w", err)
	}
	return nil
}
