package bot

import (
	"fmt"
	"log"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot sends briefings to a single Telegram chat.
type Bot struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// New creates the bot and verifies the token against the Telegram API.
func New(token string, chatID int64) (*Bot, error) {
	return newWithEndpoint(token, chatID, tgbotapi.APIEndpoint)
}

func newWithEndpoint(token string, chatID int64, endpoint string) (*Bot, error) {
	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}

	api, err := tgbotapi.NewBotAPIWithClient(token, endpoint, httpClient)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("Authorized as @%s", api.Self.UserName)

	return &Bot{api: api, chatID: chatID}, nil
}

// SendMessage delivers text to the configured chat with Markdown styling.
func (b *Bot) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(b.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err := b.api.Send(msg)
	return err
}

// ReportError notifies the chat that a run failed. Delivery is best
// effort; the caller is already on its way out.
func (b *Bot) ReportError(runErr error) {
	msg := tgbotapi.NewMessage(b.chatID, fmt.Sprintf("⚠️ Error en bot: `%v`", runErr))
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending error report: %v", err)
	}
}
