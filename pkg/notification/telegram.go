// Package notification provides the operator chat transport and other notifiers
package notification

import (
	"fmt"
	"time"

	"github.com/raykavin/pricewatch/pkg/command"
	"github.com/raykavin/pricewatch/pkg/core"
	"github.com/raykavin/pricewatch/pkg/logger"
	"github.com/raykavin/pricewatch/pkg/metric"
	tb "gopkg.in/tucnak/telebot.v2"
)

const pollingTimeout = 10 * time.Second

// sender is the part of *tb.Bot used to deliver messages
type sender interface {
	Send(to tb.Recipient, what interface{}, options ...interface{}) (*tb.Message, error)
}

// Telegram implements the core.NotifierWithStart interface.
// Only messages from the configured chat reach the router.
type Telegram struct {
	settings core.TelegramSettings
	router   *command.Router
	client   *tb.Bot
	sender   sender
	chat     *tb.Chat
	log      logger.Logger
}

// Option is a function that configures a telegram instance
type Option func(telegram *Telegram)

// NewTelegram creates and initializes a new Telegram service
func NewTelegram(settings core.TelegramSettings, router *command.Router, log logger.Logger, options ...Option) (
	*Telegram,
	error,
) {
	bot := &Telegram{
		settings: settings,
		router:   router,
		chat:     &tb.Chat{ID: settings.ChatID},
		log:      log,
	}

	poller := &tb.LongPoller{Timeout: pollingTimeout}
	client, err := tb.NewBot(tb.Settings{
		Token:  settings.Token,
		Poller: tb.NewMiddlewarePoller(poller, bot.authorize),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot.client = client
	bot.sender = client

	// Apply custom options if provided
	for _, option := range options {
		option(bot)
	}

	client.Handle(tb.OnText, bot.onText)

	return bot, nil
}

// authorize lets through messages of the operator chat. Everything else is
// dropped without a reply.
func (t *Telegram) authorize(u *tb.Update) bool {
	if u.Message == nil || u.Message.Chat == nil {
		return false
	}

	if u.Message.Chat.ID != t.settings.ChatID {
		t.log.WithField("chat_id", u.Message.Chat.ID).Debug("ignoring message from unauthorized chat")
		return false
	}

	return true
}

// onText routes one operator message and replies in the same chat
func (t *Telegram) onText(m *tb.Message) {
	reply := t.router.Handle(m.Text)
	t.send(reply, tb.Silent)
}

// setupCommands publishes the command menu
func (t *Telegram) setupCommands() error {
	commands := make([]tb.Command, 0, len(command.Descriptions))
	for _, c := range command.Descriptions {
		commands = append(commands, tb.Command{Text: c.Text, Description: c.Description})
	}

	return t.client.SetCommands(commands)
}

// Start begins receiving operator commands
func (t *Telegram) Start() {
	if err := t.setupCommands(); err != nil {
		t.log.WithError(err).Warn("failed to set telegram commands")
	}

	go t.client.Start()
}

// Stop ends the long poller
func (t *Telegram) Stop() {
	t.client.Stop()
}

// Notify sends an informational message without sound
func (t *Telegram) Notify(text string) {
	t.send(text, tb.Silent)
}

// Alert sends a message with the regular notification sound
func (t *Telegram) Alert(text string) {
	t.send(text)
}

func (t *Telegram) send(text string, options ...interface{}) {
	_, err := t.sender.Send(t.chat, text, options...)
	if err != nil {
		metric.NotificationFailuresTotal.WithLabelValues("telegram").Inc()
		t.log.WithError(err).Error("failed to send telegram message")
	}
}
