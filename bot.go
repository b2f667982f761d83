package pricewatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jpillora/backoff"
	"github.com/raykavin/pricewatch/pkg/command"
	"github.com/raykavin/pricewatch/pkg/core"
	"github.com/raykavin/pricewatch/pkg/logger"
	"github.com/raykavin/pricewatch/pkg/notification"
	"github.com/raykavin/pricewatch/pkg/storage"
)

// DefaultLog is the default logger instance
var DefaultLog logger.Logger

const startedMessage = "[INFO] Bot started and monitoring prices."

// Bot watches one product price and alerts the operator when targets are crossed
type Bot struct {
	settings *core.Settings
	source   core.PriceSource
	store    core.TargetStore
	router   *command.Router
	log      logger.Logger

	telegram  core.NotifierWithStart
	notifiers []core.Notifier
	notifier  core.Notifier

	startupBackoff *backoff.Backoff
}

// NewBot creates a new Bot instance with the provided settings and dependencies
func NewBot(settings *core.Settings, source core.PriceSource, options ...Option) (*Bot, error) {
	if settings.Poll.Interval <= 0 {
		return nil, fmt.Errorf("invalid poll interval: %s", settings.Poll.Interval)
	}

	bot := &Bot{
		settings: settings,
		source:   source,
		log:      DefaultLog,
		startupBackoff: &backoff.Backoff{
			Min:    time.Second,
			Max:    30 * time.Second,
			Factor: 2,
			Jitter: true,
		},
	}

	// Apply custom options
	for _, option := range options {
		option(bot)
	}

	if err := initializeStorage(bot); err != nil {
		return nil, err
	}

	bot.router = command.NewRouter(bot.store, bot.log, command.WithCurrency(settings.Currency))

	if err := initializeNotifications(bot); err != nil {
		return nil, err
	}

	return bot, nil
}

// initializeStorage sets up an in-memory target store unless one was given
func initializeStorage(bot *Bot) error {
	if bot.store != nil {
		return nil
	}

	store, err := storage.FromMemory()
	if err != nil {
		return err
	}

	bot.store = store
	return nil
}

// initializeNotifications creates the Telegram transport and combines it
// with any extra notifier
func initializeNotifications(bot *Bot) error {
	if bot.telegram == nil && bot.settings.Telegram.Token != "" {
		telegram, err := notification.NewTelegram(bot.settings.Telegram, bot.router, bot.log)
		if err != nil {
			return err
		}
		bot.telegram = telegram
	}

	notifiers := make(notification.Multi, 0, len(bot.notifiers)+1)
	if bot.telegram != nil {
		notifiers = append(notifiers, bot.telegram)
	}
	notifiers = append(notifiers, bot.notifiers...)

	if len(notifiers) == 1 {
		bot.notifier = notifiers[0]
	} else {
		bot.notifier = notifiers
	}

	return nil
}

// Store returns the target store shared by commands and the poll loop
func (bot *Bot) Store() core.TargetStore {
	return bot.store
}

// Router returns the command router bound to the bot store
func (bot *Bot) Router() *command.Router {
	return bot.router
}

// Run starts the command listener, prepares the source, announces itself and
// polls until ctx is done. Only a failed preparation is returned as an error.
func (bot *Bot) Run(ctx context.Context) error {
	bot.log.Info("starting the price monitoring bot")

	if bot.telegram != nil {
		bot.telegram.Start()
		defer bot.telegram.Stop()
	}

	if err := bot.prepare(ctx); err != nil {
		return err
	}

	bot.notifier.Notify(startedMessage)
	bot.log.Info("bot initialized and ready to monitor prices")

	bot.poll(ctx)
	return nil
}

// prepare brings the source to its ready state, retrying with backoff
func (bot *Bot) prepare(ctx context.Context) error {
	attempts := max(bot.settings.Poll.StartupAttempts, 1)
	bot.startupBackoff.Reset()

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = bot.source.Prepare(ctx); err == nil {
			return nil
		}

		bot.log.WithError(err).WithField("attempt", attempt).Warn("failed to prepare price source")
		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return errors.Join(ctx.Err(), err)
		case <-time.After(bot.startupBackoff.Duration()):
		}
	}

	return fmt.Errorf("failed to initialize price source after %d attempts: %w", attempts, err)
}
