package pricewatch

import (
	"github.com/jpillora/backoff"
	"github.com/raykavin/pricewatch/pkg/core"
	"github.com/raykavin/pricewatch/pkg/logger"
)

// Option is a functional option for configuring a Bot instance
type Option func(*Bot)

// WithStorage sets the target store, by default an in-memory buntdb is used
func WithStorage(store core.TargetStore) Option {
	return func(bot *Bot) {
		bot.store = store
	}
}

// WithNotifier registers an extra notifier (e.g. e-mail) next to Telegram
func WithNotifier(notifier core.Notifier) Option {
	return func(bot *Bot) {
		bot.notifiers = append(bot.notifiers, notifier)
	}
}

// WithTelegram replaces the Telegram transport built from the settings
func WithTelegram(telegram core.NotifierWithStart) Option {
	return func(bot *Bot) {
		bot.telegram = telegram
	}
}

// WithLogger sets the logger used by the bot and its router
func WithLogger(log logger.Logger) Option {
	return func(bot *Bot) {
		bot.log = log
	}
}

// WithStartupBackoff sets the delay policy between source preparation attempts
func WithStartupBackoff(b *backoff.Backoff) Option {
	return func(bot *Bot) {
		bot.startupBackoff = b
	}
}
