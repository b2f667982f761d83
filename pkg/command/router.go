package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/raykavin/pricewatch/pkg/core"
	"github.com/raykavin/pricewatch/pkg/logger"
	"github.com/raykavin/pricewatch/pkg/metric"
	"github.com/samber/lo"
)

// HelpText is the static command reference
const HelpText = `Commands:
/add <price> - Add a target
/remove <price> - Remove a target
/listtargets - List targets
/current - Show current ASK price
/help - Show help`

// Descriptions is the command menu published to the chat client
var Descriptions = []struct{ Text, Description string }{
	{"/add", "Add a target price"},
	{"/remove", "Remove a target price"},
	{"/listtargets", "List targets"},
	{"/current", "Show current ASK price"},
	{"/help", "Show help"},
}

// Router executes operator commands against a target store and builds the reply
type Router struct {
	store    core.TargetStore
	log      logger.Logger
	currency string
}

// Option is a function that configures a router instance
type Option func(router *Router)

// WithCurrency prefixes every price in replies with the given symbol
func WithCurrency(symbol string) Option {
	return func(router *Router) {
		router.currency = symbol
	}
}

// NewRouter creates a router bound to the given store
func NewRouter(store core.TargetStore, log logger.Logger, options ...Option) *Router {
	router := &Router{
		store: store,
		log:   log,
	}

	for _, option := range options {
		option(router)
	}

	return router
}

// Handle parses and executes one line of operator text and returns the reply
func (r *Router) Handle(text string) string {
	command := Parse(text)

	r.log.WithFields(map[string]any{
		"command": command.Raw,
		"kind":    command.Kind,
	}).Debug("handling operator command")
	metric.CommandsTotal.WithLabelValues(command.Kind.String()).Inc()

	switch command.Kind {
	case KindAdd:
		return r.add(command)
	case KindRemove:
		return r.remove(command)
	case KindList:
		return r.list()
	case KindCurrent:
		return r.current()
	case KindHelp:
		return HelpText
	default:
		return "Unknown command. Type /help"
	}
}

func (r *Router) add(command Command) string {
	if command.MissingArg {
		return "Usage: /add <price>"
	}
	if command.InvalidArg {
		return "Invalid price."
	}

	err := r.store.Add(command.Price)
	switch {
	case errors.Is(err, core.ErrTargetExists):
		return fmt.Sprintf("%s already exists.", r.price(command.Price))
	case err != nil:
		r.log.WithError(err).Error("failed to add target")
		return "Failed to add target."
	}

	return fmt.Sprintf("Added target: %s", r.price(command.Price))
}

func (r *Router) remove(command Command) string {
	if command.MissingArg {
		return "Usage: /remove <price>"
	}
	if command.InvalidArg {
		return "Invalid price."
	}

	err := r.store.Remove(command.Price)
	switch {
	case errors.Is(err, core.ErrTargetNotFound):
		return fmt.Sprintf("Target %s not found.", r.price(command.Price))
	case err != nil:
		r.log.WithError(err).Error("failed to remove target")
		return "Failed to remove target."
	}

	return fmt.Sprintf("Removed target: %s", r.price(command.Price))
}

func (r *Router) list() string {
	targets, err := r.store.Targets()
	if err != nil {
		r.log.WithError(err).Error("failed to list targets")
		return "Failed to list targets."
	}

	formatted := lo.Map(targets, func(target float64, _ int) string {
		return core.FormatPrice(target)
	})

	return "Current targets:\n" + strings.Join(formatted, ", ")
}

func (r *Router) current() string {
	price, err := r.store.LastAsk()
	if errors.Is(err, core.ErrPriceUnavailable) {
		return "Price not available yet. Please wait..."
	}
	if err != nil {
		r.log.WithError(err).Error("failed to read last ask")
		return "Price not available yet. Please wait..."
	}

	return fmt.Sprintf("Current ASK price: %s", r.price(price))
}

func (r *Router) price(value float64) string {
	return r.currency + core.FormatPrice(value)
}
