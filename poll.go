package pricewatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/raykavin/pricewatch/pkg/alert"
	"github.com/raykavin/pricewatch/pkg/core"
	"github.com/raykavin/pricewatch/pkg/logger"
	"github.com/raykavin/pricewatch/pkg/metric"
)

// poll runs one cycle, waits the configured interval and repeats until ctx is done
func (bot *Bot) poll(ctx context.Context) {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			bot.log.Info("poll loop stopped")
			return
		case <-timer.C:
		}

		bot.cycle(ctx)
		timer.Reset(bot.settings.Poll.Interval)
	}
}

// cycle fetches one reading, records the ask price and reports every hit
// target. Failures are reported to the operator and never escape the cycle.
func (bot *Bot) cycle(ctx context.Context) {
	log := bot.log.WithField("cycle", uuid.NewString())
	start := time.Now()

	defer func() {
		metric.PollDuration.Observe(time.Since(start).Seconds())

		if r := recover(); r != nil {
			metric.PollCyclesTotal.WithLabelValues(metric.ResultPanic).Inc()
			log.Errorf("poll cycle panicked: %v", r)
			bot.notifier.Notify(fmt.Sprintf("[ERROR] %v", r))
		}
	}()

	log.Debug("reloading page to get fresh prices")

	reading, err := bot.source.Fetch(ctx)
	if err != nil {
		bot.onSourceError(log, err)
		return
	}

	log.Info(reading.String())

	if !reading.HasAsk() {
		metric.PollCyclesTotal.WithLabelValues(metric.ResultAskAbsent).Inc()
		log.Warn("ask price missing, skipping evaluation")
		return
	}

	ask := *reading.Ask
	if err := bot.store.SetLastAsk(ask); err != nil {
		metric.PollCyclesTotal.WithLabelValues(metric.ResultStoreError).Inc()
		log.WithError(err).Error("failed to record ask price")
		return
	}
	metric.LastAskGauge.Set(ask)

	hits, err := bot.store.TakeHits(alert.Evaluator(reading))
	if err != nil {
		metric.PollCyclesTotal.WithLabelValues(metric.ResultStoreError).Inc()
		log.WithError(err).Error("failed to evaluate targets")
		return
	}

	for _, target := range hits {
		message := alert.Message(reading.Label, ask, target, bot.settings.Currency)
		log.WithField("target", core.FormatPrice(target)).Info(message)
		bot.notifier.Alert(message)
		metric.AlertsTotal.Inc()
	}

	if targets, err := bot.store.Targets(); err == nil {
		metric.TargetsGauge.Set(float64(len(targets)))
	}

	metric.PollCyclesTotal.WithLabelValues(metric.ResultOK).Inc()
}

// onSourceError logs a failed probe and reports it to the operator
func (bot *Bot) onSourceError(log logger.Logger, err error) {
	var (
		result  string
		message string
	)

	switch kind := core.KindOf(err); {
	case errors.Is(kind, core.ErrDataNotFound):
		result = metric.ResultDataNotFound
		message = fmt.Sprintf("[ERROR] %s data not found", bot.settings.Product.Label)
	case errors.Is(kind, core.ErrStructureMissing):
		result = metric.ResultStructureError
		message = "[ERROR] " + err.Error()
	default:
		result = metric.ResultSourceError
		message = "[ERROR] " + err.Error()
	}

	metric.PollCyclesTotal.WithLabelValues(result).Inc()
	log.WithError(err).Error("poll cycle failed")
	bot.notifier.Notify(message)
}
