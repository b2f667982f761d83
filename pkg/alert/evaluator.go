// Package alert decides which targets a price reading crosses
package alert

import (
	"fmt"

	"github.com/raykavin/pricewatch/pkg/core"
	"github.com/samber/lo"
)

// Evaluate returns the targets hit by the given ask price, keeping the order
// of targets. A target is hit when ask <= target. A nil ask hits nothing.
func Evaluate(ask *float64, targets []float64) []float64 {
	if ask == nil {
		return nil
	}

	return lo.Filter(targets, func(target float64, _ int) bool {
		return *ask <= target
	})
}

// Evaluator binds a reading to Evaluate so it can run inside a store transaction
func Evaluator(reading core.PriceReading) func(targets []float64) []float64 {
	return func(targets []float64) []float64 {
		return Evaluate(reading.Ask, targets)
	}
}

// Message formats the operator alert for one hit target
func Message(label string, ask, target float64, currency string) string {
	return fmt.Sprintf("[ALERT] %s ASK price dropped to %s%s (target was %s%s)!",
		label, currency, core.FormatPrice(ask), currency, core.FormatPrice(target))
}
