package core

import (
	"fmt"
	"strconv"
)

// PriceReading is one extracted row of the price page.
// Bid and Ask are nil when the page rendered but the cell could not be parsed.
type PriceReading struct {
	Label string
	Bid   *float64
	Ask   *float64
}

// HasAsk reports whether the reading carries a usable ask price
func (r PriceReading) HasAsk() bool {
	return r.Ask != nil
}

func (r PriceReading) String() string {
	return fmt.Sprintf("%s => BID: %s, ASK: %s", r.Label, formatOptional(r.Bid), formatOptional(r.Ask))
}

// FormatPrice renders a price with the shortest exact representation (50, 50.5)
func FormatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}

func formatOptional(value *float64) string {
	if value == nil {
		return "n/a"
	}
	return FormatPrice(*value)
}
