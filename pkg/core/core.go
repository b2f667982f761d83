package core

import (
	"context"
)

// PriceSource produces one fresh reading of the tracked product per call
type PriceSource interface {
	// Prepare establishes the ready state of the source (first navigation,
	// optional interstitial). It is called once before polling starts.
	Prepare(ctx context.Context) error

	// Fetch reloads the source and extracts the configured product row.
	// Failures are returned as *SourceError.
	Fetch(ctx context.Context) (PriceReading, error)
}

// TargetStore holds the operator targets and the last known ask price.
// Every method is atomic with respect to the others.
type TargetStore interface {
	// Add inserts a target, returns ErrTargetExists when the value is present
	Add(price float64) error

	// Remove deletes a target, returns ErrTargetNotFound when the value is absent
	Remove(price float64) error

	// Targets returns a point-in-time copy of the targets in ascending order
	Targets() ([]float64, error)

	// TakeHits runs evaluate against the current targets and removes every
	// value it returns, all inside one exclusive transaction
	TakeHits(evaluate func(targets []float64) []float64) ([]float64, error)

	// SetLastAsk records the most recent successfully parsed ask price
	SetLastAsk(price float64) error

	// LastAsk returns ErrPriceUnavailable until SetLastAsk is called
	LastAsk() (float64, error)
}

// Notifier delivers text to the operator. Sends are fire-and-forget:
// implementations log failures and never return them.
type Notifier interface {
	// Notify sends an informational message without sound
	Notify(text string)

	// Alert sends a message that should interrupt the operator
	Alert(text string)
}

// NotifierWithStart is a notifier that also receives operator commands
type NotifierWithStart interface {
	Notifier
	Start()
	Stop()
}
