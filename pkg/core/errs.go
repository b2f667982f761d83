package core

import (
	"errors"
	"fmt"
)

var (
	ErrTargetExists     = errors.New("target already exists")
	ErrTargetNotFound   = errors.New("target not found")
	ErrInvalidPrice     = errors.New("invalid price")
	ErrPriceUnavailable = errors.New("price not available yet")

	ErrSourceUnavailable = errors.New("source unavailable")
	ErrStructureMissing  = errors.New("expected page structure missing")
	ErrDataNotFound      = errors.New("data not found")
)

// SourceError is returned by a PriceSource when a probe fails.
// Kind is one of ErrSourceUnavailable, ErrStructureMissing or ErrDataNotFound.
type SourceError struct {
	Kind error
	URL  string
	Err  error
}

func (e *SourceError) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Err)
}

func (e *SourceError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// KindOf classifies a source failure, returning ErrSourceUnavailable for
// errors that did not come from a PriceSource
func KindOf(err error) error {
	var sourceErr *SourceError
	if errors.As(err, &sourceErr) && sourceErr.Kind != nil {
		return sourceErr.Kind
	}
	return ErrSourceUnavailable
}
