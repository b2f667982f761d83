package notification

import "github.com/raykavin/pricewatch/pkg/core"

// Multi fans every message out to several notifiers
type Multi []core.Notifier

func (m Multi) Notify(text string) {
	for _, notifier := range m {
		notifier.Notify(text)
	}
}

func (m Multi) Alert(text string) {
	for _, notifier := range m {
		notifier.Alert(text)
	}
}
