package core

import "time"

// Settings represents the main configuration for the application
type Settings struct {
	Product  ProductSettings  // What to watch and where
	Poll     PollSettings     // Poll loop timing
	Telegram TelegramSettings // Telegram transport settings
	Currency string           // Symbol printed in front of prices
}

// ProductSettings describes the data source and the product row to match
type ProductSettings struct {
	URL   string // Page address
	Label string // Case-sensitive text matched against the product name cell
}

// PollSettings holds the poll loop cadence and startup behavior
type PollSettings struct {
	Interval        time.Duration // Delay between two cycles
	StartupAttempts int           // How many times Prepare is tried before giving up
}

// TelegramSettings holds configuration for Telegram integration
type TelegramSettings struct {
	Token  string // Telegram bot token
	ChatID int64  // The only chat allowed to issue commands
}
