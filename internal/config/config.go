// Package config handles application configuration management using Viper
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/raykavin/pricewatch/pkg/core"
	"github.com/raykavin/pricewatch/pkg/logger"
	"github.com/raykavin/pricewatch/pkg/notification"
	"github.com/raykavin/pricewatch/pkg/source"
	"github.com/spf13/viper"
	"github.com/xhit/go-str2duration/v2"
)

// Constants for configuration
const (
	DefaultEnvFile      = ".env"
	DefaultSourceURL    = "http://nakodabullion.com/"
	DefaultProductLabel = "Silver CORSHA 5 Kgs"
)

// AppConfig holds the application configuration
type AppConfig struct {
	Telegram TelegramConfig
	Source   SourceConfig
	Poll     PollConfig
	Mail     MailConfig
	Log      LogConfig

	Currency    string
	MetricsAddr string
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	Token  string
	ChatID int64
}

// SourceConfig holds the price page configuration
type SourceConfig struct {
	URL                 string
	Label               string
	UserAgent           string
	FetchTimeout        time.Duration
	NavigationTimeout   time.Duration
	InterstitialTimeout time.Duration
}

// PollConfig holds the poll loop configuration
type PollConfig struct {
	Interval        time.Duration
	StartupAttempts int
}

// MailConfig holds the optional e-mail mirror configuration
type MailConfig struct {
	Enabled     bool
	SMTPAddress string
	SMTPPort    int
	From        string
	To          string
	Password    string
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level      string
	Driver     string
	Colored    bool
	JSON       bool
	TimeFormat string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SOURCE_URL", DefaultSourceURL)
	v.SetDefault("PRODUCT_LABEL", DefaultProductLabel)
	v.SetDefault("USER_AGENT", source.DefaultUserAgent)
	v.SetDefault("POLL_INTERVAL", "10s")
	v.SetDefault("FETCH_TIMEOUT", "30s")
	v.SetDefault("NAVIGATION_TIMEOUT", "60s")
	v.SetDefault("INTERSTITIAL_TIMEOUT", "5s")
	v.SetDefault("STARTUP_ATTEMPTS", 3)
	v.SetDefault("CURRENCY_SYMBOL", "₹")
	v.SetDefault("METRICS_ADDR", "")
	v.SetDefault("MAIL_ENABLED", false)
	v.SetDefault("MAIL_SMTP_PORT", 587)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DRIVER", "zerolog")
	v.SetDefault("LOG_COLOR", true)
	v.SetDefault("LOG_JSON", false)
	v.SetDefault("LOG_TIME_FORMAT", "2006-01-02 15:04:05")
}

// Load reads the .env file (when present), the optional config file and the
// environment, in increasing order of precedence
func Load(configPath string) (*AppConfig, error) {
	if err := godotenv.Load(DefaultEnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", DefaultEnvFile, err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*AppConfig, error) {
	durations := map[string]*time.Duration{}
	config := &AppConfig{
		Telegram: TelegramConfig{
			Token:  v.GetString("TELEGRAM_TOKEN"),
			ChatID: v.GetInt64("TELEGRAM_CHAT_ID"),
		},
		Source: SourceConfig{
			URL:       v.GetString("SOURCE_URL"),
			Label:     v.GetString("PRODUCT_LABEL"),
			UserAgent: v.GetString("USER_AGENT"),
		},
		Poll: PollConfig{
			StartupAttempts: v.GetInt("STARTUP_ATTEMPTS"),
		},
		Mail: MailConfig{
			Enabled:     v.GetBool("MAIL_ENABLED"),
			SMTPAddress: v.GetString("MAIL_SMTP_ADDRESS"),
			SMTPPort:    v.GetInt("MAIL_SMTP_PORT"),
			From:        v.GetString("MAIL_FROM"),
			To:          v.GetString("MAIL_TO"),
			Password:    v.GetString("MAIL_PASSWORD"),
		},
		Log: LogConfig{
			Level:      v.GetString("LOG_LEVEL"),
			Driver:     strings.ToLower(v.GetString("LOG_DRIVER")),
			Colored:    v.GetBool("LOG_COLOR"),
			JSON:       v.GetBool("LOG_JSON"),
			TimeFormat: v.GetString("LOG_TIME_FORMAT"),
		},
		Currency:    v.GetString("CURRENCY_SYMBOL"),
		MetricsAddr: v.GetString("METRICS_ADDR"),
	}

	durations["POLL_INTERVAL"] = &config.Poll.Interval
	durations["FETCH_TIMEOUT"] = &config.Source.FetchTimeout
	durations["NAVIGATION_TIMEOUT"] = &config.Source.NavigationTimeout
	durations["INTERSTITIAL_TIMEOUT"] = &config.Source.InterstitialTimeout

	for key, target := range durations {
		value, err := str2duration.ParseDuration(v.GetString(key))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", key, err)
		}
		*target = value
	}

	return config, nil
}

// Validate checks the settings required to run the watcher
func (c *AppConfig) Validate() error {
	var errs []error

	if c.Telegram.Token == "" {
		errs = append(errs, errors.New("TELEGRAM_TOKEN is required"))
	}
	if c.Telegram.ChatID == 0 {
		errs = append(errs, errors.New("TELEGRAM_CHAT_ID is required"))
	}

	errs = append(errs, c.ValidateSource())

	if c.Poll.Interval <= 0 {
		errs = append(errs, fmt.Errorf("POLL_INTERVAL must be positive, got %s", c.Poll.Interval))
	}
	if c.Mail.Enabled && (c.Mail.SMTPAddress == "" || c.Mail.To == "" || c.Mail.From == "") {
		errs = append(errs, errors.New("MAIL_SMTP_ADDRESS, MAIL_FROM and MAIL_TO are required when MAIL_ENABLED is set"))
	}
	if c.Log.Driver != "zerolog" && c.Log.Driver != "logrus" {
		errs = append(errs, fmt.Errorf("unknown LOG_DRIVER %q", c.Log.Driver))
	}

	return errors.Join(errs...)
}

// ValidateSource checks only the settings needed to probe the page
func (c *AppConfig) ValidateSource() error {
	var errs []error

	if c.Source.URL == "" {
		errs = append(errs, errors.New("SOURCE_URL is required"))
	}
	if c.Source.Label == "" {
		errs = append(errs, errors.New("PRODUCT_LABEL is required"))
	}

	return errors.Join(errs...)
}

// Settings converts the configuration to the runtime settings of the bot
func (c *AppConfig) Settings() *core.Settings {
	return &core.Settings{
		Product: core.ProductSettings{
			URL:   c.Source.URL,
			Label: c.Source.Label,
		},
		Poll: core.PollSettings{
			Interval:        c.Poll.Interval,
			StartupAttempts: c.Poll.StartupAttempts,
		},
		Telegram: core.TelegramSettings{
			Token:  c.Telegram.Token,
			ChatID: c.Telegram.ChatID,
		},
		Currency: c.Currency,
	}
}

// SourceConfig converts the configuration to the HTML source settings
func (c *AppConfig) SourceConfig() source.Config {
	return source.Config{
		URL:                 c.Source.URL,
		Label:               c.Source.Label,
		UserAgent:           c.Source.UserAgent,
		FetchTimeout:        c.Source.FetchTimeout,
		NavigationTimeout:   c.Source.NavigationTimeout,
		InterstitialTimeout: c.Source.InterstitialTimeout,
	}
}

// MailParams converts the configuration to the e-mail notifier parameters
func (c *AppConfig) MailParams() notification.MailParams {
	return notification.MailParams{
		SMTPServerPort:    c.Mail.SMTPPort,
		SMTPServerAddress: c.Mail.SMTPAddress,
		To:                c.Mail.To,
		From:              c.Mail.From,
		Password:          c.Mail.Password,
	}
}

// LoggerOptions converts the configuration to logger options
func (c *AppConfig) LoggerOptions() logger.Options {
	return logger.Options{
		Level:      c.Log.Level,
		TimeFormat: c.Log.TimeFormat,
		Colored:    c.Log.Colored,
		JSON:       c.Log.JSON,
	}
}
