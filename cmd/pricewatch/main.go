package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/olekukonko/tablewriter"
	"github.com/raykavin/pricewatch"
	"github.com/raykavin/pricewatch/internal/config"
	"github.com/raykavin/pricewatch/pkg/core"
	"github.com/raykavin/pricewatch/pkg/logger"
	"github.com/raykavin/pricewatch/pkg/logger/logrus"
	"github.com/raykavin/pricewatch/pkg/logger/zerolog"
	"github.com/raykavin/pricewatch/pkg/metric"
	"github.com/raykavin/pricewatch/pkg/notification"
	"github.com/raykavin/pricewatch/pkg/source"
	"github.com/spf13/cobra"
)

const version = "1.0.0"

// Command line flags
var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:     "pricewatch",
		Short:   "Watch a bullion rate page and alert on Telegram when targets are crossed",
		Version: version,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (yaml, json, toml or env)")

	rootCmd.AddCommand(buildRunCmd(), buildCheckCmd())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the Telegram bot and the poll loop",
		RunE:  runWatch,
	}
}

func buildCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Fetch one reading and print it",
		RunE:  runCheck,
	}
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := buildLogger(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	priceSource, err := source.NewHTMLSource(cfg.SourceConfig(), log)
	if err != nil {
		return err
	}

	options := []pricewatch.Option{pricewatch.WithLogger(log)}
	if cfg.Mail.Enabled {
		options = append(options, pricewatch.WithNotifier(notification.NewMail(cfg.MailParams(), log)))
	}

	bot, err := pricewatch.NewBot(cfg.Settings(), priceSource, options...)
	if err != nil {
		return err
	}

	if cfg.MetricsAddr != "" {
		go func() {
			if err := metric.Serve(ctx, cfg.MetricsAddr, log); err != nil {
				log.WithError(err).Error("metrics exporter stopped")
			}
		}()
	}

	log.WithFields(map[string]any{
		"url":      cfg.Source.URL,
		"product":  cfg.Source.Label,
		"interval": cfg.Poll.Interval.String(),
	}).Info("pricewatch initialized")

	return bot.Run(ctx)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.ValidateSource(); err != nil {
		return err
	}

	log, err := buildLogger(cfg)
	if err != nil {
		return err
	}

	priceSource, err := source.NewHTMLSource(cfg.SourceConfig(), log)
	if err != nil {
		return err
	}

	if err := priceSource.Prepare(cmd.Context()); err != nil {
		return err
	}

	reading, err := priceSource.Fetch(cmd.Context())
	if err != nil {
		return err
	}

	printReading(cmd, reading, cfg.Currency)
	return nil
}

func printReading(cmd *cobra.Command, reading core.PriceReading, currency string) {
	cell := func(value *float64) string {
		if value == nil {
			return "n/a"
		}
		return currency + core.FormatPrice(*value)
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"Product", "Bid", "Ask"})
	table.Append([]string{reading.Label, cell(reading.Bid), cell(reading.Ask)})
	table.Render()
}

func buildLogger(cfg *config.AppConfig) (logger.Logger, error) {
	if cfg.Log.Driver == "logrus" {
		return logrus.New(cfg.LoggerOptions())
	}

	return zerolog.New(cfg.LoggerOptions())
}
