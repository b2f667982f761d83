package main

import (
	"bytes"
	"testing"

	"github.com/raykavin/pricewatch/internal/config"
	"github.com/raykavin/pricewatch/pkg/core"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestPrintReading(t *testing.T) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	bid := 91250.0
	printReading(cmd, core.PriceReading{Label: "Silver CORSHA 5 Kgs", Bid: &bid}, "₹")

	require.Contains(t, out.String(), "Silver CORSHA 5 Kgs")
	require.Contains(t, out.String(), "₹91250")
	require.Contains(t, out.String(), "n/a")
}

func TestBuildLogger(t *testing.T) {
	for _, driver := range []string{"zerolog", "logrus"} {
		cfg := &config.AppConfig{Log: config.LogConfig{Driver: driver, Level: "debug", TimeFormat: "15:04:05"}}
		log, err := buildLogger(cfg)
		require.NoError(t, err, driver)
		require.NotNil(t, log, driver)
	}

	_, err := buildLogger(&config.AppConfig{Log: config.LogConfig{Driver: "zerolog", Level: "loud"}})
	require.Error(t, err)
}
