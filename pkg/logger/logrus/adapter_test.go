package logrus

import (
	"bytes"
	"errors"
	"testing"

	"github.com/raykavin/pricewatch/pkg/logger"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestLogrusAdapter(t *testing.T) {
	var buf bytes.Buffer
	base := logrus.New()
	base.SetOutput(&buf)
	base.SetFormatter(&logrus.TextFormatter{DisableColors: true, DisableTimestamp: true})

	log := NewAdapter(base)
	log.SetLevel(logger.WarnLevel)
	require.Equal(t, logger.WarnLevel, log.GetLevel())

	log.Info("hidden")
	log.WithField("target", 100).WithError(errors.New("boom")).Warn("send failed")

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "send failed")
	require.Contains(t, out, "target=100")
	require.Contains(t, out, "error=boom")
}
