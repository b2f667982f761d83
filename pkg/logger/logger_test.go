package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for name, want := range map[string]Level{
		"debug":    DebugLevel,
		" INFO ":   InfoLevel,
		"warning":  WarnLevel,
		"error":    ErrorLevel,
		"disabled": Disabled,
	} {
		level, err := ParseLevel(name)
		require.NoError(t, err, name)
		require.Equal(t, want, level, name)
	}

	_, err := ParseLevel("loud")
	require.Error(t, err)
}

func TestLevel_String(t *testing.T) {
	require.Equal(t, "warn", WarnLevel.String())
	require.Equal(t, "unknown", Level(42).String())
}
