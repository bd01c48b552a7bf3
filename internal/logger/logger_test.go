package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"hdss-monitor/internal/config"
)

func TestNewLevels(t *testing.T) {
	l, err := New(config.Log{Level: "warn", Format: "console"}, false)
	require.NoError(t, err)
	require.False(t, l.Core().Enabled(zapcore.InfoLevel))
	require.True(t, l.Core().Enabled(zapcore.WarnLevel))

	l, err = New(config.Log{Level: "error"}, true)
	require.NoError(t, err)
	require.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestNewRejectsUnknownSettings(t *testing.T) {
	_, err := New(config.Log{Level: "loud"}, false)
	require.Error(t, err)

	_, err = New(config.Log{Format: "xml"}, false)
	require.Error(t, err)
}
