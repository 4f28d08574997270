package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLoggerEncodings(t *testing.T) {
	for _, enc := range []string{"", "json", "logfmt", "LOGFMT", "unknown"} {
		logger, err := NewLogger(Options{Level: "debug", Encoding: enc, Service: "receipt-service"})
		require.NoError(t, err, enc)
		require.True(t, logger.Core().Enabled(zapcore.DebugLevel), enc)
	}
}

func TestNewLoggerDefaultsToInfo(t *testing.T) {
	logger, err := NewLogger(Options{Level: "nonsense"})
	require.NoError(t, err)
	require.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	require.True(t, logger.Core().Enabled(zapcore.InfoLevel))
}
