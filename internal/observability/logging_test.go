package observability

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/rogue-trader/internal/config"
)

func TestNewLogger(t *testing.T) {
	cases := []struct {
		name    string
		cfg     config.LoggingConfig
		wantErr bool
	}{
		{"json", config.LoggingConfig{Level: "info", Format: "json"}, false},
		{"console to stderr", config.LoggingConfig{Level: "debug", Format: "console", Output: "stderr"}, false},
		{"warn", config.LoggingConfig{Level: "warn", Format: "json"}, false},
		{"error", config.LoggingConfig{Level: "error", Format: "console"}, false},
		{"unknown level", config.LoggingConfig{Level: "trace", Format: "json"}, true},
		{"unknown format", config.LoggingConfig{Level: "info", Format: "xml"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			logger, err := NewLogger(tc.cfg)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestNewLogger_LevelGatesDebug(t *testing.T) {
	logger, err := NewLogger(config.LoggingConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
}

func TestNewLogger_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rolls.log")
	logger, err := NewLogger(config.LoggingConfig{Level: "debug", Format: "json", Output: path})
	require.NoError(t, err)

	logger.Debug("d100 test")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"d100 test"`)
}
