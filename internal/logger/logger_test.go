package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"job-tracker/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		expected zerolog.Level
	}{
		{"empty defaults to info", "", zerolog.InfoLevel},
		{"trace level", "trace", zerolog.TraceLevel},
		{"debug level", "debug", zerolog.DebugLevel},
		{"warning alias", "warning", zerolog.WarnLevel},
		{"error level", "error", zerolog.ErrorLevel},
		{"uppercase INFO", "INFO", zerolog.InfoLevel},
		{"mixed case Debug", "Debug", zerolog.DebugLevel},
		{"unknown defaults to info", "unknown", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLogLevel(tt.level))
		})
	}
}

func TestInitWithWriter_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(config.LoggerConfig{Level: "info", Environment: "production"}, &buf)

	Info().Str("application_id", "abc").Msg("status updated")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "status updated", entry["message"])
	assert.Equal(t, "abc", entry["application_id"])
	assert.Equal(t, "job-tracker", entry["service"])
}

func TestInitWithWriter_DevelopmentIsReadable(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(config.LoggerConfig{Level: "debug", Environment: "test"}, &buf)

	Debug().Msg("scoring candidates")
	assert.Contains(t, buf.String(), "scoring candidates")
	assert.False(t, strings.HasPrefix(buf.String(), "{"))
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(config.LoggerConfig{Level: "warn", Environment: "production"}, &buf)

	Debug().Msg("debug message")
	Info().Msg("info message")
	Warn().Msg("warn message")

	output := buf.String()
	assert.NotContains(t, output, "debug message")
	assert.NotContains(t, output, "info message")
	assert.Contains(t, output, "warn message")
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(config.LoggerConfig{Level: "info", Environment: "production"}, &buf)

	l := Component("scheduler")
	l.Info().Msg("job registered")
	assert.Contains(t, buf.String(), `"component":"scheduler"`)
	assert.NotNil(t, Get())
}
