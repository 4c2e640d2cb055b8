package internal

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, LogLevelDebug, ParseLogLevel(" debug "))
	assert.Equal(t, LogLevelError, ParseLogLevel("ERROR"))
	assert.Equal(t, LogLevelInfo, ParseLogLevel("verbose"))
	assert.Equal(t, "WARN", LogLevelWarn.String())
}

func TestLoggerFiltersAndTags(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(LogLevelInfo).WithOutput(&buf).WithComponent("AnalyticsService")

	l.Debug("hidden %d", 1)
	l.Info("run %s finished", "abc")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[INFO] [AnalyticsService] run abc finished")
}
