package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secretwall/secretwall/internal/logger"
)

func TestNew_ProductionPreset(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithProduction("testapp"), logger.WithOutput(&buf))

	log.Debug("hidden")
	log.Info("visible")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "visible", entry["msg"])
	assert.Equal(t, "testapp", entry["app"])
	assert.NotContains(t, buf.String(), "hidden", "debug is below production level")
}

func TestNew_DevelopmentPreset(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithDevelopment("testapp"), logger.WithOutput(&buf))

	log.Debug("details")
	assert.Contains(t, buf.String(), "details", "development logs at debug level")
	assert.NotContains(t, buf.String(), "{", "development output is text, not JSON")
}

func TestAttrHelpers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.Attr{}, logger.Error(nil), "nil error yields empty attr")
	assert.Equal(t, "error", logger.Error(errors.New("x")).Key)

	assert.Equal(t, slog.Attr{}, logger.RequestID(""))
	assert.Equal(t, slog.Attr{}, logger.UserID(""))

	assert.Equal(t, "component", logger.Component("session").Key)
	assert.Equal(t, "duration", logger.Duration(time.Second).Key)
	assert.Equal(t, "status", logger.Status(200).Key)
}

func TestNoop(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		logger.Noop().Error("discarded", logger.Error(errors.New("x")))
	})
}
