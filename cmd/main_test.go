package main

import (
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/fleet-maintenance/internal/config"
	"github.com/ukydev/fleet-maintenance/internal/forecast"
)

func TestNewLogger(t *testing.T) {
	t.Run("json at debug", func(t *testing.T) {
		logger, err := newLogger("debug", "json")
		require.NoError(t, err)
		assert.Equal(t, log.DebugLevel, logger.GetLevel())
		assert.IsType(t, &log.JSONFormatter{}, logger.Formatter)
	})

	t.Run("text by default", func(t *testing.T) {
		logger, err := newLogger("info", "")
		require.NoError(t, err)
		assert.IsType(t, &log.TextFormatter{}, logger.Formatter)
	})

	t.Run("unknown level", func(t *testing.T) {
		_, err := newLogger("chatty", "text")
		assert.Error(t, err)
	})
}

func TestSettingsThresholds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	logger, hook := test.NewNullLogger()
	thresholds := settingsThresholds(path, logger)

	assert.Equal(t, forecast.DefaultThresholds(), thresholds())
	assert.Empty(t, hook.AllEntries())

	s := config.DefaultSettings()
	s.Thresholds.Mileage = 1500
	s.Thresholds.Days = 60
	require.NoError(t, config.SaveSettings(path, s))
	assert.Equal(t, forecast.Thresholds{Mileage: 1500, Days: 60}, thresholds())

	require.NoError(t, os.WriteFile(path, []byte("[thresholds]\nmileage = 42\ndays = 7\n"), 0o600))
	assert.Equal(t, forecast.DefaultThresholds(), thresholds())
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "Falling back to default thresholds", hook.LastEntry().Message)
}
