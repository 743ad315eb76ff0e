package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/fleet-maintenance/internal/forecast"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "MONGO_DB", "JWT_EXPIRY", "MQTT_TOPIC", "SETTINGS_PATH"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "fleet", cfg.MongoDB)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, "vehicles/+/odometer", cfg.MQTTTopic)
	assert.Equal(t, "settings.toml", cfg.SettingsPath)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_EXPIRY", "2h")
	t.Setenv("MQTT_BROKER", "tcp://broker:1883")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 2*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, "tcp://broker:1883", cfg.MQTTBroker)
}

func TestLoad_BadExpiryKeepsDefault(t *testing.T) {
	t.Setenv("JWT_EXPIRY", "soon")
	assert.Equal(t, 24*time.Hour, Load().JWTExpiry)
}

func TestLoadSettings_MissingFile(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
	assert.Equal(t, forecast.DefaultThresholds(), s.ForecastThresholds())
}

func TestSaveAndLoadSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.toml")
	s := DefaultSettings()
	s.Thresholds.Mileage = 1500
	s.Thresholds.Days = 14
	s.Display.DistanceUnit = "km"

	require.NoError(t, SaveSettings(path, s))

	loaded, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
	assert.Equal(t, forecast.Thresholds{Mileage: 1500, Days: 14}, loaded.ForecastThresholds())
}

func TestLoadSettings_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte("[thresholds]\ndays = 60\n"), 0o600))

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, 60, s.Thresholds.Days)
	assert.Equal(t, forecast.DefaultMileageThreshold, s.Thresholds.Mileage)
}

func TestLoadSettings_InvalidThreshold(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte("[thresholds]\nmileage = 800\n"), 0o600))

	s, err := LoadSettings(path)
	assert.ErrorIs(t, err, ErrInvalidThreshold)
	assert.Equal(t, DefaultSettings(), s)
}

func TestLoadSettings_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte("[thresholds\n"), 0o600))

	s, err := LoadSettings(path)
	assert.Error(t, err)
	assert.Equal(t, DefaultSettings(), s)
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr error
	}{
		{"defaults", func(*Settings) {}, nil},
		{"mileage not offered", func(s *Settings) { s.Thresholds.Mileage = 100 }, ErrInvalidThreshold},
		{"days not offered", func(s *Settings) { s.Thresholds.Days = 45 }, ErrInvalidThreshold},
		{"every mileage option", func(s *Settings) { s.Thresholds.Mileage = 2000 }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	s := DefaultSettings()
	s.Display.DistanceUnit = "furlongs"
	assert.ErrorIs(t, s.Validate(), ErrInvalidUnit)
}

func TestSaveSettings_RejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	s := DefaultSettings()
	s.Thresholds.Days = 1

	assert.ErrorIs(t, SaveSettings(path, s), ErrInvalidThreshold)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestSaveSettings_ReportsWriteFailure(t *testing.T) {
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("/dev/full not available")
	}

	err := SaveSettings("/dev/full", DefaultSettings())
	assert.Error(t, err)
}
