package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/fleet-maintenance/internal/auth"
	"github.com/ukydev/fleet-maintenance/internal/config"
	"github.com/ukydev/fleet-maintenance/internal/db"
	"github.com/ukydev/fleet-maintenance/internal/forecast"
	"github.com/ukydev/fleet-maintenance/internal/models"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

const reportJSON = `{
	"vehicle_id": "v1",
	"evaluated_at": "2025-06-15T12:00:00Z",
	"pace": 30,
	"confidence": {"level": "medium"},
	"last_odometer": 19950,
	"projected_odometer": 20000,
	"effective_odometer": 20000,
	"items": [
		{"id": "s3", "name": "Inspection", "kind": "service", "status": "overdue",
		 "deadlines": {"due_date": "2025-06-13T00:00:00Z"}, "effective_due": "2025-06-13T00:00:00Z"},
		{"id": "s1", "name": "Oil change", "kind": "service", "status": "due_soon",
		 "deadlines": {"due_distance": 20310}, "effective_due": "2025-06-25T00:00:00Z"},
		{"id": "s9", "name": "Timing belt", "kind": "service", "status": "neutral", "deadlines": {}}
	]
}`

func TestForecastCmd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/vehicles/v1/forecast", r.URL.Path)
		assert.Equal(t, "Bearer cli-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(reportJSON))
	}))
	defer server.Close()

	out, err := run(t, "", "forecast", "v1", "--api-url", server.URL+"/api/", "--token", "cli-token")
	require.NoError(t, err)

	assert.Contains(t, out, "30.0/day (medium confidence)")
	assert.Contains(t, out, "projected 20000")
	inspection := strings.Index(out, "Inspection")
	oil := strings.Index(out, "Oil change")
	belt := strings.Index(out, "Timing belt")
	require.True(t, inspection > 0 && oil > 0 && belt > 0)
	assert.Less(t, inspection, oil)
	assert.Less(t, oil, belt)
	assert.Contains(t, out, "due soon")
	assert.Contains(t, out, "20310")
	assert.Contains(t, out, "2025-06-13")
	assert.Contains(t, out, "Overall:    overdue")
}

func TestForecastCmd_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"vehicle not found"}`))
	}))
	defer server.Close()

	_, err := run(t, "", "forecast", "v1", "--api-url", server.URL+"/api")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vehicle not found (404)")
}

func TestForecastCmd_RequiresVehicle(t *testing.T) {
	_, err := run(t, "", "forecast")
	assert.Error(t, err)
}

func TestLoginCmd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"abc.def.ghi","expires_at":"2025-06-16T12:00:00Z","owner":{"username":"owner"}}`))
	}))
	defer server.Close()

	out, err := run(t, "correct horse battery\n", "login", "--api-url", server.URL+"/api")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi\n", out)
}

func TestSettingsCmds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")

	out, err := run(t, "", "settings", "show", "--settings", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Mileage: 750")
	assert.Contains(t, out, "Days:    30")

	_, err = run(t, "", "settings", "set", "--settings", path, "--mileage", "1000")
	require.NoError(t, err)
	s, err := config.LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, 1000, s.Thresholds.Mileage)
	assert.Equal(t, 30, s.Thresholds.Days)

	_, err = run(t, "", "settings", "set", "--settings", path, "--days", "45")
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalidThreshold)
	s, err = config.LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, 30, s.Thresholds.Days)
}

// MockOwnerCollection is a mock implementation of db.OwnerCollection
type MockOwnerCollection struct {
	mock.Mock
}

var _ db.OwnerCollection = (*MockOwnerCollection)(nil)

func (m *MockOwnerCollection) InsertOwner(ctx context.Context, owner models.Owner) error {
	args := m.Called(ctx, owner)
	return args.Error(0)
}

func (m *MockOwnerCollection) FindOwnerByUsername(ctx context.Context, username string) (*models.Owner, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Owner), args.Error(1)
}

func (m *MockOwnerCollection) UpdateLastLogin(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOwnerCollection) CountOwners(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func TestCreateOwner(t *testing.T) {
	authService := auth.NewService("secret", time.Hour)
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("stores hashed passphrase", func(t *testing.T) {
		owners := new(MockOwnerCollection)
		owners.On("CountOwners", mock.Anything).Return(int64(0), nil)
		owners.On("InsertOwner", mock.Anything, mock.MatchedBy(func(o models.Owner) bool {
			return o.Username == "owner" && authService.CheckPassphrase("correct horse battery", o.PassphraseHash)
		})).Return(nil)

		owner, err := createOwner(context.Background(), owners, authService, "owner", "correct horse battery", now)
		require.NoError(t, err)
		assert.Equal(t, now, owner.CreatedAt)
		owners.AssertExpectations(t)
	})

	t.Run("existing owner", func(t *testing.T) {
		owners := new(MockOwnerCollection)
		owners.On("CountOwners", mock.Anything).Return(int64(1), nil)

		_, err := createOwner(context.Background(), owners, authService, "owner", "correct horse battery", now)
		assert.ErrorIs(t, err, errOwnerExists)
		owners.AssertNotCalled(t, "InsertOwner", mock.Anything, mock.Anything)
	})

	t.Run("second account under another name", func(t *testing.T) {
		owners := new(MockOwnerCollection)
		owners.On("CountOwners", mock.Anything).Return(int64(1), nil)

		_, err := createOwner(context.Background(), owners, authService, "other", "correct horse battery", now)
		assert.ErrorIs(t, err, errOwnerExists)
		owners.AssertNotCalled(t, "InsertOwner", mock.Anything, mock.Anything)
	})

	t.Run("short passphrase", func(t *testing.T) {
		owners := new(MockOwnerCollection)
		_, err := createOwner(context.Background(), owners, authService, "owner", "short", now)
		assert.Error(t, err)
		owners.AssertNotCalled(t, "CountOwners", mock.Anything)
	})

	t.Run("lookup failure", func(t *testing.T) {
		owners := new(MockOwnerCollection)
		owners.On("CountOwners", mock.Anything).Return(int64(0), assert.AnError)

		_, err := createOwner(context.Background(), owners, authService, "owner", "correct horse battery", now)
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestReadPassphrase(t *testing.T) {
	p, err := readPassphrase(strings.NewReader("correct horse battery\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "correct horse battery", p)

	p, err = readPassphrase(strings.NewReader("no newline at end"))
	require.NoError(t, err)
	assert.Equal(t, "no newline at end", p)

	_, err = readPassphrase(strings.NewReader(""))
	assert.Error(t, err)
}

func TestOverallStatus(t *testing.T) {
	assert.Equal(t, models.StatusNeutral, overallStatus(nil))
	assert.Equal(t, models.StatusDueSoon, overallStatus([]forecast.Item{
		{Status: models.StatusGood},
		{Status: models.StatusDueSoon},
		{Status: models.StatusNeutral},
	}))
}
