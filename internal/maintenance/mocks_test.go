package maintenance

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/ukydev/fleet-maintenance/internal/models"
)

// MockVehicleCollection is a mock implementation of db.VehicleCollection
type MockVehicleCollection struct {
	mock.Mock
}

func (m *MockVehicleCollection) InsertVehicle(ctx context.Context, vehicle models.Vehicle) error {
	args := m.Called(ctx, vehicle)
	return args.Error(0)
}

func (m *MockVehicleCollection) FindVehicles(ctx context.Context) ([]models.Vehicle, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Vehicle), args.Error(1)
}

func (m *MockVehicleCollection) FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vehicle), args.Error(1)
}

func (m *MockVehicleCollection) UpdateOdometer(ctx context.Context, id string, odometer int, at time.Time) error {
	args := m.Called(ctx, id, odometer, at)
	return args.Error(0)
}

// MockReadingCollection is a mock implementation of db.ReadingCollection
type MockReadingCollection struct {
	mock.Mock
}

func (m *MockReadingCollection) InsertReading(ctx context.Context, reading models.OdometerReading) error {
	args := m.Called(ctx, reading)
	return args.Error(0)
}

func (m *MockReadingCollection) FindReadings(ctx context.Context, vehicleID string) ([]models.OdometerReading, error) {
	args := m.Called(ctx, vehicleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.OdometerReading), args.Error(1)
}

func (m *MockReadingCollection) FindReadingBetween(ctx context.Context, vehicleID string, from, to time.Time) (*models.OdometerReading, error) {
	args := m.Called(ctx, vehicleID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OdometerReading), args.Error(1)
}

func (m *MockReadingCollection) UpdateReading(ctx context.Context, reading models.OdometerReading) error {
	args := m.Called(ctx, reading)
	return args.Error(0)
}

// MockServiceCollection is a mock implementation of db.ServiceCollection
type MockServiceCollection struct {
	mock.Mock
}

func (m *MockServiceCollection) InsertService(ctx context.Context, svc models.Service) error {
	args := m.Called(ctx, svc)
	return args.Error(0)
}

func (m *MockServiceCollection) FindServiceByID(ctx context.Context, id string) (*models.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Service), args.Error(1)
}

func (m *MockServiceCollection) FindServices(ctx context.Context, vehicleID string) ([]models.Service, error) {
	args := m.Called(ctx, vehicleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Service), args.Error(1)
}

func (m *MockServiceCollection) ReplaceService(ctx context.Context, svc models.Service) error {
	args := m.Called(ctx, svc)
	return args.Error(0)
}

// MockServiceLogCollection is a mock implementation of db.ServiceLogCollection
type MockServiceLogCollection struct {
	mock.Mock
}

func (m *MockServiceLogCollection) InsertServiceLog(ctx context.Context, entry models.ServiceLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockServiceLogCollection) FindServiceLogs(ctx context.Context, serviceID string) ([]models.ServiceLog, error) {
	args := m.Called(ctx, serviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ServiceLog), args.Error(1)
}
