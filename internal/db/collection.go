package db

import (
	"context"
	"time"

	"github.com/ukydev/fleet-maintenance/internal/models"
)

// VehicleCollection defines the interface for vehicle data operations.
type VehicleCollection interface {
	InsertVehicle(ctx context.Context, vehicle models.Vehicle) error
	FindVehicles(ctx context.Context) ([]models.Vehicle, error)
	FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error)
	UpdateOdometer(ctx context.Context, id string, odometer int, at time.Time) error
}

// ReadingCollection defines the interface for odometer reading operations.
type ReadingCollection interface {
	InsertReading(ctx context.Context, reading models.OdometerReading) error
	FindReadings(ctx context.Context, vehicleID string) ([]models.OdometerReading, error)
	// FindReadingBetween returns the vehicle's reading recorded in [from, to).
	FindReadingBetween(ctx context.Context, vehicleID string, from, to time.Time) (*models.OdometerReading, error)
	UpdateReading(ctx context.Context, reading models.OdometerReading) error
}

// ServiceCollection defines the interface for tracked service operations.
type ServiceCollection interface {
	InsertService(ctx context.Context, svc models.Service) error
	FindServiceByID(ctx context.Context, id string) (*models.Service, error)
	FindServices(ctx context.Context, vehicleID string) ([]models.Service, error)
	ReplaceService(ctx context.Context, svc models.Service) error
}

// ServiceLogCollection defines the interface for service history operations.
type ServiceLogCollection interface {
	InsertServiceLog(ctx context.Context, entry models.ServiceLog) error
	FindServiceLogs(ctx context.Context, serviceID string) ([]models.ServiceLog, error)
}

// OwnerCollection defines the interface for owner account operations.
type OwnerCollection interface {
	InsertOwner(ctx context.Context, owner models.Owner) error
	FindOwnerByUsername(ctx context.Context, username string) (*models.Owner, error)
	UpdateLastLogin(ctx context.Context, id string) error
	CountOwners(ctx context.Context) (int64, error)
}
