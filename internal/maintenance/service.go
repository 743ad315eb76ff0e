// Package maintenance is the application layer: it loads vehicle state from
// storage, runs the forecast engine and persists the outcome of owner actions.
package maintenance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-maintenance/internal/db"
	"github.com/ukydev/fleet-maintenance/internal/forecast"
	"github.com/ukydev/fleet-maintenance/internal/metrics"
	"github.com/ukydev/fleet-maintenance/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNegativeDistance = errors.New("distance must not be negative")
	ErrInvalidInterval  = errors.New("interval must not be negative")
	ErrInvalidOrigin    = errors.New("unknown reading origin")
	ErrInvalidWindow    = errors.New("bundle window must not be negative")
	ErrInvalidInput     = errors.New("invalid input")
)

// Deps are the collaborators of a Service.
type Deps struct {
	Vehicles    db.VehicleCollection
	Readings    db.ReadingCollection
	Services    db.ServiceCollection
	ServiceLogs db.ServiceLogCollection
	Metrics     *metrics.Metrics
	Logger      log.FieldLogger
	// Thresholds is consulted on every evaluation so settings edits apply
	// without a restart. Defaults to forecast.DefaultThresholds.
	Thresholds func() forecast.Thresholds
	// Now defaults to time.Now.
	Now func() time.Time
}

// Service implements the owner-facing maintenance operations.
type Service struct {
	vehicles    db.VehicleCollection
	readings    db.ReadingCollection
	services    db.ServiceCollection
	serviceLogs db.ServiceLogCollection
	metrics     *metrics.Metrics
	log         log.FieldLogger
	thresholds  func() forecast.Thresholds
	now         func() time.Time

	// readingMu serializes the find-then-write in RecordReading.
	readingMu sync.Mutex
}

// NewService creates a maintenance service.
func NewService(deps Deps) *Service {
	s := &Service{
		vehicles:    deps.Vehicles,
		readings:    deps.Readings,
		services:    deps.Services,
		serviceLogs: deps.ServiceLogs,
		metrics:     deps.Metrics,
		log:         deps.Logger,
		thresholds:  deps.Thresholds,
		now:         deps.Now,
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	if s.log == nil {
		s.log = log.StandardLogger()
	}
	if s.thresholds == nil {
		s.thresholds = forecast.DefaultThresholds
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// VehicleInput describes a vehicle to start tracking.
type VehicleInput struct {
	Name                  string     `json:"name"`
	Make                  string     `json:"make"`
	Model                 string     `json:"model"`
	Year                  int        `json:"year"`
	DistanceUnit          string     `json:"distance_unit"`
	Odometer              int        `json:"odometer"`
	RegistrationExpiresAt *time.Time `json:"registration_expires_at,omitempty"`
}

// ServiceInput describes a service to start tracking.
type ServiceInput struct {
	Name                  string                    `json:"name"`
	Interval              models.RecurrenceInterval `json:"interval"`
	LastPerformedAt       *time.Time                `json:"last_performed_at,omitempty"`
	LastPerformedDistance *int                      `json:"last_performed_distance,omitempty"`
	Notes                 string                    `json:"notes"`
}

// Completion describes a performed service.
type Completion struct {
	PerformedAt time.Time `json:"performed_at"`
	Distance    int       `json:"distance"`
	Cost        float64   `json:"cost"`
	Notes       string    `json:"notes"`
}

// CreateVehicle starts tracking a vehicle. A non-zero starting odometer is
// recorded as the first manual reading.
func (s *Service) CreateVehicle(ctx context.Context, in VehicleInput) (*models.Vehicle, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if in.Odometer < 0 {
		return nil, ErrNegativeDistance
	}
	if in.DistanceUnit == "" {
		in.DistanceUnit = models.UnitMiles
	}
	if !models.IsValidDistanceUnit(in.DistanceUnit) {
		return nil, fmt.Errorf("%w: distance unit %q", ErrInvalidInput, in.DistanceUnit)
	}

	now := s.now()
	vehicle := models.Vehicle{
		ID:                    primitive.NewObjectID(),
		Name:                  in.Name,
		Make:                  in.Make,
		Model:                 in.Model,
		Year:                  in.Year,
		DistanceUnit:          in.DistanceUnit,
		RegistrationExpiresAt: in.RegistrationExpiresAt,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := s.vehicles.InsertVehicle(ctx, vehicle); err != nil {
		return nil, fmt.Errorf("inserting vehicle: %w", err)
	}
	s.log.WithFields(log.Fields{"vehicle_id": vehicle.ID.Hex(), "name": vehicle.Name}).Info("Vehicle created")

	if in.Odometer > 0 {
		if _, err := s.RecordReading(ctx, vehicle.ID.Hex(), in.Odometer, models.OriginManual, now); err != nil {
			return nil, err
		}
		vehicle.Odometer = in.Odometer
		vehicle.OdometerUpdatedAt = &now
	}
	return &vehicle, nil
}

// ListVehicles returns every tracked vehicle.
func (s *Service) ListVehicles(ctx context.Context) ([]models.Vehicle, error) {
	vehicles, err := s.vehicles.FindVehicles(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing vehicles: %w", err)
	}
	return vehicles, nil
}

// RecordReading stores an odometer observation. A vehicle keeps at most one
// reading per calendar day of at; a second reading on the same day replaces
// the first. The vehicle's odometer follows its most recent reading.
func (s *Service) RecordReading(ctx context.Context, vehicleID string, distance int, origin models.ReadingOrigin, at time.Time) (*models.OdometerReading, error) {
	if distance < 0 {
		return nil, ErrNegativeDistance
	}
	if !models.IsValidOrigin(origin) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOrigin, origin)
	}

	s.readingMu.Lock()
	defer s.readingMu.Unlock()

	vehicle, err := s.vehicles.FindVehicleByID(ctx, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("finding vehicle %s: %w", vehicleID, err)
	}

	dayStart := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, at.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	reading, err := s.readings.FindReadingBetween(ctx, vehicleID, dayStart, dayEnd)
	switch {
	case err == nil:
		reading.Distance = distance
		reading.RecordedAt = at
		reading.Origin = origin
		if err := s.readings.UpdateReading(ctx, *reading); err != nil {
			return nil, fmt.Errorf("updating reading: %w", err)
		}
	case errors.Is(err, db.ErrNotFound):
		reading = &models.OdometerReading{
			ID:         primitive.NewObjectID(),
			VehicleID:  vehicle.ID,
			Distance:   distance,
			RecordedAt: at,
			Origin:     origin,
		}
		if err := s.readings.InsertReading(ctx, *reading); err != nil {
			return nil, fmt.Errorf("inserting reading: %w", err)
		}
	default:
		return nil, fmt.Errorf("finding same-day reading: %w", err)
	}

	if vehicle.OdometerUpdatedAt == nil || !at.Before(*vehicle.OdometerUpdatedAt) {
		if err := s.vehicles.UpdateOdometer(ctx, vehicleID, distance, at); err != nil {
			return nil, fmt.Errorf("updating odometer: %w", err)
		}
	}

	s.metrics.ReadingsRecorded.WithLabelValues(string(origin)).Inc()
	s.log.WithFields(log.Fields{
		"vehicle_id": vehicleID,
		"distance":   distance,
		"origin":     origin,
	}).Debug("Recorded odometer reading")
	return reading, nil
}

// CreateService starts tracking a service. Deadlines are derived from the
// last time it was performed, or from today at the vehicle's effective
// odometer when it never was.
func (s *Service) CreateService(ctx context.Context, vehicleID string, in ServiceInput) (*models.Service, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if err := validateInterval(in.Interval); err != nil {
		return nil, err
	}
	if in.LastPerformedDistance != nil && *in.LastPerformedDistance < 0 {
		return nil, ErrNegativeDistance
	}

	now := s.now()
	fallback, vehicle, err := s.fallbackAnchor(ctx, vehicleID, now)
	if err != nil {
		return nil, err
	}

	svc := models.Service{
		ID:                    primitive.NewObjectID(),
		VehicleID:             vehicle.ID,
		Name:                  in.Name,
		Interval:              in.Interval,
		LastPerformedAt:       in.LastPerformedAt,
		LastPerformedDistance: in.LastPerformedDistance,
		Notes:                 in.Notes,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	anchor := forecast.AnchorFor(&svc, fallback)
	svc.AnchorDate = &anchor.Date
	svc.AnchorDistance = &anchor.Distance
	svc.Deadlines = forecast.DeriveDeadlines(svc.Interval, anchor)

	if err := s.services.InsertService(ctx, svc); err != nil {
		return nil, fmt.Errorf("inserting service: %w", err)
	}
	s.log.WithFields(log.Fields{"vehicle_id": vehicleID, "service_id": svc.ID.Hex(), "name": svc.Name}).Info("Service created")
	return &svc, nil
}

// UpdateInterval changes how often a service recurs and re-derives both
// deadlines from its anchor. Overrides do not survive. Services stored
// without an anchor fall back to today at the effective odometer.
func (s *Service) UpdateInterval(ctx context.Context, serviceID string, interval models.RecurrenceInterval) (*models.Service, error) {
	if err := validateInterval(interval); err != nil {
		return nil, err
	}
	svc, err := s.findService(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	fallback, _, err := s.fallbackAnchor(ctx, svc.VehicleID.Hex(), now)
	if err != nil {
		return nil, err
	}
	svc.Interval = interval
	svc.Deadlines = forecast.DeriveDeadlines(interval, forecast.AnchorFor(svc, fallback))
	return s.replace(ctx, svc, now)
}

// OverrideDeadline sets the deadlines by hand. A nil value clears that axis.
// The override holds until the service is next completed or its interval
// changes.
func (s *Service) OverrideDeadline(ctx context.Context, serviceID string, dueDate *time.Time, dueDistance *int) (*models.Service, error) {
	if dueDistance != nil && *dueDistance < 0 {
		return nil, ErrNegativeDistance
	}
	svc, err := s.findService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	forecast.OverrideDueDate(svc, dueDate)
	forecast.OverrideDueDistance(svc, dueDistance)
	return s.replace(ctx, svc, s.now())
}

// CompleteService marks a service performed: it appends to the service
// history, records the odometer at completion and re-anchors the deadlines.
func (s *Service) CompleteService(ctx context.Context, serviceID string, c Completion) (*models.Service, error) {
	if c.Distance < 0 {
		return nil, ErrNegativeDistance
	}
	svc, err := s.findService(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if c.PerformedAt.IsZero() {
		c.PerformedAt = now
	}
	entry := models.ServiceLog{
		ID:          primitive.NewObjectID(),
		VehicleID:   svc.VehicleID,
		ServiceID:   svc.ID,
		PerformedAt: c.PerformedAt,
		Distance:    c.Distance,
		Cost:        c.Cost,
		Notes:       c.Notes,
		CreatedAt:   now,
	}
	if err := s.serviceLogs.InsertServiceLog(ctx, entry); err != nil {
		return nil, fmt.Errorf("inserting service log: %w", err)
	}

	if _, err := s.RecordReading(ctx, svc.VehicleID.Hex(), c.Distance, models.OriginServiceCompletion, c.PerformedAt); err != nil {
		return nil, err
	}

	// the schedule moves last so a failed write above leaves it untouched
	forecast.Reanchor(svc, c.PerformedAt, c.Distance)
	if _, err := s.replace(ctx, svc, now); err != nil {
		return nil, err
	}

	s.metrics.ServicesCompleted.Inc()
	s.log.WithFields(log.Fields{
		"service_id": serviceID,
		"vehicle_id": svc.VehicleID.Hex(),
		"distance":   c.Distance,
	}).Info("Service completed")
	return svc, nil
}

// ServiceHistory returns the completions of a service, most recent first.
func (s *Service) ServiceHistory(ctx context.Context, serviceID string) ([]models.ServiceLog, error) {
	if _, err := s.findService(ctx, serviceID); err != nil {
		return nil, err
	}
	logs, err := s.serviceLogs.FindServiceLogs(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("finding service logs: %w", err)
	}
	return logs, nil
}

// VehicleForecast evaluates a vehicle's readings and services now.
func (s *Service) VehicleForecast(ctx context.Context, vehicleID string) (*forecast.Report, error) {
	start := time.Now()

	snapshot, err := s.snapshot(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	report := forecast.Evaluate(snapshot)

	s.metrics.ForecastsEvaluated.Inc()
	s.metrics.ForecastDuration.Observe(time.Since(start).Seconds())
	counts := map[models.ServiceStatus]int{}
	for _, item := range report.Items {
		counts[item.Status]++
	}
	for _, status := range []models.ServiceStatus{models.StatusOverdue, models.StatusDueSoon, models.StatusGood, models.StatusNeutral} {
		s.metrics.ItemsByStatus.WithLabelValues(vehicleID, string(status)).Set(float64(counts[status]))
	}

	return &report, nil
}

// Bundle returns the items worth doing together with the given service.
func (s *Service) Bundle(ctx context.Context, vehicleID, serviceID string, windowDays int) ([]forecast.Item, error) {
	if windowDays < 0 {
		return nil, ErrInvalidWindow
	}
	report, err := s.VehicleForecast(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	primary, ok := report.Item(serviceID)
	if !ok {
		return nil, fmt.Errorf("service %s on vehicle %s: %w", serviceID, vehicleID, db.ErrNotFound)
	}
	bundle := forecast.BundleCandidates(primary, report.Items, windowDays)
	if bundle == nil {
		bundle = []forecast.Item{}
	}
	return bundle, nil
}

func (s *Service) snapshot(ctx context.Context, vehicleID string) (forecast.Snapshot, error) {
	vehicle, err := s.vehicles.FindVehicleByID(ctx, vehicleID)
	if err != nil {
		return forecast.Snapshot{}, fmt.Errorf("finding vehicle %s: %w", vehicleID, err)
	}
	readings, err := s.readings.FindReadings(ctx, vehicleID)
	if err != nil {
		return forecast.Snapshot{}, fmt.Errorf("finding readings: %w", err)
	}
	services, err := s.services.FindServices(ctx, vehicleID)
	if err != nil {
		return forecast.Snapshot{}, fmt.Errorf("finding services: %w", err)
	}
	return forecast.Snapshot{
		Vehicle:    *vehicle,
		Readings:   readings,
		Services:   services,
		Thresholds: s.thresholds(),
		Now:        s.now(),
	}, nil
}

// fallbackAnchor is today at the vehicle's effective odometer.
func (s *Service) fallbackAnchor(ctx context.Context, vehicleID string, now time.Time) (forecast.Anchor, *models.Vehicle, error) {
	vehicle, err := s.vehicles.FindVehicleByID(ctx, vehicleID)
	if err != nil {
		return forecast.Anchor{}, nil, fmt.Errorf("finding vehicle %s: %w", vehicleID, err)
	}
	readings, err := s.readings.FindReadings(ctx, vehicleID)
	if err != nil {
		return forecast.Anchor{}, nil, fmt.Errorf("finding readings: %w", err)
	}
	pace := forecast.EstimatePace(readings, now)
	odometer := forecast.EffectiveOdometer(pace, vehicle.Odometer, vehicle.OdometerUpdatedAt, now)
	return forecast.Anchor{Date: now, Distance: odometer}, vehicle, nil
}

func (s *Service) findService(ctx context.Context, serviceID string) (*models.Service, error) {
	svc, err := s.services.FindServiceByID(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("finding service %s: %w", serviceID, err)
	}
	return svc, nil
}

func (s *Service) replace(ctx context.Context, svc *models.Service, now time.Time) (*models.Service, error) {
	svc.UpdatedAt = now
	if err := s.services.ReplaceService(ctx, *svc); err != nil {
		return nil, fmt.Errorf("saving service %s: %w", svc.ID.Hex(), err)
	}
	return svc, nil
}

func validateInterval(i models.RecurrenceInterval) error {
	if (i.Months != nil && *i.Months < 0) || (i.Distance != nil && *i.Distance < 0) {
		return ErrInvalidInterval
	}
	return nil
}
