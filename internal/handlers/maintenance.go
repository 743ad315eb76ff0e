package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-maintenance/internal/forecast"
	"github.com/ukydev/fleet-maintenance/internal/maintenance"
	"github.com/ukydev/fleet-maintenance/internal/models"
)

// DefaultBundleWindow is the bundling window in days when none is given.
const DefaultBundleWindow = 30

// MaintenanceService is the application layer the handlers drive.
type MaintenanceService interface {
	CreateVehicle(ctx context.Context, in maintenance.VehicleInput) (*models.Vehicle, error)
	ListVehicles(ctx context.Context) ([]models.Vehicle, error)
	RecordReading(ctx context.Context, vehicleID string, distance int, origin models.ReadingOrigin, at time.Time) (*models.OdometerReading, error)
	CreateService(ctx context.Context, vehicleID string, in maintenance.ServiceInput) (*models.Service, error)
	UpdateInterval(ctx context.Context, serviceID string, interval models.RecurrenceInterval) (*models.Service, error)
	OverrideDeadline(ctx context.Context, serviceID string, dueDate *time.Time, dueDistance *int) (*models.Service, error)
	CompleteService(ctx context.Context, serviceID string, c maintenance.Completion) (*models.Service, error)
	ServiceHistory(ctx context.Context, serviceID string) ([]models.ServiceLog, error)
	VehicleForecast(ctx context.Context, vehicleID string) (*forecast.Report, error)
	Bundle(ctx context.Context, vehicleID, serviceID string, windowDays int) ([]forecast.Item, error)
}

// MaintenanceHandler serves vehicles, readings, services and forecasts.
type MaintenanceHandler struct {
	svc MaintenanceService
	log log.FieldLogger
	now func() time.Time
}

// NewMaintenanceHandler creates a maintenance handler.
func NewMaintenanceHandler(svc MaintenanceService, logger log.FieldLogger) *MaintenanceHandler {
	return &MaintenanceHandler{svc: svc, log: logger, now: time.Now}
}

type readingRequest struct {
	Distance   *int                 `json:"distance"`
	RecordedAt *time.Time           `json:"recorded_at,omitempty"`
	Origin     models.ReadingOrigin `json:"origin,omitempty"`
}

type deadlineRequest struct {
	DueDate     *time.Time `json:"due_date"`
	DueDistance *int       `json:"due_distance"`
}

// CreateVehicle handles POST /api/vehicles.
func (h *MaintenanceHandler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var in maintenance.VehicleInput
	if !decodeJSON(w, r, &in) {
		return
	}
	vehicle, err := h.svc.CreateVehicle(r.Context(), in)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, vehicle)
}

// ListVehicles handles GET /api/vehicles.
func (h *MaintenanceHandler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.svc.ListVehicles(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if vehicles == nil {
		vehicles = []models.Vehicle{}
	}
	writeJSON(w, http.StatusOK, vehicles)
}

// RecordReading handles POST /api/vehicles/{id}/readings.
func (h *MaintenanceHandler) RecordReading(w http.ResponseWriter, r *http.Request) {
	var req readingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Distance == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "distance is required"})
		return
	}
	at := h.now()
	if req.RecordedAt != nil {
		at = *req.RecordedAt
	}
	origin := req.Origin
	if origin == "" {
		origin = models.OriginManual
	}

	reading, err := h.svc.RecordReading(r.Context(), r.PathValue("id"), *req.Distance, origin, at)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, reading)
}

// CreateService handles POST /api/vehicles/{id}/services.
func (h *MaintenanceHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	var in maintenance.ServiceInput
	if !decodeJSON(w, r, &in) {
		return
	}
	svc, err := h.svc.CreateService(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, svc)
}

// UpdateInterval handles PUT /api/services/{id}/interval.
func (h *MaintenanceHandler) UpdateInterval(w http.ResponseWriter, r *http.Request) {
	var interval models.RecurrenceInterval
	if !decodeJSON(w, r, &interval) {
		return
	}
	svc, err := h.svc.UpdateInterval(r.Context(), r.PathValue("id"), interval)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, svc)
}

// OverrideDeadline handles PUT /api/services/{id}/deadline.
func (h *MaintenanceHandler) OverrideDeadline(w http.ResponseWriter, r *http.Request) {
	var req deadlineRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	svc, err := h.svc.OverrideDeadline(r.Context(), r.PathValue("id"), req.DueDate, req.DueDistance)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, svc)
}

// CompleteService handles POST /api/services/{id}/complete.
func (h *MaintenanceHandler) CompleteService(w http.ResponseWriter, r *http.Request) {
	var c maintenance.Completion
	if !decodeJSON(w, r, &c) {
		return
	}
	svc, err := h.svc.CompleteService(r.Context(), r.PathValue("id"), c)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, svc)
}

// ServiceHistory handles GET /api/services/{id}/history.
func (h *MaintenanceHandler) ServiceHistory(w http.ResponseWriter, r *http.Request) {
	logs, err := h.svc.ServiceHistory(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if logs == nil {
		logs = []models.ServiceLog{}
	}
	writeJSON(w, http.StatusOK, logs)
}

// Forecast handles GET /api/vehicles/{id}/forecast.
func (h *MaintenanceHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.VehicleForecast(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Bundle handles GET /api/vehicles/{id}/services/{serviceID}/bundle?window=N.
func (h *MaintenanceHandler) Bundle(w http.ResponseWriter, r *http.Request) {
	window := DefaultBundleWindow
	if v := r.URL.Query().Get("window"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "window must be a whole number of days"})
			return
		}
		window = n
	}

	items, err := h.svc.Bundle(r.Context(), r.PathValue("id"), r.PathValue("serviceID"), window)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}
