package handlers

import (
	"net/http"

	"github.com/ukydev/fleet-maintenance/internal/metrics"
	"github.com/ukydev/fleet-maintenance/internal/middleware"
)

// Router bundles the handlers and middleware that make up the HTTP API.
type Router struct {
	Auth        *AuthHandler
	Maintenance *MaintenanceHandler
	Settings    *SettingsHandler
	AuthMW      *middleware.AuthMiddleware
	RateLimit   *middleware.RateLimitMiddleware
	Metrics     *metrics.Metrics
	Logging     func(http.Handler) http.Handler
}

// Handler returns the fully wrapped API handler.
func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", rt.Metrics.Handler())

	// Login is rate limited harder than the rest of the API.
	mux.Handle("POST /api/auth/login", rt.RateLimit.RateLimit(10, 60)(http.HandlerFunc(rt.Auth.Login)))

	m := rt.Maintenance
	mux.HandleFunc("GET /api/vehicles", m.ListVehicles)
	mux.HandleFunc("POST /api/vehicles", m.CreateVehicle)
	mux.HandleFunc("GET /api/vehicles/{id}/forecast", m.Forecast)
	mux.HandleFunc("POST /api/vehicles/{id}/readings", m.RecordReading)
	mux.HandleFunc("POST /api/vehicles/{id}/services", m.CreateService)
	mux.HandleFunc("GET /api/vehicles/{id}/services/{serviceID}/bundle", m.Bundle)
	mux.HandleFunc("PUT /api/services/{id}/interval", m.UpdateInterval)
	mux.HandleFunc("PUT /api/services/{id}/deadline", m.OverrideDeadline)
	mux.HandleFunc("POST /api/services/{id}/complete", m.CompleteService)
	mux.HandleFunc("GET /api/services/{id}/history", m.ServiceHistory)

	mux.HandleFunc("GET /api/settings", rt.Settings.Get)
	mux.HandleFunc("PUT /api/settings", rt.Settings.Put)

	var h http.Handler = rt.AuthMW.Authenticate(mux)
	h = rt.Metrics.InstrumentHandler(h)
	if rt.Logging != nil {
		h = rt.Logging(h)
	}
	return h
}
