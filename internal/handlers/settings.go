package handlers

import (
	"net/http"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-maintenance/internal/config"
)

// SettingsHandler reads and writes the owner's settings file.
type SettingsHandler struct {
	path string
	log  log.FieldLogger
	mu   sync.Mutex
}

// NewSettingsHandler creates a settings handler for the file at path.
func NewSettingsHandler(path string, logger log.FieldLogger) *SettingsHandler {
	return &SettingsHandler{path: path, log: logger}
}

type settingsResponse struct {
	Settings       config.Settings `json:"settings"`
	MileageOptions []int           `json:"mileage_options"`
	DaysOptions    []int           `json:"days_options"`
}

// Get handles GET /api/settings.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	s, err := config.LoadSettings(h.path)
	h.mu.Unlock()
	if err != nil {
		// LoadSettings hands back defaults alongside the error
		h.log.WithError(err).WithField("path", h.path).Warn("Serving default settings")
	}
	writeJSON(w, http.StatusOK, settingsResponse{
		Settings:       s,
		MileageOptions: config.MileageOptions,
		DaysOptions:    config.DaysOptions,
	})
}

// Put handles PUT /api/settings.
func (h *SettingsHandler) Put(w http.ResponseWriter, r *http.Request) {
	s := config.DefaultSettings()
	if !decodeJSON(w, r, &s) {
		return
	}

	h.mu.Lock()
	err := config.SaveSettings(h.path, s)
	h.mu.Unlock()
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	h.log.WithFields(log.Fields{
		"mileage_threshold": s.Thresholds.Mileage,
		"days_threshold":    s.Thresholds.Days,
	}).Info("Settings updated")
	writeJSON(w, http.StatusOK, s)
}
