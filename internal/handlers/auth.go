package handlers

import (
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-maintenance/internal/auth"
	"github.com/ukydev/fleet-maintenance/internal/db"
	"github.com/ukydev/fleet-maintenance/internal/models"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	authService *auth.Service
	owners      db.OwnerCollection
	log         log.FieldLogger
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService *auth.Service, owners db.OwnerCollection, logger log.FieldLogger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		owners:      owners,
		log:         logger,
	}
}

// Login exchanges the owner's passphrase for a token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq models.LoginRequest
	if !decodeJSON(w, r, &loginReq) {
		return
	}

	if loginReq.Username == "" || loginReq.Passphrase == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Username and passphrase are required"})
		return
	}

	owner, err := h.owners.FindOwnerByUsername(r.Context(), loginReq.Username)
	if err != nil {
		if statusFor(err) == http.StatusNotFound {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: auth.ErrInvalidCredentials.Error()})
			return
		}
		writeError(w, r, h.log, err)
		return
	}

	if !h.authService.CheckPassphrase(loginReq.Passphrase, owner.PassphraseHash) {
		h.log.WithField("username", loginReq.Username).Warn("Failed login attempt")
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: auth.ErrInvalidCredentials.Error()})
		return
	}

	token, expiresAt, err := h.authService.GenerateToken(owner)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	if err := h.owners.UpdateLastLogin(r.Context(), owner.ID.Hex()); err != nil {
		// Log error but don't fail the login
		h.log.WithError(err).Error("Failed to update last login")
	}

	writeJSON(w, http.StatusOK, models.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Owner:     *owner,
	})
}
