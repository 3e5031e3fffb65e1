package handler

import (
	"net/http"

	"bidkart/internal/model"
	"bidkart/internal/service"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// UserHandler handles profile, preference and analytics HTTP requests.
type UserHandler struct {
	service service.UserService
	logger  zerolog.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(service service.UserService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger.With().Str("handler", "user").Logger(),
	}
}

// SaveProfile handles POST /api/users/{userId}.
func (h *UserHandler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var profile model.UserProfile
	if !decodeJSON(w, r, &profile, h.logger) {
		return
	}

	saved, err := h.service.SaveProfile(r.Context(), userID, &profile)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"user": saved})
}

// GetProfile handles GET /api/users/{userId}.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"user": profile})
}

// SavePreferences handles POST /api/users/{userId}/preferences.
func (h *UserHandler) SavePreferences(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var prefs model.Preferences
	if !decodeJSON(w, r, &prefs, h.logger) {
		return
	}

	saved, err := h.service.SavePreferences(r.Context(), userID, &prefs)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"preferences": saved})
}

// GetPreferences handles GET /api/users/{userId}/preferences.
func (h *UserHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	prefs, err := h.service.GetPreferences(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"preferences": prefs})
}

// TrackView handles POST /api/analytics/view.
func (h *UserHandler) TrackView(w http.ResponseWriter, r *http.Request) {
	var req model.TrackViewRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	if err := h.service.TrackView(r.Context(), req.UserID, req.ProductID); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"tracked": true})
}
