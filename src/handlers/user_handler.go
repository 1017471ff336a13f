// src/handlers/user_handler.go

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Debmalya727/personal-finance-tracker/src/logger"
	"github.com/Debmalya727/personal-finance-tracker/src/model"
	"github.com/Debmalya727/personal-finance-tracker/src/models"
	"github.com/Debmalya727/personal-finance-tracker/src/processors"
	"github.com/Debmalya727/personal-finance-tracker/src/security"
	"github.com/Debmalya727/personal-finance-tracker/src/security/validation"
	"github.com/Debmalya727/personal-finance-tracker/src/utils"
	"github.com/go-chi/chi/v5"
)

type contextKey string

const userIDContextKey contextKey = "userID"

// today is the valuation date for every request. Tests replace it.
var today = processors.Today

type UserHandler struct {
	store       model.Store
	authService *security.AuthService
}

func NewUserHandler(store model.Store, authService *security.AuthService) *UserHandler {
	return &UserHandler{store: store, authService: authService}
}

func sendJSONError(w http.ResponseWriter, message string, statusCode int) {
	logger.L.Warn("Sending JSON error to client", "message", message, "statusCode", statusCode)
	utils.SendJSONError(w, message, statusCode)
}

// writeServiceError maps store, service and validation errors to a status code.
// Anything unrecognised is logged and reported as a 500 with a generic message.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, action string) {
	switch {
	case errors.Is(err, validation.ErrValidationFailed):
		sendJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, model.ErrNotFound):
		sendJSONError(w, "Record not found", http.StatusNotFound)
	case errors.Is(err, model.ErrNotAuthorized):
		sendJSONError(w, "You are not allowed to access this record", http.StatusForbidden)
	case errors.Is(err, model.ErrUsernameTaken):
		sendJSONError(w, "Username already exists", http.StatusConflict)
	default:
		logger.ErrorFromContext(r.Context(), "Request failed", "action", action, "error", err)
		sendJSONError(w, "Failed to "+action, http.StatusInternalServerError)
	}
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", validation.ErrValidationFailed, err)
	}
	return nil
}

// parseIDParam reads the {id} URL parameter.
func parseIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", validation.ErrValidationFailed, chi.URLParam(r, "id"))
	}
	return id, nil
}

func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDContextKey).(int64)
	return userID, ok
}

// requireUserID is used by handlers mounted behind AuthMiddleware.
func requireUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
	}
	return userID, ok
}

type credentialsRequest struct {
	Username    string      `json:"username"`
	Password    string      `json:"password"`
	DateOfBirth models.Date `json:"date_of_birth"`
}

type authResponse struct {
	Token string      `json:"access_token"`
	User  *model.User `json:"user"`
}

func validateDateOfBirth(dob models.Date) error {
	if !dob.IsZero() && dob.After(today().Time) {
		return fmt.Errorf("%w: date_of_birth cannot be in the future", validation.ErrValidationFailed)
	}
	return nil
}

func (h *UserHandler) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err, "register")
		return
	}

	username, err := validation.CleanText(req.Username, validation.MaxUsernameLength, "username", true)
	if err != nil {
		writeServiceError(w, r, err, "register")
		return
	}
	password := strings.TrimSpace(req.Password)
	if len(password) < validation.MinPasswordLength {
		sendJSONError(w, fmt.Sprintf("Password must be at least %d characters long", validation.MinPasswordLength), http.StatusBadRequest)
		return
	}
	if err := validateDateOfBirth(req.DateOfBirth); err != nil {
		writeServiceError(w, r, err, "register")
		return
	}

	user := &model.User{Username: username, DateOfBirth: req.DateOfBirth}
	if err := user.HashPassword(password); err != nil {
		writeServiceError(w, r, err, "register")
		return
	}
	if err := h.store.CreateUser(r.Context(), user); err != nil {
		writeServiceError(w, r, err, "register")
		return
	}

	logger.FromContext(r.Context()).Info("User registered", "userID", user.ID)
	utils.SendJSON(w, http.StatusCreated, user)
}

func (h *UserHandler) LoginUserHandler(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err, "log in")
		return
	}

	username := validation.SanitizeText(req.Username)
	user, err := h.store.GetUserByUsername(r.Context(), username)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		writeServiceError(w, r, err, "log in")
		return
	}
	if user == nil || user.CheckPassword(strings.TrimSpace(req.Password)) != nil {
		logger.FromContext(r.Context()).Info("Login failed", "username", username)
		sendJSONError(w, "Invalid username or password", http.StatusUnauthorized)
		return
	}

	token, err := h.authService.GenerateToken(strconv.FormatInt(user.ID, 10))
	if err != nil {
		writeServiceError(w, r, err, "log in")
		return
	}

	logger.FromContext(r.Context()).Info("User logged in", "userID", user.ID)
	utils.SendJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

func (h *UserHandler) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	user, err := h.store.GetUserByID(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, "load profile")
		return
	}
	utils.SendJSON(w, http.StatusOK, user)
}

// UpdateProfileHandler changes the date of birth, which drives the old-regime age band.
func (h *UserHandler) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	var req struct {
		DateOfBirth models.Date `json:"date_of_birth"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err, "update profile")
		return
	}
	if err := validateDateOfBirth(req.DateOfBirth); err != nil {
		writeServiceError(w, r, err, "update profile")
		return
	}
	if err := h.store.UpdateUserDateOfBirth(r.Context(), userID, req.DateOfBirth); err != nil {
		writeServiceError(w, r, err, "update profile")
		return
	}
	user, err := h.store.GetUserByID(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, "update profile")
		return
	}
	utils.SendJSON(w, http.StatusOK, user)
}
