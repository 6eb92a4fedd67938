package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Dan9191/cashflow-service/internal/middleware"
	"github.com/Dan9191/cashflow-service/internal/models"
	"github.com/Dan9191/cashflow-service/internal/service"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Handler exposes the service over HTTP
type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps service errors onto HTTP status codes
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": verr.Error(), "field": verr.Field})
	case errors.Is(err, models.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, models.ErrConflict):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrRateUnavailable):
		h.log.Warnf("%s %s: %v", r.Method, r.URL.Path, err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": service.ErrRateUnavailable.Error()})
	default:
		h.log.Errorf("%s %s: %v", r.Method, r.URL.Path, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return models.NewValidationError("body", "malformed JSON: %v", err)
	}
	return nil
}

func userID(r *http.Request) int64 {
	id, _ := middleware.UserIDFromContext(r.Context())
	return id
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, models.NewValidationError("id", "must be a positive integer")
	}
	return id, nil
}

// queryDays reads ?days=N; zero means the configured default
func queryDays(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("days")
	if raw == "" {
		return 0, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 1 || days > 365 {
		return 0, models.NewValidationError("days", "must be between 1 and 365")
	}
	return days, nil
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	user, err := h.svc.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	token, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// KeyRate returns the central bank key rate plus bank margin
func (h *Handler) KeyRate(w http.ResponseWriter, r *http.Request) {
	rate, err := h.svc.KeyRate(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"key_rate": rate})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
