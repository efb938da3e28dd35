package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/prn-tf/people/internal/domain"
	"github.com/prn-tf/people/internal/repository"
	"github.com/prn-tf/people/internal/service"
)

// APIHandler serves users, records and reports.
type APIHandler struct {
	userService  *service.UserService
	statsService *service.StatsService
	maxBodySize  int64
	logger       zerolog.Logger
}

// APIConfig contains configuration for the API handler.
type APIConfig struct {
	UserService  *service.UserService
	StatsService *service.StatsService
	MaxBodySize  int64
	Logger       zerolog.Logger
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(cfg APIConfig) *APIHandler {
	maxBody := cfg.MaxBodySize
	if maxBody <= 0 {
		maxBody = 1 << 20
	}
	return &APIHandler{
		userService:  cfg.UserService,
		statsService: cfg.StatsService,
		maxBodySize:  maxBody,
		logger:       cfg.Logger.With().Str("handler", "api").Logger(),
	}
}

// =============================================================================
// Route Registration
// =============================================================================

// RegisterRoutes registers API routes.
func (h *APIHandler) RegisterRoutes(r chi.Router) {
	// Users
	r.Post("/users", h.handleCreateUser)
	r.Get("/users/{id}", h.handleGetUser)
	r.Delete("/users/{id}", h.handleDeleteUser)

	// Generic record filter
	r.Get("/records/{kind}", h.handleFilterRecords)

	// Reports
	r.Get("/stats/genders", h.handleGenders)
	r.Get("/stats/average-age", h.handleAverageAge)
	r.Get("/stats/cities", h.handleCities)
	r.Get("/stats/passwords", h.handlePasswords)
	r.Get("/stats/strongest-passwords", h.handleStrongestPasswords)
	r.Get("/stats/born-between", h.handleBornBetween)
}

// =============================================================================
// Users
// =============================================================================

type createUserRequest struct {
	Gender      string              `json:"gender"`
	Title       string              `json:"title"`
	FirstName   string              `json:"first_name"`
	SecondName  string              `json:"second_name"`
	DateOfBirth domain.CalendarDate `json:"date_of_birth"`

	Username string `json:"username"`
	Password string `json:"password"`

	Email string `json:"email"`
	Phone string `json:"phone"`
	Cell  string `json:"cell"`

	Street              string  `json:"street"`
	City                string  `json:"city"`
	State               string  `json:"state"`
	Postcode            string  `json:"postcode"`
	Latitude            float64 `json:"latitude"`
	Longitude           float64 `json:"longitude"`
	TimezoneOffset      string  `json:"timezone_offset"`
	TimezoneDescription string  `json:"timezone_description"`
	Nationality         string  `json:"nat"`

	PersonalIDName  string `json:"personal_id_name"`
	PersonalIDValue string `json:"personal_id_value"`
}

func (h *APIHandler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	output, err := h.userService.Create(r.Context(), service.CreateUserInput{
		Gender:              req.Gender,
		Name:                domain.Name{Title: req.Title, FirstName: req.FirstName, SecondName: req.SecondName},
		DateOfBirth:         req.DateOfBirth,
		Username:            req.Username,
		Password:            req.Password,
		Email:               req.Email,
		Phone:               req.Phone,
		Cell:                req.Cell,
		Street:              req.Street,
		City:                req.City,
		State:               req.State,
		Postcode:            req.Postcode,
		Latitude:            req.Latitude,
		Longitude:           req.Longitude,
		TimezoneOffset:      req.TimezoneOffset,
		TimezoneDescription: req.TimezoneDescription,
		Nationality:         req.Nationality,
		PersonalIDName:      req.PersonalIDName,
		PersonalIDValue:     req.PersonalIDValue,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, output.User)
}

func (h *APIHandler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	user, err := h.userService.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *APIHandler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.userService.Delete(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Records
// =============================================================================

func (h *APIHandler) handleFilterRecords(w http.ResponseWriter, r *http.Request) {
	filters := make(map[string]any)
	for name, values := range r.URL.Query() {
		filters[name] = values[0]
	}

	recs, err := h.statsService.Filter(r.Context(), chi.URLParam(r, "kind"), filters)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if recs == nil {
		recs = []domain.Record{}
	}
	writeJSON(w, http.StatusOK, recs)
}

// =============================================================================
// Reports
// =============================================================================

func (h *APIHandler) handleGenders(w http.ResponseWriter, r *http.Request) {
	shares, err := h.statsService.Genders(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, shares)
}

func (h *APIHandler) handleAverageAge(w http.ResponseWriter, r *http.Request) {
	out, err := h.statsService.AverageAge(r.Context(), r.URL.Query().Get("gender"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *APIHandler) handleCities(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryLimit(w, r)
	if !ok {
		return
	}
	out, err := h.statsService.MostCommonCities(r.Context(), limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *APIHandler) handlePasswords(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryLimit(w, r)
	if !ok {
		return
	}
	out, err := h.statsService.MostCommonPasswords(r.Context(), limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *APIHandler) handleStrongestPasswords(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryLimit(w, r)
	if !ok {
		return
	}
	out, err := h.statsService.StrongestPasswords(r.Context(), limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *APIHandler) handleBornBetween(w http.ResponseWriter, r *http.Request) {
	from, err := domain.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid from date")
		return
	}
	to, err := domain.ParseDate(r.URL.Query().Get("to"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid to date")
		return
	}

	persons, err := h.statsService.BornBetween(r.Context(), from, to)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if persons == nil {
		persons = []*domain.Person{}
	}
	writeJSON(w, http.StatusOK, persons)
}

// =============================================================================
// Helper Methods
// =============================================================================

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeMessage(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// queryLimit reads ?limit=N; a missing limit means no limit.
func queryLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		writeMessage(w, http.StatusBadRequest, "invalid limit")
		return 0, false
	}
	return limit, true
}

// statusFor maps service, store and domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrUserAlreadyExists), errors.Is(err, repository.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidUsername),
		errors.Is(err, service.ErrInvalidPassword),
		errors.Is(err, service.ErrInvalidBirthDate),
		errors.Is(err, service.ErrInvalidRange),
		errors.Is(err, service.ErrUnknownKind),
		errors.Is(err, repository.ErrInvalidColumn),
		errors.Is(err, repository.ErrInvalidValue),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidCoordinate),
		errors.Is(err, domain.ErrInvalidRecord),
		errors.Is(err, domain.ErrRecordIncomplete):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *APIHandler) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error().Err(err).Msg("request failed")
		writeMessage(w, status, service.ErrInternalError.Error())
		return
	}
	writeMessage(w, status, err.Error())
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
