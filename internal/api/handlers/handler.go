package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"ytbuzz/internal/models"
	"ytbuzz/internal/provider"
)

type Service interface {
	SearchBuzzVideos(ctx context.Context, keyword string, filters *models.SearchFilters) (*models.SearchResult, error)
}

type Logger interface {
	Errorf(format string, args ...any)
	Warnf(format string, args ...any)
	Infof(format string, args ...any)
	Info(args ...any)
}

type Handler struct {
	service Service
	logger  Logger
}

func NewHandler(service Service, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Search handles POST /api/search: a keyword plus optional filters in,
// a ranked video list out.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req models.SearchRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := req.Validate(); err != nil {
		h.sendError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	result, err := h.service.SearchBuzzVideos(r.Context(), req.Keyword, req.Filters)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.sendJSON(w, http.StatusOK, result)
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func (h *Handler) sendJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Errorf("Failed to encode JSON response: %v", err)
	}
}

func (h *Handler) sendError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		h.logger.Errorf("%s: %v", message, err)
		resp.Message = err.Error()
	} else {
		h.logger.Errorf("%s", message)
	}

	h.sendJSON(w, status, resp)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	var status int
	var message string

	var upstream *provider.UpstreamError

	switch {
	case errors.Is(err, models.ErrInvalidRequest):
		status = http.StatusBadRequest
		message = "Invalid request"

	case errors.Is(err, provider.ErrQuotaExceeded):
		status = http.StatusTooManyRequests
		message = "Upstream quota exhausted, try again later"

	case errors.Is(err, provider.ErrAuthFailed):
		status = http.StatusUnauthorized
		message = "Upstream API key rejected"

	case errors.Is(err, models.ErrNoAPIKeys):
		status = http.StatusServiceUnavailable
		message = "Service is not configured"

	case errors.As(err, &upstream):
		status = http.StatusBadGateway
		message = "Upstream API error"

	default:
		status = http.StatusInternalServerError
		message = "Internal server error"
	}

	h.sendError(w, status, message, err)
}
