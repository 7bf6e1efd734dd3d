package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"matchup-backend/internal/apperrors"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}

// respondAppError maps a service error onto an HTTP status
func respondAppError(w http.ResponseWriter, err error) {
	var statusCode int
	switch apperrors.KindOf(err) {
	case apperrors.KindNotFound:
		statusCode = http.StatusNotFound
	case apperrors.KindForbidden:
		statusCode = http.StatusUnauthorized
	case apperrors.KindInvalid, apperrors.KindConflict:
		statusCode = http.StatusBadRequest
	case apperrors.KindUpstream:
		statusCode = http.StatusBadGateway
	default:
		statusCode = http.StatusInternalServerError
	}
	if statusCode >= http.StatusInternalServerError {
		log.Error().Err(err).Msg("Request failed")
	}
	respondError(w, apperrors.MessageOf(err), statusCode)
}

// paginationHeader is the metadata clients read instead of a body envelope
type paginationHeader struct {
	CurrentPage  int `json:"currentPage"`
	ItemsPerPage int `json:"itemsPerPage"`
	TotalCount   int `json:"totalCount"`
	TotalPages   int `json:"totalPages"`
}

// addPagination writes the Pagination response header
func addPagination(w http.ResponseWriter, page, pageSize, total int) {
	totalPages := (total + pageSize - 1) / pageSize
	header, err := json.Marshal(paginationHeader{
		CurrentPage:  page,
		ItemsPerPage: pageSize,
		TotalCount:   total,
		TotalPages:   totalPages,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal pagination header")
		return
	}
	w.Header().Set("Pagination", string(header))
}

// parsePageParams reads page and pageSize query parameters
func parsePageParams(r *http.Request) (int, int) {
	page := 1
	pageSize := 10
	if v := r.URL.Query().Get("page"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			page = parsed
		}
	}
	if v := r.URL.Query().Get("pageSize"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			pageSize = parsed
		}
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	if pageSize > 50 {
		pageSize = 50
	}
	return page, pageSize
}

// parseIDParam reads a numeric path parameter
func parseIDParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
