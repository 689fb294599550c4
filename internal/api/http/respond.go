package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"officetrack-backend/internal/logger"
	"officetrack-backend/internal/security"
	"officetrack-backend/internal/service"
)

// errorResponse is the uniform error body
type errorResponse struct {
	Error   string         `json:"error"`
	Details map[string]any `json:"details,omitempty"`
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// writeError maps service errors onto HTTP status codes
func writeError(w http.ResponseWriter, err error) {
	var outOfRange *service.OutOfRangeError
	if errors.As(err, &outOfRange) {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error: outOfRange.Error(),
			Details: map[string]any{
				"distance_meters": outOfRange.DistanceMeters,
				"allowed_meters":  outOfRange.AllowedMeters,
			},
		})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrNotEligible),
		errors.Is(err, service.ErrWrongOffice):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrInvalidState):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrAlreadyMarked),
		errors.Is(err, service.ErrAlreadyClaimed),
		errors.Is(err, service.ErrCapacityExhausted),
		errors.Is(err, service.ErrDuplicateDistribution),
		errors.Is(err, service.ErrHasDependents),
		errors.Is(err, service.ErrEmailTaken):
		status = http.StatusConflict
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrAccountNotActive),
		errors.Is(err, security.ErrInvalidToken),
		errors.Is(err, security.ErrExpiredToken),
		errors.Is(err, security.ErrWrongTokenType):
		status = http.StatusUnauthorized
	}

	if status == http.StatusInternalServerError {
		logger.Error("Request failed", "error", err)
		writeJSON(w, status, errorResponse{Error: "internal server error"})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// decodeJSON decodes a request body into dst
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	return nil
}

// pathID parses the {id} route variable as int32
func pathID(vars map[string]string, key string) (int32, error) {
	raw, ok := vars[key]
	if !ok {
		return 0, strconv.ErrSyntax
	}
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(id), nil
}

// pagination reads page/page_size query parameters with sane bounds
func pagination(r *http.Request) (page, pageSize int32) {
	page, pageSize = 1, 20
	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 32); err == nil && v > 0 {
			page = int32(v)
		}
	}
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 32); err == nil && v > 0 && v <= 100 {
			pageSize = int32(v)
		}
	}
	return page, pageSize
}

// queryInt32 reads an optional int32 query parameter
func queryInt32(r *http.Request, key string) *int32 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return nil
	}
	out := int32(v)
	return &out
}

// queryFloat reads a required float query parameter
func queryFloat(r *http.Request, key string) (float64, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// listResponse is the uniform paginated envelope
type listResponse struct {
	Items any   `json:"items"`
	Total int32 `json:"total"`
}
