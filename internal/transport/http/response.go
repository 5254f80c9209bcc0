package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/light-bringer/rolediscount-service/internal/app/pricing/domain"
)

// maxRequestBodySize caps settings payloads at 1 MB.
const maxRequestBodySize = 1 << 20

// APIErrorResponse is the envelope for every error response.
type APIErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail is the client-visible error.
type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// writeJSON writes data with the given status.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"code":"internal","message":"failed to marshal response"}}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// writeError maps err to a status and writes it. Internal details are not exposed.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, message := mapDomainErrorToHTTP(err)
	writeJSON(w, status, APIErrorResponse{Error: ErrorDetail{
		Code:      code,
		Message:   message,
		RequestID: middleware.GetReqID(r.Context()),
	}})
}

func writeBadRequest(w http.ResponseWriter, r *http.Request, message string) {
	writeJSON(w, http.StatusBadRequest, APIErrorResponse{Error: ErrorDetail{
		Code:      "invalid_argument",
		Message:   message,
		RequestID: middleware.GetReqID(r.Context()),
	}})
}

func mapDomainErrorToHTTP(err error) (int, string, string) {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound, "not_found", "product not found"
	case errors.Is(err, domain.ErrInvalidProductID):
		return http.StatusBadRequest, "invalid_argument", "product id is required"
	case errors.Is(err, domain.ErrRevisionConflict):
		return http.StatusConflict, "conflict", "discount settings were changed concurrently, reload and retry"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "unavailable", "discount settings store unavailable"
	default:
		return http.StatusInternalServerError, "internal", "an unexpected error occurred"
	}
}

// decodeJSON reads a single JSON value from the body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}
