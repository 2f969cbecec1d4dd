package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/apperr"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/platform/logger"
	chimw "github.com/go-chi/chi/v5/middleware"
)

const maxBodyBytes = 1 << 20

type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondOK(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: message, Data: data})
}

func respondCreated(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusCreated, envelope{Success: true, Message: message, Data: data})
}

// StatusForKind maps an error kind to its HTTP status code.
func StatusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError renders err in the envelope. Errors outside the apperr
// taxonomy are logged and hidden behind a generic message.
func respondError(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		log.Errorw("Unhandled error", "error", err, "path", r.URL.Path, "request_id", chimw.GetReqID(r.Context()))
		writeJSON(w, http.StatusInternalServerError, envelope{Message: "internal server error"})
		return
	}

	status := StatusForKind(appErr.Kind)
	if status >= http.StatusInternalServerError {
		log.Errorw("Request failed", "error", err, "path", r.URL.Path, "request_id", chimw.GetReqID(r.Context()))
	}
	writeJSON(w, status, envelope{Message: appErr.Message})
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Validation("request body is required")
		}
		return apperr.Validation(fmt.Sprintf("invalid request body: %v", err))
	}
	return nil
}
