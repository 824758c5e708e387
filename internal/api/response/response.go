// Package response writes the JSON envelope every endpoint answers with.
package response

import (
	"encoding/json"
	"net/http"
	"sync/atomic"

	"github.com/ototamirci/backend/internal/infrastructure/observability"
	apperrors "github.com/ototamirci/backend/pkg/errors"
)

// GenericServerError replaces internal error messages outside development
const GenericServerError = "Server error"

// Envelope is the body shape of every response
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

var exposeInternal atomic.Bool

// ExposeInternalErrors controls whether INTERNAL messages reach clients.
// Only development deployments should enable it.
func ExposeInternalErrors(enabled bool) {
	exposeInternal.Store(enabled)
}

// JSON writes a success envelope around data
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	write(w, statusCode, Envelope{Success: true, Data: data})
}

// Message writes a success envelope carrying only a message
func Message(w http.ResponseWriter, statusCode int, message string) {
	write(w, statusCode, Envelope{Success: true, Message: message})
}

// Error writes a failure envelope with the given status and message
func Error(w http.ResponseWriter, statusCode int, message string) {
	write(w, statusCode, Envelope{Success: false, Message: message})
}

// FromError maps err to its status code and writes a failure envelope.
// Errors that are not AppErrors are treated as internal.
func FromError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperrors.As(err)
	if !ok {
		appErr = apperrors.NewInternalError(err.Error(), err)
	}

	status := appErr.HTTPStatus()
	message := appErr.Message
	if status >= http.StatusInternalServerError {
		observability.LoggerFromContext(r.Context()).Error().
			Err(appErr).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
		if !exposeInternal.Load() {
			message = GenericServerError
		}
	}

	Error(w, status, message)
}

func write(w http.ResponseWriter, statusCode int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}
