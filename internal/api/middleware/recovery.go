package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/ototamirci/backend/internal/api/response"
	"github.com/ototamirci/backend/internal/infrastructure/observability"
	apperrors "github.com/ototamirci/backend/pkg/errors"
)

// RecoveryMiddleware turns a handler panic into a 500 envelope
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			observability.LoggerFromContext(r.Context()).Error().
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Msg("handler panicked")

			response.FromError(w, r, apperrors.NewInternalError(fmt.Sprint(rec), nil))
		}()

		next.ServeHTTP(w, r)
	})
}
