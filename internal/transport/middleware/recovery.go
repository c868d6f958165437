package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/pkg/logger"
)

// RecoveryMiddleware turns a handler panic into the standard 500 error body.
// The panic value is logged, never echoed to the client.
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

			logger.From(r.Context()).ErrorContext(r.Context(), "panic recovered",
				"error", rec,
				"method", r.Method,
				"url", r.URL.String(),
				"stack", string(debug.Stack()))

			appErr := internal.NewInternalError("internal server error", fmt.Errorf("panic: %v", rec))
			status, body := appErr.ToHTTPResponse()
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(body)
		}()

		next.ServeHTTP(w, r)
	})
}
