package auth

import (
	"net/http"

	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/transport"
)

// RBACAuthorization gates routes on the actor placed in context by AuthMiddleware.
type RBACAuthorization struct {
	*transport.BaseHandler
}

func NewRBACAuthorization(baseHandler *transport.BaseHandler) *RBACAuthorization {
	return &RBACAuthorization{BaseHandler: baseHandler}
}

func (ra *RBACAuthorization) RequireStaff() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, _ := internal.ActorFromContext(r.Context())
			if err := internal.RequireStaff(actor); err != nil {
				ra.WriteAppError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (ra *RBACAuthorization) RequirePermission(action, resource string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, _ := internal.ActorFromContext(r.Context())
			if err := internal.Authorize(actor, action, resource); err != nil {
				ra.WriteAppError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
