package auth

import (
	"net/http"

	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/transport"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	tokens, err := h.Service.Authenticate(r.Context(), dto)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	tokens, err := h.Service.RefreshTokens(r.Context(), dto.RefreshToken)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

// Logout is stateless: the client drops its tokens. The access token is still
// checked so a stale session gets a 401 rather than a silent success.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := h.ExtractTokenFromHeader(r)
	if token == "" {
		h.WriteAppError(w, r, internal.ErrAuthenticationRequired)
		return
	}

	if _, err := h.Service.ActorForToken(r.Context(), token); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteMessage(w, http.StatusOK, "You have been logged out.", nil)
}

// AuthMiddleware rejects requests without a valid bearer token.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteAppError(w, r, internal.ErrAuthenticationRequired)
			return
		}

		actor, err := h.Service.ActorForToken(r.Context(), token)
		if err != nil {
			h.WriteAppError(w, r, err)
			return
		}

		ctx := internal.ContextWithActor(r.Context(), actor)
		ctx = logger.With(ctx, "user_id", actor.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth attaches the actor when a valid token is present and lets
// anonymous requests through otherwise. Public catalog reads use it.
func (h *Handler) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		actor, err := h.Service.ActorForToken(r.Context(), token)
		if err != nil {
			logger.From(r.Context()).DebugContext(r.Context(), "ignoring invalid token on public route", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		ctx := internal.ContextWithActor(r.Context(), actor)
		ctx = logger.With(ctx, "user_id", actor.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
