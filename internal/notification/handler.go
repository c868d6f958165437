package notification

import (
	"context"
	"net/http"

	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/user"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/transport"
)

type ServiceAPI interface {
	Check(ctx context.Context, actor *user.Actor) (SweepResult, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) CheckNotifications(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.ActorFromContext(r.Context())

	result, err := h.Service.Check(r.Context(), actor)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteMessage(w, http.StatusOK, result.Message(), result)
}
