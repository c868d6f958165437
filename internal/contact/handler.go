package contact

import (
	"context"
	"net/http"

	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/user"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/transport"
)

type ServiceAPI interface {
	Submit(ctx context.Context, req ContactRequest) (*Contact, error)
	List(ctx context.Context, actor *user.Actor) ([]ContactResponse, error)
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

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	c, err := h.Service.Submit(r.Context(), req)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteMessage(w, http.StatusCreated, "Your message has been sent successfully!", c.ToResponse())
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.ActorFromContext(r.Context())

	messages, err := h.Service.List(r.Context(), actor)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}
