package category

import (
	"context"
	"net/http"

	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/user"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, actor *user.Actor) (CategoriesResponse, error)
	Get(ctx context.Context, id int64) (*Category, error)
	Create(ctx context.Context, actor *user.Actor, req CategoryRequest) (*Category, error)
	Update(ctx context.Context, actor *user.Actor, id int64, req CategoryRequest) (*Category, error)
	Delete(ctx context.Context, actor *user.Actor, id int64) error
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

func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.ActorFromContext(r.Context())

	categories, err := h.Service.List(r.Context(), actor)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, categories)
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.ActorFromContext(r.Context())

	var req CategoryRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	cat, err := h.Service.Create(r.Context(), actor, req)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteMessage(w, http.StatusCreated, "Category added successfully!", cat.ToResponse())
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.ActorFromContext(r.Context())

	id, err := h.IDParam(r, "id")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	var req CategoryRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	cat, err := h.Service.Update(r.Context(), actor, id, req)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteMessage(w, http.StatusOK, "Category updated successfully!", cat.ToResponse())
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.ActorFromContext(r.Context())

	id, err := h.IDParam(r, "id")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	if err := h.Service.Delete(r.Context(), actor, id); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteMessage(w, http.StatusOK, "Category deleted successfully!", nil)
}
