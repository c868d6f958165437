package supplier

import (
	"context"
	"io"
	"net/http"

	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/user"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/transport"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/pkg/pagination"
)

type ServiceAPI interface {
	List(ctx context.Context, page int) (pagination.Page[SupplierResponse], error)
	Get(ctx context.Context, id int64) (*Supplier, error)
	Search(ctx context.Context, query, orderBy string) (SearchResponse, error)
	Create(ctx context.Context, actor *user.Actor, req SupplierRequest) (*Supplier, error)
	Update(ctx context.Context, actor *user.Actor, id int64, req SupplierRequest) (*Supplier, error)
	Delete(ctx context.Context, actor *user.Actor, id int64) error
	UploadLogo(ctx context.Context, actor *user.Actor, id int64, r io.Reader, fileName string) (*Supplier, error)
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

func (h *Handler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	params := pagination.Parse(r, PageSize)

	page, err := h.Service.List(r.Context(), params.Page)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) GetSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := h.IDParam(r, "id")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	sup, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, sup.ToResponse())
}

func (h *Handler) SearchSuppliers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	resp, err := h.Service.Search(r.Context(), q.Get("search"), q.Get("order_by"))
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.ActorFromContext(r.Context())

	var req SupplierRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	sup, err := h.Service.Create(r.Context(), actor, req)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteMessage(w, http.StatusCreated, "Supplier added successfully!", sup.ToResponse())
}

func (h *Handler) UpdateSupplier(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.ActorFromContext(r.Context())

	id, err := h.IDParam(r, "id")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	var req SupplierRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	sup, err := h.Service.Update(r.Context(), actor, id, req)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteMessage(w, http.StatusOK, "Supplier updated successfully!", sup.ToResponse())
}

func (h *Handler) DeleteSupplier(w http.ResponseWriter, r *http.Request) {
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

	h.WriteMessage(w, http.StatusOK, "Supplier deleted successfully!", nil)
}

func (h *Handler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.ActorFromContext(r.Context())

	id, err := h.IDParam(r, "id")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	if err := h.ParseMultipart(w, r); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	file, header, err := r.FormFile("logo")
	if err != nil {
		h.WriteAppError(w, r, internal.NewValidationFieldError("logo", "logo file is required", internal.ErrCodeInvalidFile))
		return
	}
	defer file.Close()

	sup, err := h.Service.UploadLogo(r.Context(), actor, id, file, header.Filename)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteMessage(w, http.StatusOK, "Supplier logo updated successfully!", sup.ToResponse())
}
