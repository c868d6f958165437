package product

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/user"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/transport"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/pkg/pagination"
)

type ServiceAPI interface {
	List(ctx context.Context, page int) (pagination.Page[ProductResponse], error)
	Latest(ctx context.Context) ([]ProductResponse, error)
	Get(ctx context.Context, id int64) (*Product, error)
	Search(ctx context.Context, query, orderBy string) (SearchResponse, error)
	Dashboard(ctx context.Context, actor *user.Actor) (DashboardResponse, error)
	Create(ctx context.Context, actor *user.Actor, req ProductRequest) (*Product, error)
	Update(ctx context.Context, actor *user.Actor, id int64, req ProductRequest) (*Product, error)
	Delete(ctx context.Context, actor *user.Actor, id int64) error
	UploadImage(ctx context.Context, actor *user.Actor, id int64, r io.Reader, fileName string) (*Product, error)
	ExportCSV(ctx context.Context, actor *user.Actor, w io.Writer) error
	ImportCSV(ctx context.Context, actor *user.Actor, r io.Reader) (ImportResult, error)
	Response(p *Product) ProductResponse
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

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	params := pagination.Parse(r, PageSize)

	page, err := h.Service.List(r.Context(), params.Page)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) LatestProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Service.Latest(r.Context())
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"products": products})
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := h.IDParam(r, "id")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	p, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, h.Service.Response(p))
}

func (h *Handler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	resp, err := h.Service.Search(r.Context(), q.Get("search"), q.Get("order_by"))
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.ActorFromContext(r.Context())

	resp, err := h.Service.Dashboard(r.Context(), actor)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.ActorFromContext(r.Context())

	var req ProductRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	p, err := h.Service.Create(r.Context(), actor, req)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteMessage(w, http.StatusCreated, "Product added successfully!", h.Service.Response(p))
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.ActorFromContext(r.Context())

	id, err := h.IDParam(r, "id")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	var req ProductRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	p, err := h.Service.Update(r.Context(), actor, id, req)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteMessage(w, http.StatusOK, "Product updated successfully!", h.Service.Response(p))
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
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

	h.WriteMessage(w, http.StatusOK, "Product deleted successfully!", nil)
}

func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
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
	file, header, err := r.FormFile("image")
	if err != nil {
		h.WriteAppError(w, r, internal.NewValidationFieldError("image", "image file is required", internal.ErrCodeInvalidFile))
		return
	}
	defer file.Close()

	p, err := h.Service.UploadImage(r.Context(), actor, id, file, header.Filename)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteMessage(w, http.StatusOK, "Product image updated successfully!", h.Service.Response(p))
}

// ExportProducts buffers the CSV so a failure can still be reported as JSON.
func (h *Handler) ExportProducts(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.ActorFromContext(r.Context())

	var buf bytes.Buffer
	if err := h.Service.ExportCSV(r.Context(), actor, &buf); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="products.csv"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.Logger.Error("failed to write csv export", "error", err)
	}
}

func (h *Handler) ImportProducts(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.ActorFromContext(r.Context())
	if err := internal.RequireStaff(actor); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	if err := h.ParseMultipart(w, r); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	file, _, err := r.FormFile("csv_file")
	if err != nil {
		h.WriteAppError(w, r, internal.NewValidationFieldError("csv_file", "csv_file is required", internal.ErrCodeInvalidFile))
		return
	}
	defer file.Close()

	result, err := h.Service.ImportCSV(r.Context(), actor, file)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteMessage(w, http.StatusOK, fmt.Sprintf("Successfully imported %d products.", result.Imported), result)
}
