package report

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/user"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/transport"
)

type ServiceAPI interface {
	Overview(ctx context.Context, actor *user.Actor) (Overview, error)
	Inventory(ctx context.Context, actor *user.Actor) (ProductReport, error)
	LowStock(ctx context.Context, actor *user.Actor) (ProductReport, error)
	Expiring(ctx context.Context, actor *user.Actor) (ProductReport, error)
	Suppliers(ctx context.Context, actor *user.Actor) (SupplierReport, error)
	InventoryPDF(ctx context.Context, actor *user.Actor) ([]byte, error)
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

func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.ActorFromContext(r.Context())
	out, err := h.Service.Overview(r.Context(), actor)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) Inventory(w http.ResponseWriter, r *http.Request) {
	h.productReport(w, r, h.Service.Inventory)
}

func (h *Handler) LowStock(w http.ResponseWriter, r *http.Request) {
	h.productReport(w, r, h.Service.LowStock)
}

func (h *Handler) Expiring(w http.ResponseWriter, r *http.Request) {
	h.productReport(w, r, h.Service.Expiring)
}

func (h *Handler) Suppliers(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.ActorFromContext(r.Context())
	out, err := h.Service.Suppliers(r.Context(), actor)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) InventoryPDF(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.ActorFromContext(r.Context())
	doc, err := h.Service.InventoryPDF(r.Context(), actor)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="inventory.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(doc)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc); err != nil {
		h.Logger.Error("failed to write pdf", "error", err)
	}
}

func (h *Handler) productReport(w http.ResponseWriter, r *http.Request, load func(context.Context, *user.Actor) (ProductReport, error)) {
	actor, _ := internal.ActorFromContext(r.Context())
	out, err := load(r.Context(), actor)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, out)
}
