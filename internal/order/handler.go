package order

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/garments-tracker/internal"
	"github.com/frahmantamala/garments-tracker/internal/transport"
)

const maxOrderBytes = 64 << 10

type ServiceAPI interface {
	PlaceOrder(ctx context.Context, actor internal.Identity, dto PlaceOrderDTO) (*Order, error)
	ListOwnOrders(ctx context.Context, actor internal.Identity) ([]*Order, error)
	ListPending(ctx context.Context, actor internal.Identity) ([]*Order, error)
	ListAll(ctx context.Context, actor internal.Identity) ([]*Order, error)
	GetOrder(ctx context.Context, actor internal.Identity, id string) (*Order, error)
	GetTracking(ctx context.Context, actor internal.Identity, id string) ([]TrackingEntry, error)
	Approve(ctx context.Context, actor internal.Identity, id string) (*Order, error)
	Reject(ctx context.Context, actor internal.Identity, id string) (*Order, error)
	AppendTracking(ctx context.Context, actor internal.Identity, id string, dto TrackingDTO) (*Order, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI, lg *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

type PlaceOrderResponse struct {
	ID     string `json:"id"`
	Status Status `json:"status"`
}

// PlaceOrder handles POST /orders
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxOrderBytes))
	if err != nil || len(raw) == 0 {
		h.WriteError(w, http.StatusBadRequest, "request body is required")
		return
	}

	dto, err := ParsePlaceOrder(raw)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	o, err := h.Service.PlaceOrder(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, PlaceOrderResponse{ID: o.ID, Status: o.Status})
}

// ListOwnOrders handles GET /orders/mine
func (h *Handler) ListOwnOrders(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.Service.ListOwnOrders)
}

// ListPending handles GET /orders/pending
func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.Service.ListPending)
}

// ListAll handles GET /orders
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.Service.ListAll)
}

// GetOrder handles GET /orders/{id}
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	o, err := h.Service.GetOrder(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, o)
}

// GetTracking handles GET /orders/{id}/tracking
func (h *Handler) GetTracking(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	entries, err := h.Service.GetTracking(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, entries)
}

// Approve handles PATCH /orders/{id}/approve
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.Service.Approve)
}

// Reject handles PATCH /orders/{id}/reject
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.Service.Reject)
}

// AppendTracking handles POST /orders/{id}/tracking
func (h *Handler) AppendTracking(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var dto TrackingDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	o, err := h.Service.AppendTracking(r.Context(), actor, chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, o)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, fetch func(context.Context, internal.Identity) ([]*Order, error)) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	orders, err := fetch(r.Context(), actor)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, orders)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, apply func(context.Context, internal.Identity, string) (*Order, error)) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	o, err := apply(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, o)
}

func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (internal.Identity, bool) {
	actor, ok := internal.IdentityFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, internal.ErrUnauthenticated)
	}
	return actor, ok
}
