package catalog

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/toko-checkout/internal/common"
	"github.com/noah-isme/toko-checkout/internal/pricing"
)

// Handler exposes catalog endpoints.
type Handler struct {
	store *Store
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Store *Store
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{store: cfg.Store}
}

type createRequest struct {
	Name       string        `json:"name" validate:"required"`
	Price      pricing.Money `json:"price"`
	Quantity   int           `json:"quantity" validate:"gte=0"`
	Weight     float64       `json:"weight" validate:"gte=0"`
	Perishable bool          `json:"perishable"`
	Expired    bool          `json:"expired"`
}

type restockRequest struct {
	Quantity int `json:"quantity" validate:"gt=0"`
}

type priceRequest struct {
	Price pricing.Money `json:"price"`
}

// Routes mounts the catalog endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Post("/{id}/restock", h.Restock)
	r.Put("/{id}/price", h.SetPrice)
	r.Post("/{id}/expire", h.Expire)
}

// List handles GET /api/v1/items.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog not configured", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.store.List()})
}

// Get handles GET /api/v1/items/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog not configured", nil)
		return
	}
	item, err := h.store.Snapshot(ID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": item.View()})
}

// Create handles POST /api/v1/items.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog not configured", nil)
		return
	}
	var req createRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	item, err := h.store.Add(Params{
		Name:       req.Name,
		Price:      req.Price,
		Quantity:   req.Quantity,
		Weight:     req.Weight,
		Perishable: req.Perishable,
		Expired:    req.Expired,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": item.View()})
}

// Restock handles POST /api/v1/items/{id}/restock.
func (h *Handler) Restock(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog not configured", nil)
		return
	}
	var req restockRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	view, err := h.store.Restock(ID(chi.URLParam(r, "id")), req.Quantity)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": view})
}

// SetPrice handles PUT /api/v1/items/{id}/price.
func (h *Handler) SetPrice(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog not configured", nil)
		return
	}
	var req priceRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	view, err := h.store.SetPrice(ID(chi.URLParam(r, "id")), req.Price)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": view})
}

// Expire handles POST /api/v1/items/{id}/expire.
func (h *Handler) Expire(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog not configured", nil)
		return
	}
	view, err := h.store.MarkExpired(ID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": view})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "catalog item not found", nil)
	case errors.Is(err, ErrInvalidItem):
		common.JSONError(w, http.StatusUnprocessableEntity, "INVALID_ITEM", err.Error(), nil)
	default:
		common.WriteError(w, err)
	}
}
