package httpserver

import (
	"net/http"

	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/apperr"
	"github.com/go-chi/chi/v5"
)

type cartItemRequest struct {
	CarID    string `json:"carId"`
	Quantity *int   `json:"quantity"`
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Carts.GetCart(r.Context(), currentUserID(r.Context()))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondOK(w, "", view)
}

func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	if req.CarID == "" {
		respondError(w, r, h.log, apperr.Validation("carId is required"))
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	view, err := h.svc.Carts.AddItem(r.Context(), currentUserID(r.Context()), req.CarID, quantity)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondOK(w, "Item added to cart", view)
}

func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	if req.CarID == "" || req.Quantity == nil {
		respondError(w, r, h.log, apperr.Validation("carId and quantity are required"))
		return
	}

	view, err := h.svc.Carts.UpdateItem(r.Context(), currentUserID(r.Context()), req.CarID, *req.Quantity)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondOK(w, "Cart updated", view)
}

func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Carts.RemoveItem(r.Context(), currentUserID(r.Context()), chi.URLParam(r, "carId"))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondOK(w, "Item removed from cart", view)
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Carts.ClearCart(r.Context(), currentUserID(r.Context()))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondOK(w, "Cart cleared", view)
}
