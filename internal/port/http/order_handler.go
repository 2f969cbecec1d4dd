package httpserver

import (
	"fmt"
	"net/http"

	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/service"
	"github.com/go-chi/chi/v5"
)

type checkoutRequest struct {
	ShippingAddress entity.Address       `json:"shippingAddress"`
	ContactInfo     entity.ContactInfo   `json:"contactInfo"`
	PaymentMethod   entity.PaymentMethod `json:"paymentMethod"`
	Notes           string               `json:"notes"`
}

type orderStatusRequest struct {
	Status entity.OrderStatus `json:"status"`
	Notes  *string            `json:"notes"`
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	userID := currentUserID(r.Context())
	h.log.Infow("HTTP Checkout request received", "user_id", userID, "payment_method", req.PaymentMethod)

	order, err := h.svc.Orders.Checkout(r.Context(), userID, service.CheckoutInput{
		ShippingAddress: req.ShippingAddress,
		ContactInfo:     req.ContactInfo,
		PaymentMethod:   req.PaymentMethod,
		Notes:           req.Notes,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondCreated(w, "Order placed successfully", order)
}

func (h *Handler) MyOrders(w http.ResponseWriter, r *http.Request) {
	status, page, err := parseMyOrdersQuery(r.URL.Query())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	result, err := h.svc.Orders.ListMyOrders(r.Context(), currentUserID(r.Context()), status, page)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondOK(w, "", result)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.svc.Orders.GetOrder(r.Context(), currentUserID(r.Context()), chi.URLParam(r, "orderId"))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondOK(w, "", order)
}

func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.svc.Orders.CancelOrder(r.Context(), currentUserID(r.Context()), chi.URLParam(r, "orderId"))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondOK(w, "Order cancelled successfully", order)
}

// DownloadReceipt streams a plain-text receipt as an attachment.
func (h *Handler) DownloadReceipt(w http.ResponseWriter, r *http.Request) {
	body, filename, err := h.svc.Receipts.GenerateOrderReceipt(r.Context(), chi.URLParam(r, "orderId"), currentUserID(r.Context()))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (h *Handler) AdminListOrders(w http.ResponseWriter, r *http.Request) {
	filter, err := parseAdminOrderFilter(r.URL.Query())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	result, err := h.svc.Orders.ListAllOrders(r.Context(), filter)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondOK(w, "", result)
}

func (h *Handler) AdminUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req orderStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	orderID := chi.URLParam(r, "orderId")
	h.log.Infow("HTTP order status update", "order_id", orderID, "status", req.Status, "admin_id", currentAdminID(r.Context()))

	order, err := h.svc.Orders.UpdateOrderStatus(r.Context(), orderID, req.Status, req.Notes)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondOK(w, "Order status updated", order)
}
