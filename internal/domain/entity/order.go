package entity

import (
	"errors"
	"strings"
	"time"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentCreditCard   PaymentMethod = "credit_card"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentCash         PaymentMethod = "cash"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCreditCard, PaymentBankTransfer, PaymentCash:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

type Address struct {
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
	Country string `json:"country,omitempty"`
}

type ContactInfo struct {
	Phone string `json:"phone" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// OrderItem freezes the vehicle price at the moment of checkout.
type OrderItem struct {
	VehicleID string          `json:"vehicleId"`
	Quantity  int             `json:"quantity"`
	Price     float64         `json:"price"`
	Vehicle   *VehicleSummary `json:"car,omitempty"`
}

type Order struct {
	ID              string        `json:"id"`
	OrderNumber     string        `json:"orderNumber"`
	UserID          string        `json:"userId"`
	Items           []OrderItem   `json:"items"`
	TotalAmount     float64       `json:"totalAmount"`
	Status          OrderStatus   `json:"status"`
	ShippingAddress Address       `json:"shippingAddress"`
	ContactInfo     ContactInfo   `json:"contactInfo"`
	PaymentMethod   PaymentMethod `json:"paymentMethod"`
	PaymentStatus   PaymentStatus `json:"paymentStatus"`
	Notes           string        `json:"notes,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// NewOrder builds a pending order and computes its total once. The total is
// never recomputed afterwards.
func NewOrder(userID string, items []OrderItem, shipping Address, contact ContactInfo, method PaymentMethod, notes string) (*Order, error) {
	if userID == "" {
		return nil, errors.New("user ID cannot be empty")
	}
	if len(items) == 0 {
		return nil, errors.New("order must contain at least one item")
	}

	now := time.Now().UTC()
	order := &Order{
		UserID:          userID,
		Items:           items,
		Status:          StatusPending,
		ShippingAddress: shipping,
		ContactInfo:     contact,
		PaymentMethod:   method,
		PaymentStatus:   PaymentPending,
		Notes:           notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	order.TotalAmount = CalculateTotal(items)
	return order, nil
}

func CalculateTotal(items []OrderItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// CanBeCancelled reports whether the owner may still cancel the order.
func (o *Order) CanBeCancelled() bool {
	return o.Status == StatusPending
}

// OrderNumberFromID derives the display number from the storage id.
func OrderNumberFromID(id string) string {
	suffix := id
	if len(suffix) > 8 {
		suffix = suffix[len(suffix)-8:]
	}
	return "ORD-" + strings.ToUpper(suffix)
}

func (o *Order) VehicleIDs() []string {
	ids := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		ids = append(ids, item.VehicleID)
	}
	return ids
}
