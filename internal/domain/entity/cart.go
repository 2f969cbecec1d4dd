package entity

import (
	"errors"
	"time"
)

var (
	ErrCartItemNotFound = errors.New("item not found in cart")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
)

// CartItem stores only the vehicle reference and quantity; prices are never
// frozen in a cart.
type CartItem struct {
	VehicleID string    `json:"vehicle_id"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

type Cart struct {
	ID        string     `json:"id,omitempty"`
	UserID    string     `json:"user_id"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func NewCart(userID string) *Cart {
	now := time.Now().UTC()
	return &Cart{
		UserID:    userID,
		Items:     make([]CartItem, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (c *Cart) GetItem(vehicleID string) (*CartItem, int) {
	for i, item := range c.Items {
		if item.VehicleID == vehicleID {
			return &c.Items[i], i
		}
	}
	return nil, -1
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// AddItem increments an existing line or appends a new one. No upper bound
// is enforced on quantity.
func (c *Cart) AddItem(vehicleID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	now := time.Now().UTC()
	if item, _ := c.GetItem(vehicleID); item != nil {
		item.Quantity += quantity
	} else {
		c.Items = append(c.Items, CartItem{VehicleID: vehicleID, Quantity: quantity, AddedAt: now})
	}
	c.UpdatedAt = now
	return nil
}

func (c *Cart) UpdateItemQuantity(vehicleID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	item, _ := c.GetItem(vehicleID)
	if item == nil {
		return ErrCartItemNotFound
	}
	item.Quantity = quantity
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (c *Cart) RemoveItem(vehicleID string) error {
	_, index := c.GetItem(vehicleID)
	if index == -1 {
		return ErrCartItemNotFound
	}
	c.Items = append(c.Items[:index], c.Items[index+1:]...)
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (c *Cart) Clear() {
	c.Items = make([]CartItem, 0)
	c.UpdatedAt = time.Now().UTC()
}

// CartLine is one line of the joined cart view.
type CartLine struct {
	Vehicle   *VehicleSummary `json:"car"`
	Quantity  int             `json:"quantity"`
	AddedAt   time.Time       `json:"addedAt"`
	LineTotal float64         `json:"lineTotal"`
}

// CartView is a cart joined with live vehicle data.
type CartView struct {
	ID         string     `json:"id,omitempty"`
	UserID     string     `json:"userId"`
	Items      []CartLine `json:"items"`
	TotalItems int        `json:"totalItems"`
	TotalPrice float64    `json:"totalPrice"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}
