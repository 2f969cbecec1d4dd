package entity

import (
	"fmt"
	"time"
)

type Gearbox string

const (
	GearboxManual    Gearbox = "Manual"
	GearboxAutomatic Gearbox = "Automatic"
	GearboxCVT       Gearbox = "CVT"
)

func (g Gearbox) Valid() bool {
	switch g {
	case GearboxManual, GearboxAutomatic, GearboxCVT:
		return true
	}
	return false
}

const (
	TintingYes = "Ha"
	TintingNo  = "Yo'q"
)

type VehicleImages struct {
	Exterior  string `json:"exterior,omitempty"`
	Interior  string `json:"interior,omitempty"`
	ModelType string `json:"modelType,omitempty"`
}

type Vehicle struct {
	ID          string        `json:"id"`
	Brand       string        `json:"brand"`
	Model       string        `json:"model"`
	Year        int           `json:"year"`
	Price       float64       `json:"price"`
	Engine      string        `json:"engine"`
	Color       string        `json:"color"`
	Distance    int           `json:"distance"`
	Gearbox     Gearbox       `json:"gearbox"`
	Tinting     string        `json:"tinting"`
	Description string        `json:"description,omitempty"`
	Images      VehicleImages `json:"images"`
	IsAvailable bool          `json:"isAvailable"`
	CategoryID  string        `json:"categoryId"`
	CreatedBy   string        `json:"createdBy"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// DisplayName is the human label used in messages and receipts.
func (v *Vehicle) DisplayName() string {
	return fmt.Sprintf("%s %s %d", v.Brand, v.Model, v.Year)
}

// VehicleSummary is the slice of vehicle data embedded in cart and order views.
type VehicleSummary struct {
	ID          string        `json:"id"`
	Brand       string        `json:"brand"`
	Model       string        `json:"model"`
	Year        int           `json:"year"`
	Price       float64       `json:"price"`
	Images      VehicleImages `json:"images"`
	IsAvailable bool          `json:"isAvailable"`
	CategoryID  string        `json:"categoryId"`
}

func (v *Vehicle) Summary() *VehicleSummary {
	return &VehicleSummary{
		ID:          v.ID,
		Brand:       v.Brand,
		Model:       v.Model,
		Year:        v.Year,
		Price:       v.Price,
		Images:      v.Images,
		IsAvailable: v.IsAvailable,
		CategoryID:  v.CategoryID,
	}
}
