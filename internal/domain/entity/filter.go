package entity

import "fmt"

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

type Pagination struct {
	Page  int
	Limit int
}

// Normalize applies defaults and rejects out-of-range values.
func (p *Pagination) Normalize() error {
	if p.Page == 0 {
		p.Page = DefaultPage
	}
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}
	if p.Page < 1 {
		return fmt.Errorf("page must be at least 1")
	}
	if p.Limit < 1 || p.Limit > MaxLimit {
		return fmt.Errorf("limit must be between 1 and %d", MaxLimit)
	}
	return nil
}

func (p Pagination) Skip() int64 {
	return int64((p.Page - 1) * p.Limit)
}

type PageMeta struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalItems  int64 `json:"totalItems"`
	Limit       int   `json:"limit"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

func NewPageMeta(p Pagination, total int64) PageMeta {
	totalPages := 0
	if p.Limit > 0 {
		totalPages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return PageMeta{
		CurrentPage: p.Page,
		TotalPages:  totalPages,
		TotalItems:  total,
		Limit:       p.Limit,
		HasNext:     int64(p.Page*p.Limit) < total,
		HasPrev:     p.Page > 1,
	}
}

// VehicleSortFields are the only fields a vehicle listing may be sorted by.
var VehicleSortFields = map[string]bool{
	"createdAt": true,
	"price":     true,
	"year":      true,
	"distance":  true,
	"brand":     true,
}

// VehicleFilter enumerates every supported vehicle search criterion.
// Text fields match case-insensitively as substrings; ranges are inclusive.
type VehicleFilter struct {
	Brand       string
	Model       string
	Color       string
	Engine      string
	Gearbox     string
	CategoryID  string
	IsAvailable *bool
	MinPrice    *float64
	MaxPrice    *float64
	MinYear     *int
	MaxYear     *int
	SortBy      string
	SortOrder   SortOrder
	Pagination  Pagination
}

func (f *VehicleFilter) Normalize() error {
	if f.SortBy == "" {
		f.SortBy = "createdAt"
	}
	if !VehicleSortFields[f.SortBy] {
		return fmt.Errorf("unsupported sortBy %q", f.SortBy)
	}
	if f.SortOrder == "" {
		f.SortOrder = SortDesc
	}
	if f.SortOrder != SortAsc && f.SortOrder != SortDesc {
		return fmt.Errorf("sortOrder must be asc or desc")
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return fmt.Errorf("minPrice cannot exceed maxPrice")
	}
	if f.MinYear != nil && f.MaxYear != nil && *f.MinYear > *f.MaxYear {
		return fmt.Errorf("minYear cannot exceed maxYear")
	}
	return f.Pagination.Normalize()
}

type OrderFilter struct {
	UserID        string
	Status        OrderStatus
	PaymentStatus PaymentStatus
	Pagination    Pagination
}

func (f *OrderFilter) Normalize() error {
	if f.Status != "" && !f.Status.Valid() {
		return fmt.Errorf("unknown status %q", f.Status)
	}
	if f.PaymentStatus != "" && !f.PaymentStatus.Valid() {
		return fmt.Errorf("unknown paymentStatus %q", f.PaymentStatus)
	}
	return f.Pagination.Normalize()
}

type CategoryFilter struct {
	ActiveOnly bool
	Pagination Pagination
}

// VehiclePatch carries the fields an admin may change; nil means unchanged.
type VehiclePatch struct {
	Brand       *string        `validate:"omitempty,min=2,max=50"`
	Model       *string        `validate:"omitempty,min=1,max=50"`
	Year        *int           `validate:"omitempty,gte=1990"`
	Price       *float64       `validate:"omitempty,gt=0"`
	Engine      *string        `validate:"omitempty,min=2,max=50"`
	Color       *string        `validate:"omitempty,min=2,max=30"`
	Distance    *int           `validate:"omitempty,gte=0"`
	Gearbox     *Gearbox       `validate:"omitempty,gearbox"`
	Tinting     *string        `validate:"omitempty,tinting"`
	Description *string        `validate:"omitempty,max=1000"`
	CategoryID  *string        `json:"category" validate:"omitempty,min=1"`
	IsAvailable *bool
	Images      *VehicleImages `validate:"-"`
}

type CategoryPatch struct {
	Name        *string `validate:"omitempty,min=2,max=50"`
	Description *string `validate:"omitempty,max=500"`
	Image       *string
	IsActive    *bool
}
