package repository

import (
	"context"
	"time"
)

type MonthlyCount struct {
	Year  int     `json:"year" bson:"year"`
	Month int     `json:"month" bson:"month"`
	Count int64   `json:"count" bson:"count"`
	Total float64 `json:"total,omitempty" bson:"total"`
}

type BrandStat struct {
	Brand    string  `json:"brand" bson:"_id"`
	Count    int64   `json:"count" bson:"count"`
	AvgPrice float64 `json:"avgPrice" bson:"avgPrice"`
}

type StatusStat struct {
	Status  string  `json:"status" bson:"_id"`
	Count   int64   `json:"count" bson:"count"`
	Revenue float64 `json:"revenue" bson:"revenue"`
}

type VehicleStats struct {
	Total     int64       `json:"total"`
	Available int64       `json:"available"`
	ByBrand   []BrandStat `json:"byBrand"`
}

type OrderStats struct {
	Total          int64          `json:"total"`
	TotalRevenue   float64        `json:"totalRevenue"`
	ByStatus       []StatusStat   `json:"byStatus"`
	MonthlyRevenue []MonthlyCount `json:"monthlyRevenue"`
}

// AnalyticsRepository runs the read-only aggregations behind the admin dashboard.
type AnalyticsRepository interface {
	UserGrowth(ctx context.Context, since time.Time) ([]MonthlyCount, error)
	VehicleStats(ctx context.Context, topBrands int) (*VehicleStats, error)
	OrderStats(ctx context.Context, since time.Time) (*OrderStats, error)
}
