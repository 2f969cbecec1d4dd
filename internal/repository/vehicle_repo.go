package repository

import (
	"context"
	"time"

	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/entity"
)

type ListVehiclesResult struct {
	Vehicles   []entity.Vehicle
	TotalCount int64
}

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *entity.Vehicle) (string, error)
	GetByID(ctx context.Context, vehicleID string) (*entity.Vehicle, error)
	// GetByIDs returns the vehicles that exist, keyed by id.
	GetByIDs(ctx context.Context, vehicleIDs []string) (map[string]*entity.Vehicle, error)
	List(ctx context.Context, filter entity.VehicleFilter) (*ListVehiclesResult, error)
	Update(ctx context.Context, vehicleID string, patch entity.VehiclePatch) (*entity.Vehicle, error)
	SetAvailability(ctx context.Context, vehicleID string, available bool) error
	BulkUpdate(ctx context.Context, vehicleIDs []string, patch entity.VehiclePatch) (int64, error)
	Delete(ctx context.Context, vehicleID string) error
	BulkDelete(ctx context.Context, vehicleIDs []string) (int64, error)
	CountByCategory(ctx context.Context, categoryIDs []string) (map[string]int64, error)
}

type VehicleCache interface {
	Get(ctx context.Context, vehicleID string) (*entity.Vehicle, error)
	Set(ctx context.Context, vehicle *entity.Vehicle, ttl time.Duration) error
	Delete(ctx context.Context, vehicleIDs ...string) error
}
