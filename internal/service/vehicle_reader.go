package service

import (
	"context"
	"errors"
	"time"

	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/apperr"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/repository"
)

// VehicleReader reads vehicles through an optional cache. Cache failures
// are logged and fall through to the repository.
type VehicleReader struct {
	repo  repository.VehicleRepository
	cache repository.VehicleCache
	ttl   time.Duration
	log   logger.Logger
}

// NewVehicleReader accepts a nil cache to disable caching.
func NewVehicleReader(repo repository.VehicleRepository, cache repository.VehicleCache, ttl time.Duration, log logger.Logger) *VehicleReader {
	return &VehicleReader{repo: repo, cache: cache, ttl: ttl, log: log.Named("VehicleReader")}
}

func (r *VehicleReader) Get(ctx context.Context, vehicleID string) (*entity.Vehicle, error) {
	if r.cache != nil {
		cached, err := r.cache.Get(ctx, vehicleID)
		if err == nil && cached != nil {
			r.log.Debugf("Vehicle %s found in cache", vehicleID)
			return cached, nil
		}
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			r.log.Warnf("Error getting vehicle %s from cache: %v", vehicleID, err)
		}
	}

	vehicle, err := r.repo.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, notFoundAs(err, apperr.ErrVehicleNotFound)
	}
	r.store(ctx, vehicle)
	return vehicle, nil
}

// GetMany returns the vehicles that exist, keyed by id.
func (r *VehicleReader) GetMany(ctx context.Context, vehicleIDs []string) (map[string]*entity.Vehicle, error) {
	found := make(map[string]*entity.Vehicle, len(vehicleIDs))
	missing := make([]string, 0, len(vehicleIDs))
	for _, id := range vehicleIDs {
		if r.cache != nil {
			if cached, err := r.cache.Get(ctx, id); err == nil && cached != nil {
				found[id] = cached
				continue
			}
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return found, nil
	}

	fetched, err := r.repo.GetByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	for id, v := range fetched {
		found[id] = v
		r.store(ctx, v)
	}
	return found, nil
}

func (r *VehicleReader) store(ctx context.Context, vehicle *entity.Vehicle) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Set(ctx, vehicle, r.ttl); err != nil {
		r.log.Warnf("Failed to cache vehicle %s: %v", vehicle.ID, err)
	}
}

func (r *VehicleReader) Invalidate(ctx context.Context, vehicleIDs ...string) {
	if r.cache == nil || len(vehicleIDs) == 0 {
		return
	}
	if err := r.cache.Delete(ctx, vehicleIDs...); err != nil {
		r.log.Warnf("Failed to invalidate cached vehicles %v: %v", vehicleIDs, err)
	}
}
