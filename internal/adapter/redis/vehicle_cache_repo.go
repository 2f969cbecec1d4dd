package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/repository"
	"github.com/redis/go-redis/v9"
)

const (
	vehicleCacheKeyPrefix = "vehicle:"
)

type vehicleCacheRepository struct {
	client *redis.Client
	log    logger.Logger
}

func NewVehicleCacheRepository(client *redis.Client, log logger.Logger) repository.VehicleCache {
	return &vehicleCacheRepository{
		client: client,
		log:    log.Named("VehicleCache"),
	}
}

func (r *vehicleCacheRepository) getVehicleKey(vehicleID string) string {
	return vehicleCacheKeyPrefix + vehicleID
}

func (r *vehicleCacheRepository) Get(ctx context.Context, vehicleID string) (*entity.Vehicle, error) {
	key := r.getVehicleKey(vehicleID)
	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get vehicle %s from redis: %w", vehicleID, err)
	}

	var vehicle entity.Vehicle
	if err := json.Unmarshal(val, &vehicle); err != nil {
		r.log.Warnw("Dropping undecodable cache entry", "key", key, "error", err)
		if delErr := r.Delete(ctx, vehicleID); delErr != nil {
			r.log.Warnw("Failed to drop cache entry", "key", key, "error", delErr)
		}
		return nil, fmt.Errorf("cached vehicle %s: %w", vehicleID, repository.ErrCorruptEntry)
	}
	return &vehicle, nil
}

func (r *vehicleCacheRepository) Set(ctx context.Context, vehicle *entity.Vehicle, ttl time.Duration) error {
	if vehicle == nil || vehicle.ID == "" {
		return errors.New("cannot cache nil vehicle or vehicle with empty ID")
	}

	data, err := json.Marshal(vehicle)
	if err != nil {
		return fmt.Errorf("failed to marshal vehicle %s: %w", vehicle.ID, err)
	}

	if err := r.client.Set(ctx, r.getVehicleKey(vehicle.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache vehicle %s in redis: %w", vehicle.ID, err)
	}
	return nil
}

func (r *vehicleCacheRepository) Delete(ctx context.Context, vehicleIDs ...string) error {
	if len(vehicleIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(vehicleIDs))
	for _, id := range vehicleIDs {
		keys = append(keys, r.getVehicleKey(id))
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete cached vehicles from redis: %w", err)
	}
	return nil
}
