package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/repository"
	"github.com/redis/go-redis/v9"
)

const (
	cartKeyPrefix = "cart:"
)

type cartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCartRepository keeps each cart as a JSON value under cart:<userID>.
// A zero ttl keeps carts until they are overwritten.
func NewCartRepository(client *redis.Client, ttl time.Duration) repository.CartRepository {
	return &cartRepository{
		client: client,
		ttl:    ttl,
	}
}

func (r *cartRepository) getCartKey(userID string) string {
	return cartKeyPrefix + userID
}

func (r *cartRepository) GetByUserID(ctx context.Context, userID string) (*entity.Cart, error) {
	key := r.getCartKey(userID)
	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get cart for user %s from redis: %w", userID, err)
	}

	var cart entity.Cart
	if err := json.Unmarshal(val, &cart); err != nil {
		return nil, fmt.Errorf("cart of user %s: %v: %w", userID, err, repository.ErrCorruptEntry)
	}
	if cart.Items == nil {
		cart.Items = make([]entity.CartItem, 0)
	}
	return &cart, nil
}

func (r *cartRepository) Save(ctx context.Context, cart *entity.Cart) error {
	if cart == nil || cart.UserID == "" {
		return errors.New("cannot save nil cart or cart with empty userID")
	}

	key := r.getCartKey(cart.UserID)
	now := time.Now().UTC()
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now
	if cart.ID == "" {
		cart.ID = key
	}

	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to marshal cart for user %s: %w", cart.UserID, err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart for user %s to redis: %w", cart.UserID, err)
	}
	return nil
}
