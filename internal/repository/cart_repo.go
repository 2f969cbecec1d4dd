package repository

import (
	"context"

	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/entity"
)

// CartRepository stores exactly one cart per user.
type CartRepository interface {
	// GetByUserID returns ErrNotFound when the user has no cart yet.
	GetByUserID(ctx context.Context, userID string) (*entity.Cart, error)
	// Save replaces the whole cart document, creating it if needed.
	Save(ctx context.Context, cart *entity.Cart) error
}
