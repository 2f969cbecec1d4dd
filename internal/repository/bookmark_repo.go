package repository

import (
	"context"

	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/entity"
)

type BookmarkRepository interface {
	// Add returns ErrAlreadyExists if the pair is already bookmarked.
	Add(ctx context.Context, bookmark *entity.Bookmark) error
	Remove(ctx context.Context, userID, vehicleID string) error
	Exists(ctx context.Context, userID, vehicleID string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]entity.Bookmark, error)
	DeleteByVehicles(ctx context.Context, vehicleIDs []string) error
}
