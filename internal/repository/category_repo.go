package repository

import (
	"context"

	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/entity"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) (string, error)
	GetByID(ctx context.Context, categoryID string) (*entity.Category, error)
	List(ctx context.Context, filter entity.CategoryFilter) ([]entity.Category, int64, error)
	Update(ctx context.Context, categoryID string, patch entity.CategoryPatch) (*entity.Category, error)
	Delete(ctx context.Context, categoryID string) error
}
