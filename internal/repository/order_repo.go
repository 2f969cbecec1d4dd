package repository

import (
	"context"

	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/entity"
)

type UpdateOrderStatusParams struct {
	OrderID string
	Status  entity.OrderStatus
	Notes   *string
}

type ListOrdersResult struct {
	Orders     []entity.Order
	TotalCount int64
}

type OrderRepository interface {
	// Create stores the order and fills in its ID and OrderNumber.
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, orderID string) (*entity.Order, error)
	GetByIDForUser(ctx context.Context, orderID, userID string) (*entity.Order, error)
	UpdateStatus(ctx context.Context, params UpdateOrderStatusParams) (*entity.Order, error)
	List(ctx context.Context, filter entity.OrderFilter) (*ListOrdersResult, error)
}
