package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/adapter/nats"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/apperr"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/platform/metrics"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/repository"
)

type CheckoutInput struct {
	ShippingAddress entity.Address       `json:"shippingAddress"`
	ContactInfo     entity.ContactInfo   `json:"contactInfo"`
	PaymentMethod   entity.PaymentMethod `json:"paymentMethod" validate:"required,payment"`
	Notes           string               `json:"notes" validate:"max=500"`
}

func (in CheckoutInput) normalized() CheckoutInput {
	in.ShippingAddress.Street = strings.TrimSpace(in.ShippingAddress.Street)
	in.ShippingAddress.City = strings.TrimSpace(in.ShippingAddress.City)
	in.ContactInfo.Phone = strings.TrimSpace(in.ContactInfo.Phone)
	in.ContactInfo.Email = normalizeEmail(in.ContactInfo.Email)
	in.Notes = strings.TrimSpace(in.Notes)
	return in
}

type OrderPage struct {
	Orders []entity.Order   `json:"orders"`
	Meta   entity.PageMeta `json:"pagination"`
}

// statusEmailFor lists the statuses whose change is emailed to the customer.
var statusEmailFor = map[entity.OrderStatus]bool{
	entity.StatusConfirmed: true,
	entity.StatusDelivered: true,
}

type OrderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	vehicleRepo repository.VehicleRepository
	vehicles    *VehicleReader
	notifier    Notifier
	publisher   nats.MessagePublisher
	metrics     *metrics.MetricsManager
	log         logger.Logger
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	vehicleRepo repository.VehicleRepository,
	vehicles *VehicleReader,
	notifier Notifier,
	publisher nats.MessagePublisher,
	metricsManager *metrics.MetricsManager,
	log logger.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		vehicleRepo: vehicleRepo,
		vehicles:    vehicles,
		notifier:    notifier,
		publisher:   publisher,
		metrics:     metricsManager,
		log:         log.Named("OrderService"),
	}
}

// Checkout turns the user's cart into a pending order. Availability is
// re-checked against the store but not locked, so two concurrent checkouts
// of one vehicle can both succeed.
func (s *OrderService) Checkout(ctx context.Context, userID string, in CheckoutInput) (*entity.Order, error) {
	s.log.Infof("Checkout started for user %s", userID)
	in = in.normalized()
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.ErrEmptyCart
		}
		return nil, fmt.Errorf("could not retrieve cart: %w", err)
	}
	if cart.IsEmpty() {
		return nil, apperr.ErrEmptyCart
	}

	ids := make([]string, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.VehicleID)
	}
	live, err := s.vehicleRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("could not load cart vehicles: %w", err)
	}

	items := make([]entity.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		vehicle, ok := live[line.VehicleID]
		if !ok {
			return nil, &apperr.VehicleUnavailableError{VehicleID: line.VehicleID, Name: line.VehicleID}
		}
		if !vehicle.IsAvailable {
			s.log.Warnf("Checkout for user %s blocked by unavailable vehicle %s", userID, vehicle.ID)
			return nil, &apperr.VehicleUnavailableError{VehicleID: vehicle.ID, Name: vehicle.DisplayName()}
		}
		items = append(items, entity.OrderItem{
			VehicleID: vehicle.ID,
			Quantity:  line.Quantity,
			Price:     vehicle.Price,
		})
	}

	order, err := entity.NewOrder(userID, items, in.ShippingAddress, in.ContactInfo, in.PaymentMethod, in.Notes)
	if err != nil {
		return nil, apperr.Validation(err.Error())
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		s.log.Errorf("Failed to create order for user %s: %v", userID, err)
		return nil, fmt.Errorf("could not create order: %w", err)
	}
	s.log.Infof("Order %s (%s) created for user %s, total %.2f", order.ID, order.OrderNumber, userID, order.TotalAmount)
	s.metrics.IncOrdersPlaced()

	cart.Clear()
	if err := s.cartRepo.Save(ctx, cart); err != nil {
		s.log.Errorf("Order %s placed but cart of user %s was not emptied: %v", order.ID, userID, err)
	}

	s.setAvailability(ctx, order, false)

	for i := range order.Items {
		if v, ok := live[order.Items[i].VehicleID]; ok {
			summary := v.Summary()
			summary.IsAvailable = false
			order.Items[i].Vehicle = summary
		}
	}

	if err := s.notifier.SendOrderConfirmation(ctx, order.ContactInfo.Email, order); err != nil {
		s.log.Warnf("Order confirmation email for %s failed: %v", order.ID, err)
	}
	s.publishCreated(ctx, order)
	return order, nil
}

// setAvailability flips every vehicle of the order. Failures are logged and
// never roll the order back.
func (s *OrderService) setAvailability(ctx context.Context, order *entity.Order, available bool) {
	ids := order.VehicleIDs()
	for _, id := range ids {
		if err := s.vehicleRepo.SetAvailability(ctx, id, available); err != nil {
			s.log.Errorf("Failed to set availability=%t for vehicle %s of order %s: %v", available, id, order.ID, err)
		}
	}
	s.vehicles.Invalidate(ctx, ids...)
}

func (s *OrderService) publishCreated(ctx context.Context, order *entity.Order) {
	event := nats.OrderCreatedEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		VehicleIDs:  order.VehicleIDs(),
		TotalAmount: order.TotalAmount,
		CreatedAt:   order.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, nats.SubjectOrderCreated, event); err != nil {
		s.log.Warnf("Failed to publish %s for order %s: %v", nats.SubjectOrderCreated, order.ID, err)
	}
}

func (s *OrderService) publishStatus(ctx context.Context, order *entity.Order, old entity.OrderStatus) {
	event := nats.OrderStatusUpdatedEvent{
		OrderID:   order.ID,
		UserID:    order.UserID,
		OldStatus: string(old),
		NewStatus: string(order.Status),
		UpdatedAt: order.UpdatedAt,
	}
	if err := s.publisher.Publish(ctx, nats.SubjectOrderStatusUpdated, event); err != nil {
		s.log.Warnf("Failed to publish %s for order %s: %v", nats.SubjectOrderStatusUpdated, order.ID, err)
	}
}

func (s *OrderService) CancelOrder(ctx context.Context, userID, orderID string) (*entity.Order, error) {
	order, err := s.orderRepo.GetByIDForUser(ctx, orderID, userID)
	if err != nil {
		return nil, notFoundAs(err, apperr.ErrOrderNotFound)
	}
	if !order.CanBeCancelled() {
		return nil, apperr.WithMessage(apperr.ErrNotCancellable, fmt.Sprintf("order with status %s cannot be cancelled", order.Status))
	}

	updated, err := s.orderRepo.UpdateStatus(ctx, repository.UpdateOrderStatusParams{
		OrderID: order.ID,
		Status:  entity.StatusCancelled,
	})
	if err != nil {
		return nil, notFoundAs(err, apperr.ErrOrderNotFound)
	}
	s.log.Infof("Order %s cancelled by user %s", order.ID, userID)
	s.metrics.IncOrdersCancelled()

	s.setAvailability(ctx, updated, true)
	s.publishStatus(ctx, updated, order.Status)
	return updated, nil
}

// UpdateOrderStatus overwrites the status with any valid value; no
// transition rules are applied.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID string, status entity.OrderStatus, notes *string) (*entity.Order, error) {
	if !status.Valid() {
		return nil, apperr.ErrInvalidStatus
	}
	current, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, notFoundAs(err, apperr.ErrOrderNotFound)
	}

	updated, err := s.orderRepo.UpdateStatus(ctx, repository.UpdateOrderStatusParams{
		OrderID: orderID,
		Status:  status,
		Notes:   notes,
	})
	if err != nil {
		return nil, notFoundAs(err, apperr.ErrOrderNotFound)
	}
	s.log.Infof("Order %s status changed %s -> %s by admin", orderID, current.Status, status)

	if statusEmailFor[status] && updated.ContactInfo.Email != "" {
		if err := s.notifier.SendOrderStatusUpdate(ctx, updated.ContactInfo.Email, updated); err != nil {
			s.log.Warnf("Status email for order %s failed: %v", orderID, err)
		}
	}
	s.publishStatus(ctx, updated, current.Status)
	return updated, nil
}

// attachVehicles fills the vehicle summaries of the given orders in place.
func (s *OrderService) attachVehicles(ctx context.Context, orders []entity.Order) {
	ids := make([]string, 0)
	for i := range orders {
		ids = append(ids, orders[i].VehicleIDs()...)
	}
	if len(ids) == 0 {
		return
	}
	vehicles, err := s.vehicles.GetMany(ctx, ids)
	if err != nil {
		s.log.Warnf("Could not load vehicles for orders: %v", err)
		return
	}
	for i := range orders {
		for j := range orders[i].Items {
			if v, ok := vehicles[orders[i].Items[j].VehicleID]; ok {
				orders[i].Items[j].Vehicle = v.Summary()
			}
		}
	}
}

func (s *OrderService) GetOrder(ctx context.Context, userID, orderID string) (*entity.Order, error) {
	order, err := s.orderRepo.GetByIDForUser(ctx, orderID, userID)
	if err != nil {
		return nil, notFoundAs(err, apperr.ErrOrderNotFound)
	}
	orders := []entity.Order{*order}
	s.attachVehicles(ctx, orders)
	return &orders[0], nil
}

func (s *OrderService) list(ctx context.Context, filter entity.OrderFilter) (*OrderPage, error) {
	if err := filter.Normalize(); err != nil {
		return nil, apperr.Validation(err.Error())
	}
	result, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("could not list orders: %w", err)
	}
	s.attachVehicles(ctx, result.Orders)
	return &OrderPage{
		Orders: result.Orders,
		Meta:   entity.NewPageMeta(filter.Pagination, result.TotalCount),
	}, nil
}

func (s *OrderService) ListMyOrders(ctx context.Context, userID string, status entity.OrderStatus, page entity.Pagination) (*OrderPage, error) {
	return s.list(ctx, entity.OrderFilter{UserID: userID, Status: status, Pagination: page})
}

func (s *OrderService) ListAllOrders(ctx context.Context, filter entity.OrderFilter) (*OrderPage, error) {
	filter.UserID = ""
	return s.list(ctx, filter)
}
