package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/apperr"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/repository"
)

type CartService struct {
	cartRepo repository.CartRepository
	vehicles *VehicleReader
	log      logger.Logger
}

func NewCartService(cartRepo repository.CartRepository, vehicles *VehicleReader, log logger.Logger) *CartService {
	return &CartService{
		cartRepo: cartRepo,
		vehicles: vehicles,
		log:      log.Named("CartService"),
	}
}

func mapCartError(err error) error {
	switch {
	case errors.Is(err, entity.ErrInvalidQuantity):
		return apperr.ErrInvalidQuantity
	case errors.Is(err, entity.ErrCartItemNotFound):
		return apperr.ErrCartItemNotFound
	}
	return err
}

// loadCart returns the user's cart, persisting an empty one on first use.
func (s *CartService) loadCart(ctx context.Context, userID string) (*entity.Cart, error) {
	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		s.log.Errorf("Error getting cart for user %s: %v", userID, err)
		return nil, fmt.Errorf("could not retrieve cart: %w", err)
	}

	cart = entity.NewCart(userID)
	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("could not create cart: %w", err)
	}
	s.log.Infof("Cart created for user %s", userID)
	return cart, nil
}

func (s *CartService) save(ctx context.Context, cart *entity.Cart) error {
	if err := s.cartRepo.Save(ctx, cart); err != nil {
		s.log.Errorf("Error saving cart for user %s: %v", cart.UserID, err)
		return fmt.Errorf("could not save cart: %w", err)
	}
	return nil
}

// view joins the stored lines with live vehicle data. Lines whose vehicle
// was deleted are left out.
func (s *CartService) view(ctx context.Context, cart *entity.Cart) (*entity.CartView, error) {
	ids := make([]string, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.VehicleID)
	}
	vehicles, err := s.vehicles.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("could not load cart vehicles: %w", err)
	}

	view := &entity.CartView{
		ID:        cart.ID,
		UserID:    cart.UserID,
		Items:     make([]entity.CartLine, 0, len(cart.Items)),
		UpdatedAt: cart.UpdatedAt,
	}
	for _, item := range cart.Items {
		vehicle, ok := vehicles[item.VehicleID]
		if !ok {
			s.log.Warnf("Cart of user %s references missing vehicle %s", cart.UserID, item.VehicleID)
			continue
		}
		lineTotal := vehicle.Price * float64(item.Quantity)
		view.Items = append(view.Items, entity.CartLine{
			Vehicle:   vehicle.Summary(),
			Quantity:  item.Quantity,
			AddedAt:   item.AddedAt,
			LineTotal: lineTotal,
		})
		view.TotalItems += item.Quantity
		view.TotalPrice += lineTotal
	}
	return view, nil
}

func (s *CartService) GetCart(ctx context.Context, userID string) (*entity.CartView, error) {
	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, cart)
}

func (s *CartService) AddItem(ctx context.Context, userID, vehicleID string, quantity int) (*entity.CartView, error) {
	s.log.Infof("Adding item to cart: UserID=%s, VehicleID=%s, Quantity=%d", userID, vehicleID, quantity)
	if quantity < 1 {
		return nil, apperr.ErrInvalidQuantity
	}

	vehicle, err := s.vehicles.Get(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if !vehicle.IsAvailable {
		s.log.Warnf("Attempted to add unavailable vehicle %s to cart of user %s", vehicleID, userID)
		return nil, apperr.WithMessage(apperr.ErrUnavailable, fmt.Sprintf("vehicle %s is not available", vehicle.DisplayName()))
	}

	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := cart.AddItem(vehicleID, quantity); err != nil {
		return nil, mapCartError(err)
	}
	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return s.view(ctx, cart)
}

func (s *CartService) UpdateItem(ctx context.Context, userID, vehicleID string, quantity int) (*entity.CartView, error) {
	s.log.Infof("Updating item quantity: UserID=%s, VehicleID=%s, Quantity=%d", userID, vehicleID, quantity)
	if quantity < 1 {
		return nil, apperr.ErrInvalidQuantity
	}
	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := cart.UpdateItemQuantity(vehicleID, quantity); err != nil {
		return nil, mapCartError(err)
	}
	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return s.view(ctx, cart)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, vehicleID string) (*entity.CartView, error) {
	s.log.Infof("Removing item from cart: UserID=%s, VehicleID=%s", userID, vehicleID)
	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := cart.RemoveItem(vehicleID); err != nil {
		return nil, mapCartError(err)
	}
	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return s.view(ctx, cart)
}

func (s *CartService) ClearCart(ctx context.Context, userID string) (*entity.CartView, error) {
	s.log.Infof("Clearing cart for user %s", userID)
	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart.Clear()
	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return s.view(ctx, cart)
}
