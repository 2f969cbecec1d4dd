package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/apperr"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/repository"
)

const receiptTimeLayout = "2006-01-02 15:04 MST"

type ReceiptService struct {
	orderRepo repository.OrderRepository
	vehicles  *VehicleReader
	log       logger.Logger
}

func NewReceiptService(orderRepo repository.OrderRepository, vehicles *VehicleReader, log logger.Logger) *ReceiptService {
	return &ReceiptService{
		orderRepo: orderRepo,
		vehicles:  vehicles,
		log:       log.Named("ReceiptService"),
	}
}

// GenerateOrderReceipt renders a plain-text receipt for an order owned by userID.
func (s *ReceiptService) GenerateOrderReceipt(ctx context.Context, orderID, userID string) ([]byte, string, error) {
	s.log.Infof("Generating receipt for order ID: %s, requested by User ID: %s", orderID, userID)

	order, err := s.orderRepo.GetByIDForUser(ctx, orderID, userID)
	if err != nil {
		s.log.Warnf("Receipt for order %s unavailable to user %s: %v", orderID, userID, err)
		return nil, "", notFoundAs(err, apperr.ErrOrderNotFound)
	}

	names := make(map[string]string, len(order.Items))
	if vehicles, err := s.vehicles.GetMany(ctx, order.VehicleIDs()); err == nil {
		for id, v := range vehicles {
			names[id] = v.DisplayName()
		}
	} else {
		s.log.Warnf("Receipt for order %s will use vehicle ids: %v", orderID, err)
	}

	return []byte(renderReceipt(order, names)), fmt.Sprintf("receipt_%s.txt", order.OrderNumber), nil
}

func renderReceipt(order *entity.Order, names map[string]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order: %s\n", order.OrderNumber)
	fmt.Fprintf(&b, "Date: %s\n", order.CreatedAt.Format(receiptTimeLayout))
	fmt.Fprintf(&b, "Status: %s\n", order.Status)
	fmt.Fprintf(&b, "Payment: %s (%s)\n", order.PaymentMethod, order.PaymentStatus)
	fmt.Fprintf(&b, "Ship to: %s, %s\n", order.ShippingAddress.Street, order.ShippingAddress.City)
	b.WriteString("\nItems:\n")
	for _, item := range order.Items {
		name := names[item.VehicleID]
		if name == "" {
			name = item.VehicleID
		}
		fmt.Fprintf(&b, "- %s (x%d) @ %.2f = %.2f\n", name, item.Quantity, item.Price, item.Price*float64(item.Quantity))
	}
	fmt.Fprintf(&b, "\nTotal Amount: %.2f\n", order.TotalAmount)
	return b.String()
}
