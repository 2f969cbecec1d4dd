package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type orderItemDoc struct {
	VehicleID string  `bson:"vehicle_id"`
	Quantity  int     `bson:"quantity"`
	Price     float64 `bson:"price"`
}

type addressDoc struct {
	Street  string `bson:"street"`
	City    string `bson:"city"`
	State   string `bson:"state,omitempty"`
	ZipCode string `bson:"zip_code,omitempty"`
	Country string `bson:"country,omitempty"`
}

type contactDoc struct {
	Phone string `bson:"phone"`
	Email string `bson:"email"`
}

type orderDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	OrderNumber     string             `bson:"order_number"`
	UserID          string             `bson:"user_id"`
	Items           []orderItemDoc     `bson:"items"`
	TotalAmount     float64            `bson:"total_amount"`
	Status          string             `bson:"status"`
	ShippingAddress addressDoc         `bson:"shipping_address"`
	ContactInfo     contactDoc         `bson:"contact_info"`
	PaymentMethod   string             `bson:"payment_method"`
	PaymentStatus   string             `bson:"payment_status"`
	Notes           string             `bson:"notes,omitempty"`
	CreatedAt       time.Time          `bson:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at"`
}

func (d *orderDoc) toEntity() *entity.Order {
	items := make([]entity.OrderItem, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, entity.OrderItem{VehicleID: it.VehicleID, Quantity: it.Quantity, Price: it.Price})
	}
	return &entity.Order{
		ID:          d.ID.Hex(),
		OrderNumber: d.OrderNumber,
		UserID:      d.UserID,
		Items:       items,
		TotalAmount: d.TotalAmount,
		Status:      entity.OrderStatus(d.Status),
		ShippingAddress: entity.Address{
			Street:  d.ShippingAddress.Street,
			City:    d.ShippingAddress.City,
			State:   d.ShippingAddress.State,
			ZipCode: d.ShippingAddress.ZipCode,
			Country: d.ShippingAddress.Country,
		},
		ContactInfo:   entity.ContactInfo{Phone: d.ContactInfo.Phone, Email: d.ContactInfo.Email},
		PaymentMethod: entity.PaymentMethod(d.PaymentMethod),
		PaymentStatus: entity.PaymentStatus(d.PaymentStatus),
		Notes:         d.Notes,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func orderFromEntity(o *entity.Order) *orderDoc {
	items := make([]orderItemDoc, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemDoc{VehicleID: it.VehicleID, Quantity: it.Quantity, Price: it.Price})
	}
	return &orderDoc{
		OrderNumber: o.OrderNumber,
		UserID:      o.UserID,
		Items:       items,
		TotalAmount: o.TotalAmount,
		Status:      string(o.Status),
		ShippingAddress: addressDoc{
			Street:  o.ShippingAddress.Street,
			City:    o.ShippingAddress.City,
			State:   o.ShippingAddress.State,
			ZipCode: o.ShippingAddress.ZipCode,
			Country: o.ShippingAddress.Country,
		},
		ContactInfo:   contactDoc{Phone: o.ContactInfo.Phone, Email: o.ContactInfo.Email},
		PaymentMethod: string(o.PaymentMethod),
		PaymentStatus: string(o.PaymentStatus),
		Notes:         o.Notes,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

type orderRepository struct {
	collection *mongo.Collection
	log        logger.Logger
}

func NewOrderRepository(db *mongo.Database, log logger.Logger) repository.OrderRepository {
	return &orderRepository{
		collection: db.Collection(ordersCollection),
		log:        log.Named("OrderRepository"),
	}
}

func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	doc := orderFromEntity(order)
	doc.ID = primitive.NewObjectID()
	doc.OrderNumber = entity.OrderNumberFromID(doc.ID.Hex())
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	doc.UpdatedAt = doc.CreatedAt

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	order.ID = doc.ID.Hex()
	order.OrderNumber = doc.OrderNumber
	order.CreatedAt = doc.CreatedAt
	order.UpdatedAt = doc.UpdatedAt
	return nil
}

func (r *orderRepository) findOne(ctx context.Context, filter bson.M) (*entity.Order, error) {
	var doc orderDoc
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return doc.toEntity(), nil
}

func (r *orderRepository) GetByID(ctx context.Context, orderID string) (*entity.Order, error) {
	objID, err := toObjectID(orderID)
	if err != nil {
		return nil, fmt.Errorf("invalid order ID format: %w", repository.ErrNotFound)
	}
	return r.findOne(ctx, bson.M{"_id": objID})
}

func (r *orderRepository) GetByIDForUser(ctx context.Context, orderID, userID string) (*entity.Order, error) {
	objID, err := toObjectID(orderID)
	if err != nil {
		return nil, fmt.Errorf("invalid order ID format: %w", repository.ErrNotFound)
	}
	return r.findOne(ctx, bson.M{"_id": objID, "user_id": userID})
}

func (r *orderRepository) UpdateStatus(ctx context.Context, params repository.UpdateOrderStatusParams) (*entity.Order, error) {
	objID, err := toObjectID(params.OrderID)
	if err != nil {
		return nil, fmt.Errorf("invalid order ID format for update status: %w", repository.ErrNotFound)
	}

	set := bson.M{
		"status":     string(params.Status),
		"updated_at": time.Now().UTC(),
	}
	if params.Notes != nil {
		set["notes"] = *params.Notes
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc orderDoc
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update order status for ID %s: %w", params.OrderID, err)
	}
	return doc.toEntity(), nil
}

func (r *orderRepository) List(ctx context.Context, filter entity.OrderFilter) (*repository.ListOrdersResult, error) {
	query := bson.M{}
	if filter.UserID != "" {
		query["user_id"] = filter.UserID
	}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}
	if filter.PaymentStatus != "" {
		query["payment_status"] = string(filter.PaymentStatus)
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(filter.Pagination.Skip()).
		SetLimit(int64(filter.Pagination.Limit))

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []orderDoc
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode listed orders: %w", err)
	}

	totalCount, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	orders := make([]entity.Order, 0, len(docs))
	for i := range docs {
		orders = append(orders, *docs[i].toEntity())
	}
	return &repository.ListOrdersResult{Orders: orders, TotalCount: totalCount}, nil
}
