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

type cartItemDoc struct {
	VehicleID string    `bson:"vehicle_id"`
	Quantity  int       `bson:"quantity"`
	AddedAt   time.Time `bson:"added_at"`
}

type cartDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	Items     []cartItemDoc      `bson:"items"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d *cartDoc) toEntity() *entity.Cart {
	items := make([]entity.CartItem, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, entity.CartItem{VehicleID: it.VehicleID, Quantity: it.Quantity, AddedAt: it.AddedAt})
	}
	return &entity.Cart{
		ID:        d.ID.Hex(),
		UserID:    d.UserID,
		Items:     items,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type cartRepository struct {
	collection *mongo.Collection
	log        logger.Logger
}

// NewCartRepository stores carts as one document per user, keyed by user_id.
func NewCartRepository(db *mongo.Database, log logger.Logger) repository.CartRepository {
	return &cartRepository{
		collection: db.Collection(cartsCollection),
		log:        log.Named("MongoCartRepository"),
	}
}

func (r *cartRepository) GetByUserID(ctx context.Context, userID string) (*entity.Cart, error) {
	var doc cartDoc
	if err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get cart for user %s: %w", userID, err)
	}
	return doc.toEntity(), nil
}

func (r *cartRepository) Save(ctx context.Context, cart *entity.Cart) error {
	items := make([]cartItemDoc, 0, len(cart.Items))
	for _, it := range cart.Items {
		items = append(items, cartItemDoc{VehicleID: it.VehicleID, Quantity: it.Quantity, AddedAt: it.AddedAt})
	}
	now := time.Now().UTC()
	createdAt := cart.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	update := bson.M{
		"$set": bson.M{
			"items":      items,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"user_id":    cart.UserID,
			"created_at": createdAt,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc cartDoc
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"user_id": cart.UserID}, update, opts).Decode(&doc); err != nil {
		return fmt.Errorf("failed to save cart for user %s: %w", cart.UserID, err)
	}
	cart.ID = doc.ID.Hex()
	cart.CreatedAt = doc.CreatedAt
	cart.UpdatedAt = doc.UpdatedAt
	return nil
}
