package mongo

import (
	"context"
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

type bookmarkDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	VehicleID string             `bson:"vehicle_id"`
	CreatedAt time.Time          `bson:"created_at"`
}

type bookmarkRepository struct {
	collection *mongo.Collection
	log        logger.Logger
}

func NewBookmarkRepository(db *mongo.Database, log logger.Logger) repository.BookmarkRepository {
	return &bookmarkRepository{
		collection: db.Collection(bookmarksCollection),
		log:        log.Named("BookmarkRepository"),
	}
}

func (r *bookmarkRepository) Add(ctx context.Context, bookmark *entity.Bookmark) error {
	doc := bookmarkDoc{
		ID:        primitive.NewObjectID(),
		UserID:    bookmark.UserID,
		VehicleID: bookmark.VehicleID,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrAlreadyExists
		}
		return fmt.Errorf("failed to add bookmark: %w", err)
	}
	bookmark.ID = doc.ID.Hex()
	bookmark.CreatedAt = doc.CreatedAt
	return nil
}

func (r *bookmarkRepository) Remove(ctx context.Context, userID, vehicleID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"user_id": userID, "vehicle_id": vehicleID})
	if err != nil {
		return fmt.Errorf("failed to remove bookmark: %w", err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *bookmarkRepository) Exists(ctx context.Context, userID, vehicleID string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"user_id": userID, "vehicle_id": vehicleID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check bookmark: %w", err)
	}
	return count > 0, nil
}

func (r *bookmarkRepository) ListByUser(ctx context.Context, userID string) ([]entity.Bookmark, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []bookmarkDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode bookmarks: %w", err)
	}
	bookmarks := make([]entity.Bookmark, 0, len(docs))
	for _, d := range docs {
		bookmarks = append(bookmarks, entity.Bookmark{
			ID:        d.ID.Hex(),
			UserID:    d.UserID,
			VehicleID: d.VehicleID,
			CreatedAt: d.CreatedAt,
		})
	}
	return bookmarks, nil
}

func (r *bookmarkRepository) DeleteByVehicles(ctx context.Context, vehicleIDs []string) error {
	if len(vehicleIDs) == 0 {
		return nil
	}
	if _, err := r.collection.DeleteMany(ctx, bson.M{"vehicle_id": bson.M{"$in": vehicleIDs}}); err != nil {
		return fmt.Errorf("failed to delete bookmarks for vehicles: %w", err)
	}
	return nil
}
