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

type categoryDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description,omitempty"`
	Image       string             `bson:"image,omitempty"`
	IsActive    bool               `bson:"is_active"`
	CreatedBy   string             `bson:"created_by"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d *categoryDoc) toEntity() *entity.Category {
	return &entity.Category{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Image:       d.Image,
		IsActive:    d.IsActive,
		CreatedBy:   d.CreatedBy,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type categoryRepository struct {
	collection *mongo.Collection
	log        logger.Logger
}

func NewCategoryRepository(db *mongo.Database, log logger.Logger) repository.CategoryRepository {
	return &categoryRepository{
		collection: db.Collection(categoriesCollection),
		log:        log.Named("CategoryRepository"),
	}
}

func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) (string, error) {
	now := time.Now().UTC()
	doc := categoryDoc{
		ID:          primitive.NewObjectID(),
		Name:        category.Name,
		Description: category.Description,
		Image:       category.Image,
		IsActive:    category.IsActive,
		CreatedBy:   category.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", repository.ErrAlreadyExists
		}
		return "", fmt.Errorf("failed to create category: %w", err)
	}
	category.ID = doc.ID.Hex()
	category.CreatedAt = now
	category.UpdatedAt = now
	return category.ID, nil
}

func (r *categoryRepository) GetByID(ctx context.Context, categoryID string) (*entity.Category, error) {
	objID, err := toObjectID(categoryID)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	var doc categoryDoc
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get category by ID %s: %w", categoryID, err)
	}
	return doc.toEntity(), nil
}

func (r *categoryRepository) List(ctx context.Context, filter entity.CategoryFilter) ([]entity.Category, int64, error) {
	query := bson.M{}
	if filter.ActiveOnly {
		query["is_active"] = true
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	if filter.Pagination.Limit > 0 {
		findOptions.SetSkip(filter.Pagination.Skip()).SetLimit(int64(filter.Pagination.Limit))
	}

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list categories: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []categoryDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode categories: %w", err)
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count categories: %w", err)
	}

	categories := make([]entity.Category, 0, len(docs))
	for i := range docs {
		categories = append(categories, *docs[i].toEntity())
	}
	return categories, total, nil
}

func (r *categoryRepository) Update(ctx context.Context, categoryID string, patch entity.CategoryPatch) (*entity.Category, error) {
	objID, err := toObjectID(categoryID)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Image != nil {
		set["image"] = *patch.Image
	}
	if patch.IsActive != nil {
		set["is_active"] = *patch.IsActive
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc categoryDoc
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, repository.ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to update category %s: %w", categoryID, err)
	}
	return doc.toEntity(), nil
}

func (r *categoryRepository) Delete(ctx context.Context, categoryID string) error {
	objID, err := toObjectID(categoryID)
	if err != nil {
		return repository.ErrNotFound
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete category %s: %w", categoryID, err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
