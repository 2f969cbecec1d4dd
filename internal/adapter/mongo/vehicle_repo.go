package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type vehicleImagesDoc struct {
	Exterior  string `bson:"exterior,omitempty"`
	Interior  string `bson:"interior,omitempty"`
	ModelType string `bson:"model_type,omitempty"`
}

type vehicleDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Brand       string             `bson:"brand"`
	Model       string             `bson:"model"`
	Year        int                `bson:"year"`
	Price       float64            `bson:"price"`
	Engine      string             `bson:"engine"`
	Color       string             `bson:"color"`
	Distance    int                `bson:"distance"`
	Gearbox     string             `bson:"gearbox"`
	Tinting     string             `bson:"tinting"`
	Description string             `bson:"description,omitempty"`
	Images      vehicleImagesDoc   `bson:"images"`
	IsAvailable bool               `bson:"is_available"`
	CategoryID  string             `bson:"category_id"`
	CreatedBy   string             `bson:"created_by"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d *vehicleDoc) toEntity() *entity.Vehicle {
	return &entity.Vehicle{
		ID:          d.ID.Hex(),
		Brand:       d.Brand,
		Model:       d.Model,
		Year:        d.Year,
		Price:       d.Price,
		Engine:      d.Engine,
		Color:       d.Color,
		Distance:    d.Distance,
		Gearbox:     entity.Gearbox(d.Gearbox),
		Tinting:     d.Tinting,
		Description: d.Description,
		Images: entity.VehicleImages{
			Exterior:  d.Images.Exterior,
			Interior:  d.Images.Interior,
			ModelType: d.Images.ModelType,
		},
		IsAvailable: d.IsAvailable,
		CategoryID:  d.CategoryID,
		CreatedBy:   d.CreatedBy,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func vehicleFromEntity(v *entity.Vehicle) *vehicleDoc {
	return &vehicleDoc{
		Brand:       v.Brand,
		Model:       v.Model,
		Year:        v.Year,
		Price:       v.Price,
		Engine:      v.Engine,
		Color:       v.Color,
		Distance:    v.Distance,
		Gearbox:     string(v.Gearbox),
		Tinting:     v.Tinting,
		Description: v.Description,
		Images:      imagesDoc(v.Images),
		IsAvailable: v.IsAvailable,
		CategoryID:  v.CategoryID,
		CreatedBy:   v.CreatedBy,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

func imagesDoc(images entity.VehicleImages) vehicleImagesDoc {
	return vehicleImagesDoc{Exterior: images.Exterior, Interior: images.Interior, ModelType: images.ModelType}
}

// vehicleSortFields maps API sort keys to stored field names.
var vehicleSortFields = map[string]string{
	"createdAt": "created_at",
	"price":     "price",
	"year":      "year",
	"distance":  "distance",
	"brand":     "brand",
}

type vehicleRepository struct {
	collection *mongo.Collection
	log        logger.Logger
}

func NewVehicleRepository(db *mongo.Database, log logger.Logger) repository.VehicleRepository {
	return &vehicleRepository{
		collection: db.Collection(vehiclesCollection),
		log:        log.Named("VehicleRepository"),
	}
}

func (r *vehicleRepository) Create(ctx context.Context, vehicle *entity.Vehicle) (string, error) {
	doc := vehicleFromEntity(vehicle)
	doc.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("failed to create vehicle: %w", err)
	}
	vehicle.ID = doc.ID.Hex()
	vehicle.CreatedAt = now
	vehicle.UpdatedAt = now
	return vehicle.ID, nil
}

func (r *vehicleRepository) GetByID(ctx context.Context, vehicleID string) (*entity.Vehicle, error) {
	objID, err := toObjectID(vehicleID)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	var doc vehicleDoc
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get vehicle by ID %s: %w", vehicleID, err)
	}
	return doc.toEntity(), nil
}

func (r *vehicleRepository) GetByIDs(ctx context.Context, vehicleIDs []string) (map[string]*entity.Vehicle, error) {
	result := make(map[string]*entity.Vehicle, len(vehicleIDs))
	objIDs := toObjectIDs(vehicleIDs)
	if len(objIDs) == 0 {
		return result, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": objIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to get vehicles by IDs: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []vehicleDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode vehicles: %w", err)
	}
	for i := range docs {
		v := docs[i].toEntity()
		result[v.ID] = v
	}
	return result, nil
}

func containsFold(value string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(value), Options: "i"}
}

func vehicleQuery(filter entity.VehicleFilter) bson.M {
	query := bson.M{}
	for field, value := range map[string]string{
		"brand":   filter.Brand,
		"model":   filter.Model,
		"color":   filter.Color,
		"engine":  filter.Engine,
		"gearbox": filter.Gearbox,
	} {
		if value != "" {
			query[field] = containsFold(value)
		}
	}
	if filter.CategoryID != "" {
		query["category_id"] = filter.CategoryID
	}
	if filter.IsAvailable != nil {
		query["is_available"] = *filter.IsAvailable
	}

	price := bson.M{}
	if filter.MinPrice != nil {
		price["$gte"] = *filter.MinPrice
	}
	if filter.MaxPrice != nil {
		price["$lte"] = *filter.MaxPrice
	}
	if len(price) > 0 {
		query["price"] = price
	}

	year := bson.M{}
	if filter.MinYear != nil {
		year["$gte"] = *filter.MinYear
	}
	if filter.MaxYear != nil {
		year["$lte"] = *filter.MaxYear
	}
	if len(year) > 0 {
		query["year"] = year
	}
	return query
}

func (r *vehicleRepository) List(ctx context.Context, filter entity.VehicleFilter) (*repository.ListVehiclesResult, error) {
	query := vehicleQuery(filter)

	sortField, ok := vehicleSortFields[filter.SortBy]
	if !ok {
		sortField = "created_at"
	}
	sortOrder := -1
	if filter.SortOrder == entity.SortAsc {
		sortOrder = 1
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: sortField, Value: sortOrder}, {Key: "_id", Value: sortOrder}}).
		SetSkip(filter.Pagination.Skip()).
		SetLimit(int64(filter.Pagination.Limit))

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []vehicleDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode listed vehicles: %w", err)
	}

	totalCount, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count vehicles: %w", err)
	}

	vehicles := make([]entity.Vehicle, 0, len(docs))
	for i := range docs {
		vehicles = append(vehicles, *docs[i].toEntity())
	}
	return &repository.ListVehiclesResult{Vehicles: vehicles, TotalCount: totalCount}, nil
}

func patchSet(patch entity.VehiclePatch) bson.M {
	set := bson.M{}
	if patch.Brand != nil {
		set["brand"] = *patch.Brand
	}
	if patch.Model != nil {
		set["model"] = *patch.Model
	}
	if patch.Year != nil {
		set["year"] = *patch.Year
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.Engine != nil {
		set["engine"] = *patch.Engine
	}
	if patch.Color != nil {
		set["color"] = *patch.Color
	}
	if patch.Distance != nil {
		set["distance"] = *patch.Distance
	}
	if patch.Gearbox != nil {
		set["gearbox"] = string(*patch.Gearbox)
	}
	if patch.Tinting != nil {
		set["tinting"] = *patch.Tinting
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.CategoryID != nil {
		set["category_id"] = *patch.CategoryID
	}
	if patch.IsAvailable != nil {
		set["is_available"] = *patch.IsAvailable
	}
	if patch.Images != nil {
		set["images"] = imagesDoc(*patch.Images)
	}
	return set
}

func (r *vehicleRepository) Update(ctx context.Context, vehicleID string, patch entity.VehiclePatch) (*entity.Vehicle, error) {
	objID, err := toObjectID(vehicleID)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	set := patchSet(patch)
	set["updated_at"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc vehicleDoc
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update vehicle %s: %w", vehicleID, err)
	}
	return doc.toEntity(), nil
}

func (r *vehicleRepository) SetAvailability(ctx context.Context, vehicleID string, available bool) error {
	objID, err := toObjectID(vehicleID)
	if err != nil {
		return repository.ErrNotFound
	}
	update := bson.M{"$set": bson.M{"is_available": available, "updated_at": time.Now().UTC()}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return fmt.Errorf("failed to set availability for vehicle %s: %w", vehicleID, err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *vehicleRepository) BulkUpdate(ctx context.Context, vehicleIDs []string, patch entity.VehiclePatch) (int64, error) {
	objIDs := toObjectIDs(vehicleIDs)
	if len(objIDs) == 0 {
		return 0, nil
	}
	set := patchSet(patch)
	if len(set) == 0 {
		return 0, repository.ErrUpdateFailed
	}
	set["updated_at"] = time.Now().UTC()

	result, err := r.collection.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": objIDs}}, bson.M{"$set": set})
	if err != nil {
		return 0, fmt.Errorf("failed to bulk update vehicles: %w", err)
	}
	return result.ModifiedCount, nil
}

func (r *vehicleRepository) Delete(ctx context.Context, vehicleID string) error {
	objID, err := toObjectID(vehicleID)
	if err != nil {
		return repository.ErrNotFound
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete vehicle %s: %w", vehicleID, err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *vehicleRepository) BulkDelete(ctx context.Context, vehicleIDs []string) (int64, error) {
	objIDs := toObjectIDs(vehicleIDs)
	if len(objIDs) == 0 {
		return 0, nil
	}
	result, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": objIDs}})
	if err != nil {
		return 0, fmt.Errorf("failed to bulk delete vehicles: %w", err)
	}
	return result.DeletedCount, nil
}

func (r *vehicleRepository) CountByCategory(ctx context.Context, categoryIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(categoryIDs))
	if len(categoryIDs) == 0 {
		return counts, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"category_id": bson.M{"$in": categoryIDs}}}},
		{{Key: "$group", Value: bson.M{"_id": "$category_id", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to count vehicles by category: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		CategoryID string `bson:"_id"`
		Count      int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode category counts: %w", err)
	}
	for _, row := range rows {
		counts[row.CategoryID] = row.Count
	}
	return counts, nil
}
