package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type analyticsRepository struct {
	users    *mongo.Collection
	vehicles *mongo.Collection
	orders   *mongo.Collection
	log      logger.Logger
}

func NewAnalyticsRepository(db *mongo.Database, log logger.Logger) repository.AnalyticsRepository {
	return &analyticsRepository{
		users:    db.Collection(usersCollection),
		vehicles: db.Collection(vehiclesCollection),
		orders:   db.Collection(ordersCollection),
		log:      log.Named("AnalyticsRepository"),
	}
}

func monthlyGroupStage(sumField interface{}) bson.D {
	group := bson.M{
		"_id": bson.M{
			"year":  bson.M{"$year": "$created_at"},
			"month": bson.M{"$month": "$created_at"},
		},
		"count": bson.M{"$sum": 1},
	}
	if sumField != nil {
		group["total"] = bson.M{"$sum": sumField}
	}
	return bson.D{{Key: "$group", Value: group}}
}

var monthlyProjection = bson.D{
	{Key: "$project", Value: bson.M{
		"_id":   0,
		"year":  "$_id.year",
		"month": "$_id.month",
		"count": 1,
		"total": 1,
	}},
}

var monthlySort = bson.D{{Key: "$sort", Value: bson.D{{Key: "year", Value: 1}, {Key: "month", Value: 1}}}}

func (r *analyticsRepository) UserGrowth(ctx context.Context, since time.Time) ([]repository.MonthlyCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"role": string(entity.RoleUser), "created_at": bson.M{"$gte": since}}}},
		monthlyGroupStage(nil),
		monthlyProjection,
		monthlySort,
	}
	cursor, err := r.users.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate user growth: %w", err)
	}
	defer cursor.Close(ctx)

	rows := make([]repository.MonthlyCount, 0)
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode user growth: %w", err)
	}
	return rows, nil
}

func (r *analyticsRepository) VehicleStats(ctx context.Context, topBrands int) (*repository.VehicleStats, error) {
	total, err := r.vehicles.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to count vehicles: %w", err)
	}
	available, err := r.vehicles.CountDocuments(ctx, bson.M{"is_available": true})
	if err != nil {
		return nil, fmt.Errorf("failed to count available vehicles: %w", err)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":      "$brand",
			"count":    bson.M{"$sum": 1},
			"avgPrice": bson.M{"$avg": "$price"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}
	if topBrands > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: topBrands}})
	}
	cursor, err := r.vehicles.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate vehicles by brand: %w", err)
	}
	defer cursor.Close(ctx)

	byBrand := make([]repository.BrandStat, 0)
	if err := cursor.All(ctx, &byBrand); err != nil {
		return nil, fmt.Errorf("failed to decode brand stats: %w", err)
	}

	return &repository.VehicleStats{Total: total, Available: available, ByBrand: byBrand}, nil
}

func (r *analyticsRepository) OrderStats(ctx context.Context, since time.Time) (*repository.OrderStats, error) {
	statusCursor, err := r.orders.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":     "$status",
			"count":   bson.M{"$sum": 1},
			"revenue": bson.M{"$sum": "$total_amount"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate orders by status: %w", err)
	}
	defer statusCursor.Close(ctx)

	byStatus := make([]repository.StatusStat, 0)
	if err := statusCursor.All(ctx, &byStatus); err != nil {
		return nil, fmt.Errorf("failed to decode status stats: %w", err)
	}

	stats := &repository.OrderStats{ByStatus: byStatus}
	for _, s := range byStatus {
		stats.Total += s.Count
		if s.Status != string(entity.StatusCancelled) {
			stats.TotalRevenue += s.Revenue
		}
	}

	monthlyCursor, err := r.orders.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"created_at": bson.M{"$gte": since},
			"status":     bson.M{"$ne": string(entity.StatusCancelled)},
		}}},
		monthlyGroupStage("$total_amount"),
		monthlyProjection,
		monthlySort,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate monthly revenue: %w", err)
	}
	defer monthlyCursor.Close(ctx)

	monthly := make([]repository.MonthlyCount, 0)
	if err := monthlyCursor.All(ctx, &monthly); err != nil {
		return nil, fmt.Errorf("failed to decode monthly revenue: %w", err)
	}
	stats.MonthlyRevenue = monthly
	return stats, nil
}
