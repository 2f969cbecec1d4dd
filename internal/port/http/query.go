package httpserver

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/apperr"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/entity"
)

var (
	vehicleKeys = []string{
		"brand", "model", "color", "engine", "gearbox", "category", "isAvailable",
		"minPrice", "maxPrice", "minYear", "maxYear", "sortBy", "sortOrder", "page", "limit",
	}
	categoryKeys   = []string{"isActive", "page", "limit"}
	myOrderKeys    = []string{"status", "page", "limit"}
	adminOrderKeys = []string{"status", "paymentStatus", "page", "limit"}
)

// queryReader collects the first parse failure so handlers check once.
type queryReader struct {
	values url.Values
	err    error
}

func newQueryReader(values url.Values, allowed []string) *queryReader {
	q := &queryReader{values: values}
	known := make(map[string]bool, len(allowed))
	for _, key := range allowed {
		known[key] = true
	}
	for key := range values {
		if !known[key] {
			q.err = apperr.Validation(fmt.Sprintf("unknown query parameter %q", key))
			break
		}
	}
	return q
}

func (q *queryReader) fail(key, want string) {
	if q.err == nil {
		q.err = apperr.Validation(fmt.Sprintf("query parameter %q must be %s", key, want))
	}
}

func (q *queryReader) String(key string) string {
	return strings.TrimSpace(q.values.Get(key))
}

func (q *queryReader) Int(key string) int {
	raw := q.String(key)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		q.fail(key, "an integer")
	}
	return n
}

func (q *queryReader) IntPtr(key string) *int {
	if q.String(key) == "" {
		return nil
	}
	n := q.Int(key)
	return &n
}

func (q *queryReader) FloatPtr(key string) *float64 {
	raw := q.String(key)
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		q.fail(key, "a number")
		return nil
	}
	return &f
}

func (q *queryReader) BoolPtr(key string) *bool {
	raw := q.String(key)
	if raw == "" {
		return nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		q.fail(key, "true or false")
		return nil
	}
	return &b
}

func (q *queryReader) Pagination() entity.Pagination {
	return entity.Pagination{Page: q.Int("page"), Limit: q.Int("limit")}
}

func parseVehicleFilter(values url.Values) (entity.VehicleFilter, error) {
	q := newQueryReader(values, vehicleKeys)
	filter := entity.VehicleFilter{
		Brand:       q.String("brand"),
		Model:       q.String("model"),
		Color:       q.String("color"),
		Engine:      q.String("engine"),
		Gearbox:     q.String("gearbox"),
		CategoryID:  q.String("category"),
		IsAvailable: q.BoolPtr("isAvailable"),
		MinPrice:    q.FloatPtr("minPrice"),
		MaxPrice:    q.FloatPtr("maxPrice"),
		MinYear:     q.IntPtr("minYear"),
		MaxYear:     q.IntPtr("maxYear"),
		SortBy:      q.String("sortBy"),
		SortOrder:   entity.SortOrder(q.String("sortOrder")),
		Pagination:  q.Pagination(),
	}
	return filter, q.err
}

func parseCategoryQuery(values url.Values) (activeOnly bool, page entity.Pagination, err error) {
	q := newQueryReader(values, categoryKeys)
	active := q.BoolPtr("isActive")
	return active != nil && *active, q.Pagination(), q.err
}

func parseMyOrdersQuery(values url.Values) (entity.OrderStatus, entity.Pagination, error) {
	q := newQueryReader(values, myOrderKeys)
	return entity.OrderStatus(q.String("status")), q.Pagination(), q.err
}

func parseAdminOrderFilter(values url.Values) (entity.OrderFilter, error) {
	q := newQueryReader(values, adminOrderKeys)
	return entity.OrderFilter{
		Status:        entity.OrderStatus(q.String("status")),
		PaymentStatus: entity.PaymentStatus(q.String("paymentStatus")),
		Pagination:    q.Pagination(),
	}, q.err
}
