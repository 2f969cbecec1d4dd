package service

import (
	"context"
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/apperr"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type catalogFixture struct {
	vehicles   *VehicleService
	categories *CategoryService
	bookmarks  *BookmarkService
	vehicleDB  *memVehicleRepo
	bookmarkDB *memBookmarkRepo
	storage    *MockImageStorage
}

func newCatalogFixture(vehicles ...entity.Vehicle) *catalogFixture {
	log := logger.NewNop()
	clock := newFakeClock()
	f := &catalogFixture{
		vehicleDB:  newMemVehicleRepo(vehicles...),
		bookmarkDB: &memBookmarkRepo{},
		storage:    new(MockImageStorage),
	}
	categoryDB := newMemCategoryRepo(
		entity.Category{ID: "cat1", Name: "Sedan", IsActive: true},
		entity.Category{ID: "cat2", Name: "SUV", IsActive: false},
	)
	reader := NewVehicleReader(f.vehicleDB, nil, time.Minute, log)
	f.vehicles = NewVehicleService(f.vehicleDB, categoryDB, f.bookmarkDB, reader, f.storage, clock, log)
	f.categories = NewCategoryService(categoryDB, f.vehicleDB, clock, log)
	f.bookmarks = NewBookmarkService(f.bookmarkDB, reader, clock, log)
	return f
}

func validVehicleInput() VehicleInput {
	return VehicleInput{
		Brand:      "Chevrolet",
		Model:      "Cobalt",
		Year:       2024,
		Price:      14500,
		Engine:     "1.5L",
		Color:      "White",
		Distance:   0,
		Gearbox:    entity.GearboxAutomatic,
		Tinting:    entity.TintingYes,
		CategoryID: "cat1",
	}
}

func TestVehicleService_Create(t *testing.T) {
	f := newCatalogFixture()

	vehicle, err := f.vehicles.Create(context.Background(), "admin1", validVehicleInput())

	require.NoError(t, err)
	assert.NotEmpty(t, vehicle.ID)
	assert.True(t, vehicle.IsAvailable)
	assert.Equal(t, "admin1", vehicle.CreatedBy)
	assert.Equal(t, vehicle.Price, f.vehicleDB.stored(vehicle.ID).Price)
}

func TestVehicleService_Create_Validation(t *testing.T) {
	f := newCatalogFixture()
	mutations := map[string]func(*VehicleInput){
		"old year":     func(in *VehicleInput) { in.Year = 1989 },
		"future year":  func(in *VehicleInput) { in.Year = 2027 },
		"zero price":   func(in *VehicleInput) { in.Price = 0 },
		"short brand":  func(in *VehicleInput) { in.Brand = "C" },
		"gearbox":      func(in *VehicleInput) { in.Gearbox = "DSG" },
		"tinting":      func(in *VehicleInput) { in.Tinting = "maybe" },
		"distance":     func(in *VehicleInput) { in.Distance = -1 },
		"no category":  func(in *VehicleInput) { in.CategoryID = "" },
		"short colour": func(in *VehicleInput) { in.Color = "W" },
	}
	for name, mutate := range mutations {
		in := validVehicleInput()
		mutate(&in)
		_, err := f.vehicles.Create(context.Background(), "admin1", in)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err), name)
	}

	in := validVehicleInput()
	in.Year = 2026
	_, err := f.vehicles.Create(context.Background(), "admin1", in)
	assert.NoError(t, err)

	in.CategoryID = "missing"
	_, err = f.vehicles.Create(context.Background(), "admin1", in)
	assert.ErrorIs(t, err, apperr.ErrCategoryNotFound)
}

func TestVehicleService_List_RejectsBadFilter(t *testing.T) {
	f := newCatalogFixture(testVehicle("v1", 100, true), testVehicle("v2", 200, false))

	_, err := f.vehicles.List(context.Background(), entity.VehicleFilter{SortBy: "password"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	available := true
	page, err := f.vehicles.List(context.Background(), entity.VehicleFilter{IsAvailable: &available})
	require.NoError(t, err)
	assert.Len(t, page.Vehicles, 1)
	assert.Equal(t, int64(1), page.Meta.TotalItems)
}

func TestVehicleService_Update(t *testing.T) {
	f := newCatalogFixture(testVehicle("v1", 100, true))

	price := 120.0
	updated, err := f.vehicles.Update(context.Background(), "v1", entity.VehiclePatch{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 120.0, updated.Price)

	badPrice := -5.0
	_, err = f.vehicles.Update(context.Background(), "v1", entity.VehiclePatch{Price: &badPrice})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	missingCategory := "nope"
	_, err = f.vehicles.Update(context.Background(), "v1", entity.VehiclePatch{CategoryID: &missingCategory})
	assert.ErrorIs(t, err, apperr.ErrCategoryNotFound)

	_, err = f.vehicles.Update(context.Background(), "missing", entity.VehiclePatch{Price: &price})
	assert.ErrorIs(t, err, apperr.ErrVehicleNotFound)
}

func TestVehicleService_Delete_RemovesBookmarksAndImages(t *testing.T) {
	vehicle := testVehicle("v1", 100, true)
	vehicle.Images.Exterior = "http://minio/bucket/vehicles/v1/a.jpg"
	f := newCatalogFixture(vehicle)
	_, err := f.bookmarks.Toggle(context.Background(), "u1", "v1")
	require.NoError(t, err)
	f.storage.On("Delete", mock.Anything, vehicle.Images.Exterior).Return(nil).Once()

	require.NoError(t, f.vehicles.Delete(context.Background(), "v1"))

	exists, err := f.bookmarks.Check(context.Background(), "u1", "v1")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.ErrorIs(t, f.vehicles.Delete(context.Background(), "v1"), apperr.ErrVehicleNotFound)
	f.storage.AssertExpectations(t)
}

func TestVehicleService_BulkUpdateAndDelete(t *testing.T) {
	f := newCatalogFixture(testVehicle("v1", 100, true), testVehicle("v2", 200, true))

	_, err := f.vehicles.BulkUpdate(context.Background(), nil, BulkVehicleUpdate{})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	_, err = f.vehicles.BulkUpdate(context.Background(), []string{"v1"}, BulkVehicleUpdate{})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	unavailable := false
	modified, err := f.vehicles.BulkUpdate(context.Background(), []string{"v1", "v2", "missing"}, BulkVehicleUpdate{IsAvailable: &unavailable})
	require.NoError(t, err)
	assert.Equal(t, int64(2), modified)
	assert.False(t, f.vehicleDB.stored("v2").IsAvailable)

	deleted, err := f.vehicles.BulkDelete(context.Background(), []string{"v1", "missing"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestVehicleService_UploadImages(t *testing.T) {
	vehicle := testVehicle("v1", 100, true)
	vehicle.Images.Exterior = "http://minio/bucket/old.jpg"
	f := newCatalogFixture(vehicle)
	data := []byte("\xff\xd8\xff\xe0 jpeg")
	f.storage.On("Upload", mock.Anything, "vehicles/v1", data).Return("http://minio/bucket/new.jpg", nil).Once()
	f.storage.On("Delete", mock.Anything, "http://minio/bucket/old.jpg").Return(nil).Once()

	updated, err := f.vehicles.UploadImages(context.Background(), "v1", map[string][]byte{SlotExterior: data})

	require.NoError(t, err)
	assert.Equal(t, "http://minio/bucket/new.jpg", updated.Images.Exterior)
	f.storage.AssertExpectations(t)

	_, err = f.vehicles.UploadImages(context.Background(), "v1", map[string][]byte{"roof": data})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	f.storage.On("Upload", mock.Anything, "vehicles/v1", []byte("text")).Return("", apperr.ErrUnsupportedImage).Once()
	_, err = f.vehicles.UploadImages(context.Background(), "v1", map[string][]byte{SlotInterior: []byte("text")})
	assert.ErrorIs(t, err, apperr.ErrUnsupportedImage)
}

func TestCategoryService_ListWithCounts(t *testing.T) {
	f := newCatalogFixture(testVehicle("v1", 100, true), testVehicle("v2", 200, true))

	all, err := f.categories.List(context.Background(), false, entity.Pagination{})
	require.NoError(t, err)
	require.Len(t, all.Categories, 2)
	assert.Nil(t, all.Meta)
	assert.Equal(t, "SUV", all.Categories[0].Name)
	assert.Equal(t, int64(0), all.Categories[0].CarCount)
	assert.Equal(t, int64(2), all.Categories[1].CarCount)

	active, err := f.categories.List(context.Background(), true, entity.Pagination{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, active.Categories, 1)
	require.NotNil(t, active.Meta)
}

func TestCategoryService_CreateUpdateDelete(t *testing.T) {
	f := newCatalogFixture(testVehicle("v1", 100, true))

	created, err := f.categories.Create(context.Background(), "admin1", CategoryInput{Name: " Coupe "})
	require.NoError(t, err)
	assert.Equal(t, "Coupe", created.Name)
	assert.True(t, created.IsActive)

	_, err = f.categories.Create(context.Background(), "admin1", CategoryInput{Name: "coupe"})
	assert.ErrorIs(t, err, apperr.ErrCategoryExists)
	_, err = f.categories.Create(context.Background(), "admin1", CategoryInput{Name: "C"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	name := "Sports Coupe"
	updated, err := f.categories.Update(context.Background(), created.ID, entity.CategoryPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)

	assert.ErrorIs(t, f.categories.Delete(context.Background(), "cat1"), apperr.ErrCategoryInUse)
	require.NoError(t, f.categories.Delete(context.Background(), created.ID))
	_, err = f.categories.Get(context.Background(), created.ID)
	assert.ErrorIs(t, err, apperr.ErrCategoryNotFound)
}

func TestCategoryService_Vehicles(t *testing.T) {
	other := testVehicle("v2", 100, true)
	other.CategoryID = "cat2"
	f := newCatalogFixture(testVehicle("v1", 100, true), other)

	category, page, err := f.categories.Vehicles(context.Background(), "cat1", entity.VehicleFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), category.CarCount)
	require.Len(t, page.Vehicles, 1)
	assert.Equal(t, "v1", page.Vehicles[0].ID)

	_, _, err = f.categories.Vehicles(context.Background(), "missing", entity.VehicleFilter{})
	assert.ErrorIs(t, err, apperr.ErrCategoryNotFound)
}

func TestBookmarkService_Toggle(t *testing.T) {
	f := newCatalogFixture(testVehicle("v1", 100, true))

	added, err := f.bookmarks.Toggle(context.Background(), "u1", "v1")
	require.NoError(t, err)
	assert.True(t, added)

	list, err := f.bookmarks.List(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "v1", list[0].Vehicle.ID)

	added, err = f.bookmarks.Toggle(context.Background(), "u1", "v1")
	require.NoError(t, err)
	assert.False(t, added)

	_, err = f.bookmarks.Toggle(context.Background(), "u1", "missing")
	assert.ErrorIs(t, err, apperr.ErrVehicleNotFound)
}

func TestBookmarkService_Remove(t *testing.T) {
	f := newCatalogFixture(testVehicle("v1", 100, true))
	_, err := f.bookmarks.Toggle(context.Background(), "u1", "v1")
	require.NoError(t, err)

	require.NoError(t, f.bookmarks.Remove(context.Background(), "u1", "v1"))
	assert.ErrorIs(t, f.bookmarks.Remove(context.Background(), "u1", "v1"), apperr.ErrBookmarkNotFound)
}
