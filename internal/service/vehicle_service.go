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

const (
	minVehicleYear = 1990
	maxImageFiles  = 5
)

// Image slots a vehicle exposes.
const (
	SlotExterior  = "exterior"
	SlotInterior  = "interior"
	SlotModelType = "modelType"
)

type VehicleInput struct {
	Brand       string         `validate:"min=2,max=50"`
	Model       string         `validate:"min=1,max=50"`
	Year        int            `validate:"gte=1990"`
	Price       float64        `validate:"gt=0"`
	Engine      string         `validate:"min=2,max=50"`
	Color       string         `validate:"min=2,max=30"`
	Distance    int            `validate:"gte=0"`
	Gearbox     entity.Gearbox `validate:"required,gearbox"`
	Tinting     string         `validate:"required,tinting"`
	Description string         `validate:"max=1000"`
	CategoryID  string         `json:"category" validate:"required"`
	IsAvailable *bool
}

func (in VehicleInput) trimmed() VehicleInput {
	in.Brand = strings.TrimSpace(in.Brand)
	in.Model = strings.TrimSpace(in.Model)
	in.Engine = strings.TrimSpace(in.Engine)
	in.Color = strings.TrimSpace(in.Color)
	in.Description = strings.TrimSpace(in.Description)
	in.CategoryID = strings.TrimSpace(in.CategoryID)
	return in
}

// BulkVehicleUpdate lists the only fields a bulk update may touch.
type BulkVehicleUpdate struct {
	IsAvailable *bool
	Price       *float64 `validate:"omitempty,gt=0"`
	CategoryID  *string  `json:"category"`
}

type VehiclePage struct {
	Vehicles []entity.Vehicle `json:"cars"`
	Meta     entity.PageMeta  `json:"pagination"`
}

type VehicleService struct {
	vehicleRepo  repository.VehicleRepository
	categoryRepo repository.CategoryRepository
	bookmarkRepo repository.BookmarkRepository
	vehicles     *VehicleReader
	storage      ImageStorage
	clock        Clock
	log          logger.Logger
}

func NewVehicleService(
	vehicleRepo repository.VehicleRepository,
	categoryRepo repository.CategoryRepository,
	bookmarkRepo repository.BookmarkRepository,
	vehicles *VehicleReader,
	storage ImageStorage,
	clock Clock,
	log logger.Logger,
) *VehicleService {
	return &VehicleService{
		vehicleRepo:  vehicleRepo,
		categoryRepo: categoryRepo,
		bookmarkRepo: bookmarkRepo,
		vehicles:     vehicles,
		storage:      storage,
		clock:        clock,
		log:          log.Named("VehicleService"),
	}
}

// validateYear enforces the upper bound, which moves with the clock.
func (s *VehicleService) validateYear(year *int) error {
	if year == nil {
		return nil
	}
	return validateValue("year", *year, fmt.Sprintf("lte=%d", s.clock.Now().Year()+1))
}

func (s *VehicleService) validateInput(in VehicleInput) error {
	if err := validateStruct(in); err != nil {
		return err
	}
	return s.validateYear(&in.Year)
}

func (s *VehicleService) validatePatch(patch entity.VehiclePatch) error {
	if err := validateStruct(patch); err != nil {
		return err
	}
	return s.validateYear(patch.Year)
}

func (s *VehicleService) ensureCategory(ctx context.Context, categoryID string) error {
	if _, err := s.categoryRepo.GetByID(ctx, categoryID); err != nil {
		return notFoundAs(err, apperr.ErrCategoryNotFound)
	}
	return nil
}

func (s *VehicleService) List(ctx context.Context, filter entity.VehicleFilter) (*VehiclePage, error) {
	if err := filter.Normalize(); err != nil {
		return nil, apperr.Validation(err.Error())
	}
	result, err := s.vehicleRepo.List(ctx, filter)
	if err != nil {
		s.log.Errorf("Failed to list vehicles: %v", err)
		return nil, fmt.Errorf("could not list vehicles: %w", err)
	}
	return &VehiclePage{
		Vehicles: result.Vehicles,
		Meta:     entity.NewPageMeta(filter.Pagination, result.TotalCount),
	}, nil
}

func (s *VehicleService) Get(ctx context.Context, vehicleID string) (*entity.Vehicle, error) {
	return s.vehicles.Get(ctx, vehicleID)
}

func (s *VehicleService) Create(ctx context.Context, adminID string, in VehicleInput) (*entity.Vehicle, error) {
	in = in.trimmed()
	if err := s.validateInput(in); err != nil {
		return nil, err
	}
	if err := s.ensureCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	vehicle := &entity.Vehicle{
		Brand:       in.Brand,
		Model:       in.Model,
		Year:        in.Year,
		Price:       in.Price,
		Engine:      in.Engine,
		Color:       in.Color,
		Distance:    in.Distance,
		Gearbox:     in.Gearbox,
		Tinting:     in.Tinting,
		Description: in.Description,
		CategoryID:  in.CategoryID,
		IsAvailable: in.IsAvailable == nil || *in.IsAvailable,
		CreatedBy:   adminID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	id, err := s.vehicleRepo.Create(ctx, vehicle)
	if err != nil {
		s.log.Errorf("Failed to create vehicle %s: %v", vehicle.DisplayName(), err)
		return nil, fmt.Errorf("could not create vehicle: %w", err)
	}
	vehicle.ID = id
	s.log.Infof("Vehicle %s (%s) created by admin %s", id, vehicle.DisplayName(), adminID)
	return vehicle, nil
}

func (s *VehicleService) Update(ctx context.Context, vehicleID string, patch entity.VehiclePatch) (*entity.Vehicle, error) {
	if err := s.validatePatch(patch); err != nil {
		return nil, err
	}
	if patch.CategoryID != nil {
		if err := s.ensureCategory(ctx, *patch.CategoryID); err != nil {
			return nil, err
		}
	}
	vehicle, err := s.vehicleRepo.Update(ctx, vehicleID, patch)
	if err != nil {
		return nil, notFoundAs(err, apperr.ErrVehicleNotFound)
	}
	s.vehicles.Invalidate(ctx, vehicleID)
	s.log.Infof("Vehicle %s updated", vehicleID)
	return vehicle, nil
}

// Delete removes the vehicle, its bookmarks and its images. Only the
// vehicle removal itself can fail the call.
func (s *VehicleService) Delete(ctx context.Context, vehicleID string) error {
	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return notFoundAs(err, apperr.ErrVehicleNotFound)
	}
	if err := s.vehicleRepo.Delete(ctx, vehicleID); err != nil {
		return notFoundAs(err, apperr.ErrVehicleNotFound)
	}
	s.vehicles.Invalidate(ctx, vehicleID)
	s.log.Infof("Vehicle %s deleted", vehicleID)

	if err := s.bookmarkRepo.DeleteByVehicles(ctx, []string{vehicleID}); err != nil {
		s.log.Warnf("Failed to remove bookmarks of vehicle %s: %v", vehicleID, err)
	}
	s.deleteImages(ctx, vehicle.Images)
	return nil
}

func (s *VehicleService) deleteImages(ctx context.Context, images entity.VehicleImages) {
	if s.storage == nil {
		return
	}
	for _, url := range []string{images.Exterior, images.Interior, images.ModelType} {
		if url == "" {
			continue
		}
		if err := s.storage.Delete(ctx, url); err != nil {
			s.log.Warnf("Failed to delete image %s: %v", url, err)
		}
	}
}

func validateIDs(ids []string) error {
	return validateValue("carIds", ids, "min=1,dive,required")
}

func (s *VehicleService) BulkUpdate(ctx context.Context, vehicleIDs []string, upd BulkVehicleUpdate) (int64, error) {
	if err := validateIDs(vehicleIDs); err != nil {
		return 0, err
	}
	if upd.IsAvailable == nil && upd.Price == nil && upd.CategoryID == nil {
		return 0, apperr.Validation("nothing to update: provide isAvailable, price or category")
	}
	if err := validateStruct(upd); err != nil {
		return 0, err
	}
	if upd.CategoryID != nil {
		if err := s.ensureCategory(ctx, *upd.CategoryID); err != nil {
			return 0, err
		}
	}

	modified, err := s.vehicleRepo.BulkUpdate(ctx, vehicleIDs, entity.VehiclePatch{
		IsAvailable: upd.IsAvailable,
		Price:       upd.Price,
		CategoryID:  upd.CategoryID,
	})
	if err != nil {
		s.log.Errorf("Bulk update of %d vehicles failed: %v", len(vehicleIDs), err)
		return 0, fmt.Errorf("could not update vehicles: %w", err)
	}
	s.vehicles.Invalidate(ctx, vehicleIDs...)
	s.log.Infof("Bulk update modified %d of %d vehicles", modified, len(vehicleIDs))
	return modified, nil
}

func (s *VehicleService) BulkDelete(ctx context.Context, vehicleIDs []string) (int64, error) {
	if err := validateIDs(vehicleIDs); err != nil {
		return 0, err
	}
	existing, err := s.vehicleRepo.GetByIDs(ctx, vehicleIDs)
	if err != nil {
		return 0, fmt.Errorf("could not load vehicles: %w", err)
	}

	deleted, err := s.vehicleRepo.BulkDelete(ctx, vehicleIDs)
	if err != nil {
		s.log.Errorf("Bulk delete of %d vehicles failed: %v", len(vehicleIDs), err)
		return 0, fmt.Errorf("could not delete vehicles: %w", err)
	}
	s.vehicles.Invalidate(ctx, vehicleIDs...)
	s.log.Infof("Bulk delete removed %d of %d vehicles", deleted, len(vehicleIDs))

	if err := s.bookmarkRepo.DeleteByVehicles(ctx, vehicleIDs); err != nil {
		s.log.Warnf("Failed to remove bookmarks of deleted vehicles: %v", err)
	}
	for _, v := range existing {
		s.deleteImages(ctx, v.Images)
	}
	return deleted, nil
}

// UploadImages stores the given files into the named image slots and
// replaces the previous image of every slot that was filled.
func (s *VehicleService) UploadImages(ctx context.Context, vehicleID string, files map[string][]byte) (*entity.Vehicle, error) {
	if s.storage == nil {
		return nil, apperr.New(apperr.KindInternal, "storage_disabled", "image storage is not configured")
	}
	if len(files) == 0 {
		return nil, apperr.Validation("at least one image is required")
	}
	if len(files) > maxImageFiles {
		return nil, apperr.Validation(fmt.Sprintf("at most %d images can be uploaded at once", maxImageFiles))
	}
	for slot := range files {
		if slot != SlotExterior && slot != SlotInterior && slot != SlotModelType {
			return nil, apperr.Validation(fmt.Sprintf("unknown image slot %q", slot))
		}
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, notFoundAs(err, apperr.ErrVehicleNotFound)
	}

	images := vehicle.Images
	var replaced []string
	for slot, data := range files {
		url, err := s.storage.Upload(ctx, "vehicles/"+vehicleID, data)
		if err != nil {
			s.log.Warnf("Image upload for vehicle %s slot %s failed: %v", vehicleID, slot, err)
			return nil, err
		}
		switch slot {
		case SlotExterior:
			replaced = append(replaced, images.Exterior)
			images.Exterior = url
		case SlotInterior:
			replaced = append(replaced, images.Interior)
			images.Interior = url
		case SlotModelType:
			replaced = append(replaced, images.ModelType)
			images.ModelType = url
		}
	}

	updated, err := s.vehicleRepo.Update(ctx, vehicleID, entity.VehiclePatch{Images: &images})
	if err != nil {
		return nil, notFoundAs(err, apperr.ErrVehicleNotFound)
	}
	s.vehicles.Invalidate(ctx, vehicleID)
	for _, old := range replaced {
		if old == "" {
			continue
		}
		if err := s.storage.Delete(ctx, old); err != nil {
			s.log.Warnf("Failed to delete replaced image %s: %v", old, err)
		}
	}
	s.log.Infof("Uploaded %d images for vehicle %s", len(files), vehicleID)
	return updated, nil
}
