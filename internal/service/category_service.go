package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/apperr"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/repository"
)

type CategoryInput struct {
	Name        string `validate:"min=2,max=50"`
	Description string `validate:"max=500"`
	Image       string
	IsActive    *bool
}

type CategoryPage struct {
	Categories []entity.Category `json:"categories"`
	Meta       *entity.PageMeta  `json:"pagination,omitempty"`
}

type CategoryService struct {
	categoryRepo repository.CategoryRepository
	vehicleRepo  repository.VehicleRepository
	clock        Clock
	log          logger.Logger
}

func NewCategoryService(categoryRepo repository.CategoryRepository, vehicleRepo repository.VehicleRepository, clock Clock, log logger.Logger) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		vehicleRepo:  vehicleRepo,
		clock:        clock,
		log:          log.Named("CategoryService"),
	}
}

func mapCategoryError(err error) error {
	if errors.Is(err, repository.ErrAlreadyExists) {
		return apperr.ErrCategoryExists
	}
	return notFoundAs(err, apperr.ErrCategoryNotFound)
}

// withCounts fills CarCount on every category in place.
func (s *CategoryService) withCounts(ctx context.Context, categories []entity.Category) error {
	if len(categories) == 0 {
		return nil
	}
	ids := make([]string, 0, len(categories))
	for _, c := range categories {
		ids = append(ids, c.ID)
	}
	counts, err := s.vehicleRepo.CountByCategory(ctx, ids)
	if err != nil {
		return fmt.Errorf("could not count category vehicles: %w", err)
	}
	for i := range categories {
		categories[i].CarCount = counts[categories[i].ID]
	}
	return nil
}

// List returns categories sorted by name. A zero page limit returns all of them.
func (s *CategoryService) List(ctx context.Context, activeOnly bool, page entity.Pagination) (*CategoryPage, error) {
	paged := page.Page != 0 || page.Limit != 0
	if paged {
		if err := page.Normalize(); err != nil {
			return nil, apperr.Validation(err.Error())
		}
	}

	categories, total, err := s.categoryRepo.List(ctx, entity.CategoryFilter{ActiveOnly: activeOnly, Pagination: page})
	if err != nil {
		s.log.Errorf("Failed to list categories: %v", err)
		return nil, fmt.Errorf("could not list categories: %w", err)
	}
	if err := s.withCounts(ctx, categories); err != nil {
		return nil, err
	}

	result := &CategoryPage{Categories: categories}
	if paged {
		meta := entity.NewPageMeta(page, total)
		result.Meta = &meta
	}
	return result, nil
}

func (s *CategoryService) Get(ctx context.Context, categoryID string) (*entity.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, mapCategoryError(err)
	}
	list := []entity.Category{*category}
	if err := s.withCounts(ctx, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

func (s *CategoryService) Create(ctx context.Context, adminID string, in CategoryInput) (*entity.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	now := s.clock.Now()
	category := &entity.Category{
		Name:        in.Name,
		Description: in.Description,
		Image:       strings.TrimSpace(in.Image),
		IsActive:    in.IsActive == nil || *in.IsActive,
		CreatedBy:   adminID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	id, err := s.categoryRepo.Create(ctx, category)
	if err != nil {
		return nil, mapCategoryError(err)
	}
	category.ID = id
	s.log.Infof("Category %s (%s) created by admin %s", id, category.Name, adminID)
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, categoryID string, patch entity.CategoryPatch) (*entity.Category, error) {
	patch.Name = trimmed(patch.Name)
	if err := validateStruct(patch); err != nil {
		return nil, err
	}
	category, err := s.categoryRepo.Update(ctx, categoryID, patch)
	if err != nil {
		return nil, mapCategoryError(err)
	}
	s.log.Infof("Category %s updated", categoryID)
	return category, nil
}

// Delete refuses to remove a category that still has vehicles.
func (s *CategoryService) Delete(ctx context.Context, categoryID string) error {
	if _, err := s.categoryRepo.GetByID(ctx, categoryID); err != nil {
		return mapCategoryError(err)
	}
	counts, err := s.vehicleRepo.CountByCategory(ctx, []string{categoryID})
	if err != nil {
		return fmt.Errorf("could not count category vehicles: %w", err)
	}
	if n := counts[categoryID]; n > 0 {
		return apperr.WithMessage(apperr.ErrCategoryInUse, fmt.Sprintf("category still has %d vehicles", n))
	}
	if err := s.categoryRepo.Delete(ctx, categoryID); err != nil {
		return mapCategoryError(err)
	}
	s.log.Infof("Category %s deleted", categoryID)
	return nil
}

// Vehicles lists the vehicles of one category with the regular vehicle filter.
func (s *CategoryService) Vehicles(ctx context.Context, categoryID string, filter entity.VehicleFilter) (*entity.Category, *VehiclePage, error) {
	category, err := s.Get(ctx, categoryID)
	if err != nil {
		return nil, nil, err
	}
	filter.CategoryID = category.ID
	if err := filter.Normalize(); err != nil {
		return nil, nil, apperr.Validation(err.Error())
	}
	result, err := s.vehicleRepo.List(ctx, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("could not list category vehicles: %w", err)
	}
	return category, &VehiclePage{
		Vehicles: result.Vehicles,
		Meta:     entity.NewPageMeta(filter.Pagination, result.TotalCount),
	}, nil
}
