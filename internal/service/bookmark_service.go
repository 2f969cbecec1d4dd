package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/apperr"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/repository"
)

// BookmarkView is a bookmark joined with the current vehicle data.
type BookmarkView struct {
	ID        string                 `json:"id"`
	Vehicle   *entity.VehicleSummary `json:"car"`
	CreatedAt time.Time              `json:"createdAt"`
}

type BookmarkService struct {
	bookmarkRepo repository.BookmarkRepository
	vehicles     *VehicleReader
	clock        Clock
	log          logger.Logger
}

func NewBookmarkService(bookmarkRepo repository.BookmarkRepository, vehicles *VehicleReader, clock Clock, log logger.Logger) *BookmarkService {
	return &BookmarkService{
		bookmarkRepo: bookmarkRepo,
		vehicles:     vehicles,
		clock:        clock,
		log:          log.Named("BookmarkService"),
	}
}

// Toggle adds the bookmark when absent and removes it otherwise. It reports
// whether the vehicle is bookmarked afterwards.
func (s *BookmarkService) Toggle(ctx context.Context, userID, vehicleID string) (bool, error) {
	if _, err := s.vehicles.Get(ctx, vehicleID); err != nil {
		return false, err
	}

	err := s.bookmarkRepo.Remove(ctx, userID, vehicleID)
	if err == nil {
		s.log.Infof("Bookmark of vehicle %s removed for user %s", vehicleID, userID)
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, fmt.Errorf("could not toggle bookmark: %w", err)
	}

	err = s.bookmarkRepo.Add(ctx, &entity.Bookmark{UserID: userID, VehicleID: vehicleID, CreatedAt: s.clock.Now()})
	if err != nil && !errors.Is(err, repository.ErrAlreadyExists) {
		return false, fmt.Errorf("could not toggle bookmark: %w", err)
	}
	s.log.Infof("Vehicle %s bookmarked by user %s", vehicleID, userID)
	return true, nil
}

// List returns the user's bookmarks, newest first. Bookmarks of deleted
// vehicles are left out.
func (s *BookmarkService) List(ctx context.Context, userID string) ([]BookmarkView, error) {
	bookmarks, err := s.bookmarkRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("could not list bookmarks: %w", err)
	}
	ids := make([]string, 0, len(bookmarks))
	for _, b := range bookmarks {
		ids = append(ids, b.VehicleID)
	}
	vehicles, err := s.vehicles.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("could not load bookmarked vehicles: %w", err)
	}

	views := make([]BookmarkView, 0, len(bookmarks))
	for _, b := range bookmarks {
		v, ok := vehicles[b.VehicleID]
		if !ok {
			continue
		}
		views = append(views, BookmarkView{
			ID:        b.ID,
			Vehicle:   v.Summary(),
			CreatedAt: b.CreatedAt,
		})
	}
	return views, nil
}

func (s *BookmarkService) Check(ctx context.Context, userID, vehicleID string) (bool, error) {
	exists, err := s.bookmarkRepo.Exists(ctx, userID, vehicleID)
	if err != nil {
		return false, fmt.Errorf("could not check bookmark: %w", err)
	}
	return exists, nil
}

func (s *BookmarkService) Remove(ctx context.Context, userID, vehicleID string) error {
	if err := s.bookmarkRepo.Remove(ctx, userID, vehicleID); err != nil {
		return notFoundAs(err, apperr.ErrBookmarkNotFound)
	}
	s.log.Infof("Bookmark of vehicle %s removed for user %s", vehicleID, userID)
	return nil
}
