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

// ProfileUpdate carries the profile fields a user may change; nil means unchanged.
type ProfileUpdate struct {
	Name     *string `validate:"omitempty,min=2,max=50"`
	Phone    *string `validate:"omitempty,phone"`
	Username *string `validate:"omitempty,username"`
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	return &v
}

type ProfileService struct {
	users   repository.UserRepository
	storage ImageStorage
	log     logger.Logger
}

func NewProfileService(users repository.UserRepository, storage ImageStorage, log logger.Logger) *ProfileService {
	return &ProfileService{
		users:   users,
		storage: storage,
		log:     log.Named("ProfileService"),
	}
}

func (s *ProfileService) getUser(ctx context.Context, userID string) (*entity.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, apperr.ErrUserNotFound)
	}
	return user, nil
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*entity.PublicUser, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	public := user.Public()
	return &public, nil
}

// Update writes only the supplied fields, so it never touches the
// credentials or the session of the user.
func (s *ProfileService) Update(ctx context.Context, userID string, upd ProfileUpdate) (*entity.PublicUser, error) {
	upd = ProfileUpdate{Name: trimmed(upd.Name), Phone: trimmed(upd.Phone), Username: trimmed(upd.Username)}
	if err := validateStruct(upd); err != nil {
		return nil, err
	}

	user, err := s.users.UpdateProfile(ctx, userID, entity.ProfilePatch{
		Name:     upd.Name,
		Phone:    upd.Phone,
		Username: upd.Username,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, apperr.ErrUsernameTaken
		}
		return nil, notFoundAs(err, apperr.ErrUserNotFound)
	}
	s.log.Infof("Profile of user %s updated", userID)
	public := user.Public()
	return &public, nil
}

// UploadImage replaces the profile image. The previous image is removed
// from storage on a best-effort basis.
func (s *ProfileService) UploadImage(ctx context.Context, userID string, data []byte) (*entity.PublicUser, error) {
	if s.storage == nil {
		return nil, apperr.New(apperr.KindInternal, "storage_disabled", "image storage is not configured")
	}
	current, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	url, err := s.storage.Upload(ctx, "profiles/"+userID, data)
	if err != nil {
		s.log.Warnf("Profile image upload for user %s failed: %v", userID, err)
		return nil, err
	}
	user, err := s.users.UpdateProfile(ctx, userID, entity.ProfilePatch{ProfileImage: &url})
	if err != nil {
		return nil, fmt.Errorf("could not save profile image: %w", notFoundAs(err, apperr.ErrUserNotFound))
	}
	if previous := current.ProfileImage; previous != "" && previous != url {
		if err := s.storage.Delete(ctx, previous); err != nil {
			s.log.Warnf("Failed to delete previous profile image %s: %v", previous, err)
		}
	}
	s.log.Infof("Profile image of user %s updated", userID)
	public := user.Public()
	return &public, nil
}
