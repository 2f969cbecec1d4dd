package service

import (
	"context"
	"errors"
	"time"

	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/apperr"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/repository"
)

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock reads the wall clock in UTC.
func SystemClock() Clock { return systemClock{} }

// Notifier delivers transactional emails.
type Notifier interface {
	SendVerificationCode(ctx context.Context, to, name, code string) error
	SendPasswordReset(ctx context.Context, to, name, code string) error
	SendOrderConfirmation(ctx context.Context, to string, order *entity.Order) error
	SendOrderStatusUpdate(ctx context.Context, to string, order *entity.Order) error
}

// ImageStorage persists uploaded images and returns their public URLs.
type ImageStorage interface {
	Upload(ctx context.Context, prefix string, data []byte) (string, error)
	Delete(ctx context.Context, url string) error
}

// notFoundAs maps repository.ErrNotFound to the given domain error and
// leaves every other error untouched.
func notFoundAs(err error, sentinel *apperr.Error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return sentinel
	}
	return err
}
