package repository

import (
	"context"
	"time"

	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/entity"
)

type UserCountFilter struct {
	Role         entity.Role
	Verified     *bool
	CreatedSince *time.Time
}

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) (string, error)
	GetByID(ctx context.Context, userID string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// GetAdminByIdentifier matches an admin by email or username.
	GetAdminByIdentifier(ctx context.Context, identifier string) (*entity.User, error)
	// UpdateProfile writes only the fields set in patch and returns the stored user.
	UpdateProfile(ctx context.Context, userID string, patch entity.ProfilePatch) (*entity.User, error)
	// SaveVerificationState persists the verification flag, the pending code and
	// the password reset token of user. No other field is written.
	SaveVerificationState(ctx context.Context, user *entity.User) error
	// StartSession stores a new refresh token and stamps the login time.
	StartSession(ctx context.Context, userID, refreshToken string, at time.Time) error
	SetLastLogin(ctx context.Context, userID string, at time.Time) error
	// SetPassword replaces the hash and revokes the refresh token. With
	// clearReset the pending code and reset token are dropped as well.
	SetPassword(ctx context.Context, userID, hash string, clearReset bool) error
	// SetRefreshToken overwrites (or clears, when token is empty) the stored refresh token.
	SetRefreshToken(ctx context.Context, userID, token string) error
	ListByRole(ctx context.Context, role entity.Role) ([]entity.User, error)
	Count(ctx context.Context, filter UserCountFilter) (int64, error)
}
