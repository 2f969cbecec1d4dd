package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/adapter/nats"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/apperr"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/platform/metrics"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/repository"
)

const resetTokenBytes = 32

type RegisterInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"min=6"`
	Name     string `validate:"min=2,max=50"`
	Phone    string `validate:"phone"`
}

// AuthResult is a freshly issued session for a user.
type AuthResult struct {
	User         entity.PublicUser
	AccessToken  string
	RefreshToken string
}

type AdminAuthResult struct {
	User       entity.PublicUser
	AdminToken string
}

type AuthServiceConfig struct {
	ResetTokenTTL  time.Duration
	DeliverTimeout time.Duration
}

type AuthService struct {
	users     repository.UserRepository
	tokens    *TokenService
	codes     *CodeIssuer
	hasher    PasswordHasher
	notifier  Notifier
	publisher nats.MessagePublisher
	metrics   *metrics.MetricsManager
	clock     Clock
	log       logger.Logger
	cfg       AuthServiceConfig
}

func NewAuthService(
	users repository.UserRepository,
	tokens *TokenService,
	codes *CodeIssuer,
	hasher PasswordHasher,
	notifier Notifier,
	publisher nats.MessagePublisher,
	metricsManager *metrics.MetricsManager,
	clock Clock,
	log logger.Logger,
	cfg AuthServiceConfig,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		codes:     codes,
		hasher:    hasher,
		notifier:  notifier,
		publisher: publisher,
		metrics:   metricsManager,
		clock:     clock,
		log:       log.Named("AuthService"),
		cfg:       cfg,
	}
}

func (s *AuthService) deliveryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.DeliverTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.DeliverTimeout)
}

func (s *AuthService) getByEmail(ctx context.Context, email string) (*entity.User, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, notFoundAs(err, apperr.ErrUserNotFound)
	}
	return user, nil
}

// Register stores an unverified user and emails a verification code. A
// failed delivery leaves the user in place; the code can be resent.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*entity.PublicUser, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	email, name := in.Email, in.Name

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperr.ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("could not check email: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Phone:        in.Phone,
		Role:         entity.RoleUser,
	}
	code, err := s.codes.Generate(user)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperr.ErrEmailTaken
		}
		return nil, fmt.Errorf("could not create user: %w", err)
	}
	s.log.Infof("User registered: UserID=%s, Email=%s", user.ID, user.Email)
	s.metrics.IncUsersRegistered()

	event := nats.UserRegisteredEvent{UserID: user.ID, Email: user.Email, CreatedAt: user.CreatedAt}
	if err := s.publisher.Publish(ctx, nats.SubjectUserRegistered, event); err != nil {
		s.log.Warnf("Failed to publish %s for user %s: %v", nats.SubjectUserRegistered, user.ID, err)
	}

	deliverCtx, cancel := s.deliveryContext(ctx)
	defer cancel()
	if err := s.notifier.SendVerificationCode(deliverCtx, user.Email, user.Name, code); err != nil {
		s.log.Errorf("Verification email to %s failed, user %s left pending: %v", user.Email, user.ID, err)
		return nil, apperr.Wrap(apperr.ErrDeliveryFailed, err)
	}

	public := user.Public()
	return &public, nil
}

func (s *AuthService) issueSession(ctx context.Context, user *entity.User) (*AuthResult, error) {
	access, err := s.tokens.IssueAccessToken(user.ID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if err := s.users.StartSession(ctx, user.ID, refresh, now); err != nil {
		return nil, fmt.Errorf("could not store session: %w", err)
	}
	user.RefreshToken = refresh
	user.LastLogin = &now
	return &AuthResult{User: user.Public(), AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) VerifyCode(ctx context.Context, email, code string) (*AuthResult, error) {
	if err := validateCode(code); err != nil {
		return nil, err
	}
	user, err := s.getByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	hadCode := user.VerificationCode != nil
	if !s.codes.Consume(user, code) {
		if hadCode && user.VerificationCode == nil {
			if err := s.users.SaveVerificationState(ctx, user); err != nil {
				s.log.Warnf("Failed to clear expired code for user %s: %v", user.ID, err)
			}
		}
		s.log.Infof("Verification code rejected for user %s", user.ID)
		return nil, apperr.ErrInvalidCode
	}
	if err := s.users.SaveVerificationState(ctx, user); err != nil {
		return nil, fmt.Errorf("could not mark user verified: %w", err)
	}

	result, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}
	s.log.Infof("User verified: UserID=%s", user.ID)
	return result, nil
}

func (s *AuthService) SendCode(ctx context.Context, email string) error {
	user, err := s.getByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.IsVerified {
		return apperr.ErrAlreadyVerified
	}

	code, err := s.codes.Generate(user)
	if err != nil {
		return err
	}
	if err := s.users.SaveVerificationState(ctx, user); err != nil {
		return fmt.Errorf("could not store code: %w", err)
	}

	deliverCtx, cancel := s.deliveryContext(ctx)
	defer cancel()
	if err := s.notifier.SendVerificationCode(deliverCtx, user.Email, user.Name, code); err != nil {
		s.log.Errorf("Verification email to %s failed: %v", user.Email, err)
		return apperr.Wrap(apperr.ErrDeliveryFailed, err)
	}
	s.log.Infof("Verification code resent: UserID=%s", user.ID)
	return nil
}

// Login replaces the stored refresh token, which ends any other session.
func (s *AuthService) Login(ctx context.Context, email, password, ip string) (*AuthResult, error) {
	user, err := s.getByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrUserNotFound) {
			s.log.Warnw("Login failed: unknown email", "email", normalizeEmail(email), "ip", ip)
			s.metrics.IncFailedLogins()
		}
		return nil, err
	}
	if !s.hasher.Compare(user.PasswordHash, password) {
		s.log.Warnw("Login failed: bad password", "user_id", user.ID, "ip", ip)
		s.metrics.IncFailedLogins()
		return nil, apperr.ErrBadCredential
	}
	if !user.IsVerified {
		return nil, apperr.ErrNotVerified
	}

	result, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}
	s.log.Infow("User logged in", "user_id", user.ID, "ip", ip)
	return result, nil
}

// Refresh rotates the session. The presented token must equal the stored one.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	userID, err := s.tokens.Verify(refreshToken, TokenRefresh)
	if err != nil {
		if errors.Is(err, apperr.ErrExpiredToken) || errors.Is(err, apperr.ErrMissingToken) {
			return nil, apperr.ErrInvalidToken
		}
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, apperr.ErrInvalidToken)
	}
	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		s.log.Warnf("Refresh token reuse or stale session for user %s", userID)
		return nil, apperr.ErrInvalidToken
	}

	result, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}
	s.log.Infof("Session refreshed: UserID=%s", user.ID)
	return result, nil
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ForgotPassword emails a reset code. If delivery fails the previous
// pending state is restored.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.getByEmail(ctx, email)
	if err != nil {
		return err
	}

	prevCode := user.VerificationCode
	prevToken := user.PasswordResetToken
	prevExpires := user.PasswordResetExpires

	code, err := s.codes.Generate(user)
	if err != nil {
		return err
	}
	raw := make([]byte, resetTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	expires := s.clock.Now().Add(s.cfg.ResetTokenTTL)
	user.PasswordResetToken = hashResetToken(hex.EncodeToString(raw))
	user.PasswordResetExpires = &expires

	if err := s.users.SaveVerificationState(ctx, user); err != nil {
		return fmt.Errorf("could not store reset state: %w", err)
	}

	deliverCtx, cancel := s.deliveryContext(ctx)
	defer cancel()
	if err := s.notifier.SendPasswordReset(deliverCtx, user.Email, user.Name, code); err != nil {
		s.log.Errorf("Password reset email to %s failed, rolling back: %v", user.Email, err)
		user.VerificationCode = prevCode
		user.PasswordResetToken = prevToken
		user.PasswordResetExpires = prevExpires
		if errRollback := s.users.SaveVerificationState(ctx, user); errRollback != nil {
			s.log.Errorf("Failed to roll back reset state for user %s: %v", user.ID, errRollback)
		}
		return apperr.Wrap(apperr.ErrDeliveryFailed, err)
	}
	s.log.Infof("Password reset requested: UserID=%s", user.ID)
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if err := validateCode(code); err != nil {
		return err
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	user, err := s.getByEmail(ctx, email)
	if err != nil {
		return err
	}

	if user.PasswordResetExpires == nil || s.clock.Now().After(*user.PasswordResetExpires) {
		if user.PasswordResetExpires != nil {
			user.ClearResetState()
			if err := s.users.SaveVerificationState(ctx, user); err != nil {
				s.log.Warnf("Failed to clear expired reset state for user %s: %v", user.ID, err)
			}
		}
		return apperr.ErrInvalidCode
	}

	hadCode := user.VerificationCode != nil
	if !s.codes.Check(user, code) {
		if hadCode && user.VerificationCode == nil {
			if err := s.users.SaveVerificationState(ctx, user); err != nil {
				s.log.Warnf("Failed to clear expired code for user %s: %v", user.ID, err)
			}
		}
		return apperr.ErrInvalidCode
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.SetPassword(ctx, user.ID, hash, true); err != nil {
		return fmt.Errorf("could not reset password: %w", err)
	}
	s.log.Infof("Password reset completed: UserID=%s", user.ID)
	return nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return notFoundAs(err, apperr.ErrUserNotFound)
	}
	if !s.hasher.Compare(user.PasswordHash, currentPassword) {
		return apperr.ErrWrongPassword
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.SetPassword(ctx, user.ID, hash, false); err != nil {
		return notFoundAs(err, apperr.ErrUserNotFound)
	}
	s.log.Infof("Password changed: UserID=%s", user.ID)
	return nil
}

func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.users.SetRefreshToken(ctx, userID, ""); err != nil {
		return notFoundAs(err, apperr.ErrUserNotFound)
	}
	s.log.Infof("User logged out: UserID=%s", userID)
	return nil
}

// AdminLogin accepts an admin's email or username.
func (s *AuthService) AdminLogin(ctx context.Context, identifier, password, ip string) (*AdminAuthResult, error) {
	user, err := s.users.GetAdminByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Warnw("Admin login failed: unknown identifier", "identifier", identifier, "ip", ip)
			s.metrics.IncFailedLogins()
			return nil, apperr.ErrBadCredential
		}
		return nil, err
	}
	if !s.hasher.Compare(user.PasswordHash, password) {
		s.log.Warnw("Admin login failed: bad password", "user_id", user.ID, "ip", ip)
		s.metrics.IncFailedLogins()
		return nil, apperr.ErrBadCredential
	}
	if !user.IsVerified {
		return nil, apperr.ErrNotVerified
	}

	token, err := s.tokens.IssueAdminToken(user.ID)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	if err := s.users.SetLastLogin(ctx, user.ID, now); err != nil {
		s.log.Warnf("Failed to record admin login for %s: %v", user.ID, err)
	} else {
		user.LastLogin = &now
	}
	s.log.Infow("Admin logged in", "user_id", user.ID, "ip", ip)
	return &AdminAuthResult{User: user.Public(), AdminToken: token}, nil
}

func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*entity.PublicUser, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, apperr.ErrUserNotFound)
	}
	public := user.Public()
	return &public, nil
}

// Authenticate resolves a token of the given type to its user. Admin tokens
// additionally require the admin role.
func (s *AuthService) Authenticate(ctx context.Context, token string, typ TokenType) (*entity.User, error) {
	userID, err := s.tokens.Verify(token, typ)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, apperr.ErrInvalidToken)
	}
	if typ == TokenAdmin && !user.IsAdmin() {
		return nil, apperr.ErrForbidden
	}
	return user, nil
}
