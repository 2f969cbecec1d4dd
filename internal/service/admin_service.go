package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/apperr"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/repository"
)

const (
	analyticsMonths = 12
	topBrands       = 10
)

type UserStats struct {
	TotalUsers       int64                     `json:"totalUsers"`
	VerifiedUsers    int64                     `json:"verifiedUsers"`
	UnverifiedUsers  int64                     `json:"unverifiedUsers"`
	TotalAdmins      int64                     `json:"totalAdmins"`
	NewThisMonth     int64                     `json:"newThisMonth"`
	VerificationRate float64                   `json:"verificationRate"`
	MonthlyGrowth    []repository.MonthlyCount `json:"monthlyGrowth"`
}

type Analytics struct {
	Users    *UserStats               `json:"users"`
	Vehicles *repository.VehicleStats `json:"cars"`
	Orders   *repository.OrderStats   `json:"orders"`
}

type CreateAdminInput struct {
	Email    string `validate:"required,email"`
	Username string `validate:"required,username"`
	Password string `validate:"min=6"`
	Name     string `validate:"min=2,max=50"`
}

type AdminService struct {
	users     repository.UserRepository
	analytics repository.AnalyticsRepository
	hasher    PasswordHasher
	clock     Clock
	log       logger.Logger
}

func NewAdminService(users repository.UserRepository, analytics repository.AnalyticsRepository, hasher PasswordHasher, clock Clock, log logger.Logger) *AdminService {
	return &AdminService{
		users:     users,
		analytics: analytics,
		hasher:    hasher,
		clock:     clock,
		log:       log.Named("AdminService"),
	}
}

// windowStart returns the first instant of the current month and of the
// analytics window that ends with it.
func (s *AdminService) windowStart() (monthStart, since time.Time) {
	now := s.clock.Now().UTC()
	monthStart = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return monthStart, monthStart.AddDate(0, -(analyticsMonths - 1), 0)
}

func (s *AdminService) UserStats(ctx context.Context) (*UserStats, error) {
	monthStart, since := s.windowStart()
	verified := true

	total, err := s.users.Count(ctx, repository.UserCountFilter{Role: entity.RoleUser})
	if err != nil {
		return nil, fmt.Errorf("could not count users: %w", err)
	}
	verifiedCount, err := s.users.Count(ctx, repository.UserCountFilter{Role: entity.RoleUser, Verified: &verified})
	if err != nil {
		return nil, fmt.Errorf("could not count verified users: %w", err)
	}
	admins, err := s.users.Count(ctx, repository.UserCountFilter{Role: entity.RoleAdmin})
	if err != nil {
		return nil, fmt.Errorf("could not count admins: %w", err)
	}
	newThisMonth, err := s.users.Count(ctx, repository.UserCountFilter{Role: entity.RoleUser, CreatedSince: &monthStart})
	if err != nil {
		return nil, fmt.Errorf("could not count new users: %w", err)
	}
	growth, err := s.analytics.UserGrowth(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("could not load user growth: %w", err)
	}

	stats := &UserStats{
		TotalUsers:      total,
		VerifiedUsers:   verifiedCount,
		UnverifiedUsers: total - verifiedCount,
		TotalAdmins:     admins,
		NewThisMonth:    newThisMonth,
		MonthlyGrowth:   growth,
	}
	if total > 0 {
		stats.VerificationRate = math.Round(float64(verifiedCount)/float64(total)*10000) / 100
	}
	return stats, nil
}

func (s *AdminService) OrderStats(ctx context.Context) (*repository.OrderStats, error) {
	_, since := s.windowStart()
	stats, err := s.analytics.OrderStats(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("could not load order stats: %w", err)
	}
	return stats, nil
}

func (s *AdminService) Analytics(ctx context.Context) (*Analytics, error) {
	users, err := s.UserStats(ctx)
	if err != nil {
		return nil, err
	}
	vehicles, err := s.analytics.VehicleStats(ctx, topBrands)
	if err != nil {
		return nil, fmt.Errorf("could not load vehicle stats: %w", err)
	}
	orders, err := s.OrderStats(ctx)
	if err != nil {
		return nil, err
	}
	return &Analytics{Users: users, Vehicles: vehicles, Orders: orders}, nil
}

func publicUsers(users []entity.User) []entity.PublicUser {
	out := make([]entity.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}
	return out
}

func (s *AdminService) ListUsers(ctx context.Context) ([]entity.PublicUser, error) {
	users, err := s.users.ListByRole(ctx, entity.RoleUser)
	if err != nil {
		return nil, fmt.Errorf("could not list users: %w", err)
	}
	return publicUsers(users), nil
}

func (s *AdminService) ListAdmins(ctx context.Context) ([]entity.PublicUser, error) {
	admins, err := s.users.ListByRole(ctx, entity.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("could not list admins: %w", err)
	}
	return publicUsers(admins), nil
}

// CreateAdmin stores a new admin account that is verified from the start.
func (s *AdminService) CreateAdmin(ctx context.Context, createdBy string, in CreateAdminInput) (*entity.PublicUser, error) {
	in.Email = normalizeEmail(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	email, username, name := in.Email, in.Username, in.Name

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	admin := &entity.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Name:         name,
		Role:         entity.RoleAdmin,
		IsVerified:   true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := s.users.Create(ctx, admin); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, apperr.ErrEmailTaken
		case errors.Is(err, repository.ErrDuplicateUsername):
			return nil, apperr.ErrUsernameTaken
		}
		return nil, fmt.Errorf("could not create admin: %w", err)
	}
	s.log.Infof("Admin %s (%s) created by %s", admin.ID, admin.Username, createdBy)
	public := admin.Public()
	return &public, nil
}
