package service

import (
	"context"
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/apperr"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAnalyticsRepository struct {
	mock.Mock
}

func (m *MockAnalyticsRepository) UserGrowth(ctx context.Context, since time.Time) ([]repository.MonthlyCount, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.MonthlyCount), args.Error(1)
}

func (m *MockAnalyticsRepository) VehicleStats(ctx context.Context, topBrands int) (*repository.VehicleStats, error) {
	args := m.Called(ctx, topBrands)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.VehicleStats), args.Error(1)
}

func (m *MockAnalyticsRepository) OrderStats(ctx context.Context, since time.Time) (*repository.OrderStats, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.OrderStats), args.Error(1)
}

func seedUsers(t *testing.T, users *memUserRepo, clock *fakeClock) {
	t.Helper()
	seed := []entity.User{
		{Email: "a@example.com", Role: entity.RoleUser, IsVerified: true, CreatedAt: clock.Now()},
		{Email: "b@example.com", Role: entity.RoleUser, IsVerified: true, CreatedAt: clock.Now().AddDate(0, -2, 0)},
		{Email: "c@example.com", Role: entity.RoleUser, IsVerified: false, CreatedAt: clock.Now().AddDate(0, -1, 0)},
		{Email: "boss@example.com", Username: "boss", Role: entity.RoleAdmin, IsVerified: true, CreatedAt: clock.Now()},
	}
	for i := range seed {
		_, err := users.Create(context.Background(), &seed[i])
		require.NoError(t, err)
	}
}

func TestAdminService_UserStats(t *testing.T) {
	clock := newFakeClock()
	users := newMemUserRepo()
	seedUsers(t, users, clock)
	analytics := new(MockAnalyticsRepository)
	svc := NewAdminService(users, analytics, plainHasher{}, clock, logger.NewNop())

	since := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	growth := []repository.MonthlyCount{{Year: 2025, Month: 3, Count: 1}}
	analytics.On("UserGrowth", mock.Anything, since).Return(growth, nil).Once()

	stats, err := svc.UserStats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalUsers)
	assert.Equal(t, int64(2), stats.VerifiedUsers)
	assert.Equal(t, int64(1), stats.UnverifiedUsers)
	assert.Equal(t, int64(1), stats.TotalAdmins)
	assert.Equal(t, int64(1), stats.NewThisMonth)
	assert.Equal(t, 66.67, stats.VerificationRate)
	assert.Equal(t, growth, stats.MonthlyGrowth)
	analytics.AssertExpectations(t)
}

func TestAdminService_Analytics(t *testing.T) {
	clock := newFakeClock()
	analytics := new(MockAnalyticsRepository)
	svc := NewAdminService(newMemUserRepo(), analytics, plainHasher{}, clock, logger.NewNop())

	vehicleStats := &repository.VehicleStats{Total: 4, Available: 3}
	orderStats := &repository.OrderStats{Total: 2, TotalRevenue: 300}
	analytics.On("UserGrowth", mock.Anything, mock.Anything).Return([]repository.MonthlyCount{}, nil).Once()
	analytics.On("VehicleStats", mock.Anything, topBrands).Return(vehicleStats, nil).Once()
	analytics.On("OrderStats", mock.Anything, mock.Anything).Return(orderStats, nil).Once()

	result, err := svc.Analytics(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Users.VerificationRate)
	assert.Equal(t, vehicleStats, result.Vehicles)
	assert.Equal(t, orderStats, result.Orders)
	analytics.AssertExpectations(t)
}

func TestAdminService_ListUsersAndAdmins(t *testing.T) {
	clock := newFakeClock()
	users := newMemUserRepo()
	seedUsers(t, users, clock)
	svc := NewAdminService(users, new(MockAnalyticsRepository), plainHasher{}, clock, logger.NewNop())

	list, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 3)

	admins, err := svc.ListAdmins(context.Background())
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "boss", admins[0].Username)
}

func TestAdminService_CreateAdmin(t *testing.T) {
	clock := newFakeClock()
	users := newMemUserRepo()
	seedUsers(t, users, clock)
	svc := NewAdminService(users, new(MockAnalyticsRepository), plainHasher{}, clock, logger.NewNop())

	created, err := svc.CreateAdmin(context.Background(), "root", CreateAdminInput{
		Email: "New@Example.com", Username: "manager", Password: "secret1", Name: "Manager",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, created.Role)
	assert.True(t, created.IsVerified)
	assert.Equal(t, "hashed:secret1", users.stored(created.ID).PasswordHash)

	_, err = svc.CreateAdmin(context.Background(), "root", CreateAdminInput{
		Email: "other@example.com", Username: "boss", Password: "secret1", Name: "Boss",
	})
	assert.ErrorIs(t, err, apperr.ErrUsernameTaken)

	_, err = svc.CreateAdmin(context.Background(), "root", CreateAdminInput{
		Email: "a@example.com", Username: "fresh", Password: "secret1", Name: "Fresh",
	})
	assert.ErrorIs(t, err, apperr.ErrEmailTaken)

	_, err = svc.CreateAdmin(context.Background(), "root", CreateAdminInput{
		Email: "x@example.com", Username: "no spaces", Password: "secret1", Name: "X Y",
	})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestProfileService_Update(t *testing.T) {
	clock := newFakeClock()
	users := newMemUserRepo()
	seedUsers(t, users, clock)
	svc := NewProfileService(users, nil, logger.NewNop())
	target, err := users.GetByEmail(context.Background(), "a@example.com")
	require.NoError(t, err)

	name, phone, username := "Aziz", "901234567", "aziz_01"
	updated, err := svc.Update(context.Background(), target.ID, ProfileUpdate{Name: &name, Phone: &phone, Username: &username})
	require.NoError(t, err)
	assert.Equal(t, "Aziz", updated.Name)
	assert.Equal(t, "aziz_01", updated.Username)

	taken := "boss"
	_, err = svc.Update(context.Background(), target.ID, ProfileUpdate{Username: &taken})
	assert.ErrorIs(t, err, apperr.ErrUsernameTaken)

	badPhone := "12345"
	_, err = svc.Update(context.Background(), target.ID, ProfileUpdate{Phone: &badPhone})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, apperr.ErrUserNotFound)
}

func TestProfileService_UploadImage(t *testing.T) {
	clock := newFakeClock()
	users := newMemUserRepo()
	seedUsers(t, users, clock)
	storage := new(MockImageStorage)
	svc := NewProfileService(users, storage, logger.NewNop())
	target, err := users.GetByEmail(context.Background(), "a@example.com")
	require.NoError(t, err)

	data := []byte("\x89PNG\r\n\x1a\n")
	storage.On("Upload", mock.Anything, "profiles/"+target.ID, data).Return("http://minio/bucket/p1.png", nil).Once()
	storage.On("Upload", mock.Anything, "profiles/"+target.ID, data).Return("http://minio/bucket/p2.png", nil).Once()
	storage.On("Delete", mock.Anything, "http://minio/bucket/p1.png").Return(nil).Once()

	first, err := svc.UploadImage(context.Background(), target.ID, data)
	require.NoError(t, err)
	assert.Equal(t, "http://minio/bucket/p1.png", first.ProfileImage)

	second, err := svc.UploadImage(context.Background(), target.ID, data)
	require.NoError(t, err)
	assert.Equal(t, "http://minio/bucket/p2.png", second.ProfileImage)
	storage.AssertExpectations(t)
}

func TestProfileService_UpdateAfterLogoutKeepsSessionRevoked(t *testing.T) {
	f := newAuthFixture()
	user := f.seedUser(t, "ali@example.com", true)
	_, err := f.svc.Login(context.Background(), "ali@example.com", "secret1", "127.0.0.1")
	require.NoError(t, err)
	require.NotEmpty(t, f.users.stored(user.ID).RefreshToken)

	profiles := NewProfileService(f.users, nil, logger.NewNop())
	_, err = profiles.Get(context.Background(), user.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.Logout(context.Background(), user.ID))

	name := "Ali Valiyev"
	updated, err := profiles.Update(context.Background(), user.ID, ProfileUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Ali Valiyev", updated.Name)
	assert.Empty(t, f.users.stored(user.ID).RefreshToken)
}

func TestProfileService_UploadImageInterleavedWithPasswordChange(t *testing.T) {
	f := newAuthFixture()
	user := f.seedUser(t, "ali@example.com", true)
	_, err := f.svc.Login(context.Background(), "ali@example.com", "secret1", "127.0.0.1")
	require.NoError(t, err)

	storage := new(MockImageStorage)
	data := []byte("\x89PNG\r\n\x1a\n")
	storage.On("Upload", mock.Anything, "profiles/"+user.ID, data).Return("http://minio/bucket/p1.png", nil).Once()
	profiles := NewProfileService(f.users, storage, logger.NewNop())

	// The password change and logout land between the image upload's read and its write.
	f.users.afterRead = func() {
		f.users.afterRead = nil
		require.NoError(t, f.svc.ChangePassword(context.Background(), user.ID, "secret1", "secret2"))
		require.NoError(t, f.svc.Logout(context.Background(), user.ID))
	}
	updated, err := profiles.UploadImage(context.Background(), user.ID, data)
	require.NoError(t, err)
	assert.Equal(t, "http://minio/bucket/p1.png", updated.ProfileImage)

	stored := f.users.stored(user.ID)
	assert.Equal(t, "hashed:secret2", stored.PasswordHash)
	assert.Empty(t, stored.RefreshToken)
	assert.Equal(t, "http://minio/bucket/p1.png", stored.ProfileImage)
	storage.AssertExpectations(t)
}

func TestProfileService_UpdateClearsOptionalFields(t *testing.T) {
	clock := newFakeClock()
	users := newMemUserRepo()
	seedUsers(t, users, clock)
	svc := NewProfileService(users, nil, logger.NewNop())
	target, err := users.GetByEmail(context.Background(), "boss@example.com")
	require.NoError(t, err)

	empty := ""
	updated, err := svc.Update(context.Background(), target.ID, ProfileUpdate{Username: &empty})
	require.NoError(t, err)
	assert.Empty(t, updated.Username)

	short := " A "
	_, err = svc.Update(context.Background(), target.ID, ProfileUpdate{Name: &short})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}
