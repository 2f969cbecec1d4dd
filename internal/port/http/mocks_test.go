package httpserver

import (
	"context"

	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, in service.RegisterInput) (*entity.PublicUser, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PublicUser), args.Error(1)
}

func (m *MockAuthService) VerifyCode(ctx context.Context, email, code string) (*service.AuthResult, error) {
	args := m.Called(ctx, email, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}

func (m *MockAuthService) SendCode(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockAuthService) Login(ctx context.Context, email, password, ip string) (*service.AuthResult, error) {
	args := m.Called(ctx, email, password, ip)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*service.AuthResult, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}

func (m *MockAuthService) ForgotPassword(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	args := m.Called(ctx, email, code, newPassword)
	return args.Error(0)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	args := m.Called(ctx, userID, currentPassword, newPassword)
	return args.Error(0)
}

func (m *MockAuthService) Logout(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockAuthService) AdminLogin(ctx context.Context, identifier, password, ip string) (*service.AdminAuthResult, error) {
	args := m.Called(ctx, identifier, password, ip)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AdminAuthResult), args.Error(1)
}

func (m *MockAuthService) CurrentUser(ctx context.Context, userID string) (*entity.PublicUser, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PublicUser), args.Error(1)
}

func (m *MockAuthService) Authenticate(ctx context.Context, token string, typ service.TokenType) (*entity.User, error) {
	args := m.Called(ctx, token, typ)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) GetCart(ctx context.Context, userID string) (*entity.CartView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CartView), args.Error(1)
}

func (m *MockCartService) AddItem(ctx context.Context, userID, vehicleID string, quantity int) (*entity.CartView, error) {
	args := m.Called(ctx, userID, vehicleID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CartView), args.Error(1)
}

func (m *MockCartService) UpdateItem(ctx context.Context, userID, vehicleID string, quantity int) (*entity.CartView, error) {
	args := m.Called(ctx, userID, vehicleID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CartView), args.Error(1)
}

func (m *MockCartService) RemoveItem(ctx context.Context, userID, vehicleID string) (*entity.CartView, error) {
	args := m.Called(ctx, userID, vehicleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CartView), args.Error(1)
}

func (m *MockCartService) ClearCart(ctx context.Context, userID string) (*entity.CartView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CartView), args.Error(1)
}

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Checkout(ctx context.Context, userID string, in service.CheckoutInput) (*entity.Order, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *MockOrderService) CancelOrder(ctx context.Context, userID, orderID string) (*entity.Order, error) {
	args := m.Called(ctx, userID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *MockOrderService) UpdateOrderStatus(ctx context.Context, orderID string, status entity.OrderStatus, notes *string) (*entity.Order, error) {
	args := m.Called(ctx, orderID, status, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *MockOrderService) GetOrder(ctx context.Context, userID, orderID string) (*entity.Order, error) {
	args := m.Called(ctx, userID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *MockOrderService) ListMyOrders(ctx context.Context, userID string, status entity.OrderStatus, page entity.Pagination) (*service.OrderPage, error) {
	args := m.Called(ctx, userID, status, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.OrderPage), args.Error(1)
}

func (m *MockOrderService) ListAllOrders(ctx context.Context, filter entity.OrderFilter) (*service.OrderPage, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.OrderPage), args.Error(1)
}

type MockReceiptService struct {
	mock.Mock
}

func (m *MockReceiptService) GenerateOrderReceipt(ctx context.Context, orderID, userID string) ([]byte, string, error) {
	args := m.Called(ctx, orderID, userID)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

type MockVehicleService struct {
	mock.Mock
}

func (m *MockVehicleService) List(ctx context.Context, filter entity.VehicleFilter) (*service.VehiclePage, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.VehiclePage), args.Error(1)
}

func (m *MockVehicleService) Get(ctx context.Context, vehicleID string) (*entity.Vehicle, error) {
	args := m.Called(ctx, vehicleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Vehicle), args.Error(1)
}

func (m *MockVehicleService) Create(ctx context.Context, adminID string, in service.VehicleInput) (*entity.Vehicle, error) {
	args := m.Called(ctx, adminID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Vehicle), args.Error(1)
}

func (m *MockVehicleService) Update(ctx context.Context, vehicleID string, patch entity.VehiclePatch) (*entity.Vehicle, error) {
	args := m.Called(ctx, vehicleID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Vehicle), args.Error(1)
}

func (m *MockVehicleService) Delete(ctx context.Context, vehicleID string) error {
	args := m.Called(ctx, vehicleID)
	return args.Error(0)
}

func (m *MockVehicleService) BulkUpdate(ctx context.Context, vehicleIDs []string, upd service.BulkVehicleUpdate) (int64, error) {
	args := m.Called(ctx, vehicleIDs, upd)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVehicleService) BulkDelete(ctx context.Context, vehicleIDs []string) (int64, error) {
	args := m.Called(ctx, vehicleIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVehicleService) UploadImages(ctx context.Context, vehicleID string, files map[string][]byte) (*entity.Vehicle, error) {
	args := m.Called(ctx, vehicleID, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Vehicle), args.Error(1)
}
