package httpserver

import (
	"context"
	"time"

	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/repository"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/service"
)

type AuthService interface {
	Register(ctx context.Context, in service.RegisterInput) (*entity.PublicUser, error)
	VerifyCode(ctx context.Context, email, code string) (*service.AuthResult, error)
	SendCode(ctx context.Context, email string) error
	Login(ctx context.Context, email, password, ip string) (*service.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*service.AuthResult, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	Logout(ctx context.Context, userID string) error
	AdminLogin(ctx context.Context, identifier, password, ip string) (*service.AdminAuthResult, error)
	CurrentUser(ctx context.Context, userID string) (*entity.PublicUser, error)
	Authenticate(ctx context.Context, token string, typ service.TokenType) (*entity.User, error)
}

type CartService interface {
	GetCart(ctx context.Context, userID string) (*entity.CartView, error)
	AddItem(ctx context.Context, userID, vehicleID string, quantity int) (*entity.CartView, error)
	UpdateItem(ctx context.Context, userID, vehicleID string, quantity int) (*entity.CartView, error)
	RemoveItem(ctx context.Context, userID, vehicleID string) (*entity.CartView, error)
	ClearCart(ctx context.Context, userID string) (*entity.CartView, error)
}

type OrderService interface {
	Checkout(ctx context.Context, userID string, in service.CheckoutInput) (*entity.Order, error)
	CancelOrder(ctx context.Context, userID, orderID string) (*entity.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status entity.OrderStatus, notes *string) (*entity.Order, error)
	GetOrder(ctx context.Context, userID, orderID string) (*entity.Order, error)
	ListMyOrders(ctx context.Context, userID string, status entity.OrderStatus, page entity.Pagination) (*service.OrderPage, error)
	ListAllOrders(ctx context.Context, filter entity.OrderFilter) (*service.OrderPage, error)
}

type ReceiptService interface {
	GenerateOrderReceipt(ctx context.Context, orderID, userID string) ([]byte, string, error)
}

type VehicleService interface {
	List(ctx context.Context, filter entity.VehicleFilter) (*service.VehiclePage, error)
	Get(ctx context.Context, vehicleID string) (*entity.Vehicle, error)
	Create(ctx context.Context, adminID string, in service.VehicleInput) (*entity.Vehicle, error)
	Update(ctx context.Context, vehicleID string, patch entity.VehiclePatch) (*entity.Vehicle, error)
	Delete(ctx context.Context, vehicleID string) error
	BulkUpdate(ctx context.Context, vehicleIDs []string, upd service.BulkVehicleUpdate) (int64, error)
	BulkDelete(ctx context.Context, vehicleIDs []string) (int64, error)
	UploadImages(ctx context.Context, vehicleID string, files map[string][]byte) (*entity.Vehicle, error)
}

type CategoryService interface {
	List(ctx context.Context, activeOnly bool, page entity.Pagination) (*service.CategoryPage, error)
	Get(ctx context.Context, categoryID string) (*entity.Category, error)
	Create(ctx context.Context, adminID string, in service.CategoryInput) (*entity.Category, error)
	Update(ctx context.Context, categoryID string, patch entity.CategoryPatch) (*entity.Category, error)
	Delete(ctx context.Context, categoryID string) error
	Vehicles(ctx context.Context, categoryID string, filter entity.VehicleFilter) (*entity.Category, *service.VehiclePage, error)
}

type BookmarkService interface {
	Toggle(ctx context.Context, userID, vehicleID string) (bool, error)
	List(ctx context.Context, userID string) ([]service.BookmarkView, error)
	Check(ctx context.Context, userID, vehicleID string) (bool, error)
	Remove(ctx context.Context, userID, vehicleID string) error
}

type ProfileService interface {
	Get(ctx context.Context, userID string) (*entity.PublicUser, error)
	Update(ctx context.Context, userID string, upd service.ProfileUpdate) (*entity.PublicUser, error)
	UploadImage(ctx context.Context, userID string, data []byte) (*entity.PublicUser, error)
}

type AdminService interface {
	UserStats(ctx context.Context) (*service.UserStats, error)
	OrderStats(ctx context.Context) (*repository.OrderStats, error)
	Analytics(ctx context.Context) (*service.Analytics, error)
	ListUsers(ctx context.Context) ([]entity.PublicUser, error)
	ListAdmins(ctx context.Context) ([]entity.PublicUser, error)
	CreateAdmin(ctx context.Context, createdBy string, in service.CreateAdminInput) (*entity.PublicUser, error)
}

// Services groups the use cases the HTTP layer dispatches to.
type Services struct {
	Auth       AuthService
	Carts      CartService
	Orders     OrderService
	Receipts   ReceiptService
	Vehicles   VehicleService
	Categories CategoryService
	Bookmarks  BookmarkService
	Profiles   ProfileService
	Admin      AdminService
}

type CookieOptions struct {
	MaxAge time.Duration
	Secure bool
}

type Handler struct {
	svc     Services
	cookies cookieJar
	log     logger.Logger
}

func NewHandler(svc Services, cookies CookieOptions, log logger.Logger) *Handler {
	return &Handler{
		svc:     svc,
		cookies: cookieJar{maxAge: cookies.MaxAge, secure: cookies.Secure},
		log:     log.Named("HTTPHandler"),
	}
}

// currentUserID reads the user set by RequireUser.
func currentUserID(ctx context.Context) string {
	if user, ok := UserFromContext(ctx); ok {
		return user.ID
	}
	return ""
}

func currentAdminID(ctx context.Context) string {
	if admin, ok := AdminFromContext(ctx); ok {
		return admin.ID
	}
	return ""
}
