package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/app/config"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/repository"
	"github.com/stretchr/testify/mock"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:     "test-secret",
		Issuer:     "dealership-service",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
		AdminTTL:   7 * 24 * time.Hour,
	}
}

// plainHasher keeps tests fast; bcrypt is covered by its own test.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (plainHasher) Compare(hash, password string) bool { return hash == "hashed:"+password }

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendVerificationCode(ctx context.Context, to, name, code string) error {
	args := m.Called(ctx, to, name, code)
	return args.Error(0)
}

func (m *MockNotifier) SendPasswordReset(ctx context.Context, to, name, code string) error {
	args := m.Called(ctx, to, name, code)
	return args.Error(0)
}

func (m *MockNotifier) SendOrderConfirmation(ctx context.Context, to string, order *entity.Order) error {
	args := m.Called(ctx, to, order)
	return args.Error(0)
}

func (m *MockNotifier) SendOrderStatusUpdate(ctx context.Context, to string, order *entity.Order) error {
	args := m.Called(ctx, to, order)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, subject string, message interface{}) error {
	args := m.Called(ctx, subject, message)
	return args.Error(0)
}

func (m *MockPublisher) PublishRaw(ctx context.Context, subject string, data []byte) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}

type MockImageStorage struct {
	mock.Mock
}

func (m *MockImageStorage) Upload(ctx context.Context, prefix string, data []byte) (string, error) {
	args := m.Called(ctx, prefix, data)
	return args.String(0), args.Error(1)
}

func (m *MockImageStorage) Delete(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

func objectID(n int) string {
	return fmt.Sprintf("%024x", n)
}

type memUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]entity.User
	// afterRead runs after GetByID has taken its snapshot.
	afterRead func()
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]entity.User)}
}

func copyUser(u entity.User) entity.User {
	if u.VerificationCode != nil {
		code := *u.VerificationCode
		u.VerificationCode = &code
	}
	if u.PasswordResetExpires != nil {
		t := *u.PasswordResetExpires
		u.PasswordResetExpires = &t
	}
	if u.LastLogin != nil {
		t := *u.LastLogin
		u.LastLogin = &t
	}
	return u
}

func (r *memUserRepo) conflict(user *entity.User) error {
	for id, existing := range r.users {
		if id == user.ID {
			continue
		}
		if existing.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
		if user.Username != "" && existing.Username == user.Username {
			return repository.ErrDuplicateUsername
		}
	}
	return nil
}

func (r *memUserRepo) Create(_ context.Context, user *entity.User) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.conflict(user); err != nil {
		return "", err
	}
	r.seq++
	user.ID = objectID(r.seq)
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	r.users[user.ID] = copyUser(*user)
	return user.ID, nil
}

func (r *memUserRepo) GetByID(_ context.Context, userID string) (*entity.User, error) {
	r.mu.Lock()
	u, ok := r.users[userID]
	hook := r.afterRead
	r.mu.Unlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := copyUser(u)
	if hook != nil {
		hook()
	}
	return &out, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == strings.ToLower(email) {
			out := copyUser(u)
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) GetAdminByIdentifier(_ context.Context, identifier string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Role == entity.RoleAdmin && (u.Email == strings.ToLower(identifier) || u.Username == identifier) {
			out := copyUser(u)
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

// modify applies fn to the stored user under the lock.
func (r *memUserRepo) modify(userID string, fn func(u *entity.User) error) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if err := fn(&u); err != nil {
		return nil, err
	}
	r.users[userID] = copyUser(u)
	out := copyUser(u)
	return &out, nil
}

func (r *memUserRepo) UpdateProfile(_ context.Context, userID string, patch entity.ProfilePatch) (*entity.User, error) {
	return r.modify(userID, func(u *entity.User) error {
		if patch.Username != nil && *patch.Username != "" {
			for id, existing := range r.users {
				if id != userID && existing.Username == *patch.Username {
					return repository.ErrDuplicateUsername
				}
			}
		}
		if patch.Name != nil {
			u.Name = *patch.Name
		}
		if patch.Phone != nil {
			u.Phone = *patch.Phone
		}
		if patch.Username != nil {
			u.Username = *patch.Username
		}
		if patch.ProfileImage != nil {
			u.ProfileImage = *patch.ProfileImage
		}
		return nil
	})
}

func (r *memUserRepo) SaveVerificationState(_ context.Context, user *entity.User) error {
	_, err := r.modify(user.ID, func(u *entity.User) error {
		src := copyUser(*user)
		u.IsVerified = src.IsVerified
		u.VerificationCode = src.VerificationCode
		u.PasswordResetToken = src.PasswordResetToken
		u.PasswordResetExpires = src.PasswordResetExpires
		return nil
	})
	return err
}

func (r *memUserRepo) StartSession(_ context.Context, userID, refreshToken string, at time.Time) error {
	_, err := r.modify(userID, func(u *entity.User) error {
		u.RefreshToken = refreshToken
		u.LastLogin = &at
		return nil
	})
	return err
}

func (r *memUserRepo) SetLastLogin(_ context.Context, userID string, at time.Time) error {
	_, err := r.modify(userID, func(u *entity.User) error {
		u.LastLogin = &at
		return nil
	})
	return err
}

func (r *memUserRepo) SetPassword(_ context.Context, userID, hash string, clearReset bool) error {
	_, err := r.modify(userID, func(u *entity.User) error {
		u.PasswordHash = hash
		u.RefreshToken = ""
		if clearReset {
			u.ClearResetState()
		}
		return nil
	})
	return err
}

func (r *memUserRepo) SetRefreshToken(_ context.Context, userID, token string) error {
	_, err := r.modify(userID, func(u *entity.User) error {
		u.RefreshToken = token
		return nil
	})
	return err
}

func (r *memUserRepo) ListByRole(_ context.Context, role entity.Role) ([]entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.User
	for _, u := range r.users {
		if u.Role == role {
			out = append(out, copyUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memUserRepo) Count(_ context.Context, filter repository.UserCountFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.Verified != nil && u.IsVerified != *filter.Verified {
			continue
		}
		if filter.CreatedSince != nil && u.CreatedAt.Before(*filter.CreatedSince) {
			continue
		}
		n++
	}
	return n, nil
}

func (r *memUserRepo) stored(userID string) entity.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return copyUser(r.users[userID])
}

type memVehicleRepo struct {
	mu       sync.Mutex
	seq      int
	vehicles map[string]entity.Vehicle
	// afterRead runs after GetByIDs has taken its snapshot.
	afterRead func()
}

func newMemVehicleRepo(vehicles ...entity.Vehicle) *memVehicleRepo {
	r := &memVehicleRepo{vehicles: make(map[string]entity.Vehicle)}
	for _, v := range vehicles {
		r.vehicles[v.ID] = v
	}
	return r
}

func (r *memVehicleRepo) Create(_ context.Context, vehicle *entity.Vehicle) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	vehicle.ID = fmt.Sprintf("veh%021d", r.seq)
	r.vehicles[vehicle.ID] = *vehicle
	return vehicle.ID, nil
}

func (r *memVehicleRepo) GetByID(_ context.Context, vehicleID string) (*entity.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vehicles[vehicleID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &v, nil
}

func (r *memVehicleRepo) GetByIDs(_ context.Context, vehicleIDs []string) (map[string]*entity.Vehicle, error) {
	r.mu.Lock()
	out := make(map[string]*entity.Vehicle, len(vehicleIDs))
	for _, id := range vehicleIDs {
		if v, ok := r.vehicles[id]; ok {
			vCopy := v
			out[id] = &vCopy
		}
	}
	hook := r.afterRead
	r.mu.Unlock()
	if hook != nil {
		hook()
	}
	return out, nil
}

func (r *memVehicleRepo) List(_ context.Context, filter entity.VehicleFilter) (*repository.ListVehiclesResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []entity.Vehicle
	for _, v := range r.vehicles {
		if filter.CategoryID != "" && v.CategoryID != filter.CategoryID {
			continue
		}
		if filter.IsAvailable != nil && v.IsAvailable != *filter.IsAvailable {
			continue
		}
		all = append(all, v)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := int64(len(all))
	start := int(filter.Pagination.Skip())
	if start > len(all) {
		start = len(all)
	}
	end := start + filter.Pagination.Limit
	if end > len(all) {
		end = len(all)
	}
	return &repository.ListVehiclesResult{Vehicles: all[start:end], TotalCount: total}, nil
}

func applyVehiclePatch(v *entity.Vehicle, patch entity.VehiclePatch) {
	if patch.Brand != nil {
		v.Brand = *patch.Brand
	}
	if patch.Model != nil {
		v.Model = *patch.Model
	}
	if patch.Year != nil {
		v.Year = *patch.Year
	}
	if patch.Price != nil {
		v.Price = *patch.Price
	}
	if patch.CategoryID != nil {
		v.CategoryID = *patch.CategoryID
	}
	if patch.IsAvailable != nil {
		v.IsAvailable = *patch.IsAvailable
	}
	if patch.Images != nil {
		v.Images = *patch.Images
	}
}

func (r *memVehicleRepo) Update(_ context.Context, vehicleID string, patch entity.VehiclePatch) (*entity.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vehicles[vehicleID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	applyVehiclePatch(&v, patch)
	r.vehicles[vehicleID] = v
	return &v, nil
}

func (r *memVehicleRepo) SetAvailability(_ context.Context, vehicleID string, available bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vehicles[vehicleID]
	if !ok {
		return repository.ErrNotFound
	}
	v.IsAvailable = available
	r.vehicles[vehicleID] = v
	return nil
}

func (r *memVehicleRepo) BulkUpdate(_ context.Context, vehicleIDs []string, patch entity.VehiclePatch) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, id := range vehicleIDs {
		if v, ok := r.vehicles[id]; ok {
			applyVehiclePatch(&v, patch)
			r.vehicles[id] = v
			n++
		}
	}
	return n, nil
}

func (r *memVehicleRepo) Delete(_ context.Context, vehicleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.vehicles[vehicleID]; !ok {
		return repository.ErrNotFound
	}
	delete(r.vehicles, vehicleID)
	return nil
}

func (r *memVehicleRepo) BulkDelete(_ context.Context, vehicleIDs []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, id := range vehicleIDs {
		if _, ok := r.vehicles[id]; ok {
			delete(r.vehicles, id)
			n++
		}
	}
	return n, nil
}

func (r *memVehicleRepo) CountByCategory(_ context.Context, categoryIDs []string) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int64)
	for _, v := range r.vehicles {
		for _, id := range categoryIDs {
			if v.CategoryID == id {
				counts[id]++
			}
		}
	}
	return counts, nil
}

func (r *memVehicleRepo) setPrice(vehicleID string, price float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := r.vehicles[vehicleID]
	v.Price = price
	r.vehicles[vehicleID] = v
}

func (r *memVehicleRepo) stored(vehicleID string) entity.Vehicle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.vehicles[vehicleID]
}

type memCartRepo struct {
	mu    sync.Mutex
	carts map[string]entity.Cart
}

func newMemCartRepo() *memCartRepo {
	return &memCartRepo{carts: make(map[string]entity.Cart)}
}

func copyCart(c entity.Cart) entity.Cart {
	c.Items = append([]entity.CartItem(nil), c.Items...)
	return c
}

func (r *memCartRepo) GetByUserID(_ context.Context, userID string) (*entity.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := copyCart(c)
	return &out, nil
}

func (r *memCartRepo) Save(_ context.Context, cart *entity.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cart.ID == "" {
		cart.ID = "cart-" + cart.UserID
	}
	r.carts[cart.UserID] = copyCart(*cart)
	return nil
}

func (r *memCartRepo) put(userID string, items ...entity.CartItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[userID] = entity.Cart{ID: "cart-" + userID, UserID: userID, Items: items}
}

func (r *memCartRepo) stored(userID string) entity.Cart {
	r.mu.Lock()
	defer r.mu.Unlock()
	return copyCart(r.carts[userID])
}

type memOrderRepo struct {
	mu     sync.Mutex
	seq    int
	orders map[string]entity.Order
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: make(map[string]entity.Order)}
}

func copyOrder(o entity.Order) entity.Order {
	o.Items = append([]entity.OrderItem(nil), o.Items...)
	return o
}

func (r *memOrderRepo) Create(_ context.Context, order *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	order.ID = objectID(0xabc000 + r.seq)
	order.OrderNumber = entity.OrderNumberFromID(order.ID)
	r.orders[order.ID] = copyOrder(*order)
	return nil
}

func (r *memOrderRepo) GetByID(_ context.Context, orderID string) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := copyOrder(o)
	return &out, nil
}

func (r *memOrderRepo) GetByIDForUser(ctx context.Context, orderID, userID string) (*entity.Order, error) {
	o, err := r.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return o, nil
}

func (r *memOrderRepo) UpdateStatus(_ context.Context, params repository.UpdateOrderStatusParams) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[params.OrderID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	o.Status = params.Status
	if params.Notes != nil {
		o.Notes = *params.Notes
	}
	o.UpdatedAt = time.Now().UTC()
	r.orders[o.ID] = o
	out := copyOrder(o)
	return &out, nil
}

func (r *memOrderRepo) List(_ context.Context, filter entity.OrderFilter) (*repository.ListOrdersResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []entity.Order
	for _, o := range r.orders {
		if filter.UserID != "" && o.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		all = append(all, copyOrder(o))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	return &repository.ListOrdersResult{Orders: all, TotalCount: int64(len(all))}, nil
}

func (r *memOrderRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders)
}

type memBookmarkRepo struct {
	mu        sync.Mutex
	bookmarks []entity.Bookmark
}

func (r *memBookmarkRepo) index(userID, vehicleID string) int {
	for i, b := range r.bookmarks {
		if b.UserID == userID && b.VehicleID == vehicleID {
			return i
		}
	}
	return -1
}

func (r *memBookmarkRepo) Add(_ context.Context, bookmark *entity.Bookmark) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.index(bookmark.UserID, bookmark.VehicleID) >= 0 {
		return repository.ErrAlreadyExists
	}
	bookmark.ID = objectID(len(r.bookmarks) + 1)
	r.bookmarks = append(r.bookmarks, *bookmark)
	return nil
}

func (r *memBookmarkRepo) Remove(_ context.Context, userID, vehicleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.index(userID, vehicleID)
	if i < 0 {
		return repository.ErrNotFound
	}
	r.bookmarks = append(r.bookmarks[:i], r.bookmarks[i+1:]...)
	return nil
}

func (r *memBookmarkRepo) Exists(_ context.Context, userID, vehicleID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.index(userID, vehicleID) >= 0, nil
}

func (r *memBookmarkRepo) ListByUser(_ context.Context, userID string) ([]entity.Bookmark, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Bookmark
	for i := len(r.bookmarks) - 1; i >= 0; i-- {
		if r.bookmarks[i].UserID == userID {
			out = append(out, r.bookmarks[i])
		}
	}
	return out, nil
}

func (r *memBookmarkRepo) DeleteByVehicles(_ context.Context, vehicleIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	drop := make(map[string]bool, len(vehicleIDs))
	for _, id := range vehicleIDs {
		drop[id] = true
	}
	kept := r.bookmarks[:0]
	for _, b := range r.bookmarks {
		if !drop[b.VehicleID] {
			kept = append(kept, b)
		}
	}
	r.bookmarks = kept
	return nil
}

type memCategoryRepo struct {
	mu         sync.Mutex
	categories map[string]entity.Category
}

func newMemCategoryRepo(categories ...entity.Category) *memCategoryRepo {
	r := &memCategoryRepo{categories: make(map[string]entity.Category)}
	for _, c := range categories {
		r.categories[c.ID] = c
	}
	return r
}

func (r *memCategoryRepo) Create(_ context.Context, category *entity.Category) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.categories {
		if strings.EqualFold(c.Name, category.Name) {
			return "", repository.ErrAlreadyExists
		}
	}
	category.ID = fmt.Sprintf("cat%021d", len(r.categories)+1)
	r.categories[category.ID] = *category
	return category.ID, nil
}

func (r *memCategoryRepo) GetByID(_ context.Context, categoryID string) (*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[categoryID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *memCategoryRepo) List(_ context.Context, filter entity.CategoryFilter) ([]entity.Category, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Category
	for _, c := range r.categories {
		if filter.ActiveOnly && !c.IsActive {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, int64(len(out)), nil
}

func (r *memCategoryRepo) Update(_ context.Context, categoryID string, patch entity.CategoryPatch) (*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[categoryID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
	if patch.IsActive != nil {
		c.IsActive = *patch.IsActive
	}
	r.categories[categoryID] = c
	return &c, nil
}

func (r *memCategoryRepo) Delete(_ context.Context, categoryID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[categoryID]; !ok {
		return repository.ErrNotFound
	}
	delete(r.categories, categoryID)
	return nil
}
