package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type verificationCodeDoc struct {
	Code      string    `bson:"code"`
	ExpiresAt time.Time `bson:"expires_at"`
}

type userDoc struct {
	ID                   primitive.ObjectID   `bson:"_id,omitempty"`
	Email                string               `bson:"email"`
	Username             string               `bson:"username,omitempty"`
	PasswordHash         string               `bson:"password_hash"`
	Name                 string               `bson:"name"`
	Phone                string               `bson:"phone,omitempty"`
	Role                 string               `bson:"role"`
	IsVerified           bool                 `bson:"is_verified"`
	VerificationCode     *verificationCodeDoc `bson:"verification_code,omitempty"`
	RefreshToken         string               `bson:"refresh_token,omitempty"`
	PasswordResetToken   string               `bson:"password_reset_token,omitempty"`
	PasswordResetExpires *time.Time           `bson:"password_reset_expires,omitempty"`
	ProfileImage         string               `bson:"profile_image,omitempty"`
	LastLogin            *time.Time           `bson:"last_login,omitempty"`
	CreatedAt            time.Time            `bson:"created_at"`
	UpdatedAt            time.Time            `bson:"updated_at"`
}

func (d *userDoc) toEntity() *entity.User {
	u := &entity.User{
		ID:                   d.ID.Hex(),
		Email:                d.Email,
		Username:             d.Username,
		PasswordHash:         d.PasswordHash,
		Name:                 d.Name,
		Phone:                d.Phone,
		Role:                 entity.Role(d.Role),
		IsVerified:           d.IsVerified,
		RefreshToken:         d.RefreshToken,
		PasswordResetToken:   d.PasswordResetToken,
		PasswordResetExpires: d.PasswordResetExpires,
		ProfileImage:         d.ProfileImage,
		LastLogin:            d.LastLogin,
		CreatedAt:            d.CreatedAt,
		UpdatedAt:            d.UpdatedAt,
	}
	if d.VerificationCode != nil {
		u.VerificationCode = &entity.VerificationCode{Code: d.VerificationCode.Code, ExpiresAt: d.VerificationCode.ExpiresAt}
	}
	return u
}

func userFromEntity(u *entity.User) *userDoc {
	d := &userDoc{
		Email:                u.Email,
		Username:             u.Username,
		PasswordHash:         u.PasswordHash,
		Name:                 u.Name,
		Phone:                u.Phone,
		Role:                 string(u.Role),
		IsVerified:           u.IsVerified,
		RefreshToken:         u.RefreshToken,
		PasswordResetToken:   u.PasswordResetToken,
		PasswordResetExpires: u.PasswordResetExpires,
		ProfileImage:         u.ProfileImage,
		LastLogin:            u.LastLogin,
		CreatedAt:            u.CreatedAt,
		UpdatedAt:            u.UpdatedAt,
	}
	if u.ID != "" {
		if objID, err := primitive.ObjectIDFromHex(u.ID); err == nil {
			d.ID = objID
		}
	}
	if u.VerificationCode != nil {
		d.VerificationCode = &verificationCodeDoc{Code: u.VerificationCode.Code, ExpiresAt: u.VerificationCode.ExpiresAt}
	}
	return d
}

type userRepository struct {
	collection *mongo.Collection
	log        logger.Logger
}

func NewUserRepository(db *mongo.Database, log logger.Logger) repository.UserRepository {
	return &userRepository{
		collection: db.Collection(usersCollection),
		log:        log.Named("UserRepository"),
	}
}

func duplicateKeyError(err error) error {
	var writeException mongo.WriteException
	if errors.As(err, &writeException) {
		for _, writeError := range writeException.WriteErrors {
			if writeError.Code != 11000 {
				continue
			}
			switch {
			case strings.Contains(writeError.Message, "email_1"):
				return repository.ErrDuplicateEmail
			case strings.Contains(writeError.Message, "username_1"):
				return repository.ErrDuplicateUsername
			}
		}
	}
	if mongo.IsDuplicateKeyError(err) {
		return repository.ErrAlreadyExists
	}
	return nil
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) (string, error) {
	doc := userFromEntity(user)
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if dupErr := duplicateKeyError(err); dupErr != nil {
			r.log.Warnw("Duplicate key on user insert", "email", user.Email, "error", err)
			return "", dupErr
		}
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	user.ID = doc.ID.Hex()
	user.CreatedAt = now
	user.UpdatedAt = now
	return user.ID, nil
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (*entity.User, error) {
	var doc userDoc
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return doc.toEntity(), nil
}

func (r *userRepository) GetByID(ctx context.Context, userID string) (*entity.User, error) {
	objID, err := toObjectID(userID)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": objID})
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
}

func (r *userRepository) GetAdminByIdentifier(ctx context.Context, identifier string) (*entity.User, error) {
	identifier = strings.TrimSpace(identifier)
	return r.findOne(ctx, bson.M{
		"role": string(entity.RoleAdmin),
		"$or": bson.A{
			bson.M{"username": identifier},
			bson.M{"email": strings.ToLower(identifier)},
		},
	})
}

// fieldUpdate collects $set and $unset operands for a scoped user write.
type fieldUpdate struct {
	set   bson.M
	unset bson.M
}

func newFieldUpdate() *fieldUpdate {
	return &fieldUpdate{set: bson.M{"updated_at": time.Now().UTC()}, unset: bson.M{}}
}

func (u *fieldUpdate) setOrUnset(key string, value interface{}, present bool) {
	if present {
		u.set[key] = value
		return
	}
	u.unset[key] = ""
}

func (u *fieldUpdate) document() bson.M {
	update := bson.M{"$set": u.set}
	if len(u.unset) > 0 {
		update["$unset"] = u.unset
	}
	return update
}

func (r *userRepository) updateOne(ctx context.Context, userID, op string, upd *fieldUpdate) error {
	objID, err := toObjectID(userID)
	if err != nil {
		return repository.ErrNotFound
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, upd.document())
	if err != nil {
		if dupErr := duplicateKeyError(err); dupErr != nil {
			return dupErr
		}
		return fmt.Errorf("failed to %s for user %s: %w", op, userID, err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, userID string, patch entity.ProfilePatch) (*entity.User, error) {
	objID, err := toObjectID(userID)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	upd := newFieldUpdate()
	if patch.Name != nil {
		upd.set["name"] = *patch.Name
	}
	if patch.Phone != nil {
		upd.setOrUnset("phone", *patch.Phone, *patch.Phone != "")
	}
	if patch.Username != nil {
		upd.setOrUnset("username", *patch.Username, *patch.Username != "")
	}
	if patch.ProfileImage != nil {
		upd.setOrUnset("profile_image", *patch.ProfileImage, *patch.ProfileImage != "")
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc userDoc
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, upd.document(), opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		if dupErr := duplicateKeyError(err); dupErr != nil {
			r.log.Warnw("Duplicate key on profile update", "user_id", userID, "error", err)
			return nil, dupErr
		}
		return nil, fmt.Errorf("failed to update profile of user %s: %w", userID, err)
	}
	return doc.toEntity(), nil
}

func (r *userRepository) SaveVerificationState(ctx context.Context, user *entity.User) error {
	upd := newFieldUpdate()
	upd.set["is_verified"] = user.IsVerified
	var code *verificationCodeDoc
	if user.VerificationCode != nil {
		code = &verificationCodeDoc{Code: user.VerificationCode.Code, ExpiresAt: user.VerificationCode.ExpiresAt}
	}
	upd.setOrUnset("verification_code", code, code != nil)
	upd.setOrUnset("password_reset_token", user.PasswordResetToken, user.PasswordResetToken != "")
	upd.setOrUnset("password_reset_expires", user.PasswordResetExpires, user.PasswordResetExpires != nil)
	return r.updateOne(ctx, user.ID, "save verification state", upd)
}

func (r *userRepository) StartSession(ctx context.Context, userID, refreshToken string, at time.Time) error {
	upd := newFieldUpdate()
	upd.set["refresh_token"] = refreshToken
	upd.set["last_login"] = at.UTC()
	return r.updateOne(ctx, userID, "start session", upd)
}

func (r *userRepository) SetLastLogin(ctx context.Context, userID string, at time.Time) error {
	upd := newFieldUpdate()
	upd.set["last_login"] = at.UTC()
	return r.updateOne(ctx, userID, "set last login", upd)
}

func (r *userRepository) SetPassword(ctx context.Context, userID, hash string, clearReset bool) error {
	upd := newFieldUpdate()
	upd.set["password_hash"] = hash
	upd.unset["refresh_token"] = ""
	if clearReset {
		upd.unset["verification_code"] = ""
		upd.unset["password_reset_token"] = ""
		upd.unset["password_reset_expires"] = ""
	}
	return r.updateOne(ctx, userID, "set password", upd)
}

func (r *userRepository) SetRefreshToken(ctx context.Context, userID, token string) error {
	upd := newFieldUpdate()
	upd.setOrUnset("refresh_token", token, token != "")
	return r.updateOne(ctx, userID, "set refresh token", upd)
}

func (r *userRepository) ListByRole(ctx context.Context, role entity.Role) ([]entity.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"role": string(role)}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []userDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	users := make([]entity.User, 0, len(docs))
	for i := range docs {
		users = append(users, *docs[i].toEntity())
	}
	return users, nil
}

func (r *userRepository) Count(ctx context.Context, filter repository.UserCountFilter) (int64, error) {
	query := bson.M{}
	if filter.Role != "" {
		query["role"] = string(filter.Role)
	}
	if filter.Verified != nil {
		query["is_verified"] = *filter.Verified
	}
	if filter.CreatedSince != nil {
		query["created_at"] = bson.M{"$gte": *filter.CreatedSince}
	}
	count, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
