package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error is an operational error whose Message is safe to show to clients.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches two *Error values by Code, so wrapped sentinels compare equal.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code != "" && e.Code == t.Code
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Wrap returns a copy of sentinel with err attached as the cause.
func Wrap(sentinel *Error, err error) *Error {
	return &Error{Kind: sentinel.Kind, Code: sentinel.Code, Message: sentinel.Message, Err: err}
}

// WithMessage returns a copy of sentinel with a more specific display message.
func WithMessage(sentinel *Error, message string) *Error {
	return &Error{Kind: sentinel.Kind, Code: sentinel.Code, Message: message}
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Code: "validation_failed", Message: message}
}

// KindOf reports the kind of the first *Error in err's chain, KindInternal otherwise.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

var (
	ErrInvalidToken    = New(KindUnauthenticated, "invalid_token", "invalid token")
	ErrExpiredToken    = New(KindUnauthenticated, "expired_token", "token has expired")
	ErrMissingToken    = New(KindUnauthenticated, "missing_token", "authentication required")
	ErrBadCredential   = New(KindUnauthenticated, "bad_credential", "email or password is incorrect")
	ErrWrongPassword   = New(KindValidation, "wrong_password", "current password is incorrect")
	ErrNotVerified     = New(KindForbidden, "not_verified", "email verification required")
	ErrForbidden       = New(KindForbidden, "forbidden", "insufficient permissions")
	ErrUserNotFound    = New(KindNotFound, "user_not_found", "user not found")
	ErrEmailTaken      = New(KindValidation, "email_taken", "email is already registered")
	ErrUsernameTaken   = New(KindConflict, "username_taken", "username is already taken")
	ErrInvalidCode     = New(KindValidation, "invalid_code", "invalid or expired code")
	ErrAlreadyVerified = New(KindValidation, "already_verified", "email is already verified")
	ErrDeliveryFailed  = New(KindInternal, "delivery_failed", "failed to send email")

	ErrVehicleNotFound  = New(KindNotFound, "vehicle_not_found", "vehicle not found")
	ErrUnavailable      = New(KindValidation, "vehicle_unavailable", "vehicle is not available")
	ErrCategoryNotFound = New(KindNotFound, "category_not_found", "category not found")
	ErrCategoryExists   = New(KindConflict, "category_exists", "category name already exists")
	ErrCategoryInUse    = New(KindConflict, "category_in_use", "category still has vehicles")

	ErrInvalidQuantity  = New(KindValidation, "invalid_quantity", "quantity must be at least 1")
	ErrCartItemNotFound = New(KindNotFound, "cart_item_not_found", "item not found in cart")
	ErrEmptyCart        = New(KindValidation, "empty_cart", "cart is empty")
	ErrOrderNotFound    = New(KindNotFound, "order_not_found", "order not found")
	ErrNotCancellable   = New(KindValidation, "not_cancellable", "order cannot be cancelled")
	ErrInvalidStatus    = New(KindValidation, "invalid_status", "invalid order status")

	ErrBookmarkNotFound = New(KindNotFound, "bookmark_not_found", "bookmark not found")

	ErrUnsupportedImage = New(KindValidation, "unsupported_image", "only jpeg, png and webp images up to 5MB are allowed")
)

// VehicleUnavailableError names the vehicle that blocked a checkout.
type VehicleUnavailableError struct {
	VehicleID string
	Name      string
}

func (e *VehicleUnavailableError) Error() string {
	return fmt.Sprintf("vehicle %s is no longer available", e.Name)
}

func (e *VehicleUnavailableError) Is(target error) bool {
	return target == ErrUnavailable
}

// As exposes the error as a validation *Error carrying the vehicle name.
func (e *VehicleUnavailableError) As(target interface{}) bool {
	if t, ok := target.(**Error); ok {
		*t = &Error{Kind: KindValidation, Code: ErrUnavailable.Code, Message: e.Error()}
		return true
	}
	return false
}
