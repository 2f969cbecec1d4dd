package entity

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// VerificationCode is a pending one-time code sent to the user's email.
type VerificationCode struct {
	Code      string
	ExpiresAt time.Time
}

type User struct {
	ID                   string
	Email                string
	Username             string
	PasswordHash         string
	Name                 string
	Phone                string
	Role                 Role
	IsVerified           bool
	VerificationCode     *VerificationCode
	RefreshToken         string
	PasswordResetToken   string
	PasswordResetExpires *time.Time
	ProfileImage         string
	LastLogin            *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ClearResetState drops any pending password-reset token and code.
func (u *User) ClearResetState() {
	u.PasswordResetToken = ""
	u.PasswordResetExpires = nil
	u.VerificationCode = nil
}

// ProfilePatch names the profile fields to overwrite; nil means unchanged
// and an empty Phone, Username or ProfileImage clears that field.
type ProfilePatch struct {
	Name         *string
	Phone        *string
	Username     *string
	ProfileImage *string
}

// PublicUser is the client-facing projection of a user record.
type PublicUser struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Username     string     `json:"username,omitempty"`
	Name         string     `json:"name"`
	Phone        string     `json:"phone,omitempty"`
	Role         Role       `json:"role"`
	IsVerified   bool       `json:"isVerified"`
	ProfileImage string     `json:"profileImage,omitempty"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		Name:         u.Name,
		Phone:        u.Phone,
		Role:         u.Role,
		IsVerified:   u.IsVerified,
		ProfileImage: u.ProfileImage,
		LastLogin:    u.LastLogin,
		CreatedAt:    u.CreatedAt,
	}
}
