package httpserver

import (
	"net/http"
	"strings"

	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/apperr"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/service"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type verifyCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type adminLoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	User        entity.PublicUser `json:"user"`
	AccessToken string            `json:"accessToken"`
}

func (h *Handler) startSession(w http.ResponseWriter, result *service.AuthResult) sessionResponse {
	h.cookies.set(w, accessCookie, result.AccessToken)
	h.cookies.set(w, refreshCookie, result.RefreshToken)
	return sessionResponse{User: result.User, AccessToken: result.AccessToken}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	h.log.Infow("HTTP Register request received", "email", req.Email)

	user, err := h.svc.Auth.Register(r.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Phone:    req.Phone,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondCreated(w, "Registration successful. Please check your email for the verification code.", user)
}

func (h *Handler) SendCode(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	if err := h.svc.Auth.SendCode(r.Context(), req.Email); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondOK(w, "Verification code sent to your email", nil)
}

func (h *Handler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var req verifyCodeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	result, err := h.svc.Auth.VerifyCode(r.Context(), req.Email, req.Code)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondOK(w, "Email verified successfully", h.startSession(w, result))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	result, err := h.svc.Auth.Login(r.Context(), req.Email, req.Password, r.RemoteAddr)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondOK(w, "Login successful", h.startSession(w, result))
}

// RefreshToken rotates the session. The cookie wins over a body token.
func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	token := cookieValue(r, refreshCookie)
	if token == "" && r.ContentLength != 0 {
		var req refreshRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, r, h.log, err)
			return
		}
		token = req.RefreshToken
	}
	if token == "" {
		respondError(w, r, h.log, apperr.ErrMissingToken)
		return
	}

	result, err := h.svc.Auth.Refresh(r.Context(), token)
	if err != nil {
		h.cookies.clear(w, accessCookie, refreshCookie)
		respondError(w, r, h.log, err)
		return
	}
	respondOK(w, "Token refreshed", h.startSession(w, result))
}

func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	if err := h.svc.Auth.ForgotPassword(r.Context(), req.Email); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondOK(w, "Password reset code sent to your email", nil)
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	if err := h.svc.Auth.ResetPassword(r.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondOK(w, "Password reset successful. Please log in with your new password.", nil)
}

func (h *Handler) AuthStatus(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	respondOK(w, "", map[string]interface{}{
		"authenticated": true,
		"user":          user.Public(),
	})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.Auth.CurrentUser(r.Context(), currentUserID(r.Context()))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondOK(w, "", user)
}

// ChangePassword ends the current session along with the stored refresh token.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	if err := h.svc.Auth.ChangePassword(r.Context(), currentUserID(r.Context()), req.CurrentPassword, req.NewPassword); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	h.cookies.clear(w, accessCookie, refreshCookie)
	respondOK(w, "Password changed successfully. Please log in again.", nil)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Auth.Logout(r.Context(), currentUserID(r.Context())); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	h.cookies.clear(w, accessCookie, refreshCookie)
	respondOK(w, "Logged out successfully", nil)
}

func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	identifier := strings.TrimSpace(req.Username)
	if identifier == "" {
		identifier = strings.TrimSpace(req.Email)
	}
	if identifier == "" || req.Password == "" {
		respondError(w, r, h.log, apperr.Validation("username or email and password are required"))
		return
	}

	result, err := h.svc.Auth.AdminLogin(r.Context(), identifier, req.Password, r.RemoteAddr)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	h.cookies.set(w, adminCookie, result.AdminToken)
	respondOK(w, "Admin login successful", map[string]interface{}{"admin": result.User})
}

func (h *Handler) AdminLogout(w http.ResponseWriter, r *http.Request) {
	h.cookies.clear(w, adminCookie)
	respondOK(w, "Admin logged out successfully", nil)
}
