package httpserver

import (
	"net/http"

	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/service"
)

type createAdminRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (h *Handler) AdminUserStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Admin.UserStats(r.Context())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondOK(w, "", stats)
}

func (h *Handler) AdminOrderStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Admin.OrderStats(r.Context())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondOK(w, "", stats)
}

func (h *Handler) AdminAnalytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := h.svc.Admin.Analytics(r.Context())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondOK(w, "", analytics)
}

func (h *Handler) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.Admin.ListUsers(r.Context())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondOK(w, "", map[string]interface{}{"users": users, "count": len(users)})
}

func (h *Handler) AdminListAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := h.svc.Admin.ListAdmins(r.Context())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondOK(w, "", map[string]interface{}{"admins": admins, "count": len(admins)})
}

func (h *Handler) AdminCreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req createAdminRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	createdBy := currentAdminID(r.Context())
	h.log.Infow("HTTP CreateAdmin request received", "email", req.Email, "created_by", createdBy)

	admin, err := h.svc.Admin.CreateAdmin(r.Context(), createdBy, service.CreateAdminInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondCreated(w, "Admin created successfully", admin)
}
