package httpserver

import (
	"net/http"

	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/apperr"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/service"
)

const profileImageField = "profileImage"

type profileUpdateRequest struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Username *string `json:"username"`
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.Profiles.Get(r.Context(), currentUserID(r.Context()))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondOK(w, "", user)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	user, err := h.svc.Profiles.Update(r.Context(), currentUserID(r.Context()), service.ProfileUpdate{
		Name:     req.Name,
		Phone:    req.Phone,
		Username: req.Username,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondOK(w, "Profile updated successfully", user)
}

func (h *Handler) UploadProfileImage(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(w, r, 1); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	headers := r.MultipartForm.File[profileImageField]
	if len(headers) == 0 {
		respondError(w, r, h.log, apperr.Validation("profileImage file is required"))
		return
	}
	data, err := readFormFile(headers[0])
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	user, err := h.svc.Profiles.UploadImage(r.Context(), currentUserID(r.Context()), data)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondOK(w, "Profile image uploaded successfully", user)
}
