package httpserver

import (
	"net/http"

	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/apperr"
	"github.com/go-chi/chi/v5"
)

type toggleBookmarkRequest struct {
	CarID string `json:"carId"`
}

func (h *Handler) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	var req toggleBookmarkRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	if req.CarID == "" {
		respondError(w, r, h.log, apperr.Validation("carId is required"))
		return
	}

	bookmarked, err := h.svc.Bookmarks.Toggle(r.Context(), currentUserID(r.Context()), req.CarID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	message := "Bookmark removed"
	if bookmarked {
		message = "Bookmark added"
	}
	respondOK(w, message, map[string]bool{"isBookmarked": bookmarked})
}

func (h *Handler) ListBookmarks(w http.ResponseWriter, r *http.Request) {
	bookmarks, err := h.svc.Bookmarks.List(r.Context(), currentUserID(r.Context()))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondOK(w, "", map[string]interface{}{"bookmarks": bookmarks, "count": len(bookmarks)})
}

func (h *Handler) CheckBookmark(w http.ResponseWriter, r *http.Request) {
	bookmarked, err := h.svc.Bookmarks.Check(r.Context(), currentUserID(r.Context()), chi.URLParam(r, "carId"))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondOK(w, "", map[string]bool{"isBookmarked": bookmarked})
}

func (h *Handler) RemoveBookmark(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Bookmarks.Remove(r.Context(), currentUserID(r.Context()), chi.URLParam(r, "carId")); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondOK(w, "Bookmark removed", nil)
}
