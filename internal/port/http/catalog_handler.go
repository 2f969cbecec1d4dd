package httpserver

import (
	"fmt"
	"net/http"

	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/adapter/storage/minio"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/apperr"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/service"
	"github.com/go-chi/chi/v5"
)

type vehicleRequest struct {
	Brand       string         `json:"brand"`
	Model       string         `json:"model"`
	Year        int            `json:"year"`
	Price       float64        `json:"price"`
	Engine      string         `json:"engine"`
	Color       string         `json:"color"`
	Distance    int            `json:"distance"`
	Gearbox     entity.Gearbox `json:"gearbox"`
	Tinting     string         `json:"tinting"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	IsAvailable *bool          `json:"isAvailable"`
}

type vehiclePatchRequest struct {
	Brand       *string         `json:"brand"`
	Model       *string         `json:"model"`
	Year        *int            `json:"year"`
	Price       *float64        `json:"price"`
	Engine      *string         `json:"engine"`
	Color       *string         `json:"color"`
	Distance    *int            `json:"distance"`
	Gearbox     *entity.Gearbox `json:"gearbox"`
	Tinting     *string         `json:"tinting"`
	Description *string         `json:"description"`
	Category    *string         `json:"category"`
	IsAvailable *bool           `json:"isAvailable"`
}

type bulkUpdateRequest struct {
	CarIDs  []string `json:"carIds"`
	Updates struct {
		IsAvailable *bool    `json:"isAvailable"`
		Price       *float64 `json:"price"`
		Category    *string  `json:"category"`
	} `json:"updates"`
}

type bulkDeleteRequest struct {
	CarIDs []string `json:"carIds"`
}

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	IsActive    *bool  `json:"isActive"`
}

type categoryPatchRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	IsActive    *bool   `json:"isActive"`
}

func (h *Handler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	filter, err := parseVehicleFilter(r.URL.Query())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	page, err := h.svc.Vehicles.List(r.Context(), filter)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondOK(w, "", page)
}

func (h *Handler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	vehicle, err := h.svc.Vehicles.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondOK(w, "", vehicle)
}

func (h *Handler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var req vehicleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	vehicle, err := h.svc.Vehicles.Create(r.Context(), currentAdminID(r.Context()), service.VehicleInput{
		Brand:       req.Brand,
		Model:       req.Model,
		Year:        req.Year,
		Price:       req.Price,
		Engine:      req.Engine,
		Color:       req.Color,
		Distance:    req.Distance,
		Gearbox:     req.Gearbox,
		Tinting:     req.Tinting,
		Description: req.Description,
		CategoryID:  req.Category,
		IsAvailable: req.IsAvailable,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondCreated(w, "Car created successfully", vehicle)
}

func (h *Handler) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	var req vehiclePatchRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	vehicle, err := h.svc.Vehicles.Update(r.Context(), chi.URLParam(r, "id"), entity.VehiclePatch{
		Brand:       req.Brand,
		Model:       req.Model,
		Year:        req.Year,
		Price:       req.Price,
		Engine:      req.Engine,
		Color:       req.Color,
		Distance:    req.Distance,
		Gearbox:     req.Gearbox,
		Tinting:     req.Tinting,
		Description: req.Description,
		CategoryID:  req.Category,
		IsAvailable: req.IsAvailable,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondOK(w, "Car updated successfully", vehicle)
}

func (h *Handler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Vehicles.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondOK(w, "Car deleted successfully", nil)
}

func (h *Handler) BulkUpdateVehicles(w http.ResponseWriter, r *http.Request) {
	var req bulkUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	modified, err := h.svc.Vehicles.BulkUpdate(r.Context(), req.CarIDs, service.BulkVehicleUpdate{
		IsAvailable: req.Updates.IsAvailable,
		Price:       req.Updates.Price,
		CategoryID:  req.Updates.Category,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondOK(w, fmt.Sprintf("%d cars updated", modified), map[string]int64{"modifiedCount": modified})
}

func (h *Handler) BulkDeleteVehicles(w http.ResponseWriter, r *http.Request) {
	var req bulkDeleteRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	deleted, err := h.svc.Vehicles.BulkDelete(r.Context(), req.CarIDs)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondOK(w, fmt.Sprintf("%d cars deleted", deleted), map[string]int64{"deletedCount": deleted})
}

// UploadVehicleImages accepts multipart fields named after the image slots.
func (h *Handler) UploadVehicleImages(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(w, r, minio.MaxImageFiles); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	files := make(map[string][]byte)
	for _, slot := range []string{service.SlotExterior, service.SlotInterior, service.SlotModelType} {
		headers := r.MultipartForm.File[slot]
		if len(headers) == 0 {
			continue
		}
		data, err := readFormFile(headers[0])
		if err != nil {
			respondError(w, r, h.log, err)
			return
		}
		files[slot] = data
	}
	for field := range r.MultipartForm.File {
		if _, ok := files[field]; !ok {
			respondError(w, r, h.log, apperr.Validation(fmt.Sprintf("unknown image slot %q", field)))
			return
		}
	}

	vehicle, err := h.svc.Vehicles.UploadImages(r.Context(), chi.URLParam(r, "id"), files)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondOK(w, "Images uploaded successfully", vehicle)
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	activeOnly, page, err := parseCategoryQuery(r.URL.Query())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	result, err := h.svc.Categories.List(r.Context(), activeOnly, page)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondOK(w, "", result)
}

func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	category, err := h.svc.Categories.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondOK(w, "", category)
}

func (h *Handler) CategoryVehicles(w http.ResponseWriter, r *http.Request) {
	filter, err := parseVehicleFilter(r.URL.Query())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	category, page, err := h.svc.Categories.Vehicles(r.Context(), chi.URLParam(r, "id"), filter)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondOK(w, "", map[string]interface{}{
		"category":   category,
		"cars":       page.Vehicles,
		"pagination": page.Meta,
	})
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	category, err := h.svc.Categories.Create(r.Context(), currentAdminID(r.Context()), service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondCreated(w, "Category created successfully", category)
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	category, err := h.svc.Categories.Update(r.Context(), chi.URLParam(r, "id"), entity.CategoryPatch{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondOK(w, "Category updated successfully", category)
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Categories.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondOK(w, "Category deleted successfully", nil)
}
