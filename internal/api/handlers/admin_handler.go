package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ecomcore/storefront/internal/cache"
	"github.com/ecomcore/storefront/internal/models"
	"github.com/ecomcore/storefront/internal/repository"
)

// storefrontFoundedYear bounds the report year dropdown.
const storefrontFoundedYear = 2020

// --- Request DTOs ---

type CampaignRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Photo       string   `json:"photo,omitempty"`
	StartDate   *string  `json:"start_date,omitempty"`
	EndDate     *string  `json:"end_date,omitempty"`
	Reduction   *float64 `json:"reduction,omitempty"`
}

type ProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Photo       string  `json:"photo,omitempty"`
	CampaignID  string  `json:"campaign_id,omitempty"`
}

type AdminHandler struct {
	campaigns     *repository.CampaignRepo
	products      *repository.ProductRepo
	campaignCache *cache.CampaignCache
}

func NewAdminHandler(campaigns *repository.CampaignRepo, products *repository.ProductRepo, campaignCache *cache.CampaignCache) *AdminHandler {
	return &AdminHandler{campaigns: campaigns, products: products, campaignCache: campaignCache}
}

// validate rejects what the read side would only silently degrade on: the
// authoring boundary is the one place where a bad window or an out-of-range
// reduction should be an error instead of an invisible campaign.
func (req *CampaignRequest) validate() string {
	if req.Title == "" {
		return "title required"
	}
	if req.Reduction != nil && (*req.Reduction < 0 || *req.Reduction > 100) {
		return "reduction must be between 0 and 100"
	}
	for _, d := range []*string{req.StartDate, req.EndDate} {
		if d == nil {
			continue
		}
		if _, err := time.Parse(time.RFC3339, *d); err != nil {
			if _, err := time.Parse("2006-01-02", *d); err != nil {
				return "dates must be RFC3339 or YYYY-MM-DD"
			}
		}
	}
	return ""
}

func (req *CampaignRequest) toModel(id string) *models.Campaign {
	c := &models.Campaign{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		Photo:       req.Photo,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}
	if req.Reduction != nil {
		f := models.FlexFloat(*req.Reduction)
		c.Reduction = &f
	}
	return c
}

// CreateCampaign handles POST /admin/campaigns
func (h *AdminHandler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req CampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_body"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	c := req.toModel(uuid.NewString())
	if err := h.campaigns.Create(r.Context(), c); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_error"})
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// UpdateCampaign handles PUT /admin/campaigns/{id}
func (h *AdminHandler) UpdateCampaign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req CampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_body"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	c := req.toModel(id)
	if err := h.campaigns.Update(r.Context(), c); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "campaign_not_found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_error"})
		return
	}
	h.campaignCache.Invalidate(id)
	writeJSON(w, http.StatusOK, c)
}

// DeleteCampaign handles DELETE /admin/campaigns/{id}
func (h *AdminHandler) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.campaigns.Delete(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "campaign_not_found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_error"})
		return
	}
	h.campaignCache.Invalidate(id)
	w.WriteHeader(http.StatusNoContent)
}

// ListCampaigns handles GET /admin/campaigns
func (h *AdminHandler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.campaigns.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_error"})
		return
	}
	if campaigns == nil {
		campaigns = []models.Campaign{}
	}
	writeJSON(w, http.StatusOK, campaigns)
}

func (req *ProductRequest) validate() string {
	if req.Name == "" {
		return "name required"
	}
	if req.Price < 0 {
		return "price must not be negative"
	}
	if req.Quantity < 0 {
		return "quantity must not be negative"
	}
	return ""
}

func (req *ProductRequest) toModel(id string) *models.Product {
	p := &models.Product{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Photo:       req.Photo,
	}
	if req.CampaignID != "" {
		p.Campaign = &models.CampaignField{Ref: req.CampaignID}
	}
	return p
}

// CreateProduct handles POST /admin/products
func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_body"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	p := req.toModel(uuid.NewString())
	if err := h.products.Create(r.Context(), p); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_error"})
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// UpdateProduct handles PUT /admin/products/{id}
func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_body"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	p := req.toModel(id)
	if err := h.products.Update(r.Context(), p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "product_not_found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_error"})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeleteProduct handles DELETE /admin/products/{id}
func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "product_not_found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_error"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReportYears handles GET /admin/reports/years
func (h *AdminHandler) ReportYears(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, yearOptions(time.Now().Year()))
}

// yearOptions lists selectable report years up to currentYear. Computed per
// request; there is no process-wide cache to go stale at new year.
func yearOptions(currentYear int) []int {
	if currentYear < storefrontFoundedYear {
		return []int{storefrontFoundedYear}
	}
	years := make([]int, 0, currentYear-storefrontFoundedYear+1)
	for y := storefrontFoundedYear; y <= currentYear; y++ {
		years = append(years, y)
	}
	return years
}
