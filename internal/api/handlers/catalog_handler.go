package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ecomcore/storefront/internal/models"
	"github.com/ecomcore/storefront/internal/service"
)

type CatalogHandler struct {
	catalog *service.CatalogService
}

func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// parseProductQuery maps URL query params onto a ProductQuery.
func parseProductQuery(r *http.Request) (models.ProductQuery, error) {
	q := models.ProductQuery{
		Search:     r.URL.Query().Get("search"),
		Category:   r.URL.Query().Get("category"),
		CampaignID: r.URL.Query().Get("campaign"),
		ExceptID:   r.URL.Query().Get("except"),
	}

	switch orderBy := r.URL.Query().Get("order_by"); orderBy {
	case "", models.OrderByUpdatedAt, models.OrderByMostViews:
		q.OrderBy = orderBy
	default:
		return q, fmt.Errorf("unknown order_by %q", orderBy)
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return q, fmt.Errorf("invalid limit %q", raw)
		}
		q.Limit = limit
	}
	return q, nil
}

// ListProducts handles GET /products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q, err := parseProductQuery(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	cards, err := h.catalog.Query(r.Context(), q)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_error"})
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

// GetProduct handles GET /products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	card, err := h.catalog.Product(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_error"})
		return
	}
	if card == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "product_not_found"})
		return
	}
	writeJSON(w, http.StatusOK, card)
}

// RecordView handles POST /products/{id}/view
func (h *CatalogHandler) RecordView(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.RecordView(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_error"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// WatchProducts handles GET /products/watch as a server-sent event stream;
// every catalog change pushes a fresh card list.
func (h *CatalogHandler) WatchProducts(w http.ResponseWriter, r *http.Request) {
	q, err := parseProductQuery(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "streaming_unsupported"})
		return
	}

	updates, err := h.catalog.Watch(r.Context(), q)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for cards := range updates {
		payload, err := json.Marshal(cards)
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "data: %s\n\n", payload)
		flusher.Flush()
	}
}
