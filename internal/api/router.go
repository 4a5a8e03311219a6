package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ecomcore/storefront/internal/api/handlers"
	"github.com/ecomcore/storefront/internal/cache"
	"github.com/ecomcore/storefront/internal/repository"
	"github.com/ecomcore/storefront/internal/service"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Catalog       *service.CatalogService
	Orders        *service.OrderService
	Campaigns     *repository.CampaignRepo
	Products      *repository.ProductRepo
	CampaignCache *cache.CampaignCache
}

// NewRouter builds the HTTP router for the storefront service.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	catalogHandler := handlers.NewCatalogHandler(d.Catalog)
	orderHandler := handlers.NewOrderHandler(d.Orders)
	adminHandler := handlers.NewAdminHandler(d.Campaigns, d.Products, d.CampaignCache)

	// Public catalog endpoints
	r.Route("/products", func(r chi.Router) {
		r.Get("/", catalogHandler.ListProducts)
		r.Get("/watch", catalogHandler.WatchProducts)
		r.Get("/{id}", catalogHandler.GetProduct)
		r.Post("/{id}/view", catalogHandler.RecordView)
	})

	// Order endpoints
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", orderHandler.CreateOrder)
		r.Get("/", orderHandler.ListOrders)
		r.Get("/{id}", orderHandler.GetOrder)
	})

	// Admin endpoints
	r.Route("/admin", func(r chi.Router) {
		r.Route("/campaigns", func(r chi.Router) {
			r.Get("/", adminHandler.ListCampaigns)
			r.Post("/", adminHandler.CreateCampaign)
			r.Put("/{id}", adminHandler.UpdateCampaign)
			r.Delete("/{id}", adminHandler.DeleteCampaign)
		})
		r.Route("/products", func(r chi.Router) {
			r.Post("/", adminHandler.CreateProduct)
			r.Put("/{id}", adminHandler.UpdateProduct)
			r.Delete("/{id}", adminHandler.DeleteProduct)
		})
		r.Get("/reports/years", adminHandler.ReportYears)
	})

	// health
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return r
}
