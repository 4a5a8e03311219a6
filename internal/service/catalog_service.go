package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ecomcore/storefront/internal/cache"
	"github.com/ecomcore/storefront/internal/concurrency"
	"github.com/ecomcore/storefront/internal/models"
	"github.com/ecomcore/storefront/internal/pricing"
	"github.com/ecomcore/storefront/internal/promotion"
	"github.com/ecomcore/storefront/internal/query"
)

const cardWorkers = 4

// ProductSource is the slice of the product repository the services need.
type ProductSource interface {
	GetByID(ctx context.Context, id string) (*models.Product, error)
}

// ViewRecorder counts product detail views.
type ViewRecorder interface {
	Record(ctx context.Context, productID string) error
}

// ProductCard is a product prepared for display: campaign resolved, promotion
// state evaluated, sale price computed. Status is a point-in-time answer;
// countdown UIs request fresh cards each tick.
type ProductCard struct {
	models.Product
	Status    promotion.Status `json:"status"`
	Reduction float64          `json:"reduction"`
	SalePrice float64          `json:"sale_price"`
}

type CatalogService struct {
	planner  *query.Planner
	products ProductSource
	resolver campaignResolver
	viewsRec ViewRecorder
	now      func() time.Time
}

func NewCatalogService(planner *query.Planner, products ProductSource, campaigns CampaignLookup, campaignCache *cache.CampaignCache, viewsRec ViewRecorder) *CatalogService {
	return &CatalogService{
		planner:  planner,
		products: products,
		resolver: campaignResolver{lookup: campaigns, cache: campaignCache},
		viewsRec: viewsRec,
		now:      time.Now,
	}
}

// Query resolves q and builds a card per product, preserving planner order.
// Campaign resolution per card fans out over a small worker pool; most cards
// hit the campaign cache.
func (s *CatalogService) Query(ctx context.Context, q models.ProductQuery) ([]ProductCard, error) {
	products, err := s.planner.Products(ctx, q)
	if err != nil {
		return nil, err
	}
	return s.buildCards(ctx, products), nil
}

// Product returns the card for one product, or nil when it does not exist.
func (s *CatalogService) Product(ctx context.Context, id string) (*ProductCard, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}
	card := s.buildCard(ctx, *p)
	return &card, nil
}

// RecordView counts a product detail view for the most-viewed index.
func (s *CatalogService) RecordView(ctx context.Context, productID string) error {
	return s.viewsRec.Record(ctx, productID)
}

// Watch streams cards for q; a new slice arrives after every catalog change.
func (s *CatalogService) Watch(ctx context.Context, q models.ProductQuery) (<-chan []ProductCard, error) {
	snapshots, err := s.planner.Watch(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make(chan []ProductCard, 1)
	go func() {
		defer close(out)
		for products := range snapshots {
			select {
			case out <- s.buildCards(ctx, products):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (s *CatalogService) buildCards(ctx context.Context, products []models.Product) []ProductCard {
	cards := make([]ProductCard, len(products))
	concurrency.ForEach(ctx, cardWorkers, len(products), func(ctx context.Context, i int) {
		cards[i] = s.buildCard(ctx, products[i])
	})
	return cards
}

func (s *CatalogService) buildCard(ctx context.Context, p models.Product) ProductCard {
	card := ProductCard{Product: p, Status: promotion.StatusInactive, SalePrice: p.Price}

	campaign, err := s.resolver.resolve(ctx, &p)
	if err != nil {
		// a failed lookup degrades to "no promotion shown"
		log.Warn().Err(err).Str("product_id", p.ID).Msg("campaign lookup failed")
		return card
	}

	card.Status = promotion.Evaluate(campaign, s.now())
	if card.Status.Discounted() {
		card.Reduction = campaign.ReductionPercent()
		card.SalePrice = pricing.DiscountedUnitPrice(p.Price, card.Reduction)
	}
	return card
}
