package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ecomcore/storefront/internal/cache"
	"github.com/ecomcore/storefront/internal/models"
	"github.com/ecomcore/storefront/internal/pricing"
	"github.com/ecomcore/storefront/internal/promotion"
)

var (
	ErrEmptyOrder      = errors.New("order has no items")
	ErrUnknownProduct  = errors.New("unknown product")
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// OrderStore persists orders atomically, stock decrement included.
type OrderStore interface {
	Create(ctx context.Context, o *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
}

// CatalogRefresher republishes a product to the catalog store after its row
// changed outside the product write path.
type CatalogRefresher interface {
	Refresh(ctx context.Context, id string) error
}

// CheckoutItem is one requested position.
type CheckoutItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type OrderService struct {
	products  ProductSource
	orders    OrderStore
	refresher CatalogRefresher
	resolver  campaignResolver
	now       func() time.Time
}

func NewOrderService(products ProductSource, orders OrderStore, refresher CatalogRefresher, campaigns CampaignLookup, campaignCache *cache.CampaignCache) *OrderService {
	return &OrderService{
		products:  products,
		orders:    orders,
		refresher: refresher,
		resolver:  campaignResolver{lookup: campaigns, cache: campaignCache},
		now:       time.Now,
	}
}

// Checkout builds and persists an order. Each line captures the product's
// price and the discount percentage in force right now; the stored snapshot
// never changes when the campaign later ends or is edited.
func (s *OrderService) Checkout(ctx context.Context, userID string, items []CheckoutItem) (*models.Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}

	now := s.now()
	lines := make([]models.OrderLine, 0, len(items))
	priced := make([]pricing.Line, 0, len(items))

	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("product %s: %w", item.ProductID, ErrInvalidQuantity)
		}
		p, err := s.products.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("product %s: %w", item.ProductID, ErrUnknownProduct)
		}

		percent := 0.0
		campaign, err := s.resolver.resolve(ctx, p)
		if err != nil {
			return nil, err
		}
		if promotion.Evaluate(campaign, now).Discounted() {
			percent = campaign.ReductionPercent()
		}

		lines = append(lines, models.OrderLine{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  item.Quantity,
			Promotion: percent,
		})
		priced = append(priced, pricing.Line{
			Price:            p.Price,
			Quantity:         item.Quantity,
			ReductionPercent: percent,
		})
	}

	order := &models.Order{
		ID:        uuid.NewString(),
		UserID:    userID,
		Lines:     lines,
		Total:     pricing.OrderTotal(priced),
		CreatedAt: now,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	for _, line := range lines {
		if err := s.refresher.Refresh(ctx, line.ProductID); err != nil {
			// the row committed; only the live mirror is stale
			log.Warn().Err(err).Str("product_id", line.ProductID).Msg("catalog refresh failed")
		}
	}
	return order, nil
}

// Order returns nil, nil when no order exists with that id.
func (s *OrderService) Order(ctx context.Context, id string) (*models.Order, error) {
	return s.orders.GetByID(ctx, id)
}

// OrdersForUser returns a user's order history, newest first.
func (s *OrderService) OrdersForUser(ctx context.Context, userID string) ([]models.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}
