package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecomcore/storefront/internal/cache"
	"github.com/ecomcore/storefront/internal/models"
)

type fakeProducts struct {
	byID map[string]*models.Product
}

func (f *fakeProducts) GetByID(_ context.Context, id string) (*models.Product, error) {
	return f.byID[id], nil
}

type fakeCampaigns struct {
	byID  map[string]*models.Campaign
	calls int
}

func (f *fakeCampaigns) GetByID(_ context.Context, id string) (*models.Campaign, error) {
	f.calls++
	return f.byID[id], nil
}

type fakeOrders struct {
	created []*models.Order
}

func (f *fakeOrders) Create(_ context.Context, o *models.Order) error {
	f.created = append(f.created, o)
	return nil
}

func (f *fakeOrders) GetByID(_ context.Context, id string) (*models.Order, error) {
	for _, o := range f.created {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, nil
}

func (f *fakeOrders) ListByUser(_ context.Context, userID string) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.created {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

type noopRefresher struct{}

func (noopRefresher) Refresh(context.Context, string) error { return nil }

func discountCampaign(id string, percent float64) *models.Campaign {
	start := "2024-01-01T00:00:00Z"
	end := "2024-12-31T23:59:59Z"
	reduction := models.FlexFloat(percent)
	return &models.Campaign{ID: id, StartDate: &start, EndDate: &end, Reduction: &reduction}
}

func newOrderService(products *fakeProducts, campaigns *fakeCampaigns, orders *fakeOrders) *OrderService {
	svc := NewOrderService(products, orders, noopRefresher{}, campaigns, cache.NewCampaignCache(time.Minute))
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestCheckoutCapturesDiscount(t *testing.T) {
	campaigns := &fakeCampaigns{byID: map[string]*models.Campaign{
		"c1": discountCampaign("c1", 10),
	}}
	products := &fakeProducts{byID: map[string]*models.Product{
		"p1": {ID: "p1", Name: "Aspirin", Price: 100, Quantity: 5, Campaign: &models.CampaignField{Ref: "c1"}},
		"p2": {ID: "p2", Name: "Bandage", Price: 50, Quantity: 5},
	}}
	orders := &fakeOrders{}
	svc := newOrderService(products, campaigns, orders)

	order, err := svc.Checkout(context.Background(), "u1", []CheckoutItem{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 1},
	})
	require.NoError(t, err)
	require.Len(t, orders.created, 1)

	assert.InDelta(t, 230.0, order.Total, 1e-9) // 100*2*0.9 + 50
	assert.InDelta(t, 10.0, order.Lines[0].Promotion, 1e-9)
	assert.Zero(t, order.Lines[1].Promotion)
}

func TestCheckoutSnapshotSurvivesCampaignEdit(t *testing.T) {
	campaigns := &fakeCampaigns{byID: map[string]*models.Campaign{
		"c1": discountCampaign("c1", 20),
	}}
	products := &fakeProducts{byID: map[string]*models.Product{
		"p1": {ID: "p1", Name: "Aspirin", Price: 100, Quantity: 5, Campaign: &models.CampaignField{Ref: "c1"}},
	}}
	orders := &fakeOrders{}
	svc := newOrderService(products, campaigns, orders)

	order, err := svc.Checkout(context.Background(), "u1", []CheckoutItem{{ProductID: "p1", Quantity: 1}})
	require.NoError(t, err)
	require.InDelta(t, 80.0, order.Total, 1e-9)

	// the campaign is edited after the fact
	campaigns.byID["c1"] = discountCampaign("c1", 90)

	stored, err := svc.Order(context.Background(), order.ID)
	require.NoError(t, err)
	assert.InDelta(t, 80.0, stored.Total, 1e-9)
	assert.InDelta(t, 20.0, stored.Lines[0].Promotion, 1e-9)
}

func TestCheckoutExpiredCampaignHasNoDiscount(t *testing.T) {
	expired := discountCampaign("c1", 20)
	end := "2024-01-31T00:00:00Z"
	expired.EndDate = &end
	campaigns := &fakeCampaigns{byID: map[string]*models.Campaign{"c1": expired}}
	products := &fakeProducts{byID: map[string]*models.Product{
		"p1": {ID: "p1", Name: "Aspirin", Price: 100, Quantity: 5, Campaign: &models.CampaignField{Ref: "c1"}},
	}}
	svc := newOrderService(products, campaigns, &fakeOrders{})

	order, err := svc.Checkout(context.Background(), "u1", []CheckoutItem{{ProductID: "p1", Quantity: 1}})
	require.NoError(t, err)
	assert.InDelta(t, 100.0, order.Total, 1e-9)
	assert.Zero(t, order.Lines[0].Promotion)
}

func TestCheckoutRejectsBadInput(t *testing.T) {
	products := &fakeProducts{byID: map[string]*models.Product{
		"p1": {ID: "p1", Name: "Aspirin", Price: 100, Quantity: 5},
	}}
	svc := newOrderService(products, &fakeCampaigns{}, &fakeOrders{})

	_, err := svc.Checkout(context.Background(), "u1", nil)
	assert.ErrorIs(t, err, ErrEmptyOrder)

	_, err = svc.Checkout(context.Background(), "u1", []CheckoutItem{{ProductID: "missing", Quantity: 1}})
	assert.ErrorIs(t, err, ErrUnknownProduct)

	_, err = svc.Checkout(context.Background(), "u1", []CheckoutItem{{ProductID: "p1", Quantity: 0}})
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}
