package service

import (
	"context"

	"github.com/ecomcore/storefront/internal/cache"
	"github.com/ecomcore/storefront/internal/models"
)

// CampaignLookup is the slice of the campaign repository the services need.
type CampaignLookup interface {
	GetByID(ctx context.Context, id string) (*models.Campaign, error)
}

// campaignResolver normalizes the two campaign attachment shapes: embedded
// records are returned as-is, references are resolved through the cache and,
// on a miss, the repository. A dangling reference resolves to nil, which the
// evaluator treats as inactive.
type campaignResolver struct {
	lookup CampaignLookup
	cache  *cache.CampaignCache
}

func (r *campaignResolver) resolve(ctx context.Context, p *models.Product) (*models.Campaign, error) {
	if p.Campaign == nil || p.Campaign.IsZero() {
		return nil, nil
	}
	if p.Campaign.Embedded != nil {
		return p.Campaign.Embedded, nil
	}
	if c, ok := r.cache.Get(p.Campaign.Ref); ok {
		return c, nil
	}
	c, err := r.lookup.GetByID(ctx, p.Campaign.Ref)
	if err != nil {
		return nil, err
	}
	r.cache.Set(p.Campaign.Ref, c)
	return c, nil
}
