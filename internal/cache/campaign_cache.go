package cache

import (
	"sync"
	"time"

	"github.com/ecomcore/storefront/internal/models"
)

// CampaignCache keeps resolved campaign records for product-card assembly.
// Entries expire after a TTL; admin writes invalidate eagerly so a campaign
// edit shows up on the next render.
type CampaignCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry
}

type entry struct {
	campaign  *models.Campaign
	expiresAt time.Time
}

func NewCampaignCache(ttl time.Duration) *CampaignCache {
	return &CampaignCache{
		ttl:     ttl,
		entries: make(map[string]entry),
	}
}

func (c *CampaignCache) Get(id string) (*models.Campaign, bool) {
	c.mu.RLock()
	e, ok := c.entries[id]
	c.mu.RUnlock()
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.campaign, true
}

// Set stores a campaign; a nil campaign is cached too, so repeated lookups of
// a dangling reference do not hit the database every render.
func (c *CampaignCache) Set(id string, campaign *models.Campaign) {
	c.mu.Lock()
	c.entries[id] = entry{campaign: campaign, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

func (c *CampaignCache) Invalidate(id string) {
	c.mu.Lock()
	delete(c.entries, id)
	c.mu.Unlock()
}
