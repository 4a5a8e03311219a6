// Package views keeps the per-product view counter. Counts live in a Redis
// sorted set, separate from the catalog store, so "most viewed" ordering can
// never be pushed into a catalog query; the planner fetches the top IDs from
// here and selects against the product snapshot itself.
package views

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const viewsKey = "storefront:product_views"

// Index is the read side the query planner depends on.
type Index interface {
	// Top returns up to n product IDs in descending view-count order,
	// or the whole index when n <= 0.
	Top(ctx context.Context, n int) ([]string, error)
}

// Counter is the Redis-backed Index.
type Counter struct {
	rdb *redis.Client
}

func NewCounter(rdb *redis.Client) *Counter {
	return &Counter{rdb: rdb}
}

// Record adds one view for productID.
func (c *Counter) Record(ctx context.Context, productID string) error {
	if err := c.rdb.ZIncrBy(ctx, viewsKey, 1, productID).Err(); err != nil {
		return fmt.Errorf("record view %s: %w", productID, err)
	}
	return nil
}

// Top returns up to n product IDs by descending view count; n <= 0 returns
// the whole index.
func (c *Counter) Top(ctx context.Context, n int) ([]string, error) {
	stop := int64(-1)
	if n > 0 {
		stop = int64(n - 1)
	}
	ids, err := c.rdb.ZRevRange(ctx, viewsKey, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("top viewed: %w", err)
	}
	return ids, nil
}
