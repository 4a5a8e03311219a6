// Package query translates logical product queries into catalog store
// constraints. The store accepts at most one order-by constraint per query,
// so when a request carries several filters the planner pushes one down and
// applies the rest in memory over the returned snapshot.
package query

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/ecomcore/storefront/internal/kvstore"
	"github.com/ecomcore/storefront/internal/models"
	"github.com/ecomcore/storefront/internal/views"
)

// Index field names on catalog records.
const (
	fieldNameLower = "nameLower"
	fieldCategory  = "category"
	fieldCampaign  = "campaign"
	fieldUpdatedAt = "updatedAt"
)

// ErrUnwatchable marks orderings that cannot back a live subscription.
var ErrUnwatchable = errors.New("ordering cannot be watched")

type Planner struct {
	store kvstore.Store
	views views.Index
	path  string
}

func NewPlanner(store kvstore.Store, idx views.Index, path string) *Planner {
	return &Planner{store: store, views: idx, path: path}
}

// Products resolves q against the catalog store. The result preserves store
// order (ascending by the pushed-down field, or descending view count on the
// mostViews path) and is empty but non-nil when the path holds no data.
// Malformed records are skipped, never surfaced as errors.
func (p *Planner) Products(ctx context.Context, q models.ProductQuery) ([]models.Product, error) {
	if q.OrderBy == models.OrderByMostViews {
		return p.mostViewed(ctx, q)
	}

	constraint, pushed := planConstraint(q)
	if q.Limit > 0 {
		constraint.LimitToLast = q.Limit
	}

	snap, err := p.store.Get(ctx, p.path, constraint)
	if err != nil {
		return nil, err
	}

	products := make([]models.Product, 0, len(snap))
	for _, entry := range snap {
		prod, ok := decodeProduct(entry)
		if !ok {
			continue
		}
		if matches(prod, q, pushed) {
			products = append(products, prod)
		}
	}
	return products, nil
}

// Watch subscribes to q and yields a product list for the current catalog
// state, then again after every change. The mostViews ordering lives outside
// the store and cannot be watched.
func (p *Planner) Watch(ctx context.Context, q models.ProductQuery) (<-chan []models.Product, error) {
	if q.OrderBy == models.OrderByMostViews {
		return nil, ErrUnwatchable
	}

	constraint, pushed := planConstraint(q)
	if q.Limit > 0 {
		constraint.LimitToLast = q.Limit
	}
	snapshots, err := p.store.Subscribe(ctx, p.path, constraint)
	if err != nil {
		return nil, err
	}

	out := make(chan []models.Product, 1)
	go func() {
		defer close(out)
		for snap := range snapshots {
			products := make([]models.Product, 0, len(snap))
			for _, entry := range snap {
				prod, ok := decodeProduct(entry)
				if !ok {
					continue
				}
				if matches(prod, q, pushed) {
					products = append(products, prod)
				}
			}
			select {
			case out <- products:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// pushdown identifies which predicate was given to the store, so matches can
// skip re-checking it.
type pushdown int

const (
	pushedNone pushdown = iota
	pushedSearch
	pushedCategory
	pushedCampaign
)

// planConstraint picks the store-side constraint. Priority: text search as a
// prefix range over the lowercase-name index, then category equality, then
// campaign-reference equality, then plain updatedAt ordering so the trailing
// limit keeps the most recent records.
func planConstraint(q models.ProductQuery) (kvstore.Constraint, pushdown) {
	switch {
	case q.Search != "":
		needle := strings.ToLower(q.Search)
		return kvstore.Range(fieldNameLower, needle, needle+kvstore.HighSentinel), pushedSearch
	case q.Category != "":
		return kvstore.Equal(fieldCategory, q.Category), pushedCategory
	case q.CampaignID != "":
		return kvstore.Equal(fieldCampaign, "campaign/"+q.CampaignID), pushedCampaign
	case q.OrderBy == models.OrderByUpdatedAt:
		return kvstore.Constraint{OrderBy: fieldUpdatedAt}, pushedNone
	default:
		return kvstore.None, pushedNone
	}
}

// matches applies every predicate the store did not evaluate. ExceptID is
// always local; the store has no inequality operator to push it to.
func matches(prod models.Product, q models.ProductQuery, pushed pushdown) bool {
	if q.ExceptID != "" && prod.ID == q.ExceptID {
		return false
	}
	if q.Search != "" && pushed != pushedSearch &&
		!strings.HasPrefix(prod.NameLower, strings.ToLower(q.Search)) {
		return false
	}
	if q.Category != "" && pushed != pushedCategory && prod.Category != q.Category {
		return false
	}
	if q.CampaignID != "" && pushed != pushedCampaign && prod.CampaignID() != q.CampaignID {
		return false
	}
	return true
}

// mostViewed selects by the view-count index. The counts live outside the
// catalog store, so this ordering can never be a store constraint: the top IDs
// are fetched separately, truncated to the limit there, and used as an
// allow-list over a full snapshot. The store-side limit stays off, since a
// trailing-N would truncate before the view ordering is known.
func (p *Planner) mostViewed(ctx context.Context, q models.ProductQuery) ([]models.Product, error) {
	ids, err := p.views.Top(ctx, q.Limit)
	if err != nil {
		return nil, err
	}

	snap, err := p.store.Get(ctx, p.path, kvstore.None)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Product, len(snap))
	for _, entry := range snap {
		if prod, ok := decodeProduct(entry); ok {
			byID[prod.ID] = prod
		}
	}

	products := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if id == q.ExceptID {
			continue
		}
		prod, ok := byID[id]
		if !ok {
			// counted views for a product that has since been removed
			continue
		}
		if matches(prod, q, pushedNone) {
			products = append(products, prod)
		}
	}
	return products, nil
}

func decodeProduct(entry kvstore.Entry) (models.Product, bool) {
	var prod models.Product
	if err := json.Unmarshal(entry.Value, &prod); err != nil {
		return models.Product{}, false
	}
	if prod.ID == "" {
		prod.ID = entry.Key
	}
	return prod, true
}
