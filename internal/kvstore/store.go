// Package kvstore defines the ordered key-value store the catalog is served
// from. The store speaks paths of JSON records and supports at most one
// order-by constraint per query, a trailing limit, and push subscriptions that
// fire on the initial value and on every subsequent change. Compound
// predicates and full-text search do not exist at this layer; callers that
// need them filter in memory after retrieval.
package kvstore

import (
	"context"
	"encoding/json"
)

// HighSentinel is the highest-codepoint character used to close a prefix
// range: ordering by a string field over [q, q+HighSentinel] captures every
// value that starts with q.
const HighSentinel = "\uf8ff"

// Constraint is the zero-or-one filter a single query may push to the store.
// OrderBy names the record field the store sorts by; EqualTo and
// StartAt/EndAt are mutually exclusive refinements over that field, both ends
// inclusive. LimitToLast keeps the last N entries in ascending field/key
// order; the store never reverses.
type Constraint struct {
	OrderBy     string
	EqualTo     *string
	StartAt     *string
	EndAt       *string
	LimitToLast int
}

// None is the unconstrained query.
var None = Constraint{}

// Equal constrains OrderBy == value.
func Equal(field, value string) Constraint {
	return Constraint{OrderBy: field, EqualTo: &value}
}

// Range constrains start <= OrderBy <= end.
func Range(field, start, end string) Constraint {
	return Constraint{OrderBy: field, StartAt: &start, EndAt: &end}
}

// Entry is one record with its key. Snapshots preserve store order, which map
// types would lose.
type Entry struct {
	Key   string
	Value json.RawMessage
}

// Snapshot is the materialized result of one query, in ascending field/key
// order. An empty path yields an empty, non-nil snapshot.
type Snapshot []Entry

// Keys returns the entry keys in snapshot order.
func (s Snapshot) Keys() []string {
	keys := make([]string, len(s))
	for i, e := range s {
		keys[i] = e.Key
	}
	return keys
}

// Store is the read side of the catalog store.
type Store interface {
	// Get resolves one point-in-time snapshot.
	Get(ctx context.Context, path string, c Constraint) (Snapshot, error)
	// Subscribe delivers the current snapshot immediately, then a new one
	// after every change under path. The channel closes when ctx is done.
	// Slow consumers see the latest snapshot only; intermediate ones are
	// dropped.
	Subscribe(ctx context.Context, path string, c Constraint) (<-chan Snapshot, error)
}

// Writer is the write side, used by the catalog sync layer.
type Writer interface {
	Put(path, key string, value any) error
	Delete(path, key string)
}
