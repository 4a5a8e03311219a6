package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// Memory is an in-process Store and Writer. It backs the live catalog: the
// repository layer seeds it from postgres at boot and mirrors every write into
// it, and read paths query it with the same constraint shape a hosted
// realtime store would accept.
type Memory struct {
	mu    sync.RWMutex
	paths map[string]map[string]json.RawMessage
	subs  map[int]*subscriber
	next  int
}

type subscriber struct {
	path       string
	constraint Constraint
	ch         chan Snapshot
}

func NewMemory() *Memory {
	return &Memory{
		paths: make(map[string]map[string]json.RawMessage),
		subs:  make(map[int]*subscriber),
	}
}

func (m *Memory) Put(path, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kvstore put %s/%s: %w", path, key, err)
	}
	m.mu.Lock()
	records, ok := m.paths[path]
	if !ok {
		records = make(map[string]json.RawMessage)
		m.paths[path] = records
	}
	records[key] = raw
	m.notifyLocked(path)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(path, key string) {
	m.mu.Lock()
	if records, ok := m.paths[path]; ok {
		delete(records, key)
		m.notifyLocked(path)
	}
	m.mu.Unlock()
}

func (m *Memory) Get(ctx context.Context, path string, c Constraint) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	snap := m.resolveLocked(path, c)
	m.mu.RUnlock()
	return snap, nil
}

func (m *Memory) Subscribe(ctx context.Context, path string, c Constraint) (<-chan Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sub := &subscriber{path: path, constraint: c, ch: make(chan Snapshot, 1)}

	m.mu.Lock()
	id := m.next
	m.next++
	m.subs[id] = sub
	sub.push(m.resolveLocked(path, c))
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
		close(sub.ch)
	}()

	return sub.ch, nil
}

// push replaces any undelivered snapshot so a slow consumer always wakes up
// to the latest state.
func (s *subscriber) push(snap Snapshot) {
	for {
		select {
		case s.ch <- snap:
			return
		default:
			select {
			case <-s.ch:
			default:
			}
		}
	}
}

func (m *Memory) notifyLocked(path string) {
	for _, sub := range m.subs {
		if sub.path == path {
			sub.push(m.resolveLocked(path, sub.constraint))
		}
	}
}

// resolveLocked materializes one query. Entries sort ascending by the
// constrained field (key as tiebreaker), or by key when no field is named;
// LimitToLast then keeps the trailing window of that ascending order.
func (m *Memory) resolveLocked(path string, c Constraint) Snapshot {
	records := m.paths[path]
	entries := make(Snapshot, 0, len(records))

	for key, raw := range records {
		if c.OrderBy != "" {
			v := fieldString(raw, c.OrderBy)
			if c.EqualTo != nil && v != *c.EqualTo {
				continue
			}
			if c.StartAt != nil && v < *c.StartAt {
				continue
			}
			if c.EndAt != nil && v > *c.EndAt {
				continue
			}
		}
		entries = append(entries, Entry{Key: key, Value: raw})
	}

	sort.Slice(entries, func(i, j int) bool {
		if c.OrderBy != "" {
			vi := fieldString(entries[i].Value, c.OrderBy)
			vj := fieldString(entries[j].Value, c.OrderBy)
			if vi != vj {
				return vi < vj
			}
		}
		return entries[i].Key < entries[j].Key
	})

	if c.LimitToLast > 0 && len(entries) > c.LimitToLast {
		entries = entries[len(entries)-c.LimitToLast:]
	}
	return entries
}

// fieldString reads a top-level field as its ordering value. Missing and
// non-string fields order as the empty string, before any real value.
func fieldString(raw json.RawMessage, field string) string {
	var record map[string]json.RawMessage
	if err := json.Unmarshal(raw, &record); err != nil {
		return ""
	}
	fv, ok := record[field]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(fv, &s); err != nil {
		return ""
	}
	return s
}
