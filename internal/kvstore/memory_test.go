package kvstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rec struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

func seed(t *testing.T, m *Memory) {
	t.Helper()
	require.NoError(t, m.Put("products", "p1", rec{Name: "aspirin", Category: "health"}))
	require.NoError(t, m.Put("products", "p2", rec{Name: "apple", Category: "food"}))
	require.NoError(t, m.Put("products", "p3", rec{Name: "apricot", Category: "food"}))
	require.NoError(t, m.Put("products", "p4", rec{Name: "bandage", Category: "health"}))
}

func TestGetEmptyPath(t *testing.T) {
	m := NewMemory()
	snap, err := m.Get(context.Background(), "products", None)
	require.NoError(t, err)
	assert.NotNil(t, snap)
	assert.Empty(t, snap)
}

func TestGetOrdersByKeyWithoutConstraint(t *testing.T) {
	m := NewMemory()
	seed(t, m)
	snap, err := m.Get(context.Background(), "products", None)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2", "p3", "p4"}, snap.Keys())
}

func TestEqualityConstraint(t *testing.T) {
	m := NewMemory()
	seed(t, m)
	snap, err := m.Get(context.Background(), "products", Equal("category", "food"))
	require.NoError(t, err)
	assert.Equal(t, []string{"p2", "p3"}, snap.Keys())
}

func TestPrefixRange(t *testing.T) {
	m := NewMemory()
	seed(t, m)
	snap, err := m.Get(context.Background(), "products", Range("name", "ap", "ap"+HighSentinel))
	require.NoError(t, err)
	// ordered by name: apple, apricot
	assert.Equal(t, []string{"p2", "p3"}, snap.Keys())
}

func TestLimitToLastKeepsTrailingWindow(t *testing.T) {
	m := NewMemory()
	seed(t, m)
	c := Constraint{OrderBy: "name", LimitToLast: 2}
	snap, err := m.Get(context.Background(), "products", c)
	require.NoError(t, err)
	// ascending by name is apple, apricot, aspirin, bandage; last two survive
	// and the store does not reverse them.
	assert.Equal(t, []string{"p1", "p4"}, snap.Keys())
}

func TestSubscribePushesInitialAndChanges(t *testing.T) {
	m := NewMemory()
	seed(t, m)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := m.Subscribe(ctx, "products", Equal("category", "health"))
	require.NoError(t, err)

	first := recv(t, ch)
	assert.Equal(t, []string{"p1", "p4"}, first.Keys())

	require.NoError(t, m.Put("products", "p5", rec{Name: "vitamin c", Category: "health"}))
	second := recv(t, ch)
	assert.Equal(t, []string{"p1", "p4", "p5"}, second.Keys())

	m.Delete("products", "p1")
	third := recv(t, ch)
	assert.Equal(t, []string{"p4", "p5"}, third.Keys())
}

func TestSubscribeClosesOnCancel(t *testing.T) {
	m := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	ch, err := m.Subscribe(ctx, "products", None)
	require.NoError(t, err)
	recv(t, ch)

	cancel()
	select {
	case _, open := <-ch:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func recv(t *testing.T, ch <-chan Snapshot) Snapshot {
	t.Helper()
	select {
	case snap := <-ch:
		return snap
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered")
		return nil
	}
}
