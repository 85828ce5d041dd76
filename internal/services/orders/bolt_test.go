package orders

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBoltStore(t *testing.T, idempotent bool) *BoltStore {
	t.Helper()
	s, err := NewBoltStore(filepath.Join(t.TempDir(), "test.db"), idempotent)
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBoltCreateOrder(t *testing.T) {
	s := newTestBoltStore(t, true)
	ctx := context.Background()

	order, created, err := s.CreateOrder(ctx, "orders", "orders", "user-1", "cs_test_1")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, "user-1", order.UserID)
	assert.Equal(t, "cs_test_1", order.OrderID)

	items, err := s.List("orders", "orders")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, order.ID, items[0].ID)
}

func TestBoltCreateOrderIdempotent(t *testing.T) {
	s := newTestBoltStore(t, true)
	ctx := context.Background()

	first, created, err := s.CreateOrder(ctx, "orders", "orders", "user-1", "cs_test_1")
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := s.CreateOrder(ctx, "orders", "orders", "user-1", "cs_test_1")
	require.NoError(t, err)
	assert.False(t, created, "redelivered order must not be written twice")
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.CreatedAt.Equal(first.CreatedAt))

	items, err := s.List("orders", "orders")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestBoltCreateOrderDuplicates(t *testing.T) {
	s := newTestBoltStore(t, false)
	ctx := context.Background()

	first, _, err := s.CreateOrder(ctx, "orders", "orders", "user-1", "cs_test_1")
	require.NoError(t, err)

	second, created, err := s.CreateOrder(ctx, "orders", "orders", "user-1", "cs_test_1")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, first.ID, second.ID)

	items, err := s.List("orders", "orders")
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestBoltCollectionsAreSeparate(t *testing.T) {
	s := newTestBoltStore(t, true)
	ctx := context.Background()

	_, _, err := s.CreateOrder(ctx, "shop", "a", "user-1", "cs_1")
	require.NoError(t, err)
	_, _, err = s.CreateOrder(ctx, "shop", "b", "user-2", "cs_2")
	require.NoError(t, err)

	a, err := s.List("shop", "a")
	require.NoError(t, err)
	assert.Len(t, a, 1)

	missing, err := s.List("shop", "c")
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestBoltCreateOrderInvalid(t *testing.T) {
	s := newTestBoltStore(t, true)

	_, _, err := s.CreateOrder(context.Background(), "orders", "orders", "", "cs_test_1")
	assert.ErrorIs(t, err, ErrInvalidOrder)
}
