package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"stripe-checkout-orders/internal/services/orders"
)

type Store struct {
	mock.Mock
}

func (m *Store) CreateOrder(ctx context.Context, databaseID, collectionID, userID, orderID string) (*orders.Order, bool, error) {
	args := m.Called(ctx, databaseID, collectionID, userID, orderID)
	o, _ := args.Get(0).(*orders.Order)
	return o, args.Bool(1), args.Error(2)
}

func (m *Store) Close() error {
	args := m.Called()
	return args.Error(0)
}

// NewStore creates a Store mock whose expectations are asserted on cleanup.
func NewStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *Store {
	m := &Store{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
