package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"stripe-checkout-orders/internal/services/payments/types"
)

type Gateway struct {
	mock.Mock
}

func (m *Gateway) CreateCustomer(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *Gateway) CreatePaymentIntent(ctx context.Context, req types.PaymentIntentRequest, customerID string) (*types.PaymentIntent, error) {
	args := m.Called(ctx, req, customerID)
	pi, _ := args.Get(0).(*types.PaymentIntent)
	return pi, args.Error(1)
}

func (m *Gateway) CreateCheckoutSession(ctx context.Context, req types.CheckoutSessionParams) (*types.CheckoutSession, error) {
	args := m.Called(ctx, req)
	s, _ := args.Get(0).(*types.CheckoutSession)
	return s, args.Error(1)
}

func (m *Gateway) VerifyWebhook(payload []byte, sigHeader string) (*types.WebhookEvent, error) {
	args := m.Called(payload, sigHeader)
	ev, _ := args.Get(0).(*types.WebhookEvent)
	return ev, args.Error(1)
}

// NewGateway creates a Gateway mock whose expectations are asserted on cleanup.
func NewGateway(t interface {
	mock.TestingT
	Cleanup(func())
}) *Gateway {
	m := &Gateway{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
