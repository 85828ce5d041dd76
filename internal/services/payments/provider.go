package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/checkout/session"
	"github.com/stripe/stripe-go/v84/customer"
	"github.com/stripe/stripe-go/v84/paymentintent"
	"github.com/stripe/stripe-go/v84/webhook"

	"stripe-checkout-orders/config"
	"stripe-checkout-orders/internal/services/payments/types"
)

var (
	ErrCreateCustomer      = errors.New("failed to create customer")
	ErrCreatePaymentIntent = errors.New("failed to create payment intent")
	ErrCreateSession       = errors.New("failed to create checkout session")
	ErrWebhookSignature    = errors.New("webhook signature verification failed")
	ErrWebhookPayload      = errors.New("invalid webhook payload")
	ErrMissingSessionUser  = errors.New("checkout session has no userId metadata")
)

const (
	// EventCheckoutCompleted is the only event type that records an order.
	EventCheckoutCompleted = string(stripe.EventTypeCheckoutSessionCompleted)

	metadataUserID = "userId"
)

// Gateway is the payment processor surface the router depends on.
type Gateway interface {
	CreateCustomer(ctx context.Context, email string) (string, error)
	CreatePaymentIntent(ctx context.Context, req types.PaymentIntentRequest, customerID string) (*types.PaymentIntent, error)
	CreateCheckoutSession(ctx context.Context, req types.CheckoutSessionParams) (*types.CheckoutSession, error)
	VerifyWebhook(payload []byte, sigHeader string) (*types.WebhookEvent, error)
}

type StripeProvider struct {
	customers      customer.Client
	paymentIntents paymentintent.Client
	sessions       session.Client
	webhookSecret  string
	lineItem       config.CheckoutConfig
}

func NewStripeProvider(cfg config.StripeConfig, checkout config.CheckoutConfig) *StripeProvider {
	if cfg.SecretKey == "" || cfg.WebhookSecret == "" {
		panic("secretKey and webhookSecret required for StripeProvider")
	}

	// Failed calls are never retried; the caller sees the first error.
	backendConfig := &stripe.BackendConfig{
		MaxNetworkRetries: stripe.Int64(0),
	}
	if cfg.APIBaseURL != "" {
		backendConfig.URL = stripe.String(cfg.APIBaseURL)
	}
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, backendConfig)

	return &StripeProvider{
		customers:      customer.Client{B: backend, Key: cfg.SecretKey},
		paymentIntents: paymentintent.Client{B: backend, Key: cfg.SecretKey},
		sessions:       session.Client{B: backend, Key: cfg.SecretKey},
		webhookSecret:  cfg.WebhookSecret,
		lineItem:       checkout,
	}
}

func (p *StripeProvider) CreateCustomer(ctx context.Context, email string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
	}
	params.Context = ctx

	c, err := p.customers.New(params)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCreateCustomer, err)
	}

	return c.ID, nil
}

func (p *StripeProvider) CreatePaymentIntent(ctx context.Context, req types.PaymentIntentRequest, customerID string) (*types.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(req.Amount),
		Currency:           stripe.String(req.Currency),
		Customer:           stripe.String(customerID),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		PaymentMethodOptions: &stripe.PaymentIntentPaymentMethodOptionsParams{
			Card: &stripe.PaymentIntentPaymentMethodOptionsCardParams{
				RequestThreeDSecure: stripe.String("automatic"),
			},
			Sofort: &stripe.PaymentIntentPaymentMethodOptionsSofortParams{
				PreferredLanguage: stripe.String("en"),
			},
		},
	}
	params.Context = ctx

	pi, err := p.paymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreatePaymentIntent, err)
	}

	return &types.PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
	}, nil
}

func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, req types.CheckoutSessionParams) (*types.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(req.SuccessUrl),
		CancelURL:          stripe.String(req.FailureUrl),
		ClientReferenceID:  stripe.String(req.UserID),
		Metadata: map[string]string{
			metadataUserID: req.UserID,
		},
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(p.lineItem.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(p.lineItem.ProductName),
					},
					UnitAmount: stripe.Int64(p.lineItem.UnitAmount),
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx

	s, err := p.sessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateSession, err)
	}

	return &types.CheckoutSession{
		ID:  s.ID,
		URL: s.URL,
	}, nil
}

// VerifyWebhook checks the signature of payload and decodes the fields the
// router needs. Events signed for any API version are accepted.
func (p *StripeProvider) VerifyWebhook(payload []byte, sigHeader string) (*types.WebhookEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, p.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWebhookSignature, err)
	}

	ev := &types.WebhookEvent{
		ID:   event.ID,
		Type: string(event.Type),
	}

	if ev.Type != EventCheckoutCompleted {
		return ev, nil
	}

	if event.Data == nil {
		return nil, fmt.Errorf("%w: %s has no data", ErrWebhookPayload, ev.Type)
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, fmt.Errorf("%w: unmarshaling checkout session: %w", ErrWebhookPayload, err)
	}

	ev.SessionID = sess.ID
	ev.UserID = sess.Metadata[metadataUserID]

	return ev, nil
}

// GatewayMessage returns the processor's message for err, falling back to
// the error text when err did not come from Stripe.
func GatewayMessage(err error) string {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
		return stripeErr.Msg
	}

	return err.Error()
}
