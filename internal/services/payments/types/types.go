package types

// PaymentIntentRequest is the body accepted by /create-payment-intent.
type PaymentIntentRequest struct {
	Email    string `json:"email"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret,omitempty"`
	Error        string `json:"error,omitempty"`
}

// CheckoutRequest is the optional body accepted by /checkout.
type CheckoutRequest struct {
	SuccessUrl string `json:"successUrl"`
	FailureUrl string `json:"failureUrl"`
}

type StripeKeyResponse struct {
	Key string `json:"key"`
}

type WebhookResponse struct {
	Success bool `json:"success"`
}

// CheckoutSessionParams describes a hosted checkout session for one user.
type CheckoutSessionParams struct {
	UserID     string
	SuccessUrl string
	FailureUrl string
}

type CheckoutSession struct {
	ID  string
	URL string
}

type PaymentIntent struct {
	ID           string
	ClientSecret string
}

// WebhookEvent holds the fields read from a verified webhook. SessionID and
// UserID are only set for completed checkout sessions.
type WebhookEvent struct {
	ID        string
	Type      string
	SessionID string
	UserID    string
}
