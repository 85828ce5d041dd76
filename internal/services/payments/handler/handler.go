package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"stripe-checkout-orders/config"
	"stripe-checkout-orders/internal/services/orders"
	"stripe-checkout-orders/internal/services/page"
	"stripe-checkout-orders/internal/services/payments"
	"stripe-checkout-orders/internal/services/payments/types"
)

const (
	userIDHeader    = "x-appwrite-user-id"
	signatureHeader = "Stripe-Signature"

	maxBodyBytes = int64(65536)
)

type handler struct {
	gateway payments.Gateway
	store   orders.Store
	page    *page.Page
	cfg     config.AppConfig
}

func NewHandler(cfg config.AppConfig, gateway payments.Gateway, store orders.Store, pg *page.Page) *handler {
	return &handler{
		gateway: gateway,
		store:   store,
		page:    pg,
		cfg:     cfg,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// Page serves the checkout page for any GET request.
func (h *handler) Page(w http.ResponseWriter, r *http.Request) {
	html := h.page.Render(h.cfg.PageValues())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, html) //nolint:errcheck
}

func (h *handler) StripeKey(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.StripeKeyResponse{Key: h.cfg.Stripe.PublishableKey})
}

// CreatePaymentIntent creates a customer and a card payment intent for it.
// Failures are reported in the body with status 200.
func (h *handler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	l := logger(r)

	var body types.PaymentIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		l.Warn("invalid payment intent request", "error", err)
		writeJSON(w, http.StatusOK, types.PaymentIntentResponse{Error: "invalid request body"})
		return
	}

	customerID, err := h.gateway.CreateCustomer(r.Context(), body.Email)
	if err != nil {
		l.Error("failed to create customer", "error", err)
		writeJSON(w, http.StatusOK, types.PaymentIntentResponse{Error: payments.GatewayMessage(err)})
		return
	}

	pi, err := h.gateway.CreatePaymentIntent(r.Context(), body, customerID)
	if err != nil {
		l.Error("failed to create payment intent", "error", err, "customer", customerID)
		writeJSON(w, http.StatusOK, types.PaymentIntentResponse{Error: payments.GatewayMessage(err)})
		return
	}

	l.Info("created payment intent", "payment_intent", pi.ID, "customer", customerID)

	writeJSON(w, http.StatusOK, types.PaymentIntentResponse{ClientSecret: pi.ClientSecret})
}

// Checkout redirects the user to a hosted checkout session, or to the
// failure URL when there is no user or the session cannot be created.
func (h *handler) Checkout(w http.ResponseWriter, r *http.Request) error {
	l := logger(r)

	fallbackUrl := requestOrigin(r) + "/"

	var body types.CheckoutRequest
	if r.Body != nil {
		// The body is optional; anything undecodable falls back to the origin.
		json.NewDecoder(r.Body).Decode(&body) //nolint:errcheck
	}

	successUrl := body.SuccessUrl
	if successUrl == "" {
		successUrl = fallbackUrl
	}
	failureUrl := body.FailureUrl
	if failureUrl == "" {
		failureUrl = fallbackUrl
	}

	userID := r.Header.Get(userIDHeader)
	if userID == "" {
		l.Error("user ID not found in request")
		http.Redirect(w, r, failureUrl, http.StatusSeeOther)
		return nil
	}

	sess, err := h.gateway.CreateCheckoutSession(r.Context(), types.CheckoutSessionParams{
		UserID:     userID,
		SuccessUrl: successUrl,
		FailureUrl: failureUrl,
	})
	if err != nil {
		l.Error("failed to create stripe checkout session", "error", err, "user", userID)
		http.Redirect(w, r, failureUrl, http.StatusSeeOther)
		return nil
	}

	l.Info("created stripe checkout session", "session", sess.ID, "user", userID)

	http.Redirect(w, r, sess.URL, http.StatusSeeOther)
	return nil
}

// Webhook verifies a Stripe event and records an order for every completed
// checkout session.
func (h *handler) Webhook(w http.ResponseWriter, r *http.Request) error {
	l := logger(r)

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		l.Error("error reading webhook body", "error", err)
		writeJSON(w, http.StatusUnauthorized, types.WebhookResponse{Success: false})
		return nil
	}

	event, err := h.gateway.VerifyWebhook(payload, r.Header.Get(signatureHeader))
	if err != nil {
		if !errors.Is(err, payments.ErrWebhookSignature) {
			return err
		}
		l.Error("webhook signature verification failed", "error", err)
		writeJSON(w, http.StatusUnauthorized, types.WebhookResponse{Success: false})
		return nil
	}

	l.Info("received webhook event", "event", event.ID, "type", event.Type)

	if event.Type != payments.EventCheckoutCompleted {
		writeJSON(w, http.StatusOK, types.WebhookResponse{Success: true})
		return nil
	}

	if event.UserID == "" {
		return fmt.Errorf("%w: session %s", payments.ErrMissingSessionUser, event.SessionID)
	}

	order, created, err := h.store.CreateOrder(r.Context(), h.cfg.Orders.DatabaseID, h.cfg.Orders.CollectionID, event.UserID, event.SessionID)
	if err != nil {
		return fmt.Errorf("creating order for session %s: %w", event.SessionID, err)
	}

	if created {
		l.Info("created order document", "user", event.UserID, "order", event.SessionID, "document", order.ID)
	} else {
		l.Warn("order document already exists", "user", event.UserID, "order", event.SessionID, "document", order.ID)
	}

	writeJSON(w, http.StatusOK, types.WebhookResponse{Success: true})
	return nil
}

func notFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	io.WriteString(w, "Not Found") //nolint:errcheck
}

// requestOrigin returns scheme://host for r, honouring X-Forwarded-Proto.
func requestOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	return scheme + "://" + r.Host
}

func logger(r *http.Request) *slog.Logger {
	return slog.Default().With("request_id", requestID(r))
}
