// Package config holds the application's configuration settings.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// AppConfig defines environment-based configuration for the application.
type AppConfig struct {
	Http     HttpConfig
	Stripe   StripeConfig
	Checkout CheckoutConfig
	Orders   OrdersConfig
	Page     PageConfig
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`
}

type HttpConfig struct {
	Addr string `env:"PAYMENTS_HTTP_ADDR" env-default:":8080"`
}

type StripeConfig struct {
	SecretKey      string `env:"STRIPE_SECRET_KEY" env-required:"true"`
	WebhookSecret  string `env:"STRIPE_WEBHOOK_SECRET" env-required:"true"`
	PublishableKey string `env:"STRIPE_PUBLISHABLE_KEY"`
	APIBaseURL     string `env:"STRIPE_API_BASE_URL"`
}

// CheckoutConfig describes the single line item sold through hosted checkout.
type CheckoutConfig struct {
	ProductName string `env:"CHECKOUT_PRODUCT_NAME" env-default:"Product"`
	UnitAmount  int64  `env:"CHECKOUT_UNIT_AMOUNT" env-default:"1000"`
	Currency    string `env:"CHECKOUT_CURRENCY" env-default:"usd"`
}

type OrdersConfig struct {
	Backend      string `env:"ORDER_STORE_BACKEND" env-default:"firestore"`
	DatabaseID   string `env:"APPWRITE_DATABASE_ID" env-default:"orders"`
	CollectionID string `env:"APPWRITE_COLLECTION_ID" env-default:"orders"`
	ProjectID    string `env:"FIRESTORE_PROJECT_ID"`
	BoltPath     string `env:"BOLT_PATH" env-default:"orders.db"`
	// Idempotent derives document ids from the order id so redelivered
	// webhooks do not write a second document.
	Idempotent bool `env:"ORDERS_IDEMPOTENT" env-default:"true"`
}

// PageConfig carries the values interpolated into the static checkout page.
type PageConfig struct {
	TemplatePath string `env:"PAGE_TEMPLATE_PATH"`
	APIEndpoint  string `env:"APPWRITE_FUNCTION_API_ENDPOINT"`
	ProjectID    string `env:"APPWRITE_FUNCTION_PROJECT_ID"`
	FunctionID   string `env:"APPWRITE_FUNCTION_ID"`
}

// ErrMissingSecret is returned when a required secret is set but empty.
var ErrMissingSecret = errors.New("required secret is empty")

const (
	BackendFirestore = "firestore"
	BackendBolt      = "bolt"
)

// Load reads the configuration from the environment. It fails when a
// required secret is missing or a value is out of range.
func Load() (AppConfig, error) {
	var cfg AppConfig

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return AppConfig{}, fmt.Errorf("reading env config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}

	return cfg, nil
}

func (c *AppConfig) validate() error {
	if c.Stripe.SecretKey == "" {
		return fmt.Errorf("%w: STRIPE_SECRET_KEY", ErrMissingSecret)
	}
	if c.Stripe.WebhookSecret == "" {
		return fmt.Errorf("%w: STRIPE_WEBHOOK_SECRET", ErrMissingSecret)
	}

	switch c.Orders.Backend {
	case BackendFirestore, BackendBolt:
	default:
		return fmt.Errorf("unknown order store backend %q", c.Orders.Backend)
	}

	if c.Checkout.UnitAmount <= 0 {
		return fmt.Errorf("checkout unit amount must be positive, got %d", c.Checkout.UnitAmount)
	}

	return nil
}

// FirestoreProject returns the Firestore project id, falling back to the
// function project id when no dedicated one is set.
func (c *AppConfig) FirestoreProject() string {
	if c.Orders.ProjectID != "" {
		return c.Orders.ProjectID
	}
	return c.Page.ProjectID
}

// PageValues returns the placeholder values for the static page.
func (c *AppConfig) PageValues() map[string]string {
	return map[string]string{
		"APPWRITE_FUNCTION_API_ENDPOINT": c.Page.APIEndpoint,
		"APPWRITE_FUNCTION_PROJECT_ID":   c.Page.ProjectID,
		"APPWRITE_FUNCTION_ID":           c.Page.FunctionID,
		"APPWRITE_DATABASE_ID":           c.Orders.DatabaseID,
		"APPWRITE_COLLECTION_ID":         c.Orders.CollectionID,
	}
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *AppConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
