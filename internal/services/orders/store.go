// Package orders persists completed checkout orders in a document store.
package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"stripe-checkout-orders/config"
)

// ErrInvalidOrder is returned when an order is missing its user or order id.
var ErrInvalidOrder = errors.New("order requires userId and orderId")

// orderNamespace scopes the name-based document ids derived from order ids.
var orderNamespace = uuid.MustParse("6f1c2a7e-4b0d-5c3e-9a8f-1d2e3f4a5b6c")

// Order is the document written for a completed checkout session.
type Order struct {
	ID        string    `json:"id" firestore:"-"`
	UserID    string    `json:"userId" firestore:"userId"`
	OrderID   string    `json:"orderId" firestore:"orderId"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
}

// Store writes order documents. CreateOrder reports whether a new document
// was written.
type Store interface {
	CreateOrder(ctx context.Context, databaseID, collectionID, userID, orderID string) (*Order, bool, error)
	Close() error
}

// documentID returns the id for a new order document. With idempotent ids
// the same order id always maps to the same document.
func documentID(orderID string, idempotent bool) string {
	if idempotent {
		return uuid.NewSHA1(orderNamespace, []byte(orderID)).String()
	}
	return uuid.NewString()
}

func newOrder(userID, orderID string, idempotent bool) (*Order, error) {
	if userID == "" || orderID == "" {
		return nil, fmt.Errorf("%w: userId=%q orderId=%q", ErrInvalidOrder, userID, orderID)
	}

	return &Order{
		ID:        documentID(orderID, idempotent),
		UserID:    userID,
		OrderID:   orderID,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// New opens the store backend selected in cfg.
func New(ctx context.Context, cfg config.OrdersConfig, projectID string) (Store, error) {
	switch cfg.Backend {
	case config.BackendBolt:
		return NewBoltStore(cfg.BoltPath, cfg.Idempotent)
	case config.BackendFirestore:
		return NewFirestoreStore(ctx, projectID, cfg.DatabaseID, cfg.Idempotent)
	default:
		return nil, fmt.Errorf("unknown order store backend %q", cfg.Backend)
	}
}
