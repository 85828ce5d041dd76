package orders

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrUnknownDatabase is returned when an order targets a Firestore database
// other than the one the store was opened with.
var ErrUnknownDatabase = errors.New("unknown firestore database")

// FirestoreStore writes orders as Firestore documents.
type FirestoreStore struct {
	client     *firestore.Client
	databaseID string
	idempotent bool
}

// NewFirestoreStore opens a client for databaseID in projectID. An empty
// projectID is detected from the environment.
func NewFirestoreStore(ctx context.Context, projectID, databaseID string, idempotent bool) (*FirestoreStore, error) {
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, fmt.Errorf("opening firestore database %s: %w", databaseID, err)
	}

	return NewFirestoreStoreWithClient(client, databaseID, idempotent), nil
}

// NewFirestoreStoreWithClient returns a store using the given client.
func NewFirestoreStoreWithClient(client *firestore.Client, databaseID string, idempotent bool) *FirestoreStore {
	return &FirestoreStore{
		client:     client,
		databaseID: databaseID,
		idempotent: idempotent,
	}
}

// CreateOrder creates the order document. In idempotent mode a document
// that already exists for the order id is read back and returned.
func (s *FirestoreStore) CreateOrder(ctx context.Context, databaseID, collectionID, userID, orderID string) (*Order, bool, error) {
	if databaseID != s.databaseID {
		return nil, false, fmt.Errorf("%w: %s", ErrUnknownDatabase, databaseID)
	}

	order, err := newOrder(userID, orderID, s.idempotent)
	if err != nil {
		return nil, false, err
	}

	ref := s.client.Collection(collectionID).Doc(order.ID)

	_, err = ref.Create(ctx, order)
	if err == nil {
		return order, true, nil
	}

	if status.Code(err) != codes.AlreadyExists {
		return nil, false, fmt.Errorf("creating order document %s: %w", order.ID, err)
	}

	docSnap, err := ref.Get(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("reading existing order document %s: %w", order.ID, err)
	}

	var existing Order
	if err := docSnap.DataTo(&existing); err != nil {
		return nil, false, err
	}
	existing.ID = docSnap.Ref.ID

	return &existing, false, nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}
