package orders

import (
	"context"
	"encoding/json"
	"time"

	bolt "github.com/boltdb/bolt"
)

// BoltStore keeps orders in an embedded BoltDB file, one bucket per
// database/collection pair.
type BoltStore struct {
	db         *bolt.DB
	idempotent bool
}

// NewBoltStore opens (or creates) the BoltDB file at path.
func NewBoltStore(path string, idempotent bool) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	return &BoltStore{db: db, idempotent: idempotent}, nil
}

func bucketName(databaseID, collectionID string) []byte {
	return []byte(databaseID + "/" + collectionID)
}

// CreateOrder writes a new order document. In idempotent mode an existing
// document for the same order id is returned unchanged and nothing is
// written.
func (s *BoltStore) CreateOrder(_ context.Context, databaseID, collectionID, userID, orderID string) (*Order, bool, error) {
	order, err := newOrder(userID, orderID, s.idempotent)
	if err != nil {
		return nil, false, err
	}

	var result Order
	created := false

	err = s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketName(databaseID, collectionID))
		if err != nil {
			return err
		}

		if existing := b.Get([]byte(order.ID)); existing != nil {
			return json.Unmarshal(existing, &result)
		}

		data, err := json.Marshal(order)
		if err != nil {
			return err
		}

		result = *order
		created = true
		return b.Put([]byte(order.ID), data)
	})
	if err != nil {
		return nil, false, err
	}

	return &result, created, nil
}

// List returns every order in the given collection.
func (s *BoltStore) List(databaseID, collectionID string) ([]Order, error) {
	items := []Order{}

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName(databaseID, collectionID))
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			var o Order
			if err := json.Unmarshal(v, &o); err != nil {
				return err
			}
			items = append(items, o)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return items, nil
}

// Close releases the database file lock.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
