package catalog

import (
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	ServicesSlot      = "mock_services"
	SubscriptionsSlot = "subscriptions"
)

var slotBucket = []byte("slots")

// ErrSlotEmpty is returned by Load when nothing was ever stored in the slot.
var ErrSlotEmpty = errors.New("slot is empty")

// SlotStore is a set of named text slots that survive restarts.
type SlotStore interface {
	Load(name string) ([]byte, error)
	Store(name string, data []byte) error
}

// BoltSlots keeps every slot as a key in a single bbolt bucket.
type BoltSlots struct {
	db *bolt.DB
}

func OpenBoltSlots(path string) (*BoltSlots, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open slot file %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(slotBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init slot bucket: %w", err)
	}
	return &BoltSlots{db: db}, nil
}

func (s *BoltSlots) Load(name string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(slotBucket).Get([]byte(name))
		if v == nil {
			return ErrSlotEmpty
		}
		// bbolt values are only valid inside the transaction.
		out = append([]byte(nil), v...)
		return nil
	})
	return out, err
}

func (s *BoltSlots) Store(name string, data []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(slotBucket).Put([]byte(name), data)
	})
}

func (s *BoltSlots) Close() error {
	return s.db.Close()
}
