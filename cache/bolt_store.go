package cache

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	bolt "go.etcd.io/bbolt"
)

// BoltStore is a Store persisted to a bbolt database file, for FactoryCache
// instances whose entries should survive process restarts. Keys and values
// are CBOR-encoded.
type BoltStore[K comparable, V any] struct {
	db     *bolt.DB
	bucket []byte
}

var boltBucketName = []byte("factory_cache")

// OpenBoltStore opens (creating if necessary) a bbolt database at path and
// returns a BoltStore reading and writing its default bucket.
func OpenBoltStore[K comparable, V any](path string) (*BoltStore[K, V], error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("packetconn/cache: opening bolt database %q: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boltBucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("packetconn/cache: creating bucket: %w", err)
	}

	return &BoltStore[K, V]{db: db, bucket: boltBucketName}, nil
}

// Close closes the underlying database file.
func (b *BoltStore[K, V]) Close() error {
	return b.db.Close()
}

func (b *BoltStore[K, V]) Get(key K) (V, bool) {
	var value V

	keyBytes, err := cbor.Marshal(key)
	if err != nil {
		return value, false
	}

	var raw []byte
	_ = b.db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(b.bucket)
		v := bkt.Get(keyBytes)
		if v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if raw == nil {
		return value, false
	}

	if err := cbor.Unmarshal(raw, &value); err != nil {
		return value, false
	}
	return value, true
}

func (b *BoltStore[K, V]) Set(key K, value V) {
	keyBytes, err := cbor.Marshal(key)
	if err != nil {
		return
	}
	valueBytes, err := cbor.Marshal(value)
	if err != nil {
		return
	}

	_ = b.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(b.bucket)
		return bkt.Put(keyBytes, valueBytes)
	})
}

var _ Store[string, int] = (*BoltStore[string, int])(nil)
