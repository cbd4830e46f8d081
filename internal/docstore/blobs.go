package docstore

import (
	"fmt"

	bolt "go.etcd.io/bbolt"
)

// documentsBucket holds every dataset blob, keyed by namespaced storage key.
var documentsBucket = []byte("documents")

// Blobs is a bbolt-backed key-value store for serialized dataset snapshots.
type Blobs struct {
	db *bolt.DB
}

// OpenBlobs opens (or creates) the blob database at the given path and
// ensures the documents bucket exists.
func OpenBlobs(path string) (*Blobs, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open blob store: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(documentsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create documents bucket: %w", err)
	}

	return &Blobs{db: db}, nil
}

// Get reads the blob stored under key. The second return value reports
// whether the key existed.
func (b *Blobs) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		if data := tx.Bucket(documentsBucket).Get([]byte(key)); data != nil {
			value = append([]byte(nil), data...)
		}
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to read blob %s: %w", key, err)
	}
	return value, value != nil, nil
}

// Put writes the blob under key, replacing any previous value.
func (b *Blobs) Put(key string, value []byte) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(documentsBucket).Put([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("failed to write blob %s: %w", key, err)
	}
	return nil
}

// Delete removes the blob under key. Deleting a missing key is not an error.
func (b *Blobs) Delete(key string) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(documentsBucket).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("failed to delete blob %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying database.
func (b *Blobs) Close() error {
	return b.db.Close()
}
