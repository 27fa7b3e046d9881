package storage

import (
	"fmt"

	"github.com/charmbracelet/log"
	"go.etcd.io/bbolt"
)

var bucketObjects = []byte("objects")

// BoltStore keeps objects in a single-file bbolt database, one bucket,
// keyed by object path.
type BoltStore struct {
	db *bbolt.DB
}

// NewBoltStore opens (or creates) the database at path.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("opening bolt db %s: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketObjects)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating objects bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Load(objPath string) ([]byte, error) {
	var data []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketObjects).Get([]byte(objPath))
		if v == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, objPath)
		}
		// the slice is only valid inside the transaction
		data = append([]byte(nil), v...)
		return nil
	})
	return data, err
}

func (s *BoltStore) Write(objPath string, data []byte) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketObjects).Put([]byte(objPath), data)
	})
	if err != nil {
		return fmt.Errorf("writing %s: %w", objPath, err)
	}
	log.Debug("object written", "path", objPath, "bytes", len(data))
	return nil
}

func (s *BoltStore) Delete(objPath string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketObjects).Delete([]byte(objPath))
	})
}

// Close releases the underlying database file.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
