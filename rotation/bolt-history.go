package rotation

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var historyBucket = []byte("history")

// BoltStore keeps history in a bbolt database. Keys are big-endian sequence
// numbers so iteration order is insertion order.
type BoltStore struct {
	path string
	db   *bolt.DB
}

// Be sure to Close the store, bbolt holds a file lock while it is open.
func OpenBoltStore(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("%w [%s]: %w", ErrLogWrite, path, err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("Error opening history database [%s]: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(historyBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("Error creating history bucket [%s]: %w", path, err)
	}

	return &BoltStore{path: path, db: db}, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (s *BoltStore) Path() string {
	return s.path
}

func (s *BoltStore) Load() ([]ImagePath, error) {
	history := []ImagePath{}

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(historyBucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			history = append(history, filepath.Clean(string(v)))
			return nil
		})
	})
	if err != nil {
		return []ImagePath{}, fmt.Errorf("%w [%s]: %w", ErrLogRead, s.path, err)
	}
	return history, nil
}

func (s *BoltStore) Append(entries []ImagePath) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(historyBucket)
		if err != nil {
			return err
		}

		for _, e := range entries {
			seq, err := b.NextSequence()
			if err != nil {
				return err
			}

			key := make([]byte, 8)
			binary.BigEndian.PutUint64(key, seq)
			if err = b.Put(key, []byte(e)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w [%s]: %w", ErrLogWrite, s.path, err)
	}
	return nil
}

func (s *BoltStore) Clear() error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(historyBucket) != nil {
			if err := tx.DeleteBucket(historyBucket); err != nil {
				return err
			}
		}
		_, err := tx.CreateBucket(historyBucket)
		return err
	})
	if err != nil {
		return fmt.Errorf("%w [%s]: %w", ErrLogWrite, s.path, err)
	}
	return nil
}
