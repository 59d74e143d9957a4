package bolt

import (
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
	bolterrors "go.etcd.io/bbolt/errors"

	"spacegame/internal/store"
)

// Store implements store.Store using bbolt (embedded B+ tree).
type Store struct {
	db *bolt.DB
}

// Options tune how the database file is opened.
type Options struct {
	// ReadOnly opens the file with a shared lock so several readers can
	// serve from it at once.
	ReadOnly bool
	// Timeout bounds the wait for the file lock. Zero waits forever.
	Timeout time.Duration
}

// Open creates or opens a bbolt database at the given path.
func Open(path string, opts Options) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{
		ReadOnly: opts.ReadOnly,
		Timeout:  opts.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("opening bolt db: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Put(b store.Batch) error {
	return s.write(b, false)
}

func (s *Store) Replace(b store.Batch) error {
	return s.write(b, true)
}

func (s *Store) write(batch store.Batch, replace bool) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for name, entries := range batch {
			if replace {
				err := tx.DeleteBucket([]byte(name))
				if err != nil && !errors.Is(err, bolterrors.ErrBucketNotFound) {
					return fmt.Errorf("dropping bucket %s: %w", name, err)
				}
			}
			b, err := tx.CreateBucketIfNotExists([]byte(name))
			if err != nil {
				return fmt.Errorf("creating bucket %s: %w", name, err)
			}
			for k, v := range entries {
				if err := b.Put([]byte(k), v); err != nil {
					return fmt.Errorf("put %s/%.64q: %w", name, k, err)
				}
			}
		}
		return nil
	})
}

func (s *Store) ForEach(bucket []byte, fn func(key, value []byte) error) error {
	return s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		return b.ForEach(fn)
	})
}

func (s *Store) Len(bucket []byte) (int, error) {
	var n int
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		n = b.Stats().KeyN
		return nil
	})
	return n, err
}

func (s *Store) Close() error {
	return s.db.Close()
}
