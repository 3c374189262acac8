// Package store implements the permanent storage of named arrays and edits,
// backed by a bbolt database.
package store

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
	"src.vt.sh/pkg/logutil"
	"src.vt.sh/pkg/store/storedefs"
)

var logger = logutil.GetLogger("[store] ")

var initDB = map[string](func(*bolt.Tx) error){}

// Buckets.
const (
	bucketArrays = "arrays"
	bucketEdits  = "edits"
	bucketMeta   = "meta"
)

// DefaultTimeout is how long NewStore waits for the lock on the database file.
const DefaultTimeout = time.Second

// DBStore is the permanent storage backend for arrays and edits.
type DBStore interface {
	storedefs.Store
	Close() error
}

type dbStore struct {
	db *bolt.DB
}

func dbWithOptions(dbname string, timeout time.Duration) (*bolt.DB, error) {
	return bolt.Open(dbname, 0644, &bolt.Options{
		Timeout:        timeout,
		NoFreelistSync: true,
		FreelistType:   bolt.FreelistMapType,
	})
}

// NewStore creates a new Store from the given file, waiting at most
// DefaultTimeout for its lock.
func NewStore(dbname string) (DBStore, error) {
	return NewStoreWithTimeout(dbname, DefaultTimeout)
}

// NewStoreWithTimeout is like NewStore, but waits at most timeout for the lock
// on the file. A zero timeout waits indefinitely.
func NewStoreWithTimeout(dbname string, timeout time.Duration) (DBStore, error) {
	db, err := dbWithOptions(dbname, timeout)
	if err != nil {
		return nil, err
	}
	st, err := NewStoreFromDB(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return st, nil
}

// NewStoreFromDB creates a new Store from a bolt DB.
func NewStoreFromDB(db *bolt.DB) (DBStore, error) {
	logger.Println("initializing store")
	defer logger.Println("initialized store")
	st := &dbStore{db: db}

	err := db.Update(func(tx *bolt.Tx) error {
		for name, fn := range initDB {
			err := fn(tx)
			if err != nil {
				return fmt.Errorf("failed to %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

// Close closes the underlying database.
func (s *dbStore) Close() error {
	return s.db.Close()
}

// names returns the keys of a bucket, in byte order.
func (s *dbStore) names(bucket string) ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucket)).ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return names, err
}

// del deletes a key from a bucket, returning storedefs.ErrNotFound if it does
// not exist.
func (s *dbStore) del(bucket, name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b.Get([]byte(name)) == nil {
			return storedefs.ErrNotFound
		}
		return b.Delete([]byte(name))
	})
}
