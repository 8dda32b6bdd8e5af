package cache

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	bolt "go.etcd.io/bbolt"
)

// BoltStore is a persistent Store backed by a single bbolt bucket.
// Every Put runs in its own transaction, so concurrent writers never lose
// each other's updates.
type BoltStore struct {
	db     *bolt.DB
	path   string
	bucket []byte
	now    func() time.Time
}

type BoltOptions struct {
	// Bucket is the name of the Bolt bucket to use.
	Bucket string
}

var errNoBucket = errors.New("bucket missing")

// boltEntry is the msgpack layout of a stored value.
type boltEntry struct {
	FetchedAt time.Time `msgpack:"t"`
	Value     []byte    `msgpack:"v"`
}

// OpenBoltStore initializes or opens a BoltStore at the given path.
func OpenBoltStore(path string, opts BoltOptions, storeOpts ...StoreOption) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, &StoreError{Op: "open", Path: path, Err: err}
	}
	bucket := []byte("cache")
	if opts.Bucket != "" {
		bucket = []byte(opts.Bucket)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, &StoreError{Op: "open", Path: path, Err: err}
	}
	cfg := newStoreConfig(storeOpts)
	return &BoltStore{db: db, path: path, bucket: bucket, now: cfg.now}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Load is a no-op; reads always see the committed state of the database.
func (s *BoltStore) Load() error { return nil }

func (s *BoltStore) Get(key string) (Entry, bool, error) {
	var (
		out    Entry
		exists bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return errNoBucket
		}
		v := b.Get([]byte(key))
		if v == nil {
			return nil
		}
		var be boltEntry
		if err := msgpack.Unmarshal(v, &be); err != nil {
			return err
		}
		exists = true
		out = Entry{FetchedAt: be.FetchedAt, Value: cloneValue(be.Value)}
		return nil
	})
	if err != nil {
		return Entry{}, false, &StoreError{Op: "get", Path: s.path, Err: err}
	}
	return out, exists, nil
}

func (s *BoltStore) Put(key string, value json.RawMessage) error {
	v, err := compactValue(value)
	if err != nil {
		return &StoreError{Op: "put", Path: s.path, Err: err}
	}
	buf, err := msgpack.Marshal(&boltEntry{FetchedAt: s.now(), Value: v})
	if err != nil {
		return &StoreError{Op: "put", Path: s.path, Err: err}
	}
	if err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return errNoBucket
		}
		return b.Put([]byte(key), buf)
	}); err != nil {
		return &StoreError{Op: "put", Path: s.path, Err: err}
	}
	return nil
}
