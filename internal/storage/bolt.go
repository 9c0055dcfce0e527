package storage

import (
	"context"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// OpenBolt opens (or creates) the bbolt database file at path.
func OpenBolt(path string, timeout time.Duration) (*bolt.DB, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("opening bolt db %q: %w", path, err)
	}
	return db, nil
}

// BoltStore keeps records of one kind in a single bucket. Create and Update
// each run inside one read-write transaction, which bbolt serialises, so the
// uniqueness check and read-modify-write cycles cannot interleave.
type BoltStore[T ValidatingSpec] struct {
	db     *bolt.DB
	bucket []byte
}

func NewBoltStore[T ValidatingSpec](db *bolt.DB, bucket string) (*BoltStore[T], error) {
	s := &BoltStore[T]{
		db:     db,
		bucket: []byte(bucket),
	}

	err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(s.bucket)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("creating bucket %q: %w", bucket, err)
	}

	return s, nil
}

func (s *BoltStore[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	var asset *Asset[T]
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(s.bucket).Get([]byte(id))
		if data == nil {
			return ErrNotFound
		}

		var err error
		asset, err = decodeAsset[T](data)
		return err
	})
	if err != nil {
		return zero, err
	}

	return asset.Spec, nil
}

func (s *BoltStore[T]) Create(ctx context.Context, id string, v T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := encodeAsset(id, v)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b.Get([]byte(id)) != nil {
			return ErrExists
		}
		return b.Put([]byte(id), data)
	})
}

func (s *BoltStore[T]) Update(ctx context.Context, id string, fn func(T) error) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	var updated T
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		data := b.Get([]byte(id))
		if data == nil {
			return ErrNotFound
		}

		asset, err := decodeAsset[T](data)
		if err != nil {
			return fmt.Errorf("decoding %s: %w", id, err)
		}

		if err := fn(asset.Spec); err != nil {
			return err
		}

		out, err := encodeAsset(id, asset.Spec)
		if err != nil {
			return err
		}

		updated = asset.Spec
		return b.Put([]byte(id), out)
	})
	if err != nil {
		return zero, err
	}

	return updated, nil
}

func (s *BoltStore[T]) Save(ctx context.Context, id string, v T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := encodeAsset(id, v)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put([]byte(id), data)
	})
}

// BoltCloser keeps a bolt database open for the life of the service and
// closes it on shutdown.
type BoltCloser struct {
	db *bolt.DB
}

func NewBoltCloser(db *bolt.DB) *BoltCloser {
	return &BoltCloser{db: db}
}

func (c *BoltCloser) Start(ctx context.Context) error {
	<-ctx.Done()
	return c.db.Close()
}
