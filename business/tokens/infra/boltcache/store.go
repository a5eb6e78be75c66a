// Package boltcache persists the token catalog in a bbolt file so that it
// survives restarts.
package boltcache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.etcd.io/bbolt"

	"github.com/fd1az/swap-explorer/business/tokens/app"
	"github.com/fd1az/swap-explorer/business/tokens/domain"
	"github.com/fd1az/swap-explorer/internal/apperror"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var bucketName = []byte("catalog")

var _ app.CatalogCache = (*Store)(nil)

// Store is a bbolt backed CatalogCache.
type Store struct {
	db *bbolt.DB
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache bucket: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Load(_ context.Context, key string) (domain.Catalog, bool, error) {
	var catalog domain.Catalog
	found := false

	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b == nil {
			return nil
		}
		raw := b.Get([]byte(key))
		if raw == nil {
			return nil
		}
		found = true
		// raw is only valid inside the transaction.
		return json.Unmarshal(raw, &catalog)
	})
	if err != nil {
		return nil, false, apperror.Internal(apperror.CodeCacheReadFailed, key, err)
	}
	return catalog, found, nil
}

func (s *Store) Store(_ context.Context, key string, catalog domain.Catalog) error {
	raw, err := json.Marshal(catalog)
	if err != nil {
		return apperror.Internal(apperror.CodeCacheWriteFailed, key, err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b == nil {
			return errors.New("catalog bucket missing")
		}
		return b.Put([]byte(key), raw)
	})
	if err != nil {
		return apperror.Internal(apperror.CodeCacheWriteFailed, key, err)
	}
	return nil
}

// Delete removes key. Missing keys are not an error.
func (s *Store) Delete(_ context.Context, key string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Delete([]byte(key))
	})
}

func (s *Store) Close() error {
	return s.db.Close()
}
