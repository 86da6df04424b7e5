package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"

	"github.com/dgraph-io/badger/v4"
)

// Codec turns an entity into bytes and back.
type Codec[T any] struct {
	Marshal   func(*T) ([]byte, error)
	Unmarshal func([]byte) (*T, error)
}

// JSONCodec stores entities with encoding/json.
func JSONCodec[T any]() Codec[T] {
	return Codec[T]{
		Marshal: func(v *T) ([]byte, error) { return json.Marshal(v) },
		Unmarshal: func(data []byte) (*T, error) {
			var v T
			if err := json.Unmarshal(data, &v); err != nil {
				return nil, err
			}
			return &v, nil
		},
	}
}

// Entity provides generic CRUD operations for any domain type.
//
// Records live under prefix+id. Each secondary index maps
// prefix+"idx:"+name+":"+value to the owning id and is unique.
type Entity[T any] struct {
	store   *Store
	prefix  string
	codec   Codec[T]
	indexes []Index[T]
}

// Index defines a secondary index on an entity.
type Index[T any] struct {
	name            string
	keyGen          func(*T) []string
	lookupTransform func(string) string // Optional transformation for lookups
}

// NewEntity creates a new Entity instance for type T stored as JSON.
func NewEntity[T any](s *Store, prefix string) *Entity[T] {
	return &Entity[T]{
		store:  s,
		prefix: prefix,
		codec:  JSONCodec[T](),
	}
}

// WithCodec replaces the value encoding.
func (e *Entity[T]) WithCodec(c Codec[T]) *Entity[T] {
	e.codec = c
	return e
}

// WithIndex adds a secondary index to the entity.
func (e *Entity[T]) WithIndex(name string, keyGen func(*T) []string) *Entity[T] {
	e.indexes = append(e.indexes, Index[T]{
		name:   name,
		keyGen: keyGen,
	})
	return e
}

// WithIndexTransform adds a secondary index with lookup transformation.
// The lookupTransform function is applied to search values before index lookup,
// enabling case-insensitive searches, normalization, etc.
func (e *Entity[T]) WithIndexTransform(name string, keyGen func(*T) []string, lookupTransform func(string) string) *Entity[T] {
	e.indexes = append(e.indexes, Index[T]{
		name:            name,
		keyGen:          keyGen,
		lookupTransform: lookupTransform,
	})
	return e
}

// Create creates a new entity with the given ID.
// Returns ErrAlreadyExists if an entity with this ID, or one of its index
// values, already exists.
func (e *Entity[T]) Create(ctx context.Context, id string, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := e.codec.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	return e.store.db.Update(func(txn *badger.Txn) error {
		key := buildKey(e.prefix, id)
		defer releaseKey(key)

		_, err := txn.Get(key)
		if err == nil {
			return ErrAlreadyExists.WithMessage(fmt.Sprintf("%s%s already exists", e.prefix, id))
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("failed to check existing key: %w", err)
		}

		return e.write(txn, id, data, entity, nil)
	})
}

// Get retrieves an entity by ID.
// Returns ErrNotFound if the entity does not exist.
func (e *Entity[T]) Get(ctx context.Context, id string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var entity *T
	err := e.store.db.View(func(txn *badger.Txn) error {
		var err error
		entity, err = e.read(txn, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entity, nil
}

// GetByIndex retrieves an entity by secondary index.
// If the index has a lookup transform, it will be applied to the value before lookup.
func (e *Entity[T]) GetByIndex(ctx context.Context, indexName, value string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, idx := range e.indexes {
		if idx.name == indexName && idx.lookupTransform != nil {
			value = idx.lookupTransform(value)
			break
		}
	}

	var entity *T
	err := e.store.db.View(func(txn *badger.Txn) error {
		indexKey := buildIndexKey(e.prefix, indexName, value)
		defer releaseKey(indexKey)

		item, err := txn.Get(indexKey)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound.WithMessage(fmt.Sprintf("no %s with %s %q", e.prefix, indexName, value))
		}
		if err != nil {
			return err
		}

		id, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		entity, err = e.read(txn, string(id))
		return err
	})
	if err != nil {
		return nil, err
	}
	return entity, nil
}

// Update replaces an existing entity and moves its index entries.
// Returns ErrNotFound if the entity does not exist.
func (e *Entity[T]) Update(ctx context.Context, id string, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := e.codec.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	return e.store.db.Update(func(txn *badger.Txn) error {
		old, err := e.read(txn, id)
		if err != nil {
			return err
		}
		return e.write(txn, id, data, entity, old)
	})
}

// Save creates the entity or replaces the existing one.
// It reports whether a new record was created.
func (e *Entity[T]) Save(ctx context.Context, id string, entity *T) (created bool, err error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	data, err := e.codec.Marshal(entity)
	if err != nil {
		return false, fmt.Errorf("failed to marshal entity: %w", err)
	}

	err = e.store.db.Update(func(txn *badger.Txn) error {
		old, err := e.read(txn, id)
		switch {
		case errors.Is(err, ErrNotFound):
			created = true
			old = nil
		case err != nil:
			return err
		}
		return e.write(txn, id, data, entity, old)
	})
	return created, err
}

// Delete deletes an entity by ID.
// This operation is idempotent - it does not return an error if the entity does not exist.
func (e *Entity[T]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return e.store.db.Update(func(txn *badger.Txn) error {
		entity, err := e.read(txn, id)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		for _, idx := range e.indexes {
			for _, value := range idx.keyGen(entity) {
				if err := e.deleteIndex(txn, idx.name, value); err != nil {
					return err
				}
			}
		}

		key := buildKey(e.prefix, id)
		defer releaseKey(key)
		if err := txn.Delete(key); err != nil {
			return fmt.Errorf("failed to delete key: %w", err)
		}
		return nil
	})
}

// List returns an iterator over all entities in key order.
func (e *Entity[T]) List(ctx context.Context) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		_ = e.scan(ctx, "", func(_ string, entity *T, err error) bool {
			return yield(entity, err)
		})
	}
}

// Count returns the number of stored entities.
func (e *Entity[T]) Count(ctx context.Context) (int, error) {
	n := 0
	err := e.store.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(e.prefix)
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if !e.isIndexKey(it.Item().Key()) {
				n++
			}
		}
		return nil
	})
	return n, err
}

// Page returns up to params.Limit entities after the cursor, in key order.
func (e *Entity[T]) Page(ctx context.Context, params PaginationParams) (*PaginatedResult[*T], error) {
	params.Validate()

	after, err := DecodeCursor(params.Cursor)
	if err != nil {
		return nil, ErrInvalidInput.WithCause(err)
	}

	result := &PaginatedResult[*T]{Items: make([]*T, 0, params.Limit)}
	var lastID string
	var scanErr error
	err = e.scan(ctx, after, func(id string, entity *T, err error) bool {
		if err != nil {
			scanErr = err
			return false
		}
		if len(result.Items) == params.Limit {
			result.HasMore = true
			return false
		}
		result.Items = append(result.Items, entity)
		lastID = id
		return true
	})
	if err != nil {
		return nil, err
	}
	if scanErr != nil {
		return nil, scanErr
	}
	if result.HasMore {
		result.NextCursor = EncodeCursor(lastID)
	}
	return result, nil
}

// scan visits entities in key order, starting after the id afterID when it is
// non-empty. fn returning false stops the scan.
func (e *Entity[T]) scan(ctx context.Context, afterID string, fn func(id string, entity *T, err error) bool) error {
	return e.store.db.View(func(txn *badger.Txn) error {
		prefix := []byte(e.prefix)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = true

		it := txn.NewIterator(opts)
		defer it.Close()

		start := prefix
		if afterID != "" {
			start = append([]byte(e.prefix+afterID), 0)
		}

		for it.Seek(start); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				fn("", nil, err)
				return err
			}

			key := it.Item().Key()
			if e.isIndexKey(key) {
				continue
			}

			var entity *T
			err := it.Item().Value(func(val []byte) error {
				var err error
				entity, err = e.codec.Unmarshal(val)
				return err
			})
			if err != nil {
				err = fmt.Errorf("failed to unmarshal %s: %w", key, err)
				fn("", nil, err)
				return err
			}

			if !fn(string(key[len(prefix):]), entity, nil) {
				return nil
			}
		}
		return nil
	})
}

func (e *Entity[T]) isIndexKey(key []byte) bool {
	return bytes.HasPrefix(key[len(e.prefix):], []byte("idx:"))
}

// read loads id inside txn.
func (e *Entity[T]) read(txn *badger.Txn, id string) (*T, error) {
	key := buildKey(e.prefix, id)
	defer releaseKey(key)

	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound.WithMessage(fmt.Sprintf("%s%s not found", e.prefix, id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key: %w", err)
	}

	var entity *T
	err = item.Value(func(val []byte) error {
		var err error
		entity, err = e.codec.Unmarshal(val)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal entity: %w", err)
	}
	return entity, nil
}

// write stores data under id and replaces the index entries of old (nil for
// a new record) with those of entity, failing on a value owned by another id.
func (e *Entity[T]) write(txn *badger.Txn, id string, data []byte, entity, old *T) error {
	for _, idx := range e.indexes {
		oldValues := make(map[string]bool)
		if old != nil {
			for _, v := range idx.keyGen(old) {
				oldValues[v] = true
			}
		}

		newValues := idx.keyGen(entity)
		for _, v := range newValues {
			if oldValues[v] {
				delete(oldValues, v)
				continue
			}
			owner, err := e.indexOwner(txn, idx.name, v)
			if err != nil {
				return err
			}
			if owner != "" && owner != id {
				return ErrAlreadyExists.WithMessage(
					fmt.Sprintf("index %s conflict on key %s: owned by %s", idx.name, v, owner))
			}
		}

		for v := range oldValues {
			if err := e.deleteIndex(txn, idx.name, v); err != nil {
				return err
			}
		}
		for _, v := range newValues {
			indexKey := buildIndexKey(e.prefix, idx.name, v)
			err := txn.Set(bytes.Clone(indexKey), []byte(id))
			releaseKey(indexKey)
			if err != nil {
				return fmt.Errorf("failed to set index key: %w", err)
			}
		}
	}

	if err := txn.Set([]byte(e.prefix+id), data); err != nil {
		return fmt.Errorf("failed to set key: %w", err)
	}
	return nil
}

func (e *Entity[T]) indexOwner(txn *badger.Txn, name, value string) (string, error) {
	indexKey := buildIndexKey(e.prefix, name, value)
	defer releaseKey(indexKey)

	item, err := txn.Get(indexKey)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to check index key: %w", err)
	}
	owner, err := item.ValueCopy(nil)
	if err != nil {
		return "", err
	}
	return string(owner), nil
}

func (e *Entity[T]) deleteIndex(txn *badger.Txn, name, value string) error {
	indexKey := buildIndexKey(e.prefix, name, value)
	err := txn.Delete(bytes.Clone(indexKey))
	releaseKey(indexKey)
	if err != nil {
		return fmt.Errorf("failed to delete index key: %w", err)
	}
	return nil
}
