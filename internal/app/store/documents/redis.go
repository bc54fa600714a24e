package documentstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/AashishRichhariya/openleaf/internal/domain/models"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisKeyPrefix namespaces document keys.
const DefaultRedisKeyPrefix = "openleaf:doc:"

// maxPatchRetries bounds optimistic-lock retries when a key changes between
// WATCH and EXEC.
const maxPatchRetries = 3

// RedisBackend stores each document as a JSON string at
// <prefix><slug>:<version>.
type RedisBackend struct {
	client *redis.Client
	prefix string
}

// NewRedis creates a backend over an existing client.
func NewRedis(client *redis.Client, prefix string) *RedisBackend {
	if prefix == "" {
		prefix = DefaultRedisKeyPrefix
	}
	return &RedisBackend{client: client, prefix: prefix}
}

func (r *RedisBackend) key(slug string, version int) string {
	return fmt.Sprintf("%s%s:%d", r.prefix, slug, version)
}

func decodeRedisDocument(data []byte) (*models.Document, error) {
	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	doc.Content = nullToNil(doc.Content)
	return &doc, nil
}

// Get implements Backend.
func (r *RedisBackend) Get(ctx context.Context, slug string, version int) (*models.Document, error) {
	data, err := r.client.Get(ctx, r.key(slug, version)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeRedisDocument(data)
}

// Put implements Backend.
func (r *RedisBackend) Put(ctx context.Context, doc models.Document) error {
	doc.Content = nullToNil(doc.Content)
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(doc.Slug, doc.Version), data, 0).Err()
}

// Patch implements Backend. The read-modify-write runs under WATCH so a
// concurrent writer forces a retry instead of being overwritten.
func (r *RedisBackend) Patch(ctx context.Context, slug string, version int, p Patch) (*models.Document, error) {
	key := r.key(slug, version)
	var out *models.Document

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		doc, err := decodeRedisDocument(data)
		if err != nil {
			return err
		}
		p.apply(doc)
		doc.Content = nullToNil(doc.Content)
		enc, err := json.Marshal(doc)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, enc, 0)
			return nil
		})
		if err == nil {
			out = doc
		}
		return err
	}

	for i := 0; i < maxPatchRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return out, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("patch %q: %w", slug, redis.TxFailedErr)
}

// Ping implements Backend.
func (r *RedisBackend) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
