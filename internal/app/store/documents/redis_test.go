package documentstore

import (
	"context"
	"testing"

	"github.com/AashishRichhariya/openleaf/internal/domain/models"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newMiniredisBackend(t *testing.T) (*RedisBackend, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedis(client, ""), s
}

func TestRedisBackend(t *testing.T) {
	runBackendSuite(t, func(t *testing.T) Backend {
		b, _ := newMiniredisBackend(t)
		return b
	})
}

func TestRedisBackend_KeyLayout(t *testing.T) {
	b, s := newMiniredisBackend(t)
	if err := b.Put(context.Background(), models.Document{Slug: "quiet-amber-heron", Version: 1}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if !s.Exists("openleaf:doc:quiet-amber-heron:1") {
		t.Errorf("keys = %v, want openleaf:doc:quiet-amber-heron:1", s.Keys())
	}
}

func TestRedisBackend_CustomPrefix(t *testing.T) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	b := NewRedis(client, "test:")
	if err := b.Put(context.Background(), models.Document{Slug: "a", Version: 1}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if !s.Exists("test:a:1") {
		t.Errorf("keys = %v, want test:a:1", s.Keys())
	}
}
