// internal/app/store/documents/documentstore.go
package documentstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/AashishRichhariya/openleaf/internal/app/system/normalize"
	"github.com/AashishRichhariya/openleaf/internal/domain/models"
	"go.uber.org/zap"
)

// ErrNotFound is returned when an update targets a slug with no stored document.
var ErrNotFound = errors.New("document not found")

// Backend is the key-value contract a document store runs on. Rows are
// keyed by (slug, version). Implementations surface driver errors as-is and
// never retry.
type Backend interface {
	// Get returns the stored document, or nil with a nil error when absent.
	Get(ctx context.Context, slug string, version int) (*models.Document, error)
	// Put writes doc unconditionally, replacing any existing row.
	Put(ctx context.Context, doc models.Document) error
	// Patch applies p to an existing row and returns the row as written.
	// It returns ErrNotFound when the row does not exist.
	Patch(ctx context.Context, slug string, version int, p Patch) (*models.Document, error)
	// Ping checks connectivity.
	Ping(ctx context.Context) error
}

// Patch lists the fields an update writes. Nil fields are left untouched.
// A non-nil Content pointing at a nil RawMessage writes null.
type Patch struct {
	Content   *json.RawMessage
	ReadOnly  *bool
	UpdatedAt *time.Time
}

// IsZero reports whether the patch writes nothing.
func (p Patch) IsZero() bool {
	return p.Content == nil && p.ReadOnly == nil && p.UpdatedAt == nil
}

// apply writes p onto doc in place.
func (p Patch) apply(doc *models.Document) {
	if p.Content != nil {
		doc.Content = cloneRaw(*p.Content)
	}
	if p.ReadOnly != nil {
		doc.ReadOnly = *p.ReadOnly
	}
	if p.UpdatedAt != nil {
		doc.UpdatedAt = p.UpdatedAt.UTC()
	}
}

// Store provides get/create/update/exists over a Backend at the fixed
// document version.
type Store struct {
	b      Backend
	logger *zap.Logger
}

// New creates a new document store.
func New(b Backend, logger *zap.Logger) *Store {
	return &Store{b: b, logger: logger}
}

// Get returns the document stored under slug, or nil if there is none.
// Backend errors are returned unchanged.
func (s *Store) Get(ctx context.Context, slug string) (*models.Document, error) {
	return s.b.Get(ctx, normalize.Slug(slug), models.DocumentVersion)
}

// Create writes doc as a new row. There is no existence check: a second
// Create for the same slug replaces the first (last writer wins).
func (s *Store) Create(ctx context.Context, doc models.Document) (models.Document, error) {
	doc.Slug = normalize.Slug(doc.Slug)
	if doc.Version == 0 {
		doc.Version = models.DocumentVersion
	}
	doc.Content = cloneRaw(doc.Content)
	if err := s.b.Put(ctx, doc); err != nil {
		return models.Document{}, err
	}
	return doc, nil
}

// Update applies p to the document at (slug, version).
//
// A missing document yields ErrNotFound. A read-only document is returned
// unchanged without a write; callers must not read a fresh UpdatedAt as a
// sign that anything was stored.
func (s *Store) Update(ctx context.Context, slug string, p Patch, version int) (models.Document, error) {
	slug = normalize.Slug(slug)
	existing, err := s.b.Get(ctx, slug, version)
	if err != nil {
		return models.Document{}, err
	}
	if existing == nil {
		return models.Document{}, fmt.Errorf("update %q: %w", slug, ErrNotFound)
	}
	if existing.ReadOnly {
		s.logger.Debug("update skipped for read-only document", zap.String("slug", slug))
		return *existing, nil
	}
	if p.IsZero() {
		return *existing, nil
	}

	updated, err := s.b.Patch(ctx, slug, version, p)
	if err != nil {
		return models.Document{}, err
	}
	return *updated, nil
}

// Exists reports whether any document is stored under slug.
func (s *Store) Exists(ctx context.Context, slug string) (bool, error) {
	doc, err := s.Get(ctx, slug)
	if err != nil {
		return false, err
	}
	return doc != nil, nil
}

// Ping checks the backend.
func (s *Store) Ping(ctx context.Context) error {
	return s.b.Ping(ctx)
}

func cloneRaw(raw json.RawMessage) json.RawMessage {
	if raw == nil {
		return nil
	}
	return append(json.RawMessage(nil), raw...)
}

// nullToNil maps a literal JSON null to a nil RawMessage so every backend
// reports empty content the same way.
func nullToNil(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return raw
}
