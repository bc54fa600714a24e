// Package lifecycle is the read/write entry point for documents: it
// normalizes slugs, collapses empty content to null, stamps timestamps and
// signals cache revalidation after each save.
package lifecycle

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	documentstore "github.com/AashishRichhariya/openleaf/internal/app/store/documents"
	"github.com/AashishRichhariya/openleaf/internal/app/system/content"
	"github.com/AashishRichhariya/openleaf/internal/app/system/normalize"
	"github.com/AashishRichhariya/openleaf/internal/app/system/slugalloc"
	"github.com/AashishRichhariya/openleaf/internal/domain/models"
	"go.uber.org/zap"
)

// ErrEmptySlug is returned when a save names no slug.
var ErrEmptySlug = errors.New("slug is required")

// Store is the document persistence the service writes through.
type Store interface {
	Get(ctx context.Context, slug string) (*models.Document, error)
	Create(ctx context.Context, doc models.Document) (models.Document, error)
	Update(ctx context.Context, slug string, p documentstore.Patch, version int) (models.Document, error)
	Exists(ctx context.Context, slug string) (bool, error)
}

// Allocator hands out fresh slugs.
type Allocator interface {
	FindAvailable(ctx context.Context, maxAttempts int) string
}

// Revalidator drops any cached rendering of a route.
type Revalidator interface {
	Revalidate(ctx context.Context, path string)
}

type nopRevalidator struct{}

func (nopRevalidator) Revalidate(context.Context, string) {}

// Service implements save/fetch/exists/allocate over a Store.
type Service struct {
	store       Store
	alloc       Allocator
	reval       Revalidator
	logger      *zap.Logger
	maxAttempts int
	now         func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithRevalidator sets the cache invalidation target.
func WithRevalidator(r Revalidator) Option {
	return func(s *Service) { s.reval = r }
}

// WithClock replaces time.Now for timestamping.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithMaxAttempts sets the allocator probe budget.
func WithMaxAttempts(n int) Option {
	return func(s *Service) { s.maxAttempts = n }
}

// New creates a Service.
func New(store Store, alloc Allocator, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		store:       store,
		alloc:       alloc,
		reval:       nopRevalidator{},
		logger:      logger,
		maxAttempts: slugalloc.DefaultMaxAttempts,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save persists content under slug.
//
// isNew is trusted: true always creates (overwriting any existing row), false
// always updates and fails with documentstore.ErrNotFound when nothing is
// stored. Saving to a read-only document returns it unchanged.
func (s *Service) Save(ctx context.Context, slug string, raw json.RawMessage, readOnly, isNew bool) (models.Document, error) {
	slug = normalize.Slug(slug)
	if slug == "" {
		return models.Document{}, ErrEmptySlug
	}
	body := content.Normalize(raw)
	now := s.now().UTC()

	var (
		doc models.Document
		err error
	)
	if isNew {
		doc, err = s.store.Create(ctx, models.Document{
			Slug:      slug,
			Version:   models.DocumentVersion,
			Content:   body,
			ReadOnly:  readOnly,
			CreatedAt: now,
			UpdatedAt: now,
		})
	} else {
		doc, err = s.store.Update(ctx, slug, documentstore.Patch{
			Content:   &body,
			ReadOnly:  &readOnly,
			UpdatedAt: &now,
		}, models.DocumentVersion)
	}
	if err != nil {
		s.logger.Error("document save failed",
			zap.String("slug", slug),
			zap.Bool("new", isNew),
			zap.Error(err))
		return models.Document{}, err
	}

	s.logger.Debug("document saved",
		zap.String("slug", slug),
		zap.Bool("new", isNew),
		zap.Bool("empty", body == nil))
	s.reval.Revalidate(ctx, "/"+slug)
	return doc, nil
}

// Fetch returns the document stored under slug, or nil.
func (s *Service) Fetch(ctx context.Context, slug string) (*models.Document, error) {
	return s.store.Get(ctx, normalize.Slug(slug))
}

// CheckExists reports whether a document is stored under slug.
func (s *Service) CheckExists(ctx context.Context, slug string) (bool, error) {
	return s.store.Exists(ctx, normalize.Slug(slug))
}

// RandomAvailableSlug allocates a slug for a new document.
func (s *Service) RandomAvailableSlug(ctx context.Context) string {
	return s.alloc.FindAvailable(ctx, s.maxAttempts)
}
