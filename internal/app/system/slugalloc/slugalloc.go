// Package slugalloc picks generated slugs that are safe to start a new
// document under.
package slugalloc

import (
	"context"

	"github.com/AashishRichhariya/openleaf/internal/app/system/content"
	"github.com/AashishRichhariya/openleaf/internal/domain/models"
	"go.uber.org/zap"
)

// DefaultMaxAttempts is the probe budget used when none is configured.
const DefaultMaxAttempts = 20

// Generator produces candidate slugs. *slug.Codec satisfies it.
type Generator interface {
	Generate() string
}

// Prober looks up the document currently stored under a slug.
// *documentstore.Store satisfies it.
type Prober interface {
	Get(ctx context.Context, slug string) (*models.Document, error)
}

// Allocator finds a slug with no document, or whose document is empty.
//
// The check is not a reservation: two allocators can hand out the same slug
// before either writes to it.
type Allocator struct {
	gen    Generator
	store  Prober
	logger *zap.Logger
}

// New creates an allocator.
func New(gen Generator, store Prober, logger *zap.Logger) *Allocator {
	return &Allocator{gen: gen, store: store, logger: logger}
}

// FindAvailable generates up to maxAttempts candidates and returns the first
// one that is free. It never fails: when every attempt is taken it logs a
// warning and returns the last candidate. A probe error counts as free.
func (a *Allocator) FindAvailable(ctx context.Context, maxAttempts int) string {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var last string
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		candidate := a.gen.Generate()
		if candidate == "" {
			a.logger.Warn("slug generator produced an empty candidate", zap.Int("attempt", attempt))
			continue
		}
		last = candidate

		doc, err := a.store.Get(ctx, candidate)
		if err != nil {
			a.logger.Warn("slug probe failed; treating candidate as available",
				zap.String("slug", candidate),
				zap.Int("attempt", attempt),
				zap.Error(err))
			return candidate
		}
		if doc == nil || content.IsEmpty(doc.Content) {
			a.logger.Debug("slug allocated",
				zap.String("slug", candidate),
				zap.Int("attempt", attempt))
			return candidate
		}
	}

	a.logger.Warn("slug allocation exhausted; reusing last candidate",
		zap.String("slug", last),
		zap.Int("attempts", maxAttempts))
	return last
}
