// Package documentapi provides the JSON API the editor saves and loads
// documents through.
//
// Endpoints (mounted at /api):
//   - GET  /api/documents/{slug}         - Fetch a document (404 when absent)
//   - PUT  /api/documents/{slug}         - Save a document
//   - GET  /api/documents/{slug}/exists  - Report whether a document is stored
//   - POST /api/slugs                    - Allocate a slug for a new document
package documentapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	documentstore "github.com/AashishRichhariya/openleaf/internal/app/store/documents"
	"github.com/AashishRichhariya/openleaf/internal/app/system/jsonutil"
	"github.com/AashishRichhariya/openleaf/internal/app/system/lifecycle"
	"github.com/AashishRichhariya/openleaf/internal/app/system/normalize"
	"github.com/AashishRichhariya/openleaf/internal/app/system/timeouts"
	"github.com/AashishRichhariya/openleaf/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Service is the document lifecycle the handlers delegate to.
type Service interface {
	Save(ctx context.Context, slug string, raw json.RawMessage, readOnly, isNew bool) (models.Document, error)
	Fetch(ctx context.Context, slug string) (*models.Document, error)
	CheckExists(ctx context.Context, slug string) (bool, error)
	RandomAvailableSlug(ctx context.Context) string
}

// Handler handles document API requests.
type Handler struct {
	svc    Service
	logger *zap.Logger
}

// NewHandler creates a new documentapi handler.
func NewHandler(svc Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// SaveRequest is the PUT body.
//
//	{
//	    "content": { "root": { ... } },
//	    "read_only": false,
//	    "is_new_document": true
//	}
type SaveRequest struct {
	Content       json.RawMessage `json:"content"`
	ReadOnly      bool            `json:"read_only"`
	IsNewDocument *bool           `json:"is_new_document"`
}

// ExistsResponse is returned by the exists endpoint.
type ExistsResponse struct {
	Exists bool `json:"exists"`
}

// SlugResponse is returned by the slug allocation endpoint.
type SlugResponse struct {
	Slug string `json:"slug"`
}

// Get handles GET /documents/{slug}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	slug := normalize.Slug(chi.URLParam(r, "slug"))

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "documents.fetch")
	defer cancel()

	doc, err := h.svc.Fetch(ctx, slug)
	if err != nil {
		h.logger.Error("failed to fetch document", zap.String("slug", slug), zap.Error(err))
		jsonutil.InternalError(w, "failed to fetch document")
		return
	}
	if doc == nil {
		jsonutil.NotFound(w, "document not found")
		return
	}
	jsonutil.OK(w, doc)
}

// Save handles PUT /documents/{slug}.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	slug := normalize.Slug(chi.URLParam(r, "slug"))

	var req SaveRequest
	if err := jsonutil.Decode(r, &req); err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}
	if fields := validateSave(slug, req); fields != nil {
		jsonutil.ValidationError(w, fields)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.logger, "documents.save")
	defer cancel()

	doc, err := h.svc.Save(ctx, slug, req.Content, req.ReadOnly, *req.IsNewDocument)
	switch {
	case errors.Is(err, documentstore.ErrNotFound):
		jsonutil.NotFound(w, "document not found")
		return
	case errors.Is(err, lifecycle.ErrEmptySlug):
		jsonutil.BadRequest(w, err.Error())
		return
	case err != nil:
		// The service has already logged the failure.
		jsonutil.InternalError(w, "failed to save document")
		return
	}
	jsonutil.OK(w, doc)
}

// Exists handles GET /documents/{slug}/exists.
func (h *Handler) Exists(w http.ResponseWriter, r *http.Request) {
	slug := normalize.Slug(chi.URLParam(r, "slug"))

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "documents.exists")
	defer cancel()

	ok, err := h.svc.CheckExists(ctx, slug)
	if err != nil {
		h.logger.Error("failed to check document", zap.String("slug", slug), zap.Error(err))
		jsonutil.InternalError(w, "failed to check document")
		return
	}
	jsonutil.OK(w, ExistsResponse{Exists: ok})
}

// NewSlug handles POST /slugs.
func (h *Handler) NewSlug(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.logger, "slugs.allocate")
	defer cancel()

	jsonutil.OK(w, SlugResponse{Slug: h.svc.RandomAvailableSlug(ctx)})
}
