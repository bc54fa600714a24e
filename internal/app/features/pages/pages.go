// internal/app/features/pages/pages.go
package pages

import (
	"bytes"
	"context"
	"html/template"
	"net/http"
	"unicode/utf8"

	"github.com/AashishRichhariya/openleaf/internal/app/system/normalize"
	"github.com/AashishRichhariya/openleaf/internal/app/system/pagecache"
	"github.com/AashishRichhariya/openleaf/internal/app/system/render"
	"github.com/AashishRichhariya/openleaf/internal/app/system/slug"
	"github.com/AashishRichhariya/openleaf/internal/app/system/timeouts"
	"github.com/AashishRichhariya/openleaf/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// TitlePrefix starts every document page title.
const TitlePrefix = "openleaf | "

// maxDescription bounds the meta description, in runes.
const maxDescription = 160

// Service is the part of the document lifecycle pages read from.
type Service interface {
	Fetch(ctx context.Context, slug string) (*models.Document, error)
	RandomAvailableSlug(ctx context.Context) string
}

// Handler serves the document pages.
type Handler struct {
	svc    Service
	cache  *pagecache.Cache
	logger *zap.Logger
}

// NewHandler creates a new pages Handler. cache may be nil.
func NewHandler(svc Service, cache *pagecache.Cache, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, cache: cache, logger: logger}
}

// DocumentVM is the view model for a document page.
type DocumentVM struct {
	Title       string
	Description string
	Slug        string
	ReadOnly    bool
	IsNew       bool
	Content     template.HTML
}

// Routes returns a router with:
//   - GET /        - redirect to a freshly allocated slug
//   - GET /{slug}  - the document page
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.newDocument)
	r.Get("/{slug}", h.showDocument)
	return r
}

// newDocument sends the visitor to an unused slug.
func (h *Handler) newDocument(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.logger, "pages.allocate")
	defer cancel()

	s := h.svc.RandomAvailableSlug(ctx)
	http.Redirect(w, r, "/"+s, http.StatusFound)
}

// showDocument renders the snapshot for a slug, from cache when possible.
func (h *Handler) showDocument(w http.ResponseWriter, r *http.Request) {
	s := normalize.Slug(chi.URLParam(r, "slug"))
	if !slug.ValidName(s) {
		http.NotFound(w, r)
		return
	}
	path := "/" + s

	if h.cache != nil {
		if page, ok := h.cache.Get(path); ok {
			writePage(w, page, "HIT")
			return
		}
	}

	var gen uint64
	if h.cache != nil {
		gen = h.cache.Begin(path)
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "pages.fetch")
	defer cancel()

	doc, err := h.svc.Fetch(ctx, s)
	if err != nil {
		h.logger.Error("failed to fetch document for page", zap.String("slug", s), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	vm := DocumentVM{
		Title: TitlePrefix + s,
		Slug:  s,
		IsNew: doc == nil,
	}
	if doc != nil {
		vm.ReadOnly = doc.ReadOnly
		vm.Description = truncate(render.PlainText(doc.Content), maxDescription)
		vm.Content, err = render.HTML(doc.Content)
		if err != nil {
			// Serve the empty page.
			h.logger.Warn("failed to render document", zap.String("slug", s), zap.Error(err))
		}
	}

	var buf bytes.Buffer
	if err := documentTmpl.Execute(&buf, vm); err != nil {
		h.logger.Error("failed to execute page template", zap.String("slug", s), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	page := template.HTML(buf.String())
	if h.cache != nil {
		h.cache.PutIf(path, gen, page)
	}
	writePage(w, page, "MISS")
}

func writePage(w http.ResponseWriter, page template.HTML, cacheStatus string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Cache", cacheStatus)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(page))
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}
