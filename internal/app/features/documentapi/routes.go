package documentapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns a router with the document API endpoints.
//
// cors wraps every route; pass apicors.FromList(origins). Browsers call this
// API from the editor page without credentials.
func Routes(h *Handler, cors func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	if cors != nil {
		r.Use(cors)
	}

	r.Route("/documents/{slug}", func(sr chi.Router) {
		sr.Get("/", h.Get)
		sr.Put("/", h.Save)
		sr.Get("/exists", h.Exists)
	})
	r.Post("/slugs", h.NewSlug)

	return r
}
