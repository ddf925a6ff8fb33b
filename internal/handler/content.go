package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/homestead/homestead-go/internal/content"
)

// ContentHandler serves content pages, the blog index, and the RSS feed.
type ContentHandler struct {
	store   *content.Store
	baseURL string
}

// NewContentHandler creates a new ContentHandler.
func NewContentHandler(store *content.Store, baseURL string) *ContentHandler {
	return &ContentHandler{store: store, baseURL: baseURL}
}

// HandlePage returns a handler resolving {slug} within the given content
// directory. An unknown slug renders the not-found view, which still carries
// blog recommendations.
func (h *ContentHandler) HandlePage(dir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")

		recommendations := h.store.Recommendations(content.DefaultRecommendations)

		page, err := h.store.Resolve(dir, slug)
		switch {
		case errors.Is(err, content.ErrPageNotFound):
			render(w, http.StatusNotFound, "notfound", notFoundData{Recommendations: recommendations})
		case err != nil:
			slog.Error("resolving content page", "dir", dir, "slug", slug, "error", err)
			renderError(w)
		default:
			render(w, http.StatusOK, "page", pageData{Page: page, Recommendations: recommendations})
		}
	}
}

// HandleHome handles GET / requests with the latest blog items.
func (h *ContentHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.List(content.BlogDir)
	if err != nil {
		slog.Error("listing blog items", "error", err)
		renderError(w)
		return
	}
	render(w, http.StatusOK, "home", homeData{Items: items})
}

// HandleRSS handles GET /blog/rss.xml requests.
func (h *ContentHandler) HandleRSS(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.List(content.BlogDir)
	if err != nil {
		slog.Error("listing blog items for feed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(content.RenderRSS(h.baseURL, items))); err != nil {
		slog.Error("writing feed", "error", err)
	}
}
