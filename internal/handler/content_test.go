package handler

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/homestead/homestead-go/internal/content"
)

func newTestContentHandler(t *testing.T) *ContentHandler {
	t.Helper()
	root := t.TempDir()

	blogDir := filepath.Join(root, "blog")
	if err := os.MkdirAll(blogDir, 0o755); err != nil {
		t.Fatal(err)
	}
	post := "---\ntitle: Hello World\ndescription: First post.\ndate: 2021-05-27\n---\nWelcome.\n"
	if err := os.WriteFile(filepath.Join(blogDir, "hello-world.md"), []byte(post), 0o644); err != nil {
		t.Fatal(err)
	}

	return NewContentHandler(content.NewStore(root), testBaseURL)
}

// routeRequest sends the request through a chi router so URL parameters
// resolve the way they do in production.
func routeRequest(h http.HandlerFunc, pattern, path string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Get(pattern, h)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHandlePageFound(t *testing.T) {
	h := newTestContentHandler(t)

	rec := routeRequest(h.HandlePage("blog"), "/blog/{slug}", "/blog/hello-world")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Hello World") {
		t.Error("page body should contain the title")
	}
}

func TestHandlePageNotFound(t *testing.T) {
	h := newTestContentHandler(t)

	rec := routeRequest(h.HandlePage("blog"), "/blog/{slug}", "/blog/nope")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	// The not-found view still carries recommendations.
	if !strings.Contains(rec.Body.String(), "hello-world") {
		t.Error("not-found page should recommend existing posts")
	}
}

func TestHandleRSS(t *testing.T) {
	h := newTestContentHandler(t)

	rec := httptest.NewRecorder()
	h.HandleRSS(rec, httptest.NewRequest(http.MethodGet, "/blog/rss.xml", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/xml") {
		t.Errorf("Content-Type = %q, want application/xml", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<![CDATA[Hello World]]>") {
		t.Error("feed should carry the CDATA-wrapped title")
	}
	if !strings.Contains(body, "<guid>"+testBaseURL+"/blog/hello-world</guid>") {
		t.Error("feed guid should be the blog base URL plus the slug")
	}
}

func TestHandleHome(t *testing.T) {
	h := newTestContentHandler(t)

	rec := httptest.NewRecorder()
	h.HandleHome(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Hello World") {
		t.Error("home should list blog items")
	}
}
