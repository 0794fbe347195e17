package static

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandlerServesIndexForAppRoutes(t *testing.T) {
	h := Handler()
	for _, p := range []string{"/", "/watch", "/some/deep/route"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, p, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", p, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "<title>wheeldash</title>") {
			t.Fatalf("%s: expected index page", p)
		}
		if rec.Header().Get("Cache-Control") != "no-cache" {
			t.Fatalf("%s: expected no-cache header", p)
		}
	}
}

func TestHandlerServesAssets(t *testing.T) {
	h := Handler()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/app.js", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "/api/state") {
		t.Fatalf("expected app.js, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing.js", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for a missing asset, got %d", rec.Code)
	}
}
