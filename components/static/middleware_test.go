package static

import (
	"errors"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
)

func apiHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = io.WriteString(w, "next")
	})
}

func serve(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func writeBundle(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "assets"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "assets", "app.js"), []byte("console.log('app')"), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestResolveRoot(t *testing.T) {
	if got := ResolveRoot("dist", "/srv/app"); got != filepath.Join("/srv/app", "dist") {
		t.Fatalf("unexpected relative root %q", got)
	}
	if got := ResolveRoot("/opt/dist/", "/srv/app"); got != "/opt/dist" {
		t.Fatalf("unexpected absolute root %q", got)
	}
	if got := ResolveRoot("", "/srv/app"); got != filepath.Join("/srv/app", DefaultRoot) {
		t.Fatalf("unexpected default root %q", got)
	}
}

func TestMiddleware_ServesFilesAndFallsBackToIndex(t *testing.T) {
	c, err := New(WithRoot(writeBundle(t)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h := c.Middleware(apiHandler())

	rec := serve(t, h, http.MethodGet, "/assets/app.js")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "console.log") {
		t.Fatalf("expected asset, got %d %q", rec.Code, rec.Body.String())
	}

	for _, target := range []string{"/", "/admin/settings", "/missing.js"} {
		rec = serve(t, h, http.MethodGet, target)
		if rec.Code != http.StatusOK || rec.Body.String() != "<html>app</html>" {
			t.Fatalf("%s: expected index fallback, got %d %q", target, rec.Code, rec.Body.String())
		}
	}
}

func TestMiddleware_PassesThroughAPIAndWrites(t *testing.T) {
	c, err := New(WithRoot(writeBundle(t)), WithAPIPrefix("/api"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h := c.Middleware(apiHandler())

	if rec := serve(t, h, http.MethodGet, "/api/app:getLang"); rec.Code != http.StatusTeapot {
		t.Fatalf("expected API passthrough, got %d", rec.Code)
	}
	if rec := serve(t, h, http.MethodPost, "/upload"); rec.Code != http.StatusTeapot {
		t.Fatalf("expected POST passthrough, got %d", rec.Code)
	}
}

func TestMiddleware_DisabledInProduction(t *testing.T) {
	c, err := New(WithRoot(writeBundle(t)), WithEnv(EnvProduction))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.Enabled() {
		t.Fatalf("expected middleware disabled in production")
	}
	if rec := serve(t, c.Middleware(apiHandler()), http.MethodGet, "/"); rec.Code != http.StatusTeapot {
		t.Fatalf("expected passthrough, got %d", rec.Code)
	}
}

func TestMiddleware_MissingRootUsesFallback(t *testing.T) {
	fallback := fstest.MapFS{"index.html": {Data: []byte("placeholder")}}
	c, err := New(WithRoot(filepath.Join(t.TempDir(), "missing")), WithFallback(fallback))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rec := serve(t, c.Middleware(apiHandler()), http.MethodGet, "/anything")
	if rec.Body.String() != "placeholder" {
		t.Fatalf("expected placeholder, got %q", rec.Body.String())
	}

	c, err = New(WithRoot(filepath.Join(t.TempDir(), "missing")), WithFallback(nil))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.Enabled() {
		t.Fatalf("expected middleware disabled without a bundle")
	}
}

func TestPlaceholderFSHasIndex(t *testing.T) {
	c, err := New(WithRoot(filepath.Join(t.TempDir(), "missing")))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rec := serve(t, c.Middleware(apiHandler()), http.MethodGet, "/")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "client bundle has not been built") {
		t.Fatalf("unexpected placeholder response %d %q", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "{{") {
		t.Fatalf("placeholder served unrendered: %q", rec.Body.String())
	}
}

func TestRenderPlaceholder(t *testing.T) {
	fsys, err := RenderPlaceholder(PlaceholderData{Version: "1.2.3", Lang: `zh-CN"><script>`})
	if err != nil {
		t.Fatalf("RenderPlaceholder: %v", err)
	}
	c, err := New(WithRoot(filepath.Join(t.TempDir(), "missing")), WithFallback(fsys))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rec := serve(t, c.Middleware(apiHandler()), http.MethodGet, "/settings/languages")
	body := rec.Body.String()
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	for _, want := range []string{`content="1.2.3"`, "<title>formkit 1.2.3</title>", `lang="zh-CN&quot;&gt;&lt;script&gt;"`} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %s:\n%s", want, body)
		}
	}

	fsys, err = RenderPlaceholder(PlaceholderData{})
	if err != nil {
		t.Fatalf("RenderPlaceholder: %v", err)
	}
	data, err := fs.ReadFile(fsys, DefaultIndex)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), `<html lang="en-US">`) || !strings.Contains(string(data), "<title>formkit</title>") {
		t.Fatalf("defaults not applied:\n%s", data)
	}
	if _, err := fsys.Open("other.html"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("Open(other.html) err = %v", err)
	}
}
