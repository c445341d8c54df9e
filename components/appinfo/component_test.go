package appinfo

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/action"
)

func TestResolveLang(t *testing.T) {
	cases := []struct {
		name     string
		enabled  []string
		user     string
		fallback string
		want     string
	}{
		{name: "user language enabled", enabled: []string{"en-US", "zh-CN"}, user: "zh-CN", fallback: "en-US", want: "zh-CN"},
		{name: "user language not enabled", enabled: []string{"en-US", "zh-CN"}, user: "ja-JP", fallback: "en-US", want: "en-US"},
		{name: "first enabled", enabled: []string{"zh-CN"}, user: "", fallback: "en-US", want: "zh-CN"},
		{name: "no settings uses fallback", enabled: nil, user: "zh-CN", fallback: "fr-FR", want: "fr-FR"},
		{name: "empty fallback", enabled: nil, user: "", fallback: "", want: "en-US"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResolveLang(tc.enabled, tc.user, tc.fallback); got != tc.want {
				t.Fatalf("ResolveLang = %q, want %q", got, tc.want)
			}
		})
	}
}

func newMux(t *testing.T, fns ...OptionFn) *http.ServeMux {
	t.Helper()
	users := action.UserResolverFunc(func(r *http.Request) (*action.User, error) {
		if id := r.Header.Get("X-User-Id"); id != "" {
			return &action.User{ID: id, AppLang: r.Header.Get("X-User-Lang")}, nil
		}
		return nil, nil
	})
	reg := action.NewRegistry(action.WithUserResolver(users))
	if err := New(fns...).Register(reg); err != nil {
		t.Fatalf("Register: %v", err)
	}
	mux := http.NewServeMux()
	if _, err := reg.Mount(mux, "/api"); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	return mux
}

func get(t *testing.T, mux http.Handler, path string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	payload := struct {
		Data any `json:"data"`
	}{Data: out}
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestGetInfo_PublicWithVersionAndLang(t *testing.T) {
	settings := SettingsStoreFunc(func(context.Context) ([]string, error) {
		return []string{"en-US", "zh-CN"}, nil
	})
	mux := newMux(t, WithSettings(settings), WithStaticVersion("0.7.0-alpha"))

	rec := get(t, mux, "/api/app:getInfo", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var info infoResponse
	decodeData(t, rec, &info)
	if diff := cmp.Diff(infoResponse{Version: "0.7.0-alpha", Lang: "en-US"}, info); diff != "" {
		t.Fatalf("unexpected info (-want +got):\n%s", diff)
	}

	rec = get(t, mux, "/api/app:getLang", map[string]string{"X-User-Id": "1", "X-User-Lang": "zh-CN"})
	var lang langResponse
	decodeData(t, rec, &lang)
	if lang.Lang != "zh-CN" {
		t.Fatalf("expected user language, got %q", lang.Lang)
	}
}

func TestGetLang_FallsBackWithoutSettings(t *testing.T) {
	mux := newMux(t, WithDefaultLang("zh-CN"))
	rec := get(t, mux, "/api/app:getLang", nil)
	var lang langResponse
	decodeData(t, rec, &lang)
	if lang.Lang != "zh-CN" {
		t.Fatalf("expected configured default, got %q", lang.Lang)
	}
}

func TestGetLang_SettingsErrorIsInternal(t *testing.T) {
	settings := SettingsStoreFunc(func(context.Context) ([]string, error) {
		return nil, errors.New("boom")
	})
	mux := newMux(t, WithSettings(settings))
	rec := get(t, mux, "/api/app:getLang", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestLoggedInActions(t *testing.T) {
	mux := newMux(t)

	for _, path := range []string{"/api/app:getPlugins", "/api/plugins:getPinned"} {
		if rec := get(t, mux, path, nil); rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", path, rec.Code)
		}
	}

	rec := get(t, mux, "/api/app:getPlugins", map[string]string{"X-User-Id": "1"})
	var plugins []string
	decodeData(t, rec, &plugins)
	if diff := cmp.Diff([]string{"china-region", "export", "audit-logs", "workflow"}, plugins); diff != "" {
		t.Fatalf("unexpected plugins (-want +got):\n%s", diff)
	}

	rec = get(t, mux, "/api/plugins:getPinned", map[string]string{"X-User-Id": "1"})
	var raw []map[string]any
	decodeData(t, rec, &raw)
	if len(raw) != 7 {
		t.Fatalf("expected 7 pinned entries, got %d", len(raw))
	}
	if raw[0]["component"] != "DesignableSwitch" || raw[0]["pin"] != true {
		t.Fatalf("unexpected first entry %v", raw[0])
	}
	if _, ok := raw[2]["pin"]; ok {
		t.Fatalf("expected pin omitted for ACLShortcut, got %v", raw[2])
	}
}

func TestNewOptions_AppliesDefaults(t *testing.T) {
	opts := NewOptions(func(o *Options) {
		o.AppResource = ""
		o.DefaultLang = ""
	})
	if opts.AppResource != "app" || opts.DefaultLang != DefaultLang {
		t.Fatalf("defaults not re-applied: %#v", opts)
	}
}
