package action

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func okAction(name string, methods ...string) Action {
	return Action{
		Name:    name,
		Methods: methods,
		Handle: func(w http.ResponseWriter, r *http.Request) error {
			return WriteData(w, r, name)
		},
	}
}

func staticUsers(id string) UserResolver {
	return UserResolverFunc(func(r *http.Request) (*User, error) {
		if r.Header.Get("X-User-Id") != id {
			return nil, nil
		}
		return &User{ID: id, AppLang: "zh-CN"}, nil
	})
}

func TestRegistry_ResourceRejectsDuplicatesAndBadNames(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Resource("app", okAction("getInfo")); err != nil {
		t.Fatalf("Resource: %v", err)
	}
	if err := reg.Resource("app", okAction("getInfo")); !errors.Is(err, ErrDuplicateAction) {
		t.Fatalf("expected ErrDuplicateAction, got %v", err)
	}
	if err := reg.Resource("a:b", okAction("x")); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
	if err := reg.Resource("app", Action{Name: "noop"}); !errors.Is(err, ErrMissingHandler) {
		t.Fatalf("expected ErrMissingHandler, got %v", err)
	}
	if err := reg.Resource("app", okAction("a"), okAction("a")); !errors.Is(err, ErrDuplicateAction) {
		t.Fatalf("expected ErrDuplicateAction, got %v", err)
	}
	if got := len(reg.Routes()); got != 1 {
		t.Fatalf("expected failed registrations to keep nothing, got %d routes", got)
	}
}

func TestRegistry_RoutesOrderAndPolicies(t *testing.T) {
	reg := NewRegistry()
	_ = reg.Resource("plugins", okAction("getPinned"))
	_ = reg.Resource("app", okAction("getInfo", "get"), okAction("getLang", http.MethodGet), okAction("getPlugins"))
	reg.Allow("app", "getInfo", PolicyPublic)
	reg.Allow("app", "getLang", PolicyPublic)

	got := reg.Routes()
	want := []Route{
		{Resource: "app", Action: "getInfo", Methods: []string{"GET", "HEAD"}, Policy: PolicyPublic},
		{Resource: "app", Action: "getLang", Methods: []string{"GET", "HEAD"}, Policy: PolicyPublic},
		{Resource: "app", Action: "getPlugins", Policy: PolicyLoggedIn},
		{Resource: "plugins", Action: "getPinned", Policy: PolicyLoggedIn},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected routes (-want +got):\n%s", diff)
	}
}

func TestRegistry_CallEnforcesPolicy(t *testing.T) {
	reg := NewRegistry(WithUserResolver(staticUsers("u1")))
	_ = reg.Resource("app", okAction("getPlugins"), okAction("getLang"))
	reg.Allow("app", "getLang", PolicyPublic)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/app:getPlugins", nil)
	err := reg.Call("app", "getPlugins", rec, req)
	if StatusCode(err) != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/app:getPlugins", nil)
	req.Header.Set("X-User-Id", "u1")
	if err := reg.Call("app", "getPlugins", rec, req); err != nil {
		t.Fatalf("expected logged-in call to pass, got %v", err)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/app:getLang", nil)
	if err := reg.Call("app", "getLang", rec, req); err != nil {
		t.Fatalf("expected public call to pass, got %v", err)
	}
}

func TestRegistry_CallPutsUserOnContext(t *testing.T) {
	reg := NewRegistry(WithUserResolver(staticUsers("u1")))
	var seen *User
	_ = reg.Resource("me", Action{Name: "get", Handle: func(w http.ResponseWriter, r *http.Request) error {
		seen, _ = UserFrom(r.Context())
		return nil
	}})
	req := httptest.NewRequest(http.MethodGet, "/api/me:get", nil)
	req.Header.Set("X-User-Id", "u1")
	if err := reg.Call("me", "get", httptest.NewRecorder(), req); err != nil {
		t.Fatalf("Call: %v", err)
	}
	if seen == nil || seen.AppLang != "zh-CN" {
		t.Fatalf("expected resolved user on context, got %#v", seen)
	}
}

func TestRegistry_CallMethodAndNotFound(t *testing.T) {
	reg := NewRegistry(WithDefaultPolicy(PolicyPublic))
	_ = reg.Resource("app", okAction("getInfo", http.MethodGet))

	rec := httptest.NewRecorder()
	err := reg.Call("app", "getInfo", rec, httptest.NewRequest(http.MethodPost, "/api/app:getInfo", nil))
	if StatusCode(err) != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %v", err)
	}
	if allow := rec.Header().Get("Allow"); allow != "GET, HEAD" {
		t.Fatalf("unexpected Allow header %q", allow)
	}

	err = reg.Call("app", "missing", httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if StatusCode(err) != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestRegistry_MountServesActions(t *testing.T) {
	reg := NewRegistry(WithUserResolver(staticUsers("u1")))
	_ = reg.Resource("app", okAction("getLang", http.MethodGet), okAction("getPlugins"))
	reg.Allow("app", "getLang", PolicyPublic)

	mux := http.NewServeMux()
	patterns, err := reg.Mount(mux, "api/")
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if diff := cmp.Diff([]string{"/api/app:getLang", "/api/app:getPlugins"}, patterns); diff != "" {
		t.Fatalf("unexpected patterns (-want +got):\n%s", diff)
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/app:getLang", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var payload struct {
		Data string `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Data != "getLang" {
		t.Fatalf("unexpected payload %#v", payload)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/app:getPlugins", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"errors"`) {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
}

func TestDispatch_ParsesPath(t *testing.T) {
	reg := NewRegistry(WithDefaultPolicy(PolicyPublic))
	_ = reg.Resource("app", okAction("getInfo"))
	dispatch := reg.Dispatch("/api")

	rec := httptest.NewRecorder()
	if err := dispatch(rec, httptest.NewRequest(http.MethodGet, "/api/app:getInfo", nil)); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	for _, path := range []string{"/api/app", "/api/app/getInfo", "/other/app:getInfo", "/api/:getInfo"} {
		err := dispatch(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
		if StatusCode(err) != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %v", path, err)
		}
	}
}

func TestParsePathAndPath(t *testing.T) {
	cases := []struct {
		prefix, path     string
		resource, action string
		ok               bool
	}{
		{prefix: "/api", path: "/api/app:getInfo", resource: "app", action: "getInfo", ok: true},
		{prefix: "", path: "/plugins:getPinned", resource: "plugins", action: "getPinned", ok: true},
		{prefix: "/api/", path: "/api/app:", ok: false},
		{prefix: "/api", path: "/apix/app:getInfo", ok: false},
	}
	for _, tc := range cases {
		resource, action, ok := ParsePath(tc.prefix, tc.path)
		if ok != tc.ok || resource != tc.resource || action != tc.action {
			t.Fatalf("ParsePath(%q, %q) = %q %q %v", tc.prefix, tc.path, resource, action, ok)
		}
	}
	if got := Path("api", "app", "getInfo"); got != "/api/app:getInfo" {
		t.Fatalf("unexpected path %q", got)
	}
}

func TestWriteError_MasksInternalErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, nil, errors.New("db password leaked"))
	if rec.Code != http.StatusInternalServerError || strings.Contains(rec.Body.String(), "leaked") {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	WriteError(rec, nil, StatusError{Code: http.StatusBadRequest, Err: errors.New("bad columns")})
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "bad columns") {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}

func TestHeaderResolver(t *testing.T) {
	resolver := HeaderResolver("X-User-Id", nil)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if u, err := resolver.ResolveUser(req); err != nil || u != nil {
		t.Fatalf("expected anonymous, got %#v %v", u, err)
	}
	req.Header.Set("X-User-Id", " 42 ")
	u, err := resolver.ResolveUser(req)
	if err != nil || u == nil || u.ID != "42" {
		t.Fatalf("unexpected user %#v %v", u, err)
	}
}
