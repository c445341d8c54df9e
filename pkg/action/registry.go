package action

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formkit/pkg/log"
)

var (
	ErrInvalidName     = errors.New("action: invalid name")
	ErrMissingHandler  = errors.New("action: missing handler")
	ErrDuplicateAction = errors.New("action: duplicate action")
)

// Func handles one action. Returned errors are rendered by the caller;
// HTTPError values carry their own status.
type Func func(w http.ResponseWriter, r *http.Request) error

// Policy controls who may call an action.
type Policy string

const (
	PolicyPublic   Policy = "public"
	PolicyLoggedIn Policy = "loggedIn"
)

// Action is a named handler inside a resource. An empty Methods list accepts
// any method.
type Action struct {
	Name    string
	Methods []string
	Summary string
	Handle  Func
}

// Route describes a registered action as seen by callers and API describers.
type Route struct {
	Resource string
	Action   string
	Methods  []string
	Summary  string
	Policy   Policy
}

// Path returns the route path under prefix.
func (r Route) Path(prefix string) string {
	return Path(prefix, r.Resource, r.Action)
}

type entry struct {
	resource string
	action   Action
	order    int
}

// Registry groups actions under resources and applies the access policy of
// each action before dispatching to it.
type Registry struct {
	mu       sync.RWMutex
	opts     Options
	entries  map[string]*entry
	policies map[string]Policy
}

func NewRegistry(fns ...OptionFn) *Registry {
	return &Registry{
		opts:     NewOptions(fns...),
		entries:  make(map[string]*entry),
		policies: make(map[string]Policy),
	}
}

func key(resource, action string) string {
	return resource + ":" + action
}

// Resource registers actions under name. Registering an action name twice
// for the same resource is an error; nothing from the call is kept then.
func (r *Registry) Resource(name string, actions ...Action) error {
	name = strings.TrimSpace(name)
	if !validName(name) {
		return fmt.Errorf("%w: resource %q", ErrInvalidName, name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]struct{}, len(actions))
	for _, a := range actions {
		a.Name = strings.TrimSpace(a.Name)
		if !validName(a.Name) {
			return fmt.Errorf("%w: action %q on %q", ErrInvalidName, a.Name, name)
		}
		if a.Handle == nil {
			return fmt.Errorf("%w: %s", ErrMissingHandler, key(name, a.Name))
		}
		if _, dup := seen[a.Name]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateAction, key(name, a.Name))
		}
		if _, dup := r.entries[key(name, a.Name)]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateAction, key(name, a.Name))
		}
		seen[a.Name] = struct{}{}
	}
	for _, a := range actions {
		a.Name = strings.TrimSpace(a.Name)
		a.Methods = normalizeMethods(a.Methods)
		r.entries[key(name, a.Name)] = &entry{resource: name, action: a, order: len(r.entries)}
	}
	return nil
}

// Allow sets the policy of resource:action. It may be called before or
// after the action is registered.
func (r *Registry) Allow(resource, action string, policy Policy) {
	if r == nil {
		return
	}
	if policy == "" {
		policy = PolicyPublic
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.policies[key(strings.TrimSpace(resource), strings.TrimSpace(action))] = policy
}

// Policy returns the effective policy of resource:action.
func (r *Registry) Policy(resource, action string) Policy {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.policyLocked(resource, action)
}

func (r *Registry) policyLocked(resource, action string) Policy {
	if p, ok := r.policies[key(resource, action)]; ok {
		return p
	}
	return r.opts.DefaultPolicy
}

// Routes lists registered actions ordered by resource then registration.
func (r *Registry) Routes() []Route {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	entries := make([]*entry, 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, e)
	}
	routes := make([]Route, 0, len(entries))
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].resource == entries[j].resource {
			return entries[i].order < entries[j].order
		}
		return entries[i].resource < entries[j].resource
	})
	for _, e := range entries {
		routes = append(routes, Route{
			Resource: e.resource,
			Action:   e.action.Name,
			Methods:  append([]string(nil), e.action.Methods...),
			Summary:  e.action.Summary,
			Policy:   r.policyLocked(e.resource, e.action.Name),
		})
	}
	r.mu.RUnlock()
	return routes
}

func (r *Registry) lookup(resource, action string) (*entry, Policy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[key(resource, action)]
	if !ok {
		return nil, "", false
	}
	return e, r.policyLocked(resource, action), true
}

// Call runs resource:action for the request, enforcing the method list and
// the access policy.
func (r *Registry) Call(resource, action string, w http.ResponseWriter, req *http.Request) error {
	e, policy, ok := r.lookup(resource, action)
	if !ok {
		return StatusError{Code: http.StatusNotFound, Err: fmt.Errorf("action %s not found", key(resource, action))}
	}
	if !allowsMethod(e.action.Methods, req.Method) {
		w.Header().Set("Allow", strings.Join(e.action.Methods, ", "))
		return Status(http.StatusMethodNotAllowed)
	}

	if r.opts.Users != nil {
		user, err := r.opts.Users.ResolveUser(req)
		if err != nil {
			return fmt.Errorf("action: resolve user: %w", err)
		}
		if user != nil {
			req = req.WithContext(WithUser(req.Context(), user))
		}
	}
	if policy != PolicyPublic {
		if _, ok := UserFrom(req.Context()); !ok {
			return Status(http.StatusUnauthorized)
		}
	}
	return e.action.Handle(w, req)
}

// Dispatch returns a Func that routes `<prefix>/<resource>:<action>`
// request paths to Call. It suits hosts that mount a single catch-all route.
func (r *Registry) Dispatch(prefix string) Func {
	return func(w http.ResponseWriter, req *http.Request) error {
		resource, action, ok := ParsePath(prefix, req.URL.Path)
		if !ok {
			return Status(http.StatusNotFound)
		}
		return r.Call(resource, action, w, req)
	}
}

// Mux is the minimal interface required to register a net/http handler.
// It is satisfied by *http.ServeMux.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// Mount registers every action on mux and returns the registered patterns.
// Handler errors are rendered by the configured ErrorWriter.
func (r *Registry) Mount(mux Mux, prefix string) ([]string, error) {
	if mux == nil {
		return nil, fmt.Errorf("action: missing mux")
	}
	routes := r.Routes()
	patterns := make([]string, 0, len(routes))
	for _, route := range routes {
		pattern := route.Path(prefix)
		mux.Handle(pattern, Handler(func(w http.ResponseWriter, req *http.Request) error {
			return r.Call(route.Resource, route.Action, w, req)
		}, r.opts.ErrorWriter, r.opts.Logger))
		patterns = append(patterns, pattern)
	}
	return patterns, nil
}

// Handler adapts fn to net/http. A nil writer selects WriteError.
func Handler(fn Func, writer ErrorWriter, logger log.Logger) http.Handler {
	if writer == nil {
		writer = WriteError
	}
	logger = log.NewLogger(logger)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r == nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		err := fn(w, r)
		if err == nil {
			return
		}
		if code := StatusCode(err); code >= http.StatusInternalServerError {
			logger.Error(err, "action failed", log.Fields{"path": r.URL.Path, "status": code})
		}
		writer(w, r, err)
	})
}

// Path joins prefix, resource and action into a route path.
func Path(prefix, resource, action string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" || prefix == "/" {
		prefix = ""
	} else {
		if !strings.HasPrefix(prefix, "/") {
			prefix = "/" + prefix
		}
		prefix = strings.TrimRight(prefix, "/")
	}
	return prefix + "/" + key(resource, action)
}

// ParsePath splits `<prefix>/<resource>:<action>` into its parts.
func ParsePath(prefix, path string) (resource, action string, ok bool) {
	base := Path(prefix, "", "")
	base = strings.TrimSuffix(base, ":")
	if !strings.HasPrefix(path, base) {
		return "", "", false
	}
	rest := strings.TrimPrefix(path, base)
	if strings.Contains(rest, "/") {
		return "", "", false
	}
	resource, action, found := strings.Cut(rest, ":")
	if !found || !validName(resource) || !validName(action) {
		return "", "", false
	}
	return resource, action, true
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	return !strings.ContainsAny(name, ":/ ")
}

func normalizeMethods(methods []string) []string {
	if len(methods) == 0 {
		return nil
	}
	out := make([]string, 0, len(methods)+1)
	seen := make(map[string]struct{})
	for _, m := range methods {
		m = strings.ToUpper(strings.TrimSpace(m))
		if m == "" {
			continue
		}
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	if _, ok := seen[http.MethodGet]; ok {
		if _, ok := seen[http.MethodHead]; !ok {
			out = append(out, http.MethodHead)
		}
	}
	return out
}

func allowsMethod(methods []string, method string) bool {
	if len(methods) == 0 {
		return true
	}
	for _, m := range methods {
		if m == method {
			return true
		}
	}
	return false
}
