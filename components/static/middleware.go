package static

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-formkit/pkg/log"
)

// Component serves the client bundle in front of the API routes.
type Component struct {
	opts   Options
	root   string
	fsys   fs.FS
	logger log.Logger
}

// New resolves the bundle root and picks the file system to serve from.
func New(fns ...OptionFn) (*Component, error) {
	opts := NewOptions(fns...)
	logger := log.ForModule(opts.Logger, "static")

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	root := ResolveRoot(opts.Root, cwd)

	c := &Component{opts: opts, root: root, logger: logger}
	info, err := os.Stat(root)
	switch {
	case err == nil && info.IsDir():
		c.fsys = os.DirFS(root)
	case opts.Fallback != nil:
		logger.Warn(err, "client bundle not found, serving placeholder", log.Fields{"root": root})
		c.fsys = opts.Fallback
	default:
		logger.Warn(err, "client bundle not found", log.Fields{"root": root})
	}
	return c, nil
}

// ResolveRoot returns root, joined to cwd when it is relative.
func ResolveRoot(root, cwd string) string {
	if root == "" {
		root = DefaultRoot
	}
	if filepath.IsAbs(root) {
		return filepath.Clean(root)
	}
	return filepath.Join(cwd, root)
}

// Root is the resolved bundle directory.
func (c *Component) Root() string { return c.root }

// Enabled reports whether the middleware serves anything.
func (c *Component) Enabled() bool {
	return c != nil && c.fsys != nil && c.opts.Env != EnvProduction
}

// Middleware wraps next with the bundle fallback.
func (c *Component) Middleware(next http.Handler) http.Handler {
	if !c.Enabled() {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, c.opts.APIPrefix) {
			next.ServeHTTP(w, r)
			return
		}
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}
		name, ok := c.lookup(r.URL.Path)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		http.ServeFileFS(w, r, c.fsys, name)
	})
}

// lookup maps a request path to the file to serve: the file itself when it
// exists, otherwise the index document.
func (c *Component) lookup(urlPath string) (string, bool) {
	name := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	if name == "" {
		name = "."
	}
	if info, err := fs.Stat(c.fsys, name); err == nil {
		if !info.IsDir() {
			return name, true
		}
		index := path.Join(name, c.opts.Index)
		if _, err := fs.Stat(c.fsys, index); err == nil {
			return index, true
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		c.logger.Warn(err, "stat client file", log.Fields{"name": name})
	}
	if _, err := fs.Stat(c.fsys, c.opts.Index); err != nil {
		return "", false
	}
	return c.opts.Index, true
}
