package static

import (
	"io/fs"

	"github.com/goliatone/go-formkit/pkg/log"
)

const (
	DefaultRoot      = "./packages/app/client/dist"
	DefaultAPIPrefix = "/api"
	DefaultIndex     = "index.html"
	EnvProduction    = "production"
)

type Options struct {
	Root      string
	APIPrefix string
	Index     string
	Env       string
	// Fallback is served when Root does not exist. Nil disables it.
	Fallback fs.FS
	Logger   log.Logger
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		Root:      DefaultRoot,
		APIPrefix: DefaultAPIPrefix,
		Index:     DefaultIndex,
		Fallback:  PlaceholderFS(),
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.Root == "" {
		opts.Root = DefaultRoot
	}
	if opts.APIPrefix == "" {
		opts.APIPrefix = DefaultAPIPrefix
	}
	if opts.Index == "" {
		opts.Index = DefaultIndex
	}
	return opts
}

func WithRoot(root string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Root = root
	}
}

func WithAPIPrefix(prefix string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.APIPrefix = prefix
	}
}

func WithEnv(env string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Env = env
	}
}

func WithFallback(fsys fs.FS) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Fallback = fsys
	}
}

func WithLogger(logger log.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}
