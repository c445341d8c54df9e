package appinfo

import (
	"context"

	"github.com/goliatone/go-formkit/pkg/log"
)

// SettingsStore reads the system settings the actions depend on.
type SettingsStore interface {
	EnabledLanguages(ctx context.Context) ([]string, error)
}

type SettingsStoreFunc func(ctx context.Context) ([]string, error)

func (f SettingsStoreFunc) EnabledLanguages(ctx context.Context) ([]string, error) { return f(ctx) }

// VersionFunc reports the running application version.
type VersionFunc func(ctx context.Context) (string, error)

// Pin is one entry of the pinned shortcut list.
type Pin struct {
	Component string `json:"component"`
	Pin       bool   `json:"pin,omitempty"`
}

type Options struct {
	AppResource     string
	PluginsResource string
	DefaultLang     string
	Settings        SettingsStore
	Version         VersionFunc
	Plugins         []string
	Pinned          []Pin
	Logger          log.Logger
}

type OptionFn func(*Options)

const DefaultLang = "en-US"

func DefaultPlugins() []string {
	return []string{"china-region", "export", "audit-logs", "workflow"}
}

func DefaultPinned() []Pin {
	return []Pin{
		{Component: "DesignableSwitch", Pin: true},
		{Component: "CollectionManagerShortcut", Pin: true},
		{Component: "ACLShortcut"},
		{Component: "WorkflowShortcut"},
		{Component: "SchemaTemplateShortcut"},
		{Component: "SystemSettingsShortcut"},
		{Component: "FileStorageShortcut"},
	}
}

func DefaultOptions() Options {
	return Options{
		AppResource:     "app",
		PluginsResource: "plugins",
		DefaultLang:     DefaultLang,
		Plugins:         DefaultPlugins(),
		Pinned:          DefaultPinned(),
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
	if opts.AppResource == "" {
		opts.AppResource = "app"
	}
	if opts.PluginsResource == "" {
		opts.PluginsResource = "plugins"
	}
	if opts.DefaultLang == "" {
		opts.DefaultLang = DefaultLang
	}
	if opts.Plugins != nil {
		opts.Plugins = append([]string{}, opts.Plugins...)
	}
	if opts.Pinned != nil {
		opts.Pinned = append([]Pin{}, opts.Pinned...)
	}
	return opts
}

func WithDefaultLang(lang string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.DefaultLang = lang
	}
}

func WithSettings(store SettingsStore) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Settings = store
	}
}

func WithVersion(fn VersionFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Version = fn
	}
}

// WithStaticVersion reports a fixed version string.
func WithStaticVersion(version string) OptionFn {
	return WithVersion(func(context.Context) (string, error) { return version, nil })
}

func WithPlugins(plugins []string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Plugins = append([]string{}, plugins...)
	}
}

func WithPinned(pinned []Pin) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Pinned = append([]Pin{}, pinned...)
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
