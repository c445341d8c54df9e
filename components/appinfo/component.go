package appinfo

import (
	"context"
	"fmt"
	"net/http"

	"github.com/goliatone/go-formkit/pkg/action"
	"github.com/goliatone/go-formkit/pkg/log"
)

// Component holds the configured app info actions.
type Component struct {
	opts   Options
	logger log.Logger
}

func New(fns ...OptionFn) *Component {
	opts := NewOptions(fns...)
	return &Component{opts: opts, logger: log.ForModule(opts.Logger, "appinfo")}
}

// Options returns a copy of the component configuration.
func (c *Component) Options() Options {
	if c == nil {
		return DefaultOptions()
	}
	return NewOptions(func(o *Options) { *o = c.opts })
}

// Register adds the app and plugins resources to reg and sets their access
// policies.
func (c *Component) Register(reg *action.Registry) error {
	if reg == nil {
		return fmt.Errorf("appinfo: missing registry")
	}
	app := c.opts.AppResource
	if err := reg.Resource(app,
		action.Action{Name: "getInfo", Methods: []string{http.MethodGet}, Summary: "App version and language", Handle: c.GetInfo},
		action.Action{Name: "getLang", Methods: []string{http.MethodGet}, Summary: "App language", Handle: c.GetLang},
		action.Action{Name: "getPlugins", Summary: "Enabled client plugins", Handle: c.GetPlugins},
	); err != nil {
		return err
	}
	if err := reg.Resource(c.opts.PluginsResource,
		action.Action{Name: "getPinned", Summary: "Pinned shortcuts", Handle: c.GetPinned},
	); err != nil {
		return err
	}
	reg.Allow(app, "getLang", action.PolicyPublic)
	reg.Allow(app, "getInfo", action.PolicyPublic)
	reg.Allow(app, "getPlugins", action.PolicyLoggedIn)
	reg.Allow(c.opts.PluginsResource, "getPinned", action.PolicyLoggedIn)
	return nil
}

type infoResponse struct {
	Version string `json:"version"`
	Lang    string `json:"lang"`
}

type langResponse struct {
	Lang string `json:"lang"`
}

func (c *Component) GetInfo(w http.ResponseWriter, r *http.Request) error {
	lang, err := c.Lang(r.Context())
	if err != nil {
		return err
	}
	version := ""
	if c.opts.Version != nil {
		version, err = c.opts.Version(r.Context())
		if err != nil {
			return fmt.Errorf("appinfo: version: %w", err)
		}
	}
	return action.WriteData(w, r, infoResponse{Version: version, Lang: lang})
}

func (c *Component) GetLang(w http.ResponseWriter, r *http.Request) error {
	lang, err := c.Lang(r.Context())
	if err != nil {
		return err
	}
	return action.WriteData(w, r, langResponse{Lang: lang})
}

func (c *Component) GetPlugins(w http.ResponseWriter, r *http.Request) error {
	plugins := c.opts.Plugins
	if plugins == nil {
		plugins = []string{}
	}
	return action.WriteData(w, r, plugins)
}

func (c *Component) GetPinned(w http.ResponseWriter, r *http.Request) error {
	pinned := c.opts.Pinned
	if pinned == nil {
		pinned = []Pin{}
	}
	return action.WriteData(w, r, pinned)
}

// Lang resolves the language for the user on ctx.
func (c *Component) Lang(ctx context.Context) (string, error) {
	var enabled []string
	if c.opts.Settings != nil {
		langs, err := c.opts.Settings.EnabledLanguages(ctx)
		if err != nil {
			return "", fmt.Errorf("appinfo: enabled languages: %w", err)
		}
		enabled = langs
	}
	userLang := ""
	if u, ok := action.UserFrom(ctx); ok {
		userLang = u.AppLang
	}
	lang := ResolveLang(enabled, userLang, c.opts.DefaultLang)
	c.logger.Debug("resolved language", log.Fields{"lang": lang, "enabled": enabled})
	return lang, nil
}

// ResolveLang returns userLang when it is enabled, otherwise the first
// enabled language, otherwise fallback.
func ResolveLang(enabled []string, userLang, fallback string) string {
	if userLang != "" {
		for _, lang := range enabled {
			if lang == userLang {
				return userLang
			}
		}
	}
	if len(enabled) > 0 && enabled[0] != "" {
		return enabled[0]
	}
	if fallback == "" {
		return DefaultLang
	}
	return fallback
}
