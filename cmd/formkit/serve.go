package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formkit/components/appinfo"
	"github.com/goliatone/go-formkit/components/static"
	"github.com/goliatone/go-formkit/components/xlsxtemplate"
	"github.com/goliatone/go-formkit/internal/server"
	"github.com/goliatone/go-formkit/internal/store/sqlite"
	"github.com/goliatone/go-formkit/pkg/action"
	loglib "github.com/goliatone/go-formkit/pkg/log"
	"github.com/goliatone/go-formkit/pkg/openapi"
)

const shutdownTimeout = 10 * time.Second

func (c *cli) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP host serving the app info, template export and client bundle",
		Example: `
	formkit serve
	formkit serve --config formkit.yaml --log-level debug
	FORMKIT_SERVER_ADDRESS=:8080 FORMKIT_APP_ENV=production formkit serve`,
		RunE: withSignalWatcher(c.serve),
	}
}

func (c *cli) serve(ctx context.Context, _ *cobra.Command, _ []string) error {
	logger := c.logger()

	store, err := sqlite.Open(ctx, c.cfg.Store.Path, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	srv, err := c.newServer(ctx, store, logger)
	if err != nil {
		return err
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", loglib.Fields{"address": c.cfg.Server.Address, "prefix": srv.Prefix()})
		errc <- srv.Start()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newServer wires the components onto a registry and builds the host.
func (c *cli) newServer(ctx context.Context, store *sqlite.Store, logger loglib.Logger) (*server.Server, error) {
	reg := action.NewRegistry(
		action.WithUserResolver(action.HeaderResolver(c.cfg.Auth.UserHeader, store.User)),
		action.WithLogger(logger),
	)

	appVersion := c.cfg.App.Version
	if appVersion == "" {
		appVersion = Version
	}
	info := appinfo.New(
		appinfo.WithDefaultLang(c.cfg.App.Lang),
		appinfo.WithSettings(store),
		appinfo.WithStaticVersion(appVersion),
		appinfo.WithLogger(logger),
	)
	if err := info.Register(reg); err != nil {
		return nil, fmt.Errorf("registering app info: %w", err)
	}
	if err := xlsxtemplate.New(xlsxtemplate.WithLogger(logger)).Register(reg); err != nil {
		return nil, fmt.Errorf("registering template export: %w", err)
	}

	doc, err := openapi.Describe(ctx, reg, openapi.Info{
		Title:      "formkit",
		Version:    appVersion,
		Prefix:     c.cfg.Server.APIPrefix,
		UserHeader: c.cfg.Auth.UserHeader,
	})
	if err != nil {
		return nil, err
	}

	placeholder, err := static.RenderPlaceholder(static.PlaceholderData{Version: appVersion, Lang: c.cfg.App.Lang})
	if err != nil {
		return nil, err
	}
	assets, err := static.New(
		static.WithRoot(c.cfg.Client.Dist),
		static.WithAPIPrefix(c.cfg.Server.APIPrefix),
		static.WithEnv(c.cfg.App.Env),
		static.WithFallback(placeholder),
		static.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	opts := []server.Option{server.WithLogger(logger), server.WithOpenAPI(doc)}
	if assets.Enabled() {
		opts = append(opts, server.WithStatic(assets.Middleware))
	}
	return server.New(c.cfg.ServerConfig(), reg, opts...), nil
}
