// Package server hosts the action registry behind an echo server together
// with the client bundle fallback and the API description.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/goliatone/go-formkit/pkg/action"
	loglib "github.com/goliatone/go-formkit/pkg/log"
	"github.com/goliatone/go-formkit/pkg/openapi"
)

type Server struct {
	echo     *echo.Echo
	logger   loglib.Logger
	registry *action.Registry
	address  string
	prefix   string

	static  func(http.Handler) http.Handler
	apiDoc  *openapi3.T
	started bool
}

type Option func(*Server)

func WithLogger(l loglib.Logger) Option {
	return func(s *Server) {
		s.logger = loglib.ForModule(l, "http_server")
	}
}

// WithStatic installs a pre-routing middleware, typically the client bundle
// fallback.
func WithStatic(mw func(http.Handler) http.Handler) Option {
	return func(s *Server) {
		s.static = mw
	}
}

// WithOpenAPI serves doc at <prefix>/openapi.json.
func WithOpenAPI(doc *openapi3.T) Option {
	return func(s *Server) {
		s.apiDoc = doc
	}
}

func New(cfg *Config, registry *action.Registry, opts ...Option) *Server {
	if cfg == nil {
		cfg = &Config{}
	}
	s := &Server{
		address:  cfg.address(),
		prefix:   cfg.apiPrefix(),
		registry: registry,
		logger:   loglib.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.readTimeout()
	e.Server.WriteTimeout = cfg.writeTimeout()
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:     true,
		LogURI:        true,
		LogStatus:     true,
		LogLatency:    true,
		LogError:      true,
		HandleError:   true,
		LogValuesFunc: s.logRequest,
	}))
	e.Use(middleware.Recover())
	if s.static != nil {
		e.Pre(echo.WrapMiddleware(s.static))
	}

	if s.apiDoc != nil {
		e.GET(s.prefix+openapi.DocumentPath, echo.WrapHandler(openapi.Handler(s.apiDoc)))
	}
	if registry != nil {
		dispatch := registry.Dispatch(s.prefix)
		e.Any(s.prefix+"/*", func(c echo.Context) error {
			return dispatch(c.Response(), c.Request())
		})
	}

	s.echo = e
	return s
}

// Handler exposes the configured router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Prefix is the mount path of the action registry.
func (s *Server) Prefix() string {
	return s.prefix
}

// Start will start the server. This call is blocking.
func (s *Server) Start() error {
	s.logger.Info(fmt.Sprintf("server listening on: %s...", s.address))
	err := s.echo.Start(s.address)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) logRequest(_ echo.Context, v middleware.RequestLoggerValues) error {
	fields := loglib.Fields{
		"method":  v.Method,
		"uri":     v.URI,
		"status":  v.Status,
		"latency": v.Latency.String(),
	}
	if v.Error != nil && v.Status >= http.StatusInternalServerError {
		s.logger.Error(v.Error, "request failed", fields)
		return nil
	}
	s.logger.Info("request", fields)
	return nil
}

// handleError renders action errors with their own status and echo errors
// with theirs; anything else is an internal error.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		err = action.StatusError{Code: echoErr.Code, Err: fmt.Errorf("%v", echoErr.Message)}
	}
	action.WriteError(c.Response(), c.Request(), err)
}
