package xlsxtemplate

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/goliatone/go-formkit/pkg/action"
	"github.com/goliatone/go-formkit/pkg/log"
)

type Options struct {
	Resource string
	Action   string
	Policy   action.Policy
	Logger   log.Logger
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		Resource: "importer",
		Action:   "downloadXlsxTemplate",
		Policy:   action.PolicyLoggedIn,
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
	if opts.Resource == "" {
		opts.Resource = "importer"
	}
	if opts.Action == "" {
		opts.Action = "downloadXlsxTemplate"
	}
	if opts.Policy == "" {
		opts.Policy = action.PolicyLoggedIn
	}
	return opts
}

func WithResource(resource string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Resource = resource
	}
}

func WithPolicy(policy action.Policy) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Policy = policy
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

type Component struct {
	opts   Options
	logger log.Logger
}

func New(fns ...OptionFn) *Component {
	opts := NewOptions(fns...)
	return &Component{opts: opts, logger: log.ForModule(opts.Logger, "xlsxtemplate")}
}

// Register adds the download action to reg.
func (c *Component) Register(reg *action.Registry) error {
	if reg == nil {
		return fmt.Errorf("xlsxtemplate: missing registry")
	}
	if err := reg.Resource(c.opts.Resource, action.Action{
		Name:    c.opts.Action,
		Methods: []string{http.MethodGet, http.MethodPost},
		Summary: "Download an import template",
		Handle:  c.Download,
	}); err != nil {
		return err
	}
	reg.Allow(c.opts.Resource, c.opts.Action, c.opts.Policy)
	return nil
}

// Download responds with the template workbook as an attachment.
func (c *Component) Download(w http.ResponseWriter, r *http.Request) error {
	params, err := ParseParams(r)
	if err != nil {
		return action.StatusError{Code: http.StatusBadRequest, Err: err}
	}

	var buf bytes.Buffer
	if err := Write(&buf, params); err != nil {
		return err
	}
	c.logger.Debug("template built", log.Fields{"title": params.Title, "columns": len(params.Columns)})

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", "attachment; filename="+FileName(params.Title))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		c.logger.Warn(err, "write template response")
	}
	return nil
}
