package serialfield

import (
	"fmt"

	"github.com/goliatone/go-formkit/pkg/i18n"
	"github.com/goliatone/go-formkit/pkg/rules"
	"github.com/goliatone/go-formkit/pkg/uischema"
)

// SubmitHook may transform or reject the values submitted from the
// configuration panel. The default hook returns them unchanged.
type SubmitHook func(kind rules.Kind, values map[string]any) (map[string]any, error)

// Configurator opens configuration drafts for pattern rows.
type Configurator struct {
	catalog *rules.Catalog
	submit  SubmitHook
}

type ConfiguratorOption func(*Configurator)

// WithSubmitHook replaces the pass-through submit hook.
func WithSubmitHook(hook SubmitHook) ConfiguratorOption {
	return func(c *Configurator) {
		if hook != nil {
			c.submit = hook
		}
	}
}

// ValidatingHook rejects submissions that break the fieldset constraints.
func ValidatingHook(catalog *rules.Catalog) SubmitHook {
	return func(kind rules.Kind, values map[string]any) (map[string]any, error) {
		if err := catalog.ValidateOptions(kind, values); err != nil {
			return nil, err
		}
		return values, nil
	}
}

func NewConfigurator(catalog *rules.Catalog, opts ...ConfiguratorOption) *Configurator {
	if catalog == nil {
		catalog = rules.DefaultCatalog()
	}
	c := &Configurator{
		catalog: catalog,
		submit: func(_ rules.Kind, values map[string]any) (map[string]any, error) {
			return values, nil
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Draft is an open configuration panel for one row. Type is captured when
// the panel opens and is written back with the submitted options.
type Draft struct {
	Index   int
	Type    rules.Kind
	Title   string
	Panel   uischema.Schema
	Initial map[string]any

	submit SubmitHook
}

// Open prepares the panel for row index, pre-filled with a copy of its
// current options.
func (c *Configurator) Open(patterns Patterns, index int) (Draft, error) {
	if err := checkIndex(patterns, index); err != nil {
		return Draft{}, err
	}
	row := patterns[index]
	rt, ok := c.catalog.Lookup(row.Type)
	if !ok {
		return Draft{}, fmt.Errorf("%w: %q", rules.ErrUnknownRuleType, row.Type)
	}
	panel, _ := c.catalog.Panel(row.Type)
	return Draft{
		Index:   index,
		Type:    row.Type,
		Title:   i18n.Expr(rt.Title()),
		Panel:   panel,
		Initial: cloneOptions(row.Options),
		submit:  c.submit,
	}, nil
}

// Submit turns the panel values into the command that replaces the row's
// {type, options} as a whole.
func (d Draft) Submit(values map[string]any) (Command, error) {
	hook := d.submit
	if hook == nil {
		hook = func(_ rules.Kind, v map[string]any) (map[string]any, error) { return v, nil }
	}
	out, err := hook(d.Type, values)
	if err != nil {
		return Command{}, err
	}
	return Command{Op: SetRuleOptions, Index: d.Index, Type: d.Type, Options: cloneOptions(out)}, nil
}
