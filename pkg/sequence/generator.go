package sequence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/goliatone/go-formkit/pkg/log"
	"github.com/goliatone/go-formkit/pkg/rules"
	"github.com/goliatone/go-formkit/pkg/serialfield"
)

var ErrNoStore = errors.New("sequence: missing counter store")

type Options struct {
	Catalog  *rules.Catalog
	Clock    clockwork.Clock
	Location *time.Location
	Logger   log.Logger
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		Catalog:  rules.DefaultCatalog(),
		Clock:    clockwork.NewRealClock(),
		Location: time.Local,
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
	if opts.Catalog == nil {
		opts.Catalog = rules.DefaultCatalog()
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return opts
}

func WithClock(clock clockwork.Clock) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Clock = clock
	}
}

func WithLocation(loc *time.Location) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Location = loc
	}
}

func WithCatalog(catalog *rules.Catalog) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Catalog = catalog
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

// Generator produces serial values.
type Generator struct {
	store  CounterStore
	opts   Options
	logger log.Logger
}

func New(store CounterStore, fns ...OptionFn) *Generator {
	opts := NewOptions(fns...)
	return &Generator{store: store, opts: opts, logger: log.ForModule(opts.Logger, "sequence")}
}

// CounterKey names the counter of the autoincrement rule at index inside
// the field identified by field.
func CounterKey(field string, index int) string {
	return fmt.Sprintf("%s#%d", field, index)
}

// Next evaluates patterns for field, advancing every autoincrement counter
// it contains.
func (g *Generator) Next(ctx context.Context, field string, patterns serialfield.Patterns) (string, error) {
	now := g.opts.Clock.Now().In(g.opts.Location)
	var b strings.Builder
	for idx, rule := range patterns {
		decoded, err := g.opts.Catalog.DecodeOptions(rule.Type, rule.Options)
		if err != nil {
			return "", fmt.Errorf("sequence: patterns[%d]: %w", idx, err)
		}
		switch opts := decoded.(type) {
		case rules.FixedTextOptions:
			b.WriteString(opts.Value)
		case rules.DateOptions:
			b.WriteString(FormatDate(now, opts.Format))
		case rules.AutoincrementOptions:
			value, err := g.advance(ctx, CounterKey(field, idx), opts, now)
			if err != nil {
				return "", fmt.Errorf("sequence: patterns[%d]: %w", idx, err)
			}
			b.WriteString(Pad(value, opts.Digits))
		}
	}
	return b.String(), nil
}

func (g *Generator) advance(ctx context.Context, key string, opts rules.AutoincrementOptions, now time.Time) (int64, error) {
	if g.store == nil {
		return 0, ErrNoStore
	}
	start := int64(opts.Start)
	counter, err := g.store.Advance(ctx, key, func(current Counter, found bool) (Counter, error) {
		if !found {
			return Counter{Value: start, IssuedAt: now}, nil
		}
		reset, err := ShouldReset(opts.Cycle, current.IssuedAt, now)
		if err != nil {
			return Counter{}, err
		}
		if reset {
			g.logger.Debug("counter reset", log.Fields{"key": key, "cycle": *opts.Cycle})
			return Counter{Value: start, IssuedAt: now}, nil
		}
		return Counter{Value: current.Value + 1, IssuedAt: now}, nil
	})
	if err != nil {
		return 0, err
	}
	return counter.Value, nil
}

// ShouldReset reports whether cycle fired after last and at or before now.
// A nil or blank cycle never resets. The cron is evaluated in now's location.
func ShouldReset(cycle *string, last, now time.Time) (bool, error) {
	if cycle == nil || strings.TrimSpace(*cycle) == "" {
		return false, nil
	}
	next, err := rules.NextReset(*cycle, last.In(now.Location()))
	if err != nil {
		return false, err
	}
	return !next.After(now), nil
}
