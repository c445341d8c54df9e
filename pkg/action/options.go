package action

import "github.com/goliatone/go-formkit/pkg/log"

type Options struct {
	Users         UserResolver
	DefaultPolicy Policy
	ErrorWriter   ErrorWriter
	Logger        log.Logger
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		DefaultPolicy: PolicyLoggedIn,
		ErrorWriter:   WriteError,
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
	if opts.DefaultPolicy == "" {
		opts.DefaultPolicy = PolicyLoggedIn
	}
	if opts.ErrorWriter == nil {
		opts.ErrorWriter = WriteError
	}
	opts.Logger = log.ForModule(opts.Logger, "action")
	return opts
}

func WithUserResolver(users UserResolver) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Users = users
	}
}

// WithDefaultPolicy sets the policy of actions that were never passed to
// Allow.
func WithDefaultPolicy(policy Policy) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.DefaultPolicy = policy
	}
}

func WithErrorWriter(writer ErrorWriter) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.ErrorWriter = writer
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
