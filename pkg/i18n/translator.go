package i18n

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"text/template"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

var (
	ErrMissingTranslator  = errors.New("i18n: translator not configured")
	ErrMissingTranslation = errors.New("i18n: missing translation")
)

// Translator resolves a message key for a locale. Args are maps of named
// interpolation values.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler decides what to return when a key cannot be
// translated.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

// DefaultLanguage is the bundle fallback when a locale matches nothing
// loaded.
var DefaultLanguage = language.AmericanEnglish

// Bundle is a Translator over a go-i18n message bundle. Messages use
// `{{name}}` placeholders.
type Bundle struct {
	mu      sync.RWMutex
	bundle  *goi18n.Bundle
	locales map[string]struct{}
}

func NewBundle() *Bundle {
	return &Bundle{
		bundle:  goi18n.NewBundle(DefaultLanguage),
		locales: make(map[string]struct{}),
	}
}

// Add merges messages into locale, overriding existing keys.
func (b *Bundle) Add(locale string, messages map[string]string) error {
	locale = strings.TrimSpace(locale)
	if b == nil || locale == "" {
		return nil
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return fmt.Errorf("i18n: locale %q: %w", locale, err)
	}
	list := make([]*goi18n.Message, 0, len(messages))
	for id, msg := range messages {
		list = append(list, &goi18n.Message{ID: id, Other: msg})
	}
	return b.addMessages(tag, list)
}

func (b *Bundle) addMessages(tag language.Tag, messages []*goi18n.Message) error {
	for _, m := range messages {
		m.Other = toTemplate(m.Other)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.bundle.AddMessages(tag, messages...); err != nil {
		return fmt.Errorf("i18n: add %s: %w", tag, err)
	}
	b.locales[tag.String()] = struct{}{}
	return nil
}

// Locales lists the loaded locales in sorted order.
func (b *Bundle) Locales() []string {
	if b == nil {
		return nil
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, 0, len(b.locales))
	for locale := range b.locales {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

func (b *Bundle) Translate(locale, key string, args ...any) (string, error) {
	if b == nil {
		return "", ErrMissingTranslator
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	msg, err := goi18n.NewLocalizer(b.bundle, locale).Localize(&goi18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: collectArgs(args),
		Funcs:        argFuncs,
	})
	if err != nil || strings.TrimSpace(msg) == "" {
		return "", fmt.Errorf("%w: %s/%s", ErrMissingTranslation, locale, key)
	}
	return msg, nil
}

var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// argFuncs backs the `{{arg . "name"}}` action placeholders compile to.
// Names missing from the data render as the original placeholder.
var argFuncs = template.FuncMap{
	"arg": func(data map[string]any, name string) string {
		value, ok := data[name]
		if !ok {
			return "{{" + name + "}}"
		}
		return fmt.Sprint(value)
	},
}

// toTemplate rewrites `{{name}}` placeholders into go-i18n template actions.
func toTemplate(msg string) string {
	return placeholderPattern.ReplaceAllString(msg, `{{arg . "$1"}}`)
}

var interpolator = goi18n.NewBundle(DefaultLanguage)

// Interpolate replaces `{{name}}` placeholders with values from the supplied
// maps. Unknown placeholders are left untouched.
func Interpolate(msg string, args ...any) string {
	if msg == "" {
		return msg
	}
	out, err := goi18n.NewLocalizer(interpolator).Localize(&goi18n.LocalizeConfig{
		DefaultMessage: &goi18n.Message{ID: msg, Other: toTemplate(msg)},
		TemplateData:   collectArgs(args),
		Funcs:          argFuncs,
	})
	if err != nil {
		return msg
	}
	return out
}

func collectArgs(args []any) map[string]any {
	out := make(map[string]any)
	for _, arg := range args {
		switch v := arg.(type) {
		case map[string]any:
			for k, value := range v {
				out[k] = value
			}
		case map[string]string:
			for k, s := range v {
				out[k] = s
			}
		}
	}
	return out
}

// T translates key best-effort. When t is nil or the key is missing, the key
// itself is interpolated and returned.
func T(t Translator, locale, key string, args ...any) string {
	return TWith(t, locale, key, nil, args...)
}

// TWith is T with a custom missing handler.
func TWith(t Translator, locale, key string, onMissing MissingTranslationHandler, args ...any) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	if t == nil {
		return onMissing(locale, key, args, ErrMissingTranslator)
	}
	msg, err := t.Translate(locale, key, args...)
	if err != nil || strings.TrimSpace(msg) == "" {
		return onMissing(locale, key, args, err)
	}
	return msg
}

func missingTranslationDefault(_ string, key string, args []any, _ error) string {
	return Interpolate(key, args...)
}
