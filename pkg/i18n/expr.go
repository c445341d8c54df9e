package i18n

import (
	"regexp"
	"strconv"
	"strings"
)

// Expr wraps key in the `{{t("key")}}` form the host renderer compiles.
func Expr(key string) string {
	return `{{t(` + strconv.Quote(key) + `)}}`
}

var exprPattern = regexp.MustCompile(`\{\{\s*t\(\s*("(?:[^"\\]|\\.)*"|'[^']*')\s*\)\s*\}\}`)

// Compile resolves every `{{t("...")}}` expression in s for locale. Text
// outside expressions is kept as is.
func Compile(s string, locale string, t Translator) string {
	if !strings.Contains(s, "{{") {
		return s
	}
	return exprPattern.ReplaceAllStringFunc(s, func(match string) string {
		key, ok := exprKey(match)
		if !ok {
			return match
		}
		return T(t, locale, key)
	})
}

// KeyOf extracts the key of a single `{{t("...")}}` expression, or returns
// s unchanged when it is not one.
func KeyOf(s string) string {
	trimmed := strings.TrimSpace(s)
	loc := exprPattern.FindStringIndex(trimmed)
	if loc == nil || loc[0] != 0 || loc[1] != len(trimmed) {
		return s
	}
	key, ok := exprKey(trimmed)
	if !ok {
		return s
	}
	return key
}

func exprKey(match string) (string, bool) {
	sub := exprPattern.FindStringSubmatch(match)
	if len(sub) < 2 {
		return "", false
	}
	literal := sub[1]
	if strings.HasPrefix(literal, "'") {
		return strings.Trim(literal, "'"), true
	}
	key, err := strconv.Unquote(literal)
	if err != nil {
		return "", false
	}
	return key, true
}
