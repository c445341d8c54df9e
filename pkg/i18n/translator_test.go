package i18n

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

func TestDefault_LoadsEmbeddedLocales(t *testing.T) {
	bundle := Default()
	if diff := cmp.Diff([]string{"en-US", "zh-CN"}, bundle.Locales()); diff != "" {
		t.Fatalf("unexpected locales (-want +got):\n%s", diff)
	}
	got, err := bundle.Translate("zh-CN", "No reset")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if got != "不重置" {
		t.Fatalf("unexpected translation %q", got)
	}
}

func TestBundleTranslate_Interpolates(t *testing.T) {
	got, err := Default().Translate("en-US", "{{value}} Digits", map[string]any{"value": 4})
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if got != "4 Digits" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestBundleTranslate_MissingKey(t *testing.T) {
	_, err := NewBundle().Translate("en-US", "nope")
	if !errors.Is(err, ErrMissingTranslation) {
		t.Fatalf("expected ErrMissingTranslation, got %v", err)
	}
}

func TestT_FallsBackToInterpolatedKey(t *testing.T) {
	if got := T(nil, "en-US", "Starts from {{value}}", map[string]any{"value": 7}); got != "Starts from 7" {
		t.Fatalf("unexpected fallback %q", got)
	}
	if got := T(NewBundle(), "fr-FR", "Date"); got != "Date" {
		t.Fatalf("unexpected fallback %q", got)
	}
}

func TestCompile_ResolvesExpressions(t *testing.T) {
	bundle := Default()
	cases := map[string]string{
		`{{t("Fixed text")}}`:         "固定文本",
		`{{t('Add rule')}}`:           "添加规则",
		`prefix {{t("Date")}} tail`:   "prefix 日期 tail",
		`plain`:                       "plain",
		`{{t("Not translated yet")}}`: "Not translated yet",
	}
	for input, want := range cases {
		if got := Compile(input, "zh-CN", bundle); got != want {
			t.Errorf("Compile(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestExprAndKeyOf_RoundTrip(t *testing.T) {
	expr := Expr("Reset cycle")
	if expr != `{{t("Reset cycle")}}` {
		t.Fatalf("unexpected expr %q", expr)
	}
	if got := KeyOf(expr); got != "Reset cycle" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := KeyOf("literal"); got != "literal" {
		t.Fatalf("expected literal passthrough, got %q", got)
	}
}

func TestLoadFS_JSONAndYAML(t *testing.T) {
	fsys := fstest.MapFS{
		"fr-FR.json": {Data: []byte(`{"Date":"Date (fr)"}`)},
		"de-DE.yml":  {Data: []byte(`"Date": "Datum"`)},
		"README.md":  {Data: []byte("ignored")},
	}
	bundle, err := LoadFS(fsys)
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	if got := T(bundle, "de-DE", "Date"); got != "Datum" {
		t.Fatalf("unexpected yaml translation %q", got)
	}
	if got := T(bundle, "fr-FR", "Date"); got != "Date (fr)" {
		t.Fatalf("unexpected json translation %q", got)
	}
}

func TestLoadFS_InvalidFile(t *testing.T) {
	_, err := LoadFS(fstest.MapFS{"en-US.yaml": {Data: []byte("- not a map")}})
	if err == nil {
		t.Fatal("expected parse error")
	}
}

func TestInterpolate_LeavesUnknownPlaceholders(t *testing.T) {
	got := Interpolate("{{count}} of {{total}}", map[string]any{"count": 0})
	if got != "0 of {{total}}" {
		t.Fatalf("unexpected interpolation %q", got)
	}
	if got := Interpolate("no placeholders"); got != "no placeholders" {
		t.Fatalf("unexpected passthrough %q", got)
	}
}

func TestBundleAdd(t *testing.T) {
	bundle := NewBundle()
	if err := bundle.Add("fr-FR", map[string]string{"{{value}} Digits": "{{value}} chiffres"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	got, err := bundle.Translate("fr-FR", "{{value}} Digits", map[string]string{"value": "3"})
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if got != "3 chiffres" {
		t.Fatalf("unexpected message %q", got)
	}
	if diff := cmp.Diff([]string{"fr-FR"}, bundle.Locales()); diff != "" {
		t.Fatalf("unexpected locales (-want +got):\n%s", diff)
	}
	if err := bundle.Add("not a locale!", map[string]string{"a": "b"}); err == nil {
		t.Fatal("expected error for malformed locale")
	}
}

func TestLoadFS_UppercaseExtension(t *testing.T) {
	bundle, err := LoadFS(fstest.MapFS{"de-DE.YAML": {Data: []byte(`"Date": "Datum"`)}})
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	if got := T(bundle, "de-DE", "Date"); got != "Datum" {
		t.Fatalf("unexpected translation %q", got)
	}
}
