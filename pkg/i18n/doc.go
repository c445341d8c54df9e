// Package i18n resolves the translation keys embedded in rule titles and
// option renderers. Schema strings use the `{{t("Key")}}` expression form the
// host renderer understands; Compile resolves those expressions server-side
// when a locale is known. Messages may interpolate named arguments written as
// `{{name}}`.
package i18n
