// Package rules holds the catalog of serial-string rule kinds. Each kind is a
// variant of the sealed RuleType interface carrying its title, the ordered
// fieldset used to build its configuration panel, and the renderers that turn
// stored option values into short summaries.
//
// Lookups of unknown kinds report ok=false instead of failing so UI-facing
// callers can skip rendering.
package rules
