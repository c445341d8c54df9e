// Package model defines the typed field description used to declare rule
// option fieldsets. A Field carries the data type, the i18n title key, the
// default value and the component/decorator pair the host form renderer uses
// to draw the input. Constraints are expressed as ValidationRule values using
// the canonical min/max/minLength/maxLength/pattern identifiers with string
// parameters, so schema snapshots stay deterministic.
package model
