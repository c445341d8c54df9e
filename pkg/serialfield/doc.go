// Package serialfield exposes the rule catalog as the "serial string" field
// type: a field definition whose `patterns` property is an ordered, editable
// list of rules, plus the reducer that applies list edits and the configure
// flow that replaces a row's options.
//
// Edits are expressed as Command values applied by Apply, which returns a new
// list and leaves every other row untouched.
package serialfield
