// Package uischema models the JSON UI schema consumed by the host form
// renderer. Nodes keep their properties in declaration order and serialise
// component directives under the `x-` namespace (x-component, x-decorator,
// x-component-props, x-reactions, ...). The package also converts model
// fields into schema nodes and re-encodes schemas as block-style YAML.
package uischema
