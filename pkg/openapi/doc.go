// Package openapi describes the mounted actions of an action.Registry as an
// OpenAPI 3.0 document built with kin-openapi.
package openapi
