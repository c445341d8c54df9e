// Package static serves the built single-page client. Requests under the
// API prefix pass through; any other request is served from the bundle
// directory and falls back to index.html so client-side routes resolve.
package static
