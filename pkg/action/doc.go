// Package action is a small resource/action router. Handlers are grouped
// under a resource name and exposed at `<prefix>/<resource>:<action>`; each
// action carries an access policy checked against the request user before the
// handler runs.
package action
