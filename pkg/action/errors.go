package action

import (
	"encoding/json"
	"errors"
	"net/http"
)

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// Status returns a StatusError for code without a wrapped cause.
func Status(code int) StatusError {
	return StatusError{Code: code}
}

// StatusCode maps err to a response status. Errors that do not implement
// HTTPError are internal errors.
func StatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		if code := httpErr.StatusCode(); code > 0 {
			return code
		}
	}
	return http.StatusInternalServerError
}

// ErrorWriter renders a handler error.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

type errorItem struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Errors []errorItem `json:"errors"`
}

// WriteError writes err as `{"errors":[{"message":...}]}`. Internal errors
// are reported with the generic status text only.
func WriteError(w http.ResponseWriter, _ *http.Request, err error) {
	if w == nil {
		return
	}
	code := StatusCode(err)
	message := http.StatusText(code)
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		message = httpErr.Error()
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(errorResponse{Errors: []errorItem{{Message: message}}})
}

type dataResponse struct {
	Data any `json:"data"`
}

// WriteData writes v wrapped in a `{"data": ...}` envelope.
func WriteData(w http.ResponseWriter, r *http.Request, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if r != nil && r.Method == http.MethodHead {
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	return enc.Encode(dataResponse{Data: v})
}
