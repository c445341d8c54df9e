package openapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formkit/pkg/action"
)

const (
	Version          = "3.0.3"
	DocumentPath     = "/openapi.json"
	UserSecurityName = "user"
)

// Info configures the generated document.
type Info struct {
	Title       string
	Version     string
	Description string
	// Prefix is the path the registry is mounted under.
	Prefix string
	// UserHeader names the header that identifies the caller of
	// logged-in actions.
	UserHeader string
}

// Describe builds and validates the document for every route of reg.
// Actions that accept any method are described as GET and POST.
func Describe(ctx context.Context, reg *action.Registry, info Info) (*openapi3.T, error) {
	if reg == nil {
		return nil, fmt.Errorf("openapi: missing registry")
	}
	if info.Title == "" {
		info.Title = "formkit"
	}
	if info.Version == "" {
		info.Version = "0.0.0"
	}

	doc := &openapi3.T{
		OpenAPI: Version,
		Info: &openapi3.Info{
			Title:       info.Title,
			Version:     info.Version,
			Description: info.Description,
		},
		Paths: openapi3.NewPaths(),
	}

	secured := false
	for _, route := range reg.Routes() {
		item := &openapi3.PathItem{}
		for _, method := range describedMethods(route.Methods) {
			item.SetOperation(method, operation(route, method, info.UserHeader != ""))
		}
		if route.Policy != action.PolicyPublic {
			secured = true
		}
		doc.Paths.Set(route.Path(info.Prefix), item)
	}

	if secured && info.UserHeader != "" {
		doc.Components = &openapi3.Components{
			SecuritySchemes: openapi3.SecuritySchemes{
				UserSecurityName: &openapi3.SecuritySchemeRef{Value: &openapi3.SecurityScheme{
					Type: "apiKey",
					In:   "header",
					Name: info.UserHeader,
				}},
			},
		}
	}

	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("openapi: validate: %w", err)
	}
	return doc, nil
}

func describedMethods(methods []string) []string {
	if len(methods) == 0 {
		return []string{http.MethodGet, http.MethodPost}
	}
	out := make([]string, 0, len(methods))
	for _, m := range methods {
		if m == http.MethodHead {
			continue
		}
		out = append(out, m)
	}
	return out
}

func operation(route action.Route, method string, withSecurity bool) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = route.Resource + "." + route.Action
	if method != http.MethodGet {
		op.OperationID += "." + strings.ToLower(method)
	}
	op.Summary = route.Summary
	op.Tags = []string{route.Resource}
	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("OK")}),
	)
	if route.Policy != action.PolicyPublic {
		op.AddResponse(http.StatusUnauthorized, openapi3.NewResponse().WithDescription("Login required"))
		if withSecurity {
			op.Security = &openapi3.SecurityRequirements{openapi3.NewSecurityRequirement().Authenticate(UserSecurityName)}
		}
	}
	return op
}

// Handler serves doc as JSON.
func Handler(doc *openapi3.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if doc == nil {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}
		raw, err := doc.MarshalJSON()
		if err != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		_, _ = w.Write(raw)
	})
}
