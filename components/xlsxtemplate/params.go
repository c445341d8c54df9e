package xlsxtemplate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Column is one column of the template.
type Column struct {
	DefaultTitle string `json:"defaultTitle" mapstructure:"defaultTitle"`
}

// Params are the action parameters. Columns may arrive as a list or as a
// JSON encoded string.
type Params struct {
	Columns []Column `json:"columns" mapstructure:"columns"`
	Explain string   `json:"explain" mapstructure:"explain"`
	Title   string   `json:"title" mapstructure:"title"`
}

// Headers returns the column titles in order.
func (p Params) Headers() []string {
	out := make([]string, len(p.Columns))
	for i, col := range p.Columns {
		out[i] = col.DefaultTitle
	}
	return out
}

const maxBodyBytes = 1 << 20

// ParseParams merges query values with the form or JSON body of r; body
// values win.
func ParseParams(r *http.Request) (Params, error) {
	raw := make(map[string]any)
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			raw[key] = values[0]
		}
	}

	if r.Body != nil && r.Method != http.MethodGet && r.Method != http.MethodHead {
		mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
		switch mediaType {
		case "application/json":
			var body map[string]any
			dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
			if err := dec.Decode(&body); err != nil && !errors.Is(err, io.EOF) {
				return Params{}, fmt.Errorf("xlsxtemplate: decode body: %w", err)
			}
			for k, v := range body {
				raw[k] = v
			}
		case "application/x-www-form-urlencoded", "multipart/form-data":
			if err := r.ParseMultipartForm(maxBodyBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
				return Params{}, fmt.Errorf("xlsxtemplate: parse form: %w", err)
			}
			for key, values := range r.PostForm {
				if len(values) > 0 {
					raw[key] = values[0]
				}
			}
		}
	}
	return DecodeParams(raw)
}

// DecodeParams decodes loosely typed parameters.
func DecodeParams(raw map[string]any) (Params, error) {
	var out Params
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       columnsFromJSON,
		WeaklyTypedInput: true,
		Result:           &out,
	})
	if err != nil {
		return Params{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Params{}, fmt.Errorf("xlsxtemplate: params: %w", err)
	}
	return out, nil
}

var columnsType = reflect.TypeOf([]Column{})

func columnsFromJSON(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != columnsType {
		return data, nil
	}
	s := strings.TrimSpace(data.(string))
	if s == "" {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}
	return v, nil
}
