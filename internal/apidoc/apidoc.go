// Package apidoc embeds the OpenAPI description of the HTTP API and derives
// the endpoint summary served at /api/docs.
package apidoc

import (
	"context"
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var document []byte

// Raw returns the embedded OpenAPI document as YAML.
func Raw() []byte {
	return document
}

// Load parses and validates the embedded document.
func Load() (*openapi3.T, error) {
	loader := openapi3.NewLoader()

	doc, err := loader.LoadFromData(document)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi document: %w", err)
	}

	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}

	return doc, nil
}

// Endpoint describes one documented operation.
type Endpoint struct {
	Method      string            `json:"method"`
	Path        string            `json:"path"`
	Description string            `json:"description"`
	Query       map[string]string `json:"query,omitempty"`
	Body        map[string]string `json:"body,omitempty"`
}

// Summary is the human-oriented view of the document.
type Summary struct {
	Title       string              `json:"title"`
	Version     string              `json:"version"`
	Description string              `json:"description"`
	Endpoints   map[string]Endpoint `json:"endpoints"`
}

// Summarize flattens doc into a Summary keyed by operationId.
// Operations without an operationId are keyed by "METHOD path".
func Summarize(doc *openapi3.T) Summary {
	s := Summary{
		Endpoints: make(map[string]Endpoint),
	}
	if doc.Info != nil {
		s.Title = doc.Info.Title
		s.Version = doc.Info.Version
		s.Description = doc.Info.Description
	}
	if doc.Paths == nil {
		return s
	}

	for path, item := range doc.Paths.Map() {
		for method, op := range item.Operations() {
			ep := Endpoint{
				Method:      method,
				Path:        path,
				Description: op.Summary,
				Query:       queryParams(item.Parameters, op.Parameters),
				Body:        bodyFields(op.RequestBody),
			}

			key := op.OperationID
			if key == "" {
				key = method + " " + path
			}
			s.Endpoints[key] = ep
		}
	}

	return s
}

// Keys returns the endpoint keys in path then method order.
func (s Summary) Keys() []string {
	keys := make([]string, 0, len(s.Endpoints))
	for k := range s.Endpoints {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := s.Endpoints[keys[i]], s.Endpoints[keys[j]]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return a.Method < b.Method
	})
	return keys
}

func queryParams(groups ...openapi3.Parameters) map[string]string {
	var out map[string]string
	for _, params := range groups {
		for _, ref := range params {
			if ref == nil || ref.Value == nil || ref.Value.In != openapi3.ParameterInQuery {
				continue
			}
			if out == nil {
				out = make(map[string]string)
			}
			out[ref.Value.Name] = describe(ref.Value.Description, ref.Value.Schema)
		}
	}
	return out
}

func bodyFields(body *openapi3.RequestBodyRef) map[string]string {
	if body == nil || body.Value == nil {
		return nil
	}
	media := body.Value.Content.Get("application/json")
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		return nil
	}

	props := media.Schema.Value.Properties
	if len(props) == 0 {
		return nil
	}

	out := make(map[string]string, len(props))
	for name, prop := range props {
		out[name] = describe("", prop)
	}
	return out
}

func describe(description string, schema *openapi3.SchemaRef) string {
	if description != "" {
		return description
	}
	if schema == nil || schema.Value == nil {
		return ""
	}
	if schema.Value.Description != "" {
		return schema.Value.Description
	}
	return strings.Join(schema.Value.Type.Slice(), "|")
}
