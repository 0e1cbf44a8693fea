package tools

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// AddTool registers a tool after checking its output type with
// CheckOutputSchema.
func AddTool[In, Out any](srv *sdkmcp.Server, t *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) {
	CheckOutputSchema[Out](t.Name)
	sdkmcp.AddTool(srv, t, h)
}

// CheckOutputSchema panics when the zero value of T would be rejected by the
// output schema the MCP SDK infers for T.
//
// The usual culprit is a slice field without omitzero: json.Marshal writes a
// nil slice as null while the inferred schema demands an array. json.RawMessage
// fields are rejected as well, since the schema generator sees them as []byte.
//
// Untyped "any" outputs are skipped, as are types the schema generator cannot
// handle; AddTool reports those itself.
func CheckOutputSchema[T any](toolName string) {
	rt := reflect.TypeFor[T]()
	if rt == reflect.TypeFor[any]() {
		return
	}
	if rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}

	if paths := rawMessagePaths(rt, nil, make(map[reflect.Type]bool)); len(paths) > 0 {
		panic(fmt.Sprintf(
			"AddTool %q: output type %s has json.RawMessage fields (%s); use any instead",
			toolName, rt, strings.Join(paths, ", "),
		))
	}

	if data, err := validateZeroValue(rt); err != nil {
		panic(fmt.Sprintf(
			"AddTool %q: zero value of output type %s fails schema validation: %v\n"+
				"  JSON: %s\n"+
				"  Fix: add `omitzero` to slice fields that default to nil",
			toolName, rt, err, data,
		))
	}
}

// validateZeroValue marshals the zero value of rt and validates it against the
// inferred schema. Failures to infer or marshal are not reported.
func validateZeroValue(rt reflect.Type) ([]byte, error) {
	schema, err := jsonschema.ForType(rt, &jsonschema.ForOptions{})
	if err != nil {
		return nil, nil
	}
	resolved, err := schema.Resolve(&jsonschema.ResolveOptions{})
	if err != nil {
		return nil, nil
	}

	data, err := json.Marshal(reflect.Zero(rt).Interface())
	if err != nil {
		return nil, nil
	}
	var v map[string]any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, nil
	}
	return data, resolved.Validate(&v)
}

var rawMessageType = reflect.TypeFor[json.RawMessage]()

// rawMessagePaths returns the dotted paths of json.RawMessage values reachable
// from t.
func rawMessagePaths(t reflect.Type, path []string, visiting map[reflect.Type]bool) []string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == rawMessageType {
		return []string{strings.Join(path, ".")}
	}
	if visiting[t] {
		return nil
	}
	visiting[t] = true
	defer delete(visiting, t)

	var found []string
	switch t.Kind() {
	case reflect.Struct:
		for i := range t.NumField() {
			f := t.Field(i)
			if f.IsExported() {
				found = append(found, rawMessagePaths(f.Type, appendPath(path, f.Name), visiting)...)
			}
		}
	case reflect.Slice, reflect.Array:
		found = rawMessagePaths(t.Elem(), appendPath(path, "[]"), visiting)
	case reflect.Map:
		found = rawMessagePaths(t.Elem(), appendPath(path, "[value]"), visiting)
	}
	return found
}

func appendPath(path []string, elem string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, elem)
}
