package loader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/standardbeagle/laze/internal/lazeerrors"
)

// declarationOrder lists the five declaration kinds a document's keys
// are resolved against, shared by applyDefaults and validateEntries.
var declarationOrder = []string{"context", "builder", "rule", "module", "app"}

// declSchemas describes the fields each declaration kind accepts,
// grounded on spec.md §3/§6's field lists and the original's
// `yaml.SafeLoader` schema ("Kwargs / opaque dicts → schema structs",
// spec.md §9). validateEntries checks every declaration against these
// schemas and rejects unknown fields and mistyped values.
var declSchemas = map[string]*jsonschema.Schema{
	"context": {
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"name":            {Type: "string"},
			"parent":          {Type: "string"},
			"bindir":          {Type: "string"},
			"vars":            {Type: "object"},
			"disable_modules": {},
		},
	},
	"builder": {
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"name":            {Type: "string"},
			"parent":          {Type: "string"},
			"bindir":          {Type: "string"},
			"vars":            {Type: "object"},
			"disable_modules": {},
		},
	},
	"rule": {
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"name":        {Type: "string"},
			"cmd":         {Type: "string"},
			"in_ext":      {Type: "string"},
			"out_ext":     {Type: "string"},
			"deps":        {Type: "string"},
			"depfile":     {Type: "string"},
			"var_options": {Type: "object"},
		},
	},
	"module": {
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"name":            {Type: "string"},
			"context":         {Type: "string"},
			"sources":         {},
			"depends":         {},
			"uses":            {},
			"vars":            {Type: "object"},
			"global_vars":     {Type: "object"},
			"export_vars":     {Type: "object"},
			"options":         {Type: "object"},
			"download":        {Type: "object"},
			"source_location": {Type: "string"},
		},
	},
	"app": {
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"name":               {Type: "string"},
			"context":            {Type: "string"},
			"sources":            {},
			"depends":            {},
			"uses":               {},
			"vars":               {Type: "object"},
			"global_vars":        {Type: "object"},
			"export_vars":        {Type: "object"},
			"options":            {Type: "object"},
			"download":           {Type: "object"},
			"source_location":    {Type: "string"},
			"bindir":             {Type: "string"},
			"whitelist_contexts": {},
			"blacklist_contexts": {},
		},
	},
}

// validateEntries checks every entry under each declaration kind key
// present in doc against declSchemas: it rejects any field not named in
// that kind's schema (the "unknown fields → error" overflow check
// spec.md §9's design note calls for) and, for every known field that
// does appear, checks the value's shape against the field's declared
// jsonschema.Schema.Type. The jsonschema-go types describe the shape
// the same way the teacher's internal/mcp/server.go uses them for MCP
// tool inputs; declSchemas has no nested $ref/Resolve graph to walk, so
// checking is done directly against each field's Schema rather than via
// a Resolved document.
func validateEntries(doc map[string]any) error {
	for _, kind := range declarationOrder {
		schema, ok := declSchemas[kind]
		if !ok {
			continue
		}
		for _, entry := range listEntries(doc[kind]) {
			entryMap, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			if err := validateEntry(kind, schema, entryMap); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateEntry(kind string, schema *jsonschema.Schema, entry map[string]any) error {
	var unknown []string
	for key, value := range entry {
		fieldSchema, ok := schema.Properties[key]
		if !ok {
			unknown = append(unknown, key)
			continue
		}
		if err := checkType(fieldSchema, key, value); err != nil {
			name, _ := entry["name"].(string)
			return lazeerrors.NewParseError(kind+" "+name+": "+err.Error(), nil)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		name, _ := entry["name"].(string)
		return lazeerrors.NewParseError(kind+" "+name+" declares unknown field(s): "+strings.Join(unknown, ", "), nil)
	}
	return nil
}

// checkType enforces fieldSchema.Type against value's Go kind as
// decoded from YAML; a blank Type (used for fields whose value may be
// a string, a list, or a map depending on how the author wrote it, e.g.
// `uses:`) accepts anything.
func checkType(fieldSchema *jsonschema.Schema, field string, value any) error {
	switch fieldSchema.Type {
	case "string":
		if _, ok := value.(string); !ok {
			return fmt.Errorf("field %q must be a string, got %T", field, value)
		}
	case "object":
		if _, ok := value.(map[string]any); !ok {
			return fmt.Errorf("field %q must be a mapping, got %T", field, value)
		}
	}
	return nil
}

func listEntries(raw any) []any {
	switch v := raw.(type) {
	case nil:
		return nil
	case []any:
		return v
	default:
		return []any{v}
	}
}
