// Package values implements the generic merge, templating and cartesian
// product algorithms that every other package in laze builds on: deep
// merging of declaration documents, list uniquification, literal-token
// template replacement and ${name} placeholder substitution.
//
// Declaration documents are untyped YAML trees (map[string]any, []any,
// string, bool, int, nil), mirroring how the original implementation
// operated on Python dicts/lists/scalars. Variable dictionaries (the `vars`
// family of fields) get the stricter typed representation in varmap.go.
package values

import (
	"sort"
	"strings"
)

// Listify returns nil/empty input as an empty slice, a scalar as a
// one-element slice, and a slice as itself.
func Listify(x any) []any {
	switch v := x.(type) {
	case nil:
		return nil
	case []any:
		return v
	default:
		return []any{x}
	}
}

// ListifyStrings is Listify specialized for the common case of string-only
// lists (sources, depends, uses, include, subdirs, ...).
func ListifyStrings(x any) []string {
	items := Listify(x)
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Uniquify returns the first occurrence of each value in seq, preserving
// input order.
func Uniquify(seq []string) []string {
	seen := make(map[string]struct{}, len(seq))
	out := make([]string, 0, len(seq))
	for _, s := range seq {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// StripRemoveMarkers implements the "subtract from a default list"
// semantics: any entry beginning with "-" removes both itself and the
// corresponding unmarked entry from the list.
func StripRemoveMarkers(list []string) []string {
	if len(list) == 0 {
		return list
	}
	remove := make(map[string]struct{})
	for _, entry := range list {
		if len(entry) > 0 && entry[0] == '-' {
			remove[entry] = struct{}{}
			remove[entry[1:]] = struct{}{}
		}
	}
	if len(remove) == 0 {
		return list
	}
	out := make([]string, 0, len(list))
	for _, entry := range list {
		if _, ok := remove[entry]; ok {
			continue
		}
		out = append(out, entry)
	}
	return out
}

// DeepReplace walks obj and, for every string leaf, applies every
// key->value substring replacement in table. Used by the loader's
// templating layer for literal-token substitution (not ${name}
// expansion, see DeepSubstitute).
//
// This performs plain substring replacement; a template key that is also a
// substring of unrelated text will be rewritten too (documented pitfall,
// see SPEC_FULL.md §9 and spec.md §9 Open Questions).
func DeepReplace(obj any, table map[string]string) any {
	switch v := obj.(type) {
	case []any:
		out := make([]any, len(v))
		for i, entry := range v {
			out[i] = DeepReplace(entry, table)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, val := range v {
			out[key] = DeepReplace(val, table)
		}
		return out
	case string:
		s := v
		for _, key := range sortedKeys(table) {
			s = strings.ReplaceAll(s, key, table[key])
		}
		return s
	default:
		return v
	}
}

func sortedKeys(table map[string]string) []string {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DictListProduct yields every Cartesian combination of a mapping from key
// to list-of-values, as one map per combination.
func DictListProduct(d map[string][]string) []map[string]string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	combos := []map[string]string{{}}
	for _, key := range keys {
		values := d[key]
		var next []map[string]string
		for _, combo := range combos {
			for _, v := range values {
				entry := make(map[string]string, len(combo)+1)
				for k, val := range combo {
					entry[k] = val
				}
				entry[key] = v
				next = append(next, entry)
			}
		}
		combos = next
	}
	return combos
}
