package loader

import (
	"github.com/standardbeagle/laze/internal/values"
)

// expandTemplate turns a single document declaring `template:` into one
// document per cartesian-product combination of its value lists, with
// every `%key%` token substring-replaced by that combination's value
// (spec.md §4.2's template meta key). A document with no template key
// expands to itself, unchanged.
func expandTemplate(doc map[string]any) ([]map[string]any, error) {
	tmplRaw, ok := doc["template"].(map[string]any)
	if !ok {
		return []map[string]any{doc}, nil
	}

	axes := map[string][]string{}
	for key, val := range tmplRaw {
		axes[key] = values.ListifyStrings(val)
	}
	combos := values.DictListProduct(axes)

	base := map[string]any{}
	for k, v := range doc {
		if metaKeys[k] {
			continue
		}
		base[k] = v
	}

	out := make([]map[string]any, 0, len(combos))
	for _, combo := range combos {
		table := make(map[string]string, len(combo))
		for k, v := range combo {
			table["%"+k+"%"] = v
		}
		replaced := values.DeepReplace(base, table)
		replacedMap, _ := replaced.(map[string]any)
		out = append(out, replacedMap)
	}
	return out, nil
}
