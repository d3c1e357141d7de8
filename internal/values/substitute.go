package values

import "os"

// DeepSubstitute performs shell-style ${name} placeholder expansion of
// every string leaf of vars that contains a "$", using table for lookups.
// Unlike DeepReplace, it targets the ${...} syntax specifically, mirroring
// the original implementation's use of Python's string.Template.
func DeepSubstitute(vars map[string]any, table map[string]string) map[string]any {
	expand := func(s string) string {
		return os.Expand(s, func(name string) string {
			return table[name]
		})
	}

	for key, val := range vars {
		switch v := val.(type) {
		case []any:
			out := make([]any, len(v))
			for i, entry := range v {
				if s, ok := entry.(string); ok && containsDollar(s) {
					out[i] = expand(s)
				} else {
					out[i] = entry
				}
			}
			vars[key] = out
		case string:
			if containsDollar(v) {
				vars[key] = expand(v)
			}
		}
	}
	return vars
}

// SubstituteVarMap applies DeepSubstitute's ${name} expansion across a
// VarMap's values, returning a new VarMap (the source is untouched).
func SubstituteVarMap(vars *VarMap, table map[string]string) *VarMap {
	out := NewVarMap()
	if vars == nil {
		return out
	}
	expand := func(s string) string {
		return os.Expand(s, func(name string) string { return table[name] })
	}
	for _, key := range vars.Keys() {
		v, _ := vars.Get(key)
		if v.List {
			vals := make([]string, len(v.Values))
			for i, entry := range v.Values {
				if containsDollar(entry) {
					vals[i] = expand(entry)
				} else {
					vals[i] = entry
				}
			}
			out.Set(key, VarValue{List: true, Values: vals})
			continue
		}
		if containsDollar(v.Scalar) {
			out.Set(key, VarValue{Scalar: expand(v.Scalar)})
		} else {
			out.Set(key, v)
		}
	}
	return out
}

func containsDollar(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '$' {
			return true
		}
	}
	return false
}
