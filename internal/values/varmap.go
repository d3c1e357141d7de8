package values

// VarValue is a single VarMap entry: either a scalar string or an ordered
// list of strings (spec.md §3 VarMap).
type VarValue struct {
	List   bool
	Scalar string
	Values []string
}

// ScalarValue builds a scalar VarValue.
func ScalarValue(s string) VarValue { return VarValue{Scalar: s} }

// ListValue builds a list VarValue.
func ListValue(vs ...string) VarValue { return VarValue{List: true, Values: vs} }

// AsList returns the value as a string slice regardless of its shape,
// mirroring listify() semantics for a single VarMap entry.
func (v VarValue) AsList() []string {
	if v.List {
		return v.Values
	}
	if v.Scalar == "" {
		return nil
	}
	return []string{v.Scalar}
}

// VarMap is the ordered name -> VarValue mapping cascaded from context to
// builder to app to module (spec.md §3, §4.6).
type VarMap struct {
	order []string
	data  map[string]VarValue
}

// NewVarMap returns an empty VarMap.
func NewVarMap() *VarMap {
	return &VarMap{data: map[string]VarValue{}}
}

// Get looks up a key.
func (m *VarMap) Get(key string) (VarValue, bool) {
	if m == nil {
		return VarValue{}, false
	}
	v, ok := m.data[key]
	return v, ok
}

// Set inserts or overwrites a key, recording first-seen insertion order.
func (m *VarMap) Set(key string, v VarValue) {
	if _, exists := m.data[key]; !exists {
		m.order = append(m.order, key)
	}
	m.data[key] = v
}

// Keys returns keys in insertion order.
func (m *VarMap) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Clone returns a deep copy.
func (m *VarMap) Clone() *VarMap {
	out := NewVarMap()
	if m == nil {
		return out
	}
	for _, k := range m.order {
		v := m.data[k]
		cp := VarValue{List: v.List, Scalar: v.Scalar}
		if v.List {
			cp.Values = append([]string{}, v.Values...)
		}
		out.Set(k, cp)
	}
	return out
}

// MergeVarMaps merges b into a clone of a, following the same list-union /
// override / conflict semantics as DeepMerge, specialized to the VarValue
// shape (spec.md §4.1, applied to the VarMap entity of §3).
func MergeVarMaps(a, b *VarMap, opts MergeOptions) (*VarMap, error) {
	out := a.Clone()
	if b == nil {
		return out, nil
	}
	for _, key := range b.Keys() {
		bv, _ := b.Get(key)
		av, exists := out.Get(key)
		if !exists {
			if !opts.OnlyExisting {
				out.Set(key, bv)
			}
			continue
		}

		if opts.JoinLists {
			if av.List && !bv.List {
				bv = VarValue{List: true, Values: []string{bv.Scalar}}
			} else if !av.List && bv.List {
				av = VarValue{List: true, Values: []string{av.Scalar}}
			}
		}

		if av.List && bv.List {
			var combined []string
			if opts.ChangeListOrder {
				combined = append(append([]string{}, bv.Values...), av.Values...)
			} else {
				combined = append(append([]string{}, av.Values...), bv.Values...)
			}
			out.Set(key, VarValue{List: true, Values: Uniquify(combined)})
			continue
		}

		if !av.List && !bv.List {
			if av.Scalar == bv.Scalar {
				continue
			}
			if av.Scalar == "" {
				out.Set(key, bv)
				continue
			}
			if opts.Override {
				out.Set(key, bv)
				continue
			}
			return nil, &ConflictError{Path: key, Lhs: av.Scalar, Rhs: bv.Scalar}
		}

		// Mixed shapes without JoinLists is a conflict: the two declared
		// types for the same variable name disagree.
		if opts.Override {
			out.Set(key, bv)
			continue
		}
		return nil, &ConflictError{Path: key, Lhs: av, Rhs: bv}
	}
	return out, nil
}

// VarMapFromRaw converts a raw YAML `vars:`-shaped map[string]any (scalar
// or list-of-string values) into a VarMap: a list becomes a list value of
// its string entries, a string stays a scalar value, and any other value
// (number, bool, map) is dropped.
func VarMapFromRaw(raw map[string]any) *VarMap {
	out := NewVarMap()
	for _, key := range sortedAnyKeys(raw) {
		val := raw[key]
		if list, ok := val.([]any); ok {
			strs := make([]string, 0, len(list))
			for _, it := range list {
				if s, ok := it.(string); ok {
					strs = append(strs, s)
				}
			}
			out.Set(key, VarValue{List: true, Values: strs})
			continue
		}
		if s, ok := val.(string); ok {
			out.Set(key, VarValue{Scalar: s})
			continue
		}
	}
	return out
}
