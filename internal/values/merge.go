package values

import (
	"fmt"
	"sort"
)

// MergeOptions controls deep_merge's behavior at every recursion level, see
// spec.md §4.1.
type MergeOptions struct {
	// Override makes a conflicting leaf adopt b's value instead of failing.
	Override bool
	// ChangeListOrder uniquifies b++a instead of a++b for list merges.
	ChangeListOrder bool
	// OnlyExisting drops any key present only in b.
	OnlyExisting bool
	// JoinLists promotes a scalar to a singleton list when the other side
	// of the merge is a list, before merging.
	JoinLists bool
}

// ConflictError reports deep_merge's ConflictAtPath failure: two leaf
// values disagree and Override was not requested.
type ConflictError struct {
	Path string
	Lhs  any
	Rhs  any
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict at %s (%v, %v)", e.Path, e.Lhs, e.Rhs)
}

// DeepMerge merges b into a in place, following spec.md §4.1: dict keys
// recurse, lists uniquify (order controlled by ChangeListOrder), leaves
// must agree unless Override is set. a is mutated and returned.
func DeepMerge(a, b map[string]any, opts MergeOptions) (map[string]any, error) {
	if a == nil {
		a = map[string]any{}
	}
	for _, key := range sortedAnyKeys(b) {
		bVal := b[key]
		aVal, exists := a[key]
		if !exists {
			if !opts.OnlyExisting {
				a[key] = bVal
			}
			continue
		}

		if opts.JoinLists {
			if _, aIsList := aVal.([]any); aIsList {
				if _, bIsList := bVal.([]any); !bIsList {
					bVal = []any{bVal}
				}
			} else if _, bIsList := bVal.([]any); bIsList {
				aVal = []any{aVal}
			}
		}

		merged, err := mergeValue(aVal, bVal, key, opts)
		if err != nil {
			return nil, err
		}
		a[key] = merged
	}
	return a, nil
}

func mergeValue(a, b any, path string, opts MergeOptions) (any, error) {
	aMap, aIsMap := a.(map[string]any)
	bMap, bIsMap := b.(map[string]any)
	if aIsMap && bIsMap {
		merged, err := DeepMerge(aMap, bMap, opts)
		if err != nil {
			return nil, err
		}
		return merged, nil
	}

	aList, aIsList := a.([]any)
	bList, bIsList := b.([]any)
	if aIsList && bIsList {
		var combined []any
		if opts.ChangeListOrder {
			combined = append(append([]any{}, bList...), aList...)
		} else {
			combined = append(append([]any{}, aList...), bList...)
		}
		return uniquifyAny(combined), nil
	}

	if a == nil {
		return b, nil
	}
	if equalLeaf(a, b) {
		return a, nil
	}
	if opts.Override {
		return b, nil
	}
	return nil, &ConflictError{Path: path, Lhs: a, Rhs: b}
}

func equalLeaf(a, b any) bool {
	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		return as == bs
	}
	return a == b
}

func uniquifyAny(seq []any) []any {
	seen := make(map[string]struct{}, len(seq))
	out := make([]any, 0, len(seq))
	for _, v := range seq {
		key := fmt.Sprintf("%v", v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}

func sortedAnyKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// Stable, deterministic iteration order (invariant 1: deterministic
	// emission). Declaration key order within a document is otherwise
	// preserved by the loader at the slice level; map key order only
	// matters here for which conflict surfaces first.
	sort.Strings(keys)
	return keys
}
