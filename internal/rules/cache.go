package rules

import (
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// cacheKey hashes a candidate action's identity: the rule name, its
// frozen inputs and its frozen variable bindings. Output paths are
// deliberately excluded — two apps requesting the identical action under
// different output paths are the same action with a different desired
// alias, which is exactly what the symlink-aliasing cache is for
// (spec.md §4.4, scenario 5).
func cacheKey(ruleName string, inputs []string, vars map[string][]string) uint64 {
	var b strings.Builder
	b.WriteString(ruleName)
	b.WriteByte('\x00')
	writeSorted(&b, inputs)

	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b.WriteString(name)
		b.WriteByte('=')
		writeSorted(&b, vars[name])
	}
	return xxhash.Sum64String(b.String())
}

func writeSorted(b *strings.Builder, items []string) {
	sorted := append([]string(nil), items...)
	sort.Strings(sorted)
	for _, s := range sorted {
		b.WriteString(s)
		b.WriteByte('\x1f')
	}
	b.WriteByte('\x00')
}
