package values

import "sort"

// SortBySigil implements spec.md §4.4's ordering sigil pass: an entry
// beginning with '<' sorts before unmarked entries, '>' sorts after; the
// sigil is stripped before emission. A leading backslash escapes a literal
// '<' or '>' (the element keeps its escaped character, sigil-free).
func SortBySigil(list []string) []string {
	type tagged struct {
		rank int
		idx  int
		text string
	}
	tl := make([]tagged, len(list))
	for i, entry := range list {
		rank := 1
		text := entry
		if len(entry) > 0 {
			switch entry[0] {
			case '<':
				rank = 0
				text = entry[1:]
			case '>':
				rank = 2
				text = entry[1:]
			case '\\':
				text = entry[1:]
			}
		}
		tl[i] = tagged{rank: rank, idx: i, text: text}
	}
	sort.SliceStable(tl, func(i, j int) bool { return tl[i].rank < tl[j].rank })
	out := make([]string, len(tl))
	for i, t := range tl {
		out[i] = t.text
	}
	return out
}
