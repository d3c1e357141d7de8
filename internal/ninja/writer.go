// Package ninja renders the in-memory build graph as a single Ninja
// build manifest: rule blocks, build statements, phony aggregations and
// a default target list (spec.md §3's Ninja Writer, §4.7).
package ninja

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

// escape applies Ninja's path-escaping rules: a literal space or `:`
// must be backslash-escaped, `$` must be doubled (spec.md §4.7,
// invariant 1 — byte-identical output for identical input).
func escape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case ' ', ':':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '$':
			b.WriteString("$$")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Build is one `build <outputs>: <rule> <inputs>` statement, with
// optional implicit/order-only inputs and per-statement variable
// bindings (rendered indented beneath the statement, Ninja's syntax for
// build-local variables).
type Build struct {
	Outputs   []string
	Rule      string
	Inputs    []string
	Implicit  []string
	OrderOnly []string
	Vars      []VarBinding
}

// VarBinding is one `name = value` line; Vars preserves insertion order
// since two different renders of the same Build must byte-match.
type VarBinding struct {
	Name  string
	Value string
}

// Writer accumulates rule declarations and build statements and renders
// them to a Ninja manifest in declaration order.
type Writer struct {
	rules     []ruleDecl
	seenRules map[string]bool
	builds    []Build
	phonies   []Build
	defaults  []string
}

type ruleDecl struct {
	Name    string
	Command string
	Deps    string
	DepFile string
}

func NewWriter() *Writer {
	return &Writer{seenRules: map[string]bool{}}
}

// Rule declares a ninja rule once; a repeated name with an identical
// command is silently ignored (two builders may register the same
// compiler rule), a repeated name with a different command is an error.
func (w *Writer) Rule(name, command, deps, depfile string) error {
	if w.seenRules[name] {
		for _, r := range w.rules {
			if r.Name == name && r.Command != command {
				return fmt.Errorf("ninja: conflicting redefinition of rule %q", name)
			}
		}
		return nil
	}
	w.seenRules[name] = true
	w.rules = append(w.rules, ruleDecl{Name: name, Command: command, Deps: deps, DepFile: depfile})
	return nil
}

func (w *Writer) Build(b Build) {
	w.builds = append(w.builds, b)
}

// Phony registers a `build <name>: phony <inputs...>` statement; used
// for the per-context and per-app aggregation targets (spec.md §4.6).
func (w *Writer) Phony(name string, inputs []string) {
	sorted := append([]string(nil), inputs...)
	sort.Strings(sorted)
	w.phonies = append(w.phonies, Build{Outputs: []string{name}, Rule: "phony", Inputs: sorted})
}

func (w *Writer) Default(targets ...string) {
	w.defaults = append(w.defaults, targets...)
}

// WriteTo renders the accumulated rules, builds and phonies to out, in
// declaration order: rules first, then builds, then phonies, then a
// trailing `default` statement if any target was registered.
func (w *Writer) WriteTo(out io.Writer) error {
	bw := bufio.NewWriter(out)

	for _, r := range w.rules {
		fmt.Fprintf(bw, "rule %s\n  command = %s\n", r.Name, r.Command)
		if r.Deps != "" {
			fmt.Fprintf(bw, "  deps = %s\n", r.Deps)
		}
		if r.DepFile != "" {
			fmt.Fprintf(bw, "  depfile = %s\n", r.DepFile)
		}
		bw.WriteByte('\n')
	}

	for _, b := range append(append([]Build{}, w.builds...), w.phonies...) {
		writeBuild(bw, b)
	}

	if len(w.defaults) > 0 {
		fmt.Fprintf(bw, "default %s\n", strings.Join(escapeAll(w.defaults), " "))
	}

	return bw.Flush()
}

func writeBuild(bw *bufio.Writer, b Build) {
	fmt.Fprintf(bw, "build %s: %s", strings.Join(escapeAll(b.Outputs), " "), b.Rule)
	if len(b.Inputs) > 0 {
		fmt.Fprintf(bw, " %s", strings.Join(escapeAll(b.Inputs), " "))
	}
	if len(b.Implicit) > 0 {
		fmt.Fprintf(bw, " | %s", strings.Join(escapeAll(b.Implicit), " "))
	}
	if len(b.OrderOnly) > 0 {
		fmt.Fprintf(bw, " || %s", strings.Join(escapeAll(b.OrderOnly), " "))
	}
	bw.WriteByte('\n')
	for _, v := range b.Vars {
		fmt.Fprintf(bw, "  %s = %s\n", v.Name, v.Value)
	}
	bw.WriteByte('\n')
}

func escapeAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = escape(s)
	}
	return out
}
