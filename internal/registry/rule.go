package registry

import (
	"regexp"
	"strings"
)

// VarOptions controls how a rule variable is rendered into the command
// line: joiner between list entries, prefix/suffix per entry, and
// start/end wrapping the whole rendered string (spec.md §4.4).
type VarOptions struct {
	Joiner string
	Prefix string
	Suffix string
	Start  string
	End    string
}

var defaultVarOptions = VarOptions{Joiner: " "}

var ruleVarPattern = regexp.MustCompile(`\$\{(\w+)\}`)

// Rule is a command template bound to an optional input/output file
// extension pair (spec.md §3, §4.4).
type Rule struct {
	Name    string
	Cmd     string
	InExt   string
	OutExt  string
	Deps    string
	DepFile string
	Relpath string

	VarNames   []string
	VarOptions map[string]VarOptions
}

// NewRule scans cmd for ${name} placeholders and records them as the
// rule's variable slots, attaching any var_options overrides.
func NewRule(args map[string]any, relpath string) *Rule {
	name, _ := args["name"].(string)
	cmd, _ := args["cmd"].(string)
	inExt, _ := args["in_ext"].(string)
	outExt, _ := args["out_ext"].(string)
	deps, _ := args["deps"].(string)
	depfile, _ := args["depfile"].(string)

	varOptsRaw, _ := args["var_options"].(map[string]any)
	varOpts := map[string]VarOptions{}
	for key, raw := range varOptsRaw {
		entry, _ := raw.(map[string]any)
		opt := defaultVarOptions
		if j, ok := entry["joiner"].(string); ok {
			opt.Joiner = j
		}
		if p, ok := entry["prefix"].(string); ok {
			opt.Prefix = p
		}
		if s, ok := entry["suffix"].(string); ok {
			opt.Suffix = s
		}
		if s, ok := entry["start"].(string); ok {
			opt.Start = s
		}
		if e, ok := entry["end"].(string); ok {
			opt.End = e
		}
		varOpts[key] = opt
	}

	seen := map[string]bool{}
	var names []string
	for _, m := range ruleVarPattern.FindAllStringSubmatch(cmd, -1) {
		v := m[1]
		if v == "in" || v == "out" || seen[v] {
			continue
		}
		seen[v] = true
		names = append(names, v)
	}

	return &Rule{
		Name:       name,
		Cmd:        cmd,
		InExt:      inExt,
		OutExt:     outExt,
		Deps:       deps,
		DepFile:    depfile,
		Relpath:    relpath,
		VarNames:   names,
		VarOptions: varOpts,
	}
}

// OptionsFor returns the configured VarOptions for a rule variable, or
// the joiner-only default when unconfigured.
func (r *Rule) OptionsFor(name string) VarOptions {
	if opt, ok := r.VarOptions[name]; ok {
		return opt
	}
	return defaultVarOptions
}

// Format renders a rule variable's value (already sigil-sorted) per its
// VarOptions: each entry gets prefix/suffix, entries join on joiner, and
// the whole thing is wrapped in start/end (spec.md §4.4).
func (r *Rule) Format(name string, entries []string) string {
	opt := r.OptionsFor(name)
	decorated := make([]string, len(entries))
	for i, e := range entries {
		decorated[i] = opt.Prefix + e + opt.Suffix
	}
	joined := strings.Join(decorated, opt.Joiner)
	return opt.Start + joined + opt.End
}
