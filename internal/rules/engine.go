// Package rules turns a registry.Rule plus a concrete set of
// inputs/outputs/variable bindings into ninja build statements, de-duping
// identical actions via a content-addressed cache (spec.md §3, §4.4).
package rules

import (
	"regexp"

	"github.com/standardbeagle/laze/internal/ninja"
	"github.com/standardbeagle/laze/internal/registry"
)

var placeholderPattern = regexp.MustCompile(`\$\{(\w+)\}`)

// toNinjaCommand rewrites a rule's ${name} placeholders into ninja's
// $name variable references; ${in}/${out} become ninja's builtin $in/$out.
func toNinjaCommand(cmd string) string {
	return placeholderPattern.ReplaceAllString(cmd, "$$$1")
}

// Engine emits build statements for resolved actions, registering each
// distinct rule's ninja command exactly once and skipping any action
// whose (rule, inputs, vars) signature has already been emitted.
type Engine struct {
	Writer *ninja.Writer

	seen       map[uint64]string
	registered map[string]bool

	RuleNum    int
	RuleCached int
}

func NewEngine(w *ninja.Writer) *Engine {
	return &Engine{Writer: w, seen: map[uint64]string{}, registered: map[string]bool{}}
}

// Emit renders one action: outputs[0], rule.Name, inputs, and one
// build-local variable binding per rule variable present in vars.
//
// If an action with the identical (rule, inputs, vars) signature was
// already emitted, the Writer is left untouched and the previously
// emitted output path is returned instead of outputs[0] — the caller is
// expected to alias its own desired output to that path (e.g. via a
// SYMLINK rule) when the two differ, rather than re-running the action
// (spec.md §4.4's to_ninja_build, scenario 5).
func (e *Engine) Emit(rule *registry.Rule, outputs, inputs []string, vars map[string][]string) (string, error) {
	key := cacheKey(rule.Name, inputs, vars)
	if prior, ok := e.seen[key]; ok {
		e.RuleCached++
		return prior, nil
	}
	e.seen[key] = outputs[0]

	if !e.registered[rule.Name] {
		if err := e.Writer.Rule(rule.Name, toNinjaCommand(rule.Cmd), rule.Deps, rule.DepFile); err != nil {
			return "", err
		}
		e.registered[rule.Name] = true
	}

	var bindings []ninja.VarBinding
	for _, name := range rule.VarNames {
		entries, ok := vars[name]
		if !ok {
			continue
		}
		bindings = append(bindings, ninja.VarBinding{Name: name, Value: rule.Format(name, entries)})
	}

	e.Writer.Build(ninja.Build{Outputs: outputs, Rule: rule.Name, Inputs: inputs, Vars: bindings})
	e.RuleNum++
	return outputs[0], nil
}
