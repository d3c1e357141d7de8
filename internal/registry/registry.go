// Package registry holds the in-memory object graph laze builds while
// consuming registry.Doc documents: Contexts, Builders, Rules, Modules
// and Apps (spec.md §3), along with the phony-aggregation bookkeeping
// the ninja writer (C7) later drains.
package registry

import "github.com/standardbeagle/laze/internal/lazeerrors"

// Generator is the top-level namespace a laze run builds up: every
// Context/Builder/Rule/Module/App declared across every consumed file,
// in declaration order.
type Generator struct {
	Contexts     map[string]*Context
	ContextOrder []string

	Rules      []*Rule
	RulesByExt map[string]*Rule

	Modules []*Module
	Apps    []*App

	// Aggregations maps a phony target name (a context, builder or app
	// name) to the set of things it aggregates: child context names for
	// contexts, plus every object and link output emitted under a
	// builder, and link outputs for apps (spec.md §4.6's "per-app and
	// per-builder phony targets").
	Aggregations map[string]map[string]bool
}

func NewGenerator() *Generator {
	return &Generator{
		Contexts:     map[string]*Context{},
		RulesByExt:   map[string]*Rule{},
		Aggregations: map[string]map[string]bool{},
	}
}

func (g *Generator) addAggregationTarget(name string) {
	if _, ok := g.Aggregations[name]; !ok {
		g.Aggregations[name] = map[string]bool{}
	}
}

// Depends records that `target` aggregates `input` as one of its phony
// dependencies, creating the target entry if needed.
func (g *Generator) Depends(target, input string) {
	g.addAggregationTarget(target)
	g.Aggregations[target][input] = true
}

func (g *Generator) registerContext(c *Context) error {
	if c.Name == "" {
		return lazeerrors.NewInvalidArgument("context declared at %s has no name", c.Relpath)
	}
	if _, exists := g.Contexts[c.Name]; exists {
		return lazeerrors.NewInvalidArgument("duplicate context/builder name %q", c.Name)
	}
	g.Contexts[c.Name] = c
	g.ContextOrder = append(g.ContextOrder, c.Name)
	g.addAggregationTarget(c.Name)
	return nil
}

func (g *Generator) registerRule(r *Rule) error {
	if r.Name == "" {
		return lazeerrors.NewInvalidArgument("rule declared at %s has no name", r.Relpath)
	}
	g.Rules = append(g.Rules, r)
	if r.InExt != "" {
		if existing, ok := g.RulesByExt[r.InExt]; ok {
			return lazeerrors.NewInvalidArgument(
				"ambiguous extension registration: rules %q and %q both claim %q",
				existing.Name, r.Name, r.InExt)
		}
		g.RulesByExt[r.InExt] = r
	}
	return nil
}

func (g *Generator) registerModule(m *Module) error {
	if m.Name == "" {
		return lazeerrors.NewInvalidArgument("module declared at %s has no name", m.Relpath)
	}
	g.Modules = append(g.Modules, m)
	return nil
}

func (g *Generator) registerApp(a *App) error {
	if a.Name == "" {
		return lazeerrors.NewInvalidArgument("app declared at %s has no name", a.Relpath)
	}
	g.Modules = append(g.Modules, a.Module)
	g.Apps = append(g.Apps, a)
	g.addAggregationTarget(a.Name)
	return nil
}

// RuleByName looks up a rule by its declared name; the App Builder uses
// it to find the LINK and SYMLINK rules (spec.md §4.6).
func (g *Generator) RuleByName(name string) *Rule {
	for _, r := range g.Rules {
		if r.Name == name {
			return r
		}
	}
	return nil
}
