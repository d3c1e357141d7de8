// Package depsolve computes a module's transitive dependency and
// optional-use closures within a given Context, memoizing per
// (module, context, relation) since the same module is solved once per
// builder it is reachable from (spec.md §3's Dependency Solver, §4.5).
package depsolve

import (
	"path"
	"sort"
	"strings"

	"github.com/standardbeagle/laze/internal/lazeerrors"
	"github.com/standardbeagle/laze/internal/registry"
)

const (
	relationDeps   = "deps"
	relationUsed   = "used"
	relationNested = "nested"
)

// Suggester finds the closest registered module name to an unresolved
// one, for ModuleNotAvailable's "did you mean" hint (SPEC_FULL.md §10.2).
type Suggester interface {
	Suggest(missing string, candidates []string) string
}

// GetDeps resolves m's hard `depends:` list within ctx: every entry must
// resolve to a registered module reachable from ctx, except entries
// prefixed "?" which are dropped silently when missing (spec.md §4.5,
// invariant 5). Results are memoized on the module.
func GetDeps(m *registry.Module, ctx *registry.Context, suggester Suggester) ([]*registry.Module, error) {
	if cached, ok := m.CachedNested(ctx, relationDeps); ok {
		return cached, nil
	}
	var out []*registry.Module
	for _, raw := range m.Depends {
		optional := strings.HasPrefix(raw, "?")
		name := strings.TrimPrefix(raw, "?")
		dep := ctx.GetModule(name)
		if dep == nil {
			if optional {
				continue
			}
			err := &lazeerrors.ModuleNotAvailable{Context: ctx.Name, Requester: m.Name, Missing: name}
			if suggester != nil {
				err.Suggestion = suggester.Suggest(name, registeredModuleNames(ctx))
			}
			return nil, err
		}
		out = append(out, dep)
	}
	m.SetCachedNested(ctx, relationDeps, out)
	return out, nil
}

// GetUsed resolves m's `uses:` list within ctx: missing entries are
// dropped silently (uses is always soft), and `uses: all` expands to
// every module registered anywhere in ctx's ancestor chain (spec.md
// §4.5).
func GetUsed(m *registry.Module, ctx *registry.Context) []*registry.Module {
	if cached, ok := m.CachedNested(ctx, relationUsed); ok {
		return cached
	}
	var out []*registry.Module
	if m.UsesAll() {
		out = allModulesVisibleFrom(ctx)
	} else {
		for _, name := range m.Uses {
			if name == "all" {
				continue
			}
			if dep := ctx.GetModule(name); dep != nil {
				out = append(out, dep)
			}
		}
	}
	m.SetCachedNested(ctx, relationUsed, out)
	return out
}

// GetNested returns the full transitive closure of m's dependencies and
// uses within ctx, depth-first and de-duplicated, matching the order the
// original walk discovers modules in (spec.md §4.5's "module_set").
func GetNested(m *registry.Module, ctx *registry.Context, suggester Suggester) ([]*registry.Module, error) {
	if cached, ok := m.CachedNested(ctx, relationNested); ok {
		return cached, nil
	}
	seen := map[*registry.Module]bool{m: true}
	var out []*registry.Module
	if err := collectNested(m, ctx, suggester, seen, &out); err != nil {
		return nil, err
	}
	m.SetCachedNested(ctx, relationNested, out)
	return out, nil
}

func collectNested(m *registry.Module, ctx *registry.Context, suggester Suggester, seen map[*registry.Module]bool, out *[]*registry.Module) error {
	deps, err := GetDeps(m, ctx, suggester)
	if err != nil {
		return err
	}
	for _, d := range append(deps, GetUsed(m, ctx)...) {
		if seen[d] {
			continue
		}
		seen[d] = true
		*out = append(*out, d)
		if err := collectNested(d, ctx, suggester, seen, out); err != nil {
			return err
		}
	}
	return nil
}

// GetDefines computes m's feature-define set within ctx: S = moduleSet if
// m declared `uses: all`, otherwise S = {x.name for x in GetUsed(m,ctx)} ∩
// moduleSet. Returns, sorted ascending, one `-DMODULE_<name>` per entry in
// S, with name uppercased and its `/`/`-` replaced by `_` (spec.md §4.5,
// invariant 5, scenario 2).
func GetDefines(m *registry.Module, ctx *registry.Context, moduleSet map[string]bool) []string {
	var names []string
	if m.UsesAll() {
		for name := range moduleSet {
			names = append(names, name)
		}
	} else {
		for _, u := range GetUsed(m, ctx) {
			if moduleSet[u.Name] {
				names = append(names, u.Name)
			}
		}
	}
	sort.Strings(names)

	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, "-DMODULE_"+defineToken(name))
	}
	return out
}

// defineToken turns a module name into the uppercased, underscore-joined
// token `-DMODULE_<token>` embeds (spec.md §4.5).
func defineToken(name string) string {
	token := strings.ToUpper(path.Base(name))
	token = strings.ReplaceAll(token, "/", "_")
	token = strings.ReplaceAll(token, "-", "_")
	return token
}

func allModulesVisibleFrom(ctx *registry.Context) []*registry.Module {
	seen := map[string]bool{}
	var out []*registry.Module
	for c := ctx; c != nil; c = c.Parent {
		names := make([]string, 0, len(c.Modules))
		for name := range c.Modules {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, c.Modules[name])
		}
	}
	return out
}

func registeredModuleNames(ctx *registry.Context) []string {
	seen := map[string]bool{}
	var out []string
	for c := ctx; c != nil; c = c.Parent {
		names := make([]string, 0, len(c.Modules))
		for name := range c.Modules {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	return out
}
