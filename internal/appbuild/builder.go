// Package appbuild is the App Builder (spec.md §3, C6): for every App
// reachable from every Builder, it resolves the module set, cascades
// variables, and emits one compile action per source file plus one link
// action per app, threading everything through the rules Engine's
// de-dup cache and the registry's phony-aggregation bookkeeping.
package appbuild

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/standardbeagle/laze/internal/depsolve"
	"github.com/standardbeagle/laze/internal/lazeerrors"
	"github.com/standardbeagle/laze/internal/lazelog"
	"github.com/standardbeagle/laze/internal/registry"
	"github.com/standardbeagle/laze/internal/rules"
	"github.com/standardbeagle/laze/internal/values"
)

const (
	linkRuleName    = "LINK"
	symlinkRuleName = "SYMLINK"
)

// Builder drives build-graph emission across the full Context/App
// matrix (spec.md §4.6).
type Builder struct {
	Gen       *registry.Generator
	Engine    *rules.Engine
	Suggester depsolve.Suggester
}

func NewBuilder(gen *registry.Generator, engine *rules.Engine, suggester depsolve.Suggester) *Builder {
	return &Builder{Gen: gen, Engine: engine, Suggester: suggester}
}

// EmitAll walks every (builder, app) pair allowed by the app's
// whitelist/blacklist and emits its build graph, then renders the
// accumulated phony-aggregation targets (spec.md invariant 6). A
// ModuleNotAvailable raised for one (app, builder) pair is logged and
// that pair is skipped rather than aborting the whole run; any other
// error is treated as affecting the global model and is fatal (spec.md
// §7's recovery policy).
func (b *Builder) EmitAll() error {
	for _, name := range b.Gen.ContextOrder {
		ctx := b.Gen.Contexts[name]
		if !ctx.IsBuilder {
			continue
		}
		for _, app := range b.Gen.Apps {
			if !app.Allowed(ctx) {
				continue
			}
			err := b.emitApp(app, ctx)
			if err == nil {
				continue
			}
			var notAvail *lazeerrors.ModuleNotAvailable
			if errors.As(err, &notAvail) {
				lazelog.Warnf("skipping app %s for builder %s: %v", app.Name, ctx.Name, notAvail)
				continue
			}
			return fmt.Errorf("app %q under builder %q: %w", app.Name, ctx.Name, err)
		}
	}
	b.finalizePhonies()
	return nil
}

func (b *Builder) emitApp(app *registry.App, builder *registry.Context) error {
	cascadeVars, err := builder.GetVars()
	if err != nil {
		return err
	}
	appVars, err := values.MergeVarMaps(cascadeVars, app.Vars, values.MergeOptions{Override: true})
	if err != nil {
		return err
	}

	bindir := registry.SubstituteBindir(app.BindirTemplate, app.Name, builder)

	nested, err := depsolve.GetNested(app.Module, builder, b.Suggester)
	if err != nil {
		return err
	}
	moduleSet := append([]*registry.Module{app.Module}, nested...)
	moduleNames := map[string]bool{}
	for _, m := range moduleSet {
		moduleNames[m.Name] = true
	}

	var objects []string
	for _, mod := range moduleSet {
		outs, err := b.emitModuleSources(mod, moduleSet, moduleNames, builder, appVars, bindir)
		if err != nil {
			return err
		}
		objects = append(objects, outs...)
	}

	if len(objects) == 0 {
		return nil
	}

	linkRule := b.Gen.RuleByName(linkRuleName)
	if linkRule == nil {
		return lazeerrors.NewInvalidArgument("no %q rule registered to link app %q", linkRuleName, app.Name)
	}

	linkName := app.Name
	if linkRule.OutExt != "" {
		linkName += "." + linkRule.OutExt
	}
	linkOut := path.Join(bindir, linkName)
	linkVars := ruleVars(linkRule, appVars)
	actual, err := b.Engine.Emit(linkRule, []string{linkOut}, objects, linkVars)
	if err != nil {
		return err
	}
	if actual != linkOut {
		// Another app already linked bit-identical inputs under a
		// different name; alias this app's expected output to that
		// artifact instead of re-linking (spec.md §4.6, scenario 5).
		symlinkRule := b.Gen.RuleByName(symlinkRuleName)
		if symlinkRule == nil {
			return lazeerrors.NewInvalidArgument("no %q rule registered to alias app %q", symlinkRuleName, app.Name)
		}
		if _, err := b.Engine.Emit(symlinkRule, []string{linkOut}, []string{actual}, nil); err != nil {
			return err
		}
	}

	b.Gen.Depends(builder.Name, linkOut)
	b.Gen.Depends(app.Name, linkOut)
	return nil
}

// emitModuleSources compiles every source file mod declares whose
// conditional guard (if any) is satisfied, returning the resulting
// object paths. Defines are resolved per module against the app's
// resolved module set and appended to that module's CFLAGS before any
// source is compiled (spec.md §4.6, invariant 4/5).
func (b *Builder) emitModuleSources(mod *registry.Module, moduleSet []*registry.Module, moduleNames map[string]bool, builder *registry.Context, appVars *values.VarMap, bindir string) ([]string, error) {
	moduleVars, err := values.MergeVarMaps(appVars, mod.Vars, values.MergeOptions{Override: true})
	if err != nil {
		return nil, err
	}
	table := map[string]string{"source_folder": mod.LocateSource("")}
	moduleVars = values.SubstituteVarMap(moduleVars, table)

	if defines := depsolve.GetDefines(mod, builder, moduleNames); len(defines) > 0 {
		definesVM := values.NewVarMap()
		definesVM.Set("CFLAGS", values.ListValue(defines...))
		moduleVars, err = values.MergeVarMaps(moduleVars, definesVM, values.MergeOptions{})
		if err != nil {
			return nil, err
		}
	}

	var objects []string
	for _, entry := range mod.Sources {
		if !conditionSatisfied(entry.CondNames, builder, moduleSet) {
			continue
		}
		for _, file := range entry.Files {
			out, err := b.emitOneSource(mod, file, builder, moduleVars, bindir)
			if err != nil {
				return nil, err
			}
			objects = append(objects, out)
			b.Gen.Depends(builder.Name, out)
		}
	}
	return objects, nil
}

func (b *Builder) emitOneSource(mod *registry.Module, file string, builder *registry.Context, moduleVars *values.VarMap, bindir string) (string, error) {
	ext := strings.TrimPrefix(path.Ext(file), ".")
	rule := b.Gen.RulesByExt[ext]
	if rule == nil {
		return "", lazeerrors.NewInvalidArgument("no rule registered for extension %q (module %q, file %q)", ext, mod.Name, file)
	}

	srcPath := mod.LocateSource(file)
	objRel := strings.TrimSuffix(srcPath, path.Ext(srcPath)) + "." + rule.OutExt
	outPath := path.Join(bindir, objRel)

	vars := ruleVars(rule, moduleVars)
	actual, err := b.Engine.Emit(rule, []string{outPath}, []string{srcPath}, vars)
	if err != nil {
		return "", err
	}
	return actual, nil
}

// ruleVars projects a VarMap cascade down to just the variable names a
// rule references, sigil-sorting each list value (spec.md §4.4).
func ruleVars(rule *registry.Rule, vars *values.VarMap) map[string][]string {
	out := map[string][]string{}
	for _, name := range rule.VarNames {
		v, ok := vars.Get(name)
		if !ok {
			continue
		}
		out[name] = values.SortBySigil(v.AsList())
	}
	return out
}

// conditionSatisfied reports whether every name in cond is either a
// context visible from builder or a module present in moduleSet
// (spec.md §4.6's conditional sources).
func conditionSatisfied(cond []string, builder *registry.Context, moduleSet []*registry.Module) bool {
	if len(cond) == 0 {
		return true
	}
	for _, name := range cond {
		if builder.Listed(map[string]bool{name: true}) {
			continue
		}
		found := false
		for _, m := range moduleSet {
			if m.Name == name {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (b *Builder) finalizePhonies() {
	names := make([]string, 0, len(b.Gen.Aggregations))
	for name := range b.Gen.Aggregations {
		names = append(names, name)
	}
	sort.Strings(names)

	var defaults []string
	for _, name := range names {
		inputs := b.Gen.Aggregations[name]
		if len(inputs) == 0 {
			continue
		}
		inputList := make([]string, 0, len(inputs))
		for in := range inputs {
			inputList = append(inputList, in)
		}
		b.Engine.Writer.Phony(name, inputList)
		if ctx, ok := b.Gen.Contexts[name]; ok && ctx.IsBuilder && ctx.Parent == nil {
			defaults = append(defaults, name)
		}
	}
	sort.Strings(defaults)
	if len(defaults) > 0 {
		b.Engine.Writer.Default(defaults...)
	}
}
