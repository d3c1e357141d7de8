package registry

import (
	"os"
	"path"
	"strings"

	"github.com/standardbeagle/laze/internal/values"
)

// Context is a named configuration node carrying variables and module
// registrations, arranged in a tree (spec.md §3). A Builder is a Context
// flagged IsBuilder, per spec.md §9's design note ("Builder is a flag on
// Context").
type Context struct {
	Name       string
	IsBuilder  bool
	Relpath    string
	ParentName string
	Parent     *Context
	Children   []*Context

	RawVars         map[string]any
	BindirTemplate  string
	DisabledModules map[string]bool
	Modules         map[string]*Module

	vars        *values.VarMap
	bindirCache string
}

// NewContext constructs a Context (or Builder, when isBuilder is true)
// from a raw declaration dict.
func NewContext(args map[string]any, relpath string, isBuilder bool) *Context {
	name, _ := args["name"].(string)

	defaultBindir := "build/${name}"
	if _, hasParent := args["parent"]; hasParent {
		defaultBindir = "${bindir}/${name}"
	}
	bindir, _ := args["bindir"].(string)
	if bindir == "" {
		bindir = defaultBindir
	}

	rawVars, _ := args["vars"].(map[string]any)

	disabled := map[string]bool{}
	for _, name := range values.ListifyStrings(args["disable_modules"]) {
		disabled[name] = true
	}

	parentName, _ := args["parent"].(string)

	return &Context{
		Name:            name,
		IsBuilder:       isBuilder,
		Relpath:         relpath,
		ParentName:      parentName,
		RawVars:         rawVars,
		BindirTemplate:  bindir,
		DisabledModules: disabled,
		Modules:         map[string]*Module{},
	}
}

// GetModule walks up the parent chain looking for name, treating a
// disabled module name as absent (spec.md §4.5).
func (c *Context) GetModule(name string) *Module {
	if c.DisabledModules[name] {
		return nil
	}
	if m, ok := c.Modules[name]; ok {
		return m
	}
	if c.Parent != nil {
		return c.Parent.GetModule(name)
	}
	return nil
}

// GetVars cascades variables down the parent chain: child overrides
// parent, lists uniquify (spec.md §4 scenario 6). Memoized per Context.
func (c *Context) GetVars() (*values.VarMap, error) {
	if c.vars != nil {
		return c.vars, nil
	}
	own := values.VarMapFromRaw(c.RawVars)
	if c.Parent == nil {
		c.vars = own
		return c.vars, nil
	}
	parentVars, err := c.Parent.GetVars()
	if err != nil {
		return nil, err
	}
	merged, err := values.MergeVarMaps(parentVars, own, values.MergeOptions{Override: true})
	if err != nil {
		return nil, err
	}
	c.vars = merged
	return c.vars, nil
}

// GetBindir resolves ${name}/${parent}/${bindir} placeholders against this
// Context's own name and its parent's resolved bindir (spec.md §3).
func (c *Context) GetBindir() string {
	if c.bindirCache != "" {
		return c.bindirCache
	}
	c.bindirCache = SubstituteBindir(c.BindirTemplate, c.Name, c.Parent)
	return c.bindirCache
}

// SubstituteBindir resolves ${name}/${parent}/${bindir} placeholders in a
// bindir template against name and parent (parent may be nil at the
// tree root). Shared by Context.GetBindir and the per-app bindir
// resolution in the App Builder (spec.md §3, §4.6).
func SubstituteBindir(tmpl, name string, parent *Context) string {
	if !strings.Contains(tmpl, "$") {
		return tmpl
	}
	table := map[string]string{"name": name}
	if parent != nil {
		table["parent"] = parent.Name
		table["bindir"] = parent.GetBindir()
	}
	return os.Expand(tmpl, func(key string) string { return table[key] })
}

// GetFilepath joins GetBindir() with filename, matching the original
// Context.get_filepath.
func (c *Context) GetFilepath(filename string) string {
	if filename == "" {
		return c.GetBindir()
	}
	return path.Join(c.GetBindir(), filename)
}

// Listed reports whether this Context or any ancestor's name is in set,
// used for App whitelist/blacklist evaluation (spec.md §4.6, invariant 6).
func (c *Context) Listed(set map[string]bool) bool {
	if set[c.Name] {
		return true
	}
	if c.Parent != nil {
		return c.Parent.Listed(set)
	}
	return false
}

// NewEphemeralContext builds a per-(app,builder) Context with
// parent=builder and a fresh variable map (spec.md §4.6). The App Builder
// (C6) does not call it; it cascades variables directly on VarMaps.
func NewEphemeralContext(name string, parent *Context, rawVars map[string]any, bindirTemplate string) *Context {
	return &Context{
		Name:            name,
		Parent:          parent,
		RawVars:         rawVars,
		BindirTemplate:  bindirTemplate,
		DisabledModules: map[string]bool{},
		Modules:         map[string]*Module{},
	}
}
