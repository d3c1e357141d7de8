package registry

import (
	"path"
	"sort"
	"strings"

	"github.com/standardbeagle/laze/internal/values"
)

// SourceEntry is one `sources:` clause: either an unconditional file list
// or a conditional one guarded by a list of context/module names, all of
// which must be present for the files to be included (spec.md §4.6).
type SourceEntry struct {
	CondNames []string
	Files     []string
}

// DownloadSpec describes an external source a Module pulls in before
// build, reusing the import-acquisition machinery (SPEC_FULL.md §10.4).
type DownloadSpec struct {
	URL     string
	Version string
	Subdir  string
}

// Module is a named collection of sources, dependencies and variables
// bound to a Context (spec.md §3).
type Module struct {
	Name                   string
	Relpath                string
	ContextName            string
	Context                *Context
	Sources                []SourceEntry
	Depends                []string
	Uses                   []string
	Vars                   *values.VarMap
	RawGlobalVars          map[string]any
	RawExportVars          map[string]any
	Options                map[string]any
	Download               *DownloadSpec
	OverrideSourceLocation string

	nestedCache     map[nestedCacheKey][]*Module
	exportVarsCache map[*Context]*values.VarMap
}

type nestedCacheKey struct {
	ctx      *Context
	relation string
}

// NewModule constructs a Module from a raw `module:` declaration dict.
func NewModule(args map[string]any, relpath string) *Module {
	name, _ := args["name"].(string)
	contextName, _ := args["context"].(string)
	if contextName == "" {
		contextName = "default"
	}
	overrideLoc, _ := args["source_location"].(string)

	rawVars, _ := args["vars"].(map[string]any)
	rawGlobal, _ := args["global_vars"].(map[string]any)
	rawExport, _ := args["export_vars"].(map[string]any)
	options, _ := args["options"].(map[string]any)

	return &Module{
		Name:                   name,
		Relpath:                relpath,
		ContextName:            contextName,
		Sources:                parseSources(args["sources"]),
		Depends:                values.ListifyStrings(args["depends"]),
		Uses:                   values.ListifyStrings(args["uses"]),
		Vars:                   values.VarMapFromRaw(rawVars),
		RawGlobalVars:          rawGlobal,
		RawExportVars:          rawExport,
		Options:                options,
		Download:               parseDownload(args["download"]),
		OverrideSourceLocation: overrideLoc,
		nestedCache:            map[nestedCacheKey][]*Module{},
		exportVarsCache:        map[*Context]*values.VarMap{},
	}
}

func parseSources(raw any) []SourceEntry {
	switch v := raw.(type) {
	case nil:
		return nil
	case map[string]any:
		// conditional form: {"cond1 cond2": [files...], ...}, visited in
		// sorted key order so the emitted object list is stable.
		conds := make([]string, 0, len(v))
		for cond := range v {
			conds = append(conds, cond)
		}
		sort.Strings(conds)
		var entries []SourceEntry
		for _, cond := range conds {
			entries = append(entries, SourceEntry{
				CondNames: strings.Fields(cond),
				Files:     values.ListifyStrings(v[cond]),
			})
		}
		return entries
	default:
		return []SourceEntry{{Files: values.ListifyStrings(raw)}}
	}
}

func parseDownload(raw any) *DownloadSpec {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	url, _ := m["url"].(string)
	if git, ok := m["git"].(map[string]any); ok {
		url, _ = git["url"].(string)
		version, _ := git["commit"].(string)
		if version == "" {
			version, _ = git["version"].(string)
		}
		subdir, _ := git["subdir"].(string)
		return &DownloadSpec{URL: url, Version: version, Subdir: subdir}
	}
	version, _ := m["version"].(string)
	subdir, _ := m["subdir"].(string)
	return &DownloadSpec{URL: url, Version: version, Subdir: subdir}
}

// LocateSource resolves a source file against the module's relpath,
// honoring an explicit source_location override (spec.md §4.2).
func (m *Module) LocateSource(filename string) string {
	base := m.Relpath
	if m.OverrideSourceLocation != "" {
		base = m.OverrideSourceLocation
	}
	if filename == "" {
		return base
	}
	return path.Join(base, filename)
}

// UsesAll reports whether this module declared `uses: all`.
func (m *Module) UsesAll() bool {
	for _, u := range m.Uses {
		if u == "all" {
			return true
		}
	}
	return false
}

// CachedNested returns a memoized GetNested/GetDeps/GetUsed result for
// (ctx, relation), per spec.md §4.5's per-(module,context) memoization.
func (m *Module) CachedNested(ctx *Context, relation string) ([]*Module, bool) {
	v, ok := m.nestedCache[nestedCacheKey{ctx, relation}]
	return v, ok
}

func (m *Module) SetCachedNested(ctx *Context, relation string, mods []*Module) {
	m.nestedCache[nestedCacheKey{ctx, relation}] = mods
}

func (m *Module) CachedExportVars(ctx *Context) (*values.VarMap, bool) {
	v, ok := m.exportVarsCache[ctx]
	return v, ok
}

func (m *Module) SetCachedExportVars(ctx *Context, vars *values.VarMap) {
	m.exportVarsCache[ctx] = vars
}
