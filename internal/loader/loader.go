// Package loader reads the YAML declaration tree rooted at a project's
// top-level laze file, inlining includes, applying defaults, expanding
// cartesian-product templates, and recursing into subdirs — resolving
// purely at the raw-document level, before anything becomes a registry
// entity (spec.md §3's Source Loader, §4.2).
package loader

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/standardbeagle/laze/internal/lazeerrors"
	"github.com/standardbeagle/laze/internal/registry"
	"github.com/standardbeagle/laze/internal/values"
)

// DeclFileName is the conventional file name laze looks for inside a
// subdir or an acquired import (spec.md's "hierarchical project
// description").
const DeclFileName = "laze.yml"

// metaKeys are the document keys the loader itself consumes; they never
// reach registry.Construct as a declaration kind.
var metaKeys = map[string]bool{
	"include": true, "defaults": true, "template": true,
	"subdirs": true, "import": true, "ignore": true,
}

// Downloader acquires a named external source (an `import:` entry) into
// a local directory, mirroring registry.Downloader so a single
// importfetch.Provider can satisfy both (SPEC_FULL.md §4.9).
type Downloader interface {
	Acquire(ctx context.Context, url, version, subdir string) (localPath string, err error)
}

// Loader walks the declaration tree starting at a root file.
type Loader struct {
	RootDir    string
	Downloader Downloader

	filesRead map[string]bool
	docs      []registry.Doc
	imports   map[string]string
}

// New constructs a Loader rooted at rootDir (the directory containing
// the project's top-level laze.yml).
func New(rootDir string, dl Downloader) *Loader {
	return &Loader{
		RootDir:    rootDir,
		Downloader: dl,
		filesRead:  map[string]bool{},
		imports:    map[string]string{},
	}
}

// Load parses rootFile and everything it transitively includes, defaults
// into, templates out, or recurses into via subdirs/import, returning the
// flattened list of documents ready for registry.Construct plus the set
// of absolute file paths consumed (spec.md's FilesRead bookkeeping).
func (l *Loader) Load(ctx context.Context, rootFile string) ([]registry.Doc, map[string]bool, error) {
	if err := l.loadFile(ctx, rootFile); err != nil {
		return nil, nil, err
	}
	return l.docs, l.filesRead, nil
}

// Imports returns the name -> local-path mapping of every acquired
// `import:` entry. No `$laze/<name>/...` source prefix is rewritten
// against it.
func (l *Loader) Imports() map[string]string { return l.imports }

func (l *Loader) loadFile(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return lazeerrors.NewParseError("cannot resolve path "+path, err)
	}
	if l.filesRead[abs] {
		return nil
	}
	l.filesRead[abs] = true

	raw, err := l.readDoc(abs)
	if err != nil {
		return err
	}
	if raw == nil {
		return nil
	}
	if ignore, _ := raw["ignore"].(bool); ignore {
		return nil
	}

	relpath, err := filepath.Rel(l.RootDir, filepath.Dir(abs))
	if err != nil {
		relpath = filepath.Dir(abs)
	}

	merged, err := l.applyIncludes(raw, filepath.Dir(abs))
	if err != nil {
		return err
	}

	merged = applyDefaults(merged)

	if err := validateEntries(merged); err != nil {
		return lazeerrors.NewParseError("in "+abs, err)
	}

	expanded, err := expandTemplate(merged)
	if err != nil {
		return err
	}

	for _, doc := range expanded {
		l.docs = append(l.docs, registry.Doc{Relpath: relpath, Data: doc})
	}

	if err := l.processImports(ctx, merged, filepath.Dir(abs)); err != nil {
		return err
	}
	return l.processSubdirs(ctx, merged, filepath.Dir(abs))
}

// readDoc reads and YAML-decodes a single file into a raw map, without
// resolving any meta keys.
func (l *Loader) readDoc(abs string) (map[string]any, error) {
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, lazeerrors.NewParseError("cannot read "+abs, err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, lazeerrors.NewParseError("cannot parse "+abs, err)
	}
	return doc, nil
}

// applyIncludes inlines every `include:` entry, each resolved relative to
// dir, and deep_merged so the including document's own keys win
// (spec.md §4.2). An included file declaring `template:` is rejected, to
// keep cartesian expansion anchored at exactly one document per file.
func (l *Loader) applyIncludes(doc map[string]any, dir string) (map[string]any, error) {
	incs := values.ListifyStrings(doc["include"])
	result := doc
	for _, inc := range incs {
		incPath := filepath.Join(dir, inc)
		incDoc, err := l.readDoc(incPath)
		if err != nil {
			return nil, err
		}
		l.filesRead[incPath] = true
		if _, hasTemplate := incDoc["template"]; hasTemplate {
			return nil, lazeerrors.NewParseError("include "+incPath+" may not declare template", nil)
		}
		merged, err := values.DeepMerge(incDoc, result, values.MergeOptions{Override: true, JoinLists: true})
		if err != nil {
			return nil, err
		}
		result = merged
	}
	return result, nil
}

// applyDefaults merges doc["defaults"] underneath every context/builder/
// rule/module/app entry declared in the same document, so explicit fields win
// (spec.md §4.2's "defaults" meta key).
func applyDefaults(doc map[string]any) map[string]any {
	defaults, ok := doc["defaults"].(map[string]any)
	if !ok {
		return doc
	}
	out := map[string]any{}
	for k, v := range doc {
		out[k] = v
	}
	for _, kind := range declarationOrder {
		entries := values.Listify(doc[kind])
		if entries == nil {
			continue
		}
		merged := make([]any, len(entries))
		for i, e := range entries {
			entryMap, ok := e.(map[string]any)
			if !ok {
				merged[i] = e
				continue
			}
			defaultsCopy, _ := values.DeepMerge(map[string]any{}, defaults, values.MergeOptions{Override: true})
			withDefaults, err := values.DeepMerge(defaultsCopy, entryMap, values.MergeOptions{Override: true, JoinLists: true})
			if err != nil {
				merged[i] = e
				continue
			}
			merged[i] = withDefaults
		}
		out[kind] = merged
	}
	return out
}

// processSubdirs recurses into every `subdirs:` entry, each resolved
// relative to dir and supporting doublestar glob patterns so a project
// can say `subdirs: ["modules/*"]` (SPEC_FULL.md §10.1).
func (l *Loader) processSubdirs(ctx context.Context, doc map[string]any, dir string) error {
	for _, pattern := range values.ListifyStrings(doc["subdirs"]) {
		matches, err := l.resolveSubdirPattern(dir, pattern)
		if err != nil {
			return err
		}
		for _, m := range matches {
			if err := l.loadFile(ctx, filepath.Join(m, DeclFileName)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (l *Loader) resolveSubdirPattern(dir, pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) || !containsGlobMeta(pattern) {
		return []string{filepath.Join(dir, pattern)}, nil
	}
	matches, err := doublestar.Glob(os.DirFS(dir), pattern)
	if err != nil {
		return nil, lazeerrors.NewParseError("invalid subdirs glob "+pattern, err)
	}
	sort.Strings(matches)
	abs := make([]string, len(matches))
	for i, m := range matches {
		abs[i] = filepath.Join(dir, m)
	}
	return abs, nil
}

func containsGlobMeta(pattern string) bool {
	for _, r := range pattern {
		switch r {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}

// processImports acquires every `import:` entry via the configured
// Downloader and recurses into the acquired directory's declaration
// file, recording the name -> local path mapping returned by Imports
// (SPEC_FULL.md §4.9, §10.4).
func (l *Loader) processImports(ctx context.Context, doc map[string]any, dir string) error {
	raw, ok := doc["import"].(map[string]any)
	if !ok || l.Downloader == nil {
		return nil
	}
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		spec, _ := raw[name].(map[string]any)
		url, _ := spec["url"].(string)
		version, _ := spec["version"].(string)
		subdir, _ := spec["subdir"].(string)
		local, err := l.Downloader.Acquire(ctx, url, version, subdir)
		if err != nil {
			return lazeerrors.NewDownloadError(url, name, err)
		}
		l.imports[name] = local
		if err := l.loadFile(ctx, filepath.Join(local, DeclFileName)); err != nil {
			return err
		}
	}
	_ = dir
	return nil
}
