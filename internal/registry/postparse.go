package registry

import (
	"context"

	"github.com/standardbeagle/laze/internal/lazeerrors"
)

// Downloader acquires an external source into a local path, letting
// PostParse trigger module-level `download:` fetches without importing
// internal/importfetch directly into this package's API surface.
type Downloader interface {
	Acquire(ctx context.Context, url, version, subdir string) (localPath string, err error)
}

// PostParse resolves every cross-reference left dangling by Construct:
// context parent links, module-to-context binding, and per-module
// download acquisition. It must run exactly once, after every document
// has been Construct-ed (spec.md §3's lifecycle).
func (g *Generator) PostParse(ctx context.Context, dl Downloader) error {
	if err := g.linkContexts(); err != nil {
		return err
	}
	if err := g.bindModules(); err != nil {
		return err
	}
	if dl != nil {
		if err := g.acquireDownloads(ctx, dl); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) linkContexts() error {
	for _, name := range g.ContextOrder {
		c := g.Contexts[name]
		if c.ParentName == "" {
			continue
		}
		parent, ok := g.Contexts[c.ParentName]
		if !ok {
			return lazeerrors.NewInvalidArgument("context %q declares unknown parent %q", c.Name, c.ParentName)
		}
		c.Parent = parent
		parent.Children = append(parent.Children, c)
		g.Depends(parent.Name, c.Name)
	}
	return nil
}

func (g *Generator) bindModules() error {
	for _, m := range g.Modules {
		ctx, ok := g.Contexts[m.ContextName]
		if !ok {
			return lazeerrors.NewInvalidArgument("module %q binds to unknown context %q", m.Name, m.ContextName)
		}
		if existing, dup := ctx.Modules[m.Name]; dup && existing != m {
			return lazeerrors.NewInvalidArgument("duplicate module %q in context %q", m.Name, ctx.Name)
		}
		ctx.Modules[m.Name] = m
		m.Context = ctx
	}
	return nil
}

func (g *Generator) acquireDownloads(ctx context.Context, dl Downloader) error {
	for _, m := range g.Modules {
		if m.Download == nil {
			continue
		}
		local, err := dl.Acquire(ctx, m.Download.URL, m.Download.Version, m.Download.Subdir)
		if err != nil {
			return lazeerrors.NewDownloadError(m.Download.URL, m.Name, err)
		}
		m.OverrideSourceLocation = local
	}
	return nil
}
