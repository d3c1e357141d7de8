package registry

import (
	"github.com/standardbeagle/laze/internal/lazeerrors"
	"github.com/standardbeagle/laze/internal/values"
)

// Doc is one fully include/defaults/template-resolved document handed to
// the registry by the loader (C2). Data carries the raw top-level
// sections ("context", "builder", "rule", "module", "app").
type Doc struct {
	Relpath string
	Data    map[string]any
}

// declarationOrder fixes the order in which sections of a document are
// constructed: contexts and builders must exist before any module binds
// to one, rules before any source list references one by name.
var declarationOrder = []string{"context", "builder", "rule", "module", "app"}

// Construct walks each doc's sections in declarationOrder and builds the
// corresponding registry entities. It does not resolve cross-references
// (parent contexts, module-to-context binding) — that happens in
// PostParse, once every entity from every document has been registered.
func (g *Generator) Construct(docs []Doc) error {
	for _, doc := range docs {
		for _, kind := range declarationOrder {
			entries := values.Listify(doc.Data[kind])
			for _, raw := range entries {
				rawMap, ok := raw.(map[string]any)
				if !ok {
					return lazeerrors.NewInvalidArgument("%s entry at %s is not a mapping", kind, doc.Relpath)
				}
				if err := g.constructOne(kind, rawMap, doc.Relpath); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (g *Generator) constructOne(kind string, raw map[string]any, relpath string) error {
	switch kind {
	case "context":
		return g.registerContext(NewContext(raw, relpath, false))
	case "builder":
		return g.registerContext(NewContext(raw, relpath, true))
	case "rule":
		return g.registerRule(NewRule(raw, relpath))
	case "module":
		return g.registerModule(NewModule(raw, relpath))
	case "app":
		return g.registerApp(NewApp(raw, relpath))
	default:
		return lazeerrors.NewInvalidArgument("unknown top-level key %q at %s", kind, relpath)
	}
}
