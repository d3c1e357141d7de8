package registry

import "github.com/standardbeagle/laze/internal/values"

// App is a Module that additionally triggers build-graph emission per
// builder it is reachable from (spec.md §3, §4.6). Whitelist/blacklist
// restrict which builder trees the app is emitted under; an empty
// whitelist means "all builders".
type App struct {
	*Module
	Whitelist      map[string]bool
	Blacklist      map[string]bool
	BindirTemplate string
}

// NewApp constructs an App from a raw `app:` declaration dict, reusing
// Module's field parsing for the embedded fields.
func NewApp(args map[string]any, relpath string) *App {
	mod := NewModule(args, relpath)

	whitelist := map[string]bool{}
	for _, n := range values.ListifyStrings(args["whitelist_contexts"]) {
		whitelist[n] = true
	}
	blacklist := map[string]bool{}
	for _, n := range values.ListifyStrings(args["blacklist_contexts"]) {
		blacklist[n] = true
	}
	bindir, _ := args["bindir"].(string)
	if bindir == "" {
		bindir = "${bindir}/${name}"
	}

	return &App{
		Module:         mod,
		Whitelist:      whitelist,
		Blacklist:      blacklist,
		BindirTemplate: bindir,
	}
}

// Allowed reports whether the app should be emitted under builder ctx,
// per spec.md invariant 6: blacklist wins over whitelist, an empty
// whitelist admits every builder.
func (a *App) Allowed(builder *Context) bool {
	if builder.Listed(a.Blacklist) {
		return false
	}
	if len(a.Whitelist) == 0 {
		return true
	}
	return builder.Listed(a.Whitelist)
}
