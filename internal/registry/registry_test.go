package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructAndPostParseWiresContextTree(t *testing.T) {
	g := NewGenerator()
	docs := []Doc{
		{Relpath: ".", Data: map[string]any{
			"context": []any{
				map[string]any{"name": "native"},
			},
			"builder": []any{
				map[string]any{"name": "arm", "parent": "native"},
			},
			"module": []any{
				map[string]any{"name": "core", "context": "native", "sources": []any{"core.c"}},
			},
			"app": []any{
				map[string]any{"name": "myapp", "context": "native", "depends": []any{"core"}},
			},
		}},
	}

	require.NoError(t, g.Construct(docs))
	require.NoError(t, g.PostParse(context.Background(), nil))

	arm := g.Contexts["arm"]
	require.NotNil(t, arm)
	require.NotNil(t, arm.Parent)
	assert.Equal(t, "native", arm.Parent.Name)

	native := g.Contexts["native"]
	assert.Contains(t, g.Aggregations["native"], "arm")

	module := native.GetModule("core")
	require.NotNil(t, module)
	assert.Equal(t, native, module.Context)

	require.Len(t, g.Apps, 1)
	assert.Equal(t, "myapp", g.Apps[0].Name)
}

func TestConstructRejectsUnknownParent(t *testing.T) {
	g := NewGenerator()
	docs := []Doc{
		{Relpath: ".", Data: map[string]any{
			"builder": []any{map[string]any{"name": "arm", "parent": "ghost"}},
		}},
	}
	require.NoError(t, g.Construct(docs))
	err := g.PostParse(context.Background(), nil)
	assert.Error(t, err)
}

func TestRuleExtractsVarNames(t *testing.T) {
	r := NewRule(map[string]any{
		"name": "cc",
		"cmd":  "${CC} ${CFLAGS} -c ${in} -o ${out}",
	}, ".")
	assert.Equal(t, []string{"CC", "CFLAGS"}, r.VarNames)
}

func TestRuleFormatAppliesVarOptions(t *testing.T) {
	r := NewRule(map[string]any{
		"name": "cc",
		"cmd":  "${CC} ${INCLUDES} -c ${in} -o ${out}",
		"var_options": map[string]any{
			"INCLUDES": map[string]any{"prefix": "-I", "joiner": " "},
		},
	}, ".")
	got := r.Format("INCLUDES", []string{"foo", "bar"})
	assert.Equal(t, "-Ifoo -Ibar", got)
}

func TestAppAllowedRespectsWhitelistAndBlacklist(t *testing.T) {
	native := &Context{Name: "native"}
	arm := &Context{Name: "arm", Parent: native}

	app := &App{Module: &Module{Name: "myapp"}, Whitelist: map[string]bool{"native": true}}
	assert.True(t, app.Allowed(arm))
	assert.True(t, app.Allowed(native))

	other := &Context{Name: "other"}
	assert.False(t, app.Allowed(other))

	blacklisted := &App{Module: &Module{Name: "myapp"}, Blacklist: map[string]bool{"arm": true}}
	assert.False(t, blacklisted.Allowed(arm))
}

func TestContextGetVarsCascades(t *testing.T) {
	parent := &Context{Name: "native", RawVars: map[string]any{"CFLAGS": []any{"-O2"}}}
	child := &Context{Name: "arm", Parent: parent, RawVars: map[string]any{"CFLAGS": []any{"-mthumb"}}}

	v, err := child.GetVars()
	require.NoError(t, err)
	cflags, ok := v.Get("CFLAGS")
	require.True(t, ok)
	assert.Equal(t, []string{"-O2", "-mthumb"}, cflags.Values)
}

func TestContextGetBindirSubstitutesParent(t *testing.T) {
	parent := &Context{Name: "native", BindirTemplate: "build"}
	child := &Context{Name: "arm", Parent: parent, BindirTemplate: "${bindir}/${name}"}
	assert.Equal(t, "build/arm", child.GetBindir())
}
