package rules

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/laze/internal/ninja"
	"github.com/standardbeagle/laze/internal/registry"
)

func TestEmitRendersBuildStatement(t *testing.T) {
	w := ninja.NewWriter()
	e := NewEngine(w)
	rule := registry.NewRule(map[string]any{
		"name": "cc",
		"cmd":  "${CC} ${CFLAGS} -c ${in} -o ${out}",
	}, ".")

	out, err := e.Emit(rule, []string{"out/foo.o"}, []string{"foo.c"}, map[string][]string{
		"CC":     {"gcc"},
		"CFLAGS": {"-O2", "-Wall"},
	})
	require.NoError(t, err)
	assert.Equal(t, "out/foo.o", out)
	assert.Equal(t, 1, e.RuleNum)

	var buf bytes.Buffer
	require.NoError(t, w.WriteTo(&buf))
	rendered := buf.String()
	assert.Contains(t, rendered, "command = $CC $CFLAGS -c $in -o $out")
	assert.Contains(t, rendered, "CC = gcc")
	assert.Contains(t, rendered, "CFLAGS = -O2 -Wall")
}

func TestEmitDedupesIdenticalAction(t *testing.T) {
	w := ninja.NewWriter()
	e := NewEngine(w)
	rule := registry.NewRule(map[string]any{"name": "cc", "cmd": "cc ${in} ${out}"}, ".")

	first, err := e.Emit(rule, []string{"a.o"}, []string{"a.c"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "a.o", first)

	second, err := e.Emit(rule, []string{"a.o"}, []string{"a.c"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "a.o", second)
	assert.Equal(t, 1, e.RuleCached)
	assert.Equal(t, 1, e.RuleNum)
}

// TestEmitReturnsPriorOutputForDifferentRequestedPath covers the
// symlink-aliasing contract (spec.md §4.4, scenario 5): an identical
// action requested under a different output path is not re-emitted;
// the caller gets back the first output and is expected to alias it.
func TestEmitReturnsPriorOutputForDifferentRequestedPath(t *testing.T) {
	w := ninja.NewWriter()
	e := NewEngine(w)
	rule := registry.NewRule(map[string]any{"name": "LINK", "cmd": "link ${in} -o ${out}"}, ".")

	first, err := e.Emit(rule, []string{"build/native/x/x.elf"}, []string{"a.o", "b.o"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "build/native/x/x.elf", first)

	second, err := e.Emit(rule, []string{"build/native/y/y.elf"}, []string{"a.o", "b.o"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "build/native/x/x.elf", second)
	assert.Equal(t, 1, e.RuleNum)
	assert.Equal(t, 1, e.RuleCached)
}
