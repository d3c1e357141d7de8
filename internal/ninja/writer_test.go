package ninja

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteToRendersRuleAndBuild(t *testing.T) {
	w := NewWriter()
	require.NoError(t, w.Rule("cc", "gcc -c $in -o $out", "gcc", ""))
	w.Build(Build{Outputs: []string{"out/foo.o"}, Rule: "cc", Inputs: []string{"foo.c"}})
	w.Default("out/foo.o")

	var buf bytes.Buffer
	require.NoError(t, w.WriteTo(&buf))

	out := buf.String()
	assert.Contains(t, out, "rule cc\n  command = gcc -c $in -o $out\n  deps = gcc\n")
	assert.Contains(t, out, "build out/foo.o: cc foo.c\n")
	assert.Contains(t, out, "default out/foo.o\n")
}

func TestRuleConflictingRedefinitionErrors(t *testing.T) {
	w := NewWriter()
	require.NoError(t, w.Rule("cc", "gcc $in $out", "", ""))
	err := w.Rule("cc", "clang $in $out", "", "")
	assert.Error(t, err)
}

func TestRuleIdenticalRedefinitionIsNoop(t *testing.T) {
	w := NewWriter()
	require.NoError(t, w.Rule("cc", "gcc $in $out", "", ""))
	require.NoError(t, w.Rule("cc", "gcc $in $out", "", ""))
	assert.Len(t, w.rules, 1)
}

func TestEscapeHandlesSpacesColonsAndDollars(t *testing.T) {
	assert.Equal(t, `foo\ bar`, escape("foo bar"))
	assert.Equal(t, `C\:/foo`, escape("C:/foo"))
	assert.Equal(t, "$$ORIGIN", escape("$ORIGIN"))
}

func TestPhonySortsInputs(t *testing.T) {
	w := NewWriter()
	w.Phony("all", []string{"b", "a", "c"})

	var buf bytes.Buffer
	require.NoError(t, w.WriteTo(&buf))
	assert.Contains(t, buf.String(), "build all: phony a b c\n")
}
