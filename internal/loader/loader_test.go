package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadInlinesIncludes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "common.yml"), "defaults:\n  vars:\n    CFLAGS: [-Wall]\n")
	writeFile(t, filepath.Join(dir, DeclFileName), "include: [common.yml]\nmodule:\n  name: core\n")

	l := New(dir, nil)
	docs, read, err := l.Load(context.Background(), filepath.Join(dir, DeclFileName))
	require.NoError(t, err)
	require.Len(t, docs, 1)

	modules, _ := docs[0].Data["module"].([]any)
	require.Len(t, modules, 1)
	moduleEntry := modules[0].(map[string]any)
	assert.Equal(t, "core", moduleEntry["name"])
	assert.Len(t, read, 2)
}

func TestLoadIgnoreSkipsFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, DeclFileName), "ignore: true\nmodule:\n  name: skip-me\n")

	l := New(dir, nil)
	docs, _, err := l.Load(context.Background(), filepath.Join(dir, DeclFileName))
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestLoadExpandsSubdirs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a", DeclFileName), "module:\n  name: a-mod\n")
	writeFile(t, filepath.Join(dir, "b", DeclFileName), "module:\n  name: b-mod\n")
	writeFile(t, filepath.Join(dir, DeclFileName), "subdirs: [a, b]\n")

	l := New(dir, nil)
	docs, _, err := l.Load(context.Background(), filepath.Join(dir, DeclFileName))
	require.NoError(t, err)
	require.Len(t, docs, 3)
}

func TestLoadExpandsTemplateAxes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, DeclFileName), ""+
		"template:\n  ARCH: [arm, x86]\n"+
		"module:\n  name: core-%ARCH%\n")

	l := New(dir, nil)
	docs, _, err := l.Load(context.Background(), filepath.Join(dir, DeclFileName))
	require.NoError(t, err)
	require.Len(t, docs, 2)

	var names []string
	for _, d := range docs {
		m := d.Data["module"].(map[string]any)
		names = append(names, m["name"].(string))
	}
	assert.ElementsMatch(t, []string{"core-arm", "core-x86"}, names)
}

func TestLoadMissingFileReturnsParseError(t *testing.T) {
	dir := t.TempDir()
	l := New(dir, nil)
	_, _, err := l.Load(context.Background(), filepath.Join(dir, "nope.yml"))
	assert.Error(t, err)
}

func TestLoadRejectsUnknownDeclarationField(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, DeclFileName), "module:\n  name: core\n  typo_field: oops\n")

	l := New(dir, nil)
	_, _, err := l.Load(context.Background(), filepath.Join(dir, DeclFileName))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "typo_field")
}

func TestLoadRejectsWrongFieldType(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, DeclFileName), "rule:\n  name: cc\n  cmd: [not, a, string]\n")

	l := New(dir, nil)
	_, _, err := l.Load(context.Background(), filepath.Join(dir, DeclFileName))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cmd")
}
