package sidecar

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteArgsProducesStableKeyOrder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteArgs(dir, map[string]string{"zeta": "1", "alpha": "2"}))

	data, err := os.ReadFile(filepath.Join(dir, ArgsFileName))
	require.NoError(t, err)
	assert.Less(t,
		indexOf(t, string(data), "alpha"),
		indexOf(t, string(data), "zeta"),
	)
}

func TestWriteToolsRoundTrips(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteTools(dir, []ToolSpec{{Name: "gcc", Path: "/usr/bin/gcc"}}))

	data, err := os.ReadFile(filepath.Join(dir, ToolsFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name": "gcc"`)
}

func indexOf(t *testing.T, haystack, needle string) int {
	t.Helper()
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	t.Fatalf("%q not found in %q", needle, haystack)
	return -1
}
