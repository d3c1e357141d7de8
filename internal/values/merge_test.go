package values

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeepMergeListUnion(t *testing.T) {
	a := map[string]any{"CFLAGS": []any{"-O2"}}
	b := map[string]any{"CFLAGS": []any{"-Os"}}

	merged, err := DeepMerge(a, b, MergeOptions{})
	require.NoError(t, err)

	assert.Equal(t, []any{"-O2", "-Os"}, merged["CFLAGS"])
}

func TestDeepMergeChangeListOrder(t *testing.T) {
	a := map[string]any{"CFLAGS": []any{"-O2"}}
	b := map[string]any{"CFLAGS": []any{"-Os"}}

	merged, err := DeepMerge(a, b, MergeOptions{ChangeListOrder: true})
	require.NoError(t, err)

	assert.Equal(t, []any{"-Os", "-O2"}, merged["CFLAGS"])
}

func TestDeepMergeConflictWithoutOverride(t *testing.T) {
	a := map[string]any{"name": "foo"}
	b := map[string]any{"name": "bar"}

	_, err := DeepMerge(a, b, MergeOptions{})
	require.Error(t, err)

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "name", conflict.Path)
}

func TestDeepMergeOverrideAdoptsRight(t *testing.T) {
	a := map[string]any{"name": "foo"}
	b := map[string]any{"name": "bar"}

	merged, err := DeepMerge(a, b, MergeOptions{Override: true})
	require.NoError(t, err)
	assert.Equal(t, "bar", merged["name"])
}

func TestDeepMergeNilLeftAdoptsRight(t *testing.T) {
	a := map[string]any{"bindir": nil}
	b := map[string]any{"bindir": "build"}

	merged, err := DeepMerge(a, b, MergeOptions{})
	require.NoError(t, err)
	assert.Equal(t, "build", merged["bindir"])
}

func TestDeepMergeJoinLists(t *testing.T) {
	a := map[string]any{"sources": "main.c"}
	b := map[string]any{"sources": []any{"util.c"}}

	merged, err := DeepMerge(a, b, MergeOptions{JoinLists: true})
	require.NoError(t, err)
	assert.Equal(t, []any{"main.c", "util.c"}, merged["sources"])
}

func TestDeepMergeOnlyExistingDropsNewKeys(t *testing.T) {
	a := map[string]any{"name": "foo"}
	b := map[string]any{"extra": "bar"}

	merged, err := DeepMerge(a, b, MergeOptions{OnlyExisting: true})
	require.NoError(t, err)
	_, present := merged["extra"]
	assert.False(t, present)
}

func TestDeepMergeNestedDicts(t *testing.T) {
	a := map[string]any{"vars": map[string]any{"CFLAGS": []any{"-O2"}}}
	b := map[string]any{"vars": map[string]any{"LDFLAGS": []any{"-lm"}}}

	merged, err := DeepMerge(a, b, MergeOptions{})
	require.NoError(t, err)

	vars := merged["vars"].(map[string]any)
	assert.Equal(t, []any{"-O2"}, vars["CFLAGS"])
	assert.Equal(t, []any{"-lm"}, vars["LDFLAGS"])
}

func TestStripRemoveMarkers(t *testing.T) {
	out := StripRemoveMarkers([]string{"a", "b", "-b", "c"})
	assert.Equal(t, []string{"a", "c"}, out)
}

func TestSortBySigil(t *testing.T) {
	out := SortBySigil([]string{"-lm", "<first", ">last", "\\<literal"})
	assert.Equal(t, []string{"first", "-lm", "<literal", "last"}, out)
}

func TestUniquifyPreservesOrder(t *testing.T) {
	out := Uniquify([]string{"a", "b", "a", "c", "b"})
	assert.Equal(t, []string{"a", "b", "c"}, out)
}

func TestDictListProduct(t *testing.T) {
	combos := DictListProduct(map[string][]string{
		"BOARD": {"a", "b"},
	})
	require.Len(t, combos, 2)
	assert.Equal(t, "a", combos[0]["BOARD"])
	assert.Equal(t, "b", combos[1]["BOARD"])
}

func TestDeepReplace(t *testing.T) {
	obj := map[string]any{"name": "module-BOARD", "list": []any{"src/BOARD.c"}}
	out := DeepReplace(obj, map[string]string{"BOARD": "nrf52"})

	m := out.(map[string]any)
	assert.Equal(t, "module-nrf52", m["name"])
	assert.Equal(t, []any{"src/nrf52.c"}, m["list"])
}
