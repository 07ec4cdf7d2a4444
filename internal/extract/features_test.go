package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFeatureSetSortsAndDedupes(t *testing.T) {
	t.Parallel()

	set := NewFeatureSet("full", "derive", "full")
	assert.Equal(t, FeatureSet{"derive", "full"}, set)
	assert.True(t, set.Contains("derive"))
	assert.False(t, set.Contains("printing"))
}

func TestMergeAbsorbsEmpty(t *testing.T) {
	t.Parallel()

	full := NewFeatureSet("full")

	merged, err := Merge(nil, full)
	require.NoError(t, err)
	assert.Equal(t, full, merged)

	merged, err = Merge(full, nil)
	require.NoError(t, err)
	assert.Equal(t, full, merged)
}

func TestMergeKeepsSmallerSubset(t *testing.T) {
	t.Parallel()

	wide := NewFeatureSet("derive", "full")
	narrow := NewFeatureSet("full")

	merged, err := Merge(wide, narrow)
	require.NoError(t, err)
	assert.Equal(t, narrow, merged)

	merged, err = Merge(narrow, wide)
	require.NoError(t, err)
	assert.Equal(t, narrow, merged)
}

func TestMergeEqualSets(t *testing.T) {
	t.Parallel()

	merged, err := Merge(NewFeatureSet("full"), NewFeatureSet("full"))
	require.NoError(t, err)
	assert.Equal(t, NewFeatureSet("full"), merged)
}

func TestMergeIncomparableSetsFails(t *testing.T) {
	t.Parallel()

	_, err := Merge(NewFeatureSet("derive", "printing"), NewFeatureSet("full", "printing"))
	require.ErrorIs(t, err, ErrInvariant)
}

func TestResolveFoldsAllSets(t *testing.T) {
	t.Parallel()

	resolved, err := Resolve([]FeatureSet{
		nil,
		NewFeatureSet("derive", "full"),
		NewFeatureSet("full"),
	})
	require.NoError(t, err)
	assert.Equal(t, NewFeatureSet("full"), resolved)
}

func TestResolveEmptyStaysUnconditional(t *testing.T) {
	t.Parallel()

	resolved, err := Resolve(nil)
	require.NoError(t, err)
	assert.True(t, resolved.Empty())
}

func TestParseCfgSingleFeature(t *testing.T) {
	t.Parallel()

	set, err := ParseCfg(`(feature = "full")`)
	require.NoError(t, err)
	assert.Equal(t, NewFeatureSet("full"), set)
}

func TestParseCfgAnyDisjunction(t *testing.T) {
	t.Parallel()

	set, err := ParseCfg(`(any(feature = "derive", feature = "full"))`)
	require.NoError(t, err)
	assert.Equal(t, NewFeatureSet("derive", "full"), set)
}

func TestParseCfgRejectsOtherPredicates(t *testing.T) {
	t.Parallel()

	cases := []string{
		`(test)`,
		`(all(feature = "full"))`,
		`(not(feature = "full"))`,
		`(any())`,
		`(feature = full)`,
	}

	for _, args := range cases {
		_, err := ParseCfg(args)
		assert.ErrorIs(t, err, ErrInvariant, "args: %s", args)
	}
}
