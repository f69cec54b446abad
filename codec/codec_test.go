package codec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/hclust/dendrogram"
	"github.com/hupe1980/hclust/fcluster"
	"github.com/hupe1980/hclust/linkage"
)

func layout(t *testing.T) *dendrogram.Layout {
	t.Helper()
	tree, err := linkage.NewTree(3, linkage.Complete, []linkage.Merge{
		{Left: 0, Right: 1, Height: 0.1, Size: 2},
		{Left: 2, Right: 3, Height: 0.5, Size: 3},
	})
	require.NoError(t, err)
	l, err := dendrogram.Project(tree)
	require.NoError(t, err)
	return l
}

func TestByName(t *testing.T) {
	for _, name := range Names {
		c, ok := ByName(name)
		require.True(t, ok, name)
		assert.Equal(t, name, c.Name())
	}
	c, ok := ByName("YML")
	require.True(t, ok)
	assert.Equal(t, "yaml", c.Name())

	_, ok = ByName("msgpack")
	assert.False(t, ok)
}

func TestForPath(t *testing.T) {
	assert.Equal(t, "yaml", ForPath("out/dendrogram.yaml").Name())
	assert.Equal(t, "json", ForPath("dendrogram.json").Name())
	assert.Equal(t, "json", ForPath("dendrogram").Name())
}

func TestLayoutRoundTrip(t *testing.T) {
	want := layout(t)
	for _, name := range Names {
		c, _ := ByName(name)
		var got dendrogram.Layout
		require.NoError(t, c.Unmarshal(MustMarshal(c, want), &got), name)
		assert.Equal(t, *want, got, name)
	}
}

func TestYAMLFieldNames(t *testing.T) {
	out := string(MustMarshal(YAML{}, layout(t)))
	assert.Contains(t, out, "color_threshold:")
	assert.Contains(t, out, "left_x:")
}

func TestInfiniteThreshold(t *testing.T) {
	a := &fcluster.Assignment{Labels: []int{1, 2}, Threshold: math.Inf(-1)}

	_, err := JSON{}.Marshal(a)
	assert.Error(t, err)

	out, err := YAML{}.Marshal(a)
	require.NoError(t, err)
	assert.Contains(t, string(out), "-.inf")
}
