package render

import (
	"bytes"
	"image/png"
	"math"
	"testing"

	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/explain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func attributionSet() *explain.AttributionSet {
	return &explain.AttributionSet{
		Method:   explain.MethodTree,
		Features: []string{"cbo", "wmc", "lcom*", "loc"},
		Values:   [][]float64{{0.4, -1.2, 0, 2}, {-0.3, 0.8, 0.1, 1.5}, {0.2, 0.1, -0.2, -0.5}},
		Data:     [][]float64{{1, 10, 0.5, 100}, {2, 20, math.NaN(), 250}, {3, 5, 0.7, 40}},
		Base:     12,
	}
}

func assertPNG(t *testing.T, f *Figure, name string) {
	t.Helper()
	assert.Equal(t, name, f.Name)
	assert.Equal(t, name+".png", f.FileName)
	assert.Equal(t, ContentTypePNG, f.ContentType)
	img, err := png.Decode(bytes.NewReader(f.Bytes))
	require.NoError(t, err)
	assert.Greater(t, img.Bounds().Dx(), 0)
}

func TestBeeswarm(t *testing.T) {
	set := attributionSet()

	tests := []struct {
		name       string
		maxDisplay int
	}{
		{name: "Test 1: every feature", maxDisplay: 10},
		{name: "Test 2: folded tail", maxDisplay: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Beeswarm(explain.Summarize(set, tt.maxDisplay))
			require.NoError(t, err)
			assertPNG(t, f, SummaryName)
		})
	}

	_, err := Beeswarm(&explain.Summary{})
	assert.Error(t, err)
}

func TestWaterfall(t *testing.T) {
	set := attributionSet()

	for _, row := range []int{0, 1} {
		f, err := Waterfall(explain.DetailRow(set, row, 3))
		require.NoError(t, err)
		assertPNG(t, f, DetailName)
	}

	_, err := Waterfall(&explain.Detail{})
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	got := normalize([]float64{2, 4, math.NaN(), 3}, 4)
	assert.Equal(t, 0.0, got[0])
	assert.Equal(t, 1.0, got[1])
	assert.True(t, math.IsNaN(got[2]))
	assert.Equal(t, 0.5, got[3])

	assert.Equal(t, []float64{0.5, 0.5}, normalize([]float64{7, 7}, 2))
	assert.True(t, math.IsNaN(normalize(nil, 1)[0]))
}

func TestBlend(t *testing.T) {
	assert.Equal(t, negative, blend(0))
	assert.Equal(t, positive, blend(1))
	assert.Equal(t, neutral, blend(math.NaN()))
	assert.Equal(t, positive, blend(3))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "cbo = 3 (+0.5)", label(explain.Contribution{Feature: "cbo", Value: "3", Attribution: 0.5}))
	assert.Equal(t, "2 other features (-1.25)", label(explain.Contribution{Feature: "2 other features", Attribution: -1.25, Folded: 2}))
}
