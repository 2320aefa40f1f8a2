package gallery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNearestRatio(t *testing.T) {
	testCases := []struct {
		name     string
		width    int
		height   int
		expected Ratio
	}{
		{name: "35mm landscape", width: 6000, height: 4000, expected: Ratio3x2},
		{name: "35mm portrait", width: 4000, height: 6000, expected: Ratio2x3},
		{name: "micro four thirds", width: 5184, height: 3888, expected: Ratio4x3},
		{name: "video frame", width: 1920, height: 1080, expected: Ratio16x9},
		{name: "square crop", width: 2048, height: 2000, expected: Ratio1x1},
		{name: "instagram portrait", width: 1080, height: 1350, expected: Ratio4x5},
		{name: "unknown dimensions", width: 0, height: 0, expected: DefaultRatio},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NearestRatio(tc.width, tc.height))
		})
	}
}

func TestDominantAspectRatio(t *testing.T) {
	t.Run("no images", func(t *testing.T) {
		summary := DominantAspectRatio(nil)

		assert.False(t, summary.OK)
		assert.Equal(t, DefaultRatio, summary.Ratio)
		assert.Equal(t, 0, summary.Total)
	})

	t.Run("no measured images", func(t *testing.T) {
		summary := DominantAspectRatio([]Item{{ID: 1}, {ID: 2}})

		assert.False(t, summary.OK)
		assert.Equal(t, DefaultRatio, summary.Ratio)
		assert.Equal(t, 2, summary.Total)
		assert.Equal(t, 0, summary.Measured)
	})

	t.Run("majority wins", func(t *testing.T) {
		items := []Item{
			{ID: 1, Width: 4000, Height: 6000},
			{ID: 2, Width: 6000, Height: 4000},
			{ID: 3, Width: 4000, Height: 6000},
			{ID: 4, Width: 4000, Height: 6000},
			{ID: 5},
		}

		summary := DominantAspectRatio(items)

		assert.True(t, summary.OK)
		assert.Equal(t, Ratio2x3, summary.Ratio)
		assert.Equal(t, 4, summary.Measured)
		assert.Equal(t, 5, summary.Total)
		assert.InDelta(t, 0.75, summary.Share, 0.0001)
	})

	t.Run("ties go to the first ratio seen", func(t *testing.T) {
		items := []Item{
			{ID: 1, Width: 1920, Height: 1080},
			{ID: 2, Width: 1000, Height: 1000},
			{ID: 3, Width: 1000, Height: 1000},
			{ID: 4, Width: 1920, Height: 1080},
		}

		summary := DominantAspectRatio(items)

		assert.Equal(t, Ratio16x9, summary.Ratio)
		assert.InDelta(t, 0.5, summary.Share, 0.0001)
	})
}

func TestIsUniform(t *testing.T) {
	assert.True(t, AspectSummary{OK: true, Measured: 4, Total: 4, Share: 0.75}.IsUniform(0.75))
	assert.False(t, AspectSummary{OK: true, Measured: 3, Total: 4, Share: 1}.IsUniform(0.75))
	assert.False(t, AspectSummary{OK: true, Measured: 4, Total: 4, Share: 0.5}.IsUniform(0.75))
	assert.False(t, AspectSummary{OK: false}.IsUniform(0))
}
