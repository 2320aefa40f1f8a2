package gallery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(items []Item) []uint {
	result := []uint{}

	for _, item := range items {
		result = append(result, item.ID)
	}

	return result
}

func sequences(items []Item) []int {
	result := []int{}

	for _, item := range items {
		result = append(result, item.Sequence)
	}

	return result
}

func TestMove(t *testing.T) {
	items := []Item{{ID: 1, Sequence: 1}, {ID: 2, Sequence: 2}, {ID: 3, Sequence: 3}, {ID: 4, Sequence: 4}}

	testCases := []struct {
		name     string
		from     int
		to       int
		expected []uint
	}{
		{name: "drag forward", from: 0, to: 2, expected: []uint{2, 3, 1, 4}},
		{name: "drag backward", from: 3, to: 0, expected: []uint{4, 1, 2, 3}},
		{name: "drop in place", from: 1, to: 1, expected: []uint{1, 2, 3, 4}},
		{name: "drag to end", from: 1, to: 3, expected: []uint{1, 3, 4, 2}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := Move(items, tc.from, tc.to)

			require.NoError(t, err)
			assert.Equal(t, tc.expected, ids(result))
			assert.Equal(t, []int{1, 2, 3, 4}, sequences(result))
		})
	}

	assert.Equal(t, []uint{1, 2, 3, 4}, ids(items), "input must not be modified")
}

func TestMoveOutOfRange(t *testing.T) {
	items := []Item{{ID: 1, Sequence: 1}}

	_, err := Move(items, 0, 1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = Move(items, -1, 0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestApplyOrder(t *testing.T) {
	items := []Item{{ID: 5, Sequence: 1}, {ID: 6, Sequence: 2}, {ID: 7, Sequence: 7}}

	result, err := ApplyOrder(items, []uint{7, 5, 6})

	require.NoError(t, err)
	assert.Equal(t, []uint{7, 5, 6}, ids(result))
	assert.Equal(t, []int{1, 2, 3}, sequences(result))
}

func TestApplyOrderRejectsBadPermutations(t *testing.T) {
	items := []Item{{ID: 5}, {ID: 6}, {ID: 7}}

	testCases := []struct {
		name  string
		order []uint
	}{
		{name: "missing id", order: []uint{5, 6}},
		{name: "unknown id", order: []uint{5, 6, 8}},
		{name: "duplicate id", order: []uint{5, 5, 6}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ApplyOrder(items, tc.order)
			assert.ErrorIs(t, err, ErrInvalidOrder)
		})
	}
}

func TestResolveCover(t *testing.T) {
	items := []Item{{ID: 3, Sequence: 2}, {ID: 9, Sequence: 1}}

	assert.Equal(t, uint(3), ResolveCover(items, 3))
	assert.Equal(t, uint(9), ResolveCover(items, 42))
	assert.Equal(t, uint(9), ResolveCover(items, 0))
	assert.Equal(t, uint(0), ResolveCover(nil, 3))
}

func TestNormalizeYPos(t *testing.T) {
	testCases := map[string]string{
		"":       "50%",
		"top":    "0%",
		"Center": "50%",
		"bottom": "100%",
		"25":     "25%",
		"33.5%":  "33.5%",
		"150%":   "50%",
		"abc":    "50%",
		"NaN":    "50%",
		"nan%":   "50%",
		"inf":    "50%",
		"-Inf%":  "50%",
	}

	for input, expected := range testCases {
		assert.Equal(t, expected, NormalizeYPos(input), "input %q", input)
	}
}
