package gallery

import "fmt"

var (
	ErrIndexOutOfRange = fmt.Errorf("position is out of range")
	ErrInvalidOrder    = fmt.Errorf("order must list every image exactly once")
)

/*
Resequence returns a copy of items with sequence numbers 1..n in slice order.
*/
func Resequence(items []Item) []Item {
	result := make([]Item, len(items))

	for index, item := range items {
		item.Sequence = index + 1
		result[index] = item
	}

	return result
}

/*
Move relocates the item at position from to position to, shifting the items
in between, like a drag-and-drop. Positions are zero based over the items in
sequence order.
*/
func Move(items []Item, from, to int) ([]Item, error) {
	if from < 0 || from >= len(items) || to < 0 || to >= len(items) {
		return nil, fmt.Errorf("%w: move %d to %d with %d images", ErrIndexOutOfRange, from, to, len(items))
	}

	ordered := SortBySequence(items)
	moving := ordered[from]

	result := make([]Item, 0, len(ordered))
	result = append(result, ordered[:from]...)
	result = append(result, ordered[from+1:]...)

	result = append(result[:to], append([]Item{moving}, result[to:]...)...)
	return Resequence(result), nil
}

/*
ApplyOrder reorders items to match ids, which must name every item exactly
once.
*/
func ApplyOrder(items []Item, ids []uint) ([]Item, error) {
	if len(ids) != len(items) {
		return nil, fmt.Errorf("%w: got %d ids for %d images", ErrInvalidOrder, len(ids), len(items))
	}

	byID := make(map[uint]Item, len(items))

	for _, item := range items {
		byID[item.ID] = item
	}

	result := make([]Item, 0, len(ids))
	seen := make(map[uint]bool, len(ids))

	for _, id := range ids {
		item, ok := byID[id]

		if !ok {
			return nil, fmt.Errorf("%w: unknown image %d", ErrInvalidOrder, id)
		}

		if seen[id] {
			return nil, fmt.Errorf("%w: image %d listed twice", ErrInvalidOrder, id)
		}

		seen[id] = true
		result = append(result, item)
	}

	return Resequence(result), nil
}
