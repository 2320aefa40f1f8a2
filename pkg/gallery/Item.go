package gallery

import "sort"

/*
Item is the part of an image record the layout engine cares about.
*/
type Item struct {
	ID       uint `json:"id"`
	Width    int  `json:"width"`
	Height   int  `json:"height"`
	Sequence int  `json:"sequence"`
}

/*
Measured reports whether the item's pixel dimensions are known.
*/
func (i Item) Measured() bool {
	return i.Width > 0 && i.Height > 0
}

func (i Item) AspectRatio() float64 {
	if !i.Measured() {
		return 0
	}

	return float64(i.Width) / float64(i.Height)
}

/*
SortBySequence returns a copy of items ordered by sequence number. Items with
equal sequence numbers keep their relative order.
*/
func SortBySequence(items []Item) []Item {
	result := make([]Item, len(items))
	copy(result, items)

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Sequence < result[j].Sequence
	})

	return result
}
