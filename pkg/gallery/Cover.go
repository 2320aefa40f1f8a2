package gallery

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const DefaultCoverYPos = "50%"

/*
ResolveCover picks the cover image: the chosen one if it is still part of the
gallery, otherwise the first image in sequence order. Zero means there is
nothing to show.
*/
func ResolveCover(items []Item, coverID uint) uint {
	if len(items) == 0 {
		return 0
	}

	for _, item := range items {
		if item.ID == coverID && coverID != 0 {
			return coverID
		}
	}

	return SortBySequence(items)[0].ID
}

/*
NormalizeYPos turns a cover focal point into a CSS background-position-y
value. Accepts top, center, bottom, or a percentage from 0 to 100, with or
without the percent sign.
*/
func NormalizeYPos(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))

	switch value {
	case "top":
		return "0%"
	case "center", "":
		return DefaultCoverYPos
	case "bottom":
		return "100%"
	}

	number, err := strconv.ParseFloat(strings.TrimSuffix(value, "%"), 64)

	if err != nil || math.IsNaN(number) || math.IsInf(number, 0) || number < 0 || number > 100 {
		return DefaultCoverYPos
	}

	return fmt.Sprintf("%s%%", strconv.FormatFloat(number, 'f', -1, 64))
}
