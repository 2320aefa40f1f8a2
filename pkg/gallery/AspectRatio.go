package gallery

import (
	"fmt"
	"math"
)

/*
Ratio is a named width:height proportion.
*/
type Ratio struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

var (
	Ratio1x1  = Ratio{Name: "1:1", Width: 1, Height: 1}
	Ratio5x4  = Ratio{Name: "5:4", Width: 5, Height: 4}
	Ratio4x3  = Ratio{Name: "4:3", Width: 4, Height: 3}
	Ratio3x2  = Ratio{Name: "3:2", Width: 3, Height: 2}
	Ratio16x9 = Ratio{Name: "16:9", Width: 16, Height: 9}
	Ratio4x5  = Ratio{Name: "4:5", Width: 4, Height: 5}
	Ratio3x4  = Ratio{Name: "3:4", Width: 3, Height: 4}
	Ratio2x3  = Ratio{Name: "2:3", Width: 2, Height: 3}
	Ratio9x16 = Ratio{Name: "9:16", Width: 9, Height: 16}

	StandardRatios = []Ratio{
		Ratio1x1,
		Ratio5x4,
		Ratio4x3,
		Ratio3x2,
		Ratio16x9,
		Ratio4x5,
		Ratio3x4,
		Ratio2x3,
		Ratio9x16,
	}

	DefaultRatio = Ratio3x2
)

func (r Ratio) Value() float64 {
	if r.Height == 0 {
		return 0
	}

	return float64(r.Width) / float64(r.Height)
}

func (r Ratio) CSS() string {
	return fmt.Sprintf("%d / %d", r.Width, r.Height)
}

func (r Ratio) IsPortrait() bool {
	return r.Height > r.Width
}

/*
NearestRatio snaps an arbitrary width/height to the closest standard ratio.
Distance is measured on a log scale so 3:2 and 2:3 are treated symmetrically.
*/
func NearestRatio(width, height int) Ratio {
	if width <= 0 || height <= 0 {
		return DefaultRatio
	}

	actual := float64(width) / float64(height)
	best := StandardRatios[0]
	bestDistance := math.Inf(1)

	for _, candidate := range StandardRatios {
		distance := math.Abs(math.Log(actual / candidate.Value()))

		if distance < bestDistance {
			best = candidate
			bestDistance = distance
		}
	}

	return best
}

/*
AspectSummary describes the dominant aspect ratio of a set of images.
Share is the fraction of measured images that fall in the dominant bucket.
OK is false when no image had usable dimensions, in which case Ratio is
DefaultRatio.
*/
type AspectSummary struct {
	Ratio    Ratio   `json:"ratio"`
	Share    float64 `json:"share"`
	Measured int     `json:"measured"`
	Total    int     `json:"total"`
	OK       bool    `json:"ok"`
}

/*
IsUniform reports whether every image was measured and at least threshold of
them share the dominant ratio.
*/
func (s AspectSummary) IsUniform(threshold float64) bool {
	return s.OK && s.Measured == s.Total && s.Share >= threshold
}

/*
DominantAspectRatio infers which standard aspect ratio most of the images use.
Images without dimensions are skipped. When two ratios are equally common, the
one that appears first in the slice wins.
*/
func DominantAspectRatio(items []Item) AspectSummary {
	counts := map[string]int{}
	firstSeen := []Ratio{}

	result := AspectSummary{
		Ratio: DefaultRatio,
		Total: len(items),
	}

	for _, item := range items {
		if !item.Measured() {
			continue
		}

		result.Measured++
		ratio := NearestRatio(item.Width, item.Height)

		if _, ok := counts[ratio.Name]; !ok {
			firstSeen = append(firstSeen, ratio)
		}

		counts[ratio.Name]++
	}

	if result.Measured == 0 {
		return result
	}

	bestCount := 0

	for _, ratio := range firstSeen {
		if counts[ratio.Name] > bestCount {
			bestCount = counts[ratio.Name]
			result.Ratio = ratio
		}
	}

	result.OK = true
	result.Share = float64(bestCount) / float64(result.Measured)
	return result
}
