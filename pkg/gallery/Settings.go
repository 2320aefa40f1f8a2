/*
Package gallery arranges a shoot's images for display. It works purely on
in-memory image records: inferring the dominant aspect ratio, placing images
into masonry or grid layouts, and reordering images with dense sequence
numbers. Nothing in here touches the database or the network.
*/
package gallery

import (
	"fmt"
	"regexp"
	"strings"
)

type Layout string

const (
	LayoutAutomatic Layout = "automatic"
	LayoutMasonry   Layout = "masonry"
	LayoutGrid      Layout = "grid"
)

const (
	MaxSpacing         = 64
	MaxBorderRadius    = 48
	MaxBorderWidth     = 16
	MinColumns         = 1
	MaxColumns         = 6
	DefaultSpacing     = 8
	DefaultColumns     = 3
	DefaultBorderColor = "#ffffff"
)

var (
	ErrInvalidLayout      = fmt.Errorf("invalid gallery layout")
	ErrSpacingRange       = fmt.Errorf("spacing must be between 0 and %d", MaxSpacing)
	ErrBorderRadiusRange  = fmt.Errorf("border radius must be between 0 and %d", MaxBorderRadius)
	ErrBorderWidthRange   = fmt.Errorf("border width must be between 0 and %d", MaxBorderWidth)
	ErrInvalidBorderColor = fmt.Errorf("border color must be a hex color like #fff or #ffffff")
	ErrColumnsRange       = fmt.Errorf("columns must be between %d and %d", MinColumns, MaxColumns)

	hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

/*
Settings are the customizations an admin can make to a single gallery.
*/
type Settings struct {
	Layout       Layout `json:"layout"`
	Spacing      int    `json:"spacing"`
	BorderRadius int    `json:"borderRadius"`
	BorderWidth  int    `json:"borderWidth"`
	BorderColor  string `json:"borderColor"`
	Columns      int    `json:"columns"`
}

/*
Style holds ready-to-use CSS values for a gallery container and its images.
*/
type Style struct {
	Gap          string `json:"gap"`
	BorderRadius string `json:"borderRadius"`
	Border       string `json:"border"`
	AspectRatio  string `json:"aspectRatio"`
}

func DefaultSettings() Settings {
	return Settings{
		Layout:       LayoutAutomatic,
		Spacing:      DefaultSpacing,
		BorderRadius: 0,
		BorderWidth:  0,
		BorderColor:  DefaultBorderColor,
		Columns:      DefaultColumns,
	}
}

/*
ParseLayout converts user input into a Layout. Anything unrecognized becomes
LayoutAutomatic.
*/
func ParseLayout(value string) Layout {
	switch Layout(strings.ToLower(strings.TrimSpace(value))) {
	case LayoutMasonry:
		return LayoutMasonry
	case LayoutGrid:
		return LayoutGrid
	default:
		return LayoutAutomatic
	}
}

func (l Layout) IsValid() bool {
	return l == LayoutAutomatic || l == LayoutMasonry || l == LayoutGrid
}

/*
Normalize returns a copy of the settings with every value forced into its
allowed range.
*/
func (s Settings) Normalize() Settings {
	result := s

	result.Layout = ParseLayout(string(s.Layout))
	result.Spacing = clamp(s.Spacing, 0, MaxSpacing)
	result.BorderRadius = clamp(s.BorderRadius, 0, MaxBorderRadius)
	result.BorderWidth = clamp(s.BorderWidth, 0, MaxBorderWidth)

	if s.Columns == 0 {
		result.Columns = DefaultColumns
	} else {
		result.Columns = clamp(s.Columns, MinColumns, MaxColumns)
	}

	color := strings.TrimSpace(s.BorderColor)

	if !hexColorRegex.MatchString(color) {
		color = DefaultBorderColor
	}

	result.BorderColor = strings.ToLower(color)
	return result
}

/*
Validate reports the first setting that is out of range. Use this on input
coming from an admin so they hear about mistakes instead of having them
silently clamped.
*/
func (s Settings) Validate() error {
	if !s.Layout.IsValid() {
		return fmt.Errorf("%w: '%s'", ErrInvalidLayout, s.Layout)
	}

	if s.Spacing < 0 || s.Spacing > MaxSpacing {
		return ErrSpacingRange
	}

	if s.BorderRadius < 0 || s.BorderRadius > MaxBorderRadius {
		return ErrBorderRadiusRange
	}

	if s.BorderWidth < 0 || s.BorderWidth > MaxBorderWidth {
		return ErrBorderWidthRange
	}

	if !hexColorRegex.MatchString(s.BorderColor) {
		return ErrInvalidBorderColor
	}

	if s.Columns < MinColumns || s.Columns > MaxColumns {
		return ErrColumnsRange
	}

	return nil
}

/*
Style builds the CSS values for these settings. The aspect ratio is the one
grid cells are cropped to.
*/
func (s Settings) Style(ratio Ratio) Style {
	border := "none"

	if s.BorderWidth > 0 {
		border = fmt.Sprintf("%dpx solid %s", s.BorderWidth, s.BorderColor)
	}

	return Style{
		Gap:          fmt.Sprintf("%dpx", s.Spacing),
		BorderRadius: fmt.Sprintf("%dpx", s.BorderRadius),
		Border:       border,
		AspectRatio:  ratio.CSS(),
	}
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}
