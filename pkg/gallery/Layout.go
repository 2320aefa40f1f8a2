package gallery

/*
UniformThreshold is the share of images that must use the dominant aspect
ratio before the automatic layout picks a grid.
*/
const UniformThreshold = 0.75

/*
Cell is where one image lands. Top and Height are measured in multiples of a
column's width, so a 3:2 landscape image is 0.667 tall.
*/
type Cell struct {
	ItemID uint    `json:"itemId"`
	Index  int     `json:"index"`
	Column int     `json:"column"`
	Row    int     `json:"row"`
	Top    float64 `json:"top"`
	Height float64 `json:"height"`
}

type Arrangement struct {
	Requested     Layout        `json:"requested"`
	Layout        Layout        `json:"layout"`
	Columns       int           `json:"columns"`
	Aspect        AspectSummary `json:"aspect"`
	Cells         []Cell        `json:"cells"`
	ColumnHeights []float64     `json:"columnHeights"`
	Style         Style         `json:"style"`
}

/*
ResolveLayout turns LayoutAutomatic into a concrete layout. A grid is only
chosen when the images are uniform enough that cropping them to one ratio
loses little.
*/
func ResolveLayout(requested Layout, aspect AspectSummary) Layout {
	switch requested {
	case LayoutGrid, LayoutMasonry:
		return requested
	}

	if aspect.IsUniform(UniformThreshold) {
		return LayoutGrid
	}

	return LayoutMasonry
}

/*
Arrange places items according to settings. Items are laid out in sequence
order.
*/
func Arrange(items []Item, settings Settings) Arrangement {
	settings = settings.Normalize()
	ordered := SortBySequence(items)
	aspect := DominantAspectRatio(ordered)

	result := Arrangement{
		Requested:     settings.Layout,
		Layout:        ResolveLayout(settings.Layout, aspect),
		Columns:       settings.Columns,
		Aspect:        aspect,
		Cells:         make([]Cell, 0, len(ordered)),
		ColumnHeights: make([]float64, settings.Columns),
		Style:         settings.Style(aspect.Ratio),
	}

	if result.Layout == LayoutGrid {
		arrangeGrid(&result, ordered)
	} else {
		arrangeMasonry(&result, ordered)
	}

	return result
}

func arrangeGrid(result *Arrangement, items []Item) {
	cellHeight := 1 / result.Aspect.Ratio.Value()

	for index, item := range items {
		column := index % result.Columns
		row := index / result.Columns

		result.Cells = append(result.Cells, Cell{
			ItemID: item.ID,
			Index:  index,
			Column: column,
			Row:    row,
			Top:    float64(row) * cellHeight,
			Height: cellHeight,
		})

		result.ColumnHeights[column] = float64(row+1) * cellHeight
	}
}

/*
arrangeMasonry drops each item into the currently shortest column. Images
without dimensions are treated as having the dominant ratio.
*/
func arrangeMasonry(result *Arrangement, items []Item) {
	rows := make([]int, result.Columns)
	fallback := result.Aspect.Ratio.Value()

	for index, item := range items {
		ratio := fallback

		if item.Measured() {
			ratio = item.AspectRatio()
		}

		height := 1 / ratio
		column := shortestColumn(result.ColumnHeights)

		result.Cells = append(result.Cells, Cell{
			ItemID: item.ID,
			Index:  index,
			Column: column,
			Row:    rows[column],
			Top:    result.ColumnHeights[column],
			Height: height,
		})

		result.ColumnHeights[column] += height
		rows[column]++
	}
}

func shortestColumn(heights []float64) int {
	result := 0

	for index, height := range heights {
		if height < heights[result] {
			result = index
		}
	}

	return result
}

/*
ByColumn groups cells per column, each column top to bottom. Templates use
this to render masonry as flex columns.
*/
func (a Arrangement) ByColumn() [][]Cell {
	result := make([][]Cell, a.Columns)

	for index := range result {
		result[index] = []Cell{}
	}

	for _, cell := range a.Cells {
		result[cell.Column] = append(result[cell.Column], cell)
	}

	return result
}

/*
ByRow groups cells per row, left to right.
*/
func (a Arrangement) ByRow() [][]Cell {
	result := [][]Cell{}

	for _, cell := range a.Cells {
		for len(result) <= cell.Row {
			result = append(result, []Cell{})
		}

		result[cell.Row] = append(result[cell.Row], cell)
	}

	return result
}
