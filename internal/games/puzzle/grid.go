package puzzle

// Cell is one grid position. Landings counts opponent-piece landings since an
// attack block was placed here; it is meaningless for normal blocks.
type Cell struct {
	Tag      BlockTag
	Occupied bool
	Landings int
}

// Grid is the fixed-size board: width columns by totalHeight rows, stored
// row-major. Row 0 is the invisible overflow row; positions with y < 0 are
// above the grid and treated as valid for spawning.
type Grid struct {
	width       int
	totalHeight int
	hiddenRows  int
	cells       []Cell
}

// NewGrid creates an empty grid. totalHeight = visibleHeight + hiddenRows.
func NewGrid(width, visibleHeight, hiddenRows int) *Grid {
	g := &Grid{
		width:       width,
		totalHeight: visibleHeight + hiddenRows,
		hiddenRows:  hiddenRows,
	}
	g.cells = make([]Cell, g.width*g.totalHeight)
	return g
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// TotalHeight returns the number of rows including invisible overflow rows.
func (g *Grid) TotalHeight() int { return g.totalHeight }

// HiddenRows returns the number of invisible overflow rows at the top.
func (g *Grid) HiddenRows() int { return g.hiddenRows }

// VisibleHeight returns the number of rows shown to the player.
func (g *Grid) VisibleHeight() int { return g.totalHeight - g.hiddenRows }

func (g *Grid) idx(x, y int) int { return y*g.width + x }

// InBounds reports whether (x, y) addresses a real grid cell.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.totalHeight
}

// At returns the cell at (x, y), or a zero cell when out of bounds.
func (g *Grid) At(x, y int) Cell {
	if !g.InBounds(x, y) {
		return Cell{}
	}
	return g.cells[g.idx(x, y)]
}

// Occupied reports whether the cell at (x, y) holds a block.
func (g *Grid) Occupied(x, y int) bool {
	if !g.InBounds(x, y) {
		return false
	}
	return g.cells[g.idx(x, y)].Occupied
}

// Set places a block tag at (x, y). Out-of-bounds writes are ignored.
func (g *Grid) Set(x, y int, tag BlockTag) {
	if !g.InBounds(x, y) {
		return
	}
	g.cells[g.idx(x, y)] = Cell{Tag: tag, Occupied: true}
}

// setCell writes a full cell, preserving the landings counter across moves.
func (g *Grid) setCell(x, y int, c Cell) {
	if !g.InBounds(x, y) {
		return
	}
	g.cells[g.idx(x, y)] = c
}

// ClearCell empties the cell at (x, y).
func (g *Grid) ClearCell(x, y int) {
	if !g.InBounds(x, y) {
		return
	}
	g.cells[g.idx(x, y)] = Cell{}
}

// IsValid reports whether a piece cell may occupy (x, y): inside the board
// horizontally, not below the floor, and either above the grid or empty.
func (g *Grid) IsValid(x, y int) bool {
	if x < 0 || x >= g.width || y >= g.totalHeight {
		return false
	}
	if y < 0 {
		return true
	}
	return !g.cells[g.idx(x, y)].Occupied
}

// LowestEmptyRow returns the bottom-most empty row in column x, or false when
// the column is full.
func (g *Grid) LowestEmptyRow(x int) (int, bool) {
	for y := g.totalHeight - 1; y >= 0; y-- {
		if !g.Occupied(x, y) {
			return y, true
		}
	}
	return 0, false
}

// fallDistance returns how many rows the block at (x, y) can fall before
// hitting an obstruction or the floor. Cells named in skip are treated as
// empty, which lets cluster members be ignored during ungrouped gravity.
func (g *Grid) fallDistance(x, y int, skip map[Point]bool) int {
	dist := 0
	for ny := y + 1; ny < g.totalHeight; ny++ {
		if g.Occupied(x, ny) && !skip[Point{x, ny}] {
			break
		}
		dist++
	}
	return dist
}

// ApplyGravity drops every block straight down as far as it can go, one cell
// at a time with no grouping. The overflow rows are swept first so blocks
// docked at the spawn boundary clear out before the interior compacts.
// Returns whether any block moved.
func (g *Grid) ApplyGravity() bool {
	return g.applyGravityExcluding(nil)
}

func (g *Grid) applyGravityExcluding(skip map[Point]bool) bool {
	moved := false

	// Overflow rows first, top-down.
	for y := 0; y < g.hiddenRows; y++ {
		for x := 0; x < g.width; x++ {
			moved = g.dropCell(x, y, skip) || moved
		}
	}

	// Interior bottom-to-top so lower blocks settle before the ones above.
	for y := g.totalHeight - 2; y >= g.hiddenRows; y-- {
		for x := 0; x < g.width; x++ {
			moved = g.dropCell(x, y, skip) || moved
		}
	}
	return moved
}

func (g *Grid) dropCell(x, y int, skip map[Point]bool) bool {
	if !g.Occupied(x, y) || skip[Point{x, y}] {
		return false
	}
	dist := g.fallDistance(x, y, skip)
	if dist == 0 {
		return false
	}
	c := g.At(x, y)
	g.ClearCell(x, y)
	g.setCell(x, y+dist, c)
	return true
}

// IncrementLandings bumps the landings counter on every garbage and strike
// cell, converting cells that reached their threshold into normal blocks of
// the same color. Returns the number of converted cells.
func (g *Grid) IncrementLandings(garbageThreshold, strikeThreshold int) int {
	converted := 0
	for y := 0; y < g.totalHeight; y++ {
		for x := 0; x < g.width; x++ {
			c := g.cells[g.idx(x, y)]
			if !c.Occupied {
				continue
			}
			var threshold int
			switch c.Tag.Kind {
			case KindGarbage:
				threshold = garbageThreshold
			case KindStrike:
				threshold = strikeThreshold
			default:
				continue
			}
			c.Landings++
			if c.Landings >= threshold {
				c.Tag.Kind = KindNormal
				c.Landings = 0
				converted++
			}
			g.cells[g.idx(x, y)] = c
		}
	}
	return converted
}

// CountOccupied returns the number of occupied cells.
func (g *Grid) CountOccupied() int {
	n := 0
	for i := range g.cells {
		if g.cells[i].Occupied {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	clone := &Grid{
		width:       g.width,
		totalHeight: g.totalHeight,
		hiddenRows:  g.hiddenRows,
	}
	clone.cells = make([]Cell, len(g.cells))
	copy(clone.cells, g.cells)
	return clone
}
