package puzzle

// CellSnapshot is one occupied cell in a frame-coherent board snapshot.
type CellSnapshot struct {
	X, Y     int
	Color    BlockColor
	Kind     BlockKind
	Landings int
}

// PieceSnapshot is the falling piece's visual state. VisualY carries the
// fractional fall progress for smooth rendering.
type PieceSnapshot struct {
	X           int
	Y           int
	VisualY     float64
	Main        BlockTag
	Attached    BlockTag
	Orientation Orientation
}

// BoardSnapshot is everything the rendering layer needs for one frame.
// It copies state; the renderer never touches live simulation data.
type BoardSnapshot struct {
	Width         int
	VisibleHeight int
	HiddenRows    int

	Cells []CellSnapshot
	Piece *PieceSnapshot

	ChainPhase ChainPhase
	ChainCount int
	Breaking   []Point

	NextMain     BlockTag
	NextAttached BlockTag

	Stats    Stats
	GameOver bool
}

// Snapshot captures the board state for rendering.
func (b *Board) Snapshot() BoardSnapshot {
	snap := BoardSnapshot{
		Width:         b.grid.Width(),
		VisibleHeight: b.grid.VisibleHeight(),
		HiddenRows:    b.grid.HiddenRows(),
		ChainPhase:    b.chain.Phase(),
		ChainCount:    b.chain.ChainCount(),
		Breaking:      b.chain.BreakingCells(),
		NextMain:      b.next[0],
		NextAttached:  b.next[1],
		Stats:         b.stats,
		GameOver:      b.gameOver,
	}
	for y := 0; y < b.grid.TotalHeight(); y++ {
		for x := 0; x < b.grid.Width(); x++ {
			c := b.grid.At(x, y)
			if !c.Occupied {
				continue
			}
			snap.Cells = append(snap.Cells, CellSnapshot{
				X: x, Y: y,
				Color:    c.Tag.Color,
				Kind:     c.Tag.Kind,
				Landings: c.Landings,
			})
		}
	}
	if b.piece != nil {
		snap.Piece = &PieceSnapshot{
			X:           b.piece.X,
			Y:           b.piece.Y,
			VisualY:     b.piece.VisualY(),
			Main:        b.piece.Main,
			Attached:    b.piece.Attached,
			Orientation: b.piece.Orient,
		}
	}
	return snap
}
