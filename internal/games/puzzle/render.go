package puzzle

import (
	"fmt"

	"github.com/CloudTigerx/BladeFighters-sub000/internal/core"
)

// Block runes by color. Normal blocks use uppercase, breakers lowercase so a
// monochrome terminal can still tell them apart; colored terminals get the
// block color on top.
var (
	normalRunes  = [NumColors]rune{'R', 'B', 'G', 'Y'}
	breakerRunes = [NumColors]rune{'r', 'b', 'g', 'y'}

	blockColors = [NumColors]core.Color{
		core.ColorBrightRed,
		core.ColorBrightBlue,
		core.ColorBrightGreen,
		core.ColorBrightYellow,
	}
)

const (
	garbageRune  = '▒'
	strikeRune   = '█'
	breakingRune = '*'
)

// BlockRune returns the display rune for a block tag.
func BlockRune(tag BlockTag) rune {
	switch tag.Kind {
	case KindBreaker:
		return breakerRunes[tag.Color%NumColors]
	case KindGarbage:
		return garbageRune
	case KindStrike:
		return strikeRune
	default:
		return normalRunes[tag.Color%NumColors]
	}
}

// BlockScreenColor returns the display color for a block tag.
func BlockScreenColor(tag BlockTag) core.Color {
	if tag.Kind == KindGarbage {
		return core.ColorGray
	}
	return blockColors[tag.Color%NumColors]
}

// DrawBoard renders a board snapshot into the screen buffer with its visible
// top-left corner at (ox, oy). Cells are drawn two runes wide so the board
// reads roughly square in a terminal. The frame includes a one-cell border.
func DrawBoard(dst *core.Screen, snap BoardSnapshot, ox, oy int) {
	cellW := 2
	frame := core.NewRect(ox, oy, snap.Width*cellW+2, snap.VisibleHeight+2)
	dst.DrawBox(frame)

	breaking := make(map[Point]bool, len(snap.Breaking))
	for _, p := range snap.Breaking {
		breaking[p] = true
	}

	setCell := func(x, y int, r rune, c core.Color) {
		vy := y - snap.HiddenRows
		if vy < 0 || vy >= snap.VisibleHeight {
			return
		}
		sx := ox + 1 + x*cellW
		sy := oy + 1 + vy
		dst.SetColored(sx, sy, r, c)
		dst.SetColored(sx+1, sy, r, c)
	}

	for _, c := range snap.Cells {
		tag := BlockTag{Color: c.Color, Kind: c.Kind}
		r := BlockRune(tag)
		col := BlockScreenColor(tag)
		if breaking[Point{c.X, c.Y}] {
			r = breakingRune
			col = core.ColorBrightWhite
		}
		setCell(c.X, c.Y, r, col)
	}

	if snap.Piece != nil {
		py := int(snap.Piece.VisualY + 0.5)
		setCell(snap.Piece.X, py, BlockRune(snap.Piece.Main), BlockScreenColor(snap.Piece.Main))
		dx, dy := snap.Piece.Orientation.Offset()
		setCell(snap.Piece.X+dx, py+dy, BlockRune(snap.Piece.Attached), BlockScreenColor(snap.Piece.Attached))
	}
}

// DrawSidebar renders score, chain and next-piece info next to a board.
func DrawSidebar(dst *core.Screen, snap BoardSnapshot, ox, oy int) {
	dst.DrawText(ox, oy, fmt.Sprintf("Score %d", snap.Stats.Score))
	dst.DrawText(ox, oy+1, fmt.Sprintf("Broken %d", snap.Stats.BlocksBroken))
	dst.DrawText(ox, oy+2, fmt.Sprintf("Chain x%d", snap.Stats.MaxChain))
	if snap.ChainCount > 1 {
		dst.DrawText(ox, oy+3, fmt.Sprintf("COMBO x%d", snap.ChainCount))
	}
	dst.DrawText(ox, oy+5, "Next")
	dst.Set(ox, oy+6, BlockRune(snap.NextAttached))
	dst.Set(ox, oy+7, BlockRune(snap.NextMain))
}
