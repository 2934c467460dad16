package battle

import (
	"fmt"

	"github.com/CloudTigerx/BladeFighters-sub000/internal/core"
	"github.com/CloudTigerx/BladeFighters-sub000/internal/games/puzzle"
)

// Snapshot is one frame of a battle for rendering and network transmission.
type Snapshot struct {
	Board1 puzzle.BoardSnapshot
	Board2 puzzle.BoardSnapshot

	// Incoming attack pressure per side, in grid cells.
	Pending1 int
	Pending2 int

	Over   bool
	Winner core.PlayerID
}

// IsGameSnapshot marks Snapshot for the multiplayer snapshot protocol.
func (Snapshot) IsGameSnapshot() {}

// Snapshot captures both sides for one frame.
func (bt *Battle) Snapshot() Snapshot {
	return Snapshot{
		Board1:   bt.sides[0].board.Snapshot(),
		Board2:   bt.sides[1].board.Snapshot(),
		Pending1: bt.sides[0].queue.PendingCells(),
		Pending2: bt.sides[1].queue.PendingCells(),
		Over:     bt.over,
		Winner:   bt.winner,
	}
}

// snapshotOrigin centers the two-board layout on the screen and returns
// the top-left corner of Player1's board frame.
func snapshotOrigin(dst *core.Screen, snap Snapshot) (ox, oy int) {
	boardW := snap.Board1.Width*2 + 2
	total := boardW*2 + boardGap
	ox = (dst.Width() - total) / 2
	if ox < 0 {
		ox = 0
	}
	oy = (dst.Height() - snap.Board1.VisibleHeight - 3) / 2
	if oy < 1 {
		oy = 1
	}
	return ox, oy
}

// boardGap is the space between the two board frames, wide enough for the
// score column drawn between them.
const boardGap = 8

// DrawSnapshot renders one battle frame into dst: both boards, the score
// column, incoming-attack warnings, and the outcome banner once the battle
// is over. Shared by the local renderer and the online match viewer, which
// draws frames received from the server.
func DrawSnapshot(dst *core.Screen, snap Snapshot) {
	ox, oy := snapshotOrigin(dst, snap)
	boardW := snap.Board1.Width*2 + 2

	dst.DrawText(ox, oy-1, "PLAYER 1")
	dst.DrawText(ox+boardW+boardGap, oy-1, "PLAYER 2")
	puzzle.DrawBoard(dst, snap.Board1, ox, oy)
	puzzle.DrawBoard(dst, snap.Board2, ox+boardW+boardGap, oy)

	mid := ox + boardW + 1
	dst.DrawText(mid, oy+1, fmt.Sprintf("%5d", snap.Board1.Stats.Score))
	dst.DrawText(mid, oy+2, fmt.Sprintf("%5d", snap.Board2.Stats.Score))
	if snap.Pending1 > 0 {
		dst.DrawText(ox, oy+snap.Board1.VisibleHeight+2, fmt.Sprintf("!! %d incoming", snap.Pending1))
	}
	if snap.Pending2 > 0 {
		dst.DrawText(ox+boardW+boardGap, oy+snap.Board2.VisibleHeight+2, fmt.Sprintf("!! %d incoming", snap.Pending2))
	}

	if snap.Over {
		msg := "DRAW"
		switch snap.Winner {
		case core.Player1:
			msg = "PLAYER 1 WINS"
		case core.Player2:
			msg = "PLAYER 2 WINS"
		}
		dst.DrawTextCentered(oy+snap.Board1.VisibleHeight/2, msg)
	}
}
