package puzzle

import "time"

// Orientation places the attached block relative to the main block.
type Orientation uint8

const (
	OrientTop Orientation = iota
	OrientRight
	OrientBottom
	OrientLeft
)

// Offset returns the grid offset from main to attached for this orientation.
func (o Orientation) Offset() (int, int) {
	switch o {
	case OrientTop:
		return 0, -1
	case OrientRight:
		return 1, 0
	case OrientBottom:
		return 0, 1
	default:
		return -1, 0
	}
}

// String returns a human-readable name for the orientation.
func (o Orientation) String() string {
	switch o {
	case OrientTop:
		return "top"
	case OrientRight:
		return "right"
	case OrientBottom:
		return "bottom"
	default:
		return "left"
	}
}

// FallingPiece is the player-controlled pair: a main block at an integer grid
// position with fractional fall progress, and an attached block at one of the
// four orthogonal neighbors. Y may be negative while the piece is still above
// the grid.
type FallingPiece struct {
	X, Y     int
	SubPos   float64
	Main     BlockTag
	Attached BlockTag
	Orient   Orientation
}

// AttachedCoords returns the attached block's grid position.
func (p *FallingPiece) AttachedCoords() (int, int) {
	dx, dy := p.Orient.Offset()
	return p.X + dx, p.Y + dy
}

// VisualY is the fractional row used by rendering.
func (p *FallingPiece) VisualY() float64 {
	return float64(p.Y) + p.SubPos
}

// CanOccupy reports whether both blocks fit with main at (x, y) and the given
// orientation.
func (p *FallingPiece) CanOccupy(g *Grid, x, y int, o Orientation) bool {
	dx, dy := o.Offset()
	return g.IsValid(x, y) && g.IsValid(x+dx, y+dy)
}

// CanMove reports whether the piece can shift by (dx, dy).
func (p *FallingPiece) CanMove(g *Grid, dx, dy int) bool {
	return p.CanOccupy(g, p.X+dx, p.Y+dy, p.Orient)
}

// WouldFitBelow reports whether both blocks can drop one row. Collision is
// purely cell-occupancy based.
func (p *FallingPiece) WouldFitBelow(g *Grid) bool {
	return p.CanMove(g, 0, 1)
}

// wallKickOffsets are tried in order when a rotation is blocked in place.
var wallKickOffsets = [5]Point{{-1, 0}, {1, 0}, {0, -1}, {-1, -1}, {1, -1}}

// Physics owns the timing state of the falling piece: sub-cell fall stepping,
// wall-kick credits, flip cooldown and the spawn-stall failsafe. One Physics
// instance serves one board side.
type Physics struct {
	cfg Config

	accelerated bool
	lastStep    time.Time
	stepping    bool

	kicksUsed   int
	firstKickAt time.Time
	lastFlipAt  time.Time
	flipped     bool

	stallSince time.Time
}

// NewPhysics creates piece physics with the given tuning.
func NewPhysics(cfg Config) *Physics {
	return &Physics{cfg: cfg}
}

// ResetPiece clears per-piece timing state. Called whenever a new piece spawns.
func (ph *Physics) ResetPiece(now time.Time) {
	ph.accelerated = false
	ph.lastStep = now
	ph.stepping = true
	ph.kicksUsed = 0
	ph.flipped = false
	ph.stallSince = now
}

// SetAccelerated toggles soft drop. The micro-step interval is recomputed
// from the active speed on the next advance.
func (ph *Physics) SetAccelerated(on bool) {
	ph.accelerated = on
}

// Accelerated reports whether soft drop is active.
func (ph *Physics) Accelerated() bool { return ph.accelerated }

func (ph *Physics) microInterval() time.Duration {
	speed := ph.cfg.NormalFall
	if ph.accelerated {
		speed = ph.cfg.AcceleratedFall
	}
	return ph.cfg.MicroFallTime(speed)
}

// Move shifts the piece by (dx, dy) when the target configuration is free.
// Returns false on rejection; rejections are never errors.
func (ph *Physics) Move(g *Grid, p *FallingPiece, dx, dy int) bool {
	if !p.CanMove(g, dx, dy) {
		return false
	}
	p.X += dx
	p.Y += dy
	return true
}

// Rotate turns the attached block one step clockwise (dir=+1) or
// counter-clockwise (dir=-1). If the rotated cell is blocked, wall-kick
// offsets are tried, consuming one kick credit; at most WallKickMax kicks are
// allowed within one WallKickWindow. A clean rotation refunds all credits.
func (ph *Physics) Rotate(g *Grid, p *FallingPiece, dir int, now time.Time) bool {
	newOrient := Orientation((int(p.Orient) + dir + 4) % 4)
	dx, dy := newOrient.Offset()
	if g.IsValid(p.X+dx, p.Y+dy) {
		p.Orient = newOrient
		ph.kicksUsed = 0
		return true
	}

	if ph.kicksUsed > 0 && now.Sub(ph.firstKickAt) > ph.cfg.WallKickWindow {
		ph.kicksUsed = 0
	}
	if ph.kicksUsed >= ph.cfg.WallKickMax {
		return false
	}

	for _, off := range wallKickOffsets {
		nx, ny := p.X+off.X, p.Y+off.Y
		if g.IsValid(nx, ny) && g.IsValid(nx+dx, ny+dy) {
			if ph.kicksUsed == 0 {
				ph.firstKickAt = now
			}
			ph.kicksUsed++
			p.X, p.Y = nx, ny
			p.Orient = newOrient
			return true
		}
	}
	return false
}

// Flip swaps a vertical piece to the opposite vertical orientation. Only
// top/bottom orientations flip, on an independent cooldown from wall kicks.
func (ph *Physics) Flip(g *Grid, p *FallingPiece, now time.Time) bool {
	if p.Orient != OrientTop && p.Orient != OrientBottom {
		return false
	}
	if ph.flipped && now.Sub(ph.lastFlipAt) < ph.cfg.FlipCooldown {
		return false
	}
	target := OrientTop
	if p.Orient == OrientTop {
		target = OrientBottom
	}
	dx, dy := target.Offset()
	if !g.IsValid(p.X+dx, p.Y+dy) {
		return false
	}
	p.Orient = target
	ph.kicksUsed = 0
	ph.lastFlipAt = now
	ph.flipped = true
	return true
}

// Advance steps the sub-cell fall simulation up to now. Returns true when the
// piece can fall no further and must be placed. A piece stuck above the grid
// for longer than StallTimeout is force-advanced into the top row, or placed
// if even that is blocked.
func (ph *Physics) Advance(g *Grid, p *FallingPiece, now time.Time) bool {
	if !ph.stepping {
		ph.lastStep = now
		ph.stepping = true
	}

	if p.Y < 0 && now.Sub(ph.stallSince) >= ph.cfg.StallTimeout {
		if p.CanOccupy(g, p.X, 0, p.Orient) {
			p.Y = 0
			p.SubPos = 0
			ph.stallSince = now
		} else {
			return true
		}
	}

	interval := ph.microInterval()
	if interval <= 0 {
		return false
	}
	step := 1.0 / float64(ph.cfg.SubPositions)
	restLimit := 1.0 - ph.cfg.BufferFraction

	for now.Sub(ph.lastStep) >= interval {
		ph.lastStep = ph.lastStep.Add(interval)

		if p.WouldFitBelow(g) {
			p.SubPos += step
			if p.SubPos >= 1.0 {
				p.SubPos -= 1.0
				p.Y++
				ph.stallSince = now
			}
			continue
		}

		// Blocked below: let the piece settle up to the buffer margin,
		// then lock it in.
		p.SubPos += step
		if p.SubPos >= restLimit {
			p.SubPos = restLimit
			return true
		}
	}
	return false
}
