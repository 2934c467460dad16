package puzzle

import (
	"sort"
	"time"
)

// ChainPhase is the state of the chain reaction machine.
type ChainPhase int

const (
	PhaseIdle ChainPhase = iota
	PhaseBreaking
	PhaseApplyingGravity
	PhaseWaitingForGravity
)

// String returns a human-readable name for the phase.
func (p ChainPhase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseBreaking:
		return "breaking"
	case PhaseApplyingGravity:
		return "applying_gravity"
	case PhaseWaitingForGravity:
		return "waiting_for_gravity"
	default:
		return "unknown"
	}
}

// BrokenBlock records one cleared cell for attack computation.
type BrokenBlock struct {
	X, Y    int
	Color   BlockColor
	Breaker bool
}

// breakingBlock is a cell scheduled for removal, with its reveal stagger.
type breakingBlock struct {
	BrokenBlock
	Delay time.Duration
}

// ComboEvent is emitted once per break batch. It is the sole interface
// between the chain reaction and the attack calculator.
type ComboEvent struct {
	Blocks          []BrokenBlock
	IsCluster       bool
	ChainMultiplier int
}

// ChainReaction drives breaker activation, block removal and gravity
// reapplication for one board side. All waiting is expressed as elapsed-time
// comparisons; Update either acts or returns early.
type ChainReaction struct {
	cfg  Config
	anim AnimationStatusProvider

	phase      ChainPhase
	inProgress bool
	chainCount int

	breaking        []breakingBlock
	breakingCluster bool

	breakStart   time.Time
	phaseEntered time.Time
	chainStart   time.Time
}

// NewChainReaction creates an idle chain machine. anim may be nil.
func NewChainReaction(cfg Config, anim AnimationStatusProvider) *ChainReaction {
	return &ChainReaction{cfg: cfg, anim: anim}
}

// InProgress reports whether the machine is in any non-idle state.
func (cr *ChainReaction) InProgress() bool { return cr.inProgress }

// Phase returns the current state.
func (cr *ChainReaction) Phase() ChainPhase { return cr.phase }

// ChainCount returns the number of break batches committed so far.
func (cr *ChainReaction) ChainCount() int { return cr.chainCount }

// BreakingCells returns the cells currently scheduled for removal, for the
// renderer to flash.
func (cr *ChainReaction) BreakingCells() []Point {
	out := make([]Point, 0, len(cr.breaking))
	for _, b := range cr.breaking {
		out = append(out, Point{b.X, b.Y})
	}
	return out
}

// Start arms the machine after a piece placement. The next Update performs
// the idle-phase breaker scan even if gravity moved nothing.
func (cr *ChainReaction) Start(now time.Time) {
	if cr.inProgress {
		return
	}
	cr.inProgress = true
	cr.phase = PhaseIdle
	cr.chainCount = 0
	cr.chainStart = now
	cr.phaseEntered = now
}

// Reset force-returns the machine to idle without emitting events.
func (cr *ChainReaction) Reset() {
	cr.inProgress = false
	cr.phase = PhaseIdle
	cr.chainCount = 0
	cr.breaking = nil
}

// Update advances the machine against the grid. Returns the combo events
// committed during this call, in order.
func (cr *ChainReaction) Update(g *Grid, now time.Time, sink EventSink) []ComboEvent {
	if !cr.inProgress {
		return nil
	}
	if sink == nil {
		sink = NopSink{}
	}

	// Hard ceiling: no chain runs longer than ChainTimeout.
	if now.Sub(cr.chainStart) >= cr.cfg.ChainTimeout {
		Settle(g)
		cr.exit()
		return nil
	}

	switch cr.phase {
	case PhaseIdle:
		if cr.scanForBreakers(g, now, false) {
			return nil
		}
		if Settle(g) {
			cr.enter(PhaseWaitingForGravity, now)
			return nil
		}
		cr.exit()
		return nil

	case PhaseBreaking:
		if now.Sub(cr.breakStart) < cr.cfg.BreakDuration {
			return nil
		}
		ev := cr.commitBreak(g, sink)
		cr.enter(PhaseApplyingGravity, now)
		return []ComboEvent{ev}

	case PhaseApplyingGravity:
		if now.Sub(cr.phaseEntered) < cr.cfg.StateDelay {
			return nil
		}
		if Settle(g) {
			cr.enter(PhaseWaitingForGravity, now)
			return nil
		}
		if cr.scanForBreakers(g, now, true) {
			return nil
		}
		cr.exit()
		return nil

	case PhaseWaitingForGravity:
		if cr.anim != nil && cr.anim.AnimationsInProgress() &&
			now.Sub(cr.phaseEntered) < cr.cfg.GravityWait {
			return nil
		}
		if cr.scanForBreakers(g, now, true) {
			return nil
		}
		if Settle(g) {
			cr.enter(PhaseWaitingForGravity, now)
			return nil
		}
		cr.exit()
		return nil
	}
	return nil
}

func (cr *ChainReaction) enter(p ChainPhase, now time.Time) {
	cr.phase = p
	cr.phaseEntered = now
}

func (cr *ChainReaction) exit() {
	cr.inProgress = false
	cr.phase = PhaseIdle
	cr.chainCount = 0
	cr.breaking = nil
}

// scanForBreakers looks for any breaker adjacent to a same-color breakable
// block and collects the full damage group. chained marks scans that extend
// an ongoing chain, which bump the chain count before the batch breaks.
func (cr *ChainReaction) scanForBreakers(g *Grid, now time.Time, chained bool) bool {
	group, isCluster := collectDamageGroup(g)
	if len(group) == 0 {
		return false
	}
	if chained && cr.chainCount > 0 {
		cr.chainCount++
	}
	cr.breaking = cr.breaking[:0]
	for i, b := range group {
		cr.breaking = append(cr.breaking, breakingBlock{
			BrokenBlock: b,
			Delay:       time.Duration(i) * cr.cfg.ChainStagger,
		})
	}
	cr.breakingCluster = isCluster
	cr.breakStart = now
	cr.enter(PhaseBreaking, now)
	return true
}

// commitBreak clears the scheduled blocks and packages the combo event.
func (cr *ChainReaction) commitBreak(g *Grid, sink EventSink) ComboEvent {
	if cr.chainCount == 0 {
		cr.chainCount = 1
	}
	blocks := make([]BrokenBlock, 0, len(cr.breaking))
	for _, b := range cr.breaking {
		g.ClearCell(b.X, b.Y)
		blocks = append(blocks, b.BrokenBlock)
	}
	ev := ComboEvent{
		Blocks:          blocks,
		IsCluster:       cr.breakingCluster,
		ChainMultiplier: cr.chainCount,
	}
	if ev.ChainMultiplier > 1 {
		sink.ComboBreak(ev.ChainMultiplier)
	} else {
		sink.SingleBreak()
	}
	cr.breaking = nil
	return ev
}

// collectDamageGroup finds every active breaker and flood-fills its same-color
// connected blocks. The damage group uses plain color connectivity, not the
// rectangular cluster constraint, so it can exceed a detected cluster.
// The cluster flag reports whether the batch touches a rectangular cluster.
func collectDamageGroup(g *Grid) ([]BrokenBlock, bool) {
	visited := make(map[Point]bool)
	var group []BrokenBlock

	for y := 0; y < g.TotalHeight(); y++ {
		for x := 0; x < g.Width(); x++ {
			c := g.At(x, y)
			if !c.Occupied || c.Tag.Kind != KindBreaker {
				continue
			}
			if !breakerActive(g, x, y, c.Tag.Color) {
				continue
			}
			floodDamage(g, Point{x, y}, c.Tag.Color, visited, &group)
		}
	}
	if len(group) == 0 {
		return nil, false
	}

	clusterCells := DetectClusters(g)
	isCluster := false
	for _, b := range group {
		if clusterCells[Point{b.X, b.Y}] {
			isCluster = true
			break
		}
	}

	// Stable order keeps stagger delays deterministic.
	sort.Slice(group, func(i, j int) bool {
		if group[i].Y != group[j].Y {
			return group[i].Y < group[j].Y
		}
		return group[i].X < group[j].X
	})
	return group, isCluster
}

// breakerActive reports whether the breaker at (x, y) touches a same-color
// breakable block.
func breakerActive(g *Grid, x, y int, color BlockColor) bool {
	for _, d := range neighbors4 {
		c := g.At(x+d.X, y+d.Y)
		if c.Occupied && c.Tag.Kind == KindNormal && c.Tag.Color == color {
			return true
		}
	}
	return false
}

func floodDamage(g *Grid, start Point, color BlockColor, visited map[Point]bool, group *[]BrokenBlock) {
	if visited[start] {
		return
	}
	stack := []Point{start}
	visited[start] = true
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		c := g.At(p.X, p.Y)
		*group = append(*group, BrokenBlock{
			X: p.X, Y: p.Y,
			Color:   c.Tag.Color,
			Breaker: c.Tag.Kind == KindBreaker,
		})
		for _, d := range neighbors4 {
			n := Point{p.X + d.X, p.Y + d.Y}
			if visited[n] {
				continue
			}
			nc := g.At(n.X, n.Y)
			if !nc.Occupied || nc.Tag.Color != color {
				continue
			}
			if nc.Tag.Kind != KindNormal && nc.Tag.Kind != KindBreaker {
				continue
			}
			visited[n] = true
			stack = append(stack, n)
		}
	}
}

// Settle runs one full gravity pass: unsupported clusters drop as rigid
// bodies first, then every non-cluster block falls individually. Returns
// whether anything moved.
func Settle(g *Grid) bool {
	moved := DropClusters(g)
	skip := ClusterCellSet(FindAllClusters(g))
	if g.applyGravityExcluding(skip) {
		moved = true
	}
	return moved
}
