package attack

import (
	"sort"

	"github.com/CloudTigerx/BladeFighters-sub000/internal/games/puzzle"
)

// GarbageFormula selects how loose-block damage converts into garbage count.
type GarbageFormula string

const (
	// FormulaHalved is the classic rule: floor(individuals * chain / 2).
	FormulaHalved GarbageFormula = "halved"
	// FormulaProduct is the aggressive alternative: individuals * chain.
	FormulaProduct GarbageFormula = "product"
)

// CalcConfig tunes the attack conversion rules.
type CalcConfig struct {
	Formula GarbageFormula `yaml:"garbage_formula"`
	// CombineClusters merges multiple clusters broken in the same batch into
	// one composite strike instead of emitting one strike per cluster.
	CombineClusters bool `yaml:"combine_clusters"`
}

// DefaultCalcConfig returns the reference rules.
func DefaultCalcConfig() CalcConfig {
	return CalcConfig{
		Formula:         FormulaHalved,
		CombineClusters: true,
	}
}

// ClusterInfo describes one rectangular cluster inside a combo.
type ClusterInfo struct {
	Size   int
	Width  int
	Height int
}

// Combo is the classified form of a break batch: what broke, split into
// clusters, loose individuals and breakers, with the chain multiplier.
type Combo struct {
	Clusters    []ClusterInfo // sorted by size, largest first
	Individuals int           // loose non-breaker blocks outside any cluster
	Breakers    int
	Chain       int
	Color       puzzle.BlockColor
}

// TotalBlocks returns the number of broken cells the combo accounts for.
func (c Combo) TotalBlocks() int {
	n := c.Individuals + c.Breakers
	for _, cl := range c.Clusters {
		n += cl.Size
	}
	return n
}

// Calculator converts combo events into attack payloads, consulting the
// pattern database first and falling back to the scaling formulas.
type Calculator struct {
	cfg CalcConfig
	db  *Database
}

// NewCalculator creates a calculator. db may be nil to use pure formulas.
func NewCalculator(cfg CalcConfig, db *Database) *Calculator {
	if cfg.Formula == "" {
		cfg.Formula = FormulaHalved
	}
	return &Calculator{cfg: cfg, db: db}
}

// Compute turns one combo event into zero or more payloads for the opponent.
func (c *Calculator) Compute(ev puzzle.ComboEvent) []Payload {
	combo := Classify(ev)
	if combo.TotalBlocks() == 0 {
		return nil
	}
	if c.db != nil {
		if entry, ok := c.db.Resolve(combo); ok {
			return entry.Payloads(combo.Color)
		}
	}
	return c.cfg.payloads(combo)
}

// Classify partitions a break batch into clusters, individuals and breakers.
// Cluster membership uses same-color connectivity within the batch plus the
// bounding-box density test, mirroring how the grid-side detection works.
func Classify(ev puzzle.ComboEvent) Combo {
	combo := Combo{Chain: ev.ChainMultiplier}
	if combo.Chain < 1 {
		combo.Chain = 1
	}

	byPoint := make(map[puzzle.Point]puzzle.BrokenBlock, len(ev.Blocks))
	colorCounts := make(map[puzzle.BlockColor]int)
	for _, b := range ev.Blocks {
		if b.Breaker {
			combo.Breakers++
			continue
		}
		byPoint[puzzle.Point{X: b.X, Y: b.Y}] = b
		colorCounts[b.Color]++
	}
	combo.Color = dominantColor(ev.Blocks, colorCounts)

	visited := make(map[puzzle.Point]bool, len(byPoint))
	for _, p := range sortedPoints(byPoint) {
		if visited[p] {
			continue
		}
		component := floodComponent(p, byPoint[p].Color, byPoint, visited)
		if ev.IsCluster && puzzle.IsProperCluster(component) {
			_, _, w, h := puzzle.BoundingBox(component)
			combo.Clusters = append(combo.Clusters, ClusterInfo{
				Size: len(component), Width: w, Height: h,
			})
		} else {
			combo.Individuals += len(component)
		}
	}

	sort.Slice(combo.Clusters, func(i, j int) bool {
		return combo.Clusters[i].Size > combo.Clusters[j].Size
	})
	return combo
}

func dominantColor(blocks []puzzle.BrokenBlock, counts map[puzzle.BlockColor]int) puzzle.BlockColor {
	best := puzzle.Red
	bestCount := -1
	if len(blocks) > 0 {
		best = blocks[0].Color
	}
	for color, n := range counts {
		if n > bestCount || (n == bestCount && color < best) {
			best, bestCount = color, n
		}
	}
	return best
}

func sortedPoints(byPoint map[puzzle.Point]puzzle.BrokenBlock) []puzzle.Point {
	points := make([]puzzle.Point, 0, len(byPoint))
	for p := range byPoint {
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Y != points[j].Y {
			return points[i].Y < points[j].Y
		}
		return points[i].X < points[j].X
	})
	return points
}

func floodComponent(start puzzle.Point, color puzzle.BlockColor,
	byPoint map[puzzle.Point]puzzle.BrokenBlock, visited map[puzzle.Point]bool) []puzzle.Point {

	var component []puzzle.Point
	stack := []puzzle.Point{start}
	visited[start] = true
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		component = append(component, p)
		for _, d := range [4]puzzle.Point{{X: 0, Y: -1}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 1, Y: 0}} {
			n := puzzle.Point{X: p.X + d.X, Y: p.Y + d.Y}
			if visited[n] {
				continue
			}
			b, ok := byPoint[n]
			if !ok || b.Color != color {
				continue
			}
			visited[n] = true
			stack = append(stack, n)
		}
	}
	return component
}

// payloads applies the pure formulaic rules to a classified combo.
func (cfg CalcConfig) payloads(combo Combo) []Payload {
	var out []Payload
	for _, dim := range cfg.strikeDims(combo) {
		out = append(out, Strike{Width: dim[0], Height: dim[1], Color: combo.Color})
	}
	if g := cfg.garbageCount(combo); g > 0 {
		out = append(out, Garbage{Count: g, Color: combo.Color})
	}
	return out
}

func (cfg CalcConfig) garbageCount(combo Combo) int {
	switch cfg.Formula {
	case FormulaProduct:
		return combo.Individuals * combo.Chain
	default:
		return combo.Individuals * combo.Chain / 2
	}
}

// shapeClass buckets a cluster into one of the four scaling tables.
type shapeClass int

const (
	shape2x2 shapeClass = iota
	shape3x2
	shape3x3
	shape4x4
)

func classify(cl ClusterInfo) shapeClass {
	w, h := cl.Width, cl.Height
	switch {
	case w >= 4 && h >= 4:
		return shape4x4
	case w == 3 && h == 3:
		return shape3x3
	case (w == 3 && h == 2) || (w == 2 && h == 3):
		return shape3x2
	case w == 2 && h == 2:
		return shape2x2
	}
	// Irregular shapes bucket by block count.
	switch {
	case cl.Size <= 4:
		return shape2x2
	case cl.Size <= 6:
		return shape3x2
	case cl.Size <= 9:
		return shape3x3
	default:
		return shape4x4
	}
}

// Scaling tables: strike dimensions (width, height) per chain level, indexed
// from level 1. Levels past the end clamp to the last entry.
var (
	table2x2 = [][2]int{{1, 4}, {2, 4}, {2, 6}, {2, 8}, {2, 10}, {2, 12}}
	table3x3 = [][2]int{{2, 4}, {3, 6}, {3, 9}, {3, 12}}
	table3x2 = [][2]int{{3, 2}, {6, 2}, {2, 12}}
)

func tableFor(class shapeClass) [][2]int {
	switch class {
	case shape3x3:
		return table3x3
	case shape3x2:
		return table3x2
	default:
		return table2x2
	}
}

func lookupTable(table [][2]int, level int) [2]int {
	if level < 1 {
		level = 1
	}
	if level > len(table) {
		level = len(table)
	}
	return table[level-1]
}

// strikeDims resolves every cluster in the combo into strike dimensions.
// With CombineClusters on, multiple clusters fold into one composite strike
// from the largest cluster's table, looked up at chain x count so the total
// payload mass stays close to the per-cluster sum.
func (cfg CalcConfig) strikeDims(combo Combo) [][2]int {
	if len(combo.Clusters) == 0 {
		return nil
	}

	if cfg.CombineClusters && len(combo.Clusters) > 1 {
		class := classify(combo.Clusters[0])
		if class == shape4x4 {
			// A 4x4 among combined clusters still emits its twin strikes;
			// the rest fold into the composite.
			dims := clusterDims(combo.Clusters[0], combo.Chain)
			rest := Combo{Clusters: combo.Clusters[1:], Chain: combo.Chain}
			return append(dims, cfg.strikeDims(rest)...)
		}
		level := combo.Chain * len(combo.Clusters)
		return [][2]int{lookupTable(tableFor(class), level)}
	}

	var dims [][2]int
	for _, cl := range combo.Clusters {
		dims = append(dims, clusterDims(cl, combo.Chain)...)
	}
	return dims
}

// clusterDims maps one cluster at one chain level to strike dimensions.
// A 4x4 splits into two strikes from the 2x2 table.
func clusterDims(cl ClusterInfo, chain int) [][2]int {
	class := classify(cl)
	if class == shape4x4 {
		dim := lookupTable(table2x2, chain)
		return [][2]int{dim, dim}
	}
	return [][2]int{lookupTable(tableFor(class), chain)}
}
