package puzzle

import "sort"

// maxClusterExtent caps how far a single 2x2 seed extends, bounding the cost
// of the greedy rectangular growth.
const maxClusterExtent = 5

// DetectClusters returns the set of cells that belong to rectangular clusters:
// 2x2 windows of same-color normal blocks, greedily extended right and down
// while entire columns/rows keep matching. Only normal blocks cluster;
// breakers, garbage and strikes never do.
func DetectClusters(g *Grid) map[Point]bool {
	members := make(map[Point]bool)

	for y := 0; y < g.TotalHeight()-1; y++ {
		for x := 0; x < g.Width()-1; x++ {
			color, ok := windowColor(g, x, y)
			if !ok {
				continue
			}

			// Seed found; grow the rectangle right, then down.
			w, h := 2, 2
			for w < maxClusterExtent && columnMatches(g, x+w, y, h, color) {
				w++
			}
			for h < maxClusterExtent && rowMatches(g, x, y+h, w, color) {
				h++
			}

			for dy := 0; dy < h; dy++ {
				for dx := 0; dx < w; dx++ {
					members[Point{x + dx, y + dy}] = true
				}
			}
		}
	}
	return members
}

// windowColor reports the shared color of the 2x2 window at (x, y), if all
// four cells are same-color normal blocks.
func windowColor(g *Grid, x, y int) (BlockColor, bool) {
	first := g.At(x, y)
	if !clusterable(first) {
		return 0, false
	}
	for dy := 0; dy < 2; dy++ {
		for dx := 0; dx < 2; dx++ {
			c := g.At(x+dx, y+dy)
			if !clusterable(c) || c.Tag.Color != first.Tag.Color {
				return 0, false
			}
		}
	}
	return first.Tag.Color, true
}

func clusterable(c Cell) bool {
	return c.Occupied && c.Tag.Kind == KindNormal
}

func columnMatches(g *Grid, x, y, h int, color BlockColor) bool {
	for dy := 0; dy < h; dy++ {
		c := g.At(x, y+dy)
		if !clusterable(c) || c.Tag.Color != color {
			return false
		}
	}
	return true
}

func rowMatches(g *Grid, x, y, w int, color BlockColor) bool {
	for dx := 0; dx < w; dx++ {
		c := g.At(x+dx, y)
		if !clusterable(c) || c.Tag.Color != color {
			return false
		}
	}
	return true
}

// FindAllClusters merges the raw cluster cells into maximal logical clusters
// via 4-directional same-color flood fill. Two adjacent seeded regions of the
// same color become one cluster.
func FindAllClusters(g *Grid) [][]Point {
	members := DetectClusters(g)
	visited := make(map[Point]bool, len(members))
	var clusters [][]Point

	// Deterministic iteration order for stable results.
	points := make([]Point, 0, len(members))
	for p := range members {
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Y != points[j].Y {
			return points[i].Y < points[j].Y
		}
		return points[i].X < points[j].X
	})

	for _, start := range points {
		if visited[start] {
			continue
		}
		color := g.At(start.X, start.Y).Tag.Color
		var cluster []Point
		stack := []Point{start}
		visited[start] = true
		for len(stack) > 0 {
			p := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			cluster = append(cluster, p)
			for _, d := range neighbors4 {
				n := Point{p.X + d.X, p.Y + d.Y}
				if visited[n] || !members[n] {
					continue
				}
				if g.At(n.X, n.Y).Tag.Color != color {
					continue
				}
				visited[n] = true
				stack = append(stack, n)
			}
		}
		clusters = append(clusters, cluster)
	}
	return clusters
}

// BoundingBox returns the bounding rectangle of a point set.
func BoundingBox(points []Point) (minX, minY, w, h int) {
	if len(points) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return minX, minY, maxX - minX + 1, maxY - minY + 1
}

// IsProperCluster applies the shape test used for attack classification:
// bounding box at least 2x2 and fill density of at least 70% for small boxes
// (area <= 6) or 60% for larger ones.
func IsProperCluster(points []Point) bool {
	_, _, w, h := BoundingBox(points)
	if w < 2 || h < 2 {
		return false
	}
	area := w * h
	density := float64(len(points)) / float64(area)
	if area <= 6 {
		return density >= 0.7
	}
	return density >= 0.6
}

// IsSupported reports whether every column of the cluster rests on the floor
// or on a block outside the cluster. One unsupported column makes the whole
// cluster fall as a rigid body.
func IsSupported(g *Grid, cluster []Point) bool {
	inCluster := make(map[Point]bool, len(cluster))
	for _, p := range cluster {
		inCluster[p] = true
	}
	for _, bottom := range clusterColumnBottoms(cluster) {
		below := Point{bottom.X, bottom.Y + 1}
		if below.Y >= g.TotalHeight() {
			continue // on the floor
		}
		if g.Occupied(below.X, below.Y) && !inCluster[below] {
			continue
		}
		return false
	}
	return true
}

// clusterColumnBottoms returns the bottom-most member cell of each column.
func clusterColumnBottoms(cluster []Point) []Point {
	bottoms := make(map[int]Point)
	for _, p := range cluster {
		if b, ok := bottoms[p.X]; !ok || p.Y > b.Y {
			bottoms[p.X] = p
		}
	}
	out := make([]Point, 0, len(bottoms))
	for _, p := range bottoms {
		out = append(out, p)
	}
	return out
}

// DropClusters moves every unsupported cluster down as one rigid body by the
// minimum free distance across its columns, preserving its shape. Returns
// whether any cluster moved. Callers re-run until it reports false.
func DropClusters(g *Grid) bool {
	moved := false
	for _, cluster := range FindAllClusters(g) {
		if IsSupported(g, cluster) {
			continue
		}
		inCluster := make(map[Point]bool, len(cluster))
		for _, p := range cluster {
			inCluster[p] = true
		}

		dist := g.TotalHeight()
		for _, bottom := range clusterColumnBottoms(cluster) {
			d := g.fallDistance(bottom.X, bottom.Y, inCluster)
			if d < dist {
				dist = d
			}
		}
		if dist <= 0 {
			continue
		}

		// Move bottom cells first so members never overwrite each other.
		sorted := append([]Point(nil), cluster...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Y > sorted[j].Y })
		for _, p := range sorted {
			c := g.At(p.X, p.Y)
			g.ClearCell(p.X, p.Y)
			g.setCell(p.X, p.Y+dist, c)
		}
		moved = true
	}
	return moved
}

// ClusterCellSet returns the union of all cluster members, used to exclude
// them from ungrouped gravity.
func ClusterCellSet(clusters [][]Point) map[Point]bool {
	set := make(map[Point]bool)
	for _, cluster := range clusters {
		for _, p := range cluster {
			set[p] = true
		}
	}
	return set
}
