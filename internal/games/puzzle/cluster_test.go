package puzzle

import (
	"sort"
	"testing"
)

func fillRect(g *Grid, x, y, w, h int, tag BlockTag) {
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			g.Set(x+dx, y+dy, tag)
		}
	}
}

func TestDetectClusters2x2Seed(t *testing.T) {
	g := newTestGrid()
	fillRect(g, 0, 14, 2, 2, red())

	members := DetectClusters(g)
	if len(members) != 4 {
		t.Fatalf("cluster has %d cells, want 4", len(members))
	}
	for _, p := range []Point{{0, 14}, {1, 14}, {0, 15}, {1, 15}} {
		if !members[p] {
			t.Errorf("cell %v missing from cluster", p)
		}
	}
}

func TestDetectClustersRequiresNormalBlocks(t *testing.T) {
	g := newTestGrid()
	fillRect(g, 0, 14, 2, 2, red())
	g.Set(1, 15, redBrk()) // breaker poisons the window

	if members := DetectClusters(g); len(members) != 0 {
		t.Errorf("breaker-tainted window clustered %d cells", len(members))
	}

	g2 := newTestGrid()
	fillRect(g2, 0, 14, 2, 2, garbage())
	if members := DetectClusters(g2); len(members) != 0 {
		t.Errorf("garbage clustered %d cells", len(members))
	}
}

func TestDetectClustersMixedColorsRejected(t *testing.T) {
	g := newTestGrid()
	g.Set(0, 14, red())
	g.Set(1, 14, red())
	g.Set(0, 15, red())
	g.Set(1, 15, blue())

	if members := DetectClusters(g); len(members) != 0 {
		t.Errorf("mixed-color window clustered %d cells", len(members))
	}
}

func TestDetectClustersExtends(t *testing.T) {
	g := newTestGrid()
	fillRect(g, 2, 12, 2, 4, blue())

	members := DetectClusters(g)
	if len(members) != 8 {
		t.Errorf("2x4 cluster has %d cells, want 8", len(members))
	}
}

func TestFindAllClustersMergesAdjacentRegions(t *testing.T) {
	g := newTestGrid()
	// Two 2x2 seeds of the same color sharing column 1 form one L-shaped
	// logical cluster.
	fillRect(g, 0, 14, 2, 2, red())
	fillRect(g, 1, 12, 2, 2, red())

	clusters := FindAllClusters(g)
	if len(clusters) != 1 {
		t.Fatalf("found %d clusters, want 1 merged", len(clusters))
	}
	if len(clusters[0]) != 8 {
		t.Errorf("merged cluster has %d cells, want 8", len(clusters[0]))
	}
}

func TestFindAllClustersKeepsColorsApart(t *testing.T) {
	g := newTestGrid()
	fillRect(g, 0, 14, 2, 2, red())
	fillRect(g, 2, 14, 2, 2, blue())

	clusters := FindAllClusters(g)
	if len(clusters) != 2 {
		t.Errorf("found %d clusters, want 2 (different colors)", len(clusters))
	}
}

func TestIsProperCluster(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
		want   bool
	}{
		{
			"solid 2x2",
			[]Point{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
			true,
		},
		{
			"vertical line",
			[]Point{{0, 0}, {0, 1}, {0, 2}, {0, 3}},
			false,
		},
		{
			"sparse small box", // 4 cells in a 2x3 box: 67% < 70%
			[]Point{{0, 0}, {1, 0}, {0, 1}, {1, 2}},
			false,
		},
		{
			"dense large box", // 8 cells in a 3x4 box: 67% >= 60%
			[]Point{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {1, 2}, {2, 2}, {1, 3}, {2, 3}},
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsProperCluster(tt.points); got != tt.want {
				t.Errorf("IsProperCluster = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDropClustersRigidBody(t *testing.T) {
	g := newTestGrid()
	fillRect(g, 1, 8, 2, 2, red()) // floating cluster

	cluster := FindAllClusters(g)
	if len(cluster) != 1 {
		t.Fatalf("setup: %d clusters", len(cluster))
	}
	if IsSupported(g, cluster[0]) {
		t.Fatal("floating cluster reported as supported")
	}

	if !DropClusters(g) {
		t.Fatal("floating cluster did not drop")
	}

	var got []Point
	for y := 0; y < g.TotalHeight(); y++ {
		for x := 0; x < g.Width(); x++ {
			if g.Occupied(x, y) {
				got = append(got, Point{x, y})
			}
		}
	}
	sort.Slice(got, func(i, j int) bool {
		if got[i].Y != got[j].Y {
			return got[i].Y < got[j].Y
		}
		return got[i].X < got[j].X
	})
	want := []Point{{1, 14}, {2, 14}, {1, 15}, {2, 15}}
	if len(got) != len(want) {
		t.Fatalf("cluster cells after drop: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("cell %d at %v, want %v (shape not preserved)", i, got[i], want[i])
		}
	}
}

func TestClusterOnFloorIsSupported(t *testing.T) {
	g := newTestGrid()
	fillRect(g, 0, 14, 2, 2, red())

	clusters := FindAllClusters(g)
	if !IsSupported(g, clusters[0]) {
		t.Error("floor cluster reported unsupported")
	}
	if DropClusters(g) {
		t.Error("supported cluster moved")
	}
}

func TestClusterRestsOnOutsideBlock(t *testing.T) {
	g := newTestGrid()
	fillRect(g, 0, 13, 2, 2, red())
	g.Set(0, 15, blue())
	g.Set(1, 15, blue())

	clusters := FindAllClusters(g)
	if !IsSupported(g, clusters[0]) {
		t.Error("cluster resting on blocks reported unsupported")
	}
}

func TestSettleDropsClustersAndLooseBlocks(t *testing.T) {
	g := newTestGrid()
	fillRect(g, 0, 8, 2, 2, red()) // floating cluster
	g.Set(4, 3, blue())            // floating loose block

	if !Settle(g) {
		t.Fatal("settle moved nothing")
	}
	for Settle(g) {
	}

	if !g.Occupied(0, 14) || !g.Occupied(1, 14) || !g.Occupied(0, 15) || !g.Occupied(1, 15) {
		t.Error("cluster did not settle to the floor intact")
	}
	if !g.Occupied(4, 15) {
		t.Error("loose block did not settle")
	}
}
