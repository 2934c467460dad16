package puzzle

// BlockColor is the base color of a block. Attacks and clusters only ever
// compare base colors, regardless of the block's kind.
type BlockColor uint8

const (
	Red BlockColor = iota
	Blue
	Green
	Yellow
)

// NumColors is the number of distinct block colors pieces can spawn with.
const NumColors = 4

// String returns a human-readable name for the color.
func (c BlockColor) String() string {
	switch c {
	case Red:
		return "red"
	case Blue:
		return "blue"
	case Green:
		return "green"
	case Yellow:
		return "yellow"
	default:
		return "unknown"
	}
}

// BlockKind distinguishes how a block behaves on the grid.
type BlockKind uint8

const (
	// KindNormal blocks form clusters and are removed by breakers.
	KindNormal BlockKind = iota

	// KindBreaker blocks trigger a break when adjacent to a same-color block.
	KindBreaker

	// KindGarbage blocks arrive from the opponent and occupy space until
	// enough piece landings convert them to normal blocks.
	KindGarbage

	// KindStrike blocks arrive as contiguous multi-cell attacks and convert
	// more slowly than garbage.
	KindStrike
)

// String returns a human-readable name for the kind.
func (k BlockKind) String() string {
	switch k {
	case KindNormal:
		return "normal"
	case KindBreaker:
		return "breaker"
	case KindGarbage:
		return "garbage"
	case KindStrike:
		return "strike"
	default:
		return "unknown"
	}
}

// BlockTag identifies a block by color and kind. A non-empty grid cell holds
// exactly one BlockTag.
type BlockTag struct {
	Color BlockColor
	Kind  BlockKind
}

// Breakable reports whether a breaker of the given color can remove this block.
// Garbage and strike blocks only leave the grid through landings conversion.
func (t BlockTag) Breakable(c BlockColor) bool {
	if t.Kind == KindGarbage || t.Kind == KindStrike {
		return false
	}
	return t.Color == c
}

// Point is a grid coordinate. Columns run 0..width-1 left to right, rows run
// top to bottom with row 0 being the invisible overflow row.
type Point struct {
	X, Y int
}

// neighbors4 lists the orthogonal neighbor offsets used by flood fills.
var neighbors4 = [4]Point{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}
