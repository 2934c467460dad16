package attack

// columnSequence is the fixed entry-point order across the six columns: the
// 0-based form of the classic 1,6,2,5,3,4 rotation, alternating edges toward
// the center so attacks spread evenly.
var columnSequence = [6]int{0, 5, 1, 4, 2, 3}

// ColumnRotator hands out attack entry columns from the fixed sequence. One
// rotator persists per player for the whole battle; it advances on every call
// whether or not the placement succeeds.
type ColumnRotator struct {
	index int
}

// NewColumnRotator starts at the beginning of the sequence.
func NewColumnRotator() *ColumnRotator {
	return &ColumnRotator{}
}

// Next returns the current column and advances the rotation.
func (r *ColumnRotator) Next() int {
	col := columnSequence[r.index]
	r.index = (r.index + 1) % len(columnSequence)
	return col
}

// Peek returns the current column without advancing.
func (r *ColumnRotator) Peek() int {
	return columnSequence[r.index]
}

// Reset rewinds the rotation to the start of the sequence.
func (r *ColumnRotator) Reset() {
	r.index = 0
}
