package pane

// Direction is the cycling direction.
type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Step moves index one position in direction d over a sequence of the given
// length, wrapping at both ends. It returns false for an empty sequence.
func (d Direction) Step(index, length int) (int, bool) {
	if length <= 0 {
		return 0, false
	}
	if d == Backward {
		return (index - 1 + length) % length, true
	}
	return (index + 1) % length, true
}
