package search

type Direction bool

const (
	FORWARD  Direction = false
	BACKWARD Direction = true
)

func (d Direction) String() string {
	if d == FORWARD {
		return "FORWARD"
	}
	return "BACKWARD"
}
