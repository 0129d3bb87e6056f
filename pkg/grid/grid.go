// Package grid stores rectangular traversability maps.
// Cells are addressed by (x, y) with the origin in the top left corner, ids are row-major.
package grid

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/bits-and-blooms/bitset"
)

var (
	ErrInvalidSize   = errors.New("grid: invalid map size")
	ErrInvalidHeader = errors.New("grid: invalid map header")
	ErrInvalidRow    = errors.New("grid: invalid map row")
)

// Connectivity of a cell
type Connectivity int

const (
	Conn4 Connectivity = 4 // horizontal and vertical moves
	Conn8 Connectivity = 8 // additionally diagonal moves without cutting corners
)

// Map is a read-only (after construction) traversability grid.
// It may be shared by any number of searches.
type Map struct {
	width, height int
	traversable   *bitset.BitSet
}

// NewMap creates a map with all cells blocked
func NewMap(width, height int) (*Map, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %vx%v", ErrInvalidSize, width, height)
	}
	return &Map{width: width, height: height, traversable: bitset.New(uint(width * height))}, nil
}

// ParseASCII creates a map from rows of '.' (free) and any other character (blocked)
func ParseASCII(rows ...string) (*Map, error) {
	if len(rows) == 0 {
		return nil, ErrInvalidSize
	}
	m, err := NewMap(len(rows[0]), len(rows))
	if err != nil {
		return nil, err
	}
	for y, row := range rows {
		if len(row) != m.width {
			return nil, fmt.Errorf("%w: row %v has %v cells, expected %v", ErrInvalidRow, y, len(row), m.width)
		}
		for x, c := range []byte(row) {
			m.Set(x, y, isTraversable(c))
		}
	}
	return m, nil
}

func (m *Map) Width() int  { return m.width }
func (m *Map) Height() int { return m.height }
func (m *Map) Size() int   { return m.width * m.height }

func (m *Map) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.width && y < m.height
}

// Traversable reports whether (x, y) is inside the map and free
func (m *Map) Traversable(x, y int) bool {
	return m.InBounds(x, y) && m.traversable.Test(uint(y*m.width+x))
}

func (m *Map) Set(x, y int, traversable bool) {
	if !m.InBounds(x, y) {
		panic(fmt.Sprintf("cell (%v, %v) is outside of the %vx%v map", x, y, m.width, m.height))
	}
	i := uint(y*m.width + x)
	if traversable {
		m.traversable.Set(i)
	} else {
		m.traversable.Clear(i)
	}
}

func (m *Map) ID(x, y int) uint32 {
	return uint32(y*m.width + x)
}

func (m *Map) XY(id uint32) (x, y int) {
	return int(id) % m.width, int(id) / m.width
}

// TraversableCount returns the number of free cells
func (m *Map) TraversableCount() int {
	return int(m.traversable.Count())
}

func (m *Map) Mem() uintptr {
	return unsafe.Sizeof(*m) + uintptr(m.traversable.Len()+7)/8
}

func (m *Map) String() string {
	var sb strings.Builder
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			if m.Traversable(x, y) {
				sb.WriteByte('.')
			} else {
				sb.WriteByte('@')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
