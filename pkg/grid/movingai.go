package grid

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/natevvv/bestfirst/pkg/fileio"
)

// terrain symbols of the MovingAI benchmark format
func isTraversable(c byte) bool {
	switch c {
	case '.', 'G', 'S':
		return true
	}
	return false
}

// ParseMap reads a map in the MovingAI format:
//
//	type octile
//	height <h>
//	width <w>
//	map
//	<h rows of w symbols>
func ParseMap(r io.Reader) (*Map, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	width, height := -1, -1
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "map" {
			break
		}
		if len(fields) != 2 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidHeader, scanner.Text())
		}
		switch fields[0] {
		case "type":
			// only the octile type exists
		case "height", "width":
			value, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, fmt.Errorf("%w: %v: %w", ErrInvalidHeader, fields[0], err)
			}
			if fields[0] == "height" {
				height = value
			} else {
				width = value
			}
		default:
			return nil, fmt.Errorf("%w: unknown key %q", ErrInvalidHeader, fields[0])
		}
	}
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: missing width or height", ErrInvalidHeader)
	}

	m, err := NewMap(width, height)
	if err != nil {
		return nil, err
	}
	y := 0
	for y < height && scanner.Scan() {
		row := strings.TrimRight(scanner.Text(), "\r")
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %v has %v cells, expected %v", ErrInvalidRow, y, len(row), width)
		}
		for x := 0; x < width; x++ {
			if isTraversable(row[x]) {
				m.traversable.Set(uint(y*width + x))
			}
		}
		y++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if y != height {
		return nil, fmt.Errorf("%w: expected %v rows, got %v", ErrInvalidRow, height, y)
	}
	return m, nil
}

// LoadMap reads a map file, which may be compressed (.gz, .zst)
func LoadMap(filename string) (*Map, error) {
	r, err := fileio.Open(filename)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	m, err := ParseMap(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return m, nil
}

// WriteMap writes m in the MovingAI format
func WriteMap(w io.Writer, m *Map) error {
	_, err := fmt.Fprintf(w, "type octile\nheight %d\nwidth %d\nmap\n%s", m.height, m.width, m.String())
	return err
}
