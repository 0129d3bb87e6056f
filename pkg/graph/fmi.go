package graph

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/natevvv/bestfirst/pkg/fileio"
	"github.com/paulmach/orb"
)

var (
	ErrInvalidFmi    = errors.New("graph: invalid fmi file")
	ErrArcOutOfRange = errors.New("graph: arc references unknown node")
)

// fmi parse states
const (
	PARSE_NODE_COUNT = iota
	PARSE_EDGE_COUNT
	PARSE_NODES
	PARSE_EDGES
)

// Write the graph to filename in fmi format. A .gz or .zst suffix compresses the file.
func WriteFmi(g Graph, filename string) error {
	w, err := fileio.Create(filename)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, g.AsString()); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// Parse a graph in fmi format.
// Lines starting with '#' are comments. The node ids in the file are remapped to consecutive ids.
func ParseFmi(r io.Reader) (*AdjacencyListGraph, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	numNodes := 0
	numParsedNodes := 0

	alg := NewAdjacencyListGraph()
	id2index := make(map[int]int)

	parseState := PARSE_NODE_COUNT
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if len(line) < 1 || line[0] == '#' {
			// skip empty lines and comments
			continue
		}

		switch parseState {
		case PARSE_NODE_COUNT:
			val, err := strconv.Atoi(line)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: node count: %w", ErrInvalidFmi, lineNumber, err)
			}
			numNodes = val
			parseState = PARSE_EDGE_COUNT
		case PARSE_EDGE_COUNT:
			// cannot rely on the edge count, duplicate arcs get merged
			parseState = PARSE_NODES
			if numNodes == 0 {
				parseState = PARSE_EDGES
			}
		case PARSE_NODES:
			var id int
			var lat, lon float64
			if _, err := fmt.Sscanf(line, "%d %f %f", &id, &lat, &lon); err != nil {
				return nil, fmt.Errorf("%w: line %d: node: %w", ErrInvalidFmi, lineNumber, err)
			}
			id2index[id] = alg.AddNode(orb.Point{lon, lat})
			numParsedNodes++
			if numParsedNodes == numNodes {
				parseState = PARSE_EDGES
			}
		case PARSE_EDGES:
			var from, to, distance int
			if _, err := fmt.Sscanf(line, "%d %d %d", &from, &to, &distance); err != nil {
				return nil, fmt.Errorf("%w: line %d: edge: %w", ErrInvalidFmi, lineNumber, err)
			}
			fromIndex, okFrom := id2index[from]
			toIndex, okTo := id2index[to]
			if !okFrom || !okTo {
				return nil, fmt.Errorf("%w: line %d: %v -> %v", ErrArcOutOfRange, lineNumber, from, to)
			}
			alg.AddArc(fromIndex, toIndex, distance)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if alg.NodeCount() != numNodes {
		return nil, fmt.Errorf("%w: expected %v nodes, got %v", ErrInvalidFmi, numNodes, alg.NodeCount())
	}
	return alg, nil
}

func NewAdjacencyListFromFmiString(fmi string) (*AdjacencyListGraph, error) {
	return ParseFmi(strings.NewReader(fmi))
}

func NewAdjacencyListFromFmiFile(filename string) (*AdjacencyListGraph, error) {
	r, err := fileio.Open(filename)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	alg, err := ParseFmi(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return alg, nil
}

func NewAdjacencyArrayFromFmiString(fmi string) (*AdjacencyArrayGraph, error) {
	alg, err := NewAdjacencyListFromFmiString(fmi)
	if err != nil {
		return nil, err
	}
	return NewAdjacencyArrayFromGraph(alg), nil
}

func NewAdjacencyArrayFromFmiFile(filename string) (*AdjacencyArrayGraph, error) {
	alg, err := NewAdjacencyListFromFmiFile(filename)
	if err != nil {
		return nil, err
	}
	return NewAdjacencyArrayFromGraph(alg), nil
}
