package contraction

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unsafe"

	"golang.org/x/sync/errgroup"

	"github.com/natevvv/bestfirst/pkg/fileio"
	"github.com/natevvv/bestfirst/pkg/graph"
	"github.com/natevvv/bestfirst/pkg/pool"
	"github.com/natevvv/bestfirst/pkg/slice"
)

var ErrInvalidShortcut = errors.New("contraction: invalid shortcut")

type shortcutKey [2]graph.NodeId

// Hierarchy is a contracted graph: the original arcs plus shortcuts, and a rank per node.
type Hierarchy struct {
	Rank  []int
	Order []graph.NodeId
	Graph *graph.AdjacencyArrayGraph
	// Up holds the arcs u -> w with rank[w] > rank[u].
	// Down holds for every w the arcs u -> w with rank[u] > rank[w], stored as w -> u.
	Up        *graph.AdjacencyArrayGraph
	Down      *graph.AdjacencyArrayGraph
	shortcuts []Shortcut
	via       map[shortcutKey]graph.NodeId
}

// NewHierarchy splits g into the upward and downward graph according to order.
// g must contain the shortcuts.
func NewHierarchy(g graph.Graph, order []graph.NodeId, shortcuts []Shortcut) (*Hierarchy, error) {
	n := g.NodeCount()
	if err := validOrder(order, n); err != nil {
		return nil, err
	}
	h := &Hierarchy{
		Rank:      make([]int, n),
		Order:     order,
		Graph:     graph.NewAdjacencyArrayFromGraph(g),
		shortcuts: shortcuts,
		via:       make(map[shortcutKey]graph.NodeId, len(shortcuts)),
	}
	for rank, v := range order {
		h.Rank[v] = rank
	}
	for _, sc := range shortcuts {
		if sc.Source < 0 || sc.Source >= n || sc.Target < 0 || sc.Target >= n || sc.Via < 0 || sc.Via >= n {
			return nil, fmt.Errorf("%w: %v -> %v via %v", ErrInvalidShortcut, sc.Source, sc.Target, sc.Via)
		}
		h.via[shortcutKey{sc.Source, sc.Target}] = sc.Via
	}

	up := graph.NewAdjacencyListGraph()
	down := graph.NewAdjacencyListGraph()
	for _, p := range g.GetNodes() {
		up.AddNode(p)
		down.AddNode(p)
	}
	for u := 0; u < n; u++ {
		for _, arc := range g.GetArcsFrom(u) {
			switch {
			case h.Rank[arc.To] > h.Rank[u]:
				up.AddArc(u, arc.To, arc.Distance)
			case h.Rank[arc.To] < h.Rank[u]:
				down.AddArc(arc.To, u, arc.Distance)
			}
		}
	}
	h.Up = graph.NewAdjacencyArrayFromGraph(up)
	h.Down = graph.NewAdjacencyArrayFromGraph(down)
	return h, nil
}

func (h *Hierarchy) NodeCount() int        { return h.Graph.NodeCount() }
func (h *Hierarchy) Shortcuts() []Shortcut { return h.shortcuts }

// Unpack replaces every shortcut of path by the path it stands for
func (h *Hierarchy) Unpack(path []pool.NodeID) []pool.NodeID {
	if len(path) < 2 {
		return path
	}
	unpacked := make([]pool.NodeID, len(path))
	copy(unpacked, path)
	for i := 0; i < len(unpacked)-1; i++ {
		via, ok := h.via[shortcutKey{int(unpacked[i]), int(unpacked[i+1])}]
		if ok {
			unpacked = slice.Insert(unpacked, i+1, pool.NodeID(via))
			// the inserted node may start another shortcut
			i--
		}
	}
	return unpacked
}

func (h *Hierarchy) Mem() uintptr {
	return unsafe.Sizeof(*h) + uintptr(len(h.Rank)+len(h.Order))*unsafe.Sizeof(int(0)) +
		h.Graph.Mem() + h.Up.Mem() + h.Down.Mem() +
		uintptr(len(h.shortcuts))*unsafe.Sizeof(Shortcut{})
}

// WriteFiles stores the hierarchy as fmi graph, shortcut and node order files
func (h *Hierarchy) WriteFiles(graphFile, shortcutFile, orderFile string) error {
	var eg errgroup.Group
	eg.Go(func() error { return graph.WriteFmi(h.Graph, graphFile) })
	eg.Go(func() error { return writeFile(shortcutFile, h.writeShortcuts) })
	eg.Go(func() error { return writeFile(orderFile, h.writeOrder) })
	return eg.Wait()
}

func writeFile(filename string, write func(w io.Writer) error) error {
	w, err := fileio.Create(filename)
	if err != nil {
		return err
	}
	if err := write(w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// one shortcut per line: "source target via cost"
func (h *Hierarchy) writeShortcuts(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, sc := range h.shortcuts {
		if _, err := fmt.Fprintf(bw, "%v %v %v %v\n", sc.Source, sc.Target, sc.Via, sc.Cost); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// one node per line, lowest rank first
func (h *Hierarchy) writeOrder(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, v := range h.Order {
		if _, err := fmt.Fprintf(bw, "%v\n", v); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// LoadHierarchy reads the files written by WriteFiles
func LoadHierarchy(ctx context.Context, graphFile, shortcutFile, orderFile string) (*Hierarchy, error) {
	var (
		g         *graph.AdjacencyArrayGraph
		shortcuts []Shortcut
		order     []graph.NodeId
	)
	eg, _ := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		g, err = graph.NewAdjacencyArrayFromFmiFile(graphFile)
		return err
	})
	eg.Go(func() (err error) {
		shortcuts, err = readFile(shortcutFile, ReadShortcuts)
		return err
	})
	eg.Go(func() (err error) {
		order, err = readFile(orderFile, ReadOrder)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return NewHierarchy(g, order, shortcuts)
}

func readFile[T any](filename string, read func(io.Reader) (T, error)) (T, error) {
	r, err := fileio.Open(filename)
	if err != nil {
		var zero T
		return zero, err
	}
	defer r.Close()
	return read(r)
}

// ReadShortcuts parses lines "source target via [cost]"
func ReadShortcuts(r io.Reader) ([]Shortcut, error) {
	var shortcuts []Shortcut
	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		if len(fields) != 3 && len(fields) != 4 {
			return nil, fmt.Errorf("%w: line %v", ErrInvalidShortcut, line)
		}
		values := make([]int, len(fields))
		for i, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("%w: line %v: %v", ErrInvalidShortcut, line, err)
			}
			values[i] = v
		}
		sc := Shortcut{Source: values[0], Target: values[1], Via: values[2]}
		if len(values) == 4 {
			sc.Cost = values[3]
		}
		shortcuts = append(shortcuts, sc)
	}
	return shortcuts, scanner.Err()
}

// ReadOrder parses node ids, lowest rank first. A line may hold several ids.
func ReadOrder(r io.Reader) ([]graph.NodeId, error) {
	var order []graph.NodeId
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		for _, f := range strings.Fields(scanner.Text()) {
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidOrder, err)
			}
			order = append(order, v)
		}
	}
	return order, scanner.Err()
}
