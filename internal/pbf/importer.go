// Package pbf imports the road network of an OpenStreetMap extract.
package pbf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmxml"
	"github.com/qedus/osmpbf"

	"github.com/natevvv/bestfirst/pkg/fileio"
	"github.com/natevvv/bestfirst/pkg/logging"
	"github.com/natevvv/bestfirst/pkg/road"
)

var ErrUnsupportedFormat = errors.New("pbf: unsupported file format")

// objects between two context checks
const checkInterval = 1 << 14

type RoadImporter struct {
	filename string
	network  *road.Network
	logger   *logging.Logger
}

func NewRoadImporter(filename string, logger *logging.Logger) *RoadImporter {
	if logger == nil {
		logger = logging.Noop()
	}
	return &RoadImporter{
		filename: filename,
		network:  road.NewNetwork(),
		logger:   logger.WithComponent("import"),
	}
}

func (ri *RoadImporter) Network() *road.Network { return ri.network }

// Import reads .osm.pbf files with the pbf decoder and .osm files (optionally compressed) as xml
func (ri *RoadImporter) Import(ctx context.Context) error {
	switch {
	case strings.HasSuffix(ri.filename, ".pbf"):
		return ri.importPBF(ctx)
	case strings.Contains(ri.filename, ".osm"):
		r, err := fileio.Open(ri.filename)
		if err != nil {
			return err
		}
		defer r.Close()
		return ri.ImportXML(ctx, r)
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, ri.filename)
}

// ImportXML reads an OSM xml document. Nodes precede the ways in xml extracts,
// so all node locations are kept until the graph gets built.
func (ri *RoadImporter) ImportXML(ctx context.Context, r io.Reader) error {
	scanner := osmxml.New(ctx, r)
	defer scanner.Close()

	nodes, ways := 0, 0
	for scanner.Scan() {
		switch o := scanner.Object().(type) {
		case *osm.Node:
			ri.network.SetLocation(int64(o.ID), orb.Point{o.Lon, o.Lat})
			nodes++
		case *osm.Way:
			ids := make([]int64, 0, len(o.Nodes))
			for _, wn := range o.Nodes {
				ids = append(ids, int64(wn.ID))
			}
			tags := make(map[string]string, len(o.Tags))
			for _, tag := range o.Tags {
				tags[tag.Key] = tag.Value
			}
			if s := road.NewSegment(int64(o.ID), ids, tags); s != nil {
				ri.network.AddSegment(s)
				ways++
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read osm xml: %w", err)
	}
	ri.logger.Info("imported xml", "nodes", nodes, "roads", ways)
	return nil
}

// importPBF decodes the file twice: the ways first, then the locations of the nodes they use
func (ri *RoadImporter) importPBF(ctx context.Context) error {
	ways := 0
	err := ri.decode(ctx, func(v any) {
		if w, ok := v.(*osmpbf.Way); ok {
			if s := road.NewSegment(w.ID, w.NodeIDs, w.Tags); s != nil {
				ri.network.AddSegment(s)
				ways++
			}
		}
	})
	if err != nil {
		return err
	}
	ri.logger.Info("collected roads", "roads", ways)

	nodes := 0
	err = ri.decode(ctx, func(v any) {
		if n, ok := v.(*osmpbf.Node); ok && ri.network.Uses(n.ID) {
			ri.network.SetLocation(n.ID, orb.Point{n.Lon, n.Lat})
			nodes++
		}
	})
	if err != nil {
		return err
	}
	ri.logger.Info("collected nodes", "nodes", nodes)
	return nil
}

func (ri *RoadImporter) decode(ctx context.Context, handle func(v any)) error {
	file, err := os.Open(ri.filename)
	if err != nil {
		return err
	}
	defer file.Close()

	decoder := osmpbf.NewDecoder(file)
	decoder.SetBufferSize(osmpbf.MaxBlobSize)
	if err := decoder.Start(runtime.GOMAXPROCS(-1)); err != nil {
		return err
	}

	for i := 0; ; i++ {
		if i%checkInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		v, err := decoder.Decode()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("decode %s: %w", ri.filename, err)
		}
		handle(v)
	}
}
