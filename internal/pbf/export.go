package pbf

import (
	"encoding/json"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/natevvv/bestfirst/pkg/fileio"
	"github.com/natevvv/bestfirst/pkg/road"
)

// RoadFeatures returns the located parts of all segments as GeoJSON line strings
func RoadFeatures(n *road.Network) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, s := range n.Segments() {
		line := make(orb.LineString, 0, len(s.NodeIDs))
		for _, id := range s.NodeIDs {
			if p, ok := n.Location(id); ok {
				line = append(line, p)
			}
		}
		if len(line) < 2 {
			continue
		}
		f := geojson.NewFeature(line)
		f.ID = s.ID
		f.Properties["class"] = s.Class.String()
		f.Properties["oneway"] = s.Direction != road.Both
		if s.Name != "" {
			f.Properties["name"] = s.Name
		}
		if s.MaxSpeed > 0 {
			f.Properties["maxspeed"] = s.MaxSpeed
		}
		fc.Append(f)
	}
	return fc
}

// ExportRoadGeoJSON writes the road network to filename, compressed according to its extension
func ExportRoadGeoJSON(n *road.Network, filename string) error {
	w, err := fileio.Create(filename)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(w).Encode(RoadFeatures(n)); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
