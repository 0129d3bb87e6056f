package server

import (
	"github.com/paulmach/orb"
)

type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func NewPoint(p orb.Point) Point { return Point{Lat: p.Lat(), Lon: p.Lon()} }
func (p Point) Orb() orb.Point   { return orb.Point{p.Lon, p.Lat} }

func points(ps []orb.Point) []Point {
	result := make([]Point, 0, len(ps))
	for _, p := range ps {
		result = append(result, NewPoint(p))
	}
	return result
}

// AssertPointRequired checks if the coordinates are inside their valid range
func AssertPointRequired(obj Point) error {
	if obj.Lat < -90 || obj.Lat > 90 {
		return &RequiredError{Field: "lat"}
	}
	if obj.Lon < -180 || obj.Lon > 180 {
		return &RequiredError{Field: "lon"}
	}
	return nil
}

type RouteRequest struct {
	Origin      Point `json:"origin"`
	Destination Point `json:"destination"`
}

// AssertRouteRequestRequired checks if the required fields are not zero-ed
func AssertRouteRequestRequired(obj RouteRequest) error {
	elements := map[string]interface{}{
		"origin":      obj.Origin,
		"destination": obj.Destination,
	}
	for name, el := range elements {
		if isZero := IsZeroValue(el); isZero {
			return &RequiredError{Field: name}
		}
	}
	if err := AssertPointRequired(obj.Origin); err != nil {
		return err
	}
	return AssertPointRequired(obj.Destination)
}

type Path struct {
	Length    int     `json:"length"`
	Waypoints []Point `json:"waypoints"`
}

type RouteResult struct {
	Origin      Point  `json:"origin"`
	Destination Point  `json:"destination"`
	Reachable   bool   `json:"reachable"`
	Path        *Path  `json:"path,omitempty"`
	Navigator   string `json:"navigator"`
	Expanded    int    `json:"expanded"`
	Elapsed     string `json:"elapsed"`
}

type Nodes struct {
	Waypoints []Point `json:"waypoints"`
}

type NavigatorRequest struct {
	Navigator string `json:"navigator"`
}

func AssertNavigatorRequestRequired(obj NavigatorRequest) error {
	elements := map[string]interface{}{
		"navigator": obj.Navigator,
	}
	for name, el := range elements {
		if isZero := IsZeroValue(el); isZero {
			return &RequiredError{Field: name}
		}
	}
	return nil
}

type NavigatorResult struct {
	Navigator string   `json:"navigator"`
	Available []string `json:"available"`
}
