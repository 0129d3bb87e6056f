// Package road holds the highway segments read from OpenStreetMap and turns them into a routing graph.
package road

import (
	"strings"
)

type Class int

const (
	Unknown Class = iota
	Motorway
	Trunk
	Primary
	Secondary
	Tertiary
	Unclassified
	Residential
	Service
)

var classNames = []string{"unknown", "motorway", "trunk", "primary", "secondary", "tertiary", "unclassified", "residential", "service"}

func (c Class) String() string {
	if c < 0 || int(c) >= len(classNames) {
		return classNames[Unknown]
	}
	return classNames[c]
}

// ParseClass maps the value of a highway tag to a class. Link roads belong to the class they connect.
func ParseClass(highway string) Class {
	highway = strings.TrimSuffix(highway, "_link")
	for i, name := range classNames {
		if name == highway {
			return Class(i)
		}
	}
	return Unknown
}

// Direction of travel along a segment
type Direction int

const (
	Both Direction = iota
	Forward
	Backward
)

// Segment is an OSM way restricted to its node references and the tags needed for routing
type Segment struct {
	ID        int64
	Class     Class
	NodeIDs   []int64
	Direction Direction
	MaxSpeed  int // km/h, 0 if unknown
	Name      string
}

// NewSegment interprets the tags of a way. It returns nil for ways which are no roads of a known class.
func NewSegment(id int64, nodeIDs []int64, tags map[string]string) *Segment {
	class := ParseClass(tags["highway"])
	if class == Unknown || len(nodeIDs) < 2 {
		return nil
	}
	return &Segment{
		ID:        id,
		Class:     class,
		NodeIDs:   nodeIDs,
		Direction: direction(class, tags["oneway"]),
		MaxSpeed:  maxSpeed(tags["maxspeed"]),
		Name:      tags["name"],
	}
}

func direction(class Class, oneway string) Direction {
	switch oneway {
	case "yes", "true", "1":
		return Forward
	case "-1", "reverse":
		return Backward
	case "no", "false", "0":
		return Both
	}
	if class == Motorway {
		return Forward
	}
	return Both
}

// maxSpeed parses plain km/h values and mph values, everything else is unknown
func maxSpeed(tag string) int {
	value, mph := strings.CutSuffix(strings.TrimSpace(tag), " mph")
	speed := 0
	for _, c := range value {
		if c < '0' || c > '9' {
			return 0
		}
		speed = speed*10 + int(c-'0')
	}
	if mph {
		speed = speed * 1609 / 1000
	}
	return speed
}
