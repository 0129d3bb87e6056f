package search

import (
	"fmt"
	"math"

	"github.com/natevvv/bestfirst/pkg/pool"
)

// ResumeMode controls if a bidirectional search keeps its forward exploration between queries.
type ResumeMode int

const (
	// every query starts from scratch
	ResumeFresh ResumeMode = iota
	// the query starts from scratch, but its forward exploration may be reused by the next query
	ResumeResumable
	// the query continues the forward exploration of the previous query with the same start.
	// Only sound if the heuristic is valid for every target of the sequence (e.g. zero heuristic).
	ResumeResumed
)

func (m ResumeMode) String() string {
	switch m {
	case ResumeFresh:
		return "fresh"
	case ResumeResumable:
		return "resumable"
	case ResumeResumed:
		return "resumed"
	}
	return fmt.Sprintf("ResumeMode(%d)", int(m))
}

// Context hands out the instance ids for all searches sharing node pools.
// Ids must never repeat for the same pool, so every engine working on the same
// pools has to draw its instances from the same Context.
// A Context is owned by one goroutine at a time.
type Context struct {
	counter uint32
	mode    ResumeMode
}

func NewContext() *Context {
	return &Context{}
}

func (c *Context) SetResumeMode(mode ResumeMode) { c.mode = mode }
func (c *Context) ResumeMode() ResumeMode        { return c.mode }

// LastInstanceID returns the id of the most recently created instance (0 if none)
func (c *Context) LastInstanceID() uint32 { return c.counter }

// NewInstance creates a problem instance with a fresh id and the current resume mode
func (c *Context) NewInstance(start, target pool.NodeID) *ProblemInstance {
	pi := &ProblemInstance{Start: start, Target: target}
	c.Renew(pi)
	return pi
}

// Renew assigns a fresh id to an existing instance, e.g. to repeat a query
func (c *Context) Renew(pi *ProblemInstance) {
	if c.counter == math.MaxUint32 {
		panic("search: instance ids exhausted")
	}
	c.counter++
	pi.InstanceID = c.counter
	pi.Mode = c.mode
}

// ProblemInstance describes a single query.
// Target may be pool.NoNode for searches without a goal (e.g. one-to-all).
type ProblemInstance struct {
	Start      pool.NodeID
	Target     pool.NodeID
	InstanceID uint32
	Verbose    bool
	Mode       ResumeMode
}

func (pi *ProblemInstance) String() string {
	return fmt.Sprintf("problem instance %v: %v -> %v (%v)", pi.InstanceID, pi.Start, pi.Target, pi.Mode)
}
