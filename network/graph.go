package network

import (
	"fmt"

	"github.com/notargets/sv1d/types"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/graph/traverse"
	"gonum.org/v1/gonum/spatial/r3"
)

// TerminalKind classifies a centerline group
type TerminalKind uint8

const (
	Internal TerminalKind = iota
	Outlet
	Bifurcation
)

func (k TerminalKind) String() string {
	return [...]string{"internal", "outlet", "bifurcation"}[k]
}

// Segment is one non-bifurcating vessel piece of the reduced network. Length
// includes the length of the bifurcation region downstream of it.
type Segment struct {
	ID         int
	GroupID    int
	Length     float64
	InletArea  float64
	OutletArea float64
	HeadNode   int
	RearNode   int
	Kind       TerminalKind
	PathID     int  // Path ending in this segment, outlets only
	Synthetic  bool // Inserted when splitting a wide bifurcation
}

type Node struct {
	ID          int
	Coordinates r3.Vec
}

// Joint connects a parent segment to the segments downstream of one bifurcation
type Joint struct {
	ID                int
	NodeID            int
	ParentSegment     int
	ChildSegments     []int
	BifurcationGroup  int
	BifurcationLength float64 // Folded into the parent, scaled
	Tangent           r3.Vec  // Unit direction through the bifurcation
}

// MaxJointChildren is the widest joint left in place by ReorganizeWideBifurcations.
// A connectivity entry holding the parent and more than three children (length > 4)
// marks the classic threshold; every joint with more than two children is split so
// that no joint is left with more than two.
const MaxJointChildren = 2

// Wide is true for a joint with more than MaxJointChildren children
func (j Joint) Wide() bool { return len(j.ChildSegments) > MaxJointChildren }

// SegmentGraph is the reduced network derived from a branched centerline
type SegmentGraph struct {
	Segments []Segment
	Nodes    []Node
	Joints   []Joint

	NumPaths     int
	GroupKinds   []TerminalKind // Indexed by group id
	GroupSegment []int          // Segment of each group, -1 for bifurcations

	LengthCoef, AreaCoef float64
}

// Outlets returns the outlet segments indexed by path id
func (g *SegmentGraph) Outlets() (outlets []*Segment) {
	outlets = make([]*Segment, g.NumPaths)
	for i := range g.Segments {
		if seg := &g.Segments[i]; seg.Kind == Outlet && seg.PathID >= 0 && seg.PathID < g.NumPaths {
			outlets[seg.PathID] = seg
		}
	}
	return
}

// Children returns the segments downstream of seg, nil for an outlet
func (g *SegmentGraph) Children(seg int) []int {
	for _, j := range g.Joints {
		if j.ParentSegment == seg {
			return j.ChildSegments
		}
	}
	return nil
}

// TotalLength sums the segment lengths
func (g *SegmentGraph) TotalLength() (length float64) {
	for _, seg := range g.Segments {
		length += seg.Length
	}
	return
}

// Clone returns a deep copy
func (g *SegmentGraph) Clone() *SegmentGraph {
	ng := *g
	ng.Segments = append([]Segment(nil), g.Segments...)
	ng.Nodes = append([]Node(nil), g.Nodes...)
	ng.GroupKinds = append([]TerminalKind(nil), g.GroupKinds...)
	ng.GroupSegment = append([]int(nil), g.GroupSegment...)
	ng.Joints = make([]Joint, len(g.Joints))
	for i, j := range g.Joints {
		j.ChildSegments = append([]int(nil), j.ChildSegments...)
		ng.Joints[i] = j
	}
	return &ng
}

// directed returns the parent to child segment relation as a gonum graph
func (g *SegmentGraph) directed() *simple.DirectedGraph {
	dg := simple.NewDirectedGraph()
	for _, seg := range g.Segments {
		dg.AddNode(simple.Node(seg.ID))
	}
	for _, j := range g.Joints {
		for _, child := range j.ChildSegments {
			if child == j.ParentSegment {
				continue
			}
			dg.SetEdge(dg.NewEdge(simple.Node(j.ParentSegment), simple.Node(child)))
		}
	}
	return dg
}

// Validate checks that the segment relation is a tree rooted at segment 0: no
// cycles, every segment reachable, one parent per segment and consistent node ids.
func (g *SegmentGraph) Validate() error {
	if len(g.Segments) == 0 {
		return types.NewTopologyError("empty", "network has no segments")
	}
	parents := make(map[int]int)
	for _, j := range g.Joints {
		if j.NodeID != g.Segments[j.ParentSegment].RearNode {
			return types.NewTopologyError("joint-node",
				"joint %d at node %d, parent segment %d ends at node %d",
				j.ID, j.NodeID, j.ParentSegment, g.Segments[j.ParentSegment].RearNode)
		}
		for _, child := range j.ChildSegments {
			if child == j.ParentSegment {
				return types.NewTopologyError("acyclic", "segment %d is its own child", child)
			}
			if p, dup := parents[child]; dup {
				return types.NewTopologyError("parent-unique",
					"segment %d has parents %d and %d", child, p, j.ParentSegment)
			}
			parents[child] = j.ParentSegment
			if g.Segments[child].HeadNode != j.NodeID {
				return types.NewTopologyError("joint-node",
					"segment %d starts at node %d, joint %d is at node %d",
					child, g.Segments[child].HeadNode, j.ID, j.NodeID)
			}
		}
	}
	dg := g.directed()
	if _, err := topo.Sort(dg); err != nil {
		return types.NewTopologyError("acyclic", "segment graph has a cycle: %v", err)
	}
	var visited int
	bf := traverse.BreadthFirst{
		Visit: func(graph.Node) { visited++ },
	}
	bf.Walk(dg, simple.Node(g.Segments[0].ID), nil)
	if visited != len(g.Segments) {
		return types.NewTopologyError("reachable",
			"%d of %d segments reachable from the inlet segment", visited, len(g.Segments))
	}
	return nil
}

func (g *SegmentGraph) String() string {
	return fmt.Sprintf("%d segments, %d nodes, %d joints, %d outlets",
		len(g.Segments), len(g.Nodes), len(g.Joints), g.NumPaths)
}
