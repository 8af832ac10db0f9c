package network

import (
	"math"

	"github.com/notargets/sv1d/centerline"
	"github.com/notargets/sv1d/spatial"
	"github.com/notargets/sv1d/types"
	"github.com/notargets/sv1d/utils"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"
)

// Builder reduces a branched centerline to a SegmentGraph
type Builder struct {
	Logger utils.Logger
}

func NewBuilder(logger utils.Logger) *Builder {
	return &Builder{Logger: utils.OrDiscard(logger)}
}

type bifurcation struct {
	group  int
	parent int // Parent segment
}

// BuildGraph classifies the groups, assigns one segment per non bifurcation group,
// discovers parent to child connectivity through the tract convention (parent's
// last tract +1 is the bifurcation cell, +2 the first child cell), computes scaled
// lengths and areas and places the nodes. Structural violations return a
// *types.TopologyError and no graph.
func (b *Builder) BuildGraph(cl *centerline.Centerlines, lengthCoef, areaCoef float64) (g *SegmentGraph, err error) {
	log := utils.OrDiscard(b.Logger)
	g = &SegmentGraph{
		NumPaths:     cl.NumPaths,
		GroupKinds:   make([]TerminalKind, cl.NumGroups),
		GroupSegment: make([]int, cl.NumGroups),
		LengthCoef:   lengthCoef,
		AreaCoef:     areaCoef,
	}
	if err = b.classify(cl, g); err != nil {
		return nil, err
	}

	// One segment per non bifurcation group, in group order
	for group, kind := range g.GroupKinds {
		g.GroupSegment[group] = -1
		if kind == Bifurcation {
			continue
		}
		seg := Segment{ID: len(g.Segments), GroupID: group, Kind: kind, PathID: -1}
		if kind == Outlet {
			seg.PathID = cl.CenterlineID(cl.GroupElements(group)[0])
		}
		g.GroupSegment[group] = seg.ID
		g.Segments = append(g.Segments, seg)
	}
	if g.GroupSegment[0] != 0 {
		return nil, types.NewTopologyError("inlet-group", "inlet group 0 is a bifurcation")
	}

	bifs, err := b.connect(cl, g)
	if err != nil {
		return nil, err
	}
	for group, kind := range g.GroupKinds {
		if kind == Bifurcation && bifs[group].parent < 0 {
			return nil, types.NewTopologyError("bifurcation-parent",
				"bifurcation group %d follows no segment", group)
		}
	}

	for i := range g.Segments {
		seg := &g.Segments[i]
		cells := cl.GroupElements(seg.GroupID)
		seg.Length = meanOver(cells, cl.CellLength) * lengthCoef
		seg.InletArea = meanOver(cells, func(c int) float64 { return circleArea(cl.FirstRadius(c)) }) * areaCoef
		seg.OutletArea = meanOver(cells, func(c int) float64 { return circleArea(cl.LastRadius(c)) }) * areaCoef
		if seg.InletArea < seg.OutletArea {
			log.Printf("warning: segment %d (group %d) inlet area %g < outlet area %g, using outlet area",
				seg.ID, seg.GroupID, seg.InletArea, seg.OutletArea)
			seg.InletArea = seg.OutletArea
		}
	}
	for k := range g.Joints {
		j := &g.Joints[k]
		cells := cl.GroupElements(j.BifurcationGroup)
		j.BifurcationLength = meanOver(cells, cl.CellLength) * lengthCoef
		j.Tangent = bifurcationTangent(cl, cells)
		g.Segments[j.ParentSegment].Length += j.BifurcationLength
	}
	b.placeNodes(cl, g)
	if err = g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func (b *Builder) classify(cl *centerline.Centerlines, g *SegmentGraph) error {
	var (
		numOutlets, maxCount int
	)
	for group := 0; group < cl.NumGroups; group++ {
		cells := cl.GroupElements(group)
		switch {
		case len(cells) == 0:
			return types.NewTopologyError("group-empty", "group %d has no cells", group)
		case cl.GroupBlanked(group):
			g.GroupKinds[group] = Bifurcation
		case len(cells) == 1:
			g.GroupKinds[group] = Outlet
			numOutlets++
		default:
			if np := len(cl.GroupPaths(group)); np != len(cells) {
				return types.NewTopologyError("group-paths",
					"group %d has %d cells on %d paths", group, len(cells), np)
			}
			g.GroupKinds[group] = Internal
		}
		if len(cells) > maxCount {
			maxCount = len(cells)
		}
	}
	inletCount := len(cl.GroupElements(0))
	if numOutlets != cl.NumPaths || inletCount != maxCount || inletCount != cl.NumPaths {
		return types.NewTopologyError("inlet-group",
			"inlet group id is not 0 or path count mismatch: %d outlet groups, %d paths, group 0 has %d cells, largest group %d",
			numOutlets, cl.NumPaths, inletCount, maxCount)
	}
	return nil
}

// connect walks every path of each internal group two tracts past the group's last
// cell on that path to find the bifurcation cell and the first child cell.
func (b *Builder) connect(cl *centerline.Centerlines, g *SegmentGraph) (bifs map[int]*bifurcation, err error) {
	log := utils.OrDiscard(b.Logger)
	bifs = make(map[int]*bifurcation)
	for group, kind := range g.GroupKinds {
		if kind == Bifurcation {
			bifs[group] = &bifurcation{group: group, parent: -1}
		}
	}
	parentOf := make(map[int]int)
	for _, parent := range g.Segments {
		if parent.Kind != Internal {
			continue
		}
		var (
			children []int
			bifGroup = -1
		)
		for _, path := range cl.GroupPaths(parent.GroupID) {
			last := -1
			for _, cell := range cl.GroupElements(parent.GroupID) {
				if cl.CenterlineID(cell) == path && (last < 0 || cl.TractID(cell) > cl.TractID(last)) {
					last = cell
				}
			}
			tract := cl.TractID(last)
			bifCell, ok := cl.CellAt(path, tract+1)
			if !ok || !cl.Blanked(bifCell) {
				return nil, types.NewTopologyError("tract-convention",
					"path %d: no bifurcation cell at tract %d after group %d", path, tract+1, parent.GroupID)
			}
			childCell, ok := cl.CellAt(path, tract+2)
			if !ok || cl.Blanked(childCell) {
				return nil, types.NewTopologyError("tract-convention",
					"path %d: no branch cell at tract %d after group %d", path, tract+2, parent.GroupID)
			}
			switch bg := cl.GroupID(bifCell); {
			case bifGroup < 0:
				bifGroup = bg
			case bg != bifGroup:
				return nil, types.NewTopologyError("bifurcation-group",
					"group %d is followed by bifurcation groups %d and %d", parent.GroupID, bifGroup, bg)
			}
			child := g.GroupSegment[cl.GroupID(childCell)]
			if contains(children, child) {
				continue
			}
			if p, dup := parentOf[child]; dup && p != parent.ID {
				return nil, types.NewTopologyError("parent-unique",
					"segment %d follows segments %d and %d", child, p, parent.ID)
			}
			parentOf[child] = parent.ID
			children = append(children, child)
		}
		bf := bifs[bifGroup]
		if bf.parent >= 0 {
			return nil, types.NewTopologyError("bifurcation-parent",
				"bifurcation group %d follows segments %d and %d", bifGroup, bf.parent, parent.ID)
		}
		bf.parent = parent.ID
		if len(children) != 2 {
			log.Printf("warning: segment %d (group %d) has %d children %v",
				parent.ID, parent.GroupID, len(children), children)
		}
		g.Joints = append(g.Joints, Joint{
			ID:               len(g.Joints),
			ParentSegment:    parent.ID,
			ChildSegments:    children,
			BifurcationGroup: bifGroup,
		})
	}
	for _, seg := range g.Segments[1:] {
		if _, ok := parentOf[seg.ID]; !ok {
			return nil, types.NewTopologyError("parent-unique",
				"segment %d (group %d) follows no segment", seg.ID, seg.GroupID)
		}
	}
	return
}

// placeNodes puts the root node at the first point of path 0 and one node at the
// end of every segment's group; head nodes follow the parent's rear node.
func (b *Builder) placeNodes(cl *centerline.Centerlines, g *SegmentGraph) {
	log := utils.OrDiscard(b.Logger)
	g.Nodes = append(g.Nodes[:0], Node{ID: 0, Coordinates: cl.FirstPoint(cl.PathElements(0)[0])})
	for i := range g.Segments {
		seg := &g.Segments[i]
		cells := cl.GroupElements(seg.GroupID)
		seg.RearNode = len(g.Nodes)
		g.Nodes = append(g.Nodes, Node{ID: seg.RearNode, Coordinates: cl.LastPoint(cells[len(cells)-1])})
	}
	for k := range g.Joints {
		j := &g.Joints[k]
		j.NodeID = g.Segments[j.ParentSegment].RearNode
		for _, child := range j.ChildSegments {
			g.Segments[child].HeadNode = j.NodeID
		}
	}

	coords := make([]r3.Vec, len(g.Nodes))
	for i, nd := range g.Nodes {
		coords[i] = nd.Coordinates
	}
	for _, d := range spatial.FindDuplicates(coords) {
		log.Printf("warning: node %d coincides with node %d at %v", d.ID, d.FirstID, d.Point)
	}
}

func meanOver(cells []int, f func(cell int) float64) float64 {
	vals := make([]float64, len(cells))
	for i, c := range cells {
		vals[i] = f(c)
	}
	return stat.Mean(vals, nil)
}

func circleArea(r float64) float64 { return math.Pi * r * r }

// bifurcationTangent is the normalized mean direction from first to last point of
// the bifurcation cells.
func bifurcationTangent(cl *centerline.Centerlines, cells []int) r3.Vec {
	var sum r3.Vec
	for _, c := range cells {
		d := r3.Sub(cl.LastPoint(c), cl.FirstPoint(c))
		if n := r3.Norm(d); n > 0 {
			sum = r3.Add(sum, r3.Scale(1/n, d))
		}
	}
	if n := r3.Norm(sum); n > 0 {
		return r3.Scale(1/n, sum)
	}
	return r3.Vec{}
}

func contains(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
