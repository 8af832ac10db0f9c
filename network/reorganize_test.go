package network

import (
	"testing"

	"github.com/notargets/sv1d/centerline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestReorganizeDisabled(t *testing.T) {
	g, err := NewBuilder(nil).BuildGraph(trifurcation(t), 1, 1)
	require.NoError(t, err)

	same, err := ReorganizeWideBifurcations(g, false)
	require.NoError(t, err)
	assert.Same(t, g, same)
	assert.True(t, same.Joints[0].Wide())
}

func TestReorganizeNarrowIsUnchanged(t *testing.T) {
	cl, err := centerline.YShape(3, 3, 1.0)
	require.NoError(t, err)
	g, err := NewBuilder(nil).BuildGraph(cl, 0.1, 0.01)
	require.NoError(t, err)

	same, err := ReorganizeWideBifurcations(g, true)
	require.NoError(t, err)
	assert.Same(t, g, same)
}

func TestReorganizeTrifurcation(t *testing.T) {
	g, err := NewBuilder(nil).BuildGraph(trifurcation(t), 0.5, 1)
	require.NoError(t, err)
	require.Len(t, g.Segments, 4)
	before := g.TotalLength()

	ng, err := ReorganizeWideBifurcations(g, true)
	require.NoError(t, err)

	// input untouched
	assert.Len(t, g.Segments, 4)
	assert.InDelta(t, (2+1)*0.5, g.Segments[0].Length, 1e-12)

	require.Len(t, ng.Segments, 5)
	require.Len(t, ng.Nodes, 6)
	require.Len(t, ng.Joints, 2)
	for i, j := range ng.Joints {
		assert.Equal(t, i, j.ID)
		assert.Len(t, j.ChildSegments, 2)
		assert.False(t, j.Wide())
	}
	assert.InDelta(t, before, ng.TotalLength(), 1e-12)

	parent, syn := ng.Segments[0], ng.Segments[4]
	assert.InDelta(t, 2*0.5, parent.Length, 1e-12)
	assert.True(t, syn.Synthetic)
	assert.Equal(t, Internal, syn.Kind)
	assert.Equal(t, 1, syn.GroupID)
	assert.InDelta(t, 0.5, syn.Length, 1e-12)
	assert.Equal(t, parent.OutletArea, syn.InletArea)

	// the synthetic node sits one raw bifurcation length down the tangent
	assert.Equal(t, r3.Vec{X: 3}, ng.Nodes[syn.RearNode].Coordinates)

	assert.Equal(t, Joint{ID: 0, NodeID: parent.RearNode, ParentSegment: 0, ChildSegments: []int{1, 4},
		BifurcationGroup: 1, Tangent: r3.Vec{X: 1}}, ng.Joints[0])
	assert.Equal(t, []int{2, 3}, ng.Joints[1].ChildSegments)
	assert.Equal(t, 4, ng.Joints[1].ParentSegment)
	assert.Equal(t, syn.RearNode, ng.Segments[2].HeadNode)
	assert.Equal(t, syn.RearNode, ng.Segments[3].HeadNode)
	assert.Equal(t, parent.RearNode, ng.Segments[1].HeadNode)
	assert.NoError(t, ng.Validate())
}

func TestReorganizeFourChildren(t *testing.T) {
	var (
		ex     = r3.Vec{X: 1}
		pieces []centerline.Piece
	)
	for path, dir := range []r3.Vec{{Y: 1}, {Y: -1}, {Z: 1}, {Z: -1}} {
		pieces = append(pieces,
			centerline.Piece{Path: path, Group: 0, Tract: 0, Points: line(r3.Vec{}, ex, 2)},
			centerline.Piece{Path: path, Group: 1, Tract: 1, Blanked: true, Points: line(ex, ex, 3)},
			centerline.Piece{Path: path, Group: 2 + path, Tract: 2, Points: line(r3.Vec{X: 3}, dir, 2)},
		)
	}
	cl, err := centerline.Assemble(pieces, centerline.UniformRadius(1))
	require.NoError(t, err)
	g, err := NewBuilder(nil).BuildGraph(cl, 1, 1)
	require.NoError(t, err)

	ng, err := ReorganizeWideBifurcations(g, true)
	require.NoError(t, err)
	require.Len(t, ng.Joints, 3)
	require.Len(t, ng.Segments, 7)
	assert.InDelta(t, g.TotalLength(), ng.TotalLength(), 1e-12)
	assert.Equal(t, []int{1, 5}, ng.Joints[0].ChildSegments)
	assert.Equal(t, []int{2, 6}, ng.Joints[1].ChildSegments)
	assert.Equal(t, []int{3, 4}, ng.Joints[2].ChildSegments)
	assert.InDelta(t, 1.0, ng.Segments[5].Length, 1e-12)
	assert.Equal(t, r3.Vec{X: 2}, ng.Nodes[ng.Segments[5].RearNode].Coordinates)
	assert.Equal(t, r3.Vec{X: 3}, ng.Nodes[ng.Segments[6].RearNode].Coordinates)
}

func TestReorganizeKeepsInputJoints(t *testing.T) {
	g := &SegmentGraph{
		NumPaths:   4,
		LengthCoef: 1,
		AreaCoef:   1,
	}
	for i := 0; i < 7; i++ {
		g.Nodes = append(g.Nodes, Node{ID: i, Coordinates: r3.Vec{X: float64(i)}})
	}
	for i, hr := range [][2]int{{0, 1}, {1, 2}, {1, 3}, {2, 4}, {2, 5}, {2, 6}} {
		kind := Outlet
		if i < 2 {
			kind = Internal
		}
		g.Segments = append(g.Segments, Segment{ID: i, Length: 3, InletArea: 1, OutletArea: 1,
			HeadNode: hr[0], RearNode: hr[1], Kind: kind, PathID: -1})
	}
	g.Joints = []Joint{
		{ID: 0, NodeID: 1, ParentSegment: 0, ChildSegments: []int{1, 2}, Tangent: r3.Vec{X: 1}},
		{ID: 1, NodeID: 2, ParentSegment: 1, ChildSegments: []int{3, 4, 5},
			BifurcationLength: 1, Tangent: r3.Vec{X: 1}},
	}
	require.NoError(t, g.Validate())

	ng, err := ReorganizeWideBifurcations(g, true)
	require.NoError(t, err)
	require.Len(t, ng.Joints, 3)
	assert.Equal(t, []int{1, 2}, ng.Joints[0].ChildSegments)

	ng.Joints[0].ChildSegments[0] = 42
	assert.Equal(t, []int{1, 2}, g.Joints[0].ChildSegments)
	assert.Equal(t, []int{3, 4, 5}, g.Joints[1].ChildSegments)
	assert.Len(t, g.Joints, 2)
	assert.Len(t, g.Segments, 6)
}
