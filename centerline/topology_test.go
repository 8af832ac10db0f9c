package centerline

import (
	"errors"
	"math"
	"testing"

	"github.com/notargets/sv1d/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestNewTopology(t *testing.T) {
	// two paths sharing group 0, bifurcation group 1, outlets 2 and 3
	var (
		cids  = []int{0, 0, 0, 1, 1, 1}
		gids  = []int{0, 1, 2, 0, 1, 3}
		tids  = []int{0, 1, 2, 0, 1, 2}
		blank = []bool{false, true, false, false, true, false}
	)
	tp, err := NewTopology(cids, gids, tids, blank)
	require.NoError(t, err)

	assert.Equal(t, 6, tp.NumCells())
	assert.Equal(t, 2, tp.NumPaths)
	assert.Equal(t, 4, tp.NumGroups)
	assert.Equal(t, []int{0, 1, 2}, tp.PathElements(0))
	assert.Equal(t, []int{3, 4, 5}, tp.PathElements(1))
	assert.Equal(t, []int{0, 3}, tp.GroupElements(0))
	assert.Equal(t, []int{5}, tp.GroupElements(3))
	assert.Nil(t, tp.GroupElements(4))
	assert.Nil(t, tp.PathElements(-1))
	assert.Equal(t, []int{0, 1}, tp.GroupPaths(1))
	assert.True(t, tp.GroupBlanked(1))
	assert.False(t, tp.GroupBlanked(2))

	cell, ok := tp.CellAt(1, 2)
	assert.True(t, ok)
	assert.Equal(t, 5, cell)
	_, ok = tp.CellAt(1, 3)
	assert.False(t, ok)
}

func TestNewTopologyErrors(t *testing.T) {
	var (
		ids   = []int{0, 0}
		blank = []bool{false, false}
	)
	tests := []struct {
		name      string
		cids      []int
		gids      []int
		tids      []int
		blanking  []bool
		invariant string
	}{
		{"missing centerline ids", nil, ids, []int{0, 1}, blank, "missing-array"},
		{"missing group ids", ids, nil, []int{0, 1}, blank, "missing-array"},
		{"missing tract ids", ids, ids, nil, blank, "missing-array"},
		{"missing blanking", ids, ids, []int{0, 1}, nil, "missing-array"},
		{"short group ids", ids, []int{0}, []int{0, 1}, blank, "array-length"},
		{"short blanking", ids, ids, []int{0, 1}, []bool{false}, "array-length"},
		{"empty", []int{}, []int{}, []int{}, []bool{}, "empty"},
		{"negative", []int{0, -1}, ids, []int{0, 1}, blank, "negative-id"},
		{"repeated tract", ids, ids, []int{0, 0}, blank, "tract-unique"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTopology(tt.cids, tt.gids, tt.tids, tt.blanking)
			var te *types.TopologyError
			require.True(t, errors.As(err, &te), "got %v", err)
			assert.Equal(t, tt.invariant, te.Invariant)
		})
	}
}

func TestYShape(t *testing.T) {
	cl, err := YShape(3, 3, 1.0)
	require.NoError(t, err)

	assert.Equal(t, 2, cl.NumPaths)
	assert.Equal(t, 4, cl.NumGroups)
	assert.InDelta(t, 2.0, cl.CellLength(0), 1e-12)
	assert.InDelta(t, 1.0, cl.CellLength(1), 1e-12)
	assert.Equal(t, r3.Vec{X: 3}, cl.FirstPoint(2))
	assert.Equal(t, r3.Vec{X: 3, Y: -2}, cl.LastPoint(5))
	assert.Equal(t, 1.0, cl.FirstRadius(2))
	assert.Equal(t, 1.0, cl.LastRadius(2))
	assert.Equal(t, r3.Vec{X: 1}, cl.Tangent(1))
	assert.Equal(t, r3.Vec{Y: 1}, cl.Tangent(2))
}

func TestFromMesh(t *testing.T) {
	cl, err := YShape(3, 2, 0.5)
	require.NoError(t, err)

	back, err := FromMesh(cl.ToMesh())
	require.NoError(t, err)
	assert.Equal(t, cl.Points, back.Points)
	assert.Equal(t, cl.Cells, back.Cells)
	assert.Equal(t, cl.Radius, back.Radius)
	for cell := 0; cell < cl.NumCells(); cell++ {
		assert.Equal(t, cl.GroupID(cell), back.GroupID(cell))
		assert.Equal(t, cl.TractID(cell), back.TractID(cell))
		assert.Equal(t, cl.Blanked(cell), back.Blanked(cell))
	}

	for _, name := range []string{GroupIdsArray, BlankingArray} {
		msh := cl.ToMesh()
		delete(msh.CellData, name)
		_, err = FromMesh(msh)
		var te *types.TopologyError
		assert.True(t, errors.As(err, &te), name)
	}
	msh := cl.ToMesh()
	delete(msh.PointData, RadiusArray)
	_, err = FromMesh(msh)
	assert.Error(t, err)
}

func TestNewGeometryErrors(t *testing.T) {
	pts := []r3.Vec{{}, {X: 1}}
	_, err := New(pts, [][]int{{0, 1}}, []float64{1}, []int{0}, []int{0}, []int{0}, []bool{false})
	assert.Error(t, err)
	_, err = New(pts, [][]int{{0, 2}}, []float64{1, 1}, []int{0}, []int{0}, []int{0}, []bool{false})
	assert.Error(t, err)
	_, err = New(pts, [][]int{{}}, []float64{1, 1}, []int{0}, []int{0}, []int{0}, []bool{false})
	assert.Error(t, err)
	_, err = New(pts, [][]int{{0, 1}}, []float64{1, 1}, []int{0, 0}, []int{0}, []int{0}, []bool{false})
	assert.Error(t, err)
	_, err = New([]r3.Vec{{}, {X: math.NaN()}}, [][]int{{0, 1}}, []float64{1, 1}, []int{0}, []int{0}, []int{0}, []bool{false})
	var te *types.TopologyError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "finite", te.Invariant)
}
