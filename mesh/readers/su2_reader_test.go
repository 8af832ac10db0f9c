package readers

import (
	"testing"

	"github.com/notargets/sv1d/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSU2(t *testing.T) {
	content := `% two triangles
NDIME= 2
NELEM= 2
5 0 1 2 0
5 0 2 3 1
NPOIN= 4
0.0 0.0 0
1.0 0.0 1
1.0 1.0 2
0.0 1.0 3
NMARK= 1
MARKER_TAG= wall
MARKER_ELEMS= 2
3 0 1
3 1 2
`
	msh, err := ReadMeshFile(createTempFile(t, "square.su2", content))
	require.NoError(t, err)
	assert.Equal(t, 4, msh.NumPoints)
	assert.Equal(t, 2, msh.NumCells)
	assert.Equal(t, []int{0, 2, 3}, msh.Cells[1])
	assert.Equal(t, []mesh.ElementType{mesh.Triangle, mesh.Triangle}, msh.CellTypes)
	assert.Equal(t, 1.0, msh.Points[2].Y)
	assert.Equal(t, 0.0, msh.Points[2].Z)

	// SU2 has no global ids, records are numbered sequentially
	recs := msh.NodeRecords()
	assert.Equal(t, 4, recs[3].GlobalID)
}

func TestReadSU2Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad dimension", "NDIME= 4\n"},
		{"points before dimension", "NPOIN= 1\n0 0 0\n"},
		{"no points", "NDIME= 3\n"},
		{"unknown element", "NDIME= 2\nNELEM= 1\n99 0 1\nNPOIN= 2\n0 0\n1 0\n"},
		{"short element", "NDIME= 2\nNELEM= 1\n5 0 1\nNPOIN= 2\n0 0\n1 0\n"},
		{"index out of range", "NDIME= 2\nNELEM= 1\n3 0 5\nNPOIN= 2\n0 0\n1 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadSU2(createTempFile(t, "bad.su2", tt.content))
			assert.Error(t, err)
		})
	}
}
