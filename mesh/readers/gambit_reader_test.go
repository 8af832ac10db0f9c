package readers

import (
	"testing"

	"github.com/notargets/sv1d/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

const gambitTwoTets = `        CONTROL INFO 2.0.0
** GAMBIT NEUTRAL FILE
Test mesh for unit testing
PROGRAM:                  Gmsh     VERSION:  4.13.1
Sat Jun  7 21:41:35 2025
     NUMNP     NELEM     NGRPS    NBSETS     NDFCD     NDFVL
         5         3         1         0         3         3
ENDOFSECTION
   NODAL COORDINATES 2.0.0
        11   0.00000000000e+00   0.00000000000e+00   0.00000000000e+00
        12   1.00000000000e+00   0.00000000000e+00   0.00000000000e+00
        13   0.00000000000e+00   1.00000000000e+00   0.00000000000e+00
        14   0.00000000000e+00   0.00000000000e+00   1.00000000000e+00
        15   1.00000000000e+00   1.00000000000e+00   1.00000000000e+00
ENDOFSECTION
   ELEMENTS/CELLS 2.0.0
       101         6         4        11        12        13        14
       102         6         4        12        13        14        15
       103         3         3        11        12        13
ENDOFSECTION
       ELEMENT GROUP 2.0.0
GROUP:           1 ELEMENTS:           3 MATERIAL:           2 NFLAGS:           0
fluid
       101       102       103
ENDOFSECTION`

func TestReadGambitNeutral(t *testing.T) {
	msh, err := ReadGambitNeutral(createTempFile(t, "two.neu", gambitTwoTets))
	require.NoError(t, err)

	assert.Equal(t, 5, msh.NumPoints)
	assert.Equal(t, 3, msh.NumCells)
	assert.Equal(t, []mesh.ElementType{mesh.Tet, mesh.Tet, mesh.Triangle}, msh.CellTypes)
	assert.Equal(t, []int{1, 2, 3, 4}, msh.Cells[1])
	assert.Equal(t, r3.Vec{X: 1, Y: 1, Z: 1}, msh.Points[4])

	nodeIDs, ok := msh.IntPointArray(mesh.GlobalNodeIDArray)
	require.True(t, ok)
	assert.Equal(t, []int{11, 12, 13, 14, 15}, nodeIDs)
	elemIDs, ok := msh.IntCellArray(mesh.GlobalElementIDArray)
	require.True(t, ok)
	assert.Equal(t, []int{101, 102, 103}, elemIDs)
}

func TestReadGambitNeutralContinuation(t *testing.T) {
	content := `     NUMNP     NELEM     NGRPS    NBSETS     NDFCD     NDFVL
         8         1         1         0         3         3
ENDOFSECTION
   NODAL COORDINATES 2.0.0
         1   0.0   0.0   0.0
         2   1.0   0.0   0.0
         3   1.0   1.0   0.0
         4   0.0   1.0   0.0
         5   0.0   0.0   1.0
         6   1.0   0.0   1.0
         7   1.0   1.0   1.0
         8   0.0   1.0   1.0
ENDOFSECTION
   ELEMENTS/CELLS 2.0.0
         1         4         8         1         2         3         4         5         6         7
                   8
ENDOFSECTION`
	msh, err := ReadGambitNeutral(createTempFile(t, "hex.neu", content))
	require.NoError(t, err)
	require.Equal(t, 1, msh.NumCells)
	assert.Equal(t, mesh.Hex, msh.CellTypes[0])
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, msh.Cells[0])
}

func TestReadGambitNeutralErrors(t *testing.T) {
	_, err := ReadGambitNeutral(createTempFile(t, "empty.neu", "nothing here\n"))
	assert.Error(t, err)

	badNode := `     NUMNP     NELEM
         1         1
   NODAL COORDINATES 2.0.0
         1   0.0   0.0   0.0
ENDOFSECTION
   ELEMENTS/CELLS 2.0.0
         1         1         2         1         9
ENDOFSECTION`
	_, err = ReadGambitNeutral(createTempFile(t, "bad.neu", badNode))
	assert.Error(t, err)
}
