package centerline

import (
	"github.com/notargets/sv1d/mesh"
	"github.com/notargets/sv1d/types"
	"github.com/notargets/sv1d/utils"
	"gonum.org/v1/gonum/spatial/r3"
)

// Centerlines is a branched centerline: polyline cells over a shared point set, the
// inscribed sphere radius at every point and the cell topology.
type Centerlines struct {
	Points []r3.Vec
	Cells  [][]int
	Radius []float64
	*Topology
}

// FromMesh extracts the centerline arrays from a mesh read from disk
func FromMesh(msh *mesh.Mesh) (cl *Centerlines, err error) {
	var (
		cids, gids, tids, blank []int
		ok                      bool
	)
	for name, dst := range map[string]*[]int{
		CenterlineIdsArray: &cids,
		GroupIdsArray:      &gids,
		TractIdsArray:      &tids,
		BlankingArray:      &blank,
	} {
		if *dst, ok = msh.IntCellArray(name); !ok {
			return nil, types.NewTopologyError("missing-array", "centerline has no %s cell array", name)
		}
	}
	radius, ok := msh.PointArray(RadiusArray)
	if !ok {
		return nil, types.NewTopologyError("missing-array", "centerline has no %s point array", RadiusArray)
	}
	blanking := make([]bool, len(blank))
	for i, b := range blank {
		blanking[i] = b != 0
	}
	return New(msh.Points, msh.Cells, radius, cids, gids, tids, blanking)
}

// New assembles centerlines from geometry and the per-cell topology arrays
func New(points []r3.Vec, cells [][]int, radius []float64,
	centerlineIDs, groupIDs, tractIDs []int, blanking []bool) (cl *Centerlines, err error) {
	if len(radius) != len(points) {
		return nil, types.NewTopologyError("array-length",
			"%s has %d values for %d points", RadiusArray, len(radius), len(points))
	}
	if len(centerlineIDs) != len(cells) {
		return nil, types.NewTopologyError("array-length",
			"%s has %d values for %d cells", CenterlineIdsArray, len(centerlineIDs), len(cells))
	}
	if utils.IsNan(points) || utils.IsNan(radius) {
		return nil, types.NewTopologyError("finite", "centerline coordinates or radii contain NaN")
	}
	for i, c := range cells {
		if len(c) == 0 {
			return nil, types.NewTopologyError("empty-cell", "centerline cell %d has no points", i)
		}
		for _, pt := range c {
			if pt < 0 || pt >= len(points) {
				return nil, types.NewTopologyError("point-index",
					"centerline cell %d references point %d of %d", i, pt, len(points))
			}
		}
	}
	tp, err := NewTopology(centerlineIDs, groupIDs, tractIDs, blanking)
	if err != nil {
		return nil, err
	}
	cl = &Centerlines{
		Points:   points,
		Cells:    cells,
		Radius:   radius,
		Topology: tp,
	}
	return
}

// CellLength is the polyline length of a cell
func (cl *Centerlines) CellLength(cell int) (length float64) {
	pts := cl.Cells[cell]
	for i := 1; i < len(pts); i++ {
		length += r3.Norm(r3.Sub(cl.Points[pts[i]], cl.Points[pts[i-1]]))
	}
	return
}

func (cl *Centerlines) FirstPoint(cell int) r3.Vec { return cl.Points[cl.Cells[cell][0]] }

func (cl *Centerlines) LastPoint(cell int) r3.Vec {
	c := cl.Cells[cell]
	return cl.Points[c[len(c)-1]]
}

func (cl *Centerlines) FirstRadius(cell int) float64 { return cl.Radius[cl.Cells[cell][0]] }

func (cl *Centerlines) LastRadius(cell int) float64 {
	c := cl.Cells[cell]
	return cl.Radius[c[len(c)-1]]
}

// Tangent is the unit direction of the cell's last polyline segment, zero for a
// cell whose end points coincide.
func (cl *Centerlines) Tangent(cell int) r3.Vec {
	c := cl.Cells[cell]
	if len(c) < 2 {
		return r3.Vec{}
	}
	d := r3.Sub(cl.Points[c[len(c)-1]], cl.Points[c[len(c)-2]])
	if n := r3.Norm(d); n > 0 {
		return r3.Scale(1/n, d)
	}
	return r3.Vec{}
}

// ToMesh converts the centerlines back to a polyline mesh carrying all arrays
func (cl *Centerlines) ToMesh() *mesh.Mesh {
	msh := mesh.NewMesh()
	msh.Points = cl.Points
	msh.Cells = cl.Cells
	msh.CellTypes = make([]mesh.ElementType, len(cl.Cells))
	var (
		n                       = len(cl.Cells)
		cids, gids, tids, blank = make([]float64, n), make([]float64, n), make([]float64, n), make([]float64, n)
	)
	for i := range cl.Cells {
		msh.CellTypes[i] = mesh.PolyLine
		cids[i] = float64(cl.CenterlineID(i))
		gids[i] = float64(cl.GroupID(i))
		tids[i] = float64(cl.TractID(i))
		if cl.Blanked(i) {
			blank[i] = 1
		}
	}
	msh.CellData[CenterlineIdsArray] = cids
	msh.CellData[GroupIdsArray] = gids
	msh.CellData[TractIdsArray] = tids
	msh.CellData[BlankingArray] = blank
	msh.PointData[RadiusArray] = cl.Radius
	msh.NumPoints, msh.NumCells = len(cl.Points), len(cl.Cells)
	return msh
}
