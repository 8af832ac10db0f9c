package mesh

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// NewBoxVolumeMesh builds a structured hex mesh of the box [0,nx]x[0,ny]x[0,nz] with
// unit spacing. Global node ids start at nodeIDBase+1 and global element ids at 1.
func NewBoxVolumeMesh(nx, ny, nz, nodeIDBase int) *Mesh {
	var (
		m     = NewMesh()
		index = func(i, j, k int) int { return i + (nx+1)*(j+(ny+1)*k) }
		gids  []float64
		egids []float64
	)
	for k := 0; k <= nz; k++ {
		for j := 0; j <= ny; j++ {
			for i := 0; i <= nx; i++ {
				m.Points = append(m.Points, r3.Vec{X: float64(i), Y: float64(j), Z: float64(k)})
				gids = append(gids, float64(nodeIDBase+len(m.Points)))
			}
		}
	}
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				m.Cells = append(m.Cells, []int{
					index(i, j, k), index(i+1, j, k), index(i+1, j+1, k), index(i, j+1, k),
					index(i, j, k+1), index(i+1, j, k+1), index(i+1, j+1, k+1), index(i, j+1, k+1),
				})
				m.CellTypes = append(m.CellTypes, Hex)
				egids = append(egids, float64(len(m.Cells)))
			}
		}
	}
	m.PointData[GlobalNodeIDArray] = gids
	m.CellData[GlobalElementIDArray] = egids
	if err := m.Finalize(); err != nil {
		panic(err)
	}
	return m
}

// ExtractPlaneSurface copies the bottom faces of a hex volume lying in the plane
// z == zPlane into a quad surface mesh, carrying global node and element ids over
// from the volume.
func ExtractPlaneSurface(vol *Mesh, zPlane float64) *Mesh {
	var (
		m        = NewMesh()
		local    = make(map[int]int)
		vgids, _ = vol.PointArray(GlobalNodeIDArray)
		vegids   = vol.CellData[GlobalElementIDArray]
		gids     []float64
		egids    []float64
	)
	for c, cell := range vol.Cells {
		if vol.CellTypes[c] != Hex || vol.Points[cell[0]].Z != zPlane {
			continue
		}
		face := make([]int, 4)
		for n, pt := range cell[:4] {
			idx, ok := local[pt]
			if !ok {
				idx = len(m.Points)
				local[pt] = idx
				m.Points = append(m.Points, vol.Points[pt])
				gids = append(gids, vgids[pt])
			}
			face[n] = idx
		}
		m.Cells = append(m.Cells, face)
		m.CellTypes = append(m.CellTypes, Quad)
		egids = append(egids, vegids[c])
	}
	m.PointData[GlobalNodeIDArray] = gids
	m.CellData[GlobalElementIDArray] = egids
	if err := m.Finalize(); err != nil {
		panic(err)
	}
	return m
}
