package centerline

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Piece is one centerline cell described by its polyline and topology ids
type Piece struct {
	Path, Group, Tract int
	Blanked            bool
	Points             []r3.Vec
}

// Assemble builds centerlines from independent pieces, each with its own copy of its
// points, and a radius given per point position.
func Assemble(pieces []Piece, radius func(p r3.Vec) float64) (*Centerlines, error) {
	var (
		points   []r3.Vec
		rad      []float64
		cells    = make([][]int, len(pieces))
		cids     = make([]int, len(pieces))
		gids     = make([]int, len(pieces))
		tids     = make([]int, len(pieces))
		blanking = make([]bool, len(pieces))
	)
	for i, pc := range pieces {
		for _, p := range pc.Points {
			cells[i] = append(cells[i], len(points))
			points = append(points, p)
			rad = append(rad, radius(p))
		}
		cids[i], gids[i], tids[i], blanking[i] = pc.Path, pc.Group, pc.Tract, pc.Blanked
	}
	return New(points, cells, rad, cids, gids, tids, blanking)
}

// UniformRadius returns a radius function with the same value everywhere
func UniformRadius(r float64) func(r3.Vec) float64 {
	return func(r3.Vec) float64 { return r }
}

// YShape is a two path centerline: a straight inlet group 0 of inletPoints points at
// unit spacing along +x, a blanked bifurcation group 1 of unit length, and two outlet
// groups 2 and 3 of outletPoints points at unit spacing along +y and -y.
func YShape(inletPoints, outletPoints int, radius float64) (*Centerlines, error) {
	line := func(start, dir r3.Vec, n int) (pts []r3.Vec) {
		for i := 0; i < n; i++ {
			pts = append(pts, r3.Add(start, r3.Scale(float64(i), dir)))
		}
		return
	}
	var (
		ex     = r3.Vec{X: 1}
		ey     = r3.Vec{Y: 1}
		bStart = r3.Scale(float64(inletPoints-1), ex)
		bEnd   = r3.Add(bStart, ex)
		pieces []Piece
	)
	for path, dir := range []r3.Vec{ey, r3.Scale(-1, ey)} {
		pieces = append(pieces,
			Piece{Path: path, Group: 0, Tract: 0, Points: line(r3.Vec{}, ex, inletPoints)},
			Piece{Path: path, Group: 1, Tract: 1, Blanked: true, Points: line(bStart, ex, 2)},
			Piece{Path: path, Group: 2 + path, Tract: 2, Points: line(bEnd, dir, outletPoints)},
		)
	}
	return Assemble(pieces, UniformRadius(radius))
}
