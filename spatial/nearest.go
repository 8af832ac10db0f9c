package spatial

import (
	"math"

	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

// NearestFinder answers approximate proximity queries that the exact PointIndex
// cannot, such as locating the closest node to a mismatched coordinate.
type NearestFinder struct {
	tree *kdtree.Tree
	n    int
}

// NewNearestFinder builds a kd-tree over points, tagging each with ids[i]. When ids
// is nil the slice position is used.
func NewNearestFinder(points []r3.Vec, ids []int) *NearestFinder {
	pts := make(kdPoints, len(points))
	for i, p := range points {
		id := i
		if ids != nil {
			id = ids[i]
		}
		pts[i] = kdPoint{V: p, ID: id}
	}
	nf := &NearestFinder{n: len(pts)}
	if len(pts) > 0 {
		nf.tree = kdtree.New(pts, false)
	}
	return nf
}

// Nearest returns the id of the closest point to p and its Euclidean distance
func (nf *NearestFinder) Nearest(p r3.Vec) (id int, dist float64, ok bool) {
	if nf.n == 0 {
		return -1, math.Inf(1), false
	}
	c, d2 := nf.tree.Nearest(kdPoint{V: p})
	if c == nil {
		return -1, math.Inf(1), false
	}
	return c.(kdPoint).ID, math.Sqrt(d2), true
}

type kdPoint struct {
	V  r3.Vec
	ID int
}

func (p kdPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(kdPoint)
	switch d {
	case 0:
		return p.V.X - q.V.X
	case 1:
		return p.V.Y - q.V.Y
	case 2:
		return p.V.Z - q.V.Z
	}
	panic("unreachable")
}

func (p kdPoint) Dims() int { return 3 }

// Distance is the squared distance, as kdtree expects.
func (p kdPoint) Distance(c kdtree.Comparable) float64 {
	return r3.Norm2(r3.Sub(p.V, c.(kdPoint).V))
}

type kdPoints []kdPoint

func (p kdPoints) Index(i int) kdtree.Comparable { return p[i] }

func (p kdPoints) Len() int { return len(p) }

func (p kdPoints) Pivot(d kdtree.Dim) int {
	pl := kdPlane{dim: d, points: p}
	return kdtree.Partition(pl, kdtree.MedianOfMedians(pl))
}

func (p kdPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

type kdPlane struct {
	dim    kdtree.Dim
	points kdPoints
}

func (p kdPlane) Less(i, j int) bool {
	return p.points[i].Compare(p.points[j], p.dim) < 0
}

func (p kdPlane) Swap(i, j int) {
	p.points[i], p.points[j] = p.points[j], p.points[i]
}

func (p kdPlane) Len() int { return len(p.points) }

func (p kdPlane) Slice(start, end int) kdtree.SortSlicer {
	p.points = p.points[start:end]
	return p
}
