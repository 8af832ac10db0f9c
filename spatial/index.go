package spatial

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Bounds is the axis aligned bounding box of a point cloud
type Bounds struct {
	Min, Max r3.Vec
}

func NewBounds(points []r3.Vec) (b Bounds) {
	if len(points) == 0 {
		return
	}
	b.Min, b.Max = points[0], points[0]
	for _, p := range points[1:] {
		b.Min = r3.Vec{X: math.Min(b.Min.X, p.X), Y: math.Min(b.Min.Y, p.Y), Z: math.Min(b.Min.Z, p.Z)}
		b.Max = r3.Vec{X: math.Max(b.Max.X, p.X), Y: math.Max(b.Max.Y, p.Y), Z: math.Max(b.Max.Z, p.Z)}
	}
	return
}

// Extent returns the per axis range of the box. A zero range is replaced by 1 so
// that normalization never divides by zero; points along that axis are then not
// discriminated by the hash.
func (b Bounds) Extent() (e r3.Vec) {
	e = r3.Sub(b.Max, b.Min)
	if e.X == 0 {
		e.X = 1
	}
	if e.Y == 0 {
		e.Y = 1
	}
	if e.Z == 0 {
		e.Z = 1
	}
	return
}

type bucketEntry struct {
	P  r3.Vec
	ID int
}

/*
PointIndex is a uniform hash of a point cloud keyed on the cloud's own bounding box
and point count. Each coordinate is normalized into [0,1], scaled by N and the three
axes are summed and truncated to produce the bucket key. Bit identical points always
share a bucket. Points that are merely close can land in neighboring buckets, so the
index answers exact identity queries only.
*/
type PointIndex struct {
	bounds     Bounds
	extent     r3.Vec
	scale      float64
	buckets    map[int][]bucketEntry
	count      int
	duplicates int
}

// NewPointIndex sizes an empty index from the bounding box and count of points.
// Nothing is inserted.
func NewPointIndex(points []r3.Vec) *PointIndex {
	bounds := NewBounds(points)
	return &PointIndex{
		bounds:  bounds,
		extent:  bounds.Extent(),
		scale:   float64(len(points)),
		buckets: make(map[int][]bucketEntry),
	}
}

// BuildPointIndex sizes an index from points and inserts each one with its position
// in the slice as the associated id.
func BuildPointIndex(points []r3.Vec) (pi *PointIndex) {
	pi = NewPointIndex(points)
	for i, p := range points {
		pi.Insert(p, i)
	}
	return
}

func (pi *PointIndex) Bounds() Bounds { return pi.bounds }

// Key computes the bucket for p. Points outside the original bounding box still map
// to some bucket, possibly a negative one.
func (pi *PointIndex) Key(p r3.Vec) int {
	var (
		xs = (p.X - pi.bounds.Min.X) / pi.extent.X
		ys = (p.Y - pi.bounds.Min.Y) / pi.extent.Y
		zs = (p.Z - pi.bounds.Min.Z) / pi.extent.Z
	)
	return int(math.Floor(xs*pi.scale + ys*pi.scale + zs*pi.scale))
}

// Insert adds p under id unless an exactly coincident point is already present, in
// which case the duplicate counter is incremented and the first id is returned with
// inserted == false.
func (pi *PointIndex) Insert(p r3.Vec, id int) (existing int, inserted bool) {
	key := pi.Key(p)
	for _, e := range pi.buckets[key] {
		if coincident(e.P, p) {
			pi.duplicates++
			return e.ID, false
		}
	}
	pi.buckets[key] = append(pi.buckets[key], bucketEntry{P: p, ID: id})
	pi.count++
	return id, true
}

// FindExact returns the id of the first stored point at zero distance from p
func (pi *PointIndex) FindExact(p r3.Vec) (id int, ok bool) {
	for _, e := range pi.buckets[pi.Key(p)] {
		if coincident(e.P, p) {
			return e.ID, true
		}
	}
	return -1, false
}

// Len is the number of distinct points stored
func (pi *PointIndex) Len() int { return pi.count }

// Duplicates is the number of insertions rejected as exact duplicates
func (pi *PointIndex) Duplicates() int { return pi.duplicates }

func (pi *PointIndex) NumBuckets() int { return len(pi.buckets) }

func coincident(a, b r3.Vec) bool {
	return r3.Norm2(r3.Sub(a, b)) == 0
}
