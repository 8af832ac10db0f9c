package spatial

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Duplicate records a point that coincides exactly with an earlier point of the cloud
type Duplicate struct {
	Point   r3.Vec
	FirstID int // id of the point already in the index
	ID      int // id of the repeated point
}

// CountDuplicates returns the number of points that exactly repeat an earlier point
func CountDuplicates(points []r3.Vec) int {
	return BuildPointIndex(points).Duplicates()
}

// FindDuplicates reports every repeated point together with the id it repeats
func FindDuplicates(points []r3.Vec) (dups []Duplicate) {
	pi := NewPointIndex(points)
	for i, p := range points {
		if first, inserted := pi.Insert(p, i); !inserted {
			dups = append(dups, Duplicate{Point: p, FirstID: first, ID: i})
		}
	}
	return
}

// CrossCountDuplicates indexes a and probes it with every point of b, returning the
// number of b's points already present in a. When b is a subset of a the result is
// len(b).
func CrossCountDuplicates(a, b []r3.Vec) (found int) {
	pi := BuildPointIndex(a)
	for _, p := range b {
		if _, ok := pi.FindExact(p); ok {
			found++
		}
	}
	return
}
