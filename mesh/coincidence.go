package mesh

import (
	"sort"

	"github.com/notargets/sv1d/spatial"
	"github.com/notargets/sv1d/utils"
	"gonum.org/v1/gonum/spatial/r3"
)

// NodeTolerance is the largest coordinate distance accepted between two records of
// the same global node
const NodeTolerance = 1.e-4

// NodeMismatch describes a global node whose coordinates disagree between two meshes
type NodeMismatch struct {
	GlobalID        int
	First, Second   r3.Vec
	Distance        float64
	NearestID       int     // global id of the first mesh node closest to Second
	NearestDistance float64 // distance from Second to that node
}

type NodeReport struct {
	Shared     int // global ids present in both meshes
	Skipped    int // global ids of the second mesh absent from the first
	Mismatches []NodeMismatch
}

func (r NodeReport) UnmatchedCount() int { return len(r.Mismatches) }

type ElementReport struct {
	Shared     int
	Skipped    int
	Mismatches []int // global element ids with disjoint connectivity
}

func (r ElementReport) MismatchCount() int { return len(r.Mismatches) }

// SubsetReport counts how many of the second mesh's points coincide exactly with a
// point of the first
type SubsetReport struct {
	Probed int
	Found  int
}

func (r SubsetReport) Missing() int { return r.Probed - r.Found }

// ModelReport aggregates the checks of a derived mesh against its originating mesh
type ModelReport struct {
	Nodes           NodeReport
	Elements        ElementReport
	ElementsChecked bool
	Subset          SubsetReport
	Duplicates      int // exact duplicate points within the second mesh
}

func (r ModelReport) Consistent() bool {
	return r.Nodes.UnmatchedCount() == 0 && r.Elements.MismatchCount() == 0 &&
		r.Subset.Missing() == 0 && r.Duplicates == 0
}

// CoincidenceChecker cross checks a derived mesh (typically a surface) against the
// mesh it was extracted from (typically a volume). It never fails: findings are
// returned for the caller to judge.
type CoincidenceChecker struct {
	Tolerance float64
	Logger    utils.Logger
}

func NewCoincidenceChecker(logger utils.Logger) *CoincidenceChecker {
	return &CoincidenceChecker{
		Tolerance: NodeTolerance,
		Logger:    utils.OrDiscard(logger),
	}
}

// CheckNodes compares coordinates of every global node id present in both record
// sets. Ids present in only one set are skipped, since a surface is a subset of its
// volume.
func (cc *CoincidenceChecker) CheckNodes(first, second []NodeRecord) (r NodeReport) {
	var (
		firstByID = make(map[int]NodeRecord, len(first))
		finder    *spatial.NearestFinder
	)
	for _, rec := range first {
		firstByID[rec.GlobalID] = rec
	}
	for _, rec := range second {
		f, ok := firstByID[rec.GlobalID]
		if !ok {
			r.Skipped++
			continue
		}
		r.Shared++
		dist := r3.Norm(r3.Sub(f.Coordinates, rec.Coordinates))
		if dist <= cc.Tolerance {
			continue
		}
		if finder == nil {
			finder = newRecordFinder(first)
		}
		mm := NodeMismatch{
			GlobalID: rec.GlobalID,
			First:    f.Coordinates,
			Second:   rec.Coordinates,
			Distance: dist,
		}
		mm.NearestID, mm.NearestDistance, _ = finder.Nearest(rec.Coordinates)
		cc.Logger.Printf("node %d: coordinates differ by %g (nearest node %d at %g)",
			mm.GlobalID, mm.Distance, mm.NearestID, mm.NearestDistance)
		r.Mismatches = append(r.Mismatches, mm)
	}
	sort.Slice(r.Mismatches, func(i, j int) bool {
		return r.Mismatches[i].GlobalID < r.Mismatches[j].GlobalID
	})
	return
}

func newRecordFinder(recs []NodeRecord) *spatial.NearestFinder {
	var (
		pts = make([]r3.Vec, len(recs))
		ids = make([]int, len(recs))
	)
	for i, rec := range recs {
		pts[i], ids[i] = rec.Coordinates, rec.GlobalID
	}
	return spatial.NewNearestFinder(pts, ids)
}

// CheckElements intersects the connectivity of elements sharing a global element id;
// an empty intersection is a mismatch.
func (cc *CoincidenceChecker) CheckElements(first, second []ElementRecord) (r ElementReport) {
	firstByID := make(map[int]ElementRecord, len(first))
	for _, rec := range first {
		firstByID[rec.GlobalID] = rec
	}
	for _, rec := range second {
		f, ok := firstByID[rec.GlobalID]
		if !ok {
			r.Skipped++
			continue
		}
		r.Shared++
		if !intersects(f.Connectivity, rec.Connectivity) {
			cc.Logger.Printf("element %d: no shared nodes (%v vs %v)", rec.GlobalID, f.Nodes(), rec.Nodes())
			r.Mismatches = append(r.Mismatches, rec.GlobalID)
		}
	}
	sort.Ints(r.Mismatches)
	return
}

func intersects(a, b map[int]struct{}) bool {
	if len(b) < len(a) {
		a, b = b, a
	}
	for id := range a {
		if _, ok := b[id]; ok {
			return true
		}
	}
	return false
}

// CheckPointSubset verifies that every point of second is also a point of first
func (cc *CoincidenceChecker) CheckPointSubset(first, second *Mesh) SubsetReport {
	return SubsetReport{
		Probed: len(second.Points),
		Found:  spatial.CrossCountDuplicates(first.Points, second.Points),
	}
}

// CheckModel runs every check of second against first. The element check is skipped
// when either mesh lacks global element ids.
func (cc *CoincidenceChecker) CheckModel(first, second *Mesh) (r ModelReport) {
	r.Nodes = cc.CheckNodes(first.NodeRecords(), second.NodeRecords())
	e1, err1 := first.ElementRecords()
	e2, err2 := second.ElementRecords()
	if err1 == nil && err2 == nil {
		r.Elements = cc.CheckElements(e1, e2)
		r.ElementsChecked = true
	} else {
		cc.Logger.Printf("skipping element check: %v", firstErr(err1, err2))
	}
	r.Subset = cc.CheckPointSubset(first, second)
	r.Duplicates = spatial.CountDuplicates(second.Points)
	return
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
