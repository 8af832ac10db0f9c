package centerline

import (
	"sort"

	"github.com/notargets/sv1d/types"
)

// Names of the per-cell and per-point arrays produced by centerline extraction
const (
	CenterlineIdsArray = "CenterlineIds"
	GroupIdsArray      = "GroupIds"
	TractIdsArray      = "TractIds"
	BlankingArray      = "Blanking"
	RadiusArray        = "MaximumInscribedSphereRadius"
)

type pathTract struct {
	Path, Tract int
}

// Topology indexes the per-cell centerline, group, tract and blanking arrays of a
// branched centerline. It is immutable after construction.
type Topology struct {
	centerlineIDs []int
	groupIDs      []int
	tractIDs      []int
	blanking      []bool

	NumPaths, NumGroups int

	pathElements  [][]int // cell ids per path, in cell order
	groupElements [][]int // cell ids per group, in cell order
	byTract       map[pathTract]int
}

// NewTopology validates the four parallel arrays and builds the path and group views.
// Path ids and group ids are dense: NumPaths = max(centerline id)+1 and
// NumGroups = max(group id)+1.
func NewTopology(centerlineIDs, groupIDs, tractIDs []int, blanking []bool) (tp *Topology, err error) {
	switch {
	case centerlineIDs == nil:
		return nil, types.NewTopologyError("missing-array", "no %s array", CenterlineIdsArray)
	case groupIDs == nil:
		return nil, types.NewTopologyError("missing-array", "no %s array", GroupIdsArray)
	case tractIDs == nil:
		return nil, types.NewTopologyError("missing-array", "no %s array", TractIdsArray)
	case blanking == nil:
		return nil, types.NewTopologyError("missing-array", "no %s array", BlankingArray)
	}
	ncells := len(centerlineIDs)
	if ncells == 0 {
		return nil, types.NewTopologyError("empty", "centerline has no cells")
	}
	for name, n := range map[string]int{
		GroupIdsArray: len(groupIDs),
		TractIdsArray: len(tractIDs),
		BlankingArray: len(blanking),
	} {
		if n != ncells {
			return nil, types.NewTopologyError("array-length",
				"%s has %d values for %d cells", name, n, ncells)
		}
	}
	tp = &Topology{
		centerlineIDs: centerlineIDs,
		groupIDs:      groupIDs,
		tractIDs:      tractIDs,
		blanking:      blanking,
		byTract:       make(map[pathTract]int, ncells),
	}
	for cell := 0; cell < ncells; cell++ {
		cid, gid, tid := centerlineIDs[cell], groupIDs[cell], tractIDs[cell]
		if cid < 0 || gid < 0 || tid < 0 {
			return nil, types.NewTopologyError("negative-id",
				"cell %d has centerline id %d, group id %d, tract id %d", cell, cid, gid, tid)
		}
		if cid+1 > tp.NumPaths {
			tp.NumPaths = cid + 1
		}
		if gid+1 > tp.NumGroups {
			tp.NumGroups = gid + 1
		}
		key := pathTract{cid, tid}
		if prev, dup := tp.byTract[key]; dup {
			return nil, types.NewTopologyError("tract-unique",
				"cells %d and %d both at path %d tract %d", prev, cell, cid, tid)
		}
		tp.byTract[key] = cell
	}
	tp.pathElements = make([][]int, tp.NumPaths)
	tp.groupElements = make([][]int, tp.NumGroups)
	for cell := 0; cell < ncells; cell++ {
		tp.pathElements[centerlineIDs[cell]] = append(tp.pathElements[centerlineIDs[cell]], cell)
		tp.groupElements[groupIDs[cell]] = append(tp.groupElements[groupIDs[cell]], cell)
	}
	return
}

func (tp *Topology) NumCells() int { return len(tp.centerlineIDs) }

// PathElements returns the cells of a path in cell array order
func (tp *Topology) PathElements(path int) []int {
	if path < 0 || path >= tp.NumPaths {
		return nil
	}
	return tp.pathElements[path]
}

// GroupElements returns the cells of a group in cell array order
func (tp *Topology) GroupElements(group int) []int {
	if group < 0 || group >= tp.NumGroups {
		return nil
	}
	return tp.groupElements[group]
}

func (tp *Topology) CenterlineID(cell int) int { return tp.centerlineIDs[cell] }
func (tp *Topology) GroupID(cell int) int      { return tp.groupIDs[cell] }
func (tp *Topology) TractID(cell int) int      { return tp.tractIDs[cell] }
func (tp *Topology) Blanked(cell int) bool     { return tp.blanking[cell] }

// CellAt returns the cell at a tract position along a path
func (tp *Topology) CellAt(path, tract int) (cell int, ok bool) {
	cell, ok = tp.byTract[pathTract{path, tract}]
	return
}

// GroupPaths returns the distinct paths passing through a group, ascending
func (tp *Topology) GroupPaths(group int) (paths []int) {
	seen := make(map[int]bool)
	for _, cell := range tp.GroupElements(group) {
		if cid := tp.centerlineIDs[cell]; !seen[cid] {
			seen[cid] = true
			paths = append(paths, cid)
		}
	}
	sort.Ints(paths)
	return
}

// GroupBlanked is true when any cell of the group is blanked
func (tp *Topology) GroupBlanked(group int) bool {
	for _, cell := range tp.GroupElements(group) {
		if tp.blanking[cell] {
			return true
		}
	}
	return false
}
