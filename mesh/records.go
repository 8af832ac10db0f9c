package mesh

import (
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"
)

// NodeRecord ties a mesh point to its global node id
type NodeRecord struct {
	GlobalID    int
	Coordinates r3.Vec
	LocalIndex  int
}

// ElementRecord is the set of global node ids used by one globally numbered element
type ElementRecord struct {
	GlobalID     int
	Connectivity map[int]struct{}
}

// Nodes returns the sorted global node ids of the element
func (er ElementRecord) Nodes() (ids []int) {
	ids = make([]int, 0, len(er.Connectivity))
	for id := range er.Connectivity {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return
}

// NodeRecords builds one record per point from the GlobalNodeID point array, or
// with synthesized 1-based sequential ids when the array is absent.
func (m *Mesh) NodeRecords() (recs []NodeRecord) {
	gids, ok := m.IntPointArray(GlobalNodeIDArray)
	recs = make([]NodeRecord, len(m.Points))
	for i, p := range m.Points {
		gid := i + 1
		if ok {
			gid = gids[i]
		}
		recs[i] = NodeRecord{GlobalID: gid, Coordinates: p, LocalIndex: i}
	}
	return
}

// ElementRecords maps each cell through the node records into global node id sets,
// keyed by the GlobalElementID cell array. Cells sharing a global element id, such
// as several boundary faces of one volume element, are merged into one record.
func (m *Mesh) ElementRecords() ([]ElementRecord, error) {
	egids, ok := m.IntCellArray(GlobalElementIDArray)
	if !ok {
		return nil, errors.Errorf("missing cell data array %q", GlobalElementIDArray)
	}
	var (
		nodes = m.NodeRecords()
		index = make(map[int]int)
		recs  []ElementRecord
	)
	for i, cell := range m.Cells {
		gid := egids[i]
		k, seen := index[gid]
		if !seen {
			k = len(recs)
			index[gid] = k
			recs = append(recs, ElementRecord{GlobalID: gid, Connectivity: make(map[int]struct{})})
		}
		for _, pt := range cell {
			recs[k].Connectivity[nodes[pt].GlobalID] = struct{}{}
		}
	}
	return recs, nil
}
