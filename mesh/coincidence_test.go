package mesh

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestCheckModelPlanarCut(t *testing.T) {
	vol := NewBoxVolumeMesh(3, 2, 2, 0)
	surf := ExtractPlaneSurface(vol, 0)
	require.Equal(t, 12, surf.NumPoints)
	require.Equal(t, 6, surf.NumCells)

	var buf bytes.Buffer
	cc := NewCoincidenceChecker(log.New(&buf, "", 0))
	r := cc.CheckModel(vol, surf)
	assert.Equal(t, 0, r.Nodes.UnmatchedCount())
	assert.Equal(t, 12, r.Nodes.Shared)
	assert.Equal(t, 0, r.Nodes.Skipped)
	assert.True(t, r.ElementsChecked)
	assert.Equal(t, 6, r.Elements.Shared)
	assert.Equal(t, 0, r.Elements.MismatchCount())
	assert.Equal(t, SubsetReport{Probed: 12, Found: 12}, r.Subset)
	assert.Equal(t, 0, r.Duplicates)
	assert.True(t, r.Consistent())
	assert.Empty(t, buf.String())
}

func TestCheckNodesMismatch(t *testing.T) {
	vol := NewBoxVolumeMesh(2, 2, 1, 0)
	surf := ExtractPlaneSurface(vol, 0)
	// Move one surface node off its volume twin, and add one the volume lacks
	surf.Points[4] = r3.Add(surf.Points[4], r3.Vec{Z: 0.01})
	surf.Points = append(surf.Points, r3.Vec{X: 9, Y: 9, Z: 9})
	surf.PointData[GlobalNodeIDArray] = append(surf.PointData[GlobalNodeIDArray], 1000)
	require.NoError(t, surf.Finalize())

	var buf bytes.Buffer
	cc := NewCoincidenceChecker(log.New(&buf, "", 0))
	r := cc.CheckNodes(vol.NodeRecords(), surf.NodeRecords())
	assert.Equal(t, 1, r.Skipped)
	assert.Equal(t, 9, r.Shared)
	require.Equal(t, 1, r.UnmatchedCount())
	mm := r.Mismatches[0]
	gid := int(surf.PointData[GlobalNodeIDArray][4])
	assert.Equal(t, gid, mm.GlobalID)
	assert.InDelta(t, 0.01, mm.Distance, 1e-12)
	assert.Equal(t, gid, mm.NearestID)
	assert.InDelta(t, 0.01, mm.NearestDistance, 1e-12)
	assert.Contains(t, buf.String(), "coordinates differ")

	// Below tolerance is not a mismatch
	surf.Points[4] = r3.Add(mm.First, r3.Vec{X: 5e-5})
	r = cc.CheckNodes(vol.NodeRecords(), surf.NodeRecords())
	assert.Equal(t, 0, r.UnmatchedCount())
}

func TestCheckElementsMismatch(t *testing.T) {
	first := []ElementRecord{
		{GlobalID: 1, Connectivity: map[int]struct{}{1: {}, 2: {}, 3: {}}},
		{GlobalID: 2, Connectivity: map[int]struct{}{3: {}, 4: {}, 5: {}}},
	}
	second := []ElementRecord{
		{GlobalID: 2, Connectivity: map[int]struct{}{7: {}, 8: {}}},
		{GlobalID: 1, Connectivity: map[int]struct{}{3: {}, 9: {}}},
		{GlobalID: 5, Connectivity: map[int]struct{}{1: {}}},
	}
	r := NewCoincidenceChecker(nil).CheckElements(first, second)
	assert.Equal(t, 2, r.Shared)
	assert.Equal(t, 1, r.Skipped)
	assert.Equal(t, []int{2}, r.Mismatches)
}

func TestCheckModelWithoutElementIDs(t *testing.T) {
	vol := NewBoxVolumeMesh(1, 1, 1, 0)
	surf := ExtractPlaneSurface(vol, 0)
	delete(surf.CellData, GlobalElementIDArray)
	surf.Points = append(surf.Points, surf.Points[0])
	surf.PointData[GlobalNodeIDArray] = append(surf.PointData[GlobalNodeIDArray], surf.PointData[GlobalNodeIDArray][0])
	require.NoError(t, surf.Finalize())

	r := NewCoincidenceChecker(nil).CheckModel(vol, surf)
	assert.False(t, r.ElementsChecked)
	assert.Equal(t, 1, r.Duplicates)
	assert.Equal(t, 0, r.Subset.Missing())
	assert.False(t, r.Consistent())
}
