package network

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/notargets/sv1d/centerline"
	"github.com/notargets/sv1d/mesh"
)

// Cell and point array names of the exported network geometry
const (
	SegmentIDArray  = "SegmentId"
	GroupIDArray    = "GroupId"
	LengthArray     = "Length"
	InletAreaArray  = "InletArea"
	OutletAreaArray = "OutletArea"
	SyntheticArray  = "Synthetic"
	NodeIDArray     = "NodeId"
)

// WriteGroupReport writes, one line per group, the group kind, its segment and the
// centerline ids passing through it, then one line per segment.
func WriteGroupReport(w io.Writer, cl *centerline.Centerlines, g *SegmentGraph) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# group kind segment centerline_ids\n")
	for group, kind := range g.GroupKinds {
		fmt.Fprintf(bw, "%d %s %d", group, kind, g.GroupSegment[group])
		for _, path := range cl.GroupPaths(group) {
			fmt.Fprintf(bw, " %d", path)
		}
		fmt.Fprintln(bw)
	}
	fmt.Fprintf(bw, "# segment group kind length inlet_area outlet_area head rear children\n")
	for _, seg := range g.Segments {
		fmt.Fprintf(bw, "%d %d %s %s %s %s %d %d %v\n", seg.ID, seg.GroupID, seg.Kind,
			ftoa(seg.Length), ftoa(seg.InletArea), ftoa(seg.OutletArea),
			seg.HeadNode, seg.RearNode, g.Children(seg.ID))
	}
	return bw.Flush()
}

func WriteGroupReportFile(filename string, cl *centerline.Centerlines, g *SegmentGraph) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err = WriteGroupReport(file, cl, g); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// ToMesh returns the network as a line mesh, one cell per segment from head node
// to rear node, with segment attributes as cell data.
func (g *SegmentGraph) ToMesh() *mesh.Mesh {
	msh := mesh.NewMesh()
	nodeIDs := make([]float64, len(g.Nodes))
	for i, nd := range g.Nodes {
		msh.Points = append(msh.Points, nd.Coordinates)
		nodeIDs[i] = float64(nd.ID)
	}
	n := len(g.Segments)
	arrays := map[string][]float64{
		SegmentIDArray:  make([]float64, n),
		GroupIDArray:    make([]float64, n),
		LengthArray:     make([]float64, n),
		InletAreaArray:  make([]float64, n),
		OutletAreaArray: make([]float64, n),
		SyntheticArray:  make([]float64, n),
	}
	for i, seg := range g.Segments {
		msh.Cells = append(msh.Cells, []int{seg.HeadNode, seg.RearNode})
		msh.CellTypes = append(msh.CellTypes, mesh.Line)
		arrays[SegmentIDArray][i] = float64(seg.ID)
		arrays[GroupIDArray][i] = float64(seg.GroupID)
		arrays[LengthArray][i] = seg.Length
		arrays[InletAreaArray][i] = seg.InletArea
		arrays[OutletAreaArray][i] = seg.OutletArea
		if seg.Synthetic {
			arrays[SyntheticArray][i] = 1
		}
	}
	msh.CellData = arrays
	msh.PointData[NodeIDArray] = nodeIDs
	msh.NumPoints, msh.NumCells = len(msh.Points), len(msh.Cells)
	return msh
}
