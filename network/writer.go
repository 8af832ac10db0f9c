package network

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/notargets/sv1d/types"
	"github.com/pkg/errors"
)

// WriteNetworkFile validates p against g and writes the solver input file. Nothing
// is created when validation fails.
func WriteNetworkFile(filename string, g *SegmentGraph, p *Parameters) error {
	if err := p.Validate(g); err != nil {
		return err
	}
	inflow, err := os.ReadFile(p.InflowFile)
	if err != nil {
		return types.NewConfigurationError("inflow_file", "%v", err)
	}
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err = writeNetwork(file, g, p, inflow); err != nil {
		file.Close()
		return errors.Wrapf(err, "writing %s", filename)
	}
	return file.Close()
}

// WriteNetwork writes the solver input file for g to w
func WriteNetwork(w io.Writer, g *SegmentGraph, p *Parameters) error {
	if err := p.Validate(g); err != nil {
		return err
	}
	inflow, err := os.ReadFile(p.InflowFile)
	if err != nil {
		return types.NewConfigurationError("inflow_file", "%v", err)
	}
	return writeNetwork(w, g, p, inflow)
}

// NumElements is the finite element count of a segment
func NumElements(length, elementSize float64, minElements int) int {
	n := int(math.Round(length / elementSize))
	if n < minElements {
		return minElements
	}
	return n
}

// BCTableName names the datatable of the outlet at the end of path
func BCTableName(kind types.BCKIND, path int) string {
	return fmt.Sprintf("%s_%d", kind, path)
}

func writeNetwork(w io.Writer, g *SegmentGraph, p *Parameters, inflow []byte) error {
	bw := bufio.NewWriter(w)
	section := func(title string) {
		fmt.Fprintf(bw, "\n# ==========\n# %s\n# ==========\n\n", title)
	}

	fmt.Fprintf(bw, "# ================================\n")
	fmt.Fprintf(bw, "# %s MODEL - UNITS IN CGS\n", p.ModelName)
	fmt.Fprintf(bw, "# ================================\n\n")
	fmt.Fprintf(bw, "MODEL %s\n", p.ModelName)

	section("NODE CARD")
	fmt.Fprintf(bw, "# - Node Name (double)\n# - Node X Coordinate (double)\n")
	fmt.Fprintf(bw, "# - Node Y Coordinate (double)\n# - Node Z Coordinate (double)\n\n")
	for _, nd := range g.Nodes {
		fmt.Fprintf(bw, "NODE %d %s %s %s\n", nd.ID,
			ftoa(nd.Coordinates.X), ftoa(nd.Coordinates.Y), ftoa(nd.Coordinates.Z))
	}

	section("JOINT CARD")
	fmt.Fprintf(bw, "# - Joint Name (string)\n# - Joint Node (double)\n")
	fmt.Fprintf(bw, "# - Joint Inlet Name (string)\n# - Joint Outlet Name (string)\n")
	for _, j := range g.Joints {
		fmt.Fprintln(bw)
		fmt.Fprintf(bw, "JOINT JOINT%d %d IN%d OUT%d\n", j.ID, j.NodeID, j.ID, j.ID)
		fmt.Fprintf(bw, "JOINTINLET IN%d 1 %d\n", j.ID, j.ParentSegment)
		fmt.Fprintf(bw, "JOINTOUTLET OUT%d %d", j.ID, len(j.ChildSegments))
		for _, child := range j.ChildSegments {
			fmt.Fprintf(bw, " %d", child)
		}
		fmt.Fprintln(bw)
	}

	section("SEGMENT CARD")
	fmt.Fprintf(bw, "# - Segment Name (string)\n# - Segment ID (int)\n# - Segment Length (double)\n")
	fmt.Fprintf(bw, "# - Total Finite Elements in Segment (int)\n# - Segment Inlet Node (int)\n")
	fmt.Fprintf(bw, "# - Segment Outlet Node (int)\n# - Segment Inlet Area (double)\n")
	fmt.Fprintf(bw, "# - Segment Outlet Area (double)\n# - Segment Inflow Value (double)\n")
	fmt.Fprintf(bw, "# - Segment Material (string)\n# - Type of Loss (string - 'NONE','STENOSIS','BRANCH_THROUGH_DIVIDING','BRANCH_SIDE_DIVIDING','BRANCH_THROUGH_CONVERGING',\n")
	fmt.Fprintf(bw, "#                                 'BRANCH_SIDE_CONVERGING','BIFURCATION_BRANCH')\n")
	fmt.Fprintf(bw, "# - Branch Angle (double)\n# - Upstream Segment ID (int)\n# - Branch Segment ID (int)\n")
	fmt.Fprintf(bw, "# - Boundary Condition Type (string - 'NOBOUND','PRESSURE','AREA','FLOW','RESISTANCE','RESISTANCE_TIME','PRESSURE_WAVE',\n")
	fmt.Fprintf(bw, "#                                     'WAVE','RCR','CORONARY','IMPEDANCE','PULMONARY')\n")
	fmt.Fprintf(bw, "# - Data Table Name (string)\n\n")
	for _, seg := range g.Segments {
		bcType, bcName := types.BC_None.String(), "NONE"
		if seg.Kind == Outlet {
			bc := p.BoundaryConditions[p.OutletNames[seg.PathID]]
			bcType, bcName = bc.Kind.String(), BCTableName(bc.Kind, seg.PathID)
		}
		fmt.Fprintf(bw, "SEGMENT Group%d_Seg%d %d %s %d %d %d %s %s 0.0 %s NONE 0.0 0 0 %s %s\n",
			seg.GroupID, seg.ID, seg.ID, ftoa(seg.Length),
			NumElements(seg.Length, p.ElementSize, p.MinElements),
			seg.HeadNode, seg.RearNode, ftoa(seg.InletArea), ftoa(seg.OutletArea),
			p.materialName(seg.GroupID), bcType, bcName)
	}

	section("DATATABLE CARD")
	for path, seg := range g.Outlets() {
		if seg == nil {
			continue
		}
		bc := p.BoundaryConditions[p.OutletNames[path]]
		fmt.Fprintf(bw, "\n# %s\nDATATABLE %s LIST\n", p.OutletNames[path], BCTableName(bc.Kind, path))
		for _, v := range bc.Values {
			fmt.Fprintf(bw, "0.0 %s\n", ftoa(v))
		}
		fmt.Fprintf(bw, "ENDDATATABLE\n")
	}
	fmt.Fprintf(bw, "\nDATATABLE INFLOW LIST\n")
	bw.Write(inflow)
	if len(inflow) > 0 && inflow[len(inflow)-1] != '\n' {
		bw.WriteByte('\n')
	}
	fmt.Fprintf(bw, "ENDDATATABLE\n")

	section("SOLVEROPTIONS CARD")
	fmt.Fprintf(bw, "# - Solver Time Step (double)\n# - Steps Between Saves (int)\n# - Max Number of Steps (int)\n")
	fmt.Fprintf(bw, "# - Number of quadrature points for finite elements (int)\n# - Name of Datatable for inlet conditions (string)\n")
	fmt.Fprintf(bw, "# - Type of boundary condition (string - 'NOBOUND','PRESSURE','AREA','FLOW','RESISTANCE','RESISTANCE_TIME','PRESSURE_WAVE',\n")
	fmt.Fprintf(bw, "#                                        'WAVE','RCR','CORONARY','IMPEDANCE','PULMONARY')\n")
	fmt.Fprintf(bw, "# - Convergence tolerance (double)\n# - Formulation Type (int - 0 Advective, 1 Conservative)\n")
	fmt.Fprintf(bw, "# - Stabilization (int - 0 No stabilization, 1 With stabilization)\n\n")
	fmt.Fprintf(bw, "SOLVEROPTIONS %s %d %d 2 INFLOW FLOW 1.0e-5 1 1\n",
		ftoa(p.Solver.TimeStep), p.Solver.SavePeriod, p.Solver.NumSteps)

	section("MATERIAL CARD")
	fmt.Fprintf(bw, "# - Material Name (string)\n# - Material Type (string - 'LINEAR','OLUFSEN')\n")
	fmt.Fprintf(bw, "# - Material Density (double)\n# - Material Viscosity (double)\n")
	fmt.Fprintf(bw, "# - Material PRef (double)\n# - Material Exponent (double)\n")
	fmt.Fprintf(bw, "# - Material Parameter 1 (double)\n# - Material Parameter 2 (double)\n# - Material Parameter 3 (double)\n\n")
	writeMaterial(bw, p.Material.Name, p.Material)
	groups := make([]int, 0, len(p.GroupMaterials))
	for group := range p.GroupMaterials {
		groups = append(groups, group)
	}
	sort.Ints(groups)
	for _, group := range groups {
		writeMaterial(bw, groupMaterialName(group), p.GroupMaterials[group])
	}

	section("OUTPUT CARD")
	fmt.Fprintf(bw, "# 1. Output file format. The following output types are supported:\n")
	fmt.Fprintf(bw, "#\t\tTEXT. The output of every segment is written in separate text files for the flow rate, pressure, area and Reynolds number. The rows contain output values at varying locations along the segment while columns contains results at various time instants.\n")
	fmt.Fprintf(bw, "#\t\tVTK. The results for all time steps are plotted to a 3D-like model using the XML VTK file format.\n")
	fmt.Fprintf(bw, "#\t\tBOTH. Both TEXT and VTK output formats are written.\n\n")
	fmt.Fprintf(bw, "OUTPUT %s\n", strings.ToUpper(p.OutputFormat))
	return bw.Flush()
}

func writeMaterial(w io.Writer, name string, m Material) {
	fmt.Fprintf(w, "MATERIAL %s %s %s %s 0.0 1.0 %s %s %s\n", name, m.Model,
		ftoa(m.Density), ftoa(m.Viscosity),
		ftoa(m.Coefficients[0]), ftoa(m.Coefficients[1]), ftoa(m.Coefficients[2]))
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
