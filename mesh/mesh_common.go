package mesh

import (
	"fmt"
	"io"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	GlobalNodeIDArray    = "GlobalNodeID"
	GlobalElementIDArray = "GlobalElementID"
)

// ElementType represents the cell shapes found in meshes and centerlines
type ElementType int

const (
	Vertex ElementType = iota
	Line
	PolyLine
	Triangle
	Polygon
	Quad
	Tet
	Hex
	Prism
	Pyramid
)

func (e ElementType) String() string {
	return [...]string{"Vertex", "Line", "PolyLine", "Triangle", "Polygon", "Quad",
		"Tet", "Hex", "Prism", "Pyramid"}[e]
}

// GetDimension returns the topological dimension of the element
func (e ElementType) GetDimension() int {
	switch e {
	case Vertex:
		return 0
	case Line, PolyLine:
		return 1
	case Triangle, Polygon, Quad:
		return 2
	default:
		return 3
	}
}

// GetNumNodes returns the number of nodes for fixed size elements, 0 otherwise
func (e ElementType) GetNumNodes() int {
	switch e {
	case Vertex:
		return 1
	case Line:
		return 2
	case Triangle:
		return 3
	case Quad, Tet:
		return 4
	case Pyramid:
		return 5
	case Prism:
		return 6
	case Hex:
		return 8
	default:
		return 0
	}
}

// VTKCellTypeMap maps VTK cell type identifiers to our ElementType
var VTKCellTypeMap = map[int]ElementType{
	1:  Vertex,   // VTK_VERTEX
	3:  Line,     // VTK_LINE
	4:  PolyLine, // VTK_POLY_LINE
	5:  Triangle, // VTK_TRIANGLE
	7:  Polygon,  // VTK_POLYGON
	9:  Quad,     // VTK_QUAD
	10: Tet,      // VTK_TETRA
	12: Hex,      // VTK_HEXAHEDRON
	13: Prism,    // VTK_WEDGE
	14: Pyramid,  // VTK_PYRAMID
}

// Mesh is a point set with cell connectivity and named per point / per cell data
// arrays, the common currency between the readers and the checking and centerline
// components.
type Mesh struct {
	Points    []r3.Vec      // Point coordinates
	Cells     [][]int       // Cell to point connectivity [ncells][npts_per_cell]
	CellTypes []ElementType // Cell type for each cell

	PointData map[string][]float64 // Named arrays, one value per point
	CellData  map[string][]float64 // Named arrays, one value per cell

	NumPoints int
	NumCells  int
}

func NewMesh() *Mesh {
	return &Mesh{
		PointData: make(map[string][]float64),
		CellData:  make(map[string][]float64),
	}
}

// Finalize sets the counts and validates connectivity and array lengths
func (m *Mesh) Finalize() error {
	m.NumPoints = len(m.Points)
	m.NumCells = len(m.Cells)
	if m.CellTypes != nil && len(m.CellTypes) != m.NumCells {
		return fmt.Errorf("have %d cell types for %d cells", len(m.CellTypes), m.NumCells)
	}
	for i, cell := range m.Cells {
		for _, pt := range cell {
			if pt < 0 || pt >= m.NumPoints {
				return fmt.Errorf("cell %d: point index %d out of range [0,%d)", i, pt, m.NumPoints)
			}
		}
	}
	for name, arr := range m.PointData {
		if len(arr) != m.NumPoints {
			return fmt.Errorf("point data %q has %d values for %d points", name, len(arr), m.NumPoints)
		}
	}
	for name, arr := range m.CellData {
		if len(arr) != m.NumCells {
			return fmt.Errorf("cell data %q has %d values for %d cells", name, len(arr), m.NumCells)
		}
	}
	return nil
}

func (m *Mesh) PointArray(name string) (arr []float64, ok bool) {
	arr, ok = m.PointData[name]
	return
}

func (m *Mesh) CellArray(name string) (arr []float64, ok bool) {
	arr, ok = m.CellData[name]
	return
}

// IntPointArray returns a point data array rounded to integers
func (m *Mesh) IntPointArray(name string) ([]int, bool) {
	arr, ok := m.PointData[name]
	if !ok {
		return nil, false
	}
	return toInts(arr), true
}

// IntCellArray returns a cell data array rounded to integers
func (m *Mesh) IntCellArray(name string) ([]int, bool) {
	arr, ok := m.CellData[name]
	if !ok {
		return nil, false
	}
	return toInts(arr), true
}

func toInts(arr []float64) (ints []int) {
	ints = make([]int, len(arr))
	for i, v := range arr {
		ints[i] = int(math.Round(v))
	}
	return
}

// PrintStatistics writes mesh statistics
func (m *Mesh) PrintStatistics(w io.Writer) {
	fmt.Fprintf(w, "Mesh Statistics:\n")
	fmt.Fprintf(w, "  Points: %d\n", m.NumPoints)
	fmt.Fprintf(w, "  Cells: %d\n", m.NumCells)

	typeCounts := make(map[ElementType]int)
	for _, t := range m.CellTypes {
		typeCounts[t]++
	}
	types := make([]ElementType, 0, len(typeCounts))
	for t := range typeCounts {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	fmt.Fprintf(w, "  Cell types:\n")
	for _, t := range types {
		fmt.Fprintf(w, "    %s: %d\n", t, typeCounts[t])
	}
	for _, data := range []struct {
		label  string
		arrays map[string][]float64
	}{{"Point data", m.PointData}, {"Cell data", m.CellData}} {
		names := make([]string, 0, len(data.arrays))
		for name := range data.arrays {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Fprintf(w, "  %s: %v\n", data.label, names)
	}
}
