package readers

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/sv1d/mesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// gambitElementTypeMap maps Gambit neutral element type codes to our ElementType
var gambitElementTypeMap = map[int]mesh.ElementType{
	1: mesh.Line,     // Edge
	2: mesh.Quad,     // Quadrilateral
	3: mesh.Triangle, // Triangle
	4: mesh.Hex,      // Brick
	5: mesh.Prism,    // Wedge
	6: mesh.Tet,      // Tetrahedron
	7: mesh.Pyramid,  // Pyramid
}

// ReadGambitNeutral reads a Gambit neutral file (.neu). The file's node and element
// ids are kept as the GlobalNodeID and GlobalElementID arrays.
func ReadGambitNeutral(filename string) (*mesh.Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	msh := mesh.NewMesh()
	scanner := bufio.NewScanner(file)

	var numnp, nelem int
	var haveHeader bool

	// Read control info section
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.Contains(line, "NUMNP") && strings.Contains(line, "NELEM") {
			// Next line contains the actual values
			if !scanner.Scan() {
				return nil, fmt.Errorf("unexpected EOF after control header")
			}
			values := strings.Fields(scanner.Text())
			if len(values) < 2 {
				return nil, fmt.Errorf("invalid control info line: %q", scanner.Text())
			}
			numnp, _ = strconv.Atoi(values[0])
			nelem, _ = strconv.Atoi(values[1])
			haveHeader = true
			break
		}
	}
	if !haveHeader {
		return nil, fmt.Errorf("missing NUMNP/NELEM control info")
	}

	var (
		nodeIndex = make(map[int]int, numnp)
		nodeIDs   = make([]float64, 0, numnp)
		elemIDs   = make([]float64, 0, nelem)
	)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if strings.Contains(line, "NODAL COORDINATES") {
			msh.Points = make([]r3.Vec, 0, numnp)
			for i := 0; i < numnp; i++ {
				if !scanner.Scan() {
					return nil, fmt.Errorf("unexpected EOF reading nodes")
				}
				fields := strings.Fields(scanner.Text())
				if len(fields) < 4 {
					return nil, fmt.Errorf("invalid node line: %q", scanner.Text())
				}
				nodeID, err := strconv.Atoi(fields[0])
				if err != nil {
					return nil, fmt.Errorf("invalid node id: %v", err)
				}
				var c [3]float64
				for j := range c {
					if c[j], err = strconv.ParseFloat(fields[1+j], 64); err != nil {
						return nil, fmt.Errorf("invalid coordinate: %v", err)
					}
				}
				nodeIndex[nodeID] = len(msh.Points)
				msh.Points = append(msh.Points, r3.Vec{X: c[0], Y: c[1], Z: c[2]})
				nodeIDs = append(nodeIDs, float64(nodeID))
			}

		} else if strings.Contains(line, "ELEMENTS/CELLS") {
			for i := 0; i < nelem; i++ {
				if !scanner.Scan() {
					return nil, fmt.Errorf("unexpected EOF reading elements")
				}
				fields := strings.Fields(scanner.Text())
				if len(fields) < 3 {
					return nil, fmt.Errorf("invalid element line: %q", scanner.Text())
				}
				elemID, _ := strconv.Atoi(fields[0])
				gambitType, _ := strconv.Atoi(fields[1])
				numNodes, _ := strconv.Atoi(fields[2])
				etype, ok := gambitElementTypeMap[gambitType]
				if !ok {
					return nil, fmt.Errorf("unknown Gambit element type: %d", gambitType)
				}
				nodes := fields[3:]
				// Long connectivity lists wrap onto continuation lines
				for len(nodes) < numNodes {
					if !scanner.Scan() {
						return nil, fmt.Errorf("unexpected EOF reading element %d", elemID)
					}
					nodes = append(nodes, strings.Fields(scanner.Text())...)
				}
				verts := make([]int, numNodes)
				for j := 0; j < numNodes; j++ {
					id, _ := strconv.Atoi(nodes[j])
					idx, ok := nodeIndex[id]
					if !ok {
						return nil, fmt.Errorf("element %d references unknown node %d", elemID, id)
					}
					verts[j] = idx
				}
				msh.Cells = append(msh.Cells, verts)
				msh.CellTypes = append(msh.CellTypes, etype)
				elemIDs = append(elemIDs, float64(elemID))
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %v", err)
	}

	msh.PointData[mesh.GlobalNodeIDArray] = nodeIDs
	msh.CellData[mesh.GlobalElementIDArray] = elemIDs
	if err := msh.Finalize(); err != nil {
		return nil, err
	}
	return msh, nil
}
