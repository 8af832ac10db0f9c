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

// ReadSU2 reads an SU2 native format file. SU2 carries no global ids, so node
// records fall back to 1-based sequential ids. Boundary markers are read past.
func ReadSU2(filename string) (*mesh.Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	msh := mesh.NewMesh()
	scanner := bufio.NewScanner(file)

	var ndime int
	var hasNDIME, hasNPOIN bool

	nextLine := func() (string, bool) {
		for scanner.Scan() {
			line := scanner.Text()
			if idx := strings.Index(line, "%"); idx >= 0 {
				line = line[:idx]
			}
			if line = strings.TrimSpace(line); line != "" {
				return line, true
			}
		}
		return "", false
	}

	for {
		line, ok := nextLine()
		if !ok {
			break
		}

		if strings.HasPrefix(line, "NDIME=") {
			hasNDIME = true
			fmt.Sscanf(line, "NDIME=%d", &ndime)
			if ndime != 2 && ndime != 3 {
				return nil, fmt.Errorf("unsupported dimension: NDIME=%d", ndime)
			}

		} else if strings.HasPrefix(line, "NPOIN=") {
			if !hasNDIME {
				return nil, fmt.Errorf("NPOIN= before NDIME=")
			}
			hasNPOIN = true
			var npoin int
			fmt.Sscanf(line, "NPOIN=%d", &npoin)
			msh.Points = make([]r3.Vec, npoin)

			for i := 0; i < npoin; i++ {
				line, ok = nextLine()
				if !ok {
					return nil, fmt.Errorf("unexpected EOF reading nodes")
				}
				fields := strings.Fields(line)
				if len(fields) < ndime {
					return nil, fmt.Errorf("invalid node line: expected at least %d coordinates", ndime)
				}
				var coords [3]float64
				for j := 0; j < ndime; j++ {
					if coords[j], err = strconv.ParseFloat(fields[j], 64); err != nil {
						return nil, fmt.Errorf("invalid coordinate: %v", err)
					}
				}
				msh.Points[i] = r3.Vec{X: coords[0], Y: coords[1], Z: coords[2]}
			}

		} else if strings.HasPrefix(line, "NELEM=") {
			var nelem int
			fmt.Sscanf(line, "NELEM=%d", &nelem)
			msh.Cells = make([][]int, 0, nelem)
			msh.CellTypes = make([]mesh.ElementType, 0, nelem)

			for i := 0; i < nelem; i++ {
				line, ok = nextLine()
				if !ok {
					return nil, fmt.Errorf("unexpected EOF reading elements")
				}
				etype, nodes, err := parseSU2Element(line)
				if err != nil {
					return nil, err
				}
				msh.Cells = append(msh.Cells, nodes)
				msh.CellTypes = append(msh.CellTypes, etype)
			}

		} else if strings.HasPrefix(line, "NMARK=") {
			var nmark int
			fmt.Sscanf(line, "NMARK=%d", &nmark)
			for i := 0; i < nmark; i++ {
				if _, ok = nextLine(); !ok { // MARKER_TAG=
					return nil, fmt.Errorf("unexpected EOF reading marker %d", i)
				}
				elemLine, ok := nextLine()
				var nMarkerElems int
				if !ok {
					return nil, fmt.Errorf("unexpected EOF reading marker %d", i)
				}
				if _, err := fmt.Sscanf(elemLine, "MARKER_ELEMS=%d", &nMarkerElems); err != nil {
					return nil, fmt.Errorf("invalid MARKER_ELEMS line: %s", elemLine)
				}
				for j := 0; j < nMarkerElems; j++ {
					if _, ok = nextLine(); !ok {
						return nil, fmt.Errorf("unexpected EOF reading boundary elements")
					}
				}
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %v", err)
	}
	if !hasNPOIN {
		return nil, fmt.Errorf("missing required NPOIN= section")
	}
	if err := msh.Finalize(); err != nil {
		return nil, err
	}
	return msh, nil
}

func parseSU2Element(line string) (etype mesh.ElementType, nodes []int, err error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return etype, nil, fmt.Errorf("invalid element line")
	}
	su2Type, err := strconv.Atoi(fields[0])
	if err != nil {
		return etype, nil, fmt.Errorf("invalid element type: %v", err)
	}
	etype, ok := mesh.VTKCellTypeMap[su2Type]
	if !ok || etype.GetNumNodes() == 0 {
		return etype, nil, fmt.Errorf("unknown element type: %d", su2Type)
	}
	numNodes := etype.GetNumNodes()
	if len(fields) < numNodes+1 {
		return etype, nil, fmt.Errorf("element type %v expects %d nodes, got %d fields",
			etype, numNodes, len(fields)-1)
	}
	nodes = make([]int, numNodes)
	for j := 0; j < numNodes; j++ {
		if nodes[j], err = strconv.Atoi(fields[1+j]); err != nil {
			return etype, nil, fmt.Errorf("invalid node index: %v", err)
		}
	}
	return etype, nodes, nil
}
