package readers

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/sv1d/mesh"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"
)

// ReadVTK reads a legacy ASCII VTK file holding POLYDATA or UNSTRUCTURED_GRID
func ReadVTK(filename string) (*mesh.Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	msh, err := ParseVTK(file)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", filename)
	}
	return msh, nil
}

// ParseVTK parses legacy ASCII VTK content. Both the classic cell layout
// (count followed by point ids) and the 5.x OFFSETS/CONNECTIVITY layout are
// accepted. Single component SCALARS and FIELD arrays are stored as point or cell
// data; multi component arrays are read past.
func ParseVTK(r io.Reader) (*mesh.Mesh, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 64*1024*1024)

	var header []string
	for len(header) < 3 && scanner.Scan() {
		header = append(header, strings.TrimSpace(scanner.Text()))
	}
	if len(header) < 3 {
		return nil, fmt.Errorf("truncated header")
	}
	if !strings.HasPrefix(strings.ToLower(header[0]), "# vtk datafile") {
		return nil, fmt.Errorf("not a VTK legacy file: %q", header[0])
	}
	if !strings.EqualFold(header[2], "ASCII") {
		return nil, fmt.Errorf("unsupported encoding %q, only ASCII is read", header[2])
	}

	tk := &tokenizer{}
	var inMetadata bool
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		// METADATA blocks run to the next blank line
		switch {
		case inMetadata:
			inMetadata = len(fields) != 0
			continue
		case len(fields) == 1 && strings.EqualFold(fields[0], "METADATA"):
			inMetadata = true
			continue
		}
		tk.toks = append(tk.toks, fields...)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %v", err)
	}

	msh := mesh.NewMesh()
	var (
		target  map[string][]float64 // point or cell data section in effect
		count   int                  // number of tuples in that section
		dataset string
	)
	for !tk.done() {
		keyword := strings.ToUpper(tk.mustNext())
		switch keyword {
		case "DATASET":
			dataset = strings.ToUpper(tk.mustNext())
			if dataset != "POLYDATA" && dataset != "UNSTRUCTURED_GRID" {
				return nil, fmt.Errorf("unsupported dataset type %s", dataset)
			}
		case "POINTS":
			n := tk.nextCount(3)
			tk.mustNext() // data type
			msh.Points = make([]r3.Vec, n)
			for i := 0; i < n; i++ {
				msh.Points[i] = r3.Vec{X: tk.nextFloat(), Y: tk.nextFloat(), Z: tk.nextFloat()}
			}
		case "CELLS", "VERTICES", "LINES", "POLYGONS", "TRIANGLE_STRIPS":
			cells := tk.readCells()
			msh.Cells = append(msh.Cells, cells...)
			if keyword != "CELLS" {
				for _, c := range cells {
					msh.CellTypes = append(msh.CellTypes, polyDataCellType(keyword, len(c)))
				}
			}
		case "CELL_TYPES":
			n := tk.nextCount(1)
			msh.CellTypes = make([]mesh.ElementType, n)
			for i := 0; i < n; i++ {
				code := tk.nextInt()
				etype, ok := mesh.VTKCellTypeMap[code]
				if !ok {
					return nil, fmt.Errorf("unknown VTK cell type: %d", code)
				}
				msh.CellTypes[i] = etype
			}
		case "POINT_DATA":
			target, count = msh.PointData, tk.nextCount(0)
		case "CELL_DATA":
			target, count = msh.CellData, tk.nextCount(0)
		case "SCALARS":
			if target == nil {
				return nil, fmt.Errorf("SCALARS outside of POINT_DATA/CELL_DATA")
			}
			name := tk.mustNext()
			tk.mustNext() // data type
			ncomp := 1
			// numComp is optional and only present ahead of LOOKUP_TABLE
			if n, err := strconv.Atoi(tk.peek()); err == nil && strings.EqualFold(tk.peekAt(1), "LOOKUP_TABLE") {
				tk.pos++
				ncomp = n
			}
			if strings.EqualFold(tk.peek(), "LOOKUP_TABLE") {
				tk.pos += 2
			}
			storeArray(target, name, tk.readFloats(count*ncomp), ncomp)
		case "FIELD":
			if target == nil {
				return nil, fmt.Errorf("FIELD outside of POINT_DATA/CELL_DATA")
			}
			tk.mustNext() // field name
			narrays := tk.nextCount(4)
			for i := 0; i < narrays && tk.err == nil; i++ {
				name := tk.mustNext()
				ncomp := tk.nextInt()
				ntuples := tk.nextInt()
				tk.mustNext() // data type
				storeArray(target, name, tk.readFloats(ncomp*ntuples), ncomp)
			}
		case "VECTORS", "NORMALS":
			tk.pos += 2
			tk.readFloats(3 * count)
		case "TEXTURE_COORDINATES":
			tk.mustNext()
			dim := tk.nextInt()
			tk.mustNext()
			tk.readFloats(dim * count)
		default:
			return nil, fmt.Errorf("unsupported section %q", keyword)
		}
		if tk.err != nil {
			return nil, errors.Wrapf(tk.err, "in %s section", keyword)
		}
	}
	if dataset == "" {
		return nil, fmt.Errorf("missing DATASET section")
	}
	if dataset == "UNSTRUCTURED_GRID" && len(msh.CellTypes) != len(msh.Cells) {
		return nil, fmt.Errorf("have %d CELL_TYPES for %d CELLS", len(msh.CellTypes), len(msh.Cells))
	}
	if err := msh.Finalize(); err != nil {
		return nil, err
	}
	return msh, nil
}

func storeArray(target map[string][]float64, name string, values []float64, ncomp int) {
	if ncomp == 1 {
		target[name] = values
	}
}

func polyDataCellType(section string, npts int) mesh.ElementType {
	switch section {
	case "VERTICES":
		return mesh.Vertex
	case "LINES":
		if npts == 2 {
			return mesh.Line
		}
		return mesh.PolyLine
	default:
		switch npts {
		case 3:
			return mesh.Triangle
		case 4:
			return mesh.Quad
		}
		return mesh.Polygon
	}
}

// tokenizer walks whitespace separated tokens, latching the first error so that the
// section parsers can read straight through and check once.
type tokenizer struct {
	toks []string
	pos  int
	err  error
}

func (tk *tokenizer) done() bool { return tk.err != nil || tk.pos >= len(tk.toks) }

func (tk *tokenizer) peek() string {
	if tk.pos >= len(tk.toks) {
		return ""
	}
	return tk.toks[tk.pos]
}

func (tk *tokenizer) peekAt(offset int) string {
	if tk.pos+offset >= len(tk.toks) {
		return ""
	}
	return tk.toks[tk.pos+offset]
}

func (tk *tokenizer) mustNext() string {
	if tk.pos >= len(tk.toks) {
		if tk.err == nil {
			tk.err = fmt.Errorf("unexpected EOF")
		}
		return ""
	}
	tok := tk.toks[tk.pos]
	tk.pos++
	return tok
}

func (tk *tokenizer) nextInt() int {
	tok := tk.mustNext()
	if tk.err != nil {
		return 0
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		tk.err = fmt.Errorf("invalid integer %q", tok)
	}
	return v
}

func (tk *tokenizer) nextFloat() float64 {
	tok := tk.mustNext()
	if tk.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		tk.err = fmt.Errorf("invalid number %q", tok)
	}
	return v
}

// nextCount reads a non negative element count. A non zero perItem bounds the count
// by the tokens left, each element taking at least perItem tokens.
func (tk *tokenizer) nextCount(perItem int) int {
	n := tk.nextInt()
	if tk.err != nil {
		return 0
	}
	return tk.checkCount(n, perItem)
}

func (tk *tokenizer) checkCount(n, perItem int) int {
	switch {
	case tk.err != nil:
		return 0
	case n < 0:
		tk.err = fmt.Errorf("invalid count %d", n)
		return 0
	case perItem > 0 && n > (len(tk.toks)-tk.pos)/perItem:
		tk.err = fmt.Errorf("count %d exceeds the remaining data", n)
		return 0
	}
	return n
}

func (tk *tokenizer) readFloats(n int) (vals []float64) {
	n = tk.checkCount(n, 1)
	vals = make([]float64, n)
	for i := 0; i < n && tk.err == nil; i++ {
		vals[i] = tk.nextFloat()
	}
	return
}

func (tk *tokenizer) readInts(n int) (vals []int) {
	n = tk.checkCount(n, 1)
	vals = make([]int, n)
	for i := 0; i < n && tk.err == nil; i++ {
		vals[i] = tk.nextInt()
	}
	return
}

// readCells parses the body of a CELLS/LINES/POLYGONS section after its keyword
func (tk *tokenizer) readCells() (cells [][]int) {
	n := tk.nextCount(1)
	size := tk.nextCount(0)
	if strings.EqualFold(tk.peek(), "OFFSETS") {
		tk.pos += 2
		offsets := tk.readInts(n)
		if !strings.EqualFold(tk.mustNext(), "CONNECTIVITY") {
			if tk.err == nil {
				tk.err = fmt.Errorf("expected CONNECTIVITY after OFFSETS")
			}
			return nil
		}
		tk.mustNext()
		conn := tk.readInts(size)
		if tk.err != nil {
			return nil
		}
		for i := 0; i+1 < len(offsets); i++ {
			if offsets[i] < 0 || offsets[i+1] > len(conn) || offsets[i] > offsets[i+1] {
				tk.err = fmt.Errorf("invalid offsets %d..%d", offsets[i], offsets[i+1])
				return nil
			}
			cells = append(cells, conn[offsets[i]:offsets[i+1]])
		}
		return
	}
	cells = make([][]int, 0, n)
	for i := 0; i < n && tk.err == nil; i++ {
		npts := tk.nextInt()
		cells = append(cells, tk.readInts(npts))
	}
	return
}
