package readers

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/notargets/sv1d/mesh"
	"github.com/pkg/errors"
)

// WriteVTKFile writes msh as a legacy ASCII VTK unstructured grid
func WriteVTKFile(filename, title string, msh *mesh.Mesh) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err = WriteVTK(file, title, msh); err != nil {
		file.Close()
		return errors.Wrapf(err, "writing %s", filename)
	}
	return file.Close()
}

func WriteVTK(w io.Writer, title string, msh *mesh.Mesh) error {
	codes := make(map[mesh.ElementType]int, len(mesh.VTKCellTypeMap))
	for code, etype := range mesh.VTKCellTypeMap {
		codes[etype] = code
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# vtk DataFile Version 3.0\n%s\nASCII\nDATASET UNSTRUCTURED_GRID\n", title)

	fmt.Fprintf(bw, "POINTS %d double\n", len(msh.Points))
	for _, p := range msh.Points {
		fmt.Fprintf(bw, "%s %s %s\n", ftoa(p.X), ftoa(p.Y), ftoa(p.Z))
	}

	size := 0
	for _, c := range msh.Cells {
		size += len(c) + 1
	}
	fmt.Fprintf(bw, "CELLS %d %d\n", len(msh.Cells), size)
	for _, c := range msh.Cells {
		fmt.Fprintf(bw, "%d", len(c))
		for _, pt := range c {
			fmt.Fprintf(bw, " %d", pt)
		}
		fmt.Fprintln(bw)
	}
	fmt.Fprintf(bw, "CELL_TYPES %d\n", len(msh.Cells))
	for i := range msh.Cells {
		etype := mesh.PolyLine
		if i < len(msh.CellTypes) {
			etype = msh.CellTypes[i]
		}
		fmt.Fprintf(bw, "%d\n", codes[etype])
	}

	writeField(bw, "POINT_DATA", len(msh.Points), msh.PointData)
	writeField(bw, "CELL_DATA", len(msh.Cells), msh.CellData)
	return bw.Flush()
}

func writeField(w io.Writer, section string, n int, arrays map[string][]float64) {
	if len(arrays) == 0 {
		return
	}
	names := make([]string, 0, len(arrays))
	for name := range arrays {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintf(w, "%s %d\nFIELD FieldData %d\n", section, n, len(names))
	for _, name := range names {
		fmt.Fprintf(w, "%s 1 %d double\n", name, n)
		for _, v := range arrays[name] {
			fmt.Fprintf(w, "%s\n", ftoa(v))
		}
	}
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
