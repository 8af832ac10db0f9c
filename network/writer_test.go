package network

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/notargets/sv1d/centerline"
	"github.com/notargets/sv1d/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func yGraph(t *testing.T) *SegmentGraph {
	t.Helper()
	cl, err := centerline.YShape(3, 3, 1.0)
	require.NoError(t, err)
	g, err := NewBuilder(nil).BuildGraph(cl, 0.1, 0.01)
	require.NoError(t, err)
	return g
}

func yParameters(t *testing.T) *Parameters {
	t.Helper()
	inflow := filepath.Join(t.TempDir(), "inflow.flow")
	require.NoError(t, os.WriteFile(inflow, []byte("0.0 -10.0\n1.0 -10.0"), 0644))
	p := NewParameters()
	p.ModelName = "ymodel"
	p.InflowFile = inflow
	p.OutletNames = []string{"cap_a", "cap_b"}
	p.BoundaryConditions["cap_a"] = BoundaryCondition{Kind: types.BC_RCR, Values: []float64{100, 1e-4, 1000}}
	p.BoundaryConditions["cap_b"] = BoundaryCondition{Kind: types.BC_Resistance, Values: []float64{500}}
	return p
}

func linesWithPrefix(text, prefix string) (lines []string) {
	for _, l := range strings.Split(text, "\n") {
		if strings.HasPrefix(l, prefix) {
			lines = append(lines, l)
		}
	}
	return
}

func TestWriteNetworkYShape(t *testing.T) {
	var (
		g   = yGraph(t)
		p   = yParameters(t)
		buf bytes.Buffer
	)
	require.NoError(t, WriteNetwork(&buf, g, p))
	out := buf.String()

	assert.Equal(t, []string{"MODEL ymodel"}, linesWithPrefix(out, "MODEL "))
	assert.Equal(t, []string{
		"NODE 0 0 0 0",
		"NODE 1 2 0 0",
		"NODE 2 3 2 0",
		"NODE 3 3 -2 0",
	}, linesWithPrefix(out, "NODE "))

	assert.Equal(t, []string{"JOINT JOINT0 1 IN0 OUT0"}, linesWithPrefix(out, "JOINT "))
	assert.Equal(t, []string{"JOINTINLET IN0 1 0"}, linesWithPrefix(out, "JOINTINLET "))
	assert.Equal(t, []string{"JOINTOUTLET OUT0 2 1 2"}, linesWithPrefix(out, "JOINTOUTLET "))

	area := ftoa(g.Segments[1].InletArea)
	assert.Equal(t, []string{
		"SEGMENT Group0_Seg0 0 " + ftoa(g.Segments[0].Length) + " 10 0 1 " + area + " " + area + " 0.0 MAT1 NONE 0.0 0 0 NOBOUND NONE",
		"SEGMENT Group2_Seg1 1 0.2 10 1 2 " + area + " " + area + " 0.0 MAT1 NONE 0.0 0 0 RCR RCR_0",
		"SEGMENT Group3_Seg2 2 0.2 10 1 3 " + area + " " + area + " 0.0 MAT1 NONE 0.0 0 0 RESISTANCE RESISTANCE_1",
	}, linesWithPrefix(out, "SEGMENT "))

	assert.Contains(t, out, "DATATABLE RCR_0 LIST\n0.0 100\n0.0 0.0001\n0.0 1000\nENDDATATABLE\n")
	assert.Contains(t, out, "DATATABLE RESISTANCE_1 LIST\n0.0 500\nENDDATATABLE\n")
	assert.Contains(t, out, "DATATABLE INFLOW LIST\n0.0 -10.0\n1.0 -10.0\nENDDATATABLE\n")
	assert.Equal(t, []string{"SOLVEROPTIONS 0.001 20 1000 2 INFLOW FLOW 1.0e-5 1 1"}, linesWithPrefix(out, "SOLVEROPTIONS "))
	assert.Equal(t, []string{"MATERIAL MAT1 OLUFSEN 1.06 0.04 0.0 1.0 2e+07 -22.5267 865000"}, linesWithPrefix(out, "MATERIAL "))
	assert.Equal(t, []string{"OUTPUT TEXT"}, linesWithPrefix(out, "OUTPUT "))

	// fixed section order
	var last int
	for _, key := range []string{"MODEL ", "NODE ", "JOINT ", "SEGMENT ", "DATATABLE ", "SOLVEROPTIONS ", "MATERIAL ", "OUTPUT "} {
		idx := strings.Index(out, "\n"+key)
		require.True(t, idx > last, key)
		last = idx
	}
}

func TestWriteNetworkGroupMaterials(t *testing.T) {
	var (
		g   = yGraph(t)
		p   = yParameters(t)
		buf bytes.Buffer
	)
	stiff := DefaultMaterial()
	stiff.Model = Linear
	stiff.Coefficients = [3]float64{1.5e6, 0, 0}
	p.GroupMaterials = map[int]Material{3: stiff}
	require.NoError(t, WriteNetwork(&buf, g, p))
	out := buf.String()

	segs := linesWithPrefix(out, "SEGMENT ")
	require.Len(t, segs, 3)
	assert.Contains(t, segs[1], " MAT1 ")
	assert.Contains(t, segs[2], " MAT_GROUP3 ")
	assert.Equal(t, []string{
		"MATERIAL MAT1 OLUFSEN 1.06 0.04 0.0 1.0 2e+07 -22.5267 865000",
		"MATERIAL MAT_GROUP3 LINEAR 1.06 0.04 0.0 1.0 1.5e+06 0 0",
	}, linesWithPrefix(out, "MATERIAL "))
}

func TestWriteNetworkConfigurationErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(p *Parameters)
		field  string
	}{
		{"no model name", func(p *Parameters) { p.ModelName = "" }, "model_name"},
		{"spaced model name", func(p *Parameters) { p.ModelName = "a b" }, "model_name"},
		{"element size", func(p *Parameters) { p.ElementSize = 0 }, "element_size"},
		{"min elements", func(p *Parameters) { p.MinElements = 0 }, "min_elements"},
		{"no inflow", func(p *Parameters) { p.InflowFile = "" }, "inflow_file"},
		{"missing inflow", func(p *Parameters) { p.InflowFile = filepath.Join(os.TempDir(), "sv1d-no-such.flow") }, "inflow_file"},
		{"time step", func(p *Parameters) { p.Solver.TimeStep = -1 }, "time_step"},
		{"save period", func(p *Parameters) { p.Solver.SavePeriod = 0 }, "save_period"},
		{"num steps", func(p *Parameters) { p.Solver.NumSteps = 0 }, "num_steps"},
		{"output format", func(p *Parameters) { p.OutputFormat = "HDF5" }, "output_format"},
		{"material model", func(p *Parameters) { p.Material.Model = "ELASTIC" }, "material"},
		{"group material", func(p *Parameters) { p.GroupMaterials = map[int]Material{2: {Name: "x", Model: Linear}} }, "group_materials[2]"},
		{"outlet count", func(p *Parameters) { p.OutletNames = p.OutletNames[:1] }, "outlet_names"},
		{"missing bc", func(p *Parameters) { delete(p.BoundaryConditions, "cap_b") }, "boundary_conditions"},
		{"bc kind", func(p *Parameters) {
			p.BoundaryConditions["cap_b"] = BoundaryCondition{Kind: types.BC_None}
		}, "boundary_conditions"},
		{"bc values", func(p *Parameters) {
			p.BoundaryConditions["cap_a"] = BoundaryCondition{Kind: types.BC_RCR, Values: []float64{1}}
		}, "boundary_conditions"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := yParameters(t)
			tt.modify(p)
			filename := filepath.Join(t.TempDir(), "model.in")
			err := WriteNetworkFile(filename, yGraph(t), p)
			var ce *types.ConfigurationError
			require.True(t, errors.As(err, &ce), "got %v", err)
			assert.Equal(t, tt.field, ce.Field)
			assert.NoFileExists(t, filename)
		})
	}
}

func TestWriteNetworkFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "model.in")
	require.NoError(t, WriteNetworkFile(filename, yGraph(t), yParameters(t)))
	data, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Len(t, linesWithPrefix(string(data), "SEGMENT "), 3)
	assert.Len(t, linesWithPrefix(string(data), "JOINT "), 1)
}

func TestNumElements(t *testing.T) {
	assert.Equal(t, 10, NumElements(0.2, 0.1, 10))
	assert.Equal(t, 25, NumElements(2.5, 0.1, 10))
	assert.Equal(t, 3, NumElements(0.26, 0.1, 1))
	assert.Equal(t, 1, NumElements(0, 0.1, 1))
}
