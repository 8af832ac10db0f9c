package network

import (
	"fmt"
	"strings"

	"github.com/notargets/sv1d/types"
)

// MaterialModel is the wall constitutive model of the solver
type MaterialModel string

const (
	Olufsen MaterialModel = "OLUFSEN"
	Linear  MaterialModel = "LINEAR"
)

type Material struct {
	Name         string
	Model        MaterialModel
	Density      float64
	Viscosity    float64
	Coefficients [3]float64 // k1, k2, k3 for OLUFSEN; Eh/r0 first for LINEAR
}

// DefaultMaterial is blood in cgs units with Olufsen wall stiffness
func DefaultMaterial() Material {
	return Material{
		Name:         "MAT1",
		Model:        Olufsen,
		Density:      1.06,
		Viscosity:    0.04,
		Coefficients: [3]float64{2.0e7, -22.5267, 8.65e5},
	}
}

type BoundaryCondition struct {
	Kind   types.BCKIND
	Values []float64 // Rp, C, Rd for RCR; R for RESISTANCE
}

type SolverOptions struct {
	TimeStep   float64
	SavePeriod int
	NumSteps   int
}

// Parameters are everything the network file needs beyond the segment graph
type Parameters struct {
	ModelName   string
	ElementSize float64
	MinElements int

	// OutletNames[path] names the outlet face at the end of each path
	OutletNames        []string
	BoundaryConditions map[string]BoundaryCondition

	InflowFile string
	Solver     SolverOptions

	Material       Material
	GroupMaterials map[int]Material // Optional per group wall properties

	OutputFormat string // TEXT, VTK or BOTH
}

func NewParameters() *Parameters {
	return &Parameters{
		ElementSize:        0.1,
		MinElements:        10,
		BoundaryConditions: make(map[string]BoundaryCondition),
		Solver:             SolverOptions{TimeStep: 1e-3, SavePeriod: 20, NumSteps: 1000},
		Material:           DefaultMaterial(),
		OutputFormat:       "TEXT",
	}
}

// Validate checks the parameters on their own and against the graph's outlets
func (p *Parameters) Validate(g *SegmentGraph) error {
	switch {
	case strings.TrimSpace(p.ModelName) == "":
		return types.NewConfigurationError("model_name", "required")
	case strings.ContainsAny(p.ModelName, " \t\n"):
		return types.NewConfigurationError("model_name", "%q contains white space", p.ModelName)
	case p.ElementSize <= 0:
		return types.NewConfigurationError("element_size", "must be positive, have %g", p.ElementSize)
	case p.MinElements < 1:
		return types.NewConfigurationError("min_elements", "must be at least 1, have %d", p.MinElements)
	case p.InflowFile == "":
		return types.NewConfigurationError("inflow_file", "required")
	case p.Solver.TimeStep <= 0:
		return types.NewConfigurationError("time_step", "must be positive, have %g", p.Solver.TimeStep)
	case p.Solver.SavePeriod < 1:
		return types.NewConfigurationError("save_period", "must be at least 1, have %d", p.Solver.SavePeriod)
	case p.Solver.NumSteps < 1:
		return types.NewConfigurationError("num_steps", "must be at least 1, have %d", p.Solver.NumSteps)
	}
	switch strings.ToUpper(p.OutputFormat) {
	case "TEXT", "VTK", "BOTH":
	default:
		return types.NewConfigurationError("output_format", "unknown format %q", p.OutputFormat)
	}
	if err := p.Material.validate("material"); err != nil {
		return err
	}
	for group, mat := range p.GroupMaterials {
		if err := mat.validate(fmt.Sprintf("group_materials[%d]", group)); err != nil {
			return err
		}
	}
	if g == nil {
		return nil
	}
	if len(p.OutletNames) != g.NumPaths {
		return types.NewConfigurationError("outlet_names",
			"have %d outlet names for %d outlet segments", len(p.OutletNames), g.NumPaths)
	}
	for path := range g.Outlets() {
		name := p.OutletNames[path]
		bc, ok := p.BoundaryConditions[name]
		if !ok {
			return types.NewConfigurationError("boundary_conditions",
				"no boundary condition for outlet %q of path %d", name, path)
		}
		if bc.Kind == types.BC_None {
			return types.NewConfigurationError("boundary_conditions",
				"outlet %q has no boundary condition type", name)
		}
		if len(bc.Values) != bc.Kind.NumValues() {
			return types.NewConfigurationError("boundary_conditions",
				"outlet %q: %s takes %d values, have %d", name, bc.Kind, bc.Kind.NumValues(), len(bc.Values))
		}
	}
	return nil
}

func (m Material) validate(field string) error {
	switch {
	case m.Name == "":
		return types.NewConfigurationError(field, "material name required")
	case m.Model != Olufsen && m.Model != Linear:
		return types.NewConfigurationError(field, "unknown material model %q", m.Model)
	case m.Density <= 0 || m.Viscosity <= 0:
		return types.NewConfigurationError(field, "density and viscosity must be positive")
	}
	return nil
}

// materialName is the material a segment's group uses
func (p *Parameters) materialName(group int) string {
	if _, ok := p.GroupMaterials[group]; ok {
		return groupMaterialName(group)
	}
	return p.Material.Name
}

func groupMaterialName(group int) string { return fmt.Sprintf("MAT_GROUP%d", group) }
