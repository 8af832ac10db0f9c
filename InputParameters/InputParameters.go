package InputParameters

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/notargets/sv1d/network"
	"github.com/notargets/sv1d/types"
	"go.uber.org/multierr"
)

type BCParameters struct {
	Type   string    `json:"Type"`
	Values []float64 `json:"Values"`
}

type MaterialParameters struct {
	Name      string     `json:"Name"`
	Model     string     `json:"Model"`
	Density   float64    `json:"Density"`
	Viscosity float64    `json:"Viscosity"`
	K         [3]float64 `json:"K"` // k1, k2, k3 for OLUFSEN, Eh/r0 in the first slot for LINEAR
}

// Parameters obtained from the YAML input file
type MeshParameters struct {
	ModelName       string   `json:"ModelName"`
	CenterlinesFile string   `json:"CenterlinesFile"`
	OutputDirectory string   `json:"OutputDirectory"`
	InflowFile      string   `json:"InflowFile"`
	OutletNames     []string `json:"OutletNames"`
	// One outlet name per line, in path order
	OutletFaceNamesFile string `json:"OutletFaceNamesFile"`
	// Keyed by outlet name
	BCs                    map[string]BCParameters    `json:"BCs"`
	LengthCoef             float64                    `json:"LengthCoef"`
	AreaCoef               float64                    `json:"AreaCoef"`
	ElementSize            float64                    `json:"ElementSize"`
	MinElements            int                        `json:"MinElements"`
	TimeStep               float64                    `json:"TimeStep"`
	SavePeriod             int                        `json:"SavePeriod"`
	NumSteps               int                        `json:"NumSteps"`
	Material               MaterialParameters         `json:"Material"`
	GroupMaterials         map[int]MaterialParameters `json:"GroupMaterials"`
	OutputFormat           string                     `json:"OutputFormat"`
	ReorganizeBifurcations bool                       `json:"ReorganizeBifurcations"`
	WriteGroupReport       bool                       `json:"WriteGroupReport"`
	WriteVTK               bool                       `json:"WriteVTK"`
}

func NewMeshParameters() *MeshParameters {
	mat := network.DefaultMaterial()
	return &MeshParameters{
		OutputDirectory: ".",
		LengthCoef:      1,
		AreaCoef:        1,
		ElementSize:     0.1,
		MinElements:     10,
		TimeStep:        1e-3,
		SavePeriod:      20,
		NumSteps:        1000,
		Material: MaterialParameters{
			Name:      mat.Name,
			Model:     string(mat.Model),
			Density:   mat.Density,
			Viscosity: mat.Viscosity,
			K:         mat.Coefficients,
		},
		OutputFormat: "TEXT",
	}
}

// Parse overlays the YAML data on the current values
func (mp *MeshParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, mp)
}

func ReadMeshParameters(filename string) (mp *MeshParameters, err error) {
	var data []byte
	if data, err = os.ReadFile(filename); err != nil {
		return
	}
	mp = NewMeshParameters()
	if err = mp.Parse(data); err != nil {
		return nil, fmt.Errorf("parsing %s: %v", filename, err)
	}
	return
}

func (mp *MeshParameters) Print(w io.Writer) {
	fmt.Fprintf(w, "\"%s\"\t\t= Model Name\n", mp.ModelName)
	fmt.Fprintf(w, "[%s]\t= Centerlines File\n", mp.CenterlinesFile)
	fmt.Fprintf(w, "[%s]\t= Inflow File\n", mp.InflowFile)
	fmt.Fprintf(w, "%8.5f\t\t= Length Coefficient\n", mp.LengthCoef)
	fmt.Fprintf(w, "%8.5f\t\t= Area Coefficient\n", mp.AreaCoef)
	fmt.Fprintf(w, "%8.5f\t\t= Element Size\n", mp.ElementSize)
	fmt.Fprintf(w, "[%d]\t\t\t\t= Min Elements\n", mp.MinElements)
	fmt.Fprintf(w, "%8.5f\t\t= Time Step\n", mp.TimeStep)
	fmt.Fprintf(w, "[%d/%d]\t\t\t= Save Period/Steps\n", mp.SavePeriod, mp.NumSteps)
	fmt.Fprintf(w, "[%s %s]\t\t= Material\n", mp.Material.Name, mp.Material.Model)
	keys := make([]string, len(mp.BCs))
	i := 0
	for k := range mp.BCs {
		keys[i] = k
		i++
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(w, "BCs[%s] = %s %v\n", key, mp.BCs[key].Type, mp.BCs[key].Values)
	}
}

// Validate reports every problem found, each as a *types.ConfigurationError
func (mp *MeshParameters) Validate() (err error) {
	if mp.CenterlinesFile == "" {
		err = multierr.Append(err, types.NewConfigurationError("CenterlinesFile", "required"))
	}
	if mp.LengthCoef <= 0 {
		err = multierr.Append(err, types.NewConfigurationError("LengthCoef", "must be positive, have %g", mp.LengthCoef))
	}
	if mp.AreaCoef <= 0 {
		err = multierr.Append(err, types.NewConfigurationError("AreaCoef", "must be positive, have %g", mp.AreaCoef))
	}
	if len(mp.OutletNames) > 0 && mp.OutletFaceNamesFile != "" {
		err = multierr.Append(err, types.NewConfigurationError("OutletNames",
			"give either OutletNames or OutletFaceNamesFile"))
	}
	for name, bc := range mp.BCs {
		if _, ok := types.NewBCKIND(bc.Type); !ok {
			err = multierr.Append(err, types.NewConfigurationError("BCs",
				"outlet %q: unknown boundary condition type %q", name, bc.Type))
		}
	}
	return
}

// ToNetworkParameters validates and converts to writer parameters
func (mp *MeshParameters) ToNetworkParameters() (p *network.Parameters, err error) {
	if err = mp.Validate(); err != nil {
		return nil, err
	}
	p = network.NewParameters()
	p.ModelName = mp.ModelName
	p.ElementSize = mp.ElementSize
	p.MinElements = mp.MinElements
	p.InflowFile = mp.InflowFile
	p.Solver = network.SolverOptions{TimeStep: mp.TimeStep, SavePeriod: mp.SavePeriod, NumSteps: mp.NumSteps}
	p.Material = mp.Material.toMaterial()
	p.OutputFormat = mp.OutputFormat
	if len(mp.GroupMaterials) > 0 {
		p.GroupMaterials = make(map[int]network.Material, len(mp.GroupMaterials))
		for group, mat := range mp.GroupMaterials {
			p.GroupMaterials[group] = mat.toMaterial()
		}
	}
	for name, bc := range mp.BCs {
		kind, _ := types.NewBCKIND(bc.Type)
		p.BoundaryConditions[name] = network.BoundaryCondition{Kind: kind, Values: bc.Values}
	}
	p.OutletNames = mp.OutletNames
	if mp.OutletFaceNamesFile != "" {
		if p.OutletNames, err = ReadOutletNames(mp.OutletFaceNamesFile); err != nil {
			return nil, types.NewConfigurationError("OutletFaceNamesFile", "%v", err)
		}
	}
	return
}

func (m MaterialParameters) toMaterial() network.Material {
	return network.Material{
		Name:         m.Name,
		Model:        network.MaterialModel(strings.ToUpper(m.Model)),
		Density:      m.Density,
		Viscosity:    m.Viscosity,
		Coefficients: m.K,
	}
}

// ReadOutletNames reads one outlet face name per non blank line
func ReadOutletNames(filename string) (names []string, err error) {
	var data []byte
	if data, err = os.ReadFile(filename); err != nil {
		return
	}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		if name := strings.TrimSpace(scanner.Text()); name != "" {
			names = append(names, name)
		}
	}
	err = scanner.Err()
	return
}
