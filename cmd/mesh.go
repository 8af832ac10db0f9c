/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/notargets/sv1d/InputParameters"
	"github.com/notargets/sv1d/centerline"
	"github.com/notargets/sv1d/mesh/readers"
	"github.com/notargets/sv1d/network"
	"github.com/notargets/sv1d/utils"
	"github.com/spf13/cobra"
)

// MeshCmd represents the mesh command
var MeshCmd = &cobra.Command{
	Use:   "mesh",
	Short: "Generate a 1D network solver input file from branched centerlines",
	Long: `
Reads centerlines carrying CenterlineIds, GroupIds, TractIds, Blanking and
MaximumInscribedSphereRadius arrays, reduces them to segments and joints and writes
the solver input file <ModelName>.in to the output directory.

sv1d mesh -I mesh.yaml`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			mp *InputParameters.MeshParameters
		)
		icFile, _ := cmd.Flags().GetString("inputParametersFile")
		if len(icFile) == 0 {
			exampleFile := `
########################################
ModelName: aorta
CenterlinesFile: centerlines.vtk
InflowFile: inflow.flow
LengthCoef: 0.1 # mm to cm
AreaCoef: 0.01
OutletNames: [right_iliac, left_iliac]
BCs:
  right_iliac:
    Type: RCR
    Values: [121, 0.0001, 1212]
  left_iliac:
    Type: RESISTANCE
    Values: [800]
########################################
`
			return fmt.Errorf("must supply an input parameters file (-I, --inputParametersFile), example:%s", exampleFile)
		}
		if mp, err = InputParameters.ReadMeshParameters(icFile); err != nil {
			return
		}
		if cmd.Flags().Changed("centerlines") {
			mp.CenterlinesFile, _ = cmd.Flags().GetString("centerlines")
		}
		if cmd.Flags().Changed("outputDir") {
			mp.OutputDirectory, _ = cmd.Flags().GetString("outputDir")
		}
		if cmd.Flags().Changed("reorganize") {
			mp.ReorganizeBifurcations, _ = cmd.Flags().GetBool("reorganize")
		}
		verbose, _ := cmd.Flags().GetBool("verbose")
		if verbose {
			mp.Print(cmd.OutOrStdout())
		}
		if err = RunMesh(mp, cmd.OutOrStdout(), newLogger(cmd.ErrOrStderr())); err != nil {
			return
		}
		if verbose {
			fmt.Fprintln(cmd.OutOrStdout(), utils.GetMemUsage())
		}
		return
	},
}

func init() {
	rootCmd.AddCommand(MeshCmd)
	MeshCmd.Flags().StringP("inputParametersFile", "I", "", "YAML file with model, outlet and solver parameters")
	MeshCmd.Flags().StringP("centerlines", "F", "", "centerlines file (.vtk), overrides CenterlinesFile")
	MeshCmd.Flags().StringP("outputDir", "o", "", "output directory, overrides OutputDirectory")
	MeshCmd.Flags().Bool("reorganize", false, "split joints with more than two children into two child joints")
	MeshCmd.Flags().BoolP("verbose", "v", false, "print the input parameters")
}

// RunMesh reads the centerlines, builds the segment graph and writes the network
// file plus the optional group report and network geometry.
func RunMesh(mp *InputParameters.MeshParameters, out io.Writer, logger utils.Logger) (err error) {
	var (
		p  *network.Parameters
		cl *centerline.Centerlines
		g  *network.SegmentGraph
	)
	if p, err = mp.ToNetworkParameters(); err != nil {
		return
	}
	msh, err := readers.ReadMeshFile(mp.CenterlinesFile)
	if err != nil {
		return
	}
	if cl, err = centerline.FromMesh(msh); err != nil {
		return
	}
	if g, err = network.NewBuilder(logger).BuildGraph(cl, mp.LengthCoef, mp.AreaCoef); err != nil {
		return
	}
	if g, err = network.ReorganizeWideBifurcations(g, mp.ReorganizeBifurcations); err != nil {
		return
	}
	if err = os.MkdirAll(mp.OutputDirectory, 0755); err != nil {
		return
	}
	base := filepath.Join(mp.OutputDirectory, mp.ModelName)
	if err = network.WriteNetworkFile(base+".in", g, p); err != nil {
		return
	}
	fmt.Fprintf(out, "%s: %v\n", base+".in", g)
	if mp.WriteGroupReport {
		if err = network.WriteGroupReportFile(base+"_groups.dat", cl, g); err != nil {
			return
		}
	}
	if mp.WriteVTK {
		if err = readers.WriteVTKFile(base+"_network.vtk", mp.ModelName+" network", g.ToMesh()); err != nil {
			return
		}
	}
	return
}
