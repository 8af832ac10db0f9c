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

	"github.com/notargets/sv1d/mesh"
	"github.com/notargets/sv1d/mesh/readers"
	"github.com/notargets/sv1d/utils"
	"github.com/spf13/cobra"
)

// CheckCmd represents the check command
var CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check a surface mesh against the volume mesh it was extracted from",
	Long: `
Compares global node ids and coordinates, element connectivity and point coincidence
of a surface mesh with its volume mesh. Exits non zero when they disagree.

sv1d check --volume mesh-complete.vtk --surface walls_combined.vtk`,
	RunE: func(cmd *cobra.Command, args []string) error {
		volume, _ := cmd.Flags().GetString("volume")
		surface, _ := cmd.Flags().GetString("surface")
		if volume == "" || surface == "" {
			return fmt.Errorf("must supply --volume and --surface mesh files")
		}
		tol, _ := cmd.Flags().GetFloat64("tolerance")
		return RunCheck(volume, surface, tol, cmd.OutOrStdout(), newLogger(cmd.ErrOrStderr()))
	},
}

func init() {
	rootCmd.AddCommand(CheckCmd)
	CheckCmd.Flags().StringP("volume", "V", "", "volume mesh file (.vtk, .neu, .su2)")
	CheckCmd.Flags().StringP("surface", "S", "", "surface mesh file extracted from the volume")
	CheckCmd.Flags().Float64("tolerance", mesh.NodeTolerance, "largest accepted coordinate distance for a shared node")
}

func RunCheck(volumeFile, surfaceFile string, tol float64, out io.Writer, logger utils.Logger) error {
	volume, err := readers.ReadMeshFile(volumeFile)
	if err != nil {
		return err
	}
	surface, err := readers.ReadMeshFile(surfaceFile)
	if err != nil {
		return err
	}
	cc := mesh.NewCoincidenceChecker(logger)
	cc.Tolerance = tol
	r := cc.CheckModel(volume, surface)
	printModelReport(out, r)
	if !r.Consistent() {
		return fmt.Errorf("%s is inconsistent with %s", surfaceFile, volumeFile)
	}
	return nil
}

func printModelReport(w io.Writer, r mesh.ModelReport) {
	fmt.Fprintf(w, "Nodes: %d shared, %d skipped, %d mismatched\n",
		r.Nodes.Shared, r.Nodes.Skipped, r.Nodes.UnmatchedCount())
	for _, mm := range r.Nodes.Mismatches {
		fmt.Fprintf(w, "  node %d: %v != %v (distance %g), nearest node %d at %g\n",
			mm.GlobalID, mm.First, mm.Second, mm.Distance, mm.NearestID, mm.NearestDistance)
	}
	if r.ElementsChecked {
		fmt.Fprintf(w, "Elements: %d shared, %d skipped, %d mismatched %v\n",
			r.Elements.Shared, r.Elements.Skipped, r.Elements.MismatchCount(), r.Elements.Mismatches)
	} else {
		fmt.Fprintf(w, "Elements: not checked\n")
	}
	fmt.Fprintf(w, "Points: %d of %d found, %d duplicates\n", r.Subset.Found, r.Subset.Probed, r.Duplicates)
}
