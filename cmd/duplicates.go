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

	"github.com/notargets/sv1d/mesh/readers"
	"github.com/notargets/sv1d/spatial"
	"github.com/spf13/cobra"
)

// DuplicatesCmd represents the duplicates command
var DuplicatesCmd = &cobra.Command{
	Use:   "duplicates mesh [other]",
	Short: "Count coincident points in a mesh, or points of other missing from mesh",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, _ := cmd.Flags().GetBool("list")
		return RunDuplicates(args, list, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(DuplicatesCmd)
	DuplicatesCmd.Flags().BoolP("list", "l", false, "list every duplicate point")
}

func RunDuplicates(files []string, list bool, out io.Writer) error {
	first, err := readers.ReadMeshFile(files[0])
	if err != nil {
		return err
	}
	if len(files) == 1 {
		dups := spatial.FindDuplicates(first.Points)
		fmt.Fprintf(out, "%s: %d points, %d duplicates\n", files[0], len(first.Points), len(dups))
		if list {
			for _, d := range dups {
				fmt.Fprintf(out, "  point %d duplicates point %d at %v\n", d.ID, d.FirstID, d.Point)
			}
		}
		return nil
	}
	second, err := readers.ReadMeshFile(files[1])
	if err != nil {
		return err
	}
	found := spatial.CrossCountDuplicates(first.Points, second.Points)
	fmt.Fprintf(out, "%s: %d of %d points found in %s\n", files[1], found, len(second.Points), files[0])
	return nil
}
