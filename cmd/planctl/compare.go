// Copyright 2010-2024 Google LLC
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/supplyplanning/constraintcore/planning/dispatch"
	"github.com/supplyplanning/constraintcore/planning/supply"
)

func newCompareCmd() *cobra.Command {
	var opts supply.CompareOptions
	cmd := &cobra.Command{
		Use:   "compare scenario.yaml...",
		Short: "Compare several scenarios side by side",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var scenarios []*supply.Scenario
			w := cmd.OutOrStdout()
			for _, path := range args {
				s, err := supply.Load(path)
				if err != nil {
					fmt.Fprintf(w, "%s: %s\n", path, supply.Comparison{Err: err}.Status())
					continue
				}
				scenarios = append(scenarios, s)
			}
			opts.Dispatch = []dispatch.Option{dispatch.WithRegisterer(registerer)}
			results, err := supply.Compare(cmd.Context(), scenarios, opts)
			for _, c := range results {
				fmt.Fprintln(w, c)
			}
			return err
		},
	}
	cmd.Flags().IntVarP(&opts.Size, "size", "n", 200, "number of random plans per scenario")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 1, "random seed")
	cmd.Flags().Float64Var(&opts.HardWeight, "hard-weight", 1000, "fitness weight of hard and domain violations")
	return cmd
}
