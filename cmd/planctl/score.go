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
	"math/rand/v2"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/supplyplanning/constraintcore/planning/dispatch"
	"github.com/supplyplanning/constraintcore/planning/heuristic"
	"github.com/supplyplanning/constraintcore/planning/supply"
)

// registerer receives the dispatch metrics of score runs.
var registerer prometheus.Registerer = prometheus.DefaultRegisterer

func newScoreCmd() *cobra.Command {
	var (
		scenario   string
		size       int
		seed       uint64
		hardWeight float64
		best       string
	)
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a random population of plans in parallel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if size <= 0 {
				return fmt.Errorf("population size %d, want > 0", size)
			}
			in, snap, err := loadInstance(scenario)
			if err != nil {
				return err
			}
			ev, err := heuristic.Compile(snap, in.Scenario.EvaluatorOptions()...)
			if err != nil {
				return err
			}
			coord, err := dispatch.NewCoordinator(in.Scenario.DispatchConfig(), dispatch.WithRegisterer(registerer))
			if err != nil {
				return err
			}
			pop := supply.RandomPopulation(rand.New(rand.NewPCG(seed, seed)), in, size)
			results, err := coord.ScorePopulation(cmd.Context(), ev, pop)
			if err != nil {
				return err
			}
			s := dispatch.Summarize(results, hardWeight)
			fmt.Fprintln(cmd.OutOrStdout(), s)
			if s.Best < 0 || best == "" {
				return nil
			}
			return writePlanFile(best, pop[s.Best])
		},
	}
	cmd.Flags().StringVarP(&scenario, "scenario", "s", "", "scenario YAML file")
	cmd.Flags().IntVarP(&size, "size", "n", 200, "number of random plans")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "random seed")
	cmd.Flags().Float64Var(&hardWeight, "hard-weight", 1000, "fitness weight of hard and domain violations")
	cmd.Flags().StringVar(&best, "best", "", "write the best plan to this YAML file")
	return cmd
}

func writePlanFile(path string, values map[string]float64) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return supply.WritePlan(f, values)
}
