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

// The supply_planning_sample command builds a two-product supply plan, prints its LP and
// scores a random population of plans in parallel.
package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/golang/glog"
	"github.com/supplyplanning/constraintcore/planning/dispatch"
	"github.com/supplyplanning/constraintcore/planning/heuristic"
	"github.com/supplyplanning/constraintcore/planning/lp"
	"github.com/supplyplanning/constraintcore/planning/supply"
)

func scenario() *supply.Scenario {
	maxA, maxB := 200.0, 150.0
	return &supply.Scenario{
		Name:     "supply_planning_sample",
		Periods:  4,
		Capacity: supply.Capacity{Regular: 160, MaxOvertime: 40, OvertimeCost: 50},
		Products: []supply.Product{
			{
				Name:              "ProductA",
				Demand:            []float64{120, 140, 160, 130},
				InitialInventory:  100,
				ProductionTime:    2,
				SetupTime:         4,
				MinLot:            30,
				MaxInventory:      &maxA,
				SafetyStock:       20,
				SafetyStockWeight: 5,
				Costs:             supply.Costs{Production: 10, Setup: 500, Holding: 2, Backlog: 20},
			},
			{
				Name:             "ProductB",
				Demand:           []float64{80, 90, 110, 100},
				InitialInventory: 50,
				ProductionTime:   3,
				SetupTime:        4,
				MinLot:           25,
				MaxInventory:     &maxB,
				Costs:            supply.Costs{Production: 12, Setup: 600, Holding: 2, Backlog: 20},
			},
		},
	}
}

func supplyPlanningSample() error {
	in, err := supply.Build(scenario())
	if err != nil {
		return fmt.Errorf("failed to build the scenario: %w", err)
	}
	snap := in.Registry.Snapshot()

	m, err := lp.Translate(snap, in.Objective, lp.WithName(in.Scenario.Name))
	if err != nil {
		return fmt.Errorf("failed to translate the scenario: %w", err)
	}
	if err := m.WriteLP(os.Stdout); err != nil {
		return err
	}

	ev, err := heuristic.Compile(snap)
	if err != nil {
		return fmt.Errorf("failed to compile the evaluator: %w", err)
	}
	coord, err := dispatch.NewCoordinator(in.Scenario.DispatchConfig())
	if err != nil {
		return err
	}
	pop := supply.RandomPopulation(rand.New(rand.NewPCG(1, 1)), in, 256)
	results, err := coord.ScorePopulation(context.Background(), ev, pop)
	if err != nil {
		return fmt.Errorf("failed to score the population: %w", err)
	}

	s := dispatch.Summarize(results, 100)
	fmt.Println(s)
	if s.Best < 0 {
		return fmt.Errorf("no candidate of %d could be evaluated", s.Candidates)
	}
	best := results[s.Best]
	for cat, v := range best.ByCategory() {
		fmt.Printf("  %s: %g\n", cat, v)
	}
	return nil
}

func main() {
	if err := supplyPlanningSample(); err != nil {
		glog.Exitf("supplyPlanningSample returned with error: %v", err)
	}
}
