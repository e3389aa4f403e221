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
	"io"
	"slices"

	log "github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/supplyplanning/constraintcore/planning/heuristic"
	"github.com/supplyplanning/constraintcore/planning/model"
	"github.com/supplyplanning/constraintcore/planning/supply"
)

func newCheckCmd() *cobra.Command {
	var (
		scenario string
		plan     string
		all      bool
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Evaluate a plan against the constraints of a scenario",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, snap, err := loadInstance(scenario)
			if err != nil {
				return err
			}
			values, err := supply.LoadPlan(plan)
			if err != nil {
				return err
			}
			ev, err := heuristic.Compile(snap, in.Scenario.EvaluatorOptions()...)
			if err != nil {
				return err
			}
			res, err := ev.Evaluate(values)
			if err != nil {
				return err
			}
			writeResult(cmd.OutOrStdout(), res, all)
			if rows, err := supply.Extract(in.Scenario, values); err != nil {
				log.Warningf("plan is not complete, skipping the plan table: %v", err)
			} else {
				writeRows(cmd.OutOrStdout(), rows)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&scenario, "scenario", "s", "", "scenario YAML file")
	cmd.Flags().StringVarP(&plan, "plan", "p", "", "plan YAML file mapping variable names to values")
	cmd.Flags().BoolVar(&all, "all", false, "list satisfied constraints too")
	return cmd
}

func writeResult(w io.Writer, res heuristic.Result, all bool) {
	fmt.Fprintf(w, "feasible: %v\npenalty: %g\nhard violation: %g\n", res.Feasible, res.Penalty, res.HardViolation)
	for _, v := range res.Breakdown {
		if v.Magnitude == 0 && !all {
			continue
		}
		fmt.Fprintf(w, "  %-40s %-4v %10g %10g\n", v.Name, v.Kind, v.Magnitude, v.Penalty)
	}
	for _, d := range res.DomainViolations {
		fmt.Fprintf(w, "  domain %v\n", d)
	}
	cats := res.ByCategory()
	keys := make([]model.Category, 0, len(cats))
	for c := range cats {
		keys = append(keys, c)
	}
	slices.Sort(keys)
	for _, c := range keys {
		fmt.Fprintf(w, "category %s: %g\n", c, cats[c])
	}
}

func writeRows(w io.Writer, rows []supply.PlanRow) {
	fmt.Fprintf(w, "%-12s %6s %8s %10s %5s %10s %8s %8s %8s\n", "product", "period", "demand", "production", "setup", "inventory", "backlog", "subst", "overtime")
	for _, r := range rows {
		fmt.Fprintf(w, "%-12s %6d %8g %10g %5v %10g %8g %8g %8g\n",
			r.Product, r.Period, r.Demand, r.Production, r.Setup, r.Inventory, r.Backlog, r.SubstitutedIn, r.Overtime)
	}
}
