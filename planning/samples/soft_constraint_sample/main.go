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

// The soft_constraint_sample command shows one hard and one soft constraint consumed both as
// an LP and by the heuristic evaluator.
package main

import (
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/supplyplanning/constraintcore/planning/heuristic"
	"github.com/supplyplanning/constraintcore/planning/lp"
	"github.com/supplyplanning/constraintcore/planning/model"
)

func softConstraintSample() error {
	vars := model.NewVariables()
	x, err := vars.Declare("x", model.Continuous, 0, 10)
	if err != nil {
		return fmt.Errorf("failed to declare x: %w", err)
	}
	y, err := vars.DeclareBinary("y")
	if err != nil {
		return fmt.Errorf("failed to declare y: %w", err)
	}

	reg := model.NewRegistry(vars)
	if err := reg.AddAll(
		model.NewHard("x_cap", x, model.LessOrEqual, 5),
		model.NewSoft("y_on", y, model.Equal, 1, 3),
	); err != nil {
		return fmt.Errorf("failed to register constraints: %w", err)
	}
	snap := reg.Snapshot()

	m, err := lp.Translate(snap, model.NewMaximize(model.NewLinearExpr().AddTerm(x, 2).Add(y)))
	if err != nil {
		return fmt.Errorf("failed to translate the snapshot: %w", err)
	}
	if err := m.WriteLP(os.Stdout); err != nil {
		return err
	}

	ev, err := heuristic.Compile(snap)
	if err != nil {
		return fmt.Errorf("failed to compile the evaluator: %w", err)
	}
	for _, c := range []heuristic.Candidate{{"x": 7, "y": 0}, {"x": 5, "y": 1}} {
		res, err := ev.Evaluate(c)
		if err != nil {
			return fmt.Errorf("failed to evaluate %v: %w", c, err)
		}
		fmt.Printf("x=%g y=%g: feasible=%v penalty=%g violations=%v\n", c["x"], c["y"], res.Feasible, res.Penalty, res.Violations())
	}
	return nil
}

func main() {
	if err := softConstraintSample(); err != nil {
		glog.Exitf("softConstraintSample returned with error: %v", err)
	}
}
