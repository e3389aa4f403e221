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

package heuristic

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"golang.org/x/sync/errgroup"

	log "github.com/golang/glog"
	"github.com/supplyplanning/constraintcore/planning/model"
)

func Example() {
	vars := model.NewVariables()
	if _, err := vars.Declare("x", model.Continuous, 0, 10); err != nil {
		log.Fatalf("Declare returned with error %v", err)
	}
	if _, err := vars.DeclareBinary("y"); err != nil {
		log.Fatalf("DeclareBinary returned with error %v", err)
	}
	reg := model.NewRegistry(vars)
	if err := reg.AddAll(
		model.NewHard("x_cap", model.VarRef("x"), model.LessOrEqual, 5),
		model.NewSoft("y_on", model.VarRef("y"), model.Equal, 1, 3),
	); err != nil {
		log.Fatalf("AddAll returned with error %v", err)
	}

	ev, err := Compile(reg.Snapshot())
	if err != nil {
		log.Fatalf("Compile returned with error %v", err)
	}
	res, err := ev.Evaluate(Candidate{"x": 7, "y": 0})
	if err != nil {
		log.Fatalf("Evaluate returned with error %v", err)
	}

	fmt.Println("Feasible:", res.Feasible)
	fmt.Println("Penalty:", res.Penalty)
	for _, v := range res.Breakdown {
		fmt.Printf("%s: %g\n", v.Name, v.Magnitude)
	}
	// Output:
	// Feasible: false
	// Penalty: 3
	// x_cap: 2
	// y_on: 1
}

type instance struct {
	vars *model.Variables
	reg  *model.Registry
}

// newInstance declares x continuous in [0,10], y integer in [0,5] and b binary.
func newInstance(t *testing.T, specs ...model.ConstraintSpec) instance {
	t.Helper()
	vars := model.NewVariables()
	if _, err := vars.Declare("x", model.Continuous, 0, 10); err != nil {
		t.Fatalf("Declare(x) returned with unexpected error %v", err)
	}
	if _, err := vars.Declare("y", model.Integer, 0, 5); err != nil {
		t.Fatalf("Declare(y) returned with unexpected error %v", err)
	}
	if _, err := vars.DeclareBinary("b"); err != nil {
		t.Fatalf("DeclareBinary(b) returned with unexpected error %v", err)
	}
	reg := model.NewRegistry(vars)
	if err := reg.AddAll(specs...); err != nil {
		t.Fatalf("AddAll() returned with unexpected error %v", err)
	}
	return instance{vars: vars, reg: reg}
}

func (in instance) compile(t *testing.T, opts ...Option) *Evaluator {
	t.Helper()
	ev, err := Compile(in.reg.Snapshot(), opts...)
	if err != nil {
		t.Fatalf("Compile() returned with unexpected error %v", err)
	}
	return ev
}

func TestEvaluate(t *testing.T) {
	x, y, b := model.VarRef("x"), model.VarRef("y"), model.VarRef("b")
	testCases := []struct {
		name         string
		specs        []model.ConstraintSpec
		candidate    Candidate
		wantFeasible bool
		wantPenalty  float64
		wantViol     map[string]float64
	}{
		{
			name:         "HardViolated",
			specs:        []model.ConstraintSpec{model.NewHard("cap", x, model.LessOrEqual, 5)},
			candidate:    Candidate{"x": 7},
			wantFeasible: false,
			wantViol:     map[string]float64{"cap": 2},
		},
		{
			name:         "SoftEqualityViolated",
			specs:        []model.ConstraintSpec{model.NewSoft("on", b, model.Equal, 1, 3)},
			candidate:    Candidate{"b": 0},
			wantFeasible: true,
			wantPenalty:  3,
			wantViol:     map[string]float64{"on": 1},
		},
		{
			name:         "GreaterOrEqualSatisfied",
			specs:        []model.ConstraintSpec{model.NewHard("min", model.NewLinearExpr().AddSum(x, y), model.GreaterOrEqual, 4)},
			candidate:    Candidate{"x": 1.5, "y": 3},
			wantFeasible: true,
			wantViol:     map[string]float64{"min": 0},
		},
		{
			name: "MixedKinds",
			specs: []model.ConstraintSpec{
				model.NewHard("link", model.NewLinearExpr().Add(x).AddTerm(b, -10), model.LessOrEqual, 0),
				model.NewSoft("target", model.NewLinearExpr().Add(y).AddConstant(1), model.Equal, 4, 0.5),
				model.NewSoft("floor", x, model.GreaterOrEqual, 6, 2),
			},
			candidate:    Candidate{"x": 4, "y": 5, "b": 1},
			wantFeasible: true,
			wantPenalty:  0.5*2 + 2*2,
			wantViol:     map[string]float64{"link": 0, "target": 2, "floor": 2},
		},
		{
			name:         "ExtraVariablesIgnored",
			specs:        []model.ConstraintSpec{model.NewHard("cap", x, model.LessOrEqual, 5)},
			candidate:    Candidate{"x": 5, "unknown": 42},
			wantFeasible: true,
			wantViol:     map[string]float64{"cap": 0},
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			ev := newInstance(t, test.specs...).compile(t)
			res, err := ev.Evaluate(test.candidate)
			if err != nil {
				t.Fatalf("Evaluate() returned with unexpected error %v", err)
			}
			if res.Feasible != test.wantFeasible {
				t.Errorf("Evaluate() returned feasible = %v, want %v", res.Feasible, test.wantFeasible)
			}
			if res.Penalty != test.wantPenalty {
				t.Errorf("Evaluate() returned penalty = %v, want %v", res.Penalty, test.wantPenalty)
			}
			if diff := cmp.Diff(test.wantViol, res.Violations()); diff != "" {
				t.Errorf("Evaluate() returned unexpected violations (-want+got): %v", diff)
			}
		})
	}
}

func TestEvaluate_FixedVariable(t *testing.T) {
	in := newInstance(t, model.NewHard("cap", model.VarRef("x"), model.LessOrEqual, 5))
	if err := in.vars.TightenBounds("x", 3, 3); err != nil {
		t.Fatalf("TightenBounds() returned with unexpected error %v", err)
	}
	ev := in.compile(t)

	res, err := ev.Evaluate(Candidate{})
	if err != nil {
		t.Fatalf("Evaluate() returned with unexpected error %v", err)
	}
	if !res.Feasible {
		t.Errorf("Evaluate() of an empty candidate with x fixed at 3 returned infeasible: %+v", res)
	}

	res, err = ev.Evaluate(Candidate{"x": 4})
	if err != nil {
		t.Fatalf("Evaluate() returned with unexpected error %v", err)
	}
	want := []DomainViolation{{Var: "x", Value: 4, Reason: OutOfBounds, Magnitude: 1}}
	if diff := cmp.Diff(want, res.DomainViolations); diff != "" {
		t.Errorf("Evaluate() returned unexpected domain violations (-want+got): %v", diff)
	}
	if res.Feasible {
		t.Errorf("Evaluate() with x=4 outside its fixed value returned feasible")
	}
}

func TestEvaluate_Domain(t *testing.T) {
	ev := newInstance(t).compile(t)

	res, err := ev.Evaluate(Candidate{"x": 11, "y": 2.5, "b": 1})
	if err != nil {
		t.Fatalf("Evaluate() returned with unexpected error %v", err)
	}
	want := []DomainViolation{
		{Var: "x", Value: 11, Reason: OutOfBounds, Magnitude: 1},
		{Var: "y", Value: 2.5, Reason: NonIntegral, Magnitude: 0.5},
	}
	if diff := cmp.Diff(want, res.DomainViolations); diff != "" {
		t.Errorf("Evaluate() returned unexpected domain violations (-want+got): %v", diff)
	}
	if res.Feasible {
		t.Errorf("Evaluate() returned feasible with domain violations")
	}
	if got, want := res.Fitness(10), 15.0; got != want {
		t.Errorf("Fitness(10) = %v, want %v", got, want)
	}

	// An undefined value violates every constraint that reads it without poisoning the totals.
	y := model.VarRef("y")
	ev = newInstance(t,
		model.NewHard("y_cap", y, model.LessOrEqual, 5),
		model.NewSoft("y_on", y, model.Equal, 1, 3),
	).compile(t)
	res, err = ev.Evaluate(Candidate{"y": math.NaN()})
	if err != nil {
		t.Fatalf("Evaluate() returned with unexpected error %v", err)
	}
	if res.Feasible {
		t.Errorf("Evaluate() returned feasible for an undefined value")
	}
	for _, v := range res.Breakdown {
		if !math.IsInf(v.Magnitude, 1) {
			t.Errorf("Evaluate() violation of %s = %g, want +Inf", v.Name, v.Magnitude)
		}
	}
	if !math.IsInf(res.HardViolation, 1) || !math.IsInf(res.Penalty, 1) {
		t.Errorf("Evaluate() = hard violation %g, penalty %g, want +Inf for both", res.HardViolation, res.Penalty)
	}
	if f := res.Fitness(10); !(f > math.MaxFloat64) {
		t.Errorf("Fitness(10) = %g, want +Inf", f)
	}
}

func TestEvaluate_IncompleteAssignment(t *testing.T) {
	x, y := model.VarRef("x"), model.VarRef("y")
	ev := newInstance(t, model.NewHard("sum", model.NewLinearExpr().AddSum(x, y), model.LessOrEqual, 5)).compile(t)

	// b is not referenced by any constraint and may be left out.
	_, err := ev.Evaluate(Candidate{"x": 1})
	if !errors.Is(err, ErrIncompleteAssignment) {
		t.Fatalf("Evaluate() returned with error %v, want %v", err, ErrIncompleteAssignment)
	}
	var incomplete *IncompleteAssignmentError
	if !errors.As(err, &incomplete) {
		t.Fatalf("Evaluate() returned with error %T, want *IncompleteAssignmentError", err)
	}
	if diff := cmp.Diff([]string{"y"}, incomplete.Missing); diff != "" {
		t.Errorf("IncompleteAssignmentError.Missing differs (-want+got): %v", diff)
	}

	if _, err := ev.EvaluateAll([]Candidate{{"x": 1, "y": 1}, {"y": 1}}); !errors.Is(err, ErrIncompleteAssignment) {
		t.Errorf("EvaluateAll() returned with error %v, want %v", err, ErrIncompleteAssignment)
	}
}

func TestEvaluate_Stale(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(instance) error
	}{
		{
			name: "ConstraintAdded",
			mutate: func(in instance) error {
				return in.reg.Add(model.NewHard("new", model.VarRef("y"), model.LessOrEqual, 2))
			},
		},
		{
			name: "ConstraintReplaced",
			mutate: func(in instance) error {
				return in.reg.Replace("cap", model.NewHard("", model.VarRef("x"), model.LessOrEqual, 6))
			},
		},
		{
			name:   "ConstraintRemoved",
			mutate: func(in instance) error { return in.reg.Remove("cap") },
		},
		{
			name:   "BoundsTightened",
			mutate: func(in instance) error { return in.vars.TightenBounds("x", 0, 8) },
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			in := newInstance(t, model.NewHard("cap", model.VarRef("x"), model.LessOrEqual, 5))
			ev := in.compile(t)
			snap := in.reg.Snapshot()
			if err := test.mutate(in); err != nil {
				t.Fatalf("mutating the registries returned with unexpected error %v", err)
			}
			if _, err := ev.Evaluate(Candidate{"x": 1, "y": 1, "b": 0}); !errors.Is(err, ErrStaleEvaluator) {
				t.Errorf("Evaluate() returned with error %v, want %v", err, ErrStaleEvaluator)
			}
			if _, err := Compile(snap); !errors.Is(err, ErrStaleEvaluator) {
				t.Errorf("Compile(old snapshot) returned with error %v, want %v", err, ErrStaleEvaluator)
			}
			if _, err := Compile(in.reg.Snapshot()); err != nil {
				t.Errorf("Compile(fresh snapshot) returned with unexpected error %v", err)
			}
		})
	}
}

func TestEvaluate_Tolerance(t *testing.T) {
	in := newInstance(t, model.NewHard("cap", model.VarRef("x"), model.LessOrEqual, 5))
	candidate := Candidate{"x": 5 + 1e-7}

	res, err := in.compile(t).Evaluate(candidate)
	if err != nil {
		t.Fatalf("Evaluate() returned with unexpected error %v", err)
	}
	if !res.Feasible {
		t.Errorf("Evaluate() with default tolerance returned infeasible for a departure of 1e-7")
	}

	res, err = in.compile(t, WithTolerance(0)).Evaluate(candidate)
	if err != nil {
		t.Fatalf("Evaluate() returned with unexpected error %v", err)
	}
	if res.Feasible {
		t.Errorf("Evaluate() with zero tolerance returned feasible for a departure of 1e-7")
	}

	for _, tol := range []float64{-1, math.NaN(), math.Inf(1)} {
		if _, err := Compile(in.reg.Snapshot(), WithTolerance(tol)); !errors.Is(err, ErrInvalidTolerance) {
			t.Errorf("Compile(WithTolerance(%v)) returned with error %v, want %v", tol, err, ErrInvalidTolerance)
		}
	}
}

func TestEvaluate_Concurrent(t *testing.T) {
	x, y, b := model.VarRef("x"), model.VarRef("y"), model.VarRef("b")
	ev := newInstance(t,
		model.NewHard("link", model.NewLinearExpr().Add(x).AddTerm(b, -10), model.LessOrEqual, 0),
		model.NewSoft("target", model.NewLinearExpr().AddSum(x, y), model.Equal, 7, 1.5),
	).compile(t)

	candidates := make([]Candidate, 200)
	for i := range candidates {
		candidates[i] = Candidate{"x": float64(i % 11), "y": float64(i % 6), "b": float64(i % 2)}
	}
	want, err := ev.EvaluateAll(candidates)
	if err != nil {
		t.Fatalf("EvaluateAll() returned with unexpected error %v", err)
	}

	got := make([][]Result, 8)
	var g errgroup.Group
	for w := range got {
		g.Go(func() error {
			var err error
			got[w], err = ev.EvaluateAll(candidates)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent EvaluateAll() returned with unexpected error %v", err)
	}
	for w := range got {
		if diff := cmp.Diff(want, got[w]); diff != "" {
			t.Errorf("goroutine %d: EvaluateAll() returned different results (-want+got): %v", w, diff)
		}
	}
}

func TestResult_ByCategory(t *testing.T) {
	x, y := model.VarRef("x"), model.VarRef("y")
	ev := newInstance(t,
		model.NewHard("cap", x, model.LessOrEqual, 5).WithCategory(model.CategoryCapacity, "line1"),
		model.NewSoft("dem", y, model.GreaterOrEqual, 4, 1).WithCategory(model.CategoryDemand, "p1"),
		model.NewSoft("dem2", x, model.GreaterOrEqual, 9, 1).WithCategory(model.CategoryDemand, "p2"),
		model.NewHard("misc", y, model.LessOrEqual, 0),
	).compile(t)

	res, err := ev.Evaluate(Candidate{"x": 6, "y": 1})
	if err != nil {
		t.Fatalf("Evaluate() returned with unexpected error %v", err)
	}
	want := map[model.Category]float64{
		model.CategoryCapacity: 1,
		model.CategoryDemand:   3 + 3,
		model.CategoryOther:    1,
	}
	if diff := cmp.Diff(want, res.ByCategory(), cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("ByCategory() returned unexpected sums (-want+got): %v", diff)
	}
	if got, want := res.HardViolation, 2.0; got != want {
		t.Errorf("Evaluate() returned hard violation = %v, want %v", got, want)
	}
	if got, want := res.Fitness(100), 6.0+200; got != want {
		t.Errorf("Fitness(100) = %v, want %v", got, want)
	}
}
