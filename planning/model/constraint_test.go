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

package model

import (
	"math"
	"testing"
)

func TestViolation(t *testing.T) {
	testCases := []struct {
		desc string
		op   Operator
		lhs  float64
		rhs  float64
		tol  float64
		want float64
	}{
		{desc: "le satisfied", op: LessOrEqual, lhs: 3, rhs: 5, want: 0},
		{desc: "le violated", op: LessOrEqual, lhs: 7, rhs: 5, want: 2},
		{desc: "ge satisfied", op: GreaterOrEqual, lhs: 7, rhs: 5, want: 0},
		{desc: "ge violated", op: GreaterOrEqual, lhs: 1, rhs: 5, want: 4},
		{desc: "eq above", op: Equal, lhs: 6, rhs: 5, want: 1},
		{desc: "eq below", op: Equal, lhs: 2, rhs: 5, want: 3},
		{desc: "eq within tolerance", op: Equal, lhs: 5 + 1e-9, rhs: 5, tol: 1e-6, want: 0},
		{desc: "le within tolerance", op: LessOrEqual, lhs: 5 + 5e-7, rhs: 5, tol: 1e-6, want: 0},
		{desc: "le beyond tolerance", op: LessOrEqual, lhs: 5.5, rhs: 5, tol: 1e-6, want: 0.5},
	}

	for _, test := range testCases {
		t.Run(test.desc, func(t *testing.T) {
			got := Violation(test.op, test.lhs, test.rhs, test.tol)
			if math.Abs(got-test.want) > 1e-12 {
				t.Errorf("Violation(%v, %g, %g, %g) = %g, want %g", test.op, test.lhs, test.rhs, test.tol, got, test.want)
			}
		})
	}
}

func TestViolation_Undefined(t *testing.T) {
	for _, op := range []Operator{LessOrEqual, Equal, GreaterOrEqual} {
		for _, lhs := range []float64{math.NaN(), math.Inf(1) - math.Inf(1)} {
			if got := Violation(op, lhs, 5, 1e-6); !math.IsInf(got, 1) {
				t.Errorf("Violation(%v, %g, 5, 1e-6) = %g, want +Inf", op, lhs, got)
			}
		}
	}
	if got := Violation(LessOrEqual, math.Inf(-1), 5, 1e-6); got != 0 {
		t.Errorf("Violation(<=, -Inf, 5, 1e-6) = %g, want 0", got)
	}
}

func TestOperator_Sides(t *testing.T) {
	if got := LessOrEqual.Sides(); len(got) != 1 || got[0] != Excess {
		t.Errorf("LessOrEqual.Sides() = %v, want [excess]", got)
	}
	if got := GreaterOrEqual.Sides(); len(got) != 1 || got[0] != Shortfall {
		t.Errorf("GreaterOrEqual.Sides() = %v, want [shortfall]", got)
	}
	if got := Equal.Sides(); len(got) != 2 {
		t.Errorf("Equal.Sides() = %v, want [excess shortfall]", got)
	}
}

func TestNewConstraint_NilExpression(t *testing.T) {
	var typedNil *LinearExpr
	specs := []ConstraintSpec{
		NewHard("hard", nil, LessOrEqual, 5),
		NewSoft("soft", nil, GreaterOrEqual, 1, 2),
		NewHard("typed", typedNil, Equal, 0),
	}
	reg := NewRegistry(NewVariables())
	for _, spec := range specs {
		if spec.Expr.Len() != 0 || spec.Expr.Offset() != 0 {
			t.Errorf("%s: expression = %v, want the constant 0", spec.Name, spec.Expr)
		}
		if err := reg.Add(spec); err != nil {
			t.Errorf("Add(%s) returned with unexpected error %v", spec.Name, err)
		}
	}
	c, ok := reg.Snapshot().Constraint("soft")
	if !ok {
		t.Fatal("Constraint(soft) not found")
	}
	v, _ := c.Expr.Value(nil)
	if got := c.Violation(v, 0); got != 1 {
		t.Errorf("Violation() of 0 >= 1 = %g, want 1", got)
	}
}
