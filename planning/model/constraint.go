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
	"fmt"
	"math"
)

// Operator is the relational operator between the left-hand side expression and the
// right-hand side constant of a constraint.
type Operator int

const (
	// LessOrEqual is `lhs <= rhs`.
	LessOrEqual Operator = iota
	// Equal is `lhs == rhs`.
	Equal
	// GreaterOrEqual is `lhs >= rhs`.
	GreaterOrEqual
)

func (op Operator) String() string {
	switch op {
	case LessOrEqual:
		return "<="
	case Equal:
		return "="
	case GreaterOrEqual:
		return ">="
	}
	return fmt.Sprintf("Operator(%d)", int(op))
}

// Side is a direction in which `lhs` can depart from `rhs`.
type Side int8

const (
	// Excess is `lhs` above `rhs`.
	Excess Side = 1
	// Shortfall is `lhs` below `rhs`.
	Shortfall Side = -1
)

func (s Side) String() string {
	if s == Excess {
		return "excess"
	}
	return "shortfall"
}

// Sides returns the directions in which a constraint with this operator is violated. Both the
// heuristic violation magnitude and the LP deviation columns are derived from it.
func (op Operator) Sides() []Side {
	switch op {
	case LessOrEqual:
		return []Side{Excess}
	case GreaterOrEqual:
		return []Side{Shortfall}
	case Equal:
		return []Side{Excess, Shortfall}
	}
	return nil
}

// Violation returns the violation magnitude of `lhs op rhs`: the positive part of the
// departure along each violating side. A departure of at most `tol` counts as zero. An
// undefined `lhs` violates every operator by +Inf.
func Violation(op Operator, lhs, rhs, tol float64) float64 {
	diff := lhs - rhs
	if math.IsNaN(diff) {
		return math.Inf(1)
	}
	if math.Abs(diff) <= tol {
		return 0
	}
	var v float64
	for _, s := range op.Sides() {
		v += math.Max(0, float64(s)*diff)
	}
	return v
}

// ConstraintKind tells whether a constraint must hold or is only penalized.
type ConstraintKind int

const (
	// Hard constraints must be satisfied for a solution to be feasible.
	Hard ConstraintKind = iota
	// Soft constraints may be violated at a cost of weight times violation.
	Soft
)

func (k ConstraintKind) String() string {
	switch k {
	case Hard:
		return "hard"
	case Soft:
		return "soft"
	}
	return fmt.Sprintf("ConstraintKind(%d)", int(k))
}

// Category classifies a constraint for reporting. It has no effect on semantics.
type Category string

// Business constraint categories of supply planning.
const (
	CategoryCapacity     Category = "capacity"
	CategoryDemand       Category = "demand"
	CategoryInventory    Category = "inventory"
	CategoryLeadTime     Category = "lead_time"
	CategorySubstitution Category = "substitution"
	CategoryAllocation   Category = "allocation"
	CategoryOther        Category = "other"
)

// ConstraintSpec is a solver-agnostic description of one linear constraint
// `Expr Op RHS`. A registered spec is never mutated; use Registry.Replace to change it.
type ConstraintSpec struct {
	Name string
	Expr *LinearExpr
	Op   Operator
	RHS  float64
	Kind ConstraintKind
	// Weight is the penalty per unit of violation of a soft constraint. It is ignored for
	// hard constraints.
	Weight float64

	Category    Category
	Scope       string
	Description string
}

// NewHard returns a hard constraint `expr op rhs`. A nil `expr` is the constant 0.
func NewHard(name string, expr LinearArgument, op Operator, rhs float64) ConstraintSpec {
	return ConstraintSpec{Name: name, Expr: exprOf(expr), Op: op, RHS: rhs, Kind: Hard}
}

// NewSoft returns a soft constraint `expr op rhs` penalized by `weight` per unit of violation.
// A nil `expr` is the constant 0.
func NewSoft(name string, expr LinearArgument, op Operator, rhs, weight float64) ConstraintSpec {
	return ConstraintSpec{Name: name, Expr: exprOf(expr), Op: op, RHS: rhs, Kind: Soft, Weight: weight}
}

// WithCategory returns a copy of the spec with the given category and scope.
func (c ConstraintSpec) WithCategory(cat Category, scope string) ConstraintSpec {
	c.Category = cat
	c.Scope = scope
	return c
}

// IsSoft reports whether the constraint is soft.
func (c ConstraintSpec) IsSoft() bool {
	return c.Kind == Soft
}

// Violation returns the violation magnitude of the constraint for `lhs`, the value of its
// expression.
func (c ConstraintSpec) Violation(lhs, tol float64) float64 {
	return Violation(c.Op, lhs, c.RHS, tol)
}

func (c ConstraintSpec) String() string {
	return fmt.Sprintf("%s: %v %v %g (%v)", c.Name, c.Expr, c.Op, c.RHS, c.Kind)
}

// clone returns a copy of the spec that shares no memory with `c`. Hard constraints have their
// weight cleared.
func (c ConstraintSpec) clone() ConstraintSpec {
	if c.Expr == nil {
		c.Expr = NewLinearExpr()
	} else {
		c.Expr = c.Expr.Clone()
	}
	if c.Kind == Hard {
		c.Weight = 0
	}
	return c
}

// validate checks the spec against the variable registry.
func (c ConstraintSpec) validate(vars *Variables) error {
	if c.Name == "" {
		return fmt.Errorf("constraint without name: %w", ErrInvalidName)
	}
	for _, name := range c.Expr.Vars() {
		if !vars.Contains(name) {
			return fmt.Errorf("constraint %q references %q: %w", c.Name, name, ErrUnknownVariable)
		}
	}
	if err := c.Expr.checkFinite(); err != nil {
		return fmt.Errorf("constraint %q: %v: %w", c.Name, err, ErrInvalidConstraintConfig)
	}
	if math.IsNaN(c.RHS) || math.IsInf(c.RHS, 0) {
		return fmt.Errorf("constraint %q: right-hand side %g is not finite: %w", c.Name, c.RHS, ErrInvalidConstraintConfig)
	}
	if c.Op < LessOrEqual || c.Op > GreaterOrEqual {
		return fmt.Errorf("constraint %q: unknown operator %v: %w", c.Name, c.Op, ErrInvalidConstraintConfig)
	}
	switch c.Kind {
	case Hard:
	case Soft:
		if !(c.Weight > 0) || math.IsInf(c.Weight, 1) {
			return fmt.Errorf("soft constraint %q has weight %g, want a finite weight > 0: %w", c.Name, c.Weight, ErrInvalidConstraintConfig)
		}
	default:
		return fmt.Errorf("constraint %q: unknown kind %v: %w", c.Name, c.Kind, ErrInvalidConstraintConfig)
	}
	return nil
}
