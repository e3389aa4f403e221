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

package lp

import (
	"fmt"
	"math"

	log "github.com/golang/glog"
	"github.com/supplyplanning/constraintcore/planning/model"
)

// SoftPolicy selects how soft constraints are translated.
type SoftPolicy int

const (
	// Linearize adds one non-negative deviation column per violation side of a soft
	// constraint and charges weight times deviation in the objective.
	Linearize SoftPolicy = iota
	// Reject fails translation with ErrUnsupportedConstraint on any soft constraint.
	Reject
)

type options struct {
	name string
	soft SoftPolicy
}

// Option configures Translate.
type Option func(*options)

// WithName sets the name of the translated model.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithSoftPolicy sets how soft constraints are translated.
func WithSoftPolicy(p SoftPolicy) Option {
	return func(o *options) { o.soft = p }
}

// Translate converts a snapshot and an objective into a solver-ready model. It does not call
// any solver. Translation is a pure function of its arguments: the same snapshot, objective
// and options always produce the same model.
//
// Soft constraints `expr op rhs` with weight w become `expr - sum(side * d_side) op rhs`
// where each `d_side >= 0` is a deviation column along one of `op.Sides()`. The objective
// receives `+w * d_side` when minimizing and `-w * d_side` when maximizing, so that at an
// optimum `sum(d_side)` equals the violation computed by model.Violation.
func Translate(snap *model.Snapshot, obj model.Objective, opts ...Option) (*Model, error) {
	o := options{name: "planning"}
	for _, opt := range opts {
		opt(&o)
	}

	m := &Model{
		Name:        o.name,
		Version:     snap.Version(),
		VarRevision: snap.VarRevision(),
		colIndex:    make(map[string]int),
	}
	for _, v := range snap.Variables() {
		b := v.Bounds()
		m.colIndex[v.Name()] = len(m.Columns)
		m.Columns = append(m.Columns, Column{Name: v.Name(), Kind: v.Kind(), Lower: b.Lower, Upper: b.Upper})
	}

	objExpr := obj.Expr
	if objExpr == nil {
		objExpr = model.NewLinearExpr()
	}
	objTerms, err := m.coefficients(objExpr.Merged())
	if err != nil {
		return nil, fmt.Errorf("objective: %v: %w", err, ErrInvalidObjective)
	}
	for _, t := range objTerms {
		if math.IsNaN(t.Value) || math.IsInf(t.Value, 0) {
			return nil, fmt.Errorf("objective coefficient %g is not finite: %w", t.Value, ErrInvalidObjective)
		}
	}
	if off := objExpr.Offset(); math.IsNaN(off) || math.IsInf(off, 0) {
		return nil, fmt.Errorf("objective offset %g is not finite: %w", off, ErrInvalidObjective)
	}
	m.Objective = Objective{Maximize: obj.Direction == model.Maximize, Offset: objExpr.Offset(), Terms: objTerms}

	for _, c := range snap.Constraints() {
		if err := m.addConstraint(c, o.soft); err != nil {
			return nil, err
		}
	}
	log.V(1).Infof("translated snapshot v%d into %q: %d columns (%d deviation), %d rows",
		snap.Version(), m.Name, len(m.Columns), m.NumDeviationColumns(), len(m.Rows))
	return m, nil
}

func (m *Model) addConstraint(c model.ConstraintSpec, policy SoftPolicy) error {
	expr := c.Expr.Merged()
	if expr.Len() == 0 {
		return fmt.Errorf("constraint %q has no non-zero coefficient: %w", c.Name, ErrUnsupportedConstraint)
	}
	terms, err := m.coefficients(expr)
	if err != nil {
		// Registration validated every reference against the same variables.
		return fmt.Errorf("constraint %q: %v: %w", c.Name, err, ErrUnsupportedConstraint)
	}
	lower, upper := rowBounds(c.Op, c.RHS-expr.Offset())
	row := Row{Name: c.Name, Lower: lower, Upper: upper, Terms: terms}

	if c.IsSoft() {
		if policy == Reject {
			return fmt.Errorf("soft constraint %q with exact LP treatment: %w", c.Name, ErrUnsupportedConstraint)
		}
		row.Soft = true
		penalty := c.Weight
		if m.Objective.Maximize {
			penalty = -penalty
		}
		for _, side := range c.Op.Sides() {
			name := DeviationName(c.Name, side)
			if _, ok := m.colIndex[name]; ok {
				return fmt.Errorf("deviation column %q of constraint %q collides with an existing column: %w", name, c.Name, ErrUnsupportedConstraint)
			}
			col := len(m.Columns)
			m.colIndex[name] = col
			m.Columns = append(m.Columns, Column{
				Name:       name,
				Kind:       model.Continuous,
				Lower:      0,
				Upper:      math.Inf(1),
				Deviation:  true,
				Constraint: c.Name,
				Side:       side,
			})
			row.Terms = append(row.Terms, Coefficient{Column: col, Value: -float64(side)})
			m.Objective.Terms = append(m.Objective.Terms, Coefficient{Column: col, Value: penalty})
		}
	}
	m.Rows = append(m.Rows, row)
	return nil
}

func (m *Model) coefficients(expr *model.LinearExpr) ([]Coefficient, error) {
	var out []Coefficient
	for _, t := range expr.Terms() {
		i, ok := m.colIndex[t.Var]
		if !ok {
			return nil, fmt.Errorf("unknown variable %q", t.Var)
		}
		out = append(out, Coefficient{Column: i, Value: t.Coeff})
	}
	return out, nil
}
