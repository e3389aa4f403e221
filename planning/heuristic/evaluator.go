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
	"fmt"
	"math"

	log "github.com/golang/glog"
	"github.com/supplyplanning/constraintcore/planning/model"
)

// DefaultTolerance is the absolute tolerance below which a departure counts as zero.
const DefaultTolerance = 1e-6

type options struct {
	tol float64
}

// Option configures Compile.
type Option func(*options)

// WithTolerance sets the absolute numerical tolerance of the evaluator.
func WithTolerance(tol float64) Option {
	return func(o *options) { o.tol = tol }
}

type compiledVar struct {
	name   string
	kind   model.Kind
	bounds model.Interval
	// used is set if some constraint references the variable.
	used bool
}

type compiledConstraint struct {
	name     string
	kind     model.ConstraintKind
	category model.Category
	op       model.Operator
	rhs      float64
	weight   float64
	offset   float64
	vars     []int
	coeffs   []float64
}

// Evaluator scores candidates against the constraints of one snapshot. It holds no mutable
// state and is safe for concurrent use by any number of goroutines.
type Evaluator struct {
	snap        *model.Snapshot
	tol         float64
	vars        []compiledVar
	varIndex    map[string]int
	constraints []compiledConstraint
}

// Compile binds an evaluator to `snap`. Expressions are resolved to variable indices once, so
// evaluating a candidate does not look up constraints by name.
func Compile(snap *model.Snapshot, opts ...Option) (*Evaluator, error) {
	o := options{tol: DefaultTolerance}
	for _, opt := range opts {
		opt(&o)
	}
	if !(o.tol >= 0) || math.IsInf(o.tol, 1) {
		return nil, fmt.Errorf("tolerance %g: %w", o.tol, ErrInvalidTolerance)
	}
	if snap.IsStale() {
		return nil, fmt.Errorf("compiling snapshot v%d.%d: %w", snap.Version(), snap.VarRevision(), ErrStaleEvaluator)
	}

	vars := snap.Variables()
	e := &Evaluator{
		snap:     snap,
		tol:      o.tol,
		vars:     make([]compiledVar, len(vars)),
		varIndex: make(map[string]int, len(vars)),
	}
	for i, v := range vars {
		e.vars[i] = compiledVar{name: v.Name(), kind: v.Kind(), bounds: v.Bounds()}
		e.varIndex[v.Name()] = i
	}
	for _, c := range snap.Constraints() {
		expr := c.Expr.Merged()
		cc := compiledConstraint{
			name:     c.Name,
			kind:     c.Kind,
			category: c.Category,
			op:       c.Op,
			rhs:      c.RHS,
			weight:   c.Weight,
			offset:   expr.Offset(),
		}
		for _, t := range expr.Terms() {
			i, ok := e.varIndex[t.Var]
			if !ok {
				// Registration validated every reference against the same variables.
				return nil, fmt.Errorf("constraint %q references %q: %w", c.Name, t.Var, model.ErrUnknownVariable)
			}
			e.vars[i].used = true
			cc.vars = append(cc.vars, i)
			cc.coeffs = append(cc.coeffs, t.Coeff)
		}
		e.constraints = append(e.constraints, cc)
	}
	log.V(1).Infof("compiled evaluator for snapshot v%d.%d: %d variables, %d constraints, tolerance %g",
		snap.Version(), snap.VarRevision(), len(e.vars), len(e.constraints), e.tol)
	return e, nil
}

// Version returns the constraint registry version the evaluator was compiled for.
func (e *Evaluator) Version() uint64 {
	return e.snap.Version()
}

// Snapshot returns the snapshot the evaluator was compiled from.
func (e *Evaluator) Snapshot() *model.Snapshot {
	return e.snap
}

// Tolerance returns the absolute numerical tolerance of the evaluator.
func (e *Evaluator) Tolerance() float64 {
	return e.tol
}

// CheckFresh returns ErrStaleEvaluator if the registries changed since compilation.
func (e *Evaluator) CheckFresh() error {
	if e.snap.IsStale() {
		return fmt.Errorf("evaluator compiled for snapshot v%d.%d: %w", e.snap.Version(), e.snap.VarRevision(), ErrStaleEvaluator)
	}
	return nil
}

// Evaluate scores `c`. Every variable referenced by a constraint must have a value, except
// fixed variables, which take their only value when absent. Values of variables unknown to
// the snapshot are ignored.
func (e *Evaluator) Evaluate(c Candidate) (Result, error) {
	if err := e.CheckFresh(); err != nil {
		return Result{}, err
	}

	values := make([]float64, len(e.vars))
	var missing []string
	res := Result{Feasible: true}
	for i, v := range e.vars {
		x, ok := c[v.name]
		if !ok {
			switch {
			case v.bounds.IsFixed():
				values[i] = v.bounds.Lower
			case v.used:
				missing = append(missing, v.name)
			}
			continue
		}
		values[i] = x
		if d, ok := e.checkDomain(v, x); !ok {
			res.DomainViolations = append(res.DomainViolations, d)
			res.Feasible = false
		}
	}
	if len(missing) > 0 {
		return Result{}, &IncompleteAssignmentError{Missing: missing}
	}

	res.Breakdown = make([]ConstraintViolation, len(e.constraints))
	for i, cc := range e.constraints {
		lhs := cc.offset
		for j, vi := range cc.vars {
			lhs += cc.coeffs[j] * values[vi]
		}
		viol := model.Violation(cc.op, lhs, cc.rhs, e.tol)
		cv := ConstraintViolation{Name: cc.name, Kind: cc.kind, Category: cc.category, Magnitude: viol}
		if cc.kind == model.Soft {
			cv.Penalty = cc.weight * viol
			res.Penalty += cv.Penalty
		} else if viol > 0 {
			res.HardViolation += viol
			res.Feasible = false
		}
		res.Breakdown[i] = cv
	}
	return res, nil
}

func (e *Evaluator) checkDomain(v compiledVar, x float64) (DomainViolation, bool) {
	if math.IsNaN(x) {
		return DomainViolation{Var: v.name, Value: x, Reason: OutOfBounds, Magnitude: math.Inf(1)}, false
	}
	if d := v.bounds.Distance(x); d > e.tol {
		return DomainViolation{Var: v.name, Value: x, Reason: OutOfBounds, Magnitude: d}, false
	}
	if v.kind.IsIntegral() {
		if d := math.Abs(x - math.Round(x)); d > e.tol {
			return DomainViolation{Var: v.name, Value: x, Reason: NonIntegral, Magnitude: d}, false
		}
	}
	return DomainViolation{}, true
}

// EvaluateAll scores the candidates in order and stops at the first error.
func (e *Evaluator) EvaluateAll(cs []Candidate) ([]Result, error) {
	out := make([]Result, len(cs))
	for i, c := range cs {
		r, err := e.Evaluate(c)
		if err != nil {
			return nil, fmt.Errorf("candidate %d: %w", i, err)
		}
		out[i] = r
	}
	return out, nil
}
