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
	"sync/atomic"
)

// Kind is the domain kind of a decision variable.
type Kind int

const (
	// Continuous variables take any real value within their bounds.
	Continuous Kind = iota
	// Integer variables take integral values within their bounds.
	Integer
	// Binary variables take the values 0 or 1.
	Binary
)

func (k Kind) String() string {
	switch k {
	case Continuous:
		return "continuous"
	case Integer:
		return "integer"
	case Binary:
		return "binary"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsIntegral reports whether values of this kind must be integers.
func (k Kind) IsIntegral() bool {
	return k == Integer || k == Binary
}

// VarIndex is the position of a variable in its registry. Indices are stable because the
// registry is append-only.
type VarIndex int32

// Variable is a reference to a declared decision variable. It is a value type; bound
// tightening after declaration is only visible through the registry.
type Variable struct {
	name   string
	kind   Kind
	bounds Interval
	ind    VarIndex
}

// Name returns the name of the variable.
func (v Variable) Name() string {
	return v.name
}

// Kind returns the domain kind of the variable.
func (v Variable) Kind() Kind {
	return v.kind
}

// Bounds returns the bounds of the variable at the time the reference was obtained.
func (v Variable) Bounds() Interval {
	return v.bounds
}

// Index returns the index of the variable in its registry.
func (v Variable) Index() VarIndex {
	return v.ind
}

func (v Variable) addToLinearExpr(e *LinearExpr, c float64) {
	e.terms = append(e.terms, Term{Var: v.name, Coeff: c})
}

// Variables is the append-only registry of decision variables of one planning instance. It is
// mutated by a single setup goroutine before any evaluator is compiled.
type Variables struct {
	vars     []Variable
	index    map[string]VarIndex
	revision atomic.Uint64
}

// NewVariables creates an empty variable registry.
func NewVariables() *Variables {
	return &Variables{index: make(map[string]VarIndex)}
}

// Declare registers a new variable. Infinite bounds leave the corresponding side unbounded.
// Binary variables only accept bounds drawn from {0, 1}.
func (vs *Variables) Declare(name string, kind Kind, lower, upper float64) (Variable, error) {
	if name == "" {
		return Variable{}, fmt.Errorf("declaring %v variable: %w", kind, ErrInvalidName)
	}
	if _, ok := vs.index[name]; ok {
		return Variable{}, fmt.Errorf("variable %q: %w", name, ErrDuplicateVariable)
	}
	bounds := NewInterval(lower, upper)
	if err := checkKindBounds(kind, bounds); err != nil {
		return Variable{}, fmt.Errorf("variable %q: %w", name, err)
	}
	v := Variable{name: name, kind: kind, bounds: bounds, ind: VarIndex(len(vs.vars))}
	vs.vars = append(vs.vars, v)
	vs.index[name] = v.ind
	return v, nil
}

// DeclareBinary registers a new binary variable with bounds [0,1].
func (vs *Variables) DeclareBinary(name string) (Variable, error) {
	return vs.Declare(name, Binary, 0, 1)
}

// DeclareNonNegative registers a new continuous variable with bounds [0,+inf).
func (vs *Variables) DeclareNonNegative(name string) (Variable, error) {
	return vs.Declare(name, Continuous, 0, math.Inf(1))
}

// Get returns the variable with the given name.
func (vs *Variables) Get(name string) (Variable, error) {
	i, ok := vs.index[name]
	if !ok {
		return Variable{}, fmt.Errorf("variable %q: %w", name, ErrUnknownVariable)
	}
	return vs.vars[i], nil
}

// Contains reports whether a variable with the given name is declared.
func (vs *Variables) Contains(name string) bool {
	_, ok := vs.index[name]
	return ok
}

// TightenBounds replaces the bounds of a variable with `[lower,upper]`. The new interval must be
// non-empty, contained in the current bounds and compatible with the variable kind.
func (vs *Variables) TightenBounds(name string, lower, upper float64) error {
	i, ok := vs.index[name]
	if !ok {
		return fmt.Errorf("tightening variable %q: %w", name, ErrUnknownVariable)
	}
	v := vs.vars[i]
	bounds := NewInterval(lower, upper)
	if err := checkKindBounds(v.kind, bounds); err != nil {
		return fmt.Errorf("tightening variable %q: %w", name, err)
	}
	if !bounds.IsSubsetOf(v.bounds) {
		return fmt.Errorf("tightening variable %q from %v to %v widens it: %w", name, v.bounds, bounds, ErrInvalidBounds)
	}
	vs.vars[i].bounds = bounds
	vs.revision.Add(1)
	return nil
}

// Len returns the number of declared variables.
func (vs *Variables) Len() int {
	return len(vs.vars)
}

// Revision is incremented every time the bounds of a declared variable change.
func (vs *Variables) Revision() uint64 {
	return vs.revision.Load()
}

// All returns a copy of the declared variables in declaration order.
func (vs *Variables) All() []Variable {
	out := make([]Variable, len(vs.vars))
	copy(out, vs.vars)
	return out
}

func checkKindBounds(kind Kind, bounds Interval) error {
	if err := bounds.validate(); err != nil {
		return err
	}
	switch kind {
	case Continuous:
	case Integer:
		if math.Ceil(bounds.Lower) > math.Floor(bounds.Upper) {
			return fmt.Errorf("integer bounds %v contain no integer: %w", bounds, ErrInvalidBounds)
		}
	case Binary:
		for _, b := range []float64{bounds.Lower, bounds.Upper} {
			if b != 0 && b != 1 {
				return fmt.Errorf("binary bounds %v must be 0 or 1: %w", bounds, ErrInvalidBounds)
			}
		}
	default:
		return fmt.Errorf("unknown variable kind %v: %w", kind, ErrInvalidBounds)
	}
	return nil
}
