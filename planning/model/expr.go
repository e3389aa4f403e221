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
	"strings"

	log "github.com/golang/glog"
)

// LinearArgument provides an interface for Variable, VarRef, and LinearExpr.
type LinearArgument interface {
	addToLinearExpr(e *LinearExpr, c float64)
}

// Term is a coefficient applied to a variable, identified by name.
type Term struct {
	Var   string
	Coeff float64
}

// LinearExpr is an ordered sequence of terms plus a constant offset. Terms on the same
// variable are kept as given; consumers that need a canonical form merge them.
type LinearExpr struct {
	terms  []Term
	offset float64
}

// VarRef references a variable by name only. The reference is resolved when the expression is
// registered, so a dangling name fails at build time.
type VarRef string

func (r VarRef) addToLinearExpr(e *LinearExpr, c float64) {
	e.terms = append(e.terms, Term{Var: string(r), Coeff: c})
}

// NewLinearExpr creates a new empty LinearExpr.
func NewLinearExpr() *LinearExpr {
	return &LinearExpr{}
}

// NewConstant creates and returns a LinearExpr containing the constant `c`.
func NewConstant(c float64) *LinearExpr {
	return &LinearExpr{offset: c}
}

// Add adds the linear argument term to the LinearExpr and returns itself.
func (l *LinearExpr) Add(la LinearArgument) *LinearExpr {
	return l.AddTerm(la, 1)
}

// AddConstant adds the constant to the LinearExpr and returns itself.
func (l *LinearExpr) AddConstant(c float64) *LinearExpr {
	l.offset += c
	return l
}

// AddTerm adds the linear argument term with the given coefficient to the LinearExpr and
// returns itself.
func (l *LinearExpr) AddTerm(la LinearArgument, coeff float64) *LinearExpr {
	la.addToLinearExpr(l, coeff)
	return l
}

// AddSum adds the sum of the linear arguments to the LinearExpr and returns itself.
func (l *LinearExpr) AddSum(las ...LinearArgument) *LinearExpr {
	for _, la := range las {
		l.Add(la)
	}
	return l
}

// AddWeightedSum adds the linear arguments with the corresponding coefficients to the
// LinearExpr and returns itself.
func (l *LinearExpr) AddWeightedSum(las []LinearArgument, coeffs []float64) *LinearExpr {
	if len(coeffs) != len(las) {
		log.Fatalf("las and coeffs must be the same length: %v != %v", len(las), len(coeffs))
	}
	for i, la := range las {
		l.AddTerm(la, coeffs[i])
	}
	return l
}

func (l *LinearExpr) addToLinearExpr(e *LinearExpr, c float64) {
	for _, t := range l.Terms() {
		e.terms = append(e.terms, Term{Var: t.Var, Coeff: t.Coeff * c})
	}
	e.offset += l.Offset() * c
}

// Terms returns a copy of the terms of the expression.
func (l *LinearExpr) Terms() []Term {
	if l == nil {
		return nil
	}
	out := make([]Term, len(l.terms))
	copy(out, l.terms)
	return out
}

// Offset returns the constant offset of the expression.
func (l *LinearExpr) Offset() float64 {
	if l == nil {
		return 0
	}
	return l.offset
}

// Len returns the number of terms.
func (l *LinearExpr) Len() int {
	if l == nil {
		return 0
	}
	return len(l.terms)
}

// Clone returns a deep copy of the expression.
func (l *LinearExpr) Clone() *LinearExpr {
	return &LinearExpr{terms: l.Terms(), offset: l.Offset()}
}

// Merged returns the expression with terms on the same variable combined, in order of first
// appearance. Terms whose combined coefficient is zero are dropped.
func (l *LinearExpr) Merged() *LinearExpr {
	pos := make(map[string]int, l.Len())
	var terms []Term
	for _, t := range l.Terms() {
		if i, ok := pos[t.Var]; ok {
			terms[i].Coeff += t.Coeff
			continue
		}
		pos[t.Var] = len(terms)
		terms = append(terms, t)
	}
	out := &LinearExpr{offset: l.Offset()}
	for _, t := range terms {
		if t.Coeff != 0 {
			out.terms = append(out.terms, t)
		}
	}
	return out
}

// Value evaluates the expression with `values`. It returns false if a variable of the
// expression has no value.
func (l *LinearExpr) Value(values map[string]float64) (float64, bool) {
	result := l.Offset()
	if l == nil {
		return result, true
	}
	for _, t := range l.terms {
		v, ok := values[t.Var]
		if !ok {
			return 0, false
		}
		result += t.Coeff * v
	}
	return result, true
}

// Vars returns the distinct variable names of the expression in order of first appearance.
func (l *LinearExpr) Vars() []string {
	seen := make(map[string]bool, l.Len())
	var out []string
	for _, t := range l.Terms() {
		if !seen[t.Var] {
			seen[t.Var] = true
			out = append(out, t.Var)
		}
	}
	return out
}

func (l *LinearExpr) checkFinite() error {
	for _, t := range l.Terms() {
		if math.IsNaN(t.Coeff) || math.IsInf(t.Coeff, 0) {
			return fmt.Errorf("coefficient %g on %q is not finite", t.Coeff, t.Var)
		}
	}
	if o := l.Offset(); math.IsNaN(o) || math.IsInf(o, 0) {
		return fmt.Errorf("offset %g is not finite", o)
	}
	return nil
}

func (l *LinearExpr) String() string {
	var sb strings.Builder
	for i, t := range l.Terms() {
		switch {
		case i == 0 && t.Coeff < 0:
			sb.WriteString("-")
		case i > 0 && t.Coeff < 0:
			sb.WriteString(" - ")
		case i > 0:
			sb.WriteString(" + ")
		}
		if c := math.Abs(t.Coeff); c != 1 {
			fmt.Fprintf(&sb, "%g ", c)
		}
		sb.WriteString(t.Var)
	}
	switch o := l.Offset(); {
	case l.Len() == 0:
		fmt.Fprintf(&sb, "%g", o)
	case o > 0:
		fmt.Fprintf(&sb, " + %g", o)
	case o < 0:
		fmt.Fprintf(&sb, " - %g", -o)
	}
	return sb.String()
}
