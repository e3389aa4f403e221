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

	"github.com/supplyplanning/constraintcore/planning/model"
)

// Candidate assigns values to decision variables by name. The evaluator only reads it.
type Candidate map[string]float64

// ConstraintViolation is the violation of one constraint under a candidate.
type ConstraintViolation struct {
	Name     string
	Kind     model.ConstraintKind
	Category model.Category
	// Magnitude is 0 when the constraint is satisfied within tolerance.
	Magnitude float64
	// Penalty is Weight times Magnitude for soft constraints and 0 for hard ones.
	Penalty float64
}

// DomainReason tells which domain rule a value breaks.
type DomainReason string

// Domain rules checked by the evaluator.
const (
	OutOfBounds DomainReason = "out_of_bounds"
	NonIntegral DomainReason = "non_integral"
)

// DomainViolation reports a candidate value that the LP would not accept for its variable.
type DomainViolation struct {
	Var       string
	Value     float64
	Reason    DomainReason
	Magnitude float64
}

func (d DomainViolation) String() string {
	return fmt.Sprintf("%s=%g: %s by %g", d.Var, d.Value, d.Reason, d.Magnitude)
}

// Result is the evaluation of one candidate.
type Result struct {
	// Penalty is the sum of weight times violation over the soft constraints.
	Penalty float64
	// Feasible is true only if every hard constraint holds within tolerance and every
	// value lies in its variable domain.
	Feasible bool
	// HardViolation is the sum of the hard constraint violations.
	HardViolation float64
	// Breakdown holds one entry per constraint in registration order.
	Breakdown        []ConstraintViolation
	DomainViolations []DomainViolation
	// Err is set by a distributed coordinator when the candidate could not be evaluated. All
	// other fields are then zero.
	Err error
}

// Violations returns the per-constraint violation magnitudes keyed by constraint name.
func (r *Result) Violations() map[string]float64 {
	out := make(map[string]float64, len(r.Breakdown))
	for _, v := range r.Breakdown {
		out[v.Name] = v.Magnitude
	}
	return out
}

// Violation returns the violation magnitude of the constraint `name`, 0 if it is unknown.
func (r *Result) Violation(name string) float64 {
	for _, v := range r.Breakdown {
		if v.Name == name {
			return v.Magnitude
		}
	}
	return 0
}

// Fitness returns the penalty plus `hardWeight` times the hard and domain violations. Lower
// is better; search loops use it to rank feasible and infeasible candidates together.
func (r *Result) Fitness(hardWeight float64) float64 {
	hard := r.HardViolation
	for _, d := range r.DomainViolations {
		hard += d.Magnitude
	}
	if hard == 0 || hardWeight == 0 {
		return r.Penalty
	}
	return r.Penalty + hardWeight*hard
}

// ByCategory returns the violation magnitudes summed per constraint category. Categories
// without violation are omitted.
func (r *Result) ByCategory() map[model.Category]float64 {
	out := make(map[model.Category]float64)
	for _, v := range r.Breakdown {
		if v.Magnitude == 0 {
			continue
		}
		cat := v.Category
		if cat == "" {
			cat = model.CategoryOther
		}
		out[cat] += v.Magnitude
	}
	return out
}
