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

import "errors"

var (
	// ErrUnsupportedConstraint is returned when a constraint cannot be represented as an LP
	// row. The caller can recover by reformulating the constraint.
	ErrUnsupportedConstraint = errors.New("lp: unsupported constraint")
	// ErrInvalidObjective is returned when the objective references variables missing from the
	// snapshot or carries non-finite numbers.
	ErrInvalidObjective = errors.New("lp: invalid objective")
	// ErrSolverFailure wraps errors raised by the solver itself, such as resource limits or
	// numerical failures. It is distinct from an infeasible or unbounded status.
	ErrSolverFailure = errors.New("lp: solver failure")
)
