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
	"strings"
)

// Evaluation errors signal a usage bug in the calling search loop. They are never turned into
// an infeasible score.
var (
	// ErrStaleEvaluator is returned when the registries changed since the evaluator was
	// compiled. The caller must compile a new evaluator from a fresh snapshot.
	ErrStaleEvaluator = errors.New("heuristic: stale evaluator")
	// ErrIncompleteAssignment is returned when a candidate has no value for a variable
	// referenced by a constraint.
	ErrIncompleteAssignment = errors.New("heuristic: incomplete assignment")
	// ErrInvalidTolerance is returned by Compile for a negative or non-finite tolerance.
	ErrInvalidTolerance = errors.New("heuristic: invalid tolerance")
)

// IncompleteAssignmentError lists the referenced variables a candidate has no value for.
type IncompleteAssignmentError struct {
	Missing []string
}

func (e *IncompleteAssignmentError) Error() string {
	return ErrIncompleteAssignment.Error() + ": missing " + strings.Join(e.Missing, ", ")
}

// Unwrap returns ErrIncompleteAssignment.
func (e *IncompleteAssignmentError) Unwrap() error {
	return ErrIncompleteAssignment
}
