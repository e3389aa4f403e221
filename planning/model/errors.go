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

import "errors"

// Build-time errors. They are returned synchronously by the registry mutators and never
// surface during evaluation or translation.
var (
	// ErrInvalidName is returned for empty variable or constraint names.
	ErrInvalidName = errors.New("model: invalid name")
	// ErrDuplicateVariable is returned when a variable name is declared twice.
	ErrDuplicateVariable = errors.New("model: duplicate variable")
	// ErrInvalidBounds is returned when bounds are inconsistent with each other or with the
	// variable kind.
	ErrInvalidBounds = errors.New("model: invalid bounds")
	// ErrUnknownVariable is returned when a name does not refer to a declared variable.
	ErrUnknownVariable = errors.New("model: unknown variable")
	// ErrDuplicateConstraint is returned when a constraint name is registered twice.
	ErrDuplicateConstraint = errors.New("model: duplicate constraint")
	// ErrUnknownConstraint is returned when a name does not refer to a registered constraint.
	ErrUnknownConstraint = errors.New("model: unknown constraint")
	// ErrInvalidConstraintConfig is returned when a constraint violates the hard/soft weight
	// rules or carries non-finite numbers.
	ErrInvalidConstraintConfig = errors.New("model: invalid constraint configuration")
)
