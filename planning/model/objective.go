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

import "fmt"

// Direction is the optimization sense of an objective.
type Direction int

const (
	// Minimize the objective expression.
	Minimize Direction = iota
	// Maximize the objective expression.
	Maximize
)

func (d Direction) String() string {
	if d == Maximize {
		return "maximize"
	}
	return "minimize"
}

// Objective is a linear objective. It is passed by value to the LP translator next to a
// Snapshot and is not part of the registry.
type Objective struct {
	Direction Direction
	Expr      *LinearExpr
}

// NewMinimize returns the objective minimizing `expr`. A nil `expr` is the constant 0.
func NewMinimize(expr LinearArgument) Objective {
	return Objective{Direction: Minimize, Expr: exprOf(expr)}
}

// NewMaximize returns the objective maximizing `expr`. A nil `expr` is the constant 0.
func NewMaximize(expr LinearArgument) Objective {
	return Objective{Direction: Maximize, Expr: exprOf(expr)}
}

// exprOf returns a new expression holding `expr`, empty if `expr` is nil.
func exprOf(expr LinearArgument) *LinearExpr {
	e := NewLinearExpr()
	if expr != nil {
		e.Add(expr)
	}
	return e
}

func (o Objective) String() string {
	return fmt.Sprintf("%v %v", o.Direction, o.Expr)
}
