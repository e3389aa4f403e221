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

	"github.com/supplyplanning/constraintcore/planning/model"
)

// Column is a variable of the solver-ready model.
type Column struct {
	Name  string
	Kind  model.Kind
	Lower float64
	Upper float64
	// Deviation is set on the auxiliary columns measuring the violation of a soft constraint
	// along one side. Constraint names that constraint.
	Deviation  bool
	Constraint string
	Side       model.Side
}

// Coefficient is a non-zero entry of a row or of the objective.
type Coefficient struct {
	Column int
	Value  float64
}

// Row is a constraint in ranged form `Lower <= sum(Value * column) <= Upper`. An infinite
// side is absent.
type Row struct {
	Name  string
	Lower float64
	Upper float64
	Terms []Coefficient
	// Soft marks rows derived from a soft constraint through its deviation columns.
	Soft bool
}

// IsEquality reports whether both sides of the row are the same value.
func (r Row) IsEquality() bool {
	return r.Lower == r.Upper
}

// Objective is the linear objective of the model.
type Objective struct {
	Maximize bool
	Offset   float64
	Terms    []Coefficient
}

// Model is the solver-ready form of a snapshot plus an objective. It holds no reference to
// the registries and is not modified once returned by Translate.
type Model struct {
	Name string
	// Version and VarRevision identify the snapshot the model was translated from.
	Version     uint64
	VarRevision uint64
	Columns     []Column
	Rows        []Row
	Objective   Objective

	colIndex map[string]int
}

// ColumnIndex returns the position of the column `name`.
func (m *Model) ColumnIndex(name string) (int, bool) {
	if m.colIndex != nil {
		i, ok := m.colIndex[name]
		return i, ok
	}
	for i, c := range m.Columns {
		if c.Name == name {
			return i, true
		}
	}
	return -1, false
}

// NumDeviationColumns returns the number of auxiliary columns.
func (m *Model) NumDeviationColumns() int {
	n := 0
	for _, c := range m.Columns {
		if c.Deviation {
			n++
		}
	}
	return n
}

// ObjectiveValue evaluates the objective with the given column values.
func (m *Model) ObjectiveValue(values map[string]float64) (float64, error) {
	v := m.Objective.Offset
	for _, t := range m.Objective.Terms {
		name := m.Columns[t.Column].Name
		x, ok := values[name]
		if !ok {
			return 0, fmt.Errorf("no value for column %q", name)
		}
		v += t.Value * x
	}
	return v, nil
}

// RowActivities returns the activity `sum(Value * column)` of every row.
func (m *Model) RowActivities(values map[string]float64) ([]float64, error) {
	out := make([]float64, len(m.Rows))
	for i, r := range m.Rows {
		for _, t := range r.Terms {
			name := m.Columns[t.Column].Name
			x, ok := values[name]
			if !ok {
				return nil, fmt.Errorf("no value for column %q in row %q", name, r.Name)
			}
			out[i] += t.Value * x
		}
	}
	return out, nil
}

// DeviationName returns the name of the deviation column of constraint `name` along `side`.
func DeviationName(name string, side model.Side) string {
	return fmt.Sprintf("%v(%s)", side, name)
}

func rowBounds(op model.Operator, rhs float64) (float64, float64) {
	switch op {
	case model.LessOrEqual:
		return math.Inf(-1), rhs
	case model.GreaterOrEqual:
		return rhs, math.Inf(1)
	}
	return rhs, rhs
}
