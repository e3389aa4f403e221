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
	"context"
	"fmt"
	"maps"
	"slices"

	log "github.com/golang/glog"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Status is the outcome reported by a solver. Every status is a normal outcome; solver
// errors are reported separately.
type Status int

const (
	// StatusOptimal means an optimal assignment was found.
	StatusOptimal Status = iota
	// StatusInfeasible means the solver proved that no assignment satisfies the rows and bounds.
	StatusInfeasible
	// StatusUnbounded means the objective can be improved without limit.
	StatusUnbounded
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// ParseStatus is the inverse of Status.String.
func ParseStatus(s string) (Status, error) {
	for _, st := range []Status{StatusOptimal, StatusInfeasible, StatusUnbounded} {
		if st.String() == s {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown solver status %q", s)
}

// Solution is what a solver returns for a model. On StatusOptimal, Values holds a value for
// every column of the model, deviation columns included.
type Solution struct {
	Status    Status
	Objective float64
	Values    map[string]float64
}

// Solver is the boundary to an external LP/MIP solver.
type Solver interface {
	Solve(ctx context.Context, m *Model) (*Solution, error)
}

// SolverFunc adapts a function to the Solver interface.
type SolverFunc func(ctx context.Context, m *Model) (*Solution, error)

// Solve calls f.
func (f SolverFunc) Solve(ctx context.Context, m *Model) (*Solution, error) {
	return f(ctx, m)
}

// Result is the outcome of Solve, expressed over the decision variables of the snapshot.
type Result struct {
	Status    Status
	Objective float64
	// Values maps every decision variable to its value. Deviation columns are not included,
	// so Values can be evaluated directly by a heuristic evaluator compiled from the same
	// snapshot. Nil unless Status is StatusOptimal.
	Values map[string]float64
	// Deviations maps each soft constraint to the sum of its deviation columns.
	Deviations map[string]float64
}

// Solve hands the model to the solver in a single blocking call and maps the answer back to
// decision variables. A non-optimal status is returned as a Result, not as an error.
func Solve(ctx context.Context, s Solver, m *Model) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sol, err := s.Solve(ctx, m)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("solving model %q: %w: %w", m.Name, ErrSolverFailure, err)
	}
	if sol == nil {
		return nil, fmt.Errorf("solving model %q: no solution returned: %w", m.Name, ErrSolverFailure)
	}
	res := &Result{Status: sol.Status, Objective: sol.Objective}
	log.V(1).Infof("model %q solved with status %v", m.Name, sol.Status)
	if sol.Status != StatusOptimal {
		return res, nil
	}

	res.Values = make(map[string]float64, len(m.Columns))
	var missing []string
	for _, c := range m.Columns {
		v, ok := sol.Values[c.Name]
		if !ok {
			missing = append(missing, c.Name)
			continue
		}
		if c.Deviation {
			if res.Deviations == nil {
				res.Deviations = make(map[string]float64)
			}
			res.Deviations[c.Constraint] += v
			continue
		}
		res.Values[c.Name] = v
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("solving model %q: optimal solution misses columns %v: %w", m.Name, missing, ErrSolverFailure)
	}
	return res, nil
}

// WireSolver adapts a solver endpoint that exchanges serialized google.protobuf.Struct
// messages: the request is Model.Marshal, the response is EncodeSolution.
type WireSolver func(ctx context.Context, request []byte) ([]byte, error)

// Solve marshals the model, calls the endpoint and decodes its response.
func (w WireSolver) Solve(ctx context.Context, m *Model) (*Solution, error) {
	req, err := m.Marshal()
	if err != nil {
		return nil, err
	}
	resp, err := w(ctx, req)
	if err != nil {
		return nil, err
	}
	return DecodeSolution(resp)
}

// EncodeSolution returns the wire encoding of a solution.
func EncodeSolution(s *Solution) ([]byte, error) {
	values := make(map[string]any, len(s.Values))
	for _, k := range slices.Sorted(maps.Keys(s.Values)) {
		values[k] = s.Values[k]
	}
	p, err := structpb.NewStruct(map[string]any{
		"status":    s.Status.String(),
		"objective": s.Objective,
		"values":    values,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding solution: %w", err)
	}
	b, err := proto.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshaling solution: %w", err)
	}
	return b, nil
}

// DecodeSolution parses the wire encoding produced by EncodeSolution.
func DecodeSolution(b []byte) (*Solution, error) {
	p := &structpb.Struct{}
	if err := proto.Unmarshal(b, p); err != nil {
		return nil, fmt.Errorf("unmarshaling solution: %w", err)
	}
	f := p.GetFields()
	status, err := ParseStatus(f["status"].GetStringValue())
	if err != nil {
		return nil, err
	}
	sol := &Solution{Status: status, Objective: f["objective"].GetNumberValue()}
	if vals := f["values"].GetStructValue().GetFields(); len(vals) > 0 {
		sol.Values = make(map[string]float64, len(vals))
		for k, v := range vals {
			sol.Values[k] = v.GetNumberValue()
		}
	}
	return sol, nil
}
