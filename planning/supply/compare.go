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

package supply

import (
	"context"
	"fmt"
	"math/rand/v2"

	log "github.com/golang/glog"

	"github.com/supplyplanning/constraintcore/planning/dispatch"
	"github.com/supplyplanning/constraintcore/planning/heuristic"
	"github.com/supplyplanning/constraintcore/planning/lp"
)

// CompareOptions configures Compare.
type CompareOptions struct {
	// Size is the number of random plans scored per scenario.
	Size int
	// Seed seeds the random plans. Every scenario uses the same seed.
	Seed uint64
	// HardWeight ranks the plans, see heuristic.Result.Fitness.
	HardWeight float64
	// Dispatch configures the coordinator of every scenario.
	Dispatch []dispatch.Option
}

// Comparison is the outcome of one scenario of Compare.
type Comparison struct {
	Name        string
	Variables   int
	Constraints int
	// Rows and DeviationColumns describe the LP of the scenario.
	Rows             int
	DeviationColumns int
	Summary          dispatch.Summary
	// Err is set if the scenario could not be built, translated or scored.
	Err error
}

// Status returns "ok" or the error of the scenario.
func (c Comparison) Status() string {
	if c.Err != nil {
		return "error: " + c.Err.Error()
	}
	return "ok"
}

func (c Comparison) String() string {
	if c.Err != nil {
		return fmt.Sprintf("%s: %s", c.Name, c.Status())
	}
	return fmt.Sprintf("%s: %d variables, %d constraints, %d LP rows (%d deviation columns); %v",
		c.Name, c.Variables, c.Constraints, c.Rows, c.DeviationColumns, c.Summary)
}

// Compare builds every scenario, translates it and scores a random population of its plans.
// A scenario that fails is reported in its Comparison and the others still run. Compare
// returns ctx.Err() with the comparisons completed so far if ctx is cancelled.
func Compare(ctx context.Context, scenarios []*Scenario, opts CompareOptions) ([]Comparison, error) {
	if opts.Size <= 0 {
		return nil, fmt.Errorf("population size %d, want > 0", opts.Size)
	}
	out := make([]Comparison, 0, len(scenarios))
	for _, s := range scenarios {
		c := compareOne(ctx, s, opts)
		if err := ctx.Err(); err != nil {
			return out, err
		}
		if c.Err != nil {
			log.Warningf("scenario %q: %v", c.Name, c.Err)
		}
		out = append(out, c)
	}
	return out, nil
}

func compareOne(ctx context.Context, s *Scenario, opts CompareOptions) Comparison {
	c := Comparison{Name: s.Name}
	in, err := Build(s)
	if err != nil {
		c.Err = err
		return c
	}
	snap := in.Registry.Snapshot()
	c.Variables, c.Constraints = in.Variables.Len(), snap.Len()

	m, err := lp.Translate(snap, in.Objective, lp.WithName(s.Name))
	if err != nil {
		c.Err = err
		return c
	}
	c.Rows, c.DeviationColumns = len(m.Rows), m.NumDeviationColumns()

	ev, err := heuristic.Compile(snap, s.EvaluatorOptions()...)
	if err != nil {
		c.Err = err
		return c
	}
	coord, err := dispatch.NewCoordinator(s.DispatchConfig(), opts.Dispatch...)
	if err != nil {
		c.Err = err
		return c
	}
	pop := RandomPopulation(rand.New(rand.NewPCG(opts.Seed, opts.Seed)), in, opts.Size)
	results, err := coord.ScorePopulation(ctx, ev, pop)
	if err != nil {
		c.Err = err
		return c
	}
	c.Summary = dispatch.Summarize(results, opts.HardWeight)
	return c
}
