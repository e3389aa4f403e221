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
	"math"
	"math/rand/v2"

	"github.com/supplyplanning/constraintcore/planning/heuristic"
)

// RandomPlan draws a value uniformly within the bounds of every variable of the instance.
// Unbounded variables are drawn up to the total demand of the scenario. Integral variables get
// integral values, so a random plan never breaks a variable domain.
func RandomPlan(r *rand.Rand, in *Instance) heuristic.Candidate {
	var scale float64
	for _, p := range in.Scenario.Products {
		for _, d := range p.Demand {
			scale += d
		}
	}
	vars := in.Variables.All()
	c := make(heuristic.Candidate, len(vars))
	for _, v := range vars {
		b := v.Bounds()
		hi := b.Upper
		if math.IsInf(hi, 1) {
			hi = b.Lower + scale
		}
		x := b.Lower + r.Float64()*(hi-b.Lower)
		if v.Kind().IsIntegral() {
			x = math.Min(math.Max(math.Round(x), math.Ceil(b.Lower)), math.Floor(hi))
		}
		c[v.Name()] = x
	}
	return c
}

// RandomPopulation draws `n` random plans.
func RandomPopulation(r *rand.Rand, in *Instance, n int) []heuristic.Candidate {
	out := make([]heuristic.Candidate, n)
	for i := range out {
		out[i] = RandomPlan(r, in)
	}
	return out
}

