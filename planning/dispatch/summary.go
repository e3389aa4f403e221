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

package dispatch

import (
	"fmt"

	"github.com/supplyplanning/constraintcore/planning/heuristic"
)

// Summary aggregates the results of a population score.
type Summary struct {
	Candidates int
	Feasible   int
	// Failed counts the candidates whose result carries an error.
	Failed int
	// Best is the index of the evaluated candidate with the lowest fitness, -1 if none was
	// evaluated. Ties go to the lowest index.
	Best        int
	BestFitness float64
	MeanPenalty float64
}

// Summarize aggregates `results`, ranking candidates by Result.Fitness(hardWeight).
func Summarize(results []heuristic.Result, hardWeight float64) Summary {
	s := Summary{Candidates: len(results), Best: -1}
	var penalty float64
	for i, r := range results {
		if r.Err != nil {
			s.Failed++
			continue
		}
		if r.Feasible {
			s.Feasible++
		}
		penalty += r.Penalty
		if f := r.Fitness(hardWeight); s.Best < 0 || f < s.BestFitness {
			s.Best, s.BestFitness = i, f
		}
	}
	if n := s.Candidates - s.Failed; n > 0 {
		s.MeanPenalty = penalty / float64(n)
	}
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("%d candidates, %d feasible, %d failed, best #%d (fitness %g), mean penalty %g",
		s.Candidates, s.Feasible, s.Failed, s.Best, s.BestFitness, s.MeanPenalty)
}
