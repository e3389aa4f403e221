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
	"context"

	"github.com/supplyplanning/constraintcore/planning/heuristic"
)

// Worker evaluates a chunk of candidates and returns one result per candidate, in input
// order. A worker must stop when `ctx` is done; the coordinator abandons it otherwise.
type Worker interface {
	EvaluateChunk(ctx context.Context, ev *heuristic.Evaluator, chunk []heuristic.Candidate) ([]heuristic.Result, error)
}

// WorkerFunc adapts a function to the Worker interface.
type WorkerFunc func(ctx context.Context, ev *heuristic.Evaluator, chunk []heuristic.Candidate) ([]heuristic.Result, error)

// EvaluateChunk calls f.
func (f WorkerFunc) EvaluateChunk(ctx context.Context, ev *heuristic.Evaluator, chunk []heuristic.Candidate) ([]heuristic.Result, error) {
	return f(ctx, ev, chunk)
}

// LocalWorker evaluates chunks in the calling goroutine.
type LocalWorker struct{}

// EvaluateChunk evaluates the candidates in order, checking `ctx` between candidates.
func (LocalWorker) EvaluateChunk(ctx context.Context, ev *heuristic.Evaluator, chunk []heuristic.Candidate) ([]heuristic.Result, error) {
	out := make([]heuristic.Result, len(chunk))
	for i, c := range chunk {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, err := ev.Evaluate(c)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}
