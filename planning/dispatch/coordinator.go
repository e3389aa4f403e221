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
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	log "github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/supplyplanning/constraintcore/planning/heuristic"
)

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithWorker sets the worker chunks are dispatched to. The default is LocalWorker.
func WithWorker(w Worker) Option {
	return func(c *Coordinator) { c.worker = w }
}

// WithRegisterer registers the coordinator metrics with `reg`. Metrics are unregistered by
// default.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *Coordinator) { c.reg = reg }
}

// Coordinator scores populations of candidates in parallel chunks.
type Coordinator struct {
	cfg     Config
	worker  Worker
	reg     prometheus.Registerer
	metrics *metrics
}

// NewCoordinator validates `cfg` and returns a coordinator using it.
func NewCoordinator(cfg Config, opts ...Option) (*Coordinator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Coordinator{cfg: cfg, worker: LocalWorker{}}
	for _, opt := range opts {
		opt(c)
	}
	m, err := newMetrics(c.reg)
	if err != nil {
		return nil, err
	}
	c.metrics = m
	return c, nil
}

// Config returns the configuration of the coordinator.
func (c *Coordinator) Config() Config {
	return c.cfg
}

// ScorePopulation evaluates every candidate with `ev` and returns the results in input order.
//
// Candidates are split into chunks of Config.ChunkSize, at most Config.WorkerCount of which
// are evaluated at a time. A failed, panicking or timed out attempt is retried up to
// Config.MaxRetries times; after that the results of the chunk carry an error wrapping
// ErrWorkerFailure and the other chunks are unaffected. Evaluation errors (a stale evaluator,
// an incomplete candidate) are not retried and abort the call. If `ctx` is cancelled, the
// call returns ctx.Err() and no results.
func (c *Coordinator) ScorePopulation(ctx context.Context, ev *heuristic.Evaluator, candidates []heuristic.Candidate) ([]heuristic.Result, error) {
	if err := ev.CheckFresh(); err != nil {
		return nil, err
	}
	runID := uuid.NewString()
	start := time.Now()
	results := make([]heuristic.Result, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.WorkerCount)
	for lo := 0; lo < len(candidates); lo += c.cfg.ChunkSize {
		if gctx.Err() != nil {
			break
		}
		hi := min(lo+c.cfg.ChunkSize, len(candidates))
		g.Go(func() error {
			out, attempts, err := c.runChunk(gctx, runID, ev, candidates[lo:hi])
			switch {
			case err == nil:
				copy(results[lo:hi], out)
			case gctx.Err() != nil:
				return gctx.Err()
			case isEvaluationError(err):
				return fmt.Errorf("chunk [%d,%d): %w", lo, hi, err)
			default:
				c.metrics.failures.Inc()
				log.Errorf("run %s: chunk [%d,%d) failed after %d attempts: %v", runID, lo, hi, attempts, err)
				failure := fmt.Errorf("chunk [%d,%d) after %d attempts: %w: %w", lo, hi, attempts, ErrWorkerFailure, err)
				for i := lo; i < hi; i++ {
					results[i] = heuristic.Result{Err: failure}
				}
			}
			return nil
		})
	}
	err := g.Wait()
	if ctxErr := ctx.Err(); ctxErr != nil {
		log.V(1).Infof("run %s: cancelled after %v", runID, time.Since(start))
		return nil, ctxErr
	}
	if err != nil {
		return nil, err
	}
	c.metrics.candidates.Add(float64(len(candidates)))
	log.V(1).Infof("run %s: scored %d candidates in %v", runID, len(candidates), time.Since(start))
	return results, nil
}

// runChunk evaluates a chunk with retries and returns the number of attempts made.
func (c *Coordinator) runChunk(ctx context.Context, runID string, ev *heuristic.Evaluator, chunk []heuristic.Candidate) ([]heuristic.Result, int, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.cfg.RetryInterval
	b.MaxInterval = 100 * c.cfg.RetryInterval
	attempts := 0
	op := func() ([]heuristic.Result, error) {
		attempts++
		out, err := c.attempt(ctx, ev, chunk)
		if err != nil && (isEvaluationError(err) || ctx.Err() != nil) {
			return nil, backoff.Permanent(err)
		}
		return out, err
	}
	out, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(c.cfg.MaxRetries+1)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Warningf("run %s: chunk of %d candidates failed on attempt %d, retrying in %v: %v", runID, len(chunk), attempts, next, err)
		}),
	)
	return out, attempts, err
}

type outcome struct {
	results  []heuristic.Result
	err      error
	panicked bool
}

// attempt runs the worker once under the chunk deadline. A worker that does not return by
// the deadline is abandoned and its late result dropped.
func (c *Coordinator) attempt(ctx context.Context, ev *heuristic.Evaluator, chunk []heuristic.Candidate) ([]heuristic.Result, error) {
	actx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	start := time.Now()
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("worker panicked: %v", r), panicked: true}
			}
		}()
		res, err := c.worker.EvaluateChunk(actx, ev, chunk)
		done <- outcome{results: res, err: err}
	}()

	select {
	case <-actx.Done():
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c.metrics.attempts.WithLabelValues(outcomeTimeout).Inc()
		return nil, fmt.Errorf("chunk deadline of %v exceeded: %w", c.cfg.Timeout, actx.Err())
	case o := <-done:
		c.metrics.duration.Observe(time.Since(start).Seconds())
		switch {
		case o.panicked:
			c.metrics.attempts.WithLabelValues(outcomePanic).Inc()
			return nil, o.err
		case o.err != nil:
			c.metrics.attempts.WithLabelValues(outcomeError).Inc()
			return nil, o.err
		case len(o.results) != len(chunk):
			c.metrics.attempts.WithLabelValues(outcomeError).Inc()
			return nil, fmt.Errorf("worker returned %d results for %d candidates", len(o.results), len(chunk))
		}
		c.metrics.attempts.WithLabelValues(outcomeSuccess).Inc()
		return o.results, nil
	}
}

// isEvaluationError reports whether err is a usage error of the evaluator, which no retry can
// fix.
func isEvaluationError(err error) bool {
	return errors.Is(err, heuristic.ErrStaleEvaluator) || errors.Is(err, heuristic.ErrIncompleteAssignment)
}
