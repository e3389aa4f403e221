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
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Attempt outcomes.
const (
	outcomeSuccess = "success"
	outcomeError   = "error"
	outcomeTimeout = "timeout"
	outcomePanic   = "panic"
)

type metrics struct {
	// attempts counts chunk attempts by outcome.
	attempts *prometheus.CounterVec
	// failures counts chunks given up after the last retry.
	failures prometheus.Counter
	// candidates counts scored candidates, failed ones included.
	candidates prometheus.Counter
	// duration tracks the latency of completed chunk attempts.
	duration prometheus.Histogram
}

// newMetrics creates the coordinator metrics and registers them with `reg`. Collectors
// already registered by another coordinator are shared. A nil `reg` leaves them unregistered.
func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{}
	var err error
	if m.attempts, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planning_dispatch_chunk_attempts_total",
		Help: "Chunk evaluation attempts by outcome",
	}, []string{"outcome"})); err != nil {
		return nil, err
	}
	if m.failures, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "planning_dispatch_chunk_failures_total",
		Help: "Chunks marked as worker failures after exhausting retries",
	})); err != nil {
		return nil, err
	}
	if m.candidates, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "planning_dispatch_candidates_total",
		Help: "Candidates scored by the coordinator",
	})); err != nil {
		return nil, err
	}
	if m.duration, err = register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "planning_dispatch_chunk_duration_seconds",
		Help:    "Chunk evaluation attempt duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 16),
	})); err != nil {
		return nil, err
	}
	return m, nil
}

// register registers `c` with `reg` and returns the collector to record into: `c` itself, or
// the equal collector registered earlier.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if reg == nil {
		return c, nil
	}
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		if existing, ok := already.ExistingCollector.(T); ok {
			return existing, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("registering metrics: %w", err)
}
