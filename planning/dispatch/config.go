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
	"runtime"
	"time"
)

// Config controls how a population is partitioned and dispatched.
type Config struct {
	// WorkerCount is the number of chunks evaluated in parallel.
	WorkerCount int `yaml:"worker_count"`
	// ChunkSize is the number of candidates per dispatch unit.
	ChunkSize int `yaml:"chunk_size"`
	// Timeout is the deadline of one attempt at a chunk.
	Timeout time.Duration `yaml:"timeout"`
	// MaxRetries is the number of attempts after the first before a chunk is given up.
	MaxRetries int `yaml:"max_retries"`
	// RetryInterval is the initial wait between attempts. It doubles on every retry.
	RetryInterval time.Duration `yaml:"retry_interval"`
}

// DefaultConfig returns one worker per available CPU, chunks of 32 candidates, a 30s
// deadline per attempt and 2 retries.
func DefaultConfig() Config {
	return Config{
		WorkerCount:   runtime.GOMAXPROCS(0),
		ChunkSize:     32,
		Timeout:       30 * time.Second,
		MaxRetries:    2,
		RetryInterval: 10 * time.Millisecond,
	}
}

// Validate checks that the configuration can schedule work.
func (c Config) Validate() error {
	switch {
	case c.WorkerCount < 1:
		return fmt.Errorf("worker_count %d must be at least 1: %w", c.WorkerCount, ErrInvalidConfig)
	case c.ChunkSize < 1:
		return fmt.Errorf("chunk_size %d must be at least 1: %w", c.ChunkSize, ErrInvalidConfig)
	case c.Timeout <= 0:
		return fmt.Errorf("timeout %v must be positive: %w", c.Timeout, ErrInvalidConfig)
	case c.MaxRetries < 0:
		return fmt.Errorf("max_retries %d must not be negative: %w", c.MaxRetries, ErrInvalidConfig)
	case c.RetryInterval < 0:
		return fmt.Errorf("retry_interval %v must not be negative: %w", c.RetryInterval, ErrInvalidConfig)
	}
	return nil
}
