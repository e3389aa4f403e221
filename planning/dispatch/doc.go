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

// Package dispatch scores populations of candidates across parallel workers.
//
// A Coordinator splits a population into chunks, hands each chunk to a Worker under a
// deadline and reassembles the results by index, so the output is aligned with the input
// whatever the completion order. Failed chunks are retried with exponential backoff; chunks
// that keep failing are reported per candidate with ErrWorkerFailure.
package dispatch
