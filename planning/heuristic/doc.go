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

// Package heuristic scores candidate assignments against a planning snapshot.
//
// An Evaluator is compiled from a model.Snapshot and is bound to its version: once the
// registries change, Evaluate fails with ErrStaleEvaluator and the caller must compile again.
// Violation magnitudes come from model.Violation, the same function the LP translator derives
// its deviation columns from, so a point optimal for the translated model scores feasible here.
package heuristic
