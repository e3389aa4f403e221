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

// Package lp translates planning snapshots into solver-ready linear programs.
//
// Translate is a pure function of a model.Snapshot and a model.Objective. Hard constraints
// become ranged rows. Soft constraints are linearized with one non-negative deviation column
// per violation side, charged at their weight in the objective. The package never solves:
// Solve hands the model to an external Solver and maps the answer back to decision variables,
// and WriteLP and Marshal export it for tools and remote endpoints.
package lp
