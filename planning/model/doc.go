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

// Package model describes planning instances independently of how they are consumed.
//
// A `Variables` registry declares the decision variables. A `Registry` holds the
// `ConstraintSpec`s of the instance, each a linear expression compared to a constant, either
// hard or soft. Consumers never read the registries directly: they take a `Snapshot`, an
// immutable view tagged with the registry version, and hand it to the LP translator or to the
// heuristic evaluator compiler. Both consumers derive violation from `Operator.Sides` so that
// they agree on what a violated constraint is.
package model
