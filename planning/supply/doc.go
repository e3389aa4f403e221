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

// Package supply builds multi-period supply planning instances.
//
// A Scenario, usually read from YAML, lists products with their demand, lead time, lot and
// inventory rules and costs, a shared capacity with overtime, substitutions between products
// and raw materials with a per-period supply. Build turns it into a model.Registry of
// constraints plus a cost objective. Extract maps a solution back to plan rows and Compare
// runs several scenarios side by side.
package supply
