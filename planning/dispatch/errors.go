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

import "errors"

var (
	// ErrWorkerFailure is attached to the results of a chunk whose evaluation failed on every
	// attempt. It never aborts a population score.
	ErrWorkerFailure = errors.New("dispatch: worker failure")
	// ErrInvalidConfig is returned for a configuration that cannot schedule any work.
	ErrInvalidConfig = errors.New("dispatch: invalid config")
)
