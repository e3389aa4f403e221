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

package model

import (
	"fmt"
	"slices"
	"sync/atomic"

	log "github.com/golang/glog"
)

// Registry holds the active constraints of a planning instance, keyed by unique name and
// iterated in insertion order. Every successful Add, Replace or Remove increments the version.
//
// A Registry is mutated by a single setup goroutine. Consumers work on Snapshots.
type Registry struct {
	vars    *Variables
	order   []string
	specs   map[string]ConstraintSpec
	version atomic.Uint64

	cached *Snapshot
}

// NewRegistry creates an empty constraint registry validating against `vars`.
func NewRegistry(vars *Variables) *Registry {
	return &Registry{vars: vars, specs: make(map[string]ConstraintSpec)}
}

// Variables returns the variable registry the constraints are validated against.
func (r *Registry) Variables() *Variables {
	return r.vars
}

// Add registers a new constraint. The spec is copied; later changes to the caller's
// expression do not affect the registry.
func (r *Registry) Add(spec ConstraintSpec) error {
	if _, ok := r.specs[spec.Name]; ok {
		return fmt.Errorf("adding constraint %q: %w", spec.Name, ErrDuplicateConstraint)
	}
	spec = spec.clone()
	if err := spec.validate(r.vars); err != nil {
		return fmt.Errorf("adding constraint: %w", err)
	}
	r.order = append(r.order, spec.Name)
	r.specs[spec.Name] = spec
	r.bump()
	log.V(2).Infof("registered constraint %v", spec)
	return nil
}

// AddAll registers the constraints in order and stops at the first error. Constraints added
// before the failing one stay registered.
func (r *Registry) AddAll(specs ...ConstraintSpec) error {
	for _, s := range specs {
		if err := r.Add(s); err != nil {
			return err
		}
	}
	return nil
}

// Replace swaps the body of the constraint `name` for `spec`, keeping its position. An empty
// spec name is taken to be `name`.
func (r *Registry) Replace(name string, spec ConstraintSpec) error {
	if _, ok := r.specs[name]; !ok {
		return fmt.Errorf("replacing constraint %q: %w", name, ErrUnknownConstraint)
	}
	if spec.Name == "" {
		spec.Name = name
	}
	if spec.Name != name {
		return fmt.Errorf("replacing constraint %q with a spec named %q: %w", name, spec.Name, ErrInvalidConstraintConfig)
	}
	spec = spec.clone()
	if err := spec.validate(r.vars); err != nil {
		return fmt.Errorf("replacing constraint: %w", err)
	}
	r.specs[name] = spec
	r.bump()
	return nil
}

// Remove unregisters the constraint `name`.
func (r *Registry) Remove(name string) error {
	if _, ok := r.specs[name]; !ok {
		return fmt.Errorf("removing constraint %q: %w", name, ErrUnknownConstraint)
	}
	delete(r.specs, name)
	r.order = slices.DeleteFunc(r.order, func(n string) bool { return n == name })
	r.bump()
	return nil
}

// Get returns a copy of the constraint `name`.
func (r *Registry) Get(name string) (ConstraintSpec, error) {
	spec, ok := r.specs[name]
	if !ok {
		return ConstraintSpec{}, fmt.Errorf("constraint %q: %w", name, ErrUnknownConstraint)
	}
	return spec.clone(), nil
}

// Len returns the number of registered constraints.
func (r *Registry) Len() int {
	return len(r.order)
}

// Version returns the number of successful mutations since creation.
func (r *Registry) Version() uint64 {
	return r.version.Load()
}

func (r *Registry) bump() {
	r.version.Add(1)
	r.cached = nil
}

// Snapshot returns an immutable view of the registry and its variables, tagged with the
// current version. Calls without intervening mutation return the same view.
func (r *Registry) Snapshot() *Snapshot {
	if s := r.cached; s != nil && s.varRevision == r.vars.Revision() {
		return s
	}
	s := &Snapshot{
		version:     r.Version(),
		varRevision: r.vars.Revision(),
		vars:        r.vars.All(),
		varIndex:    make(map[string]int, r.vars.Len()),
		specs:       make([]ConstraintSpec, 0, len(r.order)),
		specIndex:   make(map[string]int, len(r.order)),
		source:      r,
	}
	for i, v := range s.vars {
		s.varIndex[v.name] = i
	}
	for _, name := range r.order {
		s.specIndex[name] = len(s.specs)
		s.specs = append(s.specs, r.specs[name].clone())
	}
	r.cached = s
	return s
}

// Snapshot is an immutable, ordered view of a constraint registry and its variables at one
// version. It is safe for concurrent use.
type Snapshot struct {
	version     uint64
	varRevision uint64
	vars        []Variable
	varIndex    map[string]int
	specs       []ConstraintSpec
	specIndex   map[string]int
	source      *Registry
}

// Version returns the constraint registry version the snapshot was taken at.
func (s *Snapshot) Version() uint64 {
	return s.version
}

// VarRevision returns the variable registry revision the snapshot was taken at.
func (s *Snapshot) VarRevision() uint64 {
	return s.varRevision
}

// IsStale reports whether the source registry or its variables changed since the snapshot.
func (s *Snapshot) IsStale() bool {
	return s.source.Version() != s.version || s.source.vars.Revision() != s.varRevision
}

// Len returns the number of constraints.
func (s *Snapshot) Len() int {
	return len(s.specs)
}

// Constraints returns copies of the constraints in registration order.
func (s *Snapshot) Constraints() []ConstraintSpec {
	out := make([]ConstraintSpec, len(s.specs))
	for i, c := range s.specs {
		out[i] = c.clone()
	}
	return out
}

// Constraint returns a copy of the constraint `name`.
func (s *Snapshot) Constraint(name string) (ConstraintSpec, bool) {
	i, ok := s.specIndex[name]
	if !ok {
		return ConstraintSpec{}, false
	}
	return s.specs[i].clone(), true
}

// Variables returns the variables in declaration order, with the bounds they had when the
// snapshot was taken.
func (s *Snapshot) Variables() []Variable {
	out := make([]Variable, len(s.vars))
	copy(out, s.vars)
	return out
}

// Variable returns the variable `name`.
func (s *Snapshot) Variable(name string) (Variable, bool) {
	i, ok := s.varIndex[name]
	if !ok {
		return Variable{}, false
	}
	return s.vars[i], true
}
