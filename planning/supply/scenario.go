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

package supply

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/supplyplanning/constraintcore/planning/dispatch"
	"github.com/supplyplanning/constraintcore/planning/heuristic"
)

// ErrInvalidScenario is returned for scenarios that do not describe a planning instance.
var ErrInvalidScenario = errors.New("supply: invalid scenario")

// Scenario is the planning data of a multi-period, multi-product supply plan.
type Scenario struct {
	Name string `yaml:"name"`
	// Periods is the number of planning periods, numbered from 0.
	Periods  int       `yaml:"periods"`
	Products []Product `yaml:"products"`
	Capacity Capacity  `yaml:"capacity"`
	// Substitutions allow a product to cover part of the demand of another one.
	Substitutions []Substitution `yaml:"substitutions"`
	// Materials are raw materials with a per-period supply consumed by production.
	Materials []Material `yaml:"materials"`
	// BigM bounds the production of a period with a setup. When zero it is derived per product
	// from the capacity, or from the minimum lots for products using no capacity.
	BigM float64 `yaml:"big_m"`

	Evaluation Evaluation        `yaml:"evaluation"`
	Dispatch   DispatchOverrides `yaml:"dispatch"`
}

// Product holds the data of one product.
type Product struct {
	Name string `yaml:"name"`
	// Demand has one entry per period.
	Demand           []float64 `yaml:"demand"`
	InitialInventory float64   `yaml:"initial_inventory"`
	// LeadTime is the number of periods between the start of production and its
	// availability.
	LeadTime int `yaml:"lead_time"`
	// ProductionTime is the capacity used per unit produced.
	ProductionTime float64 `yaml:"production_time"`
	// SetupTime is the capacity used by a setup.
	SetupTime float64 `yaml:"setup_time"`
	// MinLot is the minimum quantity produced in a period with a setup.
	MinLot float64 `yaml:"min_lot"`
	// MaxInventory bounds the end-of-period inventory. Nil means unbounded.
	MaxInventory *float64 `yaml:"max_inventory"`
	// SafetyStock is the end-of-period inventory target, penalized at SafetyStockWeight per
	// missing unit.
	SafetyStock       float64 `yaml:"safety_stock"`
	SafetyStockWeight float64 `yaml:"safety_stock_weight"`
	Costs             Costs   `yaml:"costs"`
}

// Costs are the per-unit costs of a product.
type Costs struct {
	Production float64 `yaml:"production"`
	Setup      float64 `yaml:"setup"`
	Holding    float64 `yaml:"holding"`
	Backlog    float64 `yaml:"backlog"`
}

// Capacity is the shared production capacity of every period.
type Capacity struct {
	Regular      float64 `yaml:"regular"`
	MaxOvertime  float64 `yaml:"max_overtime"`
	OvertimeCost float64 `yaml:"overtime_cost"`
}

// Substitution lets product From cover up to Share of the demand of product To.
type Substitution struct {
	From  string  `yaml:"from"`
	To    string  `yaml:"to"`
	Share float64 `yaml:"share"`
	Cost  float64 `yaml:"cost"`
}

// Material is a raw material available up to Capacity per period. Requirements maps a
// product to the quantity of material used per unit produced.
type Material struct {
	Name         string             `yaml:"name"`
	Capacity     float64            `yaml:"capacity"`
	Requirements map[string]float64 `yaml:"requirements"`
}

// Evaluation configures the heuristic evaluator of the scenario.
type Evaluation struct {
	// Tolerance overrides heuristic.DefaultTolerance when set.
	Tolerance *float64 `yaml:"tolerance"`
}

// DispatchOverrides replaces the fields of dispatch.DefaultConfig that are set.
type DispatchOverrides struct {
	WorkerCount   int           `yaml:"worker_count"`
	ChunkSize     int           `yaml:"chunk_size"`
	Timeout       time.Duration `yaml:"timeout"`
	MaxRetries    *int          `yaml:"max_retries"`
	RetryInterval time.Duration `yaml:"retry_interval"`
}

// Parse decodes a YAML scenario and validates it. Unknown fields are rejected.
func Parse(r io.Reader) (*Scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	s := &Scenario{}
	if err := dec.Decode(s); err != nil {
		return nil, fmt.Errorf("decoding scenario: %v: %w", err, ErrInvalidScenario)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load reads and parses the YAML scenario at `path`.
func Load(path string) (*Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Validate checks the consistency of the scenario data.
func (s *Scenario) Validate() error {
	if s.Periods < 1 {
		return fmt.Errorf("scenario has %d periods: %w", s.Periods, ErrInvalidScenario)
	}
	if len(s.Products) == 0 {
		return fmt.Errorf("scenario has no product: %w", ErrInvalidScenario)
	}
	seen := make(map[string]bool, len(s.Products))
	for _, p := range s.Products {
		if err := p.validate(s.Periods); err != nil {
			return err
		}
		if seen[p.Name] {
			return fmt.Errorf("product %q is declared twice: %w", p.Name, ErrInvalidScenario)
		}
		seen[p.Name] = true
	}
	if err := nonNegative("capacity", s.Capacity.Regular, s.Capacity.MaxOvertime, s.Capacity.OvertimeCost); err != nil {
		return err
	}
	pairs := make(map[[2]string]bool, len(s.Substitutions))
	for _, sub := range s.Substitutions {
		switch {
		case !seen[sub.From] || !seen[sub.To]:
			return fmt.Errorf("substitution %s->%s references an unknown product: %w", sub.From, sub.To, ErrInvalidScenario)
		case sub.From == sub.To:
			return fmt.Errorf("product %q substitutes itself: %w", sub.From, ErrInvalidScenario)
		case pairs[[2]string{sub.From, sub.To}]:
			return fmt.Errorf("substitution %s->%s is declared twice: %w", sub.From, sub.To, ErrInvalidScenario)
		case !(sub.Share >= 0 && sub.Share <= 1):
			return fmt.Errorf("substitution %s->%s has share %g outside [0,1]: %w", sub.From, sub.To, sub.Share, ErrInvalidScenario)
		}
		if err := nonNegative("substitution "+sub.From+"->"+sub.To, sub.Cost); err != nil {
			return err
		}
		pairs[[2]string{sub.From, sub.To}] = true
	}
	materials := make(map[string]bool, len(s.Materials))
	for _, m := range s.Materials {
		if err := m.validate(seen); err != nil {
			return err
		}
		if materials[m.Name] {
			return fmt.Errorf("material %q is declared twice: %w", m.Name, ErrInvalidScenario)
		}
		materials[m.Name] = true
	}
	if err := nonNegative("big_m", s.BigM); err != nil {
		return err
	}
	for _, p := range s.Products {
		if s.bigM(p) <= 0 {
			return fmt.Errorf("product %q: big_m cannot be derived from capacity or minimum lots and must be set: %w", p.Name, ErrInvalidScenario)
		}
	}
	if t := s.Evaluation.Tolerance; t != nil {
		if err := nonNegative("evaluation tolerance", *t); err != nil {
			return err
		}
	}
	if err := s.DispatchConfig().Validate(); err != nil {
		return fmt.Errorf("%v: %w", err, ErrInvalidScenario)
	}
	return nil
}

func (p Product) validate(periods int) error {
	if p.Name == "" {
		return fmt.Errorf("product without name: %w", ErrInvalidScenario)
	}
	if len(p.Demand) != periods {
		return fmt.Errorf("product %q has %d demand entries for %d periods: %w", p.Name, len(p.Demand), periods, ErrInvalidScenario)
	}
	if p.LeadTime < 0 {
		return fmt.Errorf("product %q has negative lead time %d: %w", p.Name, p.LeadTime, ErrInvalidScenario)
	}
	vals := append([]float64{p.InitialInventory, p.ProductionTime, p.SetupTime, p.MinLot, p.SafetyStock, p.SafetyStockWeight,
		p.Costs.Production, p.Costs.Setup, p.Costs.Holding, p.Costs.Backlog}, p.Demand...)
	if p.MaxInventory != nil {
		vals = append(vals, *p.MaxInventory)
	}
	if err := nonNegative("product "+p.Name, vals...); err != nil {
		return err
	}
	if p.SafetyStock > 0 && p.SafetyStockWeight == 0 {
		return fmt.Errorf("product %q has a safety stock without weight: %w", p.Name, ErrInvalidScenario)
	}
	return nil
}

func (m Material) validate(products map[string]bool) error {
	if m.Name == "" {
		return fmt.Errorf("material without name: %w", ErrInvalidScenario)
	}
	if err := nonNegative("material "+m.Name, m.Capacity); err != nil {
		return err
	}
	used := false
	for p, q := range m.Requirements {
		if !products[p] {
			return fmt.Errorf("material %q is required by unknown product %q: %w", m.Name, p, ErrInvalidScenario)
		}
		if err := nonNegative("material "+m.Name+" for "+p, q); err != nil {
			return err
		}
		used = used || q > 0
	}
	if !used {
		return fmt.Errorf("material %q is not required by any product: %w", m.Name, ErrInvalidScenario)
	}
	return nil
}

func nonNegative(what string, vals ...float64) error {
	for _, v := range vals {
		if !(v >= 0) || math.IsInf(v, 1) {
			return fmt.Errorf("%s: %g is not a finite non-negative number: %w", what, v, ErrInvalidScenario)
		}
	}
	return nil
}

// bigM returns the setup linking constant of product `p`: the override if set, else the
// most `p` can produce with the whole capacity, else twice the minimum lots of the horizon.
func (s *Scenario) bigM(p Product) float64 {
	if s.BigM > 0 {
		return s.BigM
	}
	if capacity := s.Capacity.Regular + s.Capacity.MaxOvertime; p.ProductionTime > 0 && capacity > 0 {
		return capacity / p.ProductionTime
	}
	var lots float64
	for _, q := range s.Products {
		lots += q.MinLot
	}
	return 2 * float64(s.Periods) * lots
}

// Product returns the product `name`.
func (s *Scenario) Product(name string) (Product, bool) {
	for _, p := range s.Products {
		if p.Name == name {
			return p, true
		}
	}
	return Product{}, false
}

// EvaluatorOptions returns the heuristic options configured by the scenario.
func (s *Scenario) EvaluatorOptions() []heuristic.Option {
	if t := s.Evaluation.Tolerance; t != nil {
		return []heuristic.Option{heuristic.WithTolerance(*t)}
	}
	return nil
}

// DispatchConfig returns dispatch.DefaultConfig with the scenario overrides applied.
func (s *Scenario) DispatchConfig() dispatch.Config {
	cfg := dispatch.DefaultConfig()
	o := s.Dispatch
	if o.WorkerCount != 0 {
		cfg.WorkerCount = o.WorkerCount
	}
	if o.ChunkSize != 0 {
		cfg.ChunkSize = o.ChunkSize
	}
	if o.Timeout != 0 {
		cfg.Timeout = o.Timeout
	}
	if o.MaxRetries != nil {
		cfg.MaxRetries = *o.MaxRetries
	}
	if o.RetryInterval != 0 {
		cfg.RetryInterval = o.RetryInterval
	}
	return cfg
}
