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
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/supplyplanning/constraintcore/planning/dispatch"
)

func TestLoad(t *testing.T) {
	s, err := Load("testdata/two_products.yaml")
	if err != nil {
		t.Fatalf("Load() returned with unexpected error %v", err)
	}
	if s.Name != "two_products" || s.Periods != 4 || len(s.Products) != 2 || len(s.Substitutions) != 1 {
		t.Errorf("Load() returned scenario %q with %d periods, %d products, %d substitutions, want two_products with 4, 2, 1",
			s.Name, s.Periods, len(s.Products), len(s.Substitutions))
	}
	b, ok := s.Product("ProductB")
	if !ok {
		t.Fatalf("Product(ProductB) not found")
	}
	if b.LeadTime != 1 || *b.MaxInventory != 150 || b.Costs.Setup != 600 {
		t.Errorf("Product(ProductB) = %+v, want lead time 1, max inventory 150, setup cost 600", b)
	}

	want := dispatch.Config{WorkerCount: 4, ChunkSize: 16, Timeout: 5 * time.Second, MaxRetries: 1, RetryInterval: 10 * time.Millisecond}
	if diff := cmp.Diff(want, s.DispatchConfig()); diff != "" {
		t.Errorf("DispatchConfig() returned unexpected config (-want+got): %v", diff)
	}
	if got := len(s.EvaluatorOptions()); got != 1 {
		t.Errorf("EvaluatorOptions() returned %d options, want 1", got)
	}
}

func TestParse_UnknownField(t *testing.T) {
	const doc = `
periods: 1
products:
  - name: A
    demand: [1]
    colour: red
`
	if _, err := Parse(strings.NewReader(doc)); !errors.Is(err, ErrInvalidScenario) {
		t.Errorf("Parse() returned with error %v, want %v", err, ErrInvalidScenario)
	}
}

func validScenario() *Scenario {
	maxInv := 50.0
	return &Scenario{
		Name:     "valid",
		Periods:  2,
		Capacity: Capacity{Regular: 100, MaxOvertime: 10, OvertimeCost: 5},
		Products: []Product{
			{Name: "A", Demand: []float64{10, 20}, ProductionTime: 1, MinLot: 5, MaxInventory: &maxInv, Costs: Costs{Production: 1}},
			{Name: "B", Demand: []float64{5, 5}, ProductionTime: 2, Costs: Costs{Production: 2}},
		},
		Substitutions: []Substitution{{From: "A", To: "B", Share: 0.5}},
		Materials:     []Material{{Name: "M", Capacity: 40, Requirements: map[string]float64{"A": 2}}},
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Scenario)
	}{
		{name: "NoPeriods", mutate: func(s *Scenario) { s.Periods = 0 }},
		{name: "NoProducts", mutate: func(s *Scenario) { s.Products = nil }},
		{name: "UnnamedProduct", mutate: func(s *Scenario) { s.Products[0].Name = "" }},
		{name: "DuplicateProduct", mutate: func(s *Scenario) { s.Products[1].Name = "A" }},
		{name: "ShortDemand", mutate: func(s *Scenario) { s.Products[0].Demand = []float64{10} }},
		{name: "NegativeDemand", mutate: func(s *Scenario) { s.Products[0].Demand[1] = -1 }},
		{name: "NegativeLeadTime", mutate: func(s *Scenario) { s.Products[0].LeadTime = -1 }},
		{name: "UnweightedSafetyStock", mutate: func(s *Scenario) { s.Products[0].SafetyStock = 3 }},
		{name: "NegativeCapacity", mutate: func(s *Scenario) { s.Capacity.Regular = -1 }},
		{name: "UnknownSubstitute", mutate: func(s *Scenario) { s.Substitutions[0].From = "C" }},
		{name: "SelfSubstitution", mutate: func(s *Scenario) { s.Substitutions[0].To = "A" }},
		{name: "DuplicateSubstitution", mutate: func(s *Scenario) { s.Substitutions = append(s.Substitutions, s.Substitutions[0]) }},
		{name: "ShareAboveOne", mutate: func(s *Scenario) { s.Substitutions[0].Share = 1.5 }},
		{
			name: "NoBigM",
			mutate: func(s *Scenario) {
				s.Capacity = Capacity{}
				s.Products[0].MinLot = 0
			},
		},
		{name: "UnnamedMaterial", mutate: func(s *Scenario) { s.Materials[0].Name = "" }},
		{name: "DuplicateMaterial", mutate: func(s *Scenario) { s.Materials = append(s.Materials, s.Materials[0]) }},
		{name: "MaterialForUnknownProduct", mutate: func(s *Scenario) { s.Materials[0].Requirements["C"] = 1 }},
		{name: "NegativeRequirement", mutate: func(s *Scenario) { s.Materials[0].Requirements["B"] = -1 }},
		{name: "NegativeMaterialCapacity", mutate: func(s *Scenario) { s.Materials[0].Capacity = -1 }},
		{name: "UnusedMaterial", mutate: func(s *Scenario) { s.Materials[0].Requirements = map[string]float64{"A": 0} }},
		{name: "InvalidDispatch", mutate: func(s *Scenario) { s.Dispatch.ChunkSize = -1 }},
	}

	if err := validScenario().Validate(); err != nil {
		t.Fatalf("Validate() returned with unexpected error %v", err)
	}
	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			s := validScenario()
			test.mutate(s)
			if err := s.Validate(); !errors.Is(err, ErrInvalidScenario) {
				t.Errorf("Validate() returned with error %v, want %v", err, ErrInvalidScenario)
			}
		})
	}
}

func TestScenario_BigM(t *testing.T) {
	s := validScenario()
	if got, want := s.bigM(s.Products[1]), 55.0; got != want {
		t.Errorf("bigM(B) = %v, want capacity over production time %v", got, want)
	}
	s.Products[1].ProductionTime = 0
	if got, want := s.bigM(s.Products[1]), 20.0; got != want {
		t.Errorf("bigM(B) without production time = %v, want twice the lots of the horizon %v", got, want)
	}
	s.BigM = 1000
	if got := s.bigM(s.Products[0]); got != 1000 {
		t.Errorf("bigM(A) with override = %v, want 1000", got)
	}
}
