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
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// PlanRow is the plan of one product in one period.
type PlanRow struct {
	Product    string  `yaml:"product"`
	Period     int     `yaml:"period"`
	Demand     float64 `yaml:"demand"`
	Production float64 `yaml:"production"`
	Setup      bool    `yaml:"setup"`
	Inventory  float64 `yaml:"inventory"`
	Backlog    float64 `yaml:"backlog"`
	// SubstitutedIn is the demand of the product covered by other products.
	SubstitutedIn float64 `yaml:"substituted_in"`
	// SubstitutedOut is the quantity of the product used for the demand of others.
	SubstitutedOut float64 `yaml:"substituted_out"`
	// Overtime is the overtime of the period, shared by all products.
	Overtime float64 `yaml:"overtime"`
}

// Extract turns an assignment over the scenario variables into plan rows, ordered by
// product then period. Every scenario variable must have a value.
func Extract(s *Scenario, values map[string]float64) ([]PlanRow, error) {
	var missing []string
	get := func(name string) float64 {
		v, ok := values[name]
		if !ok {
			missing = append(missing, name)
		}
		return v
	}
	rows := make([]PlanRow, 0, len(s.Products)*s.Periods)
	for _, p := range s.Products {
		for t := range s.Periods {
			r := PlanRow{
				Product:    p.Name,
				Period:     t,
				Demand:     p.Demand[t],
				Production: get(ProductionVar(p.Name, t)),
				Setup:      get(SetupVar(p.Name, t)) > 0.5,
				Inventory:  get(InventoryVar(p.Name, t)),
				Backlog:    get(BacklogVar(p.Name, t)),
				Overtime:   get(OvertimeVar(t)),
			}
			for _, sub := range s.Substitutions {
				switch p.Name {
				case sub.To:
					r.SubstitutedIn += get(SubstituteVar(sub.From, sub.To, t))
				case sub.From:
					r.SubstitutedOut += get(SubstituteVar(sub.From, sub.To, t))
				}
			}
			rows = append(rows, r)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		missing = slices.Compact(missing)
		return nil, fmt.Errorf("no value for %s", strings.Join(missing, ", "))
	}
	return rows, nil
}

// ParsePlan decodes a YAML mapping from variable name to value.
func ParsePlan(r io.Reader) (map[string]float64, error) {
	plan := make(map[string]float64)
	if err := yaml.NewDecoder(r).Decode(&plan); err != nil {
		return nil, fmt.Errorf("decoding plan: %w", err)
	}
	return plan, nil
}

// LoadPlan reads and parses the YAML plan at `path`.
func LoadPlan(path string) (map[string]float64, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	plan, err := ParsePlan(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return plan, nil
}

// WritePlan encodes an assignment as a YAML mapping with sorted keys, the format read by
// ParsePlan.
func WritePlan(w io.Writer, values map[string]float64) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(values); err != nil {
		return fmt.Errorf("encoding plan: %w", err)
	}
	return enc.Close()
}
