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
	"fmt"
	"strconv"

	log "github.com/golang/glog"
	"github.com/supplyplanning/constraintcore/planning/model"
)

// ProductionVar names the quantity of product p started in period t.
func ProductionVar(p string, t int) string { return indexed("production", p, t) }

// SetupVar names the binary setup of product p in period t.
func SetupVar(p string, t int) string { return indexed("setup", p, t) }

// InventoryVar names the end-of-period inventory of product p in period t.
func InventoryVar(p string, t int) string { return indexed("inventory", p, t) }

// BacklogVar names the unmet cumulative demand of product p at the end of period t.
func BacklogVar(p string, t int) string { return indexed("backlog", p, t) }

// OvertimeVar names the overtime capacity used in period t.
func OvertimeVar(t int) string { return "overtime(" + strconv.Itoa(t) + ")" }

// SubstituteVar names the units of product from used for the demand of product to in period t.
func SubstituteVar(from, to string, t int) string {
	return "substitute(" + from + "," + to + "," + strconv.Itoa(t) + ")"
}

func indexed(family, p string, t int) string {
	return family + "(" + p + "," + strconv.Itoa(t) + ")"
}

// Instance is a scenario built into registries, ready to be snapshotted.
type Instance struct {
	Scenario  *Scenario
	Variables *model.Variables
	Registry  *model.Registry
	Objective model.Objective
}

// Build declares the variables of the scenario, registers its constraint families and
// returns the cost objective.
func Build(s *Scenario) (*Instance, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	b := &builder{s: s, vars: model.NewVariables()}
	b.reg = model.NewRegistry(b.vars)
	b.declare()
	b.demandBalance()
	b.capacity()
	b.setupLinking()
	b.inventoryLimits()
	b.substitutionCaps()
	b.materialLimits()
	if b.err != nil {
		return nil, fmt.Errorf("building scenario %q: %w", s.Name, b.err)
	}
	in := &Instance{Scenario: s, Variables: b.vars, Registry: b.reg, Objective: b.objective()}
	log.V(1).Infof("built scenario %q: %d variables, %d constraints", s.Name, b.vars.Len(), b.reg.Len())
	return in, nil
}

// builder records the first error and ignores later calls.
type builder struct {
	s    *Scenario
	vars *model.Variables
	reg  *model.Registry
	err  error
}

func (b *builder) declareVar(name string, kind model.Kind) {
	if b.err != nil {
		return
	}
	if kind == model.Binary {
		_, b.err = b.vars.DeclareBinary(name)
		return
	}
	_, b.err = b.vars.DeclareNonNegative(name)
}

func (b *builder) add(spec model.ConstraintSpec, cat model.Category, scope, desc string) {
	if b.err != nil {
		return
	}
	spec = spec.WithCategory(cat, scope)
	spec.Description = desc
	b.err = b.reg.Add(spec)
}

func (b *builder) declare() {
	for _, p := range b.s.Products {
		for t := range b.s.Periods {
			b.declareVar(ProductionVar(p.Name, t), model.Continuous)
			b.declareVar(SetupVar(p.Name, t), model.Binary)
			b.declareVar(InventoryVar(p.Name, t), model.Continuous)
			b.declareVar(BacklogVar(p.Name, t), model.Continuous)
		}
	}
	for t := range b.s.Periods {
		b.declareVar(OvertimeVar(t), model.Continuous)
	}
	for _, sub := range b.s.Substitutions {
		for t := range b.s.Periods {
			b.declareVar(SubstituteVar(sub.From, sub.To, t), model.Continuous)
		}
	}
}

// demandBalance registers, per product and period,
//
//	inv[t-1] + prod[t-L] + sum sub[s,p,t] - sum sub[p,q,t] - inv[t] + backlog[t] - backlog[t-1] = demand[t]
//
// where inv[-1] is the initial inventory, backlog[-1] is 0 and production started before
// period 0 is not modelled.
func (b *builder) demandBalance() {
	for _, p := range b.s.Products {
		for t := range b.s.Periods {
			e := model.NewLinearExpr()
			if t == 0 {
				e.AddConstant(p.InitialInventory)
			} else {
				e.Add(model.VarRef(InventoryVar(p.Name, t-1)))
			}
			if start := t - p.LeadTime; start >= 0 {
				e.Add(model.VarRef(ProductionVar(p.Name, start)))
			}
			for _, sub := range b.s.Substitutions {
				switch p.Name {
				case sub.To:
					e.Add(model.VarRef(SubstituteVar(sub.From, sub.To, t)))
				case sub.From:
					e.AddTerm(model.VarRef(SubstituteVar(sub.From, sub.To, t)), -1)
				}
			}
			e.AddTerm(model.VarRef(InventoryVar(p.Name, t)), -1)
			e.Add(model.VarRef(BacklogVar(p.Name, t)))
			if t > 0 {
				e.AddTerm(model.VarRef(BacklogVar(p.Name, t-1)), -1)
			}
			b.add(model.NewHard(indexed("demand", p.Name, t), e, model.Equal, p.Demand[t]),
				model.CategoryDemand, p.Name, "inventory flow balance against demand")
		}
	}
}

// capacity registers the shared capacity with overtime and the overtime limit of every
// period. Production that has not arrived yet still uses capacity in its start period.
func (b *builder) capacity() {
	for t := range b.s.Periods {
		e := model.NewLinearExpr()
		for _, p := range b.s.Products {
			if p.ProductionTime != 0 {
				e.AddTerm(model.VarRef(ProductionVar(p.Name, t)), p.ProductionTime)
			}
			if p.SetupTime != 0 {
				e.AddTerm(model.VarRef(SetupVar(p.Name, t)), p.SetupTime)
			}
		}
		e.AddTerm(model.VarRef(OvertimeVar(t)), -1)
		scope := "period " + strconv.Itoa(t)
		b.add(model.NewHard("capacity("+strconv.Itoa(t)+")", e, model.LessOrEqual, b.s.Capacity.Regular),
			model.CategoryCapacity, scope, "production and setup time within regular capacity plus overtime")
		b.add(model.NewHard("overtime_limit("+strconv.Itoa(t)+")", model.VarRef(OvertimeVar(t)), model.LessOrEqual, b.s.Capacity.MaxOvertime),
			model.CategoryCapacity, scope, "overtime limit")
	}
}

// setupLinking registers the minimum lot and the big-M setup link of every product and
// period: production happens only with a setup, and then at least the minimum lot.
func (b *builder) setupLinking() {
	for _, p := range b.s.Products {
		m := b.s.bigM(p)
		for t := range b.s.Periods {
			prod, setup := model.VarRef(ProductionVar(p.Name, t)), model.VarRef(SetupVar(p.Name, t))
			if p.MinLot > 0 {
				b.add(model.NewHard(indexed("min_lot", p.Name, t), model.NewLinearExpr().Add(prod).AddTerm(setup, -p.MinLot), model.GreaterOrEqual, 0),
					model.CategoryAllocation, p.Name, "minimum lot when set up")
			}
			b.add(model.NewHard(indexed("setup_link", p.Name, t), model.NewLinearExpr().Add(prod).AddTerm(setup, -m), model.LessOrEqual, 0),
				model.CategoryAllocation, p.Name, "production requires a setup")
		}
	}
}

// inventoryLimits registers the maximum inventory (hard) and the safety stock (soft) of every
// product and period.
func (b *builder) inventoryLimits() {
	for _, p := range b.s.Products {
		for t := range b.s.Periods {
			inv := model.VarRef(InventoryVar(p.Name, t))
			if p.MaxInventory != nil {
				b.add(model.NewHard(indexed("max_inventory", p.Name, t), inv, model.LessOrEqual, *p.MaxInventory),
					model.CategoryInventory, p.Name, "maximum inventory")
			}
			if p.SafetyStock > 0 {
				b.add(model.NewSoft(indexed("safety_stock", p.Name, t), inv, model.GreaterOrEqual, p.SafetyStock, p.SafetyStockWeight),
					model.CategoryInventory, p.Name, "safety stock target")
			}
		}
	}
}

// substitutionCaps bounds every substitution by its share of the demand it covers.
func (b *builder) substitutionCaps() {
	for _, sub := range b.s.Substitutions {
		to, _ := b.s.Product(sub.To)
		for t := range b.s.Periods {
			name := "substitution(" + sub.From + "," + sub.To + "," + strconv.Itoa(t) + ")"
			b.add(model.NewHard(name, model.VarRef(SubstituteVar(sub.From, sub.To, t)), model.LessOrEqual, sub.Share*to.Demand[t]),
				model.CategorySubstitution, sub.From+"->"+sub.To, "substitution allocation cap")
		}
	}
}

// materialLimits bounds the material used by the production of every period by the
// material capacity.
func (b *builder) materialLimits() {
	for _, m := range b.s.Materials {
		for t := range b.s.Periods {
			e := model.NewLinearExpr()
			for _, p := range b.s.Products {
				if q := m.Requirements[p.Name]; q != 0 {
					e.AddTerm(model.VarRef(ProductionVar(p.Name, t)), q)
				}
			}
			b.add(model.NewHard(indexed("material", m.Name, t), e, model.LessOrEqual, m.Capacity),
				model.CategoryCapacity, m.Name, "material requirements within material capacity")
		}
	}
}

// objective returns the total cost of production, setups, holding, backlog, overtime and
// substitution.
func (b *builder) objective() model.Objective {
	e := model.NewLinearExpr()
	for _, p := range b.s.Products {
		for t := range b.s.Periods {
			addCost(e, ProductionVar(p.Name, t), p.Costs.Production)
			addCost(e, SetupVar(p.Name, t), p.Costs.Setup)
			addCost(e, InventoryVar(p.Name, t), p.Costs.Holding)
			addCost(e, BacklogVar(p.Name, t), p.Costs.Backlog)
		}
	}
	for t := range b.s.Periods {
		addCost(e, OvertimeVar(t), b.s.Capacity.OvertimeCost)
	}
	for _, sub := range b.s.Substitutions {
		for t := range b.s.Periods {
			addCost(e, SubstituteVar(sub.From, sub.To, t), sub.Cost)
		}
	}
	return model.NewMinimize(e)
}

func addCost(e *model.LinearExpr, name string, cost float64) {
	if cost != 0 {
		e.AddTerm(model.VarRef(name), cost)
	}
}
