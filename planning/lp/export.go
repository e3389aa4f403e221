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

package lp

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/supplyplanning/constraintcore/planning/model"
)

// WriteLP writes the model in CPLEX LP text format. Column and row names are written as is;
// callers exporting to third-party tools must use names that format accepts.
func (m *Model) WriteLP(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "\\ Model %s (snapshot v%d.%d)\n", m.Name, m.Version, m.VarRevision)
	if m.Objective.Maximize {
		bw.WriteString("Maximize\n")
	} else {
		bw.WriteString("Minimize\n")
	}
	fmt.Fprintf(bw, " obj: %s\n", m.linearText(m.Objective.Terms, m.Objective.Offset))

	bw.WriteString("Subject To\n")
	for _, r := range m.Rows {
		lhs := m.linearText(r.Terms, 0)
		switch {
		case r.IsEquality():
			fmt.Fprintf(bw, " %s: %s = %s\n", r.Name, lhs, number(r.Upper))
		case math.IsInf(r.Lower, -1) && !math.IsInf(r.Upper, 1):
			fmt.Fprintf(bw, " %s: %s <= %s\n", r.Name, lhs, number(r.Upper))
		case math.IsInf(r.Upper, 1) && !math.IsInf(r.Lower, -1):
			fmt.Fprintf(bw, " %s: %s >= %s\n", r.Name, lhs, number(r.Lower))
		case !math.IsInf(r.Lower, -1):
			fmt.Fprintf(bw, " %s_lo: %s >= %s\n", r.Name, lhs, number(r.Lower))
			fmt.Fprintf(bw, " %s_hi: %s <= %s\n", r.Name, lhs, number(r.Upper))
		}
	}

	bw.WriteString("Bounds\n")
	var generals, binaries []string
	for _, c := range m.Columns {
		switch c.Kind {
		case model.Integer:
			generals = append(generals, c.Name)
		case model.Binary:
			binaries = append(binaries, c.Name)
		}
		switch {
		case math.IsInf(c.Lower, -1) && math.IsInf(c.Upper, 1):
			fmt.Fprintf(bw, " %s free\n", c.Name)
		case c.Lower == c.Upper:
			fmt.Fprintf(bw, " %s = %s\n", c.Name, number(c.Lower))
		case math.IsInf(c.Upper, 1):
			fmt.Fprintf(bw, " %s >= %s\n", c.Name, number(c.Lower))
		default:
			fmt.Fprintf(bw, " %s <= %s <= %s\n", number(c.Lower), c.Name, number(c.Upper))
		}
	}
	if len(generals) > 0 {
		fmt.Fprintf(bw, "Generals\n %s\n", strings.Join(generals, " "))
	}
	if len(binaries) > 0 {
		fmt.Fprintf(bw, "Binaries\n %s\n", strings.Join(binaries, " "))
	}
	bw.WriteString("End\n")
	return bw.Flush()
}

func (m *Model) linearText(terms []Coefficient, offset float64) string {
	var sb strings.Builder
	for i, t := range terms {
		switch {
		case t.Value < 0:
			sb.WriteString("- ")
		case i > 0:
			sb.WriteString("+ ")
		}
		if c := math.Abs(t.Value); c != 1 {
			sb.WriteString(number(c))
			sb.WriteString(" ")
		}
		sb.WriteString(m.Columns[t.Column].Name)
		sb.WriteString(" ")
	}
	switch {
	case offset > 0 && len(terms) > 0:
		fmt.Fprintf(&sb, "+ %s", number(offset))
	case offset < 0:
		fmt.Fprintf(&sb, "- %s", number(-offset))
	case len(terms) == 0:
		sb.WriteString(number(offset))
	}
	return strings.TrimSpace(sb.String())
}

func number(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "+inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return fmt.Sprintf("%g", v)
}

// Proto encodes the model as a google.protobuf.Struct for solver endpoints. Infinite bounds
// are encoded as null.
func (m *Model) Proto() (*structpb.Struct, error) {
	cols := make([]any, len(m.Columns))
	for i, c := range m.Columns {
		col := map[string]any{
			"name":  c.Name,
			"kind":  c.Kind.String(),
			"lower": bound(c.Lower),
			"upper": bound(c.Upper),
		}
		if c.Deviation {
			col["deviation"] = map[string]any{"constraint": c.Constraint, "side": c.Side.String()}
		}
		cols[i] = col
	}
	rows := make([]any, len(m.Rows))
	for i, r := range m.Rows {
		vars, coeffs := sparse(r.Terms)
		rows[i] = map[string]any{
			"name":   r.Name,
			"lower":  bound(r.Lower),
			"upper":  bound(r.Upper),
			"vars":   vars,
			"coeffs": coeffs,
			"soft":   r.Soft,
		}
	}
	vars, coeffs := sparse(m.Objective.Terms)
	return structpb.NewStruct(map[string]any{
		"name":         m.Name,
		"version":      float64(m.Version),
		"var_revision": float64(m.VarRevision),
		"variables":    cols,
		"constraints":  rows,
		"objective": map[string]any{
			"maximize": m.Objective.Maximize,
			"offset":   m.Objective.Offset,
			"vars":     vars,
			"coeffs":   coeffs,
		},
	})
}

// Marshal returns the wire encoding of Proto.
func (m *Model) Marshal() ([]byte, error) {
	p, err := m.Proto()
	if err != nil {
		return nil, fmt.Errorf("encoding model %q: %w", m.Name, err)
	}
	b, err := proto.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshaling model %q: %w", m.Name, err)
	}
	return b, nil
}

// DecodeModel parses the wire encoding produced by Marshal. Solver endpoints use it on the
// receiving side.
func DecodeModel(b []byte) (*Model, error) {
	p := &structpb.Struct{}
	if err := proto.Unmarshal(b, p); err != nil {
		return nil, fmt.Errorf("unmarshaling model: %w", err)
	}
	f := p.GetFields()
	m := &Model{
		Name:        f["name"].GetStringValue(),
		Version:     uint64(f["version"].GetNumberValue()),
		VarRevision: uint64(f["var_revision"].GetNumberValue()),
	}
	for _, v := range f["variables"].GetListValue().GetValues() {
		cf := v.GetStructValue().GetFields()
		kind, err := parseKind(cf["kind"].GetStringValue())
		if err != nil {
			return nil, err
		}
		col := Column{
			Name:  cf["name"].GetStringValue(),
			Kind:  kind,
			Lower: unbound(cf["lower"], math.Inf(-1)),
			Upper: unbound(cf["upper"], math.Inf(1)),
		}
		if dev := cf["deviation"].GetStructValue(); dev != nil {
			col.Deviation = true
			col.Constraint = dev.GetFields()["constraint"].GetStringValue()
			col.Side = model.Excess
			if dev.GetFields()["side"].GetStringValue() == model.Shortfall.String() {
				col.Side = model.Shortfall
			}
		}
		m.Columns = append(m.Columns, col)
	}
	for _, v := range f["constraints"].GetListValue().GetValues() {
		rf := v.GetStructValue().GetFields()
		terms, err := dense(rf["vars"], rf["coeffs"], len(m.Columns))
		if err != nil {
			return nil, fmt.Errorf("row %q: %w", rf["name"].GetStringValue(), err)
		}
		m.Rows = append(m.Rows, Row{
			Name:  rf["name"].GetStringValue(),
			Lower: unbound(rf["lower"], math.Inf(-1)),
			Upper: unbound(rf["upper"], math.Inf(1)),
			Terms: terms,
			Soft:  rf["soft"].GetBoolValue(),
		})
	}
	of := f["objective"].GetStructValue().GetFields()
	terms, err := dense(of["vars"], of["coeffs"], len(m.Columns))
	if err != nil {
		return nil, fmt.Errorf("objective: %w", err)
	}
	m.Objective = Objective{Maximize: of["maximize"].GetBoolValue(), Offset: of["offset"].GetNumberValue(), Terms: terms}
	return m, nil
}

func bound(v float64) any {
	if math.IsInf(v, 0) {
		return nil
	}
	return v
}

func unbound(v *structpb.Value, inf float64) float64 {
	if _, ok := v.GetKind().(*structpb.Value_NumberValue); !ok {
		return inf
	}
	return v.GetNumberValue()
}

func sparse(terms []Coefficient) ([]any, []any) {
	vars := make([]any, len(terms))
	coeffs := make([]any, len(terms))
	for i, t := range terms {
		vars[i] = t.Column
		coeffs[i] = t.Value
	}
	return vars, coeffs
}

func dense(vars, coeffs *structpb.Value, numCols int) ([]Coefficient, error) {
	vs := vars.GetListValue().GetValues()
	cs := coeffs.GetListValue().GetValues()
	if len(vs) != len(cs) {
		return nil, fmt.Errorf("vars and coeffs must be the same length: %v != %v", len(vs), len(cs))
	}
	var out []Coefficient
	for i := range vs {
		col := int(vs[i].GetNumberValue())
		if col < 0 || col >= numCols {
			return nil, fmt.Errorf("column index %d out of range [0,%d)", col, numCols)
		}
		out = append(out, Coefficient{Column: col, Value: cs[i].GetNumberValue()})
	}
	return out, nil
}

func parseKind(s string) (model.Kind, error) {
	for _, k := range []model.Kind{model.Continuous, model.Integer, model.Binary} {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown variable kind %q", s)
}
