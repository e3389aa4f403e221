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

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/supplyplanning/constraintcore/planning/lp"
	"github.com/supplyplanning/constraintcore/planning/supply"
)

const scenarioFile = "../../planning/supply/testdata/two_products.yaml"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTranslate_LP(t *testing.T) {
	out, err := run(t, "translate", "-s", scenarioFile)
	if err != nil {
		t.Fatalf("translate returned with unexpected error %v", err)
	}
	for _, want := range []string{"\\ Model two_products", "Minimize", "Subject To", "Binaries", "End"} {
		if !strings.Contains(out, want) {
			t.Errorf("translate output does not contain %q:\n%s", want, out)
		}
	}
}

func TestTranslate_JSON(t *testing.T) {
	out, err := run(t, "translate", "-s", scenarioFile, "--format", "json")
	if err != nil {
		t.Fatalf("translate returned with unexpected error %v", err)
	}
	st := &structpb.Struct{}
	if err := protojson.Unmarshal([]byte(out), st); err != nil {
		t.Fatalf("protojson.Unmarshal() returned with unexpected error %v", err)
	}
	b, err := proto.Marshal(st)
	if err != nil {
		t.Fatalf("proto.Marshal() returned with unexpected error %v", err)
	}
	m, err := lp.DecodeModel(b)
	if err != nil {
		t.Fatalf("DecodeModel() returned with unexpected error %v", err)
	}
	if got, want := m.Name, "two_products"; got != want {
		t.Errorf("decoded model name = %q, want %q", got, want)
	}
}

func TestTranslate_Errors(t *testing.T) {
	testCases := []struct {
		name string
		args []string
	}{
		{name: "NoScenario", args: []string{"translate"}},
		{name: "MissingFile", args: []string{"translate", "-s", "does_not_exist.yaml"}},
		{name: "UnknownFormat", args: []string{"translate", "-s", scenarioFile, "--format", "mps"}},
		{name: "SoftRejected", args: []string{"translate", "-s", scenarioFile, "--reject-soft"}},
	}
	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			if _, err := run(t, test.args...); err == nil {
				t.Errorf("planctl %v returned no error", test.args)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	in, _, err := loadInstance(scenarioFile)
	if err != nil {
		t.Fatalf("loadInstance() returned with unexpected error %v", err)
	}
	values := make(map[string]float64)
	for _, v := range in.Variables.All() {
		values[v.Name()] = v.Bounds().Lower
	}
	plan := filepath.Join(t.TempDir(), "plan.yaml")
	if err := writePlanFile(plan, values); err != nil {
		t.Fatalf("writePlanFile() returned with unexpected error %v", err)
	}

	out, err := run(t, "check", "-s", scenarioFile, "-p", plan)
	if err != nil {
		t.Fatalf("check returned with unexpected error %v", err)
	}
	// Nothing is produced, so the demand of ProductA beyond its initial inventory is unmet.
	for _, want := range []string{"feasible: false", "demand(ProductA,0)", "category demand:", "ProductB"} {
		if !strings.Contains(out, want) {
			t.Errorf("check output does not contain %q:\n%s", want, out)
		}
	}
}

func TestCheck_IncompletePlan(t *testing.T) {
	plan := filepath.Join(t.TempDir(), "plan.yaml")
	if err := os.WriteFile(plan, []byte("overtime(0): 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "check", "-s", scenarioFile, "-p", plan); err == nil {
		t.Error("check of an incomplete plan returned no error")
	}
}

func TestScore(t *testing.T) {
	registerer = prometheus.NewRegistry()
	t.Cleanup(func() { registerer = prometheus.DefaultRegisterer })

	best := filepath.Join(t.TempDir(), "best.yaml")
	out, err := run(t, "score", "-s", scenarioFile, "-n", "40", "--seed", "7", "--best", best)
	if err != nil {
		t.Fatalf("score returned with unexpected error %v", err)
	}
	if !strings.HasPrefix(out, "40 candidates") {
		t.Errorf("score output = %q, want a summary of 40 candidates", out)
	}
	values, err := supply.LoadPlan(best)
	if err != nil {
		t.Fatalf("LoadPlan() returned with unexpected error %v", err)
	}
	if _, ok := values[supply.OvertimeVar(0)]; !ok {
		t.Errorf("best plan has no value for %q", supply.OvertimeVar(0))
	}
}

func TestScore_InvalidSize(t *testing.T) {
	if _, err := run(t, "score", "-s", scenarioFile, "-n", "0"); err == nil {
		t.Error("score with an empty population returned no error")
	}
}

func TestCompare(t *testing.T) {
	registerer = prometheus.NewRegistry()
	t.Cleanup(func() { registerer = prometheus.DefaultRegisterer })

	out, err := run(t, "compare", "-n", "20", scenarioFile, "../../planning/supply/testdata/comprehensive.yaml", "missing.yaml")
	if err != nil {
		t.Fatalf("compare returned with unexpected error %v", err)
	}
	for _, want := range []string{"missing.yaml: error:", "two_products: ", "comprehensive: ", "20 candidates"} {
		if !strings.Contains(out, want) {
			t.Errorf("compare output does not contain %q:\n%s", want, out)
		}
	}
}
