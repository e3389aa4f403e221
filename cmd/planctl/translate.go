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
	"fmt"

	"github.com/spf13/cobra"
	"google.golang.org/protobuf/encoding/protojson"

	"github.com/supplyplanning/constraintcore/planning/lp"
)

func newTranslateCmd() *cobra.Command {
	var (
		scenario string
		format   string
		reject   bool
	)
	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Write the LP of a scenario",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, snap, err := loadInstance(scenario)
			if err != nil {
				return err
			}
			opts := []lp.Option{lp.WithName(in.Scenario.Name)}
			if reject {
				opts = append(opts, lp.WithSoftPolicy(lp.Reject))
			}
			m, err := lp.Translate(snap, in.Objective, opts...)
			if err != nil {
				return err
			}
			switch format {
			case "lp":
				return m.WriteLP(cmd.OutOrStdout())
			case "json":
				st, err := m.Proto()
				if err != nil {
					return err
				}
				b, err := protojson.MarshalOptions{Multiline: true}.Marshal(st)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
				return err
			}
			return fmt.Errorf("unknown format %q, want lp or json", format)
		},
	}
	cmd.Flags().StringVarP(&scenario, "scenario", "s", "", "scenario YAML file")
	cmd.Flags().StringVar(&format, "format", "lp", "output format: lp or json")
	cmd.Flags().BoolVar(&reject, "reject-soft", false, "fail on soft constraints instead of linearizing them")
	return cmd
}
