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
	"flag"
	"fmt"

	log "github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/supplyplanning/constraintcore/planning/model"
	"github.com/supplyplanning/constraintcore/planning/supply"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "planctl",
		Short:         "Supply planning constraint tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			flag.CommandLine.Parse(nil)
		},
	}
	root.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	root.AddCommand(newTranslateCmd(), newCheckCmd(), newScoreCmd(), newCompareCmd())
	return root
}

// loadInstance reads the scenario at path and builds its planning instance.
func loadInstance(path string) (*supply.Instance, *model.Snapshot, error) {
	if path == "" {
		return nil, nil, fmt.Errorf("no scenario given, use --scenario")
	}
	s, err := supply.Load(path)
	if err != nil {
		return nil, nil, err
	}
	in, err := supply.Build(s)
	if err != nil {
		return nil, nil, fmt.Errorf("building scenario %q: %w", s.Name, err)
	}
	snap := in.Registry.Snapshot()
	log.V(1).Infof("scenario %q: %d variables, %d constraints", s.Name, len(snap.Variables()), snap.Len())
	return in, snap, nil
}
