// Copyright 2018-2024 Onai (Onu Technology, Inc.)
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

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/onai/schedsat/sched/bench"
	"github.com/onai/schedsat/sched/loader"
	"github.com/onai/schedsat/sched/report"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewStatsCommand returns the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	var calls bool

	cmd := &cobra.Command{
		Use:           "stats <problem.json>",
		Short:         "Summarize a problem",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rootOpts, cmd)
			if err != nil {
				return err
			}
			commitments, err := loader.LoadFile(args[0], loader.Options{MaxCommitments: cfg.Loader.MaxCommitments})
			if err != nil {
				return WrapExitError(ExitCommandError, "loading problem", err)
			}
			meta := bench.Stats(commitments)
			if !calls {
				meta.CallCounts = nil
			}
			f, err := report.ParseFormat(cfg.Output.Format)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid options", err)
			}
			if err := printMeta(cmd.OutOrStdout(), meta, f); err != nil {
				return WrapExitError(ExitCommandError, "printing stats", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&calls, "calls", false, "also count the plans naming each service call")

	return cmd
}

func printMeta(w io.Writer, m bench.Meta, f report.Format) error {
	switch f {
	case report.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return err
		}
		return enc.Close()
	case report.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	}
	lines := []struct {
		name  string
		value int
	}{
		{"commitments", m.Commitments},
		{"plans", m.Plans},
		{"occurrences", m.Occurrences},
		{"demands", m.Demands},
		{"supplies", m.Supplies},
		{"identities", m.Identities},
		{"price keys", m.PriceKeys},
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%s: %d\n", l.name, l.value); err != nil {
			return err
		}
	}
	ids := make([]string, 0, len(m.CallCounts))
	for id := range m.CallCounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if _, err := fmt.Fprintf(w, "calls %s: %d\n", id, m.CallCounts[id]); err != nil {
			return err
		}
	}
	return nil
}
