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

// Package cli implements the schedsat command line.
package cli

import (
	"flag"
	"fmt"

	"github.com/onai/schedsat/internal/config"
	"github.com/onai/schedsat/sched/report"
	"github.com/spf13/cobra"
)

// RootOptions holds the global flags.
type RootOptions struct {
	ConfigPath string
	Format     string
	Verbose    bool
}

// NewRootCommand returns the schedsat command with its subcommands. The glog flags
// (-v, -logtostderr, ...) are registered as global flags.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "schedsat",
		Short: "Schedule commitments over scarce service calls",
		Long: `schedsat decides which commitments to accept, and through which plan, so that
every accepted service-call demand is matched to exactly one supply, every accepted
supply backs a demand, and no plan exceeds its cost ceiling.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("format") {
				if _, err := report.ParseFormat(opts.Format); err != nil {
					return NewExitError(ExitCommandError, err.Error())
				}
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "YAML configuration file")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", string(report.FormatText), fmt.Sprintf("output format %v", report.Formats))
	cmd.PersistentFlags().BoolVar(&opts.Verbose, "verbose", false, "print solver progress")
	cmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	cmd.AddCommand(NewSolveCommand(opts))
	cmd.AddCommand(NewGenerateCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))

	return cmd
}

// loadConfig reads the configuration file, if any, and applies the global flags set on
// the command line on top of it.
func loadConfig(opts *RootOptions, cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if opts.ConfigPath != "" {
		var err error
		if cfg, err = config.Load(opts.ConfigPath); err != nil {
			return nil, WrapExitError(ExitCommandError, "loading configuration", err)
		}
	}
	if f := cmd.Flags().Lookup("format"); f != nil && f.Changed {
		cfg.Output.Format = opts.Format
	}
	if f := cmd.Flags().Lookup("verbose"); f != nil && f.Changed {
		cfg.Solver.Verbose = opts.Verbose
	}
	return cfg, nil
}
