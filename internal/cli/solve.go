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
	"fmt"

	log "github.com/golang/glog"
	"github.com/onai/schedsat/internal/config"
	"github.com/onai/schedsat/sched"
	"github.com/onai/schedsat/sched/loader"
	"github.com/onai/schedsat/sched/report"
	"github.com/spf13/cobra"
)

type solveOptions struct {
	maxCommitments int
	priceMin       int64
	priceMax       int64
	verify         bool
	runID          string
}

// NewSolveCommand returns the solve command.
func NewSolveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &solveOptions{}

	cmd := &cobra.Command{
		Use:   "solve <problem.json>",
		Short: "Accept as many commitments as possible",
		Long: `Solve reads a problem in the JSON record format and prints the schedule
accepting the most commitments.

Exits with 0 when a schedule is found and 1 when the problem is infeasible.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rootOpts, cmd)
			if err != nil {
				return err
			}
			if err := opts.apply(cmd, cfg); err != nil {
				return err
			}
			return runSolve(cmd, cfg, opts.runID, args[0])
		},
	}

	cmd.Flags().IntVar(&opts.maxCommitments, "max-commitments", 0, "solve only the first commitments (0 solves all)")
	cmd.Flags().Int64Var(&opts.priceMin, "price-min", 0, "lower bound of every price")
	cmd.Flags().Int64Var(&opts.priceMax, "price-max", 0, "upper bound of every price")
	cmd.Flags().BoolVar(&opts.verify, "verify", false, "check the schedule against the problem")
	cmd.Flags().StringVar(&opts.runID, "run-id", "", "name of the run (random when empty)")

	return cmd
}

// apply overrides cfg with the flags set on the command line.
func (o *solveOptions) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("max-commitments") {
		cfg.Loader.MaxCommitments = o.maxCommitments
	}
	if flags.Changed("price-min") {
		cfg.Solver.PriceMin = &o.priceMin
	}
	if flags.Changed("price-max") {
		cfg.Solver.PriceMax = &o.priceMax
	}
	if flags.Changed("verify") {
		cfg.Output.Verify = o.verify
	}
	if err := cfg.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid options", err)
	}
	return nil
}

func runSolve(cmd *cobra.Command, cfg *config.Config, runID, path string) error {
	commitments, err := loader.LoadFile(path, loader.Options{MaxCommitments: cfg.Loader.MaxCommitments})
	if err != nil {
		return WrapExitError(ExitCommandError, "loading problem", err)
	}
	s, err := sched.Solve(cmd.Context(), commitments, sched.Options{
		PriceDomain: cfg.Solver.PriceDomain(),
		Verbose:     cfg.Solver.Verbose,
		RunID:       runID,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "solving problem", err)
	}
	if cfg.Output.Verify && s.Status == sched.StatusOptimal {
		if err := s.Verify(commitments); err != nil {
			log.Errorf("run %s: schedule failed verification: %v", s.RunID, err)
			return WrapExitError(ExitFailure, "schedule failed verification", err)
		}
		log.V(1).Infof("run %s: schedule verified", s.RunID)
	}

	f, err := report.ParseFormat(cfg.Output.Format)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid options", err)
	}
	if err := report.Render(cmd.OutOrStdout(), s, f); err != nil {
		return WrapExitError(ExitCommandError, "printing schedule", err)
	}
	if s.Status == sched.StatusInfeasible {
		return NewExitError(ExitFailure, fmt.Sprintf("run %s: problem is infeasible", s.RunID))
	}
	return nil
}
