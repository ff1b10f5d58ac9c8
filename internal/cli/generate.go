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
	"io"
	"math/rand"
	"os"

	log "github.com/golang/glog"
	"github.com/onai/schedsat/sched/bench"
	"github.com/spf13/cobra"
)

type generateOptions struct {
	params bench.Params
	seed   int64
	output string
}

// NewGenerateCommand returns the generate command.
func NewGenerateCommand(_ *RootOptions) *cobra.Command {
	opts := &generateOptions{params: bench.DefaultParams()}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a random problem where service calls are scarce",
		Long: `Generate writes a random problem in the JSON record format. The same seed and
parameters give the same problem.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts)
		},
	}

	p := &opts.params
	cmd.Flags().Int64Var(&opts.seed, "seed", 1, "random seed")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout when empty)")
	cmd.Flags().IntVar(&p.Commitments, "commitments", p.Commitments, "number of commitments (0 draws it below --max-commitments)")
	cmd.Flags().IntVar(&p.MaxCommitments, "max-commitments", p.MaxCommitments, "exclusive bound of the drawn number of commitments")
	cmd.Flags().IntVar(&p.ServiceCalls, "service-calls", p.ServiceCalls, "number of distinct services")
	cmd.Flags().IntVar(&p.NameLength, "name-length", p.NameLength, "length of the service names")
	cmd.Flags().IntVar(&p.MaxPlans, "max-plans", p.MaxPlans, "exclusive bound of the plans of a commitment")
	cmd.Flags().IntVar(&p.MaxCalls, "max-calls", p.MaxCalls, "exclusive bound of the service calls of a plan")
	cmd.Flags().IntVar(&p.MaxInstances, "max-instances", p.MaxInstances, "exclusive bound of instance numbers")
	cmd.Flags().Float64Var(&p.DemandProbability, "demand-probability", p.DemandProbability, "probability for a service call to be a demand")
	cmd.Flags().Int64Var(&p.MaxCostCeil, "max-cost-ceil", p.MaxCostCeil, "cost ceilings are drawn in [-max, max)")

	return cmd
}

func runGenerate(cmd *cobra.Command, opts *generateOptions) error {
	commitments, err := bench.Generate(rand.New(rand.NewSource(opts.seed)), opts.params)
	if err != nil {
		return WrapExitError(ExitCommandError, "generating problem", err)
	}

	var w io.Writer = cmd.OutOrStdout()
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return WrapExitError(ExitCommandError, "creating output", err)
		}
		defer f.Close()
		w = f
	}
	if err := bench.Write(w, commitments); err != nil {
		return WrapExitError(ExitCommandError, "writing problem", err)
	}
	log.V(1).Infof("generated %d commitments with seed %d", len(commitments), opts.seed)
	return nil
}
