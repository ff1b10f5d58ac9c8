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

package sched

import (
	"context"
	"fmt"
	"time"

	log "github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/onai/schedsat/sat/cpmodel"
)

// Status is the outcome of Solve.
type Status int

// Solve outcomes.
const (
	StatusUnknown Status = iota
	StatusOptimal
	StatusInfeasible
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	}
	return "unknown"
}

// Options tunes Solve. The zero value is ready to use.
type Options struct {
	// PriceDomain is the domain of every price variable. When empty, prices range over
	// [-MaxPrice, MaxPrice]. A narrower domain may make a feasible problem infeasible.
	PriceDomain cpmodel.Domain
	// Verbose prints the progress of the solver.
	Verbose bool
	// RunID names the solve in logs and reports. A random one is used when empty.
	RunID string
}

// Schedule is the result of Solve. The assignment maps are only set when Status is
// StatusOptimal.
type Schedule struct {
	RunID  string
	Status Status
	// Accepted is the number of accepted commitments.
	Accepted int

	Commitments map[CommitmentKey]bool
	Plans       map[PlanKey]bool
	Occurrences map[OccurrenceKey]bool
	Prices      map[string]int64

	NumBooleans    int
	NumConstraints int
	WallTime       time.Duration
}

// SelectedPlan returns the index of the active plan of commitment i, and false when the
// commitment is rejected.
func (s *Schedule) SelectedPlan(i int) (int, bool) {
	if !s.Commitments[CommitmentKey{Commitment: i}] {
		return 0, false
	}
	for pk, active := range s.Plans {
		if active && pk.Commitment == i {
			return pk.Plan, true
		}
	}
	return 0, false
}

// Solve accepts as many commitments as possible. An infeasible problem is reported by
// the StatusInfeasible status, not by an error. The problem must be valid; see Validate.
func Solve(ctx context.Context, commitments []Commitment, opts Options) (*Schedule, error) {
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	priceDomain := opts.PriceDomain
	if priceDomain.IsEmpty() {
		priceDomain = defaultPriceDomain()
	}

	s := compile(commitments, priceDomain)
	m, err := s.model.Model()
	if err != nil {
		return nil, fmt.Errorf("building model for run %s failed: %w", runID, err)
	}
	res, err := cpmodel.SolveCpModelWithContext(ctx, m, &cpmodel.Params{Verbose: opts.Verbose})
	if err != nil {
		return nil, fmt.Errorf("solving run %s failed: %w", runID, err)
	}

	out := &Schedule{
		RunID:          runID,
		NumBooleans:    res.NumBooleans,
		NumConstraints: res.NumConstraints,
		WallTime:       res.WallTime,
	}
	switch res.Status {
	case cpmodel.Optimal:
		out.Status = StatusOptimal
		s.interpret(res, out)
	case cpmodel.Infeasible:
		out.Status = StatusInfeasible
		if res.SolutionInfo != "" {
			log.V(1).Infof("run %s: %s", runID, res.SolutionInfo)
		}
	default:
		return nil, fmt.Errorf("run %s: solver returned %v: %s", runID, res.Status, res.SolutionInfo)
	}
	log.V(1).Infof("run %s: %v, %d of %d commitments accepted in %v", runID, out.Status, out.Accepted, len(commitments), out.WallTime)
	return out, nil
}

// interpret reads every decision variable back from an optimal response.
func (s *session) interpret(res *cpmodel.Response, out *Schedule) {
	v := s.vars
	out.Commitments = make(map[CommitmentKey]bool, len(v.CommitmentKeys))
	for _, k := range v.CommitmentKeys {
		val := cpmodel.SolutionBooleanValue(res, v.Commitments[k])
		out.Commitments[k] = val
		if val {
			out.Accepted++
		}
	}
	out.Plans = make(map[PlanKey]bool, len(v.PlanKeys))
	for _, k := range v.PlanKeys {
		out.Plans[k] = cpmodel.SolutionBooleanValue(res, v.Plans[k])
	}
	out.Occurrences = make(map[OccurrenceKey]bool, len(v.OccurrenceKeys))
	for _, k := range v.OccurrenceKeys {
		out.Occurrences[k] = cpmodel.SolutionBooleanValue(res, v.Occurrences[k].Var)
	}
	out.Prices = make(map[string]int64, len(v.PriceKeys))
	for _, k := range v.PriceKeys {
		out.Prices[k] = cpmodel.SolutionIntegerValue(res, v.Prices[k])
	}
}
