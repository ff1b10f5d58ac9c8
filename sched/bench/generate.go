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

// Package bench generates random scheduling problems where service calls are scarce,
// and summarizes problems.
package bench

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/onai/schedsat/sched"
)

// Params bounds the random problems. Upper bounds are exclusive.
type Params struct {
	// Commitments is the number of commitments. When zero, it is drawn in
	// [0, MaxCommitments).
	Commitments    int
	MaxCommitments int
	// ServiceCalls is the number of distinct services.
	ServiceCalls int
	// NameLength is the length of the upper case service names.
	NameLength int
	// MaxPlans bounds the plans of a commitment, drawn in [1, MaxPlans).
	MaxPlans int
	// MaxCalls bounds the service calls picked by a plan, drawn in [1, MaxCalls).
	MaxCalls int
	// MaxInstances bounds instance numbers. A demand asks for instances 0..n-1 with n
	// in [1, MaxInstances), a supply offers one instance in [1, MaxInstances).
	MaxInstances int
	// DemandProbability is the probability for a picked call to be a demand.
	DemandProbability float64
	// MaxCostCeil bounds cost ceilings, drawn in [-MaxCostCeil, MaxCostCeil).
	MaxCostCeil int64
}

// DefaultParams are the parameters of the scarcity benchmark.
func DefaultParams() Params {
	return Params{
		MaxCommitments:    1000,
		ServiceCalls:      10,
		NameLength:        10,
		MaxPlans:          10,
		MaxCalls:          100,
		MaxInstances:      10,
		DemandProbability: 0.25,
		MaxCostCeil:       200,
	}
}

func (p Params) validate() error {
	switch {
	case p.Commitments < 0:
		return fmt.Errorf("commitments = %d, want >= 0", p.Commitments)
	case p.Commitments == 0 && p.MaxCommitments < 1:
		return fmt.Errorf("max commitments = %d, want >= 1", p.MaxCommitments)
	case p.ServiceCalls < 1:
		return fmt.Errorf("service calls = %d, want >= 1", p.ServiceCalls)
	case p.NameLength < 1:
		return fmt.Errorf("name length = %d, want >= 1", p.NameLength)
	case p.MaxPlans < 2, p.MaxCalls < 2, p.MaxInstances < 2:
		return fmt.Errorf("max plans, calls and instances must be >= 2, got %d, %d, %d", p.MaxPlans, p.MaxCalls, p.MaxInstances)
	case p.DemandProbability < 0 || p.DemandProbability > 1:
		return fmt.Errorf("demand probability = %v, want in [0, 1]", p.DemandProbability)
	case p.MaxCostCeil < 1:
		return fmt.Errorf("max cost ceiling = %d, want >= 1", p.MaxCostCeil)
	}
	names := 1
	for i := 0; i < p.NameLength && names < p.ServiceCalls; i++ {
		names *= 26
	}
	if names < p.ServiceCalls {
		return fmt.Errorf("%d service names of length %d cannot be distinct", p.ServiceCalls, p.NameLength)
	}
	return nil
}

// Generate draws a problem. The same rng state and parameters give the same problem.
func Generate(rng *rand.Rand, p Params) ([]sched.Commitment, error) {
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("invalid benchmark parameters: %w", err)
	}
	names := serviceNames(rng, p.ServiceCalls, p.NameLength)
	n := p.Commitments
	if n == 0 {
		n = rng.Intn(p.MaxCommitments)
	}
	commitments := make([]sched.Commitment, n)
	for i := range commitments {
		plans := make([]sched.Plan, 1+rng.Intn(p.MaxPlans-1))
		for j := range plans {
			plans[j] = generatePlan(rng, p, names)
		}
		commitments[i].Plans = plans
	}
	return commitments, nil
}

func serviceNames(rng *rand.Rand, n, length int) []string {
	seen := make(map[string]bool, n)
	names := make([]string, 0, n)
	var sb strings.Builder
	for len(names) < n {
		sb.Reset()
		for i := 0; i < length; i++ {
			sb.WriteByte(byte('A' + rng.Intn(26)))
		}
		if name := sb.String(); !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

func generatePlan(rng *rand.Rand, p Params, names []string) sched.Plan {
	var occurrences []sched.Occurrence
	calls := 1 + rng.Intn(p.MaxCalls-1)
	for k := 0; k < calls; k++ {
		name := names[rng.Intn(len(names))]
		if rng.Float64() < p.DemandProbability {
			instances := 1 + rng.Intn(p.MaxInstances-1)
			for inst := 0; inst < instances; inst++ {
				occurrences = append(occurrences, sched.Demand(identity(name, inst)))
			}
			continue
		}
		occurrences = append(occurrences, sched.Supply(identity(name, 1+rng.Intn(p.MaxInstances-1))))
	}
	ceil := rng.Int63n(2*p.MaxCostCeil) - p.MaxCostCeil
	return sched.NewPlan(ceil, occurrences...)
}

func identity(name string, instance int) string {
	return name + "-" + strconv.Itoa(instance)
}
