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
	"sort"

	"github.com/onai/schedsat/sat/cpmodel"
)

// OccurrenceVar is the decision variable of an occurrence, with its demand flag.
type OccurrenceVar struct {
	Var    cpmodel.BoolVar
	Demand bool
}

// Variables holds the decision variables of a problem together with their keys in a
// deterministic order.
type Variables struct {
	Commitments map[CommitmentKey]cpmodel.BoolVar
	Plans       map[PlanKey]cpmodel.BoolVar
	Occurrences map[OccurrenceKey]OccurrenceVar
	Prices      map[string]cpmodel.IntVar

	CommitmentKeys []CommitmentKey
	PlanKeys       []PlanKey
	OccurrenceKeys []OccurrenceKey
	PriceKeys      []string
}

func buildCommitmentVars(model *cpmodel.Builder, commitments []Commitment) (map[CommitmentKey]cpmodel.BoolVar, []CommitmentKey) {
	vars := make(map[CommitmentKey]cpmodel.BoolVar, len(commitments))
	keys := make([]CommitmentKey, 0, len(commitments))
	for i := range commitments {
		k := CommitmentKey{Commitment: i}
		vars[k] = model.NewBoolVar().WithName(k.String())
		keys = append(keys, k)
	}
	return vars, keys
}

func buildPlanVars(model *cpmodel.Builder, commitments []Commitment) (map[PlanKey]cpmodel.BoolVar, []PlanKey) {
	vars := make(map[PlanKey]cpmodel.BoolVar)
	var keys []PlanKey
	for i, c := range commitments {
		for j := range c.Plans {
			k := PlanKey{Commitment: i, Plan: j}
			vars[k] = model.NewBoolVar().WithName(k.String())
			keys = append(keys, k)
		}
	}
	return vars, keys
}

func buildOccurrenceVars(model *cpmodel.Builder, commitments []Commitment) (map[OccurrenceKey]OccurrenceVar, []OccurrenceKey) {
	vars := make(map[OccurrenceKey]OccurrenceVar)
	var keys []OccurrenceKey
	for i, c := range commitments {
		for j, p := range c.Plans {
			for _, o := range p.SortedOccurrences() {
				k := OccurrenceKey{Commitment: i, Plan: j, Identity: o.Identity}
				vars[k] = OccurrenceVar{Var: model.NewBoolVar().WithName(k.String()), Demand: o.Demand}
				keys = append(keys, k)
			}
		}
	}
	return vars, keys
}

// buildPriceVars allocates one integer per distinct price key. Occurrences of every
// instance of a service, in any plan, share the variable.
func buildPriceVars(model *cpmodel.Builder, commitments []Commitment, domain cpmodel.Domain) (map[string]cpmodel.IntVar, []string) {
	seen := make(map[string]bool)
	var keys []string
	for _, c := range commitments {
		for _, p := range c.Plans {
			for id := range p.Occurrences {
				if pk := PriceKey(id); !seen[pk] {
					seen[pk] = true
					keys = append(keys, pk)
				}
			}
		}
	}
	sort.Strings(keys)
	vars := make(map[string]cpmodel.IntVar, len(keys))
	for _, pk := range keys {
		vars[pk] = model.NewIntVarFromDomain(domain).WithName(pk)
	}
	return vars, keys
}

// MaxPrice bounds the absolute value of prices in the default price domain. A plan
// naming several instances of a service counts its price once per instance, so budgets
// can chain prices into sequences growing far beyond the cost ceilings. The bound is the
// widest range the Boolean encoding handles comfortably, not a function of the problem.
const MaxPrice = 1 << 40

// defaultPriceDomain is [-MaxPrice, MaxPrice].
func defaultPriceDomain() cpmodel.Domain {
	return cpmodel.NewDomain(-MaxPrice, MaxPrice)
}

func buildVariables(model *cpmodel.Builder, commitments []Commitment, priceDomain cpmodel.Domain) *Variables {
	v := &Variables{}
	v.Commitments, v.CommitmentKeys = buildCommitmentVars(model, commitments)
	v.Plans, v.PlanKeys = buildPlanVars(model, commitments)
	v.Occurrences, v.OccurrenceKeys = buildOccurrenceVars(model, commitments)
	v.Prices, v.PriceKeys = buildPriceVars(model, commitments, priceDomain)
	return v
}
