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
	"fmt"

	log "github.com/golang/glog"
	"github.com/onai/schedsat/sat/cpmodel"
)

// session is the state shared by the constraint emitters. Emitters only read vars and
// groups, and only write to model.
type session struct {
	model       *cpmodel.Builder
	commitments []Commitment
	vars        *Variables
	groups      *Groups
	// constraints counts the emitted constraints per family.
	constraints map[string]int
}

func (s *session) name(ct cpmodel.Constraint, family string, key fmt.Stringer) {
	ct.WithName(family + "/" + key.String())
	s.constraints[family]++
}

func (s *session) planVars(pks []PlanKey) []cpmodel.BoolVar {
	out := make([]cpmodel.BoolVar, len(pks))
	for i, pk := range pks {
		out[i] = s.vars.Plans[pk]
	}
	return out
}

func (s *session) occurrenceVars(oks []OccurrenceKey) []cpmodel.BoolVar {
	out := make([]cpmodel.BoolVar, len(oks))
	for i, k := range oks {
		out[i] = s.vars.Occurrences[k].Var
	}
	return out
}

func sum(bvs []cpmodel.BoolVar) *cpmodel.LinearExpr {
	return cpmodel.NewLinearExpr().AddSum(cpmodel.BoolVars(bvs...)...)
}

// emitPlanSelection makes an accepted commitment select exactly one plan, and a rejected
// one select none.
func (s *session) emitPlanSelection() {
	for _, ck := range s.vars.CommitmentKeys {
		c := s.vars.Commitments[ck]
		plans := s.planVars(s.groups.PlansByCommitment[ck])
		if len(plans) == 1 {
			s.name(s.model.AddImplication(c, plans[0]), "plan-select", ck)
			s.name(s.model.AddImplication(c.Not(), plans[0].Not()), "plan-none", ck)
			continue
		}
		s.name(s.model.AddExactlyOne(plans...).OnlyEnforceIf(c), "plan-select", ck)
		s.name(s.model.AddEquality(sum(plans), cpmodel.NewConstant(0)).OnlyEnforceIf(c.Not()), "plan-none", ck)
	}
}

// emitOccurrenceActivation makes an active plan activate all of its occurrences, and an
// inactive one none.
func (s *session) emitOccurrenceActivation() {
	for _, pk := range s.vars.PlanKeys {
		p := s.vars.Plans[pk]
		occs := s.occurrenceVars(s.groups.OccurrencesByPlan[pk])
		if len(occs) == 1 {
			s.name(s.model.AddImplication(p, occs[0]), "occurrence-all", pk)
			s.name(s.model.AddImplication(p.Not(), occs[0].Not()), "occurrence-none", pk)
			continue
		}
		s.name(s.model.AddBoolAnd(occs...).OnlyEnforceIf(p), "occurrence-all", pk)
		s.name(s.model.AddEquality(sum(occs), cpmodel.NewConstant(0)).OnlyEnforceIf(p.Not()), "occurrence-none", pk)
	}
}

type matchKey string

func (k matchKey) String() string { return string(k) }

// emitBalance matches pooled demands and supplies of every match key. A premise
// `(d_1 or ... or d_n) => X` is emitted as `d_i => X` for each i.
func (s *session) emitBalance() {
	for _, mk := range s.groups.MatchKeys {
		g := s.groups.ByMatchKey[mk]
		demands := s.occurrenceVars(g.Demand)
		supplies := s.occurrenceVars(g.Supply)
		key := matchKey(mk)

		for _, d := range demands {
			switch len(supplies) {
			case 0:
				s.name(s.model.AddBoolAnd(d.Not()), "demand-unmatched", key)
			case 1:
				s.name(s.model.AddImplication(d, supplies[0]), "demand-supply", key)
			default:
				s.name(s.model.AddExactlyOne(supplies...).OnlyEnforceIf(d), "demand-supply", key)
			}
		}
		for _, sup := range supplies {
			switch len(demands) {
			case 0:
				s.name(s.model.AddBoolAnd(sup.Not()), "supply-unused", key)
			case 1:
				s.name(s.model.AddImplication(sup, demands[0]), "supply-demand", key)
			default:
				s.name(s.model.AddBoolOr(demands...).OnlyEnforceIf(sup), "supply-demand", key)
			}
		}
		log.V(2).Infof("match key %q: %d demands, %d supplies", mk, len(demands), len(supplies))
	}
}

// emitBudget bounds, for every plan, the demanded prices minus the supplied prices by
// the cost ceiling. The bound holds whether or not the plan is selected.
func (s *session) emitBudget() {
	for _, pk := range s.vars.PlanKeys {
		expr := cpmodel.NewLinearExpr()
		for _, k := range s.groups.OccurrencesByPlan[pk] {
			coeff := int64(-1)
			if s.vars.Occurrences[k].Demand {
				coeff = 1
			}
			expr.AddTerm(s.vars.Prices[k.PriceKey()], coeff)
		}
		ceil := s.commitments[pk.Commitment].Plans[pk.Plan].CostCeil
		s.name(s.model.AddLessOrEqual(expr, cpmodel.NewConstant(ceil)), "budget", pk)
	}
}

type familyKey string

func (k familyKey) String() string { return string(k) }

// emitNonTriviality requires at least one accepted commitment.
func (s *session) emitNonTriviality() {
	cs := make([]cpmodel.BoolVar, len(s.vars.CommitmentKeys))
	for i, ck := range s.vars.CommitmentKeys {
		cs[i] = s.vars.Commitments[ck]
	}
	if len(cs) == 1 {
		s.name(s.model.AddBoolAnd(cs[0]), "non-trivial", familyKey("all"))
		return
	}
	s.name(s.model.AddAtLeastOne(cs...), "non-trivial", familyKey("all"))
}

// emitObjective maximizes the number of accepted commitments.
func (s *session) emitObjective() {
	cs := make([]cpmodel.BoolVar, len(s.vars.CommitmentKeys))
	for i, ck := range s.vars.CommitmentKeys {
		cs[i] = s.vars.Commitments[ck]
	}
	s.model.Maximize(sum(cs))
}

// compile builds the model of a problem. The problem must be valid; see Validate.
func compile(commitments []Commitment, priceDomain cpmodel.Domain) *session {
	model := cpmodel.NewCpModelBuilder()
	model.SetName("schedule")
	vars := buildVariables(model, commitments, priceDomain)
	s := &session{
		model:       model,
		commitments: commitments,
		vars:        vars,
		groups:      buildGroups(vars),
		constraints: make(map[string]int),
	}
	log.V(1).Infof("allocated %d commitment, %d plan, %d occurrence and %d price variables",
		len(vars.CommitmentKeys), len(vars.PlanKeys), len(vars.OccurrenceKeys), len(vars.PriceKeys))

	s.emitPlanSelection()
	s.emitOccurrenceActivation()
	s.emitBalance()
	s.emitBudget()
	s.emitNonTriviality()
	s.emitObjective()
	if log.V(1) {
		for family, n := range s.constraints {
			log.Infof("family %s: %d constraints", family, n)
		}
	}
	return s
}
