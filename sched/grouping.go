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

import "sort"

// MatchGroup pools the occurrences of one match key across every commitment and plan.
type MatchGroup struct {
	Demand []OccurrenceKey
	Supply []OccurrenceKey
}

// Groups are the index maps derived from the variable keys.
type Groups struct {
	PlansByCommitment map[CommitmentKey][]PlanKey
	OccurrencesByPlan map[PlanKey][]OccurrenceKey
	ByMatchKey        map[string]*MatchGroup
	// MatchKeys lists the keys of ByMatchKey in increasing order.
	MatchKeys []string
}

// groupPlansByCommitment keeps the order of keys within each group.
func groupPlansByCommitment(keys []PlanKey) map[CommitmentKey][]PlanKey {
	out := make(map[CommitmentKey][]PlanKey)
	for _, k := range keys {
		ck := k.CommitmentKey()
		out[ck] = append(out[ck], k)
	}
	return out
}

// groupOccurrencesByPlan keeps the order of keys within each group.
func groupOccurrencesByPlan(keys []OccurrenceKey) map[PlanKey][]OccurrenceKey {
	out := make(map[PlanKey][]OccurrenceKey)
	for _, k := range keys {
		pk := k.PlanKey()
		out[pk] = append(out[pk], k)
	}
	return out
}

func groupOccurrencesByMatchKey(occurrences map[OccurrenceKey]OccurrenceVar, keys []OccurrenceKey) (map[string]*MatchGroup, []string) {
	out := make(map[string]*MatchGroup)
	var matchKeys []string
	for _, k := range keys {
		mk := k.MatchKey()
		g, ok := out[mk]
		if !ok {
			g = &MatchGroup{}
			out[mk] = g
			matchKeys = append(matchKeys, mk)
		}
		if occurrences[k].Demand {
			g.Demand = append(g.Demand, k)
		} else {
			g.Supply = append(g.Supply, k)
		}
	}
	sort.Strings(matchKeys)
	return out, matchKeys
}

func buildGroups(v *Variables) *Groups {
	g := &Groups{
		PlansByCommitment: groupPlansByCommitment(v.PlanKeys),
		OccurrencesByPlan: groupOccurrencesByPlan(v.OccurrenceKeys),
	}
	g.ByMatchKey, g.MatchKeys = groupOccurrencesByMatchKey(v.Occurrences, v.OccurrenceKeys)
	return g
}
