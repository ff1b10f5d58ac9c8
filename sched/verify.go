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
	"errors"
	"fmt"
	"sort"
)

// Verify checks an optimal schedule against the problem it was solved for. It returns
// every violated property joined into one error, or nil.
func (s *Schedule) Verify(commitments []Commitment) error {
	if s.Status != StatusOptimal {
		return fmt.Errorf("schedule %s is %v, only optimal schedules carry an assignment", s.RunID, s.Status)
	}
	var errs []error
	fail := func(format string, a ...any) {
		errs = append(errs, fmt.Errorf(format, a...))
	}

	accepted := 0
	demands := make(map[string]int)
	supplies := make(map[string]int)
	for i, c := range commitments {
		ck := CommitmentKey{Commitment: i}
		active := 0
		for j, p := range c.Plans {
			pk := PlanKey{Commitment: i, Plan: j}
			planOn := s.Plans[pk]
			if planOn {
				active++
			}
			var cost int64
			for _, o := range p.SortedOccurrences() {
				k := OccurrenceKey{Commitment: i, Plan: j, Identity: o.Identity}
				on := s.Occurrences[k]
				if on != planOn {
					fail("occurrence %v is %v in plan %v which is %v", k, on, pk, planOn)
				}
				price := s.Prices[k.PriceKey()]
				if o.Demand {
					cost += price
					if on {
						demands[k.MatchKey()]++
					}
				} else {
					cost -= price
					if on {
						supplies[k.MatchKey()]++
					}
				}
			}
			if cost > p.CostCeil {
				fail("plan %v costs %d, above its ceiling %d", pk, cost, p.CostCeil)
			}
		}
		if s.Commitments[ck] {
			accepted++
			if active != 1 {
				fail("accepted commitment %v has %d active plans", ck, active)
			}
		} else if active != 0 {
			fail("rejected commitment %v has %d active plans", ck, active)
		}
	}

	keys := make([]string, 0, len(demands)+len(supplies))
	for mk := range demands {
		keys = append(keys, mk)
	}
	for mk := range supplies {
		if _, ok := demands[mk]; !ok {
			keys = append(keys, mk)
		}
	}
	sort.Strings(keys)
	for _, mk := range keys {
		if demands[mk] > 0 && supplies[mk] != 1 {
			fail("match key %q has %d active demands and %d active supplies", mk, demands[mk], supplies[mk])
		}
		if supplies[mk] > 0 && demands[mk] == 0 {
			fail("match key %q has %d active supplies and no active demand", mk, supplies[mk])
		}
	}

	if accepted == 0 {
		fail("no commitment is accepted")
	}
	if accepted != s.Accepted {
		fail("schedule reports %d accepted commitments, found %d", s.Accepted, accepted)
	}
	return errors.Join(errs...)
}
