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

package bench

import (
	"io"

	"github.com/onai/schedsat/sched"
	"github.com/onai/schedsat/sched/loader"
)

// Meta summarizes a problem.
type Meta struct {
	Commitments int `json:"commitments" yaml:"commitments"`
	Plans       int `json:"plans" yaml:"plans"`
	Occurrences int `json:"occurrences" yaml:"occurrences"`
	Demands     int `json:"demands" yaml:"demands"`
	Supplies    int `json:"supplies" yaml:"supplies"`
	// Identities counts distinct service-call identities, PriceKeys distinct services.
	Identities int `json:"identities" yaml:"identities"`
	PriceKeys  int `json:"price_keys" yaml:"price_keys"`
	// CallCounts counts, per identity, the plans naming it.
	CallCounts map[string]int `json:"call_counts,omitempty" yaml:"call_counts,omitempty"`
}

// Stats summarizes commitments.
func Stats(commitments []sched.Commitment) Meta {
	m := Meta{Commitments: len(commitments), CallCounts: make(map[string]int)}
	prices := make(map[string]bool)
	for _, c := range commitments {
		m.Plans += len(c.Plans)
		for _, p := range c.Plans {
			for id, demand := range p.Occurrences {
				m.Occurrences++
				if demand {
					m.Demands++
				} else {
					m.Supplies++
				}
				m.CallCounts[id]++
				prices[sched.PriceKey(id)] = true
			}
		}
	}
	m.Identities = len(m.CallCounts)
	m.PriceKeys = len(prices)
	return m
}

// Write writes commitments in the record format the loader reads.
func Write(w io.Writer, commitments []sched.Commitment) error {
	return loader.Write(w, commitments)
}
