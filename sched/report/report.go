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

// Package report renders schedules as text, YAML or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/onai/schedsat/sched"
	"gopkg.in/yaml.v3"
)

// Format is an output format.
type Format string

// Supported formats.
const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Formats lists the supported formats.
var Formats = []Format{FormatText, FormatYAML, FormatJSON}

// ParseFormat returns the format named s.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid format %q: must be one of %v", s, Formats)
}

// Document is the serialized form of a schedule. Keys use the string forms of the
// sched keys.
type Document struct {
	RunID       string           `json:"run_id" yaml:"run_id"`
	Status      string           `json:"status" yaml:"status"`
	Accepted    int              `json:"accepted" yaml:"accepted"`
	Booleans    int              `json:"booleans" yaml:"booleans"`
	Constraints int              `json:"constraints" yaml:"constraints"`
	Commitments map[string]bool  `json:"commitments,omitempty" yaml:"commitments,omitempty"`
	Plans       map[string]bool  `json:"plans,omitempty" yaml:"plans,omitempty"`
	Occurrences map[string]bool  `json:"occurrences,omitempty" yaml:"occurrences,omitempty"`
	Prices      map[string]int64 `json:"prices,omitempty" yaml:"prices,omitempty"`
}

// NewDocument converts s. The wall time is left out so that documents of equal
// schedules are equal.
func NewDocument(s *sched.Schedule) Document {
	d := Document{
		RunID:       s.RunID,
		Status:      s.Status.String(),
		Accepted:    s.Accepted,
		Booleans:    s.NumBooleans,
		Constraints: s.NumConstraints,
	}
	if s.Status != sched.StatusOptimal {
		return d
	}
	d.Commitments = make(map[string]bool, len(s.Commitments))
	for k, v := range s.Commitments {
		d.Commitments[k.String()] = v
	}
	d.Plans = make(map[string]bool, len(s.Plans))
	for k, v := range s.Plans {
		d.Plans[k.String()] = v
	}
	d.Occurrences = make(map[string]bool, len(s.Occurrences))
	for k, v := range s.Occurrences {
		d.Occurrences[k.String()] = v
	}
	d.Prices = make(map[string]int64, len(s.Prices))
	for k, v := range s.Prices {
		d.Prices[k] = v
	}
	return d
}

// Render writes s to w in format f.
func Render(w io.Writer, s *sched.Schedule, f Format) error {
	switch f {
	case FormatText:
		return renderText(w, s)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(NewDocument(s)); err != nil {
			return fmt.Errorf("encoding yaml report: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(NewDocument(s)); err != nil {
			return fmt.Errorf("encoding json report: %w", err)
		}
		return nil
	}
	return fmt.Errorf("invalid format %q: must be one of %v", f, Formats)
}

// renderText prints one `name: value` line per decision variable, grouped by kind and
// ordered by key.
func renderText(w io.Writer, s *sched.Schedule) error {
	p := &printer{w: w}
	p.printf("run: %s\n", s.RunID)
	p.printf("status: %v\n", s.Status)
	p.printf("accepted: %d\n", s.Accepted)
	if s.Status != sched.StatusOptimal {
		return p.err
	}

	commitments := make([]sched.CommitmentKey, 0, len(s.Commitments))
	for k := range s.Commitments {
		commitments = append(commitments, k)
	}
	sort.Slice(commitments, func(i, j int) bool { return commitments[i].Commitment < commitments[j].Commitment })
	for _, k := range commitments {
		p.printf("commitment %v: %t\n", k, s.Commitments[k])
	}

	plans := make([]sched.PlanKey, 0, len(s.Plans))
	for k := range s.Plans {
		plans = append(plans, k)
	}
	sort.Slice(plans, func(i, j int) bool { return planLess(plans[i], plans[j]) })
	for _, k := range plans {
		p.printf("plan %v: %t\n", k, s.Plans[k])
	}

	occurrences := make([]sched.OccurrenceKey, 0, len(s.Occurrences))
	for k := range s.Occurrences {
		occurrences = append(occurrences, k)
	}
	sort.Slice(occurrences, func(i, j int) bool {
		a, b := occurrences[i], occurrences[j]
		if a.PlanKey() != b.PlanKey() {
			return planLess(a.PlanKey(), b.PlanKey())
		}
		return a.Identity < b.Identity
	})
	for _, k := range occurrences {
		p.printf("occurrence %v: %t\n", k, s.Occurrences[k])
	}

	prices := make([]string, 0, len(s.Prices))
	for k := range s.Prices {
		prices = append(prices, k)
	}
	sort.Strings(prices)
	for _, k := range prices {
		p.printf("price %s: %d\n", k, s.Prices[k])
	}
	return p.err
}

func planLess(a, b sched.PlanKey) bool {
	if a.Commitment != b.Commitment {
		return a.Commitment < b.Commitment
	}
	return a.Plan < b.Plan
}

// printer keeps the first write error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, a ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, a...)
}
