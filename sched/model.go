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

// Package sched decides which commitments to accept, and through which plan, so that
// every accepted service-call demand is matched to exactly one supply, every accepted
// supply backs at least one demand, and no plan exceeds its cost ceiling.
//
// The problem is compiled into a `cpmodel` model: one Boolean per commitment, plan and
// service-call occurrence, and one integer price per underlying service. `Solve` returns
// a `Schedule` accepting as many commitments as possible.
package sched

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Occurrence is a demand or supply of a service call inside a plan.
type Occurrence struct {
	// Identity names the service call as `<base>-<instance>`.
	Identity string
	// Demand is true for a request and false for an offer.
	Demand bool
}

// Plan is one way to fulfill a commitment.
type Plan struct {
	// Occurrences maps each service-call identity of the plan to its demand flag.
	Occurrences map[string]bool
	// CostCeil bounds the demanded prices minus the supplied prices. It may be negative.
	CostCeil int64
}

// SortedOccurrences returns the occurrences of the plan ordered by identity.
func (p Plan) SortedOccurrences() []Occurrence {
	out := make([]Occurrence, 0, len(p.Occurrences))
	for id, demand := range p.Occurrences {
		out = append(out, Occurrence{Identity: id, Demand: demand})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Identity < out[j].Identity })
	return out
}

// Commitment is a candidate unit of work, accepted through exactly one of its plans.
type Commitment struct {
	Plans []Plan
}

// NewPlan builds a plan from occurrences. A repeated identity keeps its last flag.
func NewPlan(costCeil int64, occurrences ...Occurrence) Plan {
	p := Plan{Occurrences: make(map[string]bool, len(occurrences)), CostCeil: costCeil}
	for _, o := range occurrences {
		p.Occurrences[o.Identity] = o.Demand
	}
	return p
}

// Demand returns a demand occurrence of identity.
func Demand(identity string) Occurrence {
	return Occurrence{Identity: identity, Demand: true}
}

// Supply returns a supply occurrence of identity.
func Supply(identity string) Occurrence {
	return Occurrence{Identity: identity}
}

// ErrMalformed is wrapped by every error reported by Validate.
var ErrMalformed = errors.New("malformed scheduling problem")

// ValidationError locates a malformed part of a problem. Plan and Identity are only set
// when the problem is below the commitment level.
type ValidationError struct {
	Commitment int
	Plan       int
	Identity   string
	Reason     string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Identity != "":
		return fmt.Sprintf("commitment %d, plan %d, identity %q: %s", e.Commitment, e.Plan, e.Identity, e.Reason)
	case e.Plan >= 0:
		return fmt.Sprintf("commitment %d, plan %d: %s", e.Commitment, e.Plan, e.Reason)
	}
	return fmt.Sprintf("commitment %d: %s", e.Commitment, e.Reason)
}

// Unwrap returns ErrMalformed.
func (e *ValidationError) Unwrap() error {
	return ErrMalformed
}

// Validate checks the preconditions Solve relies on: every commitment has a plan, every
// plan has an occurrence, and every identity is made of a non-empty base and instance.
func Validate(commitments []Commitment) error {
	for i, c := range commitments {
		if len(c.Plans) == 0 {
			return &ValidationError{Commitment: i, Plan: -1, Reason: "no plan"}
		}
		for j, p := range c.Plans {
			if len(p.Occurrences) == 0 {
				return &ValidationError{Commitment: i, Plan: j, Reason: "no service call"}
			}
			for _, o := range p.SortedOccurrences() {
				if reason := checkIdentity(o.Identity); reason != "" {
					return &ValidationError{Commitment: i, Plan: j, Identity: o.Identity, Reason: reason}
				}
			}
		}
	}
	return nil
}

func checkIdentity(id string) string {
	sep := strings.LastIndex(id, keySeparator)
	switch {
	case sep < 0:
		return "no instance segment"
	case sep == 0:
		return "empty service name"
	case sep == len(id)-1:
		return "empty instance"
	}
	return ""
}
