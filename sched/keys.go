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
	"strconv"
	"strings"
)

const keySeparator = "-"

// CommitmentKey identifies a commitment by its position.
type CommitmentKey struct {
	Commitment int
}

func (k CommitmentKey) String() string {
	return strconv.Itoa(k.Commitment)
}

// PlanKey identifies a plan by the position of its commitment and its own position.
type PlanKey struct {
	Commitment int
	Plan       int
}

func (k PlanKey) String() string {
	return strconv.Itoa(k.Commitment) + keySeparator + strconv.Itoa(k.Plan)
}

// CommitmentKey returns the key of the commitment owning the plan.
func (k PlanKey) CommitmentKey() CommitmentKey {
	return CommitmentKey{Commitment: k.Commitment}
}

func (k PlanKey) less(o PlanKey) bool {
	if k.Commitment != o.Commitment {
		return k.Commitment < o.Commitment
	}
	return k.Plan < o.Plan
}

// OccurrenceKey identifies the occurrence of a service call in a plan. Two plans naming
// the same identity have distinct keys.
type OccurrenceKey struct {
	Commitment int
	Plan       int
	Identity   string
}

// String returns `<commitment>-<plan>-<identity>`.
func (k OccurrenceKey) String() string {
	return k.PlanKey().String() + keySeparator + k.Identity
}

// PlanKey returns the key of the plan owning the occurrence.
func (k OccurrenceKey) PlanKey() PlanKey {
	return PlanKey{Commitment: k.Commitment, Plan: k.Plan}
}

// MatchKey is the key pooling demands and supplies of the occurrence across plans.
func (k OccurrenceKey) MatchKey() string {
	return MatchKey(k.Identity)
}

// PriceKey is the key of the price variable of the occurrence.
func (k OccurrenceKey) PriceKey() string {
	return PriceKey(k.Identity)
}

func (k OccurrenceKey) less(o OccurrenceKey) bool {
	if k.Commitment != o.Commitment || k.Plan != o.Plan {
		return k.PlanKey().less(o.PlanKey())
	}
	return k.Identity < o.Identity
}

// MatchKey returns the full identity: demands only match supplies of the same instance.
func MatchKey(identity string) string {
	return identity
}

// PriceKey returns the identity without its instance segment, so that every instance of
// a service shares one price. An identity without separator is its own price key.
func PriceKey(identity string) string {
	if i := strings.LastIndex(identity, keySeparator); i >= 0 {
		return identity[:i]
	}
	return identity
}

// ParsePlanKey decodes the string form of a PlanKey.
func ParsePlanKey(s string) (PlanKey, error) {
	parts := strings.SplitN(s, keySeparator, 2)
	if len(parts) != 2 {
		return PlanKey{}, fmt.Errorf("plan key %q: want <commitment>%s<plan>", s, keySeparator)
	}
	return parsePlanParts(s, parts[0], parts[1])
}

// ParseOccurrenceKey decodes the string form of an OccurrenceKey. The identity is
// everything after the second separator, separators included.
func ParseOccurrenceKey(s string) (OccurrenceKey, error) {
	parts := strings.SplitN(s, keySeparator, 3)
	if len(parts) != 3 || parts[2] == "" {
		return OccurrenceKey{}, fmt.Errorf("occurrence key %q: want <commitment>%s<plan>%s<identity>", s, keySeparator, keySeparator)
	}
	pk, err := parsePlanParts(s, parts[0], parts[1])
	if err != nil {
		return OccurrenceKey{}, err
	}
	return OccurrenceKey{Commitment: pk.Commitment, Plan: pk.Plan, Identity: parts[2]}, nil
}

func parsePlanParts(s, commitment, plan string) (PlanKey, error) {
	c, err := strconv.Atoi(commitment)
	if err != nil || c < 0 {
		return PlanKey{}, fmt.Errorf("key %q: invalid commitment index %q", s, commitment)
	}
	p, err := strconv.Atoi(plan)
	if err != nil || p < 0 {
		return PlanKey{}, fmt.Errorf("key %q: invalid plan index %q", s, plan)
	}
	return PlanKey{Commitment: c, Plan: p}, nil
}
