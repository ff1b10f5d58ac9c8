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
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestKeys_String(t *testing.T) {
	testCases := []struct {
		name string
		key  interface{ String() string }
		want string
	}{
		{name: "Commitment", key: CommitmentKey{Commitment: 3}, want: "3"},
		{name: "Plan", key: PlanKey{Commitment: 3, Plan: 1}, want: "3-1"},
		{name: "Occurrence", key: OccurrenceKey{Commitment: 0, Plan: 2, Identity: "abcde-0"}, want: "0-2-abcde-0"},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			if got := test.key.String(); got != test.want {
				t.Errorf("String() = %q, want %q", got, test.want)
			}
		})
	}
}

func TestParseOccurrenceKey(t *testing.T) {
	testCases := []struct {
		in   string
		want OccurrenceKey
	}{
		{in: "0-0-abcde-0", want: OccurrenceKey{Commitment: 0, Plan: 0, Identity: "abcde-0"}},
		{in: "12-3-svc-name-7", want: OccurrenceKey{Commitment: 12, Plan: 3, Identity: "svc-name-7"}},
		{in: "1-1-plain", want: OccurrenceKey{Commitment: 1, Plan: 1, Identity: "plain"}},
	}

	for _, test := range testCases {
		got, err := ParseOccurrenceKey(test.in)
		if err != nil {
			t.Fatalf("ParseOccurrenceKey(%q) returned with unexpected error %v", test.in, err)
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("ParseOccurrenceKey(%q) returned with unexpected diff (-want+got):\n%s", test.in, diff)
		}
		if got.String() != test.in {
			t.Errorf("ParseOccurrenceKey(%q).String() = %q", test.in, got.String())
		}
	}
}

func TestParseOccurrenceKey_Errors(t *testing.T) {
	for _, in := range []string{"", "0", "0-1", "0-1-", "a-1-x-0", "0-b-x-0", "-1-0-x-0"} {
		if got, err := ParseOccurrenceKey(in); err == nil {
			t.Errorf("ParseOccurrenceKey(%q) = %v, want error", in, got)
		}
	}
}

func TestParsePlanKey(t *testing.T) {
	got, err := ParsePlanKey("4-2")
	if err != nil {
		t.Fatalf("ParsePlanKey() returned with unexpected error %v", err)
	}
	if want := (PlanKey{Commitment: 4, Plan: 2}); got != want {
		t.Errorf("ParsePlanKey() = %v, want %v", got, want)
	}
	if got.CommitmentKey() != (CommitmentKey{Commitment: 4}) {
		t.Errorf("CommitmentKey() = %v, want 4", got.CommitmentKey())
	}
	if _, err := ParsePlanKey("4"); err == nil {
		t.Errorf("ParsePlanKey(%q) returned no error", "4")
	}
}

func TestMatchAndPriceKeys(t *testing.T) {
	testCases := []struct {
		identity  string
		wantMatch string
		wantPrice string
	}{
		{identity: "abcde-0", wantMatch: "abcde-0", wantPrice: "abcde"},
		{identity: "abcde-12", wantMatch: "abcde-12", wantPrice: "abcde"},
		{identity: "svc-name-3", wantMatch: "svc-name-3", wantPrice: "svc-name"},
		{identity: "plain", wantMatch: "plain", wantPrice: "plain"},
	}

	for _, test := range testCases {
		k := OccurrenceKey{Commitment: 1, Plan: 0, Identity: test.identity}
		if got := k.MatchKey(); got != test.wantMatch {
			t.Errorf("MatchKey(%q) = %q, want %q", test.identity, got, test.wantMatch)
		}
		if got := k.PriceKey(); got != test.wantPrice {
			t.Errorf("PriceKey(%q) = %q, want %q", test.identity, got, test.wantPrice)
		}
	}
}
