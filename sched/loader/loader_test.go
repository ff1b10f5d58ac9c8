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

package loader

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/onai/schedsat/sched"
)

const twoCommitments = `[
  [
    {"s_calls": [["abcde-0", true], ["efgh-1", true]], "cost_ceil": 100},
    {"s_calls": [["efgh-0", true]], "cost_ceil": 40}
  ],
  [
    {"s_calls": [["abcde-0", false]], "cost_ceil": -50}
  ]
]`

func TestLoad(t *testing.T) {
	got, err := Load(strings.NewReader(twoCommitments), Options{})
	if err != nil {
		t.Fatalf("Load() returned with unexpected error %v", err)
	}
	want := []sched.Commitment{
		{Plans: []sched.Plan{
			sched.NewPlan(100, sched.Demand("abcde-0"), sched.Demand("efgh-1")),
			sched.NewPlan(40, sched.Demand("efgh-0")),
		}},
		{Plans: []sched.Plan{sched.NewPlan(-50, sched.Supply("abcde-0"))}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load() returned with unexpected diff (-want+got):\n%s", diff)
	}
}

func TestLoad_MaxCommitments(t *testing.T) {
	got, err := Load(strings.NewReader(twoCommitments), Options{MaxCommitments: 1})
	if err != nil {
		t.Fatalf("Load() returned with unexpected error %v", err)
	}
	if len(got) != 1 || len(got[0].Plans) != 2 {
		t.Errorf("Load() = %+v, want only the first commitment", got)
	}
}

func TestLoad_RepeatedCallKeepsLastFlag(t *testing.T) {
	got, err := Load(strings.NewReader(`[[{"s_calls": [["a-0", true], ["a-0", false]], "cost_ceil": 1}]]`), Options{})
	if err != nil {
		t.Fatalf("Load() returned with unexpected error %v", err)
	}
	if diff := cmp.Diff(map[string]bool{"a-0": false}, got[0].Plans[0].Occurrences); diff != "" {
		t.Errorf("Load() returned with unexpected diff (-want+got):\n%s", diff)
	}
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "NotJSON", input: `[[{`, wantErr: ErrFormat},
		{name: "NotAnArray", input: `{"s_calls": []}`, wantErr: ErrFormat},
		{name: "CommitmentNotAnArray", input: `[{"s_calls": []}]`, wantErr: ErrFormat},
		{name: "PlanNotAnObject", input: `[[["a-0", true]]]`, wantErr: ErrFormat},
		{name: "MissingCostCeil", input: `[[{"s_calls": [["a-0", true]]}]]`, wantErr: ErrFormat},
		{name: "FractionalCostCeil", input: `[[{"s_calls": [["a-0", true]], "cost_ceil": 1.5}]]`, wantErr: ErrFormat},
		{name: "MissingCalls", input: `[[{"cost_ceil": 1}]]`, wantErr: ErrFormat},
		{name: "ShortPair", input: `[[{"s_calls": [["a-0"]], "cost_ceil": 1}]]`, wantErr: ErrFormat},
		{name: "FlagNotABool", input: `[[{"s_calls": [["a-0", 1]], "cost_ceil": 1}]]`, wantErr: ErrFormat},
		{name: "NoPlan", input: `[[]]`, wantErr: sched.ErrMalformed},
		{name: "NoCall", input: `[[{"s_calls": [], "cost_ceil": 1}]]`, wantErr: sched.ErrMalformed},
		{name: "NoInstance", input: `[[{"s_calls": [["abcde", true]], "cost_ceil": 1}]]`, wantErr: sched.ErrMalformed},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			got, err := Load(strings.NewReader(test.input), Options{})
			if !errors.Is(err, test.wantErr) {
				t.Errorf("Load() returned with unexpected error %v; want %v", err, test.wantErr)
			}
			if got != nil {
				t.Errorf("Load() = %+v, want nil", got)
			}
		})
	}
}

func TestWrite_LoadsBack(t *testing.T) {
	want, err := Load(strings.NewReader(twoCommitments), Options{})
	if err != nil {
		t.Fatalf("Load() returned with unexpected error %v", err)
	}
	var buf bytes.Buffer
	if err := Write(&buf, want); err != nil {
		t.Fatalf("Write() returned with unexpected error %v", err)
	}

	path := filepath.Join(t.TempDir(), "problem.json")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile() returned with unexpected error %v", err)
	}
	got, err := LoadFile(path, Options{})
	if err != nil {
		t.Fatalf("LoadFile() returned with unexpected error %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadFile() returned with unexpected diff (-want+got):\n%s", diff)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"), Options{}); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadFile() returned with unexpected error %v; want os.ErrNotExist", err)
	}
}
