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

// Package loader reads and writes scheduling problems in their JSON record format:
//
//	[
//	  [ {"s_calls": [["abcde-0", true], ["efgh-1", false]], "cost_ceil": 10}, ... ],
//	  ...
//	]
//
// The outer array lists commitments, each commitment lists its plans, and each service
// call is an `[identity, is_demand]` pair.
package loader

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	log "github.com/golang/glog"
	"github.com/onai/schedsat/sched"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	fieldCalls    = "s_calls"
	fieldCostCeil = "cost_ceil"
	// maxExactInt is the largest integer a JSON number holds exactly.
	maxExactInt = 1 << 53
)

// ErrFormat is wrapped by errors about records that do not follow the format.
var ErrFormat = errors.New("invalid schedule record")

// Options tunes Load.
type Options struct {
	// MaxCommitments keeps only the first commitments of the input. Zero keeps them all.
	MaxCommitments int
}

func formatErrorf(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrFormat, fmt.Sprintf(format, a...))
}

// Load reads a problem. The result is validated with sched.Validate. A service call
// repeated in a plan keeps its last flag.
func Load(r io.Reader, opts Options) ([]sched.Commitment, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading schedule: %w", err)
	}
	root := &structpb.Value{}
	if err := protojson.Unmarshal(data, root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	commitments, err := parseCommitments(root, opts)
	if err != nil {
		return nil, err
	}
	if err := sched.Validate(commitments); err != nil {
		return nil, err
	}
	return commitments, nil
}

// LoadFile reads the problem stored at path.
func LoadFile(path string, opts Options) ([]sched.Commitment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	commitments, err := Load(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return commitments, nil
}

func parseCommitments(root *structpb.Value, opts Options) ([]sched.Commitment, error) {
	list := root.GetListValue()
	if list == nil {
		return nil, formatErrorf("top level is not an array of commitments")
	}
	values := list.GetValues()
	if opts.MaxCommitments > 0 && len(values) > opts.MaxCommitments {
		log.Warningf("keeping the first %d of %d commitments", opts.MaxCommitments, len(values))
		values = values[:opts.MaxCommitments]
	}
	commitments := make([]sched.Commitment, 0, len(values))
	for i, cv := range values {
		plans := cv.GetListValue()
		if plans == nil {
			return nil, formatErrorf("commitment %d is not an array of plans", i)
		}
		c := sched.Commitment{}
		for j, pv := range plans.GetValues() {
			p, err := parsePlan(pv)
			if err != nil {
				return nil, fmt.Errorf("commitment %d, plan %d: %w", i, j, err)
			}
			c.Plans = append(c.Plans, p)
		}
		commitments = append(commitments, c)
	}
	log.V(1).Infof("loaded %d commitments", len(commitments))
	return commitments, nil
}

func parsePlan(v *structpb.Value) (sched.Plan, error) {
	obj := v.GetStructValue()
	if obj == nil {
		return sched.Plan{}, formatErrorf("plan is not an object")
	}
	fields := obj.GetFields()
	ceil, ok := fields[fieldCostCeil]
	if !ok {
		return sched.Plan{}, formatErrorf("missing %q", fieldCostCeil)
	}
	n, ok := ceil.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return sched.Plan{}, formatErrorf("%q is not a number", fieldCostCeil)
	}
	if n.NumberValue != math.Trunc(n.NumberValue) || math.Abs(n.NumberValue) > maxExactInt {
		return sched.Plan{}, formatErrorf("%q = %v is not an integer", fieldCostCeil, n.NumberValue)
	}

	calls := fields[fieldCalls].GetListValue()
	if calls == nil {
		return sched.Plan{}, formatErrorf("missing %q array", fieldCalls)
	}
	p := sched.Plan{Occurrences: make(map[string]bool, len(calls.GetValues())), CostCeil: int64(n.NumberValue)}
	for k, cv := range calls.GetValues() {
		pair := cv.GetListValue().GetValues()
		if len(pair) != 2 {
			return sched.Plan{}, formatErrorf("service call %d is not an [identity, is_demand] pair", k)
		}
		id, ok := pair[0].GetKind().(*structpb.Value_StringValue)
		if !ok {
			return sched.Plan{}, formatErrorf("service call %d: identity is not a string", k)
		}
		demand, ok := pair[1].GetKind().(*structpb.Value_BoolValue)
		if !ok {
			return sched.Plan{}, formatErrorf("service call %d: is_demand is not a boolean", k)
		}
		p.Occurrences[id.StringValue] = demand.BoolValue
	}
	return p, nil
}

// Write writes commitments in the record format Load reads. Service calls are written in
// identity order.
func Write(w io.Writer, commitments []sched.Commitment) error {
	root := &structpb.ListValue{}
	for _, c := range commitments {
		plans := &structpb.ListValue{}
		for _, p := range c.Plans {
			calls := &structpb.ListValue{}
			for _, o := range p.SortedOccurrences() {
				pair := &structpb.ListValue{Values: []*structpb.Value{
					structpb.NewStringValue(o.Identity),
					structpb.NewBoolValue(o.Demand),
				}}
				calls.Values = append(calls.Values, structpb.NewListValue(pair))
			}
			plans.Values = append(plans.Values, structpb.NewStructValue(&structpb.Struct{
				Fields: map[string]*structpb.Value{
					fieldCalls:    structpb.NewListValue(calls),
					fieldCostCeil: structpb.NewNumberValue(float64(p.CostCeil)),
				},
			}))
		}
		root.Values = append(root.Values, structpb.NewListValue(plans))
	}
	b, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(structpb.NewListValue(root))
	if err != nil {
		return fmt.Errorf("marshaling schedule failed: %w", err)
	}
	if _, err := w.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("writing schedule: %w", err)
	}
	return nil
}
