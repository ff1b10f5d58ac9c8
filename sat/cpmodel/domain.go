// Copyright 2010-2024 Google LLC
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

package cpmodel

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// ClosedInterval stores the closed interval `[start,end]`. If the `Start` is greater
// than the `End`, the interval is considered empty.
type ClosedInterval struct {
	Start int64
	End   int64
}

func (c ClosedInterval) empty() bool {
	return c.Start > c.End
}

// Domain is a sorted list of disjoint, non-adjacent closed intervals. The solver only
// accepts contiguous domains for integer variables; the extra structure is kept so
// that callers can describe a domain once and check membership against it.
type Domain struct {
	intervals []ClosedInterval
}

// normalize drops empty intervals, sorts the rest and merges the ones that overlap or
// touch.
func (d *Domain) normalize() {
	kept := d.intervals[:0]
	for _, itv := range d.intervals {
		if !itv.empty() {
			kept = append(kept, itv)
		}
	}
	if len(kept) == 0 {
		d.intervals = nil
		return
	}
	sort.Slice(kept, func(i, j int) bool {
		if kept[i].Start != kept[j].Start {
			return kept[i].Start < kept[j].Start
		}
		return kept[i].End < kept[j].End
	})
	merged := []ClosedInterval{kept[0]}
	for _, itv := range kept[1:] {
		last := &merged[len(merged)-1]
		if last.End == math.MaxInt64 || last.End+1 >= itv.Start {
			if itv.End > last.End {
				last.End = itv.End
			}
			continue
		}
		merged = append(merged, itv)
	}
	d.intervals = merged
}

// NewEmptyDomain creates an empty Domain.
func NewEmptyDomain() Domain {
	return Domain{}
}

// NewSingleDomain creates the singleton domain `[val]`.
func NewSingleDomain(val int64) Domain {
	return Domain{[]ClosedInterval{{val, val}}}
}

// NewDomain creates the domain `[left,right]`, or an empty domain if `left > right`.
func NewDomain(left, right int64) Domain {
	if left > right {
		return NewEmptyDomain()
	}
	return Domain{[]ClosedInterval{{left, right}}}
}

// FromIntervals creates a domain from the union of `intervals`, which need not be sorted.
func FromIntervals(intervals []ClosedInterval) Domain {
	d := Domain{append([]ClosedInterval(nil), intervals...)}
	d.normalize()
	return d
}

// FromFlatIntervals creates a domain from `[s0, e0, s1, e1, ...]`. It returns an error if
// the number of bounds is odd.
func FromFlatIntervals(bounds []int64) (Domain, error) {
	if len(bounds)%2 != 0 {
		return NewEmptyDomain(), fmt.Errorf("len(bounds)=%v must be a multiple of 2", len(bounds))
	}
	var intervals []ClosedInterval
	for i := 0; i < len(bounds); i += 2 {
		intervals = append(intervals, ClosedInterval{bounds[i], bounds[i+1]})
	}
	return FromIntervals(intervals), nil
}

// FlattenedIntervals returns the bounds of the domain as `[s0, e0, s1, e1, ...]`.
func (d Domain) FlattenedIntervals() []int64 {
	var out []int64
	for _, itv := range d.intervals {
		out = append(out, itv.Start, itv.End)
	}
	return out
}

// Min returns the smallest value of the domain, and false if the domain is empty.
func (d Domain) Min() (int64, bool) {
	if len(d.intervals) == 0 {
		return 0, false
	}
	return d.intervals[0].Start, true
}

// Max returns the largest value of the domain, and false if the domain is empty.
func (d Domain) Max() (int64, bool) {
	if len(d.intervals) == 0 {
		return 0, false
	}
	return d.intervals[len(d.intervals)-1].End, true
}

// IsEmpty reports whether the domain contains no value.
func (d Domain) IsEmpty() bool {
	return len(d.intervals) == 0
}

// IsContiguous reports whether the domain is a single non-empty interval.
func (d Domain) IsContiguous() bool {
	return len(d.intervals) == 1
}

// Contains reports whether v belongs to the domain.
func (d Domain) Contains(v int64) bool {
	i := sort.Search(len(d.intervals), func(i int) bool { return d.intervals[i].End >= v })
	return i < len(d.intervals) && d.intervals[i].Start <= v
}

// String returns the domain as `[a,b][c]...`.
func (d Domain) String() string {
	var sb strings.Builder
	for _, itv := range d.intervals {
		if itv.Start == itv.End {
			fmt.Fprintf(&sb, "[%d]", itv.Start)
		} else {
			fmt.Fprintf(&sb, "[%d,%d]", itv.Start, itv.End)
		}
	}
	return sb.String()
}
