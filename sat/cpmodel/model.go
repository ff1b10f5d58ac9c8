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

// CpModel is the plain description of a model produced by a Builder. Variable indices
// in constraints and objectives refer to positions in Variables; a negative index -i-1
// refers to the negation of the Boolean variable i.
type CpModel struct {
	Name        string
	Variables   []*VariableSpec
	Constraints []*ConstraintSpec
	Objective   *ObjectiveSpec
}

// VariableSpec describes a single variable. Boolean variables have the domain [0,1].
type VariableSpec struct {
	Name   string
	Domain Domain
	// Boolean is set for variables created through NewBoolVar, TrueVar and FalseVar.
	Boolean bool
}

// ConstraintKind selects which of the fields of a ConstraintSpec is meaningful.
type ConstraintKind int

// Supported constraint kinds.
const (
	KindBoolOr ConstraintKind = iota
	KindBoolAnd
	KindAtMostOne
	KindExactlyOne
	KindLinear
)

var kindNames = map[ConstraintKind]string{
	KindBoolOr:     "bool_or",
	KindBoolAnd:    "bool_and",
	KindAtMostOne:  "at_most_one",
	KindExactlyOne: "exactly_one",
	KindLinear:     "linear",
}

func (k ConstraintKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ConstraintSpec describes one constraint. It only has to hold when every literal of
// EnforcementLiterals is true.
type ConstraintSpec struct {
	Name                string
	Kind                ConstraintKind
	EnforcementLiterals []VarIndex
	// Literals is used by the Boolean kinds.
	Literals []VarIndex
	// Linear is used by KindLinear.
	Linear *LinearSpec
}

// LinearSpec is `lb <= sum(Coeffs[i] * Vars[i]) <= ub`. Vars are never negated.
type LinearSpec struct {
	Vars   []VarIndex
	Coeffs []int64
	Lb, Ub int64
}

// ObjectiveSpec is `sum(Coeffs[i] * Vars[i]) + Offset`, to minimize or maximize.
type ObjectiveSpec struct {
	Vars     []VarIndex
	Coeffs   []int64
	Offset   int64
	Maximize bool
}
