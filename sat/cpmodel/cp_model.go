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

// Package cpmodel offers a CP-SAT style API to build Boolean and integer models and
// solve them with a pure Go pseudo-Boolean optimizer.
//
// The `Builder` struct collects variables and constraints into a `CpModel`.
// The `IntVar` and `BoolVar` structs are references to variables of the model and can
// be combined into `LinearExpr` values to build linear constraints and the objective.
// `SolveCpModel` encodes the model into weighted pseudo-Boolean constraints, integers
// being represented by their binary digits, and returns an optimal assignment.
package cpmodel

import (
	"errors"
	"fmt"

	log "github.com/golang/glog"
)

// ErrMixedModels holds the error when elements added to a model are different.
var ErrMixedModels = errors.New("elements are not part of the same model")

type (
	// VarIndex is the index of a variable in the CpModel, if positive. If this value is
	// negative, it represents the negation of a Boolean variable in the position (-1*VarIndex-1).
	VarIndex int32
	// ConstrIndex is the index of a constraint in the CpModel.
	ConstrIndex int32
)

func (v VarIndex) positiveIndex() VarIndex {
	if v >= 0 {
		return v
	}
	return -1*v - 1
}

// LinearArgument provides an interface for BoolVar, IntVar, and LinearExpr.
type LinearArgument interface {
	addToLinearExpr(e *LinearExpr, c int64)
	evaluateSolutionValue(r *Response) int64
}

// LinearExpr is a container for a linear expression.
type LinearExpr struct {
	varCoeffs []varCoeff
	offset    int64
}

type varCoeff struct {
	ind   VarIndex
	coeff int64
}

// NewLinearExpr creates a new empty LinearExpr.
func NewLinearExpr() *LinearExpr {
	return &LinearExpr{}
}

// NewConstant creates and returns a LinearExpr containing the constant `c`.
func NewConstant(c int64) *LinearExpr {
	return &LinearExpr{offset: c}
}

// Add adds the linear argument term to the LinearExpr and returns itself.
func (l *LinearExpr) Add(la LinearArgument) *LinearExpr {
	l.AddTerm(la, 1)
	return l
}

// AddConstant adds the constant to the LinearExpr and returns itself.
func (l *LinearExpr) AddConstant(c int64) *LinearExpr {
	l.offset += c
	return l
}

// AddTerm adds the linear argument term with the given coefficient to the LinearExpr and returns itself.
func (l *LinearExpr) AddTerm(la LinearArgument, coeff int64) *LinearExpr {
	la.addToLinearExpr(l, coeff)
	return l
}

// AddSum adds the sum of the linear arguments to the LinearExpr and returns itself.
func (l *LinearExpr) AddSum(las ...LinearArgument) *LinearExpr {
	for _, la := range las {
		l.Add(la)
	}
	return l
}

// AddWeightedSum adds the linear arguments with the corresponding coefficients to the LinearExpr
// and returns itself.
func (l *LinearExpr) AddWeightedSum(las []LinearArgument, coeffs []int64) *LinearExpr {
	if len(coeffs) != len(las) {
		log.Fatalf("las and coeffs must be the same length: %v != %v", len(las), len(coeffs))
	}
	for i, la := range las {
		l.AddTerm(la, coeffs[i])
	}
	return l
}

// Offset returns the constant part of the expression.
func (l *LinearExpr) Offset() int64 {
	return l.offset
}

// NumTerms returns the number of variable terms, duplicates included.
func (l *LinearExpr) NumTerms() int {
	return len(l.varCoeffs)
}

func (l *LinearExpr) addToLinearExpr(e *LinearExpr, c int64) {
	for _, vc := range l.varCoeffs {
		e.varCoeffs = append(e.varCoeffs, varCoeff{ind: vc.ind, coeff: vc.coeff * c})
	}
	e.offset += l.offset * c
}

func (l *LinearExpr) evaluateSolutionValue(r *Response) int64 {
	result := l.offset
	for _, vc := range l.varCoeffs {
		result += r.Solution[vc.ind] * vc.coeff
	}
	return result
}

// BoolVars converts a list of BoolVar into LinearArguments, which is handy with AddSum.
func BoolVars(bvs ...BoolVar) []LinearArgument {
	out := make([]LinearArgument, len(bvs))
	for i, bv := range bvs {
		out[i] = bv
	}
	return out
}

// IntVar is a reference to an integer variable in the CP model.
type IntVar struct {
	ind VarIndex
	cpb *Builder
}

// Name returns the name of the variable.
func (i IntVar) Name() string {
	return i.cpb.model.Variables[i.ind].Name
}

// Domain returns the domain of the variable.
func (i IntVar) Domain() Domain {
	return i.cpb.model.Variables[i.ind].Domain
}

// Index returns the index of the variable.
func (i IntVar) Index() VarIndex {
	return i.ind
}

// WithName sets the name of the variable.
func (i IntVar) WithName(s string) IntVar {
	i.cpb.model.Variables[i.ind].Name = s
	return i
}

func (i IntVar) addToLinearExpr(e *LinearExpr, c int64) {
	e.varCoeffs = append(e.varCoeffs, varCoeff{ind: i.ind, coeff: c})
}

func (i IntVar) evaluateSolutionValue(r *Response) int64 {
	return r.Solution[i.ind]
}

// BoolVar is a reference to a Boolean variable or the negation of a Boolean variable in the CP
// model.
type BoolVar struct {
	ind VarIndex
	cpb *Builder
}

// Not returns the logical Not of the Boolean variable
func (b BoolVar) Not() BoolVar {
	return BoolVar{ind: -1*b.ind - 1, cpb: b.cpb}
}

// Name returns the name of the variable.
func (b BoolVar) Name() string {
	return b.cpb.model.Variables[b.ind.positiveIndex()].Name
}

// Index returns the index of the variable. If the variable is a negation of another variable v,
// its index is `-1*v.index-1`.
func (b BoolVar) Index() VarIndex {
	return b.ind
}

// WithName sets the name of the variable.
func (b BoolVar) WithName(s string) BoolVar {
	b.cpb.model.Variables[b.ind.positiveIndex()].Name = s
	return b
}

// String returns the name of the variable, wrapped in not(...) for a negation.
func (b BoolVar) String() string {
	if b.cpb == nil {
		return fmt.Sprintf("bool(%d)", b.ind)
	}
	name := b.Name()
	if name == "" {
		name = fmt.Sprintf("var_%d", b.ind.positiveIndex())
	}
	if b.ind < 0 {
		return "not(" + name + ")"
	}
	return name
}

func (b BoolVar) addToLinearExpr(e *LinearExpr, c int64) {
	if b.ind < 0 {
		e.varCoeffs = append(e.varCoeffs, varCoeff{ind: b.ind.positiveIndex(), coeff: -c})
		e.offset += c
	} else {
		e.varCoeffs = append(e.varCoeffs, varCoeff{ind: b.ind, coeff: c})
	}
}

func (b BoolVar) evaluateSolutionValue(r *Response) int64 {
	if b.ind < 0 {
		return 1 - r.Solution[b.ind.positiveIndex()]
	}
	return r.Solution[b.ind]
}

// Constraint is a reference to a constraint in the CP model.
type Constraint struct {
	ind ConstrIndex
	cpb *Builder
}

// WithName sets the name of the constraint.
func (c Constraint) WithName(s string) Constraint {
	c.cpb.model.Constraints[c.ind].Name = s
	return c
}

// Name returns the name of the constraint.
func (c Constraint) Name() string {
	return c.cpb.model.Constraints[c.ind].Name
}

// Index returns the index of the constraint.
func (c Constraint) Index() ConstrIndex {
	return c.ind
}

// OnlyEnforceIf adds a condition on the constraint. This constraint is only enforced iff all
// literals given are true.
func (c Constraint) OnlyEnforceIf(bvs ...BoolVar) Constraint {
	spec := c.cpb.model.Constraints[c.ind]
	for _, bv := range bvs {
		if !c.cpb.checkSameModelAndSetErrorf(bv.cpb, "BoolVar %v used as enforcement literal of Constraint %v", bv.Index(), c.ind) {
			continue
		}
		spec.EnforcementLiterals = append(spec.EnforcementLiterals, bv.ind)
	}
	return c
}

// checkSameModelAndSetErrorf returns true if `cp` and `cp2` point to the same Builder.
// If false, an error with the error message `errString` is set on `cp` if `cp.err`
// is nil.
func (cp *Builder) checkSameModelAndSetErrorf(cp2 *Builder, format string, a ...any) bool {
	if cp == cp2 {
		return true
	}
	var args = make([]any, len(a)+1)
	copy(args, a)
	args[len(a)] = ErrMixedModels
	err := fmt.Errorf(format+": %w", args...)
	log.Errorf("%v; use `-log_backtrace_at` flag to get the error stack", err)
	if cp.err == nil {
		cp.err = err
	}
	return false
}

// Builder collects the variables, constraints and objective of a CpModel.
type Builder struct {
	model     *CpModel
	constants map[int64]VarIndex
	fixed     map[bool]VarIndex
	// The first and only the first error is reported in Model.
	err error
}

// NewCpModelBuilder creates and returns a new CpModel Builder.
func NewCpModelBuilder() *Builder {
	return &Builder{
		model:     &CpModel{},
		constants: make(map[int64]VarIndex),
		fixed:     make(map[bool]VarIndex),
	}
}

// SetName names the model; the name only shows up in logs.
func (cp *Builder) SetName(name string) {
	cp.model.Name = name
}

func (cp *Builder) appendVariable(spec *VariableSpec) VarIndex {
	ind := VarIndex(len(cp.model.Variables))
	cp.model.Variables = append(cp.model.Variables, spec)
	return ind
}

// NewIntVar creates a new IntVar with the domain `[lb,ub]`.
func (cp *Builder) NewIntVar(lb, ub int64) IntVar {
	return cp.NewIntVarFromDomain(NewDomain(lb, ub))
}

// NewIntVarFromDomain creates a new IntVar with the given domain.
func (cp *Builder) NewIntVarFromDomain(d Domain) IntVar {
	return IntVar{cpb: cp, ind: cp.appendVariable(&VariableSpec{Domain: d})}
}

// NewBoolVar creates a new BoolVar.
func (cp *Builder) NewBoolVar() BoolVar {
	return BoolVar{cpb: cp, ind: cp.appendVariable(&VariableSpec{Domain: NewDomain(0, 1), Boolean: true})}
}

// NewConstant creates a constant variable. If this is called multiple times, the same variable will
// always be returned.
func (cp *Builder) NewConstant(v int64) IntVar {
	if i, ok := cp.constants[v]; ok {
		return IntVar{cpb: cp, ind: i}
	}
	constVar := cp.NewIntVar(v, v)
	cp.constants[v] = constVar.ind
	return constVar
}

// TrueVar creates an always true Boolean variable. If this is called multiple times, the same
// variable will always be returned.
func (cp *Builder) TrueVar() BoolVar {
	if i, ok := cp.fixed[true]; ok {
		return BoolVar{cpb: cp, ind: i}
	}
	ind := cp.appendVariable(&VariableSpec{Domain: NewSingleDomain(1), Boolean: true})
	cp.fixed[true] = ind
	return BoolVar{cpb: cp, ind: ind}
}

// FalseVar creates an always false Boolean variable. If this is called multiple times, the same
// variable will always be returned.
func (cp *Builder) FalseVar() BoolVar {
	if i, ok := cp.fixed[false]; ok {
		return BoolVar{cpb: cp, ind: i}
	}
	ind := cp.appendVariable(&VariableSpec{Domain: NewSingleDomain(0), Boolean: true})
	cp.fixed[false] = ind
	return BoolVar{cpb: cp, ind: ind}
}

func (cp *Builder) appendConstraint(ct *ConstraintSpec) Constraint {
	i := ConstrIndex(len(cp.model.Constraints))
	cp.model.Constraints = append(cp.model.Constraints, ct)
	return Constraint{cpb: cp, ind: i}
}

func (cp *Builder) literals(bvs []BoolVar) []VarIndex {
	literals := make([]VarIndex, 0, len(bvs))
	for _, b := range bvs {
		if !cp.checkSameModelAndSetErrorf(b.cpb, "BoolVar %v added to Constraint %v", b.Index(), len(cp.model.Constraints)) {
			continue
		}
		literals = append(literals, b.ind)
	}
	return literals
}

func (cp *Builder) addBoolConstraint(kind ConstraintKind, bvs []BoolVar) Constraint {
	return cp.appendConstraint(&ConstraintSpec{Kind: kind, Literals: cp.literals(bvs)})
}

// AddBoolOr adds the constraint that at least one of the literals must be true.
func (cp *Builder) AddBoolOr(bvs ...BoolVar) Constraint {
	return cp.addBoolConstraint(KindBoolOr, bvs)
}

// AddBoolAnd adds the constraint that all of the literals must be true.
func (cp *Builder) AddBoolAnd(bvs ...BoolVar) Constraint {
	return cp.addBoolConstraint(KindBoolAnd, bvs)
}

// AddAtLeastOne adds the constraint that at least one of the literals must be true.
func (cp *Builder) AddAtLeastOne(bvs ...BoolVar) Constraint {
	return cp.AddBoolOr(bvs...)
}

// AddAtMostOne adds the constraint that at most one of the literals must be true.
func (cp *Builder) AddAtMostOne(bvs ...BoolVar) Constraint {
	return cp.addBoolConstraint(KindAtMostOne, bvs)
}

// AddExactlyOne adds the constraint that exactly one of the literals must be true.
func (cp *Builder) AddExactlyOne(bvs ...BoolVar) Constraint {
	return cp.addBoolConstraint(KindExactlyOne, bvs)
}

// AddImplication adds the constraint a => b.
func (cp *Builder) AddImplication(a, b BoolVar) Constraint {
	return cp.AddBoolOr(a.Not(), b)
}

// addLinearConstraint adds `lb <= le <= ub`. The constant offset of `le` is moved to the bounds
// and terms on the same variable are merged.
func (cp *Builder) addLinearConstraint(le *LinearExpr, lb, ub int64) Constraint {
	lin := &LinearSpec{Lb: lb, Ub: ub}
	if lb != minInt64 {
		lin.Lb = lb - le.offset
	}
	if ub != maxInt64 {
		lin.Ub = ub - le.offset
	}
	pos := make(map[VarIndex]int)
	for _, vc := range le.varCoeffs {
		if i, ok := pos[vc.ind]; ok {
			lin.Coeffs[i] += vc.coeff
			continue
		}
		pos[vc.ind] = len(lin.Vars)
		lin.Vars = append(lin.Vars, vc.ind)
		lin.Coeffs = append(lin.Coeffs, vc.coeff)
	}
	return cp.appendConstraint(&ConstraintSpec{Kind: KindLinear, Linear: lin})
}

// AddLinearConstraint adds the linear constraint `lb <= expr <= ub`.
func (cp *Builder) AddLinearConstraint(expr LinearArgument, lb, ub int64) Constraint {
	return cp.addLinearConstraint(NewLinearExpr().Add(expr), lb, ub)
}

// AddEquality adds the linear constraint `lhs == rhs`.
func (cp *Builder) AddEquality(lhs LinearArgument, rhs LinearArgument) Constraint {
	diff := NewLinearExpr().Add(lhs).AddTerm(rhs, -1)
	return cp.addLinearConstraint(diff, 0, 0)
}

// AddLessOrEqual adds the linear constraint `lhs <= rhs`.
func (cp *Builder) AddLessOrEqual(lhs LinearArgument, rhs LinearArgument) Constraint {
	diff := NewLinearExpr().Add(lhs).AddTerm(rhs, -1)
	return cp.addLinearConstraint(diff, minInt64, 0)
}

// AddGreaterOrEqual adds the linear constraint `lhs >= rhs`.
func (cp *Builder) AddGreaterOrEqual(lhs LinearArgument, rhs LinearArgument) Constraint {
	diff := NewLinearExpr().Add(lhs).AddTerm(rhs, -1)
	return cp.addLinearConstraint(diff, 0, maxInt64)
}

func (cp *Builder) setObjective(obj LinearArgument, maximize bool) {
	o := NewLinearExpr().Add(obj)
	spec := &ObjectiveSpec{Offset: o.offset, Maximize: maximize}
	pos := make(map[VarIndex]int)
	for _, vc := range o.varCoeffs {
		if i, ok := pos[vc.ind]; ok {
			spec.Coeffs[i] += vc.coeff
			continue
		}
		pos[vc.ind] = len(spec.Vars)
		spec.Vars = append(spec.Vars, vc.ind)
		spec.Coeffs = append(spec.Coeffs, vc.coeff)
	}
	cp.model.Objective = spec
}

// Minimize adds a linear minimization objective.
func (cp *Builder) Minimize(obj LinearArgument) {
	cp.setObjective(obj, false)
}

// Maximize adds a linear maximization objective.
func (cp *Builder) Maximize(obj LinearArgument) {
	cp.setObjective(obj, true)
}

// Model returns the built CpModel. The model returned is a pointer to the model held by the
// Builder, and if modified, future calls to the Builder API can result in an invalid model.
//
// Model returns an error when invalid parameters have been used during model building (e.g.
// passing variables from other builders).
func (cp *Builder) Model() (*CpModel, error) {
	if cp.err != nil {
		return nil, cp.err
	}
	return cp.model, nil
}
