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
	"errors"
	"fmt"
	"math"
	"math/bits"

	"github.com/crillab/gophersat/maxsat"
	log "github.com/golang/glog"
)

const (
	minInt64 = math.MinInt64
	maxInt64 = math.MaxInt64
)

// ErrEncodingOverflow is returned when a weight or a bound of the pseudo-Boolean encoding
// does not fit in the solver's integers.
var ErrEncodingOverflow = errors.New("pseudo-Boolean encoding overflows")

func checkedAdd(a, b int64) (int64, bool) {
	s := a + b
	if (b > 0 && s < a) || (b < 0 && s > a) {
		return 0, false
	}
	return s, true
}

func checkedMul(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	p := a * b
	if p/b != a || (a == -1 && b == minInt64) || (b == -1 && a == minInt64) {
		return 0, false
	}
	return p, true
}

// pbSum is `sum(coeffs[name] * name) + offset` over positive pseudo-Boolean variables.
// Arithmetic errors are sticky and reported by err.
type pbSum struct {
	names  []string
	coeffs map[string]int64
	offset int64
	err    error
}

func newPBSum() *pbSum {
	return &pbSum{coeffs: make(map[string]int64)}
}

func (s *pbSum) overflow() {
	if s.err == nil {
		s.err = ErrEncodingOverflow
	}
}

func (s *pbSum) addConstant(c int64) {
	v, ok := checkedAdd(s.offset, c)
	if !ok {
		s.overflow()
		return
	}
	s.offset = v
}

func (s *pbSum) add(name string, c int64) {
	cur, seen := s.coeffs[name]
	if !seen {
		s.names = append(s.names, name)
	}
	v, ok := checkedAdd(cur, c)
	if !ok {
		s.overflow()
		return
	}
	s.coeffs[name] = v
}

// addLit adds `c * lit`, a negated literal contributing `c - c * name`.
func (s *pbSum) addLit(name string, negated bool, c int64) {
	if negated {
		s.addConstant(c)
		s.add(name, -c)
		return
	}
	s.add(name, c)
}

func (s *pbSum) negated() *pbSum {
	n := newPBSum()
	n.err = s.err
	n.offset = -s.offset
	for _, name := range s.names {
		n.add(name, -s.coeffs[name])
	}
	return n
}

// pbConstr is `sum(weights[i] * lits[i]) >= bound` with positive weights, each weight being
// at most bound.
type pbConstr struct {
	lits    []maxsat.Lit
	weights []int64
	bound   int64
	total   int64
}

// atLeast normalizes `s >= k`.
func (s *pbSum) atLeast(k int64) pbConstr {
	bound, ok := checkedAdd(k, -s.offset)
	if !ok {
		s.overflow()
	}
	c := pbConstr{bound: bound}
	for _, name := range s.names {
		w := s.coeffs[name]
		switch {
		case w > 0:
			c.lits = append(c.lits, maxsat.Var(name))
		case w < 0:
			c.lits = append(c.lits, maxsat.Not(name))
			w = -w
			if c.bound, ok = checkedAdd(c.bound, w); !ok {
				s.overflow()
			}
		default:
			continue
		}
		c.weights = append(c.weights, w)
	}
	for i, w := range c.weights {
		if w > c.bound && c.bound > 0 {
			c.weights[i] = c.bound
			w = c.bound
		}
		if c.total, ok = checkedAdd(c.total, w); !ok {
			s.overflow()
		}
	}
	return c
}

func (c pbConstr) trivial() bool {
	return c.bound <= 0
}

func (c pbConstr) impossible() bool {
	return c.bound > c.total
}

func (c pbConstr) constr() (maxsat.Constr, error) {
	if c.bound > math.MaxInt || c.total > math.MaxInt {
		return maxsat.Constr{}, ErrEncodingOverflow
	}
	coeffs := make([]int, len(c.weights))
	for i, w := range c.weights {
		coeffs[i] = int(w)
	}
	return maxsat.HardPBConstr(c.lits, coeffs, int(c.bound)), nil
}

// intEncoding is the binary representation of an integer variable:
// `value = lo + sum(2^b * bits[b])`.
type intEncoding struct {
	lo   int64
	bits []string
}

// encoding is the pseudo-Boolean translation of a CpModel.
type encoding struct {
	model *CpModel
	// boolNames[i] is the pseudo-Boolean variable of the Boolean variable i.
	boolNames map[VarIndex]string
	ints      map[VarIndex]*intEncoding
	hard      []maxsat.Constr
	soft      []maxsat.Constr
	// infeasible names the first constraint that can never hold.
	infeasible string
}

func boolName(i VarIndex) string {
	return fmt.Sprintf("x%d", i)
}

func bitName(i VarIndex, b int) string {
	return fmt.Sprintf("x%d_%d", i, b)
}

// encodeModel translates a valid model; see ValidateCpModel.
func encodeModel(m *CpModel) (*encoding, error) {
	e := &encoding{
		model:     m,
		boolNames: make(map[VarIndex]string),
		ints:      make(map[VarIndex]*intEncoding),
	}
	for i, v := range m.Variables {
		if err := e.encodeVariable(VarIndex(i), v); err != nil {
			return nil, fmt.Errorf("variable %d (%q): %w", i, v.Name, err)
		}
	}
	for i, ct := range m.Constraints {
		if err := e.encodeConstraint(ct); err != nil {
			return nil, fmt.Errorf("constraint %d (%q): %w", i, ct.Name, err)
		}
	}
	if m.Objective != nil {
		if err := e.encodeObjective(m.Objective); err != nil {
			return nil, fmt.Errorf("objective: %w", err)
		}
	}
	return e, nil
}

func (e *encoding) encodeVariable(i VarIndex, v *VariableSpec) error {
	lo, _ := v.Domain.Min()
	hi, _ := v.Domain.Max()
	if v.Boolean {
		name := boolName(i)
		e.boolNames[i] = name
		switch {
		case lo == 1:
			e.hard = append(e.hard, maxsat.HardClause(maxsat.Var(name)))
		case hi == 0:
			e.hard = append(e.hard, maxsat.HardClause(maxsat.Not(name)))
		}
		return nil
	}
	enc := &intEncoding{lo: lo}
	e.ints[i] = enc
	if hi == lo {
		return nil
	}
	span := uint64(hi) - uint64(lo)
	n := bits.Len64(span)
	if n >= 63 {
		return ErrEncodingOverflow
	}
	for b := 0; b < n; b++ {
		enc.bits = append(enc.bits, bitName(i, b))
	}
	if span != (uint64(1)<<n)-1 {
		upper := newPBSum()
		for b, name := range enc.bits {
			upper.add(name, -(int64(1) << b))
		}
		return e.addAtLeast(fmt.Sprintf("domain(%d)", i), upper, -int64(span), nil)
	}
	return nil
}

// addBoolLiteral adds `c * lit` for a Boolean literal index.
func (e *encoding) addBoolLiteral(s *pbSum, lit VarIndex, c int64) error {
	name, ok := e.boolNames[lit.positiveIndex()]
	if !ok {
		return fmt.Errorf("literal %d does not refer to a Boolean variable", lit)
	}
	s.addLit(name, lit < 0, c)
	return nil
}

// addTerm adds `c * var` for a positive variable index of any type.
func (e *encoding) addTerm(s *pbSum, v VarIndex, c int64) error {
	if name, ok := e.boolNames[v]; ok {
		s.add(name, c)
		return nil
	}
	enc, ok := e.ints[v]
	if !ok {
		return fmt.Errorf("unknown variable %d", v)
	}
	base, ok := checkedMul(c, enc.lo)
	if !ok {
		return ErrEncodingOverflow
	}
	s.addConstant(base)
	for b, name := range enc.bits {
		w, ok := checkedMul(c, int64(1)<<b)
		if !ok {
			return ErrEncodingOverflow
		}
		s.add(name, w)
	}
	return nil
}

// addAtLeast adds `s >= k`, relaxed by the negation of every enforcement literal.
func (e *encoding) addAtLeast(name string, s *pbSum, k int64, enforcement []VarIndex) error {
	c := s.atLeast(k)
	if s.err != nil {
		return s.err
	}
	if c.trivial() {
		return nil
	}
	if len(enforcement) > 0 {
		relaxed := newPBSum()
		for i, l := range c.lits {
			relaxed.addLit(l.Var, l.Negated, c.weights[i])
		}
		for _, lit := range enforcement {
			if err := e.addBoolLiteral(relaxed, -lit-1, c.bound); err != nil {
				return err
			}
		}
		c = relaxed.atLeast(c.bound)
		if relaxed.err != nil {
			return relaxed.err
		}
		if c.trivial() {
			return nil
		}
	}
	if c.impossible() {
		if e.infeasible == "" {
			e.infeasible = name
		}
		return nil
	}
	ct, err := c.constr()
	if err != nil {
		return err
	}
	e.hard = append(e.hard, ct)
	return nil
}

func (e *encoding) literalSum(lits []VarIndex) (*pbSum, error) {
	s := newPBSum()
	for _, lit := range lits {
		if err := e.addBoolLiteral(s, lit, 1); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (e *encoding) encodeConstraint(ct *ConstraintSpec) error {
	name := ct.Name
	if name == "" {
		name = ct.Kind.String()
	}
	if ct.Kind == KindLinear {
		s := newPBSum()
		for i, v := range ct.Linear.Vars {
			if err := e.addTerm(s, v, ct.Linear.Coeffs[i]); err != nil {
				return err
			}
		}
		if ct.Linear.Lb != minInt64 {
			if err := e.addAtLeast(name, s, ct.Linear.Lb, ct.EnforcementLiterals); err != nil {
				return err
			}
		}
		if ct.Linear.Ub != maxInt64 {
			if err := e.addAtLeast(name, s.negated(), -ct.Linear.Ub, ct.EnforcementLiterals); err != nil {
				return err
			}
		}
		return nil
	}

	s, err := e.literalSum(ct.Literals)
	if err != nil {
		return err
	}
	n := int64(len(ct.Literals))
	switch ct.Kind {
	case KindBoolOr:
		return e.addAtLeast(name, s, 1, ct.EnforcementLiterals)
	case KindBoolAnd:
		return e.addAtLeast(name, s, n, ct.EnforcementLiterals)
	case KindAtMostOne:
		return e.addAtLeast(name, s.negated(), -1, ct.EnforcementLiterals)
	case KindExactlyOne:
		if err := e.addAtLeast(name, s, 1, ct.EnforcementLiterals); err != nil {
			return err
		}
		return e.addAtLeast(name, s.negated(), -1, ct.EnforcementLiterals)
	}
	return fmt.Errorf("unsupported constraint kind %v", ct.Kind)
}

// encodeObjective turns the objective into weighted soft clauses whose violation cost is the
// value to minimize, up to a constant.
func (e *encoding) encodeObjective(obj *ObjectiveSpec) error {
	s := newPBSum()
	for i, v := range obj.Vars {
		c := obj.Coeffs[i]
		if obj.Maximize {
			c = -c
		}
		if err := e.addTerm(s, v, c); err != nil {
			return err
		}
	}
	if s.err != nil {
		return s.err
	}
	for _, name := range s.names {
		w := s.coeffs[name]
		if w > math.MaxInt || -w > math.MaxInt {
			return ErrEncodingOverflow
		}
		switch {
		case w > 0:
			e.soft = append(e.soft, maxsat.WeightedClause([]maxsat.Lit{maxsat.Not(name)}, int(w)))
		case w < 0:
			e.soft = append(e.soft, maxsat.WeightedClause([]maxsat.Lit{maxsat.Var(name)}, int(-w)))
		}
	}
	return nil
}

// decode reads the value of every model variable from a pseudo-Boolean assignment.
// Variables that no constraint mentions are absent from the assignment and read as false.
func (e *encoding) decode(assignment maxsat.Model) []int64 {
	solution := make([]int64, len(e.model.Variables))
	for i := range e.model.Variables {
		ind := VarIndex(i)
		if name, ok := e.boolNames[ind]; ok {
			if assignment[name] {
				solution[i] = 1
			}
			continue
		}
		enc := e.ints[ind]
		v := enc.lo
		for b, name := range enc.bits {
			if assignment[name] {
				v += int64(1) << b
			}
		}
		solution[i] = v
	}
	log.V(2).Infof("decoded %d variables from %d pseudo-Boolean bindings", len(solution), len(assignment))
	return solution
}
