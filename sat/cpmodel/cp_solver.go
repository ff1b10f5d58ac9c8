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
	"context"
	"fmt"
	"time"

	"github.com/crillab/gophersat/maxsat"
	log "github.com/golang/glog"
)

// SolverStatus is the outcome of a solve.
type SolverStatus int

// Solver statuses.
const (
	Unknown SolverStatus = iota
	ModelInvalid
	Feasible
	Infeasible
	Optimal
)

func (s SolverStatus) String() string {
	switch s {
	case ModelInvalid:
		return "MODEL_INVALID"
	case Feasible:
		return "FEASIBLE"
	case Infeasible:
		return "INFEASIBLE"
	case Optimal:
		return "OPTIMAL"
	}
	return "UNKNOWN"
}

// Response is the result of a solve.
type Response struct {
	Status SolverStatus
	// ObjectiveValue is the value of the objective at Solution, including its offset.
	ObjectiveValue int64
	// Solution holds one value per model variable when Status is Optimal.
	Solution []int64
	// SolutionInfo explains ModelInvalid statuses and names the constraint that proved
	// infeasibility when one does on its own.
	SolutionInfo string

	NumBooleans    int
	NumConstraints int
	WallTime       time.Duration
}

// Params tunes a solve.
type Params struct {
	// Verbose prints the search progress of the underlying solver on stdout.
	Verbose bool
}

// SolveCpModel solves a CP Model and returns a Response.
func SolveCpModel(input *CpModel) (*Response, error) {
	return SolveCpModelWithParameters(input, nil)
}

// SolveCpModelWithParameters solves a CP Model with the given solver parameters and returns
// a Response.
func SolveCpModelWithParameters(input *CpModel, params *Params) (*Response, error) {
	return SolveCpModelWithContext(context.Background(), input, params)
}

// SolveCpModelWithContext solves a CP Model and returns a Response. When ctx is done before
// the search ends, the response has the Unknown status and ctx.Err() is returned. Only the
// caller is released: the search cannot be interrupted and keeps running in its own
// goroutine until it ends, and its result is then dropped.
func SolveCpModelWithContext(ctx context.Context, input *CpModel, params *Params) (*Response, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return &Response{Status: Unknown}, err
	}
	if msg := ValidateCpModel(input); msg != "" {
		log.V(1).Infof("model %q is invalid: %s", input.Name, msg)
		return &Response{Status: ModelInvalid, SolutionInfo: msg}, nil
	}

	enc, err := encodeModel(input)
	if err != nil {
		return nil, fmt.Errorf("encoding model %q failed: %w", input.Name, err)
	}
	res := &Response{NumConstraints: len(enc.hard)}
	for _, ie := range enc.ints {
		res.NumBooleans += len(ie.bits)
	}
	res.NumBooleans += len(enc.boolNames)
	if enc.infeasible != "" {
		res.Status = Infeasible
		res.SolutionInfo = fmt.Sprintf("constraint %q can never hold", enc.infeasible)
		res.WallTime = time.Since(start)
		return res, nil
	}
	if err := ctx.Err(); err != nil {
		res.Status = Unknown
		return res, err
	}

	type result struct {
		model maxsat.Model
		cost  int
	}
	done := make(chan result, 1)
	if len(enc.hard)+len(enc.soft) == 0 {
		done <- result{model: maxsat.Model{}}
	} else {
		pb := maxsat.New(append(enc.hard, enc.soft...)...)
		if params != nil && params.Verbose {
			pb.SetVerbose(true)
		}
		go func() {
			model, cost := pb.Solve()
			done <- result{model, cost}
		}()
	}

	var r result
	select {
	case <-ctx.Done():
		res.Status = Unknown
		res.WallTime = time.Since(start)
		return res, ctx.Err()
	case r = <-done:
	}
	res.WallTime = time.Since(start)

	if r.model == nil {
		res.Status = Infeasible
		log.V(1).Infof("model %q is infeasible (%d booleans, %d constraints, %v)", input.Name, res.NumBooleans, res.NumConstraints, res.WallTime)
		return res, nil
	}
	res.Status = Optimal
	res.Solution = enc.decode(r.model)
	if obj := input.Objective; obj != nil {
		res.ObjectiveValue = obj.Offset
		for i, v := range obj.Vars {
			res.ObjectiveValue += obj.Coeffs[i] * res.Solution[v]
		}
	}
	log.V(1).Infof("model %q solved: objective=%d cost=%d (%d booleans, %d constraints, %v)",
		input.Name, res.ObjectiveValue, r.cost, res.NumBooleans, res.NumConstraints, res.WallTime)
	return res, nil
}

// ValidateCpModel returns a description of the first problem found in the model, or an
// empty string when the model can be solved.
func ValidateCpModel(m *CpModel) string {
	if m == nil {
		return "nil model"
	}
	n := VarIndex(len(m.Variables))
	for i, v := range m.Variables {
		if v.Domain.IsEmpty() {
			return fmt.Sprintf("variable %d (%q) has an empty domain", i, v.Name)
		}
		if !v.Domain.IsContiguous() {
			return fmt.Sprintf("variable %d (%q) has the non contiguous domain %v", i, v.Name, v.Domain)
		}
		if v.Boolean {
			lo, _ := v.Domain.Min()
			hi, _ := v.Domain.Max()
			if lo < 0 || hi > 1 {
				return fmt.Sprintf("Boolean variable %d (%q) has the domain %v", i, v.Name, v.Domain)
			}
		}
	}
	isLiteral := func(l VarIndex) bool {
		p := l.positiveIndex()
		return p < n && m.Variables[p].Boolean
	}
	for i, ct := range m.Constraints {
		for _, l := range ct.EnforcementLiterals {
			if !isLiteral(l) {
				return fmt.Sprintf("constraint %d has the invalid enforcement literal %d", i, l)
			}
		}
		switch ct.Kind {
		case KindBoolOr, KindBoolAnd, KindAtMostOne, KindExactlyOne:
			for _, l := range ct.Literals {
				if !isLiteral(l) {
					return fmt.Sprintf("constraint %d has the invalid literal %d", i, l)
				}
			}
		case KindLinear:
			lin := ct.Linear
			if lin == nil {
				return fmt.Sprintf("linear constraint %d has no terms", i)
			}
			if len(lin.Vars) != len(lin.Coeffs) {
				return fmt.Sprintf("linear constraint %d has %d variables and %d coefficients", i, len(lin.Vars), len(lin.Coeffs))
			}
			for _, v := range lin.Vars {
				if v < 0 || v >= n {
					return fmt.Sprintf("linear constraint %d has the invalid variable %d", i, v)
				}
			}
			if lin.Lb > lin.Ub {
				return fmt.Sprintf("linear constraint %d has the empty range [%d,%d]", i, lin.Lb, lin.Ub)
			}
		default:
			return fmt.Sprintf("constraint %d has the unsupported kind %v", i, ct.Kind)
		}
	}
	if obj := m.Objective; obj != nil {
		if len(obj.Vars) != len(obj.Coeffs) {
			return fmt.Sprintf("objective has %d variables and %d coefficients", len(obj.Vars), len(obj.Coeffs))
		}
		for _, v := range obj.Vars {
			if v < 0 || v >= n {
				return fmt.Sprintf("objective has the invalid variable %d", v)
			}
		}
	}
	return ""
}

// SolutionBooleanValue returns the value of BoolVar `bv` in the response.
func SolutionBooleanValue(r *Response, bv BoolVar) bool {
	return bv.evaluateSolutionValue(r) != 0
}

// SolutionIntegerValue returns the value of LinearArgument `la` in the response.
func SolutionIntegerValue(r *Response, la LinearArgument) int64 {
	return la.evaluateSolutionValue(r)
}
