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
	"errors"
	"testing"
)

func TestCpSolver_SolveIntVar(t *testing.T) {
	model := NewCpModelBuilder()

	x := model.NewIntVar(1, 10)
	y := model.NewIntVar(1, 10)

	model.AddEquality(NewLinearExpr().AddSum(x, y), NewConstant(15))
	model.Maximize(NewLinearExpr().AddTerm(x, 7).AddTerm(y, 1))

	m, err := model.Model()
	if err != nil {
		t.Fatalf("Model() returned with unexpected error %v", err)
	}

	res, err := SolveCpModel(m)
	if err != nil {
		t.Fatalf("SolveCpModel returned with unexpected err: %v", err)
	}
	if want, got := Optimal, res.Status; want != got {
		t.Errorf("SolveCpModel() returned status = %v, want %v", got, want)
	}
	if want, got := int64(75), res.ObjectiveValue; want != got {
		t.Errorf("SolveCpModel() returned objective = %v, want %v", got, want)
	}
	wantX := int64(10)
	wantY := int64(5)
	gotX := SolutionIntegerValue(res, x)
	gotY := SolutionIntegerValue(res, y)
	if wantX != gotX || wantY != gotY {
		t.Errorf("SolutionIntegerValue() returned (x, y) = (%v, %v), want (%v, %v)", gotX, gotY, wantX, wantY)
	}
}

func TestCpSolver_SolveNegativeDomain(t *testing.T) {
	model := NewCpModelBuilder()

	x := model.NewIntVar(-7, 4)
	y := model.NewIntVar(-3, 3)

	model.AddLessOrEqual(NewLinearExpr().AddSum(x, y), NewConstant(-2))
	model.Minimize(NewLinearExpr().AddTerm(x, -1).AddTerm(y, 2))

	m, err := model.Model()
	if err != nil {
		t.Fatalf("Model() returned with unexpected error %v", err)
	}

	res, err := SolveCpModel(m)
	if err != nil {
		t.Fatalf("SolveCpModel returned with unexpected err: %v", err)
	}
	if res.Status != Optimal {
		t.Fatalf("SolveCpModel() returned status = %v, want %v", res.Status, Optimal)
	}
	// x + y <= -2 with y = -3 allows x = 1.
	if want, got := int64(-7), res.ObjectiveValue; want != got {
		t.Errorf("SolveCpModel() returned objective = %v, want %v", got, want)
	}
	if gotX, gotY := SolutionIntegerValue(res, x), SolutionIntegerValue(res, y); gotX != 1 || gotY != -3 {
		t.Errorf("SolutionIntegerValue() returned (x, y) = (%v, %v), want (1, -3)", gotX, gotY)
	}
}

func TestCpSolver_SolveBoolVar(t *testing.T) {
	model := NewCpModelBuilder()

	x := model.NewBoolVar()
	y := model.NewBoolVar()

	model.AddBoolOr(x, y.Not())
	model.Minimize(x)

	m, err := model.Model()
	if err != nil {
		t.Fatalf("Model() returned with unexpected error %v", err)
	}

	res, err := SolveCpModel(m)
	if err != nil {
		t.Fatalf("SolveCpModel returned with unexpected err: %v", err)
	}
	if want, got := Optimal, res.Status; want != got {
		t.Errorf("SolveCpModel() return status = %v, want %v", got, want)
	}
	if want, got := int64(0), res.ObjectiveValue; want != got {
		t.Errorf("SolveCpModel() returned objective = %v, want %v", got, want)
	}
	gotX := SolutionBooleanValue(res, x)
	gotY := SolutionBooleanValue(res, y)
	if gotX || gotY {
		t.Errorf("SolutionBooleanValue() returned (x, y) = (%v, %v), want (false, false)", gotX, gotY)
	}
	gotNotX := SolutionBooleanValue(res, x.Not())
	gotNotY := SolutionBooleanValue(res, y.Not())
	if !gotNotX || !gotNotY {
		t.Errorf("SolutionBooleanValue() returned (x.Not(), y.Not()) = (%v, %v), want (true, true)", gotNotX, gotNotY)
	}
}

func TestCpSolver_EnforcedCardinality(t *testing.T) {
	model := NewCpModelBuilder()

	c := model.NewBoolVar()
	p1 := model.NewBoolVar()
	p2 := model.NewBoolVar()
	p3 := model.NewBoolVar()

	model.AddExactlyOne(p1, p2, p3).OnlyEnforceIf(c)
	model.AddEquality(NewLinearExpr().AddSum(p1, p2, p3), NewConstant(0)).OnlyEnforceIf(c.Not())
	model.AddBoolAnd(c)
	model.Maximize(NewLinearExpr().AddTerm(p1, 1).AddTerm(p2, 3).AddTerm(p3, 2))

	m, err := model.Model()
	if err != nil {
		t.Fatalf("Model() returned with unexpected error %v", err)
	}
	res, err := SolveCpModel(m)
	if err != nil {
		t.Fatalf("SolveCpModel returned with unexpected err: %v", err)
	}
	if res.Status != Optimal {
		t.Fatalf("SolveCpModel() returned status = %v, want %v", res.Status, Optimal)
	}
	if want, got := int64(3), res.ObjectiveValue; want != got {
		t.Errorf("SolveCpModel() returned objective = %v, want %v", got, want)
	}
	if !SolutionBooleanValue(res, p2) || SolutionBooleanValue(res, p1) || SolutionBooleanValue(res, p3) {
		t.Errorf("SolutionBooleanValue() returned (p1, p2, p3) = (%v, %v, %v), want (false, true, false)",
			SolutionBooleanValue(res, p1), SolutionBooleanValue(res, p2), SolutionBooleanValue(res, p3))
	}
}

func TestCpSolver_InvalidModel(t *testing.T) {
	model := NewCpModelBuilder()

	x := model.NewIntVar(0, -1)
	y := model.NewIntVar(0, 10)

	model.Maximize(NewLinearExpr().AddSum(x, y))

	m, err := model.Model()
	if err != nil {
		t.Fatalf("Model() returned with unexpected error %v", err)
	}

	res, err := SolveCpModel(m)
	if err != nil {
		t.Errorf("SolveCpModel returned with unexpected err: %v", err)
	}
	if want, got := ModelInvalid, res.Status; want != got {
		t.Errorf("SolveCpModel() returned status = %v, want %v", got, want)
	}
}

func TestCpSolver_InfeasibleModel(t *testing.T) {
	model := NewCpModelBuilder()

	x := model.NewIntVar(0, 5)
	y := model.NewIntVar(0, 5)

	// Infeasible constraint
	model.AddEquality(NewLinearExpr().AddSum(x, y), NewConstant(-5))

	m, err := model.Model()
	if err != nil {
		t.Fatalf("Model() returned with unexpected error %v", err)
	}

	res, err := SolveCpModel(m)
	if err != nil {
		t.Errorf("SolveCpModel returned with unexpected err: %v", err)
	}
	if want, got := Infeasible, res.Status; want != got {
		t.Errorf("SolveCpModel() returned status = %v, want %v", got, want)
	}
}

func TestCpSolver_InfeasibleSearch(t *testing.T) {
	model := NewCpModelBuilder()

	x := model.NewBoolVar()
	y := model.NewBoolVar()

	model.AddBoolOr(x, y)
	model.AddImplication(x, y.Not())
	model.AddImplication(y, x.Not())
	model.AddBoolAnd(x.Not()).OnlyEnforceIf(y)
	model.AddBoolAnd(y.Not()).OnlyEnforceIf(x)
	model.AddExactlyOne(x, y).OnlyEnforceIf(x.Not())

	m, err := model.Model()
	if err != nil {
		t.Fatalf("Model() returned with unexpected error %v", err)
	}
	res, err := SolveCpModel(m)
	if err != nil {
		t.Fatalf("SolveCpModel returned with unexpected err: %v", err)
	}
	// Exactly one of x and y holds, so the model is feasible.
	if want, got := Optimal, res.Status; want != got {
		t.Fatalf("SolveCpModel() returned status = %v, want %v", got, want)
	}

	model.AddAtMostOne(x.Not(), y.Not()).OnlyEnforceIf(x)
	model.AddBoolAnd(x.Not(), y.Not())
	res, err = SolveCpModel(mustModel(t, model))
	if err != nil {
		t.Fatalf("SolveCpModel returned with unexpected err: %v", err)
	}
	if want, got := Infeasible, res.Status; want != got {
		t.Errorf("SolveCpModel() returned status = %v, want %v", got, want)
	}
}

func TestCpSolver_SolveWithParameters(t *testing.T) {
	model := NewCpModelBuilder()

	x := model.NewBoolVar()
	model.Maximize(x)

	m, err := model.Model()
	if err != nil {
		t.Fatalf("Model() returned with unexpected error %v", err)
	}
	res, err := SolveCpModelWithParameters(m, &Params{})
	if err != nil {
		t.Fatalf("SolveCpModelWithParameters returned with unexpected err: %v", err)
	}
	if res.Status != Optimal || !SolutionBooleanValue(res, x) {
		t.Errorf("SolveCpModelWithParameters() returned (status, x) = (%v, %v), want (%v, true)", res.Status, SolutionBooleanValue(res, x), Optimal)
	}
}

func TestCpSolver_SolveCancelled(t *testing.T) {
	model := NewCpModelBuilder()

	x := model.NewBoolVar()
	model.Maximize(x)

	m, err := model.Model()
	if err != nil {
		t.Fatalf("Model() returned with unexpected error %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := SolveCpModelWithContext(ctx, m, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("SolveCpModelWithContext() returned with unexpected err %v; want context.Canceled", err)
	}
	if want, got := Unknown, res.Status; want != got {
		t.Errorf("SolveCpModelWithContext() returned status = %v, want %v", got, want)
	}
}

func TestCpSolver_EmptyModel(t *testing.T) {
	model := NewCpModelBuilder()
	x := model.NewBoolVar()

	res, err := SolveCpModel(mustModel(t, model))
	if err != nil {
		t.Fatalf("SolveCpModel returned with unexpected err: %v", err)
	}
	if res.Status != Optimal || SolutionBooleanValue(res, x) {
		t.Errorf("SolveCpModel() returned (status, x) = (%v, %v), want (%v, false)", res.Status, SolutionBooleanValue(res, x), Optimal)
	}
}
