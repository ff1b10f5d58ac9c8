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

	log "github.com/golang/glog"
)

// Example_reified enforces a Boolean and with a literal.
func Example_reified() {
	model := NewCpModelBuilder()

	x := model.NewBoolVar().WithName("x")
	y := model.NewBoolVar().WithName("y")
	b := model.NewBoolVar().WithName("b")

	model.AddBoolAnd(x, y.Not()).OnlyEnforceIf(b)
	model.AddBoolOr(b)

	m, err := model.Model()
	if err != nil {
		log.Exitf("failed to instantiate the CP model: %v", err)
	}
	res, err := SolveCpModel(m)
	if err != nil {
		log.Exitf("failed to solve the model: %v", err)
	}

	fmt.Printf("Status: %v\n", res.Status)
	fmt.Printf("x: %v y: %v b: %v\n", SolutionBooleanValue(res, x), SolutionBooleanValue(res, y), SolutionBooleanValue(res, b))
	// Output:
	// Status: OPTIMAL
	// x: true y: false b: true
}

// Example_booleanProduct channels p to the product of x and y.
func Example_booleanProduct() {
	model := NewCpModelBuilder()

	x := model.NewBoolVar().WithName("x")
	y := model.NewBoolVar().WithName("y")
	p := model.NewBoolVar().WithName("p")

	// x and y implies p, rewrite as not(x and y) or p.
	model.AddBoolOr(x.Not(), y.Not(), p)

	// p implies x and y, expanded into two implications.
	model.AddImplication(p, x)
	model.AddImplication(p, y)

	model.Maximize(p)

	m, err := model.Model()
	if err != nil {
		log.Exitf("failed to instantiate the CP model: %v", err)
	}
	res, err := SolveCpModel(m)
	if err != nil {
		log.Exitf("failed to solve the model: %v", err)
	}

	fmt.Printf("Status: %v\n", res.Status)
	fmt.Printf("x: %v y: %v p: %v\n", SolutionBooleanValue(res, x), SolutionBooleanValue(res, y), SolutionBooleanValue(res, p))
	// Output:
	// Status: OPTIMAL
	// x: true y: true p: true
}

// Example_simpleSatProgram maximizes a weighted sum under a capacity.
func Example_simpleSatProgram() {
	model := NewCpModelBuilder()

	domain := NewDomain(0, 2)
	x := model.NewIntVarFromDomain(domain).WithName("x")
	y := model.NewIntVarFromDomain(domain).WithName("y")
	z := model.NewIntVarFromDomain(domain).WithName("z")

	model.AddLessOrEqual(NewLinearExpr().AddSum(x, y), NewConstant(3))
	model.Maximize(NewLinearExpr().AddWeightedSum([]LinearArgument{x, y, z}, []int64{1, 2, 3}))

	m, err := model.Model()
	if err != nil {
		log.Exitf("failed to instantiate the CP model: %v", err)
	}
	res, err := SolveCpModel(m)
	if err != nil {
		log.Exitf("failed to solve the model: %v", err)
	}

	switch res.Status {
	case Optimal, Feasible:
		fmt.Printf("objective = %d\n", res.ObjectiveValue)
		fmt.Printf("x = %d\n", SolutionIntegerValue(res, x))
		fmt.Printf("y = %d\n", SolutionIntegerValue(res, y))
		fmt.Printf("z = %d\n", SolutionIntegerValue(res, z))
	default:
		fmt.Println("No solution found.")
	}
	// Output:
	// objective = 11
	// x = 1
	// y = 2
	// z = 2
}
