// Copyright 2019 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package boolean implements a tiny boolean equation algebra and an
// iterated-substitution fixpoint solver over it. It backs both the
// grammar-level nullability/well-formedness analysis (package
// analysis) and a standalone per-rule cache inside package expr, so
// both layers share exactly the same solving code and are guaranteed
// to agree (spec §9's testable equivalence).
package boolean

import "fmt"

// Expr is a boolean equation term: a constant, a variable, or a
// composition of And/Or/Not over other terms.
type Expr interface {
	// Evaluate substitutes every Var bound in env and simplifies. It
	// never mutates the receiver.
	Evaluate(env Env) Expr
	// Unwrap returns the concrete bool this term has collapsed to, or
	// (false, false) if it has not yet collapsed to a constant.
	Unwrap() (value bool, ok bool)
}

// Var names one equation's unknown, namespaced so the same rule name
// can carry both a nullable and a well-formed unknown without clashing.
type Var struct {
	Name string
	NS   string
}

func (v Var) Evaluate(env Env) Expr {
	if e, ok := env[v]; ok {
		return e
	}
	return v
}

func (v Var) Unwrap() (bool, bool) { return false, false }

// Env is the set of variables the solver has pinned to a constant so
// far.
type Env map[Var]Expr

// Const is a boolean literal.
type Const bool

func (c Const) Evaluate(Env) Expr       { return c }
func (c Const) Unwrap() (bool, bool)    { return bool(c), true }

// True and False are the two literal terms.
var (
	True  Expr = Const(true)
	False Expr = Const(false)
)

// And is the conjunction of items.
type And struct{ Items []Expr }

func (a And) Evaluate(env Env) Expr {
	var items []Expr
	for _, it := range a.Items {
		it = it.Evaluate(env)
		if v, ok := it.Unwrap(); ok {
			if !v {
				return False
			}
			continue
		}
		items = append(items, it)
	}
	if len(items) == 0 {
		return True
	}
	if len(items) == 1 {
		return items[0]
	}
	return And{Items: items}
}

func (And) Unwrap() (bool, bool) { return false, false }

// Or is the disjunction of items.
type Or struct{ Items []Expr }

func (o Or) Evaluate(env Env) Expr {
	var items []Expr
	for _, it := range o.Items {
		it = it.Evaluate(env)
		if v, ok := it.Unwrap(); ok {
			if v {
				return True
			}
			continue
		}
		items = append(items, it)
	}
	if len(items) == 0 {
		return False
	}
	if len(items) == 1 {
		return items[0]
	}
	return Or{Items: items}
}

func (Or) Unwrap() (bool, bool) { return false, false }

// Not negates Item.
type Not struct{ Item Expr }

func (n Not) Evaluate(env Env) Expr {
	it := n.Item.Evaluate(env)
	if v, ok := it.Unwrap(); ok {
		return Const(!v)
	}
	return Not{Item: it}
}

func (Not) Unwrap() (bool, bool) { return false, false }

// FixpointExceededError reports that the iterated-substitution solver
// did not converge within the iteration cap (spec §5/§9): a distinct
// implementer fault, never silently downgraded to a false verdict.
type FixpointExceededError struct {
	Cap int
}

func (e *FixpointExceededError) Error() string {
	return fmt.Sprintf("pegtree: boolean fixpoint solver exceeded %d passes without converging", e.Cap)
}

// MaxPasses bounds the solver per spec §5's "design value: several
// hundred passes, ample for grammars of realistic size."
const MaxPasses = 512

// Solve resolves as many equations as possible by repeated
// substitution: evaluate every pending equation against the current
// environment; any that collapses to True or False is pinned and
// unlocks further passes; repeat until a full pass pins nothing new.
// Variables that never pin are returned bound to their residual,
// simplified expression, whose Unwrap reports ok == false — callers
// that need a default (spec: "not pinned is treated as false" for
// well-formedness) must apply it themselves.
func Solve(equations map[Var]Expr) (Env, error) {
	env := make(Env, len(equations))
	pending := make(map[Var]Expr, len(equations))
	for k, v := range equations {
		pending[k] = v
	}
	for pass := 0; len(pending) > 0; pass++ {
		if pass >= MaxPasses {
			return env, &FixpointExceededError{Cap: MaxPasses}
		}
		progressed := false
		next := make(map[Var]Expr, len(pending))
		for v, e := range pending {
			e = e.Evaluate(env)
			if val, ok := e.Unwrap(); ok {
				env[v] = Const(val)
				progressed = true
				continue
			}
			next[v] = e
		}
		pending = next
		if !progressed {
			break
		}
	}
	for v, e := range pending {
		env[v] = e
	}
	return env, nil
}
