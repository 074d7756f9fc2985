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

package expr

import (
	"fmt"

	"github.com/salikh/pegtree/analysis/boolean"
	"github.com/salikh/pegtree/tree"
)

// Grammar is a named mapping from rule name to expression body. Rule
// bodies are resolved by name at parse time, never at construction,
// which is what lets rules refer to themselves and to each other
// regardless of definition order.
type Grammar struct {
	rules map[string]Expr

	nullableCache   map[string]bool
	wellFormedCache map[string]bool
}

// NewGrammar returns an empty Grammar ready for Define calls.
func NewGrammar() *Grammar {
	return &Grammar{rules: make(map[string]Expr)}
}

// Define binds name to body, overwriting any previous binding, and
// returns a lazy reference to it.
func (g *Grammar) Define(name string, body Expr) Rule {
	g.rules[name] = body
	return Rule{name: name, grammar: g}
}

// Ref returns a lazy reference to name without requiring it to be
// defined yet, enabling forward references and mutual recursion.
func (g *Grammar) Ref(name string) Rule {
	return Rule{name: name, grammar: g}
}

// UndefinedRuleError is returned at parse time if a Rule's name was
// never bound via Define. A validated grammar (analysis.Validate)
// never triggers this; it exists for direct expr-package use bypassing
// validation.
type UndefinedRuleError struct {
	Name string
}

func (e *UndefinedRuleError) Error() string {
	return fmt.Sprintf("pegtree: rule %q is not defined", e.Name)
}

// Rule is a lazy reference into a Grammar. It resolves its body only
// when Parse is called.
type Rule struct {
	name    string
	grammar *Grammar
}

// Name returns the referenced rule name.
func (r Rule) Name() string { return r.name }

func (r Rule) Parse(input string, in tree.Fragment) (Result, bool, error) {
	body, ok := r.grammar.rules[r.name]
	if !ok {
		return Result{}, false, &UndefinedRuleError{Name: r.name}
	}
	return body.Parse(input, in)
}

// Nullable reports whether this rule can match the empty input,
// computed by a local fixpoint over the subgraph of rules reachable
// from this one. This cache is a convenience for standalone expr-only
// use (no grammar-AST analysis pass available); analysis.Nullable,
// computed over the full grammar in one pass, is authoritative (spec
// §9's Open Question). The two are guaranteed to agree on every
// well-formed grammar because both ultimately call boolean.Solve.
func (r Rule) Nullable() (bool, error) {
	return r.grammar.localBoolean(r.name, "nullable")
}

// WellFormed reports whether this rule, and everything reachable from
// it, is free of unguarded left recursion and repetition over nullable
// bodies. See Nullable's doc for the authoritative/local distinction.
func (r Rule) WellFormed() (bool, error) {
	return r.grammar.localBoolean(r.name, "well_formed")
}

func (g *Grammar) localBoolean(start, ns string) (bool, error) {
	cache := g.nullableCacheFor(ns)
	if v, ok := cache[start]; ok {
		return v, nil
	}
	names := g.reachable(start)
	equations := make(map[boolean.Var]boolean.Expr, len(names))
	for _, name := range names {
		v := boolean.Var{Name: name, NS: ns}
		if ns == "nullable" {
			equations[v] = nullableEquation(g.rules[name])
		} else {
			// Well-formedness equations refer to nullable Vars, so the
			// nullable equations are solved in the same system.
			equations[boolean.Var{Name: name, NS: "nullable"}] = nullableEquation(g.rules[name])
			equations[v] = wellFormedEquation(g.rules[name])
		}
	}
	env, err := boolean.Solve(equations)
	if err != nil {
		return false, err
	}
	for _, name := range names {
		v := boolean.Var{Name: name, NS: ns}
		val, ok := env[v].Unwrap()
		if !ok {
			// Unresolved: spec §4.3 treats an unpinned variable as
			// false for well-formedness; nullability has no rule that
			// is reachable yet never bottoms out in a grammar that
			// only uses defined rules, so the same default is safe.
			val = false
		}
		cache[name] = val
	}
	return cache[start], nil
}

func (g *Grammar) nullableCacheFor(ns string) map[string]bool {
	if ns == "nullable" {
		if g.nullableCache == nil {
			g.nullableCache = make(map[string]bool)
		}
		return g.nullableCache
	}
	if g.wellFormedCache == nil {
		g.wellFormedCache = make(map[string]bool)
	}
	return g.wellFormedCache
}

// reachable returns the set of rule names transitively referenced from
// start (including start itself), in discovery order.
func (g *Grammar) reachable(start string) []string {
	seen := map[string]bool{start: true}
	order := []string{start}
	queue := []string{start}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		for _, ref := range ruleRefs(g.rules[name]) {
			if seen[ref] {
				continue
			}
			seen[ref] = true
			order = append(order, ref)
			queue = append(queue, ref)
		}
	}
	return order
}
