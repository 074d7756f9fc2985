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

package analysis

import (
	"github.com/salikh/pegtree/analysis/boolean"
	"github.com/salikh/pegtree/ast"
)

// Nullable builds one boolean equation per rule for "can this rule's
// body match the empty string" and solves the whole system in a
// single grammar-wide fixpoint pass — the authoritative counterpart of
// expr.Rule.Nullable's per-rule local cache (spec §9).
func Nullable(grammar *ast.Node) (map[string]bool, error) {
	equations := map[boolean.Var]boolean.Expr{}
	for _, rule := range grammar.Values("rule") {
		name := rule.Only("name").Value
		equations[boolean.Var{Name: name, NS: "nullable"}] = nullableEq(rule.Only("body"))
	}
	return solveBoolMap(equations, "nullable")
}

// WellFormed builds one boolean equation per rule for "is this rule,
// and everything reachable from it, free of unguarded left recursion
// and of repetition over a nullable body," and solves the combined
// nullable+well-formed system in one pass, matching
// peg/analysis.py's WellFormed visitor (which seeds its equations from
// the already-built Nullable equations rather than resolving nullable
// values first).
func WellFormed(grammar *ast.Node) (map[string]bool, error) {
	equations := map[boolean.Var]boolean.Expr{}
	for _, rule := range grammar.Values("rule") {
		name := rule.Only("name").Value
		equations[boolean.Var{Name: name, NS: "nullable"}] = nullableEq(rule.Only("body"))
	}
	for _, rule := range grammar.Values("rule") {
		name := rule.Only("name").Value
		equations[boolean.Var{Name: name, NS: "well_formed"}] = wellFormedEq(rule.Only("body"))
	}
	return solveBoolMap(equations, "well_formed")
}

func solveBoolMap(equations map[boolean.Var]boolean.Expr, ns string) (map[string]bool, error) {
	env, err := boolean.Solve(equations)
	if err != nil {
		return nil, err
	}
	res := map[string]bool{}
	for v, e := range env {
		if v.NS != ns {
			continue
		}
		val, ok := e.Unwrap()
		if !ok {
			val = false
		}
		res[v.Name] = val
	}
	return res, nil
}

func nullableEq(n *ast.Node) boolean.Expr {
	switch n.Name {
	case "Choice":
		var items []boolean.Expr
		for _, alt := range n.Values("alt") {
			items = append(items, nullableEq(alt))
		}
		return boolean.Or{Items: items}
	case "Sequence":
		var items []boolean.Expr
		for _, item := range n.Values("item") {
			items = append(items, nullableEq(item))
		}
		return boolean.And{Items: items}
	case "Epsilon", "Optional", "Repeat", "Tag":
		return boolean.True
	case "And":
		return nullableEq(n.Only("expr"))
	case "Not":
		return boolean.Not{Item: nullableEq(n.Only("expr"))}
	case "Repeat1", "Append", "Rappend", "Extend", "Rextend", "Ignore":
		return nullableEq(n.Only("expr"))
	case "Identifier":
		return boolean.Var{Name: n.Value, NS: "nullable"}
	case "Literal", "Class", "Nothing", "Range", "Char", "Any":
		return boolean.False
	default:
		return boolean.False
	}
}

func wellFormedEq(n *ast.Node) boolean.Expr {
	switch n.Name {
	case "Choice":
		var items []boolean.Expr
		for _, alt := range n.Values("alt") {
			items = append(items, wellFormedEq(alt))
		}
		return boolean.And{Items: items}
	case "Sequence":
		items := n.Values("item")
		if len(items) == 0 {
			return boolean.True
		}
		terms := []boolean.Expr{wellFormedEq(items[0])}
		var null []boolean.Expr
		for i := 1; i < len(items); i++ {
			null = append(null, nullableEq(items[i-1]))
			terms = append(terms, boolean.Or{Items: []boolean.Expr{
				boolean.Not{Item: boolean.And{Items: append([]boolean.Expr{}, null...)}},
				wellFormedEq(items[i]),
			}})
		}
		return boolean.And{Items: terms}
	case "Epsilon", "Tag", "Literal", "Class", "Nothing", "Range", "Char", "Any":
		return boolean.True
	case "And", "Not", "Optional", "Repeat1", "Append", "Rappend", "Extend", "Rextend", "Ignore":
		return wellFormedEq(n.Only("expr"))
	case "Repeat":
		return boolean.And{Items: []boolean.Expr{
			wellFormedEq(n.Only("expr")),
			boolean.Not{Item: nullableEq(n.Only("expr"))},
		}}
	case "Identifier":
		return boolean.Var{Name: n.Value, NS: "well_formed"}
	default:
		return boolean.True
	}
}
