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

// Package analysis implements the static checks a grammar AST must
// pass before it is safe to compile into a parser: no rule is defined
// twice, every referenced rule exists, and every rule is well-formed
// (no unguarded left recursion, no repetition over a nullable body).
package analysis

import "github.com/salikh/pegtree/ast"

// References walks a validated-shape grammar AST, mirroring
// peg/analysis.py's References visitor, and reports which rule names
// are defined, which are defined more than once, and which are
// referenced anywhere in a rule body.
func References(grammar *ast.Node) (defined, redefined, referenced []string) {
	definedSet := map[string]bool{}
	redefinedSet := map[string]bool{}
	referencedSet := map[string]bool{}
	for _, rule := range grammar.Values("rule") {
		name := rule.Only("name").Value
		if definedSet[name] {
			redefinedSet[name] = true
		} else {
			definedSet[name] = true
		}
		walkReferences(rule.Only("body"), referencedSet)
	}
	for name := range definedSet {
		defined = append(defined, name)
	}
	for name := range redefinedSet {
		redefined = append(redefined, name)
	}
	for name := range referencedSet {
		referenced = append(referenced, name)
	}
	return defined, redefined, referenced
}

// walkReferences descends a rule body collecting every Identifier
// node's value, a Go switch standing in for GenericVisitor's
// tag-lookup-with-structural-fallback (REDESIGN FLAG, spec.md §9): the
// metagrammar's tag set is fixed, so a switch plus an explicit
// children-of-children descent covers it exactly.
func walkReferences(n *ast.Node, referenced map[string]bool) {
	if n == nil {
		return
	}
	if n.Name == "Identifier" {
		referenced[n.Value] = true
		return
	}
	for _, lc := range n.Children {
		walkReferences(lc.Child, referenced)
	}
}

// Undefined returns every name in referenced that is not in defined.
func Undefined(defined, referenced []string) []string {
	definedSet := map[string]bool{}
	for _, d := range defined {
		definedSet[d] = true
	}
	var undefined []string
	for _, r := range referenced {
		if !definedSet[r] {
			undefined = append(undefined, r)
		}
	}
	return undefined
}
