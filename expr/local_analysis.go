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

import "github.com/salikh/pegtree/analysis/boolean"

// ruleRefs lists the rule names directly referenced from e, without
// descending into them, for building the reachability set that a local
// Nullable/WellFormed query needs equations for.
func ruleRefs(e Expr) []string {
	switch v := e.(type) {
	case Rule:
		return []string{v.name}
	case Sequence:
		return append(ruleRefs(v.First), ruleRefs(v.Second)...)
	case Choice:
		return append(ruleRefs(v.First), ruleRefs(v.Second)...)
	case Repeat:
		return ruleRefs(v.Expr)
	case Repeat1:
		return ruleRefs(v.Expr)
	case Optional:
		return ruleRefs(v.Expr)
	case And:
		return ruleRefs(v.Expr)
	case Not:
		return ruleRefs(v.Expr)
	case Ignore:
		return ruleRefs(v.Expr)
	case Extend:
		return ruleRefs(v.Expr)
	case Rextend:
		return ruleRefs(v.Expr)
	case Append:
		return ruleRefs(v.Expr)
	case Rappend:
		return ruleRefs(v.Expr)
	default:
		return nil
	}
}

// nullableEquation builds the boolean equation for "e can match the
// empty string" in terms of the nullable namespace's Vars for any rule
// references e contains.
func nullableEquation(e Expr) boolean.Expr {
	switch v := e.(type) {
	case nil:
		return boolean.False
	case Epsilon:
		return boolean.True
	case Nothing:
		return boolean.False
	case Any:
		return boolean.False
	case Literal:
		return boolean.False
	case CharRange:
		return boolean.False
	case CharSet:
		return boolean.False
	case Tag:
		return boolean.True
	case Sequence:
		return boolean.And{Items: []boolean.Expr{nullableEquation(v.First), nullableEquation(v.Second)}}
	case Choice:
		return boolean.Or{Items: []boolean.Expr{nullableEquation(v.First), nullableEquation(v.Second)}}
	case Repeat:
		return boolean.True
	case Repeat1:
		return nullableEquation(v.Expr)
	case Optional:
		return boolean.True
	case And:
		return nullableEquation(v.Expr)
	case Not:
		return boolean.Not{Item: nullableEquation(v.Expr)}
	case Ignore:
		return nullableEquation(v.Expr)
	case Extend:
		return nullableEquation(v.Expr)
	case Rextend:
		return nullableEquation(v.Expr)
	case Append:
		return nullableEquation(v.Expr)
	case Rappend:
		return nullableEquation(v.Expr)
	case Rule:
		return boolean.Var{Name: v.name, NS: "nullable"}
	default:
		return boolean.False
	}
}

// sequenceItems flattens the right-nested binary Sequence{First,Second}
// tree buildRightFold produces back into the left-to-right item list it
// was built from, so wellFormedEquation can apply the same per-position
// guard analysis/wellformed.go applies to a Sequence node's "item" list.
func sequenceItems(e Expr) []Expr {
	if s, ok := e.(Sequence); ok {
		return append([]Expr{s.First}, sequenceItems(s.Second)...)
	}
	return []Expr{e}
}

// wellFormedEquation builds the boolean equation for "e, and everything
// it reaches, is free of unguarded recursion and of repetition over a
// nullable body."
func wellFormedEquation(e Expr) boolean.Expr {
	switch v := e.(type) {
	case nil:
		return boolean.True
	case Sequence:
		items := sequenceItems(v)
		terms := []boolean.Expr{wellFormedEquation(items[0])}
		var null []boolean.Expr
		for i := 1; i < len(items); i++ {
			null = append(null, nullableEquation(items[i-1]))
			terms = append(terms, boolean.Or{Items: []boolean.Expr{
				boolean.Not{Item: boolean.And{Items: append([]boolean.Expr{}, null...)}},
				wellFormedEquation(items[i]),
			}})
		}
		return boolean.And{Items: terms}
	case Choice:
		return boolean.And{Items: []boolean.Expr{wellFormedEquation(v.First), wellFormedEquation(v.Second)}}
	case Repeat:
		return boolean.And{Items: []boolean.Expr{wellFormedEquation(v.Expr), boolean.Not{Item: nullableEquation(v.Expr)}}}
	case Repeat1:
		return wellFormedEquation(v.Expr)
	case Optional:
		return wellFormedEquation(v.Expr)
	case And:
		return wellFormedEquation(v.Expr)
	case Not:
		return wellFormedEquation(v.Expr)
	case Ignore:
		return wellFormedEquation(v.Expr)
	case Extend:
		return wellFormedEquation(v.Expr)
	case Rextend:
		return wellFormedEquation(v.Expr)
	case Append:
		return wellFormedEquation(v.Expr)
	case Rappend:
		return wellFormedEquation(v.Expr)
	case Rule:
		return boolean.Var{Name: v.name, NS: "well_formed"}
	default:
		return boolean.True
	}
}
