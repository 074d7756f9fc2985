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

package typing

import (
	"fmt"

	"github.com/salikh/pegtree/ast"
)

// UnhandledTagError reports a grammar AST tag the typing compiler has
// no case for — it should never fire on a grammar that passed
// analysis.Validate, since the metagrammar's tag set is fixed and
// every case below mirrors it exactly.
type UnhandledTagError struct {
	Tag string
}

func (e *UnhandledTagError) Error() string {
	return fmt.Sprintf("pegtree: typing: unhandled grammar tag %q", e.Tag)
}

// compile turns one grammar-AST node into the TypeOp it contributes,
// mirroring compile.go's buildExpr one level up: both are switches
// over the same fixed metagrammar tag set (the REDESIGN FLAG in
// spec.md §9 against reflection-based dispatch for known tag sets).
func compile(n *ast.Node, reg *Registry) (TypeOp, error) {
	switch n.Name {
	case "Sequence":
		items := n.Values("item")
		ops := make([]TypeOp, 0, len(items))
		for _, item := range items {
			op, err := compile(item, reg)
			if err != nil {
				return nil, err
			}
			ops = append(ops, op)
		}
		return SequenceOp{Ops: ops}, nil
	case "Choice":
		alts := n.Values("alt")
		ops := make([]TypeOp, 0, len(alts))
		for _, alt := range alts {
			op, err := compile(alt, reg)
			if err != nil {
				return nil, err
			}
			ops = append(ops, op)
		}
		return ChoiceOp{Ops: ops}, nil
	case "Epsilon":
		return NoOp{}, nil
	case "Identifier":
		return reg.Lazy(n.Value), nil
	case "Repeat":
		inner, err := compile(n.Only("expr"), reg)
		if err != nil {
			return nil, err
		}
		return RepeatOp{Op: inner}, nil
	case "Repeat1":
		inner, err := compile(n.Only("expr"), reg)
		if err != nil {
			return nil, err
		}
		return SequenceOp{Ops: []TypeOp{inner, RepeatOp{Op: inner}}}, nil
	case "Optional":
		inner, err := compile(n.Only("expr"), reg)
		if err != nil {
			return nil, err
		}
		return ChoiceOp{Ops: []TypeOp{inner, NoOp{}}}, nil
	case "Append":
		inner, err := compile(n.Only("expr"), reg)
		if err != nil {
			return nil, err
		}
		return reg.Append(n.Only("name").Value, inner), nil
	case "Rappend":
		inner, err := compile(n.Only("expr"), reg)
		if err != nil {
			return nil, err
		}
		return reg.Rappend(n.Only("name").Value, inner), nil
	case "Extend":
		inner, err := compile(n.Only("expr"), reg)
		if err != nil {
			return nil, err
		}
		return ExtendOp{Op: inner}, nil
	case "Rextend":
		inner, err := compile(n.Only("expr"), reg)
		if err != nil {
			return nil, err
		}
		return RextendOp{Op: inner}, nil
	case "Tag":
		return TagOp{Name: n.Value}, nil
	case "Range", "Class", "Char", "Literal", "Any":
		return StringOp{}, nil
	case "Nothing":
		return NothingOp{}, nil
	case "Ignore", "Not", "And":
		return NoOp{}, nil
	default:
		return nil, &UnhandledTagError{Tag: n.Name}
	}
}

// Infer compiles every rule of a validated grammar AST into TypeOps
// and drains the Registry work queue, returning the inferred Type for
// every tag name the grammar produces and every rule reachable from
// the first rule (see Registry.Infer).
func Infer(grammar *ast.Node) (map[string]Type, error) {
	rules := grammar.Values("rule")
	if len(rules) == 0 {
		return map[string]Type{}, nil
	}
	reg := NewRegistry(rules[0].Only("name").Value)
	for _, rule := range rules {
		op, err := compile(rule.Only("body"), reg)
		if err != nil {
			return nil, err
		}
		reg.Expr(rule.Only("name").Value, &MemoOp{Op: op})
	}
	return reg.Infer()
}
