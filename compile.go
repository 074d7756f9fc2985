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

package pegtree

import (
	"fmt"
	"strconv"

	"github.com/salikh/pegtree/ast"
	"github.com/salikh/pegtree/expr"
)

// UnhandledTagError reports a grammar AST tag buildExpr has no case
// for. Like typing's equivalent, it should never fire on a grammar
// that passed analysis.Validate.
type UnhandledTagError struct {
	Tag string
}

func (e *UnhandledTagError) Error() string {
	return fmt.Sprintf("pegtree: compile: unhandled grammar tag %q", e.Tag)
}

// buildExpr turns a validated grammar AST into a live expr.Grammar,
// returning the grammar together with the name of its start rule
// (the first rule definition's name, by convention). This is a Go
// switch over the fixed metagrammar tag set, not reflection dispatch
// (the same REDESIGN FLAG as analysis and typing): buildExpr is
// exercised only on the one tag vocabulary the bootstrap metagrammar
// itself produces.
func buildExpr(grammarAST *ast.Node) (*expr.Grammar, string, error) {
	rules := grammarAST.Values("rule")
	if len(rules) == 0 {
		return nil, "", fmt.Errorf("pegtree: compile: grammar has no rules")
	}
	g := expr.NewGrammar()
	for _, rule := range rules {
		body, err := buildBody(rule.Only("body"), g)
		if err != nil {
			return nil, "", err
		}
		g.Define(rule.Only("name").Value, body)
	}
	return g, rules[0].Only("name").Value, nil
}

func buildBody(n *ast.Node, g *expr.Grammar) (expr.Expr, error) {
	switch n.Name {
	case "Choice":
		return buildRightFold(n.Values("alt"), g, func(a, b expr.Expr) expr.Expr {
			return expr.Choice{First: a, Second: b}
		})
	case "Sequence":
		return buildRightFold(n.Values("item"), g, func(a, b expr.Expr) expr.Expr {
			return expr.Sequence{First: a, Second: b}
		})
	case "Epsilon":
		return expr.Epsilon{}, nil
	case "Nothing":
		return expr.Nothing{}, nil
	case "Any":
		return expr.Any{}, nil
	case "And":
		inner, err := buildBody(n.Only("expr"), g)
		if err != nil {
			return nil, err
		}
		return expr.And{Expr: inner}, nil
	case "Not":
		inner, err := buildBody(n.Only("expr"), g)
		if err != nil {
			return nil, err
		}
		return expr.Not{Expr: inner}, nil
	case "Optional":
		inner, err := buildBody(n.Only("expr"), g)
		if err != nil {
			return nil, err
		}
		return expr.Optional{Expr: inner}, nil
	case "Repeat":
		inner, err := buildBody(n.Only("expr"), g)
		if err != nil {
			return nil, err
		}
		return expr.Repeat{Expr: inner}, nil
	case "Repeat1":
		inner, err := buildBody(n.Only("expr"), g)
		if err != nil {
			return nil, err
		}
		return expr.Repeat1{Expr: inner}, nil
	case "Append":
		inner, err := buildBody(n.Only("expr"), g)
		if err != nil {
			return nil, err
		}
		return expr.Append{Expr: inner, Label: n.Only("name").Value}, nil
	case "Rappend":
		inner, err := buildBody(n.Only("expr"), g)
		if err != nil {
			return nil, err
		}
		return expr.Rappend{Expr: inner, Label: n.Only("name").Value}, nil
	case "Extend":
		inner, err := buildBody(n.Only("expr"), g)
		if err != nil {
			return nil, err
		}
		return expr.Extend{Expr: inner}, nil
	case "Rextend":
		inner, err := buildBody(n.Only("expr"), g)
		if err != nil {
			return nil, err
		}
		return expr.Rextend{Expr: inner}, nil
	case "Ignore":
		inner, err := buildBody(n.Only("expr"), g)
		if err != nil {
			return nil, err
		}
		return expr.Ignore{Expr: inner}, nil
	case "Identifier":
		return g.Ref(n.Value), nil
	case "Tag":
		return expr.Tag{Name: n.Value}, nil
	case "Literal":
		text, err := buildLiteralText(n.Values("char"))
		if err != nil {
			return nil, err
		}
		return expr.Literal{Text: text}, nil
	case "Class":
		return buildRightFold(n.Values("item"), g, func(a, b expr.Expr) expr.Expr {
			return expr.Choice{First: a, Second: b}
		})
	case "Range":
		start, err := buildCharValue(n.Only("start"))
		if err != nil {
			return nil, err
		}
		end, err := buildCharValue(n.Only("end"))
		if err != nil {
			return nil, err
		}
		lo, _ := decodeRune(start)
		hi, _ := decodeRune(end)
		return expr.CharRange{Lo: lo, Hi: hi}, nil
	case "Char":
		c, err := buildCharValue(n.Only("char"))
		if err != nil {
			return nil, err
		}
		return expr.Literal{Text: c}, nil
	default:
		return nil, &UnhandledTagError{Tag: n.Name}
	}
}

// buildRightFold mirrors ParserVisitor.visit_Sequence/visit_Choice/
// visit_Class: the rightmost item becomes the innermost Second/alt,
// preserving left-to-right evaluation and ordered-choice priority.
func buildRightFold(items []*ast.Node, g *expr.Grammar, combine func(a, b expr.Expr) expr.Expr) (expr.Expr, error) {
	last, err := buildBody(items[len(items)-1], g)
	if err != nil {
		return nil, err
	}
	acc := last
	for i := len(items) - 2; i >= 0; i-- {
		e, err := buildBody(items[i], g)
		if err != nil {
			return nil, err
		}
		acc = combine(e, acc)
	}
	return acc, nil
}

func buildLiteralText(chars []*ast.Node) (string, error) {
	var s string
	for _, c := range chars {
		v, err := buildCharValue(c)
		if err != nil {
			return "", err
		}
		s += v
	}
	return s, nil
}

func buildCharValue(n *ast.Node) (string, error) {
	switch n.Name {
	case "escape":
		switch n.Value {
		case "n":
			return "\n", nil
		case "r":
			return "\r", nil
		case "t":
			return "\t", nil
		case "'":
			return "'", nil
		case "\"":
			return "\"", nil
		case "[":
			return "[", nil
		case "]":
			return "]", nil
		case "\\":
			return "\\", nil
		default:
			return "", fmt.Errorf("pegtree: compile: unknown escape %q", n.Value)
		}
	case "octal":
		v, err := strconv.ParseInt(n.Value, 8, 32)
		if err != nil {
			return "", fmt.Errorf("pegtree: compile: bad octal escape %q: %w", n.Value, err)
		}
		return string(rune(v)), nil
	case "char":
		return n.Value, nil
	default:
		return "", &UnhandledTagError{Tag: n.Name}
	}
}

func decodeRune(s string) (rune, int) {
	for _, r := range s {
		return r, len(string(r))
	}
	return 0, 0
}
