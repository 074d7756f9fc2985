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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salikh/pegtree/ast"
)

func rule(name string, body *ast.Node) *ast.Node {
	return &ast.Node{Name: "Rule", Children: []ast.LabelChild{
		{Label: "name", Child: &ast.Node{Name: "Identifier", Value: name}},
		{Label: "body", Child: body},
	}}
}

func grammar(rules ...*ast.Node) *ast.Node {
	n := &ast.Node{Name: "Grammar"}
	for _, r := range rules {
		n.Children = append(n.Children, ast.LabelChild{Label: "rule", Child: r})
	}
	return n
}

func sequence(items ...*ast.Node) *ast.Node {
	n := &ast.Node{Name: "Sequence"}
	for _, item := range items {
		n.Children = append(n.Children, ast.LabelChild{Label: "item", Child: item})
	}
	return n
}

func choice(alts ...*ast.Node) *ast.Node {
	n := &ast.Node{Name: "Choice"}
	for _, alt := range alts {
		n.Children = append(n.Children, ast.LabelChild{Label: "alt", Child: alt})
	}
	return n
}

func tag(name string) *ast.Node { return &ast.Node{Name: "Tag", Value: name} }

func ident(name string) *ast.Node { return &ast.Node{Name: "Identifier", Value: name} }

func literal(s string) *ast.Node { return &ast.Node{Name: "Literal", Value: s} }

func extend(body *ast.Node) *ast.Node {
	return &ast.Node{Name: "Extend", Children: []ast.LabelChild{{Label: "expr", Child: body}}}
}

func repeat1(body *ast.Node) *ast.Node {
	return &ast.Node{Name: "Repeat1", Children: []ast.LabelChild{{Label: "expr", Child: body}}}
}

func repeat(body *ast.Node) *ast.Node {
	return &ast.Node{Name: "Repeat", Children: []ast.LabelChild{{Label: "expr", Child: body}}}
}

func appendNode(label string, body *ast.Node) *ast.Node {
	return &ast.Node{Name: "Append", Children: []ast.LabelChild{
		{Label: "name", Child: &ast.Node{Name: "Identifier", Value: label}},
		{Label: "expr", Child: body},
	}}
}

func rappendNode(label string, body *ast.Node) *ast.Node {
	return &ast.Node{Name: "Rappend", Children: []ast.LabelChild{
		{Label: "name", Child: &ast.Node{Name: "Identifier", Value: label}},
		{Label: "expr", Child: body},
	}}
}

// TestInferSimpleNumRule covers a rule that tags then extends, the
// smallest possible Term-shaped inference: Num <- @Num "0"+>>
func TestInferSimpleNumRule(t *testing.T) {
	g := grammar(
		rule("Num", sequence(tag("Num"), extend(repeat1(literal("0"))))),
	)
	types, err := Infer(g)
	require.NoError(t, err)
	require.Contains(t, types, "Num")
	term, ok := types["Num"].(TermType)
	require.True(t, ok, "expected Num to infer as a TermType, got %#v", types["Num"])
	assert.Equal(t, "Num", term.Name)
}

// TestInferLeftFoldArithmeticChain models the Expr/Term/Op left-fold
// shape: Expr <- @Expr Term:left (@Op "+"~ Term:right):op*
func TestInferLeftFoldArithmeticChain(t *testing.T) {
	g := grammar(
		rule("Expr", sequence(
			tag("Expr"),
			appendNode("left", ident("Term")),
			repeat(appendNode("op", sequence(
				tag("Op"),
				&ast.Node{Name: "Ignore", Children: []ast.LabelChild{{Label: "expr", Child: literal("+")}}},
				appendNode("right", ident("Term")),
			))),
		)),
		rule("Term", sequence(tag("Term"), extend(repeat1(literal("1"))))),
	)
	types, err := Infer(g)
	require.NoError(t, err)
	require.Contains(t, types, "Expr")
	require.Contains(t, types, "Term")

	term, ok := types["Term"].(TermType)
	require.True(t, ok)
	assert.Equal(t, "Term", term.Name)

	exprNode, ok := types["Expr"].(NodeType)
	require.True(t, ok, "expected Expr to infer as a NodeType, got %#v", types["Expr"])
	assert.Equal(t, "Expr", exprNode.Name)
	assert.Contains(t, exprNode.Values, "left")
	assert.Contains(t, exprNode.Values, "op")
}

// TestInferRepeatedAppendProducesArrayField models:
// List <- @List (@Item "a"):item* -- equivalently a repeated Append.
func TestInferRepeatedAppendProducesArrayField(t *testing.T) {
	g := grammar(
		rule("List", sequence(
			tag("List"),
			repeat(appendNode("item", sequence(tag("Item"), extend(literal("a"))))),
		)),
	)
	types, err := Infer(g)
	require.NoError(t, err)
	require.Contains(t, types, "List")
	listNode, ok := types["List"].(NodeType)
	require.True(t, ok, "expected List to infer as a NodeType, got %#v", types["List"])
	assert.True(t, listNode.Arrays["item"], "repeated append under the same label must be marked as an array field")
}

// TestInferSelfRecursiveAppendList models:
// List <- @List (@Item "a"):fst List:snd / @Empty
func TestInferSelfRecursiveAppendList(t *testing.T) {
	g := grammar(
		rule("List", choice(
			sequence(
				tag("List"),
				appendNode("fst", sequence(tag("Item"), extend(literal("a")))),
				appendNode("snd", ident("List")),
			),
			tag("Empty"),
		)),
	)
	types, err := Infer(g)
	require.NoError(t, err)
	require.Contains(t, types, "List")
}

func TestMakeOrTypeDedupesByKey(t *testing.T) {
	r := MakeOrType([]Type{StringType{}, StringType{}, EmptyType{}})
	or, ok := r.(OrType)
	require.True(t, ok)
	assert.Len(t, or.Elems, 2)
}

func TestMakeOrTypeEmptyIsNil(t *testing.T) {
	assert.Nil(t, MakeOrType(nil))
}

func TestRappendOpReversesRoles(t *testing.T) {
	reg := NewRegistry("start")
	rapp := RappendOp{Op: TagOp{Name: "Inner"}, Name: "outer", Registry: reg}
	res, err := rapp.Process(NamedType{Name: "Outer"})
	require.NoError(t, err)
	node, ok := res.(NodeType)
	require.True(t, ok)
	assert.Equal(t, "Inner", node.Name)
	assert.Contains(t, node.Values, "outer")
}
