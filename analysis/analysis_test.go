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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salikh/pegtree/ast"
)

func ident(name string) *ast.Node {
	return &ast.Node{Name: "Identifier", Value: name}
}

func literal(s string) *ast.Node {
	return &ast.Node{Name: "Literal", Value: s}
}

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

func repeat(body *ast.Node) *ast.Node {
	return &ast.Node{Name: "Repeat", Children: []ast.LabelChild{{Label: "expr", Child: body}}}
}

func TestValidateMutualLeftRecursionIsNotWellFormed(t *testing.T) {
	g := grammar(
		rule("X", ident("Y")),
		rule("Y", ident("X")),
	)
	err := Validate(g)
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ElementsMatch(t, []string{"X", "Y"}, verr.NotWellFormed)
}

func TestValidateUndefinedReference(t *testing.T) {
	g := grammar(
		rule("X", ident("Z")),
	)
	err := Validate(g)
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"Z"}, verr.Undefined)
}

func TestValidateRedefinedRule(t *testing.T) {
	g := grammar(
		rule("X", literal("a")),
		rule("X", literal("b")),
	)
	err := Validate(g)
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"X"}, verr.Redefined)
}

func TestValidateWellFormedGrammarPasses(t *testing.T) {
	g := grammar(
		rule("Start", sequence(literal("a"), ident("Rest"))),
		rule("Rest", choice(literal("b"), literal("c"))),
	)
	assert.NoError(t, Validate(g))
}

func TestValidateRepeatOverNullableBodyIsNotWellFormed(t *testing.T) {
	g := grammar(
		rule("X", repeat(&ast.Node{Name: "Epsilon"})),
	)
	err := Validate(g)
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"X"}, verr.NotWellFormed)
}

func TestNullableComputesChoiceAndSequence(t *testing.T) {
	g := grammar(
		rule("Opt", choice(literal("a"), &ast.Node{Name: "Epsilon"})),
		rule("Seq", sequence(literal("a"), literal("b"))),
	)
	nullable, err := Nullable(g)
	require.NoError(t, err)
	assert.True(t, nullable["Opt"])
	assert.False(t, nullable["Seq"])
}

func TestReferencesTracksDefinedRedefinedAndReferenced(t *testing.T) {
	g := grammar(
		rule("X", ident("Y")),
		rule("X", literal("a")),
	)
	defined, redefined, referenced := References(g)
	assert.ElementsMatch(t, []string{"X"}, defined)
	assert.ElementsMatch(t, []string{"X"}, redefined)
	assert.ElementsMatch(t, []string{"Y"}, referenced)
}

func TestUndefinedFiltersOutDefinedNames(t *testing.T) {
	undefined := Undefined([]string{"X", "Y"}, []string{"X", "Z"})
	assert.Equal(t, []string{"Z"}, undefined)
}
