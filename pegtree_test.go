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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salikh/pegtree/analysis"
	"github.com/salikh/pegtree/ast"
	"github.com/salikh/pegtree/bootstrap"
	"github.com/salikh/pegtree/expr"
	"github.com/salikh/pegtree/typing"
)

func TestParseGrammarAndRunSimpleNumRule(t *testing.T) {
	p, err := ParseGrammar(`
S <- @Num [0-9]+ @Num<<
`)
	require.NoError(t, err)
	node, err := p.Parse("42")
	require.NoError(t, err)
	require.NotNil(t, node)
	assert.Equal(t, "Num", node.Name)
	assert.Equal(t, "42", node.Value)
}

const arithmeticGrammar = `
Start <- SP Expr !.
Expr  <- Mult ((ADD/SUB)<:left Mult:right)*
Mult  <- Prim ((MUL/DIV)<:left Prim:right)*
Prim  <- Num / '('~ SP Expr ')'~ SP
Num   <- [0-9]+ @Num<< SP
ADD   <- '+'~ SP @Add
SUB   <- '-'~ SP @Sub
MUL   <- '*'~ SP @Mul
DIV   <- '/'~ SP @Div
SP    <- (' '~)*
`

func evalNode(n *ast.Node) int {
	switch n.Name {
	case "Num":
		var v int
		for _, c := range n.Value {
			v = v*10 + int(c-'0')
		}
		return v
	case "Add":
		return evalNode(n.Only("left")) + evalNode(n.Only("right"))
	case "Sub":
		return evalNode(n.Only("left")) - evalNode(n.Only("right"))
	case "Mul":
		return evalNode(n.Only("left")) * evalNode(n.Only("right"))
	case "Div":
		return evalNode(n.Only("left")) / evalNode(n.Only("right"))
	}
	panic("unhandled tag " + n.Name)
}

func TestParseGrammarArithmeticPrecedenceAndEval(t *testing.T) {
	p, err := ParseGrammar(arithmeticGrammar)
	require.NoError(t, err)

	node, err := p.Parse("2 + 2 * 2")
	require.NoError(t, err)
	require.NotNil(t, node)
	assert.Equal(t, "Add", node.Name)
	assert.Equal(t, "2", node.Only("left").Value)
	mul := node.Only("right")
	require.NotNil(t, mul)
	assert.Equal(t, "Mul", mul.Name)
	assert.Equal(t, "2", mul.Only("left").Value)
	assert.Equal(t, "2", mul.Only("right").Value)
	assert.Equal(t, 6, evalNode(node))
}

func TestParseGrammarArithmeticParenthesization(t *testing.T) {
	p, err := ParseGrammar(arithmeticGrammar)
	require.NoError(t, err)

	node, err := p.Parse("(2 + 2) * 2")
	require.NoError(t, err)
	require.NotNil(t, node)
	assert.Equal(t, "Mul", node.Name)
	add := node.Only("left")
	require.NotNil(t, add)
	assert.Equal(t, "Add", add.Name)
	assert.Equal(t, "2", node.Only("right").Value)
	assert.Equal(t, 8, evalNode(node))
}

func TestParseGrammarRepeatedAppendBuildsArray(t *testing.T) {
	p, err := ParseGrammar(`
L <- @List (@Item "a"~):item*
`)
	require.NoError(t, err)
	node, err := p.Parse("aaa")
	require.NoError(t, err)
	require.NotNil(t, node)
	assert.Equal(t, "List", node.Name)
	items := node.Values("item")
	assert.Len(t, items, 3)
	for _, item := range items {
		assert.Equal(t, "Item", item.Name)
		assert.Equal(t, "", item.Value)
	}
}

func TestParseGrammarRejectsMutualLeftRecursion(t *testing.T) {
	_, err := ParseGrammar(`
X <- Y
Y <- X
`)
	require.Error(t, err)
	var verr *analysis.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ElementsMatch(t, []string{"X", "Y"}, verr.NotWellFormed)
}

func TestParseGrammarRejectsUndefinedReference(t *testing.T) {
	_, err := ParseGrammar(`
X <- Z
`)
	require.Error(t, err)
	var verr *analysis.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"Z"}, verr.Undefined)
}

func TestParseWithOptionsIgnoreUnconsumedTail(t *testing.T) {
	p, err := ParseGrammar(`
Num <- @Num [0-9]+ @Num<<
`)
	require.NoError(t, err)
	_, err = p.Parse("42abc")
	require.Error(t, err)

	node, err := p.ParseWithOptions("42abc", Options{IgnoreUnconsumedTail: true})
	require.NoError(t, err)
	require.NotNil(t, node)
	assert.Equal(t, "42", node.Value)
}

func TestInferTypesOnParsedGrammar(t *testing.T) {
	grammarAST, err := ParseGrammarAST(`
Num <- @Num [0-9]+ @Num<<
`)
	require.NoError(t, err)
	types, err := InferTypes(grammarAST)
	require.NoError(t, err)
	require.Contains(t, types, "Num")
}

func TestInferTypesMarksRepeatedAppendAsArrayField(t *testing.T) {
	grammarAST, err := ParseGrammarAST(`
L <- @List (@Item "a"~):item*
`)
	require.NoError(t, err)
	types, err := InferTypes(grammarAST)
	require.NoError(t, err)
	require.Contains(t, types, "L")
	listType, ok := types["L"].(typing.NodeType)
	require.True(t, ok, "expected %T to be a typing.NodeType", types["L"])
	assert.Equal(t, "List", listType.Name)
	assert.True(t, listType.Arrays["item"], "item field should be inferred as an array")
}

func TestSelfHostedMetagrammarValidatesASmallGrammar(t *testing.T) {
	grammarAST, err := ParseGrammarAST(`
S <- "a" "b"
`)
	require.NoError(t, err)
	assert.NoError(t, Validate(grammarAST))
}

// TestMetagrammarSelfHostingRoundTrip exercises the bootstrap promise
// in full: the hand-wired bootstrap grammar parses the textual
// metagrammar into an AST, that AST compiles into a second,
// self-hosted grammar, and running that self-hosted grammar over the
// very same textual metagrammar must reproduce an identical AST, with
// nothing left unconsumed either time.
func TestMetagrammarSelfHostingRoundTrip(t *testing.T) {
	bg := bootstrap.Grammar()
	bootstrapAST, rest, err := expr.Run(bootstrap.Start(bg), bootstrap.MetaGrammarSource)
	require.NoError(t, err)
	require.NotNil(t, bootstrapAST)
	require.Equal(t, "", rest)
	require.NoError(t, Validate(bootstrapAST))

	mg, start, err := metagrammar()
	require.NoError(t, err)
	selfHostedAST, rest, err := expr.Run(mg.Ref(start), bootstrap.MetaGrammarSource)
	require.NoError(t, err)
	require.NotNil(t, selfHostedAST)
	require.Equal(t, "", rest)

	if !ast.Equal(bootstrapAST, selfHostedAST) {
		t.Errorf("bootstrap and self-hosted parses of the metagrammar source diverge:\n%s", ast.Diff(bootstrapAST, selfHostedAST))
	}
}
