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

package visit

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salikh/pegtree/ast"
)

type numEvaluator struct{}

func (numEvaluator) VisitNum(n *ast.Node) (any, error) {
	var v int
	fmt.Sscanf(n.Value, "%d", &v)
	return v, nil
}

func (e numEvaluator) VisitAdd(n *ast.Node) (any, error) {
	left, err := Visit(e, n.Only("left"))
	if err != nil {
		return nil, err
	}
	right, err := Visit(e, n.Only("right"))
	if err != nil {
		return nil, err
	}
	return left.(int) + right.(int), nil
}

func TestVisitDispatchesBySpecificTag(t *testing.T) {
	n := &ast.Node{Name: "Num", Value: "42"}
	r, err := Visit(numEvaluator{}, n)
	require.NoError(t, err)
	assert.Equal(t, 42, r)
}

func TestVisitDescendsThroughLabelledChildren(t *testing.T) {
	n := &ast.Node{Name: "Add", Children: []ast.LabelChild{
		{Label: "left", Child: &ast.Node{Name: "Num", Value: "3"}},
		{Label: "right", Child: &ast.Node{Name: "Num", Value: "4"}},
	}}
	r, err := Visit(numEvaluator{}, n)
	require.NoError(t, err)
	assert.Equal(t, 7, r)
}

func TestVisitReturnsNoHandlerErrorWithoutGenericFallback(t *testing.T) {
	n := &ast.Node{Name: "Unknown"}
	_, err := Visit(numEvaluator{}, n)
	require.Error(t, err)
	var nhe *NoHandlerError
	require.ErrorAs(t, err, &nhe)
	assert.Equal(t, "Unknown", nhe.Name)
}

type countingVisitor struct {
	visited []string
}

func (c *countingVisitor) VisitGeneric(n *ast.Node) (any, error) {
	c.visited = append(c.visited, n.Name)
	return nil, VisitChildren(c, n)
}

func TestVisitGenericFallbackWalksWholeTree(t *testing.T) {
	tree := &ast.Node{Name: "Root", Children: []ast.LabelChild{
		{Label: "a", Child: &ast.Node{Name: "Leaf1"}},
		{Label: "b", Child: &ast.Node{Name: "Leaf2"}},
	}}
	c := &countingVisitor{}
	_, err := Visit(c, tree)
	require.NoError(t, err)
	assert.Equal(t, []string{"Root", "Leaf1", "Leaf2"}, c.visited)
}

type typeVisitor struct{}

func (typeVisitor) VisitNode(n *ast.Node) (any, error) {
	return "matched", nil
}

func TestVisitByTypeDispatchesOnGoTypeName(t *testing.T) {
	n := &ast.Node{Name: "AnythingAtAll"}
	r, err := VisitByType(typeVisitor{}, n)
	require.NoError(t, err)
	assert.Equal(t, "matched", r)
}
