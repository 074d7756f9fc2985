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

package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salikh/pegtree/expr"
)

func TestGrammarParsesSingleTrivialRule(t *testing.T) {
	g := Grammar()
	node, rest, err := expr.Run(Start(g), "S <- 'a'\n")
	require.NoError(t, err)
	require.NotNil(t, node)
	assert.Equal(t, "", rest)
	assert.Equal(t, "Grammar", node.Name)
	rules := node.Values("rule")
	require.Len(t, rules, 1)
	assert.Equal(t, "Rule", rules[0].Name)
	name := rules[0].Only("name")
	require.NotNil(t, name)
	assert.Equal(t, "S", name.Value)
}

func TestGrammarParsesChoiceAndSequence(t *testing.T) {
	g := Grammar()
	node, rest, err := expr.Run(Start(g), "S <- 'a' 'b' / 'c'\n")
	require.NoError(t, err)
	require.NotNil(t, node)
	assert.Equal(t, "", rest)
	body := node.Values("rule")[0].Only("body")
	require.NotNil(t, body)
	assert.Equal(t, "Choice", body.Name)
	alts := body.Values("alt")
	require.Len(t, alts, 2)
	assert.Equal(t, "Sequence", alts[0].Name)
}

func TestGrammarParsesTagAndTreeOps(t *testing.T) {
	g := Grammar()
	source := "S <- @Num [0-9]+ @Num<<\n"
	node, rest, err := expr.Run(Start(g), source)
	require.NoError(t, err)
	require.NotNil(t, node)
	assert.Equal(t, "", rest)
	body := node.Values("rule")[0].Only("body")
	require.NotNil(t, body)
	assert.Equal(t, "Sequence", body.Name)
	items := body.Values("item")
	require.Len(t, items, 3)
	assert.Equal(t, "Tag", items[0].Name)
	assert.Equal(t, "Num", items[0].Value)
	assert.Equal(t, "Rextend", items[2].Name)
}

func TestGrammarRejectsMissingArrow(t *testing.T) {
	g := Grammar()
	node, _, err := expr.Run(Start(g), "S 'a'\n")
	require.NoError(t, err)
	assert.Nil(t, node)
}

func TestGrammarParsesMetaGrammarSourceItself(t *testing.T) {
	g := Grammar()
	node, rest, err := expr.Run(Start(g), MetaGrammarSource)
	require.NoError(t, err)
	require.NotNil(t, node, "the bootstrap grammar must be able to parse its own textual syntax")
	assert.Equal(t, "", rest)
	rules := node.Values("rule")
	assert.NotEmpty(t, rules)
	var names []string
	for _, r := range rules {
		names = append(names, r.Only("name").Value)
	}
	assert.Contains(t, names, "Grammar")
	assert.Contains(t, names, "EndOfFile")
}
