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

// Package pegtree is the self-hosting front door of this module: it
// parses a grammar written in the module's own PEG syntax, validates
// it, compiles it into a live parser, and lets that parser turn source
// text into an ast.Node tree. The heavy lifting lives one level down,
// in expr (the parsing algebra), analysis (static checks), and typing
// (shape inference); this package wires them together the way
// generate.py's generate_parser does for the original.
package pegtree

import (
	"fmt"

	log "github.com/golang/glog"

	"github.com/salikh/pegtree/analysis"
	"github.com/salikh/pegtree/ast"
	"github.com/salikh/pegtree/expr"
	"github.com/salikh/pegtree/typing"
)

// ParseError reports that source text did not fully match a Parser's
// grammar.
type ParseError struct {
	Rest string
}

func (e *ParseError) Error() string {
	if len(e.Rest) > 40 {
		return fmt.Sprintf("pegtree: parse failed, unconsumed input starting %q...", e.Rest[:40])
	}
	return fmt.Sprintf("pegtree: parse failed, unconsumed input %q", e.Rest)
}

// Options controls Parser.Parse's tolerance for trailing input.
type Options struct {
	// IgnoreUnconsumedTail, if true, makes Parse return successfully
	// even when the grammar's start rule left part of the input
	// unconsumed, returning the remainder via Parser.Parse's second
	// result instead of failing with *ParseError.
	IgnoreUnconsumedTail bool
}

// Parser is a compiled grammar, ready to parse source text.
type Parser struct {
	grammar *expr.Grammar
	start   string
}

// ParseGrammarAST parses a grammar written in this module's PEG
// syntax into its raw AST, without validating or compiling it. Most
// callers want ParseGrammar instead; this is for callers that need to
// run Validate or InferTypes themselves, e.g. to report analysis
// results without first building a Parser.
func ParseGrammarAST(source string) (*ast.Node, error) {
	mg, start, err := metagrammar()
	if err != nil {
		return nil, err
	}
	node, rest, err := expr.Run(mg.Ref(start), source)
	if err != nil {
		return nil, fmt.Errorf("pegtree: parsing grammar source: %w", err)
	}
	if node == nil {
		return nil, &ParseError{Rest: source}
	}
	if rest != "" {
		return nil, &ParseError{Rest: rest}
	}
	return node, nil
}

// ParseGrammar parses and validates a grammar written in this
// module's PEG syntax and compiles it into a ready-to-use Parser.
func ParseGrammar(source string) (*Parser, error) {
	node, err := ParseGrammarAST(source)
	if err != nil {
		return nil, err
	}
	if verr := analysis.Validate(node); verr != nil {
		return nil, verr
	}
	g, startRule, err := buildExpr(node)
	if err != nil {
		return nil, err
	}
	log.V(1).Infof("pegtree: compiled grammar with start rule %q", startRule)
	return &Parser{grammar: g, start: startRule}, nil
}

// Parse runs p against source, returning the finalised AST on success.
func (p *Parser) Parse(source string) (*ast.Node, error) {
	return p.ParseWithOptions(source, Options{})
}

// ParseWithOptions is Parse with explicit control over trailing-input
// tolerance; see Options.
func (p *Parser) ParseWithOptions(source string, opts Options) (*ast.Node, error) {
	node, rest, err := expr.Run(p.grammar.Ref(p.start), source)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, &ParseError{Rest: source}
	}
	if rest != "" && !opts.IgnoreUnconsumedTail {
		return nil, &ParseError{Rest: rest}
	}
	return node, nil
}

// Start returns the name of p's start rule.
func (p *Parser) Start() string { return p.start }

// Validate re-exports analysis.Validate for callers that parsed a
// grammar AST some other way (e.g. via Parser.Parse on a grammar
// grammar) and want the same checks ParseGrammar applies internally.
func Validate(grammar *ast.Node) error {
	return analysis.Validate(grammar)
}

// InferTypes re-exports typing.Infer, returning the inferred AST node
// shape of every tag a validated grammar AST produces and of every
// rule reachable from its first rule, keyed by tag or rule name.
func InferTypes(grammar *ast.Node) (map[string]typing.Type, error) {
	return typing.Infer(grammar)
}
