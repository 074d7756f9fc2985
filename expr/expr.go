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

// Package expr implements the parsing expression algebra: terminals,
// sequencing, ordered choice, repetition, lookahead, and the
// tree-shaping wrappers that thread a tree.Fragment through every
// recursive step. Every Expr consumes (input, incoming fragment) and
// either succeeds with (new fragment, remaining input) or fails,
// leaving both the cursor and the incoming fragment untouched to the
// caller (spec §4.1, §8's first quantified invariant).
package expr

import (
	"strings"
	"unicode/utf8"

	"github.com/salikh/pegtree/ast"
	"github.com/salikh/pegtree/tree"
)

// Result is the outcome of a successful Parse.
type Result struct {
	Fragment tree.Fragment
	Rest     string
}

// Expr is one parsing expression. Ok is false on failure; in that case
// Result is the zero value and the caller must behave as though input
// and the incoming fragment were never touched. A non-nil error
// signals an implementer/shape fault (spec §7.3): it must propagate
// out of the whole parse rather than be absorbed by backtracking.
type Expr interface {
	Parse(input string, in tree.Fragment) (out Result, ok bool, err error)
}

// Run parses s from the start against e and returns the finalised tree
// (nil if e failed) together with the unconsumed remainder. Consuming
// the whole input is the caller's responsibility, idiomatically by
// ending the grammar's start rule with "!.".
func Run(e Expr, s string) (*ast.Node, string, error) {
	res, ok, err := e.Parse(s, tree.Empty{})
	if err != nil {
		return nil, s, err
	}
	if !ok {
		return nil, s, nil
	}
	return res.Fragment.Finalize(), res.Rest, nil
}

// Epsilon always succeeds, consuming nothing.
type Epsilon struct{}

func (Epsilon) Parse(input string, in tree.Fragment) (Result, bool, error) {
	return Result{Fragment: in, Rest: input}, true, nil
}

// Nothing always fails.
type Nothing struct{}

func (Nothing) Parse(input string, in tree.Fragment) (Result, bool, error) {
	return Result{}, false, nil
}

// Any succeeds on one rune iff input is non-empty.
type Any struct{}

func (Any) Parse(input string, in tree.Fragment) (Result, bool, error) {
	if input == "" {
		return Result{}, false, nil
	}
	c, size := utf8.DecodeRuneInString(input)
	out, err := in.Extend(tree.String{Value: string(c)})
	if err != nil {
		return Result{}, false, err
	}
	return Result{Fragment: out, Rest: input[size:]}, true, nil
}

// Literal succeeds iff input starts with Text.
type Literal struct {
	Text string
}

func (l Literal) Parse(input string, in tree.Fragment) (Result, bool, error) {
	if !strings.HasPrefix(input, l.Text) {
		return Result{}, false, nil
	}
	out, err := in.Extend(tree.String{Value: l.Text})
	if err != nil {
		return Result{}, false, err
	}
	return Result{Fragment: out, Rest: input[len(l.Text):]}, true, nil
}

// CharRange succeeds on one rune c with Lo <= c <= Hi.
type CharRange struct {
	Lo, Hi rune
}

func (c CharRange) Parse(input string, in tree.Fragment) (Result, bool, error) {
	if input == "" {
		return Result{}, false, nil
	}
	ch, size := utf8.DecodeRuneInString(input)
	if ch < c.Lo || ch > c.Hi {
		return Result{}, false, nil
	}
	out, err := in.Extend(tree.String{Value: string(ch)})
	if err != nil {
		return Result{}, false, err
	}
	return Result{Fragment: out, Rest: input[size:]}, true, nil
}

// CharSet succeeds on one rune that is a member of Chars.
type CharSet struct {
	Chars map[rune]bool
}

// NewCharSet builds a CharSet from the given runes.
func NewCharSet(chars ...rune) CharSet {
	m := make(map[rune]bool, len(chars))
	for _, c := range chars {
		m[c] = true
	}
	return CharSet{Chars: m}
}

func (c CharSet) Parse(input string, in tree.Fragment) (Result, bool, error) {
	if input == "" {
		return Result{}, false, nil
	}
	ch, size := utf8.DecodeRuneInString(input)
	if !c.Chars[ch] {
		return Result{}, false, nil
	}
	out, err := in.Extend(tree.String{Value: string(ch)})
	if err != nil {
		return Result{}, false, err
	}
	return Result{Fragment: out, Rest: input[size:]}, true, nil
}

// Sequence parses First, then Second against First's output. Either's
// failure is the whole's failure, reported against the original input
// and incoming fragment.
type Sequence struct {
	First, Second Expr
}

func (s Sequence) Parse(input string, in tree.Fragment) (Result, bool, error) {
	r1, ok, err := s.First.Parse(input, in)
	if err != nil {
		return Result{}, false, err
	}
	if !ok {
		return Result{}, false, nil
	}
	r2, ok, err := s.Second.Parse(r1.Rest, r1.Fragment)
	if err != nil {
		return Result{}, false, err
	}
	if !ok {
		return Result{}, false, nil
	}
	return r2, true, nil
}

// Choice tries First; only on First's failure does it try Second. PEG
// ordered choice never reconsiders First once Second is attempted.
type Choice struct {
	First, Second Expr
}

func (c Choice) Parse(input string, in tree.Fragment) (Result, bool, error) {
	r, ok, err := c.First.Parse(input, in)
	if err != nil {
		return Result{}, false, err
	}
	if ok {
		return r, true, nil
	}
	return c.Second.Parse(input, in)
}

// Repeat greedily matches Expr zero or more times and always succeeds.
type Repeat struct {
	Expr Expr
}

func (r Repeat) Parse(input string, in tree.Fragment) (Result, bool, error) {
	frag, rest := in, input
	for {
		res, ok, err := r.Expr.Parse(rest, frag)
		if err != nil {
			return Result{}, false, err
		}
		if !ok {
			return Result{Fragment: frag, Rest: rest}, true, nil
		}
		frag, rest = res.Fragment, res.Rest
	}
}

// Repeat1 matches Expr one or more times; it fails iff the first
// attempt fails.
type Repeat1 struct {
	Expr Expr
}

func (r Repeat1) Parse(input string, in tree.Fragment) (Result, bool, error) {
	res, ok, err := r.Expr.Parse(input, in)
	if err != nil {
		return Result{}, false, err
	}
	if !ok {
		return Result{}, false, nil
	}
	frag, rest := res.Fragment, res.Rest
	for {
		res, ok, err := r.Expr.Parse(rest, frag)
		if err != nil {
			return Result{}, false, err
		}
		if !ok {
			return Result{Fragment: frag, Rest: rest}, true, nil
		}
		frag, rest = res.Fragment, res.Rest
	}
}

// Optional tries Expr; on failure it succeeds with the incoming
// fragment unchanged.
type Optional struct {
	Expr Expr
}

func (o Optional) Parse(input string, in tree.Fragment) (Result, bool, error) {
	res, ok, err := o.Expr.Parse(input, in)
	if err != nil {
		return Result{}, false, err
	}
	if !ok {
		return Result{Fragment: in, Rest: input}, true, nil
	}
	return res, true, nil
}

// And is positive lookahead: it parses Expr against a fresh Empty
// fragment and, on success, returns the original fragment and cursor
// unchanged.
type And struct {
	Expr Expr
}

func (a And) Parse(input string, in tree.Fragment) (Result, bool, error) {
	_, ok, err := a.Expr.Parse(input, tree.Empty{})
	if err != nil {
		return Result{}, false, err
	}
	if !ok {
		return Result{}, false, nil
	}
	return Result{Fragment: in, Rest: input}, true, nil
}

// Not is negative lookahead: it succeeds, unchanged, iff Expr fails.
type Not struct {
	Expr Expr
}

func (n Not) Parse(input string, in tree.Fragment) (Result, bool, error) {
	_, ok, err := n.Expr.Parse(input, tree.Empty{})
	if err != nil {
		return Result{}, false, err
	}
	if ok {
		return Result{}, false, nil
	}
	return Result{Fragment: in, Rest: input}, true, nil
}
