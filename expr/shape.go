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

import "github.com/salikh/pegtree/tree"

// Tag succeeds with zero input consumed, replacing the incoming
// fragment with a freshly Named one. It is the unique primitive that
// asserts "a node with this tag will be built here."
type Tag struct {
	Name string
}

func (t Tag) Parse(input string, in tree.Fragment) (Result, bool, error) {
	return Result{Fragment: tree.Named{Name: t.Name}, Rest: input}, true, nil
}

// runInner parses e against a fresh Empty fragment, isolating its
// effect from the outer fragment, as every tree-shaping wrapper
// requires.
func runInner(e Expr, input string) (Result, bool, error) {
	return e.Parse(input, tree.Empty{})
}

// Ignore discards the inner result entirely; only the cursor advances.
type Ignore struct {
	Expr Expr
}

func (i Ignore) Parse(input string, in tree.Fragment) (Result, bool, error) {
	res, ok, err := runInner(i.Expr, input)
	if err != nil {
		return Result{}, false, err
	}
	if !ok {
		return Result{}, false, nil
	}
	return Result{Fragment: in, Rest: res.Rest}, true, nil
}

// Extend splices the inner fragment's content left-to-right into the
// outer fragment: outer = outer.Extend(inner).
type Extend struct {
	Expr Expr
}

func (e Extend) Parse(input string, in tree.Fragment) (Result, bool, error) {
	res, ok, err := runInner(e.Expr, input)
	if err != nil {
		return Result{}, false, err
	}
	if !ok {
		return Result{}, false, nil
	}
	out, err := in.Extend(res.Fragment)
	if err != nil {
		return Result{}, false, err
	}
	return Result{Fragment: out, Rest: res.Rest}, true, nil
}

// Rextend is Extend with content order reversed: outer =
// inner.Rextend(outer). It is how right-to-left association (e.g. a
// left-recursive rewrite's associativity) is expressed.
type Rextend struct {
	Expr Expr
}

func (r Rextend) Parse(input string, in tree.Fragment) (Result, bool, error) {
	res, ok, err := runInner(r.Expr, input)
	if err != nil {
		return Result{}, false, err
	}
	if !ok {
		return Result{}, false, nil
	}
	out, err := res.Fragment.Rextend(in)
	if err != nil {
		return Result{}, false, err
	}
	return Result{Fragment: out, Rest: res.Rest}, true, nil
}

// Append finalises the inner fragment and appends it to the outer
// fragment under Label.
type Append struct {
	Expr  Expr
	Label string
}

func (a Append) Parse(input string, in tree.Fragment) (Result, bool, error) {
	res, ok, err := runInner(a.Expr, input)
	if err != nil {
		return Result{}, false, err
	}
	if !ok {
		return Result{}, false, nil
	}
	out, err := in.Append(a.Label, res.Fragment)
	if err != nil {
		return Result{}, false, err
	}
	return Result{Fragment: out, Rest: res.Rest}, true, nil
}

// Rappend finalises the outer fragment and appends it to the inner
// fragment under Label; the inner fragment becomes the new outer
// fragment. This is the construct that rewrites a left-recursive
// binary-operator shape "X (op X)*" into left-associated node trees
// without the grammar actually recursing on the left.
type Rappend struct {
	Expr  Expr
	Label string
}

func (r Rappend) Parse(input string, in tree.Fragment) (Result, bool, error) {
	res, ok, err := runInner(r.Expr, input)
	if err != nil {
		return Result{}, false, err
	}
	if !ok {
		return Result{}, false, nil
	}
	out, err := res.Fragment.Rappend(r.Label, in)
	if err != nil {
		return Result{}, false, err
	}
	return Result{Fragment: out, Rest: res.Rest}, true, nil
}
