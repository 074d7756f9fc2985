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

// Package tree implements the algebra of partial tree fragments that a
// parse threads through each parsing expression. A fragment is one of
// six variants (Empty, Named, String, Term, Container, Node); every
// tree-shaping operator has a total meaning on some subset of variants
// and returns a ShapeError on any other combination, since that
// combination can only arise from a bug in the grammar's tree-shaping
// annotations, not from the input text.
package tree

import (
	"fmt"

	"github.com/salikh/pegtree/ast"
)

// Fragment is a partial tree value under construction during a parse.
// Operations are never destructive: each returns a new Fragment and
// leaves the receiver untouched.
type Fragment interface {
	// Extend concatenates other's text or splices other's children
	// into the receiver, promoting Empty to String/Container and Named
	// to Term/Node as needed.
	Extend(other Fragment) (Fragment, error)
	// Append adds other, finalised, as a new child of the receiver
	// under label, promoting Empty to Container and Named to Node.
	Append(label string, other Fragment) (Fragment, error)
	// Rextend is Extend with the operands' content order reversed:
	// other's content precedes the receiver's.
	Rextend(other Fragment) (Fragment, error)
	// Rappend adds other, finalised, under label ahead of the
	// receiver's existing children, promoting Empty to Container and
	// Named to Node. expr.Rappend calls it on the inner fragment with
	// the outer one as other, so the inner fragment becomes the new
	// outer fragment.
	Rappend(label string, other Fragment) (Fragment, error)
	// Finalize snapshots the fragment as an immutable ast.Node.
	Finalize() *ast.Node
}

// ShapeError reports that a tree-shaping operator was applied to a
// fragment variant it has no meaning for. This is a grammar-authoring
// bug, distinct from parse failure (spec §7.3).
type ShapeError struct {
	Op   string
	From interface{}
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("pegtree: %s has no meaning on %T", e.Op, e.From)
}

func shapeErr(op string, from interface{}) error {
	return &ShapeError{Op: op, From: from}
}

// Empty is the fragment at the start of every parse: no tag has been
// asserted and no content captured yet.
type Empty struct{}

func (Empty) Extend(other Fragment) (Fragment, error) {
	switch o := other.(type) {
	case String:
		return String{Value: o.Value}, nil
	case Term:
		return String{Value: o.Value}, nil
	case Container:
		return Container{Values: concat(o.Values, nil)}, nil
	case Node:
		return Container{Values: concat(o.Values, nil)}, nil
	default:
		return Empty{}, nil
	}
}

func (e Empty) Rextend(other Fragment) (Fragment, error) {
	return e.Extend(other)
}

func (Empty) Append(label string, other Fragment) (Fragment, error) {
	return Container{Values: []ast.LabelChild{{Label: label, Child: other.Finalize()}}}, nil
}

func (Empty) Rappend(label string, other Fragment) (Fragment, error) {
	return Container{Values: []ast.LabelChild{{Label: label, Child: other.Finalize()}}}, nil
}

// Finalize returns nil: Empty is only ever finalised through a Rule
// whose body never extends or appends, i.e. a rule matching the
// unmodified Epsilon. Callers treat a nil *ast.Node as "no tree."
func (Empty) Finalize() *ast.Node {
	return nil
}

// Named records that a Tag has fired but no content has arrived yet; it
// becomes a Term once text is extended, or a Node once a child is
// appended.
type Named struct {
	Name string
}

func (n Named) Extend(other Fragment) (Fragment, error) {
	switch o := other.(type) {
	case String:
		return Term{Name: n.Name, Value: o.Value}, nil
	case Term:
		return Term{Name: n.Name, Value: o.Value}, nil
	case Container:
		return Node{Name: n.Name, Values: concat(o.Values, nil)}, nil
	case Node:
		return Node{Name: n.Name, Values: concat(o.Values, nil)}, nil
	default:
		return n, nil
	}
}

func (n Named) Rextend(other Fragment) (Fragment, error) {
	return n.Extend(other)
}

func (n Named) Append(label string, other Fragment) (Fragment, error) {
	return Node{Name: n.Name, Values: []ast.LabelChild{{Label: label, Child: other.Finalize()}}}, nil
}

func (n Named) Rappend(label string, other Fragment) (Fragment, error) {
	return Node{Name: n.Name, Values: []ast.LabelChild{{Label: label, Child: other.Finalize()}}}, nil
}

func (n Named) Finalize() *ast.Node {
	return &ast.Node{Name: n.Name}
}

// String is a lexeme under construction with no tag attached.
type String struct {
	Value string
}

func (s String) Extend(other Fragment) (Fragment, error) {
	o, ok := other.(String)
	if !ok {
		return nil, shapeErr("extend", s)
	}
	return String{Value: s.Value + o.Value}, nil
}

func (s String) Rextend(other Fragment) (Fragment, error) {
	o, ok := other.(String)
	if !ok {
		return nil, shapeErr("rextend", s)
	}
	return String{Value: o.Value + s.Value}, nil
}

func (s String) Append(label string, other Fragment) (Fragment, error) {
	return nil, shapeErr("append", s)
}

func (s String) Rappend(label string, other Fragment) (Fragment, error) {
	return nil, shapeErr("rappend", s)
}

func (s String) Finalize() *ast.Node {
	return &ast.Node{Value: s.Value}
}

// Term is a leaf node carrying a tag and a literal value.
type Term struct {
	Name  string
	Value string
}

func (t Term) Extend(other Fragment) (Fragment, error) {
	o, ok := other.(String)
	if !ok {
		return nil, shapeErr("extend", t)
	}
	return Term{Name: t.Name, Value: t.Value + o.Value}, nil
}

func (t Term) Rextend(other Fragment) (Fragment, error) {
	o, ok := other.(String)
	if !ok {
		return nil, shapeErr("rextend", t)
	}
	return Term{Name: t.Name, Value: o.Value + t.Value}, nil
}

func (t Term) Append(label string, other Fragment) (Fragment, error) {
	return nil, shapeErr("append", t)
}

func (t Term) Rappend(label string, other Fragment) (Fragment, error) {
	return nil, shapeErr("rappend", t)
}

func (t Term) Finalize() *ast.Node {
	return &ast.Node{Name: t.Name, Value: t.Value}
}

// Container holds accumulated children with no tag yet.
type Container struct {
	Values []ast.LabelChild
}

func (c Container) Extend(other Fragment) (Fragment, error) {
	o, ok := childValues(other)
	if !ok {
		return nil, shapeErr("extend", c)
	}
	return Container{Values: concat(c.Values, o)}, nil
}

func (c Container) Rextend(other Fragment) (Fragment, error) {
	o, ok := childValues(other)
	if !ok {
		return nil, shapeErr("rextend", c)
	}
	return Container{Values: concat(o, c.Values)}, nil
}

func (c Container) Append(label string, other Fragment) (Fragment, error) {
	v := append(concat(c.Values, nil), ast.LabelChild{Label: label, Child: other.Finalize()})
	return Container{Values: v}, nil
}

func (c Container) Rappend(label string, other Fragment) (Fragment, error) {
	v := append([]ast.LabelChild{{Label: label, Child: other.Finalize()}}, c.Values...)
	return Container{Values: v}, nil
}

func (c Container) Finalize() *ast.Node {
	return &ast.Node{Children: concat(c.Values, nil)}
}

// Node is a fully shaped internal node: a tag with ordered, labelled
// children.
type Node struct {
	Name   string
	Values []ast.LabelChild
}

func (n Node) Extend(other Fragment) (Fragment, error) {
	o, ok := childValues(other)
	if !ok {
		return nil, shapeErr("extend", n)
	}
	return Node{Name: n.Name, Values: concat(n.Values, o)}, nil
}

func (n Node) Rextend(other Fragment) (Fragment, error) {
	o, ok := childValues(other)
	if !ok {
		return nil, shapeErr("rextend", n)
	}
	return Node{Name: n.Name, Values: concat(o, n.Values)}, nil
}

func (n Node) Append(label string, other Fragment) (Fragment, error) {
	v := append(concat(n.Values, nil), ast.LabelChild{Label: label, Child: other.Finalize()})
	return Node{Name: n.Name, Values: v}, nil
}

func (n Node) Rappend(label string, other Fragment) (Fragment, error) {
	v := append([]ast.LabelChild{{Label: label, Child: other.Finalize()}}, n.Values...)
	return Node{Name: n.Name, Values: v}, nil
}

func (n Node) Finalize() *ast.Node {
	return &ast.Node{Name: n.Name, Children: concat(n.Values, nil)}
}

// childValues extracts the ordered (label, child) pairs from a
// Container or Node fragment, the two variants that already carry
// finalised children. It is the Go stand-in for the Python original's
// duck-typed access to ._values.
func childValues(f Fragment) ([]ast.LabelChild, bool) {
	switch o := f.(type) {
	case Container:
		return o.Values, true
	case Node:
		return o.Values, true
	default:
		return nil, false
	}
}

func concat(a, b []ast.LabelChild) []ast.LabelChild {
	r := make([]ast.LabelChild, 0, len(a)+len(b))
	r = append(r, a...)
	r = append(r, b...)
	return r
}
