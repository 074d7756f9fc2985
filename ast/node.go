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

// Package ast holds the finalised, immutable abstract syntax tree that a
// successful parse produces. Every node is one of three shapes: a bare
// tag, a term leaf carrying a literal value, or an internal node with
// ordered, possibly-repeated, labelled children.
package ast

import "strings"

// LabelChild is one labelled child slot of a Node, in the order it was
// appended or rappended during parsing.
type LabelChild struct {
	Label string
	Child *Node
}

// Node is a finalised tree produced by Fragment.Finalize. Name is the
// tag asserted by the grammar's Tag operator. Value is only meaningful
// for a term leaf (a tagged node that was extended with captured text
// and never appended any children). Children is empty for a bare tag or
// a term leaf.
type Node struct {
	Name     string
	Value    string
	Children []LabelChild
}

// Values returns every child appended under label, in appearance order.
// It returns nil if no child carries that label.
func (n *Node) Values(label string) []*Node {
	if n == nil {
		return nil
	}
	var r []*Node
	for _, lc := range n.Children {
		if lc.Label == label {
			r = append(r, lc.Child)
		}
	}
	return r
}

// Only returns the single child appended under label. It returns nil if
// no child carries that label; if more than one does, it returns the
// first, matching the grammar author's implicit assumption that a
// label used with Only is singular.
func (n *Node) Only(label string) *Node {
	if n == nil {
		return nil
	}
	for _, lc := range n.Children {
		if lc.Label == label {
			return lc.Child
		}
	}
	return nil
}

// HasLabel reports whether any child carries the given label.
func (n *Node) HasLabel(label string) bool {
	if n == nil {
		return false
	}
	for _, lc := range n.Children {
		if lc.Label == label {
			return true
		}
	}
	return false
}

func (n *Node) String() string {
	if n == nil {
		return "(nil)"
	}
	if len(n.Children) == 0 {
		if n.Value != "" {
			return n.Name + "(" + quote(n.Value) + ")"
		}
		return n.Name + "()"
	}
	parts := make([]string, len(n.Children))
	for i, lc := range n.Children {
		parts[i] = lc.Label + "=" + lc.Child.String()
	}
	indented := strings.ReplaceAll(strings.Join(parts, ",\n    "), "\n", "\n    ")
	return n.Name + "(\n    " + indented + ")"
}

func quote(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		if r == '\'' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('\'')
	return b.String()
}
