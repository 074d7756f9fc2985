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

// Package typing infers, for every rule of a validated grammar, the
// shape of AST node its body can produce: a small sum-of-products
// algebra (Empty/String/Named/Term/Container/Node, closed under Or)
// mirroring the six tree.Fragment variants one level up, at the level
// of node *shapes* rather than node *values*.
package typing

import (
	"fmt"
	"sort"
	"strings"
)

// Type is an inferred AST node shape. Concrete types are immutable
// values; every method returns a new Type rather than mutating the
// receiver.
type Type interface {
	// Key canonically identifies this type value for deduplication in
	// Or-sets and Registry maps, standing in for Python's __eq__/__hash__
	// pair on a family of classes that are not otherwise comparable.
	Key() string
	// Elements yields the atomic alternatives this type stands for: any
	// Type except OrType yields itself; OrType yields its members.
	Elements() []Type
	// Flat reduces a type to the bare reference used once it has been
	// registered under a name: Named/Term/Node collapse to RefType,
	// everything else is already flat.
	Flat() Type
	// Unnamed drops this type's own tag, for when a value is spliced
	// into a surrounding fragment rather than standing alone.
	Unnamed() Type
	// Resolve replaces RuleRefType placeholders, including those held in
	// a node's fields, with the shapes the Registry recorded for that
	// rule; a RefType resolves to itself.
	Resolve() Type
	// Force expands a RuleRefType placeholder that stands for "nothing
	// captured yet" into the rule's own inferred shape; every other
	// type is already as forced as it gets.
	Force() Type
	// Ref returns the rule/tag name this type is a bare reference to,
	// or "" if it is not itself a reference.
	Ref() string
	// Append attaches other under label, as the Append/Rappend
	// tree-shaping operators would. ok is false if label has no
	// meaning on this receiver's shape.
	Append(label string, other Type) (result Type, ok bool)
	// Extend splices other's content into the receiver, as Extend/
	// Rextend would. ok is false if that combination has no meaning.
	Extend(other Type) (result Type, ok bool)
}

func defaultElements(t Type) []Type { return []Type{t} }

// EmptyType is the starting shape: no tag asserted, no content yet.
type EmptyType struct{}

func (EmptyType) Key() string          { return "Empty" }
func (t EmptyType) Elements() []Type   { return defaultElements(t) }
func (t EmptyType) Flat() Type         { return t }
func (t EmptyType) Unnamed() Type      { return t }
func (t EmptyType) Resolve() Type      { return t }
func (t EmptyType) Force() Type        { return t }
func (EmptyType) Ref() string          { return "" }
func (EmptyType) Append(label string, other Type) (Type, bool) {
	return ContainerType{Values: map[string]Type{label: other}}, true
}
func (EmptyType) Extend(other Type) (Type, bool) {
	return other.Unnamed(), true
}

// StringType is raw captured text with no tag.
type StringType struct{}

func (StringType) Key() string        { return "String" }
func (t StringType) Elements() []Type { return defaultElements(t) }
func (t StringType) Flat() Type       { return t }
func (t StringType) Unnamed() Type    { return t }
func (t StringType) Resolve() Type    { return t }
func (t StringType) Force() Type      { return t }
func (StringType) Ref() string        { return "" }
func (StringType) Append(string, Type) (Type, bool) {
	return nil, false
}
func (s StringType) Extend(other Type) (Type, bool) {
	var res []Type
	for _, t := range other.Elements() {
		switch t.(type) {
		case EmptyType, StringType, TermType:
			res = append(res, s)
		default:
			return nil, false
		}
	}
	return MakeOrType(res), true
}

// NamedType is a tag with no content captured yet.
type NamedType struct{ Name string }

func (n NamedType) Key() string        { return "Named:" + n.Name }
func (n NamedType) Elements() []Type   { return defaultElements(n) }
func (n NamedType) Flat() Type         { return RefType{Name: n.Name} }
func (NamedType) Unnamed() Type        { return EmptyType{} }
func (n NamedType) Resolve() Type      { return n }
func (n NamedType) Force() Type        { return n }
func (NamedType) Ref() string          { return "" }
func (n NamedType) Append(label string, other Type) (Type, bool) {
	return NodeType{Name: n.Name, Values: map[string]Type{label: other}}, true
}
func (n NamedType) Extend(other Type) (Type, bool) {
	var res []Type
	for _, t0 := range other.Elements() {
		t := t0.Force()
		switch v := t.(type) {
		case EmptyType, NamedType:
			res = append(res, n)
		case StringType, TermType:
			res = append(res, TermType{Name: n.Name})
		case ContainerType:
			res = append(res, NodeType{Name: n.Name, Values: v.Values, Arrays: v.Arrays})
		case NodeType:
			res = append(res, NodeType{Name: n.Name, Values: v.Values, Arrays: v.Arrays})
		default:
			return nil, false
		}
	}
	return MakeOrType(res), true
}

// TermType is a tagged leaf carrying text.
type TermType struct{ Name string }

func (t TermType) Key() string        { return "Term:" + t.Name }
func (t TermType) Elements() []Type   { return defaultElements(t) }
func (t TermType) Flat() Type         { return RefType{Name: t.Name} }
func (TermType) Unnamed() Type        { return StringType{} }
func (t TermType) Resolve() Type      { return t }
func (t TermType) Force() Type        { return t }
func (TermType) Ref() string          { return "" }
func (TermType) Append(string, Type) (Type, bool) {
	return nil, false
}

// Extend is not defined on the original's TermType (a second Extend on
// an already-termed accumulator would crash there); we give it the
// obvious total meaning instead of leaving a latent panic.
func (t TermType) Extend(other Type) (Type, bool) {
	var res []Type
	for _, o := range other.Elements() {
		switch o.(type) {
		case EmptyType, StringType, TermType:
			res = append(res, t)
		default:
			return nil, false
		}
	}
	return MakeOrType(res), true
}

// ContainerType holds labelled field shapes with no tag of its own.
type ContainerType struct {
	Values map[string]Type
	Arrays map[string]bool
}

func (c ContainerType) Key() string {
	return "Container:" + fieldsKey(c.Values, c.Arrays)
}
func (c ContainerType) Elements() []Type { return defaultElements(c) }
func (c ContainerType) Flat() Type       { return c }
func (c ContainerType) Unnamed() Type    { return c }
func (c ContainerType) Resolve() Type    { return c }
func (c ContainerType) Force() Type      { return c }
func (ContainerType) Ref() string        { return "" }
func (c ContainerType) Append(label string, other Type) (Type, bool) {
	return ContainerType{Values: mergeField(c.Values, label, other), Arrays: markArray(c.Arrays, c.Values, label)}, true
}
func (c ContainerType) Extend(other Type) (Type, bool) {
	for _, o := range other.Elements() {
		switch v := o.(type) {
		case EmptyType:
		case ContainerType:
			c = ContainerType{Values: mergeAll(c.Values, v.Values), Arrays: unionSet(c.Arrays, v.Arrays)}
		case NodeType:
			c = ContainerType{Values: mergeAll(c.Values, v.Values), Arrays: unionSet(c.Arrays, v.Arrays)}
		default:
			return nil, false
		}
	}
	return c, true
}

// NodeType is a fully tagged node with labelled field shapes. Arrays
// marks which labels were appended more than once (so the eventual
// generated accessor must be a slice, not a single value).
type NodeType struct {
	Name   string
	Values map[string]Type
	Arrays map[string]bool
}

func (n NodeType) Key() string {
	return "Node:" + n.Name + ":" + fieldsKey(n.Values, n.Arrays)
}
func (n NodeType) Elements() []Type { return defaultElements(n) }
func (n NodeType) Flat() Type       { return RefType{Name: n.Name} }
func (n NodeType) Unnamed() Type    { return ContainerType{Values: n.Values, Arrays: n.Arrays} }
func (n NodeType) Resolve() Type {
	values := make(map[string]Type, len(n.Values))
	for k, v := range n.Values {
		values[k] = v.Resolve()
	}
	return NodeType{Name: n.Name, Values: values, Arrays: n.Arrays}
}
func (n NodeType) Force() Type { return n }
func (NodeType) Ref() string   { return "" }
func (n NodeType) Append(label string, other Type) (Type, bool) {
	return NodeType{Name: n.Name, Values: mergeField(n.Values, label, other), Arrays: markArray(n.Arrays, n.Values, label)}, true
}
func (n NodeType) Extend(other Type) (Type, bool) {
	for _, o := range other.Elements() {
		switch v := o.(type) {
		case EmptyType:
		case ContainerType:
			n = NodeType{Name: n.Name, Values: mergeAll(n.Values, v.Values), Arrays: unionSet(n.Arrays, v.Arrays)}
		case NodeType:
			n = NodeType{Name: n.Name, Values: mergeAll(n.Values, v.Values), Arrays: unionSet(n.Arrays, v.Arrays)}
		default:
			return nil, false
		}
	}
	return n, true
}

func mergeField(values map[string]Type, label string, other Type) map[string]Type {
	res := make(map[string]Type, len(values)+1)
	for k, v := range values {
		res[k] = v
	}
	if existing, ok := res[label]; ok {
		res[label] = Merge(existing, other)
	} else {
		res[label] = other
	}
	return res
}

func markArray(arrays map[string]bool, values map[string]Type, label string) map[string]bool {
	res := make(map[string]bool, len(arrays)+1)
	for k := range arrays {
		res[k] = true
	}
	if _, existed := values[label]; existed {
		res[label] = true
	}
	return res
}

func mergeAll(a, b map[string]Type) map[string]Type {
	res := make(map[string]Type, len(a)+len(b))
	for k, v := range a {
		res[k] = v
	}
	for k, v := range b {
		if existing, ok := res[k]; ok {
			res[k] = Merge(existing, v)
		} else {
			res[k] = v
		}
	}
	return res
}

func unionSet(a, b map[string]bool) map[string]bool {
	res := make(map[string]bool, len(a)+len(b))
	for k := range a {
		res[k] = true
	}
	for k := range b {
		res[k] = true
	}
	return res
}

func fieldsKey(values map[string]Type, arrays map[string]bool) string {
	names := make([]string, 0, len(values))
	for k := range values {
		names = append(names, k)
	}
	sort.Strings(names)
	var b strings.Builder
	for _, name := range names {
		if arrays[name] {
			fmt.Fprintf(&b, "%s=[%s];", name, values[name].Key())
		} else {
			fmt.Fprintf(&b, "%s=%s;", name, values[name].Key())
		}
	}
	return b.String()
}

// OrType is a set of alternative shapes, deduplicated by Key.
type OrType struct{ Elems []Type }

// MakeOrType builds the simplest Type equivalent to the union of ts,
// deduplicating by Key. An empty union is represented as nil, meaning
// "no type at all" (the typing-algebra analogue of PEG failure), and
// callers must propagate that exactly as a failed Process does.
func MakeOrType(ts []Type) Type {
	seen := make(map[string]Type, len(ts))
	order := make([]string, 0, len(ts))
	for _, t := range ts {
		if t == nil {
			continue
		}
		if _, ok := seen[t.Key()]; !ok {
			order = append(order, t.Key())
		}
		seen[t.Key()] = t
	}
	if len(order) == 0 {
		return nil
	}
	if len(order) == 1 {
		return seen[order[0]]
	}
	sort.Strings(order)
	elems := make([]Type, len(order))
	for i, k := range order {
		elems[i] = seen[k]
	}
	return OrType{Elems: elems}
}

// Merge returns the union of a and b's alternatives as a single Type.
func Merge(a, b Type) Type {
	return MakeOrType(append(append([]Type{}, a.Elements()...), b.Elements()...))
}

func (o OrType) Key() string {
	keys := make([]string, len(o.Elems))
	for i, e := range o.Elems {
		keys[i] = e.Key()
	}
	sort.Strings(keys)
	return "Or:" + strings.Join(keys, "|")
}
func (o OrType) Elements() []Type { return o.Elems }
func (o OrType) Flat() Type {
	var ts []Type
	for _, e := range o.Elems {
		ts = append(ts, e.Flat())
	}
	return MakeOrType(ts)
}
func (o OrType) Unnamed() Type {
	var ts []Type
	for _, e := range o.Elems {
		ts = append(ts, e.Unnamed())
	}
	return MakeOrType(ts)
}
func (o OrType) Resolve() Type {
	var ts []Type
	for _, e := range o.Elems {
		ts = append(ts, e.Resolve().Elements()...)
	}
	if r := MakeOrType(ts); r != nil {
		return r
	}
	return EmptyType{}
}
func (o OrType) Force() Type { return o }
func (OrType) Ref() string   { return "" }
func (o OrType) Append(label string, other Type) (Type, bool) {
	var ts []Type
	for _, e := range o.Elems {
		r, ok := e.Append(label, other)
		if !ok {
			return nil, false
		}
		ts = append(ts, r.Elements()...)
	}
	return MakeOrType(ts), true
}
func (o OrType) Extend(other Type) (Type, bool) {
	var ts []Type
	for _, e := range o.Elems {
		r, ok := e.Extend(other)
		if !ok {
			return nil, false
		}
		ts = append(ts, r.Elements()...)
	}
	return MakeOrType(ts), true
}

// RefType is a resolved-by-name pointer to a type that has been
// registered under that name (a tag or rule name).
type RefType struct{ Name string }

func (r RefType) Key() string        { return "Ref:" + r.Name }
func (r RefType) Elements() []Type   { return defaultElements(r) }
func (r RefType) Flat() Type         { return r }
func (RefType) Unnamed() Type        { return EmptyType{} }
func (r RefType) Resolve() Type      { return r }
func (r RefType) Force() Type        { return r }
func (r RefType) Ref() string        { return r.Name }
func (RefType) Append(string, Type) (Type, bool) {
	return nil, false
}
func (RefType) Extend(Type) (Type, bool) {
	return nil, false
}

// RuleRefType stands for "whatever rule Name eventually infers to,"
// used while a rule reference is still being processed and its own
// return type is not known yet. It resolves once Registry.Infer has
// visited Name.
type RuleRefType struct {
	Name     string
	Registry *Registry
}

func (r RuleRefType) Key() string      { return "RuleRef:" + r.Name }
func (r RuleRefType) Elements() []Type { return defaultElements(r) }
func (r RuleRefType) Flat() Type       { return r }
func (r RuleRefType) Unnamed() Type    { return r.Force().Unnamed() }
func (r RuleRefType) Resolve() Type {
	refs := r.Registry.GetRef(r.Name)
	seen := map[string]Type{}
	for _, t := range refs {
		seen[t.Key()] = t
	}
	for {
		next := map[string]Type{}
		for _, t := range seen {
			for _, rt := range t.Resolve().Elements() {
				next[rt.Key()] = rt
			}
		}
		if sameSet(seen, next) {
			break
		}
		seen = next
	}
	var ts []Type
	for _, t := range seen {
		ts = append(ts, t)
	}
	if r := MakeOrType(ts); r != nil {
		return r
	}
	return EmptyType{}
}
func (r RuleRefType) Force() Type {
	body, ok := r.Registry.exprs[r.Name]
	if !ok {
		return EmptyType{}
	}
	t, err := body.Process(EmptyType{})
	if err != nil || t == nil {
		return EmptyType{}
	}
	return t
}
func (r RuleRefType) Ref() string { return r.Name }
func (r RuleRefType) Append(label string, other Type) (Type, bool) {
	return r.Force().Append(label, other)
}
func (r RuleRefType) Extend(other Type) (Type, bool) {
	return r.Force().Extend(other)
}

func sameSet(a, b map[string]Type) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

// Common folds t's alternatives down to their single best-effort
// shared shape, used to present one representative type per rule.
// Where the original Python would raise an uncaught TypeError on a
// mismatched pair, this falls back to keeping them as an OrType rather
// than crashing — the two only disagree on a rule whose alternatives
// never actually unify into one record shape, which is informative on
// its own.
func Common(t Type) Type {
	var current Type = EmptyType{}
	for _, e := range t.Elements() {
		current = combine(current, e)
	}
	return current
}

func combine(a, b Type) Type {
	if _, ok := a.(EmptyType); ok {
		return b
	}
	if a.Key() == b.Key() {
		return a
	}
	switch va := a.(type) {
	case NamedType:
		if vb, ok := b.(NodeType); ok {
			return combine(vb, a)
		}
		if vb, ok := b.(NamedType); ok && vb.Name == va.Name {
			return a
		}
		if vb, ok := b.(TermType); ok && vb.Name == va.Name {
			return b
		}
	case TermType:
		if vb, ok := b.(NamedType); ok && vb.Name == va.Name {
			return a
		}
	case NodeType:
		if vb, ok := b.(NodeType); ok && vb.Name == va.Name {
			return NodeType{Name: va.Name, Values: mergeAll(va.Values, vb.Values), Arrays: unionSet(va.Arrays, vb.Arrays)}
		}
		if vb, ok := b.(NamedType); ok && vb.Name == va.Name {
			return a
		}
	}
	return Merge(a, b)
}
