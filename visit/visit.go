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

// Package visit provides the tag-dispatch convention external
// consumers of a parsed tree use to write their own evaluators: one
// method per tag, named "Visit"+Tag, found by reflection since the
// tag vocabulary of an arbitrary user grammar is not known at compile
// time. Internal packages of this module (analysis, typing, compile.go)
// never use this package — their tag set is the fixed metagrammar, so
// they dispatch with an ordinary Go switch instead (see each package's
// doc comment).
package visit

import (
	"fmt"
	"reflect"

	"github.com/salikh/pegtree/ast"
)

// Visitor is any Go value exposing Visit<Tag> methods. It is checked by
// reflection, not by a method set, since the tag vocabulary varies per
// grammar.
type Visitor interface{}

// NoHandlerError reports that v has neither a Visit<Name> method nor a
// VisitGeneric fallback for a node tagged Name.
type NoHandlerError struct {
	Name string
}

func (e *NoHandlerError) Error() string {
	return fmt.Sprintf("pegtree: visit: no handler for tag %q", e.Name)
}

// Visit dispatches n to v's Visit<n.Name> method, falling back to
// v.VisitGeneric(n) if v implements that method and has no specific
// handler for n.Name. It returns a *NoHandlerError if neither exists.
func Visit(v Visitor, n *ast.Node) (any, error) {
	rv := reflect.ValueOf(v)
	if m := rv.MethodByName("Visit" + n.Name); m.IsValid() {
		return callVisit(m, n)
	}
	if m := rv.MethodByName("VisitGeneric"); m.IsValid() {
		return callVisit(m, n)
	}
	return nil, &NoHandlerError{Name: n.Name}
}

func callVisit(m reflect.Value, n *ast.Node) (any, error) {
	out := m.Call([]reflect.Value{reflect.ValueOf(n)})
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		if err, ok := out[0].Interface().(error); ok {
			return nil, err
		}
		return out[0].Interface(), nil
	default:
		result := out[0].Interface()
		if out[1].IsNil() {
			return result, nil
		}
		return result, out[1].Interface().(error)
	}
}

// VisitChildren calls Visit on every child of n, in order, stopping at
// the first error. It is the building block a VisitGeneric fallback
// uses to descend structurally when no specific handler applies.
func VisitChildren(v Visitor, n *ast.Node) error {
	for _, lc := range n.Children {
		if _, err := Visit(v, lc.Child); err != nil {
			return err
		}
	}
	return nil
}

// VisitByType dispatches on n's Go dynamic type rather than its tag
// string, naming the method "Visit" + the type's name. The generic AST
// this module produces has exactly one Go type (*ast.Node), so this
// mode is never exercised by the core; it exists so a generic tree
// value of some other Go type family can reuse the same calling
// convention as ClassVisitor did for the Python original.
func VisitByType(v Visitor, n any) (any, error) {
	rv := reflect.ValueOf(v)
	t := reflect.TypeOf(n)
	name := t.Name()
	if t.Kind() == reflect.Ptr {
		name = t.Elem().Name()
	}
	if m := rv.MethodByName("Visit" + name); m.IsValid() {
		out := m.Call([]reflect.Value{reflect.ValueOf(n)})
		switch len(out) {
		case 0:
			return nil, nil
		case 1:
			if err, ok := out[0].Interface().(error); ok {
				return nil, err
			}
			return out[0].Interface(), nil
		default:
			if out[1].IsNil() {
				return out[0].Interface(), nil
			}
			return out[0].Interface(), out[1].Interface().(error)
		}
	}
	return nil, &NoHandlerError{Name: name}
}
