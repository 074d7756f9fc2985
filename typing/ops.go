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

package typing

import "fmt"

// TypeOp is one compiled step of type inference, mirroring one node of
// the grammar AST the way expr.Expr mirrors one node for parsing. Process
// threads an accumulating Type through the step; a nil result with a
// nil error means "this alternative contributes no type," the typing
// analogue of a parse failure.
type TypeOp interface {
	Process(t Type) (Type, error)
}

// FixpointExceededError reports that a repeat or memoized op's
// inner fixpoint loop did not stabilize within the iteration cap.
type FixpointExceededError struct {
	Op  string
	Cap int
}

func (e *FixpointExceededError) Error() string {
	return fmt.Sprintf("pegtree: typing %s op exceeded %d passes without converging", e.Op, e.Cap)
}

// MaxPasses bounds RepeatOp and MemoOp loops, matching
// analysis/boolean.MaxPasses for the same reason (spec §5/§9).
const MaxPasses = 512

// TagOp asserts a fresh tag, replacing whatever type was accumulated
// so far.
type TagOp struct{ Name string }

func (t TagOp) Process(Type) (Type, error) { return NamedType{Name: t.Name}, nil }

// NothingOp is the typing counterpart of expr.Nothing: a branch that
// can never succeed contributes no type.
type NothingOp struct{}

func (NothingOp) Process(Type) (Type, error) { return nil, nil }

// AppendOp finalises Op's own type and attaches it to the accumulator
// under Name.
type AppendOp struct {
	Op       TypeOp
	Name     string
	Registry *Registry
}

func (a AppendOp) Process(t Type) (Type, error) {
	r, err := a.Op.Process(EmptyType{})
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, nil
	}
	flat := a.Registry.SeenType(r).Flat()
	res, ok := t.Append(a.Name, flat)
	if !ok {
		return nil, nil
	}
	return res, nil
}

// RappendOp is AppendOp with the roles reversed: Op's own type becomes
// the new accumulator, with the old accumulator attached under Name.
type RappendOp struct {
	Op       TypeOp
	Name     string
	Registry *Registry
}

func (r RappendOp) Process(t Type) (Type, error) {
	inner, err := r.Op.Process(EmptyType{})
	if err != nil {
		return nil, err
	}
	if inner == nil {
		return nil, nil
	}
	flat := r.Registry.SeenType(t).Flat()
	res, ok := inner.Append(r.Name, flat)
	if !ok {
		return nil, nil
	}
	return res, nil
}

// ExtendOp splices Op's own type's content into the accumulator.
type ExtendOp struct{ Op TypeOp }

func (e ExtendOp) Process(t Type) (Type, error) {
	r, err := e.Op.Process(EmptyType{})
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, nil
	}
	res, ok := t.Extend(r.Force())
	if !ok {
		return nil, nil
	}
	return res, nil
}

// RextendOp is ExtendOp with the operands' content order reversed.
type RextendOp struct{ Op TypeOp }

func (r RextendOp) Process(t Type) (Type, error) {
	inner, err := r.Op.Process(EmptyType{})
	if err != nil {
		return nil, err
	}
	if inner == nil {
		return nil, nil
	}
	res, ok := inner.Extend(t.Force())
	if !ok {
		return nil, nil
	}
	return res, nil
}

// RepeatOp accumulates every shape Op can settle into from a standing
// start, the typing analogue of zero-or-more repetition: a repeated
// body may contribute a different shape on its first, second, ...
// iteration (e.g. left-fold accumulation), and every one of them is a
// possible final shape since the repetition can stop at any point.
type RepeatOp struct{ Op TypeOp }

func (r RepeatOp) Process(t Type) (Type, error) {
	seen := map[string]Type{}
	cur := t
	for pass := 0; cur != nil; pass++ {
		if pass >= MaxPasses {
			return nil, &FixpointExceededError{Op: "Repeat", Cap: MaxPasses}
		}
		progressed := false
		for _, e := range cur.Elements() {
			if _, ok := seen[e.Key()]; !ok {
				seen[e.Key()] = e
				progressed = true
			}
		}
		if !progressed {
			break
		}
		next, err := r.Op.Process(cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	ts := make([]Type, 0, len(seen))
	for _, v := range seen {
		ts = append(ts, v)
	}
	return MakeOrType(ts), nil
}

// SequenceOp threads t through every op in order, failing as soon as
// any step does.
type SequenceOp struct{ Ops []TypeOp }

func (s SequenceOp) Process(t Type) (Type, error) {
	for _, op := range s.Ops {
		r, err := op.Process(t)
		if err != nil {
			return nil, err
		}
		if r == nil {
			return nil, nil
		}
		t = r
	}
	return t, nil
}

// ChoiceOp is the typing counterpart of ordered choice: unlike parsing,
// inference cannot know which alternative will actually match, so it
// unions every alternative's possible result.
type ChoiceOp struct{ Ops []TypeOp }

func (c ChoiceOp) Process(t Type) (Type, error) {
	var ts []Type
	for _, op := range c.Ops {
		r, err := op.Process(t)
		if err != nil {
			return nil, err
		}
		if r != nil {
			ts = append(ts, r.Elements()...)
		}
	}
	return MakeOrType(ts), nil
}

// NoOp passes the accumulator through unchanged, used for lookahead
// and ignored sub-expressions that touch no tree.
type NoOp struct{}

func (NoOp) Process(t Type) (Type, error) { return t, nil }

// StringOp is the typing counterpart of every terminal that captures
// raw text (Any, Literal, CharRange/Class).
type StringOp struct{}

func (StringOp) Process(t Type) (Type, error) {
	res, ok := t.Extend(StringType{})
	if !ok {
		return nil, nil
	}
	return res, nil
}

// LazyOp stands for a reference to another rule by name, resolved
// through Registry only when actually forced; from a standing start it
// is a RuleRefType placeholder rather than an eager recursive call,
// which is what lets mutually recursive rules infer at all.
type LazyOp struct {
	Name     string
	Registry *Registry
}

func (l LazyOp) Process(t Type) (Type, error) {
	if _, empty := t.Force().(EmptyType); empty {
		return RuleRefType{Name: l.Name, Registry: l.Registry}, nil
	}
	op, ok := l.Registry.exprs[l.Name]
	if !ok {
		return nil, nil
	}
	return op.Process(t)
}

// MemoOp re-evaluates Op against the same input type until the result
// stabilizes, needed because a rule that is still being inferred may
// see its own RuleRefType placeholder refine across repeated passes.
type MemoOp struct {
	Op    TypeOp
	input map[string]Type
}

func (m *MemoOp) Process(t Type) (Type, error) {
	if m.input == nil {
		m.input = map[string]Type{}
	}
	key := t.Key()
	if v, ok := m.input[key]; ok {
		return v, nil
	}
	m.input[key] = nil
	r, err := m.Op.Process(t)
	if err != nil {
		return nil, err
	}
	m.input[key] = r
	if r == nil {
		return nil, nil
	}
	for pass := 0; ; pass++ {
		if pass >= MaxPasses {
			return nil, &FixpointExceededError{Op: "Memo", Cap: MaxPasses}
		}
		n, err := m.Op.Process(t)
		if err != nil {
			return nil, err
		}
		if typeEqual(r, n) {
			return r, nil
		}
		r = n
		m.input[key] = r
	}
}

func typeEqual(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Key() == b.Key()
}
