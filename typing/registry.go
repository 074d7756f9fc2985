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

// Registry drives the work-queue inference loop over a grammar's
// rules: Infer seeds the queue with the start rule, processes each
// rule's compiled TypeOp, and discovers further rules to visit from
// the RuleRefType/RefType values that process() surfaces.
type Registry struct {
	start    string
	exprs    map[string]TypeOp
	rets     map[string]Type
	types    map[string]*registryEntry
	seenRefs map[string]bool
	queue    []string
}

type registryEntry struct {
	flat   Type
	merged Type
}

// NewRegistry returns a Registry whose work queue starts at start.
func NewRegistry(start string) *Registry {
	return &Registry{
		start:    start,
		exprs:    map[string]TypeOp{},
		rets:     map[string]Type{},
		types:    map[string]*registryEntry{},
		seenRefs: map[string]bool{start: true},
		queue:    []string{start},
	}
}

// Expr registers name's compiled body.
func (r *Registry) Expr(name string, op TypeOp) { r.exprs[name] = op }

// Lazy returns a reference op for name, deferring resolution.
func (r *Registry) Lazy(name string) TypeOp { return LazyOp{Name: name, Registry: r} }

// Append returns an AppendOp bound to this registry.
func (r *Registry) Append(name string, op TypeOp) TypeOp {
	return AppendOp{Op: op, Name: name, Registry: r}
}

// Rappend returns a RappendOp bound to this registry.
func (r *Registry) Rappend(name string, op TypeOp) TypeOp {
	return RappendOp{Op: op, Name: name, Registry: r}
}

// GetRef returns the previously inferred return type of name, or nil
// if name has not been processed yet (used by RuleRefType.Resolve while
// the queue is still draining).
func (r *Registry) GetRef(name string) []Type {
	if t, ok := r.rets[name]; ok {
		return t.Elements()
	}
	return nil
}

// SeenType records every atom of t as a type the registry has
// encountered, queuing any newly discovered rule reference for
// processing, and returns t unchanged for chaining.
func (r *Registry) SeenType(t Type) Type {
	for _, i := range t.Elements() {
		if ref := i.Ref(); ref != "" && !r.seenRefs[ref] {
			r.seenRefs[ref] = true
			r.queue = append(r.queue, ref)
		}
		key := i.Flat().Key()
		entry, ok := r.types[key]
		if !ok {
			r.types[key] = &registryEntry{flat: i.Flat(), merged: i}
			continue
		}
		entry.merged = Merge(entry.merged, i)
	}
	return t
}

// Infer drains the work queue, inferring every reachable rule's return
// type, then returns the common shape registered under each tag name
// the grammar produces, plus, under each reachable rule's name, the
// common shape of that rule's return type. Where a rule and a tag share
// a name, the tag's entry is kept.
func (r *Registry) Infer() (map[string]Type, error) {
	for len(r.queue) > 0 {
		name := r.queue[0]
		r.queue = r.queue[1:]
		op, ok := r.exprs[name]
		if !ok {
			continue
		}
		t, err := op.Process(EmptyType{})
		if err != nil {
			return nil, err
		}
		if t == nil {
			r.rets[name] = EmptyType{}
			continue
		}
		r.rets[name] = r.SeenType(t).Flat()
	}
	res := map[string]Type{}
	for _, entry := range r.types {
		if _, ok := entry.flat.(RuleRefType); ok {
			continue
		}
		name := entry.flat.Ref()
		if name == "" {
			continue
		}
		res[name] = Common(entry.merged.Resolve())
	}
	for name, ret := range r.rets {
		if _, ok := res[name]; ok {
			continue
		}
		var ts []Type
		for _, e := range ret.Elements() {
			if entry, ok := r.types[e.Key()]; ok {
				ts = append(ts, entry.merged.Resolve().Elements()...)
				continue
			}
			ts = append(ts, e)
		}
		res[name] = Common(MakeOrType(ts))
	}
	return res, nil
}
