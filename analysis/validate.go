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

package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/salikh/pegtree/ast"
)

// ValidationError reports why a grammar AST failed Validate. Exactly
// one of the three fields is populated, in the priority order
// Redefined, Undefined, NotWellFormed — matching peg/analysis.py's
// validate, which raises on the first failing check rather than
// collecting every problem at once.
type ValidationError struct {
	Redefined    []string
	Undefined    []string
	NotWellFormed []string
}

func (e *ValidationError) Error() string {
	if len(e.Redefined) > 0 {
		return fmt.Sprintf("Rules %s redefined", strings.Join(sortedCopy(e.Redefined), ", "))
	}
	if len(e.Undefined) > 0 {
		return fmt.Sprintf("Rules %s undefined", strings.Join(sortedCopy(e.Undefined), ", "))
	}
	return fmt.Sprintf("Rules %s is not well-formed", strings.Join(sortedCopy(e.NotWellFormed), ", "))
}

func sortedCopy(s []string) []string {
	out := append([]string{}, s...)
	sort.Strings(out)
	return out
}

// Validate runs the full reference and well-formedness check pipeline
// against grammar, returning a *ValidationError on the first failing
// check, or nil if the grammar is safe to compile.
func Validate(grammar *ast.Node) error {
	defined, redefined, referenced := References(grammar)
	if len(redefined) > 0 {
		return &ValidationError{Redefined: redefined}
	}
	undefined := Undefined(defined, referenced)
	if len(undefined) > 0 {
		return &ValidationError{Undefined: undefined}
	}
	wellFormed, err := WellFormed(grammar)
	if err != nil {
		return err
	}
	var bad []string
	for _, rule := range grammar.Values("rule") {
		name := rule.Only("name").Value
		if !wellFormed[name] {
			bad = append(bad, name)
		}
	}
	if len(bad) > 0 {
		return &ValidationError{NotWellFormed: bad}
	}
	return nil
}
