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

package pegtree

import (
	"fmt"
	"sync"

	"github.com/salikh/pegtree/analysis"
	"github.com/salikh/pegtree/bootstrap"
	"github.com/salikh/pegtree/expr"
)

var (
	metagrammarOnce sync.Once
	metagrammarExpr *expr.Grammar
	metagrammarName string
	metagrammarErr  error
)

// metagrammar lazily builds this module's own grammar parser by
// parsing bootstrap.MetaGrammarSource against the hand-wired
// bootstrap grammar, validating the result, and compiling it into a
// second, self-hosted expr.Grammar — the one every call to
// ParseGrammar actually runs. This mirrors _make_metagrammar's
// bootstrap-once-then-use pattern exactly, with sync.Once standing in
// for Python's module-level side effect on import.
func metagrammar() (*expr.Grammar, string, error) {
	metagrammarOnce.Do(func() {
		bg := bootstrap.Grammar()
		node, rest, err := expr.Run(bootstrap.Start(bg), bootstrap.MetaGrammarSource)
		if err != nil {
			metagrammarErr = fmt.Errorf("pegtree: bootstrap parse of metagrammar source failed: %w", err)
			return
		}
		if node == nil || rest != "" {
			metagrammarErr = fmt.Errorf("pegtree: bootstrap grammar failed to fully parse its own metagrammar source, %d bytes left unconsumed", len(rest))
			return
		}
		if verr := analysis.Validate(node); verr != nil {
			metagrammarErr = fmt.Errorf("pegtree: metagrammar source failed validation: %w", verr)
			return
		}
		g, start, err := buildExpr(node)
		if err != nil {
			metagrammarErr = err
			return
		}
		metagrammarExpr, metagrammarName = g, start
	})
	return metagrammarExpr, metagrammarName, metagrammarErr
}
