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

package ast

import "github.com/google/go-cmp/cmp"

// Equal reports whether two finalised trees are structurally equal:
// same tag, same value, same children in the same order under the same
// labels. This is the equality used throughout the bootstrap round-trip
// and metagrammar self-parse properties.
func Equal(got, want *Node) bool {
	return cmp.Equal(got, want)
}

// Diff renders the structural differences between got and want as a
// human-readable report, or the empty string if they are equal.
func Diff(got, want *Node) string {
	return cmp.Diff(want, got)
}
