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

// Package bootstrap hand-wires, as expr.Expr combinators, the one
// grammar this module cannot parse from text: the grammar of grammars
// itself. Grammar() is this module's only irreducible, hand-built
// parser; every other grammar, including the metagrammar text below,
// is compiled by parsing it against this one.
package bootstrap

import "github.com/salikh/pegtree/expr"

func seq(items ...expr.Expr) expr.Expr {
	e := items[0]
	for _, it := range items[1:] {
		e = expr.Sequence{First: e, Second: it}
	}
	return e
}

func alt(items ...expr.Expr) expr.Expr {
	e := items[0]
	for _, it := range items[1:] {
		e = expr.Choice{First: e, Second: it}
	}
	return e
}

// Grammar builds the bootstrap grammar: a Grammar of combinators that
// parses exactly the textual syntax MetaGrammarSource is written in.
// The rule bodies below are a literal transcription of that syntax
// into expr combinators, in the same order.
func Grammar() *expr.Grammar {
	g := expr.NewGrammar()

	g.Define("Grammar", seq(
		expr.Tag{Name: "Grammar"},
		g.Ref("Spacing"),
		expr.Repeat1{Expr: expr.Append{Label: "rule", Expr: g.Ref("Definition")}},
		g.Ref("EndOfFile"),
	))

	g.Define("Definition", seq(
		g.Ref("Identifier"),
		g.Ref("LEFTARROW"),
		expr.Rappend{Label: "name", Expr: expr.Tag{Name: "Rule"}},
		expr.Append{Label: "body", Expr: g.Ref("Expression")},
	))

	g.Define("Expression", seq(
		g.Ref("Sequence"),
		expr.Optional{Expr: seq(
			g.Ref("SLASH"),
			expr.Rappend{Label: "alt", Expr: expr.Tag{Name: "Choice"}},
			expr.Append{Label: "alt", Expr: g.Ref("Sequence")},
			expr.Repeat{Expr: seq(
				g.Ref("SLASH"),
				expr.Append{Label: "alt", Expr: g.Ref("Sequence")},
			)},
		)},
	))

	g.Define("Sequence", alt(
		seq(
			g.Ref("Prefix"),
			expr.Optional{Expr: seq(
				expr.Rappend{Label: "item", Expr: expr.Tag{Name: "Sequence"}},
				expr.Append{Label: "item", Expr: g.Ref("Prefix")},
				expr.Repeat{Expr: expr.Append{Label: "item", Expr: g.Ref("Prefix")}},
			)},
		),
		expr.Tag{Name: "Epsilon"},
	))

	g.Define("Prefix", alt(
		seq(
			alt(
				seq(g.Ref("AND"), expr.Tag{Name: "And"}),
				seq(g.Ref("NOT"), expr.Tag{Name: "Not"}),
			),
			expr.Append{Label: "expr", Expr: g.Ref("Suffix")},
		),
		g.Ref("Suffix"),
	))

	g.Define("Suffix", seq(
		g.Ref("AstOp"),
		expr.Optional{Expr: expr.Rappend{Label: "expr", Expr: alt(
			seq(g.Ref("QUESTION"), expr.Tag{Name: "Optional"}),
			seq(g.Ref("STAR"), expr.Tag{Name: "Repeat"}),
			seq(g.Ref("PLUS"), expr.Tag{Name: "Repeat1"}),
		)}},
	))

	g.Define("AstOp", seq(
		g.Ref("Primary"),
		expr.Optional{Expr: alt(
			seq(
				expr.Rappend{Label: "expr", Expr: alt(
					seq(g.Ref("LAPPEND"), expr.Tag{Name: "Append"}),
					seq(g.Ref("RAPPEND"), expr.Tag{Name: "Rappend"}),
				)},
				expr.Append{Label: "name", Expr: g.Ref("TreeIdent")},
			),
			expr.Rappend{Label: "expr", Expr: alt(
				seq(g.Ref("LEXTEND"), expr.Tag{Name: "Extend"}),
				seq(g.Ref("REXTEND"), expr.Tag{Name: "Rextend"}),
				seq(g.Ref("IGNORE"), expr.Tag{Name: "Ignore"}),
			)},
		)},
	))

	g.Define("Primary", alt(
		seq(g.Ref("Identifier"), expr.Not{Expr: g.Ref("LEFTARROW")}),
		seq(g.Ref("OPEN"), g.Ref("Expression"), g.Ref("CLOSE")),
		g.Ref("Literal"),
		g.Ref("Class"),
		g.Ref("Any"),
		g.Ref("Tag"),
	))

	g.Define("Identifier", seq(
		g.Ref("IdentStart"),
		expr.Repeat{Expr: g.Ref("IdentCont")},
		expr.Rextend{Expr: expr.Tag{Name: "Identifier"}},
		g.Ref("Spacing"),
	))

	g.Define("TreeIdent", seq(
		g.Ref("IdentStart"),
		expr.Repeat{Expr: g.Ref("IdentCont")},
		expr.Rextend{Expr: expr.Tag{Name: "TreeIdent"}},
		g.Ref("Spacing"),
	))

	g.Define("Tag", seq(
		expr.Ignore{Expr: expr.Literal{Text: "@"}},
		g.Ref("IdentStart"),
		expr.Repeat{Expr: g.Ref("IdentCont")},
		expr.Rextend{Expr: expr.Tag{Name: "Tag"}},
		g.Ref("Spacing"),
	))

	g.Define("IdentStart", alt(
		expr.CharRange{Lo: 'a', Hi: 'z'},
		expr.CharRange{Lo: 'A', Hi: 'Z'},
		expr.Literal{Text: "_"},
	))

	g.Define("IdentCont", alt(
		g.Ref("IdentStart"),
		expr.CharRange{Lo: '0', Hi: '9'},
	))

	g.Define("Literal", alt(
		seq(
			expr.Ignore{Expr: expr.Literal{Text: "'"}},
			expr.Tag{Name: "Literal"},
			expr.Repeat{Expr: seq(
				expr.Not{Expr: expr.Literal{Text: "'"}},
				expr.Append{Label: "char", Expr: g.Ref("Char")},
			)},
			expr.Ignore{Expr: expr.Literal{Text: "'"}},
			g.Ref("Spacing"),
		),
		seq(
			expr.Ignore{Expr: expr.Literal{Text: "\""}},
			expr.Tag{Name: "Literal"},
			expr.Repeat{Expr: seq(
				expr.Not{Expr: expr.Literal{Text: "\""}},
				expr.Append{Label: "char", Expr: g.Ref("Char")},
			)},
			expr.Ignore{Expr: expr.Literal{Text: "\""}},
			g.Ref("Spacing"),
		),
	))

	g.Define("Class", seq(
		expr.Ignore{Expr: expr.Literal{Text: "["}},
		alt(
			seq(
				expr.Not{Expr: expr.Literal{Text: "]"}},
				g.Ref("Range"),
				expr.Optional{Expr: seq(
					expr.Not{Expr: expr.Literal{Text: "]"}},
					expr.Rappend{Label: "item", Expr: expr.Tag{Name: "Class"}},
					expr.Append{Label: "item", Expr: g.Ref("Range")},
					expr.Repeat{Expr: seq(
						expr.Not{Expr: expr.Literal{Text: "]"}},
						expr.Append{Label: "item", Expr: g.Ref("Range")},
					)},
				)},
			),
			expr.Tag{Name: "Nothing"},
		),
		expr.Ignore{Expr: expr.Literal{Text: "]"}},
		g.Ref("Spacing"),
	))

	g.Define("Range", alt(
		seq(
			g.Ref("Char"),
			expr.Ignore{Expr: expr.Literal{Text: "-"}},
			expr.Rappend{Label: "start", Expr: expr.Tag{Name: "Range"}},
			expr.Append{Label: "end", Expr: g.Ref("Char")},
		),
		seq(
			g.Ref("Char"),
			expr.Rappend{Label: "char", Expr: expr.Tag{Name: "Char"}},
		),
	))

	g.Define("Char", alt(
		seq(
			expr.Ignore{Expr: expr.Literal{Text: "\\"}},
			alt(
				expr.Literal{Text: "n"}, expr.Literal{Text: "r"}, expr.Literal{Text: "t"},
				expr.Literal{Text: "'"}, expr.Literal{Text: "\""}, expr.Literal{Text: "["},
				expr.Literal{Text: "]"}, expr.Literal{Text: "\\"},
			),
			expr.Rextend{Expr: expr.Tag{Name: "escape"}},
		),
		seq(
			expr.Ignore{Expr: expr.Literal{Text: "\\"}},
			expr.CharRange{Lo: '0', Hi: '2'},
			expr.CharRange{Lo: '0', Hi: '7'},
			expr.CharRange{Lo: '0', Hi: '7'},
			expr.Rextend{Expr: expr.Tag{Name: "octal"}},
		),
		seq(
			expr.Ignore{Expr: expr.Literal{Text: "\\"}},
			expr.CharRange{Lo: '0', Hi: '7'},
			expr.Optional{Expr: expr.CharRange{Lo: '0', Hi: '7'}},
			expr.Rextend{Expr: expr.Tag{Name: "octal"}},
		),
		seq(
			expr.Not{Expr: expr.Literal{Text: "\\"}},
			expr.Any{},
			expr.Rextend{Expr: expr.Tag{Name: "char"}},
		),
	))

	g.Define("Any", seq(g.Ref("DOT"), expr.Tag{Name: "Any"}))

	g.Define("LEFTARROW", seq(expr.Ignore{Expr: expr.Literal{Text: "<-"}}, g.Ref("Spacing")))
	g.Define("SLASH", seq(expr.Ignore{Expr: expr.Literal{Text: "/"}}, g.Ref("Spacing")))
	g.Define("AND", seq(expr.Ignore{Expr: expr.Literal{Text: "&"}}, g.Ref("Spacing")))
	g.Define("NOT", seq(expr.Ignore{Expr: expr.Literal{Text: "!"}}, g.Ref("Spacing")))
	g.Define("QUESTION", seq(expr.Ignore{Expr: expr.Literal{Text: "?"}}, g.Ref("Spacing")))
	g.Define("STAR", seq(expr.Ignore{Expr: expr.Literal{Text: "*"}}, g.Ref("Spacing")))
	g.Define("PLUS", seq(expr.Ignore{Expr: expr.Literal{Text: "+"}}, g.Ref("Spacing")))
	g.Define("OPEN", seq(expr.Ignore{Expr: expr.Literal{Text: "("}}, g.Ref("Spacing")))
	g.Define("CLOSE", seq(expr.Ignore{Expr: expr.Literal{Text: ")"}}, g.Ref("Spacing")))
	g.Define("DOT", seq(expr.Ignore{Expr: expr.Literal{Text: "."}}, g.Ref("Spacing")))
	g.Define("LEXTEND", seq(expr.Ignore{Expr: expr.Literal{Text: ">>"}}, g.Ref("Spacing")))
	g.Define("REXTEND", seq(expr.Ignore{Expr: expr.Literal{Text: "<<"}}, g.Ref("Spacing")))
	g.Define("LAPPEND", seq(expr.Ignore{Expr: expr.Literal{Text: ":"}}, g.Ref("Spacing")))
	g.Define("RAPPEND", seq(expr.Ignore{Expr: expr.Literal{Text: "<:"}}, g.Ref("Spacing")))
	g.Define("IGNORE", seq(expr.Ignore{Expr: expr.Literal{Text: "~"}}, g.Ref("Spacing")))

	g.Define("Spacing", expr.Repeat{Expr: alt(g.Ref("Space"), g.Ref("Comment"))})

	g.Define("Comment", seq(
		expr.Ignore{Expr: expr.Literal{Text: "#"}},
		expr.Repeat{Expr: seq(
			expr.Not{Expr: g.Ref("EndOfLine")},
			expr.Ignore{Expr: expr.Any{}},
		)},
		g.Ref("EndOfLine"),
	))

	g.Define("Space", alt(
		expr.Ignore{Expr: expr.Literal{Text: " "}},
		expr.Ignore{Expr: expr.Literal{Text: "\t"}},
		g.Ref("EndOfLine"),
	))

	g.Define("EndOfLine", alt(
		expr.Ignore{Expr: expr.Literal{Text: "\r\n"}},
		expr.Ignore{Expr: expr.Literal{Text: "\n"}},
		expr.Ignore{Expr: expr.Literal{Text: "\r"}},
	))

	g.Define("EndOfFile", expr.Not{Expr: expr.Any{}})

	return g
}

// Start returns the bootstrap grammar's entry rule.
func Start(g *expr.Grammar) expr.Expr {
	return g.Ref("Grammar")
}
