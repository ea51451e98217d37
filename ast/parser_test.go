// Copyright (c) 2024 The Falcon Contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.
package ast

import (
	"strings"
	"testing"
)

func parse(t *testing.T, src string) *Program {
	t.Helper()
	p := NewParser(NewLexer(strings.NewReader(src), "t.r4"), "t.r4")
	return p.Parse()
}

func TestParseHelloPrint(t *testing.T) {
	prog := parse(t, "define x : int;\nprint x;\n")
	MustBe(t, len(prog.Stmts) == 2, "two statements")
	def, ok := prog.Stmts[0].(*Define)
	MustBe(t, ok, "first is Define")
	MustBe(t, def.Name == "x" && def.Type == "int", "define fields")
	pr, ok := prog.Stmts[1].(*Print)
	MustBe(t, ok, "second is Print")
	MustBe(t, pr.Ident == "x", "print ident")
}

func TestParseMultipleInheritance(t *testing.T) {
	// S2: class Dog inherit Animal, Pet { public func speak() {} }
	prog := parse(t, "class Dog inherit Animal, Pet { public func speak() {} }")
	class, ok := prog.Stmts[0].(*Class)
	MustBe(t, ok, "top-level is Class")
	MustBe(t, class.Name == "Dog", "class name")
	MustBe(t, len(class.Bases) == 2 && class.Bases[0] == "Animal" && class.Bases[1] == "Pet",
		"base order preserved")
	MustBe(t, len(class.Members) == 1, "one member")
	vis, ok := class.Members[0].(*VisibilityDecl)
	MustBe(t, ok, "member is a VisibilityDecl")
	MustBe(t, vis.Vis == VisPublic, "public visibility")
	fn, ok := vis.Inner.(*Func)
	MustBe(t, ok, "inner is Func")
	MustBe(t, fn.Name == "speak", "method name")
}

func TestExtendsAndInheritAreInterchangeable(t *testing.T) {
	a := parse(t, "class A extends B { }")
	b := parse(t, "class A inherit B { }")
	ca := a.Stmts[0].(*Class)
	cb := b.Stmts[0].(*Class)
	MustBe(t, len(ca.Bases) == 1 && ca.Bases[0] == "B", "extends base")
	MustBe(t, len(cb.Bases) == 1 && cb.Bases[0] == "B", "inherit base")
}

func TestParseSuperAndThis(t *testing.T) {
	prog := parse(t, "super.run(); this.field; this.method(); this;")
	MustBe(t, len(prog.Stmts) == 4, "four statements")
	sc := prog.Stmts[0].(*SuperCall)
	MustBe(t, sc.Method == "run", "super call method")
	f := prog.Stmts[1].(*ThisAccess)
	MustBe(t, f.Member == "field" && !f.IsCall, "this.field access")
	m := prog.Stmts[2].(*ThisAccess)
	MustBe(t, m.Member == "method" && m.IsCall, "this.method() call")
	bare := prog.Stmts[3].(*ThisAccess)
	MustBe(t, bare.Member == "" && !bare.IsCall, "bare this")
}

func TestParseNewAndEval(t *testing.T) {
	prog := parse(t, `new Widget(); eval(x); eval(42); eval("s");`)
	n := prog.Stmts[0].(*New)
	MustBe(t, n.TypeName == "Widget", "new type name")
	e1 := prog.Stmts[1].(*Eval)
	MustBe(t, e1.Kind == TK_IDENT && e1.Lexeme == "x", "eval ident")
	e2 := prog.Stmts[2].(*Eval)
	MustBe(t, e2.Kind == LIT_NUMBER && e2.Lexeme == "42", "eval number")
	e3 := prog.Stmts[3].(*Eval)
	MustBe(t, e3.Kind == LIT_STRING && e3.Lexeme == "s", "eval string")
}

func TestParseFeatureStmt(t *testing.T) {
	prog := parse(t, "raytracing; morphing")
	MustBe(t, len(prog.Stmts) == 2, "two feature statements")
	f1 := prog.Stmts[0].(*FeatureStmt)
	MustBe(t, f1.Lexeme == "raytracing", "raytracing lexeme")
	f2 := prog.Stmts[1].(*FeatureStmt)
	MustBe(t, f2.Lexeme == "morphing", "morphing lexeme, no trailing ;")
}

func TestParseSkipAndResync(t *testing.T) {
	// An unknown statement start advances one token and continues
	// (spec.md §4.C), so the next legal statement after it still parses.
	prog := parse(t, "@ print x;")
	MustBe(t, len(prog.Stmts) == 2, "error stmt plus recovered print")
	_, ok := prog.Stmts[0].(*ErrorStmt)
	MustBe(t, ok, "first is ErrorStmt")
	_, ok = prog.Stmts[1].(*Print)
	MustBe(t, ok, "second recovered as Print")
}

func TestParserDeterminism(t *testing.T) {
	src := "class Dog inherit Animal, Pet { public func speak() {} }"
	a := parse(t, src)
	b := parse(t, src)
	MustBe(t, serialize(a) == serialize(b), "two runs produce identical serialization")
}

func serialize(p *Program) string {
	out := ""
	for _, s := range p.Stmts {
		out += s.String() + "\n"
	}
	return out
}
