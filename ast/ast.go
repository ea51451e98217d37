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

import "fmt"

// -----------------------------------------------------------------------------
// Ast Root Interface
//
// The syntax tree is a tagged sum over a closed set of statement shapes
// (spec.md §3). Each case is a concrete struct implementing Stmt; there is
// no inheritance hierarchy, only pattern matching via type switches.

type Stmt interface {
	String() string
	stmtNode()
}

type Define struct {
	Name string
	Type string
}

type Func struct {
	Name string
	Body []Stmt
}

type Print struct {
	Ident string
}

// Class may list >=1 base after extends/inherit, comma-separated; order is
// preserved (spec.md §3 invariant).
type Class struct {
	Name    string
	Bases   []string
	Members []Stmt
}

type Visibility int

const (
	VisPublic Visibility = iota
	VisPrivate
	VisProtected
)

func (v Visibility) String() string {
	switch v {
	case VisPublic:
		return "public"
	case VisPrivate:
		return "private"
	case VisProtected:
		return "protected"
	}
	return "?"
}

// VisibilityDecl wraps either a Func or a Define member (spec.md §4.C).
type VisibilityDecl struct {
	Vis   Visibility
	Inner Stmt
}

type New struct {
	TypeName string
}

type SuperCall struct {
	Method string
}

// ThisAccess models `this;`, `this.member;` and `this.method();`.
type ThisAccess struct {
	Member string
	IsCall bool
}

// Eval's operand is a single identifier, number, or string literal token
// (spec.md §4.C grammar); Kind/Lexeme preserve which.
type Eval struct {
	Kind   TokenKind
	Lexeme string
}

// FeatureStmt is a pass-through: its kind carries no defined lowering
// beyond an annotation (spec.md §4.F, §9).
type FeatureStmt struct {
	Kind   TokenKind
	Lexeme string
}

// ErrorStmt marks a statement the parser's resync recovered from (spec.md
// §4.C "skip-and-resync"): the unknown lead token is skipped and kept here,
// so a Parse that succeeds can still contain ErrorStmt entries. Hard errors
// panic instead and produce no tree.
type ErrorStmt struct {
	Lexeme string
}

func (*Define) stmtNode()         {}
func (*Func) stmtNode()           {}
func (*Print) stmtNode()          {}
func (*Class) stmtNode()          {}
func (*VisibilityDecl) stmtNode() {}
func (*New) stmtNode()            {}
func (*SuperCall) stmtNode()      {}
func (*ThisAccess) stmtNode()     {}
func (*Eval) stmtNode()           {}
func (*FeatureStmt) stmtNode()    {}
func (*ErrorStmt) stmtNode()      {}

func (d *Define) String() string { return fmt.Sprintf("Define(%s: %s)", d.Name, d.Type) }
func (f *Func) String() string   { return fmt.Sprintf("Func(%s){%d stmts}", f.Name, len(f.Body)) }
func (p *Print) String() string  { return fmt.Sprintf("Print(%s)", p.Ident) }
func (c *Class) String() string {
	return fmt.Sprintf("Class(%s, bases=%v, %d members)", c.Name, c.Bases, len(c.Members))
}
func (v *VisibilityDecl) String() string { return fmt.Sprintf("Visibility(%s, %s)", v.Vis, v.Inner) }
func (n *New) String() string            { return fmt.Sprintf("New(%s)", n.TypeName) }
func (s *SuperCall) String() string      { return fmt.Sprintf("SuperCall(%s)", s.Method) }
func (t *ThisAccess) String() string {
	if t.Member == "" {
		return "ThisAccess()"
	}
	return fmt.Sprintf("ThisAccess(%s, call=%v)", t.Member, t.IsCall)
}
func (e *Eval) String() string        { return fmt.Sprintf("Eval(%s)", e.Lexeme) }
func (f *FeatureStmt) String() string { return fmt.Sprintf("Feature(%s)", f.Lexeme) }
func (e *ErrorStmt) String() string   { return fmt.Sprintf("Error(%q)", e.Lexeme) }

// Program is the root of a parsed compilation unit: a flat list of
// top-level statements (spec.md §4.C: Program := Statement*).
type Program struct {
	Source string
	Stmts  []Stmt
}
