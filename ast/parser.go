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
	"fmt"
	"os"
)

// Parser implements recursive descent over the grammar in spec.md §4.C.
// A match failure panics with a one-line diagnostic naming the expected
// kind (spec.md §4.C error policy); the driver recovers this panic into a
// parse-error CompileError at the stage boundary.
type Parser struct {
	token  Token
	lexer  *Lexer
	source string
}

func NewParser(lexer *Lexer, source string) *Parser {
	p := &Parser{lexer: lexer, source: source}
	p.consume()
	return p
}

func ParseFile(fileName string) *Program {
	file, err := os.Open(fileName)
	if err != nil {
		panic(err)
	}
	defer file.Close()
	p := NewParser(NewLexerFromFile(file), fileName)
	return p.Parse()
}

// syntaxError is the parser's sole error path: panic with a one-line
// diagnostic naming the expected kind (spec.md §4.C "Error policy"),
// matching the teacher's panic-on-mismatch discipline. The driver recovers
// this panic into a CompileError at the stage boundary; a caller parsing
// directly (for example through ParseFile) sees the process terminate only
// if nothing recovers it.
func syntaxError(format string, args ...interface{}) {
	panic(fmt.Errorf("SyntaxError: "+format, args...))
}

func (p *Parser) consume() {
	p.token = p.lexer.NextToken()
}

func (p *Parser) expect(kind TokenKind, what string) Token {
	if p.token.Kind != kind {
		syntaxError("expected %s, got %v %q", what, p.token.Kind, p.token.Lexeme)
	}
	tok := p.token
	p.consume()
	return tok
}

// Parse consumes the whole token stream and returns the syntax tree, or
// panics through syntaxError on a hard parse error (spec.md §4.C grammar:
// Program := Statement*).
func (p *Parser) Parse() *Program {
	prog := &Program{Source: p.source}
	for p.token.Kind != TK_EOF {
		prog.Stmts = append(prog.Stmts, p.parseStatement())
	}
	return prog
}

// parseStatement dispatches on the leading token. An unrecognized statement
// start advances one token and continues (spec.md §4.C "skip-and-resync"),
// rather than treating every unknown lead token as a hard error.
func (p *Parser) parseStatement() Stmt {
	switch p.token.Kind {
	case KW_DEFINE:
		return p.parseDefine()
	case KW_FUNC:
		return p.parseFunc()
	case KW_PRINT:
		return p.parsePrint()
	case KW_CLASS:
		return p.parseClass()
	case KW_PUBLIC, KW_PRIVATE, KW_PROTECTED:
		return p.parseVisibility()
	case KW_NEW:
		return p.parseNew()
	case KW_SUPER:
		return p.parseSuperCall()
	case KW_THIS:
		return p.parseThisAccess()
	case KW_EVAL:
		return p.parseEval()
	default:
		if p.token.Kind.IsFeature() {
			return p.parseFeatureStmt()
		}
		bad := p.token.Lexeme
		p.consume()
		return &ErrorStmt{Lexeme: bad}
	}
}

// parseStatementList parses statements until it sees TK_RBRACE or TK_EOF,
// the shared body used by Func, Class and nested member lists.
func (p *Parser) parseStatementList() []Stmt {
	var stmts []Stmt
	for p.token.Kind != TK_RBRACE && p.token.Kind != TK_EOF {
		stmts = append(stmts, p.parseStatement())
	}
	return stmts
}

// Define := 'define' IDENT ':' IDENT ';'
func (p *Parser) parseDefine() Stmt {
	p.expect(KW_DEFINE, "'define'")
	name := p.expect(TK_IDENT, "identifier").Lexeme
	p.expect(TK_COLON, "':'")
	typ := p.expect(TK_IDENT, "type identifier").Lexeme
	p.expect(TK_SEMICOLON, "';'")
	return &Define{Name: name, Type: typ}
}

// Func := 'func' IDENT '(' ')' '{' Statement* '}'
func (p *Parser) parseFunc() Stmt {
	p.expect(KW_FUNC, "'func'")
	name := p.expect(TK_IDENT, "identifier").Lexeme
	p.expect(TK_LPAREN, "'('")
	p.expect(TK_RPAREN, "')'")
	p.expect(TK_LBRACE, "'{'")
	body := p.parseStatementList()
	p.expect(TK_RBRACE, "'}'")
	return &Func{Name: name, Body: body}
}

// Print := 'print' IDENT ';'
func (p *Parser) parsePrint() Stmt {
	p.expect(KW_PRINT, "'print'")
	ident := p.expect(TK_IDENT, "identifier").Lexeme
	p.expect(TK_SEMICOLON, "';'")
	return &Print{Ident: ident}
}

// Class := 'class' IDENT (('extends'|'inherit') IDENT (',' IDENT)*)? '{' Statement* '}'
// extends and inherit are accepted interchangeably (spec.md §4.C tie-break).
func (p *Parser) parseClass() Stmt {
	p.expect(KW_CLASS, "'class'")
	name := p.expect(TK_IDENT, "identifier").Lexeme
	class := &Class{Name: name}
	if p.token.Kind == KW_EXTENDS || p.token.Kind == KW_INHERIT {
		p.consume()
		class.Bases = append(class.Bases, p.expect(TK_IDENT, "base class name").Lexeme)
		for p.token.Kind == TK_COMMA {
			p.consume()
			class.Bases = append(class.Bases, p.expect(TK_IDENT, "base class name").Lexeme)
		}
	}
	p.expect(TK_LBRACE, "'{'")
	class.Members = p.parseStatementList()
	p.expect(TK_RBRACE, "'}'")
	return class
}

// Visibility := ('public'|'private'|'protected') (Func | Define)
// Anything else following a visibility modifier is a hard error (spec.md
// §4.C tie-break).
func (p *Parser) parseVisibility() Stmt {
	var vis Visibility
	switch p.token.Kind {
	case KW_PUBLIC:
		vis = VisPublic
	case KW_PRIVATE:
		vis = VisPrivate
	case KW_PROTECTED:
		vis = VisProtected
	}
	p.consume()
	var inner Stmt
	switch p.token.Kind {
	case KW_FUNC:
		inner = p.parseFunc()
	case KW_DEFINE:
		inner = p.parseDefine()
	default:
		syntaxError("expected 'func' or 'define' after visibility modifier, got %v", p.token.Kind)
	}
	return &VisibilityDecl{Vis: vis, Inner: inner}
}

// New := 'new' IDENT '(' ')' ';'
func (p *Parser) parseNew() Stmt {
	p.expect(KW_NEW, "'new'")
	typeName := p.expect(TK_IDENT, "type identifier").Lexeme
	p.expect(TK_LPAREN, "'('")
	p.expect(TK_RPAREN, "')'")
	p.expect(TK_SEMICOLON, "';'")
	return &New{TypeName: typeName}
}

// Super := 'super' '.' IDENT '(' ')' ';'
func (p *Parser) parseSuperCall() Stmt {
	p.expect(KW_SUPER, "'super'")
	p.expect(TK_DOT, "'.'")
	method := p.expect(TK_IDENT, "method name").Lexeme
	p.expect(TK_LPAREN, "'('")
	p.expect(TK_RPAREN, "')'")
	p.expect(TK_SEMICOLON, "';'")
	return &SuperCall{Method: method}
}

// This := 'this' ( '.' IDENT ( '(' ')' )? )? ';'
func (p *Parser) parseThisAccess() Stmt {
	p.expect(KW_THIS, "'this'")
	access := &ThisAccess{}
	if p.token.Kind == TK_DOT {
		p.consume()
		access.Member = p.expect(TK_IDENT, "member name").Lexeme
		if p.token.Kind == TK_LPAREN {
			p.consume()
			p.expect(TK_RPAREN, "')'")
			access.IsCall = true
		}
	}
	p.expect(TK_SEMICOLON, "';'")
	return access
}

// Eval := 'eval' '(' (IDENT|NUMBER|STRING) ')' ';'
func (p *Parser) parseEval() Stmt {
	p.expect(KW_EVAL, "'eval'")
	p.expect(TK_LPAREN, "'('")
	if p.token.Kind != TK_IDENT && p.token.Kind != LIT_NUMBER && p.token.Kind != LIT_STRING {
		syntaxError("expected identifier, number or string inside eval(), got %v", p.token.Kind)
	}
	operand := p.token
	p.consume()
	p.expect(TK_RPAREN, "')'")
	p.expect(TK_SEMICOLON, "';'")
	return &Eval{Kind: operand.Kind, Lexeme: operand.Lexeme}
}

// FeatureStmt := FeatureKeyword ';'?
// The trailing semicolon is optional so feature keywords can appear as bare
// statements, matching the reference's permissive acceptance of these
// recognized-but-inert tokens (spec.md §4.C, §9).
func (p *Parser) parseFeatureStmt() Stmt {
	tok := p.token
	p.consume()
	if p.token.Kind == TK_SEMICOLON {
		p.consume()
	}
	return &FeatureStmt{Kind: tok.Kind, Lexeme: tok.Lexeme}
}
