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

import "rexion/utils"

// TokenKind is a closed set of lexical categories. Feature keywords occupy a
// dense block at the end so IsFeature() can report membership with a
// simple range check.
type TokenKind int

const (
	INVALID TokenKind = iota
	TK_EOF
	TK_IDENT
	TK_UNKNOWN

	LIT_NUMBER
	LIT_STRING

	TK_ASSIGN    // =
	TK_SEMICOLON // ;
	TK_LPAREN    // (
	TK_RPAREN    // )
	TK_LBRACE    // {
	TK_RBRACE    // }
	TK_COMMA     // ,
	TK_COLON     // :
	TK_DOT       // .

	KW_DEFINE
	KW_FUNC
	KW_PRINT
	KW_CLASS
	KW_EXTENDS
	KW_INHERIT
	KW_PUBLIC
	KW_PRIVATE
	KW_PROTECTED
	KW_NEW
	KW_SUPER
	KW_THIS
	KW_EVAL

	// Feature keywords: recognized, but their semantics are not defined by
	// source-L. They parse as FeatureStmt and lower to a pass-through
	// annotation (spec.md §4.F, §9).
	featureKeywordsBegin
	KW_RAYTRACING
	KW_VECTORIZE
	KW_SHADING
	KW_TRACKING
	KW_RENDERING
	KW_STACKING
	KW_LAYERING
	KW_PARTICLE_PHYSICS
	KW_SCULPTING
	KW_TEXTURING
	KW_RIGGING
	KW_SMOKE
	KW_STREAMING
	KW_LIGHTING
	KW_TRANSITIONS
	KW_MOTION
	KW_AGING
	KW_MORPHING
	KW_COLLISION_DETECTION
	KW_MATRIX
	KW_OPTICS
	KW_ZOOM
	KW_VOICE
	KW_MUSIC
	KW_CAD
	KW_BLUEPRINTING
	KW_WORLD_BUILDING
	KW_ENCRYPTION
	KW_DECRYPTION
	KW_CONVERSIONS
	KW_SECTIONING
	KW_WARPING
	KW_BLURRING
	KW_SHARPENING
	KW_COORDINATES
	KW_REASONING
	featureKeywordsEnd
)

// IsFeature reports whether kind is one of the ~40 feature keywords.
func (t TokenKind) IsFeature() bool {
	return t > featureKeywordsBegin && t < featureKeywordsEnd
}

var tokenNames = map[TokenKind]string{
	INVALID:    "<invalid>",
	TK_EOF:     "<eof>",
	TK_IDENT:   "<identifier>",
	TK_UNKNOWN: "<unknown>",
	LIT_NUMBER: "<number>",
	LIT_STRING: "<string>",

	TK_ASSIGN:    "=",
	TK_SEMICOLON: ";",
	TK_LPAREN:    "(",
	TK_RPAREN:    ")",
	TK_LBRACE:    "{",
	TK_RBRACE:    "}",
	TK_COMMA:     ",",
	TK_COLON:     ":",
	TK_DOT:       ".",

	KW_DEFINE:    "define",
	KW_FUNC:      "func",
	KW_PRINT:     "print",
	KW_CLASS:     "class",
	KW_EXTENDS:   "extends",
	KW_INHERIT:   "inherit",
	KW_PUBLIC:    "public",
	KW_PRIVATE:   "private",
	KW_PROTECTED: "protected",
	KW_NEW:       "new",
	KW_SUPER:     "super",
	KW_THIS:      "this",
	KW_EVAL:      "eval",

	KW_RAYTRACING:          "raytracing",
	KW_VECTORIZE:           "vectorize",
	KW_SHADING:             "shading",
	KW_TRACKING:            "tracking",
	KW_RENDERING:           "rendering",
	KW_STACKING:            "stacking",
	KW_LAYERING:            "layering",
	KW_PARTICLE_PHYSICS:    "particle_physics",
	KW_SCULPTING:           "sculpting",
	KW_TEXTURING:           "texturing",
	KW_RIGGING:             "rigging",
	KW_SMOKE:               "smoke",
	KW_STREAMING:           "streaming",
	KW_LIGHTING:            "lighting",
	KW_TRANSITIONS:         "transitions",
	KW_MOTION:              "motion",
	KW_AGING:               "aging",
	KW_MORPHING:            "morphing",
	KW_COLLISION_DETECTION: "collision_detection",
	KW_MATRIX:              "matrix",
	KW_OPTICS:              "optics",
	KW_ZOOM:                "zoom",
	KW_VOICE:               "voice",
	KW_MUSIC:               "music",
	KW_CAD:                 "cad",
	KW_BLUEPRINTING:        "blueprinting",
	KW_WORLD_BUILDING:      "world_building",
	KW_ENCRYPTION:          "encryption",
	KW_DECRYPTION:          "decryption",
	KW_CONVERSIONS:         "conversions",
	KW_SECTIONING:          "sectioning",
	KW_WARPING:             "warping",
	KW_BLURRING:            "blurring",
	KW_SHARPENING:          "sharpening",
	KW_COORDINATES:         "coordinates",
	KW_REASONING:           "reasoning",
}

// Keywords is the fixed keyword table, a map from lexeme to kind built from
// tokenNames; it keeps no insertion order, so ranging over it visits the
// keywords in no defined order. Lookup is case-sensitive exact match;
// anything absent from this table lexes as TK_IDENT (spec.md §8 invariant 2).
var Keywords = buildKeywordTable()

func buildKeywordTable() map[string]TokenKind {
	table := make(map[string]TokenKind, len(tokenNames))
	for kind, name := range tokenNames {
		if kind > KW_DEFINE-1 && kind < featureKeywordsEnd && kind != featureKeywordsBegin {
			table[name] = kind
		}
	}
	return table
}

// KindOf returns the keyword kind for lexeme, or TK_IDENT if it is not a
// reserved word.
func KindOf(lexeme string) TokenKind {
	if kind, ok := Keywords[lexeme]; ok {
		return kind
	}
	return TK_IDENT
}

// NameOf is the reverse mapping, used for debug dumps (--tokens, --codex).
func NameOf(kind TokenKind) string {
	if name, ok := tokenNames[kind]; ok {
		return name
	}
	utils.Unimplement()
	return ""
}

func (t TokenKind) String() string {
	return NameOf(t)
}

// Token is the tagged record spec.md §3 describes: a kind, the original
// lexeme (the lexer places no bound on its length and never truncates it),
// and an implicit source position.
type Token struct {
	Kind   TokenKind
	Lexeme string
	Line   int32
	Column int32
}
