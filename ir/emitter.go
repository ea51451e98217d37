package ir

import (
	"fmt"
	"strconv"
	"strings"

	"rexion/ast"
	"rexion/config"
	"rexion/intrinsics"
	"rexion/symtab"
)

// Emitter lowers a parsed Program into the flat IR instruction stream
// (spec.md §4.F). It threads a single SymbolTable per compilation (spec.md
// §5: fresh tables every run) the same way compile/codegen's register
// allocator is threaded through Falcon's lowering passes, simplified to
// source-L's idempotent first-use allocation (symtab.Allocate).
type Emitter struct {
	Symbols *symtab.SymbolTable
	Options config.Options

	currentClass string
	tmpCounter   int
}

// NewEmitter returns an emitter configured per opts, with a fresh symbol
// table sized to opts.RegisterCap.
func NewEmitter(opts config.Options) *Emitter {
	return &Emitter{
		Symbols: symtab.New(opts.RegisterCap),
		Options: opts,
	}
}

// Emit lowers prog's statements in order and returns the completed Program,
// header included (spec.md §3 "emission target").
func (e *Emitter) Emit(prog *ast.Program) *Program {
	out := &Program{
		Header: Header{
			FloatPrintBackend: floatBackendName(e.Options.FloatBackend),
			Target:            e.Options.Target.String(),
		},
	}
	for _, stmt := range prog.Stmts {
		out.Instrs = append(out.Instrs, e.lower(stmt)...)
	}
	out.Instrs = append(out.Instrs, Instr{Op: OpHalt})
	return out
}

func floatBackendName(b config.FloatPrintBackend) string {
	if b == config.FloatPrintPrintf {
		return "printf"
	}
	return "syscall"
}

func (e *Emitter) newTemp() string {
	e.tmpCounter++
	return fmt.Sprintf("T%d", e.tmpCounter)
}

// lower dispatches on the concrete Stmt case (spec.md §3 "tagged sum"); each
// case produces zero or more IR instructions.
func (e *Emitter) lower(stmt ast.Stmt) []Instr {
	switch s := stmt.(type) {
	case *ast.Define:
		return e.lowerDefine(s)
	case *ast.Func:
		return e.lowerFunc(s)
	case *ast.Print:
		return e.lowerPrint(s)
	case *ast.Class:
		return e.lowerClass(s)
	case *ast.VisibilityDecl:
		return e.lowerVisibility(s)
	case *ast.New:
		return e.lowerNew(s)
	case *ast.SuperCall:
		return []Instr{{Op: OpCall, Arg1: "super." + s.Method}}
	case *ast.ThisAccess:
		return e.lowerThisAccess(s)
	case *ast.Eval:
		return e.lowerEval(s)
	case *ast.FeatureStmt:
		return []Instr{{Op: OpNop, Arg1: "feature:" + s.Lexeme}}
	case *ast.ErrorStmt:
		return []Instr{{Op: OpNop, Arg1: "error:" + s.Lexeme}}
	default:
		return nil
	}
}

// lowerDefine resolves the symbol table entry for name (spec.md §4.E) and
// zero-initialises the register it reserves: `LOAD reg, 0` for an int,
// `FLOAT_LOAD reg, 0.0` for a float.
func (e *Emitter) lowerDefine(d *ast.Define) []Instr {
	isFloat := strings.EqualFold(d.Type, "float")
	reg, err := e.Symbols.Allocate(d.Name, isFloat)
	if err != nil {
		return []Instr{{Op: OpNop, Arg1: "overflow:" + d.Name}}
	}
	if isFloat {
		return []Instr{{Op: OpFloatLoad, Arg1: reg, Arg2: "0.0"}}
	}
	return []Instr{{Op: OpLoad, Arg1: reg, Arg2: "0"}}
}

// lowerFunc brackets the lowered body with CALL/NOP markers naming the
// function, since source-L's IR op set (spec.md §3) has no dedicated
// function-definition opcode; nothing in the grammar invokes a declared
// function by name, so these markers exist purely to delimit the body in
// --ir dumps.
func (e *Emitter) lowerFunc(f *ast.Func) []Instr {
	instrs := []Instr{{Op: OpCall, Arg1: "func:" + f.Name}}
	for _, stmt := range f.Body {
		instrs = append(instrs, e.lower(stmt)...)
	}
	instrs = append(instrs, Instr{Op: OpNop, Arg1: "endfunc:" + f.Name})
	return instrs
}

// lowerPrint selects the float-print backend only when the printed symbol
// was allocated as a float register (spec.md §4.F); an unallocated
// identifier is allocated on the spot as an int, matching the symbol
// table's "first use wins" policy (spec.md §4.E) rather than failing.
func (e *Emitter) lowerPrint(p *ast.Print) []Instr {
	reg, ok := e.Symbols.Lookup(p.Ident)
	if !ok {
		var err error
		reg, err = e.Symbols.Allocate(p.Ident, false)
		if err != nil {
			return []Instr{{Op: OpNop, Arg1: "overflow:" + p.Ident}}
		}
	}
	if e.Symbols.IsFloat(p.Ident) {
		op := OpPrintFloatSyscall
		if e.Options.FloatBackend == config.FloatPrintPrintf {
			op = OpPrintFloatPrintf
		}
		return []Instr{{Op: op, Arg1: reg}}
	}
	return []Instr{{Op: OpPrint, Arg1: reg}}
}

// lowerClass emits the CLASS/INHERIT/.../ENDCLASS bracket (spec.md §4.F),
// visiting members in source order the way lowerFunc visits a body.
func (e *Emitter) lowerClass(c *ast.Class) []Instr {
	prevClass := e.currentClass
	e.currentClass = c.Name

	instrs := []Instr{{Op: OpClass, Arg1: c.Name}}
	for _, base := range c.Bases {
		instrs = append(instrs, Instr{Op: OpInherit, Arg1: c.Name, Arg2: base})
	}
	for _, member := range c.Members {
		instrs = append(instrs, e.lowerMember(member)...)
	}
	instrs = append(instrs, Instr{Op: OpEndClass, Arg1: c.Name})

	e.currentClass = prevClass
	return instrs
}

// lowerVisibility unwraps the visibility decoration; access control itself
// is not a lowering concern (spec.md §9 non-goal: "semantic name resolution
// across inheritance").
func (e *Emitter) lowerVisibility(v *ast.VisibilityDecl) []Instr {
	return e.lowerMember(v.Inner)
}

// lowerMember handles the two shapes that can appear inside a class body
// (bare or visibility-wrapped Func/Define) and emits the FIELD/METHOD
// record spec.md §4.F calls for in place of Define/Func's ordinary
// lowering, since inside a class these are members, not free statements.
func (e *Emitter) lowerMember(stmt ast.Stmt) []Instr {
	switch s := stmt.(type) {
	case *ast.VisibilityDecl:
		return e.lowerMember(s.Inner)
	case *ast.Define:
		define := e.lowerDefine(s)
		return append([]Instr{{Op: OpField, Arg1: e.currentClass, Arg2: s.Name}}, define...)
	case *ast.Func:
		instrs := []Instr{{Op: OpMethod, Arg1: e.currentClass, Arg2: s.Name}}
		for _, inner := range s.Body {
			instrs = append(instrs, e.lower(inner)...)
		}
		return instrs
	default:
		return e.lower(stmt)
	}
}

// lowerNew allocates an implicit temporary to hold the constructed
// instance, since `new Foo();` is a bare statement with no destination
// variable in the grammar (spec.md §4.C).
func (e *Emitter) lowerNew(n *ast.New) []Instr {
	return []Instr{{Op: OpNew, Arg1: e.newTemp(), Arg2: n.TypeName}}
}

func (e *Emitter) lowerThisAccess(t *ast.ThisAccess) []Instr {
	if t.Member == "" {
		return []Instr{{Op: OpNop, Arg1: "this"}}
	}
	if t.IsCall {
		return []Instr{{Op: OpCall, Arg1: "this." + t.Member}}
	}
	return []Instr{{Op: OpLoad, Arg1: e.newTemp(), Arg2: "this." + t.Member}}
}

// lowerEval tries the small intrinsic table first (SPEC_FULL.md
// "Supplemented features", grounded on
// original_source/official/rexion_intrinsic_mapper.c's expand_macro_to_ir);
// anything else lowers to the generic EVAL op spec.md §3 defines, which
// carries no further meaning beyond recording what was evaluated (spec.md
// §9 non-goal: "type checking beyond syntax"). Either path is followed by
// the trailing `STORE eval_result, result` spec.md §4.F mandates (confirmed
// against original_source/official/CLI.c's EVAL/STORE pair).
func (e *Emitter) lowerEval(ev *ast.Eval) []Instr {
	storeResult := Instr{Op: OpStore, Arg1: "eval_result", Arg2: "result"}

	if ev.Kind == ast.LIT_STRING {
		for _, name := range intrinsics.Names() {
			if name != ev.Lexeme {
				continue
			}
			seq, _ := intrinsics.Lookup(ev.Lexeme, e.newTemp(), "ARGSTR")
			return append(seq, storeResult)
		}
	}
	kindName := "ident"
	switch ev.Kind {
	case ast.LIT_NUMBER:
		kindName = "number"
		if _, err := strconv.Atoi(ev.Lexeme); err != nil {
			kindName = "number-malformed"
		}
	case ast.LIT_STRING:
		kindName = "string"
	}
	return []Instr{{Op: OpEval, Arg1: kindName, Arg2: ev.Lexeme}, storeResult}
}
