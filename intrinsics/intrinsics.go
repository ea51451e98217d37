// Package intrinsics maps a handful of recognized eval() argument forms to
// fixed IR instruction sequences (SPEC_FULL.md "Supplemented features"),
// grounded on original_source/official/rexion_intrinsic_mapper.c's
// expand_macro_to_ir: a name is looked up against a small fixed table and,
// on a hit, a canned sequence of IR operations is emitted in place of the
// generic lowering. Anything not in the table falls through to the
// generic EVAL lowering ir.Emitter already performs.
package intrinsics

import "rexion/ir"

// Lookup reports whether lexeme names a recognized string intrinsic
// (len, upper, lower) and, if so, the fixed instruction sequence it expands
// to against the register holding its single STRING argument. The sequence
// is a CALL to a runtime helper of the same name followed by a MOV that
// captures the result into dst, mirroring the original's approach of
// mapping a handful of fixed identifier forms to canned IR rather than
// general-purpose argument evaluation.
func Lookup(name, dst, argReg string) ([]ir.Instr, bool) {
	switch name {
	case "len", "upper", "lower":
		return []ir.Instr{
			{Op: ir.OpCall, Arg1: "rexion_" + name, Arg2: argReg},
			{Op: ir.OpMov, Arg1: dst, Arg2: "RAX"},
		}, true
	default:
		return nil, false
	}
}

// Names lists the recognized intrinsic names; the IR emitter's eval
// lowering checks a STRING operand against it.
func Names() []string {
	return []string{"len", "upper", "lower"}
}
