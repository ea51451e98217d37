// Package optimize implements the peephole IR optimizer (spec.md §4.G),
// ported line-for-line in spirit from
// original_source/official/peephole_optimizer.c's four passes, and run to
// fixpoint the way compile/ssa/optimize.go's Ideal() loops "changed-flag,
// repeat until a full pass makes no change" over Falcon's HIR.
package optimize

import (
	"strconv"

	"rexion/ir"
)

// Run applies every peephole pass in the original's fixed order
// (redundant-load elimination, add-zero removal, self-move removal,
// constant-fold-for-add) repeatedly until a full round changes nothing
// (spec.md §4.G, §8 invariant 7: optimization is idempotent once it
// converges). It never mutates the caller's slice in place.
func Run(instrs []ir.Instr) []ir.Instr {
	out := append([]ir.Instr(nil), instrs...)
	for {
		next, changed := onePass(out)
		out = next
		if !changed {
			return out
		}
	}
}

func onePass(in []ir.Instr) ([]ir.Instr, bool) {
	changed := false
	out := in

	out, c := redundantLoads(out)
	changed = changed || c

	out, c = uselessAddZero(out)
	changed = changed || c

	out, c = movToSameRegister(out)
	changed = changed || c

	out, c = foldConstantAdds(out)
	changed = changed || c

	return out, changed
}

// redundantLoads drops a LOAD that is an exact repeat of the LOAD
// immediately preceding it (peephole_optimizer.c's optimize_redundant_loads).
func redundantLoads(in []ir.Instr) ([]ir.Instr, bool) {
	out := make([]ir.Instr, 0, len(in))
	changed := false
	for i, instr := range in {
		if i > 0 && instr.Op == ir.OpLoad && out[len(out)-1] == instr {
			changed = true
			continue
		}
		out = append(out, instr)
	}
	return out, changed
}

// uselessAddZero turns `ADD dst, 0` into a NOP (optimize_useless_add_zero).
// The instruction slot is kept (not removed) so instruction offsets a later
// pass might reference stay stable, matching the original's in-place
// strcpy-to-NOP rather than its array-shift removal.
func uselessAddZero(in []ir.Instr) ([]ir.Instr, bool) {
	out := make([]ir.Instr, len(in))
	changed := false
	for i, instr := range in {
		if instr.Op == ir.OpAdd && instr.Arg2 == "0" {
			out[i] = ir.Instr{Op: ir.OpNop}
			changed = true
			continue
		}
		out[i] = instr
	}
	return out, changed
}

// movToSameRegister turns `MOV r, r` into a NOP
// (optimize_mov_to_same_register).
func movToSameRegister(in []ir.Instr) ([]ir.Instr, bool) {
	out := make([]ir.Instr, len(in))
	changed := false
	for i, instr := range in {
		if instr.Op == ir.OpMov && instr.Arg1 == instr.Arg2 {
			out[i] = ir.Instr{Op: ir.OpNop}
			changed = true
			continue
		}
		out[i] = instr
	}
	return out, changed
}

// foldConstantAdds collapses `LOAD a, c1 / LOAD b, c2 / ADD dst, _` (where
// dst is neither a nor b; the ADD's source operand is not inspected) into a
// single `LOAD dst, c1+c2` (fold_constant_adds).
// Both constants must parse as integers, matching the original's sscanf
// guard; a non-numeric operand leaves the triple untouched.
func foldConstantAdds(in []ir.Instr) ([]ir.Instr, bool) {
	out := make([]ir.Instr, 0, len(in))
	changed := false
	i := 0
	for i < len(in) {
		if i+2 < len(in) &&
			in[i].Op == ir.OpLoad && in[i+1].Op == ir.OpLoad && in[i+2].Op == ir.OpAdd {
			v1, err1 := strconv.Atoi(in[i].Arg2)
			v2, err2 := strconv.Atoi(in[i+1].Arg2)
			if err1 == nil && err2 == nil &&
				in[i].Arg1 != in[i+2].Arg1 && in[i+1].Arg1 != in[i+2].Arg1 {
				out = append(out, ir.Instr{Op: ir.OpLoad, Arg1: in[i+2].Arg1, Arg2: strconv.Itoa(v1 + v2)})
				changed = true
				i += 3
				continue
			}
		}
		out = append(out, in[i])
		i++
	}
	return out, changed
}
