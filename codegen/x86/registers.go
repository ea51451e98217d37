// Copyright (c) 2024 The Sprite Programming Language
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

// Physical x86-64 general-purpose registers, adapted from the teacher's
// register_x86.go. source-L needs no allocator over these: symtab hands out
// a virtual name per variable (spec.md §4.E) and the emitter maps those
// names onto memory slots, not physical registers, the way the original's
// generate_asm_from_ir keeps everything in named .data cells rather than a
// register file. What survives here is the subset of the teacher's register
// enumeration the emitter actually names when it renders scratch-register
// operands and documents which ones a CALL may clobber; registers this
// emitter's fixed memory-slot scheme never touches (R12-R15, RBP, RSP)
// were dropped rather than carried as unused constants. RBX has no constant
// either: only the embedded int_to_str routine uses it, as literal text.
package x86

import "strings"

type PhyReg struct {
	index int
	name  string
}

func (r *PhyReg) String() string { return r.name }

var (
	RAX_ = defPhyReg(0, "rax")
	RCX_ = defPhyReg(1, "rcx")
	RDX_ = defPhyReg(2, "rdx")
	RSI_ = defPhyReg(3, "rsi")
	RDI_ = defPhyReg(4, "rdi")
	R8_  = defPhyReg(5, "r8")
	R9_  = defPhyReg(6, "r9")
	R10_ = defPhyReg(7, "r10")
	R11_ = defPhyReg(8, "r11")
)

func defPhyReg(index int, name string) *PhyReg {
	return &PhyReg{index: index, name: name}
}

// callerSaved lists the registers the assembler's accumulator/scratch code
// is free to clobber across a CALL (adapted from the teacher's
// register_x86.go callerSaved, generalized from an LSRA allocation-set
// query into the emitter's fixed scratch-register policy). Generate uses it
// to document, in the emitted NASM text, which registers int_to_str and
// float_to_str may trash.
func callerSaved() []*PhyReg {
	return []*PhyReg{RAX_, RCX_, RDX_, R8_, R9_, R10_, R11_}
}

// callerSavedList renders callerSaved as a comma-separated register list for
// Generate's clobber comment.
func callerSavedList() string {
	regs := callerSaved()
	names := make([]string, len(regs))
	for i, r := range regs {
		names[i] = r.String()
	}
	return strings.Join(names, ", ")
}
