// Package x86 is the NASM-syntax x86-64 assembly emitter (spec.md §4.H).
// It accumulates a string buffer and exposes one emit method per IR
// opcode, the way the teacher's compile/codegen.Assembler accumulates AT&T
// text; the operand order and comment syntax are ported to NASM/Intel
// since that is the external assembler spec.md targets. The int_to_str and
// float_to_str helper routines and the .data layout are ported directly
// from original_source/official/rexion_intrinsic_mapper.c's
// generate_asm_from_ir, which is the only place in the corpus that shows
// the exact instruction sequences a working binary needs.
package x86

import (
	"fmt"
	"sort"
	"strings"

	"rexion/config"
	"rexion/ir"
)

// Assembler accumulates NASM text for one compilation unit.
type Assembler struct {
	buf        strings.Builder
	dataSlots  map[string]bool
	order      []string
	backend    config.FloatPrintBackend
}

// NewAssembler returns an assembler selecting backend for float prints
// (spec.md §4.F, §4.H, S6).
func NewAssembler(backend config.FloatPrintBackend) *Assembler {
	return &Assembler{backend: backend, dataSlots: make(map[string]bool)}
}

func (a *Assembler) declare(name string) {
	if name == "" || a.dataSlots[name] {
		return
	}
	a.dataSlots[name] = true
	a.order = append(a.order, name)
}

func (a *Assembler) emit(format string, args ...interface{}) {
	fmt.Fprintf(&a.buf, "    "+format+"\n", args...)
}

func (a *Assembler) comment(format string, args ...interface{}) {
	fmt.Fprintf(&a.buf, "    ; "+format+"\n", args...)
}

func (a *Assembler) label(name string) {
	fmt.Fprintf(&a.buf, "%s:\n", name)
}

// isPlainSymbol reports whether s looks like a bare identifier NASM would
// accept as a CALL/JMP target, as opposed to one of the emitter's internal
// structural markers ("func:name", "this.member", "super.method") which
// have no assembly-level target and are rendered as comments instead.
func isPlainSymbol(s string) bool {
	if s == "" {
		return false
	}
	return !strings.ContainsAny(s, ":.")
}

// Generate lowers prog's instruction stream into a complete NASM source
// file text (spec.md §4.H, §8 invariant 8: exactly one _start label,
// exactly one section .text).
func Generate(prog *ir.Program, backend config.FloatPrintBackend) string {
	a := NewAssembler(backend)
	body := a.emitBody(prog.Instrs)
	return a.assemble(body)
}

func (a *Assembler) emitBody(instrs []ir.Instr) string {
	mark := a.buf.Len()
	for _, instr := range instrs {
		a.emitInstr(instr)
	}
	body := a.buf.String()[mark:]
	return body
}

func (a *Assembler) emitInstr(instr ir.Instr) {
	switch instr.Op {
	case ir.OpLoad:
		if !isPlainSymbol(instr.Arg2) {
			// e.g. LOAD T1, this.member: no assembly-level source operand.
			a.comment("LOAD %s, %s", instr.Arg1, instr.Arg2)
			break
		}
		a.declare(instr.Arg1)
		a.emit("mov %s, %s", RAX_, instr.Arg2)
		a.emit("mov [%s], %s", instr.Arg1, RAX_)
	case ir.OpFloatLoad:
		a.declare(instr.Arg1)
		a.emit("; FLOAT_LOAD %s, %s materialized in .data", instr.Arg1, instr.Arg2)
	case ir.OpStore:
		a.declare(instr.Arg1)
		a.declare(instr.Arg2)
		a.emit("mov %s, [%s]", RAX_, instr.Arg2)
		a.emit("mov [%s], %s", instr.Arg1, RAX_)
	case ir.OpMov:
		a.declare(instr.Arg1)
		a.declare(instr.Arg2)
		a.emit("mov %s, [%s]", RAX_, instr.Arg2)
		a.emit("mov [%s], %s", instr.Arg1, RAX_)
	case ir.OpAdd:
		a.declare(instr.Arg1)
		a.declare(instr.Arg2)
		a.emit("mov %s, [%s]", RAX_, instr.Arg1)
		a.emit("add %s, [%s]", RAX_, instr.Arg2)
		a.emit("mov [%s], %s", instr.Arg1, RAX_)
	case ir.OpSub:
		a.declare(instr.Arg1)
		a.declare(instr.Arg2)
		a.emit("mov %s, [%s]", RAX_, instr.Arg1)
		a.emit("sub %s, [%s]", RAX_, instr.Arg2)
		a.emit("mov [%s], %s", instr.Arg1, RAX_)
	case ir.OpMul:
		a.declare(instr.Arg1)
		a.declare(instr.Arg2)
		a.emit("mov %s, [%s]", RAX_, instr.Arg1)
		a.emit("imul %s, [%s]", RAX_, instr.Arg2)
		a.emit("mov [%s], %s", instr.Arg1, RAX_)
	case ir.OpDiv:
		a.declare(instr.Arg1)
		a.declare(instr.Arg2)
		a.emit("mov %s, [%s]", RAX_, instr.Arg1)
		a.emit("cqo")
		a.emit("idiv qword [%s]", instr.Arg2)
		a.emit("mov [%s], %s", instr.Arg1, RAX_)
	case ir.OpFloatAdd:
		a.declare(instr.Arg1)
		a.declare(instr.Arg2)
		a.emit("fld qword [%s]", instr.Arg1)
		a.emit("fadd qword [%s]", instr.Arg2)
		a.emit("fstp qword [%s]", instr.Arg1)
	case ir.OpPrint:
		a.declare(instr.Arg1)
		a.emitIntPrint(instr.Arg1)
	case ir.OpPrintFloatSyscall:
		a.declare(instr.Arg1)
		a.emitFloatPrintSyscall(instr.Arg1)
	case ir.OpPrintFloatPrintf:
		a.declare(instr.Arg1)
		a.emitFloatPrintPrintf(instr.Arg1)
	case ir.OpCmp:
		a.declare(instr.Arg1)
		a.declare(instr.Arg2)
		a.emit("mov %s, [%s]", RAX_, instr.Arg1)
		a.emit("cmp %s, [%s]", RAX_, instr.Arg2)
	case ir.OpJmp:
		if isPlainSymbol(instr.Arg1) {
			a.emit("jmp %s", instr.Arg1)
		} else {
			a.comment("JMP %s", instr.Arg1)
		}
	case ir.OpCall:
		if isPlainSymbol(instr.Arg1) {
			a.emit("call %s", instr.Arg1)
		} else {
			a.comment("CALL %s", instr.Arg1)
		}
	case ir.OpNop:
		if instr.Arg1 != "" {
			a.comment("NOP %s", instr.Arg1)
		} else {
			a.emit("nop")
		}
	case ir.OpHalt:
		// exit(2) takes its status in edi, the 32-bit view of rdi; the
		// syscall number goes in eax, the 32-bit view of rax.
		a.emit("mov eax, 60") // 60 == exit
		a.emit("xor edi, edi")
		a.emit("syscall")
	case ir.OpClass, ir.OpEndClass, ir.OpField, ir.OpMethod, ir.OpInherit, ir.OpNew, ir.OpEval:
		// Object/class structure has no x86 representation in scope
		// (spec.md §9 non-goal: "object/executable generation"); recorded
		// as a comment so --debug-full output still shows the structure.
		a.comment("%s %s, %s", instr.Op, instr.Arg1, instr.Arg2)
	default:
		a.comment("unhandled op %s", instr.Op)
	}
}

func (a *Assembler) emitIntPrint(reg string) {
	a.emit("mov %s, [%s]", RDI_, reg)
	a.emit("mov %s, buffer", RSI_)
	a.emit("call int_to_str")
	a.emit("mov %s, %s", RDX_, RAX_)
	a.emit("mov %s, 1", RAX_)
	a.emit("mov %s, 1", RDI_)
	a.emit("mov %s, buffer", RSI_)
	a.emit("syscall")
	a.emitNewline()
}

func (a *Assembler) emitFloatPrintSyscall(reg string) {
	a.emit("fld qword [%s]", reg)
	a.emit("fstp qword [fltstr]")
	a.emit("call float_to_str")
	a.emit("mov %s, %s", RDX_, RAX_)
	a.emit("mov %s, 1", RAX_)
	a.emit("mov %s, 1", RDI_)
	a.emit("mov %s, buffer", RSI_)
	a.emit("syscall")
	a.emitNewline()
}

func (a *Assembler) emitFloatPrintPrintf(reg string) {
	a.emit("fld qword [%s]", reg)
	a.emit("fstp qword [fltstr]")
	a.emit("lea %s, [rel fmt]", RDI_)
	a.emit("movq xmm0, [fltstr]")
	a.emit("mov %s, 1", RAX_)
	a.emit("call printf")
	a.emitNewline()
}

func (a *Assembler) emitNewline() {
	a.emit("mov %s, 1", RAX_)
	a.emit("mov %s, 1", RDI_)
	a.emit("mov %s, newline", RSI_)
	a.emit("mov %s, 1", RDX_)
	a.emit("syscall")
}

// assemble wraps body (the lowered _start instructions) with the fixed
// .data/.text scaffold: one declared 8-byte cell per distinct symtab
// register seen, plus the fixed scratch cells the int_to_str/float_to_str
// helpers need. ten dq 10.0 is always emitted — spec.md §9's "ten" bug is
// fixed here, not reproduced: float_to_str's fmul qword [ten] always
// resolves.
func (a *Assembler) assemble(body string) string {
	var out strings.Builder

	out.WriteString("section .data\n")
	slots := append([]string(nil), a.order...)
	sort.Strings(slots)
	for _, name := range slots {
		fmt.Fprintf(&out, "%s dq 0\n", name)
	}
	out.WriteString("buffer db 64 dup(0)\n")
	out.WriteString("fltstr db 64 dup(0)\n")
	out.WriteString("newline db 0xA, 0\n")
	out.WriteString("ten dq 10.0\n")
	if a.backend == config.FloatPrintPrintf {
		out.WriteString("fmt db '%f', 10, 0\n")
	}

	out.WriteString("\nsection .text\n")
	if a.backend == config.FloatPrintPrintf {
		out.WriteString("extern printf\n")
	}
	fmt.Fprintf(&out, "; int_to_str/float_to_str clobber: %s\n", callerSavedList())
	out.WriteString("global _start\n")
	out.WriteString("_start:\n")
	out.WriteString(body)
	out.WriteString("\n")
	out.WriteString(intToStrRoutine)
	out.WriteString("\n")
	out.WriteString(floatToStrRoutine)
	return out.String()
}

// intToStrRoutine converts the integer in rdi to a decimal string written
// backward into the buffer rsi points at, returning its length in rax
// (ported verbatim in spirit from the original's int_to_str).
const intToStrRoutine = `int_to_str:
    mov rbx, 10
    mov rax, rdi
    xor rcx, rcx
    add rsi, 63
    mov byte [rsi], 0
convert_loop:
    xor rdx, rdx
    div rbx
    add dl, '0'
    dec rsi
    mov [rsi], dl
    inc rcx
    test rax, rax
    jnz convert_loop
    mov rax, rcx
    ret
`

// floatToStrRoutine splits the value staged in fltstr into an integer part
// and a two-digit fractional part (via the now-always-defined ten
// multiplier) and renders "int.frac" into buffer, returning its length in
// rax (ported from the original's float_to_str).
const floatToStrRoutine = `float_to_str:
    fld qword [fltstr]
    fld st0
    frndint
    fsub st1, st0
    fxch
    fistp qword [buffer + 32]
    fld st0
    fmul qword [ten]
    frndint
    fistp qword [buffer + 40]
    mov rdi, [buffer + 32]
    mov rsi, buffer
    call int_to_str
    mov rdi, buffer
    call strlen_local
    mov byte [buffer + rax], '.'
    mov rdi, [buffer + 40]
    mov rsi, buffer + rax + 1
    call int_to_str
    ret

strlen_local:
    xor rax, rax
.next:
    cmp byte [rdi + rax], 0
    je .done
    inc rax
    jmp .next
.done:
    ret
`
