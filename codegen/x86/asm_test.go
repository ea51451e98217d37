package x86

import (
	"strings"
	"testing"

	"rexion/config"
	"rexion/ir"
)

func countOccurrences(haystack, needle string) int {
	n := 0
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			n++
		}
	}
	return n
}

func TestGenerateWellFormedness(t *testing.T) {
	prog := &ir.Program{
		Instrs: []ir.Instr{
			{Op: ir.OpLoad, Arg1: "R1", Arg2: "5"},
			{Op: ir.OpLoad, Arg1: "R2", Arg2: "3"},
			{Op: ir.OpAdd, Arg1: "R3", Arg2: "R1"},
			{Op: ir.OpAdd, Arg1: "R3", Arg2: "R2"},
			{Op: ir.OpPrint, Arg1: "R3"},
			{Op: ir.OpHalt},
		},
	}
	out := Generate(prog, config.FloatPrintSyscall)

	if countOccurrences(out, "_start:") != 1 {
		t.Fatalf("expected exactly one _start label, got:\n%s", out)
	}
	if countOccurrences(out, "section .text") != 1 {
		t.Fatalf("expected exactly one section .text, got:\n%s", out)
	}
	if !strings.Contains(out, "global _start") {
		t.Fatalf("expected global _start directive")
	}
}

func TestGenerateIntegerAddAndPrint(t *testing.T) {
	prog := &ir.Program{
		Instrs: []ir.Instr{
			{Op: ir.OpLoad, Arg1: "R1", Arg2: "5"},
			{Op: ir.OpLoad, Arg1: "R2", Arg2: "3"},
			{Op: ir.OpAdd, Arg1: "R3", Arg2: "R1"},
			{Op: ir.OpAdd, Arg1: "R3", Arg2: "R2"},
			{Op: ir.OpPrint, Arg1: "R3"},
			{Op: ir.OpHalt},
		},
	}
	out := Generate(prog, config.FloatPrintSyscall)
	if !strings.Contains(out, "R3 dq 0") {
		t.Fatalf("expected R3 to be declared in .data, got:\n%s", out)
	}
	if !strings.Contains(out, "call int_to_str") {
		t.Fatalf("expected integer print to route through int_to_str, got:\n%s", out)
	}
	if !strings.Contains(out, "mov eax, 60") {
		t.Fatalf("expected HALT to lower to the exit(0) syscall, got:\n%s", out)
	}
}

func TestGenerateFloatPrintSelectsBackend(t *testing.T) {
	prog := &ir.Program{
		Instrs: []ir.Instr{
			{Op: ir.OpFloatLoad, Arg1: "XMM1", Arg2: "3.14"},
			{Op: ir.OpPrintFloatPrintf, Arg1: "XMM1"},
			{Op: ir.OpHalt},
		},
	}
	out := Generate(prog, config.FloatPrintPrintf)
	if !strings.Contains(out, "extern printf") {
		t.Fatalf("printf backend must declare extern printf, got:\n%s", out)
	}
	if !strings.Contains(out, "call printf") {
		t.Fatalf("expected a call to printf, got:\n%s", out)
	}
}

func TestGenerateAlwaysDefinesTen(t *testing.T) {
	prog := &ir.Program{Instrs: []ir.Instr{{Op: ir.OpHalt}}}
	out := Generate(prog, config.FloatPrintSyscall)
	if !strings.Contains(out, "ten dq 10.0") {
		t.Fatalf("the 'ten' symbol must always be defined so float_to_str's fmul resolves, got:\n%s", out)
	}
}

func TestGenerateClassOpsBecomeComments(t *testing.T) {
	prog := &ir.Program{
		Instrs: []ir.Instr{
			{Op: ir.OpClass, Arg1: "Shape"},
			{Op: ir.OpField, Arg1: "Shape", Arg2: "area"},
			{Op: ir.OpEndClass, Arg1: "Shape"},
			{Op: ir.OpHalt},
		},
	}
	out := Generate(prog, config.FloatPrintSyscall)
	if strings.Contains(out, "\n    CLASS ") {
		t.Fatalf("class structure must not appear as a bare instruction, got:\n%s", out)
	}
	if !strings.Contains(out, "; CLASS Shape") {
		t.Fatalf("expected class structure to appear as a comment, got:\n%s", out)
	}
}
