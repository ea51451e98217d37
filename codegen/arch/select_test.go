package arch

import (
	"testing"

	"rexion/compileerr"
	"rexion/config"
	"rexion/ir"
)

func TestSelectX86IsSupported(t *testing.T) {
	backend, err := Select(config.TargetX86_64)
	if err != nil {
		t.Fatalf("x86-64 must be supported, got error: %v", err)
	}
	out := backend(&ir.Program{Instrs: []ir.Instr{{Op: ir.OpHalt}}}, config.FloatPrintSyscall)
	if out == "" {
		t.Fatalf("expected non-empty assembly output")
	}
}

func TestSelectUnsupportedArchReturnsImmediately(t *testing.T) {
	for _, target := range []config.Target{config.TargetARM64, config.TargetRISCV} {
		_, err := Select(target)
		if err == nil {
			t.Fatalf("expected an UnsupportedArch error for target %v", target)
		}
		ce, ok := err.(*compileerr.CompileError)
		if !ok {
			t.Fatalf("expected a *compileerr.CompileError, got %T", err)
		}
		if ce.Kind != compileerr.UnsupportedArch {
			t.Fatalf("expected Kind=UnsupportedArch, got %v", ce.Kind)
		}
	}
}
