// Package arch selects which assembly backend a compilation targets
// (spec.md §3, §4.H). One file per architecture concern, the way the
// teacher's compile/codegen keeps arch_x86.go separate from asm_x86.go:
// here each target gets its own Generate function, and Select is the
// single dispatch point the driver calls through.
package arch

import (
	"rexion/compileerr"
	"rexion/config"
	"rexion/codegen/x86"
	"rexion/ir"
)

// Backend lowers an IR program into target assembly text.
type Backend func(prog *ir.Program, floatBackend config.FloatPrintBackend) string

// Select returns the Backend for target, or a CompileError of kind
// UnsupportedArch immediately for any target besides x86-64 (spec.md §1: x86-64 is the only target
// fully specified; arm64/riscv are declared but not implemented).
func Select(target config.Target) (Backend, error) {
	switch target {
	case config.TargetX86_64:
		return x86.Generate, nil
	case config.TargetARM64:
		return GenerateARM64, compileerr.Newf(compileerr.UnsupportedArch, "codegen.select", "", "arm64 backend is not implemented")
	case config.TargetRISCV:
		return GenerateRISCV, compileerr.Newf(compileerr.UnsupportedArch, "codegen.select", "", "riscv backend is not implemented")
	default:
		return nil, compileerr.Newf(compileerr.UnsupportedArch, "codegen.select", "", "unknown target %v", target)
	}
}

// GenerateARM64 is a declared placeholder: source-L's ARM64 backend is out
// of scope for this implementation (spec.md §1), and calling Select already
// reports an UnsupportedArch error before this function would ever run.
func GenerateARM64(prog *ir.Program, floatBackend config.FloatPrintBackend) string {
	panic("arm64 backend unimplemented; Select should have rejected this target first")
}

// GenerateRISCV mirrors GenerateARM64's placeholder role for the riscv target.
func GenerateRISCV(prog *ir.Program, floatBackend config.FloatPrintBackend) string {
	panic("riscv backend unimplemented; Select should have rejected this target first")
}
