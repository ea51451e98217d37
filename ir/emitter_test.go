package ir

import (
	"strings"
	"testing"

	"rexion/ast"
	"rexion/config"
)

func emit(t *testing.T, src string) *Program {
	t.Helper()
	lexer := ast.NewLexer(strings.NewReader(src), "test.r4")
	parser := ast.NewParser(lexer, "test.r4")
	prog := parser.Parse()
	emitter := NewEmitter(config.Default())
	return emitter.Emit(prog)
}

func TestEmitDefineAndPrint(t *testing.T) {
	prog := emit(t, "define x : int;\nprint x;\n")
	if len(prog.Instrs) == 0 {
		t.Fatalf("expected at least one instruction")
	}
	last := prog.Instrs[len(prog.Instrs)-1]
	if last.Op != OpHalt {
		t.Fatalf("program must end with HALT, got %v", last)
	}
	foundPrint := false
	for _, instr := range prog.Instrs {
		if instr.Op == OpPrint {
			foundPrint = true
		}
	}
	if !foundPrint {
		t.Fatalf("expected a PRINT instruction, got %v", prog.Instrs)
	}
}

func TestEmitFloatPrintSelectsBackend(t *testing.T) {
	lexer := ast.NewLexer(strings.NewReader("define f : float;\nprint f;\n"), "test.r4")
	parser := ast.NewParser(lexer, "test.r4")
	tree := parser.Parse()

	opts := config.Default()
	opts.FloatBackend = config.FloatPrintPrintf
	prog := NewEmitter(opts).Emit(tree)

	found := false
	for _, instr := range prog.Instrs {
		if instr.Op == OpPrintFloatPrintf {
			found = true
		}
		if instr.Op == OpPrintFloatSyscall {
			t.Fatalf("printf backend selected but a syscall print was emitted")
		}
	}
	if !found {
		t.Fatalf("expected PRINT_FLOAT_PRINTF, got %v", prog.Instrs)
	}
}

func TestEmitClassBracketsMembers(t *testing.T) {
	prog := emit(t, "class Shape extends Base { define area : int; func compute() { print area; } }\n")
	var ops []Op
	for _, instr := range prog.Instrs {
		ops = append(ops, instr.Op)
	}
	assertContainsInOrder(t, ops, []Op{OpClass, OpInherit, OpField, OpMethod, OpEndClass})
}

func TestEmitEvalFallsThroughToGenericOp(t *testing.T) {
	prog := emit(t, "eval(42);\n")
	foundEval, foundStore := false, false
	for i, instr := range prog.Instrs {
		if instr.Op == OpEval && instr.Arg2 == "42" {
			foundEval = true
			if i+1 >= len(prog.Instrs) {
				t.Fatalf("expected a STORE instruction after EVAL, got %v", prog.Instrs)
			}
			next := prog.Instrs[i+1]
			if next.Op != OpStore || next.Arg1 != "eval_result" || next.Arg2 != "result" {
				t.Fatalf("expected STORE eval_result, result immediately after EVAL, got %v", next)
			}
			foundStore = true
		}
	}
	if !foundEval || !foundStore {
		t.Fatalf("expected a generic EVAL instruction followed by STORE for a plain number, got %v", prog.Instrs)
	}
}

func TestEmitEvalIntrinsicHitEmitsTrailingStore(t *testing.T) {
	prog := emit(t, `eval("len");`+"\n")
	for i, instr := range prog.Instrs {
		if instr.Op == OpCall && instr.Arg1 == "rexion_len" {
			if i+2 >= len(prog.Instrs) {
				t.Fatalf("expected MOV then STORE after intrinsic CALL, got %v", prog.Instrs)
			}
			store := prog.Instrs[i+2]
			if store.Op != OpStore || store.Arg1 != "eval_result" || store.Arg2 != "result" {
				t.Fatalf("expected STORE eval_result, result after intrinsic sequence, got %v", store)
			}
			return
		}
	}
	t.Fatalf("expected an intrinsic CALL rexion_len instruction, got %v", prog.Instrs)
}

func TestEmitFeatureStmtIsPassThroughAnnotation(t *testing.T) {
	prog := emit(t, "raytracing;\n")
	found := false
	for _, instr := range prog.Instrs {
		if instr.Op == OpNop && strings.HasPrefix(instr.Arg1, "feature:") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a feature pass-through NOP, got %v", prog.Instrs)
	}
}

func TestEmitRegisterAllocationIsIdempotent(t *testing.T) {
	prog := emit(t, "define x : int;\nprint x;\nprint x;\n")
	seen := map[string]int{}
	for _, instr := range prog.Instrs {
		if instr.Op == OpPrint {
			seen[instr.Arg1]++
		}
	}
	if len(seen) != 1 {
		t.Fatalf("expected a single register reused across both prints, got %v", seen)
	}
}

func assertContainsInOrder(t *testing.T, haystack []Op, wantInOrder []Op) {
	t.Helper()
	idx := 0
	for _, op := range haystack {
		if idx < len(wantInOrder) && op == wantInOrder[idx] {
			idx++
		}
	}
	if idx != len(wantInOrder) {
		t.Fatalf("expected ops %v in order within %v", wantInOrder, haystack)
	}
}
