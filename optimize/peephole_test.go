package optimize

import (
	"bytes"
	"reflect"
	"testing"

	"rexion/ir"
)

func TestRedundantLoadElimination(t *testing.T) {
	in := []ir.Instr{
		{Op: ir.OpLoad, Arg1: "R1", Arg2: "5"},
		{Op: ir.OpLoad, Arg1: "R1", Arg2: "5"},
		{Op: ir.OpPrint, Arg1: "R1"},
	}
	out := Run(in)
	want := []ir.Instr{
		{Op: ir.OpLoad, Arg1: "R1", Arg2: "5"},
		{Op: ir.OpPrint, Arg1: "R1"},
	}
	if !reflect.DeepEqual(out, want) {
		t.Fatalf("want %v, got %v", want, out)
	}
}

func TestUselessAddZeroBecomesNop(t *testing.T) {
	in := []ir.Instr{{Op: ir.OpAdd, Arg1: "R1", Arg2: "0"}}
	out := Run(in)
	if out[0].Op != ir.OpNop {
		t.Fatalf("expected NOP, got %v", out[0])
	}
}

func TestMovSameRegisterBecomesNop(t *testing.T) {
	in := []ir.Instr{{Op: ir.OpMov, Arg1: "R1", Arg2: "R1"}}
	out := Run(in)
	if out[0].Op != ir.OpNop {
		t.Fatalf("expected NOP, got %v", out[0])
	}
}

func TestFoldConstantAdds(t *testing.T) {
	in := []ir.Instr{
		{Op: ir.OpLoad, Arg1: "R1", Arg2: "5"},
		{Op: ir.OpLoad, Arg1: "R2", Arg2: "3"},
		{Op: ir.OpAdd, Arg1: "R3", Arg2: "R1"},
	}
	out := Run(in)
	want := []ir.Instr{{Op: ir.OpLoad, Arg1: "R3", Arg2: "8"}}
	if !reflect.DeepEqual(out, want) {
		t.Fatalf("want %v, got %v", want, out)
	}
}

func TestFoldConstantAddsRequiresDistinctDest(t *testing.T) {
	in := []ir.Instr{
		{Op: ir.OpLoad, Arg1: "R1", Arg2: "5"},
		{Op: ir.OpLoad, Arg1: "R2", Arg2: "3"},
		{Op: ir.OpAdd, Arg1: "R1", Arg2: "R2"},
	}
	out := Run(in)
	if len(out) != 3 {
		t.Fatalf("fold must not fire when the ADD's dest aliases a source LOAD, got %v", out)
	}
}

func TestOptimizationIsIdempotent(t *testing.T) {
	in := []ir.Instr{
		{Op: ir.OpLoad, Arg1: "R1", Arg2: "5"},
		{Op: ir.OpLoad, Arg1: "R1", Arg2: "5"},
		{Op: ir.OpAdd, Arg1: "R2", Arg2: "0"},
		{Op: ir.OpMov, Arg1: "R3", Arg2: "R3"},
		{Op: ir.OpPrint, Arg1: "R1"},
	}
	once := Run(in)
	twice := Run(once)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("optimizing twice must be a no-op: once=%v twice=%v", once, twice)
	}
}

// TestS4LiteralTextFoldsThroughTextIO round-trips spec.md §9 scenario S4's
// literal whitespace-separated IR text through ir.ReadIR, Run and
// ir.WriteIR, confirming the external textual format (not just in-memory
// ir.Instr values) folds the way the spec's worked example says it must.
func TestS4LiteralTextFoldsThroughTextIO(t *testing.T) {
	src := "LOAD T1 2\nLOAD T2 3\nADD  T3 ignored\n"
	prog, err := ir.ReadIR(bytes.NewBufferString(src))
	if err != nil {
		t.Fatalf("ReadIR failed: %v", err)
	}
	prog.Instrs = Run(prog.Instrs)

	want := []ir.Instr{{Op: ir.OpLoad, Arg1: "T3", Arg2: "5"}}
	if !reflect.DeepEqual(prog.Instrs, want) {
		t.Fatalf("want %v, got %v", want, prog.Instrs)
	}

	again := Run(prog.Instrs)
	if !reflect.DeepEqual(again, prog.Instrs) {
		t.Fatalf("running the optimizer again must leave the output unchanged: got %v", again)
	}

	var buf bytes.Buffer
	if err := ir.WriteIR(&buf, prog); err != nil {
		t.Fatalf("WriteIR failed: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("LOAD T3 5")) {
		t.Fatalf("expected written IR to contain \"LOAD T3 5\", got:\n%s", buf.String())
	}
}

func TestRunDoesNotMutateInput(t *testing.T) {
	in := []ir.Instr{
		{Op: ir.OpLoad, Arg1: "R1", Arg2: "5"},
		{Op: ir.OpLoad, Arg1: "R1", Arg2: "5"},
	}
	snapshot := append([]ir.Instr(nil), in...)
	Run(in)
	if !reflect.DeepEqual(in, snapshot) {
		t.Fatalf("Run must not mutate its input slice")
	}
}
