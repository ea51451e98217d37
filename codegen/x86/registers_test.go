package x86

import "testing"

func TestPhyRegStringIsLowercaseNASMName(t *testing.T) {
	cases := map[*PhyReg]string{
		RAX_: "rax",
		RDI_: "rdi",
		RSI_: "rsi",
		RDX_: "rdx",
		RCX_: "rcx",
		R8_:  "r8",
		R11_: "r11",
	}
	for reg, want := range cases {
		if got := reg.String(); got != want {
			t.Fatalf("want %q, got %q", want, got)
		}
	}
}

func TestCallerSavedIncludesScratchAccumulator(t *testing.T) {
	found := false
	for _, r := range callerSaved() {
		if r == RAX_ {
			found = true
		}
	}
	if !found {
		t.Fatalf("callerSaved must list rax, the assembler's accumulator")
	}
}

func TestCallerSavedListIsCommaSeparated(t *testing.T) {
	got := callerSavedList()
	want := "rax, rcx, rdx, r8, r9, r10, r11"
	if got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}
