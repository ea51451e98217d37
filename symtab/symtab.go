// Package symtab implements the shared symbol table and virtual register
// allocator threaded into the IR emitter (spec.md §3, §4.E). It plays the
// role the teacher's compile/codegen register allocator plays for Falcon,
// generalized to source-L's much simpler name->register model: there is no
// live-interval linear scan here, only idempotent first-use allocation.
package symtab

import (
	"fmt"

	"rexion/compileerr"
)

// entry is a resolved symbol: its register name and whether the *first*
// allocate() call for this name fixed it as a float slot (spec.md §4.E
// policy: later calls never reclassify).
type entry struct {
	register string
	isFloat  bool
}

// SymbolTable maps variable names to virtual registers. Capacity is bounded
// (spec.md §3); both the int and float counters share it.
type SymbolTable struct {
	entries  map[string]entry
	capacity int
	nextInt  int
	nextFlt  int
}

// New returns an empty table with the given capacity. A fresh table must be
// created per compilation (spec.md §5: "no cross-compilation sharing").
func New(capacity int) *SymbolTable {
	return &SymbolTable{entries: make(map[string]entry), capacity: capacity}
}

// Allocate resolves name to a virtual register, creating one on first use.
// Idempotent: every subsequent call for the same name returns the same
// register regardless of the isFloat argument passed this time — the first
// call's classification wins, a caller mistake is not silently reclassified
// (spec.md §4.E).
func (s *SymbolTable) Allocate(name string, isFloat bool) (string, error) {
	if e, ok := s.entries[name]; ok {
		return e.register, nil
	}
	if len(s.entries) >= s.capacity {
		return "", compileerr.Newf(compileerr.CapacityOverflow, "symtab", "",
			"symbol table capacity (%d) exceeded allocating %q", s.capacity, name)
	}
	var reg string
	if isFloat {
		s.nextFlt++
		reg = fmt.Sprintf("XMM%d", s.nextFlt)
	} else {
		s.nextInt++
		reg = fmt.Sprintf("R%d", s.nextInt)
	}
	s.entries[name] = entry{register: reg, isFloat: isFloat}
	return reg, nil
}

// Lookup returns the register already assigned to name, if any, without
// allocating one.
func (s *SymbolTable) Lookup(name string) (string, bool) {
	e, ok := s.entries[name]
	if !ok {
		return "", false
	}
	return e.register, true
}

// IsFloat reports whether name was first allocated as a float register.
func (s *SymbolTable) IsFloat(name string) bool {
	return s.entries[name].isFloat
}

// Len reports how many distinct names have been allocated.
func (s *SymbolTable) Len() int {
	return len(s.entries)
}

// Names returns every allocated name, for the --codex "Symbols" listing.
func (s *SymbolTable) Names() []string {
	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	return names
}

// Explain renders a one-line summary of a single symbol's allocation state,
// used by the compiler's --codex report (driver.Result.Codex). The
// `symbol-explain` CLI tool uses its own fixed table, not this one.
func (s *SymbolTable) Explain(name string) string {
	e, ok := s.entries[name]
	if !ok {
		return fmt.Sprintf("%s: <unallocated>", name)
	}
	kind := "int"
	if e.isFloat {
		kind = "float"
	}
	return fmt.Sprintf("%s: register=%s kind=%s", name, e.register, kind)
}
