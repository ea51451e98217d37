// Copyright (c) 2024 The Falcon Contributors
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

// Command peephole runs the standalone IR optimizer (spec.md §6): it reads
// the textual IR format ir.WriteIR produces from <input.ir>, runs
// optimize.Run to a fixpoint, and writes the result to <output.ir> in the
// same format. The CLI surface is two positional arguments, not flags
// (spec.md §6: "peephole <input.ir> <output.ir>"), and on success the tool
// reports both paths (spec.md §7's propagation policy); any I/O failure
// exits nonzero.
package main

import (
	"fmt"
	"os"

	"rexion/ir"
	"rexion/optimize"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintf(os.Stderr, "usage: %s <input.ir> <output.ir>\n", os.Args[0])
		os.Exit(1)
	}
	inPath, outPath := os.Args[1], os.Args[2]

	in, err := os.Open(inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "peephole: %v\n", err)
		os.Exit(1)
	}
	defer in.Close()

	prog, err := ir.ReadIR(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "peephole: %v\n", err)
		os.Exit(1)
	}

	prog.Instrs = optimize.Run(prog.Instrs)

	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "peephole: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := ir.WriteIR(out, prog); err != nil {
		fmt.Fprintf(os.Stderr, "peephole: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("peephole: %s -> %s\n", inPath, outPath)
}
