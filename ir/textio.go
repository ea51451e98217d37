package ir

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"rexion/compileerr"
)

// WriteIR renders prog as the textual IR the peephole tool's
// whitespace-separated contract expects (spec.md §6): one instruction per
// line, "OP ARG1 ARG2", "OP ARG1" or bare "OP" depending on arity. The
// header is written as a leading comment line so a human can tell which
// float backend and target produced the file without parsing it.
func WriteIR(w io.Writer, prog *Program) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "; float-backend=%s target=%s\n", prog.Header.FloatPrintBackend, prog.Header.Target)
	for _, instr := range prog.Instrs {
		fmt.Fprintln(bw, instr.String())
	}
	return bw.Flush()
}

// ReadIR parses the textual IR format WriteIR produces (spec.md §6). Header
// comment lines (leading ';') are skipped; every other non-blank line must
// be exactly one, two or three whitespace-separated tokens.
func ReadIR(r io.Reader) (*Program, error) {
	prog := &Program{}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		instr, err := parseIRLine(line)
		if err != nil {
			return nil, compileerr.Newf(compileerr.ParseError, "ir.read", "", "line %d: %v", lineNo, err)
		}
		prog.Instrs = append(prog.Instrs, instr)
	}
	if err := scanner.Err(); err != nil {
		return nil, compileerr.New(compileerr.IOFailure, "ir.read", "", err)
	}
	return prog, nil
}

func parseIRLine(line string) (Instr, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Instr{}, fmt.Errorf("empty instruction line")
	}
	op, ok := OpOf(fields[0])
	if !ok {
		return Instr{}, fmt.Errorf("unknown opcode %q", fields[0])
	}
	if len(fields) > 3 {
		return Instr{}, fmt.Errorf("too many fields on instruction line %q", line)
	}
	instr := Instr{Op: op}
	if len(fields) > 1 {
		instr.Arg1 = fields[1]
	}
	if len(fields) > 2 {
		instr.Arg2 = fields[2]
	}
	return instr, nil
}
