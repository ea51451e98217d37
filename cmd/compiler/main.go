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

// Command compiler is source-L's ahead-of-time compiler CLI (spec.md §6),
// built on cobra the way saferwall-pe/cmd/pedumper.go wires its
// root/subcommand/flags, generalized from one dump command to the
// compiler's stage flags.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"rexion/config"
	"rexion/driver"
	"rexion/macro"
)

var (
	debugFull    bool
	floatBackend string
	target       string
	metaPath     string
	asmOut       string
	exportPath   string
	rewriteOut   string
)

func parseOptions() config.Options {
	opts := config.Default()
	opts.DebugFull = debugFull
	opts.MetaPath = metaPath
	if asmOut != "" {
		opts.AsmOutputPath = asmOut
	}
	if floatBackend == "printf" {
		opts.FloatBackend = config.FloatPrintPrintf
	}
	switch target {
	case "arm64":
		opts.Target = config.TargetARM64
	case "riscv":
		opts.Target = config.TargetRISCV
	}
	return opts
}

func runCompile(cmd *cobra.Command, args []string) {
	macro.SetDebug(debugFull)
	source := args[0]
	opts := parseOptions()

	result, err := driver.Compile(source, opts)
	if err != nil {
		log.Fatalf("compile %s: %v", source, err)
	}

	showTokens, _ := cmd.Flags().GetBool("tokens")
	if showTokens {
		for _, tok := range result.Tokens {
			fmt.Printf("[%v, %q, %d:%d]\n", tok.Kind, tok.Lexeme, tok.Line, tok.Column)
		}
	}

	showParse, _ := cmd.Flags().GetBool("parse")
	if showParse {
		for _, stmt := range result.Tree.Stmts {
			fmt.Println(stmt.String())
		}
	}

	showIR, _ := cmd.Flags().GetBool("ir")
	if showIR {
		for _, instr := range result.Optimized {
			fmt.Println(instr.String())
		}
	}

	showAsm, _ := cmd.Flags().GetBool("asm")
	if showAsm {
		fmt.Println(result.Assembly)
	}

	showCodex, _ := cmd.Flags().GetBool("codex")
	if showCodex {
		fmt.Println(result.Codex())
	}

	if rewriteOut != "" {
		if err := result.RewriteMacros(rewriteOut); err != nil {
			log.Fatalf("rewrite macros: %v", err)
		}
	}

	reloadMacros, _ := cmd.Flags().GetBool("reload-macros")
	if reloadMacros {
		if err := result.ReloadMacros(); err != nil {
			log.Fatalf("reload macros: %v", err)
		}
	}

	completeMacros, _ := cmd.Flags().GetBool("complete-macros")
	if completeMacros {
		for _, name := range result.CompleteMacros() {
			fmt.Println(name)
		}
	}

	if exportPath != "" {
		if err := result.ExportMacros(exportPath); err != nil {
			log.Fatalf("export macros: %v", err)
		}
	}

	if debugFull {
		fmt.Fprint(os.Stderr, result.StageSummary())
	}
}

func main() {
	var rootCmd = &cobra.Command{
		Use:   "compiler",
		Short: "Ahead-of-time compiler for source-L",
		Long:  "Compiles a .r4 source file through lexing, parsing, IR emission, peephole optimization and x86-64 assembly generation.",
		Args:  cobra.ExactArgs(1),
		Run:   runCompile,
	}

	rootCmd.PersistentFlags().BoolVar(&debugFull, "debug-full", false, "raise logging to DEBUG and print a stage summary")
	rootCmd.Flags().Bool("tokens", false, "print the token stream")
	rootCmd.Flags().Bool("parse", false, "print the parsed syntax tree")
	rootCmd.Flags().Bool("ir", false, "print the optimized IR")
	rootCmd.Flags().Bool("asm", false, "print the generated assembly")
	rootCmd.Flags().Bool("codex", false, "print a Markdown-ish compilation report")
	rootCmd.Flags().Bool("reload-macros", false, "reload the macro table from its metadata file after compiling")
	rootCmd.Flags().Bool("complete-macros", false, "list the loaded macro names")
	rootCmd.Flags().StringVar(&metaPath, "meta", "", "path to a .r4meta macro metadata file")
	rootCmd.Flags().StringVar(&asmOut, "o", "rexion.asm", "assembly output path")
	rootCmd.Flags().StringVar(&floatBackend, "float-backend", "syscall", "float print backend: syscall or printf")
	rootCmd.Flags().StringVar(&target, "target", "x86_64", "assembly target: x86_64, arm64 or riscv")
	rootCmd.Flags().StringVar(&exportPath, "export-macros", "", "bundle the macro metadata and resources into a ZIP at this path")
	rootCmd.Flags().StringVar(&rewriteOut, "rewrite-macros", "", "expand pipe-macros in the source file into this .rexasm path")

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
