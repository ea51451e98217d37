package driver

import (
	"fmt"
	"sort"
	"strings"
)

// Codex renders a short Markdown-ish report of a Result: the stage list,
// the loaded macro table, and its expansion trace (SPEC_FULL.md
// "Supplemented features", grounded on original_source/official/CLI.c and
// Macro_trace_ui.c — the original's raw terminal dump of the same state,
// rendered here as the --codex driver stage's structured report instead of
// a GUI).
func (r *Result) Codex() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", r.SourcePath)
	fmt.Fprintf(&b, "## Stages\n\n")
	fmt.Fprintf(&b, "- tokens: %d\n", len(r.Tokens))
	if r.Tree != nil {
		fmt.Fprintf(&b, "- statements: %d\n", len(r.Tree.Stmts))
	}
	if r.Emitted != nil {
		fmt.Fprintf(&b, "- ir instructions (pre-optimize): %d\n", len(r.Emitted.Instrs))
	}
	fmt.Fprintf(&b, "- ir instructions (optimized): %d\n", len(r.Optimized))
	if r.Assembly != "" {
		fmt.Fprintf(&b, "- assembly bytes: %d\n", len(r.Assembly))
	}

	if r.Symbols != nil {
		fmt.Fprintf(&b, "\n## Symbols\n\n")
		names := r.Symbols.Names()
		if len(names) == 0 {
			fmt.Fprintf(&b, "(no symbols allocated)\n")
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&b, "- %s\n", r.Symbols.Explain(name))
		}
	}

	if r.Macros != nil {
		fmt.Fprintf(&b, "\n## Macros\n\n")
		names := r.Macros.Names()
		if len(names) == 0 {
			fmt.Fprintf(&b, "(none loaded)\n")
		}
		for _, name := range names {
			fmt.Fprintf(&b, "- %s\n", name)
		}

		fmt.Fprintf(&b, "\n## Expansion trace\n\n")
		entries := r.Macros.Trace().Recent()
		if len(entries) == 0 {
			fmt.Fprintf(&b, "(no expansions recorded)\n")
		}
		for _, e := range entries {
			status := "expanded"
			if !e.Found {
				status = "unknown"
			}
			fmt.Fprintf(&b, "- %s: %s\n", e.Name, status)
		}
	}

	return b.String()
}
