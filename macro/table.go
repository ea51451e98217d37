// Package macro implements the macro loader and pipe-macro expander
// (spec.md §4.D): loading a `.r4meta` metadata file, expanding `|NAME|`
// pipe-macro lines, and the reader/writer hot-reload discipline spec.md §5
// calls for.
package macro

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/hashicorp/logutils"
	"log"

	"rexion/compileerr"
)

// UnknownMacroMarker is the sentinel "unknown macro" text spec.md §4.D and
// §7 call for: Expand never fails, it returns this marker instead.
const UnknownMacroMarker = "; [UNKNOWN MACRO %s]"

// metaDoc mirrors the .r4meta JSON shape (spec.md §6): a root object with a
// "macros" array of {name, expansion} pairs. encoding/json is the only JSON
// library anywhere in the retrieved corpus (no pack example imports a
// third-party JSON library) so this one stdlib use is named in DESIGN.md.
type metaDoc struct {
	Macros []struct {
		Name       string `json:"name"`
		Expansion  string `json:"expansion"`
	} `json:"macros"`
}

// Table is the macro name -> expansion mapping (spec.md §3). Expansions are
// stored verbatim; the expander never rewrites them.
//
// Concurrency: many Expand readers run concurrently with at most one Reload
// writer, which drains in-flight readers before swapping the table (spec.md
// §5). sync.RWMutex gives exactly that discipline without a custom
// reader/writer spinlock.
type Table struct {
	mu     sync.RWMutex
	macros map[string]string
	path   string
	trace  *Trace
}

// Empty returns a table with no macros loaded, the state a missing or
// malformed metadata file leaves behind (spec.md §7).
func Empty() *Table {
	return &Table{macros: make(map[string]string), trace: NewTrace(64)}
}

// Load reads a JSON document shaped per spec.md §6 and populates a new
// table. A missing or malformed file logs a warning and returns an empty
// table rather than failing the compilation (spec.md §4.D, §7).
func Load(path string) *Table {
	t := Empty()
	t.path = path
	if err := t.reloadLocked(path); err != nil {
		logWarn("macro table: %v, proceeding with an empty table", err)
	}
	return t
}

// Reload re-reads the metadata file at t's configured path and atomically
// swaps the macro map in, draining any in-flight Expand readers first
// (spec.md §5: "a reload that begins before expand(name) is called must
// either complete first or leave the table in the pre-reload state").
func (t *Table) Reload() error {
	if t.path == "" {
		return compileerr.Newf(compileerr.MalformedMetadata, "macro", "", "no metadata path configured")
	}
	return t.reloadLocked(t.path)
}

func (t *Table) reloadLocked(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return compileerr.New(compileerr.IOFailure, "macro.load", path, err)
	}
	var doc metaDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return compileerr.New(compileerr.MalformedMetadata, "macro.load", path, err)
	}
	fresh := make(map[string]string, len(doc.Macros))
	for _, m := range doc.Macros {
		fresh[m.Name] = m.Expansion
	}

	t.mu.Lock()
	t.macros = fresh
	t.path = path
	t.mu.Unlock()
	return nil
}

// Expand returns the stored expansion for name, or the sentinel "unknown
// macro" marker if name was never loaded (spec.md §4.D, §7: non-fatal).
func (t *Table) Expand(name string) (text string, found bool) {
	t.mu.RLock()
	expansion, ok := t.macros[name]
	t.mu.RUnlock()
	if t.trace != nil {
		t.trace.Record(name, ok)
	}
	if !ok {
		return fmt.Sprintf(UnknownMacroMarker, name), false
	}
	return expansion, true
}

// Len reports how many macros are currently loaded, for the --debug-full
// stage summary.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.macros)
}

// Names returns every loaded macro name, for --complete-macros.
func (t *Table) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.macros))
	for name := range t.macros {
		names = append(names, name)
	}
	return names
}

// Path returns the metadata file path this table was (or will be) loaded
// from.
func (t *Table) Path() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.path
}

// Trace exposes the expansion trace ring buffer for --codex rendering
// (SPEC_FULL.md §4.D supplemented feature, grounded on
// original_source/official/Macro_trace_ui.c).
func (t *Table) Trace() *Trace {
	return t.trace
}

var logFilter = &logutils.LevelFilter{
	Levels:   []logutils.LogLevel{"DEBUG", "WARN", "ERROR"},
	MinLevel: logutils.LogLevel("WARN"),
	Writer:   os.Stderr,
}

func init() {
	log.SetOutput(logFilter)
	log.SetPrefix("")
	log.SetFlags(0)
}

// SetDebug raises the logging level to DEBUG, the way --debug-full does for
// the whole driver (SPEC_FULL.md ambient logging section).
func SetDebug(debug bool) {
	if debug {
		logFilter.MinLevel = logutils.LogLevel("DEBUG")
	} else {
		logFilter.MinLevel = logutils.LogLevel("WARN")
	}
}

func logWarn(format string, args ...interface{}) {
	log.Printf("[WARN] "+format, args...)
}
