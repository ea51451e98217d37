package macro

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"rexion/compileerr"
)

// pipeMacroLine matches a line that starts with '|' at its first byte (no
// leading whitespace), holds a NAME of letters, digits and '_', and ends
// with '|' followed only by optional whitespace (spec.md §4.D, §6):
// `^\|([A-Za-z0-9_]+)\|\s*$`.
var pipeMacroLine = regexp.MustCompile(`^\|([A-Za-z0-9_]+)\|\s*$`)

// Rewrite reads sourcePath line-by-line; a pipe-macro line is expanded in
// place (preceded by a comment line identifying the macro), every other
// line's text passes through unchanged (spec.md §8 invariant 5). Lines are
// read with bufio.Scanner and each is written back ending in a single '\n':
// a '\r' before the newline is dropped, and a last line without a newline
// gains one. The expansion is written to outputPath.
func Rewrite(table *Table, sourcePath, outputPath string) error {
	in, err := os.Open(sourcePath)
	if err != nil {
		return compileerr.New(compileerr.IOFailure, "macro.rewrite", sourcePath, err)
	}
	defer in.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return compileerr.New(compileerr.IOFailure, "macro.rewrite", outputPath, err)
	}
	defer out.Close()

	writer := bufio.NewWriter(out)
	defer writer.Flush()

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if m := pipeMacroLine.FindStringSubmatch(line); m != nil {
			name := m[1]
			expansion, found := table.Expand(name)
			if !found {
				fmt.Fprintf(writer, UnknownMacroMarker+"\n", name)
				continue
			}
			fmt.Fprintf(writer, "; expansion of |%s|\n", name)
			fmt.Fprintln(writer, expansion)
			continue
		}
		fmt.Fprintln(writer, line)
	}
	if err := scanner.Err(); err != nil {
		return compileerr.New(compileerr.IOFailure, "macro.rewrite", sourcePath, err)
	}
	return nil
}

// BatchRewrite enumerates every *.r4 file in srcDir and rewrites it into
// outDir with a *.rexasm extension (spec.md §4.D, §6). Files are processed
// through a small bounded worker pool: each file's own lex+parse+emit chain
// is single-threaded state, so parallelizing across files is safe (spec.md
// §5), but the pool is capped so batch mode doesn't spawn unbounded
// goroutines on a directory with thousands of files.
func BatchRewrite(table *Table, srcDir, outDir string, workers int) error {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return compileerr.New(compileerr.IOFailure, "macro.batch", srcDir, err)
	}
	if workers < 1 {
		workers = 1
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return compileerr.New(compileerr.IOFailure, "macro.batch", outDir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".r4") {
			continue
		}
		files = append(files, e.Name())
	}

	jobs := make(chan string)
	var wg sync.WaitGroup
	errs := make(chan error, len(files))

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range jobs {
				src := filepath.Join(srcDir, name)
				dst := filepath.Join(outDir, strings.TrimSuffix(name, ".r4")+".rexasm")
				if err := Rewrite(table, src, dst); err != nil {
					errs <- err
				}
			}
		}()
	}
	for _, name := range files {
		jobs <- name
	}
	close(jobs)
	wg.Wait()
	close(errs)

	for err := range errs {
		return err
	}
	return nil
}
