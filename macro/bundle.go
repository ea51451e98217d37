package macro

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"

	"rexion/compileerr"
)

// resourceFiles are the fixed set of documentation/icon resources a bundle
// packages alongside the metadata file itself (spec.md §4.D, §6). Missing
// resources are skipped with a warning rather than failing the export.
var resourceFiles = []string{"README.md", "icon.png", "macro_bundle.json"}

// Bundle packages the metadata file at metaPath plus resourceFiles into a
// single ZIP archive at dest (spec.md §4.D "export", §6 "Macro export
// archive"). archive/zip is stdlib; no third-party archiver appears
// anywhere in the retrieved corpus, so this stdlib use is named in
// DESIGN.md rather than grounded on a pack example.
func Bundle(metaPath, dest string) error {
	out, err := os.Create(dest)
	if err != nil {
		return compileerr.New(compileerr.IOFailure, "macro.bundle", dest, err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	defer zw.Close()

	if err := addZipFile(zw, metaPath, "macros.r4meta"); err != nil {
		return compileerr.New(compileerr.IOFailure, "macro.bundle", metaPath, err)
	}

	baseDir := filepath.Dir(metaPath)
	for _, name := range resourceFiles {
		path := filepath.Join(baseDir, name)
		if _, err := os.Stat(path); err != nil {
			logWarn("macro bundle: skipping missing resource %s", path)
			continue
		}
		if err := addZipFile(zw, path, name); err != nil {
			logWarn("macro bundle: skipping %s: %v", path, err)
		}
	}
	return nil
}

func addZipFile(zw *zip.Writer, srcPath, archiveName string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer src.Close()

	w, err := zw.Create(archiveName)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, src)
	return err
}
