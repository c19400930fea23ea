// Package driver ties the five analysis components together into a
// file-discovery + per-file pipeline, fanned out across files the way
// spec.md §5 allows ("functions may be analyzed in parallel ... because
// no shared mutable state crosses function boundaries"). Grounded on
// original_source's main.py (discovery, skip list) and the teacher's
// cmd/malphas-haruspex/main.go pipeline shape.
package driver

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// mirGlob is the file pattern the analyzer scans for, matching
// original_source's `find . -name '*PreCodegen.after.mir'`.
const mirGlob = "**/*PreCodegen.after.mir"

// skipSuffixes reproduces original_source's skipping_file_list verbatim
// (including its literal duplicate scanf entry): files whose path ends
// in one of these are never analyzed.
var skipSuffixes = []string{
	"rustc.header-stdio-printf-inner_printf.003-027.PreCodegen.after.mir",
	"rustc.header-stdio-scanf-inner_scanf.003-027.PreCodegen.after.mir",
	"rustc.header-stdio-scanf-inner_scanf.003-027.PreCodegen.after.mir",
}

// ShouldSkip reports whether filename matches one of the known-bad seed
// files excluded from analysis (original_source's file_should_be_skipped).
func ShouldSkip(filename string) bool {
	for _, suffix := range skipSuffixes {
		if strings.HasSuffix(filename, suffix) {
			return true
		}
	}
	return false
}

// Discover walks root recursively and returns every MIR dump path that
// neither matches the built-in skip list nor any of extraSkipGlobs (the
// CLI's repeatable --skip flag), in filepath.WalkDir's lexical walk
// order, which is deterministic (original_source relies on `find`'s
// filesystem order, which this repo does not try to reproduce).
func Discover(root string, extraSkipGlobs ...string) ([]string, error) {
	var matches []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel := filepath.ToSlash(relativeOrSelf(root, path))
		ok, matchErr := doublestar.Match(mirGlob, rel)
		if matchErr != nil {
			return matchErr
		}
		if !ok {
			return nil
		}
		if ShouldSkip(path) {
			return nil
		}
		for _, glob := range extraSkipGlobs {
			skip, globErr := doublestar.Match(glob, rel)
			if globErr != nil {
				return globErr
			}
			if skip {
				return nil
			}
		}
		matches = append(matches, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return matches, nil
}

func relativeOrSelf(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}
