package driver

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/malphas-lang/mir-uaf/internal/detect"
	"github.com/malphas-lang/mir-uaf/internal/diagnostics"
	"github.com/malphas-lang/mir-uaf/internal/interp"
	"github.com/malphas-lang/mir-uaf/internal/logevents"
	"github.com/malphas-lang/mir-uaf/internal/mir"
)

// maxParallelFiles bounds the errgroup fan-out; a fixed cap keeps a
// directory with thousands of dumps from opening thousands of file
// descriptors at once.
const maxParallelFiles = 8

// FileResult is one file's analysis outcome.
type FileResult struct {
	Path        string
	Findings    []detect.Finding
	Diagnostics []diagnostics.Diagnostic
	Err         error
}

// Run discovers every MIR dump under root, analyzes each file's
// function across all its enumerated paths, and logs progress and
// findings through logger. Files are analyzed concurrently (spec.md §5:
// no shared mutable state crosses function boundaries), bounded by
// maxParallelFiles.
func Run(ctx context.Context, root string, logger *logrus.Logger, extraSkipGlobs ...string) ([]FileResult, error) {
	files, err := Discover(root, extraSkipGlobs...)
	if err != nil {
		return nil, fmt.Errorf("discovering MIR files under %s: %w", root, err)
	}

	results := make([]FileResult, len(files))
	var parsedCount int
	var mu sync.Mutex

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelFiles)

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			logger.WithField("file", path).Info("parsing MIR file")
			results[i] = analyzeFile(path)

			if results[i].Err != nil {
				// A file the driver cannot even read is a Driver-failure per
				// spec.md §7 ("I/O, missing directory: abort the run"), not a
				// parse-tolerance event — returning it here cancels the
				// errgroup's context and makes Wait propagate it below.
				logger.WithField("file", path).WithError(results[i].Err).Error("failed to read MIR file")
				return results[i].Err
			}

			mu.Lock()
			parsedCount++
			count := parsedCount
			mu.Unlock()
			logger.WithField("count", count).Debug("file parsed")

			for _, f := range results[i].Findings {
				logevents.Critical(logger, "%s", f.String())
			}
			logDiagnostics(logger, results[i].Diagnostics)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// logDiagnostics routes one file's collected parse-tolerance and
// analysis-anomaly events (spec.md §7) to the structured sink at their
// recorded severity: debug events as debug, warnings as warnings, and
// analysis anomalies flagged Critical (e.g. store through an
// uninitialized pointer) duplicated to detector.log like a finding.
func logDiagnostics(logger *logrus.Logger, items []diagnostics.Diagnostic) {
	for _, d := range items {
		entry := logger.WithField("pos", d.Pos.String())
		switch d.Kind {
		case diagnostics.KindCritical:
			logevents.Critical(logger, "%s", d.String())
		case diagnostics.KindWarning:
			entry.Warn(d.Message)
		default:
			entry.Debug(d.Message)
		}
	}
}

// analyzeFile runs the full per-file pipeline: read, build the file's
// function (mir.Build keeps only the last function header in the file),
// interpret every enumerated path, collect findings. A file
// that cannot be read is reported as a Driver-failure-class error
// (spec.md §7); a malformed function inside a readable file degrades to
// diagnostics instead, per the Lexical Recognizer/Function Builder's
// parse-tolerance contract.
func analyzeFile(path string) FileResult {
	raw, err := os.ReadFile(path)
	if err != nil {
		return FileResult{Path: path, Err: fmt.Errorf("reading %s: %w", path, err)}
	}

	lines := strings.Split(string(raw), "\n")
	diag := diagnostics.NewCollector()
	findings := detect.NewCollector()

	fn := mir.Build(lines, path, diag)
	if fn != nil {
		engine := interp.NewEngine()
		engine.AnalyzeFunction(fn, diag, findings)
	}

	return FileResult{
		Path:        path,
		Findings:    findings.Findings(),
		Diagnostics: diag.Diagnostics(),
	}
}
