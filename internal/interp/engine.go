// Package interp is the Abstract Interpreter of spec.md §4.4: for each
// enumerated path it resets the function's variable graph and walks
// statements in order, applying assignment and lifetime-end semantics.
//
// The reset-then-walk shape is grounded on the teacher's
// internal/haruspex/analysis.Engine (a worklist walking blocks and
// dispatching each node to Transfer); unlike the teacher, a Path here is
// already a fixed linear block sequence (no join/merge of branch states
// is needed — each path is analyzed independently start to finish), so
// the engine is a straight-line walk rather than a worklist.
package interp

import (
	"github.com/malphas-lang/mir-uaf/internal/detect"
	"github.com/malphas-lang/mir-uaf/internal/diagnostics"
	"github.com/malphas-lang/mir-uaf/internal/mir"
)

// Engine runs the Abstract Interpreter over every path of a Function.
type Engine struct{}

// NewEngine creates an Engine. It carries no state of its own — all
// mutable state lives in the Function's variable arena, reset between
// paths.
func NewEngine() *Engine {
	return &Engine{}
}

// AnalyzeFunction enumerates fn's paths and interprets each in turn,
// recording findings into findings and non-finding events into diag.
func (e *Engine) AnalyzeFunction(fn *mir.Function, diag *diagnostics.Collector, findings *detect.Collector) {
	paths := mir.EnumeratePaths(fn)

	for _, path := range paths {
		fn.ResetVariables()

		for _, block := range path {
			for i, stmt := range block.Statements {
				pos := mir.Position{Filename: fn.FilePath, Line: block.StatementLines[i]}
				applyStatement(fn, stmt, pos, diag, findings)
			}
		}

		findings.CheckPathTerminal(fn)
	}
}
