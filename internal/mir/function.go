// Package mir recovers, from a textual MIR dump, the data model described
// in spec.md §3: a Function owning ordered BasicBlocks of raw statement
// text, parameter/local/global Variable tables, and the set of acyclic
// basic-block Paths through it.
//
// Struct naming follows the teacher's own (deleted) internal/mir package,
// which named its CFG types Function{Name,Params,Locals,Blocks} and
// BasicBlock{Label,Statements} for an unrelated purpose (lowering a typed
// AST); the names are reused here for the MIR this analyzer actually
// consumes: a pre-existing, already-compiled dump.
package mir

import (
	"github.com/malphas-lang/mir-uaf/internal/variable"
)

// BasicBlock owns an ordered list of raw statement strings: trimmed,
// trailing line comments removed. Terminator information is the final
// statement(s) containing "->", decoded on demand by the Path Enumerator.
type BasicBlock struct {
	Label      string
	Statements []string
	// StatementLines[i] is the 1-based source line Statements[i] came
	// from, kept parallel so diagnostics can cite a real
	// location without re-deriving it from the trimmed text.
	StatementLines []int
}

// Function is one compiled function recovered from one MIR file.
type Function struct {
	Name     string
	FilePath string

	Blocks []*BasicBlock

	// ParamOrder preserves the declaration order of Params for callers
	// that want to print or re-derive the original signature.
	ParamOrder []string
	Params     map[string]*variable.Variable
	Locals     map[string]*variable.Variable
	Globals    map[string]*variable.Variable

	Paths []Path
}

func newFunction(name, filePath string) *Function {
	return &Function{
		Name:     name,
		FilePath: filePath,
		Params:   make(map[string]*variable.Variable),
		Locals:   make(map[string]*variable.Variable),
		Globals:  make(map[string]*variable.Variable),
	}
}

// FindLocal looks up a parameter or local by name; parameters and locals
// share one namespace of "_<digits>" tokens in the source dump.
func (f *Function) FindLocal(name string) (*variable.Variable, bool) {
	if v, ok := f.Params[name]; ok {
		return v, true
	}
	v, ok := f.Locals[name]
	return v, ok
}

// FindOrCreateGlobal looks up a global place by name, creating it lazily
// on first sight (spec.md §3 lifecycle).
func (f *Function) FindOrCreateGlobal(name, typeName string) *variable.Variable {
	if v, ok := f.Globals[name]; ok {
		return v
	}
	v := variable.New(name, typeName)
	f.Globals[name] = v
	return v
}

// blockByLabel finds a block by its label within the given slice — used
// by the Path Enumerator to turn a successor label into its block
// (spec.md §4.3).
func blockByLabel(blocks []*BasicBlock, label string) *BasicBlock {
	for _, b := range blocks {
		if b.Label == label {
			return b
		}
	}
	return nil
}

// ResetVariables restores every local, parameter, and global Variable
// (and their children, recursively) to Alive with no edges, ahead of
// interpreting a fresh path (spec.md §4.4 step 1).
func (f *Function) ResetVariables() {
	for _, v := range f.Params {
		v.Reset()
	}
	for _, v := range f.Locals {
		v.Reset()
	}
	for _, v := range f.Globals {
		v.Reset()
	}
}
