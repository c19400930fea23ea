package mir

import "strings"

// Path is one simple (acyclic) sequence of basic blocks from entry,
// named after the teacher's internal/haruspex/flow.FlowTrace, whose
// PathID/Steps shape is replaced here by a flat block slice — the
// Abstract Interpreter only needs the ordered blocks, not a step-by-step
// execution trace.
type Path []*BasicBlock

// Successors recovers a block's terminator successors from the last
// statement(s) containing "->" (spec.md §4.3). Both the `goto` form
// ("... -> bb1;") and the `switch` form ("... -> [0: bb1, otherwise:
// bb2];") are recognized.
func (b *BasicBlock) Successors() []string {
	for i := len(b.Statements) - 1; i >= 0; i-- {
		stmt := b.Statements[i]
		arrow := strings.Index(stmt, "->")
		if arrow < 0 {
			continue
		}
		rhs := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(stmt[arrow+2:]), ";"))
		if strings.HasPrefix(rhs, "[") && strings.HasSuffix(rhs, "]") {
			return switchTargets(rhs[1 : len(rhs)-1])
		}
		if strings.HasPrefix(rhs, "bb") {
			return []string{rhs}
		}
		return nil
	}
	return nil
}

// switchTargets parses the comma-separated "tag: label" entries of a
// switch terminator's bracketed target list.
func switchTargets(body string) []string {
	var labels []string
	for _, entry := range strings.Split(body, ",") {
		entry = strings.TrimSpace(entry)
		colon := strings.LastIndex(entry, ":")
		if colon < 0 {
			continue
		}
		label := strings.TrimSpace(entry[colon+1:])
		if label != "" {
			labels = append(labels, label)
		}
	}
	return labels
}

// EnumeratePaths computes the set of terminal acyclic paths from the
// function's entry block (block 0), per spec.md §4.3: a worklist of
// in-progress paths, extended one block at a time, refusing to revisit a
// block already on the current path. Implemented as a depth-first stack
// walk rather than the original's restart-scanning worklist — the
// teacher's own design notes (spec.md §9) call the two equivalent and
// prefer the stack form for clarity.
func EnumeratePaths(fn *Function) []Path {
	if len(fn.Blocks) == 0 {
		return nil
	}

	var terminal []Path
	entry := fn.Blocks[0]

	var walk func(path Path, onPath map[string]bool)
	walk = func(path Path, onPath map[string]bool) {
		last := path[len(path)-1]
		successors := last.Successors()

		extended := false
		for _, label := range successors {
			if onPath[label] {
				continue
			}
			next := blockByLabel(fn.Blocks, label)
			if next == nil {
				continue
			}

			nextPath := make(Path, len(path), len(path)+1)
			copy(nextPath, path)
			nextPath = append(nextPath, next)

			onPath[label] = true
			walk(nextPath, onPath)
			delete(onPath, label)
			extended = true
		}

		if !extended {
			terminal = append(terminal, path)
		}
	}

	walk(Path{entry}, map[string]bool{entry.Label: true})
	fn.Paths = terminal
	return terminal
}
