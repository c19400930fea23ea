package mir

import (
	"regexp"
	"strings"

	"github.com/malphas-lang/mir-uaf/internal/diagnostics"
	"github.com/malphas-lang/mir-uaf/internal/variable"
)

// Mode is how a place is used: loading its value directly, taking its
// address, or dereferencing through it (spec.md §4.4 place resolution).
type Mode int

const (
	ModeRegular Mode = iota
	ModeReference
	ModeDereference
)

// Resolved is the outcome of resolving one textual place.
type Resolved struct {
	Variable *variable.Variable
	Mode     Mode
	Moved    bool
}

var (
	chainPattern  = regexp.MustCompile(`^(.+)\.([A-Za-z0-9_]+):\s*(.*)$`)
	globalPattern = regexp.MustCompile(`^(.+): (.+)$`)
	localPattern  = regexp.MustCompile(`_\d+`)
)

// ResolvePlace parses a textual place into (mode, chain) and walks the
// chain against fn's variable arena, creating globals and children
// lazily on first sight (spec.md §4.4, grounded on
// original_source/.../utils.py find_variable_name_and_type and
// statement_parser.py find_single_variable).
func ResolvePlace(fn *Function, raw string, pos Position, diag *diagnostics.Collector) Resolved {
	s := strings.TrimSpace(raw)

	moved := false
	if strings.HasPrefix(s, "move ") {
		moved = true
		s = strings.TrimSpace(strings.TrimPrefix(s, "move "))
	}

	mode := ModeRegular
	switch {
	case strings.HasPrefix(s, "&mut "):
		mode = ModeReference
		s = strings.TrimPrefix(s, "&mut ")
	case strings.HasPrefix(s, "&"):
		mode = ModeReference
		s = strings.TrimPrefix(s, "&")
	}

	type projection struct{ key, typ string }
	var chain []projection
	for {
		m := chainPattern.FindStringSubmatch(s)
		if m == nil {
			break
		}
		chain = append(chain, projection{m[2], strings.TrimSpace(m[3])})
		s = m[1]
	}
	// chain was collected innermost-first; walk outer-to-inner.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}

	root := stripParens(s)
	if strings.HasPrefix(root, "*") {
		if mode == ModeRegular {
			mode = ModeDereference
		} else {
			diag.Warning(pos, "handling &(*a) may have some issue: %s", raw)
		}
		root = stripParens(strings.TrimPrefix(root, "*"))
	}

	var rootVar *variable.Variable
	if name := localPattern.FindString(root); name != "" {
		v, ok := fn.FindLocal(name)
		if !ok {
			diag.Debug(pos, "unknown local %q referenced in %q", name, raw)
			rootVar = variable.New(name, "")
		} else {
			rootVar = v
		}
	} else {
		gm := globalPattern.FindStringSubmatch(root)
		if gm == nil {
			diag.Debug(pos, "could not resolve place %q", raw)
			return Resolved{Variable: variable.New(root, ""), Mode: mode, Moved: moved}
		}
		name, typeName := strings.TrimSpace(gm[1]), strings.TrimSpace(gm[2])
		rootVar = fn.FindOrCreateGlobal(name, typeName)
	}

	cur := rootVar
	for _, p := range chain {
		child, _, changed := cur.GetOrCreateChild(p.key, p.typ)
		if changed {
			diag.Warning(pos, "child %q of %q changed inferred type to %q", p.key, cur.Name, p.typ)
		}
		cur = child
	}

	return Resolved{Variable: cur, Mode: mode, Moved: moved}
}

// stripParens removes any leading "(" and trailing ")" characters, in
// that order, matching Python's str.strip('(').strip(')') used by the
// original source.
func stripParens(s string) string {
	s = strings.TrimLeft(s, "(")
	s = strings.TrimRight(s, ")")
	return s
}
