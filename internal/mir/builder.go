package mir

import (
	"regexp"
	"strings"

	"github.com/malphas-lang/mir-uaf/internal/diagnostics"
	"github.com/malphas-lang/mir-uaf/internal/variable"
)

// argBoundary finds the start of each "_<digits>: " parameter token in a
// function's argument list, so the list can be split on commas that
// belong to a type rather than separate arguments (spec.md §4.2 step 1).
var argBoundary = regexp.MustCompile(`_\d+: `)

var argPattern = regexp.MustCompile(`^(_\d+):\s*(.+)$`)

// Build consumes the lines of one MIR file and produces its Function, or
// nil if no function-header line was ever recognized (spec.md §4.1: a
// malformed header simply yields no function — no exception propagation).
func Build(lines []string, filePath string, diag *diagnostics.Collector) *Function {
	var fn *Function
	var current *BasicBlock
	inFunction := false
	inBlock := false

	for i, raw := range lines {
		lineNo := i + 1
		kind, text := Classify(raw)

		switch kind {
		case LineBlank, LineComment:
			continue

		case LineFunctionHeader:
			fn = newFunctionFromHeader(text, filePath)
			inFunction = true
			inBlock = false
			continue
		}

		if !inFunction {
			continue
		}

		switch kind {
		case LineBasicBlockHeader:
			label := strings.TrimSuffix(strings.Fields(text)[0], ":")
			current = &BasicBlock{Label: label}
			fn.Blocks = append(fn.Blocks, current)
			inBlock = true

		case LineLocalDeclaration:
			if inBlock {
				// `let` only introduces a declaration outside a block;
				// inside one, it is just an ordinary (ignored) statement.
				continue
			}
			name, typeName, ok := parseLocalDeclaration(text)
			if !ok {
				diag.Debug(Position{filePath, lineNo}, "malformed local declaration: %q", text)
				continue
			}
			fn.Locals[name] = variable.New(name, typeName)

		case LineBlockEnd:
			inBlock = false

		case LineOther:
			if !inBlock || current == nil {
				diag.Debug(Position{filePath, lineNo}, "ignoring line outside any basic block: %q", text)
				continue
			}
			current.Statements = append(current.Statements, text)
			current.StatementLines = append(current.StatementLines, lineNo)
		}
	}

	return fn
}

// newFunctionFromHeader extracts the function name and its parameter list
// from a header line already known to satisfy LineFunctionHeader.
func newFunctionFromHeader(header, filePath string) *Function {
	name, argsStr := splitHeader(header)
	fn := newFunction(name, filePath)

	for _, tok := range splitArgs(argsStr) {
		m := argPattern.FindStringSubmatch(strings.TrimSpace(tok))
		if m == nil {
			continue
		}
		argName, argType := m[1], strings.TrimSpace(strings.TrimSuffix(m[2], ","))
		v := variable.New(argName, argType)
		fn.Params[argName] = v
		fn.ParamOrder = append(fn.ParamOrder, argName)
	}

	return fn
}

// splitHeader pulls "name" and the raw "(...)" argument text out of a
// header of the form "fn name(args) -> ret {" or "pub fn name(args) ...".
func splitHeader(header string) (name, argsStr string) {
	rest := header
	if strings.HasPrefix(rest, "pub ") {
		rest = strings.TrimPrefix(rest, "pub ")
	}
	rest = strings.TrimPrefix(rest, "fn ")

	open := strings.Index(rest, "(")
	if open < 0 {
		return strings.TrimSpace(rest), ""
	}
	name = strings.TrimSpace(rest[:open])

	// Match the argument list's own closing paren, so a "-> ()" return
	// type (or a parenthesized argument type) is not taken as its end.
	depth := 0
	for i := open; i < len(rest); i++ {
		switch rest[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return name, rest[open+1 : i]
			}
		}
	}
	return name, ""
}

// splitArgs splits a parameter list on commas that precede a fresh
// "_<digits>: " token, since a parameter's type text may itself contain
// commas (spec.md §4.2 step 1).
func splitArgs(argsStr string) []string {
	argsStr = strings.TrimSpace(argsStr)
	if argsStr == "" {
		return nil
	}

	bounds := argBoundary.FindAllStringIndex(argsStr, -1)
	if len(bounds) == 0 {
		return nil
	}

	var parts []string
	for i, b := range bounds {
		start := b[0]
		end := len(argsStr)
		if i+1 < len(bounds) {
			end = bounds[i+1][0]
		}
		part := strings.TrimRight(strings.TrimSpace(argsStr[start:end]), ", ")
		parts = append(parts, part)
	}
	return parts
}

// parseLocalDeclaration parses "let <name>: <type>;" (type text is
// terminated by the first ";").
func parseLocalDeclaration(text string) (name, typeName string, ok bool) {
	rest := strings.TrimPrefix(text, "let ")
	if rest == text {
		return "", "", false
	}
	colon := strings.Index(rest, ":")
	if colon < 0 {
		return "", "", false
	}
	name = strings.TrimSpace(rest[:colon])
	tail := rest[colon+1:]
	semi := strings.Index(tail, ";")
	if semi < 0 {
		typeName = strings.TrimSpace(tail)
	} else {
		typeName = strings.TrimSpace(tail[:semi])
	}
	if name == "" || typeName == "" {
		return "", "", false
	}
	return name, typeName, true
}
