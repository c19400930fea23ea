package mir

import "strings"

// LineKind is the classification the Lexical Recognizer assigns to one
// preprocessed line (spec.md §4.1). local-declaration and statement are
// additionally context-sensitive (only valid outside/inside a basic
// block respectively); that context is resolved by the Function Builder,
// not here — Classify reports the purely syntactic shape.
type LineKind int

const (
	LineBlank LineKind = iota
	LineComment
	LineFunctionHeader
	LineBasicBlockHeader
	LineBlockEnd
	LineLocalDeclaration
	LineOther
)

// stripComment truncates a line at the first "//".
func stripComment(line string) string {
	if idx := strings.Index(line, "//"); idx >= 0 {
		return line[:idx]
	}
	return line
}

// Classify recognizes the shape of one raw source line. It returns the
// comment-stripped, whitespace-trimmed text alongside the classification,
// since the Function Builder needs the cleaned text regardless of kind.
func Classify(rawLine string) (LineKind, string) {
	stripped := strings.TrimSpace(stripComment(rawLine))
	if stripped == "" {
		if strings.TrimSpace(rawLine) == "" {
			return LineBlank, stripped
		}
		return LineComment, stripped
	}

	tokens := strings.Fields(stripped)
	if len(tokens) == 0 {
		return LineBlank, stripped
	}

	first, last := tokens[0], tokens[len(tokens)-1]

	if isFunctionHeader(tokens, first, last) {
		return LineFunctionHeader, stripped
	}
	if strings.HasPrefix(first, "bb") && last == "{" {
		return LineBasicBlockHeader, stripped
	}
	if first == "}" {
		return LineBlockEnd, stripped
	}
	if first == "let" {
		return LineLocalDeclaration, stripped
	}
	return LineOther, stripped
}

func isFunctionHeader(tokens []string, first, last string) bool {
	if last != "{" {
		return false
	}
	if first == "fn" {
		return true
	}
	if first == "pub" && len(tokens) > 1 && tokens[1] == "fn" {
		return true
	}
	return false
}
