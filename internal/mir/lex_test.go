package mir

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		line string
		want LineKind
	}{
		{"blank", "   ", LineBlank},
		{"pure comment", "// a header comment", LineComment},
		{"fn header", "fn main(_1: i32) -> () {", LineFunctionHeader},
		{"pub fn header", "pub fn add(_1: i32, _2: i32) -> i32 {", LineFunctionHeader},
		{"bb header", "bb0: {", LineBasicBlockHeader},
		{"block end", "}", LineBlockEnd},
		{"let decl", "let _3: &mut i32;", LineLocalDeclaration},
		{"statement", "_3 = &mut _1;", LineOther},
		{"trailing comment stripped", "_3 = &mut _1; // note", LineOther},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, _ := Classify(tc.line)
			if got != tc.want {
				t.Errorf("Classify(%q) = %v, want %v", tc.line, got, tc.want)
			}
		})
	}
}

func TestClassifyStripsCommentAndWhitespace(t *testing.T) {
	_, text := Classify("   _3 = &mut _1;   // trailing note")
	if text != "_3 = &mut _1;" {
		t.Errorf("got cleaned text %q", text)
	}
}

func TestClassifyFunctionHeaderRequiresTrailingBrace(t *testing.T) {
	kind, _ := Classify("fn main(_1: i32) -> ()")
	if kind == LineFunctionHeader {
		t.Errorf("header without trailing brace should not classify as a function header")
	}
}
