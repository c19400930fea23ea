package mir

import (
	"testing"

	"github.com/malphas-lang/mir-uaf/internal/diagnostics"
)

func TestEnumeratePathsLinear(t *testing.T) {
	lines := []string{
		`fn example(_1: i32) -> () {`,
		`    bb0: {`,
		`        goto -> bb1;`,
		`    }`,
		`    bb1: {`,
		`        return;`,
		`    }`,
		`}`,
	}
	diag := diagnostics.NewCollector()
	fn := Build(lines, "linear.mir", diag)
	if fn == nil {
		t.Fatalf("Build returned nil")
	}

	paths := EnumeratePaths(fn)
	if len(paths) != 1 {
		t.Fatalf("got %d paths, want 1", len(paths))
	}
	if len(paths[0]) != 2 || paths[0][0].Label != "bb0" || paths[0][1].Label != "bb1" {
		t.Errorf("unexpected path: %v", labelsOf(paths[0]))
	}
}

func TestEnumeratePathsBranching(t *testing.T) {
	lines := []string{
		`fn example(_1: i32) -> () {`,
		`    bb0: {`,
		`        switchInt(_1) -> [0: bb1, otherwise: bb2];`,
		`    }`,
		`    bb1: {`,
		`        return;`,
		`    }`,
		`    bb2: {`,
		`        return;`,
		`    }`,
		`}`,
	}
	diag := diagnostics.NewCollector()
	fn := Build(lines, "branch.mir", diag)
	paths := EnumeratePaths(fn)
	if len(paths) != 2 {
		t.Fatalf("got %d paths, want 2", len(paths))
	}
}

func TestEnumeratePathsAvoidsLoop(t *testing.T) {
	lines := []string{
		`fn example(_1: i32) -> () {`,
		`    bb0: {`,
		`        goto -> bb1;`,
		`    }`,
		`    bb1: {`,
		`        switchInt(_1) -> [0: bb0, otherwise: bb2];`,
		`    }`,
		`    bb2: {`,
		`        return;`,
		`    }`,
		`}`,
	}
	diag := diagnostics.NewCollector()
	fn := Build(lines, "loop.mir", diag)
	paths := EnumeratePaths(fn)
	if len(paths) != 1 {
		t.Fatalf("got %d paths, want 1 (loop-back must not revisit bb0)", len(paths))
	}
	if labelsOf(paths[0])[len(paths[0])-1] != "bb2" {
		t.Errorf("expected terminal path to end at bb2, got %v", labelsOf(paths[0]))
	}
}

func labelsOf(p Path) []string {
	out := make([]string, len(p))
	for i, b := range p {
		out[i] = b.Label
	}
	return out
}
