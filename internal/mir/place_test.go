package mir

import (
	"testing"

	"github.com/malphas-lang/mir-uaf/internal/diagnostics"
	"github.com/malphas-lang/mir-uaf/internal/variable"
)

func newTestFunction() *Function {
	fn := newFunction("example", "test.mir")
	fn.Locals["_1"] = variable.New("_1", "i32")
	fn.Locals["_2"] = variable.New("_2", "&i32")
	return fn
}

func TestResolvePlaceLocal(t *testing.T) {
	fn := newTestFunction()
	diag := diagnostics.NewCollector()

	resolved := ResolvePlace(fn, "_1", Position{"test.mir", 1}, diag)
	if resolved.Variable != fn.Locals["_1"] {
		t.Errorf("expected to resolve to the existing local _1")
	}
	if resolved.Mode != ModeRegular {
		t.Errorf("Mode = %v, want ModeRegular", resolved.Mode)
	}
}

func TestResolvePlaceReferenceAndMove(t *testing.T) {
	fn := newTestFunction()
	diag := diagnostics.NewCollector()

	resolved := ResolvePlace(fn, "move &_1", Position{"test.mir", 1}, diag)
	if resolved.Mode != ModeReference {
		t.Errorf("Mode = %v, want ModeReference", resolved.Mode)
	}
	if !resolved.Moved {
		t.Errorf("expected Moved = true")
	}
	if resolved.Variable != fn.Locals["_1"] {
		t.Errorf("expected resolution to _1 despite move/reference prefixes")
	}
}

func TestResolvePlaceDereference(t *testing.T) {
	fn := newTestFunction()
	diag := diagnostics.NewCollector()

	resolved := ResolvePlace(fn, "(*_2)", Position{"test.mir", 1}, diag)
	if resolved.Mode != ModeDereference {
		t.Errorf("Mode = %v, want ModeDereference", resolved.Mode)
	}
	if resolved.Variable != fn.Locals["_2"] {
		t.Errorf("expected resolution to _2")
	}
}

func TestResolvePlaceGlobal(t *testing.T) {
	fn := newTestFunction()
	diag := diagnostics.NewCollector()

	resolved := ResolvePlace(fn, "alloc3: i32", Position{"test.mir", 1}, diag)
	if resolved.Variable == nil || resolved.Variable.Name != "alloc3" {
		t.Fatalf("expected a global named alloc3, got %+v", resolved.Variable)
	}
	if _, ok := fn.Globals["alloc3"]; !ok {
		t.Errorf("expected global to be recorded on the function")
	}

	// Resolving the same global again must return the same Variable.
	again := ResolvePlace(fn, "alloc3: i32", Position{"test.mir", 2}, diag)
	if again.Variable != resolved.Variable {
		t.Errorf("expected stable identity across repeated resolution of the same global")
	}
}

func TestResolvePlaceChainProjection(t *testing.T) {
	fn := newTestFunction()
	fn.Locals["_4"] = variable.New("_4", "Foo")
	diag := diagnostics.NewCollector()

	resolved := ResolvePlace(fn, "(_4).field: i32", Position{"test.mir", 1}, diag)
	if resolved.Variable == nil || resolved.Variable.Name != "field" {
		t.Fatalf("expected resolution to child 'field', got %+v", resolved.Variable)
	}
	child, ok := fn.Locals["_4"].Child("field")
	if !ok || child != resolved.Variable {
		t.Errorf("expected the child to be attached to _4 in the arena")
	}
}
