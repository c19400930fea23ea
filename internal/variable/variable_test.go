package variable

import "testing"

func TestClassifyKind(t *testing.T) {
	cases := []struct {
		typeName string
		want     Kind
	}{
		{"i32", KindScalar},
		{"usize", KindScalar},
		{"&str", KindScalar},
		{"&i32", KindReference},
		{"&mut Foo", KindReference},
		{"*mut i32", KindPointer},
		{"*const i32", KindPointer},
		{"Foo", KindObject},
		{"std::vec::Vec<i32>", KindObject},
	}
	for _, tc := range cases {
		if got := ClassifyKind(tc.typeName); got != tc.want {
			t.Errorf("ClassifyKind(%q) = %v, want %v", tc.typeName, got, tc.want)
		}
	}
}

func TestIsDanglingPointer(t *testing.T) {
	obj := New("_1", "Foo")
	ptr := New("_2", "*const Foo")
	SetReference(ptr, obj)

	if ptr.IsDanglingPointer() {
		t.Fatalf("fresh pointer to a live object must not be dangling")
	}

	obj.Terminate()
	if !ptr.IsDanglingPointer() {
		t.Fatalf("pointer to a terminated object must be dangling")
	}
}

func TestIsDanglingPointerExcludesReference(t *testing.T) {
	obj := New("_1", "Foo")
	ref := New("_2", "&Foo")
	SetReference(ref, obj)
	obj.Terminate()

	if ref.IsDanglingPointer() {
		t.Fatalf("spec.md §4.4/§4.5 check kind Pointer only, not Reference")
	}
}

func TestTerminateIsNoOpAfterForgot(t *testing.T) {
	obj := New("_1", "Foo")
	obj.LifetimeState = Forgot
	obj.Terminate()
	if obj.LifetimeState != Forgot {
		t.Errorf("LifetimeState = %v, want sticky Forgot", obj.LifetimeState)
	}
}

func TestForgetRecursiveCoversSubtree(t *testing.T) {
	parent := New("_1", "Foo")
	child, _, _ := parent.GetOrCreateChild("bar", "i32")
	parent.ForgetRecursive()

	if parent.LifetimeState != Forgot || child.LifetimeState != Forgot {
		t.Errorf("expected the whole subtree to be Forgot, got parent=%v child=%v", parent.LifetimeState, child.LifetimeState)
	}
}

func TestResetClearsEdgesAndRevivesSubtree(t *testing.T) {
	obj := New("_1", "Foo")
	child, _, _ := obj.GetOrCreateChild("bar", "i32")
	ptr := New("_2", "&Foo")
	SetReference(ptr, obj)
	obj.Terminate()
	child.Terminate()

	ptr.Reset()
	obj.Reset()

	if ptr.ReferenceTo != nil {
		t.Errorf("expected Reset to clear ReferenceTo")
	}
	if obj.LifetimeState != Alive {
		t.Errorf("expected Reset to revive to Alive, got %v", obj.LifetimeState)
	}
	if child.LifetimeState != Alive {
		t.Errorf("expected Reset to revive the child too, got %v", child.LifetimeState)
	}
}

func TestRebindReferencedByRetargetsAllReferrers(t *testing.T) {
	src := New("_1", "Foo")
	dst := New("_2", "Foo")
	ptrA := New("_3", "&Foo")
	ptrB := New("_4", "&Foo")
	SetReference(ptrA, src)
	SetReference(ptrB, src)

	src.RebindReferencedBy(dst)

	if ptrA.ReferenceTo != dst || ptrB.ReferenceTo != dst {
		t.Errorf("expected both referrers to be rebound to dst")
	}
}

func TestGetOrCreateChildReportsTypeChange(t *testing.T) {
	parent := New("_1", "Foo")
	first, created, changed := parent.GetOrCreateChild("x", "i32")
	if !created || changed {
		t.Fatalf("first call should create without a type change, got created=%v changed=%v", created, changed)
	}

	second, created, changed := parent.GetOrCreateChild("x", "&i32")
	if created || !changed {
		t.Fatalf("second call with a different type should report changed, got created=%v changed=%v", created, changed)
	}
	if second != first {
		t.Errorf("expected the same child identity across both calls")
	}
	if second.Kind != KindReference {
		t.Errorf("expected re-classified Kind after type change, got %v", second.Kind)
	}
}
