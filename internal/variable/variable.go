// Package variable implements the central data model of the analyzer: a
// Variable arena representing places (root bindings and their
// projections), their type kind, lifetime state, and points-to edges.
//
// The enum-with-String() idiom here follows the teacher's
// internal/haruspex/liveir.ValueKind; the exact state machine (reset,
// forget-is-sticky, dangling-pointer predicate) follows
// original_source/section-7-1/variable.py.
package variable

import "strings"

// Kind classifies the shape of a place's type.
type Kind int

const (
	KindUnset Kind = iota
	KindScalar
	KindObject
	KindReference
	KindPointer
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "Scalar"
	case KindObject:
		return "Object"
	case KindReference:
		return "Reference"
	case KindPointer:
		return "Pointer"
	default:
		return "Unset"
	}
}

// LifetimeState is the lifecycle stage of a place's storage.
type LifetimeState int

const (
	Uninitialized LifetimeState = iota
	Alive
	Terminated
	Forgot
)

func (s LifetimeState) String() string {
	switch s {
	case Alive:
		return "Alive"
	case Terminated:
		return "Terminated"
	case Forgot:
		return "Forgot"
	default:
		return "Uninitialized"
	}
}

// scalars is the fixed set of type names that classify to KindScalar.
var scalars = map[string]bool{
	"i8": true, "i16": true, "i32": true, "i64": true,
	"u8": true, "u16": true, "u32": true, "u64": true,
	"isize": true, "usize": true, "bool": true, "&str": true,
}

// ClassifyKind derives a Kind from a raw type name per spec §3.
func ClassifyKind(typeName string) Kind {
	if scalars[typeName] {
		return KindScalar
	}
	if strings.HasPrefix(typeName, "&") {
		return KindReference
	}
	if strings.HasPrefix(typeName, "*mut") || strings.HasPrefix(typeName, "*const") {
		return KindPointer
	}
	return KindObject
}

// Variable is a node in the per-function arena: a place, a root binding
// or a projection thereof.
type Variable struct {
	Name          string
	TypeName      string
	Kind          Kind
	LifetimeState LifetimeState
	ReferenceTo   *Variable
	ReferencedBy  []*Variable
	Children      map[string]*Variable
}

// New creates a Variable in its initial (Alive, edge-free) state.
func New(name, typeName string) *Variable {
	return &Variable{
		Name:          name,
		TypeName:      typeName,
		Kind:          ClassifyKind(typeName),
		LifetimeState: Alive,
		Children:      make(map[string]*Variable),
	}
}

// ResetType overwrites the variable's type_name and re-derives Kind. Used
// when a child's inferred type disagrees across paths (see SPEC_FULL.md
// §15, decision 3); callers are responsible for logging the anomaly.
func (v *Variable) ResetType(typeName string) {
	v.TypeName = typeName
	v.Kind = ClassifyKind(typeName)
}

// Reset restores lifetime_state/reference_to/referenced_by to their
// initial values, recursively over children, ahead of interpreting a new
// path (spec.md §4.4 step 1).
func (v *Variable) Reset() {
	v.LifetimeState = Alive
	v.ReferenceTo = nil
	v.ReferencedBy = nil
	for _, child := range v.Children {
		child.Reset()
	}
}

// Child looks up an existing projection by key.
func (v *Variable) Child(key string) (*Variable, bool) {
	c, ok := v.Children[key]
	return c, ok
}

// GetOrCreateChild returns the existing child at key, or creates one with
// typeName if absent. If the child already exists with a different
// type_name, its type is overwritten and changed reports whether that
// happened (SPEC_FULL.md §15, decision 3).
func (v *Variable) GetOrCreateChild(key, typeName string) (child *Variable, created, changed bool) {
	if existing, ok := v.Children[key]; ok {
		if typeName != "" && existing.TypeName != typeName {
			existing.ResetType(typeName)
			return existing, false, true
		}
		return existing, false, false
	}
	child = New(key, typeName)
	v.Children[key] = child
	return child, true, false
}

// SetReference records that from now points to to: from.ReferenceTo = to,
// and (when to is non-nil) from is appended to to.ReferencedBy. Stale
// back-references left on a previous referent are never removed; forward
// traversal only follows live ReferenceTo edges, while RebindReferencedBy
// does walk them (spec.md §4.4).
func SetReference(from, to *Variable) {
	from.ReferenceTo = to
	if to != nil {
		to.ReferencedBy = append(to.ReferencedBy, from)
	}
}

// IsDanglingPointer reports whether v is a pointer whose current
// referent's lifetime has ended. Only KindPointer is checked here, not
// KindReference, matching spec.md §4.4/§4.5's literal wording and
// original_source/section-7-1/variable.py's is_dangling_pointer.
func (v *Variable) IsDanglingPointer() bool {
	return v.Kind == KindPointer &&
		v.ReferenceTo != nil &&
		v.ReferenceTo.LifetimeState == Terminated
}

// Terminate sets the lifetime-end state, unless the variable was already
// Forgot — Forgot is a sticky sink state (spec.md §3 invariants).
func (v *Variable) Terminate() {
	if v.LifetimeState == Forgot {
		return
	}
	v.LifetimeState = Terminated
}

// ForgetRecursive marks v and every descendant Forgot, children first,
// matching original_source's do_forget_recursive (SPEC_FULL.md §15,
// decision 2: the whole subtree forgets, not only the named root).
func (v *Variable) ForgetRecursive() {
	for _, child := range v.Children {
		child.ForgetRecursive()
	}
	v.LifetimeState = Forgot
}

// RebindReferencedBy retargets every variable recorded in v.ReferencedBy
// so that it points to newTarget — including stale entries that have
// since been pointed elsewhere — used for structural moves of
// an Object (spec.md §4.4 assignment table, Object/Object moved case).
func (v *Variable) RebindReferencedBy(newTarget *Variable) {
	for _, ref := range v.ReferencedBy {
		SetReference(ref, newTarget)
	}
}
