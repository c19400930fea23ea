package interp

import (
	"strconv"
	"strings"

	"github.com/malphas-lang/mir-uaf/internal/detect"
	"github.com/malphas-lang/mir-uaf/internal/diagnostics"
	"github.com/malphas-lang/mir-uaf/internal/mir"
	"github.com/malphas-lang/mir-uaf/internal/variable"
)

// lifetimeEndMarker is the statement form that ends a local's storage
// (spec.md §4.4's "the marker that names a lifetime-end for a local"),
// concretized from original_source's literal StorageDead(...) form.
const lifetimeEndMarker = "StorageDead"

// skipPrefixes are rhs forms that are ignored outright: arithmetic,
// comparison, boolean, length, indexing, discriminant, boxing, and
// overflow-checked arithmetic, reproduced verbatim from
// original_source's statement_parser.py skipping_functions.
var skipPrefixes = []string{
	"discriminant", "Not", "Eq", "Box", "Gt", "CheckedSub", "Lt", "Len",
	"Div", "Ne", "Ge", "Le", "BitOr", "CheckedAdd", "BitAnd", "Rem",
	"CheckedMul", "CheckedShr", "CheckedShl", "[]", "Mul", "Sub", "Add",
}

func isSkippable(s string) bool {
	for _, p := range skipPrefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func isFunctionCall(rhs string) bool {
	return strings.HasPrefix(rhs, "const ") && strings.Contains(rhs, " -> ")
}

func isConst(rhs string) bool {
	fields := strings.Fields(rhs)
	if len(fields) == 0 {
		return false
	}
	return strings.Contains(fields[0], "const") && !strings.Contains(rhs, " -> ")
}

func isAggregate(rhs string) bool {
	return !strings.Contains(rhs, "const") && strings.HasPrefix(rhs, "[") && strings.HasSuffix(rhs, "]")
}

// applyStatement parses and applies one MIR statement per spec.md §4.4.
func applyStatement(fn *mir.Function, stmt string, pos mir.Position, diag *diagnostics.Collector, findings *detect.Collector) {
	if idx := strings.Index(stmt, " = "); idx >= 0 {
		applyAssignment(fn, stmt, idx, pos, diag, findings)
		return
	}
	if strings.HasPrefix(stmt, lifetimeEndMarker) {
		applyLifetimeEnd(fn, stmt, pos, diag)
	}
	// Anything else is skipped outright.
}

func applyLifetimeEnd(fn *mir.Function, stmt string, pos mir.Position, diag *diagnostics.Collector) {
	open := strings.Index(stmt, "(")
	closeParen := strings.Index(stmt, ")")
	if open < 0 || closeParen < open {
		diag.Debug(pos, "malformed lifetime-end statement: %q", stmt)
		return
	}
	name := strings.TrimSpace(stmt[open+1 : closeParen])
	v, ok := fn.FindLocal(name)
	if !ok {
		diag.Debug(pos, "lifetime-end on unknown local %q", name)
		return
	}
	v.Terminate()
}

func applyAssignment(fn *mir.Function, stmt string, eqIdx int, pos mir.Position, diag *diagnostics.Collector, findings *detect.Collector) {
	lhs := strings.TrimSpace(stmt[:eqIdx])
	rhs := strings.TrimSuffix(strings.TrimSpace(stmt[eqIdx+3:]), ";")

	dest := mir.ResolvePlace(fn, lhs, pos, diag)
	if dest.Moved {
		diag.Warning(pos, "destination place %q unexpectedly resolved as moved", lhs)
	}
	dv := dest.Variable

	// Assignment revives the destination before any source evaluation
	// (spec.md §4.4; scenario (d) reassignment revival). This is
	// unconditional — unlike an explicit lifetime-end, reassignment is
	// not suppressed by a prior Forgot.
	dv.LifetimeState = variable.Alive

	if isSkippable(rhs) {
		return
	}

	switch {
	case isFunctionCall(rhs):
		applyCall(fn, dv, dest.Mode, rhs, pos, diag)
	case isConst(rhs):
		applySingleAssignment(dv, dest.Mode, nil, mir.ModeRegular, false, stmt, pos, diag)
	case isAggregate(rhs):
		applyAggregate(fn, dv, dest.Mode, rhs, pos, diag, findings)
	default:
		src := mir.ResolvePlace(fn, rhs, pos, diag)
		findings.CheckInline(src.Variable, fn.FilePath)
		applySingleAssignment(dv, dest.Mode, src.Variable, src.Mode, src.Moved, stmt, pos, diag)
	}
}

// applyCall handles the MIR call-return convention "const callee(move
// a, move b) -> [return: bb1, unwind: bb2]". It special-cases
// mem::forget and single-operand pointer/reference propagation; all
// other calls leave points-to edges unchanged (spec.md §4.4). Call
// operands are resolved but, matching original_source's
// get_function_operands/handle_mem_forget (which never call
// is_dangling_pointer on a call's operands — only find_source_variables,
// the non-call assignment path, does), they are not run through inline
// detection here.
func applyCall(fn *mir.Function, dv *variable.Variable, dm mir.Mode, rhs string, pos mir.Position, diag *diagnostics.Collector) {
	beforeArrow := strings.TrimSpace(strings.SplitN(rhs, " -> ", 2)[0])
	operandTexts := callOperands(beforeArrow)

	operands := make([]*variable.Variable, 0, len(operandTexts))
	for _, text := range operandTexts {
		resolved := mir.ResolvePlace(fn, text, pos, diag)
		operands = append(operands, resolved.Variable)
	}

	if strings.Contains(beforeArrow, "mem::forget") {
		if len(operands) == 1 {
			operands[0].ForgetRecursive()
		} else {
			diag.Warning(pos, "mem::forget call with %d operands, expected 1: %s", len(operands), rhs)
		}
		return
	}

	if len(operands) == 1 && (dv.Kind == variable.KindPointer || dv.Kind == variable.KindReference) {
		op := operands[0]
		if op.Kind == variable.KindPointer || op.Kind == variable.KindReference {
			variable.SetReference(dv, op.ReferenceTo)
		}
	}
}

// callOperands extracts each "move <place>" operand's place text from a
// call's argument list, per original_source's get_function_operands.
func callOperands(beforeArrow string) []string {
	parts := strings.Split(beforeArrow, "move ")
	if len(parts) < 2 {
		return nil
	}
	var out []string
	for _, part := range parts[1:] {
		end := strings.IndexAny(part, ",)")
		var token string
		if end < 0 {
			token = part
		} else {
			token = part[:end]
		}
		out = append(out, strings.TrimSpace(strings.TrimSuffix(token, ")")))
	}
	return out
}

// applyAggregate handles an rhs of the form "[e1, e2, ...]": each element
// is resolved and assigned onto dv's child "i" using the destination's
// own assignment mode (spec.md §4.4 "aggregate").
func applyAggregate(fn *mir.Function, dv *variable.Variable, dm mir.Mode, rhs string, pos mir.Position, diag *diagnostics.Collector, findings *detect.Collector) {
	body := strings.TrimSuffix(strings.TrimPrefix(rhs, "["), "]")
	if strings.TrimSpace(body) == "" {
		return
	}
	for idx, tok := range strings.Split(body, ", ") {
		src := mir.ResolvePlace(fn, strings.TrimSpace(strings.Trim(tok, "[]")), pos, diag)
		findings.CheckInline(src.Variable, fn.FilePath)

		key := strconv.Itoa(idx)
		child, _, changed := dv.GetOrCreateChild(key, src.Variable.TypeName)
		if changed {
			diag.Warning(pos, "aggregate child %q of %q changed inferred type", key, dv.Name)
		}
		applySingleAssignment(child, dm, src.Variable, src.Mode, src.Moved, rhs, pos, diag)
	}
}

// applySingleAssignment is the core assignment update table (spec.md
// §4.4), grounded on original_source's do_single_variable_assignment.
func applySingleAssignment(dv *variable.Variable, dm mir.Mode, src *variable.Variable, sm mir.Mode, moved bool, stmt string, pos mir.Position, diag *diagnostics.Collector) {
	if dv.Kind == variable.KindScalar {
		return
	}

	if src == nil {
		// "p = 0" on a droppable, or a const written into a
		// Reference/Pointer slot: no edge change beyond the revival
		// already applied by the caller.
		return
	}

	switch dv.Kind {
	case variable.KindObject:
		switch src.Kind {
		case variable.KindObject:
			if moved {
				moveStructural(src, dv)
			}
			// else: p = q on two Objects without a move — no edge change.
		default:
			// p = *q: loading through a pointer/reference — no edge change.
		}

	case variable.KindReference, variable.KindPointer:
		switch src.Kind {
		case variable.KindScalar:
			if dm == mir.ModeDereference {
				// *p = 0: writing a scalar through the pointer, no edge change.
				return
			}
			if sm == mir.ModeReference {
				variable.SetReference(dv, src)
			}
			// else: address cast, edges unchanged.

		case variable.KindObject:
			if dm == mir.ModeDereference {
				if dv.ReferenceTo != nil {
					dv.ReferenceTo.Terminate()
					variable.SetReference(dv, src)
				} else {
					diag.Critical(pos, "store through uninitialized pointer/reference: %s", stmt)
				}
			} else {
				variable.SetReference(dv, src)
			}

		case variable.KindReference, variable.KindPointer:
			variable.SetReference(dv, src.ReferenceTo)
		}
	}
}

// moveStructural implements the Object/Object moved case: every edge
// pointing at src or any of its descendants is rebound to the
// corresponding descendant of dst, created if necessary (spec.md §4.4
// assignment table; see DESIGN.md for why this differs from the
// original's flatter single-target rebind).
func moveStructural(src, dst *variable.Variable) {
	for key, schild := range src.Children {
		dchild, _, _ := dst.GetOrCreateChild(key, schild.TypeName)
		moveStructural(schild, dchild)
	}
	src.RebindReferencedBy(dst)
}
