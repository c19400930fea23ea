// Package detect implements the use-after-free detection rules of
// spec.md §4.4 (inline) and §4.5 (path-terminal): a pointer Variable is
// reported once its points-to edge targets a referent whose lifetime has
// terminated (references are not reported). Shaped after the teacher's internal/haruspex/diagnostics
// Reporter, adapted to emit Findings instead of generic Diagnostics, and
// after original_source's function.py detect_dangling_pointer_recursive
// for the exact traversal.
package detect

import (
	"fmt"

	"github.com/malphas-lang/mir-uaf/internal/mir"
	"github.com/malphas-lang/mir-uaf/internal/variable"
)

// Site names where a Finding was produced.
const (
	SiteSourceRead   = "source-read"
	SiteGlobalEscape = "global-escape"
	SiteParamEscape  = "param-escape"
)

// Finding is one reported use-after-free.
type Finding struct {
	Variable string
	Referent string
	File     string
	Site     string
}

func (f Finding) String() string {
	return fmt.Sprintf("Use-after-free detected: %s: %s points to: %s [in file: %s]", f.Site, f.Variable, f.Referent, f.File)
}

// Collector accumulates Findings across every path of every function.
type Collector struct {
	findings []Finding
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// CheckInline is the §4.4 inline detection rule: called whenever a
// source operand is resolved (a single-place assignment rhs or an
// aggregate element; call operands are not checked). If the resolved
// variable is a dangling pointer (kind Pointer only, see
// IsDanglingPointer), a finding is recorded immediately.
func (c *Collector) CheckInline(v *variable.Variable, file string) {
	if v == nil || !v.IsDanglingPointer() {
		return
	}
	c.findings = append(c.findings, Finding{
		Variable: v.Name,
		Referent: v.ReferenceTo.Name,
		File:     file,
		Site:     SiteSourceRead,
	})
}

// CheckPathTerminal is the §4.5 detector: after a path finishes, walk
// from every global and from every parameter's child subtrees (the
// parameter itself is passed by value and cannot be dangling at the
// call site), reporting any dangling pointer reached.
func (c *Collector) CheckPathTerminal(fn *mir.Function) {
	for _, g := range fn.Globals {
		c.walk(g, fn.FilePath, SiteGlobalEscape)
	}
	for _, p := range fn.Params {
		for _, child := range p.Children {
			c.walk(child, fn.FilePath, SiteParamEscape)
		}
	}
}

func (c *Collector) walk(v *variable.Variable, file, site string) {
	for _, child := range v.Children {
		c.walk(child, file, site)
	}
	if v.IsDanglingPointer() {
		c.findings = append(c.findings, Finding{
			Variable: v.Name,
			Referent: v.ReferenceTo.Name,
			File:     file,
			Site:     site,
		})
	}
}

// Findings returns every finding recorded so far.
func (c *Collector) Findings() []Finding {
	return c.findings
}
