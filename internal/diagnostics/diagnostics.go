// Package diagnostics collects the parse-tolerance and analysis-anomaly
// events described in spec.md §7 — events that must not interrupt
// analysis of the remainder of a function or file. Shaped after the
// teacher's internal/haruspex/diagnostics.Reporter, retyped off the
// teacher's (deleted) lexer.Span onto this repo's mir.Position.
package diagnostics

import (
	"fmt"
	"sort"

	"github.com/malphas-lang/mir-uaf/internal/mir"
)

// Kind is the severity of a collected diagnostic.
type Kind int

const (
	KindDebug Kind = iota
	KindWarning
	KindCritical
)

func (k Kind) String() string {
	switch k {
	case KindWarning:
		return "WARNING"
	case KindCritical:
		return "CRITICAL"
	default:
		return "DEBUG"
	}
}

// Diagnostic is a single parse-tolerance or analysis-anomaly event.
type Diagnostic struct {
	Pos     mir.Position
	Message string
	Kind    Kind
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Pos, d.Kind, d.Message)
}

// Collector accumulates diagnostics for one file's analysis.
type Collector struct {
	items []Diagnostic
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) report(kind Kind, pos mir.Position, format string, args ...interface{}) {
	c.items = append(c.items, Diagnostic{
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
		Kind:    kind,
	})
}

// Debug records a parse-tolerance event: a skipped or unrecognized line.
func (c *Collector) Debug(pos mir.Position, format string, args ...interface{}) {
	c.report(KindDebug, pos, format, args...)
}

// Warning records an analysis anomaly that does not abort analysis, e.g.
// a child's inferred type changing across paths.
func (c *Collector) Warning(pos mir.Position, format string, args ...interface{}) {
	c.report(KindWarning, pos, format, args...)
}

// Critical records a serious analysis anomaly, e.g. a dereference-write
// through an uninitialized pointer (SPEC_FULL.md §15, decision 1).
func (c *Collector) Critical(pos mir.Position, format string, args ...interface{}) {
	c.report(KindCritical, pos, format, args...)
}

// Diagnostics returns all collected events sorted by line.
func (c *Collector) Diagnostics() []Diagnostic {
	sorted := make([]Diagnostic, len(c.items))
	copy(sorted, c.items)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Pos.Line < sorted[j].Pos.Line
	})
	return sorted
}
