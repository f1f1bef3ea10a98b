package ast

import "fmt"

// LineSpan is the inclusive, 1-based range of source lines covered by a node
// and everything nested beneath it.
type LineSpan struct {
	Start int // First line (1-based)
	End   int // Last line (1-based, inclusive)
}

// Contains reports whether the span covers the whole range [start, end].
func (s LineSpan) Contains(start, end int) bool {
	return s.Start <= start && s.End >= end
}

// Encloses reports whether other lies entirely within s.
func (s LineSpan) Encloses(other LineSpan) bool {
	return s.Contains(other.Start, other.End)
}

// IsValid returns true if the span has a positive start and is not inverted.
func (s LineSpan) IsValid() bool {
	return s.Start > 0 && s.Start <= s.End
}

// Format renders the span as "start-end", or a single number for one-line spans.
func (s LineSpan) Format() string {
	if s.Start == s.End {
		return fmt.Sprintf("%d", s.Start)
	}
	return fmt.Sprintf("%d-%d", s.Start, s.End)
}

// NormalizeRange orders a selection so that start <= end.
// Editor selections can be made backwards; lookups always work on the ordered range.
func NormalizeRange(start, end int) (int, int) {
	if start > end {
		return end, start
	}
	return start, end
}
