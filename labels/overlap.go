// Package labels implements the annotation admissibility rules, the span
// overlap predicate and the cross-user label distribution aggregation.
package labels

import "labelscope/models"

// Overlaps reports whether two spans occupy overlapping text ranges. Spans
// are half-open intervals, so [0, 5) and [5, 10) merely touch and do not
// overlap. The predicate is symmetric.
func Overlaps(a, b models.Span) bool {
	return a.StartOffset < b.EndOffset && b.StartOffset < a.EndOffset
}
