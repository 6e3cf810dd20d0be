// Package distribution decides which staff member should own each grievance.
//
// Three strategies are available:
//
//   - Balanced: round-robin over staff who are under capacity, in roster order.
//   - PriorityBased: round-robin of grievances sorted by priority (urgent first)
//     over staff sorted by load ratio (least loaded first).
//   - CategoryBased: the least loaded specialist for the grievance category,
//     falling back to the least loaded staff member overall.
//
// The package is pure: it never mutates its inputs and never persists anything.
// Applying a Result is the caller's job. Score and Recommend rank staff for a
// single grievance and are used for dashboard previews only.
package distribution
