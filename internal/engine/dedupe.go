package engine

import "strings"

// Dedupe collapses instances that represent the same logical plan, keeping the
// first occurrence per case-insensitive trimmed title and preserving order
// otherwise. The upstream source can report the same plan more than once; this
// is a tolerated data-quality workaround, so the reduction is non-destructive:
// a new slice is returned and callers can always use the original list.
func Dedupe(instances []ReconciledInstance) []ReconciledInstance {
	seen := make(map[string]bool, len(instances))
	out := make([]ReconciledInstance, 0, len(instances))
	for _, inst := range instances {
		key := strings.ToLower(strings.TrimSpace(inst.Title))
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, inst)
	}
	return out
}
