package execution

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUpstream marks a resource collaborator (reservations, checklist, tool
// search) being unavailable. The engine degrades to an empty resource list
// instead of failing the execution on it.
var ErrUpstream = errors.New("resource collaborator unavailable")

// ErrInstanceClosed marks a submission against an instance whose lifecycle
// already ended. Completed instances stay reachable through the justified
// re-execution path; cancelled ones are closed for good.
var ErrInstanceClosed = errors.New("instance is already closed")

// ValidationError carries field-scoped messages for malformed operator input
// so the caller can render inline errors instead of a single opaque failure.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
