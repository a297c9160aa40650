package models

import (
	"sort"
	"strings"
)

// FieldErrors maps a form field (or document slot) to a human-readable
// problem. It is produced by local validation only; an operation returning
// FieldErrors has made no network call.
type FieldErrors map[string]string

// Fields returns the affected field names in sorted order, for
// deterministic rendering.
func (e FieldErrors) Fields() []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}

	var b strings.Builder
	b.WriteString("validation failed: ")
	for i, k := range e.Fields() {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(k + ": " + e[k])
	}
	return b.String()
}
