package domain

import (
	"fmt"
	"strconv"
)

// Sentinel values substituted for absent report data.
const (
	NotAvailable = "N/A"
	UnknownArea  = "Unknown Location"
)

// Report is a decoded wttr.in JSON document (format=j1). None of its
// structure is guaranteed; all access goes through stringAt.
type Report map[string]any

// HasCurrentCondition reports whether the document carries a
// current_condition section with at least one entry. Without it there
// is nothing worth broadcasting.
func (r Report) HasCurrentCondition() bool {
	arr, ok := r["current_condition"].([]any)
	return ok && len(arr) > 0
}

// stringAt descends through nested maps and arrays along path and
// returns the string value at the end, short-circuiting to fallback the
// moment any step is absent, out of range, or of the wrong shape. Steps
// are string map keys or int array indexes. An empty string leaf also
// yields the fallback.
func stringAt(node any, fallback string, path ...any) string {
	cur := node
	for _, step := range path {
		switch s := step.(type) {
		case string:
			m, ok := cur.(map[string]any)
			if !ok {
				return fallback
			}
			if cur, ok = m[s]; !ok {
				return fallback
			}
		case int:
			arr, ok := cur.([]any)
			if !ok || s < 0 || s >= len(arr) {
				return fallback
			}
			cur = arr[s]
		default:
			return fallback
		}
	}
	return stringify(cur, fallback)
}

// stringify renders a JSON leaf as text. wttr.in serves everything as
// strings, but a few mirrors emit bare numbers for the same fields.
func stringify(v any, fallback string) string {
	switch leaf := v.(type) {
	case string:
		if leaf == "" {
			return fallback
		}
		return leaf
	case float64:
		return strconv.FormatFloat(leaf, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(leaf)
	case nil:
		return fallback
	default:
		return fmt.Sprintf("%v", leaf)
	}
}
