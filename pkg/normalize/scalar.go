package normalize

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// SelectScalar normalizes a select/status-like property value to a single
// display string. Scalars pass through; arrays take their first
// normalizable element; objects prefer the display label over the id when
// the id looks like a UUID, since select values are frequently stored with
// both a stable id and a human label.
//
// The UUID check is a heuristic, not a data-model invariant: nothing
// guarantees that stable ids are UUIDs, it is just how the writing clients
// behave in practice.
func SelectScalar(value any) *string {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		if v == "" {
			return nil
		}
		return &v
	case float64, bool:
		s := fmt.Sprint(v)
		return &s
	case []any:
		for _, elem := range v {
			if s := SelectScalar(elem); s != nil {
				return s
			}
		}
		return nil
	case map[string]any:
		id := firstString(v, "id")
		label := firstString(v, "label", "name")
		if id != "" && label != "" && uuid.Validate(id) == nil {
			return &label
		}
		if s := firstString(v, "id", "value", "name", "label"); s != "" {
			return &s
		}
		return nil
	default:
		return nil
	}
}

// statusAliases maps the free-form status spellings seen in stored values
// onto the canonical token set.
var statusAliases = map[string]string{
	"todo":        "todo",
	"to do":       "todo",
	"to-do":       "todo",
	"in progress": "in_progress",
	"in-progress": "in_progress",
	"in_progress": "in_progress",
	"doing":       "in_progress",
	"blocked":     "blocked",
	"on hold":     "blocked",
	"on-hold":     "blocked",
	"stuck":       "blocked",
	"done":        "done",
	"complete":    "done",
	"completed":   "done",
	"finished":    "done",
}

// Status maps a free-form status string onto {todo, in_progress, blocked,
// done}. Unrecognized strings pass through unchanged; callers must not
// treat novel workflow states as failures.
func Status(raw string) string {
	if raw == "" {
		return ""
	}
	key := strings.ToLower(strings.TrimSpace(raw))
	if canonical, ok := statusAliases[key]; ok {
		return canonical
	}
	return raw
}

// Priority lowercases and joins words with underscores, accepting only
// {low, medium, high, urgent}; anything else passes through unchanged.
func Priority(raw string) string {
	if raw == "" {
		return ""
	}
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	switch key {
	case "low", "medium", "high", "urgent":
		return key
	}
	return raw
}

// DateString normalizes a date property value to its ISO string. Strings
// pass through; wrapper objects yield the first present of end|start|date|
// value. Anything else is not a date.
func DateString(value any) *string {
	switch v := value.(type) {
	case string:
		if v == "" {
			return nil
		}
		return &v
	case map[string]any:
		if s := firstString(v, "end", "start", "date", "value"); s != "" {
			return &s
		}
		return nil
	default:
		return nil
	}
}
