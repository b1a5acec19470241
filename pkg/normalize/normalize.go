package normalize

import (
	"fmt"

	"github.com/loomworks/scout/pkg/types"
)

// People normalizes a person property value into a flat assignee list.
// Accepted shapes: nil, bare string (used as both id and name), an object
// with id under id|user_id|value and name under name|email, or an array of
// any of those. Entries with neither id nor name resolvable are dropped.
func People(value any) []types.Person {
	switch v := value.(type) {
	case nil:
		return []types.Person{}
	case []any:
		out := make([]types.Person, 0, len(v))
		for _, elem := range v {
			out = append(out, People(elem)...)
		}
		return out
	case string:
		if v == "" {
			return []types.Person{}
		}
		return []types.Person{{ID: v, Name: v}}
	case map[string]any:
		id := firstString(v, "id", "user_id", "value")
		name := firstString(v, "name", "email")
		if id == "" && name == "" {
			return []types.Person{}
		}
		return []types.Person{{ID: id, Name: name}}
	default:
		return []types.Person{}
	}
}

// TagList normalizes a tag-set property value. Same shape rules as People,
// with an optional color field; bare strings use the string as both id and
// name. Re-normalizing already-canonical output is an identity.
func TagList(value any) []types.Tag {
	switch v := value.(type) {
	case nil:
		return []types.Tag{}
	case []any:
		out := make([]types.Tag, 0, len(v))
		for _, elem := range v {
			out = append(out, TagList(elem)...)
		}
		return out
	case string:
		if v == "" {
			return []types.Tag{}
		}
		return []types.Tag{{ID: v, Name: v}}
	case map[string]any:
		id := firstString(v, "id", "value")
		name := firstString(v, "name", "label")
		if id == "" && name == "" {
			return []types.Tag{}
		}
		if name == "" {
			name = id
		}
		if id == "" {
			id = name
		}
		return []types.Tag{{ID: id, Name: name, Color: firstString(v, "color")}}
	default:
		return []types.Tag{}
	}
}

// firstString returns the first of the named keys holding a non-empty
// stringifiable scalar.
func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			if t != "" {
				return t
			}
		case float64, bool:
			return fmt.Sprint(t)
		}
	}
	return ""
}
