package normalize

import (
	"encoding/json"

	jsonrepair "github.com/kaptinlin/jsonrepair"
)

// Decode parses a raw stored property value into generic JSON shapes.
// Writing clients occasionally persist slightly malformed JSON (trailing
// commas, single quotes); a failed strict parse goes through repair before
// giving up. A nil or unparseable value decodes to nil.
func Decode(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err == nil {
		return v
	}
	repaired, err := jsonrepair.JSONRepair(string(raw))
	if err != nil {
		return nil
	}
	if err := json.Unmarshal([]byte(repaired), &v); err != nil {
		return nil
	}
	return v
}
