package store

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// EncodeRecord converts a typed entity struct into a Record by way of its
// JSON representation. time.Time fields become RFC3339 strings.
func EncodeRecord(v any) (Record, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return rec, nil
}

// DecodeRecord maps a Record back onto a typed entity struct.
func DecodeRecord(rec Record, out any) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	return nil
}

// Str returns the record's column as a string. Numbers and bools are
// stringified; missing columns return "".
func (r Record) Str(column string) string {
	v, ok := r[column]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		raw, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(raw)
	}
}

// Bool returns the record's column as a bool.
func (r Record) Bool(column string) bool {
	switch t := r[column].(type) {
	case bool:
		return t
	case string:
		return t == "true"
	default:
		return false
	}
}

// Int64 returns the record's column as an int64.
func (r Record) Int64(column string) int64 {
	switch t := r[column].(type) {
	case float64:
		return int64(t)
	case int64:
		return t
	case string:
		n, _ := strconv.ParseInt(t, 10, 64)
		return n
	default:
		return 0
	}
}

// Time parses the record's column as an RFC3339 timestamp, returning the
// zero time when absent or malformed.
func (r Record) Time(column string) time.Time {
	s, ok := r[column].(string)
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
