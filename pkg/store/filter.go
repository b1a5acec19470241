package store

import (
	"sort"
	"strconv"
	"strings"
)

// matchesFilter evaluates one column predicate against a record. Comparison
// is string-based: RFC3339 timestamps and ISO dates order correctly under
// lexicographic comparison, and numeric columns compare numerically when
// both sides parse as numbers.
func matchesFilter(rec Record, f ColumnFilter) bool {
	got := rec.Str(f.Column)
	switch f.Op {
	case OpEq:
		want, _ := f.Value.(string)
		return got == want
	case OpIn:
		vals, _ := f.Value.([]string)
		for _, v := range vals {
			if got == v {
				return true
			}
		}
		return false
	case OpGte:
		want, _ := f.Value.(string)
		if got == "" {
			return false
		}
		return compareScalar(got, want) >= 0
	case OpLte:
		want, _ := f.Value.(string)
		if got == "" {
			return false
		}
		return compareScalar(got, want) <= 0
	case OpContains:
		want, _ := f.Value.(string)
		return strings.Contains(strings.ToLower(got), strings.ToLower(want))
	default:
		return false
	}
}

// compareScalar compares numerically when both sides parse, else as strings.
func compareScalar(a, b string) int {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a, b)
}

// matchesText evaluates the substring OR across the designated text columns.
func matchesText(rec Record, t *TextFilter) bool {
	if t == nil || t.Term == "" {
		return true
	}
	term := strings.ToLower(t.Term)
	for _, col := range t.Columns {
		if strings.Contains(strings.ToLower(rec.Str(col)), term) {
			return true
		}
	}
	return false
}

// applyQuery runs the full filter/order/page pipeline over an in-memory row
// set. The memory and badger drivers share it.
func applyQuery(rows []Record, q Query) []Record {
	out := make([]Record, 0, len(rows))
	for _, rec := range rows {
		ok := true
		for _, f := range q.Filters {
			if !matchesFilter(rec, f) {
				ok = false
				break
			}
		}
		if ok && matchesText(rec, q.Text) {
			out = append(out, rec)
		}
	}

	if q.OrderBy != "" {
		sort.SliceStable(out, func(i, j int) bool {
			cmp := compareScalar(out[i].Str(q.OrderBy), out[j].Str(q.OrderBy))
			if q.Desc {
				return cmp > 0
			}
			return cmp < 0
		})
	}

	if q.Offset > 0 {
		if q.Offset >= len(out) {
			return []Record{}
		}
		out = out[q.Offset:]
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}
