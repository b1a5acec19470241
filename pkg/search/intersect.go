package search

import "sort"

// IDSet is a deduplicated set of entity IDs produced by one filter dimension.
type IDSet map[string]struct{}

// NewIDSet builds a set from the given IDs.
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Contains reports membership.
func (s IDSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// Slice returns the IDs in sorted order so downstream queries are
// deterministic.
func (s IDSet) Slice() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Intersect combines filter dimensions with AND semantics. A nil current set
// means "no constraint applied yet": the first filter becomes the baseline
// and every later filter intersects against it. This applies to every
// dimension, including the date pass, which must narrow the already-computed
// set rather than union its own matches in. An empty result short-circuits
// the search.
func Intersect(current, next IDSet) IDSet {
	if current == nil {
		if next == nil {
			return nil
		}
		out := make(IDSet, len(next))
		for id := range next {
			out[id] = struct{}{}
		}
		return out
	}
	out := make(IDSet)
	for id := range current {
		if _, ok := next[id]; ok {
			out[id] = struct{}{}
		}
	}
	return out
}
