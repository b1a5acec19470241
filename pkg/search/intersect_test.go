package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomworks/scout/pkg/types"
)

func TestIntersectNilMeansUnconstrained(t *testing.T) {
	assert.Nil(t, Intersect(nil, nil))

	first := Intersect(nil, NewIDSet("a", "b", "c"))
	require.NotNil(t, first)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, first.Slice())
}

func TestIntersectNarrows(t *testing.T) {
	got := Intersect(NewIDSet("a", "b", "c"), NewIDSet("b", "c", "d"))
	assert.ElementsMatch(t, []string{"b", "c"}, got.Slice())

	empty := Intersect(got, NewIDSet("z"))
	assert.Empty(t, empty)
	assert.NotNil(t, empty)
}

func TestIntersectMonotonicity(t *testing.T) {
	filters := []IDSet{
		NewIDSet("a", "b", "c", "d"),
		NewIDSet("b", "c", "d", "e"),
		NewIDSet("c", "d"),
	}
	var current IDSet
	for _, f := range filters {
		current = Intersect(current, f)
		// The running intersection is a subset of every applied filter.
		for id := range current {
			assert.True(t, f.Contains(id))
		}
	}
	assert.ElementsMatch(t, []string{"c", "d"}, current.Slice())

	// Intersecting with one more filter never grows the result.
	narrowed := Intersect(current, NewIDSet("d", "x", "y"))
	assert.LessOrEqual(t, len(narrowed), len(current))
}

func TestIntersectDoesNotMutateInputs(t *testing.T) {
	next := NewIDSet("a", "b")
	got := Intersect(nil, next)
	got["c"] = struct{}{}
	assert.Len(t, next, 2)
}

func TestMatchByPropertyIDAndName(t *testing.T) {
	s, st := newTestSearcher(t)
	ctx := context.Background()

	putDefinition(t, st, "def-assignee", "Assignee", types.PropertyPerson)
	putProperty(t, st, "p1", types.EntityTask, "T1", "def-assignee", `{"id":"u1","name":"Ann"}`)
	putProperty(t, st, "p2", types.EntityTask, "T2", "def-assignee", `[{"id":"u2","name":"Bo"},{"id":"u3","name":"Cy"}]`)
	putProperty(t, st, "p3", types.EntityTask, "T3", "def-assignee", `"Dee"`)

	byID := s.MatchByProperty(ctx, testWorkspace, types.EntityTask, "def-assignee", MatchByID, []string{"u3"})
	assert.ElementsMatch(t, []string{"T2"}, byID.Slice())

	byName := s.MatchByProperty(ctx, testWorkspace, types.EntityTask, "def-assignee", MatchByName, []string{"ann"})
	assert.ElementsMatch(t, []string{"T1"}, byName.Slice())

	// Bare strings match by name through the string itself.
	bare := s.MatchByProperty(ctx, testWorkspace, types.EntityTask, "def-assignee", MatchByName, []string{"dee"})
	assert.ElementsMatch(t, []string{"T3"}, bare.Slice())

	// OR across values, AND left to the intersection planner.
	either := s.MatchByProperty(ctx, testWorkspace, types.EntityTask, "def-assignee", MatchByName, []string{"ann", "bo"})
	assert.ElementsMatch(t, []string{"T1", "T2"}, either.Slice())
}

func TestMatchByDateProperty(t *testing.T) {
	s, st := newTestSearcher(t)
	ctx := context.Background()

	putDefinition(t, st, "def-due", "Due Date", types.PropertyDate)
	putProperty(t, st, "p1", types.EntityTask, "T1", "def-due", `"2026-01-10"`)
	putProperty(t, st, "p2", types.EntityTask, "T2", "def-due", `{"start":"2026-02-01","end":"2026-02-14"}`)
	putProperty(t, st, "p3", types.EntityTask, "T3", "def-due", `{"name":"not a date"}`)

	got := s.MatchByDateProperty(ctx, testWorkspace, types.EntityTask, "def-due", types.DateFilter{Gte: "2026-02-01"})
	assert.ElementsMatch(t, []string{"T2"}, got.Slice())

	eq := s.MatchByDateProperty(ctx, testWorkspace, types.EntityTask, "def-due", types.DateFilter{Eq: "2026-01-10"})
	assert.ElementsMatch(t, []string{"T1"}, eq.Slice())

	// Wrapper objects normalize through end|start|date|value; non-date
	// shapes match only the is-null filter.
	isNull := s.MatchByDateProperty(ctx, testWorkspace, types.EntityTask, "def-due", types.DateFilter{IsNull: true})
	assert.ElementsMatch(t, []string{"T3"}, isNull.Slice())
}

func TestMatchByDatePropertyBoundsCompareByDay(t *testing.T) {
	s, st := newTestSearcher(t)
	ctx := context.Background()

	putDefinition(t, st, "def-due", "Due Date", types.PropertyDate)
	putProperty(t, st, "p1", types.EntityTask, "T1", "def-due", `"2026-01-05"`)

	// Both bounds truncate to the date component, so a bare stored date
	// matches timestamp bounds falling on the same day.
	gte := s.MatchByDateProperty(ctx, testWorkspace, types.EntityTask, "def-due", types.DateFilter{Gte: "2026-01-05T00:00:00Z"})
	assert.ElementsMatch(t, []string{"T1"}, gte.Slice())

	lte := s.MatchByDateProperty(ctx, testWorkspace, types.EntityTask, "def-due", types.DateFilter{Lte: "2026-01-05T23:59:59Z"})
	assert.ElementsMatch(t, []string{"T1"}, lte.Slice())

	after := s.MatchByDateProperty(ctx, testWorkspace, types.EntityTask, "def-due", types.DateFilter{Gte: "2026-01-06T00:00:00Z"})
	assert.Empty(t, after)
}
