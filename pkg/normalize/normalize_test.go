package normalize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomworks/scout/pkg/types"
)

func TestPeopleShapes(t *testing.T) {
	assert.Empty(t, People(nil))

	got := People("u1")
	require.Len(t, got, 1)
	assert.Equal(t, types.Person{ID: "u1", Name: "u1"}, got[0])

	got = People(map[string]any{"id": "u1", "name": "Ann"})
	require.Len(t, got, 1)
	assert.Equal(t, types.Person{ID: "u1", Name: "Ann"}, got[0])

	// id under user_id, name falls back to email
	got = People(map[string]any{"user_id": "u2", "email": "bo@example.com"})
	require.Len(t, got, 1)
	assert.Equal(t, types.Person{ID: "u2", Name: "bo@example.com"}, got[0])

	// arrays flatten; unresolvable entries drop
	got = People([]any{
		map[string]any{"id": "u1", "name": "Ann"},
		map[string]any{"unrelated": true},
		"u3",
	})
	require.Len(t, got, 2)
	assert.Equal(t, "u1", got[0].ID)
	assert.Equal(t, "u3", got[1].ID)
}

func TestTagListShapes(t *testing.T) {
	got := TagList("urgent-review")
	require.Len(t, got, 1)
	assert.Equal(t, types.Tag{ID: "urgent-review", Name: "urgent-review"}, got[0])

	got = TagList([]any{
		map[string]any{"id": "t1", "name": "backend", "color": "blue"},
		"frontend",
	})
	require.Len(t, got, 2)
	assert.Equal(t, "blue", got[0].Color)
	assert.Equal(t, "frontend", got[1].Name)
}

func TestTagListIdempotent(t *testing.T) {
	first := TagList([]any{
		map[string]any{"id": "t1", "name": "backend", "color": "blue"},
		"ops",
	})

	// Feed the canonical output back through the normalizer.
	roundTrip := make([]any, 0, len(first))
	for _, tag := range first {
		raw, err := json.Marshal(tag)
		require.NoError(t, err)
		var m map[string]any
		require.NoError(t, json.Unmarshal(raw, &m))
		roundTrip = append(roundTrip, m)
	}
	second := TagList(roundTrip)
	assert.Equal(t, first, second)
}

func TestSelectScalar(t *testing.T) {
	assert.Nil(t, SelectScalar(nil))

	s := SelectScalar("In Progress")
	require.NotNil(t, s)
	assert.Equal(t, "In Progress", *s)

	// UUID-looking id prefers the display label
	s = SelectScalar(map[string]any{
		"id":    "3e9c5b1a-8f4e-4db0-9b5c-7a2f9d8e1c44",
		"label": "High",
	})
	require.NotNil(t, s)
	assert.Equal(t, "High", *s)

	// non-UUID id wins the id|value|name|label fallback order
	s = SelectScalar(map[string]any{"id": "opt-high", "label": "High"})
	require.NotNil(t, s)
	assert.Equal(t, "opt-high", *s)

	// array takes the first normalizable element
	s = SelectScalar([]any{nil, "first", "second"})
	require.NotNil(t, s)
	assert.Equal(t, "first", *s)
}

func TestStatus(t *testing.T) {
	cases := map[string]string{
		"in progress": "in_progress",
		"In-Progress": "in_progress",
		"to do":       "todo",
		"To-Do":       "todo",
		"on hold":     "blocked",
		"stuck":       "blocked",
		"Completed":   "done",
		"finished":    "done",
		"triage":      "triage", // unrecognized passes through
	}
	for in, want := range cases {
		assert.Equal(t, want, Status(in), "Status(%q)", in)
	}
	assert.Equal(t, "", Status(""))
}

func TestPriority(t *testing.T) {
	assert.Equal(t, "high", Priority("High"))
	assert.Equal(t, "urgent", Priority("UR GENT"))
	assert.Equal(t, "medium", Priority("me-dium"))
	assert.Equal(t, "P0", Priority("P0"))
}

func TestDateString(t *testing.T) {
	s := DateString("2026-03-01")
	require.NotNil(t, s)
	assert.Equal(t, "2026-03-01", *s)

	// end wins over start
	s = DateString(map[string]any{"start": "2026-03-01", "end": "2026-03-05"})
	require.NotNil(t, s)
	assert.Equal(t, "2026-03-05", *s)

	assert.Nil(t, DateString(42.0))
	assert.Nil(t, DateString(nil))
}

func TestDecodeRepairsMalformedJSON(t *testing.T) {
	v := Decode(json.RawMessage(`{"id": "u1", "name": "Ann"}`))
	m, ok := v.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Ann", m["name"])

	// single quotes and trailing comma get repaired
	v = Decode(json.RawMessage(`{'id': 'u1', 'name': 'Ann',}`))
	m, ok = v.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Ann", m["name"])

	assert.Nil(t, Decode(nil))
}
