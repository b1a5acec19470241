package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomworks/scout/pkg/types"
)

func seedTasks(t *testing.T, s *MemoryStore) {
	t.Helper()
	ctx := context.Background()
	rows := []Record{
		{"id": "T1", "workspace_id": "ws-1", "title": "Ship release", "status": "todo", "priority": "high", "due_date": "2026-09-01", "updated_at": "2026-08-01T10:00:00Z"},
		{"id": "T2", "workspace_id": "ws-1", "title": "Write changelog", "status": "done", "priority": "low", "due_date": "2026-09-15", "updated_at": "2026-08-03T10:00:00Z"},
		{"id": "T3", "workspace_id": "ws-1", "title": "Release retro", "status": "todo", "priority": "medium", "due_date": "2026-10-01", "updated_at": "2026-08-02T10:00:00Z"},
		{"id": "T4", "workspace_id": "ws-2", "title": "Other workspace release", "status": "todo", "updated_at": "2026-08-04T10:00:00Z"},
	}
	for _, rec := range rows {
		require.NoError(t, s.PutEntity(ctx, types.EntityTask, rec))
	}
}

func TestQueryEntitiesFiltersByColumn(t *testing.T) {
	s := NewMemoryStore()
	seedTasks(t, s)

	got, err := s.QueryEntities(context.Background(), types.EntityTask, Query{
		Filters: []ColumnFilter{
			{Column: "workspace_id", Op: OpEq, Value: "ws-1"},
			{Column: "status", Op: OpEq, Value: "todo"},
		},
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, rec := range got {
		assert.Equal(t, "todo", rec.Str("status"))
		assert.Equal(t, "ws-1", rec.Str("workspace_id"))
	}
}

func TestQueryEntitiesInFilter(t *testing.T) {
	s := NewMemoryStore()
	seedTasks(t, s)

	got, err := s.QueryEntities(context.Background(), types.EntityTask, Query{
		Filters: []ColumnFilter{
			{Column: "priority", Op: OpIn, Value: []string{"high", "medium"}},
		},
	})
	require.NoError(t, err)
	ids := make([]string, 0, len(got))
	for _, rec := range got {
		ids = append(ids, rec.Str("id"))
	}
	assert.ElementsMatch(t, []string{"T1", "T3"}, ids)
}

func TestQueryEntitiesDateRange(t *testing.T) {
	s := NewMemoryStore()
	seedTasks(t, s)

	got, err := s.QueryEntities(context.Background(), types.EntityTask, Query{
		Filters: []ColumnFilter{
			{Column: "workspace_id", Op: OpEq, Value: "ws-1"},
			{Column: "due_date", Op: OpGte, Value: "2026-09-01"},
			{Column: "due_date", Op: OpLte, Value: "2026-09-30"},
		},
	})
	require.NoError(t, err)
	ids := make([]string, 0, len(got))
	for _, rec := range got {
		ids = append(ids, rec.Str("id"))
	}
	assert.ElementsMatch(t, []string{"T1", "T2"}, ids)
}

func TestQueryEntitiesRangeSkipsEmptyValues(t *testing.T) {
	s := NewMemoryStore()
	seedTasks(t, s)

	// T4 has no due_date column; range filters must not treat "" as a match.
	got, err := s.QueryEntities(context.Background(), types.EntityTask, Query{
		Filters: []ColumnFilter{{Column: "due_date", Op: OpLte, Value: "2099-01-01"}},
	})
	require.NoError(t, err)
	for _, rec := range got {
		assert.NotEqual(t, "T4", rec.Str("id"))
	}
	assert.Len(t, got, 3)
}

func TestQueryEntitiesTextFilter(t *testing.T) {
	s := NewMemoryStore()
	seedTasks(t, s)

	got, err := s.QueryEntities(context.Background(), types.EntityTask, Query{
		Filters: []ColumnFilter{{Column: "workspace_id", Op: OpEq, Value: "ws-1"}},
		Text:    &TextFilter{Columns: []string{"title"}, Term: "RELEASE"},
	})
	require.NoError(t, err)
	ids := make([]string, 0, len(got))
	for _, rec := range got {
		ids = append(ids, rec.Str("id"))
	}
	// Case-insensitive substring match across the named columns.
	assert.ElementsMatch(t, []string{"T1", "T3"}, ids)
}

func TestQueryEntitiesOrderAndPage(t *testing.T) {
	s := NewMemoryStore()
	seedTasks(t, s)

	got, err := s.QueryEntities(context.Background(), types.EntityTask, Query{
		Filters: []ColumnFilter{{Column: "workspace_id", Op: OpEq, Value: "ws-1"}},
		OrderBy: "updated_at",
		Desc:    true,
		Limit:   2,
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "T2", got[0].Str("id"))
	assert.Equal(t, "T3", got[1].Str("id"))

	page2, err := s.QueryEntities(context.Background(), types.EntityTask, Query{
		Filters: []ColumnFilter{{Column: "workspace_id", Op: OpEq, Value: "ws-1"}},
		OrderBy: "updated_at",
		Desc:    true,
		Limit:   2,
		Offset:  2,
	})
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, "T1", page2[0].Str("id"))

	beyond, err := s.QueryEntities(context.Background(), types.EntityTask, Query{
		Filters: []ColumnFilter{{Column: "workspace_id", Op: OpEq, Value: "ws-1"}},
		Offset:  99,
	})
	require.NoError(t, err)
	assert.Empty(t, beyond)
}

func TestGetEntityNotFound(t *testing.T) {
	s := NewMemoryStore()
	seedTasks(t, s)

	rec, err := s.GetEntity(context.Background(), types.EntityTask, "T1")
	require.NoError(t, err)
	assert.Equal(t, "Ship release", rec.Str("title"))

	_, err = s.GetEntity(context.Background(), types.EntityTask, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPutEntityRequiresID(t *testing.T) {
	s := NewMemoryStore()
	err := s.PutEntity(context.Background(), types.EntityTask, Record{"title": "no id"})
	assert.ErrorIs(t, err, types.ErrEmptyID)
}

func TestPropertyStoreScoping(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.PutPropertyDefinition(ctx, types.PropertyDefinition{
		ID: "def-1", WorkspaceID: "ws-1", Name: "Status", Type: types.PropertyStatus,
	}))
	require.NoError(t, s.PutPropertyDefinition(ctx, types.PropertyDefinition{
		ID: "def-2", WorkspaceID: "ws-2", Name: "Status", Type: types.PropertyStatus,
	}))

	props := []types.EntityProperty{
		{ID: "p1", WorkspaceID: "ws-1", EntityType: types.EntityTask, EntityID: "T1", PropertyDefinitionID: "def-1", Value: json.RawMessage(`"todo"`)},
		{ID: "p2", WorkspaceID: "ws-1", EntityType: types.EntityTask, EntityID: "T2", PropertyDefinitionID: "def-1", Value: json.RawMessage(`"done"`)},
		{ID: "p3", WorkspaceID: "ws-2", EntityType: types.EntityTask, EntityID: "T9", PropertyDefinitionID: "def-2", Value: json.RawMessage(`"todo"`)},
	}
	for _, p := range props {
		require.NoError(t, s.PutEntityProperty(ctx, p))
	}

	defs, err := s.ListPropertyDefinitions(ctx, "ws-1")
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "def-1", defs[0].ID)

	vals, err := s.ListPropertyValues(ctx, "ws-1", types.EntityTask, "def-1")
	require.NoError(t, err)
	assert.Len(t, vals, 2)

	batch, err := s.ListEntityProperties(ctx, "ws-1", types.EntityTask, []string{"T1"})
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, "p1", batch[0].ID)
}

func TestPutEntityPropertyReplacesExisting(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	prop := types.EntityProperty{
		ID: "p1", WorkspaceID: "ws-1", EntityType: types.EntityTask,
		EntityID: "T1", PropertyDefinitionID: "def-1", Value: json.RawMessage(`"todo"`),
	}
	require.NoError(t, s.PutEntityProperty(ctx, prop))
	prop.Value = json.RawMessage(`"done"`)
	require.NoError(t, s.PutEntityProperty(ctx, prop))

	vals, err := s.ListPropertyValues(ctx, "ws-1", types.EntityTask, "def-1")
	require.NoError(t, err)
	require.Len(t, vals, 1)
	assert.JSONEq(t, `"done"`, string(vals[0].Value))
}

func TestClosedStoreRejectsReads(t *testing.T) {
	s := NewMemoryStore()
	seedTasks(t, s)
	require.NoError(t, s.Close())

	_, err := s.QueryEntities(context.Background(), types.EntityTask, Query{})
	assert.ErrorIs(t, err, ErrClosed)
	_, err = s.GetEntity(context.Background(), types.EntityTask, "T1")
	assert.ErrorIs(t, err, ErrClosed)
}
