package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomworks/scout/pkg/types"
)

func TestSearchAllMergesAndRanks(t *testing.T) {
	s, st := newTestSearcher(t)
	ctx := context.Background()

	putEntity(t, st, types.EntityProject, types.Project{ID: "P1", WorkspaceID: testWorkspace, Name: "Launch"})
	putEntity(t, st, types.EntityTask, types.Task{ID: "T1", WorkspaceID: testWorkspace, ProjectID: "P1", Title: "Launch"})
	putEntity(t, st, types.EntityTask, types.Task{ID: "T2", WorkspaceID: testWorkspace, ProjectID: "P1", Title: "Launch checklist"})
	putEntity(t, st, types.EntityDoc, types.Doc{ID: "D1", WorkspaceID: testWorkspace, Title: "Pre-launch notes"})

	got, err := s.SearchAll(ctx, types.UnifiedSearchParams{SearchText: "launch"})
	require.NoError(t, err)
	require.Len(t, got.Data, 4)
	assert.Equal(t, 4, got.TotalCount)
	assert.False(t, got.HasMore)

	// Exact name matches first, then the prefix match, then the plain
	// substring match.
	assert.Equal(t, "Launch", got.Data[0].Name)
	assert.Equal(t, "Launch", got.Data[1].Name)
	assert.Equal(t, "Launch checklist", got.Data[2].Name)
	assert.Equal(t, "Pre-launch notes", got.Data[3].Name)
}

func TestSearchAllSelectedTypesOnly(t *testing.T) {
	s, st := newTestSearcher(t)
	ctx := context.Background()

	putEntity(t, st, types.EntityTask, types.Task{ID: "T1", WorkspaceID: testWorkspace, Title: "Launch"})
	putEntity(t, st, types.EntityDoc, types.Doc{ID: "D1", WorkspaceID: testWorkspace, Title: "Launch"})

	got, err := s.SearchAll(ctx, types.UnifiedSearchParams{
		SearchText:  "launch",
		EntityTypes: []types.EntityType{types.EntityDoc},
	})
	require.NoError(t, err)
	require.Len(t, got.Data, 1)
	assert.Equal(t, types.EntityDoc, got.Data[0].Type)
}

func TestSearchAllPagination(t *testing.T) {
	s, st := newTestSearcher(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c", "d", "e"} {
		putEntity(t, st, types.EntityTask, types.Task{ID: id, WorkspaceID: testWorkspace, Title: "item " + id})
	}

	page1, err := s.SearchAll(ctx, types.UnifiedSearchParams{
		SearchText:  "item",
		EntityTypes: []types.EntityType{types.EntityTask},
		Limit:       2,
	})
	require.NoError(t, err)
	assert.Len(t, page1.Data, 2)
	assert.Equal(t, 5, page1.TotalCount)
	assert.True(t, page1.HasMore)

	lastPage, err := s.SearchAll(ctx, types.UnifiedSearchParams{
		SearchText:  "item",
		EntityTypes: []types.EntityType{types.EntityTask},
		Limit:       2,
		Offset:      4,
	})
	require.NoError(t, err)
	assert.Len(t, lastPage.Data, 1)
	assert.False(t, lastPage.HasMore)

	past, err := s.SearchAll(ctx, types.UnifiedSearchParams{
		SearchText:  "item",
		EntityTypes: []types.EntityType{types.EntityTask},
		Limit:       2,
		Offset:      99,
	})
	require.NoError(t, err)
	assert.NotNil(t, past.Data)
	assert.Empty(t, past.Data)
	assert.False(t, past.HasMore)
}

func TestSearchAllScopeHintRanksScopedFirst(t *testing.T) {
	s, st := newTestSearcher(t)
	ctx := context.Background()

	// P2 is a prefix match, P1 only a substring match. The scope hint on
	// P1 still lifts it ahead of the better text match.
	putEntity(t, st, types.EntityProject, types.Project{ID: "P1", WorkspaceID: testWorkspace, Name: "Alpha notes"})
	putEntity(t, st, types.EntityProject, types.Project{ID: "P2", WorkspaceID: testWorkspace, Name: "Notes Beta"})

	unscoped, err := s.SearchAll(ctx, types.UnifiedSearchParams{
		SearchText:  "notes",
		EntityTypes: []types.EntityType{types.EntityProject},
	})
	require.NoError(t, err)
	require.Len(t, unscoped.Data, 2)
	assert.Equal(t, "P2", unscoped.Data[0].ID)

	scoped, err := s.SearchAll(ctx, types.UnifiedSearchParams{
		SearchText:     "notes",
		ScopeProjectID: "P1",
		EntityTypes:    []types.EntityType{types.EntityProject},
	})
	require.NoError(t, err)
	require.Len(t, scoped.Data, 2)
	assert.Equal(t, "P1", scoped.Data[0].ID)
}

func TestSearchAllDegradesFailingLeg(t *testing.T) {
	s, st := newTestSearcher(t)
	ctx := context.Background()

	putEntity(t, st, types.EntityTask, types.Task{ID: "T1", WorkspaceID: testWorkspace, Title: "Launch"})

	// table_row has no unified leg; its failure must not sink the task leg.
	got, err := s.SearchAll(ctx, types.UnifiedSearchParams{
		SearchText:  "launch",
		EntityTypes: []types.EntityType{types.EntityTask, types.EntityTableRow},
	})
	require.NoError(t, err)
	require.Len(t, got.Data, 1)
	assert.Equal(t, "T1", got.Data[0].ID)
}

func TestSearchAllValidatesParams(t *testing.T) {
	s, _ := newTestSearcher(t)

	_, err := s.SearchAll(context.Background(), types.UnifiedSearchParams{Limit: -1})
	assert.ErrorIs(t, err, types.ErrInvalidLimit)
}
