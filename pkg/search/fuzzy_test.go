package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomworks/scout/pkg/types"
)

func TestResolveByNameConfidenceOrdering(t *testing.T) {
	s, st := newTestSearcher(t)
	ctx := context.Background()

	putEntity(t, st, types.EntityTask, types.Task{ID: "T1", WorkspaceID: testWorkspace, Title: "Q4 budget planning session"})
	putEntity(t, st, types.EntityTask, types.Task{ID: "T2", WorkspaceID: testWorkspace, Title: "Q4 budget"})
	putEntity(t, st, types.EntityTask, types.Task{ID: "T3", WorkspaceID: testWorkspace, Title: "Q4 budget review"})

	got, err := s.ResolveByName(ctx, types.ResolveParams{
		EntityType: types.EntityTask,
		Name:       "Q4 budget",
	})
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Exact equality ranks strictly before prefix and substring matches.
	assert.Equal(t, "T2", got[0].ID)
	assert.Equal(t, types.ConfidenceExact, got[0].Confidence)
	assert.Equal(t, types.ConfidenceHigh, got[1].Confidence)
	assert.Equal(t, types.ConfidenceHigh, got[2].Confidence)
}

func TestResolveByNameScopePromotion(t *testing.T) {
	s, st := newTestSearcher(t)
	ctx := context.Background()

	// Both candidates contain the term mid-string (partial tier); the one
	// inside the hinted project must rank first.
	putEntity(t, st, types.EntityTask, types.Task{ID: "T1", WorkspaceID: testWorkspace, ProjectID: "P-other", Title: "The budget review task"})
	putEntity(t, st, types.EntityTask, types.Task{ID: "T2", WorkspaceID: testWorkspace, ProjectID: "P-hint", Title: "Another budget review item"})

	got, err := s.ResolveByName(ctx, types.ResolveParams{
		EntityType:     types.EntityTask,
		Name:           "budget review",
		ScopeProjectID: "P-hint",
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "T2", got[0].ID)
	assert.Equal(t, types.ConfidenceHigh, got[0].Confidence)
	assert.Equal(t, types.ConfidencePartial, got[1].Confidence)
}

func TestResolveByNameLimitAndOverfetch(t *testing.T) {
	s, st := newTestSearcher(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		putEntity(t, st, types.EntityTask, types.Task{ID: id, WorkspaceID: testWorkspace, Title: "roadmap item " + id})
	}

	got, err := s.ResolveByName(ctx, types.ResolveParams{
		EntityType: types.EntityTask,
		Name:       "roadmap",
		Limit:      3,
	})
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestResolveByNameUnknownType(t *testing.T) {
	s, _ := newTestSearcher(t)

	_, err := s.ResolveByName(context.Background(), types.ResolveParams{
		EntityType: types.EntityType("nonsense"),
		Name:       "x",
	})
	assert.ErrorIs(t, err, types.ErrUnknownEntity)
}

func TestResolveMemberByProfileName(t *testing.T) {
	s, st := newTestSearcher(t)
	ctx := context.Background()

	putEntity(t, st, types.EntityMember, types.Member{ID: "m1", WorkspaceID: testWorkspace, UserID: "u1", Role: "admin"})
	putEntity(t, st, types.EntityMember, types.Member{ID: "m2", WorkspaceID: testWorkspace, UserID: "u2", Role: "editor"})

	got, err := s.ResolveByName(ctx, types.ResolveParams{
		EntityType: types.EntityMember,
		Name:       "ann chu",
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "u1", got[0].ID)
	assert.Equal(t, types.ConfidenceExact, got[0].Confidence)
}

func TestResolveFieldEditDistance(t *testing.T) {
	s, st := newTestSearcher(t)
	ctx := context.Background()

	putEntity(t, st, types.EntityTable, types.Table{
		ID: "tbl1", WorkspaceID: testWorkspace, Name: "Inventory",
		Fields: []types.TableField{
			{ID: "f1", Name: "Quantity"},
			{ID: "f2", Name: "Location"},
		},
	})

	// "Quantty" is within edit distance 1 of "Quantity" after stripping.
	got, err := s.ResolveField(ctx, nil, "tbl1", "Quantty")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "f1", got[0].ID)
	assert.Equal(t, "Inventory", got[0].Context)
}

func TestWithinEditDistanceThresholds(t *testing.T) {
	// Short terms allow a single edit.
	assert.True(t, withinEditDistance("tag", "tags"))
	assert.False(t, withinEditDistance("tag", "budget"))
	// Mid-length terms allow two edits.
	assert.True(t, withinEditDistance("urgent", "urgnet"))
	// Long terms allow three.
	assert.True(t, withinEditDistance("retrospective", "retrospektiev"))
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 0, levenshtein("abc", "abc"))
	assert.Equal(t, 1, levenshtein("abc", "abd"))
	assert.Equal(t, 3, levenshtein("", "abc"))
	assert.Equal(t, 2, levenshtein("design", "desing"))
}
