package search

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomworks/scout/pkg/identity"
	"github.com/loomworks/scout/pkg/store"
	"github.com/loomworks/scout/pkg/tenant"
	"github.com/loomworks/scout/pkg/types"
)

const testWorkspace = "ws-1"

func newTestSearcher(t *testing.T) (*Searcher, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	provider := tenant.StaticProvider{WorkspaceID: testWorkspace, UserID: "u-caller"}
	lookup := identity.NewStaticLookup([]types.Profile{
		{UserID: "u1", Name: "Ann Chu", Email: "ann@example.com"},
		{UserID: "u2", Name: "Bo Diaz", Email: "bo@example.com"},
	})
	s := New(st, provider, WithIdentity(lookup), WithLogger(slog.Default()))
	return s, st
}

func putEntity(t *testing.T, st *store.MemoryStore, kind types.EntityType, v any) {
	t.Helper()
	rec, err := store.EncodeRecord(v)
	require.NoError(t, err)
	require.NoError(t, st.PutEntity(context.Background(), kind, rec))
}

func putDefinition(t *testing.T, st *store.MemoryStore, id, name string, pt types.PropertyType) {
	t.Helper()
	require.NoError(t, st.PutPropertyDefinition(context.Background(), types.PropertyDefinition{
		ID: id, WorkspaceID: testWorkspace, Name: name, Type: pt,
	}))
}

func putProperty(t *testing.T, st *store.MemoryStore, id string, entityType types.EntityType, entityID, defID, value string) {
	t.Helper()
	require.NoError(t, st.PutEntityProperty(context.Background(), types.EntityProperty{
		ID: id, WorkspaceID: testWorkspace, EntityType: entityType,
		EntityID: entityID, PropertyDefinitionID: defID, Value: json.RawMessage(value),
	}))
}

func TestSearchTasksStatusOverrideAndAssignee(t *testing.T) {
	s, st := newTestSearcher(t)
	ctx := context.Background()

	putDefinition(t, st, "def-status", "Status", types.PropertyStatus)
	putDefinition(t, st, "def-assignee", "Assignee", types.PropertyPerson)

	putEntity(t, st, types.EntityTask, types.Task{
		ID: "T1", WorkspaceID: testWorkspace, Title: "Write brief", Status: "todo",
	})
	putEntity(t, st, types.EntityTask, types.Task{
		ID: "T2", WorkspaceID: testWorkspace, Title: "Review brief", Status: "todo",
	})
	// T2's Status property overrides its column value.
	putProperty(t, st, "p1", types.EntityTask, "T2", "def-status", `{"name":"In Progress"}`)
	putProperty(t, st, "p2", types.EntityTask, "T2", "def-assignee", `{"id":"u1","name":"Ann"}`)

	got, err := s.SearchTasks(ctx, types.TaskSearchParams{
		Status:     []string{"in_progress"},
		AssigneeID: "u1",
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "T2", got[0].ID)
	assert.Equal(t, "in_progress", got[0].Status)
	assert.Equal(t, []types.Person{{ID: "u1", Name: "Ann"}}, got[0].Assignees)
}

func TestSearchTasksColumnStatusWithoutOverride(t *testing.T) {
	s, st := newTestSearcher(t)
	ctx := context.Background()

	putDefinition(t, st, "def-status", "Status", types.PropertyStatus)
	putEntity(t, st, types.EntityTask, types.Task{
		ID: "T1", WorkspaceID: testWorkspace, Title: "Column only", Status: "todo",
	})

	got, err := s.SearchTasks(ctx, types.TaskSearchParams{Status: []string{"todo"}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "T1", got[0].ID)
	assert.Equal(t, "todo", got[0].Status)
}

func TestSearchTasksDateFilterIntersectsOtherFilters(t *testing.T) {
	s, st := newTestSearcher(t)
	ctx := context.Background()

	putDefinition(t, st, "def-assignee", "Assignee", types.PropertyPerson)
	putDefinition(t, st, "def-due", "Due Date", types.PropertyDate)

	// Both tasks match the assignee filter; only T2's due date is inside
	// the bound. Date matches must narrow, not union.
	putEntity(t, st, types.EntityTask, types.Task{ID: "T1", WorkspaceID: testWorkspace, Title: "Early"})
	putEntity(t, st, types.EntityTask, types.Task{ID: "T2", WorkspaceID: testWorkspace, Title: "Late"})
	putProperty(t, st, "p1", types.EntityTask, "T1", "def-assignee", `{"id":"u1","name":"Ann"}`)
	putProperty(t, st, "p2", types.EntityTask, "T2", "def-assignee", `{"id":"u1","name":"Ann"}`)
	putProperty(t, st, "p3", types.EntityTask, "T1", "def-due", `"2026-01-15"`)
	putProperty(t, st, "p4", types.EntityTask, "T2", "def-due", `"2026-03-15"`)

	got, err := s.SearchTasks(ctx, types.TaskSearchParams{
		AssigneeID: "u1",
		DueDate:    types.DateFilter{Gte: "2026-02-01"},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "T2", got[0].ID)
}

func TestSearchTasksDateColumnFallback(t *testing.T) {
	s, st := newTestSearcher(t)
	ctx := context.Background()

	putEntity(t, st, types.EntityTask, types.Task{
		ID: "T1", WorkspaceID: testWorkspace, Title: "Due soon", DueDate: "2026-02-10",
	})
	putEntity(t, st, types.EntityTask, types.Task{
		ID: "T2", WorkspaceID: testWorkspace, Title: "Due later", DueDate: "2026-05-10",
	})

	got, err := s.SearchTasks(ctx, types.TaskSearchParams{
		DueDate: types.DateFilter{Gte: "2026-01-01", Lte: "2026-03-01"},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "T1", got[0].ID)
}

func TestSearchTasksTagUnderscoreHyphenNormalization(t *testing.T) {
	s, st := newTestSearcher(t)
	ctx := context.Background()

	putDefinition(t, st, "def-tags", "Tags", types.PropertyTags)
	putEntity(t, st, types.EntityTask, types.Task{ID: "T1", WorkspaceID: testWorkspace, Title: "Tagged"})
	putEntity(t, st, types.EntityTask, types.Task{ID: "T2", WorkspaceID: testWorkspace, Title: "Untagged"})
	putProperty(t, st, "p1", types.EntityTask, "T1", "def-tags", `["urgent-review"]`)

	got, err := s.SearchTasks(ctx, types.TaskSearchParams{TagNames: []string{"urgent_review"}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "T1", got[0].ID)
}

func TestSearchTasksTextAndProjectEnrichment(t *testing.T) {
	s, st := newTestSearcher(t)
	ctx := context.Background()

	putEntity(t, st, types.EntityProject, types.Project{ID: "P1", WorkspaceID: testWorkspace, Name: "Apollo"})
	putEntity(t, st, types.EntityTask, types.Task{
		ID: "T1", WorkspaceID: testWorkspace, ProjectID: "P1", Title: "Q4 budget review",
	})
	putEntity(t, st, types.EntityTask, types.Task{
		ID: "T2", WorkspaceID: testWorkspace, ProjectID: "P1", Title: "Offsite planning",
	})

	got, err := s.SearchTasks(ctx, types.TaskSearchParams{SearchText: "budget"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "T1", got[0].ID)
	assert.Equal(t, "Apollo", got[0].ProjectName)
}

func TestSearchTasksAssigneeColumnFallback(t *testing.T) {
	s, st := newTestSearcher(t)
	ctx := context.Background()

	putEntity(t, st, types.EntityTask, types.Task{
		ID: "T1", WorkspaceID: testWorkspace, Title: "Column assignee", AssigneeID: "u1",
	})

	got, err := s.SearchTasks(ctx, types.TaskSearchParams{AssigneeID: "u1"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []types.Person{{ID: "u1", Name: "Ann Chu"}}, got[0].Assignees)
}

func TestSearchTasksEmptyIntersectionShortCircuits(t *testing.T) {
	s, st := newTestSearcher(t)
	ctx := context.Background()

	putDefinition(t, st, "def-tags", "Tags", types.PropertyTags)
	putEntity(t, st, types.EntityTask, types.Task{ID: "T1", WorkspaceID: testWorkspace, Title: "Plain"})

	got, err := s.SearchTasks(ctx, types.TaskSearchParams{TagNames: []string{"nonexistent"}})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestSearchTasksWorkspaceIsolation(t *testing.T) {
	s, st := newTestSearcher(t)
	ctx := context.Background()

	putEntity(t, st, types.EntityTask, types.Task{ID: "T1", WorkspaceID: testWorkspace, Title: "Mine"})
	putEntity(t, st, types.EntityTask, types.Task{ID: "T2", WorkspaceID: "ws-other", Title: "Theirs"})

	got, err := s.SearchTasks(ctx, types.TaskSearchParams{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "T1", got[0].ID)
}

func TestSearchTasksTenantFailureIsFatal(t *testing.T) {
	st := store.NewMemoryStore()
	s := New(st, tenant.StaticProvider{})

	_, err := s.SearchTasks(context.Background(), types.TaskSearchParams{})
	require.Error(t, err)
	assert.ErrorIs(t, err, tenant.ErrNoWorkspace)
}

func TestSearchMembersUsesCacheAndFiltersByText(t *testing.T) {
	s, st := newTestSearcher(t)
	ctx := context.Background()

	putEntity(t, st, types.EntityMember, types.Member{ID: "m1", WorkspaceID: testWorkspace, UserID: "u1", Role: "admin"})
	putEntity(t, st, types.EntityMember, types.Member{ID: "m2", WorkspaceID: testWorkspace, UserID: "u2", Role: "editor"})

	got, err := s.SearchMembers(ctx, types.MemberSearchParams{SearchText: "ann"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "u1", got[0].UserID)
	assert.Equal(t, "Ann Chu", got[0].Name)

	// Second call with a different term is served from the same cached
	// member list.
	got, err = s.SearchMembers(ctx, types.MemberSearchParams{SearchText: "bo@"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "u2", got[0].UserID)
}

func TestSearchBlocksScopedThroughOwnershipChain(t *testing.T) {
	s, st := newTestSearcher(t)
	ctx := context.Background()

	putEntity(t, st, types.EntityProject, types.Project{ID: "P1", WorkspaceID: testWorkspace, Name: "Apollo"})
	putEntity(t, st, types.EntityProject, types.Project{ID: "PX", WorkspaceID: "ws-other", Name: "Foreign"})
	putEntity(t, st, types.EntityTab, types.Tab{ID: "tab1", ProjectID: "P1", Name: "Board"})
	putEntity(t, st, types.EntityTab, types.Tab{ID: "tabX", ProjectID: "PX", Name: "Foreign Board"})
	putEntity(t, st, types.EntityBlock, types.Block{ID: "b1", TabID: "tab1", Title: "Sprint notes"})
	putEntity(t, st, types.EntityBlock, types.Block{ID: "bX", TabID: "tabX", Title: "Sprint notes"})

	got, err := s.SearchBlocks(ctx, types.BlockSearchParams{SearchText: "sprint"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b1", got[0].ID)
	assert.Equal(t, "Board", got[0].TabName)
	assert.Equal(t, "P1", got[0].ProjectID)
}

func TestSearchTableRowsFieldFilters(t *testing.T) {
	s, st := newTestSearcher(t)
	ctx := context.Background()

	putEntity(t, st, types.EntityTable, types.Table{
		ID: "tbl1", WorkspaceID: testWorkspace, Name: "Inventory",
		Fields: []types.TableField{{ID: "f1", Name: "Item"}, {ID: "f2", Name: "Qty"}},
	})
	putEntity(t, st, types.EntityTableRow, types.TableRow{
		ID: "r1", WorkspaceID: testWorkspace, TableID: "tbl1",
		Data: json.RawMessage(`{"f1":"Widget","f2":5}`),
	})
	putEntity(t, st, types.EntityTableRow, types.TableRow{
		ID: "r2", WorkspaceID: testWorkspace, TableID: "tbl1",
		Data: json.RawMessage(`{"f1":"Gadget","f2":12}`),
	})

	got, err := s.SearchTableRows(ctx, types.TableRowSearchParams{
		TableID: "tbl1",
		FieldFilters: []types.RowFieldFilter{
			{FieldID: "f2", Op: types.RowFieldGte, Value: "10"},
		},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "r2", got[0].ID)

	got, err = s.SearchTableRows(ctx, types.TableRowSearchParams{
		TableID: "tbl1",
		FieldFilters: []types.RowFieldFilter{
			{FieldID: "f1", Op: types.RowFieldContains, Value: "wid"},
		},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "r1", got[0].ID)
}

func TestSearchTableRowsUnknownTable(t *testing.T) {
	s, _ := newTestSearcher(t)

	_, err := s.SearchTableRows(context.Background(), types.TableRowSearchParams{TableID: "missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSearchTagsAggregation(t *testing.T) {
	s, st := newTestSearcher(t)
	ctx := context.Background()

	putDefinition(t, st, "def-tags", "Tags", types.PropertyTags)
	putProperty(t, st, "p1", types.EntityTask, "T1", "def-tags", `[{"id":"tag-a","name":"design","color":"blue"}]`)
	putProperty(t, st, "p2", types.EntityTask, "T2", "def-tags", `["design"]`)
	putProperty(t, st, "p3", types.EntityBlock, "B1", "def-tags", `[{"id":"tag-a","name":"design"}]`)
	putProperty(t, st, "p4", types.EntityTimelineEvent, "E1", "def-tags", `["launch-day"]`)

	got, err := s.SearchTags(ctx, types.TagSearchParams{})
	require.NoError(t, err)
	// "design" dedupes by id for the object form and by folded name for
	// the bare string; the string form has no id so it counts separately.
	names := map[string]int{}
	for _, tag := range got {
		names[tag.Name] += tag.UsageCount
	}
	assert.Equal(t, 3, names["design"])
	assert.Equal(t, 1, names["launch-day"])

	// Misspelled term still matches through bounded edit distance.
	got, err = s.SearchTags(ctx, types.TagSearchParams{SearchText: "desing"})
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "design", got[0].Name)
}
