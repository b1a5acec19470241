package schema

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomworks/scout/pkg/store"
	"github.com/loomworks/scout/pkg/types"
)

func loadIndex(t *testing.T, defs ...types.PropertyDefinition) *DefinitionIndex {
	t.Helper()
	s := store.NewMemoryStore()
	ctx := context.Background()
	for _, def := range defs {
		require.NoError(t, s.PutPropertyDefinition(ctx, def))
	}
	idx, err := NewResolver(s).Load(ctx, "ws-1")
	require.NoError(t, err)
	return idx
}

func TestFindByNameCaseTolerance(t *testing.T) {
	idx := loadIndex(t,
		types.PropertyDefinition{ID: "d1", WorkspaceID: "ws-1", Name: "Status", Type: types.PropertyStatus},
		types.PropertyDefinition{ID: "d2", WorkspaceID: "ws-1", Name: "Due Date", Type: types.PropertyDate},
	)

	for _, name := range []string{"Status", "status", "STATUS"} {
		def, ok := idx.FindByName(name)
		require.True(t, ok, "lookup %q", name)
		assert.Equal(t, "d1", def.ID)
	}

	// Capitalized fallback only fixes the first letter, so the space-separated
	// name still needs exact or lowercase form.
	def, ok := idx.FindByName("due date")
	require.True(t, ok)
	assert.Equal(t, "d2", def.ID)

	_, ok = idx.FindByName("Estimate")
	assert.False(t, ok)
	_, ok = idx.FindByName("")
	assert.False(t, ok)
}

func TestLoadPrefersExactCaseOnCollision(t *testing.T) {
	// Workspaces can carry definitions differing only in casing. The exact
	// names must stay individually addressable, and the all-lowercase form
	// resolves to the definition that actually spells it that way.
	idx := loadIndex(t,
		types.PropertyDefinition{ID: "d1", WorkspaceID: "ws-1", Name: "Priority", Type: types.PropertySelect},
		types.PropertyDefinition{ID: "d2", WorkspaceID: "ws-1", Name: "priority", Type: types.PropertySelect},
	)

	def, ok := idx.FindByName("Priority")
	require.True(t, ok)
	assert.Equal(t, "d1", def.ID)

	def, ok = idx.FindByName("priority")
	require.True(t, ok)
	assert.Equal(t, "d2", def.ID)
}

func TestLoadScopedToWorkspace(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.PutPropertyDefinition(ctx, types.PropertyDefinition{
		ID: "other", WorkspaceID: "ws-2", Name: "Status", Type: types.PropertyStatus,
	}))

	idx, err := NewResolver(s).Load(ctx, "ws-1")
	require.NoError(t, err)
	assert.Zero(t, idx.Len())
}
