package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomworks/scout/pkg/types"
)

const fixtureYAML = `
workspace_id: ws-seed
property_definitions:
  - id: def-status
    name: Status
    type: status
  - name: Priority
    type: select
entities:
  project:
    - id: P1
      name: Alpha
  task:
    - id: T1
      project_id: P1
      title: First task
  tab:
    - id: tab-1
      project_id: P1
      name: Board
entity_properties:
  - entity_type: task
    entity_id: T1
    definition: Status
    value:
      name: In Progress
  - entity_type: task
    entity_id: T1
    definition: Priority
    value: high
`

func loadFixture(t *testing.T) *Seed {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fixtureYAML), 0o644))
	seed, err := LoadSeedFile(path)
	require.NoError(t, err)
	return seed
}

func TestSeedApply(t *testing.T) {
	seed := loadFixture(t)
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, seed.Apply(ctx, s))

	// Entities inherit the seed workspace unless scoped through ownership.
	proj, err := s.GetEntity(ctx, types.EntityProject, "P1")
	require.NoError(t, err)
	assert.Equal(t, "ws-seed", proj.Str("workspace_id"))

	tab, err := s.GetEntity(ctx, types.EntityTab, "tab-1")
	require.NoError(t, err)
	assert.Empty(t, tab.Str("workspace_id"))

	defs, err := s.ListPropertyDefinitions(ctx, "ws-seed")
	require.NoError(t, err)
	require.Len(t, defs, 2)

	// Definitions without an explicit ID get a generated one, and property
	// rows can reference definitions by name.
	props, err := s.ListEntityProperties(ctx, "ws-seed", types.EntityTask, []string{"T1"})
	require.NoError(t, err)
	require.Len(t, props, 2)
	for _, p := range props {
		assert.NotEmpty(t, p.PropertyDefinitionID)
		assert.NotEmpty(t, p.Value)
	}
}

func TestSeedApplyUnknownDefinition(t *testing.T) {
	seed := &Seed{
		WorkspaceID: "ws-1",
		EntityProperties: []SeedEntityProperty{
			{EntityType: "task", EntityID: "T1", Definition: "Nope", Value: "x"},
		},
	}
	err := seed.Apply(context.Background(), NewMemoryStore())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown definition")
}

func TestLoadSeedFileRequiresWorkspace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("entities: {}\n"), 0o644))
	_, err := LoadSeedFile(path)
	assert.ErrorIs(t, err, types.ErrEmptyWorkspaceID)
}
