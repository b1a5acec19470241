package scout

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomworks/scout/pkg/config"
	"github.com/loomworks/scout/pkg/tenant"
	"github.com/loomworks/scout/pkg/types"
)

const seedYAML = `
workspace_id: ws-1
property_definitions:
  - id: def-status
    name: Status
    type: status
entities:
  project:
    - id: P1
      name: Launch
  task:
    - id: T1
      project_id: P1
      title: Ship the launch checklist
      status: todo
    - id: T2
      project_id: P1
      title: Draft announcement
      status: todo
entity_properties:
  - entity_type: task
    entity_id: T1
    definition: Status
    value:
      name: In Progress
`

func newSeededClient(t *testing.T) *Client {
	t.Helper()

	seedPath := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(seedPath, []byte(seedYAML), 0o644))

	cfg := &config.Config{
		Database: config.DatabaseConfig{Driver: "memory", SeedFile: seedPath},
	}
	client, err := NewClient(cfg,
		WithTenantProvider(tenant.StaticProvider{WorkspaceID: "ws-1", UserID: "u-1"}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestNewClientDefaultsToMemoryDriver(t *testing.T) {
	client, err := NewClient(nil)
	require.NoError(t, err)
	defer client.Close()

	assert.NotNil(t, client.GetStore())
	assert.NotNil(t, client.GetLogger())
}

func TestNewClientUnknownDriver(t *testing.T) {
	_, err := NewClient(&config.Config{
		Database: config.DatabaseConfig{Driver: "sqlite"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown database driver")
}

func TestNewClientBadgerCacheNeedsBadgerStore(t *testing.T) {
	_, err := NewClient(&config.Config{
		Database: config.DatabaseConfig{Driver: "memory"},
		Cache:    config.CacheConfig{Backend: "badger"},
	})
	require.Error(t, err)
}

func TestSeededSearchEndToEnd(t *testing.T) {
	client := newSeededClient(t)
	ctx := context.Background()

	tasks, err := client.SearchTasks(ctx, types.TaskSearchParams{
		Status: []string{"in_progress"},
	})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "T1", tasks[0].ID)
	assert.Equal(t, "in_progress", tasks[0].Status)
	assert.Equal(t, "Launch", tasks[0].ProjectName)
}

func TestSeededUnifiedSearch(t *testing.T) {
	client := newSeededClient(t)

	got, err := client.SearchAll(context.Background(), types.UnifiedSearchParams{
		SearchText: "launch",
	})
	require.NoError(t, err)
	require.Equal(t, 2, got.TotalCount)

	// The exact project name outranks the task's substring match.
	assert.Equal(t, "P1", got.Data[0].ID)
}

func TestSeededResolve(t *testing.T) {
	client := newSeededClient(t)

	candidates, err := client.ResolveByName(context.Background(), types.ResolveParams{
		EntityType: types.EntityTask,
		Name:       "ship the launch checklist",
	})
	require.NoError(t, err)
	require.NotEmpty(t, candidates)
	assert.Equal(t, "T1", candidates[0].ID)
	assert.Equal(t, types.ConfidenceExact, candidates[0].Confidence)
}
