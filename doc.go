// Package scout provides a multi-tenant workspace search and entity
// resolution library for Go.
//
// Scout searches the entities of a project-management workspace - tasks,
// projects, documents, tables, timeline events, and a dozen more kinds -
// honoring the workspace's custom property schema. Property values stored in
// an entity-attribute-value side store override relational columns, so a
// task whose status was customized still matches the filter a caller would
// expect. A fuzzy resolver maps free-form names ("the Q4 budget table") onto
// concrete entity IDs with confidence tiers.
//
// # Basic Usage
//
// Create a client from configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	client, err := scout.NewClient(cfg,
//		scout.WithTenantProvider(tenant.StaticProvider{WorkspaceID: "ws-1", UserID: "u-1"}),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
// # Searching
//
// Search one entity type with typed filters:
//
//	tasks, err := client.SearchTasks(ctx, types.TaskSearchParams{
//		Status:     []string{"in_progress"},
//		AssigneeID: "u-42",
//	})
//
// Or fan out across every type at once:
//
//	results, err := client.SearchAll(ctx, types.UnifiedSearchParams{
//		SearchText: "quarterly report",
//	})
//
// # Resolving names
//
// Map a free-form name onto entity candidates:
//
//	candidates, err := client.ResolveByName(ctx, types.ResolveParams{
//		EntityType: types.EntityTable,
//		Name:       "Q4 budget",
//	})
//
//	for _, c := range candidates {
//		fmt.Printf("%s (%s)\n", c.Name, c.Confidence)
//	}
//
// # Multi-tenancy
//
// Every operation resolves the caller's workspace through a tenant.Provider
// and scopes every store query to it. Entities without a workspace column
// (tabs, blocks) are scoped through their ownership chain. A tenant
// resolution failure fails the whole call; there is no cross-workspace
// fallback.
//
// # Custom properties
//
// Workspaces declare property definitions (status, priority, assignee,
// tags, due date and more). Filters consult the property side-store first
// and fall back to relational columns for entities without an override.
// A failure while scanning properties degrades that filter to empty rather
// than silently widening results.
//
// # Architecture
//
//   - pkg/store: entity store drivers (memory, badger, neo4j)
//   - pkg/search: the filter engine, per-type searches, orchestrator, resolver
//   - pkg/schema: workspace property definition resolution
//   - pkg/tenant: caller identity and workspace resolution
//   - pkg/server: HTTP surface
//
// This design allows easy extension with additional store backends and
// tenant sources.
package scout
