package search

import (
	"context"
	"errors"

	"github.com/loomworks/scout/pkg/schema"
	"github.com/loomworks/scout/pkg/store"
	"github.com/loomworks/scout/pkg/types"
)

// SearchTabs finds tabs by name. Tabs carry no workspace column; scoping
// walks the tab -> project -> workspace ownership chain.
func (s *Searcher) SearchTabs(ctx context.Context, p types.TabSearchParams) ([]types.TabResult, error) {
	ws, err := s.resolveContext(ctx, p.Context)
	if err != nil {
		return nil, err
	}
	limit := normalizeLimit(p.Limit, types.DefaultSearchLimit)

	var projectIDs []string
	if p.ProjectID != "" {
		ok, err := s.projectInWorkspace(ctx, ws.WorkspaceID, p.ProjectID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return []types.TabResult{}, nil
		}
		projectIDs = []string{p.ProjectID}
	} else {
		projectIDs, err = s.workspaceProjectIDs(ctx, ws.WorkspaceID)
		if err != nil {
			return nil, err
		}
		if len(projectIDs) == 0 {
			return []types.TabResult{}, nil
		}
	}

	q := store.Query{
		Filters: []store.ColumnFilter{{Column: "project_id", Op: store.OpIn, Value: projectIDs}},
		OrderBy: "updated_at", Desc: true, Limit: limit,
	}
	if p.SearchText != "" {
		q.Text = &store.TextFilter{Columns: []string{"name"}, Term: p.SearchText}
	}

	rows, err := s.store.QueryEntities(ctx, types.EntityTab, q)
	if err != nil {
		return nil, err
	}

	owners := make(IDSet)
	for _, r := range rows {
		if pid := r.Str("project_id"); pid != "" {
			owners[pid] = struct{}{}
		}
	}
	projectNames := s.entityNames(ctx, types.EntityProject, "name", owners)

	results := make([]types.TabResult, 0, len(rows))
	for _, r := range rows {
		var tab types.Tab
		if err := store.DecodeRecord(r, &tab); err != nil {
			s.logger.Warn("skipping undecodable tab row", "id", r.Str("id"), "error", err)
			continue
		}
		results = append(results, types.TabResult{
			ID:          tab.ID,
			ProjectID:   tab.ProjectID,
			ProjectName: projectNames[tab.ProjectID],
			Name:        tab.Name,
			Kind:        tab.Kind,
			UpdatedAt:   tab.UpdatedAt,
		})
	}
	return results, nil
}

// SearchBlocks finds content blocks. Scoping walks block -> tab -> project
// -> workspace; status, assignee, and tag filters run through the property
// engine since blocks have no such columns.
func (s *Searcher) SearchBlocks(ctx context.Context, p types.BlockSearchParams) ([]types.BlockResult, error) {
	ws, err := s.resolveContext(ctx, p.Context)
	if err != nil {
		return nil, err
	}
	limit := normalizeLimit(p.Limit, types.DefaultSearchLimit)

	var tabIDs []string
	if p.TabID != "" {
		tabIDs = []string{p.TabID}
		ok, err := s.tabInWorkspace(ctx, ws.WorkspaceID, p.TabID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return []types.BlockResult{}, nil
		}
	} else {
		tabIDs, err = s.workspaceTabIDs(ctx, ws.WorkspaceID, p.ProjectID)
		if err != nil {
			return nil, err
		}
		if len(tabIDs) == 0 {
			return []types.BlockResult{}, nil
		}
	}

	hasPropFilters := len(p.Status) > 0 || p.AssigneeName != "" || len(p.TagNames) > 0
	idx, err := s.loadSchemaIndex(ctx, ws.WorkspaceID, hasPropFilters)
	if err != nil {
		return nil, err
	}

	var candidates IDSet

	set, err := s.scalarDimension(ctx, ws, types.EntityBlock, idx, schema.PropStatus, scalarStatus, p.Status, "", nil)
	if err != nil {
		return nil, err
	}
	if set != nil {
		if candidates = Intersect(candidates, set); len(candidates) == 0 {
			return []types.BlockResult{}, nil
		}
	}

	set, applied, err := s.assigneeDimension(ctx, ws, types.EntityBlock, idx, "", p.AssigneeName, "", nil)
	if err != nil {
		return nil, err
	}
	if applied {
		if candidates = Intersect(candidates, set); len(candidates) == 0 {
			return []types.BlockResult{}, nil
		}
	}

	if set, applied := s.tagsDimension(ctx, ws, types.EntityBlock, idx, p.TagNames); applied {
		if candidates = Intersect(candidates, set); len(candidates) == 0 {
			return []types.BlockResult{}, nil
		}
	}

	q := store.Query{
		Filters: []store.ColumnFilter{{Column: "tab_id", Op: store.OpIn, Value: tabIDs}},
		OrderBy: "updated_at", Desc: true, Limit: limit,
	}
	if p.Kind != "" {
		q.Filters = append(q.Filters, store.ColumnFilter{Column: "kind", Op: store.OpEq, Value: p.Kind})
	}
	if candidates != nil {
		q.Filters = append(q.Filters, store.ColumnFilter{Column: "id", Op: store.OpIn, Value: candidates.Slice()})
	}
	if p.SearchText != "" {
		q.Text = &store.TextFilter{Columns: []string{"title"}, Term: p.SearchText}
	}

	rows, err := s.store.QueryEntities(ctx, types.EntityBlock, q)
	if err != nil {
		return nil, err
	}

	overlays := s.loadOverlays(ctx, ws.WorkspaceID, types.EntityBlock, recordIDs(rows), idx)

	owners := make(IDSet)
	for _, r := range rows {
		if tid := r.Str("tab_id"); tid != "" {
			owners[tid] = struct{}{}
		}
	}
	tabRows, err := s.store.QueryEntities(ctx, types.EntityTab, store.Query{
		Filters: []store.ColumnFilter{{Column: "id", Op: store.OpIn, Value: owners.Slice()}},
	})
	if err != nil {
		s.logger.Warn("tab lookup failed during block enrichment", "error", err)
		tabRows = nil
	}
	tabNames := make(map[string]string, len(tabRows))
	tabProjects := make(map[string]string, len(tabRows))
	for _, r := range tabRows {
		tabNames[r.Str("id")] = r.Str("name")
		tabProjects[r.Str("id")] = r.Str("project_id")
	}

	results := make([]types.BlockResult, 0, len(rows))
	for _, r := range rows {
		var b types.Block
		if err := store.DecodeRecord(r, &b); err != nil {
			s.logger.Warn("skipping undecodable block row", "id", r.Str("id"), "error", err)
			continue
		}
		o := overlays[b.ID]
		br := types.BlockResult{
			ID:        b.ID,
			TabID:     b.TabID,
			TabName:   tabNames[b.TabID],
			ProjectID: tabProjects[b.TabID],
			Title:     b.Title,
			Kind:      b.Kind,
			Assignees: o.assignees,
			Tags:      o.tags,
			UpdatedAt: b.UpdatedAt,
		}
		if o.hasStatus() {
			br.Status = *o.status
		}
		results = append(results, br)
	}
	return results, nil
}

// tabInWorkspace verifies a tab's project belongs to the workspace.
func (s *Searcher) tabInWorkspace(ctx context.Context, workspaceID, tabID string) (bool, error) {
	rec, err := s.store.GetEntity(ctx, types.EntityTab, tabID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return s.projectInWorkspace(ctx, workspaceID, rec.Str("project_id"))
}
