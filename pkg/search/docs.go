package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/loomworks/scout/pkg/store"
	"github.com/loomworks/scout/pkg/types"
)

// SearchDocs finds documents by title.
func (s *Searcher) SearchDocs(ctx context.Context, p types.DocSearchParams) ([]types.DocResult, error) {
	ws, err := s.resolveContext(ctx, p.Context)
	if err != nil {
		return nil, err
	}
	limit := normalizeLimit(p.Limit, types.DefaultSearchLimit)

	q := store.Query{
		Filters: []store.ColumnFilter{wsFilter(ws.WorkspaceID)},
		OrderBy: "updated_at", Desc: true, Limit: limit,
	}
	if p.ProjectID != "" {
		q.Filters = append(q.Filters, store.ColumnFilter{Column: "project_id", Op: store.OpEq, Value: p.ProjectID})
	}
	if !p.IncludeArchived {
		q.Filters = append(q.Filters, notArchived())
	}
	if p.SearchText != "" {
		q.Text = &store.TextFilter{Columns: []string{"title"}, Term: p.SearchText}
	}

	rows, err := s.store.QueryEntities(ctx, types.EntityDoc, q)
	if err != nil {
		return nil, err
	}

	projectIDs := make(IDSet)
	for _, r := range rows {
		if pid := r.Str("project_id"); pid != "" {
			projectIDs[pid] = struct{}{}
		}
	}
	projectNames := s.entityNames(ctx, types.EntityProject, "name", projectIDs)

	results := make([]types.DocResult, 0, len(rows))
	for _, r := range rows {
		var d types.Doc
		if err := store.DecodeRecord(r, &d); err != nil {
			s.logger.Warn("skipping undecodable doc row", "id", r.Str("id"), "error", err)
			continue
		}
		results = append(results, types.DocResult{
			ID:          d.ID,
			Title:       d.Title,
			ProjectID:   d.ProjectID,
			ProjectName: projectNames[d.ProjectID],
			Archived:    d.Archived,
			UpdatedAt:   d.UpdatedAt,
		})
	}
	return results, nil
}

// SearchDocContent searches inside one document's rich-text content. The
// tree is walked in memory; the store never queries inside the JSON body.
func (s *Searcher) SearchDocContent(ctx context.Context, p types.DocContentSearchParams) (*types.DocContentResult, error) {
	ws, err := s.resolveContext(ctx, p.Context)
	if err != nil {
		return nil, err
	}
	if p.Term == "" {
		return nil, fmt.Errorf("search term is required")
	}

	rec, err := s.store.GetEntity(ctx, types.EntityDoc, p.DocID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("document not found: %w", store.ErrNotFound)
		}
		return nil, err
	}
	if rec.Str("workspace_id") != ws.WorkspaceID {
		return nil, fmt.Errorf("document not found: %w", store.ErrNotFound)
	}

	var d types.Doc
	if err := store.DecodeRecord(rec, &d); err != nil {
		return nil, fmt.Errorf("document not found: %w", store.ErrNotFound)
	}

	window := p.SnippetWindow
	if window <= 0 {
		window = s.snippetWindow
	}
	result := searchContent(d.Content, p.Term, window)
	result.DocID = d.ID
	result.Title = d.Title
	return result, nil
}

// SearchWorkspaceContent runs the content search across every non-archived
// document in the workspace, up to an over-fetch cap, returning only
// documents that match at least once.
func (s *Searcher) SearchWorkspaceContent(ctx context.Context, p types.WorkspaceContentSearchParams) ([]types.DocContentResult, error) {
	ws, err := s.resolveContext(ctx, p.Context)
	if err != nil {
		return nil, err
	}
	if p.Term == "" {
		return nil, fmt.Errorf("search term is required")
	}

	docCap := p.MaxDocs
	if docCap <= 0 {
		docCap = s.contentDocCap
	}
	window := p.SnippetWindow
	if window <= 0 {
		window = s.snippetWindow
	}

	rows, err := s.store.QueryEntities(ctx, types.EntityDoc, store.Query{
		Filters: []store.ColumnFilter{wsFilter(ws.WorkspaceID), notArchived()},
		OrderBy: "updated_at", Desc: true, Limit: docCap,
	})
	if err != nil {
		return nil, err
	}

	var results []types.DocContentResult
	for _, r := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var d types.Doc
		if err := store.DecodeRecord(r, &d); err != nil {
			continue
		}
		hit := searchContent(d.Content, p.Term, window)
		if !hit.Found {
			continue
		}
		hit.DocID = d.ID
		hit.Title = d.Title
		results = append(results, *hit)
	}
	if results == nil {
		results = []types.DocContentResult{}
	}
	return results, nil
}
