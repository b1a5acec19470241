package search

import (
	"context"

	"github.com/loomworks/scout/pkg/store"
	"github.com/loomworks/scout/pkg/types"
)

// SearchFiles finds file metadata rows by name.
func (s *Searcher) SearchFiles(ctx context.Context, p types.FileSearchParams) ([]types.FileResult, error) {
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
	if p.MimeType != "" {
		q.Filters = append(q.Filters, store.ColumnFilter{Column: "mime_type", Op: store.OpContains, Value: p.MimeType})
	}
	if p.SearchText != "" {
		q.Text = &store.TextFilter{Columns: []string{"name"}, Term: p.SearchText}
	}

	rows, err := s.store.QueryEntities(ctx, types.EntityFile, q)
	if err != nil {
		return nil, err
	}

	projectIDs := make(IDSet)
	uploaderIDs := make(IDSet)
	for _, r := range rows {
		if pid := r.Str("project_id"); pid != "" {
			projectIDs[pid] = struct{}{}
		}
		if uid := r.Str("uploaded_by"); uid != "" {
			uploaderIDs[uid] = struct{}{}
		}
	}
	projectNames := s.entityNames(ctx, types.EntityProject, "name", projectIDs)
	profiles := s.profiles(ctx, uploaderIDs.Slice())

	results := make([]types.FileResult, 0, len(rows))
	for _, r := range rows {
		var f types.File
		if err := store.DecodeRecord(r, &f); err != nil {
			s.logger.Warn("skipping undecodable file row", "id", r.Str("id"), "error", err)
			continue
		}
		results = append(results, types.FileResult{
			ID:           f.ID,
			Name:         f.Name,
			MimeType:     f.MimeType,
			SizeBytes:    f.SizeBytes,
			ProjectID:    f.ProjectID,
			ProjectName:  projectNames[f.ProjectID],
			UploadedBy:   f.UploadedBy,
			UploaderName: profiles[f.UploadedBy].Name,
			UpdatedAt:    f.UpdatedAt,
		})
	}
	return results, nil
}

// SearchComments finds comments by body text, optionally scoped to one
// entity or author.
func (s *Searcher) SearchComments(ctx context.Context, p types.CommentSearchParams) ([]types.CommentResult, error) {
	ws, err := s.resolveContext(ctx, p.Context)
	if err != nil {
		return nil, err
	}
	limit := normalizeLimit(p.Limit, types.DefaultSearchLimit)

	q := store.Query{
		Filters: []store.ColumnFilter{wsFilter(ws.WorkspaceID)},
		OrderBy: "created_at", Desc: true, Limit: limit,
	}
	if p.EntityType != "" {
		q.Filters = append(q.Filters, store.ColumnFilter{Column: "entity_type", Op: store.OpEq, Value: string(p.EntityType)})
	}
	if p.EntityID != "" {
		q.Filters = append(q.Filters, store.ColumnFilter{Column: "entity_id", Op: store.OpEq, Value: p.EntityID})
	}
	if p.AuthorID != "" {
		q.Filters = append(q.Filters, store.ColumnFilter{Column: "author_id", Op: store.OpEq, Value: p.AuthorID})
	}
	if p.SearchText != "" {
		q.Text = &store.TextFilter{Columns: []string{"body"}, Term: p.SearchText}
	}

	rows, err := s.store.QueryEntities(ctx, types.EntityComment, q)
	if err != nil {
		return nil, err
	}

	authorIDs := make(IDSet)
	for _, r := range rows {
		if uid := r.Str("author_id"); uid != "" {
			authorIDs[uid] = struct{}{}
		}
	}
	profiles := s.profiles(ctx, authorIDs.Slice())

	results := make([]types.CommentResult, 0, len(rows))
	for _, r := range rows {
		var c types.Comment
		if err := store.DecodeRecord(r, &c); err != nil {
			s.logger.Warn("skipping undecodable comment row", "id", r.Str("id"), "error", err)
			continue
		}
		results = append(results, types.CommentResult{
			ID:         c.ID,
			EntityType: c.EntityType,
			EntityID:   c.EntityID,
			AuthorID:   c.AuthorID,
			AuthorName: profiles[c.AuthorID].Name,
			Body:       c.Body,
			CreatedAt:  c.CreatedAt,
		})
	}
	return results, nil
}
