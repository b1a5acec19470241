package search

import (
	"context"

	"github.com/loomworks/scout/pkg/store"
	"github.com/loomworks/scout/pkg/types"
)

// SearchTimelineEvents finds timeline events by text, time window, and
// property-backed assignee/tag filters.
func (s *Searcher) SearchTimelineEvents(ctx context.Context, p types.TimelineEventSearchParams) ([]types.TimelineEventResult, error) {
	ws, err := s.resolveContext(ctx, p.Context)
	if err != nil {
		return nil, err
	}
	limit := normalizeLimit(p.Limit, types.DefaultSearchLimit)
	scope := []store.ColumnFilter{wsFilter(ws.WorkspaceID)}

	hasPropFilters := p.AssigneeName != "" || len(p.TagNames) > 0
	idx, err := s.loadSchemaIndex(ctx, ws.WorkspaceID, hasPropFilters)
	if err != nil {
		return nil, err
	}

	var candidates IDSet

	set, applied, err := s.assigneeDimension(ctx, ws, types.EntityTimelineEvent, idx, "", p.AssigneeName, "", nil)
	if err != nil {
		return nil, err
	}
	if applied {
		if candidates = Intersect(candidates, set); len(candidates) == 0 {
			return []types.TimelineEventResult{}, nil
		}
	}

	if set, applied := s.tagsDimension(ctx, ws, types.EntityTimelineEvent, idx, p.TagNames); applied {
		if candidates = Intersect(candidates, set); len(candidates) == 0 {
			return []types.TimelineEventResult{}, nil
		}
	}

	q := store.Query{Filters: scope, OrderBy: "start_at", Desc: false, Limit: limit}
	if p.ProjectID != "" {
		q.Filters = append(q.Filters, store.ColumnFilter{Column: "project_id", Op: store.OpEq, Value: p.ProjectID})
	}
	if p.From != "" {
		q.Filters = append(q.Filters, store.ColumnFilter{Column: "start_at", Op: store.OpGte, Value: p.From})
	}
	if p.To != "" {
		q.Filters = append(q.Filters, store.ColumnFilter{Column: "start_at", Op: store.OpLte, Value: p.To})
	}
	if candidates != nil {
		q.Filters = append(q.Filters, store.ColumnFilter{Column: "id", Op: store.OpIn, Value: candidates.Slice()})
	}
	if p.SearchText != "" {
		q.Text = &store.TextFilter{Columns: []string{"title", "description"}, Term: p.SearchText}
	}

	rows, err := s.store.QueryEntities(ctx, types.EntityTimelineEvent, q)
	if err != nil {
		return nil, err
	}

	overlays := s.loadOverlays(ctx, ws.WorkspaceID, types.EntityTimelineEvent, recordIDs(rows), idx)

	projectIDs := make(IDSet)
	for _, r := range rows {
		if pid := r.Str("project_id"); pid != "" {
			projectIDs[pid] = struct{}{}
		}
	}
	projectNames := s.entityNames(ctx, types.EntityProject, "name", projectIDs)

	results := make([]types.TimelineEventResult, 0, len(rows))
	for _, r := range rows {
		var ev types.TimelineEvent
		if err := store.DecodeRecord(r, &ev); err != nil {
			s.logger.Warn("skipping undecodable timeline event row", "id", r.Str("id"), "error", err)
			continue
		}
		o := overlays[ev.ID]
		results = append(results, types.TimelineEventResult{
			ID:          ev.ID,
			Title:       ev.Title,
			StartAt:     ev.StartAt,
			EndAt:       ev.EndAt,
			ProjectID:   ev.ProjectID,
			ProjectName: projectNames[ev.ProjectID],
			Assignees:   o.assignees,
			Tags:        o.tags,
			UpdatedAt:   ev.UpdatedAt,
		})
	}
	return results, nil
}
