package search

import (
	"context"

	"github.com/loomworks/scout/pkg/schema"
	"github.com/loomworks/scout/pkg/store"
	"github.com/loomworks/scout/pkg/types"
)

// notArchived matches rows whose archived column is unset or false.
func notArchived() store.ColumnFilter {
	return store.ColumnFilter{Column: "archived", Op: store.OpIn, Value: []string{"", "false"}}
}

// loadSchemaIndex loads the workspace's definition index. When the caller
// has property-backed filters the load failure is fatal; otherwise the index
// is only needed for enrichment and the failure degrades to column-only
// results.
func (s *Searcher) loadSchemaIndex(ctx context.Context, workspaceID string, required bool) (*schema.DefinitionIndex, error) {
	idx, err := s.schema.Load(ctx, workspaceID)
	if err != nil {
		if required {
			return nil, err
		}
		s.logger.Warn("schema load failed, enrichment disabled", "workspace_id", workspaceID, "error", err)
		return nil, nil
	}
	return idx, nil
}

// SearchTasks finds tasks by column filters, free text across title and
// description, and property-backed filters (assignee, tags, status,
// priority, due date) combined with AND semantics.
func (s *Searcher) SearchTasks(ctx context.Context, p types.TaskSearchParams) ([]types.TaskResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	ws, err := s.resolveContext(ctx, p.Context)
	if err != nil {
		return nil, err
	}
	limit := normalizeLimit(p.Limit, types.DefaultSearchLimit)
	scope := []store.ColumnFilter{wsFilter(ws.WorkspaceID)}

	hasPropFilters := len(p.Status) > 0 || len(p.Priority) > 0 || p.AssigneeID != "" ||
		p.AssigneeName != "" || len(p.TagNames) > 0 || !p.DueDate.Empty()
	idx, err := s.loadSchemaIndex(ctx, ws.WorkspaceID, hasPropFilters)
	if err != nil {
		return nil, err
	}

	var candidates IDSet

	set, err := s.scalarDimension(ctx, ws, types.EntityTask, idx, schema.PropStatus, scalarStatus, p.Status, "status", scope)
	if err != nil {
		return nil, err
	}
	if set != nil {
		if candidates = Intersect(candidates, set); len(candidates) == 0 {
			return []types.TaskResult{}, nil
		}
	}

	set, err = s.scalarDimension(ctx, ws, types.EntityTask, idx, schema.PropPriority, scalarPriority, p.Priority, "priority", scope)
	if err != nil {
		return nil, err
	}
	if set != nil {
		if candidates = Intersect(candidates, set); len(candidates) == 0 {
			return []types.TaskResult{}, nil
		}
	}

	set, applied, err := s.assigneeDimension(ctx, ws, types.EntityTask, idx, p.AssigneeID, p.AssigneeName, "assignee_id", scope)
	if err != nil {
		return nil, err
	}
	if applied {
		if candidates = Intersect(candidates, set); len(candidates) == 0 {
			return []types.TaskResult{}, nil
		}
	}

	if set, applied := s.tagsDimension(ctx, ws, types.EntityTask, idx, p.TagNames); applied {
		if candidates = Intersect(candidates, set); len(candidates) == 0 {
			return []types.TaskResult{}, nil
		}
	}

	dateSet, err := s.dateDimension(ctx, ws, types.EntityTask, idx, schema.PropDueDate, p.DueDate, "due_date", scope)
	if err != nil {
		return nil, err
	}
	dateNarrowed := dateSet != nil
	if dateNarrowed {
		if candidates = Intersect(candidates, dateSet); len(candidates) == 0 {
			return []types.TaskResult{}, nil
		}
	}

	q := store.Query{Filters: scope, OrderBy: "updated_at", Desc: true, Limit: limit}
	if p.ProjectID != "" {
		q.Filters = append(q.Filters, store.ColumnFilter{Column: "project_id", Op: store.OpEq, Value: p.ProjectID})
	}
	if !p.IncludeArchived {
		q.Filters = append(q.Filters, notArchived())
	}
	if candidates != nil {
		q.Filters = append(q.Filters, store.ColumnFilter{Column: "id", Op: store.OpIn, Value: candidates.Slice()})
	}
	if p.SearchText != "" {
		q.Text = &store.TextFilter{Columns: []string{"title", "description"}, Term: p.SearchText}
	}

	rows, err := s.fetchMerged(ctx, types.EntityTask, q, dateNarrowed)
	if err != nil {
		return nil, err
	}

	overlays := s.loadOverlays(ctx, ws.WorkspaceID, types.EntityTask, recordIDs(rows), idx)

	projectIDs := make(IDSet)
	fallbackUsers := make(IDSet)
	for _, r := range rows {
		if pid := r.Str("project_id"); pid != "" {
			projectIDs[pid] = struct{}{}
		}
		id := r.Str("id")
		if len(overlays[id].assignees) == 0 {
			if uid := r.Str("assignee_id"); uid != "" {
				fallbackUsers[uid] = struct{}{}
			}
		}
	}
	projectNames := s.entityNames(ctx, types.EntityProject, "name", projectIDs)
	profiles := s.profiles(ctx, fallbackUsers.Slice())

	results := make([]types.TaskResult, 0, len(rows))
	for _, r := range rows {
		var t types.Task
		if err := store.DecodeRecord(r, &t); err != nil {
			s.logger.Warn("skipping undecodable task row", "id", r.Str("id"), "error", err)
			continue
		}
		o := overlays[t.ID]
		tr := types.TaskResult{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Status:      o.effectiveStatus(t.Status),
			Priority:    o.effectivePriority(t.Priority),
			DueDate:     o.effectiveDueDate(t.DueDate),
			ProjectID:   t.ProjectID,
			ProjectName: projectNames[t.ProjectID],
			Assignees:   o.assignees,
			Tags:        o.tags,
			Archived:    t.Archived,
			UpdatedAt:   t.UpdatedAt,
		}
		if len(tr.Assignees) == 0 && t.AssigneeID != "" {
			tr.Assignees = []types.Person{{ID: t.AssigneeID, Name: profiles[t.AssigneeID].Name}}
		}
		results = append(results, tr)
	}
	return results, nil
}

// SearchSubtasks finds subtasks, optionally scoped to one parent task.
func (s *Searcher) SearchSubtasks(ctx context.Context, p types.SubtaskSearchParams) ([]types.SubtaskResult, error) {
	ws, err := s.resolveContext(ctx, p.Context)
	if err != nil {
		return nil, err
	}
	limit := normalizeLimit(p.Limit, types.DefaultSearchLimit)
	scope := []store.ColumnFilter{wsFilter(ws.WorkspaceID)}

	hasPropFilters := len(p.Status) > 0 || p.AssigneeID != "" || p.AssigneeName != ""
	idx, err := s.loadSchemaIndex(ctx, ws.WorkspaceID, hasPropFilters)
	if err != nil {
		return nil, err
	}

	var candidates IDSet

	set, err := s.scalarDimension(ctx, ws, types.EntitySubtask, idx, schema.PropStatus, scalarStatus, p.Status, "status", scope)
	if err != nil {
		return nil, err
	}
	if set != nil {
		if candidates = Intersect(candidates, set); len(candidates) == 0 {
			return []types.SubtaskResult{}, nil
		}
	}

	set, applied, err := s.assigneeDimension(ctx, ws, types.EntitySubtask, idx, p.AssigneeID, p.AssigneeName, "assignee_id", scope)
	if err != nil {
		return nil, err
	}
	if applied {
		if candidates = Intersect(candidates, set); len(candidates) == 0 {
			return []types.SubtaskResult{}, nil
		}
	}

	q := store.Query{Filters: scope, OrderBy: "updated_at", Desc: true, Limit: limit}
	if p.TaskID != "" {
		q.Filters = append(q.Filters, store.ColumnFilter{Column: "task_id", Op: store.OpEq, Value: p.TaskID})
	}
	if candidates != nil {
		q.Filters = append(q.Filters, store.ColumnFilter{Column: "id", Op: store.OpIn, Value: candidates.Slice()})
	}
	if p.SearchText != "" {
		q.Text = &store.TextFilter{Columns: []string{"title"}, Term: p.SearchText}
	}

	rows, err := s.store.QueryEntities(ctx, types.EntitySubtask, q)
	if err != nil {
		return nil, err
	}

	overlays := s.loadOverlays(ctx, ws.WorkspaceID, types.EntitySubtask, recordIDs(rows), idx)

	taskIDs := make(IDSet)
	for _, r := range rows {
		if tid := r.Str("task_id"); tid != "" {
			taskIDs[tid] = struct{}{}
		}
	}
	taskTitles := s.entityNames(ctx, types.EntityTask, "title", taskIDs)

	results := make([]types.SubtaskResult, 0, len(rows))
	for _, r := range rows {
		var st types.Subtask
		if err := store.DecodeRecord(r, &st); err != nil {
			s.logger.Warn("skipping undecodable subtask row", "id", r.Str("id"), "error", err)
			continue
		}
		o := overlays[st.ID]
		sr := types.SubtaskResult{
			ID:        st.ID,
			TaskID:    st.TaskID,
			TaskTitle: taskTitles[st.TaskID],
			Title:     st.Title,
			Status:    o.effectiveStatus(st.Status),
			DueDate:   o.effectiveDueDate(st.DueDate),
			Assignees: o.assignees,
			UpdatedAt: st.UpdatedAt,
		}
		if len(sr.Assignees) == 0 && st.AssigneeID != "" {
			sr.Assignees = []types.Person{{ID: st.AssigneeID}}
		}
		results = append(results, sr)
	}
	return results, nil
}
