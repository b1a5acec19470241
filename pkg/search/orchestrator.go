package search

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/loomworks/scout/pkg/types"
	"github.com/loomworks/scout/pkg/utils"
)

// unifiedTypes is the fan-out set when the caller selects no entity types.
var unifiedTypes = []types.EntityType{
	types.EntityTask, types.EntitySubtask, types.EntityProject,
	types.EntityClient, types.EntityMember, types.EntityTab,
	types.EntityBlock, types.EntityDoc, types.EntityTable,
	types.EntityTimelineEvent, types.EntityFile, types.EntityComment,
	types.EntityPayment,
}

// SearchAll fans the text query out to every selected per-type search
// concurrently (bounded by the number of selected types), merges the rows
// into one flat list, relevance-sorts, and paginates. One failing type
// degrades to zero results for that type; only tenant resolution aborts the
// whole call.
func (s *Searcher) SearchAll(ctx context.Context, p types.UnifiedSearchParams) (*types.UnifiedSearchResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	ws, err := s.resolveContext(ctx, p.Context)
	if err != nil {
		return nil, err
	}
	limit := normalizeLimit(p.Limit, types.DefaultUnifiedLimit)

	selected := p.EntityTypes
	if len(selected) == 0 {
		selected = unifiedTypes
	}

	perType := make([][]types.UnifiedResult, len(selected))
	jobs := make([]func() error, len(selected))
	for i, entityType := range selected {
		jobs[i] = func() error {
			rows, err := s.searchOneType(ctx, ws, entityType, p, limit)
			if err != nil {
				return err
			}
			perType[i] = rows
			return nil
		}
	}

	executor := utils.NewConcurrentExecutor(len(selected))
	for i, err := range executor.Execute(ctx, jobs...) {
		if err != nil {
			// Degrade the failing type to an empty contribution.
			s.logger.Warn("unified search leg failed", "entity_type", selected[i], "error", err)
			perType[i] = nil
		}
	}

	var merged []types.UnifiedResult
	for _, rows := range perType {
		merged = append(merged, rows...)
	}
	sortByRelevance(merged, p.SearchText, p.ScopeProjectID)

	total := len(merged)
	start := p.Offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	page := merged[start:end]
	if page == nil {
		page = []types.UnifiedResult{}
	}
	return &types.UnifiedSearchResult{
		Data:       page,
		TotalCount: total,
		HasMore:    end < total,
	}, nil
}

// searchOneType runs one fan-out leg, reusing the pre-resolved workspace
// context, and flattens the typed results.
func (s *Searcher) searchOneType(ctx context.Context, ws types.WorkspaceContext, entityType types.EntityType, p types.UnifiedSearchParams, limit int) ([]types.UnifiedResult, error) {
	wsCtx := &ws
	text := p.SearchText
	scope := p.ScopeProjectID

	flat := func(id, name, projectID, context string, updated time.Time) types.UnifiedResult {
		return types.UnifiedResult{
			ID: id, Name: name, Type: entityType,
			ProjectID: projectID, Context: context, UpdatedAt: updated,
		}
	}

	switch entityType {
	case types.EntityTask:
		rows, err := s.SearchTasks(ctx, types.TaskSearchParams{Context: wsCtx, SearchText: text, ProjectID: scope, Limit: limit})
		if err != nil {
			return nil, err
		}
		out := make([]types.UnifiedResult, 0, len(rows))
		for _, r := range rows {
			out = append(out, flat(r.ID, r.Title, r.ProjectID, r.ProjectName, r.UpdatedAt))
		}
		return out, nil
	case types.EntitySubtask:
		rows, err := s.SearchSubtasks(ctx, types.SubtaskSearchParams{Context: wsCtx, SearchText: text, Limit: limit})
		if err != nil {
			return nil, err
		}
		out := make([]types.UnifiedResult, 0, len(rows))
		for _, r := range rows {
			out = append(out, flat(r.ID, r.Title, "", r.TaskTitle, r.UpdatedAt))
		}
		return out, nil
	case types.EntityProject:
		rows, err := s.SearchProjects(ctx, types.ProjectSearchParams{Context: wsCtx, SearchText: text, Limit: limit})
		if err != nil {
			return nil, err
		}
		out := make([]types.UnifiedResult, 0, len(rows))
		for _, r := range rows {
			out = append(out, flat(r.ID, r.Name, r.ID, r.ClientName, r.UpdatedAt))
		}
		return out, nil
	case types.EntityClient:
		rows, err := s.SearchClients(ctx, types.ClientSearchParams{Context: wsCtx, SearchText: text, Limit: limit})
		if err != nil {
			return nil, err
		}
		out := make([]types.UnifiedResult, 0, len(rows))
		for _, r := range rows {
			out = append(out, flat(r.ID, r.Name, "", r.Company, r.UpdatedAt))
		}
		return out, nil
	case types.EntityMember:
		rows, err := s.SearchMembers(ctx, types.MemberSearchParams{Context: wsCtx, SearchText: text, Limit: limit})
		if err != nil {
			return nil, err
		}
		out := make([]types.UnifiedResult, 0, len(rows))
		for _, r := range rows {
			out = append(out, flat(r.UserID, r.Name, "", r.Role, time.Time{}))
		}
		return out, nil
	case types.EntityTab:
		rows, err := s.SearchTabs(ctx, types.TabSearchParams{Context: wsCtx, SearchText: text, ProjectID: scope, Limit: limit})
		if err != nil {
			return nil, err
		}
		out := make([]types.UnifiedResult, 0, len(rows))
		for _, r := range rows {
			out = append(out, flat(r.ID, r.Name, r.ProjectID, r.ProjectName, r.UpdatedAt))
		}
		return out, nil
	case types.EntityBlock:
		rows, err := s.SearchBlocks(ctx, types.BlockSearchParams{Context: wsCtx, SearchText: text, ProjectID: scope, Limit: limit})
		if err != nil {
			return nil, err
		}
		out := make([]types.UnifiedResult, 0, len(rows))
		for _, r := range rows {
			out = append(out, flat(r.ID, r.Title, r.ProjectID, r.TabName, r.UpdatedAt))
		}
		return out, nil
	case types.EntityDoc:
		rows, err := s.SearchDocs(ctx, types.DocSearchParams{Context: wsCtx, SearchText: text, ProjectID: scope, Limit: limit})
		if err != nil {
			return nil, err
		}
		out := make([]types.UnifiedResult, 0, len(rows))
		for _, r := range rows {
			out = append(out, flat(r.ID, r.Title, r.ProjectID, r.ProjectName, r.UpdatedAt))
		}
		return out, nil
	case types.EntityTable:
		rows, err := s.SearchTables(ctx, types.TableSearchParams{Context: wsCtx, SearchText: text, ProjectID: scope, Limit: limit})
		if err != nil {
			return nil, err
		}
		out := make([]types.UnifiedResult, 0, len(rows))
		for _, r := range rows {
			out = append(out, flat(r.ID, r.Name, r.ProjectID, r.ProjectName, r.UpdatedAt))
		}
		return out, nil
	case types.EntityTimelineEvent:
		rows, err := s.SearchTimelineEvents(ctx, types.TimelineEventSearchParams{Context: wsCtx, SearchText: text, ProjectID: scope, Limit: limit})
		if err != nil {
			return nil, err
		}
		out := make([]types.UnifiedResult, 0, len(rows))
		for _, r := range rows {
			out = append(out, flat(r.ID, r.Title, r.ProjectID, r.ProjectName, r.UpdatedAt))
		}
		return out, nil
	case types.EntityFile:
		rows, err := s.SearchFiles(ctx, types.FileSearchParams{Context: wsCtx, SearchText: text, ProjectID: scope, Limit: limit})
		if err != nil {
			return nil, err
		}
		out := make([]types.UnifiedResult, 0, len(rows))
		for _, r := range rows {
			out = append(out, flat(r.ID, r.Name, r.ProjectID, r.ProjectName, r.UpdatedAt))
		}
		return out, nil
	case types.EntityComment:
		rows, err := s.SearchComments(ctx, types.CommentSearchParams{Context: wsCtx, SearchText: text, Limit: limit})
		if err != nil {
			return nil, err
		}
		out := make([]types.UnifiedResult, 0, len(rows))
		for _, r := range rows {
			out = append(out, flat(r.ID, r.Body, "", r.AuthorName, r.CreatedAt))
		}
		return out, nil
	case types.EntityPayment:
		rows, err := s.SearchPayments(ctx, types.PaymentSearchParams{Context: wsCtx, SearchText: text, ProjectID: scope, Limit: limit})
		if err != nil {
			return nil, err
		}
		out := make([]types.UnifiedResult, 0, len(rows))
		for _, r := range rows {
			out = append(out, flat(r.ID, r.Title, r.ProjectID, r.ClientName, r.UpdatedAt))
		}
		return out, nil
	default:
		return nil, types.ErrUnknownEntity
	}
}

// sortByRelevance orders merged rows: exact name match first, then
// scope-matched rows, then prefix matches, preserving per-type order past
// that.
func sortByRelevance(rows []types.UnifiedResult, term, scopeProjectID string) {
	folded := utils.FoldName(term)
	rank := func(r types.UnifiedResult) int {
		name := utils.FoldName(r.Name)
		switch {
		case folded != "" && name == folded:
			return 0
		case scopeProjectID != "" && r.ProjectID == scopeProjectID:
			return 1
		case folded != "" && strings.HasPrefix(name, folded):
			return 2
		default:
			return 3
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rank(rows[i]) < rank(rows[j])
	})
}
