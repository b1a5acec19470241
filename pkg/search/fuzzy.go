package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/loomworks/scout/pkg/store"
	"github.com/loomworks/scout/pkg/types"
	"github.com/loomworks/scout/pkg/utils"
)

// nameColumns maps each resolvable entity kind to its display-name column.
// Kinds absent here resolve through a special path (members via profiles,
// tags via aggregation) or not at all.
var nameColumns = map[types.EntityType]string{
	types.EntityTask:          "title",
	types.EntitySubtask:       "title",
	types.EntityProject:       "name",
	types.EntityClient:        "name",
	types.EntityTab:           "name",
	types.EntityBlock:         "title",
	types.EntityDoc:           "title",
	types.EntityTable:         "name",
	types.EntityTimelineEvent: "title",
	types.EntityFile:          "name",
	types.EntityPayment:       "title",
}

// scopeColumns maps kinds to the column holding their project scope, for
// scope-hint promotion. Kinds without a direct project column never promote.
var scopeColumns = map[types.EntityType]string{
	types.EntityTask:          "project_id",
	types.EntityProject:       "id",
	types.EntityTab:           "project_id",
	types.EntityDoc:           "project_id",
	types.EntityTable:         "project_id",
	types.EntityTimelineEvent: "project_id",
	types.EntityFile:          "project_id",
	types.EntityPayment:       "project_id",
}

// ResolveByName turns a human-supplied name into ranked entity candidates.
// Candidates come from a broad substring fetch over-fetched at twice the
// final cap, then each is classified: exact (full equality, case-folded),
// high (one side is a prefix of the other), partial (substring only). A
// partial candidate inside the hinted scope is promoted to high: scoped
// matches outrank unscoped equally-fuzzy ones. Order is tier, then
// scope-match, then input order.
func (s *Searcher) ResolveByName(ctx context.Context, p types.ResolveParams) ([]types.ResolvedEntity, error) {
	ws, err := s.resolveContext(ctx, p.Context)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(p.Name) == "" {
		return nil, fmt.Errorf("name is required")
	}
	limit := normalizeLimit(p.Limit, types.DefaultResolveLimit)

	switch p.EntityType {
	case types.EntityMember:
		return s.resolveMember(ctx, ws, p.Name, limit)
	case types.EntityTag:
		return s.resolveTag(ctx, ws, p.Name, limit)
	}

	column, ok := nameColumns[p.EntityType]
	if !ok {
		return nil, types.ErrUnknownEntity
	}

	q := store.Query{
		Text:    &store.TextFilter{Columns: []string{column}, Term: p.Name},
		OrderBy: "updated_at", Desc: true,
		Limit: limit * 2,
	}
	switch p.EntityType {
	case types.EntityTab, types.EntityBlock:
		// No workspace column; scope through the ownership chain.
		ids, err := s.workspaceTabOrProjectIDs(ctx, ws.WorkspaceID, p.EntityType)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return []types.ResolvedEntity{}, nil
		}
		col := "project_id"
		if p.EntityType == types.EntityBlock {
			col = "tab_id"
		}
		q.Filters = []store.ColumnFilter{{Column: col, Op: store.OpIn, Value: ids}}
	default:
		q.Filters = []store.ColumnFilter{wsFilter(ws.WorkspaceID)}
	}

	rows, err := s.store.QueryEntities(ctx, p.EntityType, q)
	if err != nil {
		return nil, err
	}

	scopeColumn := scopeColumns[p.EntityType]
	candidates := make([]scoredCandidate, 0, len(rows))
	for _, r := range rows {
		name := r.Str(column)
		tier, ok := classify(p.Name, name)
		if !ok {
			continue
		}
		scoped := p.ScopeProjectID != "" && scopeColumn != "" && r.Str(scopeColumn) == p.ScopeProjectID
		if scoped && tier == types.ConfidencePartial {
			tier = types.ConfidenceHigh
		}
		candidates = append(candidates, scoredCandidate{
			entity: types.ResolvedEntity{
				ID:         r.Str("id"),
				Name:       name,
				Type:       p.EntityType,
				Confidence: tier,
			},
			scoped: scoped,
		})
	}
	return rankCandidates(candidates, limit), nil
}

// ResolveField resolves a human-supplied field name to field IDs of one
// dynamic table's schema, with bounded edit distance as a last resort.
func (s *Searcher) ResolveField(ctx context.Context, wsCtx *types.WorkspaceContext, tableID, name string) ([]types.ResolvedEntity, error) {
	ws, err := s.resolveContext(ctx, wsCtx)
	if err != nil {
		return nil, err
	}
	rec, err := s.store.GetEntity(ctx, types.EntityTable, tableID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("table not found: %w", store.ErrNotFound)
		}
		return nil, err
	}
	if rec.Str("workspace_id") != ws.WorkspaceID {
		return nil, fmt.Errorf("table not found: %w", store.ErrNotFound)
	}
	var table types.Table
	if err := store.DecodeRecord(rec, &table); err != nil {
		return nil, fmt.Errorf("table not found: %w", store.ErrNotFound)
	}

	candidates := make([]scoredCandidate, 0, len(table.Fields))
	for _, field := range table.Fields {
		tier, ok := classify(name, field.Name)
		if !ok {
			if !withinEditDistance(name, field.Name) {
				continue
			}
			tier = types.ConfidencePartial
		}
		candidates = append(candidates, scoredCandidate{
			entity: types.ResolvedEntity{
				ID:         field.ID,
				Name:       field.Name,
				Type:       types.EntityTable,
				Confidence: tier,
				Context:    table.Name,
			},
		})
	}
	return rankCandidates(candidates, types.DefaultResolveLimit), nil
}

// resolveMember matches members by profile name or email.
func (s *Searcher) resolveMember(ctx context.Context, ws types.WorkspaceContext, name string, limit int) ([]types.ResolvedEntity, error) {
	members, err := s.memberList(ctx, ws.WorkspaceID, "")
	if err != nil {
		return nil, err
	}
	candidates := make([]scoredCandidate, 0, len(members))
	for _, m := range members {
		display := m.Name
		tier, ok := classify(name, display)
		if !ok && m.Email != "" {
			display = m.Email
			tier, ok = classify(name, m.Email)
		}
		if !ok {
			continue
		}
		candidates = append(candidates, scoredCandidate{
			entity: types.ResolvedEntity{
				ID:         m.UserID,
				Name:       display,
				Type:       types.EntityMember,
				Confidence: tier,
				Context:    m.Role,
			},
		})
	}
	return rankCandidates(candidates, limit), nil
}

// resolveTag matches the synthesized tag list, adding bounded edit distance
// for minor misspellings the substring rules miss.
func (s *Searcher) resolveTag(ctx context.Context, ws types.WorkspaceContext, name string, limit int) ([]types.ResolvedEntity, error) {
	wsCtx := ws
	tags, err := s.SearchTags(ctx, types.TagSearchParams{Context: &wsCtx})
	if err != nil {
		return nil, err
	}
	candidates := make([]scoredCandidate, 0, len(tags))
	for _, tag := range tags {
		tier, ok := classify(name, tag.Name)
		if !ok {
			if !withinEditDistance(name, tag.Name) {
				continue
			}
			tier = types.ConfidencePartial
		}
		candidates = append(candidates, scoredCandidate{
			entity: types.ResolvedEntity{
				ID:         tag.ID,
				Name:       tag.Name,
				Type:       types.EntityTag,
				Confidence: tier,
			},
		})
	}
	return rankCandidates(candidates, limit), nil
}

// workspaceTabOrProjectIDs returns the scope ID list for kinds without a
// workspace column: project IDs for tabs, tab IDs for blocks.
func (s *Searcher) workspaceTabOrProjectIDs(ctx context.Context, workspaceID string, kind types.EntityType) ([]string, error) {
	if kind == types.EntityBlock {
		return s.workspaceTabIDs(ctx, workspaceID, "")
	}
	return s.workspaceProjectIDs(ctx, workspaceID)
}

type scoredCandidate struct {
	entity types.ResolvedEntity
	scoped bool
}

// rankCandidates orders by confidence tier, then scope boolean, preserving
// input order within equal rank, and truncates.
func rankCandidates(candidates []scoredCandidate, limit int) []types.ResolvedEntity {
	sort.SliceStable(candidates, func(i, j int) bool {
		ri, rj := candidates[i].entity.Confidence.Rank(), candidates[j].entity.Confidence.Rank()
		if ri != rj {
			return ri < rj
		}
		return candidates[i].scoped && !candidates[j].scoped
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]types.ResolvedEntity, len(candidates))
	for i, c := range candidates {
		out[i] = c.entity
	}
	return out
}

// classify buckets a candidate name against the search term: exact on full
// case-folded equality, high when one is a prefix of the other, partial on
// substring containment either way.
func classify(term, name string) (types.Confidence, bool) {
	t := utils.FoldName(term)
	n := utils.FoldName(name)
	if t == "" || n == "" {
		return "", false
	}
	switch {
	case t == n:
		return types.ConfidenceExact, true
	case strings.HasPrefix(n, t) || strings.HasPrefix(t, n):
		return types.ConfidenceHigh, true
	case strings.Contains(n, t) || strings.Contains(t, n):
		return types.ConfidencePartial, true
	default:
		return "", false
	}
}

// fuzzyNameMatch is the tag-search predicate: substring containment first,
// bounded edit distance as the last resort.
func fuzzyNameMatch(term, name string) bool {
	if _, ok := classify(term, name); ok {
		return true
	}
	return withinEditDistance(term, name)
}

// withinEditDistance accepts a candidate whose alphanumeric-stripped,
// lowercased form is within a length-scaled Levenshtein threshold of the
// term: distance 1 up to 4 characters, 2 up to 7, 3 beyond.
func withinEditDistance(term, name string) bool {
	a := utils.StripNonAlnum(term)
	b := utils.StripNonAlnum(name)
	if a == "" || b == "" {
		return false
	}
	threshold := 3
	switch {
	case len(a) <= 4:
		threshold = 1
	case len(a) <= 7:
		threshold = 2
	}
	return levenshtein(a, b) <= threshold
}

// levenshtein computes edit distance with the two-row dynamic program.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min3(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
