package search

import (
	"context"
	"sort"
	"strings"

	"github.com/loomworks/scout/pkg/normalize"
	"github.com/loomworks/scout/pkg/schema"
	"github.com/loomworks/scout/pkg/store"
	"github.com/loomworks/scout/pkg/types"
	"github.com/loomworks/scout/pkg/utils"
)

// tagBearingTypes are the entity kinds whose Tags property rows are scanned
// when synthesizing the workspace tag list.
var tagBearingTypes = []types.EntityType{
	types.EntityTask, types.EntityBlock, types.EntityTimelineEvent,
}

// SearchTags synthesizes the workspace's tags. Tags are not a first-class
// table; they are aggregated from the Tags property across every tag-bearing
// entity kind, deduplicated by id-or-name, and fuzzy-matched against the
// search term (substring plus bounded edit distance).
func (s *Searcher) SearchTags(ctx context.Context, p types.TagSearchParams) ([]types.TagResult, error) {
	ws, err := s.resolveContext(ctx, p.Context)
	if err != nil {
		return nil, err
	}
	limit := normalizeLimit(p.Limit, types.DefaultSearchLimit)

	idx, err := s.loadSchemaIndex(ctx, ws.WorkspaceID, true)
	if err != nil {
		return nil, err
	}
	def, ok := idx.FindByName(schema.PropTags)
	if !ok {
		return []types.TagResult{}, nil
	}

	byKey := make(map[string]*types.TagResult)
	var order []string
	for _, entityType := range tagBearingTypes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, row := range s.propertyRows(ctx, ws.WorkspaceID, entityType, def.ID) {
			for _, tag := range normalize.TagList(normalize.Decode(row.Value)) {
				key := tag.ID
				if key == "" || key == tag.Name {
					key = utils.FoldName(tag.Name)
				}
				if existing, seen := byKey[key]; seen {
					existing.UsageCount++
					if existing.Color == "" && tag.Color != "" {
						existing.Color = tag.Color
					}
					continue
				}
				byKey[key] = &types.TagResult{Tag: tag, UsageCount: 1}
				order = append(order, key)
			}
		}
	}

	results := make([]types.TagResult, 0, len(order))
	for _, key := range order {
		tr := byKey[key]
		if p.SearchText != "" && !fuzzyNameMatch(p.SearchText, tr.Name) {
			continue
		}
		results = append(results, *tr)
	}
	// Most-used first, stable within equal counts.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].UsageCount > results[j].UsageCount
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// SearchPropertyDefinitions finds the workspace's custom property
// definitions by name and declared type.
func (s *Searcher) SearchPropertyDefinitions(ctx context.Context, p types.PropertyDefSearchParams) ([]types.PropertyDefinition, error) {
	ws, err := s.resolveContext(ctx, p.Context)
	if err != nil {
		return nil, err
	}
	limit := normalizeLimit(p.Limit, types.DefaultSearchLimit)

	defs, err := s.store.ListPropertyDefinitions(ctx, ws.WorkspaceID)
	if err != nil {
		return nil, err
	}

	term := strings.ToLower(p.SearchText)
	results := make([]types.PropertyDefinition, 0, len(defs))
	for _, def := range defs {
		if term != "" && !strings.Contains(strings.ToLower(def.Name), term) {
			continue
		}
		if len(p.Types) > 0 && !containsType(p.Types, def.Type) {
			continue
		}
		results = append(results, def)
		if len(results) >= limit {
			break
		}
	}
	return results, nil
}

func containsType(allowed []types.PropertyType, t types.PropertyType) bool {
	for _, v := range allowed {
		if v == t {
			return true
		}
	}
	return false
}

// SearchEntityLinks finds links by either endpoint and enriches both ends
// with display names where the endpoint kind has one.
func (s *Searcher) SearchEntityLinks(ctx context.Context, p types.EntityLinkSearchParams) ([]types.EntityLinkResult, error) {
	ws, err := s.resolveContext(ctx, p.Context)
	if err != nil {
		return nil, err
	}
	limit := normalizeLimit(p.Limit, types.DefaultSearchLimit)

	q := store.Query{
		Filters: []store.ColumnFilter{wsFilter(ws.WorkspaceID)},
		OrderBy: "created_at", Desc: true, Limit: limit,
	}
	if p.SourceType != "" {
		q.Filters = append(q.Filters, store.ColumnFilter{Column: "source_type", Op: store.OpEq, Value: string(p.SourceType)})
	}
	if p.SourceID != "" {
		q.Filters = append(q.Filters, store.ColumnFilter{Column: "source_id", Op: store.OpEq, Value: p.SourceID})
	}
	if p.TargetType != "" {
		q.Filters = append(q.Filters, store.ColumnFilter{Column: "target_type", Op: store.OpEq, Value: string(p.TargetType)})
	}
	if p.TargetID != "" {
		q.Filters = append(q.Filters, store.ColumnFilter{Column: "target_id", Op: store.OpEq, Value: p.TargetID})
	}

	rows, err := s.store.QueryEntities(ctx, types.EntityLinkType, q)
	if err != nil {
		return nil, err
	}

	// Batch the endpoint name lookups per kind.
	wanted := make(map[types.EntityType]IDSet)
	collect := func(kind types.EntityType, id string) {
		if id == "" || nameColumns[kind] == "" {
			return
		}
		if wanted[kind] == nil {
			wanted[kind] = make(IDSet)
		}
		wanted[kind][id] = struct{}{}
	}
	for _, r := range rows {
		collect(types.EntityType(r.Str("source_type")), r.Str("source_id"))
		collect(types.EntityType(r.Str("target_type")), r.Str("target_id"))
	}
	names := make(map[types.EntityType]map[string]string, len(wanted))
	for kind, ids := range wanted {
		names[kind] = s.entityNames(ctx, kind, nameColumns[kind], ids)
	}

	results := make([]types.EntityLinkResult, 0, len(rows))
	for _, r := range rows {
		var link types.EntityLink
		if err := store.DecodeRecord(r, &link); err != nil {
			s.logger.Warn("skipping undecodable entity link row", "id", r.Str("id"), "error", err)
			continue
		}
		results = append(results, types.EntityLinkResult{
			ID:         link.ID,
			SourceType: link.SourceType,
			SourceID:   link.SourceID,
			SourceName: names[link.SourceType][link.SourceID],
			TargetType: link.TargetType,
			TargetID:   link.TargetID,
			TargetName: names[link.TargetType][link.TargetID],
		})
	}
	return results, nil
}
