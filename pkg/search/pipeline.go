package search

import (
	"context"
	"sort"

	"github.com/loomworks/scout/pkg/normalize"
	"github.com/loomworks/scout/pkg/schema"
	"github.com/loomworks/scout/pkg/store"
	"github.com/loomworks/scout/pkg/types"
	"github.com/loomworks/scout/pkg/utils"
)

// propertyRows fetches every value row for one definition, degrading to
// empty on store failure so a broken property scan never aborts the search.
func (s *Searcher) propertyRows(ctx context.Context, workspaceID string, entityType types.EntityType, definitionID string) []types.EntityProperty {
	rows, err := s.store.ListPropertyValues(ctx, workspaceID, entityType, definitionID)
	if err != nil {
		s.logger.Warn("property scan failed, degrading to empty match set",
			"entity_type", entityType, "definition_id", definitionID, "error", err)
		return nil
	}
	return rows
}

// columnIDs runs a column-only query and collects matching IDs.
func (s *Searcher) columnIDs(ctx context.Context, kind types.EntityType, filters []store.ColumnFilter) (IDSet, error) {
	rows, err := s.store.QueryEntities(ctx, kind, store.Query{Filters: filters})
	if err != nil {
		return nil, err
	}
	set := make(IDSet, len(rows))
	for _, r := range rows {
		set[r.Str("id")] = struct{}{}
	}
	return set, nil
}

// scalarKind tells scalarDimension which normalizer canonicalizes values.
type scalarKind int

const (
	scalarSelect scalarKind = iota
	scalarStatus
	scalarPriority
)

func canonicalScalar(kind scalarKind, raw string) string {
	switch kind {
	case scalarStatus:
		return normalize.Status(raw)
	case scalarPriority:
		return normalize.Priority(raw)
	default:
		return utils.FoldName(raw)
	}
}

// scalarDimension computes one filter dimension for a scalar-valued concern
// (status, priority) that exists both as a relational column and,
// optionally, as a custom property override. An entity matches when its
// property override normalizes into the requested set, or when it has no
// override and its column does. Entities whose override contradicts the
// filter are excluded even if their column matches.
func (s *Searcher) scalarDimension(ctx context.Context, ws types.WorkspaceContext, entityType types.EntityType, idx *schema.DefinitionIndex, defName string, kind scalarKind, values []string, column string, scope []store.ColumnFilter) (IDSet, error) {
	if len(values) == 0 {
		return nil, nil
	}

	wanted := make(map[string]struct{}, len(values))
	for _, v := range values {
		wanted[canonicalScalar(kind, v)] = struct{}{}
	}

	var def types.PropertyDefinition
	var hasDef bool
	if idx != nil {
		def, hasDef = idx.FindByName(defName)
	}

	propAny := make(IDSet)
	propMatched := make(IDSet)
	if hasDef {
		for _, row := range s.propertyRows(ctx, ws.WorkspaceID, entityType, def.ID) {
			propAny[row.EntityID] = struct{}{}
			raw := normalize.SelectScalar(normalize.Decode(row.Value))
			if raw == nil {
				continue
			}
			if _, ok := wanted[canonicalScalar(kind, *raw)]; ok {
				propMatched[row.EntityID] = struct{}{}
			}
		}
	}

	if column == "" {
		// Property-only concern (no relational column on this kind).
		return propMatched, nil
	}

	colMatched, err := s.columnIDs(ctx, entityType, append(append([]store.ColumnFilter{}, scope...),
		store.ColumnFilter{Column: column, Op: store.OpIn, Value: columnValueVariants(kind, values)}))
	if err != nil {
		return nil, err
	}

	set := make(IDSet, len(propMatched)+len(colMatched))
	for id := range propMatched {
		set[id] = struct{}{}
	}
	for id := range colMatched {
		// A contradicting override excludes the column match.
		if propAny.Contains(id) && !propMatched.Contains(id) {
			continue
		}
		set[id] = struct{}{}
	}
	return set, nil
}

// columnValueVariants widens the IN list with canonical forms so a column
// holding "In Progress" still matches a filter for "in_progress".
func columnValueVariants(kind scalarKind, values []string) []string {
	seen := make(map[string]struct{}, len(values)*2)
	var out []string
	for _, v := range values {
		for _, variant := range []string{v, canonicalScalar(kind, v)} {
			if variant == "" {
				continue
			}
			if _, dup := seen[variant]; dup {
				continue
			}
			seen[variant] = struct{}{}
			out = append(out, variant)
		}
	}
	return out
}

// assigneeDimension computes the person filter dimension. An assignee ID
// matches the Assignee property's id field or, for entities without an
// override, the assignee_id column. An assignee name matches only through
// the property (the column stores bare IDs).
func (s *Searcher) assigneeDimension(ctx context.Context, ws types.WorkspaceContext, entityType types.EntityType, idx *schema.DefinitionIndex, assigneeID, assigneeName, column string, scope []store.ColumnFilter) (IDSet, bool, error) {
	if assigneeID == "" && assigneeName == "" {
		return nil, false, nil
	}

	var def types.PropertyDefinition
	var hasDef bool
	if idx != nil {
		def, hasDef = idx.FindByName(schema.PropAssignee)
	}

	if assigneeName != "" {
		if !hasDef {
			// Schema miss: the name filter has nothing to match against, so
			// the dimension is inapplicable rather than empty.
			return nil, false, nil
		}
		return s.MatchByProperty(ctx, ws.WorkspaceID, entityType, def.ID, MatchByName, []string{assigneeName}), true, nil
	}

	propAny := make(IDSet)
	propMatched := make(IDSet)
	if hasDef {
		for _, row := range s.propertyRows(ctx, ws.WorkspaceID, entityType, def.ID) {
			propAny[row.EntityID] = struct{}{}
			for _, p := range normalize.People(normalize.Decode(row.Value)) {
				if p.ID == assigneeID {
					propMatched[row.EntityID] = struct{}{}
					break
				}
			}
		}
	}

	if column == "" {
		return propMatched, true, nil
	}
	colMatched, err := s.columnIDs(ctx, entityType, append(append([]store.ColumnFilter{}, scope...),
		store.ColumnFilter{Column: column, Op: store.OpEq, Value: assigneeID}))
	if err != nil {
		return nil, false, err
	}
	for id := range colMatched {
		if propAny.Contains(id) && !propMatched.Contains(id) {
			continue
		}
		propMatched[id] = struct{}{}
	}
	return propMatched, true, nil
}

// tagsDimension computes the tag filter dimension. Tags exist only as a
// property; a missing Tags definition disables the filter.
func (s *Searcher) tagsDimension(ctx context.Context, ws types.WorkspaceContext, entityType types.EntityType, idx *schema.DefinitionIndex, tagNames []string) (IDSet, bool) {
	if len(tagNames) == 0 || idx == nil {
		return nil, false
	}
	def, ok := idx.FindByName(schema.PropTags)
	if !ok {
		return nil, false
	}
	return s.MatchByProperty(ctx, ws.WorkspaceID, entityType, def.ID, MatchByName, tagNames), true
}

// dateDimension computes the date filter dimension: the Due Date property
// when set, else the relational date column. This set must be intersected
// with every previously computed dimension, never unioned in.
func (s *Searcher) dateDimension(ctx context.Context, ws types.WorkspaceContext, entityType types.EntityType, idx *schema.DefinitionIndex, defName string, filter types.DateFilter, column string, scope []store.ColumnFilter) (IDSet, error) {
	if filter.Empty() {
		return nil, nil
	}

	var def types.PropertyDefinition
	var hasDef bool
	if idx != nil {
		def, hasDef = idx.FindByName(defName)
	}

	propAny := make(IDSet)
	propMatched := make(IDSet)
	if hasDef {
		for _, row := range s.propertyRows(ctx, ws.WorkspaceID, entityType, def.ID) {
			propAny[row.EntityID] = struct{}{}
			date := normalize.DateString(normalize.Decode(row.Value))
			if dateMatches(date, filter) {
				propMatched[row.EntityID] = struct{}{}
			}
		}
	}

	if column == "" {
		return propMatched, nil
	}

	// Range-bound the column fetch where possible, then apply the exact
	// comparison in memory (eq compares on the date component).
	filters := append([]store.ColumnFilter{}, scope...)
	if filter.Gte != "" {
		filters = append(filters, store.ColumnFilter{Column: column, Op: store.OpGte, Value: filter.Gte})
	}
	rows, err := s.store.QueryEntities(ctx, entityType, store.Query{Filters: filters})
	if err != nil {
		return nil, err
	}
	set := make(IDSet, len(propMatched))
	for id := range propMatched {
		set[id] = struct{}{}
	}
	for _, r := range rows {
		id := r.Str("id")
		if propAny.Contains(id) {
			// Property value is authoritative for date-bearing entities.
			continue
		}
		col := r.Str(column)
		var date *string
		if col != "" {
			date = &col
		}
		if dateMatches(date, filter) {
			set[id] = struct{}{}
		}
	}
	return set, nil
}

// fetchMerged runs the primary query and, when a date dimension narrowed the
// candidate set, a secondary unlimited query over the same candidates. The
// batches are merged, deduplicated by ID, re-sorted, and re-truncated:
// date-matching rows may fall outside the primary fetch window.
func (s *Searcher) fetchMerged(ctx context.Context, kind types.EntityType, q store.Query, dateNarrowed bool) ([]store.Record, error) {
	primary, err := s.store.QueryEntities(ctx, kind, q)
	if err != nil {
		return nil, err
	}
	if !dateNarrowed {
		return primary, nil
	}
	full := q
	full.Limit = 0
	full.Offset = 0
	secondary, err := s.store.QueryEntities(ctx, kind, full)
	if err != nil {
		return nil, err
	}
	merged := mergeRecords(primary, secondary)
	sortRecordsByUpdated(merged)
	if q.Limit > 0 && len(merged) > q.Limit {
		merged = merged[:q.Limit]
	}
	return merged, nil
}

func mergeRecords(batches ...[]store.Record) []store.Record {
	seen := make(map[string]struct{})
	var out []store.Record
	for _, batch := range batches {
		for _, r := range batch {
			id := r.Str("id")
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, r)
		}
	}
	return out
}

func sortRecordsByUpdated(rows []store.Record) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Str("updated_at") > rows[j].Str("updated_at")
	})
}

func recordIDs(rows []store.Record) []string {
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.Str("id"))
	}
	return ids
}
