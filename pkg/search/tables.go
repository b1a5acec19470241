package search

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/loomworks/scout/pkg/normalize"
	"github.com/loomworks/scout/pkg/store"
	"github.com/loomworks/scout/pkg/types"
	"github.com/loomworks/scout/pkg/utils"
)

// SearchTables finds dynamic tables by name.
func (s *Searcher) SearchTables(ctx context.Context, p types.TableSearchParams) ([]types.TableResult, error) {
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
	if p.SearchText != "" {
		q.Text = &store.TextFilter{Columns: []string{"name"}, Term: p.SearchText}
	}

	rows, err := s.store.QueryEntities(ctx, types.EntityTable, q)
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

	results := make([]types.TableResult, 0, len(rows))
	for _, r := range rows {
		var t types.Table
		if err := store.DecodeRecord(r, &t); err != nil {
			s.logger.Warn("skipping undecodable table row", "id", r.Str("id"), "error", err)
			continue
		}
		results = append(results, types.TableResult{
			ID:          t.ID,
			Name:        t.Name,
			ProjectID:   t.ProjectID,
			ProjectName: projectNames[t.ProjectID],
			Fields:      t.Fields,
			UpdatedAt:   t.UpdatedAt,
		})
	}
	return results, nil
}

// SearchTableRows finds rows of one table. Row data is a field-ID-keyed JSON
// blob; field filters and free text apply in memory after fetch with
// type-appropriate comparison per value shape.
func (s *Searcher) SearchTableRows(ctx context.Context, p types.TableRowSearchParams) ([]types.TableRowResult, error) {
	ws, err := s.resolveContext(ctx, p.Context)
	if err != nil {
		return nil, err
	}
	if p.TableID == "" {
		return nil, fmt.Errorf("table_id is required")
	}
	limit := normalizeLimit(p.Limit, types.DefaultRowLimit)

	// Verify the table belongs to the workspace before touching rows.
	tableRec, err := s.store.GetEntity(ctx, types.EntityTable, p.TableID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("table not found: %w", store.ErrNotFound)
		}
		return nil, err
	}
	if tableRec.Str("workspace_id") != ws.WorkspaceID {
		return nil, fmt.Errorf("table not found: %w", store.ErrNotFound)
	}

	rows, err := s.store.QueryEntities(ctx, types.EntityTableRow, store.Query{
		Filters: []store.ColumnFilter{
			wsFilter(ws.WorkspaceID),
			{Column: "table_id", Op: store.OpEq, Value: p.TableID},
		},
		OrderBy: "position",
	})
	if err != nil {
		return nil, err
	}

	results := make([]types.TableRowResult, 0, len(rows))
	for _, r := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var row types.TableRow
		if err := store.DecodeRecord(r, &row); err != nil {
			s.logger.Warn("skipping undecodable table row", "id", r.Str("id"), "error", err)
			continue
		}
		data, _ := normalize.Decode(row.Data).(map[string]any)
		if !rowMatches(data, p.FieldFilters, p.SearchText) {
			continue
		}
		results = append(results, types.TableRowResult{
			ID:        row.ID,
			TableID:   row.TableID,
			Data:      data,
			UpdatedAt: row.UpdatedAt,
		})
		if len(results) >= limit {
			break
		}
	}
	return results, nil
}

// rowMatches applies every field filter (AND) plus the free-text term (any
// field) to one decoded row.
func rowMatches(data map[string]any, filters []types.RowFieldFilter, text string) bool {
	for _, f := range filters {
		if !fieldMatches(data[f.FieldID], f) {
			return false
		}
	}
	if text == "" {
		return true
	}
	term := strings.ToLower(text)
	for _, v := range data {
		if strings.Contains(strings.ToLower(fieldString(v)), term) {
			return true
		}
	}
	return false
}

// fieldMatches compares one field value under the filter's operator,
// handling string, number, array, and {id,name} object shapes.
func fieldMatches(value any, f types.RowFieldFilter) bool {
	switch f.Op {
	case types.RowFieldEq:
		if arr, ok := value.([]any); ok {
			for _, elem := range arr {
				if utils.FoldName(fieldString(elem)) == utils.FoldName(f.Value) {
					return true
				}
			}
			return false
		}
		return utils.FoldName(fieldString(value)) == utils.FoldName(f.Value)
	case types.RowFieldContains:
		if arr, ok := value.([]any); ok {
			for _, elem := range arr {
				if strings.Contains(utils.FoldName(fieldString(elem)), utils.FoldName(f.Value)) {
					return true
				}
			}
			return false
		}
		return strings.Contains(utils.FoldName(fieldString(value)), utils.FoldName(f.Value))
	case types.RowFieldGte, types.RowFieldLte:
		got := fieldString(value)
		if got == "" {
			return false
		}
		cmp := compareField(got, f.Value)
		if f.Op == types.RowFieldGte {
			return cmp >= 0
		}
		return cmp <= 0
	default:
		return false
	}
}

// compareField compares numerically when both sides parse as numbers, else
// as strings (ISO dates order correctly either way).
func compareField(a, b string) int {
	fa, errA := parseFloat(a)
	fb, errB := parseFloat(b)
	if errA == nil && errB == nil {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a, b)
}

// fieldString flattens a field value to its comparable string form.
func fieldString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return trimFloat(v)
	case bool:
		if v {
			return "true"
		}
		return "false"
	case map[string]any:
		for _, key := range []string{"name", "label", "id", "value"} {
			if s, ok := v[key].(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
