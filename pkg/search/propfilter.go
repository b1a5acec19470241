package search

import (
	"context"
	"strings"

	"github.com/loomworks/scout/pkg/normalize"
	"github.com/loomworks/scout/pkg/types"
	"github.com/loomworks/scout/pkg/utils"
)

// MatchKind selects how property values are compared in MatchByProperty.
type MatchKind string

const (
	// MatchByID compares the id field of the stored value (or any array
	// element) for equality against the search values.
	MatchByID MatchKind = "id"
	// MatchByName folds both sides (lowercase, underscores and hyphens to
	// spaces) and tests substring containment.
	MatchByName MatchKind = "name"
)

// MatchByProperty returns the IDs of every entity whose value for the given
// property definition matches one of the search values (OR across values;
// callers AND across dimensions via Intersect). The store cannot filter
// inside the JSON value, so every row for the definition is fetched and
// filtered in memory. Store errors degrade to an empty set: a broken
// property scan must not abort the whole search.
func (s *Searcher) MatchByProperty(ctx context.Context, workspaceID string, entityType types.EntityType, definitionID string, kind MatchKind, values []string) IDSet {
	rows, err := s.store.ListPropertyValues(ctx, workspaceID, entityType, definitionID)
	if err != nil {
		s.logger.Warn("property scan failed, degrading to empty match set",
			"entity_type", entityType, "definition_id", definitionID, "error", err)
		return IDSet{}
	}

	folded := make([]string, len(values))
	for i, v := range values {
		folded[i] = utils.FoldName(v)
	}

	matched := make(IDSet)
	for _, row := range rows {
		if matched.Contains(row.EntityID) {
			continue
		}
		value := normalize.Decode(row.Value)
		switch kind {
		case MatchByID:
			if matchValueID(value, values) {
				matched[row.EntityID] = struct{}{}
			}
		case MatchByName:
			if matchValueName(value, folded) {
				matched[row.EntityID] = struct{}{}
			}
		}
	}
	return matched
}

// MatchByDateProperty returns the IDs of entities whose normalized date value
// satisfies the filter. Non-date-shaped values never match; with IsNull set,
// entities whose stored value does not normalize to a date match. Store
// errors degrade to an empty set, like MatchByProperty.
func (s *Searcher) MatchByDateProperty(ctx context.Context, workspaceID string, entityType types.EntityType, definitionID string, filter types.DateFilter) IDSet {
	rows, err := s.store.ListPropertyValues(ctx, workspaceID, entityType, definitionID)
	if err != nil {
		s.logger.Warn("date property scan failed, degrading to empty match set",
			"entity_type", entityType, "definition_id", definitionID, "error", err)
		return IDSet{}
	}

	matched := make(IDSet)
	for _, row := range rows {
		date := normalize.DateString(normalize.Decode(row.Value))
		if dateMatches(date, filter) {
			matched[row.EntityID] = struct{}{}
		}
	}
	return matched
}

// dateMatches applies the filter against a normalized ISO date string. ISO
// dates compare correctly as plain strings.
func dateMatches(date *string, f types.DateFilter) bool {
	if f.IsNull {
		return date == nil || *date == ""
	}
	if date == nil || *date == "" {
		return false
	}
	d := *date
	if f.Eq != "" && !sameDay(d, f.Eq) {
		return false
	}
	if f.Gte != "" && truncateDay(d) < truncateDay(f.Gte) {
		return false
	}
	if f.Lte != "" && truncateDay(d) > truncateDay(f.Lte) {
		return false
	}
	return true
}

// sameDay compares two ISO dates on their date component only, so a stored
// timestamp still matches an eq filter given as a bare date.
func sameDay(a, b string) bool {
	return truncateDay(a) == truncateDay(b)
}

func truncateDay(s string) string {
	if len(s) > 10 {
		return s[:10]
	}
	return s
}

// matchValueID reports whether the stored value (or any array element)
// carries an id equal to one of the search values.
func matchValueID(value any, ids []string) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		for _, id := range ids {
			if v == id {
				return true
			}
		}
	case []any:
		for _, elem := range v {
			if matchValueID(elem, ids) {
				return true
			}
		}
	case map[string]any:
		for _, key := range []string{"id", "user_id", "value"} {
			got, ok := v[key].(string)
			if !ok || got == "" {
				continue
			}
			for _, id := range ids {
				if got == id {
					return true
				}
			}
			break
		}
	}
	return false
}

// matchValueName reports whether any name carried by the stored value
// contains one of the pre-folded search terms. Folding maps underscores and
// hyphens to spaces, so "urgent-review" matches a search for
// "urgent_review".
func matchValueName(value any, foldedTerms []string) bool {
	for _, name := range valueNames(value) {
		folded := utils.FoldName(name)
		if folded == "" {
			continue
		}
		for _, term := range foldedTerms {
			if term != "" && strings.Contains(folded, term) {
				return true
			}
		}
	}
	return false
}

// valueNames extracts every human-readable name a stored value carries.
func valueNames(value any) []string {
	switch v := value.(type) {
	case string:
		return []string{v}
	case []any:
		var names []string
		for _, elem := range v {
			names = append(names, valueNames(elem)...)
		}
		return names
	case map[string]any:
		for _, key := range []string{"name", "label", "email"} {
			if name, ok := v[key].(string); ok && name != "" {
				return []string{name}
			}
		}
	}
	return nil
}
