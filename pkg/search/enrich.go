package search

import (
	"context"

	"github.com/loomworks/scout/pkg/normalize"
	"github.com/loomworks/scout/pkg/schema"
	"github.com/loomworks/scout/pkg/types"
)

// overlay holds the normalized values of the well-known custom properties of
// one entity. Nil pointers and empty slices mean "no property set"; the
// relational column stays authoritative then.
type overlay struct {
	assignees []types.Person
	tags      []types.Tag
	status    *string
	priority  *string
	dueDate   *string
}

// hasStatus reports whether a Status property override exists.
func (o overlay) hasStatus() bool { return o.status != nil && *o.status != "" }

// effectiveStatus is the property override when present, else the column.
func (o overlay) effectiveStatus(column string) string {
	if o.hasStatus() {
		return *o.status
	}
	return normalize.Status(column)
}

func (o overlay) hasPriority() bool { return o.priority != nil && *o.priority != "" }

func (o overlay) effectivePriority(column string) string {
	if o.hasPriority() {
		return *o.priority
	}
	return normalize.Priority(column)
}

func (o overlay) effectiveDueDate(column string) string {
	if o.dueDate != nil && *o.dueDate != "" {
		return *o.dueDate
	}
	return column
}

// loadOverlays batch-fetches every EntityProperty row for the given entities
// in one call and normalizes the recognized properties (Assignee, Tags,
// Status, Priority, Due Date). Unrecognized definitions are ignored. A store
// failure degrades to no overlays: results then fall back to columns.
func (s *Searcher) loadOverlays(ctx context.Context, workspaceID string, entityType types.EntityType, ids []string, idx *schema.DefinitionIndex) map[string]overlay {
	if len(ids) == 0 || idx == nil || !entityType.HasProperties() {
		return nil
	}

	kindByDef := make(map[string]string)
	for defName, kind := range map[string]string{
		schema.PropAssignee: "assignee",
		schema.PropTags:     "tags",
		schema.PropStatus:   "status",
		schema.PropPriority: "priority",
		schema.PropDueDate:  "due_date",
	} {
		if def, ok := idx.FindByName(defName); ok {
			kindByDef[def.ID] = kind
		}
	}
	if len(kindByDef) == 0 {
		return nil
	}

	rows, err := s.store.ListEntityProperties(ctx, workspaceID, entityType, ids)
	if err != nil {
		s.logger.Warn("property enrichment failed, falling back to columns",
			"entity_type", entityType, "error", err)
		return nil
	}

	overlays := make(map[string]overlay)
	for _, row := range rows {
		kind, ok := kindByDef[row.PropertyDefinitionID]
		if !ok {
			continue
		}
		o := overlays[row.EntityID]
		value := normalize.Decode(row.Value)
		switch kind {
		case "assignee":
			o.assignees = normalize.People(value)
		case "tags":
			o.tags = normalize.TagList(value)
		case "status":
			if raw := normalize.SelectScalar(value); raw != nil {
				status := normalize.Status(*raw)
				o.status = &status
			}
		case "priority":
			if raw := normalize.SelectScalar(value); raw != nil {
				priority := normalize.Priority(*raw)
				o.priority = &priority
			}
		case "due_date":
			o.dueDate = normalize.DateString(value)
		}
		overlays[row.EntityID] = o
	}
	return overlays
}
