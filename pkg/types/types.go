package types

import (
	"encoding/json"
	"errors"
	"time"
)

// Validation errors
var (
	ErrEmptyWorkspaceID = errors.New("workspace_id cannot be empty")
	ErrEmptyName        = errors.New("name cannot be empty")
	ErrEmptyID          = errors.New("id cannot be empty")
	ErrInvalidLimit     = errors.New("limit must be positive")
	ErrUnknownEntity    = errors.New("unknown entity type")
)

// EntityType identifies one of the closed set of workspace entity kinds.
type EntityType string

const (
	EntityTask          EntityType = "task"
	EntitySubtask       EntityType = "subtask"
	EntityProject       EntityType = "project"
	EntityClient        EntityType = "client"
	EntityMember        EntityType = "member"
	EntityTab           EntityType = "tab"
	EntityBlock         EntityType = "block"
	EntityDoc           EntityType = "doc"
	EntityTable         EntityType = "table"
	EntityTableRow      EntityType = "table_row"
	EntityTimelineEvent EntityType = "timeline_event"
	EntityFile          EntityType = "file"
	EntityComment       EntityType = "comment"
	EntityPayment       EntityType = "payment"
	EntityTag           EntityType = "tag"
	EntityPropertyDef   EntityType = "property_definition"
	EntityLinkType      EntityType = "entity_link"
)

// PropertyEntityTypes is the subset of entity kinds that can carry custom
// EntityProperty rows in the EAV side-store.
var PropertyEntityTypes = []EntityType{
	EntityTask, EntityBlock, EntityTimelineEvent, EntityTableRow, EntitySubtask,
}

// HasProperties reports whether the entity kind participates in the EAV store.
func (t EntityType) HasProperties() bool {
	for _, pt := range PropertyEntityTypes {
		if t == pt {
			return true
		}
	}
	return false
}

// PropertyType is the declared value kind of a custom property definition.
type PropertyType string

const (
	PropertyText        PropertyType = "text"
	PropertyNumber      PropertyType = "number"
	PropertyDate        PropertyType = "date"
	PropertySelect      PropertyType = "select"
	PropertyStatus      PropertyType = "status"
	PropertyMultiSelect PropertyType = "multi_select"
	PropertyTags        PropertyType = "tags"
	PropertyPerson      PropertyType = "person"
	PropertyCheckbox    PropertyType = "checkbox"
	PropertyPriority    PropertyType = "priority"
)

// PropertyDefinition is a workspace-scoped declaration of a custom field.
// Names are unique per workspace under case-insensitive comparison, but a
// store may hold duplicates differing only in casing; lookups tolerate that.
type PropertyDefinition struct {
	ID          string       `json:"id" mapstructure:"id"`
	WorkspaceID string       `json:"workspace_id" mapstructure:"workspace_id"`
	Name        string       `json:"name" mapstructure:"name"`
	Type        PropertyType `json:"type" mapstructure:"type"`
	CreatedAt   time.Time    `json:"created_at" mapstructure:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" mapstructure:"updated_at"`
}

// Validate checks if the PropertyDefinition has all required fields set.
func (d *PropertyDefinition) Validate() error {
	if d.Name == "" {
		return ErrEmptyName
	}
	if d.WorkspaceID == "" {
		return ErrEmptyWorkspaceID
	}
	return nil
}

// EntityProperty is one EAV record: the value of one property definition on
// one entity instance. Value keeps the raw stored JSON; its shape depends on
// the definition's type and is decoded by the normalize package.
//
// Invariant: (workspace_id, entity_type, entity_id, property_definition_id)
// is unique. The search engine is a read-only consumer of these rows.
type EntityProperty struct {
	ID                   string          `json:"id" mapstructure:"id"`
	WorkspaceID          string          `json:"workspace_id" mapstructure:"workspace_id"`
	EntityType           EntityType      `json:"entity_type" mapstructure:"entity_type"`
	EntityID             string          `json:"entity_id" mapstructure:"entity_id"`
	PropertyDefinitionID string          `json:"property_definition_id" mapstructure:"property_definition_id"`
	Value                json.RawMessage `json:"value" mapstructure:"value"`
}

// Person is the canonical shape of a normalized person property value.
type Person struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Tag is the canonical shape of a normalized tag value. Color is empty when
// the stored value carried none.
type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Profile holds the human-readable identity for a user ID. Looked up through
// the external identity collaborator, never stored by the engine.
type Profile struct {
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Confidence ranks how well a fuzzy name match fits a search term.
type Confidence string

const (
	// ConfidenceExact means the lowercased name equals the search term.
	ConfidenceExact Confidence = "exact"
	// ConfidenceHigh means one string is a prefix of the other, or a
	// partial match promoted by a scope hint.
	ConfidenceHigh Confidence = "high"
	// ConfidencePartial means substring containment only.
	ConfidencePartial Confidence = "partial"
)

// Rank orders confidence tiers; lower sorts first.
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceExact:
		return 0
	case ConfidenceHigh:
		return 1
	default:
		return 2
	}
}

// ResolvedEntity is the ephemeral output of name -> ID resolution. It is
// constructed per query and never persisted.
type ResolvedEntity struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Type       EntityType `json:"type"`
	Confidence Confidence `json:"confidence"`
	// Context carries disambiguation hints such as the owning project name.
	Context string `json:"context,omitempty"`
}

// DateFilter applies comparisons against a normalized ISO date string.
// Non-date-shaped stored values never match.
type DateFilter struct {
	Eq     string `json:"eq,omitempty"`
	Gte    string `json:"gte,omitempty"`
	Lte    string `json:"lte,omitempty"`
	IsNull bool   `json:"is_null,omitempty"`
}

// Empty reports whether no comparison is set.
func (f DateFilter) Empty() bool {
	return f.Eq == "" && f.Gte == "" && f.Lte == "" && !f.IsNull
}

// RowFieldOp is the comparison applied to one table-row field filter.
type RowFieldOp string

const (
	RowFieldEq       RowFieldOp = "eq"
	RowFieldContains RowFieldOp = "contains"
	RowFieldGte      RowFieldOp = "gte"
	RowFieldLte      RowFieldOp = "lte"
)

// RowFieldFilter filters table rows by one field ID, applied in memory after
// fetch with type-appropriate comparison.
type RowFieldFilter struct {
	FieldID string     `json:"field_id"`
	Op      RowFieldOp `json:"op"`
	Value   string     `json:"value"`
}
