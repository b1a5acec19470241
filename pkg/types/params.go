package types

// WorkspaceContext is the resolved tenant identity for one request. Callers
// that already resolved it (e.g. the unified orchestrator) pass it along to
// avoid a redundant resolution per fan-out leg.
type WorkspaceContext struct {
	WorkspaceID string `json:"workspace_id"`
	UserID      string `json:"user_id"`
}

// Default pagination caps. Every per-type limit is overridable.
const (
	DefaultSearchLimit  = 50
	DefaultResolveLimit = 5
	DefaultUnifiedLimit = 20
	DefaultMemberLimit  = 100
	DefaultRowLimit     = 100

	// DefaultSnippetWindow is the number of characters kept either side of a
	// content match.
	DefaultSnippetWindow = 100
	// MaxContentSnippets caps snippets returned per document.
	MaxContentSnippets = 10
	// DefaultContentDocCap bounds the workspace-wide content search over-fetch.
	DefaultContentDocCap = 200
)

// TaskSearchParams filters task search. Status, Priority, AssigneeName,
// TagNames, and DueDate may be served by custom properties when the
// workspace defines them; the matching falls back to relational columns.
type TaskSearchParams struct {
	Context         *WorkspaceContext `json:"-"`
	SearchText      string            `json:"search_text,omitempty"`
	ProjectID       string            `json:"project_id,omitempty"`
	Status          []string          `json:"status,omitempty"`
	Priority        []string          `json:"priority,omitempty"`
	AssigneeID      string            `json:"assignee_id,omitempty"`
	AssigneeName    string            `json:"assignee_name,omitempty"`
	TagNames        []string          `json:"tag_names,omitempty"`
	DueDate         DateFilter        `json:"due_date,omitempty"`
	IncludeArchived bool              `json:"include_archived,omitempty"`
	Limit           int               `json:"limit,omitempty"`
}

// Validate checks the params for impossible values.
func (p *TaskSearchParams) Validate() error {
	if p.Limit < 0 {
		return ErrInvalidLimit
	}
	return nil
}

// SubtaskSearchParams filters subtask search.
type SubtaskSearchParams struct {
	Context      *WorkspaceContext `json:"-"`
	SearchText   string            `json:"search_text,omitempty"`
	TaskID       string            `json:"task_id,omitempty"`
	Status       []string          `json:"status,omitempty"`
	AssigneeID   string            `json:"assignee_id,omitempty"`
	AssigneeName string            `json:"assignee_name,omitempty"`
	Limit        int               `json:"limit,omitempty"`
}

// ProjectSearchParams filters project search.
type ProjectSearchParams struct {
	Context         *WorkspaceContext `json:"-"`
	SearchText      string            `json:"search_text,omitempty"`
	ClientID        string            `json:"client_id,omitempty"`
	Status          []string          `json:"status,omitempty"`
	IncludeArchived bool              `json:"include_archived,omitempty"`
	Limit           int               `json:"limit,omitempty"`
}

// ClientSearchParams filters client search.
type ClientSearchParams struct {
	Context    *WorkspaceContext `json:"-"`
	SearchText string            `json:"search_text,omitempty"`
	Limit      int               `json:"limit,omitempty"`
}

// MemberSearchParams filters workspace member search.
type MemberSearchParams struct {
	Context    *WorkspaceContext `json:"-"`
	SearchText string            `json:"search_text,omitempty"`
	Role       string            `json:"role,omitempty"`
	Limit      int               `json:"limit,omitempty"`
}

// TabSearchParams filters tab search; tabs are workspace-scoped through
// their owning project.
type TabSearchParams struct {
	Context    *WorkspaceContext `json:"-"`
	SearchText string            `json:"search_text,omitempty"`
	ProjectID  string            `json:"project_id,omitempty"`
	Limit      int               `json:"limit,omitempty"`
}

// BlockSearchParams filters block search.
type BlockSearchParams struct {
	Context      *WorkspaceContext `json:"-"`
	SearchText   string            `json:"search_text,omitempty"`
	TabID        string            `json:"tab_id,omitempty"`
	ProjectID    string            `json:"project_id,omitempty"`
	Kind         string            `json:"kind,omitempty"`
	Status       []string          `json:"status,omitempty"`
	AssigneeName string            `json:"assignee_name,omitempty"`
	TagNames     []string          `json:"tag_names,omitempty"`
	Limit        int               `json:"limit,omitempty"`
}

// DocSearchParams filters document search by title.
type DocSearchParams struct {
	Context         *WorkspaceContext `json:"-"`
	SearchText      string            `json:"search_text,omitempty"`
	ProjectID       string            `json:"project_id,omitempty"`
	IncludeArchived bool              `json:"include_archived,omitempty"`
	Limit           int               `json:"limit,omitempty"`
}

// DocContentSearchParams searches inside one document's rich-text content.
type DocContentSearchParams struct {
	Context       *WorkspaceContext `json:"-"`
	DocID         string            `json:"doc_id"`
	Term          string            `json:"term"`
	SnippetWindow int               `json:"snippet_window,omitempty"`
}

// WorkspaceContentSearchParams searches content across all non-archived docs.
type WorkspaceContentSearchParams struct {
	Context       *WorkspaceContext `json:"-"`
	Term          string            `json:"term"`
	SnippetWindow int               `json:"snippet_window,omitempty"`
	MaxDocs       int               `json:"max_docs,omitempty"`
}

// TableSearchParams filters dynamic table search.
type TableSearchParams struct {
	Context    *WorkspaceContext `json:"-"`
	SearchText string            `json:"search_text,omitempty"`
	ProjectID  string            `json:"project_id,omitempty"`
	Limit      int               `json:"limit,omitempty"`
}

// TableRowSearchParams filters rows of one table. FieldFilters apply in
// memory against the field-ID-keyed row data.
type TableRowSearchParams struct {
	Context      *WorkspaceContext `json:"-"`
	TableID      string            `json:"table_id"`
	SearchText   string            `json:"search_text,omitempty"`
	FieldFilters []RowFieldFilter  `json:"field_filters,omitempty"`
	Limit        int               `json:"limit,omitempty"`
}

// TimelineEventSearchParams filters timeline events. From/To bound the
// event's start column; property-backed filters behave as for tasks.
type TimelineEventSearchParams struct {
	Context      *WorkspaceContext `json:"-"`
	SearchText   string            `json:"search_text,omitempty"`
	ProjectID    string            `json:"project_id,omitempty"`
	From         string            `json:"from,omitempty"`
	To           string            `json:"to,omitempty"`
	AssigneeName string            `json:"assignee_name,omitempty"`
	TagNames     []string          `json:"tag_names,omitempty"`
	Limit        int               `json:"limit,omitempty"`
}

// FileSearchParams filters file metadata search.
type FileSearchParams struct {
	Context    *WorkspaceContext `json:"-"`
	SearchText string            `json:"search_text,omitempty"`
	ProjectID  string            `json:"project_id,omitempty"`
	MimeType   string            `json:"mime_type,omitempty"`
	Limit      int               `json:"limit,omitempty"`
}

// CommentSearchParams filters comments, optionally scoped to one entity.
type CommentSearchParams struct {
	Context    *WorkspaceContext `json:"-"`
	SearchText string            `json:"search_text,omitempty"`
	EntityType EntityType        `json:"entity_type,omitempty"`
	EntityID   string            `json:"entity_id,omitempty"`
	AuthorID   string            `json:"author_id,omitempty"`
	Limit      int               `json:"limit,omitempty"`
}

// PaymentSearchParams filters payment search.
type PaymentSearchParams struct {
	Context    *WorkspaceContext `json:"-"`
	SearchText string            `json:"search_text,omitempty"`
	ClientID   string            `json:"client_id,omitempty"`
	ProjectID  string            `json:"project_id,omitempty"`
	Status     []string          `json:"status,omitempty"`
	DueDate    DateFilter        `json:"due_date,omitempty"`
	Limit      int               `json:"limit,omitempty"`
}

// TagSearchParams filters the synthesized tag aggregation.
type TagSearchParams struct {
	Context    *WorkspaceContext `json:"-"`
	SearchText string            `json:"search_text,omitempty"`
	Limit      int               `json:"limit,omitempty"`
}

// PropertyDefSearchParams filters property definition search.
type PropertyDefSearchParams struct {
	Context    *WorkspaceContext `json:"-"`
	SearchText string            `json:"search_text,omitempty"`
	Types      []PropertyType    `json:"types,omitempty"`
	Limit      int               `json:"limit,omitempty"`
}

// EntityLinkSearchParams filters entity links by either endpoint.
type EntityLinkSearchParams struct {
	Context    *WorkspaceContext `json:"-"`
	SourceType EntityType        `json:"source_type,omitempty"`
	SourceID   string            `json:"source_id,omitempty"`
	TargetType EntityType        `json:"target_type,omitempty"`
	TargetID   string            `json:"target_id,omitempty"`
	Limit      int               `json:"limit,omitempty"`
}

// UnifiedSearchParams drives the fan-out orchestrator. An empty EntityTypes
// selects every searchable kind.
type UnifiedSearchParams struct {
	Context        *WorkspaceContext `json:"-"`
	SearchText     string            `json:"search_text"`
	ScopeProjectID string            `json:"scope_project_id,omitempty"`
	EntityTypes    []EntityType      `json:"entity_types,omitempty"`
	Limit          int               `json:"limit,omitempty"`
	Offset         int               `json:"offset,omitempty"`
}

// Validate checks the params for impossible values.
func (p *UnifiedSearchParams) Validate() error {
	if p.Limit < 0 || p.Offset < 0 {
		return ErrInvalidLimit
	}
	return nil
}

// ResolveParams drives fuzzy name -> ID resolution.
type ResolveParams struct {
	Context        *WorkspaceContext `json:"-"`
	EntityType     EntityType        `json:"entity_type"`
	Name           string            `json:"name"`
	ScopeProjectID string            `json:"scope_project_id,omitempty"`
	Limit          int               `json:"limit,omitempty"`
}
