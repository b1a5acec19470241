package types

import "time"

// TaskResult is a task row enriched for presentation: custom property values
// (assignees, tags, status, priority, due date) overlaid on the relational
// columns, plus the owning project's name.
type TaskResult struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status,omitempty"`
	Priority    string    `json:"priority,omitempty"`
	DueDate     string    `json:"due_date,omitempty"`
	ProjectID   string    `json:"project_id,omitempty"`
	ProjectName string    `json:"project_name,omitempty"`
	Assignees   []Person  `json:"assignees,omitempty"`
	Tags        []Tag     `json:"tags,omitempty"`
	Archived    bool      `json:"archived,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SubtaskResult is a subtask enriched with its parent task title.
type SubtaskResult struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	TaskTitle string    `json:"task_title,omitempty"`
	Title     string    `json:"title"`
	Status    string    `json:"status,omitempty"`
	DueDate   string    `json:"due_date,omitempty"`
	Assignees []Person  `json:"assignees,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProjectResult is a project enriched with its client's name.
type ProjectResult struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status,omitempty"`
	ClientID    string    `json:"client_id,omitempty"`
	ClientName  string    `json:"client_name,omitempty"`
	Archived    bool      `json:"archived,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ClientResult is a flat client row.
type ClientResult struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Company   string    `json:"company,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MemberResult is a membership row joined with its profile.
type MemberResult struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Role   string `json:"role,omitempty"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
}

// TabResult is a tab enriched with its project's name.
type TabResult struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	ProjectName string    `json:"project_name,omitempty"`
	Name        string    `json:"name"`
	Kind        string    `json:"kind,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BlockResult is a block enriched with its tab name and property overlays.
type BlockResult struct {
	ID        string    `json:"id"`
	TabID     string    `json:"tab_id"`
	TabName   string    `json:"tab_name,omitempty"`
	ProjectID string    `json:"project_id,omitempty"`
	Title     string    `json:"title,omitempty"`
	Kind      string    `json:"kind,omitempty"`
	Status    string    `json:"status,omitempty"`
	Assignees []Person  `json:"assignees,omitempty"`
	Tags      []Tag     `json:"tags,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DocResult is a document title-search hit.
type DocResult struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	ProjectID   string    `json:"project_id,omitempty"`
	ProjectName string    `json:"project_name,omitempty"`
	Archived    bool      `json:"archived,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DocContentResult is the outcome of searching inside one document's content.
// Snippets carry ellipses only where truncation actually occurred.
type DocContentResult struct {
	DocID      string   `json:"doc_id"`
	Title      string   `json:"title,omitempty"`
	Found      bool     `json:"found"`
	MatchCount int      `json:"match_count"`
	Snippets   []string `json:"snippets,omitempty"`
}

// TableResult is a dynamic table with its field schema.
type TableResult struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	ProjectID   string       `json:"project_id,omitempty"`
	ProjectName string       `json:"project_name,omitempty"`
	Fields      []TableField `json:"fields,omitempty"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// TableRowResult is one table row with its decoded field data.
type TableRowResult struct {
	ID        string         `json:"id"`
	TableID   string         `json:"table_id"`
	Data      map[string]any `json:"data,omitempty"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TimelineEventResult is a timeline event with property overlays.
type TimelineEventResult struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	StartAt     string    `json:"start_at,omitempty"`
	EndAt       string    `json:"end_at,omitempty"`
	ProjectID   string    `json:"project_id,omitempty"`
	ProjectName string    `json:"project_name,omitempty"`
	Assignees   []Person  `json:"assignees,omitempty"`
	Tags        []Tag     `json:"tags,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FileResult is a file metadata hit enriched with the uploader's name.
type FileResult struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	MimeType     string    `json:"mime_type,omitempty"`
	SizeBytes    int64     `json:"size_bytes,omitempty"`
	ProjectID    string    `json:"project_id,omitempty"`
	ProjectName  string    `json:"project_name,omitempty"`
	UploadedBy   string    `json:"uploaded_by,omitempty"`
	UploaderName string    `json:"uploader_name,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CommentResult is a comment enriched with its author's name.
type CommentResult struct {
	ID         string     `json:"id"`
	EntityType EntityType `json:"entity_type"`
	EntityID   string     `json:"entity_id"`
	AuthorID   string     `json:"author_id,omitempty"`
	AuthorName string     `json:"author_name,omitempty"`
	Body       string     `json:"body"`
	CreatedAt  time.Time  `json:"created_at"`
}

// PaymentResult is a payment enriched with its client's name.
type PaymentResult struct {
	ID          string    `json:"id"`
	Title       string    `json:"title,omitempty"`
	AmountCents int64     `json:"amount_cents,omitempty"`
	Currency    string    `json:"currency,omitempty"`
	Status      string    `json:"status,omitempty"`
	ClientID    string    `json:"client_id,omitempty"`
	ClientName  string    `json:"client_name,omitempty"`
	ProjectID   string    `json:"project_id,omitempty"`
	DueDate     string    `json:"due_date,omitempty"`
	PaidAt      string    `json:"paid_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TagResult is a synthesized tag with how many entities carry it.
type TagResult struct {
	Tag
	UsageCount int `json:"usage_count"`
}

// EntityLinkResult is a link with resolved endpoint names where available.
type EntityLinkResult struct {
	ID         string     `json:"id"`
	SourceType EntityType `json:"source_type"`
	SourceID   string     `json:"source_id"`
	SourceName string     `json:"source_name,omitempty"`
	TargetType EntityType `json:"target_type"`
	TargetID   string     `json:"target_id"`
	TargetName string     `json:"target_name,omitempty"`
}

// UnifiedResult is one row of the merged, relevance-sorted fan-out output.
type UnifiedResult struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Type      EntityType `json:"type"`
	ProjectID string     `json:"project_id,omitempty"`
	Context   string     `json:"context,omitempty"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// UnifiedSearchResult is the paginated envelope of the orchestrator.
type UnifiedSearchResult struct {
	Data       []UnifiedResult `json:"data"`
	TotalCount int             `json:"total_count"`
	HasMore    bool            `json:"has_more"`
}
