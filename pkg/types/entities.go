package types

import (
	"encoding/json"
	"time"
)

// Task is a workspace task row. Status, Priority, AssigneeID, and DueDate are
// the relational columns; custom properties with the same meaning override
// them at result-mapping time.
type Task struct {
	ID          string    `json:"id" mapstructure:"id"`
	WorkspaceID string    `json:"workspace_id" mapstructure:"workspace_id"`
	ProjectID   string    `json:"project_id,omitempty" mapstructure:"project_id"`
	Title       string    `json:"title" mapstructure:"title"`
	Description string    `json:"description,omitempty" mapstructure:"description"`
	Status      string    `json:"status,omitempty" mapstructure:"status"`
	Priority    string    `json:"priority,omitempty" mapstructure:"priority"`
	AssigneeID  string    `json:"assignee_id,omitempty" mapstructure:"assignee_id"`
	DueDate     string    `json:"due_date,omitempty" mapstructure:"due_date"`
	Archived    bool      `json:"archived,omitempty" mapstructure:"archived"`
	CreatedAt   time.Time `json:"created_at" mapstructure:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" mapstructure:"updated_at"`
}

// Subtask is a child task row scoped through its parent task.
type Subtask struct {
	ID          string    `json:"id" mapstructure:"id"`
	WorkspaceID string    `json:"workspace_id" mapstructure:"workspace_id"`
	TaskID      string    `json:"task_id" mapstructure:"task_id"`
	Title       string    `json:"title" mapstructure:"title"`
	Status      string    `json:"status,omitempty" mapstructure:"status"`
	AssigneeID  string    `json:"assignee_id,omitempty" mapstructure:"assignee_id"`
	DueDate     string    `json:"due_date,omitempty" mapstructure:"due_date"`
	CreatedAt   time.Time `json:"created_at" mapstructure:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" mapstructure:"updated_at"`
}

// Project is a workspace project row.
type Project struct {
	ID          string    `json:"id" mapstructure:"id"`
	WorkspaceID string    `json:"workspace_id" mapstructure:"workspace_id"`
	ClientID    string    `json:"client_id,omitempty" mapstructure:"client_id"`
	Name        string    `json:"name" mapstructure:"name"`
	Description string    `json:"description,omitempty" mapstructure:"description"`
	Status      string    `json:"status,omitempty" mapstructure:"status"`
	Archived    bool      `json:"archived,omitempty" mapstructure:"archived"`
	CreatedAt   time.Time `json:"created_at" mapstructure:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" mapstructure:"updated_at"`
}

// Client is a workspace client (customer) row.
type Client struct {
	ID          string    `json:"id" mapstructure:"id"`
	WorkspaceID string    `json:"workspace_id" mapstructure:"workspace_id"`
	Name        string    `json:"name" mapstructure:"name"`
	Email       string    `json:"email,omitempty" mapstructure:"email"`
	Company     string    `json:"company,omitempty" mapstructure:"company"`
	CreatedAt   time.Time `json:"created_at" mapstructure:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" mapstructure:"updated_at"`
}

// Member is a workspace membership row. The human-readable identity comes
// from the external profile lookup, not from this row.
type Member struct {
	ID          string    `json:"id" mapstructure:"id"`
	WorkspaceID string    `json:"workspace_id" mapstructure:"workspace_id"`
	UserID      string    `json:"user_id" mapstructure:"user_id"`
	Role        string    `json:"role,omitempty" mapstructure:"role"`
	CreatedAt   time.Time `json:"created_at" mapstructure:"created_at"`
}

// Tab belongs to a project; workspace scoping runs through the ownership
// chain tab -> project -> workspace.
type Tab struct {
	ID        string    `json:"id" mapstructure:"id"`
	ProjectID string    `json:"project_id" mapstructure:"project_id"`
	Name      string    `json:"name" mapstructure:"name"`
	Kind      string    `json:"kind,omitempty" mapstructure:"kind"`
	Position  int       `json:"position,omitempty" mapstructure:"position"`
	CreatedAt time.Time `json:"created_at" mapstructure:"created_at"`
	UpdatedAt time.Time `json:"updated_at" mapstructure:"updated_at"`
}

// Block is a content block inside a tab; workspace scoping runs through
// block -> tab -> project -> workspace.
type Block struct {
	ID        string          `json:"id" mapstructure:"id"`
	TabID     string          `json:"tab_id" mapstructure:"tab_id"`
	Kind      string          `json:"kind,omitempty" mapstructure:"kind"`
	Title     string          `json:"title,omitempty" mapstructure:"title"`
	Content   json.RawMessage `json:"content,omitempty" mapstructure:"content"`
	Position  int             `json:"position,omitempty" mapstructure:"position"`
	CreatedAt time.Time       `json:"created_at" mapstructure:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" mapstructure:"updated_at"`
}

// Doc is a rich-text document. Content holds the serialized rich-text tree;
// content search walks it in memory rather than querying inside the JSON.
type Doc struct {
	ID          string          `json:"id" mapstructure:"id"`
	WorkspaceID string          `json:"workspace_id" mapstructure:"workspace_id"`
	ProjectID   string          `json:"project_id,omitempty" mapstructure:"project_id"`
	Title       string          `json:"title" mapstructure:"title"`
	Content     json.RawMessage `json:"content,omitempty" mapstructure:"content"`
	Archived    bool            `json:"archived,omitempty" mapstructure:"archived"`
	CreatedAt   time.Time       `json:"created_at" mapstructure:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" mapstructure:"updated_at"`
}

// TableField is one column of a dynamic table schema.
type TableField struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Type    string   `json:"type,omitempty"`
	Options []string `json:"options,omitempty"`
}

// Table is a dynamic user-defined table with its field schema.
type Table struct {
	ID          string       `json:"id" mapstructure:"id"`
	WorkspaceID string       `json:"workspace_id" mapstructure:"workspace_id"`
	ProjectID   string       `json:"project_id,omitempty" mapstructure:"project_id"`
	Name        string       `json:"name" mapstructure:"name"`
	Fields      []TableField `json:"fields,omitempty" mapstructure:"fields"`
	CreatedAt   time.Time    `json:"created_at" mapstructure:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" mapstructure:"updated_at"`
}

// TableRow is one row of a dynamic table. Data is a field-ID-keyed JSON blob;
// field filters are applied in memory after fetch.
type TableRow struct {
	ID          string          `json:"id" mapstructure:"id"`
	WorkspaceID string          `json:"workspace_id" mapstructure:"workspace_id"`
	TableID     string          `json:"table_id" mapstructure:"table_id"`
	Data        json.RawMessage `json:"data,omitempty" mapstructure:"data"`
	Position    int             `json:"position,omitempty" mapstructure:"position"`
	CreatedAt   time.Time       `json:"created_at" mapstructure:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" mapstructure:"updated_at"`
}

// TimelineEvent is a scheduled workspace event.
type TimelineEvent struct {
	ID          string    `json:"id" mapstructure:"id"`
	WorkspaceID string    `json:"workspace_id" mapstructure:"workspace_id"`
	ProjectID   string    `json:"project_id,omitempty" mapstructure:"project_id"`
	Title       string    `json:"title" mapstructure:"title"`
	Description string    `json:"description,omitempty" mapstructure:"description"`
	StartAt     string    `json:"start_at,omitempty" mapstructure:"start_at"`
	EndAt       string    `json:"end_at,omitempty" mapstructure:"end_at"`
	CreatedAt   time.Time `json:"created_at" mapstructure:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" mapstructure:"updated_at"`
}

// File is an uploaded file's metadata row; blob storage is external.
type File struct {
	ID          string    `json:"id" mapstructure:"id"`
	WorkspaceID string    `json:"workspace_id" mapstructure:"workspace_id"`
	ProjectID   string    `json:"project_id,omitempty" mapstructure:"project_id"`
	Name        string    `json:"name" mapstructure:"name"`
	MimeType    string    `json:"mime_type,omitempty" mapstructure:"mime_type"`
	SizeBytes   int64     `json:"size_bytes,omitempty" mapstructure:"size_bytes"`
	UploadedBy  string    `json:"uploaded_by,omitempty" mapstructure:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at" mapstructure:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" mapstructure:"updated_at"`
}

// Comment is attached to any entity via (entity_type, entity_id).
type Comment struct {
	ID          string     `json:"id" mapstructure:"id"`
	WorkspaceID string     `json:"workspace_id" mapstructure:"workspace_id"`
	EntityType  EntityType `json:"entity_type" mapstructure:"entity_type"`
	EntityID    string     `json:"entity_id" mapstructure:"entity_id"`
	AuthorID    string     `json:"author_id,omitempty" mapstructure:"author_id"`
	Body        string     `json:"body" mapstructure:"body"`
	CreatedAt   time.Time  `json:"created_at" mapstructure:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" mapstructure:"updated_at"`
}

// Payment is an invoice/payment row.
type Payment struct {
	ID          string    `json:"id" mapstructure:"id"`
	WorkspaceID string    `json:"workspace_id" mapstructure:"workspace_id"`
	ClientID    string    `json:"client_id,omitempty" mapstructure:"client_id"`
	ProjectID   string    `json:"project_id,omitempty" mapstructure:"project_id"`
	Title       string    `json:"title,omitempty" mapstructure:"title"`
	AmountCents int64     `json:"amount_cents,omitempty" mapstructure:"amount_cents"`
	Currency    string    `json:"currency,omitempty" mapstructure:"currency"`
	Status      string    `json:"status,omitempty" mapstructure:"status"`
	DueDate     string    `json:"due_date,omitempty" mapstructure:"due_date"`
	PaidAt      string    `json:"paid_at,omitempty" mapstructure:"paid_at"`
	CreatedAt   time.Time `json:"created_at" mapstructure:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" mapstructure:"updated_at"`
}

// EntityLink relates two entities inside one workspace.
type EntityLink struct {
	ID          string     `json:"id" mapstructure:"id"`
	WorkspaceID string     `json:"workspace_id" mapstructure:"workspace_id"`
	SourceType  EntityType `json:"source_type" mapstructure:"source_type"`
	SourceID    string     `json:"source_id" mapstructure:"source_id"`
	TargetType  EntityType `json:"target_type" mapstructure:"target_type"`
	TargetID    string     `json:"target_id" mapstructure:"target_id"`
	CreatedAt   time.Time  `json:"created_at" mapstructure:"created_at"`
}
