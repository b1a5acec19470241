package scout

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/ai"

	"github.com/loomworks/scout/pkg/types"
)

// ToolResponse is the uniform envelope every MCP tool returns.
type ToolResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SearchWorkspaceRequest is the input for the search_workspace tool.
type SearchWorkspaceRequest struct {
	SearchText     string   `json:"search_text" jsonschema_description:"Text to search for across entity names"`
	EntityTypes    []string `json:"entity_types,omitempty" jsonschema_description:"Restrict to these entity types (e.g. task, project, doc); empty means all"`
	ScopeProjectID string   `json:"scope_project_id,omitempty" jsonschema_description:"Rank results from this project first"`
	Limit          int      `json:"limit,omitempty" jsonschema_description:"Maximum results per page"`
	Offset         int      `json:"offset,omitempty" jsonschema_description:"Pagination offset"`
}

// SearchWorkspaceTool searches every entity type and merges by relevance.
func (s *MCPServer) SearchWorkspaceTool(ctx *ai.ToolContext, input *SearchWorkspaceRequest) (*ToolResponse, error) {
	if input == nil || input.SearchText == "" {
		return &ToolResponse{Success: false, Error: "search_text is required"}, nil
	}

	p := types.UnifiedSearchParams{
		SearchText:     input.SearchText,
		ScopeProjectID: input.ScopeProjectID,
		Limit:          input.Limit,
		Offset:         input.Offset,
	}
	for _, et := range input.EntityTypes {
		p.EntityTypes = append(p.EntityTypes, types.EntityType(et))
	}

	result, err := s.client.SearchAll(context.Background(), p)
	if err != nil {
		s.logger.Error("search_workspace failed", "error", err)
		return &ToolResponse{Success: false, Error: err.Error()}, nil
	}

	return &ToolResponse{
		Success: true,
		Message: fmt.Sprintf("Found %d results for %q", result.TotalCount, input.SearchText),
		Data:    result,
	}, nil
}

// SearchTasksRequest is the input for the search_tasks tool.
type SearchTasksRequest struct {
	SearchText      string   `json:"search_text,omitempty" jsonschema_description:"Text to match against task names"`
	ProjectID       string   `json:"project_id,omitempty" jsonschema_description:"Only tasks in this project"`
	Status          []string `json:"status,omitempty" jsonschema_description:"Status values to include (e.g. todo, in_progress, done)"`
	Priority        []string `json:"priority,omitempty" jsonschema_description:"Priority values to include"`
	AssigneeName    string   `json:"assignee_name,omitempty" jsonschema_description:"Only tasks assigned to this person (by name)"`
	TagNames        []string `json:"tag_names,omitempty" jsonschema_description:"Only tasks carrying all of these tags"`
	IncludeArchived bool     `json:"include_archived,omitempty" jsonschema_description:"Include archived tasks"`
	Limit           int      `json:"limit,omitempty" jsonschema_description:"Maximum results"`
}

// SearchTasksTool searches tasks with typed filters.
func (s *MCPServer) SearchTasksTool(ctx *ai.ToolContext, input *SearchTasksRequest) (*ToolResponse, error) {
	if input == nil {
		input = &SearchTasksRequest{}
	}

	results, err := s.client.SearchTasks(context.Background(), types.TaskSearchParams{
		SearchText:      input.SearchText,
		ProjectID:       input.ProjectID,
		Status:          input.Status,
		Priority:        input.Priority,
		AssigneeName:    input.AssigneeName,
		TagNames:        input.TagNames,
		IncludeArchived: input.IncludeArchived,
		Limit:           input.Limit,
	})
	if err != nil {
		s.logger.Error("search_tasks failed", "error", err)
		return &ToolResponse{Success: false, Error: err.Error()}, nil
	}

	return &ToolResponse{
		Success: true,
		Message: fmt.Sprintf("Found %d tasks", len(results)),
		Data:    results,
	}, nil
}

// ResolveEntityRequest is the input for the resolve_entity tool.
type ResolveEntityRequest struct {
	EntityType     string `json:"entity_type" jsonschema_description:"Kind of entity to resolve (e.g. task, project, doc, entity_table)"`
	Name           string `json:"name" jsonschema_description:"Free-form name mentioned by the user"`
	ScopeProjectID string `json:"scope_project_id,omitempty" jsonschema_description:"Prefer matches inside this project"`
	Limit          int    `json:"limit,omitempty" jsonschema_description:"Maximum candidates"`
}

// ResolveEntityTool resolves a free-form name to candidate entity IDs.
func (s *MCPServer) ResolveEntityTool(ctx *ai.ToolContext, input *ResolveEntityRequest) (*ToolResponse, error) {
	if input == nil || input.Name == "" {
		return &ToolResponse{Success: false, Error: "name is required"}, nil
	}

	matches, err := s.client.ResolveByName(context.Background(), types.ResolveParams{
		EntityType:     types.EntityType(input.EntityType),
		Name:           input.Name,
		ScopeProjectID: input.ScopeProjectID,
		Limit:          input.Limit,
	})
	if err != nil {
		s.logger.Error("resolve_entity failed", "error", err)
		return &ToolResponse{Success: false, Error: err.Error()}, nil
	}

	msg := fmt.Sprintf("Found %d candidates for %q", len(matches), input.Name)
	if len(matches) == 0 {
		msg = fmt.Sprintf("No entity matched %q", input.Name)
	}
	return &ToolResponse{Success: true, Message: msg, Data: matches}, nil
}

// SearchDocContentRequest is the input for the search_doc_content tool.
type SearchDocContentRequest struct {
	DocID         string `json:"doc_id" jsonschema_description:"Document to search inside"`
	Term          string `json:"term" jsonschema_description:"Text to find in the document body"`
	SnippetWindow int    `json:"snippet_window,omitempty" jsonschema_description:"Characters of context around each match"`
}

// SearchDocContentTool searches inside one document's rich-text content.
func (s *MCPServer) SearchDocContentTool(ctx *ai.ToolContext, input *SearchDocContentRequest) (*ToolResponse, error) {
	if input == nil || input.DocID == "" || input.Term == "" {
		return &ToolResponse{Success: false, Error: "doc_id and term are required"}, nil
	}

	result, err := s.client.SearchDocContent(context.Background(), types.DocContentSearchParams{
		DocID:         input.DocID,
		Term:          input.Term,
		SnippetWindow: input.SnippetWindow,
	})
	if err != nil {
		s.logger.Error("search_doc_content failed", "error", err)
		return &ToolResponse{Success: false, Error: err.Error()}, nil
	}

	return &ToolResponse{
		Success: true,
		Message: fmt.Sprintf("Found %d matches in document %s", result.MatchCount, input.DocID),
		Data:    result,
	}, nil
}
