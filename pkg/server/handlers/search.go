package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/loomworks/scout/pkg/search"
	"github.com/loomworks/scout/pkg/types"
)

// SearchHandler handles search requests
type SearchHandler struct {
	searcher *search.Searcher
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(s *search.Searcher) *SearchHandler {
	return &SearchHandler{searcher: s}
}

// Unified handles POST /search - the cross-type fan-out search.
func (h *SearchHandler) Unified(c *gin.Context) {
	var p types.UnifiedSearchParams
	if err := c.ShouldBindJSON(&p); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	result, err := h.searcher.SearchAll(c.Request.Context(), p)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	respondData(c, result)
}

// Typed handles POST /search/:type. The body is the per-type parameter
// shape; the path segment selects which one. Two pseudo-types search inside
// document content rather than over an entity kind.
func (h *SearchHandler) Typed(c *gin.Context) {
	ctx := c.Request.Context()

	switch c.Param("type") {
	case "doc_content":
		h.DocContent(c)
		return
	case "workspace_content":
		h.WorkspaceContent(c)
		return
	}

	run := func(bind func() error, call func() (any, error)) {
		if err := bind(); err != nil {
			respondError(c, http.StatusBadRequest, err)
			return
		}
		data, err := call()
		if err != nil {
			respondEngineError(c, err)
			return
		}
		respondData(c, data)
	}

	switch types.EntityType(c.Param("type")) {
	case types.EntityTask:
		var p types.TaskSearchParams
		run(func() error { return c.ShouldBindJSON(&p) },
			func() (any, error) { return h.searcher.SearchTasks(ctx, p) })
	case types.EntitySubtask:
		var p types.SubtaskSearchParams
		run(func() error { return c.ShouldBindJSON(&p) },
			func() (any, error) { return h.searcher.SearchSubtasks(ctx, p) })
	case types.EntityProject:
		var p types.ProjectSearchParams
		run(func() error { return c.ShouldBindJSON(&p) },
			func() (any, error) { return h.searcher.SearchProjects(ctx, p) })
	case types.EntityClient:
		var p types.ClientSearchParams
		run(func() error { return c.ShouldBindJSON(&p) },
			func() (any, error) { return h.searcher.SearchClients(ctx, p) })
	case types.EntityMember:
		var p types.MemberSearchParams
		run(func() error { return c.ShouldBindJSON(&p) },
			func() (any, error) { return h.searcher.SearchMembers(ctx, p) })
	case types.EntityTab:
		var p types.TabSearchParams
		run(func() error { return c.ShouldBindJSON(&p) },
			func() (any, error) { return h.searcher.SearchTabs(ctx, p) })
	case types.EntityBlock:
		var p types.BlockSearchParams
		run(func() error { return c.ShouldBindJSON(&p) },
			func() (any, error) { return h.searcher.SearchBlocks(ctx, p) })
	case types.EntityDoc:
		var p types.DocSearchParams
		run(func() error { return c.ShouldBindJSON(&p) },
			func() (any, error) { return h.searcher.SearchDocs(ctx, p) })
	case types.EntityTable:
		var p types.TableSearchParams
		run(func() error { return c.ShouldBindJSON(&p) },
			func() (any, error) { return h.searcher.SearchTables(ctx, p) })
	case types.EntityTableRow:
		var p types.TableRowSearchParams
		run(func() error { return c.ShouldBindJSON(&p) },
			func() (any, error) { return h.searcher.SearchTableRows(ctx, p) })
	case types.EntityTimelineEvent:
		var p types.TimelineEventSearchParams
		run(func() error { return c.ShouldBindJSON(&p) },
			func() (any, error) { return h.searcher.SearchTimelineEvents(ctx, p) })
	case types.EntityFile:
		var p types.FileSearchParams
		run(func() error { return c.ShouldBindJSON(&p) },
			func() (any, error) { return h.searcher.SearchFiles(ctx, p) })
	case types.EntityComment:
		var p types.CommentSearchParams
		run(func() error { return c.ShouldBindJSON(&p) },
			func() (any, error) { return h.searcher.SearchComments(ctx, p) })
	case types.EntityPayment:
		var p types.PaymentSearchParams
		run(func() error { return c.ShouldBindJSON(&p) },
			func() (any, error) { return h.searcher.SearchPayments(ctx, p) })
	case types.EntityTag:
		var p types.TagSearchParams
		run(func() error { return c.ShouldBindJSON(&p) },
			func() (any, error) { return h.searcher.SearchTags(ctx, p) })
	case types.EntityPropertyDef:
		var p types.PropertyDefSearchParams
		run(func() error { return c.ShouldBindJSON(&p) },
			func() (any, error) { return h.searcher.SearchPropertyDefinitions(ctx, p) })
	case types.EntityLinkType:
		var p types.EntityLinkSearchParams
		run(func() error { return c.ShouldBindJSON(&p) },
			func() (any, error) { return h.searcher.SearchEntityLinks(ctx, p) })
	default:
		respondError(c, http.StatusBadRequest, types.ErrUnknownEntity)
	}
}

// DocContent handles POST /search/doc_content - full-text search inside one
// document's rich-text content.
func (h *SearchHandler) DocContent(c *gin.Context) {
	var p types.DocContentSearchParams
	if err := c.ShouldBindJSON(&p); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	result, err := h.searcher.SearchDocContent(c.Request.Context(), p)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	respondData(c, result)
}

// WorkspaceContent handles POST /search/workspace_content.
func (h *SearchHandler) WorkspaceContent(c *gin.Context) {
	var p types.WorkspaceContentSearchParams
	if err := c.ShouldBindJSON(&p); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	result, err := h.searcher.SearchWorkspaceContent(c.Request.Context(), p)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	respondData(c, result)
}

// GetProject handles GET /projects/:id.
func (h *SearchHandler) GetProject(c *gin.Context) {
	result, err := h.searcher.GetProject(c.Request.Context(), nil, c.Param("id"))
	if err != nil {
		respondEngineError(c, err)
		return
	}
	respondData(c, result)
}
