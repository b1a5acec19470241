package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/loomworks/scout/pkg/search"
	"github.com/loomworks/scout/pkg/server/dto"
	"github.com/loomworks/scout/pkg/types"
)

// ResolveHandler handles fuzzy name resolution requests
type ResolveHandler struct {
	searcher *search.Searcher
}

// NewResolveHandler creates a new resolve handler
func NewResolveHandler(s *search.Searcher) *ResolveHandler {
	return &ResolveHandler{searcher: s}
}

// Resolve handles POST /resolve - fuzzy entity resolution by name.
func (h *ResolveHandler) Resolve(c *gin.Context) {
	var p types.ResolveParams
	if err := c.ShouldBindJSON(&p); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(p.Name) == "" {
		respondError(c, http.StatusBadRequest, types.ErrEmptyName)
		return
	}
	results, err := h.searcher.ResolveByName(c.Request.Context(), p)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	respondData(c, results)
}

// ResolveField handles POST /resolve/field - fuzzy table field resolution.
func (h *ResolveHandler) ResolveField(c *gin.Context) {
	var req dto.FieldResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	results, err := h.searcher.ResolveField(c.Request.Context(), nil, req.TableID, req.Name)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	respondData(c, results)
}
