package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/loomworks/scout/pkg/server/dto"
	"github.com/loomworks/scout/pkg/store"
	"github.com/loomworks/scout/pkg/tenant"
	"github.com/loomworks/scout/pkg/types"
)

func respondData(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.Result{Data: data})
}

func respondError(c *gin.Context, status int, err error) {
	c.JSON(status, dto.Result{Error: err.Error()})
}

// respondEngineError maps engine errors onto HTTP statuses. Tenant failures
// are authentication problems, not server faults.
func respondEngineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, tenant.ErrUnauthenticated):
		respondError(c, http.StatusUnauthorized, err)
	case errors.Is(err, tenant.ErrNoWorkspace):
		respondError(c, http.StatusForbidden, err)
	case errors.Is(err, store.ErrNotFound):
		respondError(c, http.StatusNotFound, err)
	case errors.Is(err, types.ErrInvalidLimit),
		errors.Is(err, types.ErrUnknownEntity),
		errors.Is(err, types.ErrEmptyName),
		errors.Is(err, types.ErrEmptyID):
		respondError(c, http.StatusBadRequest, err)
	default:
		respondError(c, http.StatusInternalServerError, err)
	}
}
