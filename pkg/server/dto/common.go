// Package dto holds the wire shapes of the HTTP API. Search parameters and
// results reuse the engine's own JSON-tagged types; only the envelope and
// the request bodies without an engine counterpart live here.
package dto

import (
	"errors"
	"strings"
)

// Result is the uniform response envelope. Exactly one of Data and Error is
// set.
type Result struct {
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// FieldResolveRequest asks for fuzzy resolution of a table field name.
type FieldResolveRequest struct {
	TableID string `json:"table_id"`
	Name    string `json:"name"`
}

// Validate performs validation on FieldResolveRequest.
func (r *FieldResolveRequest) Validate() error {
	if strings.TrimSpace(r.TableID) == "" {
		return errors.New("table_id cannot be empty")
	}
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name cannot be empty")
	}
	return nil
}
