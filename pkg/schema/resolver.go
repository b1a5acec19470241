// Package schema resolves a workspace's custom property definitions and
// indexes them for tolerant by-name lookup.
package schema

import (
	"context"
	"fmt"
	"strings"

	"github.com/loomworks/scout/pkg/store"
	"github.com/loomworks/scout/pkg/types"
)

// Resolver loads property definitions from the store.
type Resolver struct {
	props store.PropertyStore
}

// NewResolver returns a Resolver over the given property store.
func NewResolver(props store.PropertyStore) *Resolver {
	return &Resolver{props: props}
}

// DefinitionIndex is a workspace's definitions indexed by name. Each
// definition is inserted under both its exact name and its lowercased name;
// workspaces can hold duplicate names differing only in casing and lookup
// must tolerate that.
type DefinitionIndex struct {
	byName map[string]types.PropertyDefinition
}

// Load fetches all definitions for a workspace in one call. Cardinality is
// small (tens, not thousands), so no paging.
func (r *Resolver) Load(ctx context.Context, workspaceID string) (*DefinitionIndex, error) {
	defs, err := r.props.ListPropertyDefinitions(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("load property definitions: %w", err)
	}
	idx := &DefinitionIndex{byName: make(map[string]types.PropertyDefinition, len(defs)*2)}
	for _, def := range defs {
		idx.byName[def.Name] = def
		lower := strings.ToLower(def.Name)
		if _, taken := idx.byName[lower]; !taken || lower == def.Name {
			idx.byName[lower] = def
		}
	}
	return idx, nil
}

// FindByName looks up a definition by exact name, then lowercase, then with
// the first letter capitalized. A miss returns (zero, false) — callers treat
// it as "this filter dimension does not apply", never as an error.
func (idx *DefinitionIndex) FindByName(name string) (types.PropertyDefinition, bool) {
	if name == "" {
		return types.PropertyDefinition{}, false
	}
	if def, ok := idx.byName[name]; ok {
		return def, true
	}
	if def, ok := idx.byName[strings.ToLower(name)]; ok {
		return def, true
	}
	capitalized := strings.ToUpper(name[:1]) + strings.ToLower(name[1:])
	if def, ok := idx.byName[capitalized]; ok {
		return def, true
	}
	return types.PropertyDefinition{}, false
}

// Len reports how many distinct keys the index holds. Test helper.
func (idx *DefinitionIndex) Len() int { return len(idx.byName) }

// Well-known property names the result-enrichment step recognizes.
const (
	PropAssignee = "Assignee"
	PropTags     = "Tags"
	PropStatus   = "Status"
	PropPriority = "Priority"
	PropDueDate  = "Due Date"
)
