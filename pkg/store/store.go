package store

import (
	"context"
	"errors"

	"github.com/loomworks/scout/pkg/types"
)

// Provider identifies a store driver implementation.
type Provider string

const (
	ProviderMemory Provider = "memory"
	ProviderBadger Provider = "badger"
	ProviderNeo4j  Provider = "neo4j"
)

// Store errors
var (
	ErrNotFound      = errors.New("record not found")
	ErrUnknownColumn = errors.New("unknown column")
	ErrClosed        = errors.New("store is closed")
)

// Record is one entity row as returned by a driver, keyed by column name.
// Values are strings, float64 numbers, bools, or JSON-encoded strings for
// JSON-typed columns; timestamps travel as RFC3339 strings.
type Record map[string]any

// Op is a column comparison operator. This is the full predicate surface the
// engine assumes of the underlying store.
type Op string

const (
	OpEq       Op = "eq"
	OpIn       Op = "in"
	OpGte      Op = "gte"
	OpLte      Op = "lte"
	OpContains Op = "contains"
)

// ColumnFilter is one column predicate. Value is a string for OpEq/OpGte/
// OpLte/OpContains and a []string for OpIn. Booleans compare against
// "true"/"false".
type ColumnFilter struct {
	Column string
	Op     Op
	Value  any
}

// TextFilter is a case-insensitive substring OR across designated text
// columns. It never applies inside JSON-valued columns.
type TextFilter struct {
	Columns []string
	Term    string
}

// Query is the filter/order/page contract for one entity fetch.
type Query struct {
	Filters []ColumnFilter
	Text    *TextFilter
	OrderBy string
	Desc    bool
	Limit   int
	Offset  int
}

// EntityStore exposes read access to entity rows. Tenant scoping is applied
// through the query's filters (workspace_id equality, or IN filters walking
// an ownership chain for nested kinds), always at the query level.
type EntityStore interface {
	// QueryEntities returns rows of one kind matching the query.
	QueryEntities(ctx context.Context, kind types.EntityType, q Query) ([]Record, error)

	// GetEntity returns a single row by ID, or ErrNotFound.
	GetEntity(ctx context.Context, kind types.EntityType, id string) (Record, error)
}

// PropertyStore exposes read access to the EAV side-store.
type PropertyStore interface {
	// ListPropertyDefinitions loads every definition for a workspace.
	ListPropertyDefinitions(ctx context.Context, workspaceID string) ([]types.PropertyDefinition, error)

	// ListPropertyValues returns every value row for one definition on one
	// entity kind. The store cannot filter inside the JSON value; callers
	// filter in memory.
	ListPropertyValues(ctx context.Context, workspaceID string, entityType types.EntityType, definitionID string) ([]types.EntityProperty, error)

	// ListEntityProperties batch-fetches all value rows for a set of
	// entities in one call.
	ListEntityProperties(ctx context.Context, workspaceID string, entityType types.EntityType, entityIDs []string) ([]types.EntityProperty, error)
}

// Store is the full read contract the search engine is built over.
type Store interface {
	EntityStore
	PropertyStore
	Close() error
}

// Writer is the optional write surface used by seeding and tests. The search
// engine itself never writes.
type Writer interface {
	PutEntity(ctx context.Context, kind types.EntityType, rec Record) error
	PutPropertyDefinition(ctx context.Context, def types.PropertyDefinition) error
	PutEntityProperty(ctx context.Context, prop types.EntityProperty) error
}
