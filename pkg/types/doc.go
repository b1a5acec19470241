// Package types defines the core data types for the scout search engine.
//
// This package contains the fundamental types used throughout scout:
//   - Entity records: Task, Project, Doc, TableRow, and the other workspace
//     entity kinds, each mirroring the stable columns of its relational table
//   - PropertyDefinition / EntityProperty: the workspace-defined custom field
//     schema and its schemaless key/value side-store
//   - ResolvedEntity: the ephemeral output of fuzzy name resolution
//   - Search params and result types for every entity kind
//
// # Entity Types
//
// EntityType is a closed enum. The property-bearing subset (task, block,
// timeline_event, table_row, subtask) can carry EntityProperty rows; the rest
// are searched on relational columns only.
//
// # Validation
//
// Param types provide Validate() methods for input validation:
//
//	p := &types.TaskSearchParams{Limit: -1}
//	if err := p.Validate(); err != nil {
//	    // Handle validation error
//	}
//
// # JSON Serialization
//
// All types are designed to be JSON-serializable with appropriate struct tags.
// EntityProperty values stay json.RawMessage until normalization decodes them.
package types
