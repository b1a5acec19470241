// Package store defines the relational-store contract the search engine
// queries, plus the drivers that satisfy it.
//
// The engine never owns storage: it assumes an external store exposing
// column equality, range, and IN filtering plus simple substring search over
// designated text columns, with ordering and limit/offset. That contract is
// the Query type consumed by EntityStore. Entity rows travel as generic
// Records (column-keyed maps) and are mapped to typed structs at the edges,
// the same way driver rows are parsed into nodes elsewhere in this codebase.
//
// Three drivers are provided:
//   - MemoryStore: reference implementation used by tests and the one-shot CLI
//   - BadgerStore: embedded persistent driver (prefix scan + in-memory filter)
//   - Neo4jStore: translates the Query contract to Cypher WHERE clauses
//
// Substring matching never reaches inside JSON-valued columns; content and
// row-data matching happen in application memory after fetch.
package store
