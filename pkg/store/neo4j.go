package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/loomworks/scout/pkg/types"
)

// Neo4jStore satisfies the Store contract over a Neo4j database. Entity rows
// live as nodes labeled by kind with flat properties; EAV rows live as
// EntityProperty nodes whose value is kept as a JSON string, since the
// engine never asks the store to filter inside values.
type Neo4jStore struct {
	client   neo4j.DriverWithContext
	database string
}

// NewNeo4jStore connects to a Neo4j instance.
func NewNeo4jStore(uri, username, password, database string) (*Neo4jStore, error) {
	client, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j store: %w", err)
	}
	if database == "" {
		database = "neo4j"
	}
	return &Neo4jStore{client: client, database: database}, nil
}

// labelFor maps an entity kind to its node label.
func labelFor(kind types.EntityType) string {
	parts := strings.Split(string(kind), "_")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, "")
}

// buildWhere translates the Query contract into a Cypher WHERE clause.
func buildWhere(q Query) (string, map[string]any) {
	var clauses []string
	params := map[string]any{}

	for i, f := range q.Filters {
		p := fmt.Sprintf("f%d", i)
		switch f.Op {
		case OpEq:
			clauses = append(clauses, fmt.Sprintf("n.%s = $%s", f.Column, p))
			params[p] = f.Value
		case OpIn:
			clauses = append(clauses, fmt.Sprintf("n.%s IN $%s", f.Column, p))
			params[p] = f.Value
		case OpGte:
			clauses = append(clauses, fmt.Sprintf("n.%s >= $%s", f.Column, p))
			params[p] = f.Value
		case OpLte:
			clauses = append(clauses, fmt.Sprintf("n.%s <= $%s", f.Column, p))
			params[p] = f.Value
		case OpContains:
			clauses = append(clauses, fmt.Sprintf("toLower(n.%s) CONTAINS toLower($%s)", f.Column, p))
			params[p] = f.Value
		}
	}

	if q.Text != nil && q.Text.Term != "" {
		var ors []string
		for _, col := range q.Text.Columns {
			ors = append(ors, fmt.Sprintf("toLower(coalesce(n.%s, '')) CONTAINS toLower($text)", col))
		}
		if len(ors) > 0 {
			clauses = append(clauses, "("+strings.Join(ors, " OR ")+")")
			params["text"] = q.Text.Term
		}
	}

	if len(clauses) == 0 {
		return "", params
	}
	return "WHERE " + strings.Join(clauses, " AND "), params
}

// QueryEntities implements EntityStore.
func (s *Neo4jStore) QueryEntities(ctx context.Context, kind types.EntityType, q Query) ([]Record, error) {
	where, params := buildWhere(q)

	var b strings.Builder
	fmt.Fprintf(&b, "MATCH (n:%s) %s RETURN n", labelFor(kind), where)
	if q.OrderBy != "" {
		dir := "ASC"
		if q.Desc {
			dir = "DESC"
		}
		fmt.Fprintf(&b, " ORDER BY n.%s %s", q.OrderBy, dir)
	}
	if q.Offset > 0 {
		fmt.Fprintf(&b, " SKIP %d", q.Offset)
	}
	if q.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", q.Limit)
	}

	session := s.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.database})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, b.String(), params)
		if err != nil {
			return nil, err
		}
		var rows []Record
		for res.Next(ctx) {
			if nodeVal, found := res.Record().Get("n"); found {
				if node, ok := nodeVal.(neo4j.Node); ok {
					rows = append(rows, Record(node.Props))
				}
			}
		}
		return rows, res.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", kind, err)
	}
	rows, _ := result.([]Record)
	return rows, nil
}

// GetEntity implements EntityStore.
func (s *Neo4jStore) GetEntity(ctx context.Context, kind types.EntityType, id string) (Record, error) {
	rows, err := s.QueryEntities(ctx, kind, Query{
		Filters: []ColumnFilter{{Column: "id", Op: OpEq, Value: id}},
		Limit:   1,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return rows[0], nil
}

// ListPropertyDefinitions implements PropertyStore.
func (s *Neo4jStore) ListPropertyDefinitions(ctx context.Context, workspaceID string) ([]types.PropertyDefinition, error) {
	rows, err := s.QueryEntities(ctx, types.EntityPropertyDef, Query{
		Filters: []ColumnFilter{{Column: "workspace_id", Op: OpEq, Value: workspaceID}},
	})
	if err != nil {
		return nil, err
	}
	defs := make([]types.PropertyDefinition, 0, len(rows))
	for _, rec := range rows {
		var def types.PropertyDefinition
		if err := DecodeRecord(rec, &def); err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func (s *Neo4jStore) listProperties(ctx context.Context, filters []ColumnFilter) ([]types.EntityProperty, error) {
	session := s.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.database})
	defer session.Close(ctx)

	where, params := buildWhere(Query{Filters: filters})
	query := fmt.Sprintf("MATCH (n:EntityProperty) %s RETURN n", where)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		var props []types.EntityProperty
		for res.Next(ctx) {
			nodeVal, found := res.Record().Get("n")
			if !found {
				continue
			}
			node, ok := nodeVal.(neo4j.Node)
			if !ok {
				continue
			}
			rec := Record(node.Props)
			p := types.EntityProperty{
				ID:                   rec.Str("id"),
				WorkspaceID:          rec.Str("workspace_id"),
				EntityType:           types.EntityType(rec.Str("entity_type")),
				EntityID:             rec.Str("entity_id"),
				PropertyDefinitionID: rec.Str("property_definition_id"),
			}
			if raw := rec.Str("value"); raw != "" {
				p.Value = json.RawMessage(raw)
			}
			props = append(props, p)
		}
		return props, res.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("query entity properties: %w", err)
	}
	props, _ := result.([]types.EntityProperty)
	return props, nil
}

// ListPropertyValues implements PropertyStore.
func (s *Neo4jStore) ListPropertyValues(ctx context.Context, workspaceID string, entityType types.EntityType, definitionID string) ([]types.EntityProperty, error) {
	return s.listProperties(ctx, []ColumnFilter{
		{Column: "workspace_id", Op: OpEq, Value: workspaceID},
		{Column: "entity_type", Op: OpEq, Value: string(entityType)},
		{Column: "property_definition_id", Op: OpEq, Value: definitionID},
	})
}

// ListEntityProperties implements PropertyStore.
func (s *Neo4jStore) ListEntityProperties(ctx context.Context, workspaceID string, entityType types.EntityType, entityIDs []string) ([]types.EntityProperty, error) {
	return s.listProperties(ctx, []ColumnFilter{
		{Column: "workspace_id", Op: OpEq, Value: workspaceID},
		{Column: "entity_type", Op: OpEq, Value: string(entityType)},
		{Column: "entity_id", Op: OpIn, Value: entityIDs},
	})
}

// PutEntity implements Writer.
func (s *Neo4jStore) PutEntity(ctx context.Context, kind types.EntityType, rec Record) error {
	id := rec.Str("id")
	if id == "" {
		return types.ErrEmptyID
	}
	// Flatten nested JSON columns to strings; node properties must be scalar.
	props := make(map[string]any, len(rec))
	for k, v := range rec {
		switch v.(type) {
		case string, float64, bool, int64, nil:
			props[k] = v
		default:
			raw, err := json.Marshal(v)
			if err != nil {
				return fmt.Errorf("encode column %s: %w", k, err)
			}
			props[k] = string(raw)
		}
	}

	session := s.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.database})
	defer session.Close(ctx)

	query := fmt.Sprintf("MERGE (n:%s {id: $id}) SET n = $props", labelFor(kind))
	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return tx.Run(ctx, query, map[string]any{"id": id, "props": props})
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", kind, err)
	}
	return nil
}

// PutPropertyDefinition implements Writer.
func (s *Neo4jStore) PutPropertyDefinition(ctx context.Context, def types.PropertyDefinition) error {
	rec, err := EncodeRecord(&def)
	if err != nil {
		return err
	}
	return s.PutEntity(ctx, types.EntityPropertyDef, rec)
}

// PutEntityProperty implements Writer.
func (s *Neo4jStore) PutEntityProperty(ctx context.Context, prop types.EntityProperty) error {
	session := s.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.database})
	defer session.Close(ctx)

	query := `
		MERGE (n:EntityProperty {
			workspace_id: $workspace_id, entity_type: $entity_type,
			entity_id: $entity_id, property_definition_id: $property_definition_id
		})
		SET n.id = $id, n.value = $value
	`
	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return tx.Run(ctx, query, map[string]any{
			"workspace_id":           prop.WorkspaceID,
			"entity_type":            string(prop.EntityType),
			"entity_id":              prop.EntityID,
			"property_definition_id": prop.PropertyDefinitionID,
			"id":                     prop.ID,
			"value":                  string(prop.Value),
		})
	})
	if err != nil {
		return fmt.Errorf("put entity property: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *Neo4jStore) Close() error {
	return s.client.Close(context.Background())
}
