package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/loomworks/scout/pkg/types"
)

// Seed is a YAML workspace fixture. It exists so the embedded drivers and
// the one-shot CLI can load a realistic dataset without a live backend.
type Seed struct {
	WorkspaceID         string                      `yaml:"workspace_id"`
	PropertyDefinitions []SeedPropertyDefinition    `yaml:"property_definitions"`
	Entities            map[string][]map[string]any `yaml:"entities"`
	EntityProperties    []SeedEntityProperty        `yaml:"entity_properties"`
}

// SeedPropertyDefinition declares one custom property.
type SeedPropertyDefinition struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// SeedEntityProperty sets one property value on one entity. Definition may
// reference the definition by ID or by name.
type SeedEntityProperty struct {
	ID         string `yaml:"id"`
	EntityType string `yaml:"entity_type"`
	EntityID   string `yaml:"entity_id"`
	Definition string `yaml:"definition"`
	Value      any    `yaml:"value"`
}

// LoadSeedFile reads a YAML seed from disk.
func LoadSeedFile(path string) (*Seed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var seed Seed
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	if seed.WorkspaceID == "" {
		return nil, types.ErrEmptyWorkspaceID
	}
	return &seed, nil
}

// Apply writes the seed into a store. Entity records without a workspace_id
// column inherit the seed's workspace unless the kind is scoped through an
// ownership chain (tab, block).
func (s *Seed) Apply(ctx context.Context, w Writer) error {
	defIDs := make(map[string]string, len(s.PropertyDefinitions))
	for i, sd := range s.PropertyDefinitions {
		def := types.PropertyDefinition{
			ID:          sd.ID,
			WorkspaceID: s.WorkspaceID,
			Name:        sd.Name,
			Type:        types.PropertyType(sd.Type),
		}
		if def.ID == "" {
			def.ID = fmt.Sprintf("def-%d", i+1)
		}
		if err := w.PutPropertyDefinition(ctx, def); err != nil {
			return fmt.Errorf("seed definition %q: %w", sd.Name, err)
		}
		defIDs[sd.Name] = def.ID
		defIDs[def.ID] = def.ID
	}

	for kindName, rows := range s.Entities {
		kind := types.EntityType(kindName)
		for _, row := range rows {
			rec := Record(row)
			if rec.Str("workspace_id") == "" && kind != types.EntityTab && kind != types.EntityBlock {
				rec["workspace_id"] = s.WorkspaceID
			}
			if err := w.PutEntity(ctx, kind, rec); err != nil {
				return fmt.Errorf("seed %s %q: %w", kindName, rec.Str("id"), err)
			}
		}
	}

	for i, sp := range s.EntityProperties {
		defID, ok := defIDs[sp.Definition]
		if !ok {
			return fmt.Errorf("seed property %d: unknown definition %q", i, sp.Definition)
		}
		raw, err := json.Marshal(normalizeYAML(sp.Value))
		if err != nil {
			return fmt.Errorf("seed property %d: %w", i, err)
		}
		prop := types.EntityProperty{
			ID:                   sp.ID,
			WorkspaceID:          s.WorkspaceID,
			EntityType:           types.EntityType(sp.EntityType),
			EntityID:             sp.EntityID,
			PropertyDefinitionID: defID,
			Value:                raw,
		}
		if prop.ID == "" {
			prop.ID = fmt.Sprintf("prop-%d", i+1)
		}
		if err := w.PutEntityProperty(ctx, prop); err != nil {
			return fmt.Errorf("seed property %d: %w", i, err)
		}
	}
	return nil
}

// normalizeYAML rewrites yaml's map[any]any shapes into JSON-encodable maps.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalizeYAML(val)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalizeYAML(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalizeYAML(val)
		}
		return out
	default:
		return v
	}
}
