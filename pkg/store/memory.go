package store

import (
	"context"
	"sync"

	"github.com/loomworks/scout/pkg/types"
)

// MemoryStore is the in-memory reference driver. It backs tests and the
// one-shot CLI; semantics match the persistent drivers exactly since all
// three share the same filter evaluation.
type MemoryStore struct {
	mu       sync.RWMutex
	entities map[types.EntityType]map[string]Record
	defs     map[string][]types.PropertyDefinition
	props    []types.EntityProperty
	closed   bool
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entities: make(map[types.EntityType]map[string]Record),
		defs:     make(map[string][]types.PropertyDefinition),
	}
}

// QueryEntities implements EntityStore.
func (s *MemoryStore) QueryEntities(ctx context.Context, kind types.EntityType, q Query) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	rows := make([]Record, 0, len(s.entities[kind]))
	for _, rec := range s.entities[kind] {
		rows = append(rows, rec)
	}
	return applyQuery(rows, q), nil
}

// GetEntity implements EntityStore.
func (s *MemoryStore) GetEntity(ctx context.Context, kind types.EntityType, id string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	rec, ok := s.entities[kind][id]
	if !ok {
		return nil, ErrNotFound
	}
	return rec, nil
}

// ListPropertyDefinitions implements PropertyStore.
func (s *MemoryStore) ListPropertyDefinitions(ctx context.Context, workspaceID string) ([]types.PropertyDefinition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	defs := s.defs[workspaceID]
	out := make([]types.PropertyDefinition, len(defs))
	copy(out, defs)
	return out, nil
}

// ListPropertyValues implements PropertyStore.
func (s *MemoryStore) ListPropertyValues(ctx context.Context, workspaceID string, entityType types.EntityType, definitionID string) ([]types.EntityProperty, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	var out []types.EntityProperty
	for _, p := range s.props {
		if p.WorkspaceID == workspaceID && p.EntityType == entityType && p.PropertyDefinitionID == definitionID {
			out = append(out, p)
		}
	}
	return out, nil
}

// ListEntityProperties implements PropertyStore.
func (s *MemoryStore) ListEntityProperties(ctx context.Context, workspaceID string, entityType types.EntityType, entityIDs []string) ([]types.EntityProperty, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	wanted := make(map[string]struct{}, len(entityIDs))
	for _, id := range entityIDs {
		wanted[id] = struct{}{}
	}
	var out []types.EntityProperty
	for _, p := range s.props {
		if p.WorkspaceID != workspaceID || p.EntityType != entityType {
			continue
		}
		if _, ok := wanted[p.EntityID]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// PutEntity implements Writer.
func (s *MemoryStore) PutEntity(ctx context.Context, kind types.EntityType, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id := rec.Str("id")
	if id == "" {
		return types.ErrEmptyID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.entities[kind] == nil {
		s.entities[kind] = make(map[string]Record)
	}
	s.entities[kind][id] = rec
	return nil
}

// PutPropertyDefinition implements Writer.
func (s *MemoryStore) PutPropertyDefinition(ctx context.Context, def types.PropertyDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	for i, existing := range s.defs[def.WorkspaceID] {
		if existing.ID == def.ID {
			s.defs[def.WorkspaceID][i] = def
			return nil
		}
	}
	s.defs[def.WorkspaceID] = append(s.defs[def.WorkspaceID], def)
	return nil
}

// PutEntityProperty implements Writer. The (workspace, entity_type, entity,
// definition) tuple stays unique: an existing row is replaced.
func (s *MemoryStore) PutEntityProperty(ctx context.Context, prop types.EntityProperty) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	for i, existing := range s.props {
		if existing.WorkspaceID == prop.WorkspaceID &&
			existing.EntityType == prop.EntityType &&
			existing.EntityID == prop.EntityID &&
			existing.PropertyDefinitionID == prop.PropertyDefinitionID {
			s.props[i] = prop
			return nil
		}
	}
	s.props = append(s.props, prop)
	return nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
