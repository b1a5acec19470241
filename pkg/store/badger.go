package store

import (
	"context"
	"encoding/json"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/loomworks/scout/pkg/types"
)

// Key layout. Entities carry no workspace segment because nested kinds
// (tab, block) have none; scoping happens through query filters like it
// does on every other driver.
const (
	entityKeyPrefix = "ent/"
	defKeyPrefix    = "def/"
	propKeyPrefix   = "prop/"
)

// BadgerStore is the embedded persistent driver. Queries prefix-scan a kind
// and filter in memory, which the engine's latency model explicitly
// tolerates for workspace-sized data sets.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadger opens (or creates) a badger-backed store at path. An empty
// path opens an in-memory instance.
func OpenBadger(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger store: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// DB exposes the underlying badger instance so other layers (the member
// cache) can share one open database.
func (s *BadgerStore) DB() *badger.DB {
	return s.db
}

func entityKey(kind types.EntityType, id string) []byte {
	return []byte(entityKeyPrefix + string(kind) + "/" + id)
}

func defKey(workspaceID, id string) []byte {
	return []byte(defKeyPrefix + workspaceID + "/" + id)
}

func propKey(p types.EntityProperty) []byte {
	return []byte(propKeyPrefix + p.WorkspaceID + "/" + string(p.EntityType) + "/" + p.EntityID + "/" + p.PropertyDefinitionID)
}

// QueryEntities implements EntityStore.
func (s *BadgerStore) QueryEntities(ctx context.Context, kind types.EntityType, q Query) ([]Record, error) {
	var rows []Record
	prefix := []byte(entityKeyPrefix + string(kind) + "/")
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix, PrefetchValues: true, PrefetchSize: 128})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := it.Item().Value(func(val []byte) error {
				var rec Record
				if err := json.Unmarshal(val, &rec); err != nil {
					return fmt.Errorf("decode entity %s: %w", it.Item().Key(), err)
				}
				rows = append(rows, rec)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return applyQuery(rows, q), nil
}

// GetEntity implements EntityStore.
func (s *BadgerStore) GetEntity(ctx context.Context, kind types.EntityType, id string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rec Record
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(entityKey(kind, id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

// ListPropertyDefinitions implements PropertyStore.
func (s *BadgerStore) ListPropertyDefinitions(ctx context.Context, workspaceID string) ([]types.PropertyDefinition, error) {
	var defs []types.PropertyDefinition
	prefix := []byte(defKeyPrefix + workspaceID + "/")
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix, PrefetchValues: true, PrefetchSize: 64})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := it.Item().Value(func(val []byte) error {
				var def types.PropertyDefinition
				if err := json.Unmarshal(val, &def); err != nil {
					return err
				}
				defs = append(defs, def)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return defs, nil
}

func (s *BadgerStore) scanProperties(ctx context.Context, prefix string, keep func(types.EntityProperty) bool) ([]types.EntityProperty, error) {
	var out []types.EntityProperty
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: []byte(prefix), PrefetchValues: true, PrefetchSize: 128})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := it.Item().Value(func(val []byte) error {
				var p types.EntityProperty
				if err := json.Unmarshal(val, &p); err != nil {
					return err
				}
				if keep(p) {
					out = append(out, p)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListPropertyValues implements PropertyStore.
func (s *BadgerStore) ListPropertyValues(ctx context.Context, workspaceID string, entityType types.EntityType, definitionID string) ([]types.EntityProperty, error) {
	prefix := propKeyPrefix + workspaceID + "/" + string(entityType) + "/"
	return s.scanProperties(ctx, prefix, func(p types.EntityProperty) bool {
		return p.PropertyDefinitionID == definitionID
	})
}

// ListEntityProperties implements PropertyStore.
func (s *BadgerStore) ListEntityProperties(ctx context.Context, workspaceID string, entityType types.EntityType, entityIDs []string) ([]types.EntityProperty, error) {
	wanted := make(map[string]struct{}, len(entityIDs))
	for _, id := range entityIDs {
		wanted[id] = struct{}{}
	}
	prefix := propKeyPrefix + workspaceID + "/" + string(entityType) + "/"
	return s.scanProperties(ctx, prefix, func(p types.EntityProperty) bool {
		_, ok := wanted[p.EntityID]
		return ok
	})
}

// PutEntity implements Writer.
func (s *BadgerStore) PutEntity(ctx context.Context, kind types.EntityType, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id := rec.Str("id")
	if id == "" {
		return types.ErrEmptyID
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode entity: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(entityKey(kind, id), raw)
	})
}

// PutPropertyDefinition implements Writer.
func (s *BadgerStore) PutPropertyDefinition(ctx context.Context, def types.PropertyDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	raw, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("encode definition: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(defKey(def.WorkspaceID, def.ID), raw)
	})
}

// PutEntityProperty implements Writer. Keying by the uniqueness tuple makes
// re-puts overwrite rather than duplicate.
func (s *BadgerStore) PutEntityProperty(ctx context.Context, prop types.EntityProperty) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := json.Marshal(prop)
	if err != nil {
		return fmt.Errorf("encode property: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(propKey(prop), raw)
	})
}

// Close implements Store.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// DropAll wipes the store. Test helper.
func (s *BadgerStore) DropAll() error {
	return s.db.DropPrefix([]byte(entityKeyPrefix), []byte(defKeyPrefix), []byte(propKeyPrefix))
}
