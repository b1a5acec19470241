package cache

import (
	"time"

	badger "github.com/dgraph-io/badger/v4"
)

// Badger is a Cache over a badger database, using badger's native entry
// TTL. Useful when the embedded store driver is already holding a database
// open and the cache should survive restarts.
type Badger struct {
	db     *badger.DB
	prefix []byte
}

// NewBadger wraps an open badger database. All cache keys are namespaced
// under the given prefix so cache entries never collide with store keys.
func NewBadger(db *badger.DB, prefix string) *Badger {
	if prefix == "" {
		prefix = "cache/"
	}
	return &Badger{db: db, prefix: []byte(prefix)}
}

// Get implements Cache.
func (c *Badger) Get(key string) ([]byte, bool) {
	var out []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(append(c.prefix, key...))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, false
	}
	return out, true
}

// Set implements Cache. Badger drops the entry itself once the TTL lapses.
func (c *Badger) Set(key string, value []byte, ttl time.Duration) {
	_ = c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(append(c.prefix, key...), value)
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		return txn.SetEntry(entry)
	})
}
