// ABOUTME: Badger preference repository for an embedded, file-based KV store.
// ABOUTME: Keys are namespaced with "pref:" and written in one transaction per change set.
package storage

import (
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v3"
)

// PrefPrefix namespaces preference keys inside the Badger keyspace.
const PrefPrefix = "pref:"

// BadgerStore is a Repository backed by Badger.
type BadgerStore struct {
	db  *badger.DB
	dir string
}

// Compile-time check that BadgerStore implements Repository.
var _ Repository = (*BadgerStore)(nil)

// OpenBadger opens or creates a Badger database in dir.
func OpenBadger(dir string) (*BadgerStore, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerStore{db: db, dir: dir}, nil
}

// OpenBadgerInMemory opens a Badger database that lives only in memory.
func OpenBadgerInMemory() (*BadgerStore, error) {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// Close closes the Badger database.
func (b *BadgerStore) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}

// Load returns every preference under PrefPrefix.
func (b *BadgerStore) Load() (map[string]string, error) {
	values := make(map[string]string)
	prefix := []byte(PrefPrefix)

	err := b.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			values[string(item.Key()[len(prefix):])] = string(val)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	return values, nil
}

// Apply writes the change set in one read-write transaction.
func (b *BadgerStore) Apply(changes Changes) error {
	if changes.IsEmpty() {
		return nil
	}

	err := b.db.Update(func(txn *badger.Txn) error {
		for k, v := range changes.Set {
			if err := txn.Set([]byte(PrefPrefix+k), []byte(v)); err != nil {
				return fmt.Errorf("set %s: %w", k, err)
			}
		}
		for _, k := range changes.Delete {
			if err := txn.Delete([]byte(PrefPrefix + k)); err != nil {
				return fmt.Errorf("delete %s: %w", k, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("apply changes: %w", err)
	}

	// In-memory databases have nothing to flush.
	if b.dir == "" {
		return nil
	}
	return b.db.Sync()
}
