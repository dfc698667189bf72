package badger

import (
	"context"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"
	"github.com/warriorguo/dagflow/store"
)

var (
	_ store.Store = &badgerStore{}
)

// Config holds BadgerDB configuration
type Config struct {
	// Path is the directory for database files. Ignored when InMemory is true.
	Path string

	// InMemory keeps all data in RAM. Useful for testing.
	InMemory bool

	// SyncWrites flushes every write to disk before returning.
	SyncWrites bool
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Path:       "dagflow.db",
		SyncWrites: true,
	}
}

// InMemoryConfig returns a configuration with no disk persistence
func InMemoryConfig() *Config {
	return &Config{
		InMemory: true,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if !c.InMemory && c.Path == "" {
		return errors.New("path cannot be empty for a persistent database")
	}
	return nil
}

// badgerStore implements Store interface using embedded BadgerDB
type badgerStore struct {
	db *badger.DB
}

// NewBadgerStore creates a new BadgerDB store with the given configuration
func NewBadgerStore(config *Config) (store.Store, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}

	var opts badger.Options
	if config.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(config.Path)
	}
	opts = opts.WithSyncWrites(config.SyncWrites)
	opts = opts.WithLogger(log.StandardLogger())

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Annotatef(err, "failed to open badger database")
	}

	return &badgerStore{db: db}, nil
}

// NewBadgerStoreWithDB creates a new BadgerDB store with an existing database
func NewBadgerStoreWithDB(db *badger.DB) (store.Store, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}
	return &badgerStore{db: db}, nil
}

func storeKey(prefix, key string) []byte {
	return []byte(prefix + "|" + key)
}

// Get retrieves a value by prefix and key
func (b *badgerStore) Get(ctx context.Context, prefix, key string) ([]byte, error) {
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(storeKey(prefix, key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil // Return nil for non-existent keys
		}
		return nil, errors.Annotatef(err, "failed to get value for prefix=%s, key=%s", prefix, key)
	}

	return value, nil
}

// Set stores a value with the given prefix and key
func (b *badgerStore) Set(ctx context.Context, prefix, key string, value []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(storeKey(prefix, key), value)
	})
	if err != nil {
		return errors.Annotatef(err, "failed to set value for prefix=%s, key=%s", prefix, key)
	}

	return nil
}

// Remove deletes a value by prefix and key
func (b *badgerStore) Remove(ctx context.Context, prefix, key string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(storeKey(prefix, key))
	})
	if err != nil {
		return errors.Annotatef(err, "failed to remove value for prefix=%s, key=%s", prefix, key)
	}

	return nil
}

// List retrieves all keys with the given prefix and calls the iterator for each.
// Keys come back in BadgerDB's lexicographic order.
func (b *badgerStore) List(ctx context.Context, prefix string, iterator func(key string) bool) error {
	keyPrefix := storeKey(prefix, "")

	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(keyPrefix); it.ValidForPrefix(keyPrefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			key := string(it.Item().Key()[len(keyPrefix):])
			if !iterator(key) {
				break
			}
		}
		return nil
	})
	if err != nil {
		return errors.Annotatef(err, "failed to list keys for prefix=%s", prefix)
	}

	return nil
}

// Close closes the database
func (b *badgerStore) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}
