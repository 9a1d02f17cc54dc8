// ABOUTME: Charm KV client wrapper for the hydrate preference document.
// ABOUTME: Provides thread-safe initialization and automatic cloud sync.
package charm

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/dgraph-io/badger/v3"
	"github.com/harperreed/hydrate/internal/storage"
)

const (
	// DBName is the Charm KV database holding hydrate data.
	DBName    = "hydrate"
	charmHost = "charm.2389.dev"

	// DocumentKey holds the whole preference document as one JSON object,
	// so every change set is a single atomic Set.
	DocumentKey = "preferences"
)

// ErrReadOnly is returned for writes while another process holds the lock.
var ErrReadOnly = errors.New("cannot write: database is locked by another process (MCP server?)")

var (
	globalClient *Client
	clientOnce   sync.Once
	clientErr    error
)

// Client is a storage.Repository backed by Charm KV.
type Client struct {
	kv *kv.KV
	mu sync.RWMutex
}

// Compile-time check that Client implements storage.Repository.
var _ storage.Repository = (*Client)(nil)

// InitClient initializes the global Charm client.
// Thread-safe; can be called multiple times.
func InitClient() (*Client, error) {
	clientOnce.Do(func() {
		// Set server before opening KV
		if os.Getenv("CHARM_HOST") == "" {
			if err := os.Setenv("CHARM_HOST", charmHost); err != nil {
				clientErr = err
				return
			}
		}

		db, err := kv.OpenWithDefaultsFallback(DBName)
		if err != nil {
			clientErr = err
			return
		}

		globalClient = &Client{kv: db}

		// Pull remote data on startup (skip in read-only mode)
		if !db.IsReadOnly() {
			_ = db.Sync()
		}
	})

	return globalClient, clientErr
}

// Close closes the KV database connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kv != nil {
		return c.kv.Close()
	}
	return nil
}

// IsReadOnly returns true if the database is open in read-only mode.
// This happens when another process (like an MCP server) holds the lock.
func (c *Client) IsReadOnly() bool {
	return c.kv.IsReadOnly()
}

// Sync synchronizes local state with Charm Cloud.
func (c *Client) Sync() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.kv.IsReadOnly() {
		return nil
	}
	return c.kv.Sync()
}

// syncAfterWrite pushes a committed change to Charm Cloud. Sync failures are
// ignored; the next write or explicit sync retries.
func (c *Client) syncAfterWrite() {
	if !c.kv.IsReadOnly() {
		_ = c.kv.Sync()
	}
}

// ID returns the Charm user ID for the current account.
func (c *Client) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("create charm client: %w", err)
	}
	return cc.ID()
}

// Load returns the stored preference document.
func (c *Client) Load() (map[string]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.load()
}

// Apply merges the change set into the document and stores it.
func (c *Client) Apply(changes storage.Changes) error {
	if changes.IsEmpty() {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return ErrReadOnly
	}

	current, err := c.load()
	if err != nil {
		return err
	}

	data, err := encodeDocument(changes.ApplyTo(current))
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}
	if err := c.kv.Set([]byte(DocumentKey), data); err != nil {
		return fmt.Errorf("store preferences: %w", err)
	}
	c.syncAfterWrite()
	return nil
}

func (c *Client) load() (map[string]string, error) {
	data, err := c.kv.Get([]byte(DocumentKey))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("get preferences: %w", err)
	}
	return decodeDocument(data)
}

// encodeDocument marshals the preference map.
func encodeDocument(values map[string]string) ([]byte, error) {
	return json.Marshal(values)
}

// decodeDocument unmarshals a stored document. An empty value is an empty document.
func decodeDocument(data []byte) (map[string]string, error) {
	values := map[string]string{}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("unmarshal preferences: %w", err)
	}
	if values == nil {
		values = map[string]string{}
	}
	return values, nil
}
