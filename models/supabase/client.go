// Package supabase finds associated models in Supabase (PostgREST) tables.
package supabase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/supabase-community/supabase-go"

	"github.com/creastat/cart/models"
)

// ErrNotFound is returned when no row matches the id.
var ErrNotFound = errors.New("row not found")

// Config holds Supabase connection configuration
type Config struct {
	URL      string
	APIKey   string
	CacheTTL time.Duration // Default: 5 minutes
	// IDColumn is the column matched against the product id. Default: "id".
	IDColumn string
}

// Row is one table row as returned by PostgREST.
type Row = map[string]any

// fetchFunc loads the row where column equals value into dest.
type fetchFunc func(ctx context.Context, table, column, value string, dest *Row) error

// Client reads rows by id and caches them for CacheTTL.
type Client struct {
	fetch    fetchFunc
	idColumn string
	cache    *cache
	cacheTTL time.Duration
}

// cache provides thread-safe caching of fetched rows keyed by table and id
type cache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	value     Row
	expiresAt time.Time
}

// New creates a new Supabase client
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("supabase URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("supabase API key is required")
	}

	client, err := supabase.NewClient(cfg.URL, cfg.APIKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}

	fetch := func(_ context.Context, table, column, value string, dest *Row) error {
		_, err := client.From(table).
			Select("*", "", false).
			Eq(column, value).
			Single().
			ExecuteTo(dest)
		return err
	}
	return newClient(fetch, cfg), nil
}

func newClient(fetch fetchFunc, cfg Config) *Client {
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.IDColumn == "" {
		cfg.IDColumn = "id"
	}
	return &Client{
		fetch:    fetch,
		idColumn: cfg.IDColumn,
		cacheTTL: cfg.CacheTTL,
		cache:    &cache{entries: make(map[string]*cacheEntry)},
	}
}

// Get retrieves the row of table whose id column equals id
func (c *Client) Get(ctx context.Context, table string, id any) (Row, error) {
	key := fmt.Sprintf("%s/%v", table, id)

	// Check cache first
	if cached := c.getFromCache(key); cached != nil {
		return cached, nil
	}

	var row Row
	if err := c.fetch(ctx, table, c.idColumn, fmt.Sprint(id), &row); err != nil {
		return nil, fmt.Errorf("failed to get %s %v: %w", table, id, err)
	}
	if len(row) == 0 {
		return nil, fmt.Errorf("%w: %s %v", ErrNotFound, table, id)
	}

	c.addToCache(key, row)
	return row, nil
}

// Table returns a finder over one table, for registration in a models.Registry.
func (c *Client) Table(table string) models.Finder {
	return models.FinderFunc(func(ctx context.Context, id any) (any, error) {
		return c.Get(ctx, table, id)
	})
}

// Close closes the Supabase client
func (c *Client) Close() error {
	// Supabase client doesn't require explicit close
	return nil
}

func (c *Client) getFromCache(key string) Row {
	c.cache.mu.RLock()
	defer c.cache.mu.RUnlock()

	if e, ok := c.cache.entries[key]; ok {
		if time.Now().Before(e.expiresAt) {
			return e.value
		}
	}
	return nil
}

func (c *Client) addToCache(key string, value Row) {
	c.cache.mu.Lock()
	defer c.cache.mu.Unlock()

	c.cache.entries[key] = &cacheEntry{
		value:     value,
		expiresAt: time.Now().Add(c.cacheTTL),
	}
}
