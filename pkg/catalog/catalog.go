// Package catalog resolves star names to catalog records.
//
// The prediction engine never owns star data; it receives a Catalog and
// asks it for a StarRecord by name.
package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	errorsmod "cosmossdk.io/errors"

	"github.com/oxygene76/orbittracker/internal/types"
)

// Catalog looks up a star by name or alias
type Catalog interface {
	Lookup(ctx context.Context, name string) (types.StarRecord, error)
}

// MemoryCatalog is an in-memory Catalog with a case- and
// whitespace-insensitive name and alias index. It is safe for concurrent use.
type MemoryCatalog struct {
	mu    sync.RWMutex
	stars []types.StarRecord
	index map[string]int
}

// NewMemoryCatalog creates an empty catalog
func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{index: make(map[string]int)}
}

// Add registers star under its name and any aliases. Keys already taken by
// another star are rejected and nothing is added.
func (c *MemoryCatalog) Add(star types.StarRecord, aliases ...string) error {
	keys := make([]string, 0, len(aliases)+1)
	for _, n := range append([]string{star.Name}, aliases...) {
		if k := normalizeName(n); k != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return fmt.Errorf("star has no name")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, k := range keys {
		if _, ok := c.index[k]; ok {
			return fmt.Errorf("name %q already registered", k)
		}
	}

	c.stars = append(c.stars, star.Clone())
	for _, k := range keys {
		c.index[k] = len(c.stars) - 1
	}
	return nil
}

// Lookup implements Catalog
func (c *MemoryCatalog) Lookup(ctx context.Context, name string) (types.StarRecord, error) {
	if err := ctx.Err(); err != nil {
		return types.StarRecord{}, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.index[normalizeName(name)]
	if !ok {
		return types.StarRecord{}, errorsmod.Wrapf(types.ErrNotFound, "%q", name)
	}
	return c.stars[i].Clone(), nil
}

// List returns all stars sorted by name
func (c *MemoryCatalog) List() []types.StarRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]types.StarRecord, len(c.stars))
	for i, s := range c.stars {
		out[i] = s.Clone()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of stars
func (c *MemoryCatalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.stars)
}

func normalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
