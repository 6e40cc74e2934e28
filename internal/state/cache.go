// Package state holds the panel's in-memory shared view of reference data:
// the catalog of personnel/vehicles/equipment and the last loaded shift
// state. It is never persisted; it is rehydrated from the remote store on
// load. One Cache is constructed at process start and torn down with it.
package state

import (
	"sort"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/dvelarde/vigia/internal/guardia"
)

// CatalogEntry is one typed reference entry of the inventory catalog.
type CatalogEntry struct {
	Tipo   string `json:"tipo"`
	Label  string `json:"label"`
	Value  string `json:"value"`
	Orden  int    `json:"orden"`
	Activo bool   `json:"activo"`
}

// CatalogDocument is the catalog table payload.
type CatalogDocument struct {
	Entries []CatalogEntry `json:"entries"`
}

// Observer is notified synchronously after every replace-all mutation.
type Observer func()

// Cache is the explicit state holder replacing ad-hoc globals: replace-all
// setters notify subscribers, accessors serve the merge and import engines.
type Cache struct {
	mu        sync.RWMutex
	catalog   []CatalogEntry
	shift     *guardia.Document
	observers []Observer
	collator  *collate.Collator
}

func NewCache() *Cache {
	return &Cache{collator: collate.New(language.Spanish)}
}

// Subscribe registers an observer. Observers run synchronously, in
// registration order, after each setter completes its mutation.
func (c *Cache) Subscribe(o Observer) {
	c.mu.Lock()
	c.observers = append(c.observers, o)
	c.mu.Unlock()
}

// SetCatalog replaces the whole catalog and notifies observers.
func (c *Cache) SetCatalog(entries []CatalogEntry) {
	c.mu.Lock()
	c.catalog = append([]CatalogEntry(nil), entries...)
	observers := append([]Observer(nil), c.observers...)
	c.mu.Unlock()

	for _, o := range observers {
		o()
	}
}

// SetShiftState replaces the live shift-state document and notifies observers.
func (c *Cache) SetShiftState(doc *guardia.Document) {
	c.mu.Lock()
	c.shift = doc
	observers := append([]Observer(nil), c.observers...)
	c.mu.Unlock()

	for _, o := range observers {
		o()
	}
}

// ShiftState returns the last loaded shift-state document, or nil.
func (c *Cache) ShiftState() *guardia.Document {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.shift
}

// Label resolves a catalog value of the given type to its display label,
// falling back to the raw value when unresolved.
func (c *Cache) Label(tipo, value string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, e := range c.catalog {
		if e.Tipo == tipo && e.Value == value {
			return e.Label
		}
	}
	return value
}

// Active returns the active entries of a type, ordered by ascending Orden
// and then by locale-aware label comparison. The sort runs under the write
// lock: the collator mutates internal buffers on every compare.
func (c *Cache) Active(tipo string) []CatalogEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make([]CatalogEntry, 0, len(c.catalog))
	for _, e := range c.catalog {
		if e.Tipo == tipo && e.Activo {
			result = append(result, e)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Orden != result[j].Orden {
			return result[i].Orden < result[j].Orden
		}
		return c.collator.CompareString(result[i].Label, result[j].Label) < 0
	})
	return result
}
