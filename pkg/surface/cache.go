// Package surface manages stacked UI surfaces: screens, dialogs and panels
// that are instantiated once and then shown or hidden instead of rebuilt.
//
// A Cache creates each surface lazily from the template at "UI/<key>" and
// keeps it for the lifetime of the cache. A Stack tracks which surfaces are
// open, in opening order, and assigns draw order so later surfaces render
// above earlier ones.
package surface

import (
	"reflect"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/go-drift/stage/pkg/errors"
	"github.com/go-drift/stage/pkg/host"
	"github.com/go-drift/stage/pkg/logging"
)

// PathPrefix is prepended to a key to form the template path.
const PathPrefix = "UI/"

// Key identifies a surface by the name of its logical type.
type Key string

// KeyFor returns the key for surface type T: its unqualified type name.
// Pointer types use the name of the element type.
func KeyFor[T any]() Key {
	t := reflect.TypeOf((*T)(nil)).Elem()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return Key(t.Name())
}

// Path returns the template path for k.
func (k Key) Path() string {
	return PathPrefix + string(k)
}

// Cache lazily instantiates one surface per key.
type Cache struct {
	host   host.Host
	loader host.Loader
	log    *zap.Logger

	mu      sync.Mutex
	parent  host.Container
	entries map[Key]host.Object
}

// NewCache creates a cache that instantiates surfaces under parent.
// parent may be nil and set later with SetParent; until then every
// uncached Resolve reports a configuration error.
func NewCache(h host.Host, loader host.Loader, parent host.Container) *Cache {
	return &Cache{
		host:    h,
		loader:  loader,
		log:     logging.Named("surface"),
		parent:  parent,
		entries: make(map[Key]host.Object),
	}
}

// SetParent sets the container new surfaces are created under.
func (c *Cache) SetParent(parent host.Container) {
	c.mu.Lock()
	c.parent = parent
	c.mu.Unlock()
}

// Lookup returns the cached surface for key without creating it.
func (c *Cache) Lookup(key Key) (host.Object, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	obj, ok := c.entries[key]
	return obj, ok
}

// Len returns the number of cached surfaces.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Keys returns the cached keys in sorted order.
func (c *Cache) Keys() []Key {
	c.mu.Lock()
	keys := make([]Key, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	c.mu.Unlock()
	slices.Sort(keys)
	return keys
}

// Resolve returns the surface for key, instantiating it deactivated on
// first use. It returns nil when no parent is set or no template exists at
// key.Path(); both cases are reported through package errors.
func (c *Cache) Resolve(key Key) host.Object {
	obj, err := c.resolve(key)
	if err != nil {
		errors.ReportErr("surface.Resolve", err)
		return nil
	}
	return obj
}

// Preload resolves each key so the first Open does not pay for
// instantiation. It returns the number of surfaces available afterwards.
func (c *Cache) Preload(keys ...Key) int {
	n := 0
	for _, key := range keys {
		if c.Resolve(key) != nil {
			n++
		}
	}
	return n
}

func (c *Cache) resolve(key Key) (host.Object, error) {
	c.mu.Lock()
	if obj, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return obj, nil
	}
	parent := c.parent
	c.mu.Unlock()

	if parent == nil {
		return nil, &errors.Error{
			Op:   "surface.Resolve",
			Kind: errors.KindConfiguration,
			Key:  string(key),
			Err:  errors.ErrNoParent,
		}
	}

	template, ok := c.loader.LoadTemplate(key.Path())
	if !ok || template == nil {
		return nil, &errors.Error{
			Op:   "surface.Resolve",
			Kind: errors.KindResourceNotFound,
			Key:  string(key),
			Err:  errors.ErrTemplateNotFound,
		}
	}

	obj, err := c.host.Instantiate(template, parent)
	if err == nil && obj == nil {
		err = errors.ErrEmptyObject
	}
	if err != nil {
		return nil, &errors.Error{
			Op:   "surface.Resolve",
			Kind: errors.KindHost,
			Key:  string(key),
			Err:  err,
		}
	}
	c.host.SetActive(obj, false)

	c.mu.Lock()
	if existing, ok := c.entries[key]; ok {
		c.mu.Unlock()
		// Another caller resolved key while we were instantiating.
		c.host.Destroy(obj)
		return existing, nil
	}
	c.entries[key] = obj
	c.mu.Unlock()
	c.log.Debug("surface instantiated", zap.String("key", string(key)))
	return obj, nil
}
