package pool

import (
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/go-drift/stage/pkg/errors"
	"github.com/go-drift/stage/pkg/host"
	"github.com/go-drift/stage/pkg/logging"
)

// Registry maps pool names to pools. The first CreatePool call for a name
// wins; later calls with the same name change nothing.
type Registry struct {
	host host.Host
	opts []Option
	log  *zap.Logger

	mu        sync.RWMutex
	pools     map[string]*ObjectPool
	container host.Container
}

// NewRegistry creates an empty registry backed by h. opts are applied to
// every pool the registry creates; a WithLogger option also sets the
// registry's own logger.
func NewRegistry(h host.Host, opts ...Option) *Registry {
	defaults := &ObjectPool{log: logging.Named("pool")}
	for _, opt := range opts {
		opt(defaults)
	}
	return &Registry{
		host:  h,
		opts:  opts,
		log:   defaults.log,
		pools: make(map[string]*ObjectPool),
	}
}

// Init sets the default container for pools created afterwards with
// CreatePool. Existing pools keep their container.
func (r *Registry) Init(defaultContainer host.Container) {
	r.mu.Lock()
	r.container = defaultContainer
	r.mu.Unlock()
}

// CreatePool registers a pool under name using the default container.
// It is a no-op if name is already registered.
func (r *Registry) CreatePool(name string, template host.Object, initialCount int) error {
	r.mu.RLock()
	container := r.container
	r.mu.RUnlock()
	return r.CreatePoolIn(name, template, initialCount, container)
}

// CreatePoolIn registers a pool under name whose instances are parented
// under container. It is a no-op if name is already registered.
func (r *Registry) CreatePoolIn(name string, template host.Object, initialCount int, container host.Container) error {
	if r.Has(name) {
		return nil
	}

	// Instantiation happens outside the lock; the host may call back in.
	p, err := NewObjectPool(r.host, template, initialCount, container, r.opts...)
	if err != nil {
		return err
	}

	r.mu.Lock()
	if _, exists := r.pools[name]; exists {
		r.mu.Unlock()
		// Lost a race with another CreatePool for the same name.
		for {
			obj, ok := p.dequeue()
			if !ok {
				break
			}
			r.host.Destroy(obj)
		}
		return nil
	}
	r.pools[name] = p
	r.mu.Unlock()

	r.log.Debug("pool created",
		zap.String("pool", name),
		zap.String("template", p.Name()),
		zap.Int("initial", initialCount))
	return nil
}

// Has reports whether a pool is registered under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.pools[name]
	return ok
}

// Pool returns the pool registered under name, or nil.
func (r *Registry) Pool(name string) *ObjectPool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pools[name]
}

// Get returns an active object from the named pool. It returns nil if no
// pool is registered under name or the host fails to instantiate; the
// latter is reported through package errors.
func (r *Registry) Get(name string) host.Object {
	p := r.Pool(name)
	if p == nil {
		return nil
	}
	obj, err := p.Get()
	if err != nil {
		errors.ReportErr("pool.Get", err)
		return nil
	}
	return obj
}

// Return gives obj back to the named pool. If no pool is registered under
// name, obj is destroyed instead.
func (r *Registry) Return(obj host.Object, name string) {
	if obj == nil {
		return
	}
	if p := r.Pool(name); p != nil {
		p.Return(obj)
		return
	}
	r.log.Debug("return to unknown pool, destroying", zap.String("pool", name))
	r.host.Destroy(obj)
}

// Names returns the registered pool names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.pools))
	for name := range r.pools {
		names = append(names, name)
	}
	r.mu.RUnlock()
	slices.Sort(names)
	return names
}

// PoolStats pairs a registry name with its pool's counters.
type PoolStats struct {
	Pool string `json:"pool"`
	Stats
}

// Stats returns counters for every registered pool, sorted by pool name.
func (r *Registry) Stats() []PoolStats {
	names := r.Names()
	out := make([]PoolStats, 0, len(names))
	for _, name := range names {
		if p := r.Pool(name); p != nil {
			out = append(out, PoolStats{Pool: name, Stats: p.Stats()})
		}
	}
	return out
}
