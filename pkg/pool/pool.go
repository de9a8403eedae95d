// Package pool reuses host-managed visual objects.
//
// An ObjectPool owns the free instances of one template. A Registry maps
// pool names to pools and is the usual entry point:
//
//	reg := pool.NewRegistry(h)
//	reg.Init(bulletRoot)
//	if err := reg.CreatePool("Bullet", bulletTemplate, 32); err != nil {
//	    return err
//	}
//	b := reg.Get("Bullet")
//	// ...
//	reg.Return(b, "Bullet")
//
// Pools grow without limit when demand outruns the free queue. Growth is
// observable through WithGrowthHook and the prometheus Collector.
package pool

import (
	"sync"

	"go.uber.org/zap"

	"github.com/go-drift/stage/pkg/errors"
	"github.com/go-drift/stage/pkg/host"
	"github.com/go-drift/stage/pkg/logging"
)

// Stats is a point-in-time view of one pool.
type Stats struct {
	// Name is the template's logical name.
	Name string `json:"name"`
	// Created counts every instance the pool has instantiated.
	Created int `json:"created"`
	// Live is the number of instances the pool tracks, free or in use.
	// A handle stops counting once Get finds it destroyed in the queue.
	Live int `json:"live"`
	// Free is the number of queued instances.
	Free int `json:"free"`
	// InUse is Live minus Free.
	InUse int `json:"inUse"`
	// HighWater is the largest InUse value the pool has reached.
	HighWater int `json:"highWater"`
}

// GrowthHook is called after a Get instantiates a new object and that
// raises the pool's high-water mark.
type GrowthHook func(stats Stats)

// Option configures an ObjectPool.
type Option func(*ObjectPool)

// WithGrowthHook registers fn to be told about lazy growth.
func WithGrowthHook(fn GrowthHook) Option {
	return func(p *ObjectPool) {
		p.onGrow = fn
	}
}

// WithLogger sets the logger used for growth diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(p *ObjectPool) {
		if l != nil {
			p.log = l
		}
	}
}

// ObjectPool hands out and reclaims instances of a single template.
//
// Get scans the free queue front to back, dropping handles the host has
// destroyed or something else has re-activated. Return trusts the caller:
// any object is accepted, whether or not this pool created it.
type ObjectPool struct {
	host      host.Host
	template  host.Object
	container host.Container
	name      string
	onGrow    GrowthHook
	log       *zap.Logger

	mu        sync.Mutex
	free      []host.Object
	queued    map[host.Object]struct{}
	live      map[host.Object]struct{}
	created   int
	highWater int
}

// NewObjectPool creates a pool for template and fills it with initialCount
// deactivated instances parented under container.
//
// If the host fails to instantiate, the instances created so far are
// destroyed and the error is returned.
func NewObjectPool(h host.Host, template host.Object, initialCount int, container host.Container, opts ...Option) (*ObjectPool, error) {
	p := &ObjectPool{
		host:      h,
		template:  template,
		container: container,
		name:      host.NameOf(template),
		log:       logging.Named("pool"),
		queued:    make(map[host.Object]struct{}),
		live:      make(map[host.Object]struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}

	for i := 0; i < initialCount; i++ {
		obj, err := p.instantiate()
		if err != nil {
			for _, made := range p.free {
				h.Destroy(made)
			}
			return nil, err
		}
		h.SetActive(obj, false)
		p.free = append(p.free, obj)
		p.queued[obj] = struct{}{}
		p.live[obj] = struct{}{}
	}
	p.created = len(p.free)
	return p, nil
}

// Name returns the logical name of the pool's template.
func (p *ObjectPool) Name() string {
	return p.name
}

// Container returns the parent new instances are created under.
func (p *ObjectPool) Container() host.Container {
	return p.container
}

// Get returns an active instance, reusing a free one when possible and
// instantiating a new one otherwise. The error is non-nil only when the
// host fails to instantiate.
func (p *ObjectPool) Get() (host.Object, error) {
	for {
		obj, ok := p.dequeue()
		if !ok {
			break
		}
		if !p.host.IsAlive(obj) {
			p.forget(obj)
			continue
		}
		if p.host.IsActive(obj) {
			continue
		}
		p.host.SetActive(obj, true)
		p.mu.Lock()
		p.raiseHighWaterLocked()
		p.mu.Unlock()
		return obj, nil
	}

	obj, err := p.instantiate()
	if err != nil {
		return nil, err
	}
	p.host.SetActive(obj, true)

	p.mu.Lock()
	p.created++
	p.live[obj] = struct{}{}
	raised := p.raiseHighWaterLocked()
	stats := p.statsLocked()
	p.mu.Unlock()

	p.log.Debug("pool grew",
		zap.String("pool", stats.Name),
		zap.Int("live", stats.Live),
		zap.Int("highWater", stats.HighWater))
	if raised && p.onGrow != nil {
		p.onGrow(stats)
	}
	return obj, nil
}

// Return deactivates obj and queues it for reuse. Objects the pool did not
// create are tracked from then on. Returning an object that is already
// queued only deactivates it. nil is ignored.
func (p *ObjectPool) Return(obj host.Object) {
	if obj == nil {
		return
	}
	p.host.SetActive(obj, false)

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, dup := p.queued[obj]; dup {
		return
	}
	p.queued[obj] = struct{}{}
	p.live[obj] = struct{}{}
	p.free = append(p.free, obj)
}

// Len returns the number of queued instances, including any the host has
// since destroyed.
func (p *ObjectPool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free)
}

// Stats returns a snapshot of the pool's counters.
func (p *ObjectPool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.statsLocked()
}

func (p *ObjectPool) statsLocked() Stats {
	return Stats{
		Name:      p.name,
		Created:   p.created,
		Live:      len(p.live),
		Free:      len(p.free),
		InUse:     p.inUseLocked(),
		HighWater: p.highWater,
	}
}

// inUseLocked counts tracked instances that are not queued. Every queued
// handle is also tracked, so the result is never negative.
func (p *ObjectPool) inUseLocked() int {
	return len(p.live) - len(p.free)
}

func (p *ObjectPool) raiseHighWaterLocked() bool {
	if n := p.inUseLocked(); n > p.highWater {
		p.highWater = n
		return true
	}
	return false
}

// forget stops tracking a handle the host has destroyed.
func (p *ObjectPool) forget(obj host.Object) {
	p.mu.Lock()
	delete(p.live, obj)
	p.mu.Unlock()
}

func (p *ObjectPool) dequeue() (host.Object, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.free) == 0 {
		return nil, false
	}
	obj := p.free[0]
	p.free[0] = nil
	p.free = p.free[1:]
	delete(p.queued, obj)
	return obj, true
}

func (p *ObjectPool) instantiate() (host.Object, error) {
	obj, err := p.host.Instantiate(p.template, p.container)
	if err != nil {
		return nil, &errors.Error{
			Op:   "pool.instantiate",
			Kind: errors.KindHost,
			Key:  p.name,
			Err:  err,
		}
	}
	if obj == nil {
		return nil, &errors.Error{
			Op:   "pool.instantiate",
			Kind: errors.KindHost,
			Key:  p.name,
			Err:  errors.ErrEmptyObject,
		}
	}
	if r, ok := obj.(host.NameReceiver); ok {
		r.InitName(p.name)
	}
	return obj, nil
}
