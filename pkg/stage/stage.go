// Package stage ties pooling and surface stacking to one host.
//
// A Stage owns a pool.Registry, a surface.Cache and a surface.Stack. It is
// the single authority for object reuse and UI ordering in a process; pass
// it to the code that needs it instead of reaching for globals.
//
//	h := platform.NewHeadless()
//	st := stage.New(h, h,
//	    stage.WithSurfaceParent(uiRoot),
//	    stage.WithScenes(h),
//	)
//	defer st.Close()
//
//	stage.Open[Inventory](st)
package stage

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/go-drift/stage/pkg/host"
	"github.com/go-drift/stage/pkg/logging"
	"github.com/go-drift/stage/pkg/pool"
	"github.com/go-drift/stage/pkg/surface"
)

// Stage is the context object for pools and surfaces.
type Stage struct {
	id       uuid.UUID
	host     host.Host
	loader   host.Loader
	log      *zap.Logger
	pools    *pool.Registry
	surfaces *surface.Cache
	stack    *surface.Stack
}

type options struct {
	poolContainer host.Container
	surfaceParent host.Container
	scenes        host.SceneNotifier
	logger        *zap.Logger
	poolOptions   []pool.Option
}

// Option configures a Stage.
type Option func(*options)

// WithPoolContainer sets the default parent for pooled objects.
func WithPoolContainer(c host.Container) Option {
	return func(o *options) { o.poolContainer = c }
}

// WithSurfaceParent sets the parent surfaces are created under.
func WithSurfaceParent(c host.Container) Option {
	return func(o *options) { o.surfaceParent = c }
}

// WithScenes clears the surface stack on every scene load from n.
func WithScenes(n host.SceneNotifier) Option {
	return func(o *options) { o.scenes = n }
}

// WithLogger sets the stage's logger. Defaults to the process logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithGrowthHook is called when any pool grows past its high-water mark.
func WithGrowthHook(fn pool.GrowthHook) Option {
	return func(o *options) {
		o.poolOptions = append(o.poolOptions, pool.WithGrowthHook(fn))
	}
}

// New creates a stage bound to h, loading surface templates from loader.
func New(h host.Host, loader host.Loader, opts ...Option) *Stage {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	id := uuid.New()
	log := o.logger
	if log == nil {
		log = logging.Named("stage")
	}
	log = log.With(zap.String("stage", id.String()))

	poolOpts := append([]pool.Option{pool.WithLogger(log)}, o.poolOptions...)
	pools := pool.NewRegistry(h, poolOpts...)
	pools.Init(o.poolContainer)

	cache := surface.NewCache(h, loader, o.surfaceParent)
	stack := surface.NewStack(cache)
	if o.scenes != nil {
		stack.Attach(o.scenes)
	}

	return &Stage{
		id:       id,
		host:     h,
		loader:   loader,
		log:      log,
		pools:    pools,
		surfaces: cache,
		stack:    stack,
	}
}

// ID returns the stage's unique identifier.
func (s *Stage) ID() uuid.UUID { return s.id }

// Pools returns the stage's pool registry.
func (s *Stage) Pools() *pool.Registry { return s.pools }

// Surfaces returns the stage's surface cache.
func (s *Stage) Surfaces() *surface.Cache { return s.surfaces }

// Stack returns the stage's surface stack.
func (s *Stage) Stack() *surface.Stack { return s.stack }

// Close detaches the stage from scene events. Pools and surfaces are left
// as they are.
func (s *Stage) Close() {
	s.stack.Detach()
}

// CreatePool registers a pool under name in the default pool container.
func (s *Stage) CreatePool(name string, template host.Object, initialCount int) error {
	return s.pools.CreatePool(name, template, initialCount)
}

// Get takes an object from the named pool, or returns nil.
func (s *Stage) Get(name string) host.Object {
	return s.pools.Get(name)
}

// Return gives obj back to the named pool, destroying it if there is none.
func (s *Stage) Return(obj host.Object, name string) {
	s.pools.Return(obj, name)
}

// OpenKey opens the surface for key.
func (s *Stage) OpenKey(key surface.Key) { s.stack.Open(key) }

// CloseKey closes the surface for key.
func (s *Stage) CloseKey(key surface.Key) { s.stack.Close(key) }

// SwitchKey closes from and opens to.
func (s *Stage) SwitchKey(from, to surface.Key) { s.stack.Switch(from, to) }

// Open opens the surface for type T.
func Open[T any](s *Stage) { s.stack.Open(surface.KeyFor[T]()) }

// Close closes the surface for type T.
func Close[T any](s *Stage) { s.stack.Close(surface.KeyFor[T]()) }

// Switch closes the surface for From and opens the surface for To.
func Switch[From, To any](s *Stage) {
	s.stack.Switch(surface.KeyFor[From](), surface.KeyFor[To]())
}
