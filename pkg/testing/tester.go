package testing

import (
	"sync"
	"testing"

	"github.com/go-drift/stage/pkg/errors"
	"github.com/go-drift/stage/pkg/platform"
	"github.com/go-drift/stage/pkg/stage"
	"github.com/go-drift/stage/pkg/surface"
)

// Container is the opaque parent the tester hands to the stage.
type Container struct {
	Name string
}

// StageTester runs a Stage against a headless host and records every
// error the stage reports.
type StageTester struct {
	Host  *platform.Headless
	Stage *stage.Stage

	// PoolRoot and SurfaceRoot are the containers pools and surfaces are
	// parented under.
	PoolRoot    *Container
	SurfaceRoot *Container

	mu          sync.Mutex
	reported    []*errors.Error
	prevHandler errors.ErrorHandler
}

// NewStageTester creates a tester with a fresh host and stage.
// Call Cleanup() when done, or use NewStageTesterWithT() instead.
func NewStageTester(opts ...stage.Option) *StageTester {
	h := platform.NewHeadless()
	t := &StageTester{
		Host:        h,
		PoolRoot:    &Container{Name: "Pools"},
		SurfaceRoot: &Container{Name: "UI"},
	}
	base := []stage.Option{
		stage.WithPoolContainer(t.PoolRoot),
		stage.WithSurfaceParent(t.SurfaceRoot),
		stage.WithScenes(h),
	}
	t.Stage = stage.New(h, h, append(base, opts...)...)

	t.prevHandler = errors.DefaultHandler
	errors.SetHandler(errors.HandlerFunc(t.record))
	return t
}

// NewStageTesterWithT creates a tester that auto-cleans up via t.Cleanup().
// This is the recommended constructor for tests.
func NewStageTesterWithT(t *testing.T, opts ...stage.Option) *StageTester {
	tester := NewStageTester(opts...)
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup closes the stage and restores the previous error handler.
func (t *StageTester) Cleanup() {
	t.Stage.Close()
	errors.SetHandler(t.prevHandler)
}

func (t *StageTester) record(err *errors.Error) {
	t.mu.Lock()
	t.reported = append(t.reported, err)
	t.mu.Unlock()
}

// Errors returns the errors reported since the tester was created.
func (t *StageTester) Errors() []*errors.Error {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*errors.Error, len(t.reported))
	copy(out, t.reported)
	return out
}

// RegisterSurfaces registers a surface template for each key name.
func (t *StageTester) RegisterSurfaces(names ...string) {
	for _, name := range names {
		t.Host.Register(surface.Key(name).Path())
	}
}

// RegisterTemplate registers a template at path and returns it.
func (t *StageTester) RegisterTemplate(path string) *platform.Template {
	return t.Host.Register(path)
}

// Surface returns the cached headless object for key, or nil.
func (t *StageTester) Surface(key surface.Key) *platform.Object {
	obj, ok := t.Stage.Surfaces().Lookup(key)
	if !ok {
		return nil
	}
	o, _ := obj.(*platform.Object)
	return o
}

// LoadScene fires a scene-loaded event on the host.
func (t *StageTester) LoadScene(name string) {
	t.Host.LoadScene(name)
}

// CaptureSnapshot captures the stage's pools, stack and surfaces.
func (t *StageTester) CaptureSnapshot() *Snapshot {
	return Capture(t.Stage)
}
