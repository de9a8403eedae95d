package platform

import (
	"fmt"
	"path"
	"sync"

	"github.com/go-drift/stage/pkg/host"
)

// Template is a headless template registered under a logical path.
type Template struct {
	Path string
	name string
}

// Name returns the last element of the template's path.
func (t *Template) Name() string { return t.name }

// Object is a headless visual object instance.
type Object struct {
	ID     uint64
	Parent host.Container

	mu        sync.Mutex
	name      string
	template  *Template
	active    bool
	destroyed bool
	order     int
}

// InitName records the pool key the object was created for.
func (o *Object) InitName(name string) {
	o.mu.Lock()
	o.name = name
	o.mu.Unlock()
}

// SetSortingOrder records the draw order assigned by a surface stack.
func (o *Object) SetSortingOrder(order int) {
	o.mu.Lock()
	o.order = order
	o.mu.Unlock()
}

// Name returns the name given by InitName, or the template name.
func (o *Object) Name() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.name != "" {
		return o.name
	}
	return o.template.Name()
}

// Template returns the template the object was instantiated from.
func (o *Object) Template() *Template { return o.template }

// Active reports the object's activation flag.
func (o *Object) Active() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.active
}

// Destroyed reports whether the host destroyed the object.
func (o *Object) Destroyed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.destroyed
}

// SortingOrder returns the last draw order assigned to the object.
func (o *Object) SortingOrder() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.order
}

func (o *Object) String() string {
	return fmt.Sprintf("%s#%d", o.Name(), o.ID)
}

// Headless is an in-memory host for servers, tools and tests. It
// implements host.Host, host.Loader and host.SceneNotifier.
//
// New instances start active, like a template whose root is enabled.
type Headless struct {
	*SceneService

	mu        sync.Mutex
	nextID    uint64
	templates map[string]*Template
	objects   []*Object
	failNext  error
}

// NewHeadless creates an empty headless host.
func NewHeadless() *Headless {
	return &Headless{
		SceneService: NewSceneService(),
		templates:    make(map[string]*Template),
	}
}

// Register adds a template under a logical path such as "UI/Inventory".
// Registering the same path twice returns the existing template.
func (h *Headless) Register(p string) *Template {
	h.mu.Lock()
	defer h.mu.Unlock()
	if t, ok := h.templates[p]; ok {
		return t
	}
	t := &Template{Path: p, name: path.Base(p)}
	h.templates[p] = t
	return t
}

// LoadTemplate implements host.Loader.
func (h *Headless) LoadTemplate(p string) (host.Object, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	t, ok := h.templates[p]
	if !ok {
		return nil, false
	}
	return t, true
}

// FailNextInstantiate makes the next Instantiate call return err.
func (h *Headless) FailNextInstantiate(err error) {
	h.mu.Lock()
	h.failNext = err
	h.mu.Unlock()
}

// Instantiate implements host.Host. template may be a *Template or an
// existing *Object, which is cloned.
func (h *Headless) Instantiate(template host.Object, parent host.Container) (host.Object, error) {
	var t *Template
	switch v := template.(type) {
	case *Template:
		t = v
	case *Object:
		if v != nil {
			t = v.template
		}
	}
	if t == nil {
		return nil, fmt.Errorf("%w: %T", ErrUnknownTemplate, template)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.failNext; err != nil {
		h.failNext = nil
		return nil, err
	}
	h.nextID++
	obj := &Object{ID: h.nextID, Parent: parent, template: t, active: true}
	h.objects = append(h.objects, obj)
	return obj, nil
}

// Destroy implements host.Host.
func (h *Headless) Destroy(obj host.Object) {
	o, ok := obj.(*Object)
	if !ok || o == nil {
		return
	}
	o.mu.Lock()
	o.destroyed = true
	o.active = false
	o.mu.Unlock()
}

// SetActive implements host.Host. Destroyed objects are left alone.
func (h *Headless) SetActive(obj host.Object, active bool) {
	o, ok := obj.(*Object)
	if !ok || o == nil {
		return
	}
	o.mu.Lock()
	if !o.destroyed {
		o.active = active
	}
	o.mu.Unlock()
}

// IsActive implements host.Host.
func (h *Headless) IsActive(obj host.Object) bool {
	o, ok := obj.(*Object)
	if !ok || o == nil {
		return false
	}
	return o.Active()
}

// IsAlive implements host.Host.
func (h *Headless) IsAlive(obj host.Object) bool {
	o, ok := obj.(*Object)
	if !ok || o == nil {
		return false
	}
	return !o.Destroyed()
}

// LoadScene fires the scene-loaded event. Objects are not touched.
func (h *Headless) LoadScene(name string) {
	h.NotifyLoaded(name)
}

// Objects returns every instance created so far, destroyed ones included,
// in creation order.
func (h *Headless) Objects() []*Object {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*Object, len(h.objects))
	copy(out, h.objects)
	return out
}

// Instances returns the live instances of the template registered at p.
func (h *Headless) Instances(p string) []*Object {
	var out []*Object
	for _, o := range h.Objects() {
		if o.template.Path == p && !o.Destroyed() {
			out = append(out, o)
		}
	}
	return out
}
