// Package host defines the narrow capabilities stage needs from the
// environment that owns visual objects: instantiation and activation,
// template lookup, and scene lifecycle events.
//
// The stage packages never construct, render or free visual objects
// themselves. Everything goes through these interfaces, so the same pooling
// and surface logic runs against a game engine binding, a retained-mode UI
// toolkit, or the in-memory host in package platform.
package host

// Object is an opaque reference to a host-managed visual object instance.
// A nil Object is the empty handle.
//
// Objects are used as map keys by the pool, so implementations must be
// comparable (pointers are the usual choice).
type Object any

// Container is an opaque parent under which objects are instantiated.
// A nil Container means the host's default root.
type Container any

// Host creates, destroys and toggles visual objects.
// Implementations only fail on catastrophic errors.
type Host interface {
	// Instantiate creates a new instance of template under parent.
	Instantiate(template Object, parent Container) (Object, error)

	// Destroy disposes obj. After Destroy, IsAlive(obj) reports false.
	Destroy(obj Object)

	// SetActive shows or hides obj.
	SetActive(obj Object, active bool)

	// IsActive reports whether obj is currently active.
	IsActive(obj Object) bool

	// IsAlive reports whether obj is non-nil and not destroyed.
	IsAlive(obj Object) bool
}

// Loader resolves templates by logical path, for example "UI/Inventory".
type Loader interface {
	LoadTemplate(path string) (Object, bool)
}

// SceneHandler is called after the host finishes loading a scene.
type SceneHandler func(scene string)

// SceneNotifier delivers scene-loaded events.
type SceneNotifier interface {
	// AddSceneHandler registers handler and returns a function that
	// removes exactly that registration.
	AddSceneHandler(handler SceneHandler) (remove func())
}

// Named is implemented by templates that carry a logical name.
type Named interface {
	Name() string
}

// NameReceiver is implemented by pooled objects that want to learn the
// name of the template they were created from.
type NameReceiver interface {
	InitName(name string)
}

// Sortable is implemented by objects that accept a draw order.
// Higher orders draw above lower ones.
type Sortable interface {
	SetSortingOrder(order int)
}

// NameOf returns the logical name of template, or "" if it has none.
func NameOf(template Object) string {
	if n, ok := template.(Named); ok {
		return n.Name()
	}
	return ""
}
