package surface

import (
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/go-drift/stage/pkg/host"
	"github.com/go-drift/stage/pkg/logging"
)

// Stack orders open surfaces. The most recently opened surface is last and
// draws on top.
//
// Closing a surface that is not on top removes it in place. The draw order
// of the surfaces left open is not recomputed, so gaps may remain until
// they are reopened.
type Stack struct {
	cache *Cache
	host  host.Host
	log   *zap.Logger

	mu     sync.Mutex
	keys   []Key
	detach func()
}

// NewStack creates an empty stack resolving surfaces through cache.
func NewStack(cache *Cache) *Stack {
	return &Stack{
		cache: cache,
		host:  cache.host,
		log:   logging.Named("surface"),
	}
}

// Cache returns the cache the stack resolves surfaces through.
func (s *Stack) Cache() *Cache {
	return s.cache
}

// Open shows the surface for key and pushes it on top. It does nothing if
// the surface cannot be resolved or is already active.
func (s *Stack) Open(key Key) {
	obj := s.cache.Resolve(key)
	if obj == nil || s.host.IsActive(obj) {
		return
	}
	s.host.SetActive(obj, true)

	s.mu.Lock()
	// A surface hidden behind the stack's back may still be listed.
	s.keys = slices.DeleteFunc(s.keys, func(k Key) bool { return k == key })
	s.keys = append(s.keys, key)
	depth := len(s.keys)
	s.mu.Unlock()

	if sortable, ok := obj.(host.Sortable); ok {
		sortable.SetSortingOrder(depth)
	}
}

// Close hides the surface for key and removes it from the stack wherever
// it is. The relative order of the other entries is kept.
func (s *Stack) Close(key Key) {
	obj := s.cache.Resolve(key)
	if obj == nil {
		return
	}

	s.mu.Lock()
	s.keys = slices.DeleteFunc(s.keys, func(k Key) bool { return k == key })
	s.mu.Unlock()

	s.host.SetActive(obj, false)
}

// Switch closes from and then opens to. The pair is not atomic.
func (s *Stack) Switch(from, to Key) {
	s.Close(from)
	s.Open(to)
}

// Clear forgets every open entry. Surfaces keep their active state.
func (s *Stack) Clear() {
	s.mu.Lock()
	n := len(s.keys)
	s.keys = nil
	s.mu.Unlock()
	if n > 0 {
		s.log.Debug("surface stack cleared", zap.Int("dropped", n))
	}
}

// Attach clears the stack after every scene load delivered by notifier.
// Attaching again replaces the previous subscription.
func (s *Stack) Attach(notifier host.SceneNotifier) {
	remove := notifier.AddSceneHandler(s.onSceneLoaded)

	s.mu.Lock()
	prev := s.detach
	s.detach = remove
	s.mu.Unlock()

	if prev != nil {
		prev()
	}
}

// Detach removes the scene subscription made by Attach, if any.
func (s *Stack) Detach() {
	s.mu.Lock()
	remove := s.detach
	s.detach = nil
	s.mu.Unlock()

	if remove != nil {
		remove()
	}
}

func (s *Stack) onSceneLoaded(scene string) {
	s.log.Debug("scene loaded", zap.String("scene", scene))
	s.Clear()
}

// Keys returns the open keys, bottom first.
func (s *Stack) Keys() []Key {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.keys)
}

// Depth returns the number of open entries.
func (s *Stack) Depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.keys)
}

// Top returns the most recently opened key.
func (s *Stack) Top() (Key, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.keys) == 0 {
		return "", false
	}
	return s.keys[len(s.keys)-1], true
}

// IsOpen reports whether key is on the stack.
func (s *Stack) IsOpen(key Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Contains(s.keys, key)
}
