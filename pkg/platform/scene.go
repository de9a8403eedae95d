package platform

import (
	"sync"

	"github.com/go-drift/stage/pkg/host"
)

// SceneService fans scene-loaded events out to registered handlers.
// It implements host.SceneNotifier.
type SceneService struct {
	mu       sync.RWMutex
	current  string
	nextID   uint64
	handlers []sceneHandler
}

type sceneHandler struct {
	id uint64
	fn host.SceneHandler
}

// NewSceneService creates a service with no handlers.
func NewSceneService() *SceneService {
	return &SceneService{}
}

// Current returns the name of the most recently loaded scene.
func (s *SceneService) Current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// AddSceneHandler registers a handler to be called after each scene load.
// Returns a function that removes this registration. Calling it more than
// once is harmless.
func (s *SceneService) AddSceneHandler(handler host.SceneHandler) func() {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.handlers = append(s.handlers, sceneHandler{id: id, fn: handler})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, h := range s.handlers {
			if h.id == id {
				s.handlers = append(s.handlers[:i], s.handlers[i+1:]...)
				return
			}
		}
	}
}

// HandlerCount returns the number of registered handlers.
func (s *SceneService) HandlerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.handlers)
}

// NotifyLoaded records scene as current and calls every handler registered
// at the time of the call. Handlers may add or remove registrations.
func (s *SceneService) NotifyLoaded(scene string) {
	s.mu.Lock()
	s.current = scene
	handlers := make([]sceneHandler, len(s.handlers))
	copy(handlers, s.handlers)
	s.mu.Unlock()

	for _, h := range handlers {
		h.fn(scene)
	}
}
