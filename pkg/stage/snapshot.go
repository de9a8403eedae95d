package stage

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/go-drift/stage/pkg/pool"
)

// Snapshot records pool counters, the open stack and every cached surface.
type Snapshot struct {
	Pools    []pool.PoolStats `json:"pools,omitempty"`
	Stack    []string         `json:"stack"`
	Surfaces []SurfaceState   `json:"surfaces,omitempty"`
}

// SurfaceState is one cached surface.
type SurfaceState struct {
	Key    string `json:"key"`
	Active bool   `json:"active"`
	Order  int    `json:"order,omitempty"`
}

// sortingOrderer is implemented by host objects that expose their draw
// order, such as platform.Object.
type sortingOrderer interface {
	SortingOrder() int
}

// activeReporter is implemented by host objects that expose their
// activation flag.
type activeReporter interface {
	Active() bool
}

// Snapshot records the current state of the stage. Surface activation and
// order are filled in only when the host's objects report them.
func (s *Stage) Snapshot() *Snapshot {
	snap := &Snapshot{
		Pools: s.pools.Stats(),
		Stack: []string{},
	}
	for _, key := range s.stack.Keys() {
		snap.Stack = append(snap.Stack, string(key))
	}
	for _, key := range s.surfaces.Keys() {
		obj, _ := s.surfaces.Lookup(key)
		state := SurfaceState{Key: string(key)}
		if a, ok := obj.(activeReporter); ok {
			state.Active = a.Active()
		}
		if o, ok := obj.(sortingOrderer); ok {
			state.Order = o.SortingOrder()
		}
		snap.Surfaces = append(snap.Surfaces, state)
	}
	return snap
}

// JSON returns the indented JSON encoding of the snapshot.
func (s *Snapshot) JSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ParseSnapshot decodes a snapshot produced by JSON.
func ParseSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot JSON: %w", err)
	}
	return &snap, nil
}
