// Package sim replays scripted pool and surface operations against a
// headless host.
package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/stage/pkg/host"
	"github.com/go-drift/stage/pkg/platform"
	"github.com/go-drift/stage/pkg/stage"
	"github.com/go-drift/stage/pkg/surface"
)

// Script is a sequence of steps.
type Script struct {
	Steps []Step `yaml:"steps"`
}

// Step is one operation. Exactly one field should be set.
type Step struct {
	Open   string   `yaml:"open,omitempty"`
	Close  string   `yaml:"close,omitempty"`
	Switch []string `yaml:"switch,omitempty"`
	Get    string   `yaml:"get,omitempty"`
	Return string   `yaml:"return,omitempty"`
	Scene  string   `yaml:"scene,omitempty"`
}

// LoadScript reads a yaml script file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return ParseScript(data)
}

// ParseScript decodes yaml script content.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	return &s, nil
}

type container struct{ name string }

// Runner owns a headless stage built from a config.
type Runner struct {
	Host  *platform.Headless
	Stage *stage.Stage

	// held tracks objects taken with get, per pool, so return gives back
	// the most recent one.
	held map[string][]host.Object
}

// NewRunner registers every template cfg mentions on a headless host and
// applies cfg to a new stage.
func NewRunner(cfg *stage.Config) (*Runner, error) {
	h := platform.NewHeadless()
	for _, p := range cfg.Pools {
		h.Register(p.Template)
	}
	for _, name := range cfg.Surfaces.Preload {
		h.Register(surface.Key(name).Path())
	}

	st := stage.New(h, h,
		stage.WithPoolContainer(&container{name: "Pools"}),
		stage.WithSurfaceParent(&container{name: "UI"}),
		stage.WithScenes(h),
	)
	if err := st.Apply(cfg); err != nil {
		st.Close()
		return nil, err
	}
	return &Runner{Host: h, Stage: st, held: make(map[string][]host.Object)}, nil
}

// Close releases the runner's scene subscription.
func (r *Runner) Close() {
	r.Stage.Close()
}

// Run executes every step in order. Surfaces named by open and switch
// steps are registered on the fly so scripts need not preload them.
func (r *Runner) Run(script *Script) error {
	for i, step := range script.Steps {
		if err := r.step(step); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

func (r *Runner) step(s Step) error {
	switch {
	case s.Open != "":
		r.ensureSurface(s.Open)
		r.Stage.OpenKey(surface.Key(s.Open))
	case s.Close != "":
		r.Stage.CloseKey(surface.Key(s.Close))
	case len(s.Switch) > 0:
		if len(s.Switch) != 2 {
			return fmt.Errorf("switch needs [from, to], got %v", s.Switch)
		}
		r.ensureSurface(s.Switch[1])
		r.Stage.SwitchKey(surface.Key(s.Switch[0]), surface.Key(s.Switch[1]))
	case s.Get != "":
		obj := r.Stage.Get(s.Get)
		if obj == nil {
			return fmt.Errorf("get %s: no such pool", s.Get)
		}
		r.held[s.Get] = append(r.held[s.Get], obj)
	case s.Return != "":
		held := r.held[s.Return]
		if len(held) == 0 {
			return fmt.Errorf("return %s: nothing held", s.Return)
		}
		obj := held[len(held)-1]
		r.held[s.Return] = held[:len(held)-1]
		r.Stage.Return(obj, s.Return)
	case s.Scene != "":
		r.Host.LoadScene(s.Scene)
	default:
		return fmt.Errorf("empty step")
	}
	return nil
}

func (r *Runner) ensureSurface(name string) {
	r.Host.Register(surface.Key(name).Path())
}

// Snapshot captures the stage state.
func (r *Runner) Snapshot() *stage.Snapshot {
	return r.Stage.Snapshot()
}
