package stage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/stage/pkg/surface"
)

// ConfigFile is the file name LoadConfig looks for.
const ConfigFile = "stage.yaml"

// Config represents the optional stage.yaml configuration.
type Config struct {
	App      AppConfig     `yaml:"app"`
	Pools    []PoolConfig  `yaml:"pools,omitempty"`
	Surfaces SurfaceConfig `yaml:"surfaces"`
}

// AppConfig contains application metadata.
type AppConfig struct {
	Name string `yaml:"name,omitempty"`
}

// PoolConfig declares one pool.
type PoolConfig struct {
	// Name is the registry key. Defaults to the last element of Template.
	Name string `yaml:"name,omitempty"`
	// Template is the loader path of the pooled template.
	Template string `yaml:"template"`
	// Initial is the number of instances created up front.
	Initial int `yaml:"initial,omitempty"`
}

// SurfaceConfig lists surfaces to instantiate before first use.
type SurfaceConfig struct {
	Preload []string `yaml:"preload,omitempty"`
}

// PoolName returns the effective registry key.
func (p PoolConfig) PoolName() string {
	if name := strings.TrimSpace(p.Name); name != "" {
		return name
	}
	return filepath.Base(p.Template)
}

// LoadConfig reads stage.yaml from dir if present. A missing file yields an
// empty Config.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", ConfigFile, err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes stage.yaml content.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ConfigFile, err)
	}
	return &cfg, nil
}

// Validate checks pool declarations: templates must be set, counts must not
// be negative, and names must be unique.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Pools))
	var errs []error
	for i, p := range c.Pools {
		if strings.TrimSpace(p.Template) == "" {
			errs = append(errs, fmt.Errorf("pools[%d]: template is required", i))
			continue
		}
		if p.Initial < 0 {
			errs = append(errs, fmt.Errorf("pools[%d] (%s): initial must not be negative (got %d)", i, p.PoolName(), p.Initial))
		}
		name := p.PoolName()
		if seen[name] {
			errs = append(errs, fmt.Errorf("pools[%d]: duplicate pool name %q", i, name))
		}
		seen[name] = true
	}
	for i, key := range c.Surfaces.Preload {
		if strings.TrimSpace(key) == "" {
			errs = append(errs, fmt.Errorf("surfaces.preload[%d]: empty surface name", i))
		}
	}
	return errors.Join(errs...)
}

// Apply creates the pools and preloads the surfaces cfg declares. Pool
// templates are loaded through the stage's loader. Pools whose template is
// missing are skipped and reported in the returned error; the rest are
// still created.
func (s *Stage) Apply(cfg *Config) error {
	var errs []error
	for _, p := range cfg.Pools {
		template, ok := s.loader.LoadTemplate(p.Template)
		if !ok {
			errs = append(errs, fmt.Errorf("pool %s: template %q not found", p.PoolName(), p.Template))
			continue
		}
		if err := s.pools.CreatePool(p.PoolName(), template, p.Initial); err != nil {
			errs = append(errs, fmt.Errorf("pool %s: %w", p.PoolName(), err))
		}
	}

	keys := make([]surface.Key, 0, len(cfg.Surfaces.Preload))
	for _, name := range cfg.Surfaces.Preload {
		keys = append(keys, surface.Key(name))
	}
	loaded := s.surfaces.Preload(keys...)

	s.log.Debug("config applied",
		zap.Int("pools", len(s.pools.Names())),
		zap.Int("surfaces", loaded))
	return errors.Join(errs...)
}
