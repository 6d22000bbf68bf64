package io

import (
	"context"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"

	"github.com/onebox-dev/onebox/internal/model"
)

// ConfigYAMLRepository loads sandbox configuration from YAML files.
type ConfigYAMLRepository struct {
	fs fs.FS
}

// NewConfigYAMLRepository creates a new YAML config repository.
func NewConfigYAMLRepository(filesystem fs.FS) *ConfigYAMLRepository {
	return &ConfigYAMLRepository{fs: filesystem}
}

// GetConfig loads a sandbox configuration from a YAML file and returns a validated domain model.
func (r *ConfigYAMLRepository) GetConfig(ctx context.Context, path string) (model.SandboxConfig, error) {
	data, err := fs.ReadFile(r.fs, path)
	if err != nil {
		return model.SandboxConfig{}, fmt.Errorf("reading config file: %w", err)
	}

	if ctx.Err() != nil {
		return model.SandboxConfig{}, ctx.Err()
	}

	var cfg SandboxConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return model.SandboxConfig{}, fmt.Errorf("parsing YAML: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return model.SandboxConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg.toModel(), nil
}

// SandboxConfig represents the YAML structure for sandbox configuration.
type SandboxConfig struct {
	Name       string            `yaml:"name"`
	Image      string            `yaml:"image"`
	WorkingDir string            `yaml:"working_dir"`
	Env        map[string]string `yaml:"env"`
	Network    string            `yaml:"network"`
	Resources  ResourcesConfig   `yaml:"resources"`
}

func (c SandboxConfig) validate() error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if c.Image == "" {
		return fmt.Errorf("image is required")
	}

	if err := c.Resources.validate(); err != nil {
		return fmt.Errorf("resources: %w", err)
	}
	return nil
}

func (c SandboxConfig) toModel() model.SandboxConfig {
	return model.SandboxConfig{
		Name:       c.Name,
		Image:      c.Image,
		WorkingDir: c.WorkingDir,
		Env:        c.Env,
		Network:    c.Network,
		Resources: model.Resources{
			CPUs:     c.Resources.CPUs,
			MemoryMB: c.Resources.MemoryMB,
		},
	}
}

// ResourcesConfig represents the YAML structure for resource configuration.
// Resources are optional: zero means no limit.
type ResourcesConfig struct {
	CPUs     float64 `yaml:"cpus"`
	MemoryMB int     `yaml:"memory_mb"`
}

func (r ResourcesConfig) validate() error {
	if r.CPUs < 0 {
		return fmt.Errorf("cpus must not be negative, got: %v", r.CPUs)
	}
	if r.MemoryMB < 0 {
		return fmt.Errorf("memory_mb must not be negative, got: %d", r.MemoryMB)
	}
	return nil
}
