package io

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onebox-dev/onebox/internal/model"
)

func TestConfigYAMLRepository_GetConfig(t *testing.T) {
	tests := map[string]struct {
		fs     fstest.MapFS
		path   string
		expCfg model.SandboxConfig
		expErr bool
		errMsg string
	}{
		"A minimal config should load successfully": {
			fs: fstest.MapFS{
				"sandbox.yaml": &fstest.MapFile{
					Data: []byte(`name: dev
image: ubuntu:24.04
`),
				},
			},
			path: "sandbox.yaml",
			expCfg: model.SandboxConfig{
				Name:  "dev",
				Image: "ubuntu:24.04",
			},
		},

		"A full config should load all fields": {
			fs: fstest.MapFS{
				"sandbox.yaml": &fstest.MapFile{
					Data: []byte(`name: dev
image: ubuntu:24.04
working_dir: /workspace
network: bridge
env:
  FOO: bar
  BAZ: qux
resources:
  cpus: 1.5
  memory_mb: 2048
`),
				},
			},
			path: "sandbox.yaml",
			expCfg: model.SandboxConfig{
				Name:       "dev",
				Image:      "ubuntu:24.04",
				WorkingDir: "/workspace",
				Network:    "bridge",
				Env: map[string]string{
					"FOO": "bar",
					"BAZ": "qux",
				},
				Resources: model.Resources{CPUs: 1.5, MemoryMB: 2048},
			},
		},

		"A config without a name should fail": {
			fs: fstest.MapFS{
				"sandbox.yaml": &fstest.MapFile{
					Data: []byte(`image: ubuntu:24.04
`),
				},
			},
			path:   "sandbox.yaml",
			expErr: true,
			errMsg: "name is required",
		},

		"A config without an image should fail": {
			fs: fstest.MapFS{
				"sandbox.yaml": &fstest.MapFile{
					Data: []byte(`name: dev
`),
				},
			},
			path:   "sandbox.yaml",
			expErr: true,
			errMsg: "image is required",
		},

		"Negative resources should fail": {
			fs: fstest.MapFS{
				"sandbox.yaml": &fstest.MapFile{
					Data: []byte(`name: dev
image: ubuntu:24.04
resources:
  memory_mb: -1
`),
				},
			},
			path:   "sandbox.yaml",
			expErr: true,
			errMsg: "memory_mb must not be negative",
		},

		"A missing file should return an error": {
			fs:     fstest.MapFS{},
			path:   "nonexistent.yaml",
			expErr: true,
			errMsg: "reading config file",
		},

		"Invalid YAML should return an error": {
			fs: fstest.MapFS{
				"invalid.yaml": &fstest.MapFile{
					Data: []byte(`invalid: yaml: content: {}`),
				},
			},
			path:   "invalid.yaml",
			expErr: true,
			errMsg: "parsing YAML",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			repo := NewConfigYAMLRepository(tc.fs)
			cfg, err := repo.GetConfig(context.Background(), tc.path)

			if tc.expErr {
				require.Error(t, err)
				if tc.errMsg != "" {
					assert.Contains(t, err.Error(), tc.errMsg)
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.expCfg, cfg)
			}
		})
	}
}
