package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/onebox-dev/onebox/internal/model"
)

func TestSandboxConfigValidate(t *testing.T) {
	tests := map[string]struct {
		config model.SandboxConfig
		expErr bool
	}{
		"A config with name and image should be valid.": {
			config: model.SandboxConfig{Name: "dev", Image: "ubuntu:24.04"},
		},

		"A config with all fields set should be valid.": {
			config: model.SandboxConfig{
				Name:       "dev",
				Image:      "ubuntu:24.04",
				WorkingDir: "/workspace",
				Env:        map[string]string{"FOO": "bar"},
				Network:    "none",
				Resources:  model.Resources{CPUs: 1.5, MemoryMB: 512},
			},
		},

		"A config without name should fail.": {
			config: model.SandboxConfig{Image: "ubuntu:24.04"},
			expErr: true,
		},

		"A config without image should fail.": {
			config: model.SandboxConfig{Name: "dev"},
			expErr: true,
		},

		"A config with negative CPUs should fail.": {
			config: model.SandboxConfig{
				Name:      "dev",
				Image:     "ubuntu:24.04",
				Resources: model.Resources{CPUs: -1},
			},
			expErr: true,
		},

		"A config with negative memory should fail.": {
			config: model.SandboxConfig{
				Name:      "dev",
				Image:     "ubuntu:24.04",
				Resources: model.Resources{MemoryMB: -256},
			},
			expErr: true,
		},

		"A config with zero resources should be valid (no limits).": {
			config: model.SandboxConfig{
				Name:      "dev",
				Image:     "ubuntu:24.04",
				Resources: model.Resources{},
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			err := test.config.Validate()

			if test.expErr {
				assert.ErrorIs(err, model.ErrNotValid)
			} else {
				assert.NoError(err)
			}
		})
	}
}
