package env_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	utilsenv "github.com/onebox-dev/onebox/internal/utils/env"
)

func TestParseSpecs(t *testing.T) {
	t.Setenv("FROM_HOST", "host-value")

	tests := map[string]struct {
		specs  []string
		expEnv map[string]string
		expErr bool
	}{
		"KEY=VALUE should parse": {
			specs:  []string{"FOO=bar"},
			expEnv: map[string]string{"FOO": "bar"},
		},
		"KEY should inherit from host": {
			specs:  []string{"FROM_HOST"},
			expEnv: map[string]string{"FROM_HOST": "host-value"},
		},
		"Later entries should override earlier ones": {
			specs:  []string{"FOO=one", "FOO=two"},
			expEnv: map[string]string{"FOO": "two"},
		},
		"Missing inherited var should fail": {
			specs:  []string{"DOES_NOT_EXIST"},
			expErr: true,
		},
		"Invalid key should fail": {
			specs:  []string{"1INVALID=value"},
			expErr: true,
		},
		"An empty spec should fail": {
			specs:  []string{""},
			expErr: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			env, err := utilsenv.ParseSpecs(tc.specs)

			if tc.expErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expEnv, env)
		})
	}
}

func TestMergeMaps(t *testing.T) {
	tests := map[string]struct {
		base     map[string]string
		override map[string]string
		exp      map[string]string
	}{
		"Both empty": {
			exp: map[string]string{},
		},
		"Override wins": {
			base:     map[string]string{"A": "1", "B": "2"},
			override: map[string]string{"B": "3"},
			exp:      map[string]string{"A": "1", "B": "3"},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.exp, utilsenv.MergeMaps(tc.base, tc.override))
		})
	}
}
