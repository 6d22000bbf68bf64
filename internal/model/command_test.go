package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/onebox-dev/onebox/internal/model"
)

func TestNewCommandSpec(t *testing.T) {
	assert := assert.New(t)

	spec := model.NewCommandSpec([]string{"echo", "hello"})

	assert.Equal([]string{"echo", "hello"}, spec.Command)
	assert.True(spec.AttachStdout)
	assert.True(spec.AttachStderr)
	assert.False(spec.Tty)
}

func TestCommandSpecValidate(t *testing.T) {
	tests := map[string]struct {
		spec   model.CommandSpec
		expErr bool
	}{
		"A spec with a command should be valid.": {
			spec: model.NewCommandSpec([]string{"ls", "-la"}),
		},

		"A spec with an empty command should fail.": {
			spec:   model.NewCommandSpec(nil),
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			err := test.spec.Validate()

			if test.expErr {
				assert.ErrorIs(err, model.ErrNotValid)
			} else {
				assert.NoError(err)
			}
		})
	}
}
