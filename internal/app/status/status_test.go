package status_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/onebox-dev/onebox/internal/app/status"
	"github.com/onebox-dev/onebox/internal/model"
	"github.com/onebox-dev/onebox/internal/sandbox/sandboxmock"
)

func TestServiceRun(t *testing.T) {
	tests := map[string]struct {
		request  status.Request
		mock     func(me *sandboxmock.MockEngine)
		expErr   bool
		expErrIs error
	}{
		"A missing sandbox name should fail": {
			request: status.Request{},
			mock:    func(me *sandboxmock.MockEngine) {},
			expErr:  true,
		},

		"A running sandbox should be reported": {
			request: status.Request{SandboxName: "dev"},
			mock: func(me *sandboxmock.MockEngine) {
				me.On("Status", mock.Anything, "dev").Once().Return(&model.Sandbox{Name: "dev", Running: true}, nil)
			},
		},

		"A missing sandbox should surface not found": {
			request: status.Request{SandboxName: "dev"},
			mock: func(me *sandboxmock.MockEngine) {
				me.On("Status", mock.Anything, "dev").Once().Return(nil, fmt.Errorf("no sandbox: %w", model.ErrNotFound))
			},
			expErr:   true,
			expErrIs: model.ErrNotFound,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			me := &sandboxmock.MockEngine{}
			test.mock(me)

			svc, err := status.NewService(status.ServiceConfig{Engine: me})
			require.NoError(err)

			sandbox, err := svc.Run(context.TODO(), test.request)

			if test.expErr {
				assert.Error(err)
				if test.expErrIs != nil {
					assert.ErrorIs(err, test.expErrIs)
				}
			} else {
				require.NoError(err)
				assert.Equal("dev", sandbox.Name)
			}
			me.AssertExpectations(t)
		})
	}
}
