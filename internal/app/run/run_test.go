package run_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/onebox-dev/onebox/internal/app/run"
	"github.com/onebox-dev/onebox/internal/model"
	"github.com/onebox-dev/onebox/internal/sandbox/sandboxmock"
	"github.com/onebox-dev/onebox/internal/storage/storagemock"
)

func intPtr(i int) *int { return &i }

func TestServiceRun(t *testing.T) {
	testSpec := model.NewCommandSpec([]string{"echo", "hello"})

	tests := map[string]struct {
		request   run.Request
		mock      func(me *sandboxmock.MockEngine, mr *storagemock.MockRepository)
		expStdout string
		expExit   *int
		expErr    bool
		expErrIs  error
	}{
		"A missing sandbox name should fail": {
			request: run.Request{Spec: testSpec},
			mock:    func(me *sandboxmock.MockEngine, mr *storagemock.MockRepository) {},
			expErr:  true,
		},

		"An empty command should fail": {
			request: run.Request{SandboxName: "dev"},
			mock:    func(me *sandboxmock.MockEngine, mr *storagemock.MockRepository) {},
			expErr:  true,
		},

		"A successful command should be journaled with its exit code": {
			request: run.Request{SandboxName: "dev", Spec: testSpec},
			mock: func(me *sandboxmock.MockEngine, mr *storagemock.MockRepository) {
				mr.On("CreateOperation", mock.Anything, mock.MatchedBy(func(op model.Operation) bool {
					return op.Kind == model.OperationKindRun && op.Detail == "echo hello"
				})).Once().Return(nil)
				me.On("Run", mock.Anything, "dev", testSpec).Once().Return(&model.ExecutionResult{
					Stdout:   []byte("hello\n"),
					ExitCode: intPtr(0),
				}, nil)
				mr.On("UpdateOperation", mock.Anything, mock.MatchedBy(func(op model.Operation) bool {
					return op.Status == model.OperationStatusSucceeded && op.ExitCode != nil && *op.ExitCode == 0
				})).Once().Return(nil)
			},
			expStdout: "hello\n",
			expExit:   intPtr(0),
		},

		"A command exiting nonzero is a successful execution, not an error": {
			request: run.Request{SandboxName: "dev", Spec: testSpec},
			mock: func(me *sandboxmock.MockEngine, mr *storagemock.MockRepository) {
				mr.On("CreateOperation", mock.Anything, mock.Anything).Once().Return(nil)
				me.On("Run", mock.Anything, "dev", testSpec).Once().Return(&model.ExecutionResult{
					ExitCode: intPtr(3),
				}, nil)
				mr.On("UpdateOperation", mock.Anything, mock.MatchedBy(func(op model.Operation) bool {
					return op.Status == model.OperationStatusSucceeded && op.ExitCode != nil && *op.ExitCode == 3
				})).Once().Return(nil)
			},
			expExit: intPtr(3),
		},

		"A missing sandbox should surface the engine's not found error": {
			request: run.Request{SandboxName: "dev", Spec: testSpec},
			mock: func(me *sandboxmock.MockEngine, mr *storagemock.MockRepository) {
				mr.On("CreateOperation", mock.Anything, mock.Anything).Once().Return(nil)
				me.On("Run", mock.Anything, "dev", testSpec).Once().Return(nil, fmt.Errorf("no sandbox: %w", model.ErrNotFound))
				mr.On("UpdateOperation", mock.Anything, mock.MatchedBy(func(op model.Operation) bool {
					return op.Status == model.OperationStatusFailed
				})).Once().Return(nil)
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
			mr := &storagemock.MockRepository{}
			test.mock(me, mr)

			svc, err := run.NewService(run.ServiceConfig{Engine: me, Repository: mr})
			require.NoError(err)

			result, err := svc.Run(context.TODO(), test.request)

			if test.expErr {
				assert.Error(err)
				if test.expErrIs != nil {
					assert.ErrorIs(err, test.expErrIs)
				}
			} else {
				require.NoError(err)
				assert.Equal(test.expStdout, string(result.Stdout))
				assert.Equal(test.expExit, result.ExitCode)
			}
			me.AssertExpectations(t)
			mr.AssertExpectations(t)
		})
	}
}
