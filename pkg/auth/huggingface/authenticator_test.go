package huggingface

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitox-e2e/internal/shared/cmdexec"
	"vitox-e2e/pkg/auth"
)

func TestAuthenticatorHost(t *testing.T) {
	a := New(nil, nil, nil)
	if a.Host() != "huggingface" {
		t.Errorf("Host() = %v, want huggingface", a.Host())
	}
}

func TestAuthenticate_EmptyTokenIsAnonymous(t *testing.T) {
	mock := cmdexec.NewMockExecutor()
	a := New(cmdexec.NewRunner(mock, nil), nil, nil)

	state, err := a.Authenticate(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, auth.AuthStateAnonymous, state)
	assert.Empty(t, mock.Calls(), "no login command expected without a token")
}

func TestAuthenticate_TokenRunsLoginOnce(t *testing.T) {
	mock := cmdexec.NewMockExecutor()
	a := New(cmdexec.NewRunner(mock, nil), nil, nil)

	state, err := a.Authenticate(context.Background(), "hf_abc123")
	require.NoError(t, err)
	assert.Equal(t, auth.AuthStateAuthenticated, state)

	calls := mock.CallsMatching("login")
	require.Len(t, calls, 1)
	assert.True(t, calls[0].HasArg("hf_abc123"))
	assert.True(t, calls[0].HasArg("--add-to-git-credential"))
}

func TestAuthenticate_RejectedToken(t *testing.T) {
	mock := cmdexec.NewMockExecutor().Fail("login", 1)
	a := New(cmdexec.NewRunner(mock, nil), nil, nil)

	state, err := a.Authenticate(context.Background(), "hf_invalid")
	require.Error(t, err)
	assert.Equal(t, auth.AuthStateFailed, state)
	assert.True(t, errors.Is(err, cmdexec.ErrMandatoryStep))
	assert.NotContains(t, err.Error(), "hf_invalid")
}
